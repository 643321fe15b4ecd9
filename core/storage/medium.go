// Package storage provides the local key-value medium the command network
// persists into. One key holds the serialized system document, a second key
// holds the initial-credentials-shown flag.
package storage

import "context"

// Medium is a minimal key-value persistence surface. Implementations must
// make Set a full atomic overwrite of the key's value.
type Medium interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	// UsedBytes reports the total size of all stored values.
	UsedBytes(ctx context.Context) (int64, error)
	Close() error
}

// Well-known keys.
const (
	KeySystemState      = "FALCON_STATE_V3"
	KeyCredentialsShown = "FALCON_CREDENTIALS_SHOWN"
)
