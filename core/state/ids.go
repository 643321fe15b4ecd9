package state

import "github.com/gofrs/uuid/v5"

// NewID returns a prefixed entity identifier, e.g. "user-6f1c...".
func NewID(prefix string) string {
	return prefix + "-" + uuid.Must(uuid.NewV4()).String()
}
