// Package auth implements the credential encoding used by the command
// network simulation. The encoding is deterministic and reversible by
// construction: the persisted document must round-trip through export/import
// and login verification must work without any out-of-band secret material.
//
// This is NOT cryptographic password storage. A deployment that needs real
// security must replace EncodePassword with a salted KDF (argon2id or
// equivalent) and migrate stored credentials.
package auth

import (
	"crypto/subtle"
	"encoding/base64"
)

// EncodePassword returns the stored form of a password. The pepper is a
// fixed configuration value appended before encoding.
func EncodePassword(password, pepper string) string {
	return base64.StdEncoding.EncodeToString([]byte(password + "_" + pepper))
}

// VerifyPassword reports whether password matches the stored encoding.
// Comparison is constant-time to keep the call sites uniform, not because
// the encoding resists anything.
func VerifyPassword(password, pepper, stored string) bool {
	expected := EncodePassword(password, pepper)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(stored)) == 1
}
