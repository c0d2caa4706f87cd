// Package cryptox holds the key-derivation primitives behind the access
// gate. The shared secret is never persisted in clear: only its argon2id
// digest and the salt it was derived with are stored.
package cryptox

import (
	"crypto/subtle"

	"golang.org/x/crypto/argon2"
)

// DeriveSecretHash derives the stored digest for secret under salt using
// argon2id. The parameters are fixed: changing them invalidates every
// persisted auth document.
func DeriveSecretHash(secret []byte, salt []byte) []byte {
	return argon2.IDKey(secret, salt, 1, 64*1024, 4, 32)
}

// VerifySecret reports whether candidate derives to want under salt, in
// constant time with respect to the digest contents.
func VerifySecret(want []byte, candidate []byte, salt []byte) bool {
	got := DeriveSecretHash(candidate, salt)
	return subtle.ConstantTimeCompare(want, got) == 1
}
