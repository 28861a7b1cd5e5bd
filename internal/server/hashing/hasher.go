// Package hashing provides one-way password hashing used to store and
// verify credentials. The interface keeps the service layer independent of
// the concrete algorithm.
package hashing

// PasswordHasher hashes plaintext passwords into salted digests and checks
// candidates against stored digests.
type PasswordHasher interface {
	// Hash generates a salted digest from a plaintext password.
	Hash(password string) (string, error)

	// Check reports whether the plaintext password matches the digest.
	Check(password, digest string) bool
}
