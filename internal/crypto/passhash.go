// Package crypto implements server-side password hashing and verification.
package crypto

import (
	"crypto/rand"
	"crypto/subtle"

	"golang.org/x/crypto/argon2"
)

// Params holds Argon2id cost parameters.
type Params struct {
	Time    uint32 // iterations
	MemKiB  uint32
	Threads uint8
	KeyLen  uint32
}

// DefaultParams are tuned for interactive server-side logins.
var DefaultParams = Params{Time: 3, MemKiB: 64 * 1024, Threads: 1, KeyLen: 32}

// SaltLen is the per-account salt size in bytes.
const SaltLen = 16

// Hasher derives and verifies password hashes with fixed parameters.
type Hasher struct {
	p Params
}

// NewHasher returns a Hasher; zero fields fall back to DefaultParams.
func NewHasher(p Params) *Hasher {
	if p.Time == 0 {
		p.Time = DefaultParams.Time
	}
	if p.MemKiB == 0 {
		p.MemKiB = DefaultParams.MemKiB
	}
	if p.Threads == 0 {
		p.Threads = DefaultParams.Threads
	}
	if p.KeyLen == 0 {
		p.KeyLen = DefaultParams.KeyLen
	}
	return &Hasher{p: p}
}

// RandBytes returns n cryptographically secure random bytes.
func RandBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	return b, err
}

// Hash returns a fresh salt and the Argon2id hash of password under it.
func (h *Hasher) Hash(password []byte) (hash, salt []byte, err error) {
	salt, err = RandBytes(SaltLen)
	if err != nil {
		return nil, nil, err
	}
	return h.derive(password, salt), salt, nil
}

// Verify reports whether password matches expected under salt, in constant time.
func (h *Hasher) Verify(password, salt, expected []byte) bool {
	if len(expected) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare(h.derive(password, salt), expected) == 1
}

func (h *Hasher) derive(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, h.p.Time, h.p.MemKiB, h.p.Threads, h.p.KeyLen)
}
