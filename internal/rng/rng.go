// Package rng provides the injectable CSPRNG used by kef.
package rng

import "crypto/rand"

// Source supplies cryptographically strong random bytes behind an
// interface so callers can substitute a deterministic source under test.
type Source interface {
	Fill(buf []byte) error
}

// Default is backed by crypto/rand.
type Default struct{}

// Fill fills buf with cryptographically strong random bytes.
func (Default) Fill(buf []byte) error {
	_, err := rand.Read(buf)
	return err
}

// System is the package-level default source.
var System Source = Default{}
