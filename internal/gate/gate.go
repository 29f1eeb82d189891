// Package gate compares a password with a shared SHA-256 hash.
//
// The comparison only hides the booking form from casual visitors.
// Nothing is protected by it.
package gate

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyPassword ...
var ErrEmptyPassword = errors.New("please enter a password")

// Gate holds the expected password hash. A gate without hash accepts any password.
type Gate struct {
	hash []byte
}

// New parses the hex encoded SHA-256 hash.
func New(hexHash string) (*Gate, error) {
	hexHash = strings.TrimSpace(hexHash)
	if hexHash == "" {
		return &Gate{}, nil
	}
	hash, err := hex.DecodeString(hexHash)
	if err != nil {
		return nil, fmt.Errorf("password hash: %w", err)
	}
	if len(hash) != sha256.Size {
		return nil, fmt.Errorf("password hash has %d bytes, want %d", len(hash), sha256.Size)
	}
	return &Gate{hash: hash}, nil
}

// Check reports whether password matches.
func (g *Gate) Check(password string) (bool, error) {
	if password == "" {
		return false, ErrEmptyPassword
	}
	if g.hash == nil {
		return true, nil
	}
	sum := sha256.Sum256([]byte(password))
	return subtle.ConstantTimeCompare(sum[:], g.hash) == 1, nil
}
