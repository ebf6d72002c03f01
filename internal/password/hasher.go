// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package password derives and verifies salted password digests.
package password

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltLength = 16
	iterations = 100_000
	keyLength  = 32
)

// digestSeparator is not a hex character, so the salt and key fields of a
// digest are unambiguously separable.
const digestSeparator = "$"

// Hash derives a digest from the plaintext with a fresh random salt.
// Two calls with the same plaintext produce different digests.
func Hash(plaintext string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to draw salt: %w", err)
	}

	key := pbkdf2.Key([]byte(plaintext), salt, iterations, keyLength, sha256.New)

	return hex.EncodeToString(salt) + digestSeparator + hex.EncodeToString(key), nil
}

// Verify re-derives the key with the digest's embedded salt and compares in
// constant time. A malformed digest is a mismatch, not an error.
func Verify(plaintext, digest string) bool {
	saltHex, keyHex, found := strings.Cut(digest, digestSeparator)
	if !found {
		return false
	}

	salt, err := hex.DecodeString(saltHex)
	if err != nil || len(salt) == 0 {
		return false
	}

	key, err := hex.DecodeString(keyHex)
	if err != nil || len(key) != keyLength {
		return false
	}

	derived := pbkdf2.Key([]byte(plaintext), salt, iterations, keyLength, sha256.New)

	return subtle.ConstantTimeCompare(derived, key) == 1
}
