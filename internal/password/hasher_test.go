// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package password

import (
	"strings"
	"testing"
)

func TestHashVerifyRoundTrip(t *testing.T) {
	digest, err := Hash("pw123456!")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !Verify("pw123456!", digest) {
		t.Error("expected digest to verify against the original password")
	}

	if Verify("wrong-password", digest) {
		t.Error("expected digest not to verify against a different password")
	}
}

func TestHashIsSalted(t *testing.T) {
	first, err := Hash("same-password")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := Hash("same-password")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first == second {
		t.Error("expected two hashes of the same password to differ")
	}
}

func TestHashDigestShape(t *testing.T) {
	digest, err := Hash("pw123456!")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parts := strings.Split(digest, "$")
	if len(parts) != 2 {
		t.Fatalf("expected two digest fields, got %d", len(parts))
	}

	if len(parts[0]) != saltLength*2 {
		t.Errorf("expected %d hex chars of salt, got %d", saltLength*2, len(parts[0]))
	}
	if len(parts[1]) != keyLength*2 {
		t.Errorf("expected %d hex chars of key, got %d", keyLength*2, len(parts[1]))
	}
}

func TestVerifyMalformedDigests(t *testing.T) {
	testCases := []struct {
		name   string
		digest string
	}{
		{"empty", ""},
		{"no separator", "deadbeef"},
		{"bad salt hex", "zzzz$deadbeef"},
		{"bad key hex", "deadbeef$zzzz"},
		{"empty salt", "$" + strings.Repeat("ab", 32)},
		{"short key", "deadbeef$abcd"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if Verify("pw123456!", tc.digest) {
				t.Error("expected malformed digest to be treated as mismatch")
			}
		})
	}
}
