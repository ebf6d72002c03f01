// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrSignatureVerification is returned for any webhook authenticity failure:
// missing header, malformed header, stale timestamp or signature mismatch.
var ErrSignatureVerification = errors.New("webhook signature verification failed")

// signatureTolerance bounds how old a signed payload may be, limiting replay.
const signatureTolerance = 5 * time.Minute

// ConstructEvent authenticates the raw payload against the signature header
// and decodes it. Verification fails closed: no event is returned unless the
// signature over the exact payload bytes checks out.
//
// The header carries a unix timestamp and one or more HMAC-SHA256 signatures
// in the form "t=<ts>,v1=<hex>"; the signed message is "<ts>.<payload>".
func (c *Client) ConstructEvent(payload []byte, sigHeader string) (*Event, error) {
	if err := verifySignature(payload, sigHeader, c.webhookSecret, time.Now()); err != nil {
		return nil, err
	}

	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("failed to decode event payload: %w", err)
	}

	return &event, nil
}

func verifySignature(payload []byte, sigHeader, secret string, now time.Time) error {
	if sigHeader == "" {
		return ErrSignatureVerification
	}

	var timestamp int64
	var signatures [][]byte

	for _, pair := range strings.Split(sigHeader, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(pair), "=")
		if !found {
			continue
		}

		switch key {
		case "t":
			ts, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return ErrSignatureVerification
			}
			timestamp = ts
		case "v1":
			sig, err := hex.DecodeString(value)
			if err != nil {
				continue
			}
			signatures = append(signatures, sig)
		}
	}

	if timestamp == 0 || len(signatures) == 0 {
		return ErrSignatureVerification
	}

	if now.Sub(time.Unix(timestamp, 0)).Abs() > signatureTolerance {
		return ErrSignatureVerification
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := mac.Sum(nil)

	for _, sig := range signatures {
		if hmac.Equal(expected, sig) {
			return nil
		}
	}

	return ErrSignatureVerification
}
