// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package token signs and verifies stateless session tokens.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/canonical/subscription-service/internal/logging"
	"github.com/canonical/subscription-service/internal/types"
)

// SessionLifetime is the fixed validity window of an issued session token.
const SessionLifetime = 7 * 24 * time.Hour

// ErrInvalidToken is the uniform verification failure. Callers cannot
// distinguish a bad signature from an expired or malformed token; the
// distinct cause is logged internally only.
var ErrInvalidToken = errors.New("invalid session token")

// SessionClaims is the self-contained claim set carried by a session token.
// Possession of a validly signed token implies authority; there is no
// server-side revocation.
type SessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

// AccountID parses the subject claim back into the account identifier.
func (c *SessionClaims) AccountID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

type Codec struct {
	signingKey []byte

	logger logging.LoggerInterface
}

// NewCodec wraps the process-wide signing secret. The key is injected once at
// startup and never leaves the codec.
func NewCodec(signingKey []byte, logger logging.LoggerInterface) *Codec {
	return &Codec{
		signingKey: signingKey,
		logger:     logger,
	}
}

func (c *Codec) Sign(account *types.Account) (string, error) {
	now := time.Now()

	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(account.ID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionLifetime)),
		},
		Email: account.Email,
		Role:  account.Role,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return signed, nil
}

// Verify checks signature integrity and expiration. Every failure collapses
// into ErrInvalidToken.
func (c *Codec) Verify(raw string) (*SessionClaims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.signingKey, nil
	}, jwt.WithExpirationRequired())

	if err != nil {
		c.logger.Debugf("session token rejected: %v", err)
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok || !parsed.Valid {
		c.logger.Debug("session token rejected: claims not decodable")
		return nil, ErrInvalidToken
	}

	return claims, nil
}
