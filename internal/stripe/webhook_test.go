// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/canonical/subscription-service/internal/logging"
	"github.com/canonical/subscription-service/internal/monitoring"
	"github.com/canonical/subscription-service/internal/tracing"
)

const testWebhookSecret = "whsec_test"

func signPayload(payload []byte, secret string, ts time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(ts.Unix(), 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func newTestClient() *Client {
	return NewClient(
		Config{APIKey: "sk_test", WebhookSecret: testWebhookSecret},
		tracing.NewNoopTracer(),
		monitoring.NewNoopMonitor(),
		logging.NewNoopLogger(),
	)
}

func TestConstructEvent(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"customer.subscription.updated","data":{"object":{"id":"sub_1","customer":"cus_1","status":"active"}}}`)

	client := newTestClient()

	event, err := client.ConstructEvent(payload, signPayload(payload, testWebhookSecret, time.Now()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if event.Type != EventSubscriptionUpdated {
		t.Errorf("expected type %q, got %q", EventSubscriptionUpdated, event.Type)
	}

	sub, err := event.Subscription()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.ID != "sub_1" || sub.CustomerID != "cus_1" || sub.Status != StatusActive {
		t.Errorf("unexpected subscription payload: %+v", sub)
	}
}

func TestConstructEventRejections(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"customer.subscription.updated"}`)
	client := newTestClient()

	testCases := []struct {
		name      string
		sigHeader string
	}{
		{"missing header", ""},
		{"malformed header", "not-a-signature"},
		{"no signature field", fmt.Sprintf("t=%d", time.Now().Unix())},
		{"wrong secret", signPayload(payload, "whsec_other", time.Now())},
		{"stale timestamp", signPayload(payload, testWebhookSecret, time.Now().Add(-time.Hour))},
		{"future timestamp", signPayload(payload, testWebhookSecret, time.Now().Add(time.Hour))},
		{"signature over different payload", signPayload([]byte(`{"id":"evt_2"}`), testWebhookSecret, time.Now())},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := client.ConstructEvent(payload, tc.sigHeader); !errors.Is(err, ErrSignatureVerification) {
				t.Errorf("expected ErrSignatureVerification, got %v", err)
			}
		})
	}
}

func TestConstructEventSecondSignatureAccepted(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"customer.subscription.deleted"}`)
	client := newTestClient()

	now := time.Now()
	valid := signPayload(payload, testWebhookSecret, now)
	// Key rotation sends multiple v1 entries; any match passes.
	header := fmt.Sprintf("t=%d,v1=%s,%s", now.Unix(), hex.EncodeToString(make([]byte, 32)), valid[len(fmt.Sprintf("t=%d,", now.Unix())):])

	if _, err := client.ConstructEvent(payload, header); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
