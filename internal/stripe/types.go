// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package stripe

import (
	"encoding/json"
)

// Subscription statuses this service reconciles. The vocabulary belongs to
// the processor; values outside it are left untouched by the reconciler.
const (
	StatusActive   = "active"
	StatusTrialing = "trialing"
	StatusCanceled = "canceled"
	StatusUnpaid   = "unpaid"
)

// Event kinds dispatched by the reconciler. Other kinds are acknowledged
// without effect.
const (
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"
)

type CheckoutParams struct {
	PriceID           string
	CustomerID        string
	ClientReferenceID string
	SuccessURL        string
	CancelURL         string
	TrialDays         int64
}

type CheckoutSession struct {
	ID                string `json:"id"`
	URL               string `json:"url"`
	CustomerID        string `json:"customer"`
	SubscriptionID    string `json:"subscription"`
	ClientReferenceID string `json:"client_reference_id"`
}

type Product struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Price struct {
	ID      string  `json:"id"`
	Product Product `json:"product"`
}

type SubscriptionItem struct {
	Price Price `json:"price"`
}

type Subscription struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer"`
	Status     string `json:"status"`
	Items      struct {
		Data []SubscriptionItem `json:"data"`
	} `json:"items"`
}

// Event is a processor lifecycle notification. Data.Object is decoded lazily
// by kind; unrecognized kinds carry an opaque payload.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// Subscription decodes the event payload as a subscription object.
func (e *Event) Subscription() (*Subscription, error) {
	var sub Subscription
	if err := json.Unmarshal(e.Data.Object, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}
