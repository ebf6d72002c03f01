// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	gomock "go.uber.org/mock/gomock"

	"github.com/canonical/subscription-service/internal/logging"
	"github.com/canonical/subscription-service/internal/monitoring"
	"github.com/canonical/subscription-service/internal/storage"
	"github.com/canonical/subscription-service/internal/stripe"
	"github.com/canonical/subscription-service/internal/tracing"
	"github.com/canonical/subscription-service/internal/types"
)

//go:generate mockgen -build_flags=--mod=mod -package billing -destination ./mock_billing.go -source=./interfaces.go

func newTestBillingService(t *testing.T, ctrl *gomock.Controller) (*Service, *MockStorageInterface, *MockStripeClientInterface) {
	t.Helper()

	mockStorage := NewMockStorageInterface(ctrl)
	mockStripe := NewMockStripeClientInterface(ctrl)

	service := NewService(
		mockStorage,
		mockStripe,
		Config{
			BaseURL:    "https://billing.example.com",
			PricingURL: "https://www.example.com/pricing",
			TrialDays:  14,
		},
		tracing.NewNoopTracer(),
		monitoring.NewNoopMonitor(),
		logging.NewNoopLogger(),
	)

	return service, mockStorage, mockStripe
}

func subscriptionEvent(t *testing.T, kind string, sub *stripe.Subscription) *stripe.Event {
	t.Helper()

	payload, err := json.Marshal(sub)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	event := &stripe.Event{ID: "evt_1", Type: kind}
	event.Data.Object = payload
	return event
}

func activeSubscription() *stripe.Subscription {
	sub := &stripe.Subscription{ID: "sub_1", CustomerID: "cus_1", Status: stripe.StatusActive}
	sub.Items.Data = []stripe.SubscriptionItem{{
		Price: stripe.Price{ID: "price_1", Product: stripe.Product{ID: "prod_1", Name: "Team Plan"}},
	}}
	return sub
}

func TestInitiateCheckout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, mockStorage, mockStripe := newTestBillingService(t, ctrl)

	account := &types.Account{ID: 7, Email: "owner@example.com"}
	tenant := &types.Tenant{ID: 3, StripeCustomerID: "cus_1"}

	mockStorage.EXPECT().GetTenantByAccountID(gomock.Any(), account.ID).Return(tenant, nil)
	mockStripe.EXPECT().
		CreateCheckoutSession(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params *stripe.CheckoutParams) (*stripe.CheckoutSession, error) {
			if params.PriceID != "price_1" {
				t.Errorf("expected price_1, got %q", params.PriceID)
			}
			if params.CustomerID != "cus_1" {
				t.Errorf("expected existing customer cus_1, got %q", params.CustomerID)
			}
			if params.ClientReferenceID != "7" {
				t.Errorf("expected client reference 7, got %q", params.ClientReferenceID)
			}
			if params.SuccessURL != "https://billing.example.com/api/v0/billing/checkout/callback?session_id={CHECKOUT_SESSION_ID}" {
				t.Errorf("unexpected success URL %q", params.SuccessURL)
			}
			if params.CancelURL != "https://www.example.com/pricing" {
				t.Errorf("unexpected cancel URL %q", params.CancelURL)
			}
			if params.TrialDays != 14 {
				t.Errorf("expected 14 trial days, got %d", params.TrialDays)
			}
			return &stripe.CheckoutSession{ID: "cs_1", URL: "https://checkout.example.com/cs_1"}, nil
		})
	mockStorage.EXPECT().
		AppendActivity(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, record *types.ActivityRecord) (int64, error) {
			if record.Action != types.ActivityCheckoutSessionCreated {
				t.Errorf("expected checkout_session_created activity, got %s", record.Action)
			}
			if record.IPAddress != "203.0.113.9" {
				t.Errorf("expected recorded address 203.0.113.9, got %q", record.IPAddress)
			}
			return 1, nil
		})

	url, err := service.InitiateCheckout(context.Background(), account, "price_1", "203.0.113.9")

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if url != "https://checkout.example.com/cs_1" {
		t.Fatalf("expected checkout URL, got %q", url)
	}
}

func TestInitiateCheckoutWithoutTenant(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, mockStorage, _ := newTestBillingService(t, ctrl)

	mockStorage.EXPECT().GetTenantByAccountID(gomock.Any(), int64(7)).Return(nil, storage.ErrNotFound)

	_, err := service.InitiateCheckout(context.Background(), &types.Account{ID: 7}, "price_1", "")

	if !errors.Is(err, ErrNoTenant) {
		t.Fatalf("expected ErrNoTenant, got %v", err)
	}
}

func TestCompleteCheckoutWritesFullSnapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, mockStorage, mockStripe := newTestBillingService(t, ctrl)

	account := &types.Account{ID: 7}
	tenant := &types.Tenant{ID: 3}

	mockStripe.EXPECT().GetCheckoutSession(gomock.Any(), "cs_1").Return(&stripe.CheckoutSession{
		ID:                "cs_1",
		CustomerID:        "cus_1",
		SubscriptionID:    "sub_1",
		ClientReferenceID: "7",
	}, nil)
	mockStripe.EXPECT().GetSubscription(gomock.Any(), "sub_1").Return(activeSubscription(), nil)
	mockStorage.EXPECT().GetAccountByID(gomock.Any(), int64(7)).Return(account, nil)
	mockStorage.EXPECT().GetTenantByAccountID(gomock.Any(), int64(7)).Return(tenant, nil)
	mockStorage.EXPECT().UpdateTenantBillingSnapshot(gomock.Any(), tenant.ID, types.BillingSnapshot{
		CustomerID:     "cus_1",
		SubscriptionID: "sub_1",
		ProductID:      "prod_1",
		PlanName:       "Team Plan",
		Status:         stripe.StatusActive,
	}).Return(nil)
	mockStorage.EXPECT().
		AppendActivity(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, record *types.ActivityRecord) (int64, error) {
			if record.Action != types.ActivityCheckoutCompleted {
				t.Errorf("expected checkout_completed activity, got %s", record.Action)
			}
			return 1, nil
		})

	if err := service.CompleteCheckout(context.Background(), "cs_1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestCompleteCheckoutInvalidStates(t *testing.T) {
	tests := []struct {
		name  string
		setup func(mockStorage *MockStorageInterface, mockStripe *MockStripeClientInterface)
	}{
		{
			name: "session without subscription",
			setup: func(_ *MockStorageInterface, mockStripe *MockStripeClientInterface) {
				mockStripe.EXPECT().GetCheckoutSession(gomock.Any(), "cs_1").Return(&stripe.CheckoutSession{ID: "cs_1"}, nil)
			},
		},
		{
			name: "reference not an account id",
			setup: func(_ *MockStorageInterface, mockStripe *MockStripeClientInterface) {
				mockStripe.EXPECT().GetCheckoutSession(gomock.Any(), "cs_1").Return(&stripe.CheckoutSession{
					ID:                "cs_1",
					SubscriptionID:    "sub_1",
					ClientReferenceID: "not-a-number",
				}, nil)
				mockStripe.EXPECT().GetSubscription(gomock.Any(), "sub_1").Return(activeSubscription(), nil)
			},
		},
		{
			name: "account gone",
			setup: func(mockStorage *MockStorageInterface, mockStripe *MockStripeClientInterface) {
				mockStripe.EXPECT().GetCheckoutSession(gomock.Any(), "cs_1").Return(&stripe.CheckoutSession{
					ID:                "cs_1",
					SubscriptionID:    "sub_1",
					ClientReferenceID: "7",
				}, nil)
				mockStripe.EXPECT().GetSubscription(gomock.Any(), "sub_1").Return(activeSubscription(), nil)
				mockStorage.EXPECT().GetAccountByID(gomock.Any(), int64(7)).Return(nil, storage.ErrNotFound)
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			// No UpdateTenantBillingSnapshot expectation: an invalid
			// state must not mutate anything.
			service, mockStorage, mockStripe := newTestBillingService(t, ctrl)
			test.setup(mockStorage, mockStripe)

			err := service.CompleteCheckout(context.Background(), "cs_1")

			if !errors.Is(err, ErrInvalidState) {
				t.Fatalf("expected ErrInvalidState, got %v", err)
			}
		})
	}
}

func TestCompleteCheckoutUnknownSessionKeepsNotFoundCause(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, _, mockStripe := newTestBillingService(t, ctrl)

	mockStripe.EXPECT().GetCheckoutSession(gomock.Any(), "cs_1").Return(nil, stripe.ErrNotFound)

	err := service.CompleteCheckout(context.Background(), "cs_1")

	if !errors.Is(err, stripe.ErrNotFound) {
		t.Fatalf("expected stripe.ErrNotFound, got %v", err)
	}
	if errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected a lookup miss, got invalid state: %v", err)
	}
}

func TestHandleWebhookRejectsBadSignature(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, _, mockStripe := newTestBillingService(t, ctrl)

	mockStripe.EXPECT().
		ConstructEvent([]byte("payload"), "t=1,v1=bad").
		Return(nil, stripe.ErrSignatureVerification)

	err := service.HandleWebhook(context.Background(), []byte("payload"), "t=1,v1=bad")

	if !errors.Is(err, stripe.ErrSignatureVerification) {
		t.Fatalf("expected ErrSignatureVerification, got %v", err)
	}
}

func TestHandleWebhookReconciliation(t *testing.T) {
	tenant := &types.Tenant{ID: 3, StripeCustomerID: "cus_1"}

	canceled := &stripe.Subscription{ID: "sub_1", CustomerID: "cus_1", Status: stripe.StatusCanceled}

	tests := []struct {
		name             string
		event            func(t *testing.T) *stripe.Event
		expectedSnapshot *types.BillingSnapshot
		expectedAction   types.ActivityKind
	}{
		{
			name: "active subscription overwrites snapshot",
			event: func(t *testing.T) *stripe.Event {
				return subscriptionEvent(t, stripe.EventSubscriptionUpdated, activeSubscription())
			},
			expectedSnapshot: &types.BillingSnapshot{
				CustomerID:     "cus_1",
				SubscriptionID: "sub_1",
				ProductID:      "prod_1",
				PlanName:       "Team Plan",
				Status:         stripe.StatusActive,
			},
			expectedAction: types.ActivityStatusActive,
		},
		{
			name: "canceled subscription clears plan identity",
			event: func(t *testing.T) *stripe.Event {
				return subscriptionEvent(t, stripe.EventSubscriptionDeleted, canceled)
			},
			expectedSnapshot: &types.BillingSnapshot{
				CustomerID: "cus_1",
				Status:     stripe.StatusCanceled,
			},
			expectedAction: types.ActivityStatusCanceled,
		},
		{
			name: "unmodelled status is acknowledged without mutation",
			event: func(t *testing.T) *stripe.Event {
				return subscriptionEvent(t, stripe.EventSubscriptionUpdated,
					&stripe.Subscription{ID: "sub_1", CustomerID: "cus_1", Status: "past_due"})
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service, mockStorage, mockStripe := newTestBillingService(t, ctrl)

			event := test.event(t)
			mockStripe.EXPECT().ConstructEvent(gomock.Any(), gomock.Any()).Return(event, nil)
			mockStorage.EXPECT().GetTenantByStripeCustomerID(gomock.Any(), "cus_1").Return(tenant, nil)

			if test.expectedSnapshot != nil {
				mockStorage.EXPECT().
					UpdateTenantBillingSnapshot(gomock.Any(), tenant.ID, *test.expectedSnapshot).
					Return(nil)
				mockStorage.EXPECT().
					AppendActivity(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, record *types.ActivityRecord) (int64, error) {
						if record.Action != test.expectedAction {
							t.Errorf("expected %s activity, got %s", test.expectedAction, record.Action)
						}
						if record.AccountID != nil {
							t.Errorf("expected system-attributed activity, got account %v", record.AccountID)
						}
						return 1, nil
					})
			}

			err := service.HandleWebhook(context.Background(), []byte("payload"), "t=1,v1=sig")

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestHandleWebhookActiveEventIsIdempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, mockStorage, mockStripe := newTestBillingService(t, ctrl)

	tenant := &types.Tenant{ID: 3, StripeCustomerID: "cus_1"}
	event := subscriptionEvent(t, stripe.EventSubscriptionUpdated, activeSubscription())

	var snapshots []types.BillingSnapshot

	mockStripe.EXPECT().ConstructEvent(gomock.Any(), gomock.Any()).Return(event, nil).Times(2)
	mockStorage.EXPECT().GetTenantByStripeCustomerID(gomock.Any(), "cus_1").Return(tenant, nil).Times(2)
	mockStorage.EXPECT().
		UpdateTenantBillingSnapshot(gomock.Any(), tenant.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, snapshot types.BillingSnapshot) error {
			snapshots = append(snapshots, snapshot)
			return nil
		}).
		Times(2)
	mockStorage.EXPECT().AppendActivity(gomock.Any(), gomock.Any()).Return(int64(1), nil).Times(2)

	for i := 0; i < 2; i++ {
		if err := service.HandleWebhook(context.Background(), []byte("payload"), "t=1,v1=sig"); err != nil {
			t.Fatalf("expected no error on application %d, got %v", i+1, err)
		}
	}

	if len(snapshots) != 2 {
		t.Fatalf("expected two snapshot writes, got %d", len(snapshots))
	}
	if snapshots[0] != snapshots[1] {
		t.Fatalf("expected identical snapshots, got %+v then %+v", snapshots[0], snapshots[1])
	}
	if snapshots[0].Status != stripe.StatusActive {
		t.Fatalf("expected active status, got %q", snapshots[0].Status)
	}
}

func TestHandleWebhookUnknownCustomerIsDropped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, mockStorage, mockStripe := newTestBillingService(t, ctrl)

	event := subscriptionEvent(t, stripe.EventSubscriptionUpdated, activeSubscription())
	mockStripe.EXPECT().ConstructEvent(gomock.Any(), gomock.Any()).Return(event, nil)
	mockStorage.EXPECT().GetTenantByStripeCustomerID(gomock.Any(), "cus_1").Return(nil, storage.ErrNotFound)

	err := service.HandleWebhook(context.Background(), []byte("payload"), "t=1,v1=sig")

	if err != nil {
		t.Fatalf("expected dropped event to be acknowledged, got %v", err)
	}
}

func TestHandleWebhookIgnoresOtherEventKinds(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, _, mockStripe := newTestBillingService(t, ctrl)

	mockStripe.EXPECT().
		ConstructEvent(gomock.Any(), gomock.Any()).
		Return(&stripe.Event{ID: "evt_1", Type: "invoice.paid"}, nil)

	err := service.HandleWebhook(context.Background(), []byte("payload"), "t=1,v1=sig")

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestHandleWebhookLedgerFailureDoesNotFail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, mockStorage, mockStripe := newTestBillingService(t, ctrl)

	tenant := &types.Tenant{ID: 3, StripeCustomerID: "cus_1"}
	event := subscriptionEvent(t, stripe.EventSubscriptionUpdated, activeSubscription())

	mockStripe.EXPECT().ConstructEvent(gomock.Any(), gomock.Any()).Return(event, nil)
	mockStorage.EXPECT().GetTenantByStripeCustomerID(gomock.Any(), "cus_1").Return(tenant, nil)
	mockStorage.EXPECT().UpdateTenantBillingSnapshot(gomock.Any(), tenant.ID, gomock.Any()).Return(nil)
	mockStorage.EXPECT().AppendActivity(gomock.Any(), gomock.Any()).Return(int64(0), fmt.Errorf("connection reset"))

	err := service.HandleWebhook(context.Background(), []byte("payload"), "t=1,v1=sig")

	if err != nil {
		t.Fatalf("expected ledger failure to be swallowed, got %v", err)
	}
}
