// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"

	jwt "github.com/golang-jwt/jwt/v5"
	gomock "go.uber.org/mock/gomock"

	"github.com/canonical/subscription-service/internal/logging"
	"github.com/canonical/subscription-service/internal/monitoring"
	"github.com/canonical/subscription-service/internal/password"
	"github.com/canonical/subscription-service/internal/storage"
	"github.com/canonical/subscription-service/internal/token"
	"github.com/canonical/subscription-service/internal/tracing"
	"github.com/canonical/subscription-service/internal/types"
)

//go:generate mockgen -build_flags=--mod=mod -package auth -destination ./mock_auth.go -source=./interfaces.go

func sessionClaims(subject string) *token.SessionClaims {
	return &token.SessionClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: subject}}
}

func newTestService(t *testing.T, ctrl *gomock.Controller) (*Service, *MockStorageInterface, *MockTokenCodecInterface) {
	t.Helper()

	mockStorage := NewMockStorageInterface(ctrl)
	mockCodec := NewMockTokenCodecInterface(ctrl)

	service := NewService(
		mockStorage,
		mockCodec,
		tracing.NewNoopTracer(),
		monitoring.NewNoopMonitor(),
		logging.NewNoopLogger(),
	)

	return service, mockStorage, mockCodec
}

func TestSignUpCreatesOwnerTenant(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, mockStorage, mockCodec := newTestService(t, ctrl)
	ctx := context.Background()

	account := &types.Account{ID: 7, Email: "owner@example.com", Role: types.RoleOwner}
	tenant := &types.Tenant{ID: 3, Name: "owner@example.com's Team"}

	mockStorage.EXPECT().
		CreateAccount(gomock.Any(), "owner@example.com", "", gomock.Any(), types.RoleOwner).
		DoAndReturn(func(_ context.Context, _, _, digest, _ string) (*types.Account, error) {
			if !password.Verify("s3cret-pass", digest) {
				t.Errorf("stored digest does not verify the original password")
			}
			return account, nil
		})
	mockStorage.EXPECT().CreateTenant(gomock.Any(), "owner@example.com's Team").Return(tenant, nil)
	mockStorage.EXPECT().AddMember(gomock.Any(), tenant.ID, account.ID, types.RoleOwner).Return(int64(1), nil)
	mockStorage.EXPECT().
		AppendActivity(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, record *types.ActivityRecord) (int64, error) {
			if record.TenantID != tenant.ID {
				t.Errorf("expected activity for tenant %d, got %d", tenant.ID, record.TenantID)
			}
			if record.AccountID == nil || *record.AccountID != account.ID {
				t.Errorf("expected activity for account %d, got %v", account.ID, record.AccountID)
			}
			return 1, nil
		}).
		Times(2)
	mockCodec.EXPECT().Sign(account).Return("signed-token", nil)

	got, signed, err := service.SignUp(ctx, &SignUpParams{
		Email:     "owner@example.com",
		Password:  "s3cret-pass",
		IPAddress: "203.0.113.9",
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != account {
		t.Fatalf("expected account %v, got %v", account, got)
	}
	if signed != "signed-token" {
		t.Fatalf("expected signed token, got %q", signed)
	}
}

func TestSignUpWithInvitationJoinsExistingTenant(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, mockStorage, mockCodec := newTestService(t, ctrl)
	ctx := context.Background()

	inviteID := int64(11)
	invitation := &types.Invitation{ID: inviteID, TenantID: 5, Email: "joiner@example.com", Role: types.RoleMember}
	account := &types.Account{ID: 8, Email: "joiner@example.com", Role: types.RoleMember}

	actions := []types.ActivityKind{}

	mockStorage.EXPECT().GetPendingInvitation(gomock.Any(), inviteID, "joiner@example.com").Return(invitation, nil)
	mockStorage.EXPECT().
		CreateAccount(gomock.Any(), "joiner@example.com", "Joiner", gomock.Any(), types.RoleMember).
		Return(account, nil)
	mockStorage.EXPECT().AcceptInvitation(gomock.Any(), inviteID).Return(nil)
	mockStorage.EXPECT().AddMember(gomock.Any(), invitation.TenantID, account.ID, types.RoleMember).Return(int64(2), nil)
	mockStorage.EXPECT().
		AppendActivity(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, record *types.ActivityRecord) (int64, error) {
			actions = append(actions, record.Action)
			return 1, nil
		}).
		Times(2)
	mockCodec.EXPECT().Sign(account).Return("signed-token", nil)

	_, _, err := service.SignUp(ctx, &SignUpParams{
		Email:    "joiner@example.com",
		Password: "s3cret-pass",
		Name:     "Joiner",
		InviteID: &inviteID,
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(actions) != 2 || actions[0] != types.ActivityAcceptInvitation || actions[1] != types.ActivitySignUp {
		t.Fatalf("expected [accept_invitation sign_up] activities, got %v", actions)
	}
}

func TestSignUpErrors(t *testing.T) {
	inviteID := int64(42)

	tests := []struct {
		name     string
		params   *SignUpParams
		setup    func(mockStorage *MockStorageInterface)
		expected error
	}{
		{
			name:   "duplicate email",
			params: &SignUpParams{Email: "dup@example.com", Password: "s3cret-pass"},
			setup: func(mockStorage *MockStorageInterface) {
				mockStorage.EXPECT().
					CreateAccount(gomock.Any(), "dup@example.com", "", gomock.Any(), types.RoleOwner).
					Return(nil, storage.ErrDuplicateKey)
			},
			expected: ErrEmailTaken,
		},
		{
			name:   "unknown invitation",
			params: &SignUpParams{Email: "joiner@example.com", Password: "s3cret-pass", InviteID: &inviteID},
			setup: func(mockStorage *MockStorageInterface) {
				mockStorage.EXPECT().
					GetPendingInvitation(gomock.Any(), inviteID, "joiner@example.com").
					Return(nil, storage.ErrNotFound)
			},
			expected: ErrInvitationInvalid,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service, mockStorage, _ := newTestService(t, ctrl)
			test.setup(mockStorage)

			_, _, err := service.SignUp(context.Background(), test.params)

			if !errors.Is(err, test.expected) {
				t.Fatalf("expected %v, got %v", test.expected, err)
			}
		})
	}
}

func TestSignInSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, mockStorage, mockCodec := newTestService(t, ctrl)
	ctx := context.Background()

	digest, err := password.Hash("s3cret-pass")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	account := &types.Account{ID: 7, Email: "owner@example.com", PasswordHash: digest}
	tenant := &types.Tenant{ID: 3}

	mockStorage.EXPECT().GetAccountByEmail(gomock.Any(), "owner@example.com").Return(account, nil)
	mockStorage.EXPECT().GetTenantByAccountID(gomock.Any(), account.ID).Return(tenant, nil)
	mockStorage.EXPECT().
		AppendActivity(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, record *types.ActivityRecord) (int64, error) {
			if record.Action != types.ActivitySignIn {
				t.Errorf("expected sign_in activity, got %s", record.Action)
			}
			if record.IPAddress != "203.0.113.9" {
				t.Errorf("expected recorded address 203.0.113.9, got %q", record.IPAddress)
			}
			return 1, nil
		})
	mockCodec.EXPECT().Sign(account).Return("signed-token", nil)

	got, signed, err := service.SignIn(ctx, "owner@example.com", "s3cret-pass", "203.0.113.9")

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != account || signed != "signed-token" {
		t.Fatalf("expected account and token, got %v %q", got, signed)
	}
}

func TestSignInWithoutTenantSkipsLedger(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, mockStorage, mockCodec := newTestService(t, ctrl)

	digest, err := password.Hash("s3cret-pass")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	account := &types.Account{ID: 7, Email: "drifter@example.com", PasswordHash: digest}

	mockStorage.EXPECT().GetAccountByEmail(gomock.Any(), "drifter@example.com").Return(account, nil)
	mockStorage.EXPECT().GetTenantByAccountID(gomock.Any(), account.ID).Return(nil, storage.ErrNotFound)
	mockCodec.EXPECT().Sign(account).Return("signed-token", nil)

	_, _, err = service.SignIn(context.Background(), "drifter@example.com", "s3cret-pass", "")

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestSignInRejectionsAreUniform(t *testing.T) {
	digest, err := password.Hash("s3cret-pass")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	tests := []struct {
		name  string
		setup func(mockStorage *MockStorageInterface)
	}{
		{
			name: "unknown account",
			setup: func(mockStorage *MockStorageInterface) {
				mockStorage.EXPECT().
					GetAccountByEmail(gomock.Any(), "owner@example.com").
					Return(nil, storage.ErrNotFound)
			},
		},
		{
			name: "wrong password",
			setup: func(mockStorage *MockStorageInterface) {
				mockStorage.EXPECT().
					GetAccountByEmail(gomock.Any(), "owner@example.com").
					Return(&types.Account{ID: 7, PasswordHash: digest}, nil)
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service, mockStorage, _ := newTestService(t, ctrl)
			test.setup(mockStorage)

			_, _, err := service.SignIn(context.Background(), "owner@example.com", "wrong-pass", "")

			if !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestValidateSession(t *testing.T) {
	account := &types.Account{ID: 7, Email: "owner@example.com"}

	tests := []struct {
		name     string
		setup    func(mockStorage *MockStorageInterface, mockCodec *MockTokenCodecInterface)
		expected error
	}{
		{
			name: "valid token and live account",
			setup: func(mockStorage *MockStorageInterface, mockCodec *MockTokenCodecInterface) {
				mockCodec.EXPECT().Verify("raw").Return(sessionClaims("7"), nil)
				mockStorage.EXPECT().GetAccountByID(gomock.Any(), int64(7)).Return(account, nil)
			},
			expected: nil,
		},
		{
			name: "rejected token",
			setup: func(_ *MockStorageInterface, mockCodec *MockTokenCodecInterface) {
				mockCodec.EXPECT().Verify("raw").Return(nil, errors.New("bad signature"))
			},
			expected: ErrSessionInvalid,
		},
		{
			name: "token subject not numeric",
			setup: func(_ *MockStorageInterface, mockCodec *MockTokenCodecInterface) {
				mockCodec.EXPECT().Verify("raw").Return(sessionClaims("not-a-number"), nil)
			},
			expected: ErrSessionInvalid,
		},
		{
			name: "account deleted after issuance",
			setup: func(mockStorage *MockStorageInterface, mockCodec *MockTokenCodecInterface) {
				mockCodec.EXPECT().Verify("raw").Return(sessionClaims("7"), nil)
				mockStorage.EXPECT().GetAccountByID(gomock.Any(), int64(7)).Return(nil, storage.ErrNotFound)
			},
			expected: ErrAccountNotFound,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service, mockStorage, mockCodec := newTestService(t, ctrl)
			test.setup(mockStorage, mockCodec)

			got, err := service.ValidateSession(context.Background(), "raw")

			if test.expected == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if got != account {
					t.Fatalf("expected account %v, got %v", account, got)
				}
				return
			}
			if !errors.Is(err, test.expected) {
				t.Fatalf("expected %v, got %v", test.expected, err)
			}
		})
	}
}

func TestGetTenantForAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, mockStorage, _ := newTestService(t, ctrl)

	mockStorage.EXPECT().GetTenantByAccountID(gomock.Any(), int64(7)).Return(nil, storage.ErrNotFound)

	_, err := service.GetTenantForAccount(context.Background(), 7)

	if !errors.Is(err, ErrNoTenant) {
		t.Fatalf("expected ErrNoTenant, got %v", err)
	}
}

func TestSignUpStorageFailurePropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, mockStorage, _ := newTestService(t, ctrl)

	boom := fmt.Errorf("connection reset")
	mockStorage.EXPECT().
		CreateAccount(gomock.Any(), "owner@example.com", "", gomock.Any(), types.RoleOwner).
		Return(nil, boom)

	_, _, err := service.SignUp(context.Background(), &SignUpParams{Email: "owner@example.com", Password: "s3cret-pass"})

	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped storage error, got %v", err)
	}
}
