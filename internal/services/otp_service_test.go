package services

import (
	"context"
	"testing"
	"time"

	"github.com/nabin-thapa/gighub/internal/clock"
	"github.com/nabin-thapa/gighub/internal/domain/otp"
	"github.com/nabin-thapa/gighub/internal/domain/user"
	"github.com/nabin-thapa/gighub/internal/pkg/errors"
	"github.com/nabin-thapa/gighub/internal/testutil"
)

func newOTPFixture(t *testing.T) (otp.Service, *testutil.MockOTPRepository, *testutil.MockUserRepository, *testutil.MockMailer, *clock.Fixed) {
	t.Helper()
	mockOTPs := testutil.NewMockOTPRepository()
	mockUsers := testutil.NewMockUserRepository()
	mockMailer := &testutil.MockMailer{}
	clk := testutil.NewFixedClock()
	service := NewOTPService(mockOTPs, mockUsers, mockMailer, clk, testutil.NewTestLogger())

	mockUsers.Users[1] = &user.User{ID: 1, Email: "dev@example.com", Role: user.RoleFreelancer}
	mockUsers.NextID = 2
	return service, mockOTPs, mockUsers, mockMailer, clk
}

func TestOTPService_Send(t *testing.T) {
	service, mockOTPs, _, mockMailer, clk := newOTPFixture(t)

	if err := service.Send(context.Background(), 1, "dev@example.com"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if len(mockMailer.Sent) != 1 {
		t.Fatalf("sent %d emails, want 1", len(mockMailer.Sent))
	}
	if mockMailer.Sent[0].To != "dev@example.com" {
		t.Errorf("email to = %s, want dev@example.com", mockMailer.Sent[0].To)
	}

	var stored *otp.Code
	for _, c := range mockOTPs.Codes {
		stored = c
	}
	if stored == nil {
		t.Fatal("Send() stored no code")
	}
	if len(stored.Code) != 6 {
		t.Errorf("code length = %d, want 6", len(stored.Code))
	}
	if !stored.ExpiresAt.Equal(clk.Now().Add(otp.CodeTTL)) {
		t.Errorf("code expires_at = %v, want %v", stored.ExpiresAt, clk.Now().Add(otp.CodeTTL))
	}
}

func TestOTPService_SendInvalidatesPriorCode(t *testing.T) {
	service, mockOTPs, _, _, _ := newOTPFixture(t)
	ctx := context.Background()

	if err := service.Send(ctx, 1, "dev@example.com"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	firstCode := mockOTPs.Codes[1].Code

	if err := service.Send(ctx, 1, "dev@example.com"); err != nil {
		t.Fatalf("second Send() error = %v", err)
	}

	err := service.Verify(ctx, 1, firstCode)
	if !errors.IsCode(err, errors.ErrCodeOTPInvalid) {
		t.Errorf("Verify() with superseded code error = %v, want %s", err, errors.ErrCodeOTPInvalid)
	}
}

func TestOTPService_Verify(t *testing.T) {
	service, mockOTPs, mockUsers, _, clk := newOTPFixture(t)
	ctx := context.Background()

	if err := service.Send(ctx, 1, "dev@example.com"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	code := mockOTPs.Codes[1].Code

	t.Run("wrong code", func(t *testing.T) {
		err := service.Verify(ctx, 1, "000000x")
		if !errors.IsCode(err, errors.ErrCodeOTPInvalid) {
			t.Errorf("Verify() error = %v, want %s", err, errors.ErrCodeOTPInvalid)
		}
	})

	t.Run("valid code verifies account", func(t *testing.T) {
		if err := service.Verify(ctx, 1, code); err != nil {
			t.Fatalf("Verify() error = %v", err)
		}
		if !mockUsers.Users[1].IsVerified {
			t.Error("Verify() did not mark the account verified")
		}
	})

	t.Run("code is single use", func(t *testing.T) {
		err := service.Verify(ctx, 1, code)
		if !errors.IsCode(err, errors.ErrCodeOTPInvalid) {
			t.Errorf("repeated Verify() error = %v, want %s", err, errors.ErrCodeOTPInvalid)
		}
	})

	t.Run("expired code", func(t *testing.T) {
		if err := service.Send(ctx, 1, "dev@example.com"); err != nil {
			t.Fatalf("Send() error = %v", err)
		}
		var fresh string
		for _, c := range mockOTPs.Codes {
			if !c.Used {
				fresh = c.Code
			}
		}
		clk.Advance(otp.CodeTTL + time.Second)
		err := service.Verify(ctx, 1, fresh)
		if !errors.IsCode(err, errors.ErrCodeOTPInvalid) {
			t.Errorf("Verify() after expiry error = %v, want %s", err, errors.ErrCodeOTPInvalid)
		}
	})
}
