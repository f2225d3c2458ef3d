package services

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/nabin-thapa/gighub/internal/domain/user"
	"github.com/nabin-thapa/gighub/internal/pkg/errors"
	"github.com/nabin-thapa/gighub/internal/testutil"
)

func newUserFixture(t *testing.T) (user.Service, *testutil.MockUserRepository, *testutil.MockMailer) {
	t.Helper()
	mockUsers := testutil.NewMockUserRepository()
	mockOTPs := testutil.NewMockOTPRepository()
	mockMailer := &testutil.MockMailer{}
	log := testutil.NewTestLogger()
	otpSvc := NewOTPService(mockOTPs, mockUsers, mockMailer, testutil.NewFixedClock(), log)
	service := NewUserService(mockUsers, otpSvc, bcrypt.MinCost, log)
	return service, mockUsers, mockMailer
}

func TestUserService_Register(t *testing.T) {
	service, mockUsers, mockMailer := newUserFixture(t)

	tests := []struct {
		name     string
		email    string
		username string
		password string
		role     user.Role
		wantErr  string
	}{
		{
			name:     "register freelancer",
			email:    "dev@example.com",
			username: "dev",
			password: "s3cret-pass",
			role:     user.RoleFreelancer,
		},
		{
			name:     "register client",
			email:    "client@example.com",
			username: "client",
			password: "s3cret-pass",
			role:     user.RoleClient,
		},
		{
			name:     "admin role rejected",
			email:    "boss@example.com",
			username: "boss",
			password: "s3cret-pass",
			role:     user.RoleAdmin,
			wantErr:  errors.ErrCodeBadRequest,
		},
		{
			name:     "unknown role rejected",
			email:    "nobody@example.com",
			username: "nobody",
			password: "s3cret-pass",
			role:     user.Role(9),
			wantErr:  errors.ErrCodeBadRequest,
		},
		{
			name:     "duplicate email rejected",
			email:    "dev@example.com",
			username: "dev2",
			password: "s3cret-pass",
			role:     user.RoleFreelancer,
			wantErr:  errors.ErrCodeConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := service.Register(context.Background(), tt.email, tt.username, tt.password, tt.role)

			if tt.wantErr != "" {
				if !errors.IsCode(err, tt.wantErr) {
					t.Fatalf("Register() error = %v, want code %s", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Register() error = %v", err)
			}
			if u.ID == 0 {
				t.Error("Register() left id unset")
			}
			if u.IsVerified {
				t.Error("Register() created a pre-verified account")
			}
			if u.PasswordHash == tt.password {
				t.Error("Register() stored the plaintext password")
			}
		})
	}

	if len(mockUsers.Users) != 2 {
		t.Errorf("stored %d users, want 2", len(mockUsers.Users))
	}
	// Each successful registration mails a verification code.
	if len(mockMailer.Sent) != 2 {
		t.Errorf("sent %d verification emails, want 2", len(mockMailer.Sent))
	}
}

func TestUserService_Authenticate(t *testing.T) {
	service, mockUsers, _ := newUserFixture(t)

	ctx := context.Background()
	registered, err := service.Register(ctx, "dev@example.com", "dev", "s3cret-pass", user.RoleFreelancer)
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	t.Run("unverified account rejected", func(t *testing.T) {
		_, err := service.Authenticate(ctx, "dev@example.com", "s3cret-pass")
		if !errors.IsCode(err, errors.ErrCodeForbidden) {
			t.Errorf("Authenticate() error = %v, want %s", err, errors.ErrCodeForbidden)
		}
	})

	mockUsers.Users[registered.ID].IsVerified = true

	t.Run("valid credentials", func(t *testing.T) {
		u, err := service.Authenticate(ctx, "dev@example.com", "s3cret-pass")
		if err != nil {
			t.Fatalf("Authenticate() error = %v", err)
		}
		if u.ID != registered.ID {
			t.Errorf("Authenticate() id = %d, want %d", u.ID, registered.ID)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := service.Authenticate(ctx, "dev@example.com", "wrong")
		if !errors.IsCode(err, errors.ErrCodeUnauthorized) {
			t.Errorf("Authenticate() error = %v, want %s", err, errors.ErrCodeUnauthorized)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		// Unknown accounts fail the same way wrong passwords do.
		_, err := service.Authenticate(ctx, "ghost@example.com", "s3cret-pass")
		if !errors.IsCode(err, errors.ErrCodeUnauthorized) {
			t.Errorf("Authenticate() error = %v, want %s", err, errors.ErrCodeUnauthorized)
		}
	})
}
