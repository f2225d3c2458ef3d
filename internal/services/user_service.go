package services

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/nabin-thapa/gighub/internal/domain/otp"
	"github.com/nabin-thapa/gighub/internal/domain/user"
	"github.com/nabin-thapa/gighub/internal/pkg/errors"
	"github.com/nabin-thapa/gighub/internal/pkg/logger"
)

// UserService implements user.Service
type UserService struct {
	repo       user.Repository
	otpService otp.Service
	bcryptCost int
	logger     *logger.Logger
}

// NewUserService creates a new account service
func NewUserService(repo user.Repository, otpService otp.Service, bcryptCost int, log *logger.Logger) user.Service {
	return &UserService{
		repo:       repo,
		otpService: otpService,
		bcryptCost: bcryptCost,
		logger:     log,
	}
}

// Register creates an unverified account and sends a verification code
func (s *UserService) Register(ctx context.Context, email, username, password string, role user.Role) (*user.User, error) {
	if !role.IsValid() || role == user.RoleAdmin {
		return nil, errors.BadRequest("Role must be client or freelancer")
	}

	if existing, err := s.repo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, errors.Conflict("An account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, errors.Internal("Failed to hash password", err)
	}

	u := &user.User{
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		s.logger.ErrorWithErr(err, "Failed to create user")
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id": u.ID,
		"role":    u.Role.String(),
	}).Info("User registered")

	// Verification failure does not roll back registration; the code
	// can be resent.
	if err := s.otpService.Send(ctx, u.ID, u.Email); err != nil {
		s.logger.ErrorWithErr(err, "Failed to send verification code")
	}

	return u, nil
}

// Authenticate checks credentials and returns the account
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*user.User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.IsCode(err, errors.ErrCodeNotFound) {
			return nil, errors.Unauthorized("Invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, errors.Unauthorized("Invalid credentials")
	}

	if !u.IsVerified {
		return nil, errors.Forbidden("Email not verified")
	}

	return u, nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, id int64) (*user.User, error) {
	return s.repo.GetByID(ctx, id)
}
