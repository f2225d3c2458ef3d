package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"net/http"

	"github.com/nabin-thapa/gighub/internal/clock"
	"github.com/nabin-thapa/gighub/internal/domain/otp"
	"github.com/nabin-thapa/gighub/internal/domain/user"
	"github.com/nabin-thapa/gighub/internal/mailer"
	"github.com/nabin-thapa/gighub/internal/pkg/errors"
	"github.com/nabin-thapa/gighub/internal/pkg/logger"
)

// OTPService implements otp.Service
type OTPService struct {
	repo     otp.Repository
	userRepo user.Repository
	mailer   mailer.Mailer
	clock    clock.Clock
	logger   *logger.Logger
}

// NewOTPService creates a new email verification service
func NewOTPService(
	repo otp.Repository,
	userRepo user.Repository,
	m mailer.Mailer,
	clk clock.Clock,
	log *logger.Logger,
) otp.Service {
	return &OTPService{
		repo:     repo,
		userRepo: userRepo,
		mailer:   m,
		clock:    clk,
		logger:   log,
	}
}

// Send generates a 6-digit code and emails it. Any earlier unused code
// for the user stops working.
func (s *OTPService) Send(ctx context.Context, userID int64, email string) error {
	code, err := generateCode()
	if err != nil {
		return errors.Internal("Failed to generate verification code", err)
	}

	now := s.clock.Now()
	c := &otp.Code{
		UserID:    userID,
		Code:      code,
		ExpiresAt: now.Add(otp.CodeTTL),
		CreatedAt: now,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return err
	}

	body := fmt.Sprintf("Your GigHub verification code is %s. It expires in %d minutes.",
		code, int(otp.CodeTTL.Minutes()))
	if err := s.mailer.Send(ctx, email, "Verify your email", body); err != nil {
		s.logger.ErrorWithErr(err, "Failed to deliver verification email")
		return errors.Internal("Failed to deliver verification email", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id": userID,
	}).Info("Verification code sent")
	return nil
}

// Verify consumes a code and marks the account verified
func (s *OTPService) Verify(ctx context.Context, userID int64, codeValue string) error {
	now := s.clock.Now()

	c, err := s.repo.FindUsable(ctx, userID, codeValue, now)
	if err != nil {
		return err
	}
	if c == nil {
		return errors.New(errors.ErrCodeOTPInvalid, "Invalid or expired verification code", http.StatusBadRequest)
	}

	if err := s.repo.MarkUsed(ctx, c.ID); err != nil {
		return err
	}

	if err := s.userRepo.MarkVerified(ctx, userID); err != nil {
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id": userID,
	}).Info("Email verified")
	return nil
}

// generateCode returns a random 6-digit numeric code
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
