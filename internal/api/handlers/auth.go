package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/nabin-thapa/gighub/internal/api/dto"
	"github.com/nabin-thapa/gighub/internal/auth"
	"github.com/nabin-thapa/gighub/internal/config"
	"github.com/nabin-thapa/gighub/internal/domain/otp"
	"github.com/nabin-thapa/gighub/internal/domain/user"
	"github.com/nabin-thapa/gighub/internal/pkg/errors"
	"github.com/nabin-thapa/gighub/internal/pkg/logger"
	"github.com/nabin-thapa/gighub/internal/pkg/utils"
	"github.com/nabin-thapa/gighub/internal/pkg/validator"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	userService user.Service
	otpService  otp.Service
	config      *config.Config
	logger      *logger.Logger
	validator   *validator.Validator
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	userService user.Service,
	otpService otp.Service,
	cfg *config.Config,
	log *logger.Logger,
	val *validator.Validator,
) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		otpService:  otpService,
		config:      cfg,
		logger:      log,
		validator:   val,
	}
}

func roleFromString(s string) user.Role {
	switch s {
	case "client":
		return user.RoleClient
	case "freelancer":
		return user.RoleFreelancer
	default:
		return user.Role(0)
	}
}

func userDTO(u *user.User) *dto.UserDTO {
	return &dto.UserDTO{
		ID:         u.ID,
		Email:      u.Email,
		Username:   u.Username,
		Role:       u.Role.String(),
		IsVerified: u.IsVerified,
	}
}

// Register handles user registration
// @Summary User registration
// @Description Register a new client or freelancer account and send a verification code
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration details"
// @Success 201 {object} dto.UserDTO "User successfully registered"
// @Failure 400 {object} utils.ErrorResponse "Invalid request or validation error"
// @Failure 409 {object} utils.ErrorResponse "Email already registered"
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	newUser, err := h.userService.Register(r.Context(), req.Email, req.Username, req.Password, roleFromString(req.Role))
	if err != nil {
		utils.WriteAppError(w, err, "Failed to register user")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusCreated,
		"Account created. Check your email for a verification code.", userDTO(newUser))
}

// Login handles user login
// @Summary User login
// @Description Authenticate user with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.AuthResponse "Successfully authenticated"
// @Failure 400 {object} utils.ErrorResponse "Invalid request"
// @Failure 401 {object} utils.ErrorResponse "Invalid credentials"
// @Failure 403 {object} utils.ErrorResponse "Email not verified"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	authenticatedUser, err := h.userService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.WithFields(map[string]interface{}{
			"email": req.Email,
		}).Warn("Authentication failed")
		utils.WriteAppError(w, err, "Authentication failed")
		return
	}

	tokens, err := auth.MintTokens(
		authenticatedUser.ID,
		authenticatedUser.Email,
		int(authenticatedUser.Role),
		h.config.Auth.JWTSecret,
		h.config.Auth.AccessTokenExpiry,
		h.config.Auth.RefreshTokenExpiry,
	)
	if err != nil {
		h.logger.ErrorWithErr(err, "Failed to generate tokens")
		utils.WriteError(w, errors.Internal("Failed to generate tokens", err))
		return
	}

	h.setTokenCookies(w, tokens)

	h.logger.WithFields(map[string]interface{}{
		"user_id": authenticatedUser.ID,
	}).Info("User logged in")

	utils.WriteSuccess(w, http.StatusOK, dto.AuthResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         userDTO(authenticatedUser),
	})
}

// VerifyOTP handles email verification
// @Summary Verify email
// @Description Consume a verification code and mark the account verified
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.VerifyOTPRequest true "Verification code"
// @Success 200 {object} utils.SuccessResponse "Email verified"
// @Failure 400 {object} utils.ErrorResponse "Invalid or expired code"
// @Router /auth/verify [post]
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	if err := h.otpService.Verify(r.Context(), req.UserID, req.Code); err != nil {
		utils.WriteAppError(w, err, "Failed to verify email")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Email verified", nil)
}

// Refresh handles token refresh
// @Summary Refresh tokens
// @Description Exchange a valid refresh token for a new token pair
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.AuthResponse "New token pair"
// @Failure 401 {object} utils.ErrorResponse "Invalid or expired refresh token"
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	tokenStr := req.RefreshToken
	if tokenStr == "" {
		if cookie, err := r.Cookie("refreshToken"); err == nil {
			tokenStr = cookie.Value
		}
	}
	if tokenStr == "" {
		utils.WriteError(w, errors.Unauthorized("Missing refresh token"))
		return
	}

	claims, err := auth.ParseClaims(tokenStr, h.config.Auth.JWTSecret)
	if err != nil {
		utils.WriteError(w, errors.Unauthorized("Invalid or expired refresh token"))
		return
	}

	// Re-read the account so revoked or deleted users stop refreshing.
	u, err := h.userService.GetByID(r.Context(), claims.UserID)
	if err != nil {
		utils.WriteError(w, errors.Unauthorized("Account no longer active"))
		return
	}

	tokens, err := auth.MintTokens(
		u.ID, u.Email, int(u.Role),
		h.config.Auth.JWTSecret,
		h.config.Auth.AccessTokenExpiry,
		h.config.Auth.RefreshTokenExpiry,
	)
	if err != nil {
		utils.WriteError(w, errors.Internal("Failed to generate tokens", err))
		return
	}

	h.setTokenCookies(w, tokens)

	utils.WriteSuccess(w, http.StatusOK, dto.AuthResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         userDTO(u),
	})
}

// Logout handles user logout
// @Summary User logout
// @Description Clear authentication cookies
// @Tags Auth
// @Success 200 {object} utils.SuccessResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	for _, name := range []string{"accessToken", "refreshToken"} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			HttpOnly: true,
			Secure:   h.config.Server.Environment == "production",
			SameSite: http.SameSiteStrictMode,
			Path:     "/",
			MaxAge:   -1,
		})
	}
	utils.WriteSuccessWithMessage(w, http.StatusOK, "Logged out", nil)
}

func (h *AuthHandler) setTokenCookies(w http.ResponseWriter, tokens auth.TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     "accessToken",
		Value:    tokens.AccessToken,
		HttpOnly: true,
		Secure:   h.config.Server.Environment == "production",
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   int(h.config.Auth.AccessTokenExpiry.Seconds()),
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "refreshToken",
		Value:    tokens.RefreshToken,
		HttpOnly: true,
		Secure:   h.config.Server.Environment == "production",
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   int(h.config.Auth.RefreshTokenExpiry.Seconds()),
	})
}
