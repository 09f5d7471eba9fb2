// internal/services/auth_service.go
package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/swapkaro/swapkaro-backend/internal/cache"
	"github.com/swapkaro/swapkaro-backend/internal/config"
	"github.com/swapkaro/swapkaro-backend/internal/models"
	"github.com/swapkaro/swapkaro-backend/internal/repository"
	"github.com/swapkaro/swapkaro-backend/internal/utils"
)

const otpDigits = 6

type AuthService struct {
	users         repository.UserRepository
	tokens        cache.Store
	notifications *NotificationService
	cfg           *config.Config
	generateOTP   func() (string, error)
}

type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Username string `json:"username" validate:"required,username"`
	Email    string `json:"email" validate:"required,email"`
	Mobile   string `json:"mobile" validate:"required,mobile"`
	Password string `json:"password" validate:"required,strong_password"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

type ResendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"` // in seconds
}

func NewAuthService(users repository.UserRepository, tokens cache.Store, notifications *NotificationService, cfg *config.Config) *AuthService {
	return &AuthService{
		users:         users,
		tokens:        tokens,
		notifications: notifications,
		cfg:           cfg,
		generateOTP:   func() (string, error) { return utils.GenerateOTP(otpDigits) },
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) otpTTL() time.Duration {
	return time.Duration(s.cfg.Marketplace.OTPTTLMinutes) * time.Minute
}

func (s *AuthService) otpCooldown() time.Duration {
	return time.Duration(s.cfg.Marketplace.OTPResendCooldownSeconds) * time.Second
}

// Signup creates an unverified account and emails it a one-time code.
func (s *AuthService) Signup(ctx context.Context, req *SignupRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}
	email := normalizeEmail(req.Email)

	conflicts, err := s.users.FindConflicts(ctx, email, req.Username, req.Mobile)
	if err != nil {
		return nil, unexpected("failed to check existing users", err)
	}
	if err := conflictError(conflicts, email, req.Username, req.Mobile); err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     strings.TrimSpace(req.Name),
		Username: req.Username,
		Email:    email,
		Mobile:   req.Mobile,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, unexpected("failed to hash password", err)
	}

	code, err := s.issueOTP(user)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, unexpected("failed to create user", err)
	}

	s.markCooldown(ctx, user.ID)
	s.sendOTP(user, code)
	return user, nil
}

func conflictError(conflicts []models.User, email, username, mobile string) error {
	for _, existing := range conflicts {
		if strings.EqualFold(existing.Email, email) {
			return ErrEmailTaken
		}
	}
	for _, existing := range conflicts {
		if existing.Username == username {
			return ErrUsernameTaken
		}
	}
	for _, existing := range conflicts {
		if existing.Mobile == mobile {
			return ErrMobileTaken
		}
	}
	return nil
}

func (s *AuthService) VerifyOTP(ctx context.Context, req *VerifyOTPRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, notFoundOr(err, ErrUserNotFound, "failed to load user")
	}
	if user.IsVerified {
		return nil, ErrAlreadyVerified
	}

	switch err := user.VerifyOTP(req.OTP, time.Now()); {
	case errors.Is(err, models.ErrOTPExpired):
		return nil, ErrOTPExpired
	case err != nil:
		return nil, ErrInvalidOTP
	}

	user.IsVerified = true
	user.ClearOTP()
	return s.issueTokens(ctx, user)
}

func (s *AuthService) ResendOTP(ctx context.Context, req *ResendOTPRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return validationError(err)
	}

	user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return notFoundOr(err, ErrUserNotFound, "failed to load user")
	}
	if user.IsVerified {
		return ErrAlreadyVerified
	}

	if s.otpCooldown() > 0 {
		acquired, err := s.tokens.SetNX(ctx, cache.OTPCooldownKey(user.ID.String()), true, s.otpCooldown())
		if err != nil {
			return unexpected("failed to check OTP cooldown", err)
		}
		if !acquired {
			return ErrOTPCooldown
		}
	}

	code, err := s.issueOTP(user)
	if err != nil {
		return err
	}
	if err := s.users.Update(ctx, user); err != nil {
		return unexpected("failed to store OTP", err)
	}

	s.sendOTP(user, code)
	return nil
}

func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, unexpected("failed to load user", err)
	}

	if err := user.CheckPassword(req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsVerified {
		return nil, ErrEmailNotVerified
	}

	now := time.Now()
	user.LastLoginAt = &now
	return s.issueTokens(ctx, user)
}

// RefreshToken rotates the pair. A refresh token is accepted only while it is
// the latest one issued to the user.
func (s *AuthService) RefreshToken(ctx context.Context, req *RefreshTokenRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	userIDStr, err := utils.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, unexpected("failed to load user", err)
	}

	presented := utils.HashString(req.RefreshToken)
	if user.RefreshTokenHash == "" ||
		subtle.ConstantTimeCompare([]byte(presented), []byte(user.RefreshTokenHash)) != 1 {
		return nil, ErrInvalidRefreshToken
	}

	return s.issueTokens(ctx, user)
}

// Logout revokes the access token for the rest of its lifetime and drops the refresh token.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID, claims *utils.JWTClaims) error {
	ttl := claims.Remaining(time.Now())
	if ttl <= 0 {
		ttl = time.Duration(s.cfg.Marketplace.BlacklistFallbackHours) * time.Hour
	}
	if err := s.tokens.Set(ctx, cache.RevokedTokenKey(claims.ID), true, ttl); err != nil {
		return unexpected("failed to revoke token", err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return notFoundOr(err, ErrUserNotFound, "failed to load user")
	}
	user.RefreshTokenHash = ""
	if err := s.users.Update(ctx, user); err != nil {
		return unexpected("failed to clear refresh token", err)
	}
	return nil
}

// IsRevoked reports whether the access token with this id was logged out.
func (s *AuthService) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return s.tokens.Exists(ctx, cache.RevokedTokenKey(tokenID))
}

func (s *AuthService) GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, ErrUserNotFound, "failed to load user")
	}
	return user, nil
}

func (s *AuthService) issueOTP(user *models.User) (string, error) {
	code, err := s.generateOTP()
	if err != nil {
		return "", unexpected("failed to generate OTP", err)
	}
	if err := user.SetOTP(code, time.Now().Add(s.otpTTL())); err != nil {
		return "", unexpected("failed to hash OTP", err)
	}
	return code, nil
}

func (s *AuthService) markCooldown(ctx context.Context, userID uuid.UUID) {
	if s.otpCooldown() <= 0 {
		return
	}
	if err := s.tokens.Set(ctx, cache.OTPCooldownKey(userID.String()), true, s.otpCooldown()); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("Failed to set OTP cooldown")
	}
}

func (s *AuthService) sendOTP(user *models.User, code string) {
	if err := s.notifications.SendOTPEmail(user, code, s.otpTTL()); err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("Failed to send OTP email")
	}
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*AuthResponse, error) {
	accessToken, err := utils.GenerateJWT(user.ID, user.Username, s.cfg.JWT.AccessTokenTTL)
	if err != nil {
		return nil, unexpected("failed to generate access token", err)
	}

	refreshToken, err := utils.GenerateRefreshToken(user.ID, s.cfg.JWT.RefreshTokenTTL)
	if err != nil {
		return nil, unexpected("failed to generate refresh token", err)
	}

	user.RefreshTokenHash = utils.HashString(refreshToken)
	if err := s.users.Update(ctx, user); err != nil {
		return nil, unexpected("failed to save user", err)
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    s.cfg.JWT.AccessTokenTTL * 3600, // Convert hours to seconds
	}, nil
}
