package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/rizanep/waqthecombackend1/internal/domain"
	"github.com/rizanep/waqthecombackend1/internal/infrastructure/email"
	"github.com/rizanep/waqthecombackend1/internal/repository"
	"github.com/rizanep/waqthecombackend1/pkg/auth"
	"github.com/rizanep/waqthecombackend1/pkg/mylogger"
	"github.com/rizanep/waqthecombackend1/pkg/validator"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

const resetTokenTTL = 30 * time.Minute

type RegisterInput struct {
	Username string
	Name     string
	Phone    string
	Email    string
	Password string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, string, error)
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
	ForgotPassword(ctx context.Context, emailAddr string) error
	ResetPassword(ctx context.Context, token, password string) error
	// HashPassword validates the password against the policy and returns its
	// bcrypt hash.
	HashPassword(password string) (string, error)
}

type authService struct {
	userRepo   repository.UserRepository
	tokenStore repository.TokenStore
	sender     email.Sender
	validator  validator.Validator
	logger     *zap.Logger
}

func NewAuthService(
	userRepo repository.UserRepository,
	tokenStore repository.TokenStore,
	sender email.Sender,
	validator validator.Validator,
	logger *zap.Logger,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		tokenStore: tokenStore,
		sender:     sender,
		validator:  validator,
		logger:     logger,
	}
}

func (s *authService) HashPassword(password string) (string, error) {
	if err := s.validator.ValidatePassword(password); err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return "", fmt.Errorf("error hashing password: %w", err)
	}

	return string(hash), nil
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if err := s.validator.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	hashedPass, err := bcrypt.GenerateFromPassword([]byte(input.Password), 12)
	if err != nil {
		mylogger.Error(
			ctx,
			s.logger,
			"Error hashing password",
			zap.String("username", input.Username),
			zap.Error(err),
		)

		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &domain.User{
		Username:     input.Username,
		Name:         input.Name,
		Phone:        input.Phone,
		Email:        input.Email,
		Role:         "customer",
		Active:       true,
		PasswordHash: string(hashedPass),
	}

	if _, err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserAlreadyExists) {
			mylogger.Info(
				ctx,
				s.logger,
				"User already exists",
				zap.String("username", input.Username),
			)

			return nil, err
		}

		return nil, fmt.Errorf("error creating user: %w", err)
	}

	mylogger.Info(
		ctx,
		s.logger,
		"User registered ✅",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username),
	)

	return user, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (string, string, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		mylogger.Warn(
			ctx,
			s.logger,
			"Login for unknown user",
			zap.String("username", username),
		)

		return "", "", ErrInvalidCredentials
	}

	if user.Blocked || !user.Active {
		return "", "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		mylogger.Warn(
			ctx,
			s.logger,
			"Invalid credentials",
			zap.String("username", username),
		)

		return "", "", ErrInvalidCredentials
	}

	accessToken, refreshToken, err := auth.GenerateTokens(user.ID, user.Username, user.Role)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate tokens: %w", err)
	}

	return accessToken, refreshToken, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	claims, err := auth.ValidateToken(refreshToken, true)
	if err != nil {
		mylogger.Warn(
			ctx,
			s.logger,
			"Error validating refresh token",
			zap.Error(err),
		)

		return "", "", ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return "", "", ErrInvalidCredentials
	}

	if user.Blocked || !user.Active {
		return "", "", ErrInvalidCredentials
	}

	return auth.GenerateTokens(user.ID, user.Username, user.Role)
}

func (s *authService) ForgotPassword(ctx context.Context, emailAddr string) error {
	user, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Do not reveal whether the email is registered.
			mylogger.Info(
				ctx,
				s.logger,
				"Forgot password for unknown email",
				zap.String("email", emailAddr),
			)

			return nil
		}

		return err
	}

	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return fmt.Errorf("error reading random bytes: %w", err)
	}

	token := base64.RawURLEncoding.EncodeToString(b)

	if err := s.tokenStore.SaveResetToken(ctx, token, user.Username, resetTokenTTL); err != nil {
		return err
	}

	if err := s.sender.SendForgotPasswordEmail(ctx, user.Email, token); err != nil {
		return fmt.Errorf("error sending reset email: %w", err)
	}

	return nil
}

func (s *authService) ResetPassword(ctx context.Context, token, password string) error {
	if err := s.validator.ValidatePassword(password); err != nil {
		return err
	}

	username, err := s.tokenStore.ConsumeResetToken(ctx, token)
	if err != nil {
		return err
	}

	hashedPass, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, username, string(hashedPass)); err != nil {
		mylogger.Error(
			ctx,
			s.logger,
			"Error resetting password",
			zap.String("username", username),
			zap.Error(err),
		)

		return err
	}

	mylogger.Info(
		ctx,
		s.logger,
		"Password reset ✅",
		zap.String("username", username),
	)

	return nil
}
