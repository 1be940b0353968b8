// File: internal/services/user_services/auth_service.go
package user_services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/venkyai/venky-chat/internal/domain"
	"github.com/venkyai/venky-chat/internal/repository/user"
)

// Logger matches services.Logger without importing the parent package.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// Sentinel errors map to field-level messages at the handler boundary.
var (
	ErrUnknownAccount = errors.New("no account found with this email")
	ErrWrongPassword  = errors.New("incorrect password")
	ErrMalformedEmail = errors.New("invalid email address")
	ErrEmailTaken     = errors.New("email already in use")
	ErrUsernameTaken  = errors.New("username already taken")
)

type AuthService struct {
	userRepo     user.UserRepository
	jwtSecretKey string
	adminEmail   string
	logger       Logger
}

func NewAuthService(userRepo user.UserRepository, jwtSecretKey, adminEmail string, logger Logger) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		jwtSecretKey: jwtSecretKey,
		adminEmail:   adminEmail,
		logger:       logger,
	}
}

// Register creates a new account. The privileged admin account is the
// one whose email matches the configured admin email.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if !domain.ValidEmail(email) {
		return nil, ErrMalformedEmail
	}
	if len(username) < 3 {
		return nil, errors.New("username must be at least 3 characters")
	}

	if existing, err := s.userRepo.FindByEmail(ctx, email); err == nil && existing != nil {
		s.logger.Warn("registration failed - email already exists", "existing_user_id", existing.ID)
		return nil, ErrEmailTaken
	}
	if existing, err := s.userRepo.FindByUsername(ctx, username); err == nil && existing != nil {
		s.logger.Warn("registration failed - username already exists", "existing_user_id", existing.ID)
		return nil, ErrUsernameTaken
	}

	newUser := &domain.User{
		Username: username,
		Email:    email,
		IsAdmin:  s.adminEmail != "" && email == strings.ToLower(s.adminEmail),
	}
	if err := newUser.HashPassword(password); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	created, err := s.userRepo.Create(ctx, newUser)
	if err != nil {
		s.logger.Error("user creation failed", "error", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", created.ID, "is_admin", created.IsAdmin)
	return created, nil
}

// Login authenticates by email and password and returns the user plus
// a signed JWT.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !domain.ValidEmail(email) {
		return nil, "", ErrMalformedEmail
	}

	account, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		s.logger.Warn("login failed - user not found", "error", "user_not_found")
		return nil, "", ErrUnknownAccount
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)); err != nil {
		s.logger.Warn("login failed - invalid password", "user_id", account.ID)
		return nil, "", ErrWrongPassword
	}

	token, err := s.generateJWTToken(account)
	if err != nil {
		s.logger.Error("JWT token generation failed", "error", err, "user_id", account.ID)
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("login successful", "user_id", account.ID, "is_admin", account.IsAdmin)
	return account, token, nil
}

// IsPrivileged reports whether the user may issue admin commands.
// Satisfies assistant.AdminPolicy.
func (s *AuthService) IsPrivileged(ctx context.Context, userID uint) bool {
	account, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return false
	}
	return account.IsAdmin
}

func (s *AuthService) generateJWTToken(account *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub": account.ID,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecretKey))
}

// ValidateJWTToken validates a JWT token and returns the user ID.
func (s *AuthService) ValidateJWTToken(tokenString string) (uint, error) {
	if tokenString == "" {
		return 0, errors.New("empty token")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecretKey), nil
	})
	if err != nil {
		return 0, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		if userIDFloat, ok := claims["sub"].(float64); ok {
			return uint(userIDFloat), nil
		}
	}
	return 0, errors.New("invalid token")
}
