package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mansoorceksport/fitbuddy/internal/config"
	"github.com/mansoorceksport/fitbuddy/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration, login and access token issuing
type AuthService struct {
	userRepo  domain.UserRepository
	jwtConfig config.JWTConfig
	hashCost  int
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo domain.UserRepository, jwtConfig config.JWTConfig) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtConfig: jwtConfig,
		hashCost:  bcrypt.DefaultCost,
	}
}

// SignupRequest contains the registration params
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate enforces the account field rules
func (r SignupRequest) Validate() error {
	if n := len(r.Username); n < 4 || n > 50 {
		return domain.Invalid("username must be between 4 and 50 characters")
	}
	if n := len(r.Password); n < 6 || n > 32 {
		return domain.Invalid("password must be between 6 and 32 characters")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return domain.Invalid("email is not valid")
	}
	return nil
}

// AuthResponse contains the user and a signed access token
type AuthResponse struct {
	User      *domain.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresIn int64        `json:"expires_in"`
}

// Signup registers a new user and logs them in
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Step 1: Username must be free
	if _, err := s.userRepo.GetByUsername(ctx, req.Username); err == nil {
		return nil, domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	// Step 2: Hash password and create the user
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := &domain.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.respond(user)
}

// Login verifies credentials and issues a new access token
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.respond(user)
}

func (s *AuthService) respond(user *domain.User) (*AuthResponse, error) {
	token, err := s.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResponse{
		User:      user,
		Token:     token,
		ExpiresIn: int64(s.jwtConfig.AccessTokenExpiry.Seconds()),
	}, nil
}

// GenerateAccessToken creates a signed JWT whose subject is the username
func (s *AuthService) GenerateAccessToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := domain.FitBuddyClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtConfig.AccessTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtConfig.Secret))
}
