package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the cost factor for password hashing
const BcryptCost = 10

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token has expired")
	ErrInvalidRole        = errors.New("invalid role")
)

// TokenPair is what a successful sign-in hands back
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// NewUserInput holds the data an administrator supplies for a new account
type NewUserInput struct {
	Email    string
	Password string
	FullName string
	Role     domain.Role
	Company  string
	Phone    string
}

// AuthService issues and inspects session tokens
type AuthService interface {
	Login(ctx context.Context, email, password string) (*TokenPair, *domain.User, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	ValidateToken(tokenString string) (*domain.Session, error)
	CreateUser(ctx context.Context, in NewUserInput) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
}

// Claims is the session token payload
type Claims struct {
	UserID  string      `json:"user_id"`
	Email   string      `json:"email"`
	Role    domain.Role `json:"role"`
	Company string      `json:"company,omitempty"`
	Phone   string      `json:"phone,omitempty"`
	jwt.RegisteredClaims
}

type authService struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	jwtSecret        []byte
	accessTTL        time.Duration
	refreshTTL       time.Duration
	now              func() time.Time
}

// NewAuthService creates a new instance of AuthService
func NewAuthService(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	jwtSecret string,
	accessTTL, refreshTTL time.Duration,
) AuthService {
	return &authService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		jwtSecret:        []byte(jwtSecret),
		accessTTL:        accessTTL,
		refreshTTL:       refreshTTL,
		now:              time.Now,
	}
}

// Login checks credentials and issues a session token plus a refresh token
func (s *authService) Login(ctx context.Context, email, password string) (*TokenPair, *domain.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issue(user)
	if err != nil {
		return nil, nil, err
	}

	refreshToken := &domain.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: s.now().Add(s.refreshTTL),
		CreatedAt: s.now(),
	}
	if err := s.refreshTokenRepo.Create(ctx, refreshToken); err != nil {
		return nil, nil, fmt.Errorf("failed to store refresh token: %w", err)
	}
	pair.RefreshToken = refreshToken.Token

	return pair, user, nil
}

// Refresh mints a new session token from a live refresh token
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	stored, err := s.refreshTokenRepo.FindByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) || errors.Is(err, repository.ErrRefreshTokenRevoked) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to find refresh token: %w", err)
	}

	if s.now().After(stored.ExpiresAt) {
		return nil, ErrTokenExpired
	}

	user, err := s.userRepo.FindByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// the account is gone; the token must not outlive it
			if rerr := s.refreshTokenRepo.Revoke(ctx, refreshToken); rerr != nil && !errors.Is(rerr, repository.ErrRefreshTokenNotFound) {
				return nil, fmt.Errorf("failed to revoke orphaned refresh token: %w", rerr)
			}
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	pair, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	pair.RefreshToken = refreshToken
	return pair, nil
}

// Logout revokes a refresh token. Unknown tokens count as already logged out.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.refreshTokenRepo.Revoke(ctx, refreshToken); err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			return nil
		}
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// ValidateToken decodes a session token
func (s *authService) ValidateToken(tokenString string) (*domain.Session, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}

	return &domain.Session{
		UserID:  claims.UserID,
		Email:   claims.Email,
		Role:    claims.Role,
		Company: claims.Company,
		Phone:   claims.Phone,
	}, nil
}

// CreateUser registers an account with a hashed password
func (s *authService) CreateUser(ctx context.Context, in NewUserInput) (*domain.User, error) {
	if !in.Role.Valid() {
		return nil, ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	user := &domain.User{
		ID:           uuid.New(),
		Email:        normalizeEmail(in.Email),
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(in.FullName),
		Role:         in.Role,
		Company:      strings.TrimSpace(in.Company),
		Phone:        strings.TrimSpace(in.Phone),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// ListUsers returns every account in the auth store
func (s *authService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *authService) issue(user *domain.User) (*TokenPair, error) {
	now := s.now()
	expiresAt := now.Add(s.accessTTL)

	claims := &Claims{
		UserID:  user.ID.String(),
		Email:   user.Email,
		Role:    user.Role,
		Company: user.Company,
		Phone:   user.Phone,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	return &TokenPair{AccessToken: signed, ExpiresAt: expiresAt}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
