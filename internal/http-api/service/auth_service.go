package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AlexIbby/ourmovies/internal/config"
	"github.com/AlexIbby/ourmovies/internal/http-api/middleware/auth"
	"github.com/AlexIbby/ourmovies/internal/http-api/models"
	"github.com/AlexIbby/ourmovies/internal/http-api/repository"
)

var (
	ErrNameInUse          = errors.New("username already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Claims are the JWT claims carried by both token types.
type Claims struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (accessToken, refreshToken string, user *models.User, err error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (newAccessToken string, err error)
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	userRepo        *repository.UserRepository
	jwtSecret       string
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{
		userRepo:        userRepo,
		jwtSecret:       cfg.JWTSecret,
		accessTokenTTL:  cfg.AccessTokenTTL,
		refreshTokenTTL: cfg.RefreshTokenTTL,
	}
}

// Register creates a new diary user with a hashed password.
func (s *authService) Register(ctx context.Context, username, password string) (*models.User, error) {
	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, ErrNameInUse
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: username,
		Password: hashedPassword,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates a user and returns access and refresh tokens.
func (s *authService) Login(ctx context.Context, username, password string) (string, string, *models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		// Dummy compare to mitigate timing attacks (always take same time)
		auth.VerifyPassword("$2a$10$7EqJtq98hPqEX7fNZaFWoOHi6VbU5h6K9v8u5rO0m3j0h6dX5r8e", password)
		return "", "", nil, ErrInvalidCredentials
	}

	if err := auth.VerifyPassword(user.Password, password); err != nil {
		return "", "", nil, ErrInvalidCredentials
	}

	accessToken, err := s.generateToken(user, tokenTypeAccess, s.accessTokenTTL)
	if err != nil {
		return "", "", nil, err
	}
	refreshToken, err := s.generateToken(user, tokenTypeRefresh, s.refreshTokenTTL)
	if err != nil {
		return "", "", nil, err
	}
	return accessToken, refreshToken, user, nil
}

// RefreshAccessToken exchanges a valid refresh token for a new access token.
func (s *authService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.parseToken(refreshToken)
	if err != nil || claims.TokenType != tokenTypeRefresh {
		return "", ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return "", ErrInvalidToken
	}
	return s.generateToken(user, tokenTypeAccess, s.accessTokenTTL)
}

// ValidateToken parses and validates an access token.
func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims, err := s.parseToken(tokenString)
	if err != nil || claims.TokenType != tokenTypeAccess {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *authService) generateToken(user *models.User, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    user.ID,
		Username:  user.Username,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) parseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
