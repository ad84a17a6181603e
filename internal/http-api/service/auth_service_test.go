package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/AlexIbby/ourmovies/internal/config"
	"github.com/AlexIbby/ourmovies/internal/http-api/repository"
)

func newAuthService(db *gorm.DB) AuthService {
	return NewAuthService(repository.NewUserRepository(db), &config.Config{
		JWTSecret:       "0123456789abcdef0123456789abcdef",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	})
}

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alex", "correct horse battery")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "correct horse battery", user.Password, "password must be stored hashed")

	_, err = svc.Register(ctx, "alex", "another password")
	assert.True(t, errors.Is(err, ErrNameInUse))

	access, refresh, logged, err := svc.Login(ctx, "alex", "correct horse battery")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)

	claims, err := svc.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alex", claims.Username)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alex", "correct horse battery")
	require.NoError(t, err)

	_, _, _, err = svc.Login(ctx, "alex", "wrong")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))

	_, _, _, err = svc.Login(ctx, "nobody", "whatever")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
}

func TestRefreshTokenFlow(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alex", "correct horse battery")
	require.NoError(t, err)
	access, refresh, _, err := svc.Login(ctx, "alex", "correct horse battery")
	require.NoError(t, err)

	// a refresh token can never authenticate a request directly
	_, err = svc.ValidateToken(refresh)
	assert.True(t, errors.Is(err, ErrInvalidToken))

	// and an access token can never mint a new one
	_, err = svc.RefreshAccessToken(ctx, access)
	assert.True(t, errors.Is(err, ErrInvalidToken))

	newAccess, err := svc.RefreshAccessToken(ctx, refresh)
	require.NoError(t, err)
	claims, err := svc.ValidateToken(newAccess)
	require.NoError(t, err)
	assert.Equal(t, "alex", claims.Username)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	_, err := svc.ValidateToken("not.a.token")
	assert.True(t, errors.Is(err, ErrInvalidToken))
}
