package service

import (
	"context"
	"errors"
	"testing"

	"warehouse-backend/internal/apperr"
	"warehouse-backend/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestLoginIssuesToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	env := newTestEnv()
	ctx := context.Background()
	auth := NewAuthService(env.userRepo)

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.DefaultCost)
	require.NoError(t, err)
	require.NoError(t, env.userRepo.Create(ctx, &model.User{
		Username: "maria",
		Password: string(hash),
		Role:     "manager",
	}))

	resp, err := auth.Login(ctx, LoginRequest{Username: "maria", Password: "s3cret"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	parsed, err := jwt.Parse(resp.Token, func(*jwt.Token) (interface{}, error) {
		return []byte("default_super_secret_key"), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	require.Equal(t, "manager", claims["role"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	auth := NewAuthService(env.userRepo)

	hash, _ := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.DefaultCost)
	require.NoError(t, env.userRepo.Create(ctx, &model.User{
		Username: "maria", Password: string(hash), Role: "staff",
	}))

	_, err := auth.Login(ctx, LoginRequest{Username: "maria", Password: "wrong"})
	require.Error(t, err)
	require.True(t, errors.Is(err, apperr.ErrValidation))

	_, unknownErr := auth.Login(ctx, LoginRequest{Username: "nobody", Password: "s3cret"})
	require.Error(t, unknownErr)
	// unknown user and bad password are indistinguishable to the caller
	require.Equal(t, err.Error(), unknownErr.Error())
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	t.Setenv("ADMIN_USERNAME", "")
	t.Setenv("ADMIN_PASSWORD", "")

	env := newTestEnv()
	ctx := context.Background()
	auth := NewAuthService(env.userRepo)

	require.NoError(t, auth.EnsureAdmin(ctx))
	admin, err := env.userRepo.FindByUsername(ctx, "admin")
	require.NoError(t, err)
	require.Equal(t, "admin", admin.Role)

	require.NoError(t, auth.EnsureAdmin(ctx))
	_, err = auth.Login(ctx, LoginRequest{Username: "admin", Password: "admin123"})
	require.NoError(t, err)
}
