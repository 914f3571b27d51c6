package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopfront/internal/models"
	"shopfront/internal/tokens"
	"shopfront/internal/transport"
)

var testSecret = []byte("test-jwt-secret")

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	return &AuthService{
		Repo:      newTestRepo(t),
		JWTSecret: testSecret,
	}
}

func TestAuthService_RegisterLoginRoundTrip(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, transport.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	require.NotEmpty(t, reg.Token)
	assert.Equal(t, RoleUser, reg.Role)

	login, err := svc.Login(ctx, transport.LoginRequest{
		Email:    "alice@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	claims, err := tokens.Parse(login.Token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, RoleUser, claims.Role)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, reg.UserID, id)
}

func TestAuthService_RegisterStoresAdminRole(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)

	session, err := svc.Register(context.Background(), transport.RegisterRequest{
		Username: "root",
		Email:    "root@example.com",
		Password: "secret123",
		Role:     RoleAdmin,
	})
	require.NoError(t, err)

	claims, err := tokens.Parse(session.Token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.True(t, session.IsAdmin())
}

func TestAuthService_RegisterDuplicate(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	first := transport.RegisterRequest{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "secret123",
	}
	_, err := svc.Register(ctx, first)
	require.NoError(t, err)

	tests := []struct {
		name string
		req  transport.RegisterRequest
	}{
		{name: "same email", req: transport.RegisterRequest{Username: "bob2", Email: "bob@example.com", Password: "secret123"}},
		{name: "same username", req: transport.RegisterRequest{Username: "bob", Email: "other@example.com", Password: "secret123"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUserExists)
		})
	}

	var count int64
	require.NoError(t, svc.Repo.DB.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  transport.RegisterRequest
	}{
		{name: "empty username", req: transport.RegisterRequest{Email: "a@example.com", Password: "secret123"}},
		{name: "bad email", req: transport.RegisterRequest{Username: "a", Email: "not-an-email", Password: "secret123"}},
		{name: "short password", req: transport.RegisterRequest{Username: "a", Email: "a@example.com", Password: "nope"}},
		{name: "unknown role", req: transport.RegisterRequest{Username: "a", Email: "a@example.com", Password: "secret123", Role: "owner"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	var count int64
	require.NoError(t, svc.Repo.DB.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestAuthService_LoginInvalidCredentialsAreUniform(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, transport.RegisterRequest{
		Username: "carol",
		Email:    "carol@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	_, wrongPassword := svc.Login(ctx, transport.LoginRequest{Email: "carol@example.com", Password: "wrong-pass"})
	_, unknownEmail := svc.Login(ctx, transport.LoginRequest{Email: "nobody@example.com", Password: "secret123"})

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	// No distinguishing signal between the two failure modes.
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}
