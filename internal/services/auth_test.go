package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegisterHashesPasswordAndLowercasesEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.auth.Register(ctx, &RegisterRequest{
		Username: "alice",
		Email:    "Alice@Example.COM",
		Password: "secret123",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "secret123", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret123")))
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Register(ctx, &RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = env.auth.Register(ctx, &RegisterRequest{Username: "other", Email: "alice@example.com", Password: "secret123"})
	assert.Equal(t, KindConflict, KindOf(err))

	_, err = env.auth.Register(ctx, &RegisterRequest{Username: "alice", Email: "fresh@example.com", Password: "secret123"})
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	registered, err := env.auth.Register(ctx, &RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)

	user, err := env.auth.Login(ctx, &LoginRequest{Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	_, err = env.auth.Login(ctx, &LoginRequest{Email: "alice@example.com", Password: "wrong"})
	assert.Equal(t, KindUnauthorized, KindOf(err))

	_, err = env.auth.Login(ctx, &LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.Equal(t, KindNotFound, KindOf(err))
}
