package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/liftco/backend/internal/config"
	"github.com/liftco/backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuth(t *testing.T, store *fakeStore, cfg config.AuthConfig) *AuthService {
	t.Helper()
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "jwt-secret"
	}
	svc, err := NewAuthService(store, cfg, nil)
	require.NoError(t, err)
	return svc
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newAuth(t, newFakeStore(), config.AuthConfig{JWTIssuer: "idp", JWTAudience: "authenticated"})

	tok, err := svc.IssueAccessToken(model.AuthUser{AuthID: "auth-1", Email: "a@b.c"}, time.Minute)
	require.NoError(t, err)

	got, err := svc.ParseAccessToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "auth-1", got.AuthID)
	assert.Equal(t, "a@b.c", got.Email)
}

func TestAccessTokenRejected(t *testing.T) {
	svc := newAuth(t, newFakeStore(), config.AuthConfig{})
	other := newAuth(t, newFakeStore(), config.AuthConfig{JWTSecret: "different"})
	withIssuer := newAuth(t, newFakeStore(), config.AuthConfig{JWTIssuer: "idp"})

	expired, err := svc.IssueAccessToken(model.AuthUser{AuthID: "auth-1"}, -time.Minute)
	require.NoError(t, err)
	foreign, err := other.IssueAccessToken(model.AuthUser{AuthID: "auth-1"}, time.Minute)
	require.NoError(t, err)
	noSubject, err := svc.IssueAccessToken(model.AuthUser{}, time.Minute)
	require.NoError(t, err)
	noIssuer, err := svc.IssueAccessToken(model.AuthUser{AuthID: "auth-1"}, time.Minute)
	require.NoError(t, err)

	for name, tok := range map[string]string{"expired": expired, "foreign": foreign, "no-subject": noSubject, "garbage": "abc"} {
		_, err := svc.ParseAccessToken(tok)
		assert.ErrorIs(t, err, ErrUnauthenticated, name)
	}
	_, err = withIssuer.ParseAccessToken(noIssuer)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestNewAuthServiceRequiresSecret(t *testing.T) {
	_, err := NewAuthService(newFakeStore(), config.AuthConfig{JWTSecret: "  "}, nil)
	require.ErrorIs(t, err, ErrMisconfigured)
}

func TestResolveProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("by-auth-id", func(t *testing.T) {
		store := newFakeStore()
		store.addUser(memberID, "auth-1", "Sam")
		got, err := newAuth(t, store, config.AuthConfig{}).ResolveProfile(ctx, &model.AuthUser{AuthID: "auth-1"})
		require.NoError(t, err)
		assert.Equal(t, memberID, got.ID)
	})

	t.Run("by-email-links", func(t *testing.T) {
		store := newFakeStore()
		u := store.addUser(memberID, "", "Sam")
		u.Email = strPtr("Sam@Example.com")
		got, err := newAuth(t, store, config.AuthConfig{}).ResolveProfile(ctx, &model.AuthUser{AuthID: "auth-2", Email: "sam@example.com"})
		require.NoError(t, err)
		assert.Equal(t, memberID, got.ID)
		assert.Equal(t, "auth-2", *store.users[memberID].AuthID)
	})

	t.Run("by-phone-link-failure-is-ignored", func(t *testing.T) {
		store := newFakeStore()
		u := store.addUser(memberID, "", "Sam")
		u.Phone = strPtr("+15550001")
		store.linkErr = errors.New("boom")
		got, err := newAuth(t, store, config.AuthConfig{}).ResolveProfile(ctx, &model.AuthUser{AuthID: "auth-3", Phone: "+15550001"})
		require.NoError(t, err)
		assert.Equal(t, memberID, got.ID)
	})

	t.Run("not-found", func(t *testing.T) {
		_, err := newAuth(t, newFakeStore(), config.AuthConfig{}).ResolveProfile(ctx, &model.AuthUser{AuthID: "x", Email: "nobody@example.com"})
		require.ErrorIs(t, err, ErrProfileNotFound)
	})

	t.Run("store-timeout", func(t *testing.T) {
		store := newFakeStore()
		store.err = context.DeadlineExceeded
		_, err := newAuth(t, store, config.AuthConfig{}).ResolveProfile(ctx, &model.AuthUser{AuthID: "x"})
		require.ErrorIs(t, err, ErrTimeout)
	})
}
