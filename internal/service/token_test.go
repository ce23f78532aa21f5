package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/liftco/backend/internal/model"
	"github.com/liftco/backend/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sessionStart = time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)

func newTokenFixture(t *testing.T, caller *model.User) (*TokenService, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	store.addSession(model.WorkoutSession{ID: sessionA, GymID: 7, HostUserID: hostID, Title: "Leg Day", StartTime: sessionStart})
	store.join(sessionA, memberID)

	secret, err := token.NewSecret("s")
	require.NoError(t, err)
	svc, err := NewTokenService(staticProfiles{user: caller}, store, secret, nil)
	require.NoError(t, err)
	return svc, store
}

func TestTokenIssueMatchesDerivation(t *testing.T) {
	svc, _ := newTokenFixture(t, &model.User{ID: memberID})
	now := sessionStart.Add(-time.Minute)
	svc.now = func() time.Time { return now }

	resp, err := svc.Issue(context.Background(), &model.AuthUser{AuthID: "a"}, sessionA)
	require.NoError(t, err)

	secret, _ := token.NewSecret("s")
	want := secret.Derive(memberID, 7, token.WindowIndex(now))
	assert.Equal(t, want, resp.TokenU32)
	assert.Equal(t, token.WindowIndex(now), resp.WindowIndex)
	assert.Equal(t, resp.TokenU32, token.Join(resp.Major, resp.Minor))
	assert.Equal(t, memberID, resp.IBeacon.ProximityUUID)
	assert.Equal(t, resp.Major, resp.IBeacon.Major)
	assert.Equal(t, int64(7), resp.GymID)
}

func TestTokenIssueHostNeedsNoMembership(t *testing.T) {
	svc, _ := newTokenFixture(t, &model.User{ID: hostID})
	svc.now = func() time.Time { return sessionStart }

	_, err := svc.Issue(context.Background(), &model.AuthUser{AuthID: "a"}, sessionA)
	require.NoError(t, err)
}

func TestTokenIssueWindowBoundaries(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		ok   bool
	}{
		{name: "opens-exactly", at: sessionStart.Add(-10 * time.Minute), ok: true},
		{name: "one-second-early", at: sessionStart.Add(-10*time.Minute - time.Second), ok: false},
		{name: "closes-exactly", at: sessionStart.Add(15 * time.Minute), ok: true},
		{name: "one-second-late", at: sessionStart.Add(15*time.Minute + time.Second), ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTokenFixture(t, &model.User{ID: memberID})
			svc.now = func() time.Time { return tt.at }

			_, err := svc.Issue(context.Background(), &model.AuthUser{AuthID: "a"}, sessionA)
			if tt.ok {
				require.NoError(t, err)
				return
			}
			var wc *WindowClosedError
			require.True(t, errors.As(err, &wc))
			assert.Equal(t, sessionStart.Add(-10*time.Minute), wc.OpensAt)
			assert.Equal(t, sessionStart.Add(15*time.Minute), wc.ClosesAt)
			assert.Equal(t, tt.at, wc.Now)
		})
	}
}

func TestTokenIssuePreconditionOrder(t *testing.T) {
	closed := sessionStart.Add(-time.Hour)
	tests := []struct {
		name    string
		caller  *model.AuthUser
		profile staticProfiles
		session string
		want    error
	}{
		{name: "no-caller", caller: nil, profile: staticProfiles{user: &model.User{ID: outsiderID}}, session: sessionA, want: ErrUnauthenticated},
		{name: "bad-session-id", caller: &model.AuthUser{AuthID: "a"}, profile: staticProfiles{user: &model.User{ID: memberID}}, session: "nope", want: ErrInvalidInput},
		{name: "no-profile", caller: &model.AuthUser{AuthID: "a"}, profile: staticProfiles{err: ErrProfileNotFound}, session: sessionB, want: ErrProfileNotFound},
		{name: "unknown-session", caller: &model.AuthUser{AuthID: "a"}, profile: staticProfiles{user: &model.User{ID: outsiderID}}, session: sessionB, want: ErrNotFound},
		{name: "not-member-before-window", caller: &model.AuthUser{AuthID: "a"}, profile: staticProfiles{user: &model.User{ID: outsiderID}}, session: sessionA, want: ErrForbidden},
		{name: "member-window-closed", caller: &model.AuthUser{AuthID: "a"}, profile: staticProfiles{user: &model.User{ID: memberID}}, session: sessionA, want: ErrWindowClosed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTokenFixture(t, &model.User{ID: memberID})
			svc.profiles = tt.profile
			svc.now = func() time.Time { return closed }

			_, err := svc.Issue(context.Background(), tt.caller, tt.session)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestTokenIssueStoreTimeout(t *testing.T) {
	svc, store := newTokenFixture(t, &model.User{ID: memberID})
	store.err = context.DeadlineExceeded

	_, err := svc.Issue(context.Background(), &model.AuthUser{AuthID: "a"}, sessionA)
	require.ErrorIs(t, err, ErrTimeout)
}

func TestNewTokenServiceRequiresSecret(t *testing.T) {
	_, err := NewTokenService(staticProfiles{}, newFakeStore(), token.Secret{}, nil)
	require.ErrorIs(t, err, ErrMisconfigured)
}
