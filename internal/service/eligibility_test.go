package service

import (
	"context"
	"testing"
	"time"

	"github.com/liftco/backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveNoActiveWindow(t *testing.T) {
	store := newFakeStore()
	store.addSession(model.WorkoutSession{ID: sessionA, GymID: 7, HostUserID: hostID, StartTime: sessionStart})
	store.addSession(model.WorkoutSession{ID: sessionB, GymID: 7, HostUserID: hostID, StartTime: sessionStart.Add(time.Hour), Status: model.SessionCancelled})
	store.join(sessionA, memberID)
	store.join(sessionB, memberID)
	r := NewEligibilityResolver(store)

	_, err := r.Resolve(context.Background(), memberID, 7, sessionStart.Add(-11*time.Minute))
	require.ErrorIs(t, err, ErrNoActiveWindow)

	// cancelled sessions never open
	_, err = r.Resolve(context.Background(), memberID, 7, sessionStart.Add(time.Hour))
	require.ErrorIs(t, err, ErrNoActiveWindow)

	// other gym
	_, err = r.Resolve(context.Background(), memberID, 8, sessionStart)
	require.ErrorIs(t, err, ErrNoActiveWindow)
}

func TestResolveRequiresHostOrMember(t *testing.T) {
	store := newFakeStore()
	store.addSession(model.WorkoutSession{ID: sessionA, GymID: 7, HostUserID: hostID, StartTime: sessionStart})
	store.join(sessionA, memberID)
	r := NewEligibilityResolver(store)

	_, err := r.Resolve(context.Background(), outsiderID, 7, sessionStart)
	require.ErrorIs(t, err, ErrNoEligibleSession)

	got, err := r.Resolve(context.Background(), hostID, 7, sessionStart)
	require.NoError(t, err)
	assert.Equal(t, sessionA, got.ID)

	got, err = r.Resolve(context.Background(), memberID, 7, sessionStart.Add(15*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, sessionA, got.ID)
}

func TestResolveInProgressIsAttendable(t *testing.T) {
	store := newFakeStore()
	store.addSession(model.WorkoutSession{ID: sessionA, GymID: 7, HostUserID: hostID, StartTime: sessionStart, Status: model.SessionInProgress})
	store.join(sessionA, memberID)

	got, err := NewEligibilityResolver(store).Resolve(context.Background(), memberID, 7, sessionStart.Add(5*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, sessionA, got.ID)
}

func TestResolvePicksClosestSession(t *testing.T) {
	at := sessionStart
	tests := []struct {
		name   string
		starts map[string]time.Time
		want   string
	}{
		{
			name:   "nearest-start",
			starts: map[string]time.Time{sessionA: at.Add(-8 * time.Minute), sessionB: at.Add(3 * time.Minute)},
			want:   sessionB,
		},
		{
			name:   "equal-distance-earlier-start",
			starts: map[string]time.Time{sessionA: at.Add(5 * time.Minute), sessionB: at.Add(-5 * time.Minute)},
			want:   sessionB,
		},
		{
			name:   "same-start-smaller-id",
			starts: map[string]time.Time{sessionC: at, sessionA: at, sessionB: at},
			want:   sessionA,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			for id, start := range tt.starts {
				store.addSession(model.WorkoutSession{ID: id, GymID: 7, HostUserID: hostID, StartTime: start})
				store.join(id, memberID)
			}
			got, err := NewEligibilityResolver(store).Resolve(context.Background(), memberID, 7, at)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.ID)
		})
	}
}

func TestResolveSkipsSessionsUserDidNotJoin(t *testing.T) {
	store := newFakeStore()
	store.addSession(model.WorkoutSession{ID: sessionA, GymID: 7, HostUserID: hostID, StartTime: sessionStart})
	store.addSession(model.WorkoutSession{ID: sessionB, GymID: 7, HostUserID: hostID, StartTime: sessionStart.Add(8 * time.Minute)})
	store.join(sessionB, memberID)

	got, err := NewEligibilityResolver(store).Resolve(context.Background(), memberID, 7, sessionStart)
	require.NoError(t, err)
	assert.Equal(t, sessionB, got.ID)
}

func TestResolveStoreTimeout(t *testing.T) {
	store := newFakeStore()
	store.err = context.DeadlineExceeded
	_, err := NewEligibilityResolver(store).Resolve(context.Background(), memberID, 7, sessionStart)
	require.ErrorIs(t, err, ErrTimeout)
}
