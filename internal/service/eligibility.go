package service

import (
	"context"
	"sort"
	"time"

	"github.com/liftco/backend/internal/db"
	"github.com/liftco/backend/internal/model"
)

// candidateHorizon bounds the session query around the reference time. It only
// limits the scan; the attendance window decides eligibility.
const candidateHorizon = 12 * time.Hour

type eligibilityRepo interface {
	ListAttendableSessions(ctx context.Context, gymID int64, from, to time.Time) ([]model.WorkoutSession, error)
	JoinedSessionIDs(ctx context.Context, userID string, sessionIDs []string) (map[string]struct{}, error)
}

type EligibilityResolver struct {
	repo eligibilityRepo
}

func NewEligibilityResolver(repo eligibilityRepo) *EligibilityResolver {
	return &EligibilityResolver{repo: repo}
}

// Resolve finds the single session at gymID the user may be marked present at.
func (r *EligibilityResolver) Resolve(ctx context.Context, userID string, gymID int64, at time.Time) (*model.WorkoutSession, error) {
	sessions, err := r.repo.ListAttendableSessions(ctx, gymID, at.Add(-candidateHorizon), at.Add(candidateHorizon))
	if err != nil {
		return nil, storeError("load sessions", err)
	}

	open := make([]model.WorkoutSession, 0, len(sessions))
	for _, s := range sessions {
		if s.Status.Attendable() && s.AttendanceOpen(at) {
			open = append(open, s)
		}
	}
	if len(open) == 0 {
		return nil, ErrNoActiveWindow
	}

	ids := make([]string, 0, len(open))
	for _, s := range open {
		if s.HostUserID != userID {
			ids = append(ids, s.ID)
		}
	}
	joined := map[string]struct{}{}
	if len(ids) > 0 {
		joined, err = r.repo.JoinedSessionIDs(ctx, userID, ids)
		if err != nil {
			return nil, storeError("load memberships", err)
		}
	}

	eligible := open[:0]
	for _, s := range open {
		if _, ok := joined[s.ID]; ok || s.HostUserID == userID {
			eligible = append(eligible, s)
		}
	}
	if len(eligible) == 0 {
		return nil, ErrNoEligibleSession
	}

	chosen := closestToTime(eligible, at)
	return &chosen, nil
}

// closestToTime picks the session whose start is nearest at. Ties go to the
// earlier start, then to the lexicographically smaller id.
func closestToTime(sessions []model.WorkoutSession, at time.Time) model.WorkoutSession {
	sorted := make([]model.WorkoutSession, len(sessions))
	copy(sorted, sessions)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := absDuration(sorted[i].StartTime.Sub(at)), absDuration(sorted[j].StartTime.Sub(at))
		if di != dj {
			return di < dj
		}
		if !sorted[i].StartTime.Equal(sorted[j].StartTime) {
			return sorted[i].StartTime.Before(sorted[j].StartTime)
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted[0]
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

var _ eligibilityRepo = (*db.Postgres)(nil)
