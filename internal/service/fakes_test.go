package service

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/liftco/backend/internal/db"
	"github.com/liftco/backend/internal/model"
)

const (
	hostID     = "11111111-1111-4111-8111-111111111111"
	memberID   = "22222222-2222-4222-8222-222222222222"
	outsiderID = "33333333-3333-4333-8333-333333333333"

	sessionA = "aaaaaaaa-0000-4000-8000-000000000001"
	sessionB = "aaaaaaaa-0000-4000-8000-000000000002"
	sessionC = "aaaaaaaa-0000-4000-8000-000000000003"
)

// fakeStore is an in-memory stand-in for db.Postgres.
type fakeStore struct {
	mu         sync.Mutex
	users      map[string]*model.User
	sessions   map[string]*model.WorkoutSession
	members    map[string]map[string]bool
	scanners   []model.Scanner
	attendance map[string]model.Attendance
	upserts    int

	// err, when set, is returned by every query.
	err     error
	linkErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:      map[string]*model.User{},
		sessions:   map[string]*model.WorkoutSession{},
		members:    map[string]map[string]bool{},
		attendance: map[string]model.Attendance{},
	}
}

func strPtr(s string) *string { return &s }

func (f *fakeStore) addUser(id, authID, name string) *model.User {
	u := &model.User{ID: id, Name: name}
	if authID != "" {
		u.AuthID = strPtr(authID)
	}
	f.users[id] = u
	return u
}

func (f *fakeStore) addSession(s model.WorkoutSession) {
	if s.Status == "" {
		s.Status = model.SessionUpcoming
	}
	if s.DurationMinutes == 0 {
		s.DurationMinutes = 60
	}
	if s.MaxCapacity == 0 {
		s.MaxCapacity = 10
	}
	f.sessions[s.ID] = &s
}

func (f *fakeStore) join(sessionID, userID string) {
	if f.members[sessionID] == nil {
		f.members[sessionID] = map[string]bool{}
	}
	f.members[sessionID][userID] = true
	if s, ok := f.sessions[sessionID]; ok {
		s.CurrentCount++
	}
}

func (f *fakeStore) GetUserByAuthID(_ context.Context, authID string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.AuthID != nil && *u.AuthID == authID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email != nil && strings.EqualFold(*u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeStore) GetUserByPhone(_ context.Context, phone string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Phone != nil && *u.Phone == phone {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeStore) LinkAuthID(_ context.Context, userID, authID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.linkErr != nil {
		return f.linkErr
	}
	f.users[userID].AuthID = strPtr(authID)
	return nil
}

func (f *fakeStore) GetSession(_ context.Context, sessionID string) (*model.WorkoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.sessions[sessionID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStore) IsJoinedMember(_ context.Context, sessionID, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	return f.members[sessionID][userID], nil
}

func (f *fakeStore) ListAttendableSessions(_ context.Context, gymID int64, from, to time.Time) ([]model.WorkoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []model.WorkoutSession
	for _, s := range f.sessions {
		if s.GymID == gymID && !s.StartTime.Before(from) && !s.StartTime.After(to) {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].StartTime.Before(out[j].StartTime)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakeStore) JoinedSessionIDs(_ context.Context, userID string, sessionIDs []string) (map[string]struct{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[string]struct{}{}
	for _, id := range sessionIDs {
		if f.members[id][userID] {
			out[id] = struct{}{}
		}
	}
	return out, nil
}

func (f *fakeStore) ListJoinedUpcomingSessions(_ context.Context, userID string) ([]model.WorkoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.WorkoutSession
	for id, m := range f.members {
		if s, ok := f.sessions[id]; ok && m[userID] && s.Status == model.SessionUpcoming {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeStore) ListJoinedMemberIDs(_ context.Context, sessionID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for uid, ok := range f.members[sessionID] {
		if ok {
			out = append(out, uid)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (f *fakeStore) JoinSession(_ context.Context, sessionID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.sessions[sessionID]
	if s.CurrentCount >= s.MaxCapacity {
		return db.ErrSessionFull
	}
	if f.members[sessionID][userID] {
		return &pgconn.PgError{Code: "23505"}
	}
	if f.members[sessionID] == nil {
		f.members[sessionID] = map[string]bool{}
	}
	f.members[sessionID][userID] = true
	s.CurrentCount++
	return nil
}

func (f *fakeStore) LeaveSession(_ context.Context, sessionID, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.members[sessionID][userID] {
		return false, nil
	}
	f.members[sessionID][userID] = false
	f.sessions[sessionID].CurrentCount--
	return true, nil
}

func (f *fakeStore) FindActiveScanner(_ context.Context, gymID int64, scannerID, keyHash string) (*model.Scanner, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, s := range f.scanners {
		if s.GymID == gymID && s.ScannerID == scannerID && s.KeyHash == keyHash && s.IsActive {
			cp := s
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeStore) CreateScanner(_ context.Context, gymID int64, scannerID, keyHash string, keyHint *string) (*model.Scanner, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.scanners {
		if s.GymID == gymID && s.ScannerID == scannerID {
			return nil, &pgconn.PgError{Code: "23505"}
		}
	}
	s := model.Scanner{
		ID:        strconv.Itoa(len(f.scanners) + 1),
		GymID:     gymID,
		ScannerID: scannerID,
		KeyHash:   keyHash,
		KeyHint:   keyHint,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	f.scanners = append(f.scanners, s)
	return &s, nil
}

func (f *fakeStore) ListScanners(_ context.Context, gymID int64) ([]model.Scanner, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Scanner
	for i := len(f.scanners) - 1; i >= 0; i-- {
		if f.scanners[i].GymID == gymID {
			out = append(out, f.scanners[i])
		}
	}
	return out, nil
}

func (f *fakeStore) RevokeScanners(_ context.Context, gymID int64, scannerID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	now := time.Now()
	for i := range f.scanners {
		s := &f.scanners[i]
		if s.GymID != gymID || !s.IsActive || (scannerID != "" && s.ScannerID != scannerID) {
			continue
		}
		s.IsActive = false
		s.RevokedAt = &now
		n++
	}
	return n, nil
}

func (f *fakeStore) UpsertAttendance(_ context.Context, rec model.Attendance) (*model.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.upserts++
	f.attendance[rec.SessionID+"|"+rec.UserID] = rec
	cp := rec
	return &cp, nil
}

// staticProfiles resolves every caller to one fixed profile.
type staticProfiles struct {
	user *model.User
	err  error
}

func (p staticProfiles) ResolveProfile(_ context.Context, caller *model.AuthUser) (*model.User, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	if p.err != nil {
		return nil, p.err
	}
	cp := *p.user
	return &cp, nil
}

// recordingPublisher captures published notifications.
type recordingPublisher struct {
	mu     sync.Mutex
	sent   []model.Notification
	reject bool
}

func (p *recordingPublisher) Publish(n model.Notification) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.reject {
		return false
	}
	p.sent = append(p.sent, n)
	return true
}

func (p *recordingPublisher) last() model.Notification {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sent[len(p.sent)-1]
}
