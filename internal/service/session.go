package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/liftco/backend/internal/db"
	"github.com/liftco/backend/internal/model"
	tmpl "github.com/liftco/backend/internal/template"
	"go.uber.org/zap"
)

type sessionRepo interface {
	GetSession(ctx context.Context, sessionID string) (*model.WorkoutSession, error)
	IsJoinedMember(ctx context.Context, sessionID, userID string) (bool, error)
	ListJoinedUpcomingSessions(ctx context.Context, userID string) ([]model.WorkoutSession, error)
	ListJoinedMemberIDs(ctx context.Context, sessionID string) ([]string, error)
	JoinSession(ctx context.Context, sessionID, userID string) error
	LeaveSession(ctx context.Context, sessionID, userID string) (bool, error)
}

// SessionService handles membership changes. Notifying other members is
// best-effort and never affects the membership result.
type SessionService struct {
	profiles  profileResolver
	repo      sessionRepo
	publisher Publisher
	now       func() time.Time
	logger    *zap.Logger
}

func NewSessionService(profiles profileResolver, repo sessionRepo, publisher Publisher, logger *zap.Logger) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{
		profiles:  profiles,
		repo:      repo,
		publisher: publisher,
		now:       time.Now,
		logger:    logger,
	}
}

// Join adds the caller to the session and returns the number of members a
// notification was queued for.
func (s *SessionService) Join(ctx context.Context, caller *model.AuthUser, sessionID string) (int, error) {
	if caller == nil {
		return 0, ErrUnauthenticated
	}
	user, err := s.profiles.ResolveProfile(ctx, caller)
	if err != nil {
		return 0, err
	}
	if _, err := uuid.Parse(sessionID); err != nil {
		return 0, fmt.Errorf("%w: session_id must be a uuid", ErrInvalidInput)
	}

	session, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		if db.IsNoRows(err) {
			return 0, ErrNotFound
		}
		return 0, storeError("load session", err)
	}

	if session.WomenOnly && !user.IsFemale() {
		return 0, fmt.Errorf("%w: women-only session", ErrForbidden)
	}
	if session.Status != model.SessionUpcoming {
		return 0, fmt.Errorf("%w: only upcoming sessions can be joined", ErrNotJoinable)
	}

	joined, err := s.repo.IsJoinedMember(ctx, session.ID, user.ID)
	if err != nil {
		return 0, storeError("load membership", err)
	}
	if joined {
		return 0, fmt.Errorf("%w: already a member of this session", ErrConflict)
	}
	if session.CurrentCount >= session.MaxCapacity {
		return 0, ErrSessionFull
	}

	others, err := s.repo.ListJoinedUpcomingSessions(ctx, user.ID)
	if err != nil {
		return 0, storeError("load joined sessions", err)
	}
	for _, other := range others {
		if other.ID != session.ID && other.Overlaps(*session) {
			return 0, ErrScheduleConflict
		}
	}

	if err := s.repo.JoinSession(ctx, session.ID, user.ID); err != nil {
		switch {
		case errors.Is(err, db.ErrSessionFull):
			return 0, ErrSessionFull
		case db.IsUniqueViolation(err):
			return 0, fmt.Errorf("%w: already a member of this session", ErrConflict)
		default:
			return 0, storeError("join session", err)
		}
	}

	s.logger.Info("session joined", zap.String("session_id", session.ID), zap.String("user_id", user.ID))

	recipients := s.recipients(ctx, session, user.ID)
	if len(recipients) == 0 {
		return 0, nil
	}
	member := tmpl.MemberData{ID: user.ID, Name: user.Name}
	data := tmpl.SessionDataFromModel(session)
	queued := s.publish(model.Notification{
		Type:    model.NotificationMemberJoined,
		UserIDs: recipients,
		Title:   tmpl.Render(tmpl.MemberJoinedTitle, &member, &data),
		Body:    tmpl.Render(tmpl.MemberJoinedBody, &member, &data),
		Data: map[string]string{
			"session_id":      session.ID,
			"type":            string(model.NotificationMemberJoined),
			"new_member_name": user.Name,
			"session_title":   session.Title,
		},
		CreatedAt: s.now(),
	})
	if !queued {
		return 0, nil
	}
	return len(recipients), nil
}

// Leave removes the caller from the session. Hosts cannot leave their own session.
func (s *SessionService) Leave(ctx context.Context, caller *model.AuthUser, sessionID string) error {
	if caller == nil {
		return ErrUnauthenticated
	}
	user, err := s.profiles.ResolveProfile(ctx, caller)
	if err != nil {
		return err
	}
	if _, err := uuid.Parse(sessionID); err != nil {
		return fmt.Errorf("%w: session_id must be a uuid", ErrInvalidInput)
	}

	session, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		if db.IsNoRows(err) {
			return ErrNotFound
		}
		return storeError("load session", err)
	}
	if session.HostUserID == user.ID {
		return fmt.Errorf("%w: host cannot leave their own session", ErrInvalidInput)
	}

	left, err := s.repo.LeaveSession(ctx, session.ID, user.ID)
	if err != nil {
		return storeError("leave session", err)
	}
	if !left {
		return fmt.Errorf("%w: not a member of this session", ErrNotFound)
	}

	member := tmpl.MemberData{ID: user.ID, Name: user.Name}
	data := tmpl.SessionDataFromModel(session)
	s.publish(model.Notification{
		Type:    model.NotificationMemberLeft,
		UserIDs: []string{session.HostUserID},
		Title:   tmpl.Render(tmpl.MemberLeftTitle, &member, &data),
		Body:    tmpl.Render(tmpl.MemberLeftBody, &member, &data),
		Data: map[string]string{
			"session_id": session.ID,
			"type":       string(model.NotificationMemberLeft),
		},
		CreatedAt: s.now(),
	})
	return nil
}

// recipients lists the other joined members plus the host. A lookup failure
// only costs the notification.
func (s *SessionService) recipients(ctx context.Context, session *model.WorkoutSession, exclude string) []string {
	ids, err := s.repo.ListJoinedMemberIDs(ctx, session.ID)
	if err != nil {
		s.logger.Warn("failed to load session members for notification", zap.String("session_id", session.ID), zap.Error(err))
		return nil
	}
	seen := map[string]struct{}{exclude: {}}
	out := make([]string, 0, len(ids)+1)
	for _, id := range append([]string{session.HostUserID}, ids...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (s *SessionService) publish(n model.Notification) bool {
	if s.publisher == nil {
		return false
	}
	return s.publisher.Publish(n)
}

var _ sessionRepo = (*db.Postgres)(nil)
