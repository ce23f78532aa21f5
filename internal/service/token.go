package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/liftco/backend/internal/db"
	"github.com/liftco/backend/internal/model"
	"github.com/liftco/backend/internal/obs"
	"github.com/liftco/backend/internal/token"
	"go.uber.org/zap"
)

type tokenSessionRepo interface {
	GetSession(ctx context.Context, sessionID string) (*model.WorkoutSession, error)
	IsJoinedMember(ctx context.Context, sessionID, userID string) (bool, error)
}

type profileResolver interface {
	ResolveProfile(ctx context.Context, caller *model.AuthUser) (*model.User, error)
}

// TokenService issues the attendance token for the caller's current window.
// Issuing is a pure read: nothing is persisted.
type TokenService struct {
	profiles profileResolver
	sessions tokenSessionRepo
	secret   token.Secret
	now      func() time.Time
	logger   *zap.Logger
}

func NewTokenService(profiles profileResolver, sessions tokenSessionRepo, secret token.Secret, logger *zap.Logger) (*TokenService, error) {
	if secret.IsZero() {
		return nil, fmt.Errorf("%w: ATTENDANCE_HMAC_SECRET is required", ErrMisconfigured)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TokenService{
		profiles: profiles,
		sessions: sessions,
		secret:   secret,
		now:      time.Now,
		logger:   logger,
	}, nil
}

// Issue checks, in order: caller session, profile, session existence,
// host/member eligibility and the attendance window.
func (s *TokenService) Issue(ctx context.Context, caller *model.AuthUser, sessionID string) (*model.AttendanceTokenResponse, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	if _, err := uuid.Parse(sessionID); err != nil {
		return nil, fmt.Errorf("%w: session_id must be a uuid", ErrInvalidInput)
	}

	user, err := s.profiles.ResolveProfile(ctx, caller)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, storeError("load session", err)
	}

	if session.HostUserID != user.ID {
		joined, err := s.sessions.IsJoinedMember(ctx, session.ID, user.ID)
		if err != nil {
			return nil, storeError("load membership", err)
		}
		if !joined {
			return nil, ErrForbidden
		}
	}

	now := s.now()
	if !session.AttendanceOpen(now) {
		opensAt, closesAt := session.AttendanceWindow()
		return nil, &WindowClosedError{OpensAt: opensAt, ClosesAt: closesAt, Now: now}
	}

	window := token.WindowIndex(now)
	tok := s.secret.Derive(user.ID, session.GymID, window)
	major, minor := token.Split(tok)
	obs.TokensIssued.Inc()

	s.logger.Debug("attendance token issued",
		zap.String("session_id", session.ID),
		zap.String("user_id", user.ID),
		zap.Int64("gym_id", session.GymID),
		zap.Int64("window_index", window),
	)

	return &model.AttendanceTokenResponse{
		SessionID:   session.ID,
		UserID:      user.ID,
		GymID:       session.GymID,
		WindowIndex: window,
		TokenU32:    tok,
		Major:       major,
		Minor:       minor,
		IBeacon: model.Beacon{
			ProximityUUID: user.ID,
			Major:         major,
			Minor:         minor,
		},
	}, nil
}
