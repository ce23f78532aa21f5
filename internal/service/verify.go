package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/liftco/backend/internal/model"
	"github.com/liftco/backend/internal/obs"
	tmpl "github.com/liftco/backend/internal/template"
	"github.com/liftco/backend/internal/token"
	"go.uber.org/zap"
)

// VerifyInput is a scanner's claim that userID broadcast tokenU32 at gymID.
type VerifyInput struct {
	ScannerKey string
	ScannerID  string
	UserID     string
	GymID      int64
	TokenU32   uint32
}

type scannerAuthenticator interface {
	Authenticate(ctx context.Context, gymID int64, scannerID, key string) (*model.Scanner, error)
}

type sessionResolver interface {
	Resolve(ctx context.Context, userID string, gymID int64, at time.Time) (*model.WorkoutSession, error)
}

type attendanceWriter interface {
	Record(ctx context.Context, rec model.Attendance) (*model.Attendance, error)
}

// Publisher accepts notifications without blocking the caller.
type Publisher interface {
	Publish(n model.Notification) bool
}

// VerifyService checks a scanned token and records attendance.
//
// Flow: scanner auth -> token match over windowsAround(now, tolerance) ->
// eligibility -> attendance upsert. Nothing is rolled back if a later step fails.
type VerifyService struct {
	scanners  scannerAuthenticator
	resolver  sessionResolver
	recorder  attendanceWriter
	publisher Publisher
	secret    token.Secret
	tolerance int
	now       func() time.Time
	logger    *zap.Logger
}

func NewVerifyService(
	scanners scannerAuthenticator,
	resolver sessionResolver,
	recorder attendanceWriter,
	publisher Publisher,
	secret token.Secret,
	tolerance int,
	logger *zap.Logger,
) (*VerifyService, error) {
	if secret.IsZero() {
		return nil, fmt.Errorf("%w: ATTENDANCE_HMAC_SECRET is required", ErrMisconfigured)
	}
	if tolerance < 0 || tolerance > token.MaxTolerance {
		return nil, fmt.Errorf("%w: ATTENDANCE_SKEW_WINDOWS must be between 0 and %d", ErrMisconfigured, token.MaxTolerance)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VerifyService{
		scanners:  scanners,
		resolver:  resolver,
		recorder:  recorder,
		publisher: publisher,
		secret:    secret,
		tolerance: tolerance,
		now:       time.Now,
		logger:    logger,
	}, nil
}

func (s *VerifyService) Verify(ctx context.Context, in VerifyInput) (*model.Attendance, string, error) {
	att, sessionID, err := s.verify(ctx, in)
	obs.Verifications.WithLabelValues(verifyResult(err)).Inc()
	return att, sessionID, err
}

func (s *VerifyService) verify(ctx context.Context, in VerifyInput) (*model.Attendance, string, error) {
	if _, err := uuid.Parse(in.UserID); err != nil {
		return nil, "", fmt.Errorf("%w: user_id must be a uuid", ErrInvalidInput)
	}
	if in.GymID <= 0 {
		return nil, "", fmt.Errorf("%w: gym_id must be positive", ErrInvalidInput)
	}

	scanner, err := s.scanners.Authenticate(ctx, in.GymID, in.ScannerID, in.ScannerKey)
	if err != nil {
		return nil, "", err
	}

	now := s.now()
	matched, ok := s.secret.Match(in.UserID, in.GymID, in.TokenU32, token.WindowsAround(token.WindowIndex(now), s.tolerance))
	if !ok {
		return nil, "", ErrTokenMismatch
	}

	session, err := s.resolver.Resolve(ctx, in.UserID, in.GymID, now)
	if err != nil {
		return nil, "", err
	}

	att, err := s.recorder.Record(ctx, model.Attendance{
		SessionID:   session.ID,
		UserID:      in.UserID,
		GymID:       session.GymID,
		WindowIndex: matched,
		TokenU32:    in.TokenU32,
		ScannerID:   scanner.ScannerID,
		Source:      model.AttendanceSourceBLE,
		MarkedAt:    now,
	})
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("attendance marked",
		zap.String("session_id", session.ID),
		zap.String("user_id", in.UserID),
		zap.Int64("gym_id", in.GymID),
		zap.String("scanner_id", scanner.ScannerID),
		zap.Int64("window_index", matched),
	)

	if s.publisher != nil {
		data := tmpl.SessionDataFromModel(session)
		s.publisher.Publish(model.Notification{
			Type:    model.NotificationAttendanceMarked,
			UserIDs: []string{in.UserID},
			Title:   tmpl.AttendanceMarkedTitle,
			Body:    tmpl.Render(tmpl.AttendanceMarkedBody, nil, &data),
			Data: map[string]string{
				"session_id":   session.ID,
				"gym_id":       strconv.FormatInt(session.GymID, 10),
				"window_index": strconv.FormatInt(matched, 10),
			},
			CreatedAt: now,
		})
	}

	return att, session.ID, nil
}

func verifyResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrTokenMismatch):
		return "token_mismatch"
	case errors.Is(err, ErrNoActiveWindow):
		return "no_active_window"
	case errors.Is(err, ErrNoEligibleSession):
		return "no_eligible_session"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	default:
		return "internal"
	}
}
