package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/liftco/backend/internal/db"
)

var (
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrProfileNotFound   = errors.New("profile not found")
	ErrForbidden         = errors.New("forbidden")
	ErrWindowClosed      = errors.New("attendance window closed")
	ErrNoActiveWindow    = errors.New("no active attendance window")
	ErrNoEligibleSession = errors.New("no eligible session")
	ErrTokenMismatch     = errors.New("token mismatch")
	ErrConflict          = errors.New("conflict")
	ErrSessionFull       = errors.New("session is full")
	ErrScheduleConflict  = errors.New("schedule conflict")
	ErrNotJoinable       = errors.New("session not joinable")
	ErrTimeout           = errors.New("timeout")
	ErrMisconfigured     = errors.New("server misconfigured")
)

// WindowClosedError carries the window bounds and server time so clients can
// show why a token could not be issued.
type WindowClosedError struct {
	OpensAt  time.Time
	ClosesAt time.Time
	Now      time.Time
}

func (e *WindowClosedError) Error() string {
	return fmt.Sprintf("%s: opens %s, closes %s, now %s",
		ErrWindowClosed, e.OpensAt.Format(time.RFC3339), e.ClosesAt.Format(time.RFC3339), e.Now.Format(time.RFC3339))
}

func (e *WindowClosedError) Unwrap() error {
	return ErrWindowClosed
}

// storeError classifies a persistence failure. Timeouts and cancellations keep
// their own kind so they are never reported as a protocol rejection.
func storeError(op string, err error) error {
	if err == nil {
		return nil
	}
	if db.IsTimeout(err) {
		return fmt.Errorf("%w: %s: %w", ErrTimeout, op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
