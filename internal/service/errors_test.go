package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWindowClosedErrorUnwraps(t *testing.T) {
	now := time.Date(2026, 3, 1, 17, 49, 59, 0, time.UTC)
	err := error(&WindowClosedError{OpensAt: now.Add(time.Second), ClosesAt: now.Add(25 * time.Minute), Now: now})

	require.ErrorIs(t, err, ErrWindowClosed)
	var wc *WindowClosedError
	require.True(t, errors.As(fmt.Errorf("wrap: %w", err), &wc))
	require.Equal(t, now, wc.Now)
}

func TestStoreErrorClassifiesTimeouts(t *testing.T) {
	require.NoError(t, storeError("op", nil))

	err := storeError("load sessions", fmt.Errorf("query: %w", context.DeadlineExceeded))
	require.ErrorIs(t, err, ErrTimeout)
	require.NotErrorIs(t, err, ErrTokenMismatch)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	plain := errors.New("connection refused")
	err = storeError("load sessions", plain)
	require.ErrorIs(t, err, plain)
	require.NotErrorIs(t, err, ErrTimeout)
}
