package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/liftco/backend/internal/model"
)

// ErrSessionFull is returned by JoinSession when current_count reached max_capacity.
var ErrSessionFull = errors.New("session is full")

const sessionColumns = `id, gym_id, host_user_id, title, start_time, duration_minutes,
	max_capacity, current_count, women_only, status`

func scanSession(row pgx.Row) (*model.WorkoutSession, error) {
	var s model.WorkoutSession
	var status string
	err := row.Scan(
		&s.ID,
		&s.GymID,
		&s.HostUserID,
		&s.Title,
		&s.StartTime,
		&s.DurationMinutes,
		&s.MaxCapacity,
		&s.CurrentCount,
		&s.WomenOnly,
		&status,
	)
	if err != nil {
		return nil, err
	}
	s.Status = model.SessionStatus(status)
	return &s, nil
}

func (db *Postgres) GetSession(ctx context.Context, sessionID string) (*model.WorkoutSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM workout_sessions WHERE id = $1`
	return scanSession(db.Pool.QueryRow(ctx, query, sessionID))
}

func (db *Postgres) IsJoinedMember(ctx context.Context, sessionID, userID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM session_members
			WHERE session_id = $1 AND user_id = $2 AND status = 'joined'
		)
	`
	var joined bool
	if err := db.Pool.QueryRow(ctx, query, sessionID, userID).Scan(&joined); err != nil {
		return false, err
	}
	return joined, nil
}

// ListAttendableSessions - gym의 upcoming/in_progress 세션 중 start_time이 [from, to] 범위인 것 (시작 시각 오름차순)
func (db *Postgres) ListAttendableSessions(ctx context.Context, gymID int64, from, to time.Time) ([]model.WorkoutSession, error) {
	query := `SELECT ` + sessionColumns + `
		FROM workout_sessions
		WHERE gym_id = $1
		  AND status IN ('upcoming', 'in_progress')
		  AND start_time BETWEEN $2 AND $3
		ORDER BY start_time ASC, id ASC
	`
	rows, err := db.Pool.Query(ctx, query, gymID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var list []model.WorkoutSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		list = append(list, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// JoinedSessionIDs returns the subset of sessionIDs the user has actively joined.
func (db *Postgres) JoinedSessionIDs(ctx context.Context, userID string, sessionIDs []string) (map[string]struct{}, error) {
	joined := make(map[string]struct{})
	if len(sessionIDs) == 0 {
		return joined, nil
	}
	query := `
		SELECT session_id::text
		FROM session_members
		WHERE user_id = $1 AND status = 'joined' AND session_id = ANY($2::uuid[])
	`
	rows, err := db.Pool.Query(ctx, query, userID, sessionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query memberships: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		joined[id] = struct{}{}
	}
	return joined, rows.Err()
}

// ListJoinedUpcomingSessions - 사용자가 참가 중인 upcoming 세션 (스케줄 충돌 확인용)
func (db *Postgres) ListJoinedUpcomingSessions(ctx context.Context, userID string) ([]model.WorkoutSession, error) {
	query := `
		SELECT s.id, s.gym_id, s.host_user_id, s.title, s.start_time, s.duration_minutes,
		       s.max_capacity, s.current_count, s.women_only, s.status
		FROM session_members m
		JOIN workout_sessions s ON s.id = m.session_id
		WHERE m.user_id = $1 AND m.status = 'joined' AND s.status = 'upcoming'
	`
	rows, err := db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query joined sessions: %w", err)
	}
	defer rows.Close()

	var list []model.WorkoutSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *s)
	}
	return list, rows.Err()
}

func (db *Postgres) ListJoinedMemberIDs(ctx context.Context, sessionID string) ([]string, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT user_id::text FROM session_members
		WHERE session_id = $1 AND status = 'joined'
		ORDER BY joined_at
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// JoinSession reserves a seat and inserts the membership in one transaction.
// A duplicate active membership surfaces as a unique violation.
func (db *Postgres) JoinSession(ctx context.Context, sessionID, userID string) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	tag, err := tx.Exec(ctx, `
		UPDATE workout_sessions
		SET current_count = current_count + 1, updated_at = NOW()
		WHERE id = $1 AND current_count < max_capacity
	`, sessionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionFull
	}

	if _, err = tx.Exec(ctx, `
		INSERT INTO session_members (session_id, user_id, status, joined_at)
		VALUES ($1, $2, 'joined', NOW())
	`, sessionID, userID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// LeaveSession marks the active membership as left and frees the seat.
// It returns false when the user had no active membership.
func (db *Postgres) LeaveSession(ctx context.Context, sessionID, userID string) (bool, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	tag, err := tx.Exec(ctx, `
		UPDATE session_members
		SET status = 'left', left_at = NOW()
		WHERE session_id = $1 AND user_id = $2 AND status = 'joined'
	`, sessionID, userID)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if _, err = tx.Exec(ctx, `
		UPDATE workout_sessions
		SET current_count = GREATEST(current_count - 1, 0), updated_at = NOW()
		WHERE id = $1
	`, sessionID); err != nil {
		return false, err
	}

	return true, tx.Commit(ctx)
}
