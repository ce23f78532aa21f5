package db

import (
	"context"

	"github.com/liftco/backend/internal/model"
)

// UpsertAttendance writes one row per (session_id, user_id); a repeated scan
// overwrites the window, token, scanner and timestamp of the existing row.
func (db *Postgres) UpsertAttendance(ctx context.Context, rec model.Attendance) (*model.Attendance, error) {
	query := `
		INSERT INTO session_attendance
			(session_id, user_id, gym_id, window_index, token_u32, scanner_id, source, marked_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (session_id, user_id) DO UPDATE SET
			gym_id       = EXCLUDED.gym_id,
			window_index = EXCLUDED.window_index,
			token_u32    = EXCLUDED.token_u32,
			scanner_id   = EXCLUDED.scanner_id,
			source       = EXCLUDED.source,
			marked_at    = EXCLUDED.marked_at
		RETURNING session_id::text, user_id::text, gym_id, window_index, token_u32, scanner_id, source, marked_at
	`
	var out model.Attendance
	var tokenU32 int64
	err := db.Pool.QueryRow(ctx, query,
		rec.SessionID,
		rec.UserID,
		rec.GymID,
		rec.WindowIndex,
		int64(rec.TokenU32),
		rec.ScannerID,
		rec.Source,
		rec.MarkedAt,
	).Scan(
		&out.SessionID,
		&out.UserID,
		&out.GymID,
		&out.WindowIndex,
		&tokenU32,
		&out.ScannerID,
		&out.Source,
		&out.MarkedAt,
	)
	if err != nil {
		return nil, err
	}
	out.TokenU32 = uint32(tokenU32)
	return &out, nil
}
