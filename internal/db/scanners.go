package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/liftco/backend/internal/model"
)

const scannerColumns = `id, gym_id, scanner_id, key_hash_sha256_hex, key_hint, is_active, created_at, revoked_at`

func scanScanner(row pgx.Row) (*model.Scanner, error) {
	var s model.Scanner
	err := row.Scan(
		&s.ID,
		&s.GymID,
		&s.ScannerID,
		&s.KeyHash,
		&s.KeyHint,
		&s.IsActive,
		&s.CreatedAt,
		&s.RevokedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// FindActiveScanner is an exact lookup on (gym, scanner_id, active, key hash).
func (db *Postgres) FindActiveScanner(ctx context.Context, gymID int64, scannerID, keyHash string) (*model.Scanner, error) {
	query := `SELECT ` + scannerColumns + `
		FROM attendance_scanners
		WHERE gym_id = $1 AND scanner_id = $2 AND is_active = TRUE AND key_hash_sha256_hex = $3
	`
	return scanScanner(db.Pool.QueryRow(ctx, query, gymID, scannerID, keyHash))
}

func (db *Postgres) CreateScanner(ctx context.Context, gymID int64, scannerID, keyHash string, keyHint *string) (*model.Scanner, error) {
	query := `
		INSERT INTO attendance_scanners (gym_id, scanner_id, key_hash_sha256_hex, key_hint, is_active, created_at)
		VALUES ($1, $2, $3, $4, TRUE, NOW())
		RETURNING ` + scannerColumns
	return scanScanner(db.Pool.QueryRow(ctx, query, gymID, scannerID, keyHash, keyHint))
}

func (db *Postgres) ListScanners(ctx context.Context, gymID int64) ([]model.Scanner, error) {
	rows, err := db.Pool.Query(ctx, `SELECT `+scannerColumns+`
		FROM attendance_scanners
		WHERE gym_id = $1
		ORDER BY created_at DESC
	`, gymID)
	if err != nil {
		return nil, fmt.Errorf("failed to query scanners: %w", err)
	}
	defer rows.Close()

	list := []model.Scanner{}
	for rows.Next() {
		s, err := scanScanner(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scanner: %w", err)
		}
		list = append(list, *s)
	}
	return list, rows.Err()
}

// RevokeScanners deactivates one scanner, or every scanner of the gym when scannerID is empty.
func (db *Postgres) RevokeScanners(ctx context.Context, gymID int64, scannerID string) (int64, error) {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE attendance_scanners
		SET is_active = FALSE, revoked_at = NOW()
		WHERE gym_id = $1 AND is_active = TRUE AND ($2 = '' OR scanner_id = $2)
	`, gymID, scannerID)
	if err != nil {
		return 0, fmt.Errorf("failed to revoke scanners: %w", err)
	}
	return tag.RowsAffected(), nil
}
