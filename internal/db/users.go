package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/liftco/backend/internal/model"
)

const userColumns = `id, auth_id, email, phone_number, name, gender, created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.AuthID,
		&user.Email,
		&user.Phone,
		&user.Name,
		&user.Gender,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (db *Postgres) GetUserByAuthID(ctx context.Context, authID string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE auth_id = $1`
	return scanUser(db.Pool.QueryRow(ctx, query, authID))
}

func (db *Postgres) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1) ORDER BY created_at LIMIT 1`
	return scanUser(db.Pool.QueryRow(ctx, query, email))
}

func (db *Postgres) GetUserByPhone(ctx context.Context, phone string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE phone_number = $1 ORDER BY created_at LIMIT 1`
	return scanUser(db.Pool.QueryRow(ctx, query, phone))
}

func (db *Postgres) GetUserByID(ctx context.Context, userID string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(db.Pool.QueryRow(ctx, query, userID))
}

// LinkAuthID binds an auth identity to a profile found by contact details.
func (db *Postgres) LinkAuthID(ctx context.Context, userID, authID string) error {
	query := `
		UPDATE users
		SET auth_id = $2, updated_at = NOW()
		WHERE id = $1
	`
	_, err := db.Pool.Exec(ctx, query, userID, authID)
	return err
}
