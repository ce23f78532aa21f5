package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/liftco/backend/internal/config"
)

func TestBuildPostgresURL(t *testing.T) {
	got, err := BuildPostgresURL(config.PostgresConfig{
		Host:     "db",
		Port:     "5433",
		User:     "liftco",
		Password: "p@ss",
		Database: "attendance",
		SSLMode:  "require",
	})
	if err != nil {
		t.Fatalf("BuildPostgresURL: %v", err)
	}
	if !strings.HasPrefix(got, "postgres://liftco:p%40ss@db:5433/attendance") || !strings.Contains(got, "sslmode=require") {
		t.Fatalf("unexpected url %q", got)
	}

	got, err = BuildPostgresURL(config.PostgresConfig{DatabaseURL: "postgres://x/y"})
	if err != nil || got != "postgres://x/y" {
		t.Fatalf("DATABASE_URL should win, got %q, %v", got, err)
	}

	if _, err := BuildPostgresURL(config.PostgresConfig{Host: "db"}); err == nil {
		t.Fatalf("expected error without user/database")
	}
}

func TestErrorClassifiers(t *testing.T) {
	if !IsNoRows(fmt.Errorf("wrapped: %w", pgx.ErrNoRows)) {
		t.Fatalf("IsNoRows should unwrap")
	}
	if !IsUniqueViolation(&pgconn.PgError{Code: "23505"}) {
		t.Fatalf("23505 is a unique violation")
	}
	if IsUniqueViolation(errors.New("boom")) {
		t.Fatalf("plain errors are not unique violations")
	}
	if !IsTimeout(fmt.Errorf("query: %w", context.DeadlineExceeded)) {
		t.Fatalf("deadline exceeded is a timeout")
	}
}

func TestMigrationURL(t *testing.T) {
	cases := map[string]string{
		"postgres://u@h:5432/d?sslmode=disable":   "pgx5://u@h:5432/d?sslmode=disable",
		"postgresql://u@h:5432/d?sslmode=disable": "pgx5://u@h:5432/d?sslmode=disable",
		"pgx5://u@h/d":                            "pgx5://u@h/d",
	}
	for in, want := range cases {
		got, err := migrationURL(in)
		if err != nil {
			t.Fatalf("migrationURL(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("migrationURL(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := migrationURL("mysql://u@h/d"); err == nil {
		t.Fatalf("expected error for non-postgres scheme")
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	var up, down int
	for _, e := range entries {
		switch {
		case strings.HasSuffix(e.Name(), ".up.sql"):
			up++
		case strings.HasSuffix(e.Name(), ".down.sql"):
			down++
		}
	}
	if up == 0 || up != down {
		t.Fatalf("expected paired migrations, got up=%d down=%d", up, down)
	}
}
