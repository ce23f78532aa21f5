package service

import (
	"context"

	"github.com/liftco/backend/internal/db"
	"github.com/liftco/backend/internal/model"
)

type attendanceRepo interface {
	UpsertAttendance(ctx context.Context, rec model.Attendance) (*model.Attendance, error)
}

// AttendanceRecorder persists one record per (session, user); the most recent
// verified scan wins.
type AttendanceRecorder struct {
	repo attendanceRepo
}

func NewAttendanceRecorder(repo attendanceRepo) *AttendanceRecorder {
	return &AttendanceRecorder{repo: repo}
}

func (r *AttendanceRecorder) Record(ctx context.Context, rec model.Attendance) (*model.Attendance, error) {
	if rec.Source == "" {
		rec.Source = model.AttendanceSourceBLE
	}
	saved, err := r.repo.UpsertAttendance(ctx, rec)
	if err != nil {
		return nil, storeError("upsert attendance", err)
	}
	return saved, nil
}

var _ attendanceRepo = (*db.Postgres)(nil)
