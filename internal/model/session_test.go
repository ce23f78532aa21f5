package model

import (
	"testing"
	"time"
)

func TestAttendanceOpenBounds(t *testing.T) {
	start := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	s := WorkoutSession{StartTime: start}

	cases := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"opens-exactly", start.Add(-10 * time.Minute), true},
		{"one-second-early", start.Add(-10*time.Minute - time.Second), false},
		{"at-start", start, true},
		{"closes-exactly", start.Add(15 * time.Minute), true},
		{"one-second-late", start.Add(15*time.Minute + time.Second), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := s.AttendanceOpen(tc.at); got != tc.want {
				t.Fatalf("AttendanceOpen(%s) = %v, want %v", tc.at, got, tc.want)
			}
		})
	}
}

func TestOverlaps(t *testing.T) {
	start := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	a := WorkoutSession{StartTime: start, DurationMinutes: 60}
	b := WorkoutSession{StartTime: start.Add(30 * time.Minute), DurationMinutes: 60}
	c := WorkoutSession{StartTime: start.Add(60 * time.Minute), DurationMinutes: 30}

	if !a.Overlaps(b) || !b.Overlaps(a) {
		t.Fatalf("expected a and b to overlap")
	}
	if a.Overlaps(c) {
		t.Fatalf("back-to-back sessions must not overlap")
	}
}

func TestStatusAttendable(t *testing.T) {
	if !SessionUpcoming.Attendable() || !SessionInProgress.Attendable() {
		t.Fatalf("upcoming and in_progress must be attendable")
	}
	if SessionFinished.Attendable() || SessionCancelled.Attendable() {
		t.Fatalf("finished and cancelled must not be attendable")
	}
}
