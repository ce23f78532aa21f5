package model

import "time"

// Attendance window around a session start: [start-10m, start+15m].
const (
	AttendanceOpensBefore = 10 * time.Minute
	AttendanceClosesAfter = 15 * time.Minute
)

type SessionStatus string

const (
	SessionUpcoming   SessionStatus = "upcoming"
	SessionInProgress SessionStatus = "in_progress"
	SessionFinished   SessionStatus = "finished"
	SessionCancelled  SessionStatus = "cancelled"
)

// Attendable reports whether attendance may be recorded against the status.
func (s SessionStatus) Attendable() bool {
	return s == SessionUpcoming || s == SessionInProgress
}

type MemberStatus string

const (
	MemberJoined MemberStatus = "joined"
	MemberLeft   MemberStatus = "left"
)

// WorkoutSession - 특정 gym에서 진행되는 예약 가능한 세션
type WorkoutSession struct {
	ID              string        `json:"id"`
	GymID           int64         `json:"gym_id"`
	HostUserID      string        `json:"host_user_id"`
	Title           string        `json:"title"`
	StartTime       time.Time     `json:"start_time"`
	DurationMinutes int           `json:"duration_minutes"`
	MaxCapacity     int           `json:"max_capacity"`
	CurrentCount    int           `json:"current_count"`
	WomenOnly       bool          `json:"women_only"`
	Status          SessionStatus `json:"status"`
}

// AttendanceWindow returns the inclusive bounds during which presence may be claimed.
func (s WorkoutSession) AttendanceWindow() (opensAt, closesAt time.Time) {
	return s.StartTime.Add(-AttendanceOpensBefore), s.StartTime.Add(AttendanceClosesAfter)
}

// AttendanceOpen reports whether at lies inside the attendance window, bounds included.
func (s WorkoutSession) AttendanceOpen(at time.Time) bool {
	opensAt, closesAt := s.AttendanceWindow()
	return !at.Before(opensAt) && !at.After(closesAt)
}

func (s WorkoutSession) EndTime() time.Time {
	return s.StartTime.Add(time.Duration(s.DurationMinutes) * time.Minute)
}

// Overlaps reports whether the two sessions' [start, end) intervals intersect.
func (s WorkoutSession) Overlaps(other WorkoutSession) bool {
	return s.StartTime.Before(other.EndTime()) && other.StartTime.Before(s.EndTime())
}

type SessionMember struct {
	ID        int64        `json:"id"`
	SessionID string       `json:"session_id"`
	UserID    string       `json:"user_id"`
	Status    MemberStatus `json:"status"`
	JoinedAt  time.Time    `json:"joined_at"`
	LeftAt    *time.Time   `json:"left_at,omitempty"`
}

// JoinSessionResponse - 세션 참가 응답
type JoinSessionResponse struct {
	Message           string `json:"message"`
	SessionID         string `json:"session_id"`
	NotificationsSent int    `json:"notifications_sent"`
}

type LeaveSessionResponse struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}
