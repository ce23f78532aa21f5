package model

import "time"

type NotificationType string

const (
	NotificationMemberJoined     NotificationType = "member_joined"
	NotificationMemberLeft       NotificationType = "member_left"
	NotificationAttendanceMarked NotificationType = "attendance_marked"
)

// Notification - 알림 수집기로 전달되는 이벤트
type Notification struct {
	Type      NotificationType  `json:"type"`
	UserIDs   []string          `json:"user_ids"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	Data      map[string]string `json:"data,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// Key groups notifications of the same session onto one partition.
func (n Notification) Key() string {
	if n.Data == nil {
		return ""
	}
	return n.Data["session_id"]
}
