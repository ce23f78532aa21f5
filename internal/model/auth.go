package model

import (
	"strings"
	"time"
)

// AuthUser is the caller identity carried by a validated bearer token.
type AuthUser struct {
	AuthID string
	Email  string
	Phone  string
}

// User - 앱 프로필 (users 테이블)
type User struct {
	ID        string
	AuthID    *string
	Email     *string
	Phone     *string
	Name      string
	Gender    *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u User) IsFemale() bool {
	return u.Gender != nil && strings.EqualFold(strings.TrimSpace(*u.Gender), "female")
}

// ProfileResponse - 현재 사용자 프로필 응답
type ProfileResponse struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Email  *string `json:"email,omitempty"`
	Phone  *string `json:"phone,omitempty"`
	Gender *string `json:"gender,omitempty"`
}
