package model

import "time"

const AttendanceSourceBLE = "ble_ibeacon"

// Attendance - (session_id, user_id) 당 하나만 존재하는 출석 기록
type Attendance struct {
	SessionID   string    `json:"session_id"`
	UserID      string    `json:"user_id"`
	GymID       int64     `json:"gym_id"`
	WindowIndex int64     `json:"window_index"`
	TokenU32    uint32    `json:"token_u32"`
	ScannerID   string    `json:"scanner_id"`
	Source      string    `json:"source"`
	MarkedAt    time.Time `json:"marked_at"`
}

type AttendanceTokenRequest struct {
	SessionID string `json:"session_id" binding:"required,uuid"`
}

// Beacon is the advertisement encoding of a token: proximity id plus two 16-bit fields.
type Beacon struct {
	ProximityUUID string `json:"proximity_uuid"`
	Major         uint16 `json:"major"`
	Minor         uint16 `json:"minor"`
}

type AttendanceTokenResponse struct {
	SessionID   string `json:"session_id"`
	UserID      string `json:"user_id"`
	GymID       int64  `json:"gym_id"`
	WindowIndex int64  `json:"window_index"`
	TokenU32    uint32 `json:"token_u32"`
	Major       uint16 `json:"major"`
	Minor       uint16 `json:"minor"`
	IBeacon     Beacon `json:"ibeacon"`
}

// AttendanceVerifyRequest - 스캐너가 보내는 검증 요청
type AttendanceVerifyRequest struct {
	UserID    string  `json:"user_id" binding:"required,uuid"`
	GymID     int64   `json:"gym_id" binding:"required,gt=0"`
	ScannerID string  `json:"scanner_id" binding:"required,notblank,max=128"`
	TokenU32  *uint64 `json:"token_u32" binding:"required,lte=4294967295"`
}

type AttendanceVerifyResponse struct {
	OK         bool        `json:"ok"`
	Attendance *Attendance `json:"attendance"`
	SessionID  string      `json:"session_id"`
}
