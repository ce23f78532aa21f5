package model

import "time"

// Scanner - gym에 설치된 출석 스캐너 자격 증명
type Scanner struct {
	ID        string     `json:"id"`
	GymID     int64      `json:"gym_id"`
	ScannerID string     `json:"scanner_id"`
	KeyHash   string     `json:"-"`
	KeyHint   *string    `json:"key_hint"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

type ScannerValidateRequest struct {
	GymID     int64  `json:"gym_id" binding:"required,gt=0"`
	ScannerID string `json:"scanner_id" binding:"required,notblank,max=128"`
}

type ScannerValidateResponse struct {
	OK      bool    `json:"ok"`
	KeyHint *string `json:"key_hint"`
}
