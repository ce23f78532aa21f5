// Package template renders notification text.
//
// 지원하는 변수 형식:
//
//	{{member.name}}, {{member.id}},
//	{{session.id}}, {{session.title}}, {{session.start_time}}, {{gym.id}}
package template

import (
	"strconv"
	"strings"
	"time"

	"github.com/liftco/backend/internal/model"
)

// 기본 알림 문구
const (
	MemberJoinedTitle     = "Squad Update! 💪"
	MemberJoinedBody      = "{{member.name}} joined your {{session.title}} session!"
	MemberLeftTitle       = "Squad Update"
	MemberLeftBody        = "{{member.name}} left your {{session.title}} session."
	AttendanceMarkedTitle = "Checked in ✅"
	AttendanceMarkedBody  = "Your attendance for {{session.title}} was recorded."
)

// MemberData - 알림 대상이 된 사용자
type MemberData struct {
	ID   string
	Name string
}

// SessionData - 템플릿 렌더링에 사용할 세션 데이터
type SessionData struct {
	ID        string
	Title     string
	StartTime time.Time
	GymID     int64
}

func SessionDataFromModel(s *model.WorkoutSession) SessionData {
	return SessionData{
		ID:        s.ID,
		Title:     s.Title,
		StartTime: s.StartTime,
		GymID:     s.GymID,
	}
}

// Render - 템플릿 변수를 실제 값으로 치환
//
// nil로 전달된 항목의 변수는 빈 문자열로 치환됩니다.
func Render(text string, member *MemberData, session *SessionData) string {
	pairs := make([]string, 0, 12)

	if member != nil {
		pairs = append(pairs,
			"{{member.id}}", member.ID,
			"{{member.name}}", member.Name,
		)
	} else {
		pairs = append(pairs,
			"{{member.id}}", "",
			"{{member.name}}", "",
		)
	}

	if session != nil {
		startTime := ""
		if !session.StartTime.IsZero() {
			startTime = session.StartTime.Format(time.RFC3339)
		}
		pairs = append(pairs,
			"{{session.id}}", session.ID,
			"{{session.title}}", session.Title,
			"{{session.start_time}}", startTime,
			"{{gym.id}}", strconv.FormatInt(session.GymID, 10),
		)
	} else {
		pairs = append(pairs,
			"{{session.id}}", "",
			"{{session.title}}", "",
			"{{session.start_time}}", "",
			"{{gym.id}}", "",
		)
	}

	return strings.NewReplacer(pairs...).Replace(text)
}
