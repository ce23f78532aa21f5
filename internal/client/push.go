// 외부 푸시 게이트웨이와 통신하는 클라이언트
//
// 환경변수:
//   - NOTIFY_PUSH_URL: 푸시 게이트웨이 엔드포인트
//   - NOTIFY_PUSH_TOKEN: Bearer 토큰 (선택)

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/liftco/backend/internal/model"
)

// PushClient posts notifications to an HTTP push gateway.
type PushClient struct {
	url        string
	token      string
	httpClient *http.Client
}

// PushMessage - 게이트웨이 요청 본문
type PushMessage struct {
	UserIDs []string          `json:"user_ids"`
	Title   string            `json:"title"`
	Body    string            `json:"body"`
	Data    map[string]string `json:"data,omitempty"`
	Type    string            `json:"type"`
}

// PushResponse - 게이트웨이 응답
type PushResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func NewPushClient(url, token string) *PushClient {
	return &PushClient{
		url:   url,
		token: token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *PushClient) IsConfigured() bool {
	return c.url != ""
}

// Send - 알림 하나를 게이트웨이로 전송
func (c *PushClient) Send(ctx context.Context, n model.Notification) error {
	if !c.IsConfigured() {
		return fmt.Errorf("push gateway url not configured")
	}

	payload, err := json.Marshal(PushMessage{
		UserIDs: n.UserIDs,
		Title:   n.Title,
		Body:    n.Body,
		Data:    n.Data,
		Type:    string(n.Type),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal push message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send push: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("push gateway returned status %d", resp.StatusCode)
	}

	// 빈 본문은 성공으로 간주
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	var pr PushResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if !pr.OK {
		return fmt.Errorf("push gateway error: %s", pr.Error)
	}
	return nil
}
