package client

import (
	"context"

	"github.com/liftco/backend/internal/model"
	"go.uber.org/zap"
)

// LogSink only logs notifications. Used when no delivery channel is configured.
type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Send(_ context.Context, n model.Notification) error {
	s.logger.Info("notification",
		zap.String("type", string(n.Type)),
		zap.Strings("user_ids", n.UserIDs),
		zap.String("title", n.Title),
		zap.String("body", n.Body),
		zap.String("session_id", n.Key()),
	)
	return nil
}
