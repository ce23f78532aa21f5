package service

import (
	"context"
	"sync"
	"time"

	"github.com/liftco/backend/internal/model"
	"github.com/liftco/backend/internal/obs"
	"go.uber.org/zap"
)

// NotificationSink delivers a single notification to an external channel.
type NotificationSink interface {
	Send(ctx context.Context, n model.Notification) error
}

// Notifier - 알림을 비동기로 전달하는 디스패처
//
// Publish는 큐가 가득 차면 알림을 버리고 false를 반환합니다.
// 전송 실패는 로그만 남기며 호출한 요청에는 영향을 주지 않습니다.
type Notifier struct {
	sink        NotificationSink
	queue       chan model.Notification
	sendTimeout time.Duration
	logger      *zap.Logger

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewNotifier(sink NotificationSink, queueSize int, logger *zap.Logger) *Notifier {
	if queueSize <= 0 {
		queueSize = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{
		sink:        sink,
		queue:       make(chan model.Notification, queueSize),
		sendTimeout: 10 * time.Second,
		logger:      logger,
		done:        make(chan struct{}),
	}
}

// Start runs the delivery worker until Close drains the queue.
func (n *Notifier) Start() {
	go n.run()
}

func (n *Notifier) run() {
	defer close(n.done)
	for msg := range n.queue {
		n.deliver(msg)
	}
}

func (n *Notifier) deliver(msg model.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), n.sendTimeout)
	defer cancel()

	if err := n.sink.Send(ctx, msg); err != nil {
		obs.Notifications.WithLabelValues("failed").Inc()
		n.logger.Warn("notification delivery failed",
			zap.String("type", string(msg.Type)),
			zap.String("session_id", msg.Key()),
			zap.Int("recipients", len(msg.UserIDs)),
			zap.Error(err),
		)
		return
	}
	obs.Notifications.WithLabelValues("sent").Inc()
	n.logger.Debug("notification delivered",
		zap.String("type", string(msg.Type)),
		zap.String("session_id", msg.Key()),
	)
}

// Publish enqueues without blocking.
func (n *Notifier) Publish(msg model.Notification) bool {
	if len(msg.UserIDs) == 0 {
		return false
	}

	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		obs.Notifications.WithLabelValues("dropped").Inc()
		return false
	}

	select {
	case n.queue <- msg:
		return true
	default:
		obs.Notifications.WithLabelValues("dropped").Inc()
		n.logger.Warn("notification queue full, dropping",
			zap.String("type", string(msg.Type)),
			zap.String("session_id", msg.Key()),
		)
		return false
	}
}

// Close stops accepting notifications and waits for queued ones to be sent
// or for ctx to expire.
func (n *Notifier) Close(ctx context.Context) error {
	n.mu.Lock()
	if !n.closed {
		n.closed = true
		close(n.queue)
	}
	n.mu.Unlock()

	select {
	case <-n.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
