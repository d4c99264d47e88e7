package hub

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/park285/chess-live-server/internal/obslog"
	"github.com/park285/chess-live-server/pkg/wsproto"
)

// Notification is an envelope addressed to one user, produced outside the
// websocket read path.
type Notification struct {
	UserID  uuid.UUID
	Message wsproto.Message
}

// ErrNotifyQueueFull reports a notification dropped because the queue was at
// capacity.
var ErrNotifyQueueFull = errf("notification queue full")

type staticErr string

func (e staticErr) Error() string { return string(e) }
func errf(s string) error         { return staticErr(s) }

// Notify enqueues a push for a user without blocking the caller. When the
// queue is full the notification is dropped and ErrNotifyQueueFull returned.
func (h *Hub) Notify(userID uuid.UUID, msg wsproto.Message) error {
	n := Notification{UserID: userID, Message: msg}
	select {
	case <-h.stopCh:
		return ErrNotifyQueueFull
	default:
	}
	select {
	case h.notifications <- n:
		return nil
	default:
		obslog.L().Warn("notify_queue_full",
			zap.String("user_id", userID.String()),
			zap.String("type", msg.Type),
		)
		return ErrNotifyQueueFull
	}
}

// notificationLoop drains the queue onto live connections. Notifications for
// absent users are dropped with a log; delivery is at-most-once.
func (h *Hub) notificationLoop() {
	defer h.wg.Done()
	for {
		select {
		case <-h.stopCh:
			return
		case n := <-h.notifications:
			h.sendTo(n.UserID, n.Message)
		}
	}
}
