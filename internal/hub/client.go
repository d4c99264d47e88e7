package hub

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/park285/chess-live-server/internal/obslog"
	"github.com/park285/chess-live-server/pkg/wsproto"
)

const writeTimeout = 10 * time.Second

// Client is one connected user: the upgraded websocket plus a bounded
// outbound queue. A dedicated read goroutine feeds the hub's dispatch and a
// dedicated write goroutine drains the queue in FIFO order, so a slow peer
// never blocks the hub or other connections.
type Client struct {
	ID uuid.UUID

	conn *websocket.Conn
	hub  *Hub
	send chan wsproto.Message

	rootCtx    context.Context
	rootCancel context.CancelFunc
	stopCh     chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup
}

func newClient(id uuid.UUID, conn *websocket.Conn, h *Hub, queueSize int) *Client {
	if queueSize <= 0 {
		queueSize = 64
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		ID:         id,
		conn:       conn,
		hub:        h,
		send:       make(chan wsproto.Message, queueSize),
		rootCtx:    ctx,
		rootCancel: cancel,
		stopCh:     make(chan struct{}),
	}
}

func (c *Client) start() {
	c.wg.Add(2)
	go c.readPump()
	go c.writePump()
}

// Send enqueues an envelope without blocking the caller. When the queue is
// full the envelope is dropped and counted against the peer; it reports
// whether the envelope was accepted.
func (c *Client) Send(msg wsproto.Message) bool {
	select {
	case <-c.stopCh:
		return false
	default:
	}
	select {
	case c.send <- msg:
		return true
	default:
		obslog.L().Warn("ws_send_queue_full",
			zap.String("user_id", c.ID.String()),
			zap.String("type", msg.Type),
		)
		return false
	}
}

// readPump blocks on the next inbound frame, decodes the envelope and hands
// it to the hub. Malformed frames are logged and dropped; the loop only exits
// on a transport error or peer close, after which the client deregisters
// itself and stops the write pump.
func (c *Client) readPump() {
	defer c.wg.Done()
	defer func() {
		c.hub.dropClient(c)
		c.stop(websocket.StatusNormalClosure, "")
	}()
	for {
		var msg wsproto.Message
		if err := wsjson.Read(c.rootCtx, c.conn, &msg); err != nil {
			if !c.stopping() && websocket.CloseStatus(err) == -1 {
				obslog.L().Debug("ws_read_error",
					zap.String("user_id", c.ID.String()),
					zap.Error(err),
				)
			}
			return
		}
		if msg.Type == "" {
			obslog.L().Warn("ws_invalid_message",
				zap.String("user_id", c.ID.String()),
				zap.String("reason", "missing type"),
			)
			continue
		}
		c.hub.Dispatch(msg.Type, msg.Payload, c.ID)
	}
}

// writePump drains the outbound queue in FIFO order, serializing each
// envelope to the wire. A failed write tears the connection down; envelopes
// already queued behind the failure are discarded with it.
func (c *Client) writePump() {
	defer c.wg.Done()
	for {
		select {
		case <-c.stopCh:
			return
		case msg := <-c.send:
			if !c.write(msg) {
				c.stop(websocket.StatusInternalError, "write failure")
				return
			}
		}
	}
}

func (c *Client) write(msg wsproto.Message) bool {
	ctx, cancel := context.WithTimeout(c.rootCtx, writeTimeout)
	err := wsjson.Write(ctx, c.conn, msg)
	cancel()
	if err != nil {
		obslog.L().Debug("ws_write_error",
			zap.String("user_id", c.ID.String()),
			zap.String("type", msg.Type),
			zap.Error(err),
		)
		return false
	}
	return true
}

// stop closes the connection once and releases both pumps. Safe to call from
// any goroutine, any number of times.
func (c *Client) stop(code websocket.StatusCode, reason string) {
	c.stopOnce.Do(func() {
		close(c.stopCh)
		if c.conn != nil {
			_ = c.conn.Close(code, reason)
		}
		c.rootCancel()
	})
}

func (c *Client) stopping() bool {
	select {
	case <-c.stopCh:
		return true
	default:
		return false
	}
}
