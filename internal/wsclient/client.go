package wsclient

import (
	"context"
	"sync"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/park285/chess-live-server/pkg/wsproto"
)

// State describes the connection lifecycle of a Client.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateReconnecting State = "reconnecting"
	StateFailed       State = "failed"
)

// MessageCallback receives every inbound envelope.
type MessageCallback func(msg *wsproto.Message)

// StateCallback receives every state transition.
type StateCallback func(state State)

// Client dials a game server websocket and keeps the connection alive with
// pings and bounded reconnect attempts. It exists for probes and integration
// checks, not for gameplay logic.
type Client struct {
	wsURL string

	conn   *websocket.Conn
	state  State
	stateM sync.RWMutex

	msgCb   MessageCallback
	stateCb StateCallback
	cbM     sync.RWMutex

	maxReconnectAttempts int
	pingInterval         time.Duration

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	rootCtx    context.Context
	rootCancel context.CancelFunc
}

// New builds a client for wsURL, typically ws://host:port/ws?userId=<uuid>.
func New(wsURL string, maxReconnectAttempts int) *Client {
	return &Client{
		wsURL:                wsURL,
		state:                StateDisconnected,
		maxReconnectAttempts: maxReconnectAttempts,
		pingInterval:         30 * time.Second,
		stopCh:               make(chan struct{}),
	}
}

// OnMessage registers the inbound envelope handler.
func (c *Client) OnMessage(cb MessageCallback) {
	c.cbM.Lock()
	c.msgCb = cb
	c.cbM.Unlock()
}

// OnStateChange registers the state transition handler.
func (c *Client) OnStateChange(cb StateCallback) {
	c.cbM.Lock()
	c.stateCb = cb
	c.cbM.Unlock()
}

// Connect dials the server and starts the listen and ping loops. Calling it
// on an already connected client is a no-op.
func (c *Client) Connect(ctx context.Context) error {
	c.stateM.Lock()
	if c.state == StateConnected || c.state == StateConnecting {
		c.stateM.Unlock()
		return nil
	}
	c.stateM.Unlock()

	c.rootCtx, c.rootCancel = context.WithCancel(context.Background())
	c.setState(StateConnecting)

	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(dialCtx, c.wsURL, &websocket.DialOptions{
		CompressionMode: websocket.CompressionNoContextTakeover,
	})
	if err != nil {
		c.setState(StateFailed)
		c.scheduleReconnect()
		return err
	}

	c.conn = conn
	c.setState(StateConnected)

	c.wg.Add(2)
	go c.listen()
	go c.pingLoop()
	return nil
}

// Send writes one envelope to the server.
func (c *Client) Send(ctx context.Context, msg wsproto.Message) error {
	return wsjson.Write(ctx, c.conn, msg)
}

func (c *Client) listen() {
	defer c.wg.Done()
	for {
		select {
		case <-c.stopCh:
			return
		default:
		}
		if c.conn == nil {
			return
		}
		var msg wsproto.Message
		if err := wsjson.Read(c.rootCtx, c.conn, &msg); err != nil {
			if c.stopping() {
				return
			}
			c.setState(StateDisconnected)
			_ = c.closeConn(websocket.StatusGoingAway, "reconnect")
			c.scheduleReconnect()
			return
		}
		c.cbM.RLock()
		cb := c.msgCb
		c.cbM.RUnlock()
		if cb != nil {
			cb(&msg)
		}
	}
}

func (c *Client) pingLoop() {
	defer c.wg.Done()
	t := time.NewTicker(c.pingInterval)
	defer t.Stop()
	failures := 0
	for {
		select {
		case <-c.stopCh:
			return
		case <-t.C:
			if c.conn == nil {
				continue
			}
			ctx, cancel := context.WithTimeout(c.rootCtx, 3*time.Second)
			err := c.conn.Ping(ctx)
			cancel()
			if err != nil {
				failures++
				if failures >= 2 {
					if c.stopping() {
						return
					}
					c.setState(StateDisconnected)
					_ = c.closeConn(websocket.StatusGoingAway, "ping failure")
					c.scheduleReconnect()
					failures = 0
				}
				continue
			}
			failures = 0
		}
	}
}

func (c *Client) scheduleReconnect() {
	if c.maxReconnectAttempts <= 0 {
		return
	}
	c.setState(StateReconnecting)

	go func() {
		for attempt := 1; attempt <= c.maxReconnectAttempts; attempt++ {
			select {
			case <-c.stopCh:
				return
			case <-time.After(backoffDuration(attempt)):
			}

			dialCtx, cancel := context.WithTimeout(c.rootCtx, 10*time.Second)
			conn, _, err := websocket.Dial(dialCtx, c.wsURL, &websocket.DialOptions{
				CompressionMode: websocket.CompressionNoContextTakeover,
			})
			cancel()
			if err != nil {
				continue
			}

			c.conn = conn
			c.setState(StateConnected)

			c.wg.Add(2)
			go c.listen()
			go c.pingLoop()
			return
		}
		c.setState(StateFailed)
	}()
}

func (c *Client) setState(state State) {
	c.stateM.Lock()
	c.state = state
	c.stateM.Unlock()

	c.cbM.RLock()
	cb := c.stateCb
	c.cbM.RUnlock()
	if cb != nil {
		cb(state)
	}
}

// State reports the current connection state.
func (c *Client) State() State {
	c.stateM.RLock()
	defer c.stateM.RUnlock()
	return c.state
}

// Close stops the loops and closes the connection, waiting for the goroutines
// to drain or ctx to expire.
func (c *Client) Close(ctx context.Context) error {
	c.stopOnce.Do(func() { close(c.stopCh) })
	_ = c.closeConn(websocket.StatusNormalClosure, "close")

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		if c.rootCancel != nil {
			c.rootCancel()
		}
		return nil
	}
}

func (c *Client) closeConn(code websocket.StatusCode, reason string) error {
	if c.conn == nil {
		return nil
	}
	defer func() { c.conn = nil }()
	return c.conn.Close(code, reason)
}

func (c *Client) stopping() bool {
	select {
	case <-c.stopCh:
		return true
	default:
		return false
	}
}

func backoffDuration(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if attempt > 6 {
		attempt = 6
	}
	base := 100 * time.Millisecond
	return time.Duration(1<<uint(attempt-1)) * base
}
