package hub

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"github.com/park285/chess-live-server/internal/archive"
	"github.com/park285/chess-live-server/internal/game"
	"github.com/park285/chess-live-server/internal/invite"
	"github.com/park285/chess-live-server/internal/msgcat"
	"github.com/park285/chess-live-server/internal/obslog"
	"github.com/park285/chess-live-server/pkg/wsproto"
)

// Options tune the hub's queues and session lifecycle. Zero values select
// the defaults.
type Options struct {
	SendQueueSize   int
	NotifyQueueSize int
	SessionTTL      time.Duration
	SweepInterval   time.Duration
}

// Hub owns the registry of live connections and the table of active game
// sessions. Every inbound envelope from every connection funnels through
// Dispatch; pushes from external services funnel through the notification
// queue. Connections and sessions are the only structures mutated from
// multiple goroutines and each is guarded by its own lock.
type Hub struct {
	players archive.PlayerDirectory
	cat     *msgcat.Catalog

	invites *invite.Store      // optional
	repo    archive.Repository // optional, receives evicted sessions

	mu      sync.RWMutex
	clients map[uuid.UUID]*Client

	smu      sync.RWMutex
	sessions map[uuid.UUID]*game.Session

	notifications chan Notification
	opts          Options

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New builds a hub. players resolves seat metadata; cat renders ERROR texts.
func New(players archive.PlayerDirectory, cat *msgcat.Catalog, opts Options) *Hub {
	if opts.SendQueueSize <= 0 {
		opts.SendQueueSize = 64
	}
	if opts.NotifyQueueSize <= 0 {
		opts.NotifyQueueSize = 256
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = 10 * time.Minute
	}
	return &Hub{
		players:       players,
		cat:           cat,
		clients:       make(map[uuid.UUID]*Client),
		sessions:      make(map[uuid.UUID]*game.Session),
		notifications: make(chan Notification, opts.NotifyQueueSize),
		opts:          opts,
		stopCh:        make(chan struct{}),
	}
}

// AttachInviteStore wires the optional Redis invitation store.
func (h *Hub) AttachInviteStore(s *invite.Store) {
	if h != nil {
		h.invites = s
	}
}

// AttachArchive wires the optional repository that receives evicted games.
func (h *Hub) AttachArchive(r archive.Repository) {
	if h != nil {
		h.repo = r
	}
}

// Run starts the notification drain loop and the session janitor. It returns
// immediately; Close stops both.
func (h *Hub) Run() {
	h.wg.Add(2)
	go h.notificationLoop()
	go h.janitor()
}

// Close stops the background loops and closes every live connection.
func (h *Hub) Close() {
	h.stopOnce.Do(func() { close(h.stopCh) })
	h.mu.Lock()
	for id, c := range h.clients {
		delete(h.clients, id)
		c.stop(websocket.StatusGoingAway, "server shutdown")
	}
	h.mu.Unlock()
	h.wg.Wait()
}

// register inserts a client under its user id, last-writer-wins: an existing
// connection for the same id is closed and replaced.
func (h *Hub) register(c *Client) {
	h.mu.Lock()
	old := h.clients[c.ID]
	h.clients[c.ID] = c
	h.mu.Unlock()
	if old != nil {
		old.stop(websocket.StatusNormalClosure, "replaced by newer connection")
		obslog.L().Info("client_replaced", zap.String("user_id", c.ID.String()))
	}
	obslog.L().Info("client_registered", zap.String("user_id", c.ID.String()))
}

// Disconnect removes the registry entry for a user id; absent ids are a
// no-op.
func (h *Hub) Disconnect(userID uuid.UUID) {
	h.mu.Lock()
	c, ok := h.clients[userID]
	if ok {
		delete(h.clients, userID)
	}
	h.mu.Unlock()
	if ok {
		c.stop(websocket.StatusNormalClosure, "")
		obslog.L().Info("client_unregistered", zap.String("user_id", userID.String()))
	}
}

// dropClient removes a client only if it still owns its registry slot, so a
// dying connection cannot evict its own replacement.
func (h *Hub) dropClient(c *Client) {
	h.mu.Lock()
	cur, ok := h.clients[c.ID]
	if ok && cur == c {
		delete(h.clients, c.ID)
	}
	h.mu.Unlock()
	if ok && cur == c {
		obslog.L().Info("client_unregistered", zap.String("user_id", c.ID.String()))
	}
}

// client looks up a live connection.
func (h *Hub) client(userID uuid.UUID) *Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clients[userID]
}

// ClientCount reports the number of live connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// session looks up an active game.
func (h *Hub) session(gameID uuid.UUID) *game.Session {
	h.smu.RLock()
	defer h.smu.RUnlock()
	return h.sessions[gameID]
}

// SessionCount reports the number of active games.
func (h *Hub) SessionCount() int {
	h.smu.RLock()
	defer h.smu.RUnlock()
	return len(h.sessions)
}

// sendTo delivers an envelope to a user's connection if one exists; absent
// recipients are dropped with a log, never an error.
func (h *Hub) sendTo(userID uuid.UUID, msg wsproto.Message) {
	c := h.client(userID)
	if c == nil {
		obslog.L().Debug("push_dropped",
			zap.String("user_id", userID.String()),
			zap.String("type", msg.Type),
			zap.String("reason", "not connected"),
		)
		return
	}
	c.Send(msg)
}

// sendError renders a catalog entry and pushes an ERROR envelope to the
// sender.
func (h *Hub) sendError(userID uuid.UUID, key, fallback string, data any) {
	text := fallback
	if h.cat != nil {
		text = h.cat.RenderOr(key, fallback, data)
	}
	h.sendTo(userID, wsproto.NewMessage(wsproto.TypeError, wsproto.ErrorPayload{Message: text}))
}

// janitor evicts sessions idle longer than the TTL and hands them to the
// archive repository.
func (h *Hub) janitor() {
	defer h.wg.Done()
	t := time.NewTicker(h.opts.SweepInterval)
	defer t.Stop()
	for {
		select {
		case <-h.stopCh:
			return
		case <-t.C:
			h.sweepSessions(time.Now().Add(-h.opts.SessionTTL))
		}
	}
}

func (h *Hub) sweepSessions(cutoff time.Time) {
	h.smu.Lock()
	var evicted []*game.Session
	for id, s := range h.sessions {
		if s.LastActive().Before(cutoff) {
			delete(h.sessions, id)
			evicted = append(evicted, s)
		}
	}
	h.smu.Unlock()

	for _, s := range evicted {
		obslog.L().Info("session_evicted",
			zap.String("game_id", s.ID.String()),
			zap.Time("last_active", s.LastActive()),
		)
		h.archiveSession(s)
		if h.invites != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			_ = h.invites.Remove(ctx, s.ID)
			cancel()
		}
	}
}

func (h *Hub) archiveSession(s *game.Session) {
	if h.repo == nil {
		return
	}
	white, black := s.Players()
	rec := &archive.GameRecord{
		ID:            s.ID,
		WhitePlayerID: white.ID,
		Moves:         s.Moves(),
		CreatedAt:     s.CreatedAt(),
		EndedAt:       s.LastActive(),
	}
	if black != nil {
		rec.BlackPlayerID = black.ID
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.repo.SaveGame(ctx, rec); err != nil {
		obslog.L().Error("session_archive_error",
			zap.String("game_id", s.ID.String()),
			zap.Error(err),
		)
	}
}

// lookupPlayer resolves seat metadata, falling back to a bare entry when the
// directory cannot answer; game flow never stalls on metadata.
func (h *Hub) lookupPlayer(userID uuid.UUID) game.Player {
	if h.players != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		info, err := h.players.Lookup(ctx, userID)
		cancel()
		if err == nil && info != nil {
			return game.Player{ID: userID, Name: info.Name, Rating: info.Rating}
		}
		if err != nil {
			obslog.L().Warn("player_lookup_error",
				zap.String("user_id", userID.String()),
				zap.Error(err),
			)
		}
	}
	return game.Player{ID: userID}
}

func decode[T any](payload json.RawMessage, out *T) bool {
	if len(payload) == 0 {
		return false
	}
	return json.Unmarshal(payload, out) == nil
}
