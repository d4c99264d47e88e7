package game

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/park285/chess-live-server/internal/board"
	"github.com/park285/chess-live-server/pkg/wsproto"
)

// Player identifies one side of an active game together with its display
// attributes.
type Player struct {
	ID     uuid.UUID
	Name   string
	White  bool
	Rating int
}

// MoveOutcome classifies the result of a TryMove call.
type MoveOutcome int

const (
	MoveAccepted MoveOutcome = iota
	MoveWrongTurn
	MoveIllegal
	MoveBadNotation
)

// Errors
var (
	ErrAlreadyJoined = errf("game already has a black player")
	ErrNotInGame     = errf("user is not a player of this game")
)

type staticErr string

func (e staticErr) Error() string { return string(e) }
func errf(s string) error         { return staticErr(s) }

// Session holds one in-progress game's authoritative state: the board, both
// player identities and the spectator set. A single mutex serializes every
// join and move, so concurrent requests against the same game resolve
// deterministically.
type Session struct {
	ID uuid.UUID

	mu         sync.Mutex
	board      *board.Board
	white      Player
	black      *Player
	whiteTurn  bool
	moves      []string
	spectators map[uuid.UUID]struct{}
	createdAt  time.Time
	updatedAt  time.Time
}

// NewSession creates a session with an initialized board and only the white
// player bound. The black seat stays empty until Join.
func NewSession(id uuid.UUID, white Player) *Session {
	white.White = true
	now := time.Now()
	return &Session{
		ID:         id,
		board:      board.New(),
		white:      white,
		whiteTurn:  true,
		spectators: make(map[uuid.UUID]struct{}),
		createdAt:  now,
		updatedAt:  now,
	}
}

// Join binds the second player exactly once. A second call, including a
// concurrent one, observes ErrAlreadyJoined.
func (s *Session) Join(p Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.black != nil {
		return ErrAlreadyJoined
	}
	p.White = false
	s.black = &p
	s.updatedAt = time.Now()
	return nil
}

// TryMove validates and applies a half-move on behalf of requester. The board
// is never partially mutated: a rejected move leaves it untouched.
func (s *Session) TryMove(requester uuid.UUID, moveText string) (MoveOutcome, error) {
	mv, ok := board.ParseMove(moveText)
	if !ok {
		return MoveBadNotation, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	white, err := s.colorOf(requester)
	if err != nil {
		return MoveIllegal, err
	}
	if white != s.whiteTurn {
		return MoveWrongTurn, nil
	}
	p := s.board.PieceAt(mv.From)
	if p == nil || p.White != white || !board.IsLegal(s.board, mv) {
		return MoveIllegal, nil
	}

	s.board.Apply(mv)
	s.whiteTurn = !s.whiteTurn
	s.moves = append(s.moves, strings.ToUpper(strings.TrimSpace(moveText)))
	s.updatedAt = time.Now()
	return MoveAccepted, nil
}

// colorOf must be called with s.mu held.
func (s *Session) colorOf(id uuid.UUID) (white bool, err error) {
	if s.white.ID == id {
		return true, nil
	}
	if s.black != nil && s.black.ID == id {
		return false, nil
	}
	return false, ErrNotInGame
}

// Snapshot returns a transmissible copy of the board. The live board never
// leaves the lock.
func (s *Session) Snapshot() *wsproto.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Snapshot()
}

// CurrentPlayerID returns the id of the player whose turn it is. Before the
// black player joined it is always the white player.
func (s *Session) CurrentPlayerID() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.whiteTurn || s.black == nil {
		return s.white.ID
	}
	return s.black.ID
}

// Players returns the white player and, if joined, the black player.
func (s *Session) Players() (Player, *Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.black == nil {
		return s.white, nil
	}
	b := *s.black
	return s.white, &b
}

// AddSpectator subscribes a user to board updates for this game.
func (s *Session) AddSpectator(id uuid.UUID) {
	s.mu.Lock()
	s.spectators[id] = struct{}{}
	s.updatedAt = time.Now()
	s.mu.Unlock()
}

// RemoveSpectator unsubscribes a user; unknown ids are ignored.
func (s *Session) RemoveSpectator(id uuid.UUID) {
	s.mu.Lock()
	delete(s.spectators, id)
	s.mu.Unlock()
}

// Spectators returns the current spectator ids in no particular order.
func (s *Session) Spectators() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]uuid.UUID, 0, len(s.spectators))
	for id := range s.spectators {
		out = append(out, id)
	}
	return out
}

// Moves returns a copy of the accepted move log in play order.
func (s *Session) Moves() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.moves...)
}

// LastActive reports when the session last accepted a join, move or
// spectator change. The hub's janitor evicts on this.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

// CreatedAt reports when the session was created.
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}
