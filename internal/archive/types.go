package archive

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// GameRecord is the archived form of an evicted game session.
type GameRecord struct {
	ID            uuid.UUID
	WhitePlayerID uuid.UUID
	BlackPlayerID uuid.UUID
	Moves         []string
	CreatedAt     time.Time
	EndedAt       time.Time
}

// PlayerInfo carries the display attributes attached to a game seat.
type PlayerInfo struct {
	ID     uuid.UUID
	Name   string
	Rating int
}

// Repository persists evicted games.
type Repository interface {
	SaveGame(ctx context.Context, g *GameRecord) error
	RecentGames(ctx context.Context, limit int) ([]*GameRecord, error)
	GamesByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*GameRecord, error)
}

// PlayerDirectory resolves player metadata when a session seat is bound. The
// user store behind it is owned by an external service; only the lookup is
// consumed here.
type PlayerDirectory interface {
	Lookup(ctx context.Context, userID uuid.UUID) (*PlayerInfo, error)
}

var (
	ErrNilGame = errf("nil game record")
)

type staticErr string

func (e staticErr) Error() string { return string(e) }
func errf(s string) error         { return staticErr(s) }
