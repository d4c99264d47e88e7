package archive

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// memrepo is the in-memory repository used when no DATABASE_URL is configured
// and in tests.
type memrepo struct {
	mu    sync.RWMutex
	games map[uuid.UUID]*GameRecord
}

// NewMemoryRepository returns an empty in-memory game archive.
func NewMemoryRepository() Repository {
	return &memrepo{games: make(map[uuid.UUID]*GameRecord)}
}

func (m *memrepo) SaveGame(_ context.Context, g *GameRecord) error {
	if g == nil {
		return ErrNilGame
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *g
	cp.Moves = append([]string(nil), g.Moves...)
	m.games[g.ID] = &cp
	return nil
}

func (m *memrepo) RecentGames(_ context.Context, limit int) ([]*GameRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collect(limit, func(*GameRecord) bool { return true }), nil
}

func (m *memrepo) GamesByUser(_ context.Context, userID uuid.UUID, limit int) ([]*GameRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collect(limit, func(g *GameRecord) bool {
		return g.WhitePlayerID == userID || g.BlackPlayerID == userID
	}), nil
}

// collect must be called with m.mu held.
func (m *memrepo) collect(limit int, keep func(*GameRecord) bool) []*GameRecord {
	items := make([]*GameRecord, 0, len(m.games))
	for _, g := range m.games {
		if keep(g) {
			cp := *g
			cp.Moves = append([]string(nil), g.Moves...)
			items = append(items, &cp)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].EndedAt.Equal(items[j].EndedAt) {
			return items[i].EndedAt.After(items[j].EndedAt)
		}
		return items[i].ID.String() > items[j].ID.String()
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

// MemoryDirectory is a PlayerDirectory backed by a map, with a deterministic
// fallback for unknown users so session creation never fails on metadata.
type MemoryDirectory struct {
	mu      sync.RWMutex
	players map[uuid.UUID]PlayerInfo
}

// NewMemoryDirectory returns an empty directory.
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{players: make(map[uuid.UUID]PlayerInfo)}
}

// Put registers or replaces a player's metadata.
func (d *MemoryDirectory) Put(info PlayerInfo) {
	d.mu.Lock()
	d.players[info.ID] = info
	d.mu.Unlock()
}

// Lookup returns stored metadata, or a default built from the id.
func (d *MemoryDirectory) Lookup(_ context.Context, userID uuid.UUID) (*PlayerInfo, error) {
	d.mu.RLock()
	info, ok := d.players[userID]
	d.mu.RUnlock()
	if ok {
		return &info, nil
	}
	return &PlayerInfo{
		ID:     userID,
		Name:   fmt.Sprintf("player-%.8s", userID.String()),
		Rating: 1200,
	}, nil
}
