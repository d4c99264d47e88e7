package archive

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

func record(user uuid.UUID, endedAgo time.Duration) *GameRecord {
	now := time.Now()
	return &GameRecord{
		ID:            uuid.New(),
		WhitePlayerID: user,
		BlackPlayerID: uuid.New(),
		Moves:         []string{"E2E4", "E7E5"},
		CreatedAt:     now.Add(-endedAgo - time.Hour),
		EndedAt:       now.Add(-endedAgo),
	}
}

func TestSaveGameRejectsNil(t *testing.T) {
	repo := NewMemoryRepository()
	if err := repo.SaveGame(context.Background(), nil); err != ErrNilGame {
		t.Fatalf("want ErrNilGame, got %v", err)
	}
}

func TestRecentGamesOrderAndLimit(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	user := uuid.New()

	oldest := record(user, 3*time.Hour)
	middle := record(user, 2*time.Hour)
	newest := record(user, time.Hour)
	for _, g := range []*GameRecord{middle, oldest, newest} {
		if err := repo.SaveGame(ctx, g); err != nil {
			t.Fatalf("SaveGame: %v", err)
		}
	}

	games, err := repo.RecentGames(ctx, 2)
	if err != nil {
		t.Fatalf("RecentGames: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("want 2 games, got %d", len(games))
	}
	if games[0].ID != newest.ID || games[1].ID != middle.ID {
		t.Fatalf("order wrong: %s, %s", games[0].ID, games[1].ID)
	}
}

func TestGamesByUser(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	user := uuid.New()

	mine := record(user, time.Hour)
	other := record(uuid.New(), time.Hour)
	asBlack := record(uuid.New(), 2*time.Hour)
	asBlack.BlackPlayerID = user
	for _, g := range []*GameRecord{mine, other, asBlack} {
		if err := repo.SaveGame(ctx, g); err != nil {
			t.Fatalf("SaveGame: %v", err)
		}
	}

	games, err := repo.GamesByUser(ctx, user, 10)
	if err != nil {
		t.Fatalf("GamesByUser: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("want both colors counted, got %d", len(games))
	}
}

func TestSaveGameCopies(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	g := record(uuid.New(), time.Hour)
	if err := repo.SaveGame(ctx, g); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}
	g.Moves[0] = "mutated"

	games, err := repo.RecentGames(ctx, 1)
	if err != nil {
		t.Fatalf("RecentGames: %v", err)
	}
	if games[0].Moves[0] != "E2E4" {
		t.Fatalf("stored record shares the caller's slice")
	}
}

func TestSaveGameUpserts(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	g := record(uuid.New(), time.Hour)
	if err := repo.SaveGame(ctx, g); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}
	g.Moves = append(g.Moves, "D2D4")
	if err := repo.SaveGame(ctx, g); err != nil {
		t.Fatalf("SaveGame again: %v", err)
	}

	games, err := repo.RecentGames(ctx, 10)
	if err != nil {
		t.Fatalf("RecentGames: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("same id should overwrite, got %d records", len(games))
	}
	if len(games[0].Moves) != 3 {
		t.Fatalf("overwrite lost moves: %v", games[0].Moves)
	}
}

func TestMemoryDirectory(t *testing.T) {
	d := NewMemoryDirectory()
	ctx := context.Background()
	known := uuid.New()
	d.Put(PlayerInfo{ID: known, Name: "alice", Rating: 1500})

	info, err := d.Lookup(ctx, known)
	if err != nil || info == nil {
		t.Fatalf("Lookup known: %+v %v", info, err)
	}
	if info.Name != "alice" || info.Rating != 1500 {
		t.Fatalf("stored info: %+v", info)
	}

	anon, err := d.Lookup(ctx, uuid.New())
	if err != nil || anon == nil {
		t.Fatalf("Lookup unknown: %+v %v", anon, err)
	}
	if anon.Name == "" || anon.Rating != 1200 {
		t.Fatalf("fallback info: %+v", anon)
	}
}
