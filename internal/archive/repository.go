package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

// SQLRepository stores archived games and player metadata in Postgres.
type SQLRepository struct {
	db *sql.DB
}

// NewSQLRepository opens a pooled connection and verifies it with a ping.
func NewSQLRepository(databaseURL string) (*SQLRepository, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return &SQLRepository{db: db}, nil
}

func (r *SQLRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// SaveGame upserts an archived game.
func (r *SQLRepository) SaveGame(ctx context.Context, g *GameRecord) error {
	if g == nil {
		return ErrNilGame
	}
	movesRaw, _ := json.Marshal(g.Moves)
	q := `INSERT INTO games (
	    game_id, white_player_id, black_player_id, moves, started_at, ended_at
	  ) VALUES ($1,$2,$3,$4,$5,$6)
	  ON CONFLICT (game_id) DO UPDATE SET
	    white_player_id=EXCLUDED.white_player_id,
	    black_player_id=EXCLUDED.black_player_id,
	    moves=EXCLUDED.moves,
	    started_at=EXCLUDED.started_at,
	    ended_at=EXCLUDED.ended_at`
	_, err := r.db.ExecContext(ctx, q,
		g.ID, g.WhitePlayerID, nullableID(g.BlackPlayerID),
		string(movesRaw), g.CreatedAt, g.EndedAt,
	)
	return err
}

// RecentGames returns the most recently ended games, newest first.
func (r *SQLRepository) RecentGames(ctx context.Context, limit int) ([]*GameRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	q := `SELECT game_id, white_player_id, black_player_id, moves, started_at, ended_at
	  FROM games ORDER BY ended_at DESC LIMIT $1`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGames(rows)
}

// GamesByUser returns games in which the user held either seat, newest first.
func (r *SQLRepository) GamesByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*GameRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	q := `SELECT game_id, white_player_id, black_player_id, moves, started_at, ended_at
	  FROM games WHERE white_player_id=$1 OR black_player_id=$1
	  ORDER BY ended_at DESC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, q, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGames(rows)
}

// Lookup resolves a player's display name and rating from the users table.
func (r *SQLRepository) Lookup(ctx context.Context, userID uuid.UUID) (*PlayerInfo, error) {
	q := `SELECT username, rating FROM users WHERE user_id=$1`
	var info PlayerInfo
	info.ID = userID
	err := r.db.QueryRowContext(ctx, q, userID).Scan(&info.Name, &info.Rating)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func scanGames(rows *sql.Rows) ([]*GameRecord, error) {
	var out []*GameRecord
	for rows.Next() {
		var g GameRecord
		var movesRaw string
		var black sql.NullString
		if err := rows.Scan(&g.ID, &g.WhitePlayerID, &black, &movesRaw, &g.CreatedAt, &g.EndedAt); err != nil {
			return nil, err
		}
		if black.Valid {
			if id, err := uuid.Parse(black.String); err == nil {
				g.BlackPlayerID = id
			}
		}
		if err := json.Unmarshal([]byte(movesRaw), &g.Moves); err != nil {
			return nil, fmt.Errorf("decode moves for game %s: %w", g.ID, err)
		}
		out = append(out, &g)
	}
	return out, rows.Err()
}

func nullableID(id uuid.UUID) any {
	if id == uuid.Nil {
		return nil
	}
	return id
}
