package invite

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const ttlInvite = 24 * time.Hour

// Invite is a pending game invitation, stored as JSON under inv:game:<id>.
type Invite struct {
	GameID    uuid.UUID `json:"game_id"`
	InviterID uuid.UUID `json:"inviter_id"`
	InviteeID uuid.UUID `json:"invitee_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Store keeps pending invitations in Redis with a TTL so abandoned invites
// expire on their own. All operations are best-effort from the hub's point of
// view; a nil *Store is a valid no-op store.
type Store struct {
	rdb *redis.Client
}

// NewStore connects to Redis and verifies the connection with a ping.
func NewStore(redisURL string) (*Store, error) {
	if strings.TrimSpace(redisURL) == "" {
		return nil, fmt.Errorf("REDIS_URL required for invite store")
	}
	opts, err := parseRedisURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Store{rdb: rdb}, nil
}

// NewStoreWithClient wraps an existing client; tests use this with miniredis.
func NewStoreWithClient(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func (s *Store) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}

func keyGame(gameID uuid.UUID) string  { return "inv:game:" + gameID.String() }
func keyInvitee(user uuid.UUID) string { return "inv:index:invitee:" + user.String() }

// Save records a pending invitation and indexes it by invitee.
func (s *Store) Save(ctx context.Context, inv Invite) error {
	if s == nil || s.rdb == nil {
		return nil
	}
	raw, err := json.Marshal(&inv)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, keyGame(inv.GameID), raw, ttlInvite).Err(); err != nil {
		return err
	}
	key := keyInvitee(inv.InviteeID)
	if err := s.rdb.SAdd(ctx, key, inv.GameID.String()).Err(); err != nil {
		return err
	}
	return s.rdb.Expire(ctx, key, ttlInvite).Err()
}

// Get loads one invitation; a missing or expired key yields (nil, nil).
func (s *Store) Get(ctx context.Context, gameID uuid.UUID) (*Invite, error) {
	if s == nil || s.rdb == nil {
		return nil, nil
	}
	raw, err := s.rdb.Get(ctx, keyGame(gameID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var inv Invite
	if err := json.Unmarshal(raw, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// PendingByUser lists the still-live invitations addressed to a user.
func (s *Store) PendingByUser(ctx context.Context, user uuid.UUID) ([]*Invite, error) {
	if s == nil || s.rdb == nil {
		return nil, nil
	}
	ids, err := s.rdb.SMembers(ctx, keyInvitee(user)).Result()
	if err != nil {
		return nil, err
	}
	var out []*Invite
	for _, id := range ids {
		gid, perr := uuid.Parse(id)
		if perr != nil {
			continue
		}
		inv, gerr := s.Get(ctx, gid)
		if gerr != nil || inv == nil {
			continue
		}
		out = append(out, inv)
	}
	return out, nil
}

// Remove deletes an invitation once the game was joined or evicted.
func (s *Store) Remove(ctx context.Context, gameID uuid.UUID) error {
	if s == nil || s.rdb == nil {
		return nil
	}
	inv, err := s.Get(ctx, gameID)
	if err != nil {
		return err
	}
	if inv != nil {
		_ = s.rdb.SRem(ctx, keyInvitee(inv.InviteeID), gameID.String()).Err()
	}
	return s.rdb.Del(ctx, keyGame(gameID)).Err()
}

func parseRedisURL(raw string) (*redis.Options, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "redis" && u.Scheme != "rediss" {
		return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	db := 0
	if p := strings.TrimPrefix(u.Path, "/"); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			db = n
		}
	}
	pass, _ := u.User.Password()
	return &redis.Options{Addr: u.Host, Password: pass, DB: db}, nil
}
