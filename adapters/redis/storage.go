package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"scoreboardkit/adapters/snapshot"
	"scoreboardkit/core"

	"github.com/redis/go-redis/v9"
)

// Config holds Redis connection configuration
type Config struct {
	Addr         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// KeyPrefix namespaces every key the store writes.
	KeyPrefix string
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		Addr:         "localhost:6379",
		Password:     "",
		DB:           0,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		KeyPrefix:    "scoreboard",
	}
}

// Store keeps the live board in Redis.
// Data structure:
// - {prefix}:live -> JSON snapshot of the whole board
// - {prefix}:ranking -> sorted set of match identities scored by total goals
//
// Both keys are written in one MULTI/EXEC so readers never see them disagree.
type Store struct {
	client *redis.Client
	prefix string
	opts   []core.ScoreboardOption
}

// New creates a new Redis-backed repository with the provided configuration
func New(config Config, opts ...core.ScoreboardOption) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		MinIdleConns: config.MinIdleConns,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Store{client: client, prefix: prefixOrDefault(config.KeyPrefix), opts: opts}, nil
}

// NewWithClient creates a Store using an existing Redis client (useful for testing)
func NewWithClient(client *redis.Client, prefix string, opts ...core.ScoreboardOption) *Store {
	return &Store{client: client, prefix: prefixOrDefault(prefix), opts: opts}
}

// Close closes the Redis connection
func (s *Store) Close() error {
	return s.client.Close()
}

func prefixOrDefault(p string) string {
	if p == "" {
		return "scoreboard"
	}
	return p
}

func (s *Store) liveKey() string    { return s.prefix + ":live" }
func (s *Store) rankingKey() string { return s.prefix + ":ranking" }

// Scoreboard loads the stored board. A missing key is an empty board.
func (s *Store) Scoreboard(ctx context.Context) (*core.Scoreboard, error) {
	data, err := s.client.Get(ctx, s.liveKey()).Bytes()
	if errors.Is(err, redis.Nil) {
		return core.NewScoreboard(s.opts...), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load scoreboard: %w", err)
	}
	return snapshot.Decode(data, s.opts...)
}

// Save replaces the stored board and its ranking set.
func (s *Store) Save(ctx context.Context, board *core.Scoreboard) error {
	if board == nil {
		return fmt.Errorf("%w: scoreboard must not be nil", core.ErrInvalidArgument)
	}
	snap := snapshot.FromBoard(board)
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	members := make([]redis.Z, 0, len(snap.Matches))
	for _, r := range snap.Matches {
		member, err := rankingMember(r)
		if err != nil {
			return err
		}
		members = append(members, redis.Z{Score: float64(r.HomeScore + r.AwayScore), Member: member})
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.liveKey(), data, 0)
		pipe.Del(ctx, s.rankingKey())
		if len(members) > 0 {
			pipe.ZAdd(ctx, s.rankingKey(), members...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save scoreboard: %w", err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.liveKey(), s.rankingKey()).Err(); err != nil {
		return fmt.Errorf("failed to clear scoreboard: %w", err)
	}
	return nil
}

// RankEntry is one member of the ranking set.
type RankEntry struct {
	Key   core.MatchKey
	Total int
}

// Ranking returns up to n entries with the highest totals. Entries with equal
// totals come back in Redis member order, so callers needing the full summary
// order should use Scoreboard.
func (s *Store) Ranking(ctx context.Context, n int) ([]RankEntry, error) {
	if n <= 0 {
		return nil, nil
	}
	zs, err := s.client.ZRevRangeWithScores(ctx, s.rankingKey(), 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read ranking: %w", err)
	}
	out := make([]RankEntry, 0, len(zs))
	for _, z := range zs {
		raw, ok := z.Member.(string)
		if !ok {
			continue
		}
		var id rankingID
		if err := json.Unmarshal([]byte(raw), &id); err != nil {
			continue // skip foreign members
		}
		out = append(out, RankEntry{Key: core.KeyOf(id.Home, id.Away, id.Start), Total: int(z.Score)})
	}
	return out, nil
}

type rankingID struct {
	Home  string    `json:"h"`
	Away  string    `json:"a"`
	Start time.Time `json:"s"`
}

func rankingMember(r snapshot.Record) (string, error) {
	b, err := json.Marshal(rankingID{Home: r.HomeTeam, Away: r.AwayTeam, Start: r.StartTime})
	if err != nil {
		return "", err
	}
	return string(b), nil
}
