package sqlx

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	// database drivers selectable through Config.Driver
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"

	"scoreboardkit/adapters/snapshot"
	"scoreboardkit/core"
)

type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverMySQL    Driver = "mysql"
)

// Config holds database connection settings. MySQL DSNs must set parseTime=true.
type Config struct {
	Driver          Driver
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func DefaultConfig(driver Driver) Config {
	cfg := Config{
		Driver:          driver,
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: 30 * time.Minute,
	}
	switch driver {
	case DriverMySQL:
		cfg.DSN = "root@tcp(localhost:3306)/scoreboard?parseTime=true"
	default:
		cfg.Driver = DriverPostgres
		cfg.DSN = "postgres://localhost:5432/scoreboard?sslmode=disable"
	}
	return cfg
}

// Store keeps one row per live match in the live_matches table. Every save
// replaces the table contents inside a transaction.
type Store struct {
	db     *sqlx.DB
	driver Driver
	opts   []core.ScoreboardOption
}

// New connects to the database described by cfg.
func New(cfg Config, opts ...core.ScoreboardOption) (*Store, error) {
	db, err := sqlx.Connect(string(cfg.Driver), cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Driver, err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return NewWithDB(db, cfg.Driver, opts...), nil
}

// NewWithDB wraps an existing handle (useful for testing).
func NewWithDB(db *sqlx.DB, driver Driver, opts ...core.ScoreboardOption) *Store {
	return &Store{db: db, driver: driver, opts: opts}
}

func (s *Store) Close() error { return s.db.Close() }

const postgresSchema = `CREATE TABLE IF NOT EXISTS live_matches (
	home_team  TEXT NOT NULL,
	away_team  TEXT NOT NULL,
	start_time TIMESTAMPTZ NOT NULL,
	home_score INTEGER NOT NULL DEFAULT 0,
	away_score INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (home_team, away_team, start_time)
)`

const mysqlSchema = `CREATE TABLE IF NOT EXISTS live_matches (
	home_team  VARCHAR(255) NOT NULL,
	away_team  VARCHAR(255) NOT NULL,
	start_time DATETIME(6) NOT NULL,
	home_score INT NOT NULL DEFAULT 0,
	away_score INT NOT NULL DEFAULT 0,
	PRIMARY KEY (home_team, away_team, start_time)
)`

// Migrate creates the live_matches table when missing.
func (s *Store) Migrate(ctx context.Context) error {
	schema := postgresSchema
	if s.driver == DriverMySQL {
		schema = mysqlSchema
	}
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate live_matches: %w", err)
	}
	return nil
}

const selectMatches = `SELECT home_team, away_team, start_time, home_score, away_score FROM live_matches`

func (s *Store) Scoreboard(ctx context.Context) (*core.Scoreboard, error) {
	var records []snapshot.Record
	if err := s.db.SelectContext(ctx, &records, selectMatches); err != nil {
		return nil, fmt.Errorf("load live matches: %w", err)
	}
	return snapshot.BoardFromRecords(records, s.opts...)
}

func (s *Store) Save(ctx context.Context, board *core.Scoreboard) (err error) {
	if board == nil {
		return fmt.Errorf("%w: scoreboard must not be nil", core.ErrInvalidArgument)
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM live_matches`); err != nil {
		return fmt.Errorf("clear live matches: %w", err)
	}
	insert := tx.Rebind(`INSERT INTO live_matches (home_team, away_team, start_time, home_score, away_score) VALUES (?, ?, ?, ?, ?)`)
	for _, r := range snapshot.FromBoard(board).Matches {
		if _, err = tx.ExecContext(ctx, insert, r.HomeTeam, r.AwayTeam, r.StartTime, r.HomeScore, r.AwayScore); err != nil {
			return fmt.Errorf("insert %s vs %s: %w", r.HomeTeam, r.AwayTeam, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM live_matches`); err != nil {
		return fmt.Errorf("clear live matches: %w", err)
	}
	return nil
}
