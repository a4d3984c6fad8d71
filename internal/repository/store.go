package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/jaekwang-park/todos/internal/config"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// runner is satisfied by both *sql.DB and *sql.Tx.
type runner interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type scannable interface {
	Scan(dest ...any) error
}

// Store is the database handle shared by all repositories. It owns no
// per-request state: staged changes and the open transaction travel in the
// request context.
type Store struct {
	db           *sql.DB
	logger       *zap.Logger
	tracer       trace.Tracer
	queryTimeout time.Duration
	now          func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithQueryTimeout bounds every single statement. Zero disables the bound.
func WithQueryTimeout(d time.Duration) StoreOption {
	return func(s *Store) {
		s.queryTimeout = d
	}
}

// WithClock replaces the clock used for created/archived timestamps.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(db *sql.DB, logger *zap.Logger, opts ...StoreOption) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		db:     db,
		logger: logger,
		tracer: otel.Tracer("github.com/jaekwang-park/todos/internal/repository"),
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewDB opens the Postgres pool and verifies the connection.
func NewDB(ctx context.Context, cfg config.DBConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// runner returns the ambient transaction when the context carries one.
func (s *Store) runner(ctx context.Context) runner {
	if uow := unitOfWorkFrom(ctx); uow != nil {
		return uow.tx
	}
	return s.db
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}
