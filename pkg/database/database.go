// Package database owns the PostgreSQL pool shared by the domain systems.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/coderman400/AIArchitect/pkg/lifecycle"
)

// System exposes the pool and ties its lifetime to the service.
type System interface {
	Connection() *sql.DB
	// Ready pings the server within the configured connect timeout.
	Ready(ctx context.Context) error
	Start(lc *lifecycle.Coordinator) error
}

type database struct {
	conn        *sql.DB
	logger      *slog.Logger
	connTimeout time.Duration
}

// New opens the pool without dialing; the first connection is made when
// Start's startup hook runs or the first query arrives.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	db, err := sql.Open("pgx", cfg.Dsn())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	return &database{
		conn:        db,
		logger:      logger.With("system", "database"),
		connTimeout: cfg.ConnTimeoutDuration(),
	}, nil
}

func (d *database) Connection() *sql.DB {
	return d.conn
}

func (d *database) Ready(ctx context.Context) error {
	if d.connTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.connTimeout)
		defer cancel()
	}

	if err := d.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrNotReady, err)
	}
	return nil
}

func (d *database) Start(lc *lifecycle.Coordinator) error {
	lc.OnStartup(func() error {
		if err := d.Ready(lc.Context()); err != nil {
			return err
		}
		d.logger.Info("database connection established", "max_open", d.conn.Stats().MaxOpenConnections)
		return nil
	})

	lc.OnShutdown(func() error {
		<-lc.Context().Done()
		if err := d.conn.Close(); err != nil {
			return fmt.Errorf("close database: %w", err)
		}
		d.logger.Info("database connection closed")
		return nil
	})

	return nil
}
