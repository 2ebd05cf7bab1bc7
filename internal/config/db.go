package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/logger"
)

const applicationName = "user-service"

type poolSettings struct {
	maxOpen     int
	maxIdle     int
	maxIdleTime time.Duration
	maxLifetime time.Duration
}

var defaultPool = poolSettings{
	maxOpen:     20,
	maxIdle:     10,
	maxIdleTime: 5 * time.Minute,
	maxLifetime: time.Hour,
}

// NewDB opens a database/sql pool over pgx and pings it. A malformed DSN is
// rejected before any network activity.
func NewDB(dsn string, debug bool) (*sql.DB, error) {
	if dsn == "" {
		return nil, errors.New("empty DB DSN")
	}

	connCfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse DB DSN: %w", err)
	}
	if connCfg.RuntimeParams["application_name"] == "" {
		connCfg.RuntimeParams["application_name"] = applicationName
	}

	db := stdlib.OpenDB(*connCfg)
	applyPool(db, defaultPool)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s/%s: %w", connCfg.Host, connCfg.Database, err)
	}

	if debug {
		var who, ver string
		_ = db.QueryRowContext(ctx, "SELECT current_user").Scan(&who)
		_ = db.QueryRowContext(ctx, "SHOW server_version").Scan(&ver)
		logger.Logger.Debug().
			Str("host", connCfg.Host).
			Str("db", connCfg.Database).
			Str("user", who).
			Str("version", ver).
			Msg("db connected")
	}

	return db, nil
}

func applyPool(db *sql.DB, p poolSettings) {
	db.SetMaxOpenConns(p.maxOpen)
	db.SetMaxIdleConns(p.maxIdle)
	db.SetConnMaxIdleTime(p.maxIdleTime)
	db.SetConnMaxLifetime(p.maxLifetime)
}
