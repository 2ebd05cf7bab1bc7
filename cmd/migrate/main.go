// Command migrate applies the embedded users schema.
//
//	migrate up
//	migrate status
//	migrate down [version]
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/config"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/infrastructure/db/migrations"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/logger"
)

const usage = "usage: migrate up | status | down [version]"

// migrator is the subset of migrations.Runner the commands drive.
type migrator interface {
	Up(ctx context.Context) error
	Status(ctx context.Context) error
	Down(ctx context.Context, targetVersion int64) error
}

type openFunc func(dsn string) (migrator, func(), error)

type command struct {
	name   string
	target int64
}

func parseArgs(args []string) (command, error) {
	if len(args) == 0 {
		return command{}, errors.New(usage)
	}

	cmd := command{name: args[0]}
	switch cmd.name {
	case "up", "status":
		if len(args) > 1 {
			return command{}, errors.New(usage)
		}
	case "down":
		if len(args) > 2 {
			return command{}, errors.New(usage)
		}
		if len(args) == 2 {
			v, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil || v < 0 {
				return command{}, fmt.Errorf("invalid version %q", args[1])
			}
			cmd.target = v
		}
	default:
		return command{}, fmt.Errorf("unknown command %q; %s", cmd.name, usage)
	}
	return cmd, nil
}

func run(ctx context.Context, args []string, dsn string, open openFunc, lg zerolog.Logger) int {
	cmd, err := parseArgs(args)
	if err != nil {
		lg.Error().Err(err).Msg("bad arguments")
		return 2
	}
	if dsn == "" {
		lg.Error().Msg("missing required env var: DB_ADDR")
		return 1
	}

	m, closeFn, err := open(dsn)
	if err != nil {
		lg.Error().Err(err).Msg("db connect failed")
		return 1
	}
	defer closeFn()

	switch cmd.name {
	case "up":
		err = m.Up(ctx)
	case "status":
		err = m.Status(ctx)
	case "down":
		err = m.Down(ctx, cmd.target)
	}
	if err != nil {
		lg.Error().Err(err).Str("command", cmd.name).Msg("migration failed")
		return 1
	}
	return 0
}

func openRunner(dsn string) (migrator, func(), error) {
	db, err := config.NewDB(dsn, false)
	if err != nil {
		return nil, nil, err
	}
	r, err := migrations.New(db, logger.Logger)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return r, closer(db), nil
}

func closer(db *sql.DB) func() {
	return func() { _ = db.Close() }
}

func main() {
	_ = godotenv.Load()
	logger.Init()

	os.Exit(run(context.Background(), os.Args[1:], os.Getenv("DB_ADDR"), openRunner, logger.Logger))
}
