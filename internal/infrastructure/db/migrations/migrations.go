package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed sql/*.sql
var files embed.FS

const dir = "sql"

// Runner applies the embedded schema migrations.
type Runner struct {
	db  *sql.DB
	log zerolog.Logger
}

func New(db *sql.DB, log zerolog.Logger) (Runner, error) {
	if db == nil {
		return Runner{}, errors.New("nil db provided")
	}
	goose.SetBaseFS(files)
	if err := goose.SetDialect("postgres"); err != nil {
		return Runner{}, fmt.Errorf("configure goose: %w", err)
	}
	goose.SetLogger(gooseLogger{log: log})
	return Runner{db: db, log: log}, nil
}

// Up applies pending migrations.
func (r Runner) Up(ctx context.Context) error {
	runCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	r.log.Info().Msg("applying migrations")
	if err := goose.UpContext(runCtx, r.db, dir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	r.log.Info().Msg("migrations applied")
	return nil
}

// Status logs applied and pending migrations.
func (r Runner) Status(ctx context.Context) error {
	if err := goose.StatusContext(ctx, r.db, dir); err != nil {
		return fmt.Errorf("migration status: %w", err)
	}
	return nil
}

// Down rolls back to targetVersion, or the latest migration when targetVersion <= 0.
func (r Runner) Down(ctx context.Context, targetVersion int64) error {
	runCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	if targetVersion > 0 {
		r.log.Info().Int64("target", targetVersion).Msg("rolling back migrations")
		if err := goose.DownToContext(runCtx, r.db, dir, targetVersion); err != nil {
			return fmt.Errorf("rollback to version %d: %w", targetVersion, err)
		}
		return nil
	}

	r.log.Info().Msg("rolling back latest migration")
	if err := goose.DownContext(runCtx, r.db, dir); err != nil {
		return fmt.Errorf("rollback latest migration: %w", err)
	}
	return nil
}

// gooseLogger routes goose output through zerolog.
type gooseLogger struct {
	log zerolog.Logger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.log.Info().Msgf(format, v...)
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	l.log.Fatal().Msgf(format, v...)
}
