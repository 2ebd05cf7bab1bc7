package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_NilDB(t *testing.T) {
	_, err := New(nil, zerolog.Nop())
	assert.Error(t, err)
}

func TestEmbeddedMigrations_AreCollectable(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = New(db, zerolog.Nop())
	require.NoError(t, err)

	migs, err := goose.CollectMigrations(dir, 0, goose.MaxVersion)
	require.NoError(t, err)
	require.NotEmpty(t, migs)
	assert.Equal(t, int64(1), migs[0].Version)
}

func TestUsersMigration_HasUniqueEmailAndDown(t *testing.T) {
	b, err := fs.ReadFile(files, "sql/00001_create_users.sql")
	require.NoError(t, err)
	body := string(b)

	assert.Contains(t, body, "-- +goose Up")
	assert.Contains(t, body, "-- +goose Down")
	assert.True(t, strings.Contains(body, "UNIQUE INDEX") && strings.Contains(body, "(email)"))
	assert.Contains(t, body, "BIGSERIAL")
}
