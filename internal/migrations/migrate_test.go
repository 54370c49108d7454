package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestEmbeddedMigrations(t *testing.T) {
	names, err := fs.Glob(files, dir+"/*.sql")
	require.NoError(t, err)
	require.Len(t, names, 4)

	for _, name := range names {
		body, err := fs.ReadFile(files, name)
		require.NoError(t, err)
		assert.Contains(t, string(body), "-- +goose Up", name)
		assert.Contains(t, string(body), "-- +goose Down", name)
	}
}

func TestEmbeddedMigrations_CoverRepositoryTables(t *testing.T) {
	var all strings.Builder
	names, err := fs.Glob(files, dir+"/*.sql")
	require.NoError(t, err)
	for _, name := range names {
		body, err := fs.ReadFile(files, name)
		require.NoError(t, err)
		all.Write(body)
	}
	for _, table := range []string{"notifications", "otp", "password_reset_requests", "notification_params", "businesses", "business_verifications"} {
		assert.Contains(t, all.String(), "CREATE TABLE IF NOT EXISTS "+table+" (", table)
	}
	assert.Contains(t, all.String(), "code_hash")
}

func TestGooseLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := gooseLogger{log: zap.New(core).Sugar()}

	l.Printf("applied %d", 3)
	l.Fatalf("broken %s", "00002_otp.sql")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "applied 3", entries[0].Message)
	assert.Equal(t, zap.ErrorLevel, entries[1].Level)
}
