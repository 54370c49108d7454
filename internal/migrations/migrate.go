// Package migrations owns the database schema.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

const dir = "sql"

//go:embed sql/*.sql
var files embed.FS

// Up applies every pending migration.
func Up(ctx context.Context, db *sql.DB, log *zap.Logger) error {
	goose.SetBaseFS(files)
	goose.SetLogger(gooseLogger{log: log.Named("migrations").Sugar()})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("migrations: set dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("migrations: up: %w", err)
	}
	return nil
}

// gooseLogger routes goose output through zap. Fatalf is logged as an error so
// a broken migration returns instead of exiting the process.
type gooseLogger struct {
	log *zap.SugaredLogger
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) { l.log.Errorf(format, v...) }
func (l gooseLogger) Printf(format string, v ...interface{}) { l.log.Infof(format, v...) }
