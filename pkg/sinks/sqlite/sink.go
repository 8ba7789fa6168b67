// Package sqlite provides a SQLite sink for rex.
//
// Import this package with a blank identifier to register the sink:
//
//	import _ "github.com/anandkaranubc/rex-data-wrangling/pkg/sinks/sqlite"
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver (pure Go)

	"github.com/anandkaranubc/rex-data-wrangling/pkg/sink"
)

// DefaultFile is the database file created in the output directory when no path is set.
const DefaultFile = "rex.db"

func init() {
	sink.Register("sqlite", func(logger *slog.Logger) sink.Sink { return New(logger) })
}

// Sink writes report tables into a SQLite database file.
type Sink struct {
	sink.BaseSQLSink
}

// New creates a new SQLite sink. If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Sink{
		BaseSQLSink: sink.BaseSQLSink{Logger: logger},
	}
}

// Open opens (creating if needed) the database file and, unless the manifest
// option is false, migrates the delivery manifest.
func (s *Sink) Open(ctx context.Context, cfg sink.Config) error {
	path := cfg.Path
	if path == "" && cfg.Dir != "" {
		path = filepath.Join(cfg.Dir, DefaultFile)
	}
	if path == "" {
		return fmt.Errorf("sqlite sink requires sink.path or an output directory")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	s.Logger.Debug("opening sqlite database", slog.String("path", path))

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.Manifest = cfg.BoolOption("manifest", true)
	if s.Manifest {
		if err := sink.Migrate(db, "sqlite3"); err != nil {
			_ = db.Close()
			return err
		}
	}

	s.DB = db
	s.RunID = cfg.RunID
	s.Target = path
	return nil
}
