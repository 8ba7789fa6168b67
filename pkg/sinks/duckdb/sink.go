// Package duckdb provides a DuckDB sink for rex.
//
// Import this package with a blank identifier to register the sink:
//
//	import _ "github.com/anandkaranubc/rex-data-wrangling/pkg/sinks/duckdb"
package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver

	"github.com/anandkaranubc/rex-data-wrangling/pkg/sink"
)

// DefaultFile is the database file created in the output directory when no path is set.
const DefaultFile = "rex.duckdb"

func init() {
	sink.Register("duckdb", func(logger *slog.Logger) sink.Sink { return New(logger) })
}

// Sink writes report tables into a DuckDB database file.
// It keeps no delivery manifest.
type Sink struct {
	sink.BaseSQLSink
}

// New creates a new DuckDB sink. If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Sink{
		BaseSQLSink: sink.BaseSQLSink{Logger: logger},
	}
}

// Path resolves the database file for cfg.
func Path(cfg sink.Config) (string, error) {
	if cfg.Path != "" {
		return cfg.Path, nil
	}
	if cfg.Dir != "" {
		return filepath.Join(cfg.Dir, DefaultFile), nil
	}
	return "", fmt.Errorf("duckdb sink requires sink.path or an output directory")
}

// Open establishes a connection to the DuckDB file.
func (s *Sink) Open(ctx context.Context, cfg sink.Config) error {
	path, err := Path(cfg)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	s.Logger.Debug("opening duckdb database", slog.String("path", path))

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return fmt.Errorf("failed to open duckdb connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping duckdb: %w", err)
	}

	s.DB = db
	s.Target = path
	return nil
}
