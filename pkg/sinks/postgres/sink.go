// Package postgres provides a PostgreSQL sink for rex.
//
// Import this package with a blank identifier to register the sink:
//
//	import _ "github.com/anandkaranubc/rex-data-wrangling/pkg/sinks/postgres"
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver

	"github.com/anandkaranubc/rex-data-wrangling/pkg/sink"
)

func init() {
	sink.Register("postgres", func(logger *slog.Logger) sink.Sink { return New(logger) })
}

// Sink writes report tables into a PostgreSQL database.
type Sink struct {
	sink.BaseSQLSink
}

// New creates a new PostgreSQL sink. If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Sink{
		BaseSQLSink: sink.BaseSQLSink{
			Logger:      logger,
			Placeholder: sink.DollarPlaceholder,
		},
	}
}

// Open connects using cfg.DSN and, unless the manifest option is false,
// migrates the delivery manifest.
func (s *Sink) Open(ctx context.Context, cfg sink.Config) error {
	if cfg.DSN == "" {
		return fmt.Errorf("postgres sink requires sink.dsn (or REX_SINK_DSN)")
	}

	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return fmt.Errorf("failed to open postgres connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping postgres: %w", err)
	}

	s.Manifest = cfg.BoolOption("manifest", true)
	if s.Manifest {
		if err := sink.Migrate(db, "postgres"); err != nil {
			_ = db.Close()
			return err
		}
	}

	s.DB = db
	s.RunID = cfg.RunID
	s.Target = "postgres"
	return nil
}
