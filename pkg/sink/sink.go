// Package sink delivers report tables to their destinations.
//
// This package holds the public contract every sink implements, the sink
// registry, the shared table encoders and the file sinks. Database sinks live in
// pkg/sinks/ subdirectories and build on BaseSQLSink.
package sink

import (
	"context"
	"io"
	"strconv"

	"github.com/anandkaranubc/rex-data-wrangling/pkg/core"
)

// Config selects and configures a sink.
type Config struct {
	// Type is the registered sink name (csv, json, yaml, markdown, html, table, sqlite, duckdb, postgres).
	Type string `koanf:"type" json:"type" validate:"required"`

	// Path is the output directory for file sinks or the database file for embedded databases.
	Path string `koanf:"path" json:"path,omitempty"`

	// DSN is the connection string for server databases.
	DSN string `koanf:"dsn" json:"-"`

	// Options carries sink specific settings (delimiter, manifest).
	Options map[string]string `koanf:"options" json:"options,omitempty"`

	// Dir is the fallback output directory when Path is empty.
	Dir string `koanf:"-" json:"-"`

	// RunID tags manifest rows written during one run.
	RunID string `koanf:"-" json:"-"`

	// Stdout receives file sink output when no directory is configured.
	Stdout io.Writer `koanf:"-" json:"-"`
}

// Option returns the named option and whether it is set.
func (c Config) Option(name string) (string, bool) {
	v, ok := c.Options[name]
	return v, ok
}

// BoolOption parses the named option, returning def when it is unset or malformed.
func (c Config) BoolOption(name string, def bool) bool {
	v, ok := c.Option(name)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// Sink is the deliver capability: it writes a named table somewhere.
type Sink interface {
	// Open prepares the sink for delivery.
	Open(ctx context.Context, cfg Config) error

	// Deliver writes the table under its Name, replacing any earlier delivery of that name.
	Deliver(ctx context.Context, t core.Table) error

	// Close releases resources held by the sink.
	Close() error
}

// Locator is implemented by sinks that can report where a table was delivered.
type Locator interface {
	Location(name string) string
}
