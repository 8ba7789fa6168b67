package sink

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/anandkaranubc/rex-data-wrangling/pkg/core"
)

func init() {
	for _, format := range Formats() {
		Register(format, func(logger *slog.Logger) Sink {
			return NewFileSink(format, logger)
		})
	}
}

// FileSink writes each table to <dir>/<name>.<ext>, or to stdout when no
// directory is configured.
type FileSink struct {
	format    string
	encoder   Encoder
	dir       string
	stdout    io.Writer
	delivered int
	logger    *slog.Logger
}

// NewFileSink creates a file sink for format. Unknown formats fail on Open.
func NewFileSink(format string, logger *slog.Logger) *FileSink {
	return &FileSink{
		format: format,
		logger: discardIfNil(logger),
	}
}

// Open resolves the encoder and output directory.
func (s *FileSink) Open(_ context.Context, cfg Config) error {
	enc, err := EncoderFor(s.format)
	if err != nil {
		return err
	}
	if delim, ok := cfg.Option("delimiter"); ok {
		csvEnc, isCSV := enc.(CSVEncoder)
		if !isCSV {
			return fmt.Errorf("option delimiter is only supported by the csv sink")
		}
		if enc, err = csvEnc.WithDelimiter(delim); err != nil {
			return err
		}
	}
	s.encoder = enc

	s.dir = cfg.Path
	if s.dir == "" {
		s.dir = cfg.Dir
	}
	s.stdout = cfg.Stdout
	if s.stdout == nil {
		s.stdout = os.Stdout
	}

	if s.dir != "" {
		if err := os.MkdirAll(s.dir, 0o750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	s.delivered = 0
	return nil
}

// Deliver encodes the table to its file, replacing it atomically.
func (s *FileSink) Deliver(ctx context.Context, t core.Table) error {
	if s.encoder == nil {
		return fmt.Errorf("sink not opened")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if s.dir == "" {
		if s.delivered > 0 {
			if _, err := fmt.Fprintln(s.stdout); err != nil {
				return err
			}
		}
		if err := s.encoder.Encode(s.stdout, t); err != nil {
			return fmt.Errorf("failed to encode %s: %w", t.Name, err)
		}
		s.delivered++
		return nil
	}

	path := s.Location(t.Name)
	tmp, err := os.CreateTemp(s.dir, "."+t.Name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := s.encoder.Encode(tmp, t); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to encode %s: %w", t.Name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	s.delivered++
	s.logger.Debug("table written", slog.String("path", path), slog.Int("rows", t.Len()))
	return nil
}

// Location returns the file a table of the given name is written to.
func (s *FileSink) Location(name string) string {
	if s.dir == "" {
		return "stdout"
	}
	ext := s.format
	if s.encoder != nil {
		ext = s.encoder.Extension()
	}
	return filepath.Join(s.dir, name+"."+ext)
}

// Close implements Sink. File sinks hold nothing open between deliveries.
func (s *FileSink) Close() error {
	return nil
}
