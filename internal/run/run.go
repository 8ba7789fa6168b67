// Package run turns parsed input tables into delivered reports.
//
// It is the orchestration shared by the CLI and the HTTP server: decode the
// tables, drive the pipeline, apply strict mode, lay out the report tables and
// hand them to a sink.
package run

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/anandkaranubc/rex-data-wrangling/internal/engine"
	"github.com/anandkaranubc/rex-data-wrangling/internal/report"
	"github.com/anandkaranubc/rex-data-wrangling/internal/roster"
	"github.com/anandkaranubc/rex-data-wrangling/internal/source"
	"github.com/anandkaranubc/rex-data-wrangling/pkg/core"
	"github.com/anandkaranubc/rex-data-wrangling/pkg/sink"
)

// Options controls a run.
type Options struct {
	Columns  core.ColumnMap
	WideName string
	LongName string

	// Strict turns unresolved references into an error.
	Strict bool

	Logger *slog.Logger
}

// Outcome describes one run. It is returned alongside errors so callers can
// still report the run id, state and stats.
type Outcome struct {
	RunID      string                           `json:"run_id"`
	State      engine.State                     `json:"state"`
	Missing    []string                         `json:"missing,omitempty"`
	Stats      engine.Stats                     `json:"stats"`
	Warnings   map[string][]source.ParseWarning `json:"warnings,omitempty"`
	Deliveries []Delivery                       `json:"deliveries,omitempty"`

	Result engine.Result `json:"-"`
	Tables []core.Table  `json:"-"`
}

// Table returns the report table with the given name.
func (o *Outcome) Table(name string) (core.Table, bool) {
	for _, t := range o.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return core.Table{}, false
}

// Delivery records where one report table went.
type Delivery struct {
	Name     string `json:"name"`
	Rows     int    `json:"rows"`
	Columns  int    `json:"columns"`
	Location string `json:"location"`
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

func (o Options) names() (wide, long string) {
	wide, long = o.WideName, o.LongName
	if wide == "" {
		wide = report.DefaultWideName
	}
	if long == "" {
		long = report.DefaultLongName
	}
	return wide, long
}

// Process builds both reports from the parsed inputs. A nil table in in (or a
// nil in) was not supplied: the pipeline then stays AwaitingInputs and a
// *engine.MissingInputsError is returned. In strict mode unresolved references
// return an *engine.UnresolvedReferencesError and no tables.
func Process(ctx context.Context, in *source.Inputs, opts Options) (*Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if in == nil {
		in = &source.Inputs{}
	}

	out := &Outcome{RunID: uuid.NewString()}
	logger := opts.logger().With(slog.String("run_id", out.RunID))
	cols := opts.Columns.WithDefaults()

	out.Warnings = collectWarnings(in)
	for table, warnings := range out.Warnings {
		for _, w := range warnings {
			logger.Warn("input row adjusted", slog.String("table", table), slog.Int("row", w.Row), slog.String("reason", w.Message))
		}
	}

	p := engine.New().
		WithMentors(roster.DecodeMentors(in.Mentors.Rows(), cols)).
		WithMentees(roster.DecodeMentees(in.Mentees.Rows(), cols)).
		WithMatches(roster.DecodeMatches(in.Matches.Rows(), cols))

	processed, ok := p.Process()
	out.State = processed.State()
	if !ok {
		out.Missing = processed.Missing()
		logger.Warn("inputs missing, nothing processed", slog.Any("missing", out.Missing))
		return out, &engine.MissingInputsError{Missing: out.Missing}
	}

	res, _ := processed.Result()
	out.Result = res
	out.Stats = res.Stats

	logger.Info("run processed",
		slog.Int("mentors", res.Stats.Mentors.Unique),
		slog.Int("mentees", res.Stats.Mentees.Unique),
		slog.Int("matches", res.Stats.Expand.Matches),
		slog.Int("assignments", res.Stats.Expand.Assignments),
	)
	if n := res.Stats.Mentors.Duplicates + res.Stats.Mentees.Duplicates; n > 0 {
		logger.Warn("duplicate keys, last row wins",
			slog.Int("mentors", res.Stats.Mentors.Duplicates),
			slog.Int("mentees", res.Stats.Mentees.Duplicates))
	}
	if res.Stats.Unresolved() {
		logger.Warn("unresolved references",
			slog.Any("mentor_ids", res.Stats.Expand.UnresolvedMentors),
			slog.Any("uro_numbers", res.Stats.Expand.UnresolvedMentees))
	}

	if opts.Strict {
		if err := engine.CheckStrict(res.Stats); err != nil {
			return out, err
		}
	}

	wide, long := opts.names()
	out.Tables = []core.Table{
		report.WideTable(res.Wide, wide),
		report.LongTable(res.Long, long),
	}
	return out, nil
}

// Deliver opens the configured sink, delivers every table of the outcome and
// records where each one went. Tables whose names map to the same SQL table
// are rejected before the sink is opened.
func Deliver(ctx context.Context, out *Outcome, cfg sink.Config, logger *slog.Logger) (err error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	names := make([]string, 0, len(out.Tables))
	for _, t := range out.Tables {
		names = append(names, t.Name)
	}
	if err := sink.DistinctTableNames(names...); err != nil {
		return err
	}

	s, err := sink.New(cfg, logger)
	if err != nil {
		return err
	}

	cfg.RunID = out.RunID
	if err := s.Open(ctx, cfg); err != nil {
		return fmt.Errorf("failed to open %s sink: %w", cfg.Type, err)
	}
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s sink: %w", cfg.Type, cerr)
		}
	}()

	for _, t := range out.Tables {
		if err := s.Deliver(ctx, t); err != nil {
			return fmt.Errorf("failed to deliver %s: %w", t.Name, err)
		}
		d := Delivery{Name: t.Name, Rows: t.Len(), Columns: len(t.Columns), Location: t.Name}
		if loc, ok := s.(sink.Locator); ok {
			d.Location = loc.Location(t.Name)
		}
		out.Deliveries = append(out.Deliveries, d)
		logger.Debug("report delivered", slog.String("name", d.Name), slog.String("location", d.Location), slog.Int("rows", d.Rows))
	}
	return nil
}

func collectWarnings(in *source.Inputs) map[string][]source.ParseWarning {
	var warnings map[string][]source.ParseWarning
	add := func(table string, res *source.ParseResult) {
		if res == nil || len(res.Warnings) == 0 {
			return
		}
		if warnings == nil {
			warnings = make(map[string][]source.ParseWarning)
		}
		warnings[table] = res.Warnings
	}
	add(engine.TableMentors, in.Mentors)
	add(engine.TableMentees, in.Mentees)
	add(engine.TableMatches, in.Matches)
	return warnings
}
