package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/anandkaranubc/rex-data-wrangling/internal/cli/output"
	"github.com/anandkaranubc/rex-data-wrangling/internal/engine"
	"github.com/anandkaranubc/rex-data-wrangling/internal/run"
	"github.com/anandkaranubc/rex-data-wrangling/internal/source"
	"github.com/anandkaranubc/rex-data-wrangling/internal/watch"
)

// ProcessOptions holds options for the process command.
type ProcessOptions struct {
	Watch bool
}

// ProcessSummary is the machine readable result of one process run.
type ProcessSummary struct {
	*run.Outcome
	Sink    string `json:"sink"`
	Elapsed string `json:"elapsed"`
}

// NewProcessCommand creates the process command.
func NewProcessCommand() *cobra.Command {
	opts := &ProcessOptions{}

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Build the wide and long match reports",
		Long: `Read the mentor roster, the mentee roster and the match table, then
write the wide report (one row per mentor) and the long report (one row per
mentor/mentee pair) to the configured sink.

Match slots are compacted: empty slots are skipped so each mentor's mentees
fill slots 1..k. Unknown mentor ids and uro numbers keep their rows with empty
contact fields unless --strict is set.`,
		Example: `  # Write output1.csv and output2.csv into ./out
  rex process --mentors mentors.csv --mentees mentees.csv --matches matches.csv --output-dir out

  # Load the reports into a SQLite database
  rex process --sink sqlite --sink-path reports.db

  # Print the long report as markdown to stdout
  rex process --sink markdown

  # Re-run whenever an input file changes
  rex process --watch --output-dir out`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProcess(cmd, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-run when an input file changes")

	return cmd
}

func runProcess(cmd *cobra.Command, opts *ProcessOptions) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg

	if missing := cfg.ValidateInputs(); len(missing) > 0 {
		return &engine.MissingInputsError{Missing: missing}
	}

	ctx := cmd.Context()
	if !opts.Watch {
		return processOnce(ctx, cmdCtx)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := processOnce(ctx, cmdCtx); err != nil {
		cmdCtx.Renderer.Error(err.Error())
	}
	cmdCtx.Renderer.Muted("Watching inputs for changes (Ctrl+C to stop)...")

	paths := []string{cfg.Mentors, cfg.Mentees, cfg.Matches}
	return watch.Files(ctx, paths, cfg.Watch.Debounce, cmdCtx.Logger, func(ctx context.Context) {
		if err := processOnce(ctx, cmdCtx); err != nil {
			cmdCtx.Renderer.Error(err.Error())
		}
	})
}

// processOnce loads the inputs, builds both reports, delivers them and prints
// a summary.
func processOnce(ctx context.Context, c *CommandContext) error {
	cfg := c.Cfg
	start := time.Now()

	parser := &source.CSVParser{Comma: cfg.Comma()}
	in, err := source.LoadInputs(ctx, parser, source.Paths{
		Mentors: cfg.Mentors,
		Mentees: cfg.Mentees,
		Matches: cfg.Matches,
	})
	if err != nil {
		return err
	}

	out, err := run.Process(ctx, in, run.Options{
		Columns:  cfg.Columns,
		WideName: cfg.WideName,
		LongName: cfg.LongName,
		Strict:   cfg.Strict,
		Logger:   c.Logger,
	})
	if err != nil {
		if out != nil && c.Renderer.EffectiveMode() == output.ModeJSON {
			_ = c.Renderer.JSON(newProcessSummary(out, cfg.Sink.Type, start))
		}
		return err
	}

	sc := cfg.SinkConfig()
	sc.Stdout = c.Renderer.Writer()
	if err := run.Deliver(ctx, out, sc, c.Logger); err != nil {
		return err
	}

	r := c.Renderer
	if deliveredToStdout(out) {
		// Keep stdout clean for the reports themselves.
		r = output.NewRendererWithTTY(r.ErrWriter(), r.ErrWriter(), r.EffectiveMode(), r.IsTTY())
	}
	return renderProcess(r, newProcessSummary(out, cfg.Sink.Type, start))
}

func newProcessSummary(out *run.Outcome, sinkType string, start time.Time) *ProcessSummary {
	return &ProcessSummary{
		Outcome: out,
		Sink:    sinkType,
		Elapsed: time.Since(start).Round(time.Millisecond).String(),
	}
}

func deliveredToStdout(out *run.Outcome) bool {
	for _, d := range out.Deliveries {
		if d.Location == "stdout" {
			return true
		}
	}
	return false
}

func renderProcess(r *output.Renderer, s *ProcessSummary) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(s)
	case output.ModeMarkdown:
		renderProcessMarkdown(r, s)
	default:
		renderProcessText(r, s)
	}
	return nil
}

func renderProcessText(r *output.Renderer, s *ProcessSummary) {
	styles := r.Styles()
	stats := s.Stats

	r.Println("")
	r.Header(1, "rex process")
	r.Println(styles.Muted.Render(strings.Repeat("=", 40)))
	r.KeyValue("Run", s.RunID)
	r.KeyValue("Mentors", countWithDuplicates(stats.Mentors.Unique, stats.Mentors.Duplicates))
	r.KeyValue("Mentees", countWithDuplicates(stats.Mentees.Unique, stats.Mentees.Duplicates))
	r.KeyValue("Matches", fmt.Sprintf("%d rows, %d assignments", stats.Expand.Matches, stats.Expand.Assignments))
	r.Println("")

	r.Header(2, "Reports")
	for _, d := range s.Deliveries {
		r.StatusLine(d.Name, "success", fmt.Sprintf("%d rows, %d columns -> %s", d.Rows, d.Columns, d.Location))
	}
	r.Println("")

	renderProblems(r, s)
	r.Muted(fmt.Sprintf("Completed in %s", s.Elapsed))
}

func renderProcessMarkdown(r *output.Renderer, s *ProcessSummary) {
	stats := s.Stats

	r.Header(1, "rex process")
	r.Println(output.FormatKeyValue("Run", s.RunID))
	r.Println(output.FormatKeyValue("Mentors", countWithDuplicates(stats.Mentors.Unique, stats.Mentors.Duplicates)))
	r.Println(output.FormatKeyValue("Mentees", countWithDuplicates(stats.Mentees.Unique, stats.Mentees.Duplicates)))
	r.Println(output.FormatKeyValue("Matches", fmt.Sprintf("%d rows, %d assignments", stats.Expand.Matches, stats.Expand.Assignments)))
	r.Println("")

	r.Header(2, "Reports")
	for _, d := range s.Deliveries {
		r.Printf("- **%s**: %d rows, %d columns -> `%s`\n", d.Name, d.Rows, d.Columns, d.Location)
	}
	r.Println("")

	renderProblems(r, s)
	r.Printf("_Completed in %s_\n", s.Elapsed)
}

// renderProblems reports unresolved references and adjusted input rows on the
// diagnostics writer.
func renderProblems(r *output.Renderer, s *ProcessSummary) {
	if ids := s.Stats.Expand.UnresolvedMentors; len(ids) > 0 {
		r.Warning(fmt.Sprintf("%d unknown mentor id(s): %s", len(ids), strings.Join(ids, ", ")))
	}
	if uros := s.Stats.Expand.UnresolvedMentees; len(uros) > 0 {
		r.Warning(fmt.Sprintf("%d unknown uro number(s): %s", len(uros), strings.Join(uros, ", ")))
	}
	for _, table := range []string{engine.TableMentors, engine.TableMentees, engine.TableMatches} {
		if n := len(s.Warnings[table]); n > 0 {
			r.Warning(fmt.Sprintf("%s: %d row(s) adjusted while parsing (first at line %d: %s)",
				table, n, s.Warnings[table][0].Row, s.Warnings[table][0].Message))
		}
	}
}

func countWithDuplicates(unique, duplicates int) string {
	if duplicates == 0 {
		return fmt.Sprintf("%d", unique)
	}
	return fmt.Sprintf("%d (%d duplicate rows, last one wins)", unique, duplicates)
}
