package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/anandkaranubc/rex-data-wrangling/internal/cli"
	"github.com/anandkaranubc/rex-data-wrangling/internal/cli/commands"
	"github.com/anandkaranubc/rex-data-wrangling/internal/cli/config"
	"github.com/anandkaranubc/rex-data-wrangling/internal/report"
	"github.com/anandkaranubc/rex-data-wrangling/internal/server"
	"github.com/anandkaranubc/rex-data-wrangling/pkg/core"
	"github.com/anandkaranubc/rex-data-wrangling/pkg/sink"
)

// routeNotes describes the routes registered by internal/server, keyed by
// "METHOD pattern". Routes without a note are still listed.
var routeNotes = map[string]string{
	"GET /":                      "Upload page with the three file inputs and the download buttons",
	"GET /healthz":               "Liveness check",
	"POST /api/process":          "Multipart upload of mentors, mentees and matches; returns the run summary and both reports as JSON",
	"POST /api/process/{report}": "Same upload; returns the wide or long report as a file (?format=, default csv)",
}

// generateReferenceDocs writes reference.md from the live command tree, the
// sink registry, the encoders and the server routes.
func generateReferenceDocs(outDir string) error {
	log.Printf("Generating reference docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	root := cli.NewRootCmd()

	w := NewMarkdownWriter()
	w.Frontmatter("Reference", "rex commands, reports, sinks and HTTP routes")
	w.GeneratedMarker()
	w.Header(1, "Reference")
	w.Paragraph(root.Long)

	writeCommands(w, root)
	writeReports(w)
	writeSinks(w)
	if err := writeRoutes(w); err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(outDir, "reference.md"), w.Bytes(), 0600)
}

func writeCommands(w *MarkdownWriter, root *cobra.Command) {
	w.Header(2, "Commands")
	for _, cmd := range root.Commands() {
		if !cmd.IsAvailableCommand() {
			continue
		}
		w.Header(3, "rex "+cmd.Name())
		w.Paragraph(cmd.Short)
		w.CodeBlock("bash", cmd.UseLine())

		if cmd.HasAvailableLocalFlags() {
			w.Table([]string{"Flag", "Default", "Description"}, flagRows(cmd.LocalFlags(), false))
		}
		if cmd.Example != "" {
			w.CodeBlock("bash", unindent(cmd.Example))
		}
	}

	w.Header(3, "Global options")
	w.Paragraph("Every global option except --config sets the config key shown; see configuration.md for the matching REX_ variables.")
	w.Table([]string{"Flag", "Config key", "Default", "Description"}, flagRows(root.PersistentFlags(), true))
}

func flagRows(fs *pflag.FlagSet, withKey bool) [][]string {
	var rows [][]string
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		name := InlineCode("--" + f.Name)
		if f.Shorthand != "" {
			name = InlineCode("-"+f.Shorthand) + ", " + name
		}
		def := ""
		if f.DefValue != "" && f.DefValue != "false" {
			def = InlineCode(f.DefValue)
		}

		row := []string{name}
		if withKey {
			key := ""
			if f.Name != "config" {
				key = InlineCode(config.FlagKey(f.Name))
			}
			row = append(row, key)
		}
		rows = append(rows, append(row, def, cleanDescription(f.Usage)))
	})
	return rows
}

func writeReports(w *MarkdownWriter) {
	w.Header(2, "Reports")

	w.Header(3, report.DefaultWideName)
	w.Paragraph(fmt.Sprintf("One row per match-table row. The mentor columns are followed by one name/email/uro triple per matched mentee, up to %d; the header is as wide as the row with the most mentees.", core.MaxSlots))
	w.CodeBlock("text", strings.Join(report.WideColumns(2), ",")+",...")

	w.Header(3, report.DefaultLongName)
	w.Paragraph("One row per matched mentee, in match-table order.")
	w.CodeBlock("text", strings.Join(core.LongColumns, ","))
}

func writeSinks(w *MarkdownWriter) {
	w.Header(2, "Sinks")
	w.Paragraph("Select a sink with --sink or sink.type. File sinks write `<name>.<extension>` into the output directory, or to stdout when none is set. Database sinks replace one table per report.")

	var rows [][]string
	for _, info := range commands.ListSinks() {
		ext := ""
		if info.Extension != "" {
			ext = InlineCode("." + info.Extension)
		}
		rows = append(rows, []string{InlineCode(info.Name), info.Kind, ext})
	}
	w.Table([]string{"Sink", "Kind", "Extension"}, rows)

	w.Header(3, "Download formats")
	w.Paragraph("The format query parameter of the download route accepts the same encoders as the file sinks.")
	var formats [][]string
	for _, name := range sink.Formats() {
		enc, err := sink.EncoderFor(name)
		if err != nil {
			continue
		}
		formats = append(formats, []string{InlineCode(name), InlineCode(enc.ContentType())})
	}
	w.Table([]string{"Format", "Content type"}, formats)
}

func writeRoutes(w *MarkdownWriter) error {
	routes, ok := server.New(server.Config{}).Handler().(chi.Routes)
	if !ok {
		return fmt.Errorf("server handler does not expose its routes")
	}

	var rows [][]string
	err := chi.Walk(routes, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		rows = append(rows, []string{method, InlineCode(route), routeNotes[method+" "+route]})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk server routes: %w", err)
	}

	w.Header(2, "HTTP routes")
	w.Paragraph("Served by rex serve.")
	w.Table([]string{"Method", "Route", "Description"}, rows)
	return nil
}

// unindent strips the two-space indent cobra examples are written with.
func unindent(s string) string {
	lines := strings.Split(strings.Trim(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, "  ")
	}
	return strings.Join(lines, "\n")
}
