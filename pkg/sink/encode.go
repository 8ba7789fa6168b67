package sink

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/anandkaranubc/rex-data-wrangling/pkg/core"
)

// Encoder renders a table in one output format.
type Encoder interface {
	Encode(w io.Writer, t core.Table) error

	// Extension is the file extension, without the dot.
	Extension() string

	// ContentType is the HTTP media type of the encoded output.
	ContentType() string
}

var encoders = map[string]Encoder{
	"csv":      CSVEncoder{Comma: ','},
	"json":     jsonEncoder{},
	"yaml":     yamlEncoder{},
	"markdown": prettyEncoder{mode: "markdown"},
	"html":     prettyEncoder{mode: "html"},
	"table":    prettyEncoder{mode: "table"},
}

var formatAliases = map[string]string{
	"md":  "markdown",
	"yml": "yaml",
	"txt": "table",
}

// Formats returns the supported encoder names (sorted).
func Formats() []string {
	names := make([]string, 0, len(encoders))
	for name := range encoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EncoderFor returns the encoder for a format name or alias.
func EncoderFor(format string) (Encoder, error) {
	name := strings.ToLower(strings.TrimSpace(format))
	if alias, ok := formatAliases[name]; ok {
		name = alias
	}
	enc, ok := encoders[name]
	if !ok {
		return nil, fmt.Errorf("unsupported format %q (supported: %s)", format, strings.Join(Formats(), ", "))
	}
	return enc, nil
}

// CSVEncoder writes a header line and one padded line per row.
type CSVEncoder struct {
	Comma rune
}

// Encode implements Encoder.
func (e CSVEncoder) Encode(w io.Writer, t core.Table) error {
	cw := csv.NewWriter(w)
	if e.Comma != 0 {
		cw.Comma = e.Comma
	}
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for r := range t.Rows {
		if err := cw.Write(t.PaddedRow(r)); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func (CSVEncoder) Extension() string   { return "csv" }
func (CSVEncoder) ContentType() string { return "text/csv; charset=utf-8" }

// WithDelimiter returns a copy using the first rune of delim, or an error when
// delim is not a single character.
func (e CSVEncoder) WithDelimiter(delim string) (CSVEncoder, error) {
	if delim == `\t` {
		delim = "\t"
	}
	if utf8.RuneCountInString(delim) != 1 {
		return e, fmt.Errorf("csv delimiter must be a single character, got %q", delim)
	}
	r, _ := utf8.DecodeRuneInString(delim)
	e.Comma = r
	return e, nil
}

type jsonEncoder struct{}

func (jsonEncoder) Encode(w io.Writer, t core.Table) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(Records(t))
}

func (jsonEncoder) Extension() string   { return "json" }
func (jsonEncoder) ContentType() string { return "application/json" }

type yamlEncoder struct{}

func (yamlEncoder) Encode(w io.Writer, t core.Table) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Records(t)); err != nil {
		return err
	}
	return enc.Close()
}

func (yamlEncoder) Extension() string   { return "yaml" }
func (yamlEncoder) ContentType() string { return "application/yaml" }

type prettyEncoder struct {
	mode string
}

func (e prettyEncoder) Encode(w io.Writer, t core.Table) error {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)

	header := make(table.Row, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = col
	}
	tw.AppendHeader(header)

	for r := range t.Rows {
		cells := t.PaddedRow(r)
		row := make(table.Row, len(cells))
		for i, v := range cells {
			row[i] = v
		}
		tw.AppendRow(row)
	}

	var out string
	switch e.mode {
	case "markdown":
		out = tw.RenderMarkdown()
	case "html":
		out = tw.RenderHTML()
	default:
		out = tw.Render()
	}
	_, err := fmt.Fprintln(w, out)
	return err
}

func (e prettyEncoder) Extension() string {
	switch e.mode {
	case "markdown":
		return "md"
	case "html":
		return "html"
	default:
		return "txt"
	}
}

func (e prettyEncoder) ContentType() string {
	switch e.mode {
	case "markdown":
		return "text/markdown; charset=utf-8"
	case "html":
		return "text/html; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}
