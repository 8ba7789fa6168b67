package main

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anandkaranubc/rex-data-wrangling/internal/cli/config"
)

func TestCollectConfigKeys(t *testing.T) {
	keys := collectConfigKeys(reflect.ValueOf(config.Default()).Elem(), "")

	byKey := make(map[string]ConfigKey, len(keys))
	for _, k := range keys {
		byKey[k.Key] = k
	}

	assert.Equal(t, ConfigKey{Key: "sink.type", Env: "REX_SINK_TYPE", Type: "string", Default: "csv"}, byKey["sink.type"])
	assert.Equal(t, "30s", byKey["serve.read_timeout"].Default)
	assert.Equal(t, "REX_COLUMNS_MENTOR_EMAIL", byKey["columns.mentor_email"].Env)
	assert.Equal(t, "Mentor_Email", byKey["columns.mentor_email"].Default)
	assert.Empty(t, byKey["strict"].Default)
	assert.NotContains(t, byKey, "project_root")
	assert.NotContains(t, byKey, "sink.dir")
}

func TestGenerateConfigDocs(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, generateConfigDocs(dir))
	data, err := os.ReadFile(filepath.Join(dir, "configuration.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), generatedHeader)
	assert.Contains(t, string(data), "| `wide_name` | `REX_WIDE_NAME` | string | `output1` |")
}

func TestGenerateReferenceDocs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, generateReferenceDocs(dir))

	data, err := os.ReadFile(filepath.Join(dir, "reference.md"))
	require.NoError(t, err)
	doc := string(data)

	assert.Contains(t, doc, generatedHeader)
	assert.Contains(t, doc, "### rex process")
	assert.Contains(t, doc, "### rex serve")
	assert.Contains(t, doc, "| `-w`, `--watch` |")
	assert.Contains(t, doc, "| `--sink-path` | `sink.path` |")
	assert.Contains(t, doc, "mentor_ID,mentor_first,mentor_last,mentor_full,mentor_email,name_1,email_1,uro_1,name_2")
	assert.Contains(t, doc, "mentor_ID,mentor_email,uro,mentee_name,mentee_email")
	assert.Contains(t, doc, "| `sqlite` | database |  |")
	assert.Contains(t, doc, "| `csv` | file | `.csv` |")
	assert.Contains(t, doc, "| `csv` | `text/csv; charset=utf-8` |")
	assert.Contains(t, doc, "`/api/process/{report}`")
	assert.Contains(t, doc, "Upload page")
}

func TestFlagRows(t *testing.T) {
	fs := pflag.NewFlagSet("t", pflag.ContinueOnError)
	fs.StringP("output", "o", "auto", "Output format")
	fs.Bool("strict", false, "Fail on\n  unknown references")
	fs.String("config", "", "config file")

	rows := flagRows(fs, true)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"`--config`", "", "", "config file"}, rows[0])
	assert.Equal(t, []string{"`-o`, `--output`", "`output`", "`auto`", "Output format"}, rows[1])
	assert.Equal(t, []string{"`--strict`", "`strict`", "", "Fail on unknown references"}, rows[2])
}

func TestUnindent(t *testing.T) {
	got := unindent("  # one\n  rex process\n\n    --watch\n")
	assert.Equal(t, "# one\nrex process\n\n  --watch", got)
	assert.False(t, strings.HasPrefix(got, " "))
}

func TestMarkdownWriter_Table(t *testing.T) {
	w := NewMarkdownWriter()
	w.Table([]string{"A", "B"}, [][]string{{"x|y", "z"}})
	assert.Equal(t, "| A | B |\n| --- | --- |\n| x\\|y | z |\n\n", w.String())
}
