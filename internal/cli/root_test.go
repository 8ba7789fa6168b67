package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anandkaranubc/rex-data-wrangling/internal/cli/config"
	clitest "github.com/anandkaranubc/rex-data-wrangling/internal/cli/testutil"
)

// runRoot executes the root command in dir and returns stdout and stderr.
func runRoot(t *testing.T, dir string, args ...string) (string, string, error) {
	t.Helper()
	t.Chdir(dir)
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := NewRootCmd()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestNewRootCmd_Subcommands(t *testing.T) {
	cmd := NewRootCmd()

	assert.Equal(t, "rex", cmd.Use)
	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"process", "serve", "sinks", "version", "completion"} {
		assert.Contains(t, names, want)
	}

	for _, flag := range []string{"config", "mentors", "mentees", "matches", "output-dir", "sink", "sink-path", "sink-dsn", "strict", "verbose", "output", "delimiter", "log-level"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestRoot_ProcessProject(t *testing.T) {
	dir := clitest.SetupTestProject(t)

	stdout, _, err := runRoot(t, dir, "process")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "out", "output1.csv"))
	assert.FileExists(t, filepath.Join(dir, "out", "output2.csv"))
	assert.Contains(t, stdout, "# rex process")
}

func TestRoot_FlagsOverrideConfig(t *testing.T) {
	dir := clitest.SetupTestProject(t)

	stdout, _, err := runRoot(t, dir, "process", "--sink", "json", "--long-name", "pairs", "-o", "json")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "out", "pairs.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"uro": "U2"`)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &got), stdout)
	assert.Equal(t, "json", got["sink"])
}

func TestRoot_SQLiteSink(t *testing.T) {
	dir := clitest.SetupTestProject(t)

	_, _, err := runRoot(t, dir, "process", "--sink", "sqlite", "--sink-path", "reports/rex.db")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "reports", "rex.db"))
}

func TestRoot_SinksListsDatabaseSinks(t *testing.T) {
	stdout, _, err := runRoot(t, t.TempDir(), "sinks", "--output", "json")
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	kinds := map[string]any{}
	for _, s := range got {
		kinds[s["name"].(string)] = s["kind"]
	}
	assert.Equal(t, "database", kinds["sqlite"])
	assert.Equal(t, "database", kinds["duckdb"])
	assert.Equal(t, "database", kinds["postgres"])
	assert.Equal(t, "file", kinds["csv"])
}

func TestRoot_InvalidConfig(t *testing.T) {
	_, _, err := runRoot(t, t.TempDir(), "sinks", "--output", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")

	_, _, err = runRoot(t, t.TempDir(), "process", "--sink", "parquet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown sink type")
}

func TestRoot_MissingInputs(t *testing.T) {
	_, _, err := runRoot(t, t.TempDir(), "process")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing input tables: mentors, mentees, matches")
}

func TestRoot_Version(t *testing.T) {
	stdout, _, err := runRoot(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "rex v"+Version)
}

func TestCompletionCommand(t *testing.T) {
	stdout, _, err := runRoot(t, t.TempDir(), "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, stdout, "bash completion")

	_, _, err = runRoot(t, t.TempDir(), "completion", "tcsh")
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	buf := &bytes.Buffer{}

	logger := newLogger(buf, "info")
	assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))

	logger = newLogger(buf, "bogus")
	assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, logger.Enabled(context.Background(), slog.LevelWarn))
}
