package commands

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anandkaranubc/rex-data-wrangling/internal/cli/config"
)

func TestSinks_Markdown(t *testing.T) {
	stdout, _, err := execute(t, context.Background(), NewSinksCommand(), config.Default())
	require.NoError(t, err)

	assert.Contains(t, stdout, "# Sinks")
	assert.Contains(t, stdout, "- **csv:** file (.csv)")
	assert.Contains(t, stdout, "- **markdown:** file (.md)")
	assert.Contains(t, stdout, "- **table:** file (.txt)")
}

func TestSinks_JSON(t *testing.T) {
	cfg := config.Default()
	cfg.OutputFormat = "json"

	stdout, _, err := execute(t, context.Background(), NewSinksCommand(), cfg)
	require.NoError(t, err)

	var got []SinkInfo
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Contains(t, got, SinkInfo{Name: "yaml", Kind: "file", Extension: "yaml"})
	assert.Contains(t, got, SinkInfo{Name: "html", Kind: "file", Extension: "html"})
}

func TestDescribeSink(t *testing.T) {
	assert.Equal(t, "database", describeSink(SinkInfo{Name: "sqlite", Kind: "database"}))
	assert.Equal(t, "file (.json)", describeSink(SinkInfo{Name: "json", Kind: "file", Extension: "json"}))
}
