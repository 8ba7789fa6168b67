package output

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_EffectiveMode(t *testing.T) {
	tests := []struct {
		name string
		mode Mode
		tty  bool
		want Mode
	}{
		{name: "auto on terminal", mode: ModeAuto, tty: true, want: ModeText},
		{name: "auto piped", mode: ModeAuto, tty: false, want: ModeMarkdown},
		{name: "empty means auto", mode: "", tty: false, want: ModeMarkdown},
		{name: "explicit json", mode: ModeJSON, tty: true, want: ModeJSON},
		{name: "explicit text piped", mode: ModeText, tty: false, want: ModeText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRendererWithTTY(&bytes.Buffer{}, &bytes.Buffer{}, tt.mode, tt.tty)
			assert.Equal(t, tt.want, r.EffectiveMode())
			assert.Equal(t, tt.tty, r.IsTTY())
		})
	}
}

func TestRendererContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	r := NewRendererWithTTY(&bytes.Buffer{}, &bytes.Buffer{}, ModeJSON, false)
	got, ok := FromContext(NewContext(context.Background(), r))
	require.True(t, ok)
	assert.Same(t, r, got)
}

func TestNewRenderer_BufferIsNotTerminal(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, ModeAuto)
	assert.False(t, r.IsTTY())
}

func TestRenderer_MarkdownOutput(t *testing.T) {
	var out bytes.Buffer
	r := NewRendererWithTTY(&out, &bytes.Buffer{}, ModeMarkdown, false)

	r.Header(1, "Run summary")
	r.KeyValue("Mentors", "3")

	assert.Equal(t, "# Run summary\n\n- **Mentors:** 3\n", out.String())
}

func TestRenderer_TextWithoutTerminalHasNoEscapes(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRendererWithTTY(&out, &errOut, ModeText, false)

	r.Header(2, "Reports")
	r.StatusLine("output1.csv", "success", "(3 rows)")
	r.Success("done")
	r.Warning("2 unknown mentor id(s)")
	r.Error("boom")

	assert.Equal(t, "Reports\n  ✓ output1.csv (3 rows)\n✓ done\n", out.String())
	assert.Equal(t, "! 2 unknown mentor id(s)\n✗ boom\n", errOut.String())
	assert.NotContains(t, out.String(), "\x1b[")
}

func TestRenderer_JSON(t *testing.T) {
	var out bytes.Buffer
	r := NewRendererWithTTY(&out, &bytes.Buffer{}, ModeJSON, false)

	require.NoError(t, r.JSON(map[string]int{"rows": 2}))
	assert.Equal(t, "{\n  \"rows\": 2\n}\n", out.String())
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "## Reports", FormatHeader(2, "Reports"))
	assert.Equal(t, "# Clamp", FormatHeader(0, "Clamp"))
	assert.Equal(t, "###### Deep", FormatHeader(9, "Deep"))
	assert.Equal(t, "- **Run:** abc", FormatKeyValue("Run", "abc"))
}
