package duckdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anandkaranubc/rex-data-wrangling/pkg/sink"
)

func TestRegistered(t *testing.T) {
	assert.True(t, sink.IsRegistered("duckdb"))

	s, err := sink.New(sink.Config{Type: "duckdb"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &Sink{}, s)
}

func TestPath(t *testing.T) {
	tests := []struct {
		name    string
		cfg     sink.Config
		want    string
		wantErr bool
	}{
		{name: "explicit path", cfg: sink.Config{Path: "out/reports.duckdb", Dir: "ignored"}, want: "out/reports.duckdb"},
		{name: "output directory", cfg: sink.Config{Dir: "out"}, want: filepath.Join("out", DefaultFile)},
		{name: "nothing configured", cfg: sink.Config{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Path(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSink_OpenRequiresPath(t *testing.T) {
	s := New(nil)
	err := s.Open(context.Background(), sink.Config{})
	assert.ErrorContains(t, err, "requires sink.path")
	assert.Nil(t, s.DB)
	assert.False(t, s.Manifest)
}
