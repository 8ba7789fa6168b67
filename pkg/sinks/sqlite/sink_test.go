package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anandkaranubc/rex-data-wrangling/pkg/core"
	"github.com/anandkaranubc/rex-data-wrangling/pkg/sink"
)

func wideTable() core.Table {
	return core.Table{
		Name:    "output1",
		Columns: []string{"mentor_ID", "mentor_email", "name_1", "email_1", "uro_1"},
		Rows: [][]string{
			{"M1", "ann@x.com", "Bo Kim", "bo@x.com", "U1"},
			{"M2", "m2@x.com"},
		},
	}
}

func openSink(t *testing.T, cfg sink.Config) *Sink {
	t.Helper()
	s := New(nil)
	require.NoError(t, s.Open(context.Background(), cfg))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRegistered(t *testing.T) {
	assert.True(t, sink.IsRegistered("sqlite"))

	s, err := sink.New(sink.Config{Type: "sqlite"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &Sink{}, s)
}

func TestSink_Deliver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "rex.db")
	s := openSink(t, sink.Config{Type: "sqlite", Path: path, RunID: "run-1"})
	ctx := context.Background()

	require.NoError(t, s.Deliver(ctx, wideTable()))

	rows, err := s.DB.QueryContext(ctx, `SELECT "mentor_ID", "name_1", "uro_1" FROM output1 ORDER BY rowid`)
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()

	type got struct {
		id   string
		name sql.NullString
		uro  sql.NullString
	}
	var results []got
	for rows.Next() {
		var g got
		require.NoError(t, rows.Scan(&g.id, &g.name, &g.uro))
		results = append(results, g)
	}
	require.NoError(t, rows.Err())
	require.Len(t, results, 2)

	assert.Equal(t, "M1", results[0].id)
	assert.Equal(t, sql.NullString{String: "Bo Kim", Valid: true}, results[0].name)
	assert.Equal(t, "M2", results[1].id)
	assert.False(t, results[1].uro.Valid, "ragged cells are NULL")

	var manifestRows int
	require.NoError(t, s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM rex_deliveries WHERE run_id = ? AND table_name = ? AND row_count = 2`,
		"run-1", "output1").Scan(&manifestRows))
	assert.Equal(t, 1, manifestRows)

	assert.Equal(t, path+" (table output1)", s.Location("output1"))
}

func TestSink_DeliverReplacesTable(t *testing.T) {
	s := openSink(t, sink.Config{Path: filepath.Join(t.TempDir(), "rex.db")})
	ctx := context.Background()

	require.NoError(t, s.Deliver(ctx, wideTable()))
	require.NoError(t, s.Deliver(ctx, core.Table{
		Name:    "output1",
		Columns: []string{"mentor_ID"},
		Rows:    [][]string{{"M9"}},
	}))

	var count int
	require.NoError(t, s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM output1`).Scan(&count))
	assert.Equal(t, 1, count)

	require.NoError(t, s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM rex_deliveries`).Scan(&count))
	assert.Equal(t, 2, count, "every delivery is recorded")
}

func TestSink_DefaultPathAndManifestOption(t *testing.T) {
	dir := t.TempDir()
	s := openSink(t, sink.Config{Dir: dir, Options: map[string]string{"manifest": "false"}})
	ctx := context.Background()

	assert.Equal(t, filepath.Join(dir, DefaultFile), s.Target)
	assert.False(t, s.Manifest)
	require.NoError(t, s.Deliver(ctx, wideTable()))

	var n int
	err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM rex_deliveries`).Scan(&n)
	assert.Error(t, err, "manifest table is not created")
}

func TestSink_ManifestMigrationApplied(t *testing.T) {
	s := openSink(t, sink.Config{Path: filepath.Join(t.TempDir(), "rex.db")})

	var version int64
	require.NoError(t, s.DB.QueryRow(`SELECT MAX(version_id) FROM goose_db_version WHERE is_applied`).Scan(&version))
	assert.Equal(t, int64(1), version)

	require.NoError(t, sink.Migrate(s.DB, "sqlite3"), "migrating twice is a no-op")
}

func TestSink_OpenRequiresPath(t *testing.T) {
	err := New(nil).Open(context.Background(), sink.Config{})
	assert.ErrorContains(t, err, "requires sink.path")
}
