package sink

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/anandkaranubc/rex-data-wrangling/pkg/core"
)

// ManifestTable records every table a database sink delivers.
const ManifestTable = "rex_deliveries"

// BaseSQLSink provides the database/sql delivery shared by database sinks.
// Embed it in concrete sinks and set DB in Open.
type BaseSQLSink struct {
	DB     *sql.DB
	Logger *slog.Logger

	// Placeholder formats the n-th (1-based) bind parameter. Nil means "?".
	Placeholder func(n int) string

	// Manifest enables a rex_deliveries row per delivered table.
	Manifest bool

	// RunID is stored on manifest rows.
	RunID string

	// Target names the database in Location, e.g. its file path.
	Target string
}

// Close closes the database connection.
func (b *BaseSQLSink) Close() error {
	if b.DB != nil {
		b.logger().Debug("closing database connection")
		return b.DB.Close()
	}
	return nil
}

// Location implements Locator.
func (b *BaseSQLSink) Location(name string) string {
	if b.Target == "" {
		return TableName(name)
	}
	return fmt.Sprintf("%s (table %s)", b.Target, TableName(name))
}

// Deliver replaces the table named after t.Name inside one transaction.
// Every column is TEXT; cells a ragged row does not carry are stored as NULL.
func (b *BaseSQLSink) Deliver(ctx context.Context, t core.Table) (err error) {
	if b.DB == nil {
		return fmt.Errorf("database connection not established")
	}
	if len(t.Columns) == 0 {
		return fmt.Errorf("table %q has no columns", t.Name)
	}

	name := TableName(t.Name)
	tx, err := b.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+QuoteIdent(name)); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", name, err)
	}
	if _, err = tx.ExecContext(ctx, createTableSQL(name, t.Columns)); err != nil {
		return fmt.Errorf("failed to create table %s: %w", name, err)
	}

	insert := b.insertSQL(name, t.Columns)
	for r, row := range t.Rows {
		args := make([]any, len(t.Columns))
		for c := range args {
			if c < len(row) {
				args[c] = row[c]
			}
		}
		if _, err = tx.ExecContext(ctx, insert, args...); err != nil {
			return fmt.Errorf("failed to insert row %d into %s: %w", r+1, name, err)
		}
	}

	if b.Manifest {
		if err = b.recordDelivery(ctx, tx, name, t); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s: %w", name, err)
	}

	b.logger().Debug("table delivered", slog.String("table", name), slog.Int("rows", t.Len()))
	return nil
}

func (b *BaseSQLSink) recordDelivery(ctx context.Context, tx *sql.Tx, name string, t core.Table) error {
	query := fmt.Sprintf( //nolint:gosec // placeholders only
		"INSERT INTO %s (id, run_id, table_name, row_count, column_count, delivered_at) VALUES (%s)",
		ManifestTable, b.placeholders(6),
	)
	_, err := tx.ExecContext(ctx, query,
		uuid.NewString(), b.RunID, name, t.Len(), len(t.Columns), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to record delivery of %s: %w", name, err)
	}
	return nil
}

func (b *BaseSQLSink) insertSQL(name string, columns []string) string {
	quoted := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = QuoteIdent(col)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		QuoteIdent(name), strings.Join(quoted, ", "), b.placeholders(len(columns)))
}

func (b *BaseSQLSink) placeholders(n int) string {
	ph := make([]string, n)
	for i := range ph {
		if b.Placeholder != nil {
			ph[i] = b.Placeholder(i + 1)
		} else {
			ph[i] = "?"
		}
	}
	return strings.Join(ph, ", ")
}

func (b *BaseSQLSink) logger() *slog.Logger {
	if b.Logger == nil {
		b.Logger = slog.New(slog.DiscardHandler)
	}
	return b.Logger
}

func createTableSQL(name string, columns []string) string {
	defs := make([]string, len(columns))
	for i, col := range columns {
		defs[i] = QuoteIdent(col) + " TEXT"
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", QuoteIdent(name), strings.Join(defs, ", "))
}

// DollarPlaceholder formats PostgreSQL style bind parameters ($1, $2, ...).
func DollarPlaceholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

// QuoteIdent double-quotes a SQL identifier.
func QuoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// TableName turns a report name into a plain SQL table name: characters
// outside [A-Za-z0-9_] become '_' and a leading digit gets a '_' prefix.
func TableName(name string) string {
	var sb strings.Builder
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			sb.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	if sb.Len() == 0 {
		return "_"
	}
	return sb.String()
}

// DistinctTableNames returns an error when two report names map to the same
// SQL table. Names are compared case-insensitively.
func DistinctTableNames(names ...string) error {
	seen := make(map[string]string, len(names))
	for _, name := range names {
		key := strings.ToLower(TableName(name))
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("report names %q and %q both map to table %s", prev, name, TableName(name))
		}
		seen[key] = name
	}
	return nil
}
