package postgres

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anandkaranubc/rex-data-wrangling/pkg/core"
	"github.com/anandkaranubc/rex-data-wrangling/pkg/sink"
)

func TestRegistered(t *testing.T) {
	assert.True(t, sink.IsRegistered("postgres"))

	s, err := sink.New(sink.Config{Type: "postgres"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &Sink{}, s)
}

func TestSink_OpenRequiresDSN(t *testing.T) {
	err := New(nil).Open(context.Background(), sink.Config{Type: "postgres"})
	assert.ErrorContains(t, err, "requires sink.dsn")
}

func TestSink_DeliverUsesDollarPlaceholders(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	s := New(nil)
	s.DB = db

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DROP TABLE IF EXISTS "output2"`)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE "output2" ("mentor_ID" TEXT, "uro" TEXT)`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "output2" ("mentor_ID", "uro") VALUES ($1, $2)`)).
		WithArgs("M1", "U1").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	mock.ExpectClose()

	table := core.Table{Name: "output2", Columns: []string{"mentor_ID", "uro"}, Rows: [][]string{{"M1", "U1"}}}
	require.NoError(t, s.Deliver(context.Background(), table))
	require.NoError(t, s.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}
