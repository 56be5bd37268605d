package database

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMigrations_Embedded(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE surveys")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE INDEX idx_surveys_created_at")).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, RunMigrations(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations_OrderAndFailure(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/0002_b.up.sql":   {Data: []byte("SELECT 2 FROM dual;")},
		"migrations/0001_a.up.sql":   {Data: []byte("SELECT 1 FROM dual")},
		"migrations/0001_a.down.sql": {Data: []byte("DROP everything")},
	}

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("SELECT 1 FROM dual").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("SELECT 2 FROM dual").WillReturnError(errors.New("ORA-00942"))

	err = runMigrations(context.Background(), db, fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "0002_b.up.sql")
	assert.NoError(t, mock.ExpectationsWereMet())
}
