package txmanager

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_CommitsOnSuccess(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	m := NewTransactionManager(db)
	err = m.Do(context.Background(), func(ctx context.Context) error {
		assert.True(t, IsInTransaction(ctx))
		return nil
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDo_RollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	m := NewTransactionManager(db)
	err = m.Do(context.Background(), func(ctx context.Context) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDoSerializable_RetriesOnSerializationFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectCommit()

	calls := 0
	m := NewTransactionManager(db)
	err = m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return &pq.Error{Code: "40001"}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNestedCallReusesTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	m := NewTransactionManager(db)
	err = m.Do(context.Background(), func(ctx context.Context) error {
		return m.DoSerializable(ctx, func(inner context.Context) error {
			assert.Equal(t, GetExecutor(ctx, db), GetExecutor(inner, db))
			return nil
		})
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetExecutor_WithoutTx(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	assert.False(t, IsInTransaction(context.Background()))
	assert.Equal(t, DBExecutor(db), GetExecutor(context.Background(), db))
}
