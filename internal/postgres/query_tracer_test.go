package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tallybank/tallybank/internal/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type rowsResult int64

func (r rowsResult) LastInsertId() (int64, error) { return 0, nil }
func (r rowsResult) RowsAffected() (int64, error) { return int64(r), nil }

type stubQuerier struct {
	Querier
	delay  time.Duration
	result sql.Result
	err    error
}

func (q *stubQuerier) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	time.Sleep(q.delay)
	return q.result, q.err
}

func (q *stubQuerier) GetContext(context.Context, interface{}, string, ...interface{}) error {
	return q.err
}

func observed() (*logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return &logger.Logger{SugaredLogger: zap.New(core).Sugar()}, logs
}

func TestTracedExecRecordsRowsAffected(t *testing.T) {
	log, logs := observed()
	tq := NewTracedQuerier(&stubQuerier{result: rowsResult(0)}, log, "tx-1", 0)

	_, err := tq.ExecContext(context.Background(), "UPDATE invoices SET version = version + 1 WHERE id = $1 AND version = $2", "inv-1", 3)
	require.NoError(t, err)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(0), fields["rows_affected"])
	assert.Equal(t, int64(2), fields["args"])
	assert.Equal(t, "tx-1", fields["tx_id"])
}

func TestTracedQueryLevels(t *testing.T) {
	t.Run("no rows is not a failure", func(t *testing.T) {
		log, logs := observed()
		tq := NewTracedQuerier(&stubQuerier{err: sql.ErrNoRows}, log, "", 0)

		var v int64
		err := tq.GetContext(context.Background(), &v, "SELECT version FROM invoices WHERE id = $1", "inv-1")
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Equal(t, 0, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
	})

	t.Run("failure is logged as error", func(t *testing.T) {
		log, logs := observed()
		tq := NewTracedQuerier(&stubQuerier{err: errors.New("connection reset")}, log, "", 0)

		_, err := tq.ExecContext(context.Background(), "DELETE FROM payments")
		assert.Error(t, err)
		assert.Equal(t, 1, logs.FilterMessage("database query failed").Len())
	})

	t.Run("slow statement is a warning", func(t *testing.T) {
		log, logs := observed()
		tq := NewTracedQuerier(&stubQuerier{result: rowsResult(1), delay: 5 * time.Millisecond}, log, "", time.Millisecond)

		_, err := tq.ExecContext(context.Background(), "UPDATE accounts SET balance = $1", "10")
		require.NoError(t, err)
		assert.Equal(t, 1, logs.FilterMessage("slow database query").Len())
	})
}
