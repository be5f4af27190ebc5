package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/tallybank/tallybank/internal/logger"
)

// queryTrace measures one statement. Parameters are never logged since
// they carry balances and account ids; only their count is.
type queryTrace struct {
	logger    *logger.Logger
	query     string
	argCount  int
	txID      string
	slowQuery time.Duration
	start     time.Time
}

func (tq *TracedQuerier) trace(query string, argCount int) *queryTrace {
	return &queryTrace{
		logger:    tq.logger,
		query:     query,
		argCount:  argCount,
		txID:      tq.txID,
		slowQuery: tq.slowQuery,
		start:     time.Now(),
	}
}

func (qt *queryTrace) fields(extra ...interface{}) []interface{} {
	fields := []interface{}{
		"duration_ms", time.Since(qt.start).Milliseconds(),
		"query", qt.query,
		"args", qt.argCount,
	}
	if qt.txID != "" {
		fields = append(fields, "tx_id", qt.txID)
	}
	return append(fields, extra...)
}

// done logs the statement outcome. sql.ErrNoRows is a normal answer for
// lookups by id and is not reported as a failure.
func (qt *queryTrace) done(err error, extra ...interface{}) {
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		qt.logger.Errorw("database query failed", qt.fields(append(extra, "error", err.Error())...)...)
		return
	}
	if qt.slowQuery > 0 && time.Since(qt.start) >= qt.slowQuery {
		qt.logger.Warnw("slow database query", qt.fields(extra...)...)
		return
	}
	qt.logger.Debugw("database query completed", qt.fields(extra...)...)
}

// doneExec also records the affected row count. A guarded UPDATE that
// touches no row is how a version conflict first shows up.
func (qt *queryTrace) doneExec(result sql.Result, err error) {
	if err != nil || result == nil {
		qt.done(err)
		return
	}
	rows, rerr := result.RowsAffected()
	if rerr != nil {
		qt.done(nil)
		return
	}
	qt.done(nil, "rows_affected", rows)
}

// TracedQuerier logs every statement run through the wrapped Querier
type TracedQuerier struct {
	Querier
	logger    *logger.Logger
	txID      string
	slowQuery time.Duration
}

// NewTracedQuerier wraps q. A zero slowQuery disables slow query warnings.
func NewTracedQuerier(q Querier, logger *logger.Logger, txID string, slowQuery time.Duration) *TracedQuerier {
	return &TracedQuerier{
		Querier:   q,
		logger:    logger,
		txID:      txID,
		slowQuery: slowQuery,
	}
}

func (tq *TracedQuerier) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	qt := tq.trace(query, len(args))
	result, err := tq.Querier.ExecContext(ctx, query, args...)
	qt.doneExec(result, err)
	return result, err
}

func (tq *TracedQuerier) NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error) {
	qt := tq.trace(query, 1)
	result, err := tq.Querier.NamedExecContext(ctx, query, arg)
	qt.doneExec(result, err)
	return result, err
}

func (tq *TracedQuerier) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	qt := tq.trace(query, len(args))
	rows, err := tq.Querier.QueryContext(ctx, query, args...)
	qt.done(err)
	return rows, err
}

func (tq *TracedQuerier) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	qt := tq.trace(query, len(args))
	err := tq.Querier.GetContext(ctx, dest, query, args...)
	qt.done(err)
	return err
}

func (tq *TracedQuerier) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	qt := tq.trace(query, len(args))
	err := tq.Querier.SelectContext(ctx, dest, query, args...)
	qt.done(err)
	return err
}
