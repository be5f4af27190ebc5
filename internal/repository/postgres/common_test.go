package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ierr "github.com/tallybank/tallybank/internal/errors"
	"github.com/tallybank/tallybank/internal/postgres"
)

// versionQuerier answers the version re-read of a guarded UPDATE
type versionQuerier struct {
	postgres.Querier
	current int64
	err     error
	queries []string
}

func (q *versionQuerier) GetContext(_ context.Context, dest interface{}, query string, _ ...interface{}) error {
	q.queries = append(q.queries, query)
	if q.err != nil {
		return q.err
	}
	*dest.(*int64) = q.current
	return nil
}

func TestCheckVersionConflict(t *testing.T) {
	tests := []struct {
		name     string
		querier  *versionQuerier
		sentinel error
	}{
		{"row moved on", &versionQuerier{current: 4}, ierr.ErrVersionStale},
		{"row deleted", &versionQuerier{err: sql.ErrNoRows}, ierr.ErrNotFound},
		{"lookup failed", &versionQuerier{err: errors.New("connection reset")}, ierr.ErrDatabase},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkVersionConflict(context.Background(), tt.querier, "invoices", "invoice", "inv-1", 3)
			require.Error(t, err)
			assert.True(t, ierr.Is(err, tt.sentinel), "got %v", err)
			require.Len(t, tt.querier.queries, 1)
			assert.Contains(t, tt.querier.queries[0], "FROM invoices")
		})
	}
}

func TestDBErrorMapsUniqueViolation(t *testing.T) {
	err := dbError(&pq.Error{Code: pgUniqueViolation, Constraint: "transactions_reference_key"}, "failed to create transaction")
	assert.True(t, ierr.IsAlreadyExists(err))

	err = dbError(errors.New("boom"), "failed to create transaction")
	assert.True(t, ierr.Is(err, ierr.ErrDatabase))
	assert.False(t, ierr.IsAlreadyExists(err))
}
