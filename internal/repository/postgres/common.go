package postgres

import (
	"context"
	"database/sql"
	"errors"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/lib/pq"
	"github.com/tallybank/tallybank/internal/dsl"
	ierr "github.com/tallybank/tallybank/internal/errors"
	"github.com/tallybank/tallybank/internal/filter"
	"github.com/tallybank/tallybank/internal/postgres"
)

const pgUniqueViolation = "23505"

// listQuery renders a paginated SELECT for a compiled filter
func listQuery(table string, f *filter.ListFilter, resolve dsl.FieldResolver) (string, []any, error) {
	sel := entsql.Dialect(dialect.Postgres).Select("*").From(entsql.Table(table))

	pred, err := dsl.BuildPredicate(f.Expr, resolve)
	if err != nil {
		return "", nil, err
	}
	if pred != nil {
		pred(sel)
	}

	order, err := dsl.BuildOrder(f.QueryFilter, resolve)
	if err != nil {
		return "", nil, err
	}
	order(sel)

	if !f.IsUnlimited() {
		sel.Limit(f.GetLimit())
	}
	if f.GetOffset() > 0 {
		sel.Offset(f.GetOffset())
	}

	query, args := sel.Query()
	return query, args, nil
}

// countQuery renders a COUNT(*) for a compiled filter
func countQuery(table string, f *filter.ListFilter, resolve dsl.FieldResolver) (string, []any, error) {
	sel := entsql.Dialect(dialect.Postgres).Select(entsql.Count("*")).From(entsql.Table(table))

	pred, err := dsl.BuildPredicate(f.Expr, resolve)
	if err != nil {
		return "", nil, err
	}
	if pred != nil {
		pred(sel)
	}

	query, args := sel.Query()
	return query, args, nil
}

func count(ctx context.Context, q postgres.Querier, table string, f *filter.ListFilter, resolve dsl.FieldResolver) (int, error) {
	query, args, err := countQuery(table, f, resolve)
	if err != nil {
		return 0, err
	}
	var n int
	if err := q.GetContext(ctx, &n, query, args...); err != nil {
		return 0, dbError(err, "failed to count "+table)
	}
	return n, nil
}

// checkVersionConflict explains why a guarded UPDATE touched no row
func checkVersionConflict(ctx context.Context, q postgres.Querier, table, entity, id string, expected int64) error {
	var current int64
	err := q.GetContext(ctx, &current, "SELECT version FROM "+table+" WHERE id = $1", id)
	return versionConflict(entity, id, expected, current, err)
}

// versionConflict explains a guarded UPDATE that matched no row. lookupErr
// and current come from re-reading the row's version.
func versionConflict(entity, id string, expected, current int64, lookupErr error) error {
	if errors.Is(lookupErr, sql.ErrNoRows) {
		return notFound(entity, id)
	}
	if lookupErr != nil {
		return dbError(lookupErr, "failed to read "+entity+" version")
	}
	return ierr.NewErrorf("%s %s was modified concurrently", entity, id).
		WithHint("The resource was modified since you last read it, reload and retry").
		WithReportableDetails(map[string]any{"id": id}).
		WithVersions(expected, current).
		Mark(ierr.ErrVersionStale)
}

func notFound(entity, id string) error {
	return ierr.NewErrorf("%s %s not found", entity, id).
		WithHintf("%s not found", entity).
		WithReportableDetails(map[string]any{
			"id": id,
		}).
		Mark(ierr.ErrNotFound)
}

func dbError(err error, msg string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
		return ierr.WithError(err).
			WithMessage(msg).
			WithHint("A record with the same unique attributes already exists").
			WithReportableDetails(map[string]any{
				"constraint": pqErr.Constraint,
			}).
			Mark(ierr.ErrAlreadyExists)
	}
	return ierr.WithError(err).
		WithMessage(msg).
		WithHint("A database error occurred, please retry").
		Mark(ierr.ErrDatabase)
}

func getOne(ctx context.Context, q postgres.Querier, dest any, entity, id, query string, args ...any) error {
	err := q.GetContext(ctx, dest, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return notFound(entity, id)
	}
	if err != nil {
		return dbError(err, "failed to get "+entity)
	}
	return nil
}
