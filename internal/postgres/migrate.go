package postgres

import (
	"context"
	_ "embed"
)

//go:embed schema.sql
var schemaSQL string

// Schema returns the DDL applied by Migrate
func Schema() string {
	return schemaSQL
}

// Migrate creates every table that does not exist yet
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return dbError(err, "failed to apply schema")
	}
	return nil
}
