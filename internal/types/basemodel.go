package types

import (
	"context"
	"time"
)

// BaseModel carries the audit columns every persisted record has.
// Version is the optimistic concurrency counter exposed to clients as an ETag.
type BaseModel struct {
	Version   int64     `db:"version" json:"version"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
	CreatedBy string    `db:"created_by" json:"created_by"`
	UpdatedBy string    `db:"updated_by" json:"updated_by"`
}

func GetDefaultBaseModel(ctx context.Context) BaseModel {
	now := time.Now().UTC()
	return BaseModel{
		Version:   0,
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: GetUsername(ctx),
		UpdatedBy: GetUsername(ctx),
	}
}
