package record

import (
	"context"

	"github.com/google/uuid"
)

// Record represents the latest synced snapshot of one kind of data of a student
type Record[T any] struct {
	ID        uuid.UUID `json:"id"`
	StdNo     string    `json:"std_no"`
	Data      T         `json:"data"`
	UpdatedAt int64     `json:"updated_at"`
}

// Repository defines the API of a repository storing one record per student
type Repository[T any] interface {
	// GetByStdNo retrieves the record of a student; nil if there is none
	GetByStdNo(ctx context.Context, stdNo string) (*Record[T], error)

	// Upsert replaces the data of a student's record or creates it if it does not exist yet.
	// The record ID stays the same across upserts.
	Upsert(ctx context.Context, stdNo string, data T) (*Record[T], error)
}
