package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-memdb"
	"github.com/skybi/oasis-sync/internal/record"
)

// RecordRepository implements the record.Repository interface using an in-memory table
type RecordRepository[T any] struct {
	db    *memdb.MemDB
	table string
}

var _ record.Repository[string] = (*RecordRepository[string])(nil)

// GetByStdNo retrieves the record of a student
func (repo *RecordRepository[T]) GetByStdNo(_ context.Context, stdNo string) (*record.Record[T], error) {
	txn := repo.db.Txn(false)
	obj, err := txn.First(repo.table, "id", stdNo)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, nil
	}
	return obj.(*record.Record[T]), nil
}

// Upsert replaces the data of a student's record or creates it
func (repo *RecordRepository[T]) Upsert(_ context.Context, stdNo string, data T) (*record.Record[T], error) {
	txn := repo.db.Txn(true)
	defer txn.Abort()

	existing, err := txn.First(repo.table, "id", stdNo)
	if err != nil {
		return nil, err
	}

	// Inserted objects must never be mutated, so a new one replaces the old one
	obj := &record.Record[T]{
		ID:        uuid.New(),
		StdNo:     stdNo,
		Data:      data,
		UpdatedAt: time.Now().Unix(),
	}
	if existing != nil {
		obj.ID = existing.(*record.Record[T]).ID
	}

	if err := txn.Insert(repo.table, obj); err != nil {
		return nil, err
	}
	txn.Commit()
	return obj, nil
}
