package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/skybi/oasis-sync/internal/record"
)

var recordColumns = []string{"record_id", "std_no", "data", "updated_at"}

// RecordRepository implements the record.Repository interface using a PostgreSQL table holding JSONB payloads
type RecordRepository[T any] struct {
	db    *pgxpool.Pool
	table string
}

var _ record.Repository[string] = (*RecordRepository[string])(nil)

// GetByStdNo retrieves the record of a student
func (repo *RecordRepository[T]) GetByStdNo(ctx context.Context, stdNo string) (*record.Record[T], error) {
	query, args, err := selectQuery(repo.table, stdNo)
	if err != nil {
		return nil, err
	}
	obj, err := repo.rowToRecord(repo.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return obj, nil
}

// Upsert replaces the data of a student's record or creates it
func (repo *RecordRepository[T]) Upsert(ctx context.Context, stdNo string, data T) (*record.Record[T], error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	query, args, err := upsertQuery(repo.table, uuid.New(), stdNo, payload, time.Now().Unix())
	if err != nil {
		return nil, err
	}
	return repo.rowToRecord(repo.db.QueryRow(ctx, query, args...))
}

func (repo *RecordRepository[T]) rowToRecord(row pgx.Row) (*record.Record[T], error) {
	obj := new(record.Record[T])
	var payload []byte
	if err := row.Scan(&obj.ID, &obj.StdNo, &payload, &obj.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(payload, &obj.Data); err != nil {
		return nil, err
	}
	return obj, nil
}

func selectQuery(table, stdNo string) (string, []interface{}, error) {
	return squirrel.Select(recordColumns...).
		From(table).
		Where(squirrel.Eq{"std_no": stdNo}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

// upsertQuery builds a statement that inserts a record or, if the student already has one, replaces its data while
// keeping its ID
func upsertQuery(table string, id uuid.UUID, stdNo string, payload []byte, updatedAt int64) (string, []interface{}, error) {
	return squirrel.Insert(table).
		Columns(recordColumns...).
		Values(id, stdNo, string(payload), updatedAt).
		Suffix("ON CONFLICT (std_no) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at RETURNING record_id, std_no, data, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}
