package cache

import (
	"context"
	"time"

	"github.com/skybi/oasis-sync/internal/course"
	"github.com/skybi/oasis-sync/internal/credit"
	"github.com/skybi/oasis-sync/internal/hashmap"
	"github.com/skybi/oasis-sync/internal/record"
	"github.com/skybi/oasis-sync/internal/storage"
	"github.com/skybi/oasis-sync/internal/student"
)

const cleanupInterval = 10 * time.Second

// Driver represents a storage driver implementation that wraps another one in order to implement in-memory caching
type Driver struct {
	underlying   storage.Driver
	lifetime     time.Duration
	students     *RecordRepository[*student.Info]
	credits      *RecordRepository[[]*credit.Credit]
	takenCourses *RecordRepository[[]*course.TakenCourse]
}

var _ storage.Driver = (*Driver)(nil)

// New returns a new caching storage driver.
// The underlying driver has to be initialized before.
func New(underlying storage.Driver, lifetime time.Duration) *Driver {
	return &Driver{
		underlying: underlying,
		lifetime:   lifetime,
	}
}

// Initialize initializes the caching repositories
func (driver *Driver) Initialize(_ context.Context) error {
	driver.students = newRecordRepository[*student.Info](driver.underlying.Students(), driver.lifetime)
	driver.credits = newRecordRepository[[]*credit.Credit](driver.underlying.Credits(), driver.lifetime)
	driver.takenCourses = newRecordRepository[[]*course.TakenCourse](driver.underlying.TakenCourses(), driver.lifetime)
	return nil
}

// Students provides the caching student info repository implementation
func (driver *Driver) Students() storage.StudentRepository {
	return driver.students
}

// Credits provides the caching credit repository implementation
func (driver *Driver) Credits() storage.CreditRepository {
	return driver.credits
}

// TakenCourses provides the caching taken course repository implementation
func (driver *Driver) TakenCourses() storage.TakenCourseRepository {
	return driver.takenCourses
}

// Close stops the cleanup tasks and disposes the caching repositories.
// The underlying driver is not closed.
func (driver *Driver) Close() {
	if driver.students != nil {
		driver.students.cache.StopCleanupTask()
		driver.students = nil
	}
	if driver.credits != nil {
		driver.credits.cache.StopCleanupTask()
		driver.credits = nil
	}
	if driver.takenCourses != nil {
		driver.takenCourses.cache.StopCleanupTask()
		driver.takenCourses = nil
	}
}

// RecordRepository implements the record.Repository interface in order to implement caching
type RecordRepository[T any] struct {
	repo  record.Repository[T]
	cache *hashmap.ExpiringMap[string, *record.Record[T]]
}

var _ record.Repository[string] = (*RecordRepository[string])(nil)

func newRecordRepository[T any](repo record.Repository[T], lifetime time.Duration) *RecordRepository[T] {
	cache := hashmap.NewExpiring[string, *record.Record[T]](lifetime)
	cache.ScheduleCleanupTask(cleanupInterval)
	return &RecordRepository[T]{
		repo:  repo,
		cache: cache,
	}
}

// GetByStdNo retrieves the record of a student
func (repo *RecordRepository[T]) GetByStdNo(ctx context.Context, stdNo string) (*record.Record[T], error) {
	cached, ok := repo.cache.Lookup(stdNo)
	if ok {
		return cached, nil
	}
	obj, err := repo.repo.GetByStdNo(ctx, stdNo)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, nil
	}
	// An upsert running concurrently may already have cached a newer record
	current, _ := repo.cache.SetIfAbsent(stdNo, obj)
	return current, nil
}

// Upsert replaces the data of a student's record or creates it
func (repo *RecordRepository[T]) Upsert(ctx context.Context, stdNo string, data T) (*record.Record[T], error) {
	obj, err := repo.repo.Upsert(ctx, stdNo, data)
	if err != nil {
		repo.cache.Unset(stdNo)
		return nil, err
	}
	repo.cache.Set(stdNo, obj)
	return obj, nil
}
