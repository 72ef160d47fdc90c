package memory

import (
	"context"

	"github.com/hashicorp/go-memdb"
	"github.com/skybi/oasis-sync/internal/course"
	"github.com/skybi/oasis-sync/internal/credit"
	"github.com/skybi/oasis-sync/internal/storage"
	"github.com/skybi/oasis-sync/internal/student"
)

const (
	tableStudents     = "student_infos"
	tableCredits      = "credits"
	tableTakenCourses = "taken_courses"
)

func tableSchema(name string) *memdb.TableSchema {
	return &memdb.TableSchema{
		Name: name,
		Indexes: map[string]*memdb.IndexSchema{
			"id": {
				Name:         "id",
				Unique:       true,
				AllowMissing: false,
				Indexer:      &memdb.StringFieldIndex{Field: "StdNo"},
			},
			"updatedAt": {
				Name:         "updatedAt",
				Unique:       false,
				AllowMissing: false,
				Indexer:      &memdb.IntFieldIndex{Field: "UpdatedAt"},
			},
		},
	}
}

var dbSchema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		tableStudents:     tableSchema(tableStudents),
		tableCredits:      tableSchema(tableCredits),
		tableTakenCourses: tableSchema(tableTakenCourses),
	},
}

// Driver represents the in-memory storage driver built using hashicorp/go-memdb.
// Data does not survive a restart.
type Driver struct {
	db           *memdb.MemDB
	students     *RecordRepository[*student.Info]
	credits      *RecordRepository[[]*credit.Credit]
	takenCourses *RecordRepository[[]*course.TakenCourse]
}

var _ storage.Driver = (*Driver)(nil)

// New creates a new empty in-memory storage driver
func New() *Driver {
	return &Driver{}
}

// Initialize creates the in-memory database and initializes the repository implementations
func (driver *Driver) Initialize(_ context.Context) error {
	db, err := memdb.NewMemDB(dbSchema)
	if err != nil {
		return err
	}
	driver.db = db

	driver.students = &RecordRepository[*student.Info]{db: db, table: tableStudents}
	driver.credits = &RecordRepository[[]*credit.Credit]{db: db, table: tableCredits}
	driver.takenCourses = &RecordRepository[[]*course.TakenCourse]{db: db, table: tableTakenCourses}
	return nil
}

// Students provides the in-memory student info repository implementation
func (driver *Driver) Students() storage.StudentRepository {
	return driver.students
}

// Credits provides the in-memory credit repository implementation
func (driver *Driver) Credits() storage.CreditRepository {
	return driver.credits
}

// TakenCourses provides the in-memory taken course repository implementation
func (driver *Driver) TakenCourses() storage.TakenCourseRepository {
	return driver.takenCourses
}

// Close discards the repository implementations and the database
func (driver *Driver) Close() {
	driver.students = nil
	driver.credits = nil
	driver.takenCourses = nil
	driver.db = nil
}
