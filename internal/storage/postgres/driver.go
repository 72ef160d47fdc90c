package postgres

import (
	"context"
	"embed"
	"errors"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/skybi/oasis-sync/internal/course"
	"github.com/skybi/oasis-sync/internal/credit"
	"github.com/skybi/oasis-sync/internal/storage"
	"github.com/skybi/oasis-sync/internal/student"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Driver represents the PostgreSQL storage driver implementation
type Driver struct {
	dsn          string
	db           *pgxpool.Pool
	students     *RecordRepository[*student.Info]
	credits      *RecordRepository[[]*credit.Credit]
	takenCourses *RecordRepository[[]*course.TakenCourse]
}

var _ storage.Driver = (*Driver)(nil)

// New creates a new empty PostgreSQL storage driver.
// Use Initialize to open the database connection and initialize the repository implementations.
func New(dsn string) *Driver {
	return &Driver{
		dsn: dsn,
	}
}

// Initialize opens the database connection, migrates the database and initializes the repository implementations
func (driver *Driver) Initialize(ctx context.Context) error {
	// Perform SQL migrations
	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return err
	}
	migrator, err := migrate.NewWithSourceInstance("iofs", source, driver.dsn)
	if err != nil {
		return err
	}
	defer migrator.Close()
	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	// Initialize the database connection pool
	pool, err := pgxpool.Connect(ctx, driver.dsn)
	if err != nil {
		return err
	}
	driver.db = pool

	// Initialize the repository implementations
	driver.students = &RecordRepository[*student.Info]{db: pool, table: "student_infos"}
	driver.credits = &RecordRepository[[]*credit.Credit]{db: pool, table: "credits"}
	driver.takenCourses = &RecordRepository[[]*course.TakenCourse]{db: pool, table: "taken_courses"}

	return nil
}

// Students provides the PostgreSQL student info repository implementation
func (driver *Driver) Students() storage.StudentRepository {
	return driver.students
}

// Credits provides the PostgreSQL credit repository implementation
func (driver *Driver) Credits() storage.CreditRepository {
	return driver.credits
}

// TakenCourses provides the PostgreSQL taken course repository implementation
func (driver *Driver) TakenCourses() storage.TakenCourseRepository {
	return driver.takenCourses
}

// Close discards the repository implementations and closes the database connection
func (driver *Driver) Close() {
	driver.students = nil
	driver.credits = nil
	driver.takenCourses = nil

	if driver.db != nil {
		driver.db.Close()
		driver.db = nil
	}
}
