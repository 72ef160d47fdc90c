package storage

import (
	"context"

	"github.com/skybi/oasis-sync/internal/course"
	"github.com/skybi/oasis-sync/internal/credit"
	"github.com/skybi/oasis-sync/internal/record"
	"github.com/skybi/oasis-sync/internal/student"
)

type (
	StudentRepository     = record.Repository[*student.Info]
	CreditRepository      = record.Repository[[]*credit.Credit]
	TakenCourseRepository = record.Repository[[]*course.TakenCourse]
)

// Driver represents a storage driver
type Driver interface {
	// Initialize initializes the storage driver (i.e. opens a database connection)
	Initialize(ctx context.Context) error

	// Students provides a student info repository implementation
	Students() StudentRepository

	// Credits provides a credit repository implementation
	Credits() CreditRepository

	// TakenCourses provides a taken course repository implementation
	TakenCourses() TakenCourseRepository

	// Close closes the storage driver (i.e. closes a database connection)
	Close()
}
