package oasis

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/skybi/oasis-sync/internal/course"
	"github.com/skybi/oasis-sync/internal/crawler"
	"github.com/skybi/oasis-sync/internal/credit"
	"github.com/skybi/oasis-sync/internal/observability"
	"github.com/skybi/oasis-sync/internal/portal"
	"github.com/skybi/oasis-sync/internal/record"
	"github.com/skybi/oasis-sync/internal/storage"
	"github.com/skybi/oasis-sync/internal/student"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrInvalidSession is returned if a session does not carry the portal's marker cookie
	ErrInvalidSession = errors.New("invalid portal session")

	// ErrNoData is returned if the portal holds no data of the requested kind for a student
	ErrNoData = errors.New("no data found")
)

// Service authenticates against the portal, syncs student data into the storage and reads it back
type Service struct {
	config       portal.Config
	storage      storage.Driver
	students     crawler.Crawler[*student.Info]
	credits      crawler.Crawler[[]*credit.Credit]
	takenCourses crawler.Crawler[[]*course.TakenCourse]
}

// NewService creates a new sync service.
// Every operation talking to the portal uses its own client built from the given configuration.
func NewService(config portal.Config, driver storage.Driver) (*Service, error) {
	client, err := portal.New(config)
	if err != nil {
		return nil, err
	}
	config = client.Config()

	return &Service{
		config:       config,
		storage:      driver,
		students:     crawler.NewStudentInfo(config.BaseURL),
		credits:      crawler.NewCredits(config.BaseURL),
		takenCourses: crawler.NewTakenCourses(config.BaseURL),
	}, nil
}

// Authenticate runs the portal login handshake and returns the resulting session
func (service *Service) Authenticate(ctx context.Context, userID, password, otp string) (*portal.Session, error) {
	client, err := portal.New(service.config)
	if err != nil {
		return nil, err
	}

	session, err := client.Authenticate(ctx, userID, password, otp)
	if err != nil {
		var authErr *portal.AuthError
		if errors.As(err, &authErr) {
			observability.RecordAuthentication(authErr.Kind.String())
		} else {
			observability.RecordAuthentication(observability.ResultFailure)
		}
		return nil, err
	}
	observability.RecordAuthentication(observability.ResultSuccess)
	return session, nil
}

// SyncStudentInfo crawls the registration record of a student and stores it
func (service *Service) SyncStudentInfo(ctx context.Context, session *portal.Session, stdNo string) (*record.Record[*student.Info], error) {
	return runSync[*student.Info](ctx, service, session, stdNo, service.students, service.storage.Students(), func(info *student.Info) bool {
		return info == nil
	})
}

// SyncCredits crawls the graduation credit overview of a student and stores it
func (service *Service) SyncCredits(ctx context.Context, session *portal.Session, stdNo string) (*record.Record[[]*credit.Credit], error) {
	return runSync[[]*credit.Credit](ctx, service, session, stdNo, service.credits, service.storage.Credits(), func(credits []*credit.Credit) bool {
		return len(credits) == 0
	})
}

// SyncTakenCourses crawls every course a student has taken and stores them
func (service *Service) SyncTakenCourses(ctx context.Context, session *portal.Session, stdNo string) (*record.Record[[]*course.TakenCourse], error) {
	return runSync[[]*course.TakenCourse](ctx, service, session, stdNo, service.takenCourses, service.storage.TakenCourses(), func(courses []*course.TakenCourse) bool {
		return len(courses) == 0
	})
}

// Outcome represents the result of syncing one kind of data
type Outcome struct {
	Kind string
	Err  error
}

// SyncAll syncs every kind of data concurrently.
// All syncs run to completion; the returned error is the first one that occurred, the outcomes hold every single one.
func (service *Service) SyncAll(ctx context.Context, session *portal.Session, stdNo string) ([]*Outcome, error) {
	if !session.Valid(service.config.MarkerCookie) {
		return nil, ErrInvalidSession
	}

	outcomes := []*Outcome{
		{Kind: service.students.Kind()},
		{Kind: service.credits.Kind()},
		{Kind: service.takenCourses.Kind()},
	}
	syncs := []func() error{
		func() error {
			_, err := service.SyncStudentInfo(ctx, session, stdNo)
			return err
		},
		func() error {
			_, err := service.SyncCredits(ctx, session, stdNo)
			return err
		},
		func() error {
			_, err := service.SyncTakenCourses(ctx, session, stdNo)
			return err
		},
	}

	var group errgroup.Group
	for i, fn := range syncs {
		outcome := outcomes[i]
		fn := fn
		group.Go(func() error {
			outcome.Err = fn()
			return outcome.Err
		})
	}
	err := group.Wait()
	return outcomes, err
}

// StudentInfo reads the stored registration record of a student; nil if it was never synced
func (service *Service) StudentInfo(ctx context.Context, stdNo string) (*student.Info, error) {
	obj, err := service.storage.Students().GetByStdNo(ctx, stdNo)
	if err != nil || obj == nil {
		return nil, err
	}
	return obj.Data, nil
}

// Credits reads the stored credit overview of a student; empty if it was never synced
func (service *Service) Credits(ctx context.Context, stdNo string) ([]*credit.Credit, error) {
	obj, err := service.storage.Credits().GetByStdNo(ctx, stdNo)
	if err != nil {
		return nil, err
	}
	if obj == nil || obj.Data == nil {
		return []*credit.Credit{}, nil
	}
	return obj.Data, nil
}

// TakenCourses reads the stored courses of a student; empty if they were never synced
func (service *Service) TakenCourses(ctx context.Context, stdNo string) ([]*course.TakenCourse, error) {
	obj, err := service.storage.TakenCourses().GetByStdNo(ctx, stdNo)
	if err != nil {
		return nil, err
	}
	if obj == nil || obj.Data == nil {
		return []*course.TakenCourse{}, nil
	}
	return obj.Data, nil
}

func runSync[T any](ctx context.Context, service *Service, session *portal.Session, stdNo string, crawl crawler.Crawler[T], repo record.Repository[T], empty func(T) bool) (*record.Record[T], error) {
	kind := crawl.Kind()
	if !session.Valid(service.config.MarkerCookie) {
		observability.RecordSync(kind, observability.ResultInvalidSession)
		return nil, ErrInvalidSession
	}

	client, err := portal.New(service.config)
	if err != nil {
		observability.RecordSync(kind, observability.ResultFailure)
		return nil, err
	}

	// Crawl the data using a client of its own
	data, err := crawl.Crawl(ctx, client, session, stdNo)
	if err != nil {
		observability.RecordSync(kind, observability.ResultFailure)
		return nil, fmt.Errorf("could not crawl %s: %w", kind, err)
	}
	if empty(data) {
		observability.RecordSync(kind, observability.ResultNoData)
		return nil, ErrNoData
	}

	// Store the data
	obj, err := repo.Upsert(ctx, stdNo, data)
	if err != nil {
		observability.RecordSync(kind, observability.ResultFailure)
		return nil, fmt.Errorf("could not store %s: %w", kind, err)
	}

	observability.RecordSync(kind, observability.ResultSuccess)
	log.Info().Str("kind", kind).Str("std_no", stdNo).Msg("synced student data")
	return obj, nil
}
