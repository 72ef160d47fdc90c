package crawler

import (
	"context"

	"github.com/skybi/oasis-sync/internal/course"
	"github.com/skybi/oasis-sync/internal/nexacro"
	"github.com/skybi/oasis-sync/internal/portal"
)

// TakenCourses crawls every course a student has taken
type TakenCourses struct {
	URL string
}

var _ Crawler[[]*course.TakenCourse] = (*TakenCourses)(nil)

// NewTakenCourses creates a new taken course crawler querying the portal at the given base URL
func NewTakenCourses(baseURL string) *TakenCourses {
	return &TakenCourses{URL: endpoint(baseURL, ScorePath)}
}

// Kind returns "taken_courses"
func (crawler *TakenCourses) Kind() string {
	return "taken_courses"
}

// Crawl returns every row of the course dataset
func (crawler *TakenCourses) Crawl(ctx context.Context, querier portal.Querier, session *portal.Session, stdNo string) ([]*course.TakenCourse, error) {
	extra := nexacro.ParametersOf("rType", "C", "cptnFg", "")
	rows, err := querier.Query(ctx, session, crawler.URL, stdNo, extra)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return course.FromRows(rows), nil
}
