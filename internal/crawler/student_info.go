package crawler

import (
	"context"

	"github.com/skybi/oasis-sync/internal/portal"
	"github.com/skybi/oasis-sync/internal/student"
)

// StudentInfo crawls the registration record of a student
type StudentInfo struct {
	URL string
}

var _ Crawler[*student.Info] = (*StudentInfo)(nil)

// NewStudentInfo creates a new student info crawler querying the portal at the given base URL
func NewStudentInfo(baseURL string) *StudentInfo {
	return &StudentInfo{URL: endpoint(baseURL, StudentInfoPath)}
}

// Kind returns "student_info"
func (crawler *StudentInfo) Kind() string {
	return "student_info"
}

// Crawl returns the first row of the registration dataset, which holds the student themself
func (crawler *StudentInfo) Crawl(ctx context.Context, querier portal.Querier, session *portal.Session, stdNo string) (*student.Info, error) {
	rows, err := querier.Query(ctx, session, crawler.URL, stdNo, nil)
	if err != nil {
		return nil, err
	}
	row := rows.At(0)
	if row == nil {
		return nil, nil
	}
	return student.FromRow(row), nil
}
