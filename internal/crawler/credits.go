package crawler

import (
	"context"

	"github.com/skybi/oasis-sync/internal/credit"
	"github.com/skybi/oasis-sync/internal/nexacro"
	"github.com/skybi/oasis-sync/internal/portal"
)

// Credits crawls the graduation credit overview of a student
type Credits struct {
	URL string

	// UniversityCode is the college code the overview is requested for
	UniversityCode string
}

var _ Crawler[[]*credit.Credit] = (*Credits)(nil)

// NewCredits creates a new credit crawler querying the portal at the given base URL
func NewCredits(baseURL string) *Credits {
	return &Credits{
		URL:            endpoint(baseURL, ScorePath),
		UniversityCode: "3000000001",
	}
}

// Kind returns "credits"
func (crawler *Credits) Kind() string {
	return "credits"
}

// Crawl returns the second and third row of the overview, which hold the required and the acquired credits
func (crawler *Credits) Crawl(ctx context.Context, querier portal.Querier, session *portal.Session, stdNo string) ([]*credit.Credit, error) {
	extra := nexacro.ParametersOf(
		"rType", "B1",
		"strUnivCd", crawler.UniversityCode,
		"strmjDeepCourYn", "Y",
	)
	rows, err := querier.Query(ctx, session, crawler.URL, stdNo, extra)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return credit.FromRows(rows.Slice(1, 3)), nil
}
