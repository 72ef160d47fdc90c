package crawler

import (
	"context"
	"strings"

	"github.com/skybi/oasis-sync/internal/portal"
)

const (
	StudentInfoPath = "/uni/uni/sreg/sreb/findSregMattrMngt.action?version=0"
	ScorePath       = "/uni/uni/scor/view/findCmpltScoreInq.action?version=0"
)

// Crawler extracts one kind of data of a student out of the portal
type Crawler[T any] interface {
	// Kind returns the name of the data kind the crawler extracts
	Kind() string

	// Crawl queries the portal using the given session and extracts the data of the given student.
	// The zero value of T is returned if the portal holds no data.
	Crawl(ctx context.Context, querier portal.Querier, session *portal.Session, stdNo string) (T, error)
}

func endpoint(baseURL, path string) string {
	return strings.TrimRight(baseURL, "/") + path
}
