package portal

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/skybi/oasis-sync/internal/nexacro"
)

// Querier represents an entity that is able to run dataset queries against the portal
type Querier interface {
	Query(ctx context.Context, session *Session, endpoint, stdNo string, extra *nexacro.Parameters) (nexacro.Rows, error)
}

var _ Querier = (*Client)(nil)

// BuildParameters builds the parameter set of a dataset query.
// Session cookies override the base parameters and extra parameters override both.
func BuildParameters(session *Session, stdNo string, extra *nexacro.Parameters) *nexacro.Parameters {
	params := nexacro.ParametersOf("stdNo", stdNo, "rType", "Tab1", "sRes", "Y")
	if session != nil {
		for _, cookie := range session.Cookies {
			params.Set(cookie.Name, cookie.Value)
		}
	}
	params.Merge(extra)
	return params
}

// Query posts a dataset query to the given endpoint using the cookies of the given session and returns the rows
// chosen by the configured selector
func (client *Client) Query(ctx context.Context, session *Session, endpoint, stdNo string, extra *nexacro.Parameters) (nexacro.Rows, error) {
	res, err := client.QueryResponse(ctx, session, endpoint, stdNo, extra)
	if err != nil {
		return nil, err
	}
	return client.config.Selector(res), nil
}

// QueryResponse works like Query but returns the whole decoded response
func (client *Client) QueryResponse(ctx context.Context, session *Session, endpoint, stdNo string, extra *nexacro.Parameters) (*nexacro.Response, error) {
	client.mtx.Lock()
	defer client.mtx.Unlock()

	client.restore(session)
	body := nexacro.Encode(BuildParameters(session, stdNo, extra))

	status, data, err := client.post(ctx, endpoint, nexacro.ContentType, body)
	if err != nil {
		log.Warn().Err(err).Str("endpoint", endpoint).Msg("could not reach the portal")
		return nil, &QueryError{URL: endpoint, Status: status, Cause: err}
	}
	if status != http.StatusOK {
		log.Warn().Str("endpoint", endpoint).Int("status", status).Msg("the portal answered a query with an unexpected status")
		return nil, &QueryError{URL: endpoint, Status: status}
	}

	res, err := nexacro.Decode(data)
	if err != nil {
		log.Warn().Err(err).Str("endpoint", endpoint).Msg("could not decode a portal response")
		return nil, err
	}
	if err := res.Err(); err != nil {
		log.Warn().Err(err).Str("endpoint", endpoint).Msg("the portal reported a query failure")
		return nil, &QueryError{URL: endpoint, Status: status, Cause: err}
	}
	return res, nil
}
