package gateway

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/skybi/oasis-sync/internal/api/schema"
	"github.com/skybi/oasis-sync/internal/nexacro"
	"github.com/skybi/oasis-sync/internal/oasis"
	"github.com/skybi/oasis-sync/internal/portal"
)

var (
	errAuthFailed = func(kind portal.AuthErrorKind) *schema.Error {
		return &schema.Error{
			Type:    "oasis.auth." + kind.String(),
			Message: "The portal did not accept the login attempt.",
			Details: map[string]interface{}{
				"reason": kind.String(),
			},
		}
	}
	errPortalUnavailable = func(err error) *schema.Error {
		return &schema.Error{
			Type:    "oasis.portal.unavailable",
			Message: "The portal could not be reached.",
			Details: map[string]interface{}{
				"error": err.Error(),
			},
		}
	}
	errInvalidSession = &schema.Error{
		Type:    "oasis.session.invalid",
		Message: "The given cookies do not represent an authenticated portal session.",
		Details: map[string]interface{}{},
	}
	errNoData = func(kind string) *schema.Error {
		return &schema.Error{
			Type:    "oasis.sync.noData",
			Message: fmt.Sprintf("The portal holds no %s data for the given student.", kind),
			Details: map[string]interface{}{
				"kind": kind,
			},
		}
	}
	errSyncFailed = func(kind string, err error) *schema.Error {
		return &schema.Error{
			Type:    "oasis.sync.failed",
			Message: fmt.Sprintf("The %s data could not be fetched from the portal.", kind),
			Details: map[string]interface{}{
				"kind":  kind,
				"error": err.Error(),
			},
		}
	}
	errStudentInfoNotFound = &schema.Error{
		Type:    "oasis.studentInfo.notFound",
		Message: "No student information stored. Please sync first.",
		Details: map[string]interface{}{},
	}
)

// writeAuthError maps an error returned by the authentication to an error response
func (service *Service) writeAuthError(writer http.ResponseWriter, err error) {
	var authErr *portal.AuthError
	if !errors.As(err, &authErr) {
		service.writer.WriteInternalError(writer, err)
		return
	}
	if authErr.Kind == portal.TransportFailure {
		service.writer.WriteErrors(writer, http.StatusBadGateway, errPortalUnavailable(err))
		return
	}
	service.writer.WriteErrors(writer, http.StatusUnauthorized, errAuthFailed(authErr.Kind))
}

// syncError maps an error returned by a sync operation to its status code and error representation.
// It returns nil if the error is an internal one.
func syncError(kind string, err error) (int, *schema.Error) {
	switch {
	case errors.Is(err, oasis.ErrInvalidSession):
		return http.StatusUnauthorized, errInvalidSession
	case errors.Is(err, oasis.ErrNoData):
		return http.StatusNotFound, errNoData(kind)
	case errors.Is(err, portal.ErrRequestFailed), errors.Is(err, nexacro.ErrMalformedXML):
		return http.StatusBadGateway, errSyncFailed(kind, err)
	default:
		return http.StatusInternalServerError, nil
	}
}

func (service *Service) writeSyncError(writer http.ResponseWriter, kind string, err error) {
	status, schemaErr := syncError(kind, err)
	if schemaErr == nil {
		service.writer.WriteInternalError(writer, err)
		return
	}
	service.writer.WriteErrors(writer, status, schemaErr)
}
