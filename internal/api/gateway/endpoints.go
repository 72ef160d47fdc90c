package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/skybi/oasis-sync/internal/api/schema"
	"github.com/skybi/oasis-sync/internal/portal"
)

type createSessionRequestBody struct {
	UserID   string `json:"user_id" required:"true"`
	Password string `json:"user_pw" required:"true"`
	OTP      string `json:"otp" required:"true"`
}

type syncRequestBody struct {
	StdNo   string          `json:"std_no" required:"true"`
	Cookies *portal.Session `json:"cookies" required:"true"`
}

type sessionResponse struct {
	Cookies *portal.Session `json:"cookies"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type syncAllResponse struct {
	Message string            `json:"message"`
	Results map[string]string `json:"results"`
}

// EndpointCreateSession handles the 'POST /oasis/auth/session' endpoint
func (service *Service) EndpointCreateSession(writer http.ResponseWriter, request *http.Request) {
	body, validationErrs, err := schema.UnmarshalBody[createSessionRequestBody](request)
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}
	if len(validationErrs) > 0 {
		service.writer.WriteErrors(writer, http.StatusBadRequest, validationErrs...)
		return
	}

	session, err := service.Oasis.Authenticate(request.Context(), body.UserID, body.Password, body.OTP)
	if err != nil {
		service.writeAuthError(writer, err)
		return
	}

	service.writer.WriteJSON(writer, &sessionResponse{Cookies: session})
}

// EndpointSyncStudentInfo handles the 'POST /oasis/student/info/sync' endpoint
func (service *Service) EndpointSyncStudentInfo(writer http.ResponseWriter, request *http.Request) {
	body, ok := service.syncRequest(writer, request)
	if !ok {
		return
	}
	if _, err := service.Oasis.SyncStudentInfo(request.Context(), body.Cookies, body.StdNo); err != nil {
		service.writeSyncError(writer, "student_info", err)
		return
	}
	service.writer.WriteJSON(writer, &messageResponse{Message: "Student info synchronized successfully"})
}

// EndpointSyncCredits handles the 'POST /oasis/credits/sync' endpoint
func (service *Service) EndpointSyncCredits(writer http.ResponseWriter, request *http.Request) {
	body, ok := service.syncRequest(writer, request)
	if !ok {
		return
	}
	if _, err := service.Oasis.SyncCredits(request.Context(), body.Cookies, body.StdNo); err != nil {
		service.writeSyncError(writer, "credits", err)
		return
	}
	service.writer.WriteJSON(writer, &messageResponse{Message: "Credits synchronized successfully"})
}

// EndpointSyncTakenCourses handles the 'POST /oasis/taken-courses/sync' endpoint
func (service *Service) EndpointSyncTakenCourses(writer http.ResponseWriter, request *http.Request) {
	body, ok := service.syncRequest(writer, request)
	if !ok {
		return
	}
	if _, err := service.Oasis.SyncTakenCourses(request.Context(), body.Cookies, body.StdNo); err != nil {
		service.writeSyncError(writer, "taken_courses", err)
		return
	}
	service.writer.WriteJSON(writer, &messageResponse{Message: "Taken courses list synchronized successfully"})
}

// EndpointSyncAll handles the 'POST /oasis/sync' endpoint.
// Every kind is reported on its own; the request only fails as a whole if the session is invalid.
func (service *Service) EndpointSyncAll(writer http.ResponseWriter, request *http.Request) {
	body, ok := service.syncRequest(writer, request)
	if !ok {
		return
	}

	outcomes, err := service.Oasis.SyncAll(request.Context(), body.Cookies, body.StdNo)
	if outcomes == nil {
		service.writeSyncError(writer, "all", err)
		return
	}

	results := make(map[string]string, len(outcomes))
	for _, outcome := range outcomes {
		if outcome.Err == nil {
			results[outcome.Kind] = "ok"
			continue
		}
		_, schemaErr := syncError(outcome.Kind, outcome.Err)
		if schemaErr == nil {
			service.writer.InternalErrorHook(outcome.Err)
			results[outcome.Kind] = schema.ErrInternal.Type
			continue
		}
		results[outcome.Kind] = schemaErr.Type
	}

	message := "All data synchronized successfully"
	if err != nil {
		message = "Some data could not be synchronized"
	}
	service.writer.WriteJSON(writer, &syncAllResponse{Message: message, Results: results})
}

// EndpointGetStudentInfo handles the 'GET /oasis/student/info/{std_no}' endpoint
func (service *Service) EndpointGetStudentInfo(writer http.ResponseWriter, request *http.Request) {
	info, err := service.Oasis.StudentInfo(request.Context(), chi.URLParam(request, "std_no"))
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}
	if info == nil {
		service.writer.WriteErrors(writer, http.StatusNotFound, errStudentInfoNotFound)
		return
	}
	service.writer.WriteJSON(writer, info)
}

// EndpointGetCredits handles the 'GET /oasis/credits/{std_no}' endpoint
func (service *Service) EndpointGetCredits(writer http.ResponseWriter, request *http.Request) {
	credits, err := service.Oasis.Credits(request.Context(), chi.URLParam(request, "std_no"))
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}
	service.writer.WriteJSON(writer, credits)
}

// EndpointGetTakenCourses handles the 'GET /oasis/taken-courses/{std_no}' endpoint
func (service *Service) EndpointGetTakenCourses(writer http.ResponseWriter, request *http.Request) {
	courses, err := service.Oasis.TakenCourses(request.Context(), chi.URLParam(request, "std_no"))
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}
	service.writer.WriteJSON(writer, courses)
}

func (service *Service) syncRequest(writer http.ResponseWriter, request *http.Request) (*syncRequestBody, bool) {
	body, validationErrs, err := schema.UnmarshalBody[syncRequestBody](request)
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return nil, false
	}
	if len(validationErrs) > 0 {
		service.writer.WriteErrors(writer, http.StatusBadRequest, validationErrs...)
		return nil, false
	}
	return body, true
}
