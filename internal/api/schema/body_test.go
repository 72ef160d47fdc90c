package schema

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testBody struct {
	StdNo   *string           `json:"std_no" required:"true"`
	Name    string            `json:"name" required:"true"`
	Cookies map[string]string `json:"cookies" required:"true"`
	Note    string            `json:"note"`
	Nested  *struct {
		Value string `json:"value" required:"true"`
	} `json:"nested"`
}

func request(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
}

func TestUnmarshalBody_Valid(t *testing.T) {
	body, errs, err := UnmarshalBody[testBody](request(`{"std_no":"1","name":"x","cookies":{"a":"b"}}`))
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Equal(t, "1", *body.StdNo)
	assert.Equal(t, map[string]string{"a": "b"}, body.Cookies)
}

func TestUnmarshalBody_Missing(t *testing.T) {
	_, errs, err := UnmarshalBody[testBody](request(`{"name":"  ","cookies":{},"nested":{}}`))
	require.NoError(t, err)

	var params []string
	for _, validationErr := range errs {
		assert.Equal(t, "validation.requestBody.parameter.missing", validationErr.Type)
		params = append(params, validationErr.Details["parameter"].(string))
	}
	assert.ElementsMatch(t, []string{"std_no", "name", "cookies", "nested.value"}, params)
}

func TestUnmarshalBody_Invalid(t *testing.T) {
	_, errs, err := UnmarshalBody[testBody](request(`{"std_no":`))
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "validation.requestBody.invalidJSON", errs[0].Type)

	_, errs, err = UnmarshalBody[testBody](request(`{"std_no":5}`))
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "validation.requestBody.parameter.invalidType", errs[0].Type)
}

func TestWriter_WriteErrors(t *testing.T) {
	var hooked error
	writer := &Writer{InternalErrorHook: func(err error) { hooked = err }}

	recorder := httptest.NewRecorder()
	writer.WriteErrors(recorder, http.StatusNotFound, &Error{Type: "x", Message: "y"})
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":404,"errors":[{"type":"x","message":"y","details":{}}]}`, recorder.Body.String())

	recorder = httptest.NewRecorder()
	writer.WriteInternalError(recorder, assert.AnError)
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Equal(t, assert.AnError, hooked)
}
