package oasis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/antchfx/xmlquery"
	"github.com/skybi/oasis-sync/internal/portal"
	"github.com/skybi/oasis-sync/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePortal serves the login handshake and the dataset endpoints used by the crawlers
type fakePortal struct {
	mtx      sync.Mutex
	datasets map[string][]map[string]string // keyed by path and rType
	status   int
}

func (fake *fakePortal) set(key string, rows []map[string]string) {
	fake.mtx.Lock()
	defer fake.mtx.Unlock()
	fake.datasets[key] = rows
}

func (fake *fakePortal) serveDataset(writer http.ResponseWriter, request *http.Request) {
	doc, err := xmlquery.Parse(request.Body)
	if err != nil {
		writer.WriteHeader(http.StatusBadRequest)
		return
	}
	rType := ""
	if node := xmlquery.FindOne(doc, "//*[local-name()='Parameter'][@id='rType']"); node != nil {
		rType = node.InnerText()
	}

	fake.mtx.Lock()
	status := fake.status
	rows := fake.datasets[request.URL.Path+"#"+rType]
	fake.mtx.Unlock()
	if status != 0 {
		writer.WriteHeader(status)
		return
	}

	var builder strings.Builder
	builder.WriteString(`<Root xmlns="http://www.nexacroplatform.com/platform/dataset"><Dataset id="ds"><Rows>`)
	for _, row := range rows {
		builder.WriteString("<Row>")
		for col, val := range row {
			fmt.Fprintf(&builder, `<Col id="%s">%s</Col>`, col, val)
		}
		builder.WriteString("</Row>")
	}
	builder.WriteString(`</Rows></Dataset></Root>`)
	_, _ = io.WriteString(writer, builder.String())
}

const (
	studentInfoPath = "/uni/uni/sreg/sreb/findSregMattrMngt.action"
	scorePath       = "/uni/uni/scor/view/findCmpltScoreInq.action"
)

func newTestService(t *testing.T) (*Service, *fakePortal) {
	t.Helper()
	fake := &fakePortal{datasets: make(map[string][]map[string]string)}

	mux := http.NewServeMux()
	mux.HandleFunc(portal.LoginPath, func(writer http.ResponseWriter, request *http.Request) {
		http.SetCookie(writer, &http.Cookie{Name: "JSESSIONID", Value: "abc", Path: "/"})
	})
	mux.HandleFunc(portal.OTPTriggerPath, func(writer http.ResponseWriter, request *http.Request) {})
	mux.HandleFunc(portal.OTPCheckPath, func(writer http.ResponseWriter, request *http.Request) {
		_ = request.ParseForm()
		if request.PostForm.Get("userCode") != "123456" {
			writer.WriteHeader(http.StatusUnauthorized)
			return
		}
		http.SetCookie(writer, &http.Cookie{Name: portal.DefaultMarkerCookie, Value: "sso", Path: "/"})
	})
	mux.HandleFunc(studentInfoPath, fake.serveDataset)
	mux.HandleFunc(scorePath, fake.serveDataset)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	driver := memory.New()
	require.NoError(t, driver.Initialize(context.Background()))
	t.Cleanup(driver.Close)

	service, err := NewService(portal.Config{BaseURL: server.URL}, driver)
	require.NoError(t, err)
	return service, fake
}

func validSession() *portal.Session {
	return portal.NewSession(map[string]string{"JSESSIONID": "abc", portal.DefaultMarkerCookie: "sso"})
}

func TestService_Authenticate(t *testing.T) {
	service, _ := newTestService(t)

	session, err := service.Authenticate(context.Background(), "202012345", "pw", "123456")
	require.NoError(t, err)
	assert.True(t, session.Valid(portal.DefaultMarkerCookie))

	_, err = service.Authenticate(context.Background(), "202012345", "pw", "000000")
	assert.True(t, errors.Is(err, portal.ErrInvalidOTPOrSession))
}

func TestService_SyncAndRead(t *testing.T) {
	ctx := context.Background()
	service, fake := newTestService(t)
	fake.set(studentInfoPath+"#Tab1", []map[string]string{{"STDNO": "202012345", "NM": "Hong Gil-dong"}})
	fake.set(scorePath+"#B1", []map[string]string{{"GUBUN": "head"}, {"GUBUN": "required"}, {"GUBUN": "acquired"}})
	fake.set(scorePath+"#C", []map[string]string{{"SBJTCD": "CS101", "PNT": "3"}})

	// Reads before any sync
	info, err := service.StudentInfo(ctx, "202012345")
	require.NoError(t, err)
	assert.Nil(t, info)
	credits, err := service.Credits(ctx, "202012345")
	require.NoError(t, err)
	assert.NotNil(t, credits)
	assert.Empty(t, credits)

	obj, err := service.SyncStudentInfo(ctx, validSession(), "202012345")
	require.NoError(t, err)
	assert.Equal(t, "Hong Gil-dong", obj.Data.Name)

	_, err = service.SyncCredits(ctx, validSession(), "202012345")
	require.NoError(t, err)
	_, err = service.SyncTakenCourses(ctx, validSession(), "202012345")
	require.NoError(t, err)

	info, err = service.StudentInfo(ctx, "202012345")
	require.NoError(t, err)
	assert.Equal(t, "202012345", info.StudentNo)

	credits, err = service.Credits(ctx, "202012345")
	require.NoError(t, err)
	require.Len(t, credits, 2)
	assert.Equal(t, "required", credits[0].Category)

	courses, err := service.TakenCourses(ctx, "202012345")
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, float64(3), courses[0].Points)
}

func TestService_SyncErrors(t *testing.T) {
	ctx := context.Background()
	service, fake := newTestService(t)

	_, err := service.SyncStudentInfo(ctx, portal.NewSession(map[string]string{"JSESSIONID": "abc"}), "1")
	assert.ErrorIs(t, err, ErrInvalidSession)
	_, err = service.SyncCredits(ctx, nil, "1")
	assert.ErrorIs(t, err, ErrInvalidSession)

	_, err = service.SyncStudentInfo(ctx, validSession(), "1")
	assert.ErrorIs(t, err, ErrNoData)
	_, err = service.SyncTakenCourses(ctx, validSession(), "1")
	assert.ErrorIs(t, err, ErrNoData)

	fake.mtx.Lock()
	fake.status = http.StatusInternalServerError
	fake.mtx.Unlock()
	_, err = service.SyncCredits(ctx, validSession(), "1")
	assert.ErrorIs(t, err, portal.ErrRequestFailed)
	var queryErr *portal.QueryError
	require.True(t, errors.As(err, &queryErr))
	assert.Equal(t, http.StatusInternalServerError, queryErr.Status)
}

func TestService_SyncAll(t *testing.T) {
	ctx := context.Background()
	service, fake := newTestService(t)
	fake.set(studentInfoPath+"#Tab1", []map[string]string{{"STDNO": "1"}})
	fake.set(scorePath+"#C", []map[string]string{{"SBJTCD": "CS101"}})

	outcomes, err := service.SyncAll(ctx, validSession(), "1")
	assert.ErrorIs(t, err, ErrNoData)
	require.Len(t, outcomes, 3)

	byKind := make(map[string]error)
	for _, outcome := range outcomes {
		byKind[outcome.Kind] = outcome.Err
	}
	assert.NoError(t, byKind["student_info"])
	assert.ErrorIs(t, byKind["credits"], ErrNoData)
	assert.NoError(t, byKind["taken_courses"])

	courses, err := service.TakenCourses(ctx, "1")
	require.NoError(t, err)
	assert.Len(t, courses, 1)

	_, err = service.SyncAll(ctx, nil, "1")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestService_ConcurrentSyncs(t *testing.T) {
	service, fake := newTestService(t)
	fake.set(studentInfoPath+"#Tab1", []map[string]string{{"STDNO": "x"}})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			stdNo := fmt.Sprintf("2020%05d", i)
			_, err := service.SyncStudentInfo(context.Background(), validSession(), stdNo)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 8; i++ {
		info, err := service.StudentInfo(context.Background(), fmt.Sprintf("2020%05d", i))
		require.NoError(t, err)
		assert.NotNil(t, info)
	}
}
