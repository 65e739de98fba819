package webapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xjoerootx/smart-test/pkg/hvdb/hvmodel"
	"github.com/xjoerootx/smart-test/pkg/hvdb/stor"
)

type recordingTrigger struct {
	serverStor stor.ServerStor
	triggered  []int
}

func (t *recordingTrigger) TriggerServer(serverID int) error {
	if _, err := t.serverStor.GetServerByID(serverID); err != nil {
		return err
	}

	t.triggered = append(t.triggered, serverID)
	return nil
}

type controllerTestCase struct {
	e          *echo.Echo
	serverStor *stor.InMemoryServerStor
	fileStor   *stor.InMemoryFileStor
	trigger    *recordingTrigger
}

func newControllerTestCase(servers []*hvmodel.Server, files []*hvmodel.File) *controllerTestCase {
	tc := &controllerTestCase{
		e:          echo.New(),
		serverStor: stor.NewInMemoryServerStor(servers),
		fileStor:   stor.NewInMemoryFileStor(files),
	}
	tc.trigger = &recordingTrigger{serverStor: tc.serverStor}

	controller := NewServersController(tc.serverStor, tc.fileStor, tc.trigger)
	tc.e.POST("/servers", controller.CreateServer)
	tc.e.GET("/servers/:id/files", controller.ListFiles)
	tc.e.POST("/servers/:id/files/download", controller.TriggerDownload)

	return tc
}

func (tc *controllerTestCase) request(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	tc.e.ServeHTTP(rec, req)
	return rec
}

func TestCreateServerEndpoint(t *testing.T) {
	tc := newControllerTestCase(nil, nil)

	rec := tc.request(http.MethodPost, "/servers",
		`{"name": "uploads-east", "url": "sftp://east.example.com", "username": "harvest", "password": "secret"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"uploads-east"`)

	server, err := tc.serverStor.GetServerByID(10000)
	require.NoError(t, err)
	assert.Equal(t, "uploads-east", server.Name)
}

func TestCreateServerDuplicateName(t *testing.T) {
	tc := newControllerTestCase([]*hvmodel.Server{{ID: 1, Name: "uploads-east", URL: "sftp://east.example.com"}}, nil)

	rec := tc.request(http.MethodPost, "/servers",
		`{"name": "uploads-east", "url": "sftp://other.example.com"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateServerMissingFields(t *testing.T) {
	tc := newControllerTestCase(nil, nil)

	rec := tc.request(http.MethodPost, "/servers", `{"name": "nameless"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListFilesEndpoint(t *testing.T) {
	server := &hvmodel.Server{ID: 1, Name: "srv1", URL: "sftp://one.example.com"}
	files := []*hvmodel.File{
		{ID: 10, Name: "a.csv", Status: hvmodel.FileStatusUploaded, ServerID: 1},
		{ID: 11, Name: "b.csv", Status: hvmodel.FileStatusDownloading, ServerID: 1},
		{ID: 12, Name: "c.csv", Status: hvmodel.FileStatusUploaded, ServerID: 2},
	}

	tc := newControllerTestCase([]*hvmodel.Server{server}, files)

	rec := tc.request(http.MethodGet, "/servers/1/files", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "a.csv")
	assert.Contains(t, rec.Body.String(), "b.csv")
	assert.NotContains(t, rec.Body.String(), "c.csv")
}

func TestListFilesUnknownServer(t *testing.T) {
	tc := newControllerTestCase(nil, nil)

	rec := tc.request(http.MethodGet, "/servers/99/files", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTriggerDownloadEndpoint(t *testing.T) {
	server := &hvmodel.Server{ID: 1, Name: "srv1", URL: "sftp://one.example.com"}
	tc := newControllerTestCase([]*hvmodel.Server{server}, nil)

	rec := tc.request(http.MethodPost, "/servers/1/files/download", "")

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, []int{1}, tc.trigger.triggered)
}

func TestTriggerDownloadUnknownServer(t *testing.T) {
	tc := newControllerTestCase(nil, nil)

	rec := tc.request(http.MethodPost, "/servers/99/files/download", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, tc.trigger.triggered)
}
