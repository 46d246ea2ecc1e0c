package webui

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stoplens.dev/internal/app"
	"stoplens.dev/internal/appconf"
	"stoplens.dev/internal/transit"
)

func newTestServer(t *testing.T) (*httptest.Server, *app.Application) {
	t.Helper()
	cfg := appconf.Default()
	cfg.EnvName = "test"
	cfg.Transit.BaseURL = "http://transit.example.test"
	cfg.Data.StopsPath = "../stops/testdata/stops.json"
	require.NoError(t, cfg.Validate())

	application, err := app.New(cfg, nil, app.Deps{Client: transit.NewMockClient()})
	require.NoError(t, err)
	t.Cleanup(application.Shutdown)

	router := httprouter.New()
	New(application).SetRoutes(router)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, application
}

func fetchPage(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
	return resp.StatusCode, string(body)
}

func TestDebugIndexHandler(t *testing.T) {
	server, application := newTestServer(t)
	_, _, err := application.StopSessions.Open("14225")
	require.NoError(t, err)

	tests := []struct {
		dataType string
		title    string
		contains string
	}{
		{dataType: "config", title: "Configuration", contains: "transit.example.test"},
		{dataType: "fleet", title: "Fleet table", contains: "Model:"},
		{dataType: "stops", title: "Stop table", contains: "King St West at Spadina Ave"},
		{dataType: "stop_sessions", title: "Stop screen sessions", contains: "14225"},
		{dataType: "route_sessions", title: "Route screen sessions", contains: "[]webui.sessionInfo"},
		{dataType: "", title: "Choose a data type", contains: "Please use one of the following"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			code, body := fetchPage(t, server.URL+"/debug/?dataType="+tt.dataType)
			assert.Equal(t, http.StatusOK, code)
			assert.Contains(t, body, "<h1>"+tt.title+"</h1>")
			assert.Contains(t, body, tt.contains)
		})
	}
}

func TestDebugPageEscapesData(t *testing.T) {
	server, _ := newTestServer(t)

	_, body := fetchPage(t, server.URL+"/debug/?dataType=config")
	assert.NotContains(t, body, "<script")
	assert.Contains(t, body, `href="?dataType=stop_sessions"`)
}
