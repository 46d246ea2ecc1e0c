package restapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	clocktesting "k8s.io/utils/clock/testing"

	"stoplens.dev/internal/app"
	"stoplens.dev/internal/appconf"
	"stoplens.dev/internal/logging"
	"stoplens.dev/internal/models"
	"stoplens.dev/internal/transit"
)

var testNow = time.Date(2025, 3, 14, 8, 30, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func testConfig(t *testing.T) appconf.Config {
	t.Helper()
	cfg := appconf.Default()
	cfg.EnvName = "test"
	cfg.Transit.BaseURL = "http://transit.example.test"
	cfg.Data.StopsPath = "../stops/testdata/stops.json"
	cfg.Polling.Timezone = "UTC"
	cfg.Server.RateLimit = 0
	require.NoError(t, cfg.Validate())
	return cfg
}

func newMockTransit() *transit.MockClient {
	client := transit.NewMockClient()
	client.MockSetStop("14225", transit.SeekResponse{
		Routes: []string{"510-Spadina", "504-King"},
		Vehicles: []models.VehicleRecord{
			{ID: "504_0", VehicleNumber: "4401", Minutes: models.IntOf(3), Destination: "WA Dundas West Stn"},
			{ID: "510_0", VehicleNumber: "4520", Minutes: models.IntOf(0)},
			{ID: "504_1", VehicleNumber: "4401", Minutes: models.IntOf(9)},
		},
	})
	client.MockSetInfo("4401", transit.VehicleInfo{Delay: strPtr("1:30 behind")})
	return client
}

// createTestApi builds a RestAPI over a mock transit service and a fake clock.
func createTestApi(t *testing.T, cfg appconf.Config) (*RestAPI, *transit.MockClient) {
	t.Helper()
	client := newMockTransit()
	logger := logging.NewStructuredLogger(io.Discard, slog.LevelInfo)

	application, err := app.New(cfg, logger, app.Deps{
		Client: client,
		Clock:  clocktesting.NewFakeClock(testNow),
	})
	require.NoError(t, err)

	api := NewRestAPI(application)
	t.Cleanup(func() {
		api.Close()
		application.Shutdown()
	})
	return api, client
}

type apiResponse struct {
	models.ResponseModel
	FieldErrors map[string][]string `json:"fieldErrors"`
}

// serveApiAndRetrieveEndpoint sends one request through the full handler
// chain and decodes the JSON body.
func serveApiAndRetrieveEndpoint(t *testing.T, api *RestAPI, method, endpoint string, body io.Reader, contentType string) (*http.Response, apiResponse) {
	t.Helper()
	server := httptest.NewServer(api.Handler())
	defer server.Close()

	req, err := http.NewRequest(method, server.URL+endpoint, body)
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer logging.SafeCloseWithLogging(resp.Body,
		slog.Default().With(slog.String("component", "test")),
		"http_response_body")

	var out apiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func getEndpoint(t *testing.T, api *RestAPI, endpoint string) (*http.Response, apiResponse) {
	return serveApiAndRetrieveEndpoint(t, api, http.MethodGet, endpoint, nil, "")
}

func postJSON(t *testing.T, api *RestAPI, endpoint string, payload interface{}) (*http.Response, apiResponse) {
	var body bytes.Buffer
	require.NoError(t, json.NewEncoder(&body).Encode(payload))
	return serveApiAndRetrieveEndpoint(t, api, http.MethodPost, endpoint, &body, "application/json")
}

// dataMap returns the data object of a response.
func dataMap(t *testing.T, resp apiResponse) map[string]interface{} {
	t.Helper()
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok, "data should be an object, got %T", resp.Data)
	return data
}

func entryMap(t *testing.T, resp apiResponse) map[string]interface{} {
	t.Helper()
	entry, ok := dataMap(t, resp)["entry"].(map[string]interface{})
	require.True(t, ok, "entry should be an object")
	return entry
}
