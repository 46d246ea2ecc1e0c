package restapi

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupHandler(t *testing.T) {
	api, _ := createTestApi(t, testConfig(t))

	resp, model := postJSON(t, api, "/api/lookup", map[string]string{"input": " 142 25 "})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := dataMap(t, model)
	assert.Equal(t, "14225", entryMap(t, model)["stopId"])
	state := data["state"].(map[string]interface{})
	assert.Equal(t, " 142 25 ", state["manualInput"])

	sess, ok := api.StopSessions.Get("14225")
	require.True(t, ok)
	assert.Equal(t, " 142 25 ", sess.State().ManualInput)
}

func TestLookupHandlerValidation(t *testing.T) {
	api, _ := createTestApi(t, testConfig(t))

	resp, model := postJSON(t, api, "/api/lookup", map[string]string{"input": "<b></b>"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, model.FieldErrors, "input")

	resp, model = serveApiAndRetrieveEndpoint(t, api, http.MethodPost, "/api/lookup", strings.NewReader("not json"), "application/json")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, model.FieldErrors, "body")

	assert.Zero(t, api.StopSessions.Len())
}
