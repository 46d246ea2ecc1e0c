package restapi

import (
	"encoding/json"
	"net/http"

	"stoplens.dev/internal/utils"
)

const maxLookupBody = 4 << 10

type lookupRequest struct {
	Input string `json:"input"`
}

// lookupHandler opens the stop screen for a typed stop number.
func (api *RestAPI) lookupHandler(w http.ResponseWriter, r *http.Request) {
	var req lookupRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxLookupBody)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"body": {"request body must be a JSON object with an input field"}})
		return
	}

	stopID, err := utils.NormalizeStopInput(req.Input)
	if err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"input": {err.Error()}})
		return
	}

	sess, _, err := api.StopSessions.Open(stopID)
	if err != nil {
		api.unavailableResponse(w, r)
		return
	}
	sess.SetManualInput(req.Input)
	sendScreen(api, w, r, sess)
}
