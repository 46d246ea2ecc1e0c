package restapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"stoplens.dev/internal/logging"
	"stoplens.dev/internal/models"
	"stoplens.dev/internal/transit"
)

// errorResponse is the envelope of every failed request.
type errorResponse struct {
	Code        int    `json:"code"`
	CurrentTime int64  `json:"currentTime"`
	Text        string `json:"text"`
	Version     int    `json:"version"`
}

func (api *RestAPI) writeError(w http.ResponseWriter, code int, text string) {
	if err := writeErrorEnvelope(w, code, text); err != nil {
		api.Logger.Error("failed to encode error response", "error", err, "status", code)
	}
}

func writeErrorEnvelope(w http.ResponseWriter, code int, text string) error {
	response := errorResponse{
		Code:        code,
		CurrentTime: models.ResponseCurrentTime(),
		Text:        text,
		Version:     1,
	}

	setJSONResponseType(&w)
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(response)
}

func (api *RestAPI) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	logging.LogError(logging.FromContext(r.Context()), "request failed", err)
	api.writeError(w, http.StatusInternalServerError, "internal server error")
}

// transitErrorResponse reports a failed call to the transit service as a
// 502 with a one-line message the client can show as is.
func (api *RestAPI) transitErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	logging.LogError(logging.FromContext(r.Context()), "transit request failed", err)
	api.writeError(w, http.StatusBadGateway, userMessage(err))
}

func (api *RestAPI) unavailableResponse(w http.ResponseWriter, r *http.Request) {
	api.writeError(w, http.StatusServiceUnavailable, "server is shutting down")
}

// validationErrorResponse sends a 400 Bad Request response with field-specific validation errors
func (api *RestAPI) validationErrorResponse(w http.ResponseWriter, r *http.Request, fieldErrors map[string][]string) {
	response := struct {
		FieldErrors map[string][]string `json:"fieldErrors"`
	}{
		FieldErrors: fieldErrors,
	}

	setJSONResponseType(&w)
	w.WriteHeader(http.StatusBadRequest)
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		api.Logger.Error("failed to encode validation error response", "error", err)
	}
}

// userMessage turns a fetch error into a single line for display.
func userMessage(err error) string {
	var statusErr *transit.StatusError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &statusErr):
		return fmt.Sprintf("transit service returned status %d", statusErr.Code)
	case errors.Is(err, context.DeadlineExceeded):
		return "transit service timed out"
	case errors.Is(err, context.Canceled):
		return "request cancelled"
	default:
		return "could not reach the transit service"
	}
}
