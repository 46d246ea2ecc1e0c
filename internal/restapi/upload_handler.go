package restapi

import (
	"errors"
	"log/slog"
	"net/http"

	"stoplens.dev/internal/logging"
	"stoplens.dev/internal/models"
	"stoplens.dev/internal/routes"
	"stoplens.dev/internal/stops"
)

const maxUploadSize = 10 << 20

type uploadResult struct {
	StopID string             `json:"stopId"`
	Stop   *models.StopRecord `json:"stop,omitempty"`
	Routes []models.RouteRef  `json:"routes"`
}

// uploadHandler forwards a stop sign photo to the transit service and
// returns the stop it recognised.
func (api *RestAPI) uploadHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		msg := "request must be multipart/form-data with an image field"
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			msg = "image is too large"
		}
		api.validationErrorResponse(w, r, map[string][]string{"image": {msg}})
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			logging.LogError(api.Logger, "failed to remove upload temp files", err)
		}
	}()

	file, header, err := r.FormFile("image")
	if err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"image": {"image is required"}})
		return
	}
	defer logging.SafeCloseWithLogging(file, api.Logger, "upload_image")

	resp, err := api.Client.Upload(r.Context(), header.Filename, file)
	if err != nil {
		api.transitErrorResponse(w, r, err)
		return
	}
	if resp.Stop == "" {
		api.writeError(w, http.StatusUnprocessableEntity, "no stop number found in image")
		return
	}

	result := uploadResult{
		StopID: resp.Stop.String(),
		Routes: make([]models.RouteRef, 0, len(resp.Routes)),
	}
	rec, err := api.Stops.Get(result.StopID)
	switch {
	case err == nil:
		result.Stop = &rec
	case errors.Is(err, stops.ErrStopNotFound):
		api.Logger.Warn("recognised stop is not in the stop table", slog.String("stop_id", result.StopID))
	default:
		api.writeError(w, http.StatusUnprocessableEntity, "no valid stop number found in image")
		return
	}
	for _, raw := range resp.Routes {
		result.Routes = append(result.Routes, routes.ParseRef(raw))
	}
	routes.SortRefs(result.Routes)

	api.sendResponse(w, r, models.NewEntryResponse(result))
}
