package restapi

import (
	"errors"
	"net/http"

	"stoplens.dev/internal/models"
	"stoplens.dev/internal/utils"
	"stoplens.dev/internal/viewmodel"
)

// vehicleHandler builds the vehicle-detail screen once. It is not polled.
func (api *RestAPI) vehicleHandler(w http.ResponseWriter, r *http.Request) {
	stopID, ok := api.stopIDParam(w, r)
	if !ok {
		return
	}
	vehicle := utils.ExtractIDFromParams(r, "vehicle")
	if err := utils.ValidateID(vehicle); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"vehicle": {err.Error()}})
		return
	}

	view, err := api.Builder.BuildVehicle(r.Context(), stopID, vehicle)
	if errors.Is(err, viewmodel.ErrVehicleNotFound) {
		api.sendNotFound(w, r)
		return
	}
	if err != nil {
		api.fetchErrorResponse(w, r, err)
		return
	}

	api.sendResponse(w, r, models.NewEntryResponse(view))
}
