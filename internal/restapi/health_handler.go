package restapi

import (
	"net/http"

	"stoplens.dev/internal/models"
)

func (api *RestAPI) healthHandler(w http.ResponseWriter, r *http.Request) {
	api.sendResponse(w, r, models.NewOKResponse(map[string]interface{}{
		"status":        "ok",
		"env":           api.Config.Env.String(),
		"stops":         api.Stops.Len(),
		"stopSessions":  api.StopSessions.Len(),
		"routeSessions": api.RouteSessions.Len(),
	}))
}
