package restapi

import (
	"net/http"

	"stoplens.dev/internal/models"
)

func (api *RestAPI) stopHandler(w http.ResponseWriter, r *http.Request) {
	stopID, ok := api.stopIDParam(w, r)
	if !ok {
		return
	}

	sess, _, err := api.StopSessions.Open(stopID)
	if err != nil {
		api.unavailableResponse(w, r)
		return
	}
	sendScreen(api, w, r, sess)
}

func (api *RestAPI) refreshStopHandler(w http.ResponseWriter, r *http.Request) {
	stopID, ok := api.stopIDParam(w, r)
	if !ok {
		return
	}

	sess, _, err := api.StopSessions.Open(stopID)
	if err != nil {
		api.unavailableResponse(w, r)
		return
	}
	refreshScreen(api, w, r, sess)
}

// expandRouteHandler toggles whether a route group is expanded on the stop screen.
func (api *RestAPI) expandRouteHandler(w http.ResponseWriter, r *http.Request) {
	stopID, ok := api.stopIDParam(w, r)
	if !ok {
		return
	}
	route, ok := api.routeParam(w, r)
	if !ok {
		return
	}

	sess, _, err := api.StopSessions.Open(stopID)
	if err != nil {
		api.unavailableResponse(w, r)
		return
	}
	expanded := sess.ToggleRoute(route)

	api.sendResponse(w, r, models.NewEntryResponse(map[string]interface{}{
		"route":    route,
		"expanded": expanded,
		"state":    sess.State(),
	}))
}
