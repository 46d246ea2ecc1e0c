package restapi

import (
	"net/http"

	"stoplens.dev/internal/app"
)

func (api *RestAPI) routeHandler(w http.ResponseWriter, r *http.Request) {
	stopID, ok := api.stopIDParam(w, r)
	if !ok {
		return
	}
	route, ok := api.routeParam(w, r)
	if !ok {
		return
	}

	sess, _, err := api.RouteSessions.Open(app.RouteSessionKey(stopID, route))
	if err != nil {
		api.unavailableResponse(w, r)
		return
	}
	sendScreen(api, w, r, sess)
}

func (api *RestAPI) refreshRouteHandler(w http.ResponseWriter, r *http.Request) {
	stopID, ok := api.stopIDParam(w, r)
	if !ok {
		return
	}
	route, ok := api.routeParam(w, r)
	if !ok {
		return
	}

	sess, _, err := api.RouteSessions.Open(app.RouteSessionKey(stopID, route))
	if err != nil {
		api.unavailableResponse(w, r)
		return
	}
	refreshScreen(api, w, r, sess)
}
