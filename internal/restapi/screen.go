package restapi

import (
	"context"
	"errors"
	"net/http"

	"stoplens.dev/internal/models"
	"stoplens.dev/internal/poller"
	"stoplens.dev/internal/session"
	"stoplens.dev/internal/transit"
	"stoplens.dev/internal/utils"
)

// ensureView makes sure c has a view to show. A fresh session only has the
// mount fetch in flight, so the first request refreshes and waits.
func ensureView[V any](ctx context.Context, c *poller.Controller[V]) error {
	if _, ok := c.Current(); ok {
		return nil
	}
	err := c.Refresh(ctx)
	if _, ok := c.Current(); ok {
		return nil
	}
	return err
}

// screenData snapshots a session for the client.
func screenData[V any](s *session.Session[V]) models.ScreenData {
	c := s.Controller
	data := models.ScreenData{
		Refreshing: c.Refreshing(),
		Error:      userMessage(c.LastError()),
		State:      s.State(),
	}
	if v, ok := c.Current(); ok {
		data.Entry = v
		data.LastUpdated = c.UpdatedAt().UnixMilli()
	}
	return data
}

// sendScreen waits for the first view of s when needed and writes it.
func sendScreen[V any](api *RestAPI, w http.ResponseWriter, r *http.Request, s *session.Session[V]) {
	if err := ensureView(r.Context(), s.Controller); err != nil {
		api.fetchErrorResponse(w, r, err)
		return
	}
	api.sendResponse(w, r, models.NewOKResponse(screenData(s)))
}

// refreshScreen runs a manual refresh of s and writes the result.
func refreshScreen[V any](api *RestAPI, w http.ResponseWriter, r *http.Request, s *session.Session[V]) {
	if err := s.Controller.Refresh(r.Context()); err != nil {
		api.fetchErrorResponse(w, r, err)
		return
	}
	api.sendResponse(w, r, models.NewOKResponse(screenData(s)))
}

func (api *RestAPI) fetchErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, poller.ErrStopped):
		api.unavailableResponse(w, r)
		return
	case transit.IsStatus(err, http.StatusNotFound):
		api.sendNotFound(w, r)
		return
	}
	api.transitErrorResponse(w, r, err)
}

// stopIDParam reads and validates the stop id path parameter.
func (api *RestAPI) stopIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	stopID := utils.ExtractIDFromParams(r, "stopID")
	if err := utils.ValidateID(stopID); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"stopID": {err.Error()}})
		return "", false
	}
	return stopID, true
}

// routeParam reads and validates the route path parameter.
func (api *RestAPI) routeParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	route := utils.ExtractIDFromParams(r, "route")
	if err := utils.ValidateRouteNumber(route); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"route": {err.Error()}})
		return "", false
	}
	return route, true
}
