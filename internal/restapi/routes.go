package restapi

import (
	"net/http"
	"net/http/pprof"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"stoplens.dev/internal/appconf"
	"stoplens.dev/internal/webui"
)

// instrument records the status of every request to pattern.
func (api *RestAPI) instrument(pattern string, h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		h(wrapped, r)
		api.Metrics.APIRequest(pattern, strconv.Itoa(wrapped.statusCode))
	})
}

func (api *RestAPI) handle(router *httprouter.Router, method, pattern string, h http.HandlerFunc) {
	router.Handler(method, pattern, api.instrument(pattern, h))
}

func registerPprofHandlers(router *httprouter.Router) {
	router.HandlerFunc(http.MethodGet, "/debug/pprof/", pprof.Index)
	router.HandlerFunc(http.MethodGet, "/debug/pprof/cmdline", pprof.Cmdline)
	router.HandlerFunc(http.MethodGet, "/debug/pprof/profile", pprof.Profile)
	router.HandlerFunc(http.MethodGet, "/debug/pprof/symbol", pprof.Symbol)
	router.HandlerFunc(http.MethodGet, "/debug/pprof/trace", pprof.Trace)
}

func (api *RestAPI) SetRoutes(router *httprouter.Router) {
	api.handle(router, http.MethodGet, "/api/stops/:stopID", api.stopHandler)
	api.handle(router, http.MethodPost, "/api/stops/:stopID/refresh", api.refreshStopHandler)
	api.handle(router, http.MethodGet, "/api/stops/:stopID/routes/:route", api.routeHandler)
	api.handle(router, http.MethodPost, "/api/stops/:stopID/routes/:route/refresh", api.refreshRouteHandler)
	api.handle(router, http.MethodPost, "/api/stops/:stopID/routes/:route/expand", api.expandRouteHandler)
	api.handle(router, http.MethodGet, "/api/stops/:stopID/vehicles/:vehicle", api.vehicleHandler)
	api.handle(router, http.MethodPost, "/api/lookup", api.lookupHandler)
	api.handle(router, http.MethodPost, "/api/upload", api.uploadHandler)
	api.handle(router, http.MethodGet, "/healthz", api.healthHandler)
	router.Handler(http.MethodGet, "/metrics", api.Metrics.Handler())
}

// Handler returns the full HTTP surface with middleware applied. The debug
// page and pprof are left out in production.
func (api *RestAPI) Handler() http.Handler {
	router := httprouter.New()
	router.NotFound = http.HandlerFunc(api.sendNotFound)
	router.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	router.HandleOPTIONS = false

	api.SetRoutes(router)
	if api.Config.Env != appconf.Production {
		webui.New(api.Application).SetRoutes(router)
		registerPprofHandlers(router)
	}

	var h http.Handler = router
	h = api.rateLimiter.Handler(h)
	h = NewCompressionMiddleware(DefaultCompressionConfig())(h)
	h = securityHeaders(h)
	return NewRequestLoggingMiddleware(api.Logger)(h)
}
