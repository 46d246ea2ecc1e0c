package restapi

import (
	"stoplens.dev/internal/app"
)

type RestAPI struct {
	*app.Application
	rateLimiter *RateLimitMiddleware
}

// NewRestAPI creates a new RestAPI instance with a per-client rate limiter
// built from the server config.
func NewRestAPI(app *app.Application) *RestAPI {
	return &RestAPI{
		Application: app,
		rateLimiter: NewRateLimitMiddleware(app.Config.Server.RateLimit, app.Config.Server.RateBurst, app.Config.Server.TrustProxy),
	}
}

// Close releases the background resources of the API.
func (api *RestAPI) Close() {
	api.rateLimiter.Stop()
}
