package restapi

import (
	"net/http"
	"time"

	"leaveby.app/internal/app"
)

type RestAPI struct {
	*app.Application
	rateLimiter *RateLimitMiddleware
}

// NewRestAPI creates a new RestAPI instance with initialized rate limiter
func NewRestAPI(app *app.Application) *RestAPI {
	return &RestAPI{
		Application: app,
		rateLimiter: NewRateLimitMiddleware(app.Config.Server.RateLimit, time.Second),
	}
}

// Handler returns the routes wrapped in the full middleware chain.
func (api *RestAPI) Handler() http.Handler {
	var handler http.Handler = api.Routes()
	handler = CompressionMiddleware(handler)
	handler = api.rateLimiter.Handler(handler)
	handler = corsMiddleware(handler)
	handler = api.WithSecurityHeaders(handler)
	handler = NewRequestLoggingMiddleware(api.Logger)(handler)
	return handler
}

// Close releases background resources held by the middleware.
func (api *RestAPI) Close() {
	api.rateLimiter.Stop()
}
