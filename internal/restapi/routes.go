package restapi

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"leaveby.app/internal/appconf"
	"leaveby.app/internal/webui"
)

type handlerFunc func(w http.ResponseWriter, r *http.Request)

func validateAPIKey(api *RestAPI, finalHandler handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.RequestHasInvalidAPIKey(r) {
			api.invalidAPIKeyResponse(w, r)
			return
		}
		finalHandler(w, r)
	})
}

// Routes builds the router without middleware.
func (api *RestAPI) Routes() *httprouter.Router {
	router := httprouter.New()

	router.Handler(http.MethodGet, "/api/lines.json", validateAPIKey(api, api.linesHandler))
	router.Handler(http.MethodGet, "/api/lines/:id", validateAPIKey(api, api.lineHandler))
	router.Handler(http.MethodGet, "/api/current-time.json", validateAPIKey(api, api.currentTimeHandler))
	router.HandlerFunc(http.MethodGet, "/healthz", api.healthHandler)

	if api.Registry != nil {
		router.Handler(http.MethodGet, "/metrics", promhttp.HandlerFor(api.Registry, promhttp.HandlerOpts{}))
	}

	if api.Config.Environment() != appconf.Production {
		(&webui.WebUI{Board: api.Board}).SetWebUIRoutes(router)
	}

	router.NotFound = http.HandlerFunc(api.sendNotFound)

	return router
}
