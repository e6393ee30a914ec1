package restapi

import (
	"net/http"

	"leaveby.app/internal/arrivals"
	"leaveby.app/internal/models"
)

type healthModel struct {
	Status  string   `json:"status"`
	Pending []string `json:"pending"`
	Failed  []string `json:"failed"`
}

// healthHandler reports ready once every line has finished a refresh cycle.
// Lines whose last cycle failed are listed but do not make the service unhealthy.
func (api *RestAPI) healthHandler(w http.ResponseWriter, r *http.Request) {
	health := healthModel{Status: "ok", Pending: []string{}, Failed: []string{}}

	for _, result := range api.Board.Results() {
		switch result.Status {
		case arrivals.StatusPending:
			health.Pending = append(health.Pending, result.Line.ID)
		case arrivals.StatusFailed:
			health.Failed = append(health.Failed, result.Line.ID)
		}
	}

	if len(health.Pending) > 0 {
		health.Status = "starting"
		api.sendResponse(w, r, models.NewResponse(http.StatusServiceUnavailable, health, "starting"))
		return
	}

	api.sendResponse(w, r, models.NewOKResponse(health))
}
