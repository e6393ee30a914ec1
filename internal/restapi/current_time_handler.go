package restapi

import (
	"net/http"
	"time"

	"leaveby.app/internal/models"
)

func (api *RestAPI) currentTimeHandler(w http.ResponseWriter, r *http.Request) {
	api.sendResponse(w, r, models.NewOKResponse(models.NewCurrentTimeData(time.Now())))
}
