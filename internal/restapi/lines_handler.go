package restapi

import (
	"net/http"

	"leaveby.app/internal/models"
	"leaveby.app/internal/utils"
)

func (api *RestAPI) linesHandler(w http.ResponseWriter, r *http.Request) {
	frame := api.Board.Frame()

	response := models.NewListResponse(
		models.NewLineModels(frame.Lines),
		models.NewLineReferences(api.Board.Lines()...),
	)
	api.sendResponse(w, r, response)
}

func (api *RestAPI) lineHandler(w http.ResponseWriter, r *http.Request) {
	id := utils.ExtractIDFromParams(r, "id")

	if err := utils.ValidateID(id); err != nil {
		fieldErrors := map[string][]string{
			"id": {err.Error()},
		}
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	line, ok := api.Board.Line(id)
	if !ok {
		api.sendNotFound(w, r)
		return
	}

	for _, view := range api.Board.Frame().Lines {
		if view.Result.Line.ID == id {
			response := models.NewEntryResponse(models.NewLineModel(view), models.NewLineReferences(line))
			api.sendResponse(w, r, response)
			return
		}
	}

	api.sendNotFound(w, r)
}
