package webui

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/davecgh/go-spew/spew"

	"leaveby.app/internal/board"
)

//go:embed debug_index.html
var templateFS embed.FS

var debugTemplate = template.Must(template.ParseFS(templateFS, "debug_index.html"))

var dataTypes = []string{"results", "frame", "lines"}

// WebUI serves debugging pages over the board's published state.
type WebUI struct {
	Board *board.Board
}

type debugData struct {
	Title     string
	Pre       string
	DataTypes []string
}

var dumper = spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}

func writeDebugData(w http.ResponseWriter, title string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	err := debugTemplate.Execute(w, debugData{
		Title:     title,
		Pre:       dumper.Sdump(data),
		DataTypes: dataTypes,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (webUI *WebUI) debugIndexHandler(w http.ResponseWriter, r *http.Request) {
	var data interface{}
	var title string

	switch r.URL.Query().Get("dataType") {
	case "results":
		data = webUI.Board.Results()
		title = "Published Results"
	case "frame":
		data = webUI.Board.Frame()
		title = "Latest Countdown Frame"
	case "lines":
		data = webUI.Board.Lines()
		title = "Tracked Lines"
	default:
		data = map[string]string{
			"error": "Please use one of the following: results, frame, lines.",
		}
		title = "Choose a data type"
	}

	writeDebugData(w, title, data)
}
