package app

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"leaveby.app/internal/board"
	"leaveby.app/internal/config"
)

// Application holds the dependencies shared by the HTTP handlers, helpers
// and middleware.
type Application struct {
	Config   *config.Config
	Logger   *slog.Logger
	Board    *board.Board
	Registry *prometheus.Registry
}
