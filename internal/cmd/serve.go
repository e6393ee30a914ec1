package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"leaveby.app/internal/app"
	"leaveby.app/internal/logging"
	"leaveby.app/internal/restapi"
)

const shutdownTimeout = 10 * time.Second

func NewServeCmd(cli *CLI) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Refresh every line in the background and serve the JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != 0 {
				cli.config.Server.Port = port
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return cli.serve(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "API server port (overrides the config file)")

	return cmd
}

// serve runs the board and the HTTP server until ctx is cancelled.
func (cli *CLI) serve(ctx context.Context) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	b, err := cli.newBoard(cli.config.TrackedLines(), registry)
	if err != nil {
		return err
	}
	b.Start()
	defer b.Shutdown()

	api := restapi.NewRestAPI(&app.Application{
		Config:   cli.config,
		Logger:   cli.logger,
		Board:    b,
		Registry: registry,
	})
	defer api.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cli.config.Server.Port),
		Handler:      api.Handler(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(cli.logger.Handler(), slog.LevelError),
	}

	errs := make(chan error, 1)
	go func() {
		cli.logger.Info("starting server",
			slog.String("addr", srv.Addr),
			slog.String("env", cli.config.Environment().String()),
			slog.Int("lines", len(b.Lines())))
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logging.LogOperation(cli.logger, "server_shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
