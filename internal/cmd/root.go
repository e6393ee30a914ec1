// Package cmd holds the leaveby command line.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"slices"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"leaveby.app/internal/arrivals"
	"leaveby.app/internal/board"
	"leaveby.app/internal/config"
	"leaveby.app/internal/feed"
	"leaveby.app/internal/logging"
)

// feedCacheSize bounds the number of distinct sources kept in the fetch cache.
const feedCacheSize = 16

// CLI carries the persistent flags and the state every subcommand shares once
// the config has been loaded.
type CLI struct {
	ConfigPath string
	LogLevel   string
	LogFormat  string
	EnvFiles   []string

	config *config.Config
	logger *slog.Logger
}

func Execute(ctx context.Context) error {
	return NewRootCmd(&CLI{}).ExecuteContext(ctx)
}

func NewRootCmd(cli *CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "leaveby",
		Short:         "Live subway countdowns that tell you when to leave",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cli.load(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(
		&cli.ConfigPath,
		"config",
		"",
		"Path to a YAML or TOML config file (built-in lines when empty)",
	)
	cmd.PersistentFlags().StringVar(&cli.LogLevel, "log-level", "", "Log level: debug, info, warn or error")
	cmd.PersistentFlags().StringVar(&cli.LogFormat, "log-format", "", "Log format: text or json")
	cmd.PersistentFlags().StringSliceVar(&cli.EnvFiles, "env-file", []string{".env"}, "Files to load environment variables from")

	cmd.AddCommand(NewServeCmd(cli))
	cmd.AddCommand(NewWatchCmd(cli))
	cmd.AddCommand(NewArrivalsCmd(cli))
	cmd.AddCommand(NewDecodeCmd(cli))

	return cmd
}

// load reads the config and builds the logger. Flags win over the file.
func (cli *CLI) load(cmd *cobra.Command) error {
	cfg, err := config.Load(cli.ConfigPath, cli.EnvFiles...)
	if err != nil {
		return err
	}

	levelName := cfg.Log.Level
	if cli.LogLevel != "" {
		levelName = cli.LogLevel
	}
	format := cfg.Log.Format
	if cli.LogFormat != "" {
		format = cli.LogFormat
	}

	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return err
	}

	cli.config = cfg
	cli.logger = logging.NewLogger(cmd.ErrOrStderr(), format, level)
	slog.SetDefault(cli.logger)
	return nil
}

func (cli *CLI) newFetcher() feed.Fetcher {
	client := &http.Client{Timeout: cli.config.FetchTimeout()}
	return feed.NewCachingFetcher(
		feed.NewHTTPFetcher(client, cli.config.FeedHeaders()),
		feedCacheSize,
		cli.config.CacheTTL(),
	)
}

func (cli *CLI) newBoard(lines []arrivals.TrackedLine, registerer prometheus.Registerer) (*board.Board, error) {
	return board.New(lines, cli.newFetcher(), board.Options{
		RefreshInterval:   cli.config.RefreshInterval(),
		CountdownInterval: cli.config.CountdownInterval(),
		FetchTimeout:      cli.config.FetchTimeout(),
		Logger:            cli.logger,
		Registerer:        registerer,
	})
}

// selectLines returns the configured lines named by ids, in config order.
// No ids selects every line.
func (cli *CLI) selectLines(ids []string) ([]arrivals.TrackedLine, error) {
	lines := cli.config.TrackedLines()
	if len(ids) == 0 {
		return lines, nil
	}

	selected := make([]arrivals.TrackedLine, 0, len(ids))
	for _, line := range lines {
		if slices.Contains(ids, line.ID) {
			selected = append(selected, line)
		}
	}
	for _, id := range ids {
		if !slices.ContainsFunc(selected, func(line arrivals.TrackedLine) bool { return line.ID == id }) {
			return nil, fmt.Errorf("unknown line %q", id)
		}
	}
	return selected, nil
}
