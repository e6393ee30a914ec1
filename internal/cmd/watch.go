package cmd

import (
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"leaveby.app/internal/present"
)

func NewWatchCmd(cli *CLI) *cobra.Command {
	var (
		lineIDs []string
		noColor bool
		noClear bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Show a live departure board in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := cli.selectLines(lineIDs)
			if err != nil {
				return err
			}

			b, err := cli.newBoard(lines, prometheus.NewRegistry())
			if err != nil {
				return err
			}
			b.AddPresenter(present.NewTerminal(cmd.OutOrStdout(), present.TerminalOptions{
				Color:  !noColor,
				Clear:  !noClear,
				Logger: cli.logger,
			}))

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			b.Start()
			<-ctx.Done()
			b.Shutdown()
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&lineIDs, "line", nil, "Only show these line IDs")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable ANSI colours")
	cmd.Flags().BoolVar(&noClear, "no-clear", false, "Append frames instead of clearing the screen")

	return cmd
}
