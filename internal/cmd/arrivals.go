package cmd

import (
	"encoding/json"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"leaveby.app/internal/models"
	"leaveby.app/internal/present"
)

func NewArrivalsCmd(cli *CLI) *cobra.Command {
	var (
		lineIDs []string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "arrivals",
		Short: "Refresh each line once, print the board and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := cli.selectLines(lineIDs)
			if err != nil {
				return err
			}

			b, err := cli.newBoard(lines, prometheus.NewRegistry())
			if err != nil {
				return err
			}
			defer b.Shutdown()

			b.RefreshAll(cmd.Context())
			frame := b.Tick()

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(models.NewLineModels(frame.Lines))
			}
			return present.Render(cmd.OutOrStdout(), frame, false)
		},
	}

	cmd.Flags().StringSliceVar(&lineIDs, "line", nil, "Only refresh these line IDs")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the API line models instead of text")

	return cmd
}
