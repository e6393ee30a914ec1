package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"
	"time"

	gtfsrt "github.com/jamespfennell/gtfs/proto"
	"github.com/spf13/cobra"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	"leaveby.app/internal/arrivals"
	"leaveby.app/internal/feed"
	"leaveby.app/internal/logging"
)

func NewDecodeCmd(cli *CLI) *cobra.Command {
	var (
		format  string
		station string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "decode <file-or-url>",
		Short: "Decode one GTFS-Realtime snapshot and print its stop time updates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), cli.config.FetchTimeout())
			defer cancel()

			raw, err := feed.NewHTTPFetcher(nil, cli.config.FeedHeaders()).Fetch(ctx, args[0])
			if err != nil {
				return err
			}

			if asJSON {
				return writeProtoJSON(cmd.OutOrStdout(), raw)
			}

			decoder, err := feed.DecoderFor(format)
			if err != nil {
				return err
			}
			snapshot, err := decoder.Decode(raw)
			if err != nil {
				return err
			}
			return writeSummary(cmd.OutOrStdout(), snapshot, station)
		},
	}

	cmd.Flags().StringVar(&format, "format", feed.FormatGTFSRT, "Snapshot format: gtfsrt or nyct")
	cmd.Flags().StringVar(&station, "station", "", "Only list stops of this station code")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Dump the raw FeedMessage as JSON")

	return cmd
}

func writeProtoJSON(w io.Writer, raw []byte) error {
	var message gtfsrt.FeedMessage
	if err := proto.Unmarshal(raw, &message); err != nil {
		return &feed.DecodeError{Format: feed.FormatGTFSRT, Size: len(raw), Err: err}
	}
	b, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(&message)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// writeSummary prints one row per stop time update in feed order.
func writeSummary(w io.Writer, snapshot *feed.Snapshot, station string) (err error) {
	if _, err := fmt.Fprintf(w, "created %s, %d stop time updates\n\n",
		formatTime(snapshot.CreatedAt), len(snapshot.Updates)); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	defer logging.HandleDeferredError(&err, tw.Flush, slog.Default(), "summary_flush")

	fmt.Fprintln(tw, "ENTITY\tTRIP\tROUTE\tSTOP\tDIRECTION\tARRIVAL\tDEPARTURE")
	for _, update := range snapshot.Updates {
		ref, ok := arrivals.ParseStopID(update.StopID)
		if station != "" && (!ok || ref.Station != station) {
			continue
		}
		direction := "-"
		if ok {
			direction = ref.Direction.String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			dash(update.EntityID), dash(update.TripID), dash(update.RouteID), dash(update.StopID),
			direction, formatTimestamp(update.Arrival), formatTimestamp(update.Departure))
	}
	return nil
}

func formatTimestamp(ts feed.Timestamp) string {
	if !ts.Present() {
		return "-"
	}
	return formatTime(time.Unix(ts.Seconds, 0))
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
