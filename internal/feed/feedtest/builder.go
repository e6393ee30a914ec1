// Package feedtest builds GTFS-Realtime snapshots for tests.
package feedtest

import (
	"testing"
	"time"

	gtfsrt "github.com/jamespfennell/gtfs/proto"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
)

// Stop describes one stop time update. Zero Arrival or Departure leaves the
// corresponding event out of the message.
type Stop struct {
	ID        string
	Arrival   int64
	Departure int64
}

// Trip describes one trip update entity.
type Trip struct {
	EntityID string
	TripID   string
	RouteID  string
	Stops    []Stop
}

// Message builds a FeedMessage holding the given trips in order.
func Message(createdAt time.Time, trips ...Trip) *gtfsrt.FeedMessage {
	version := "2.0"
	timestamp := uint64(createdAt.Unix())
	message := &gtfsrt.FeedMessage{
		Header: &gtfsrt.FeedHeader{
			GtfsRealtimeVersion: &version,
			Timestamp:           &timestamp,
		},
	}

	for _, trip := range trips {
		tripUpdate := &gtfsrt.TripUpdate{
			Trip: &gtfsrt.TripDescriptor{
				TripId:  proto.String(trip.TripID),
				RouteId: proto.String(trip.RouteID),
			},
		}
		for _, stop := range trip.Stops {
			update := &gtfsrt.TripUpdate_StopTimeUpdate{StopId: proto.String(stop.ID)}
			if stop.Arrival != 0 {
				update.Arrival = &gtfsrt.TripUpdate_StopTimeEvent{Time: proto.Int64(stop.Arrival)}
			}
			if stop.Departure != 0 {
				update.Departure = &gtfsrt.TripUpdate_StopTimeEvent{Time: proto.Int64(stop.Departure)}
			}
			tripUpdate.StopTimeUpdate = append(tripUpdate.StopTimeUpdate, update)
		}

		message.Entity = append(message.Entity, &gtfsrt.FeedEntity{
			Id:         proto.String(trip.EntityID),
			TripUpdate: tripUpdate,
		})
	}

	return message
}

// Bytes marshals a FeedMessage built from trips.
func Bytes(t testing.TB, createdAt time.Time, trips ...Trip) []byte {
	t.Helper()
	b, err := proto.Marshal(Message(createdAt, trips...))
	require.NoError(t, err)
	return b
}

// Malformed returns bytes that do not decode as a FeedMessage.
func Malformed() []byte {
	return []byte{0xff, 0xff, 0xff, 0xff}
}
