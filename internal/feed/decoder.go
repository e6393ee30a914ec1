package feed

import (
	"fmt"
	"time"

	gtfsrt "github.com/jamespfennell/gtfs/proto"
	"google.golang.org/protobuf/proto"
)

// Supported snapshot formats.
const (
	FormatGTFSRT = "gtfsrt"
	FormatNYCT   = "nyct"
)

// Decoder turns the raw bytes of one snapshot into a Snapshot.
type Decoder interface {
	Decode(raw []byte) (*Snapshot, error)
}

// DecoderFor returns the decoder registered for format. An empty format
// selects the plain GTFS-Realtime decoder.
func DecoderFor(format string) (Decoder, error) {
	switch format {
	case "", FormatGTFSRT:
		return ProtoDecoder{}, nil
	case FormatNYCT:
		return ParserDecoder{Nyct: true}, nil
	default:
		return nil, fmt.Errorf("unknown feed format %q", format)
	}
}

// ProtoDecoder decodes plain GTFS-Realtime FeedMessages and flattens
// entity -> trip update -> stop time update.
type ProtoDecoder struct{}

func (ProtoDecoder) Decode(raw []byte) (*Snapshot, error) {
	message, err := unmarshalFeed(raw, FormatGTFSRT)
	if err != nil {
		return nil, err
	}
	return flatten(message, nil), nil
}

func unmarshalFeed(raw []byte, format string) (*gtfsrt.FeedMessage, error) {
	message := &gtfsrt.FeedMessage{}
	if err := proto.Unmarshal(raw, message); err != nil {
		return nil, &DecodeError{Format: format, Size: len(raw), Err: err}
	}
	return message, nil
}

// flatten walks the entities in feed order. Entities whose index is marked
// in skip are left out.
func flatten(message *gtfsrt.FeedMessage, skip []bool) *Snapshot {
	snapshot := &Snapshot{}
	if ts := message.GetHeader().GetTimestamp(); ts != 0 {
		snapshot.CreatedAt = time.Unix(int64(ts), 0)
	}

	for i, entity := range message.GetEntity() {
		tripUpdate := entity.GetTripUpdate()
		if tripUpdate == nil || (i < len(skip) && skip[i]) {
			continue
		}

		trip := tripUpdate.GetTrip()
		for _, stopTimeUpdate := range tripUpdate.GetStopTimeUpdate() {
			snapshot.Updates = append(snapshot.Updates, StopTimeUpdate{
				EntityID:  entity.GetId(),
				TripID:    trip.GetTripId(),
				RouteID:   trip.GetRouteId(),
				StopID:    stopTimeUpdate.GetStopId(),
				Arrival:   eventTimestamp(stopTimeUpdate.GetArrival()),
				Departure: eventTimestamp(stopTimeUpdate.GetDeparture()),
			})
		}
	}

	return snapshot
}

func eventTimestamp(event *gtfsrt.TripUpdate_StopTimeEvent) Timestamp {
	if event == nil || event.Time == nil {
		return Timestamp{}
	}
	return At(event.GetTime())
}
