package feed

import (
	"github.com/jamespfennell/gtfs/extensions"
	"github.com/jamespfennell/gtfs/extensions/nycttrips"
)

// ParserDecoder decodes snapshots through a jamespfennell/gtfs extension
// before flattening them. With Nyct set the NYC Transit trips extension runs
// over every trip update, which among other things corrects the M train
// platforms the MTA reports with the wrong direction.
//
// Updates keep feed order and entities sharing a trip ID stay separate.
type ParserDecoder struct {
	Nyct bool
}

func (d ParserDecoder) extension() extensions.Extension {
	if d.Nyct {
		return nycttrips.Extension(nycttrips.ExtensionOpts{})
	}
	return extensions.NoExtension()
}

func (d ParserDecoder) Decode(raw []byte) (*Snapshot, error) {
	format := FormatGTFSRT
	if d.Nyct {
		format = FormatNYCT
	}

	message, err := unmarshalFeed(raw, format)
	if err != nil {
		return nil, err
	}

	ext := d.extension()
	createdAt := message.GetHeader().GetTimestamp()
	skip := make([]bool, len(message.GetEntity()))
	for i, entity := range message.GetEntity() {
		if tripUpdate := entity.GetTripUpdate(); tripUpdate != nil {
			skip[i] = ext.UpdateTrip(tripUpdate, createdAt).ShouldSkip
		}
	}

	return flatten(message, skip), nil
}
