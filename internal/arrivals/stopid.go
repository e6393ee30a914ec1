package arrivals

// StopRef is a stop identifier split into its station code and direction.
type StopRef struct {
	Station   string
	Direction Direction
}

// ParseStopID parses identifiers of the form {station}{N|S}. Anything else,
// including a bare station code or a lowercase suffix, does not parse.
func ParseStopID(id string) (StopRef, bool) {
	if len(id) < 2 {
		return StopRef{}, false
	}

	station, suffix := id[:len(id)-1], id[len(id)-1]
	switch suffix {
	case 'S':
		return StopRef{Station: station, Direction: Inbound}, true
	case 'N':
		return StopRef{Station: station, Direction: Outbound}, true
	default:
		return StopRef{}, false
	}
}
