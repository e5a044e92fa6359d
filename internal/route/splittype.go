package route

import "fmt"

// SplitType selects how a run is split. The zero value means unset.
type SplitType string

const (
	// Unset means no split type is known.
	Unset SplitType = ""
	// AllDoors splits on every room change and has no route table.
	AllDoors SplitType = "all-doors"
	// Doors splits on each room of the door route.
	Doors SplitType = "doors"
	// KeyEvents splits on key items, story flags and boss rooms.
	KeyEvents SplitType = "key-events"
)

// SplitTypes lists every valid split type.
var SplitTypes = []SplitType{AllDoors, Doors, KeyEvents}

// ParseSplitType validates a split type name.
func ParseSplitType(s string) (SplitType, error) {
	for _, t := range SplitTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return Unset, fmt.Errorf("unrecognized split type %q", s)
}

// IsSet reports whether t names a split type.
func (t SplitType) IsSet() bool {
	return t != Unset
}

// Table returns the route for t, or nil when splitting on every room change.
func (t SplitType) Table() Table {
	switch t {
	case Doors:
		return DoorSplits
	case KeyEvents:
		return KeyEventSplits
	default:
		return nil
	}
}

func (t SplitType) String() string {
	if t == Unset {
		return "unset"
	}
	return string(t)
}
