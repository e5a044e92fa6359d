// Package route defines the progression events a run is split on and the
// route tables for each split type.
package route

import (
	"fmt"

	"github.com/sweeney/galerians-autosplitter/internal/game"
)

// Kind distinguishes the variants of Event.
type Kind int

const (
	// KindRoom matches when the player is in one room.
	KindRoom Kind = iota
	// KindEitherRoom matches either of two rooms. A few rooms are mapped
	// twice and the game may load either copy.
	KindEitherRoom
	// KindFlag matches when a story flag is set.
	KindFlag
	// KindItem matches when an item is in the inventory.
	KindItem
)

// Event is one expected step of progression. Only the fields relevant to
// Kind are meaningful.
type Event struct {
	Kind  Kind
	Room  game.Location
	Alt   game.Location
	Stage game.Stage
	Index uint32
	Item  game.Item
}

// Room builds a KindRoom event.
func Room(m game.Map, room uint16) Event {
	return Event{Kind: KindRoom, Room: game.At(m, room)}
}

// EitherRoom builds a KindEitherRoom event.
func EitherRoom(m1 game.Map, room1 uint16, m2 game.Map, room2 uint16) Event {
	return Event{Kind: KindEitherRoom, Room: game.At(m1, room1), Alt: game.At(m2, room2)}
}

// Flag builds a KindFlag event.
func Flag(stage game.Stage, index uint32) Event {
	return Event{Kind: KindFlag, Stage: stage, Index: index}
}

// Item builds a KindItem event.
func Item(item game.Item) Event {
	return Event{Kind: KindItem, Item: item}
}

func (e Event) String() string {
	switch e.Kind {
	case KindRoom:
		return "room " + e.Room.String()
	case KindEitherRoom:
		return fmt.Sprintf("room %s or %s", e.Room, e.Alt)
	case KindFlag:
		return fmt.Sprintf("flag %s/%d", e.Stage, e.Index)
	case KindItem:
		return fmt.Sprintf("item %d", e.Item)
	default:
		return fmt.Sprintf("Event(%d)", e.Kind)
	}
}

// Table is an ordered route. Entry i is the event that triggers the split
// after split i.
type Table []Event

// At returns the event for a timer split index. Negative or out of range
// indexes have no event.
func (t Table) At(index int) (Event, bool) {
	if index < 0 || index >= len(t) {
		return Event{}, false
	}
	return t[index], true
}
