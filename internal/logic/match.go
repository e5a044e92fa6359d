package logic

import (
	"github.com/sweeney/galerians-autosplitter/internal/game"
	"github.com/sweeney/galerians-autosplitter/internal/route"
)

// GameView is the part of a game source that route events are tested against.
type GameView interface {
	Location() game.Location
	Flag(stage game.Stage, index uint32) bool
	HasItem(item game.Item) bool
}

// Matches reports whether ev is satisfied by the current game state.
func Matches(ev route.Event, view GameView) bool {
	switch ev.Kind {
	case route.KindRoom:
		return view.Location() == ev.Room
	case route.KindEitherRoom:
		at := view.Location()
		return at == ev.Room || at == ev.Alt
	case route.KindFlag:
		return view.Flag(ev.Stage, ev.Index)
	case route.KindItem:
		return view.HasItem(ev.Item)
	default:
		return false
	}
}

// SplitDue reports whether the event after split index has happened. An
// index with no event in table is never due.
func SplitDue(table route.Table, index int, view GameView) bool {
	ev, ok := table.At(index)
	if !ok {
		return false
	}
	return Matches(ev, view)
}
