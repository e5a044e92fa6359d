package logic

import (
	"testing"

	"github.com/sweeney/galerians-autosplitter/internal/game"
	"github.com/sweeney/galerians-autosplitter/internal/route"
)

func TestMatches(t *testing.T) {
	src := game.NewFakeSource()
	src.At = game.At(game.Hotel2F, 6)
	src.Flags[game.FlagKey{Stage: game.StageC, Index: 50}] = true
	src.Items[game.Fuse] = true

	tests := []struct {
		name string
		ev   route.Event
		want bool
	}{
		{"room here", route.Room(game.Hotel2F, 6), true},
		{"room elsewhere", route.Room(game.Hotel2F, 7), false},
		{"either first", route.EitherRoom(game.Hotel2F, 6, game.Hotel3F, 1), true},
		{"either second", route.EitherRoom(game.Hotel3F, 1, game.Hotel2F, 6), true},
		{"either neither", route.EitherRoom(game.Hotel3F, 1, game.Hotel3F, 2), false},
		{"flag set", route.Flag(game.StageC, 50), true},
		{"flag other stage", route.Flag(game.StageB, 50), false},
		{"item held", route.Item(game.Fuse), true},
		{"item missing", route.Item(game.BedroomKey), false},
		{"unknown kind", route.Event{Kind: route.Kind(99)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Matches(tt.ev, src); got != tt.want {
				t.Errorf("Matches(%v) = %v, want %v", tt.ev, got, tt.want)
			}
		})
	}
}

func TestSplitDue(t *testing.T) {
	src := game.NewFakeSource()
	table := route.Table{
		route.Room(game.Hospital15F, 1),
		route.Room(game.Hospital15F, 2),
		route.Flag(game.StageA, 3),
		route.Item(game.TestLabKey),
	}

	if SplitDue(table, 3, src) {
		t.Error("item not yet held")
	}
	src.Items[game.TestLabKey] = true
	if !SplitDue(table, 3, src) {
		t.Error("expected split once item is held")
	}

	// Out of range indexes are never due, even if some event matches.
	src.At = game.At(game.Hospital15F, 1)
	for _, index := range []int{-1, 4, 100} {
		if SplitDue(table, index, src) {
			t.Errorf("index %d should not be due", index)
		}
	}
	if SplitDue(nil, 0, src) {
		t.Error("no table means nothing is due")
	}
}
