package logic

import "testing"

func TestRunStatePredicates(t *testing.T) {
	tests := []struct {
		state   RunState
		started bool
		active  bool
	}{
		{RunNotStarted, false, false},
		{RunIntro, true, true},
		{RunActive, true, true},
		{RunFinished, true, false},
	}
	for _, tt := range tests {
		if got := tt.state.IsStarted(); got != tt.started {
			t.Errorf("%s.IsStarted() = %v, want %v", tt.state, got, tt.started)
		}
		if got := tt.state.IsActive(); got != tt.active {
			t.Errorf("%s.IsActive() = %v, want %v", tt.state, got, tt.active)
		}
	}
}

func TestConnectionStateAdvance(t *testing.T) {
	tests := []struct {
		from, to ConnectionState
	}{
		{ConnTimerPending, ConnSourcePending},
		{ConnSourcePending, ConnConnected},
		{ConnConnected, ConnConnected},
	}
	for _, tt := range tests {
		if got := tt.from.Advance(); got != tt.to {
			t.Errorf("%s.Advance() = %s, want %s", tt.from, got, tt.to)
		}
	}
}

func TestEventCountsAdd(t *testing.T) {
	var c EventCounts
	for _, typ := range []EventType{
		EventSplit, EventSplit, EventReset, EventRunStarted,
		EventRunFinished, EventConnected, EventTimerLost, EventSplitTypeSet,
	} {
		c.Add(Event{Type: typ})
	}

	want := EventCounts{Splits: 2, Resets: 1, RunsStarted: 1, RunsFinished: 1}
	if c != want {
		t.Errorf("expected %+v, got %+v", want, c)
	}
}
