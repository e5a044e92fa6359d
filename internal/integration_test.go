package internal

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/nats-io/nats.go"

	"github.com/sweeney/galerians-autosplitter/internal/autosplit"
	"github.com/sweeney/galerians-autosplitter/internal/game"
	"github.com/sweeney/galerians-autosplitter/internal/gpio"
	"github.com/sweeney/galerians-autosplitter/internal/livesplit"
	"github.com/sweeney/galerians-autosplitter/internal/logic"
	"github.com/sweeney/galerians-autosplitter/internal/mqtt"
	"github.com/sweeney/galerians-autosplitter/internal/natsbus"
	"github.com/sweeney/galerians-autosplitter/internal/route"
	"github.com/sweeney/galerians-autosplitter/internal/status"
)

// ram is sparse console memory laid out like the NTSC-U release.
type ram struct {
	bytes map[uint32]byte
}

func newRAM() *ram {
	r := &ram{bytes: map[uint32]byte{}}
	r.write(ntscU().SearchStringAddress, []byte("GALERIANS"))
	return r
}

func ntscU() *game.Version { return game.Versions[0] }

func (r *ram) ReadAt(address uint32, buf []byte) {
	for i := range buf {
		buf[i] = r.bytes[address+uint32(i)]
	}
}

func (r *ram) Alive() bool  { return true }
func (r *ram) Close() error { return nil }

func (r *ram) write(address uint32, data []byte) {
	for i, b := range data {
		r.bytes[address+uint32(i)] = b
	}
}

func (r *ram) putU16(address uint32, v uint16) {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	r.write(address, buf[:])
}

func (r *ram) moveTo(loc game.Location) {
	r.putU16(ntscU().MapIDAddress, uint16(loc.Map))
	r.putU16(ntscU().RoomIDAddress, loc.Room)
}

// chooseNewGame puts the title menu in its "new game" state.
func (r *ram) chooseNewGame() {
	v := ntscU()
	r.putU16(v.MenuModuleIDAddress, uint16(v.MainMenuModuleID))
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], 120)
	r.write(v.MainMenuStateAddress, buf[:])
}

func (r *ram) leaveMenu() {
	r.putU16(ntscU().MenuModuleIDAddress, 0)
}

func (r *ram) setFlag(stage game.Stage, index uint32) {
	address, mask := ntscU().FlagAddress(stage, index)
	var buf [8]byte
	r.ReadAt(address, buf[:])
	binary.LittleEndian.PutUint64(buf[:], binary.LittleEndian.Uint64(buf[:])|mask)
	r.write(address, buf[:])
}

func (r *ram) unloadGame() {
	r.write(ntscU().SearchStringAddress, make([]byte, 9))
}

type busConn struct {
	subjects []string
}

func (c *busConn) PublishMsg(m *nats.Msg) error {
	c.subjects = append(c.subjects, m.Subject)
	return nil
}
func (c *busConn) IsConnected() bool { return true }
func (c *busConn) Close()            {}

type rig struct {
	mem     *ram
	timer   *livesplit.FakeTimer
	orch    *autosplit.Orchestrator
	mqtt    *mqtt.FakePublisher
	bus     *busConn
	tracker *status.Tracker
	led     *gpio.FakeIndicator
}

func newRig() *rig {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 4, 1, 21, 0, 0, 0, time.UTC))
	r := &rig{
		mem:   newRAM(),
		timer: livesplit.NewFakeTimer(),
		mqtt:  mqtt.NewFakePublisher(),
		bus:   &busConn{},
		led:   gpio.NewFakeIndicator(),
	}
	r.mem.moveTo(game.NoLocation)
	r.tracker = status.NewTracker(clock, status.Config{})

	source := game.NewEmulatorSourceWithMemory(r.mem, nil)
	r.orch = autosplit.New(r.timer, source, autosplit.DefaultTunables(), route.Unset, clock,
		r.tracker,
		mqtt.Sink{Publisher: r.mqtt},
		natsbus.New(r.bus, natsbus.DefaultConfig().SubjectPrefix),
		gpio.NewStatusLED(r.led),
	)
	return r
}

func (r *rig) tick(t *testing.T) {
	t.Helper()
	if err := r.orch.Tick(context.Background()); err != nil {
		t.Fatalf("tick: %v", err)
	}
}

func (r *rig) published() []logic.EventType {
	var out []logic.EventType
	for _, e := range r.mqtt.Events {
		out = append(out, e.Type)
	}
	return out
}

// TestIntegrationFullRun plays a whole run read from emulator memory and
// checks what reaches LiveSplit and every sink.
func TestIntegrationFullRun(t *testing.T) {
	r := newRig()

	r.tick(t)
	r.tick(t)
	if r.orch.Connection() != logic.ConnConnected {
		t.Fatalf("expected CONNECTED, got %s", r.orch.Connection())
	}
	if !r.led.On {
		t.Error("led should be lit once connected")
	}

	r.mem.chooseNewGame()
	r.tick(t)
	r.mem.leaveMenu()

	for _, loc := range []game.Location{
		game.SecondRoom,
		game.At(game.Hospital15F, 2),
		game.At(game.Hospital15F, 3),
		game.FinalBossRoom,
	} {
		r.mem.moveTo(loc)
		r.tick(t)
	}

	for _, f := range []uint32{37, 38, 39} {
		r.mem.setFlag(game.StageD, f)
	}
	r.tick(t)
	if r.orch.RunState() != logic.RunActive {
		t.Fatalf("run should not finish on a partial ending, got %s", r.orch.RunState())
	}

	r.mem.setFlag(game.StageD, 80)
	r.tick(t)
	if r.orch.RunState() != logic.RunFinished {
		t.Fatalf("expected FINISHED, got %s", r.orch.RunState())
	}

	wantCommands := []string{"startorsplit", "startorsplit", "startorsplit", "startorsplit", "startorsplit", "startorsplit"}
	if diff := cmp.Diff(wantCommands, r.timer.Sent()); diff != "" {
		t.Errorf("timer commands mismatch (-want +got):\n%s", diff)
	}

	wantEvents := []logic.EventType{
		logic.EventSplitTypeSet, logic.EventConnected,
		logic.EventRunStarted, logic.EventSplit,
		logic.EventSplit, logic.EventSplit, logic.EventSplit, logic.EventSplit,
		logic.EventSplit, logic.EventRunFinished,
	}
	if diff := cmp.Diff(wantEvents, r.published()); diff != "" {
		t.Errorf("mqtt events mismatch (-want +got):\n%s", diff)
	}
	if len(r.bus.subjects) != len(wantEvents) {
		t.Errorf("nats: got %d messages, want %d", len(r.bus.subjects), len(wantEvents))
	}
	if got := r.bus.subjects[len(r.bus.subjects)-1]; got != "autosplitter.events.run_finished" {
		t.Errorf("last nats subject: got %s", got)
	}

	runID := r.mqtt.Events[2].RunID
	if runID == "" {
		t.Fatal("run events should carry a run id")
	}
	for _, e := range r.mqtt.Events[2:] {
		if e.RunID != runID {
			t.Errorf("%s: run id %q, want %q", e.Type, e.RunID, runID)
		}
	}

	var last status.EventPayload
	if err := json.Unmarshal(r.mqtt.Payloads[len(r.mqtt.Payloads)-1], &last); err != nil {
		t.Fatalf("invalid payload: %v", err)
	}
	if last.Autosplitter.Map != "MushroomTower" || last.Autosplitter.Room != 7 {
		t.Errorf("finish location: got %s/%d", last.Autosplitter.Map, last.Autosplitter.Room)
	}

	snap := r.tracker.Snapshot()
	want := logic.EventCounts{Splits: 6, RunsStarted: 1, RunsFinished: 1}
	if snap.Counts != want {
		t.Errorf("counts: got %+v, want %+v", snap.Counts, want)
	}
	if snap.Run != logic.RunFinished || snap.RunID != runID {
		t.Errorf("tracker run: got %s %q", snap.Run, snap.RunID)
	}
}

// TestIntegrationGameUnloaded checks that losing the game mid-run resets
// the timer, darkens the led and recovers once the game is back.
func TestIntegrationGameUnloaded(t *testing.T) {
	r := newRig()
	r.tick(t)
	r.tick(t)

	r.mem.chooseNewGame()
	r.tick(t)
	r.mem.leaveMenu()
	r.mem.moveTo(game.SecondRoom)
	r.tick(t)

	r.mem.unloadGame()
	if err := r.orch.Tick(context.Background()); err == nil {
		t.Fatal("expected an error when the game disappears")
	}
	if r.orch.Connection() != logic.ConnSourcePending {
		t.Fatalf("expected SOURCE_PENDING, got %s", r.orch.Connection())
	}
	if r.led.On {
		t.Error("led should be off while waiting for the game")
	}

	// Reload the same game.
	r.mem.write(ntscU().SearchStringAddress, []byte("GALERIANS"))
	r.tick(t)
	if r.orch.Connection() != logic.ConnConnected {
		t.Fatalf("expected CONNECTED after reload, got %s", r.orch.Connection())
	}
	if !r.led.On {
		t.Error("led should be lit again")
	}

	wantTail := []logic.EventType{logic.EventSourceLost, logic.EventReset, logic.EventConnected}
	got := r.published()
	if diff := cmp.Diff(wantTail, got[len(got)-3:]); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
	wantCommands := []string{"startorsplit", "startorsplit", "reset"}
	if diff := cmp.Diff(wantCommands, r.timer.Sent()); diff != "" {
		t.Errorf("timer commands mismatch (-want +got):\n%s", diff)
	}
	if counts := r.tracker.Counts(); counts.Resets != 1 || counts.RunsStarted != 1 {
		t.Errorf("counts: got %+v", counts)
	}
}
