package livesplit

import "context"

// FakeTimer records commands and replies with scripted state.
type FakeTimer struct {
	// Commands lists every command received, e.g. "startorsplit".
	Commands []string

	// TimerPhase, Index and Variables are returned by the queries.
	TimerPhase Phase
	Index      int
	Variables  map[string]string

	// Up is the connection state reported by Connected.
	Up bool

	// ReconnectError, if set, is returned by Reconnect.
	ReconnectError error

	// Fail, if set, is returned by every command. DropOnFail also marks the
	// connection lost, as a fatal socket error would.
	Fail       error
	DropOnFail bool

	// Reconnects counts Reconnect calls.
	Reconnects int
	Closed     bool
}

// NewFakeTimer creates a connected fake with the timer not running.
func NewFakeTimer() *FakeTimer {
	return &FakeTimer{
		TimerPhase: PhaseNotRunning,
		Index:      -1,
		Variables:  map[string]string{},
		Up:         true,
	}
}

func (f *FakeTimer) Reconnect(ctx context.Context) error {
	f.Reconnects++
	if f.ReconnectError != nil {
		return f.ReconnectError
	}
	f.Up = true
	return nil
}

func (f *FakeTimer) Connected() bool {
	return f.Up
}

func (f *FakeTimer) command(name string) error {
	if !f.Up {
		return ErrNotConnected
	}
	if f.Fail != nil {
		if f.DropOnFail {
			f.Up = false
		}
		return f.Fail
	}
	f.Commands = append(f.Commands, name)
	return nil
}

// Split starts a stopped timer or advances the split index.
func (f *FakeTimer) Split(ctx context.Context) error {
	if err := f.command("startorsplit"); err != nil {
		return err
	}
	switch f.TimerPhase {
	case PhaseNotRunning:
		f.TimerPhase = PhaseRunning
		f.Index = 0
	case PhaseRunning:
		f.Index++
	}
	return nil
}

func (f *FakeTimer) Reset(ctx context.Context) error {
	if err := f.command("reset"); err != nil {
		return err
	}
	f.TimerPhase = PhaseNotRunning
	f.Index = -1
	return nil
}

func (f *FakeTimer) SplitIndex(ctx context.Context) (int, error) {
	if err := f.command("getsplitindex"); err != nil {
		return 0, err
	}
	return f.Index, nil
}

func (f *FakeTimer) Phase(ctx context.Context) (Phase, error) {
	if err := f.command("gettimerphase"); err != nil {
		return "", err
	}
	return ParsePhase(string(f.TimerPhase))
}

func (f *FakeTimer) CustomVariable(ctx context.Context, name string) (string, bool, error) {
	if err := f.command("getcustomvariablevalue " + name); err != nil {
		return "", false, err
	}
	v, ok := f.Variables[name]
	return v, ok && v != "", nil
}

func (f *FakeTimer) Close() error {
	f.Closed = true
	f.Up = false
	return nil
}

// Sent returns the recorded commands that change the timer.
func (f *FakeTimer) Sent() []string {
	var out []string
	for _, c := range f.Commands {
		if c == "startorsplit" || c == "reset" {
			out = append(out, c)
		}
	}
	return out
}

// ClearCommands forgets recorded commands.
func (f *FakeTimer) ClearCommands() {
	f.Commands = nil
}
