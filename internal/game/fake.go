package game

// FlagKey names a single story flag.
type FlagKey struct {
	Stage Stage
	Index uint32
}

// FakeSource is a test double whose state is set directly by the test.
type FakeSource struct {
	// At is returned by Location.
	At Location

	MainMenu bool
	NewRun   bool
	Defeated bool

	// Flags and Items hold what is currently set or held.
	Flags map[FlagKey]bool
	Items map[Item]bool

	// Dead makes Alive return false.
	Dead bool

	// Health is returned by Update. Changed is reported only once and then
	// reverts to unchanged, as a real source would after re-detecting.
	Health Health

	// ReconnectOK and ReconnectError control Reconnect.
	ReconnectOK    bool
	ReconnectError error

	// Call counters.
	Updates    int
	AliveCalls int
	Reconnects int
}

// NewFakeSource creates a healthy FakeSource at the start of the game.
func NewFakeSource() *FakeSource {
	return &FakeSource{
		At:          NoLocation,
		Flags:       map[FlagKey]bool{},
		Items:       map[Item]bool{},
		ReconnectOK: true,
	}
}

// Name identifies the fake.
func (f *FakeSource) Name() string {
	return "fake"
}

// Alive reports !Dead.
func (f *FakeSource) Alive() bool {
	f.AliveCalls++
	return !f.Dead
}

// Update returns Health.
func (f *FakeSource) Update() Health {
	f.Updates++
	h := f.Health
	if h == HealthChanged {
		f.Health = HealthUnchanged
	}
	return h
}

// Reconnect returns the scripted result. A successful reconnect clears
// Dead and Health.
func (f *FakeSource) Reconnect() (bool, error) {
	f.Reconnects++
	if f.ReconnectError != nil {
		return false, f.ReconnectError
	}
	if f.ReconnectOK {
		f.Dead = false
		f.Health = HealthUnchanged
	}
	return f.ReconnectOK, nil
}

func (f *FakeSource) Location() Location  { return f.At }
func (f *FakeSource) AtMainMenu() bool    { return f.MainMenu }
func (f *FakeSource) NewRunStarted() bool { return f.NewRun }

func (f *FakeSource) Flag(stage Stage, index uint32) bool {
	return f.Flags[FlagKey{Stage: stage, Index: index}]
}

func (f *FakeSource) HasItem(item Item) bool {
	return f.Items[item]
}

func (f *FakeSource) DefeatedFinalBoss() bool {
	return f.Defeated
}
