package gpio

// FakeIndicator records every state written to it.
type FakeIndicator struct {
	// Writes holds each value passed to Set, in order.
	Writes []bool

	// On is the current output.
	On bool

	// SetError, if set, is returned by Set and nothing is recorded.
	SetError error

	Closed bool
}

// NewFakeIndicator creates an unlit FakeIndicator.
func NewFakeIndicator() *FakeIndicator {
	return &FakeIndicator{}
}

func (f *FakeIndicator) Set(on bool) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.Writes = append(f.Writes, on)
	f.On = on
	return nil
}

func (f *FakeIndicator) Close() error {
	f.Closed = true
	return nil
}
