package autosplit

import "time"

// SplitTypeVariable is the LiveSplit custom variable that publishes the
// split type chosen by the splits file.
const SplitTypeVariable = "GaleriansSplitType"

// Tunables are the fixed timings of the polling loop.
type Tunables struct {
	// TimerRetry is the delay between LiveSplit connection attempts.
	TimerRetry time.Duration
	// SourceRetry is the delay between game source connection attempts.
	SourceRetry time.Duration
	// UpdateFrequency is the delay between ticks once connected.
	UpdateFrequency time.Duration

	// TimerKeepAlive is the number of ticks between LiveSplit syncs.
	TimerKeepAlive int
	// SourceKeepAlive is the number of ticks between game source liveness checks.
	SourceKeepAlive int

	// SplitTypeVariable names the custom variable read for the split type.
	SplitTypeVariable string
}

// DefaultTunables returns the standard timings. The keep-alive periods come
// to roughly 5 and 3 seconds at the default update frequency.
func DefaultTunables() Tunables {
	return Tunables{
		TimerRetry:        time.Second,
		SourceRetry:       5 * time.Second,
		UpdateFrequency:   15 * time.Millisecond,
		TimerKeepAlive:    334,
		SourceKeepAlive:   200,
		SplitTypeVariable: SplitTypeVariable,
	}
}
