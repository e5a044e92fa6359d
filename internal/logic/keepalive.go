package logic

// KeepAlive paces how often a dependency's liveness is verified. It counts
// poll ticks rather than time so the check rate follows the poll rate.
type KeepAlive struct {
	period    int
	remaining int
}

// NewKeepAlive creates a counter that fires once every period+1 ticks.
func NewKeepAlive(period int) *KeepAlive {
	return &KeepAlive{period: period, remaining: period}
}

// ShouldCheck consumes one tick and reports whether a check is due.
func (k *KeepAlive) ShouldCheck() bool {
	k.remaining--
	if k.remaining < 0 {
		k.remaining = k.period
		return true
	}
	return false
}

// Reset restarts the countdown from the full period.
func (k *KeepAlive) Reset() {
	k.remaining = k.period
}
