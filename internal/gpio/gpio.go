// Package gpio drives a status LED on a GPIO output line.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/sweeney/galerians-autosplitter/internal/logic"
)

// Indicator is a single on/off output.
type Indicator interface {
	Set(on bool) error
	Close() error
}

// Defaults for a Raspberry Pi (BCM numbering).
const (
	DefaultChip = "gpiochip0"
	DefaultPin  = 17
)

// StatusLED lights its Indicator while the orchestrator is fully connected.
type StatusLED struct {
	mu  sync.Mutex
	out Indicator
	lit bool
}

// NewStatusLED starts with the indicator off.
func NewStatusLED(out Indicator) *StatusLED {
	if err := out.Set(false); err != nil {
		log.Warn().Err(err).Msg("failed to clear status led")
	}
	return &StatusLED{out: out}
}

// Record follows connection changes carried by e.
func (l *StatusLED) Record(e logic.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	on := e.Connection == logic.ConnConnected
	if on == l.lit {
		return
	}
	if err := l.out.Set(on); err != nil {
		log.Warn().Err(err).Bool("on", on).Msg("failed to set status led")
		return
	}
	l.lit = on
}

// Lit reports the last state written.
func (l *StatusLED) Lit() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lit
}

// Close turns the indicator off and releases it.
func (l *StatusLED) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.lit {
		l.out.Set(false)
		l.lit = false
	}
	return l.out.Close()
}
