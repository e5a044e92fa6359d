// Package livesplit talks to the LiveSplit Server component over its
// line-oriented TCP protocol.
package livesplit

import (
	"context"
	"errors"
	"fmt"
)

// DefaultPort is the LiveSplit Server default port.
const DefaultPort = 16834

var (
	// ErrNotConnected is returned when a command is issued with no connection.
	ErrNotConnected = errors.New("not connected to LiveSplit")
	// ErrMaxRetries is returned when a recoverable error persisted through
	// every attempt. The connection is considered lost.
	ErrMaxRetries = errors.New("maximum retries exceeded")
	// ErrInvalidPhase is returned for a timer phase outside the known set.
	ErrInvalidPhase = errors.New("invalid timer phase received from LiveSplit server")
)

// Phase is the LiveSplit timer phase.
type Phase string

const (
	PhaseNotRunning Phase = "NotRunning"
	PhaseRunning    Phase = "Running"
	PhaseEnded      Phase = "Ended"
	PhasePaused     Phase = "Paused"
)

// ParsePhase validates a gettimerphase reply.
func ParsePhase(s string) (Phase, error) {
	switch p := Phase(s); p {
	case PhaseNotRunning, PhaseRunning, PhaseEnded, PhasePaused:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPhase, s)
	}
}

// Timer is a reconnecting LiveSplit connection.
type Timer interface {
	// Reconnect replaces the current connection with a new one.
	Reconnect(ctx context.Context) error

	// Connected reports whether the last operation left the connection usable.
	Connected() bool

	Split(ctx context.Context) error
	Reset(ctx context.Context) error
	SplitIndex(ctx context.Context) (int, error)
	Phase(ctx context.Context) (Phase, error)

	// CustomVariable reads a run custom variable. ok is false when the
	// variable is unset.
	CustomVariable(ctx context.Context, name string) (value string, ok bool, err error)

	Close() error
}
