// Package autosplit drives LiveSplit from observed game state.
package autosplit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/sweeney/galerians-autosplitter/internal/game"
	"github.com/sweeney/galerians-autosplitter/internal/livesplit"
	"github.com/sweeney/galerians-autosplitter/internal/logic"
	"github.com/sweeney/galerians-autosplitter/internal/route"
)

// Sink receives every event the orchestrator emits. Record is called on the
// polling goroutine and must not block for long.
type Sink interface {
	Record(event logic.Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(logic.Event)

func (f SinkFunc) Record(event logic.Event) { f(event) }

// Orchestrator owns the timer connection and the game source and decides on
// each tick whether to split, reset or do nothing. It is not safe for
// concurrent use.
type Orchestrator struct {
	timer  livesplit.Timer
	source game.Source
	tun    Tunables
	clock  clockwork.Clock
	sinks  []Sink

	conn       logic.ConnectionState
	run        logic.RunState
	runID      string
	lastRoom   game.Location
	at         game.Location
	splitIndex int

	timerKeepAlive  *logic.KeepAlive
	sourceKeepAlive *logic.KeepAlive

	requested     route.SplitType
	effective     route.SplitType
	lastPublished route.SplitType
	table         route.Table
}

// New creates an orchestrator waiting for LiveSplit. requested is the split
// type chosen by the user, or route.Unset.
func New(timer livesplit.Timer, source game.Source, tun Tunables, requested route.SplitType, clock clockwork.Clock, sinks ...Sink) *Orchestrator {
	return &Orchestrator{
		timer:           timer,
		source:          source,
		tun:             tun,
		clock:           clock,
		sinks:           sinks,
		conn:            logic.ConnTimerPending,
		run:             logic.RunNotStarted,
		lastRoom:        game.NoLocation,
		at:              game.NoLocation,
		splitIndex:      -1,
		timerKeepAlive:  logic.NewKeepAlive(tun.TimerKeepAlive),
		sourceKeepAlive: logic.NewKeepAlive(tun.SourceKeepAlive),
		requested:       requested,
	}
}

// Connection returns the current connection state.
func (o *Orchestrator) Connection() logic.ConnectionState { return o.conn }

// RunState returns the current run state.
func (o *Orchestrator) RunState() logic.RunState { return o.run }

// SplitType returns the split type in effect, or route.Unset before the
// first sync.
func (o *Orchestrator) SplitType() route.SplitType { return o.effective }

// Run ticks until ctx is cancelled. Tick errors are logged and never stop
// the loop.
func (o *Orchestrator) Run(ctx context.Context) error {
	log.Info().Msg("Waiting for LiveSplit server...")
	for {
		if err := o.Tick(ctx); err != nil && ctx.Err() == nil {
			if o.conn == logic.ConnConnected {
				log.Warn().Err(err).Msg("autosplitter update failed")
			} else {
				log.Debug().Err(err).Str("state", string(o.conn)).Msg("still waiting")
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-o.clock.After(o.Delay()):
		}
	}
}

// Delay is how long to wait before the next tick.
func (o *Orchestrator) Delay() time.Duration {
	switch o.conn {
	case logic.ConnTimerPending:
		return o.tun.TimerRetry
	case logic.ConnSourcePending:
		return o.tun.SourceRetry
	default:
		return o.tun.UpdateFrequency
	}
}

// Tick performs one step of the loop. A returned error has already been
// handled; it is informational.
func (o *Orchestrator) Tick(ctx context.Context) error {
	var err error
	switch o.conn {
	case logic.ConnTimerPending:
		err = o.waitForTimer(ctx)
	case logic.ConnSourcePending:
		err = o.waitForSource()
	default:
		err = o.updateSplits(ctx)
	}

	// Any command can be the one that finds LiveSplit gone.
	if err != nil && o.conn != logic.ConnTimerPending && !o.timer.Connected() {
		o.connFail(ctx, logic.ConnTimerPending)
	}
	return err
}

func (o *Orchestrator) waitForTimer(ctx context.Context) error {
	if err := o.timer.Reconnect(ctx); err != nil {
		return err
	}
	if !o.timer.Connected() {
		return nil
	}

	if err := o.syncWithTimer(ctx); err != nil {
		if !o.timer.Connected() {
			return fmt.Errorf("sync after connecting: %w", err)
		}
		log.Warn().Err(err).Msg("Failed to sync with LiveSplit. Attempting to continue anyway.")
	}

	o.timerKeepAlive.Reset()
	o.setConnection(o.conn.Advance())
	return nil
}

func (o *Orchestrator) waitForSource() error {
	ok, err := o.source.Reconnect()
	if err != nil {
		return fmt.Errorf("connect to %s: %w", o.source.Name(), err)
	}
	if !ok {
		return nil
	}

	log.Info().Str("source", o.source.Name()).Msg("Autosplitter is ready to go")
	o.sourceKeepAlive.Reset()
	o.setConnection(o.conn.Advance())
	return nil
}

func (o *Orchestrator) setConnection(state logic.ConnectionState) {
	if state == o.conn {
		return
	}
	prev := o.conn
	o.conn = state

	switch {
	case state == logic.ConnConnected:
		o.emit(logic.EventConnected)
	case state == logic.ConnTimerPending:
		o.emit(logic.EventTimerLost)
	case prev == logic.ConnConnected:
		o.emit(logic.EventSourceLost)
	}
}

// connFail demotes the connection. The run is reset unless the timer
// itself is what failed.
func (o *Orchestrator) connFail(ctx context.Context, state logic.ConnectionState) error {
	o.setConnection(state)

	if state == logic.ConnSourcePending {
		log.Warn().Msg("Lost game; resetting and waiting for a recognized game to be loaded...")
	}

	if o.timer.Connected() {
		return o.reset(ctx)
	}
	return nil
}

func (o *Orchestrator) setRun(state logic.RunState, via logic.EventType) {
	if state == o.run {
		return
	}
	wasActive := o.run.IsActive()
	o.run = state

	switch {
	case state.IsActive() && !wasActive:
		o.runID = uuid.NewString()
	case state == logic.RunNotStarted:
		o.runID = ""
	}
	if via != "" {
		o.emit(via)
	}
}

func (o *Orchestrator) split(ctx context.Context) error {
	if o.run == logic.RunFinished {
		return nil
	}

	if o.run == logic.RunNotStarted {
		o.setRun(logic.RunIntro, logic.EventRunStarted)
		o.lastRoom = game.NoLocation
	}
	if err := o.timer.Split(ctx); err != nil {
		return fmt.Errorf("split: %w", err)
	}
	o.emit(logic.EventSplit)
	return nil
}

func (o *Orchestrator) reset(ctx context.Context) error {
	if !o.run.IsStarted() {
		return nil
	}
	if err := o.timer.Reset(ctx); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	o.setRun(logic.RunNotStarted, "")
	o.splitIndex = -1
	o.lastRoom = game.NoLocation
	o.emit(logic.EventReset)
	return nil
}

// syncWithTimer adopts the timer's view of the run and the split type.
func (o *Orchestrator) syncWithTimer(ctx context.Context) error {
	phase, err := o.timer.Phase(ctx)
	if err != nil {
		return fmt.Errorf("get timer phase: %w", err)
	}

	var state logic.RunState
	switch phase {
	case livesplit.PhaseNotRunning:
		state = logic.RunNotStarted
	case livesplit.PhaseEnded:
		state = logic.RunFinished
	default:
		state = logic.RunActive
		if o.run != logic.RunActive {
			index, err := o.timer.SplitIndex(ctx)
			if err != nil {
				return fmt.Errorf("get split index: %w", err)
			}
			o.splitIndex = index
			if index == 0 {
				state = logic.RunIntro
			}
		}
	}
	if state == logic.RunIntro && o.run != logic.RunIntro {
		o.lastRoom = game.NoLocation
	}
	o.setRun(state, logic.EventRunSynced)

	return o.syncSplitType(ctx)
}

func (o *Orchestrator) publishedSplitType(ctx context.Context) (route.SplitType, error) {
	value, ok, err := o.timer.CustomVariable(ctx, o.tun.SplitTypeVariable)
	if err != nil {
		return route.Unset, fmt.Errorf("get split type variable: %w", err)
	}
	if !ok {
		return route.Unset, nil
	}

	t, err := route.ParseSplitType(value)
	if err != nil {
		log.Warn().Str("value", value).Msg("LiveSplit reported unrecognized split type; ignoring")
		return route.Unset, nil
	}
	return t, nil
}

func (o *Orchestrator) syncSplitType(ctx context.Context) error {
	published, err := o.publishedSplitType(ctx)
	if err != nil {
		return err
	}

	d := logic.ReconcileSplitType(o.requested, o.effective, published, o.lastPublished)
	switch d.Severity {
	case logic.SeverityWarn:
		log.Warn().Msg(d.Message)
	case logic.SeverityInfo:
		log.Info().Msg(d.Message)
	}

	if d.Changed(o.effective) {
		o.effective = d.Effective
		o.table = d.Effective.Table()
		o.emit(logic.EventSplitTypeSet)
	}
	if d.Reset {
		if err := o.reset(ctx); err != nil {
			return err
		}
	}

	o.lastPublished = published
	return nil
}

func (o *Orchestrator) updateSplits(ctx context.Context) error {
	if o.timerKeepAlive.ShouldCheck() {
		if err := o.syncWithTimer(ctx); err != nil {
			if !o.timer.Connected() {
				o.connFail(ctx, logic.ConnTimerPending)
				return fmt.Errorf("LiveSplit keep-alive: %w", err)
			}
			log.Warn().Err(err).Msg("LiveSplit keep-alive sync failed")
		}
	}

	if o.sourceKeepAlive.ShouldCheck() && !o.source.Alive() {
		return errors.Join(errSourceLost, o.connFail(ctx, logic.ConnSourcePending))
	}

	switch o.source.Update() {
	case game.HealthChanged:
		log.Info().Str("source", o.source.Name()).Msg("Game version changed; resetting")
		return o.reset(ctx)
	case game.HealthUnavailable:
		return errors.Join(errSourceLost, o.connFail(ctx, logic.ConnSourcePending))
	}
	o.at = o.source.Location()

	switch {
	case o.run.IsActive() && o.source.AtMainMenu():
		log.Info().Msg("Reset")
		return o.reset(ctx)

	case !o.run.IsActive() && o.source.NewRunStarted():
		if o.run == logic.RunFinished {
			if err := o.reset(ctx); err != nil {
				return err
			}
		}
		log.Info().Msg("Run starting")
		return o.split(ctx)

	case o.run == logic.RunIntro:
		// Room ids are not trusted until the first real room after the
		// opening has loaded.
		if o.at != game.SecondRoom {
			return nil
		}
		log.Debug().Msg("Player reached second room")
		o.setRun(logic.RunActive, "")
		o.lastRoom = game.SecondRoom
		if o.table == nil {
			return o.split(ctx)
		}
		return nil

	case o.run != logic.RunActive:
		return nil
	}

	if o.lastRoom == game.FinalBossRoom {
		// There is no way out of the final room but to win, so room changes
		// are no longer tracked.
		if !o.source.DefeatedFinalBoss() {
			return nil
		}
		if err := o.split(ctx); err != nil {
			return err
		}
		o.setRun(logic.RunFinished, logic.EventRunFinished)
		log.Info().Msg("Run completed!")
		return nil
	}

	current := o.at
	switch {
	case o.table != nil:
		index, err := o.timer.SplitIndex(ctx)
		if err != nil {
			return fmt.Errorf("get split index: %w", err)
		}
		o.splitIndex = index
		if logic.SplitDue(o.table, index, o.source) {
			if err := o.split(ctx); err != nil {
				return err
			}
		}

	case o.lastRoom != current:
		log.Debug().Stringer("from", o.lastRoom).Stringer("to", current).Msg("Room change")
		if err := o.split(ctx); err != nil {
			return err
		}
	}

	o.lastRoom = current
	return nil
}

var errSourceLost = errors.New("lost game state source")

func (o *Orchestrator) emit(typ logic.EventType) {
	e := logic.Event{
		Timestamp:  o.clock.Now(),
		Type:       typ,
		RunID:      o.runID,
		Run:        o.run,
		Connection: o.conn,
		SplitType:  o.effective,
		Location:   o.at,
		SplitIndex: o.splitIndex,
	}
	for _, s := range o.sinks {
		s.Record(e)
	}
}
