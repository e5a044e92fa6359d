// Command autosplitter watches a running copy of Galerians and drives a
// LiveSplit server: it starts, splits and resets the timer as the run
// progresses, and reports run events over HTTP, MQTT and NATS.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sweeney/galerians-autosplitter/internal/autosplit"
	"github.com/sweeney/galerians-autosplitter/internal/config"
	"github.com/sweeney/galerians-autosplitter/internal/game"
	"github.com/sweeney/galerians-autosplitter/internal/gpio"
	"github.com/sweeney/galerians-autosplitter/internal/livesplit"
	"github.com/sweeney/galerians-autosplitter/internal/logic"
	"github.com/sweeney/galerians-autosplitter/internal/mqtt"
	"github.com/sweeney/galerians-autosplitter/internal/natsbus"
	"github.com/sweeney/galerians-autosplitter/internal/shmem"
	"github.com/sweeney/galerians-autosplitter/internal/status"
	"github.com/sweeney/galerians-autosplitter/internal/web"
)

// refreshInterval paces broker status refreshes and heartbeat checks.
const refreshInterval = time.Second

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})

	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("fatal")
	}
}

// loadConfig layers defaults, the YAML file, the environment (including an
// optional .env file) and finally any flags given on the command line.
func loadConfig(args []string) (config.Config, error) {
	fset := flag.NewFlagSet("autosplitter", flag.ContinueOnError)
	def := config.Defaults()

	configPath := fset.String("config", "", "YAML configuration file")
	envFile := fset.String("env-file", ".env", "dotenv file to load if present")
	host := fset.String("host", def.LiveSplitHost, "LiveSplit server host")
	port := fset.Int("port", def.LiveSplitPort, "LiveSplit server port")
	update := fset.Duration("update-frequency", def.UpdateFrequency, "Delay between game state checks")
	splitType := fset.String("split-type", "", "Force a split type (all-doors, doors, key-events); default reads the splits file")
	shm := fset.String("shm", "", "Emulator shared memory file (default: search "+shmem.DefaultDir+")")
	httpAddr := fset.String("http", def.HTTPAddr, "HTTP status address (empty to disable)")
	broker := fset.String("broker", "", "MQTT broker address (empty to disable)")
	natsURL := fset.String("nats", "", "NATS server URL (empty to disable)")
	heartbeat := fset.Duration("heartbeat", def.Heartbeat, "MQTT heartbeat interval (0 to disable)")
	led := fset.Bool("led", false, "Light a GPIO status LED while connected")
	ledChip := fset.String("led-chip", def.LED.Chip, "GPIO chip for the status LED")
	ledPin := fset.Int("led-pin", def.LED.Pin, "BCM pin number for the status LED")
	logLevel := fset.String("log-level", def.LogLevel, "Log level (debug, info, warn, error)")

	if err := fset.Parse(args); err != nil {
		return config.Config{}, err
	}

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Str("file", *envFile).Msg("could not load env file")
	}

	cfg, err := config.Load(*configPath, nil)
	if err != nil {
		return config.Config{}, err
	}

	fset.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "host":
			cfg.LiveSplitHost = *host
		case "port":
			cfg.LiveSplitPort = *port
		case "update-frequency":
			cfg.UpdateFrequency = *update
		case "split-type":
			cfg.SplitType = *splitType
		case "shm":
			cfg.SharedMemory = *shm
		case "http":
			cfg.HTTPAddr = *httpAddr
		case "broker":
			cfg.MQTTBroker = *broker
		case "nats":
			cfg.NATSURL = *natsURL
		case "heartbeat":
			cfg.Heartbeat = *heartbeat
		case "led":
			cfg.LED.Enabled = *led
		case "led-chip":
			cfg.LED.Chip = *ledChip
		case "led-pin":
			cfg.LED.Pin = *ledPin
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func run(cfg config.Config) error {
	level, _ := cfg.Level()
	zerolog.SetGlobalLevel(level)
	requested, _ := cfg.RequestedSplitType()

	clock := clockwork.NewRealClock()

	// Video capture needs an external frame matcher; only emulator memory
	// is read here.
	source := game.NewEmulatorSource(discoverer(cfg.SharedMemory))
	defer source.Close()

	lsCfg := livesplit.DefaultConfig()
	lsCfg.Addr = cfg.LiveSplitAddr()
	timer := livesplit.NewClient(lsCfg)
	defer timer.Close()

	tracker := status.NewTracker(clock, status.Config{
		LiveSplitAddr:  lsCfg.Addr,
		UpdateMs:       cfg.UpdateFrequency.Milliseconds(),
		HeartbeatMs:    cfg.Heartbeat.Milliseconds(),
		RequestedSplit: requested,
		Source:         sourceDescription(cfg.SharedMemory),
		Broker:         cfg.MQTTBroker,
		NATSURL:        cfg.NATSURL,
		HTTPAddr:       cfg.HTTPAddr,
	})

	d := &daemon{tracker: tracker, heartbeat: cfg.Heartbeat, clock: clock}
	sinks := []autosplit.Sink{autosplit.SinkFunc(logEvent), tracker}

	if cfg.MQTTBroker != "" {
		publisher, err := mqtt.NewRealPublisher(cfg.MQTTBroker)
		if err != nil {
			return fmt.Errorf("init mqtt: %w", err)
		}
		defer publisher.Close()
		d.publisher = publisher
		d.mqttStatus = publisher
		sinks = append(sinks, mqtt.Sink{Publisher: publisher})
	}

	if cfg.NATSURL != "" {
		natsCfg := natsbus.DefaultConfig()
		natsCfg.URL = cfg.NATSURL
		bus, err := natsbus.Connect(natsCfg)
		if err != nil {
			return fmt.Errorf("init nats: %w", err)
		}
		defer bus.Close()
		d.natsStatus = bus
		sinks = append(sinks, bus)
	}

	if cfg.LED.Enabled {
		indicator, err := gpio.NewRealIndicator(cfg.LED.Chip, cfg.LED.Pin)
		if err != nil {
			return fmt.Errorf("init gpio: %w", err)
		}
		led := gpio.NewStatusLED(indicator)
		defer led.Close()
		sinks = append(sinks, led)
	}

	if cfg.HTTPAddr != "" {
		hub := web.NewHub()
		sinks = append(sinks, hub)
		srv := web.New(cfg.HTTPAddr, tracker, hub)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("http server error")
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Info().Str("addr", cfg.HTTPAddr).Msg("http status server listening")
	}

	tun := autosplit.DefaultTunables()
	tun.UpdateFrequency = cfg.UpdateFrequency
	d.orch = autosplit.New(timer, source, tun, requested, clock, sinks...)

	log.Info().
		Str("livesplit", lsCfg.Addr).
		Dur("update", cfg.UpdateFrequency).
		Str("split_type", requested.String()).
		Str("source", sourceDescription(cfg.SharedMemory)).
		Msg("started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	return d.run(sigCh)
}

// discoverer opens path, or searches the shared memory directory when path
// is empty.
func discoverer(path string) game.Discoverer {
	return func() (game.Memory, error) {
		var region *shmem.Region
		var err error
		if path != "" {
			region, err = shmem.Open(path)
		} else {
			region, err = shmem.Discover(shmem.DefaultDir)
		}
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", region.Path()).Msg("attached to emulator memory")
		return region, nil
	}
}

func sourceDescription(path string) string {
	if path != "" {
		return "emulator " + path
	}
	return "emulator (auto)"
}

func logEvent(e logic.Event) {
	ev := log.Info()
	if e.Type == logic.EventTimerLost || e.Type == logic.EventSourceLost {
		ev = log.Warn()
	}
	ev.Str("event", string(e.Type)).
		Str("run", string(e.Run)).
		Str("split_type", e.SplitType.String()).
		Int("split_index", e.SplitIndex).
		Stringer("location", e.Location).
		Msg("autosplitter event")
}

type connectionStatus interface {
	IsConnected() bool
}

// daemon runs the orchestrator and publishes lifecycle events around it.
type daemon struct {
	orch *autosplit.Orchestrator

	// publisher, mqttStatus and natsStatus are nil when disabled.
	publisher  mqtt.Publisher
	mqttStatus connectionStatus
	natsStatus connectionStatus

	tracker   *status.Tracker
	heartbeat time.Duration
	clock     clockwork.Clock
}

// run publishes STARTUP, ticks the orchestrator until a signal arrives and
// then publishes SHUTDOWN.
func (d *daemon) run(sig <-chan os.Signal) error {
	d.refreshBrokers()
	d.publishSystem("STARTUP", "", true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- d.orch.Run(ctx) }()

	hb := logic.NewHeartbeat(d.clock.Now())
	refresh := d.clock.NewTicker(refreshInterval)
	defer refresh.Stop()

	for {
		select {
		case s := <-sig:
			log.Info().Stringer("signal", s).Msg("shutting down")
			cancel()
			<-done
			d.refreshBrokers()
			d.publishSystem("SHUTDOWN", signalName(s), true)
			return nil

		case err := <-done:
			return fmt.Errorf("autosplitter stopped: %w", err)

		case now := <-refresh.Chan():
			d.refreshBrokers()
			if data := hb.Check(now, d.heartbeat, d.tracker.Counts()); data != nil {
				log.Info().
					Dur("uptime", data.Uptime).
					Int("splits", data.Counts.Splits).
					Int("resets", data.Counts.Resets).
					Int("runs_started", data.Counts.RunsStarted).
					Int("runs_finished", data.Counts.RunsFinished).
					Msg("heartbeat")
				d.publishSystem("HEARTBEAT", "", false)
			}
		}
	}
}

func (d *daemon) refreshBrokers() {
	if d.mqttStatus != nil {
		d.tracker.SetMQTTConnected(d.mqttStatus.IsConnected())
	}
	if d.natsStatus != nil {
		d.tracker.SetNATSConnected(d.natsStatus.IsConnected())
	}
}

func (d *daemon) publishSystem(event, reason string, retained bool) {
	if d.publisher == nil {
		return
	}
	snap := d.tracker.Snapshot()
	err := d.publisher.PublishSystem(mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      event,
		Reason:     reason,
		Retained:   retained,
		RawPayload: status.FormatStatusEvent(snap, event, reason),
	})
	if err != nil {
		log.Warn().Err(err).Str("event", event).Msg("failed to publish system event")
		return
	}
	log.Debug().Str("event", event).Msg("published system event")
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	default:
		return "UNKNOWN"
	}
}
