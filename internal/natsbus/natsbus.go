// Package natsbus publishes orchestrator events on a NATS subject per
// event type.
package natsbus

import (
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/sweeney/galerians-autosplitter/internal/logic"
	"github.com/sweeney/galerians-autosplitter/internal/status"
)

// Config controls the NATS connection.
type Config struct {
	URL           string
	SubjectPrefix string
	MaxReconnects int
	ReconnectWait time.Duration
}

// DefaultConfig reconnects forever to the local server.
func DefaultConfig() Config {
	return Config{
		URL:           nats.DefaultURL,
		SubjectPrefix: "autosplitter.events",
		MaxReconnects: -1,
		ReconnectWait: 2 * time.Second,
	}
}

// Conn is the part of *nats.Conn used by Publisher.
type Conn interface {
	PublishMsg(m *nats.Msg) error
	IsConnected() bool
	Close()
}

// Publisher sends each event to <prefix>.<type>, e.g.
// autosplitter.events.split.
type Publisher struct {
	conn   Conn
	prefix string
}

// Connect dials the server in cfg.
func Connect(cfg Config) (*Publisher, error) {
	nc, err := nats.Connect(cfg.URL,
		nats.Name("galerians-autosplitter"),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("nats disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("nats reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return New(nc, cfg.SubjectPrefix), nil
}

// New wraps an existing connection.
func New(conn Conn, prefix string) *Publisher {
	return &Publisher{conn: conn, prefix: prefix}
}

// Subject returns the subject an event of type typ is published on.
func (p *Publisher) Subject(typ logic.EventType) string {
	return p.prefix + "." + strings.ToLower(string(typ))
}

// Publish sends e. The payload is the same JSON the MQTT topic carries.
func (p *Publisher) Publish(e logic.Event) error {
	data, err := status.FormatEvent(e)
	if err != nil {
		return fmt.Errorf("format event: %w", err)
	}

	msg := &nats.Msg{
		Subject: p.Subject(e.Type),
		Data:    data,
		Header:  nats.Header{},
	}
	msg.Header.Set("Event-Type", string(e.Type))
	if e.RunID != "" {
		msg.Header.Set("Run-ID", e.RunID)
	}

	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("publish %s: %w", msg.Subject, err)
	}
	return nil
}

// Record publishes e, logging failures.
func (p *Publisher) Record(e logic.Event) {
	if err := p.Publish(e); err != nil {
		log.Warn().Err(err).Msg("nats publish failed")
	}
}

// IsConnected reports whether the server connection is up.
func (p *Publisher) IsConnected() bool {
	return p.conn.IsConnected()
}

func (p *Publisher) Close() error {
	p.conn.Close()
	return nil
}
