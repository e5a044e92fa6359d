package mqtt

import (
	"errors"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/sweeney/galerians-autosplitter/internal/logic"
)

const (
	clientID       = "galerians-autosplitter"
	publishTimeout = 5 * time.Second
	queueCapacity  = 256
)

// RealPublisher publishes to a broker. Messages sent while the connection
// is down are queued and replayed on reconnect.
type RealPublisher struct {
	client paho.Client
	queue  *replayQueue
}

// NewRealPublisher connects to broker. The broker receives a retained
// OFFLINE last will on TopicSystem if the process disappears.
func NewRealPublisher(broker string) (*RealPublisher, error) {
	p := &RealPublisher{queue: newReplayQueue(queueCapacity)}

	will, err := FormatSystemPayload(SystemEvent{
		Timestamp: time.Now(),
		Event:     "OFFLINE",
		Reason:    "MQTT_DISCONNECT",
	})
	if err != nil {
		return nil, fmt.Errorf("format will: %w", err)
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5*time.Second).
		SetBinaryWill(TopicSystem, will, 1, true).
		SetOnConnectHandler(func(paho.Client) { p.replay() }).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Warn().Err(err).Str("broker", broker).Msg("mqtt connection lost")
		})

	p.client = paho.NewClient(opts)
	token := p.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, errors.New("mqtt connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}
	return p, nil
}

// IsConnected reports whether the broker connection is open.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnectionOpen()
}

// Publish sends an orchestrator event at QoS 0.
func (p *RealPublisher) Publish(event logic.Event) error {
	payload, err := FormatPayload(event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}
	return p.send(queuedMsg{topic: Topic, payload: payload})
}

// PublishSystem sends a lifecycle event at QoS 1.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}
	return p.send(queuedMsg{topic: TopicSystem, payload: payload, qos: 1, retained: event.Retained})
}

func (p *RealPublisher) send(msg queuedMsg) error {
	if !p.client.IsConnectionOpen() {
		p.queue.add(msg)
		return nil
	}
	return p.publish(msg)
}

func (p *RealPublisher) publish(msg queuedMsg) error {
	token := p.client.Publish(msg.topic, msg.qos, msg.retained, msg.payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish to %s: timeout", msg.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", msg.topic, err)
	}
	return nil
}

// replay runs on the paho connect callback. It must not wait on tokens for
// long, so QoS 0 messages are fired without waiting.
func (p *RealPublisher) replay() {
	msgs, dropped := p.queue.take()
	if len(msgs) == 0 {
		return
	}
	log.Info().Int("messages", len(msgs)).Int("dropped", dropped).Msg("mqtt replaying offline queue")
	for _, msg := range msgs {
		token := p.client.Publish(msg.topic, msg.qos, msg.retained, msg.payload)
		if msg.qos == 0 {
			continue
		}
		go func(t paho.Token, topic string) {
			if t.WaitTimeout(publishTimeout) && t.Error() != nil {
				log.Warn().Err(t.Error()).Str("topic", topic).Msg("mqtt replay failed")
			}
		}(token, msg.topic)
	}
}

// Close disconnects from the broker, allowing one second for in-flight work.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000)
	return nil
}
