// Package mqtt publishes decoded fixes to an MQTT broker.
package mqtt

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"paracletus/internal/nmea"
)

const (
	connectTimeout = 5 * time.Second
	publishTimeout = 2 * time.Second
	quiesceMillis  = 250
)

var ErrTimeout = errors.New("mqtt: timed out")

type Config struct {
	Broker   string
	ClientID string
	Topic    string
	QoS      byte
	Retain   bool
}

// client is the subset of paho.Client the publisher uses.
type client interface {
	Connect() paho.Token
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Disconnect(quiesce uint)
}

type Publisher struct {
	cfg Config
	c   client
}

// NewPublisher connects to cfg.Broker and returns once the session is up.
func NewPublisher(cfg Config) (*Publisher, error) {
	if strings.TrimSpace(cfg.Broker) == "" {
		return nil, fmt.Errorf("mqtt broker is empty")
	}
	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Warn().Err(err).Str("broker", cfg.Broker).Msg("mqtt connection lost")
		}).
		SetOnConnectHandler(func(paho.Client) {
			log.Info().Str("broker", cfg.Broker).Str("topic", cfg.Topic).Msg("mqtt connected")
		})
	return newPublisher(cfg, paho.NewClient(opts))
}

func newPublisher(cfg Config, c client) (*Publisher, error) {
	if cfg.QoS > 2 {
		return nil, fmt.Errorf("mqtt qos must be 0, 1 or 2")
	}
	if err := wait(c.Connect(), connectTimeout); err != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", cfg.Broker, err)
	}
	return &Publisher{cfg: cfg, c: c}, nil
}

// Publish sends fix as JSON to the configured topic.
func (p *Publisher) Publish(fix nmea.Fix) error {
	payload, err := json.Marshal(fix)
	if err != nil {
		return fmt.Errorf("encode fix: %w", err)
	}
	if err := wait(p.c.Publish(p.cfg.Topic, p.cfg.QoS, p.cfg.Retain, payload), publishTimeout); err != nil {
		return fmt.Errorf("mqtt publish %s: %w", p.cfg.Topic, err)
	}
	return nil
}

func (p *Publisher) Close() {
	if p == nil || p.c == nil {
		return
	}
	p.c.Disconnect(quiesceMillis)
}

func wait(tok paho.Token, d time.Duration) error {
	if !tok.WaitTimeout(d) {
		return ErrTimeout
	}
	return tok.Error()
}
