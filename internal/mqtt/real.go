package mqtt

import (
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// bufferCapacity bounds the number of messages held while disconnected.
const bufferCapacity = 64

// RealPublisher publishes to an actual MQTT broker. Messages published while
// the connection is down are buffered and replayed on reconnect.
type RealPublisher struct {
	client paho.Client

	mu  sync.Mutex
	buf *replayQueue
}

// NewRealPublisher creates a publisher connected to the given broker.
func NewRealPublisher(broker string) (*RealPublisher, error) {
	p := &RealPublisher{buf: newReplayQueue(bufferCapacity)}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("cuff-monitor").
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(paho.Client) { p.drainBuffered() })

	client := paho.NewClient(opts)
	p.client = client

	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return p, nil
}

// PublishMeasurement sends a completed measurement to the MQTT broker.
// QoS 1 (at-least-once) — a finished measurement must not be lost.
func (p *RealPublisher) PublishMeasurement(event MeasurementEvent) error {
	payload, err := FormatMeasurementPayload(event)
	if err != nil {
		return fmt.Errorf("format measurement payload: %w", err)
	}
	return p.publish(Topic, 1, false, payload)
}

// PublishWarning sends a warning state change to the MQTT broker.
// Retained so subscribers see the latest warning state on connect.
func (p *RealPublisher) PublishWarning(event WarningEvent) error {
	payload, err := FormatWarningPayload(event)
	if err != nil {
		return fmt.Errorf("format warning payload: %w", err)
	}
	return p.publish(TopicWarning, 0, true, payload)
}

// PublishSystem sends a system lifecycle event to the MQTT broker.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}
	return p.publish(TopicSystem, 1, event.Retained, payload)
}

func (p *RealPublisher) publish(topic string, qos byte, retained bool, payload []byte) error {
	if !p.client.IsConnected() {
		p.mu.Lock()
		p.buf.enqueue(queuedMessage{topic: topic, payload: payload, qos: qos, retained: retained})
		p.mu.Unlock()
		return nil
	}

	token := p.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// drainBuffered replays messages buffered while disconnected.
func (p *RealPublisher) drainBuffered() {
	p.mu.Lock()
	msgs := p.buf.drain()
	p.mu.Unlock()

	if len(msgs) == 0 {
		return
	}
	log.Printf("mqtt: replaying %d buffered messages", len(msgs))
	for _, m := range msgs {
		token := p.client.Publish(m.topic, m.qos, m.retained, m.payload)
		if !token.WaitTimeout(5 * time.Second) {
			log.Printf("mqtt: replay timeout on %s", m.topic)
		} else if err := token.Error(); err != nil {
			log.Printf("mqtt: replay failed on %s: %v", m.topic, err)
		}
	}
}

// IsConnected reports whether the client is connected to the broker.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnected()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
