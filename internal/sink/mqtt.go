package sink

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/sweeney/gpiotool/internal/logic"
)

// DefaultTopic is the MQTT topic for pin events.
const DefaultTopic = "gpio/events"

// mqttBufferSize bounds how many events are held while disconnected.
const mqttBufferSize = 256

// MQTT publishes each event as JSON to a broker. While the broker is
// unreachable, events are held in a fixed-size ring buffer (dropping the
// oldest on overflow) and replayed on reconnect.
type MQTT struct {
	client paho.Client
	topic  string

	mu  sync.Mutex
	buf *ringBuffer
}

// NewMQTT connects to the broker and returns the sink. The connection
// auto-reconnects; publishes made while disconnected are buffered.
func NewMQTT(broker, clientID, topic string) (*MQTT, error) {
	if topic == "" {
		topic = DefaultTopic
	}
	s := &MQTT{
		topic: topic,
		buf:   newRingBuffer(mqttBufferSize),
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(paho.Client) { s.replay() })

	s.client = paho.NewClient(opts)
	token := s.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("mqtt: connect to %s: timeout", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt: connect to %s: %w", broker, err)
	}
	return s, nil
}

// WriteEvent publishes the event, or buffers it if the broker is away.
// A buffered event is not an error; durability is best-effort for this
// backend, unlike the file sinks.
func (s *MQTT) WriteEvent(e logic.Event) error {
	payload, err := json.Marshal(recordFor(e))
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if !s.client.IsConnected() {
		s.mu.Lock()
		s.buf.push(payload)
		s.mu.Unlock()
		return nil
	}
	return s.publish(payload)
}

func (s *MQTT) publish(payload []byte) error {
	// QoS 1 (at-least-once), not retained
	token := s.client.Publish(s.topic, 1, false, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// replay flushes buffered payloads after a reconnect, oldest first.
func (s *MQTT) replay() {
	s.mu.Lock()
	pending := s.buf.drainAll()
	s.mu.Unlock()
	for _, payload := range pending {
		if err := s.publish(payload); err != nil {
			// Connection dropped again; put it back and stop.
			s.mu.Lock()
			s.buf.push(payload)
			s.mu.Unlock()
			return
		}
	}
}

// Close disconnects from the broker. Buffered events that never made it out
// are lost; the file sinks are the durable record.
func (s *MQTT) Close() error {
	s.client.Disconnect(1000) // 1 second timeout
	return nil
}
