package events

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotLintEvent is returned by Message.LintEvent for messages published on
// other topics.
var ErrNotLintEvent = errors.New("not a lint event")

// Message is one event received from the bus.
type Message struct {
	Topic string
	// ReportID is set for lint events whose run was stored.
	ReportID string
	Data     []byte
}

// IsLintEvent reports whether m was published on TopicLintCompleted or
// TopicLintRejected.
func (m Message) IsLintEvent() bool {
	return m.Topic == TopicLintCompleted || m.Topic == TopicLintRejected
}

// LintEvent decodes the payload of a lint event.
func (m Message) LintEvent() (*LintCompleted, error) {
	if !m.IsLintEvent() {
		return nil, fmt.Errorf("%s: %w", m.Topic, ErrNotLintEvent)
	}
	return DecodeLintCompleted(m.Data)
}

// Subscriber receives events from the event bus.
type Subscriber interface {
	// Subscribe delivers messages on the returned channel.
	// Call the returned cancel function to unsubscribe and close the channel.
	Subscribe(topic string) (<-chan Message, func(), error)
	Close() error
}

// DecodeLintCompleted parses a payload published on TopicLintCompleted or
// TopicLintRejected.
func DecodeLintCompleted(data []byte) (*LintCompleted, error) {
	var ev LintCompleted
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("decoding lint event: %w", err)
	}
	return &ev, nil
}
