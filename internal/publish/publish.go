// Package publish relays controller notifications to a NATS subject tree so
// that dashboards and loggers outside the process can follow a table.
package publish

import (
	"encoding/json"
	"io"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nats-io/nats.go"

	"github.com/lox/blackjack/internal/controller"
)

// Publisher is the part of *nats.Conn the sink needs
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Envelope is the JSON body of every published message
type Envelope struct {
	Table        string                  `json:"table"`
	Seq          uint64                  `json:"seq"`
	Timestamp    time.Time               `json:"timestamp"`
	Notification controller.Notification `json:"notification"`
}

// Sink is a controller.Listener that publishes each notification to
// "<subject>.<kind>", e.g. "blackjack.events.round_ended".
type Sink struct {
	pub     Publisher
	subject string
	table   string
	seq     atomic.Uint64
	now     func() time.Time
	logger  *log.Logger
}

// NewSink creates a sink publishing under subject. table identifies the
// session in every envelope.
func NewSink(pub Publisher, subject, table string, logger *log.Logger) *Sink {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Sink{
		pub:     pub,
		subject: subject,
		table:   table,
		now:     time.Now,
		logger:  logger.WithPrefix("publish"),
	}
}

// Subject returns the subject a notification of kind k is published on
func (s *Sink) Subject(k controller.Kind) string {
	return s.subject + "." + k.String()
}

// Notify implements controller.Listener. Failures are logged and dropped so a
// broker outage never stalls the table.
func (s *Sink) Notify(n controller.Notification) {
	env := Envelope{
		Table:        s.table,
		Seq:          s.seq.Add(1),
		Timestamp:    s.now(),
		Notification: n,
	}
	data, err := json.Marshal(env)
	if err != nil {
		s.logger.Error("Failed to encode notification", "kind", n.Kind, "error", err)
		return
	}
	if err := s.pub.Publish(s.Subject(n.Kind), data); err != nil {
		s.logger.Warn("Failed to publish notification", "kind", n.Kind, "error", err)
	}
}

// Connect dials the broker with the reconnect settings the sink expects
func Connect(url, name string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name(name),
		nats.Timeout(10*time.Second),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(5),
	)
}
