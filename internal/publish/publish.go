// Package publish wraps the broker producer: a keyed, bounded-timeout send
// with a small error taxonomy the HTTP handler can observe.
package publish

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/scram"
)

// DefaultDeadline is the bounded wall-clock timeout applied to every
// publish; an earlier deadline already on the caller's context still wins.
const DefaultDeadline = 5 * time.Second

// HealthCheckTimeout bounds the metadata fetch the readiness probe uses to
// test broker connectivity.
const HealthCheckTimeout = 2 * time.Second

// Config configures the broker connection.
type Config struct {
	BootstrapServers []string
	SASLUsername     string
	SASLPassword     string
	// SASLMechanism is "SCRAM-SHA-512" (default) or "SCRAM-SHA-256".
	SASLMechanism string
}

// Error wraps a publish failure: unreachable broker, authentication
// failure, or deadline expiry. It is always surfaced to the HTTP handler
// as a 500; the system performs no local buffering or retry beyond
// whatever the broker client itself attempts within the deadline.
type Error struct {
	Topic string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("publish to topic %q: %s", e.Topic, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Gateway is the broker producer wrapper. It is safe for concurrent use
// from many request-handling tasks.
type Gateway struct {
	writer   *kafka.Writer
	dialer   *kafka.Dialer
	brokers  []string
	deadline time.Duration
}

// New configures a producer with SASL_SSL transport, acks=all, and the
// default publish deadline as its message timeout ceiling.
func New(cfg Config) (*Gateway, error) {
	if len(cfg.BootstrapServers) == 0 {
		return nil, errors.New("publish: no bootstrap servers configured")
	}

	mechanism, err := saslMechanism(cfg)
	if err != nil {
		return nil, err
	}

	transport := &kafka.Transport{
		SASL: mechanism,
		TLS:  &tls.Config{MinVersion: tls.VersionTLS12},
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.BootstrapServers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		Transport:              transport,
		AllowAutoTopicCreation: false,
	}

	dialer := &kafka.Dialer{
		Timeout:       HealthCheckTimeout,
		SASLMechanism: mechanism,
		TLS:           &tls.Config{MinVersion: tls.VersionTLS12},
	}

	return &Gateway{
		writer:   writer,
		dialer:   dialer,
		brokers:  cfg.BootstrapServers,
		deadline: DefaultDeadline,
	}, nil
}

func saslMechanism(cfg Config) (sasl.Mechanism, error) {
	mechanismName := cfg.SASLMechanism
	if mechanismName == "" {
		mechanismName = "SCRAM-SHA-512"
	}

	var algo scram.Algorithm
	switch mechanismName {
	case "SCRAM-SHA-512":
		algo = scram.SHA512
	case "SCRAM-SHA-256":
		algo = scram.SHA256
	default:
		return nil, fmt.Errorf("publish: unsupported SASL mechanism %q", mechanismName)
	}

	mechanism, err := scram.Mechanism(algo, cfg.SASLUsername, cfg.SASLPassword)
	if err != nil {
		return nil, fmt.Errorf("publish: building SASL mechanism: %w", err)
	}
	return mechanism, nil
}

// Publish sends payload to topic keyed by key, bounded by DefaultDeadline
// unless the caller's context already carries an earlier deadline.
func (g *Gateway) Publish(ctx context.Context, topic, key string, payload []byte) error {
	ctx, cancel := context.WithTimeout(ctx, g.deadline)
	defer cancel()

	msg := kafka.Message{
		Topic: topic,
		Value: payload,
	}
	if key != "" {
		msg.Key = []byte(key)
	}

	if err := g.writer.WriteMessages(ctx, msg); err != nil {
		return &Error{Topic: topic, Err: err}
	}
	return nil
}

// CheckConnection fetches broker metadata with a short deadline to test
// reachability, in place of the sentinel-topic probe the original
// implementation used.
func (g *Gateway) CheckConnection(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, HealthCheckTimeout)
	defer cancel()

	if len(g.brokers) == 0 {
		return errors.New("publish: no bootstrap servers configured")
	}

	conn, err := g.dialer.DialContext(ctx, "tcp", g.brokers[0])
	if err != nil {
		return fmt.Errorf("publish: dial broker: %w", err)
	}
	defer conn.Close()

	if _, err := conn.Brokers(); err != nil {
		return fmt.Errorf("publish: fetch broker metadata: %w", err)
	}
	return nil
}

// Close releases the underlying writer's resources.
func (g *Gateway) Close() error {
	return g.writer.Close()
}
