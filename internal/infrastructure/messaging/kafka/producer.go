package kafka

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/smartlex/lexml/internal/config"
	"github.com/smartlex/lexml/internal/infrastructure/monitoring/logging"
	"github.com/smartlex/lexml/pkg/errors"
)

// ErrProducerClosed is returned by Publish after Close.
var ErrProducerClosed = errors.New(errors.ErrCodeInternal, "producer closed")

// writer abstracts kafka.Writer for testing.
type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes analysis events.  Publishing is best-effort at the
// application level: callers treat failures as non-fatal warnings.
type Producer struct {
	w      writer
	log    logging.Logger
	closed atomic.Bool

	sent   atomic.Int64
	failed atomic.Int64
}

// NewProducer builds a Producer over the configured brokers.
func NewProducer(cfg config.KafkaConfig, log logging.Logger) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New(errors.ErrCodeBadRequest, "kafka brokers cannot be empty")
	}

	batchTimeout := cfg.BatchTimeout
	if batchTimeout == 0 {
		batchTimeout = 100 * time.Millisecond
	}
	retries := cfg.ProducerRetries
	if retries == 0 {
		retries = 3
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  retries,
		BatchTimeout: batchTimeout,
		Async:        cfg.Async,
		Compression:  kafka.Snappy,
	}

	return &Producer{w: w, log: log.Named("kafka")}, nil
}

// newProducerWithWriter wires a custom writer; used by tests.
func newProducerWithWriter(w writer, log logging.Logger) *Producer {
	return &Producer{w: w, log: log}
}

// Publish sends one JSON-encoded message to topic, keyed for partition
// affinity.
func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	if p.closed.Load() {
		return ErrProducerClosed
	}

	value, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode event payload")
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
		Time:  time.Now().UTC(),
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		p.failed.Add(1)
		return errors.Wrap(err, errors.ErrCodeEventPublishFailed, "failed to publish event")
	}

	p.sent.Add(1)
	p.log.Debug("event published",
		logging.String("topic", topic),
		logging.String("key", key),
		logging.Int("bytes", len(value)),
	)
	return nil
}

// PublishAnalysisCompleted publishes one analysis-completed event keyed by
// analysis ID.
func (p *Producer) PublishAnalysisCompleted(ctx context.Context, ev AnalysisCompletedEvent) error {
	return p.Publish(ctx, TopicAnalysisCompleted, ev.AnalysisID, ev)
}

// Sent and Failed report lifetime publish counts.
func (p *Producer) Sent() int64   { return p.sent.Load() }
func (p *Producer) Failed() int64 { return p.failed.Load() }

// Close flushes and closes the underlying writer.  Further Publish calls
// fail with ErrProducerClosed.
func (p *Producer) Close() error {
	if p.closed.Swap(true) {
		return nil
	}
	return p.w.Close()
}
