package kafka

import (
	"context"
	"encoding/json"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartlex/lexml/internal/config"
	"github.com/smartlex/lexml/internal/infrastructure/monitoring/logging"
	"github.com/smartlex/lexml/pkg/errors"
)

type fakeWriter struct {
	msgs   []kafkago.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestNewProducerRequiresBrokers(t *testing.T) {
	_, err := NewProducer(config.KafkaConfig{}, logging.NewNopLogger())
	assert.Error(t, err)

	p, err := NewProducer(config.KafkaConfig{Brokers: []string{"localhost:9092"}}, logging.NewNopLogger())
	require.NoError(t, err)
	require.NoError(t, p.Close())
}

func TestPublishAnalysisCompleted(t *testing.T) {
	fw := &fakeWriter{}
	p := newProducerWithWriter(fw, logging.NewNopLogger())

	ev := AnalysisCompletedEvent{
		AnalysisID:     "id-1",
		Classification: "Risky",
		RiskScore:      72,
		Strength:       "Weak",
		TextLength:     1840,
	}
	require.NoError(t, p.PublishAnalysisCompleted(context.Background(), ev))

	require.Len(t, fw.msgs, 1)
	msg := fw.msgs[0]
	assert.Equal(t, TopicAnalysisCompleted, msg.Topic)
	assert.Equal(t, "id-1", string(msg.Key))

	var got AnalysisCompletedEvent
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, ev, got)
	assert.Equal(t, int64(1), p.Sent())
}

func TestPublishFailureIsCoded(t *testing.T) {
	fw := &fakeWriter{err: assert.AnError}
	p := newProducerWithWriter(fw, logging.NewNopLogger())

	err := p.Publish(context.Background(), TopicAnalysisCompleted, "k", map[string]string{"a": "b"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeEventPublishFailed))
	assert.Equal(t, int64(1), p.Failed())
}

func TestPublishAfterClose(t *testing.T) {
	fw := &fakeWriter{}
	p := newProducerWithWriter(fw, logging.NewNopLogger())

	require.NoError(t, p.Close())
	assert.True(t, fw.closed)
	require.NoError(t, p.Close(), "double close is a no-op")

	err := p.Publish(context.Background(), TopicAnalysisCompleted, "k", "v")
	assert.ErrorIs(t, err, ErrProducerClosed)
}
