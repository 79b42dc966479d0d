// Package events publishes analysis events for downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"github.com/verte-zerg/tuispeak/internal/model"
	"github.com/verte-zerg/tuispeak/internal/observability/metrics"
)

// EventTypeAnalysisCompleted tags every completed analysis.
const EventTypeAnalysisCompleted = "pronunciation.analysis.completed"

// DefaultTopic is used when no topic is configured.
const DefaultTopic = "pronunciation.analysis"

// AnalysisCompleted is the event payload.
type AnalysisCompleted struct {
	EventType          string    `json:"eventType"`
	AnalysisID         string    `json:"analysisId"`
	Text               string    `json:"text"`
	PronunciationScore int       `json:"pronunciationScore"`
	AccuracyScore      int       `json:"accuracyScore"`
	FluencyScore       int       `json:"fluencyScore"`
	CompletenessScore  int       `json:"completenessScore"`
	Timestamp          time.Time `json:"timestamp"`
}

// NewAnalysisCompleted builds the event for result.
func NewAnalysisCompleted(result model.AnalysisResult) AnalysisCompleted {
	return AnalysisCompleted{
		EventType:          EventTypeAnalysisCompleted,
		AnalysisID:         result.ID,
		Text:               result.Text,
		PronunciationScore: result.PronunciationScore,
		AccuracyScore:      result.AccuracyScore,
		FluencyScore:       result.FluencyScore,
		CompletenessScore:  result.CompletenessScore,
		Timestamp:          result.AnalyzedAt,
	}
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher publishes analysis events to a Kafka topic.
type Publisher struct {
	writer  messageWriter
	topic   string
	enabled bool
	metrics *metrics.Metrics
}

// Config holds Kafka publisher configuration.
type Config struct {
	Brokers []string
	Topic   string
	Enabled bool
}

// New creates a publisher. Without brokers or when disabled it only logs.
func New(cfg *Config) *Publisher {
	m := metrics.DefaultMetrics

	if cfg == nil {
		log.Info().Msg("Kafka disabled (nil config), using log-only mode")
		return &Publisher{topic: DefaultTopic, metrics: m}
	}
	topic := cfg.Topic
	if topic == "" {
		topic = DefaultTopic
	}

	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		log.Info().Msg("Kafka disabled, using log-only mode")
		return &Publisher{topic: topic, metrics: m}
	}

	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
		Transport:    &kafka.Transport{Dial: dialer.DialFunc},
	}

	log.Info().
		Strs("brokers", cfg.Brokers).
		Str("topic", topic).
		Msg("Kafka publisher initialized")

	return &Publisher{
		writer:  writer,
		topic:   topic,
		enabled: true,
		metrics: m,
	}
}

// Enabled reports whether events reach Kafka.
func (p *Publisher) Enabled() bool {
	return p.enabled
}

// PublishAnalysis publishes the completed-analysis event keyed by the
// analysis id.
func (p *Publisher) PublishAnalysis(ctx context.Context, result model.AnalysisResult) error {
	start := time.Now()
	event := NewAnalysisCompleted(result)

	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("topic", p.topic).Msg("Failed to marshal event")
		return err
	}

	log.Debug().
		Str("topic", p.topic).
		Str("key", event.AnalysisID).
		RawJSON("payload", payload).
		Msg("Publishing event")

	if !p.enabled || p.writer == nil {
		p.metrics.RecordKafkaPublish(p.topic, event.EventType, nil, time.Since(start).Seconds())
		return nil
	}

	msg := kafka.Message{
		Key:   []byte(event.AnalysisID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "eventType", Value: []byte(event.EventType)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		log.Error().
			Err(err).
			Str("topic", p.topic).
			Str("key", event.AnalysisID).
			Msg("Failed to write to Kafka")
		p.metrics.RecordKafkaPublish(p.topic, event.EventType, err, time.Since(start).Seconds())
		return err
	}

	p.metrics.RecordKafkaPublish(p.topic, event.EventType, nil, time.Since(start).Seconds())
	return nil
}

// Close closes the Kafka writer.
func (p *Publisher) Close() error {
	if p.writer == nil {
		return nil
	}
	if err := p.writer.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing Kafka writer")
		return err
	}
	return nil
}
