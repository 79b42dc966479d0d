package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/verte-zerg/tuispeak/internal/model"
	"github.com/verte-zerg/tuispeak/internal/observability/metrics"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
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

func sampleResult() model.AnalysisResult {
	return model.AnalysisResult{
		ID:                 "0b6f1c1e-7d1c-4c1e-9f3a-2d8f1e0c5a11",
		Text:               "She sells seashells",
		PronunciationScore: 81,
		AccuracyScore:      84,
		FluencyScore:       79,
		CompletenessScore:  77,
		AnalyzedAt:         time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC),
	}
}

func TestNew_DisabledMode(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{"nil config", nil},
		{"disabled", &Config{Enabled: false, Brokers: []string{"localhost:9092"}}},
		{"no brokers", &Config{Enabled: true, Brokers: []string{}}},
		{"empty brokers", &Config{Enabled: true, Brokers: nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.cfg)
			if p.Enabled() {
				t.Fatalf("expected publisher to be disabled")
			}
			if p.writer != nil {
				t.Fatalf("expected nil writer when disabled")
			}
			if p.topic != DefaultTopic {
				t.Fatalf("expected default topic, got %s", p.topic)
			}
			if err := p.PublishAnalysis(context.Background(), sampleResult()); err != nil {
				t.Fatalf("expected no error when disabled, got %v", err)
			}
			if err := p.Close(); err != nil {
				t.Fatalf("close: %v", err)
			}
		})
	}
}

func TestNew_EnabledBuildsWriter(t *testing.T) {
	p := New(&Config{Enabled: true, Brokers: []string{"localhost:9092"}, Topic: "speech.analysis"})
	if !p.Enabled() || p.writer == nil {
		t.Fatalf("expected enabled publisher with writer")
	}
	w, ok := p.writer.(*kafka.Writer)
	if !ok || w.Topic != "speech.analysis" {
		t.Fatalf("unexpected writer %#v", p.writer)
	}
	_ = p.Close()
}

func TestPublishAnalysis_WritesKeyedEvent(t *testing.T) {
	fw := &fakeWriter{}
	p := &Publisher{writer: fw, topic: "t", enabled: true, metrics: metrics.DefaultMetrics}

	if err := p.PublishAnalysis(context.Background(), sampleResult()); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(fw.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(fw.msgs))
	}
	msg := fw.msgs[0]
	if string(msg.Key) != sampleResult().ID {
		t.Fatalf("expected key to be analysis id, got %s", msg.Key)
	}
	if len(msg.Headers) != 1 || string(msg.Headers[0].Value) != EventTypeAnalysisCompleted {
		t.Fatalf("unexpected headers %+v", msg.Headers)
	}
	var ev map[string]any
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev["eventType"] != EventTypeAnalysisCompleted || ev["analysisId"] != sampleResult().ID {
		t.Fatalf("unexpected event %v", ev)
	}
	if ev["pronunciationScore"] != float64(81) || ev["timestamp"] != "2024-02-03T04:05:06Z" {
		t.Fatalf("unexpected event %v", ev)
	}
	if _, ok := ev["words"]; ok {
		t.Fatalf("event must not carry word scores")
	}

	_ = p.Close()
	if !fw.closed {
		t.Fatalf("expected writer closed")
	}
}

func TestPublishAnalysis_WriteError(t *testing.T) {
	boom := errors.New("broker down")
	p := &Publisher{writer: &fakeWriter{err: boom}, topic: "t", enabled: true, metrics: metrics.DefaultMetrics}
	if err := p.PublishAnalysis(context.Background(), sampleResult()); !errors.Is(err, boom) {
		t.Fatalf("expected write error, got %v", err)
	}
}
