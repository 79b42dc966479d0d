// Package analysis turns a reference text and a recording into a scored report.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/tuispeak/internal/feedback"
	"github.com/verte-zerg/tuispeak/internal/model"
	"github.com/verte-zerg/tuispeak/internal/phonemes"
	"github.com/verte-zerg/tuispeak/internal/scoring"
)

// ErrInvalidInput is returned for a reference text without words or a
// negative chunk count.
var ErrInvalidInput = errors.New("invalid input")

// Analyzer scores recordings against a reference text. It holds no
// per-analysis state and is safe for concurrent use when its sources are.
type Analyzer struct {
	source   scoring.Source
	phonemes phonemes.Source
	delay    time.Duration
	now      func() time.Time
	newID    func() string
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithSource sets the scoring source.
func WithSource(src scoring.Source) Option {
	return func(a *Analyzer) { a.source = src }
}

// WithPhonemes sets the phoneme source.
func WithPhonemes(src phonemes.Source) Option {
	return func(a *Analyzer) { a.phonemes = src }
}

// WithDelay sets the artificial delay standing in for a backend round-trip.
func WithDelay(d time.Duration) Option {
	return func(a *Analyzer) { a.delay = d }
}

// WithClock overrides the clock used for AnalyzedAt.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) { a.now = now }
}

// New returns an Analyzer. Defaults: random scores, the built-in phoneme
// list and no delay.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.source == nil {
		a.source = scoring.NewRandom(0)
	}
	if a.phonemes == nil {
		a.phonemes = phonemes.Default()
	}
	return a
}

// Delay returns the configured artificial delay.
func (a *Analyzer) Delay() time.Duration {
	return a.delay
}

// Words splits a reference text into words.
func Words(text string) []string {
	return strings.Fields(text)
}

// Analyze scores one recording of chunkCount audio chunks against text.
// When ctx is cancelled during the delay no result is produced.
func (a *Analyzer) Analyze(ctx context.Context, text string, chunkCount int) (model.AnalysisResult, error) {
	words := Words(text)
	if len(words) == 0 {
		return model.AnalysisResult{}, fmt.Errorf("%w: reference text has no words", ErrInvalidInput)
	}
	if chunkCount < 0 {
		return model.AnalysisResult{}, fmt.Errorf("%w: chunk count %d is negative", ErrInvalidInput, chunkCount)
	}

	phonemeList, err := a.phonemes.Phonemes(ctx, text)
	if err != nil {
		return model.AnalysisResult{}, fmt.Errorf("failed to resolve phonemes: %w", err)
	}

	if err := a.wait(ctx); err != nil {
		return model.AnalysisResult{}, err
	}

	wordScores := make([]model.WordScore, 0, len(words))
	for _, w := range words {
		wordScores = append(wordScores, a.source.ScoreWord(w))
	}
	phonemeScores := make([]model.PhonemeScore, 0, len(phonemeList))
	for i, p := range phonemeList {
		phonemeScores = append(phonemeScores, a.source.ScorePhoneme(i, p))
	}

	scores := Aggregate(wordScores)
	return model.AnalysisResult{
		ID:                 a.newID(),
		Text:               text,
		Duration:           float64(chunkCount) * model.ChunkSeconds,
		PronunciationScore: scores.Pronunciation,
		AccuracyScore:      scores.Accuracy,
		FluencyScore:       scores.Fluency,
		CompletenessScore:  scores.Completeness,
		Words:              wordScores,
		Phonemes:           phonemeScores,
		Feedback:           feedback.Generate(wordScores, phonemeScores),
		AnalyzedAt:         a.now().UTC(),
	}, nil
}

func (a *Analyzer) wait(ctx context.Context) error {
	if a.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(a.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
