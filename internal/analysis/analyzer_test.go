package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/verte-zerg/tuispeak/internal/feedback"
	"github.com/verte-zerg/tuispeak/internal/model"
	"github.com/verte-zerg/tuispeak/internal/phonemes"
	"github.com/verte-zerg/tuispeak/internal/scoring"
)

var sixPhonemes = phonemes.Static{"eɪ", "biː", "siː", "diː", "iː", "ɛf"}

func TestAnalyzeShapeAndStress(t *testing.T) {
	a := New(WithSource(scoring.NewRandom(1)), WithPhonemes(sixPhonemes))
	res, err := a.Analyze(context.Background(), "a b c", 12)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(res.Words) != 3 {
		t.Fatalf("expected 3 word scores, got %d", len(res.Words))
	}
	if len(res.Phonemes) != 6 {
		t.Fatalf("expected 6 phoneme scores, got %d", len(res.Phonemes))
	}
	want := []model.Stress{
		model.StressCorrect, model.StressIncorrect, model.StressCorrect,
		model.StressIncorrect, model.StressCorrect, model.StressIncorrect,
	}
	for i, ps := range res.Phonemes {
		if ps.Stress != want[i] {
			t.Fatalf("phoneme %d: expected stress %s, got %s", i, want[i], ps.Stress)
		}
	}
	if res.Words[0].Word != "a" || res.Words[2].Word != "c" {
		t.Fatalf("expected word order preserved, got %+v", res.Words)
	}
	if res.Duration < 1.19 || res.Duration > 1.21 {
		t.Fatalf("expected duration 1.2, got %f", res.Duration)
	}
	if res.ID == "" {
		t.Fatalf("expected analysis id")
	}
	if res.Text != "a b c" {
		t.Fatalf("unexpected text %q", res.Text)
	}
}

func TestAnalyzeRangesHold(t *testing.T) {
	a := New(WithSource(scoring.NewRandom(3)))
	for i := 0; i < 300; i++ {
		res, err := a.Analyze(context.Background(), phonemes.DefaultText, i)
		if err != nil {
			t.Fatalf("analyze: %v", err)
		}
		if len(res.Words) != 6 {
			t.Fatalf("expected 6 words, got %d", len(res.Words))
		}
		if res.PronunciationScore < 60 || res.PronunciationScore > 100 {
			t.Fatalf("pronunciation score out of range: %d", res.PronunciationScore)
		}
		if res.AccuracyScore < 70 || res.FluencyScore < 65 || res.CompletenessScore < 60 {
			t.Fatalf("overall scores out of range: %+v", res)
		}
		for _, ps := range res.Phonemes {
			if ps.Accuracy < 50 || ps.Accuracy > 100 || ps.DurationRatio < 0.8 || ps.DurationRatio > 1.2 {
				t.Fatalf("phoneme score out of range: %+v", ps)
			}
		}
	}
}

func TestAnalyzeFixedAccuracyIsExcellent(t *testing.T) {
	src := scoring.NewFixed([]model.WordScore{{Accuracy: 90, Fluency: 80, Completeness: 70}}, nil)
	a := New(WithSource(src), WithPhonemes(sixPhonemes))
	res, err := a.Analyze(context.Background(), "one two three four", 5)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if res.AccuracyScore != 90 {
		t.Fatalf("expected accuracy 90, got %d", res.AccuracyScore)
	}
	if res.Feedback.Overall != feedback.MessageExcellent {
		t.Fatalf("expected excellent message, got %q", res.Feedback.Overall)
	}
	if res.PronunciationScore != 83 {
		t.Fatalf("expected pronunciation 83, got %d", res.PronunciationScore)
	}
}

func TestAnalyzeLowPhonemesSuggestDrill(t *testing.T) {
	src := scoring.NewFixed(
		[]model.WordScore{{Accuracy: 95, Fluency: 50, Completeness: 50}},
		[]model.PhonemeScore{{Accuracy: 60}, {Accuracy: 65}, {Accuracy: 60}},
	)
	a := New(WithSource(src), WithPhonemes(phonemes.Static{"x", "y", "z"}))
	res, err := a.Analyze(context.Background(), "word", 1)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if got := feedback.Suggestion(res); got != feedback.SuggestPhonemeDrill {
		t.Fatalf("expected phoneme drill suggestion, got %q", got)
	}
}

func TestAnalyzeInvalidInput(t *testing.T) {
	a := New()
	for _, text := range []string{"", "   ", "\t\n"} {
		if _, err := a.Analyze(context.Background(), text, 1); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %q, got %v", text, err)
		}
	}
	if _, err := a.Analyze(context.Background(), "ok", -1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative chunks, got %v", err)
	}
}

func TestAnalyzeSplitsOnAnyWhitespace(t *testing.T) {
	a := New(WithPhonemes(sixPhonemes))
	res, err := a.Analyze(context.Background(), "  a\tb \n c  ", 0)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(res.Words) != 3 {
		t.Fatalf("expected 3 words, got %d", len(res.Words))
	}
}

func TestAnalyzeDefaultsSucceedOnAnyText(t *testing.T) {
	for _, text := range []string{"a b c", "hello world", phonemes.DefaultText} {
		res, err := New().Analyze(context.Background(), text, 3)
		if err != nil {
			t.Fatalf("%q: analyze: %v", text, err)
		}
		if len(res.Phonemes) != len(phonemes.DefaultPhonemes) {
			t.Fatalf("%q: expected %d phonemes, got %d", text, len(phonemes.DefaultPhonemes), len(res.Phonemes))
		}
	}
}

func TestAnalyzeCancelledDuringDelay(t *testing.T) {
	a := New(WithDelay(time.Hour), WithPhonemes(sixPhonemes))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := a.Analyze(ctx, "a b", 3)
		done <- err
	}()
	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("analysis did not return after cancel")
	}
}

func TestAnalyzeDelayElapses(t *testing.T) {
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	a := New(WithDelay(10*time.Millisecond), WithPhonemes(sixPhonemes), WithClock(func() time.Time { return fixed }))
	start := time.Now()
	res, err := a.Analyze(context.Background(), "a", 0)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if time.Since(start) < 10*time.Millisecond {
		t.Fatalf("expected delay to elapse")
	}
	if !res.AnalyzedAt.Equal(fixed) {
		t.Fatalf("expected AnalyzedAt from clock, got %v", res.AnalyzedAt)
	}
}

func TestAggregate(t *testing.T) {
	s := Aggregate([]model.WordScore{
		{Accuracy: 70, Fluency: 65, Completeness: 60},
		{Accuracy: 71, Fluency: 66, Completeness: 61},
	})
	if s.Accuracy != 70 || s.Fluency != 65 || s.Completeness != 60 {
		t.Fatalf("expected floored means, got %+v", s)
	}
	if s.Pronunciation != 66 {
		t.Fatalf("expected minimum pronunciation 66, got %d", s.Pronunciation)
	}
	if (Aggregate(nil) != Scores{}) {
		t.Fatalf("expected zero scores for no words")
	}
}

func TestPronunciationScoreBounds(t *testing.T) {
	if got := PronunciationScore(70, 65, 60); got != 66 {
		t.Fatalf("expected 66, got %d", got)
	}
	if got := PronunciationScore(100, 100, 100); got != 100 {
		t.Fatalf("expected 100, got %d", got)
	}
	if got := PronunciationScore(99, 99, 99); got != 99 {
		t.Fatalf("expected 99, got %d", got)
	}
}
