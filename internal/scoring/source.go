// Package scoring produces per-word and per-phoneme scores.
package scoring

import (
	"math/rand"
	"sync"
	"time"

	"github.com/verte-zerg/tuispeak/internal/model"
)

// Source scores the units of a reference text. A recognition backend can
// implement it in place of the simulated RandomSource.
type Source interface {
	ScoreWord(word string) model.WordScore
	ScorePhoneme(index int, phoneme string) model.PhonemeScore
}

const (
	wordAccuracySpan     = 30
	wordFluencySpan      = 35
	wordCompletenessSpan = 40
	phonemeAccuracySpan  = 50
)

// RandomSource draws uniform random scores inside the documented ranges.
// It is safe for concurrent use.
type RandomSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandom returns a RandomSource. A zero seed seeds from the current time.
func NewRandom(seed int64) *RandomSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomSource{rnd: rand.New(rand.NewSource(seed))}
}

// ScoreWord draws accuracy, fluency and completeness for a word.
func (s *RandomSource) ScoreWord(word string) model.WordScore {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.WordScore{
		Word:         word,
		Accuracy:     clamp(s.rnd.Intn(wordAccuracySpan) + model.MinWordAccuracy),
		Fluency:      clamp(s.rnd.Intn(wordFluencySpan) + model.MinWordFluency),
		Completeness: clamp(s.rnd.Intn(wordCompletenessSpan) + model.MinWordCompleteness),
	}
}

// ScorePhoneme draws accuracy and duration ratio; stress alternates by index.
func (s *RandomSource) ScorePhoneme(index int, phoneme string) model.PhonemeScore {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.PhonemeScore{
		Phoneme:       phoneme,
		Accuracy:      clamp(s.rnd.Intn(phonemeAccuracySpan) + model.MinPhonemeAccuracy),
		Stress:        StressForIndex(index),
		DurationRatio: model.MinDurationRatio + s.rnd.Float64()*(model.MaxDurationRatio-model.MinDurationRatio),
	}
}

// StressForIndex marks even positions correct and odd positions incorrect.
func StressForIndex(index int) model.Stress {
	if index%2 == 0 {
		return model.StressCorrect
	}
	return model.StressIncorrect
}

// clamp caps a draw at MaxScore. The spans above never exceed it.
func clamp(v int) int {
	if v > model.MaxScore {
		return model.MaxScore
	}
	return v
}
