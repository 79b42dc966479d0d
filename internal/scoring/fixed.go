package scoring

import (
	"sync"

	"github.com/verte-zerg/tuispeak/internal/model"
)

// FixedSource replays preset scores in order, cycling when exhausted.
// Word and phoneme labels are taken from the caller, not the presets.
type FixedSource struct {
	mu           sync.Mutex
	words        []model.WordScore
	phonemes     []model.PhonemeScore
	wordIndex    int
	phonemeIndex int
}

// NewFixed returns a FixedSource over the given presets.
func NewFixed(words []model.WordScore, phonemes []model.PhonemeScore) *FixedSource {
	return &FixedSource{words: words, phonemes: phonemes}
}

// ScoreWord returns the next preset word score.
func (s *FixedSource) ScoreWord(word string) model.WordScore {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.words) == 0 {
		return model.WordScore{Word: word, Accuracy: model.MaxScore, Fluency: model.MaxScore, Completeness: model.MaxScore}
	}
	ws := s.words[s.wordIndex%len(s.words)]
	s.wordIndex++
	ws.Word = word
	return ws
}

// ScorePhoneme returns the next preset phoneme score.
func (s *FixedSource) ScorePhoneme(index int, phoneme string) model.PhonemeScore {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.phonemes) == 0 {
		return model.PhonemeScore{Phoneme: phoneme, Accuracy: model.MaxScore, Stress: StressForIndex(index), DurationRatio: 1}
	}
	ps := s.phonemes[s.phonemeIndex%len(s.phonemes)]
	s.phonemeIndex++
	ps.Phoneme = phoneme
	if ps.Stress == "" {
		ps.Stress = StressForIndex(index)
	}
	return ps
}
