package analysis

import "github.com/verte-zerg/tuispeak/internal/model"

// Scores are the overall scores aggregated from word scores.
type Scores struct {
	Accuracy      int
	Fluency       int
	Completeness  int
	Pronunciation int
}

// Aggregate floors the per-word means and weights them into the
// pronunciation score. An empty slice yields zero scores.
func Aggregate(words []model.WordScore) Scores {
	if len(words) == 0 {
		return Scores{}
	}
	var acc, flu, comp int
	for _, ws := range words {
		acc += ws.Accuracy
		flu += ws.Fluency
		comp += ws.Completeness
	}
	n := len(words)
	s := Scores{
		Accuracy:     acc / n,
		Fluency:      flu / n,
		Completeness: comp / n,
	}
	s.Pronunciation = PronunciationScore(s.Accuracy, s.Fluency, s.Completeness)
	return s
}

// PronunciationScore computes floor(0.5*accuracy + 0.3*fluency + 0.2*completeness)
// exactly, in integer tenths.
func PronunciationScore(accuracy, fluency, completeness int) int {
	return (5*accuracy + 3*fluency + 2*completeness) / 10
}
