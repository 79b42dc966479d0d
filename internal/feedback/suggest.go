package feedback

import "github.com/verte-zerg/tuispeak/internal/model"

// Improvement suggestions, in priority order.
const (
	SuggestPhonemeDrill = "Several phonemes need special attention. Practice them in isolation first, then use them in words and sentences."
	SuggestSlowDown     = "Your fluency can improve. Slow down, pronounce each word clearly and pay attention to stress and intonation."
	SuggestRelisten     = "Some words were missed or mispronounced. Listen carefully to the reference and attend to every word."
	SuggestKeepGoing    = "Your pronunciation is already good! Keep it up and aim for a more natural intonation and rhythm."
)

const (
	lowPhonemeThreshold = 70
	maxLowPhonemes      = 2
	fluencyThreshold    = 70
	completenessFloor   = 80
)

// Suggestion picks exactly one improvement message. Only the first
// matching condition applies.
func Suggestion(result model.AnalysisResult) string {
	low := 0
	for _, ps := range result.Phonemes {
		if ps.Accuracy < lowPhonemeThreshold {
			low++
		}
	}
	switch {
	case low > maxLowPhonemes:
		return SuggestPhonemeDrill
	case result.FluencyScore < fluencyThreshold:
		return SuggestSlowDown
	case result.CompletenessScore < completenessFloor:
		return SuggestRelisten
	default:
		return SuggestKeepGoing
	}
}
