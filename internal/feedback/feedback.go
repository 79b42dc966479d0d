// Package feedback derives messages and color tiers from pronunciation scores.
package feedback

import (
	"fmt"

	"github.com/verte-zerg/tuispeak/internal/model"
)

// Overall messages, selected by mean word accuracy.
const (
	MessageExcellent     = "Excellent pronunciation! Only a few small points to polish."
	MessageGood          = "Good pronunciation, but a few points need attention."
	MessageNeedsPractice = "More practice is needed. Work on the points below:"
)

// MessageAllPhonemesGood is the phoneme-level message when nothing is flagged.
const MessageAllPhonemesGood = "All phonemes were pronounced well."

const (
	wordInaccurateFormat  = "Word %q was pronounced inaccurately (score: %d)"
	wordCouldBeBetter     = "Word %q could be pronounced better (score: %d)"
	phonemeFlaggedFormat  = "Phoneme /%s/ was pronounced inaccurately (score: %d)"
	phonemeFlagThreshold  = 80
	wordFeedbackThreshold = 85
)

// Generate builds the feedback for a set of word and phoneme scores.
func Generate(words []model.WordScore, phonemes []model.PhonemeScore) model.Feedback {
	return model.Feedback{
		Overall:      overallMessage(words),
		WordLevel:    wordMessages(words),
		PhonemeLevel: phonemeMessages(phonemes),
	}
}

func overallMessage(words []model.WordScore) string {
	avg := meanAccuracy(words)
	switch {
	case avg >= goodThreshold:
		return MessageExcellent
	case avg >= warningThreshold:
		return MessageGood
	default:
		return MessageNeedsPractice
	}
}

func meanAccuracy(words []model.WordScore) float64 {
	if len(words) == 0 {
		return 0
	}
	sum := 0
	for _, ws := range words {
		sum += ws.Accuracy
	}
	return float64(sum) / float64(len(words))
}

func wordMessages(words []model.WordScore) []string {
	out := []string{}
	for _, ws := range words {
		switch {
		case ws.Accuracy < warningThreshold:
			out = append(out, fmt.Sprintf(wordInaccurateFormat, ws.Word, ws.Accuracy))
		case ws.Accuracy < wordFeedbackThreshold:
			out = append(out, fmt.Sprintf(wordCouldBeBetter, ws.Word, ws.Accuracy))
		}
	}
	return out
}

func phonemeMessages(phonemes []model.PhonemeScore) []string {
	out := []string{}
	for _, ps := range phonemes {
		if ps.Accuracy < phonemeFlagThreshold {
			out = append(out, fmt.Sprintf(phonemeFlaggedFormat, ps.Phoneme, ps.Accuracy))
		}
	}
	if len(out) == 0 {
		return []string{MessageAllPhonemesGood}
	}
	return out
}
