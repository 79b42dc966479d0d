package feedback

import "github.com/verte-zerg/tuispeak/internal/model"

const (
	goodThreshold    = 85
	warningThreshold = 70
)

// Score bar colors.
const (
	ColorGood    = "#2ecc71"
	ColorWarning = "#f39c12"
	ColorPoor    = "#e74c3c"
)

// Phoneme box colors. Bucket boundaries match the score bars.
const (
	PhonemeColorGood    = "#27ae60"
	PhonemeColorWarning = "#f1c40f"
	PhonemeColorPoor    = "#e74c3c"
)

// ScoreTier classifies a score: >=85 good, >=70 warning, else poor.
func ScoreTier(score int) model.Tier {
	switch {
	case score >= goodThreshold:
		return model.TierGood
	case score >= warningThreshold:
		return model.TierWarning
	default:
		return model.TierPoor
	}
}

// ScoreColor returns the bar color for a score.
func ScoreColor(score int) string {
	switch ScoreTier(score) {
	case model.TierGood:
		return ColorGood
	case model.TierWarning:
		return ColorWarning
	default:
		return ColorPoor
	}
}

// PhonemeColor returns the phoneme box color for a score.
func PhonemeColor(score int) string {
	switch ScoreTier(score) {
	case model.TierGood:
		return PhonemeColorGood
	case model.TierWarning:
		return PhonemeColorWarning
	default:
		return PhonemeColorPoor
	}
}
