// Package model defines shared data structures.
package model

import (
	"fmt"
	"time"
)

// Score bounds for each field of a word or phoneme score.
const (
	MinWordAccuracy     = 70
	MinWordFluency      = 65
	MinWordCompleteness = 60
	MinPhonemeAccuracy  = 50
	MaxScore            = 100

	MinDurationRatio = 0.8
	MaxDurationRatio = 1.2
)

// ChunkSeconds is the simulated length of one captured audio chunk.
const ChunkSeconds = 0.1

// Config defines practice settings.
type Config struct {
	Text         string
	Phonemes     []string
	PhonemesFile string
	Delay        time.Duration
	Seed         int64
}

// WordScore scores a single word of the reference text.
type WordScore struct {
	Word         string `json:"word"`
	Accuracy     int    `json:"accuracy"`
	Fluency      int    `json:"fluency"`
	Completeness int    `json:"completeness"`
}

// Stress classifies syllable emphasis of a phoneme.
type Stress string

const (
	StressCorrect   Stress = "correct"
	StressIncorrect Stress = "incorrect"
)

// PhonemeScore scores a single phoneme of the reference text.
type PhonemeScore struct {
	Phoneme       string  `json:"phoneme"`
	Accuracy      int     `json:"accuracy"`
	Stress        Stress  `json:"stress"`
	DurationRatio float64 `json:"durationRatio"`
}

// Feedback holds human-readable messages derived from scores.
type Feedback struct {
	Overall      string   `json:"overall"`
	WordLevel    []string `json:"wordLevel"`
	PhonemeLevel []string `json:"phonemeLevel"`
}

// AnalysisResult is the output of one analysis run. It is never persisted.
type AnalysisResult struct {
	ID                 string         `json:"id"`
	Text               string         `json:"text"`
	Duration           float64        `json:"duration"`
	PronunciationScore int            `json:"pronunciationScore"`
	AccuracyScore      int            `json:"accuracyScore"`
	FluencyScore       int            `json:"fluencyScore"`
	CompletenessScore  int            `json:"completenessScore"`
	Words              []WordScore    `json:"words"`
	Phonemes           []PhonemeScore `json:"phonemes"`
	Feedback           Feedback       `json:"feedback"`
	AnalyzedAt         time.Time      `json:"analyzedAt"`
}

// Tier is a three-bucket classification of a score.
type Tier int

const (
	TierPoor Tier = iota
	TierWarning
	TierGood
)

// String returns the string representation of the tier.
func (t Tier) String() string {
	switch t {
	case TierGood:
		return "good"
	case TierWarning:
		return "warning"
	case TierPoor:
		return "poor"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}
