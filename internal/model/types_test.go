package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestTierString(t *testing.T) {
	cases := map[Tier]string{
		TierGood:    "good",
		TierWarning: "warning",
		TierPoor:    "poor",
		Tier(9):     "unknown(9)",
	}
	for tier, want := range cases {
		if got := tier.String(); got != want {
			t.Fatalf("Tier(%d).String() = %q, want %q", int(tier), got, want)
		}
	}
}

func TestAnalysisResultJSONFieldNames(t *testing.T) {
	res := AnalysisResult{
		Text:     "a",
		Words:    []WordScore{{Word: "a", Accuracy: 90, Fluency: 80, Completeness: 70}},
		Phonemes: []PhonemeScore{{Phoneme: "ə", Accuracy: 60, Stress: StressCorrect, DurationRatio: 1}},
		Feedback: Feedback{Overall: "ok", WordLevel: []string{}, PhonemeLevel: []string{"x"}},
	}
	data, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out := string(data)
	for _, key := range []string{`"pronunciationScore"`, `"accuracyScore"`, `"fluencyScore"`, `"completenessScore"`, `"durationRatio"`, `"stress":"correct"`, `"wordLevel"`, `"phonemeLevel"`} {
		if !strings.Contains(out, key) {
			t.Fatalf("expected %s in %s", key, out)
		}
	}
}
