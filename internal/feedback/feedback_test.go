package feedback

import (
	"strings"
	"testing"

	"github.com/verte-zerg/tuispeak/internal/model"
)

func wordsWithAccuracy(acc ...int) []model.WordScore {
	out := make([]model.WordScore, len(acc))
	for i, a := range acc {
		out[i] = model.WordScore{Word: string(rune('a' + i)), Accuracy: a, Fluency: 80, Completeness: 80}
	}
	return out
}

func phonemesWithAccuracy(acc ...int) []model.PhonemeScore {
	out := make([]model.PhonemeScore, len(acc))
	for i, a := range acc {
		out[i] = model.PhonemeScore{Phoneme: "p" + string(rune('0'+i)), Accuracy: a}
	}
	return out
}

func TestOverallThresholds(t *testing.T) {
	tests := []struct {
		name string
		acc  []int
		want string
	}{
		{"all 90", []int{90, 90, 90}, MessageExcellent},
		{"exactly 85", []int{85}, MessageExcellent},
		{"mean just under 85", []int{85, 84}, MessageGood},
		{"exactly 70", []int{70, 70}, MessageGood},
		{"mean under 70", []int{70, 69}, MessageNeedsPractice},
		{"no words", nil, MessageNeedsPractice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := Generate(wordsWithAccuracy(tt.acc...), nil)
			if fb.Overall != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, fb.Overall)
			}
		})
	}
}

func TestWordLevelMessages(t *testing.T) {
	fb := Generate(wordsWithAccuracy(95, 84, 69, 85, 70), nil)
	if len(fb.WordLevel) != 3 {
		t.Fatalf("expected 3 word messages, got %d: %v", len(fb.WordLevel), fb.WordLevel)
	}
	if fb.WordLevel[0] != `Word "b" could be pronounced better (score: 84)` {
		t.Fatalf("unexpected first message: %q", fb.WordLevel[0])
	}
	if fb.WordLevel[1] != `Word "c" was pronounced inaccurately (score: 69)` {
		t.Fatalf("unexpected second message: %q", fb.WordLevel[1])
	}
	if !strings.Contains(fb.WordLevel[2], `"e"`) || !strings.Contains(fb.WordLevel[2], "70") {
		t.Fatalf("unexpected third message: %q", fb.WordLevel[2])
	}
}

func TestWordLevelEmptyIsNonNil(t *testing.T) {
	fb := Generate(wordsWithAccuracy(99), nil)
	if fb.WordLevel == nil || len(fb.WordLevel) != 0 {
		t.Fatalf("expected empty non-nil word feedback, got %#v", fb.WordLevel)
	}
}

func TestPhonemeLevelFlagsInOrder(t *testing.T) {
	fb := Generate(nil, phonemesWithAccuracy(79, 80, 50, 99))
	if len(fb.PhonemeLevel) != 2 {
		t.Fatalf("expected 2 phoneme messages, got %v", fb.PhonemeLevel)
	}
	if fb.PhonemeLevel[0] != "Phoneme /p0/ was pronounced inaccurately (score: 79)" {
		t.Fatalf("unexpected message: %q", fb.PhonemeLevel[0])
	}
	if !strings.Contains(fb.PhonemeLevel[1], "/p2/") {
		t.Fatalf("expected p2 second, got %q", fb.PhonemeLevel[1])
	}
}

func TestPhonemeLevelAllGood(t *testing.T) {
	fb := Generate(nil, phonemesWithAccuracy(80, 90, 100))
	if len(fb.PhonemeLevel) != 1 || fb.PhonemeLevel[0] != MessageAllPhonemesGood {
		t.Fatalf("expected single all-good message, got %v", fb.PhonemeLevel)
	}
}

func TestScoreTier(t *testing.T) {
	cases := map[int]model.Tier{
		100: model.TierGood,
		85:  model.TierGood,
		84:  model.TierWarning,
		70:  model.TierWarning,
		69:  model.TierPoor,
		0:   model.TierPoor,
	}
	for score, want := range cases {
		if got := ScoreTier(score); got != want {
			t.Fatalf("ScoreTier(%d) = %s, want %s", score, got, want)
		}
	}
}

func TestColorsShareBoundaries(t *testing.T) {
	if ScoreColor(85) != ColorGood || PhonemeColor(85) != PhonemeColorGood {
		t.Fatalf("expected good colors at 85")
	}
	if ScoreColor(70) != ColorWarning || PhonemeColor(70) != PhonemeColorWarning {
		t.Fatalf("expected warning colors at 70")
	}
	if ScoreColor(69) != ColorPoor || PhonemeColor(69) != PhonemeColorPoor {
		t.Fatalf("expected poor colors at 69")
	}
}

func TestSuggestionPriority(t *testing.T) {
	tests := []struct {
		name   string
		result model.AnalysisResult
		want   string
	}{
		{
			name: "three low phonemes wins over everything",
			result: model.AnalysisResult{
				Phonemes:          phonemesWithAccuracy(60, 65, 60),
				FluencyScore:      50,
				CompletenessScore: 50,
			},
			want: SuggestPhonemeDrill,
		},
		{
			name: "two low phonemes fall through to fluency",
			result: model.AnalysisResult{
				Phonemes:          phonemesWithAccuracy(60, 65, 90),
				FluencyScore:      69,
				CompletenessScore: 60,
			},
			want: SuggestSlowDown,
		},
		{
			name: "completeness when fluency is fine",
			result: model.AnalysisResult{
				Phonemes:          phonemesWithAccuracy(90),
				FluencyScore:      70,
				CompletenessScore: 79,
			},
			want: SuggestRelisten,
		},
		{
			name: "encouragement otherwise",
			result: model.AnalysisResult{
				Phonemes:          phonemesWithAccuracy(69, 69),
				FluencyScore:      70,
				CompletenessScore: 80,
			},
			want: SuggestKeepGoing,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Suggestion(tt.result); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
