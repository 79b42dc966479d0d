// Package report renders analysis results for terminals and JSON clients.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/verte-zerg/tuispeak/internal/feedback"
	"github.com/verte-zerg/tuispeak/internal/model"
)

const (
	minWidth       = 40
	maxBarWidth    = 40
	tableBarWidth  = 10
	barFilled      = "█"
	barEmpty       = "░"
	mainLabel      = "Pronunciation"
	noPhonemesLine = "No phonemes scored."
)

// Payload is the JSON shape served to clients.
type Payload struct {
	Result            model.AnalysisResult `json:"result"`
	Suggestion        string               `json:"suggestion"`
	PronunciationTier model.Tier           `json:"pronunciationTier"`
}

// NewPayload derives the suggestion and tier for result.
func NewPayload(result model.AnalysisResult) Payload {
	return Payload{
		Result:            result,
		Suggestion:        feedback.Suggestion(result),
		PronunciationTier: feedback.ScoreTier(result.PronunciationScore),
	}
}

// JSON writes the payload for result, indented.
func JSON(w io.Writer, result model.AnalysisResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewPayload(result))
}

// Render writes a human-readable report.
func Render(w io.Writer, result model.AnalysisResult, opts Options) error {
	return writeLines(w, Lines(result, opts))
}

// Lines returns the report as lines, without trailing newlines.
func Lines(result model.AnalysisResult, opts Options) []string {
	if opts.Width < minWidth {
		opts.Width = minWidth
	}
	p := newPainter(opts.Color)

	lines := []string{"Pronunciation report"}
	lines = append(lines, p.wrap(fmt.Sprintf("%q", result.Text), opts.Width)...)
	lines = append(lines, fmt.Sprintf("Recorded %.1fs, analyzed %s", result.Duration, result.AnalyzedAt.Format("2006-01-02 15:04:05 MST")))
	lines = append(lines, "")

	barWidth := opts.Width - displayWidth(mainLabel) - 6
	if barWidth > maxBarWidth {
		barWidth = maxBarWidth
	}
	lines = append(lines, fmt.Sprintf("%s %s %3d", mainLabel, p.bar(result.PronunciationScore, barWidth), result.PronunciationScore))
	lines = append(lines, fmt.Sprintf("Accuracy %d  Fluency %d  Completeness %d",
		result.AccuracyScore, result.FluencyScore, result.CompletenessScore))
	lines = append(lines, "", result.Feedback.Overall, "")

	lines = append(lines, "Words")
	for _, msg := range result.Feedback.WordLevel {
		lines = append(lines, "  - "+msg)
	}
	lines = append(lines, wordTable(result.Words, p)...)
	lines = append(lines, "")

	lines = append(lines, "Phonemes")
	if len(result.Phonemes) == 0 {
		lines = append(lines, noPhonemesLine)
	} else {
		lines = append(lines, phonemeBoxes(result.Phonemes, opts.Width, p)...)
	}
	for _, msg := range result.Feedback.PhonemeLevel {
		lines = append(lines, "  - "+msg)
	}
	if len(result.Phonemes) > 0 {
		ratios := make([]float64, 0, len(result.Phonemes))
		for _, ps := range result.Phonemes {
			ratios = append(ratios, ps.DurationRatio)
		}
		lines = append(lines, fmt.Sprintf("Duration [%s] %.1f-%.1f",
			sparkline(ratios, model.MinDurationRatio, model.MaxDurationRatio),
			model.MinDurationRatio, model.MaxDurationRatio))
	}
	lines = append(lines, "")

	lines = append(lines, "Suggestion")
	lines = append(lines, p.wrap(feedback.Suggestion(result), opts.Width)...)
	return lines
}

func wordTable(words []model.WordScore, p painter) []string {
	headers := []string{"Word", "Accuracy", "", "Fluency", "Completeness"}
	rows := make([][]string, 0, len(words))
	for _, ws := range words {
		rows = append(rows, []string{
			ws.Word,
			plainBar(ws.Accuracy, tableBarWidth),
			fmt.Sprintf("%d", ws.Accuracy),
			fmt.Sprintf("%d", ws.Fluency),
			fmt.Sprintf("%d", ws.Completeness),
		})
	}
	rightAlign := map[int]bool{2: true, 3: true, 4: true}
	style := func(row, col int, cell string) string {
		if col != 1 {
			return cell
		}
		return p.color(cell, feedback.ScoreColor(words[row].Accuracy))
	}
	return formatTable(headers, rows, rightAlign, style)
}

func phonemeBoxes(phonemes []model.PhonemeScore, width int, p painter) []string {
	var rows []string
	var current []string
	used := 0
	for _, ps := range phonemes {
		box := p.box(ps)
		w := lipgloss.Width(box)
		if len(current) > 0 && used+w+1 > width {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, current...))
			current, used = nil, 0
		}
		if len(current) > 0 {
			current = append(current, " ")
			used++
		}
		current = append(current, box)
		used += w
	}
	if len(current) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, current...))
	}
	var lines []string
	for _, row := range rows {
		for _, line := range strings.Split(row, "\n") {
			lines = append(lines, strings.TrimRight(line, " "))
		}
	}
	return lines
}

func plainBar(score, width int) string {
	if width < 1 {
		width = 1
	}
	if score < 0 {
		score = 0
	}
	if score > model.MaxScore {
		score = model.MaxScore
	}
	filled := score * width / model.MaxScore
	return strings.Repeat(barFilled, filled) + strings.Repeat(barEmpty, width-filled)
}

type painter struct {
	r       *lipgloss.Renderer
	enabled bool
}

func newPainter(color bool) painter {
	r := lipgloss.NewRenderer(io.Discard)
	if color {
		r.SetColorProfile(termenv.TrueColor)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return painter{r: r, enabled: color}
}

func (p painter) color(s, hex string) string {
	if !p.enabled {
		return s
	}
	return p.r.NewStyle().Foreground(lipgloss.Color(hex)).Render(s)
}

func (p painter) bar(score, width int) string {
	return p.color(plainBar(score, width), feedback.ScoreColor(score))
}

func (p painter) box(ps model.PhonemeScore) string {
	style := p.r.NewStyle().
		Border(lipgloss.RoundedBorder(), true).
		Padding(0, 1).
		Align(lipgloss.Center)
	if p.enabled {
		hex := feedback.PhonemeColor(ps.Accuracy)
		style = style.BorderForeground(lipgloss.Color(hex)).Foreground(lipgloss.Color(hex))
	}
	return style.Render(fmt.Sprintf("%s\n%d", ps.Phoneme, ps.Accuracy))
}

func (p painter) wrap(s string, width int) []string {
	lines := strings.Split(p.r.NewStyle().Width(width).Render(s), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return lines
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
