// Package tui provides the Bubble Tea practice interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/tuispeak/internal/analysis"
	"github.com/verte-zerg/tuispeak/internal/feedback"
	"github.com/verte-zerg/tuispeak/internal/logging"
	"github.com/verte-zerg/tuispeak/internal/model"
	"github.com/verte-zerg/tuispeak/internal/report"
	"github.com/verte-zerg/tuispeak/internal/session"
)

const (
	chunkInterval = 100 * time.Millisecond
	// chunksPerWord paces the reading cursor while recording.
	chunksPerWord = 5

	statusIdle      = "Press r to start recording, then read the sentence aloud."
	statusRecording = "Recording... press s to stop."
	statusAnalyzing = "Analyzing pronunciation..."
	statusAbandoned = "Analysis abandoned. Press a to try again or r to record again."
)

var (
	titleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	spokenStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Underline(true)
	statusStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

type tickMsg struct {
	recording int
}

type analysisDoneMsg struct {
	ticket uint64
	result model.AnalysisResult
	err    error
}

// Model implements the Bubble Tea practice UI.
type Model struct {
	text     string
	analyzer *analysis.Analyzer
	session  *session.Session
	logger   zerolog.Logger
	now      func() time.Time

	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	viewport viewport.Model

	width  int
	height int

	targetRunes []rune
	recording   int
	cancel      context.CancelFunc
	status      string
	err         error
}

// NewModel constructs a practice TUI for one reference text.
func NewModel(text string, analyzer *analysis.Analyzer) *Model {
	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))),
	)
	return &Model{
		text:        text,
		analyzer:    analyzer,
		session:     session.New(),
		logger:      logging.WithComponent("tui"),
		now:         time.Now,
		keys:        defaultKeyMap(),
		help:        help.New(),
		spinner:     sp,
		viewport:    viewport.New(0, 0),
		targetRunes: []rune(text),
		status:      statusIdle,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.layout()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tickMsg:
		if msg.recording != m.recording {
			return m, nil
		}
		if err := m.session.AddChunk(); err != nil {
			return m, nil
		}
		return m, m.tick()
	case analysisDoneMsg:
		return m.handleAnalysisDone(msg)
	case spinner.TickMsg:
		if m.session.State() != session.StateAnalyzing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.abandon()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Record):
		return m, m.startRecording()
	case key.Matches(msg, m.keys.Stop):
		m.stopRecording()
		return m, nil
	case key.Matches(msg, m.keys.Analyze):
		return m, m.startAnalysis()
	case key.Matches(msg, m.keys.Abandon):
		if m.abandon() {
			m.setStatus(statusAbandoned, nil)
		}
		return m, nil
	case key.Matches(msg, m.keys.Clear):
		m.clear()
		return m, nil
	}
	if _, ok := m.session.Result(); ok {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) startRecording() tea.Cmd {
	if err := m.session.Start(m.now()); err != nil {
		m.setStatus("Cannot start recording", err)
		return nil
	}
	m.recording++
	m.viewport.SetContent("")
	m.setStatus(statusRecording, nil)
	m.logger.Debug().Int("recording", m.recording).Msg("recording started")
	return m.tick()
}

func (m *Model) stopRecording() {
	elapsed, err := m.session.Stop(m.now())
	if err != nil {
		m.setStatus("Cannot stop", err)
		return
	}
	chunks := m.session.ChunkCount()
	m.setStatus(fmt.Sprintf("Recording finished: %.2fs, %d chunks. Press a to analyze.", elapsed.Seconds(), chunks), nil)
	m.logger.Debug().Int("chunks", chunks).Dur("elapsed", elapsed).Msg("recording stopped")
}

func (m *Model) startAnalysis() tea.Cmd {
	ticket, chunks, err := m.session.BeginAnalysis()
	if err != nil {
		m.setStatus("Cannot analyze", err)
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.setStatus(statusAnalyzing, nil)
	analyzer, text := m.analyzer, m.text
	run := func() tea.Msg {
		result, err := analyzer.Analyze(ctx, text, chunks)
		return analysisDoneMsg{ticket: ticket, result: result, err: err}
	}
	return tea.Batch(m.spinner.Tick, run)
}

func (m *Model) handleAnalysisDone(msg analysisDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if errors.Is(msg.err, context.Canceled) {
			return m, nil
		}
		if m.session.Fail(msg.ticket) {
			m.releaseCancel()
			m.logger.Error().Err(msg.err).Msg("analysis failed")
			m.setStatus("Analysis failed", msg.err)
		}
		return m, nil
	}
	if !m.session.Complete(msg.ticket, msg.result) {
		m.logger.Debug().Str("analysisId", msg.result.ID).Msg("dropping stale analysis result")
		return m, nil
	}
	m.releaseCancel()
	m.logger.Info().
		Str("analysisId", msg.result.ID).
		Int("pronunciationScore", msg.result.PronunciationScore).
		Msg("analysis completed")
	m.setStatus(fmt.Sprintf("Pronunciation %d (%s). Press r to record again.",
		msg.result.PronunciationScore, feedback.ScoreTier(msg.result.PronunciationScore)), nil)
	m.layout()
	return m, nil
}

// abandon cancels an in-flight analysis.
func (m *Model) abandon() bool {
	if !m.session.Abandon() {
		return false
	}
	m.releaseCancel()
	m.logger.Debug().Msg("analysis abandoned")
	return true
}

// clear discards the recording and any result and returns to idle.
func (m *Model) clear() {
	m.session.Reset()
	m.releaseCancel()
	m.recording++
	m.viewport.SetContent("")
	m.setStatus(statusIdle, nil)
	m.logger.Debug().Msg("session cleared")
}

func (m *Model) releaseCancel() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func (m *Model) tick() tea.Cmd {
	recording := m.recording
	return tea.Tick(chunkInterval, func(time.Time) tea.Msg {
		return tickMsg{recording: recording}
	})
}

func (m *Model) setStatus(status string, err error) {
	m.status = status
	m.err = err
}

func (m *Model) contentWidth() int {
	if m.width <= 0 {
		return 0
	}
	w := int(float64(m.width) * 0.90)
	if w < 1 {
		w = 1
	}
	return w
}

func (m *Model) layout() {
	width := m.contentWidth()
	if width == 0 {
		return
	}
	header := lipgloss.Height(m.renderHeader(width))
	footer := lipgloss.Height(m.help.View(m.keys))
	height := m.height - header - footer - 1
	if height < 1 {
		height = 1
	}
	m.viewport.Width = width
	m.viewport.Height = height
	if result, ok := m.session.Result(); ok {
		opts := report.Options{Width: width, Color: lipgloss.ColorProfile() != termenv.Ascii}
		m.viewport.SetContent(strings.Join(report.Lines(result, opts), "\n"))
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	width := m.contentWidth()
	parts := []string{m.renderHeader(width)}
	if _, ok := m.session.Result(); ok && width > 0 {
		parts = append(parts, m.viewport.View())
	}
	parts = append(parts, m.help.View(m.keys))
	view := strings.Join(parts, "\n")
	if m.width == 0 || m.height == 0 {
		return view
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Top, view)
}

func (m *Model) renderHeader(width int) string {
	sentence := wrapStyledRunes(buildStyledRunes(m.targetRunes, m.wordStyle()), width)
	return strings.Join([]string{
		titleStyle.Render("Read aloud"),
		"",
		sentence,
		"",
		m.renderStatus(),
	}, "\n")
}

func (m *Model) renderStatus() string {
	line := statusStyle.Render(m.status)
	if m.session.State() == session.StateAnalyzing {
		line = m.spinner.View() + " " + line
	}
	if m.session.State() == session.StateRecording {
		line += statusStyle.Render(fmt.Sprintf("  %.1fs", float64(m.session.ChunkCount())*model.ChunkSeconds))
	}
	if m.err != nil {
		line += "\n" + errorStyle.Render(m.err.Error())
	}
	return line
}

func (m *Model) wordStyle() wordStyler {
	switch m.session.State() {
	case session.StateRecording:
		current := m.session.ChunkCount() / chunksPerWord
		return func(word int) lipgloss.Style {
			switch {
			case word < current:
				return spokenStyle
			case word == current:
				return currentWordStyle
			default:
				return pendingStyle
			}
		}
	case session.StateDone:
		result, _ := m.session.Result()
		return func(word int) lipgloss.Style {
			if word >= len(result.Words) {
				return pendingStyle
			}
			return lipgloss.NewStyle().Foreground(lipgloss.Color(feedback.ScoreColor(result.Words[word].Accuracy)))
		}
	default:
		return func(int) lipgloss.Style { return spokenStyle }
	}
}
