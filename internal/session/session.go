// Package session tracks a single practice recording from start to report.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/verte-zerg/tuispeak/internal/model"
)

// State is the lifecycle state of a session.
type State int

const (
	// StateIdle - nothing recorded yet.
	StateIdle State = iota
	// StateRecording - chunks are being captured.
	StateRecording
	// StateStopped - recording finished, ready for analysis.
	StateStopped
	// StateAnalyzing - one analysis is in flight.
	StateAnalyzing
	// StateDone - a result is available.
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateStopped:
		return "stopped"
	case StateAnalyzing:
		return "analyzing"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Errors for invalid transitions.
var (
	ErrNotRecording     = errors.New("not recording")
	ErrAlreadyRecording = errors.New("already recording")
	ErrNothingRecorded  = errors.New("nothing recorded")
	ErrAnalysisInFlight = errors.New("analysis already in progress")
)

// Session is safe for concurrent use.
//
//	IDLE → RECORDING → STOPPED → ANALYZING → DONE
//	           ↑          │  ↑        │        │
//	           └──────────┘  └────────┴────────┘
//
// Starting a new recording is allowed from any state except RECORDING and
// ANALYZING and discards the previous chunks and result.
type Session struct {
	mu        sync.Mutex
	state     State
	chunks    int
	startedAt time.Time
	elapsed   time.Duration
	ticket    uint64
	result    *model.AnalysisResult
}

// New returns an idle session.
func New() *Session {
	return &Session{}
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ChunkCount returns the number of chunks captured by the last recording.
func (s *Session) ChunkCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chunks
}

// Elapsed returns the wall-clock length of the last finished recording.
func (s *Session) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsed
}

// Result returns the last completed analysis, if any.
func (s *Session) Result() (model.AnalysisResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return model.AnalysisResult{}, false
	}
	return *s.result, true
}

// Start begins a new recording.
func (s *Session) Start(now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateRecording:
		return ErrAlreadyRecording
	case StateAnalyzing:
		return ErrAnalysisInFlight
	}
	s.state = StateRecording
	s.chunks = 0
	s.elapsed = 0
	s.startedAt = now
	s.result = nil
	return nil
}

// AddChunk records one captured chunk.
func (s *Session) AddChunk() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRecording {
		return ErrNotRecording
	}
	s.chunks++
	return nil
}

// Stop ends the recording and returns its wall-clock length.
func (s *Session) Stop(now time.Time) (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRecording {
		return 0, ErrNotRecording
	}
	s.state = StateStopped
	s.elapsed = now.Sub(s.startedAt)
	if s.elapsed < 0 {
		s.elapsed = 0
	}
	return s.elapsed, nil
}

// BeginAnalysis marks an analysis as in flight and returns its ticket and
// the chunk count to analyze. Only Complete with the same ticket is
// accepted.
func (s *Session) BeginAnalysis() (uint64, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateIdle:
		return 0, 0, ErrNothingRecorded
	case StateRecording:
		return 0, 0, fmt.Errorf("stop recording first: %w", ErrAlreadyRecording)
	case StateAnalyzing:
		return 0, 0, ErrAnalysisInFlight
	}
	s.ticket++
	s.state = StateAnalyzing
	return s.ticket, s.chunks, nil
}

// Complete stores the result of the analysis identified by ticket. It
// reports false when that analysis was abandoned or superseded.
func (s *Session) Complete(ticket uint64, result model.AnalysisResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAnalyzing || ticket != s.ticket {
		return false
	}
	s.state = StateDone
	s.result = &result
	return true
}

// Fail returns an in-flight analysis to STOPPED so it can be retried.
func (s *Session) Fail(ticket uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAnalyzing || ticket != s.ticket {
		return false
	}
	s.state = StateStopped
	return true
}

// Abandon drops the in-flight analysis. Its result is ignored when it
// arrives. Returns false when nothing was in flight.
func (s *Session) Abandon() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAnalyzing {
		return false
	}
	s.ticket++
	if s.result != nil {
		s.state = StateDone
	} else {
		s.state = StateStopped
	}
	return true
}

// Reset returns the session to IDLE and discards everything.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ticket++
	s.state = StateIdle
	s.chunks = 0
	s.elapsed = 0
	s.startedAt = time.Time{}
	s.result = nil
}
