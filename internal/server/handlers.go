package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/verte-zerg/tuispeak/internal/analysis"
	"github.com/verte-zerg/tuispeak/internal/feedback"
	"github.com/verte-zerg/tuispeak/internal/logging"
	"github.com/verte-zerg/tuispeak/internal/model"
	"github.com/verte-zerg/tuispeak/internal/observability/metrics"
	"github.com/verte-zerg/tuispeak/internal/phonemes"
	"github.com/verte-zerg/tuispeak/internal/report"
)

// statusClientClosed marks requests whose client went away before a
// response was written.
const statusClientClosed = 499

type analyzeRequest struct {
	Text       *string `json:"text"`
	ChunkCount *int    `json:"chunkCount"`
}

type phonemesResponse struct {
	Text     string   `json:"text"`
	Phonemes []string `json:"phonemes"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req analyzeRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.metrics.RecordAnalysis(metrics.OutcomeInvalid, 0, "", time.Since(start).Seconds())
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		s.metrics.RecordAnalysis(metrics.OutcomeInvalid, 0, "", time.Since(start).Seconds())
		writeError(w, http.StatusBadRequest, errors.New("invalid request body: trailing data"))
		return
	}
	if req.ChunkCount == nil {
		s.metrics.RecordAnalysis(metrics.OutcomeInvalid, 0, "", time.Since(start).Seconds())
		writeError(w, http.StatusBadRequest, errors.New("chunkCount is required"))
		return
	}
	text := s.cfg.DefaultText
	if req.Text != nil {
		text = *req.Text
	}

	result, err := s.analyzer.Analyze(r.Context(), text, *req.ChunkCount)
	latency := time.Since(start).Seconds()
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		s.metrics.RecordAnalysis(metrics.OutcomeAbandoned, 0, "", latency)
		s.logger.Info().
			Str("requestId", requestID(r)).
			Msg("Client went away, analysis abandoned")
		return
	case errors.Is(err, analysis.ErrInvalidInput):
		s.metrics.RecordAnalysis(metrics.OutcomeInvalid, 0, "", latency)
		writeError(w, http.StatusBadRequest, err)
		return
	default:
		s.metrics.RecordAnalysis(metrics.OutcomeError, 0, "", latency)
		s.logger.Error().Err(err).Str("requestId", requestID(r)).Msg("Analysis failed")
		writeError(w, http.StatusInternalServerError, errors.New("analysis failed"))
		return
	}

	tier := feedback.ScoreTier(result.PronunciationScore)
	s.metrics.RecordAnalysis(metrics.OutcomeSuccess, result.PronunciationScore, tier.String(), latency)
	logger := logging.WithAnalysis("server", result.ID)
	logger.Info().
		Str("requestId", requestID(r)).
		Int("chunks", *req.ChunkCount).
		Int("pronunciationScore", result.PronunciationScore).
		Str("tier", tier.String()).
		Msg("Analysis completed")

	writeJSON(w, http.StatusOK, report.NewPayload(result))

	if s.publisher != nil {
		s.publish(context.WithoutCancel(r.Context()), result)
	}
}

// publish sends the analysis event without holding up the response.
// Run waits for pending publishes before returning.
func (s *Server) publish(ctx context.Context, result model.AnalysisResult) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(ctx, publishTimeout)
		defer cancel()
		if err := s.publisher.PublishAnalysis(ctx, result); err != nil {
			logger := logging.WithAnalysis("server", result.ID)
			logger.Warn().Err(err).Msg("Failed to publish analysis event")
		}
	}()
}

func (s *Server) handlePhonemes(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("text")
	if text == "" {
		text = s.cfg.DefaultText
	}
	list, err := s.phonemes.Phonemes(r.Context(), text)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, phonemesResponse{Text: text, Phonemes: list})
	case errors.Is(err, phonemes.ErrNotFound):
		writeError(w, http.StatusNotFound, fmt.Errorf("no phonemes for %q", text))
	default:
		s.logger.Error().Err(err).Str("requestId", requestID(r)).Msg("Phoneme lookup failed")
		writeError(w, http.StatusInternalServerError, errors.New("phoneme lookup failed"))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
