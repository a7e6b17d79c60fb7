package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/saywise/saywise-ai-platform/internal/analysis"
	"github.com/saywise/saywise-ai-platform/internal/session"
	"github.com/saywise/saywise-ai-platform/pkg/logging"
)

// AnalysisHandler runs message analyses and records completed turns into the
// session store.
type AnalysisHandler struct {
	svc      *analysis.Service
	sessions *session.Store
	logger   *logging.Logger
}

func NewAnalysisHandler(svc *analysis.Service, sessions *session.Store, logger *logging.Logger) *AnalysisHandler {
	if svc == nil {
		panic("handlers: analysis service cannot be nil")
	}
	if sessions == nil {
		panic("handlers: session store cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &AnalysisHandler{svc: svc, sessions: sessions, logger: logger}
}

type analyzeRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId,omitempty"`
}

// decodeAnalyzeRequest parses the body and resolves session context. A blank
// session id means a one-off analysis with no history.
func (h *AnalysisHandler) decodeAnalyzeRequest(w http.ResponseWriter, r *http.Request) (analyzeRequest, string, bool) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return req, "", false
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return req, "", false
	}
	if req.SessionID == "" {
		return req, "", true
	}
	priorContext, ok := h.sessions.Context(req.SessionID)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return req, "", false
	}
	return req, priorContext, true
}

// AnalyzeBatch runs all four analyses and, when a session is supplied,
// appends the completed turn to its history.
func (h *AnalysisHandler) AnalyzeBatch(w http.ResponseWriter, r *http.Request) {
	req, priorContext, ok := h.decodeAnalyzeRequest(w, r)
	if !ok {
		return
	}

	bundle, err := h.svc.AnalyzeBatched(r.Context(), req.SessionID, req.Message, priorContext)
	if err != nil {
		h.writeAnalysisError(w, err)
		return
	}

	if req.SessionID != "" {
		h.sessions.Append(req.SessionID, req.Message, *bundle)
	}
	writeJSON(w, http.StatusOK, bundle)
}

// AnalyzeKind runs a single analysis axis named by the path parameter.
// Single-kind results are not recorded as turns; only a full bundle is.
func (h *AnalysisHandler) AnalyzeKind(w http.ResponseWriter, r *http.Request) {
	kind := analysis.Kind(chi.URLParam(r, "kind"))

	req, priorContext, ok := h.decodeAnalyzeRequest(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	var (
		result any
		err    error
	)
	switch kind {
	case analysis.KindIntent:
		result, err = h.svc.AnalyzeIntent(ctx, req.SessionID, req.Message, priorContext)
	case analysis.KindTone:
		result, err = h.svc.AnalyzeTone(ctx, req.SessionID, req.Message, priorContext)
	case analysis.KindImpact:
		result, err = h.svc.PredictImpact(ctx, req.SessionID, req.Message, priorContext)
	case analysis.KindAlternatives:
		result, err = h.svc.GenerateAlternatives(ctx, req.SessionID, req.Message, priorContext)
	default:
		writeError(w, http.StatusNotFound, "unknown analysis kind")
		return
	}
	if err != nil {
		h.writeAnalysisError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *AnalysisHandler) writeAnalysisError(w http.ResponseWriter, err error) {
	h.logger.Error("analysis request failed", "error", err)

	var exhausted *analysis.ExhaustedError
	switch {
	case errors.Is(err, analysis.ErrNotInitialized):
		writeError(w, http.StatusServiceUnavailable, "model runtime not configured")
	case errors.As(err, &exhausted):
		writeError(w, http.StatusBadGateway, "model output could not be repaired")
	default:
		writeError(w, http.StatusBadGateway, "analysis failed")
	}
}

// Health reports liveness.
func (h *AnalysisHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
