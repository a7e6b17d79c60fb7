package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/saywise/saywise-ai-platform/internal/session"
	"github.com/saywise/saywise-ai-platform/pkg/logging"
)

// SessionHandler exposes session lifecycle and context endpoints.
type SessionHandler struct {
	store  *session.Store
	logger *logging.Logger
}

func NewSessionHandler(store *session.Store, logger *logging.Logger) *SessionHandler {
	if store == nil {
		panic("handlers: session store cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SessionHandler{store: store, logger: logger}
}

// Create allocates a new session.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	id := h.store.Create()
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// Get returns a session snapshot with its retained interactions.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap, ok := h.store.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// Delete removes a session.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.store.Delete(id) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Context returns the prompt-ready context block for a session.
func (h *SessionHandler) Context(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	context, ok := h.store.Context(id)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"context": context})
}
