// Package server exposes prediction sessions over HTTP and websockets
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	predictplot "github.com/aouyang1/go-predictplot"
	"github.com/aouyang1/go-predictplot/method"
	"github.com/aouyang1/go-predictplot/series"
	"github.com/aouyang1/go-predictplot/store"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 512
	maxBodySize    = 1 << 16
)

var ErrMissingValue = errors.New("missing value")

// EntryLister returns the persisted entry history
type EntryLister interface {
	Entries(ctx context.Context) ([]store.Entry, error)
}

// Handler provides HTTP API endpoints
type Handler struct {
	sessions *SessionManager
	entries  EntryLister
	upgrader websocket.Upgrader
}

// NewHandler creates a new API handler. entries may be nil when nothing is persisted.
func NewHandler(sessions *SessionManager, entries EntryLister) *Handler {
	return &Handler{
		sessions: sessions,
		entries:  entries,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// RegisterRoutes sets up all API routes
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.handleHealth).Methods("GET")
	r.HandleFunc("/api/methods", h.handleMethods).Methods("GET")
	r.HandleFunc("/api/entries", h.handleEntries).Methods("GET")

	r.HandleFunc("/api/sessions", h.handleListSessions).Methods("GET")
	r.HandleFunc("/api/sessions", h.handleCreateSession).Methods("POST")
	r.HandleFunc("/api/sessions/{id}", h.handleGetSession).Methods("GET")
	r.HandleFunc("/api/sessions/{id}", h.handleDeleteSession).Methods("DELETE")
	r.HandleFunc("/api/sessions/{id}/points", h.handleAddPoint).Methods("POST")
	r.HandleFunc("/api/sessions/{id}/reset", h.handleReset).Methods("POST")
	r.HandleFunc("/api/sessions/{id}/selection", h.handleSetSelection).Methods("PUT")
	r.HandleFunc("/api/sessions/{id}/consent", h.handleConsent).Methods("POST")
	r.HandleFunc("/api/sessions/{id}/chart", h.handleChart).Methods("GET")
	r.HandleFunc("/api/sessions/{id}/export.xlsx", h.handleExport).Methods("GET")

	r.HandleFunc("/ws/sessions/{id}", h.handleStream).Methods("GET")
}

// SessionState is the JSON view of a session
type SessionState struct {
	ID        string                   `json:"id"`
	Methods   []string                 `json:"methods"`
	Consented bool                     `json:"consented"`
	Dataset   predictplot.ChartDataset `json:"dataset"`
}

func newSessionState(id string, s *predictplot.Session) SessionState {
	return SessionState{
		ID:        id,
		Methods:   s.Selection().Names(),
		Consented: s.Consented(),
		Dataset:   s.Dataset(),
	}
}

// AddPointRequest is the body of a new point submission
type AddPointRequest struct {
	Value *float64 `json:"value"`
}

// AddPointResponse returns the created observation with the recomputed dataset
type AddPointResponse struct {
	Observation series.Observation       `json:"observation"`
	Dataset     predictplot.ChartDataset `json:"dataset"`
}

// SelectionRequest replaces the enabled methods of a session
type SelectionRequest struct {
	Methods []string `json:"methods"`
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("unable to encode response", "error", err.Error())
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// session resolves the {id} route variable, writing a 404 when it is unknown
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (string, *predictplot.Session, bool) {
	id := mux.Vars(r)["id"]
	s, err := h.sessions.Get(id)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return id, nil, false
	}
	return id, s, true
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleMethods(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string][]string{"methods": method.Names()})
}

func (h *Handler) handleEntries(w http.ResponseWriter, r *http.Request) {
	if h.entries == nil {
		respondJSON(w, http.StatusOK, []store.Entry{})
		return
	}
	entries, err := h.entries.Entries(r.Context())
	if err != nil {
		slog.Error("unable to list entries", "error", err.Error())
		respondError(w, http.StatusInternalServerError, "unable to list entries")
		return
	}
	if entries == nil {
		entries = []store.Entry{}
	}
	respondJSON(w, http.StatusOK, entries)
}

func (h *Handler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string][]string{"sessions": h.sessions.IDs()})
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	id, s, err := h.sessions.Create()
	if err != nil {
		slog.Error("unable to create session", "error", err.Error())
		respondError(w, http.StatusInternalServerError, "unable to create session")
		return
	}
	respondJSON(w, http.StatusCreated, newSessionState(id, s))
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, s, ok := h.session(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, newSessionState(id, s))
}

func (h *Handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.sessions.Delete(id); err != nil {
		switch {
		case errors.Is(err, ErrSessionNotFound):
			respondError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, ErrDefaultSession):
			respondError(w, http.StatusConflict, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleAddPoint(w http.ResponseWriter, r *http.Request) {
	_, s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req AddPointRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Value == nil {
		respondError(w, http.StatusBadRequest, ErrMissingValue.Error())
		return
	}

	obs, err := s.AddPoint(*req.Value)
	if err != nil {
		switch {
		case errors.Is(err, predictplot.ErrConsentRequired):
			respondError(w, http.StatusForbidden, err.Error())
		case errors.Is(err, predictplot.ErrInvalidValue):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	respondJSON(w, http.StatusCreated, AddPointResponse{
		Observation: obs,
		Dataset:     s.Dataset(),
	})
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	id, s, ok := h.session(w, r)
	if !ok {
		return
	}
	s.Reset()
	respondJSON(w, http.StatusOK, newSessionState(id, s))
}

func (h *Handler) handleSetSelection(w http.ResponseWriter, r *http.Request) {
	id, s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req SelectionRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	sel, err := method.ParseSelection(req.Methods)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.SetSelection(sel)
	respondJSON(w, http.StatusOK, newSessionState(id, s))
}

func (h *Handler) handleConsent(w http.ResponseWriter, r *http.Request) {
	id, s, ok := h.session(w, r)
	if !ok {
		return
	}
	s.Consent()
	respondJSON(w, http.StatusOK, newSessionState(id, s))
}

func (h *Handler) handleChart(w http.ResponseWriter, r *http.Request) {
	id, s, ok := h.session(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := predictplot.PlotDataset(w, s.Dataset()); err != nil {
		slog.Error("unable to render chart", "session", id, "error", err.Error())
	}
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	id, s, ok := h.session(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", exportContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="dataset.xlsx"`)
	if err := WriteDatasetXLSX(w, s.Dataset()); err != nil {
		slog.Error("unable to export dataset", "session", id, "error", err.Error())
	}
}
