package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/poiesic/layerscout/core"
	"github.com/poiesic/layerscout/export"
	"github.com/poiesic/layerscout/session"
)

const suggestionLimit = 5

// Backend supplies sessions over one loaded catalog.
type Backend interface {
	NewSession() (*session.Session, error)
	Loaded() bool
	Len() int
	Fingerprint() core.ID
}

// Handler implements the API handlers.
type Handler struct {
	backend  Backend
	sessions *registry
	basemap  string
	version  string
	logger   *slog.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithBasemap sets the basemap recorded in exports that do not name one.
func WithBasemap(basemap string) Option {
	return func(h *Handler) {
		h.basemap = basemap
	}
}

// WithVersion sets the version reported by the health endpoint.
func WithVersion(version string) Option {
	return func(h *Handler) {
		h.version = version
	}
}

// NewHandler creates a Handler serving sessions from backend.
func NewHandler(backend Backend, opts ...Option) (*Handler, error) {
	if backend == nil {
		return nil, ErrBackendRequired
	}

	h := &Handler{
		backend:  backend,
		sessions: newRegistry(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Health handles GET /api/v1/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:   "ok",
		Version:  h.version,
		Sessions: h.sessions.len(),
	}
	if h.backend.Loaded() {
		resp.Layers = h.backend.Len()
		resp.Fingerprint = export.FormatFingerprint(h.backend.Fingerprint())
	} else {
		resp.Status = "loading"
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateSession handles POST /api/v1/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	s, err := h.backend.NewSession()
	if err != nil {
		MapSessionError(w, r, err)
		return
	}

	id := h.sessions.add(s)
	h.logger.Debug("session created", "session", id)

	w.Header().Set("Location", r.URL.Path+"/"+id)
	writeJSON(w, http.StatusCreated, SessionResponse{ID: id})
}

// DeleteSession handles DELETE /api/v1/sessions/{id}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.sessions.remove(id) {
		WriteProblem(w, r, http.StatusNotFound, "Session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search handles GET /api/v1/sessions/{id}/search?q=
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	query := r.URL.Query().Get("q")
	results, err := s.Search(query)
	if err != nil {
		MapSessionError(w, r, err)
		return
	}

	resp := SearchResponse{Query: query, Results: resultViews(results)}
	if len(results) == 0 && strings.TrimSpace(query) != "" {
		resp.Suggestions, _ = s.Suggest(query, suggestionLimit)
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetSelection handles GET /api/v1/sessions/{id}/selection
func (h *Handler) GetSelection(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, selectionResponse(s.CurrentSelection()))
}

// Activate handles POST /api/v1/sessions/{id}/selection
func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req ActivateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		WriteProblem(w, r, http.StatusUnprocessableEntity, "name is required")
		return
	}

	if err := s.Activate(req.Name); err != nil {
		MapSessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, selectionResponse(s.CurrentSelection()))
}

// ReplaceSelection handles PUT /api/v1/sessions/{id}/selection
func (h *Handler) ReplaceSelection(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req ReplaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}

	if err := s.ActivateAll(req.Names...); err != nil {
		MapSessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, selectionResponse(s.CurrentSelection()))
}

// ClearSelection handles DELETE /api/v1/sessions/{id}/selection
func (h *Handler) ClearSelection(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	s.Clear()
	w.WriteHeader(http.StatusNoContent)
}

// Deactivate handles DELETE /api/v1/sessions/{id}/selection/{name}
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := s.Deactivate(pathParam(r, "name")); err != nil {
		MapSessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, selectionResponse(s.CurrentSelection()))
}

// ApplyPreset handles POST /api/v1/sessions/{id}/presets/{preset}
func (h *Handler) ApplyPreset(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	entries, err := s.ApplyPreset(pathParam(r, "preset"))
	if err != nil {
		MapSessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, selectionResponse(entries))
}

// Export handles GET /api/v1/sessions/{id}/export?format=&basemap=&zoom=&lon=&lat=
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	format, err := export.ParseFormat(q.Get("format"))
	if err != nil {
		MapSessionError(w, r, err)
		return
	}
	view, err := h.parseView(q)
	if err != nil {
		WriteProblem(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := view.Validate(); err != nil {
		MapSessionError(w, r, err)
		return
	}

	doc := export.Build(s.CurrentSelection(), view, h.backend.Fingerprint())
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="layerscout.%s"`, format))
	if err := export.Encode(w, doc, format); err != nil {
		h.logger.Error("export encode failed", "err", err)
	}
}

func (h *Handler) parseView(q url.Values) (export.View, error) {
	view := export.View{Basemap: h.basemap}
	if v := q.Get("basemap"); v != "" {
		view.Basemap = v
	}

	var errs []error
	parse := func(key string, dst *float64) {
		v := q.Get(key)
		if v == "" {
			return
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s must be a number", key))
			return
		}
		*dst = f
	}
	parse("zoom", &view.Zoom)
	parse("lon", &view.Center[0])
	parse("lat", &view.Center[1])

	return view, errors.Join(errs...)
}

// session resolves the {id} path parameter, writing a 404 when unknown.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, ok := h.sessions.get(chi.URLParam(r, "id"))
	if !ok {
		WriteProblem(w, r, http.StatusNotFound, "Session not found")
	}
	return s, ok
}

// pathParam returns an unescaped path parameter. Layer names may contain
// spaces, slashes and other characters that arrive percent-encoded.
func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
