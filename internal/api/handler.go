// Package api exposes the dashboard view state as JSON over chi, and the
// server-sent event hub used by the dashboard page.
package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"goincome/app"
	"goincome/domain/statement"
	"goincome/domain/view"
	"goincome/internal"
	"goincome/internal/errors"
	"goincome/internal/profiling"
	"goincome/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Dashboard is the part of app.DashboardService the API drives
type Dashboard interface {
	View(sessionID string) view.State
	ApplyFilters(sessionID string, criteria statement.Criteria) (view.State, error)
	ClearFilters(sessionID string) view.State
	ToggleSort(sessionID string, key string) (view.State, error)
	Summary(st view.State) profiling.Summary
	Status() app.LoadStatus
}

// StateResponse is the JSON shape of a session's view state
type StateResponse struct {
	Loaded   bool                  `json:"loaded"`
	Visible  []statement.Record    `json:"visible"`
	Criteria statement.Criteria    `json:"criteria"`
	Sort     *statement.SortConfig `json:"sort"`
	Notice   *view.Notice          `json:"notice"`
}

// ErrorResponse is returned for every non-2xx answer
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Handler serves the JSON API
type Handler struct {
	dashboard Dashboard
	logger    *internal.Logger
}

// NewHandler creates the API handler
func NewHandler(dashboard Dashboard, logger *internal.Logger) *Handler {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Handler{dashboard: dashboard, logger: logger.With("API")}
}

// Routes builds the chi router for the API
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(session.Middleware)

	r.Get("/statements", h.getStatements)
	r.Post("/filters", h.applyFilters)
	r.Post("/filters/clear", h.clearFilters)
	r.Post("/sort/{key}", h.toggleSort)
	r.Get("/summary", h.getSummary)
	r.Get("/status", h.getStatus)
	return r
}

func (h *Handler) getStatements(w http.ResponseWriter, r *http.Request) {
	st := h.dashboard.View(session.IDFromContext(r.Context()))
	writeJSON(w, http.StatusOK, toResponse(st))
}

func (h *Handler) applyFilters(w http.ResponseWriter, r *http.Request) {
	var criteria statement.Criteria
	if err := json.NewDecoder(r.Body).Decode(&criteria); err != nil {
		h.writeError(w, errors.InvalidInput("request body must be a JSON filter object", err))
		return
	}

	st, err := h.dashboard.ApplyFilters(session.IDFromContext(r.Context()), criteria)
	if err != nil {
		if stderrors.Is(err, statement.ErrInvalidRange) {
			err = errors.InvalidRange(err)
		}
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(st))
}

func (h *Handler) clearFilters(w http.ResponseWriter, r *http.Request) {
	st := h.dashboard.ClearFilters(session.IDFromContext(r.Context()))
	writeJSON(w, http.StatusOK, toResponse(st))
}

func (h *Handler) toggleSort(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	st, err := h.dashboard.ToggleSort(session.IDFromContext(r.Context()), key)
	if err != nil {
		if stderrors.Is(err, statement.ErrUnknownSortKey) {
			err = errors.InvalidInput("unknown sort key "+key, err)
		}
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(st))
}

func (h *Handler) getSummary(w http.ResponseWriter, r *http.Request) {
	st := h.dashboard.View(session.IDFromContext(r.Context()))
	writeJSON(w, http.StatusOK, h.dashboard.Summary(st))
}

func (h *Handler) getStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.dashboard.Status())
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	msg := err.Error()
	var appErr *errors.AppError
	var rangeErr *statement.RangeError
	switch {
	case stderrors.As(err, &rangeErr):
		msg = rangeErr.Message
	case stderrors.As(err, &appErr):
		msg = appErr.Message
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed: %v", err)
		msg = "internal error"
	}
	writeJSON(w, status, ErrorResponse{Error: msg, Code: errors.GetCode(err)})
}

func toResponse(st view.State) StateResponse {
	resp := StateResponse{
		Loaded:   st.Loaded,
		Visible:  st.Visible,
		Criteria: st.Criteria,
		Sort:     st.Sort,
	}
	if resp.Visible == nil {
		resp.Visible = []statement.Record{}
	}
	if !st.Notice.Empty() {
		n := st.Notice
		resp.Notice = &n
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
