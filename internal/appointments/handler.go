package appointments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/slotdesk/slotdesk/pkg/logging"
)

// Handler exposes the booking service over HTTP.
type Handler struct {
	svc    *Service
	logger *logging.Logger
}

func NewHandler(svc *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

type createRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Date  string `json:"date"`
	Time  string `json:"time"`
}

type appointmentResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

func toResponse(a *Appointment) appointmentResponse {
	return appointmentResponse{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Date:      a.Date.Format(DateFormat),
		Time:      fmt.Sprintf("%02d:00", a.Hour),
		Status:    a.Status,
		CreatedAt: a.CreatedAt,
	}
}

// Create handles POST /appointments.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error(), "")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", "")
		return
	}

	date, err := time.ParseInLocation(DateFormat, strings.TrimSpace(req.Date), time.UTC)
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be formatted as YYYY-MM-DD", "")
		return
	}
	hour, minute, err := ParseClock(req.Time)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	a, err := h.svc.Create(r.Context(), req.Name, strings.TrimSpace(req.Email), date, hour, minute)
	if err != nil {
		if ve, ok := AsValidationError(err); ok {
			writeError(w, http.StatusUnprocessableEntity, ve.Message(h.svc.Schedule()), string(ve.Reason))
			return
		}
		h.logger.Error("create appointment failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not create appointment", "")
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(a))
}

// Get handles GET /appointments/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.appointmentID(w, r)
	if !ok {
		return
	}
	a, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(a))
}

// List handles GET /appointments with an optional ?status= filter.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	status := Status(strings.TrimSpace(r.URL.Query().Get("status")))
	if status != "" && !status.Valid() {
		writeError(w, http.StatusBadRequest, "status must be pending, approved or rejected", "")
		return
	}
	list, err := h.svc.List(r.Context(), status)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	out := make([]appointmentResponse, 0, len(list))
	for i := range list {
		out = append(out, toResponse(&list[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"appointments": out})
}

// Approve handles PUT /appointments/{id}/approve.
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.svc.Approve)
}

// Reject handles PUT /appointments/{id}/reject.
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.svc.Reject)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id uuid.UUID) (*Appointment, error)) {
	id, ok := h.appointmentID(w, r)
	if !ok {
		return
	}
	a, err := fn(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(a))
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) appointmentID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid appointment id", "")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "no appointment found with this id", "")
	case errors.Is(err, ErrStatusFinal):
		writeError(w, http.StatusConflict, "appointment status is final", "")
	case errors.Is(err, ErrSlotTaken):
		writeError(w, http.StatusConflict, "the appointment's time slot has been taken by another booking", string(ReasonSlotTaken))
	default:
		h.logger.Error("appointment request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error", "")
	}
}

// ParseClock accepts "HH:MM" (or bare "HH") and returns hour and minute.
func ParseClock(s string) (int, int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, errors.New("time is required")
	}
	layout := "15:04"
	if !strings.Contains(s, ":") {
		layout = "15"
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return 0, 0, errors.New("time must be formatted as HH:MM")
	}
	return t.Hour(), t.Minute(), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg, reason string) {
	body := map[string]string{"error": msg}
	if reason != "" {
		body["reason"] = reason
	}
	writeJSON(w, status, body)
}
