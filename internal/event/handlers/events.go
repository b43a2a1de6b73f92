package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"spacetime-server/internal/event"
	"spacetime-server/internal/shared/errors"
	"spacetime-server/internal/shared/response"
	"spacetime-server/internal/space"

	"github.com/google/uuid"
)

type EventHandler struct {
	service *event.Service
}

func NewEventHandler(service *event.Service) *EventHandler {
	return &EventHandler{service: service}
}

// ListEvents lists the events inside the space named by the within query
// parameter, the root when absent.
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "list_events")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	raw := r.URL.Query().Get("within")
	within := space.RootID
	if raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id < 0 {
			response.Error(w, r, logger, errors.Validationf("invalid within %q", raw))
			return
		}
		within = space.ID(id)
	}

	events, err := h.service.Within(r.Context(), within)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, events)
}

func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "create_event")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	var req event.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid request body", err))
		return
	}

	e, err := h.service.Create(r.Context(), req)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, e)
}

func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_event")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid event ID format", err))
		return
	}

	e, err := h.service.Get(r.Context(), id)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, e)
}
