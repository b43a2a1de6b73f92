package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"spacetime-server/internal/shared/errors"
	"spacetime-server/internal/shared/response"
	"spacetime-server/internal/space"
)

type SpaceHandler struct {
	service *space.Service
}

func NewSpaceHandler(service *space.Service) *SpaceHandler {
	return &SpaceHandler{service: service}
}

type CreateSpaceRequest struct {
	Kind     *space.Kind `json:"kind"`
	Name     string      `json:"name"`
	ParentID *space.ID   `json:"parent_id,omitempty"`
}

func parseID(r *http.Request, name string) (space.ID, error) {
	raw := r.PathValue(name)
	if raw == "" {
		return 0, errors.Validationf("%s is required", name)
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id < 0 {
		return 0, errors.Validationf("invalid %s %q", name, raw)
	}
	return space.ID(id), nil
}

func (h *SpaceHandler) GetSpace(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_space")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	node, err := h.service.Get(r.Context(), id)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, node)
}

func (h *SpaceHandler) GetChildren(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_children")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	children, err := h.service.Children(r.Context(), id)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, children)
}

func (h *SpaceHandler) GetAncestors(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_ancestors")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	ancestors, err := h.service.Ancestors(r.Context(), id)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, ancestors)
}

func (h *SpaceHandler) FindAncestor(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "find_ancestor")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	kind, err := space.ParseKind(r.PathValue("kind"))
	if err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid kind", err))
		return
	}

	found, err := h.service.FindAncestor(r.Context(), id, kind)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, found)
}

func (h *SpaceHandler) GetRelation(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_relation")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}
	other, err := parseID(r, "other")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	rel, err := h.service.Relation(r.Context(), id, other)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, rel)
}

func (h *SpaceHandler) GetKinds(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_kinds")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	response.Success(w, http.StatusOK, h.service.Kinds())
}

func (h *SpaceHandler) CreateSpace(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "create_space")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	var req CreateSpaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid request body", err))
		return
	}

	if req.Kind == nil {
		response.Error(w, r, logger, errors.Validation("kind is required"))
		return
	}

	parent := space.NoParent
	if req.ParentID != nil {
		parent = *req.ParentID
	}

	node, err := h.service.Create(r.Context(), parent, *req.Kind, req.Name)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	logger.Info("Space created", "space_id", node.ID, "kind", node.Kind)
	response.Success(w, http.StatusCreated, node)
}
