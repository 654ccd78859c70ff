package menu

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/atlas-console/atlas-console/internal/platform/httpx"
	"github.com/atlas-console/atlas-console/internal/rbac"
	"github.com/atlas-console/atlas-console/internal/shared"
)

// Handler manages menu endpoints.
type Handler struct {
	logger      *slog.Logger
	service     *Service
	permissions rbac.PermissionSource
	validator   *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, permissions rbac.PermissionSource) *Handler {
	return &Handler{logger: logger, service: service, permissions: permissions, validator: validator.New()}
}

// MountRoutes registers the menu mutation routes. The router applies the
// super-role gate to this group.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.create)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

// MountVisibleRoutes registers the read routes every signed-in principal may
// call, the visitor fallback included.
func (h *Handler) MountVisibleRoutes(r chi.Router) {
	r.Get("/", h.tree)
	r.Get("/my", h.visible)
	r.Get("/roles-by-name", h.rolesByName)
	r.Get("/{id}", h.get)
}

func (h *Handler) tree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.service.Tree(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, tree)
}

func (h *Handler) visible(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.JSON(w, http.StatusOK, []*Node{})
		return
	}
	tree, err := h.service.VisibleTree(r.Context(), principal.RoleIDs)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, tree)
}

func (h *Handler) rolesByName(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "name is required")
		return
	}
	roleIDs, err := h.permissions.RolesForMenu(r.Context(), name)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string][]string{"roleIds": roleIDs})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	m, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, m)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	if err := h.validator.Struct(in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	m, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, m)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var in UpdateInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	in.ID = chi.URLParam(r, "id")
	if err := h.validator.Struct(in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	m, err := h.service.Update(r.Context(), in)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, m)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound), errors.Is(err, rbac.ErrMenuNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "menu not found")
	case errors.Is(err, shared.ErrConflict):
		httpx.Problem(w, http.StatusConflict, "Conflict", "menu already exists")
	case errors.Is(err, ErrRolesRequired), errors.Is(err, ErrUnknownRole), errors.Is(err, ErrSelfParent):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, rbac.ErrMenuDisabled):
		httpx.Problem(w, http.StatusForbidden, "Forbidden", "menu is disabled")
	case errors.Is(err, ErrNoRoot):
		h.logger.Error("menu hierarchy has no roots", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	default:
		h.logger.Error("menu request failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
