package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/atlas-console/atlas-console/internal/platform/httpx"
	"github.com/atlas-console/atlas-console/internal/shared"
	"github.com/atlas-console/atlas-console/internal/users"
)

// Handler manages authentication endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountPublicRoutes registers the routes reachable without a token. The
// router attaches the visitor fallback to these.
func (h *Handler) MountPublicRoutes(r chi.Router) {
	r.Post("/login", h.login)
	r.Post("/signup", h.signup)
}

// MountSetupRoutes registers the one-time bootstrap route. It is public but
// must not synthesize a visitor principal.
func (h *Handler) MountSetupRoutes(r chi.Router) {
	r.Post("/setup", h.setup)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var in LoginInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	if err := h.validator.Struct(in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	result, err := h.service.SignIn(r.Context(), in)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var in SignupInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	if err := h.validator.Struct(in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	result, err := h.service.SignUp(r.Context(), in)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, result)
}

func (h *Handler) setup(w http.ResponseWriter, r *http.Request) {
	var in SetupInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	if err := h.validator.Struct(in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	result, err := h.service.Setup(r.Context(), in)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, result)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrInvalidCredentials):
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	case errors.Is(err, ErrVisitorLogin):
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
	case errors.Is(err, ErrUserDisabled):
		httpx.Problem(w, http.StatusForbidden, "Forbidden", err.Error())
	case errors.Is(err, ErrSignupDisabled), errors.Is(err, ErrRoleSignupDisabled),
		errors.Is(err, ErrAdminSignupDisabled), errors.Is(err, ErrSetupDisabled):
		httpx.Problem(w, http.StatusForbidden, "Forbidden", err.Error())
	case errors.Is(err, ErrInviteRequired), errors.Is(err, ErrInviteInvalid), errors.Is(err, ErrInviteUsed):
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
	case errors.Is(err, users.ErrReservedUser):
		httpx.Problem(w, http.StatusForbidden, "Forbidden", err.Error())
	case errors.Is(err, shared.ErrConflict):
		httpx.Problem(w, http.StatusConflict, "Conflict", "user already exists")
	default:
		h.logger.Error("auth request failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
