package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/trigardening/trigardening/internal/platform/httpx"
	"github.com/trigardening/trigardening/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/register", h.handleRegister)
	r.Post("/login", h.handleLogin)
}

type registerRequest struct {
	Phone    string `json:"phone" validate:"required,min=10,max=15"`
	Name     string `json:"name" validate:"required,max=120"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	user, token, err := h.service.Register(r.Context(), req.Phone, req.Name, req.Password)
	if err != nil {
		if errors.Is(err, ErrPhoneTaken) {
			httpx.Problem(w, http.StatusConflict, "Duplicate", err.Error())
			return
		}
		h.logger.Error("register failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	user, token, err := h.service.Authenticate(r.Context(), req.Phone, req.Password)
	if err != nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "phone or password is incorrect")
		return
	}
	httpx.JSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

// HandleMe returns the authenticated caller's account.
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	user, err := h.service.Me(r.Context(), identity)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.RespondError(w, httpx.ErrNotFound)
			return
		}
		h.logger.Error("load account failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}
