package settings

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/trigardening/trigardening/internal/platform/httpx"
	"github.com/trigardening/trigardening/internal/shared"
)

type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes serves settings documents to the storefront.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/{key}", h.show)
}

// MountAdminRoutes lets an admin replace a document.
func (h *Handler) MountAdminRoutes(r chi.Router) {
	r.Put("/{key}", h.put)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	setting, err := h.service.Get(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, setting)
}

func (h *Handler) put(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	var form SettingForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	setting, err := h.service.Put(r.Context(), chi.URLParam(r, "key"), form.Value, identity.UserID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, setting)
}
