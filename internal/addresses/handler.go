package addresses

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/trigardening/trigardening/internal/platform/httpx"
	"github.com/trigardening/trigardening/internal/shared"
)

type Handler struct {
	logger    *slog.Logger
	repo      Repository
	validator *validator.Validate
}

func NewHandler(logger *slog.Logger, repo Repository) *Handler {
	return &Handler{logger: logger, repo: repo, validator: validator.New()}
}

// MountRoutes registers the address book under an authenticated group.
// Every query is scoped to the caller, so one customer can never read
// or mutate another's entries.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	out, err := h.repo.ListByUser(r.Context(), identity.UserID)
	if err != nil {
		h.logger.Error("list addresses failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	var form AddressForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	addr := Address{UserID: identity.UserID, FullName: form.FullName, Phone: form.Phone, Thana: form.Thana, District: form.District, FullAddress: form.FullAddress}
	if err := h.repo.Create(r.Context(), &addr); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, addr)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	var form AddressForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	addr := Address{ID: id, UserID: identity.UserID, FullName: form.FullName, Phone: form.Phone, Thana: form.Thana, District: form.District, FullAddress: form.FullAddress}
	if err := h.repo.Update(r.Context(), &addr); err != nil {
		httpx.RespondError(w, err)
		return
	}
	out, err := h.repo.Get(r.Context(), identity.UserID, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	if err := h.repo.Delete(r.Context(), identity.UserID, id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
