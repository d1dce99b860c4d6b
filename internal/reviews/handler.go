package reviews

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

// MountPublicRoutes serves reviews for a product page.
func (h *Handler) MountPublicRoutes(r chi.Router) {
	r.Get("/{id}/reviews", h.list)
}

// MountCustomerRoutes lets an authenticated customer post a review.
func (h *Handler) MountCustomerRoutes(r chi.Router) {
	r.Post("/{id}/reviews", h.create)
}

// MountAdminRoutes exposes moderation.
func (h *Handler) MountAdminRoutes(r chi.Router) {
	r.Delete("/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	out, err := h.repo.ListByProduct(r.Context(), productID)
	if err != nil {
		h.logger.Error("list reviews failed", slog.Any("error", err))
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
	productID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	var form ReviewForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	review := Review{ProductID: productID, UserID: identity.UserID, Rating: form.Rating, Comment: form.Comment}
	if err := h.repo.Create(r.Context(), &review); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, review)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
