package products

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/trigardening/trigardening/internal/auth"
	"github.com/trigardening/trigardening/internal/platform/httpx"
	"github.com/trigardening/trigardening/internal/shared"
)

type Handler struct {
	logger    *slog.Logger
	service   *Service
	guard     auth.Middleware
	validator *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service, guard auth.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard, validator: validator.New()}
}

// MountRoutes registers product routes. Storefront reads are public and only
// surface published products; admin routes expose the full catalog.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.show)
}

// MountAdminRoutes registers the admin catalog surface.
func (h *Handler) MountAdminRoutes(r chi.Router) {
	r.Use(h.guard.RequireRole(shared.RoleAdmin))
	r.Get("/", h.adminList)
	r.Post("/", h.create)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Get("/low-stock", h.lowStock)
}

func parseFilters(r *http.Request) shared.ListFilters {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 20
	}
	filters := shared.ListFilters{
		Page:   page,
		Limit:  limit,
		Search: r.URL.Query().Get("search"),
	}
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filters.CategoryID = &id
		}
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filters.Status = &status
	}
	return filters
}

type listResponse struct {
	Items      []Product         `json:"items"`
	Pagination shared.Pagination `json:"pagination"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filters := parseFilters(r)
	items, total, err := h.service.ListPublished(r.Context(), filters)
	if err != nil {
		h.logger.Error("list products failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, listResponse{Items: items, Pagination: shared.NewPagination(filters.Page, filters.Limit, total)})
}

func (h *Handler) adminList(w http.ResponseWriter, r *http.Request) {
	filters := parseFilters(r)
	items, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("admin list products failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, listResponse{Items: items, Pagination: shared.NewPagination(filters.Page, filters.Limit, total)})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if product.Status != ProductStatusPublished {
		identity, ok := shared.IdentityFromContext(r.Context())
		if !ok || !identity.IsAdmin() {
			httpx.RespondError(w, httpx.ErrNotFound)
			return
		}
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var form ProductForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	product, err := h.service.Create(r.Context(), form)
	if err != nil {
		h.logger.Error("create product failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, product)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	var form ProductForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	product, err := h.service.Update(r.Context(), id, form)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) lowStock(w http.ResponseWriter, r *http.Request) {
	variants, err := h.service.ListLowStock(r.Context())
	if err != nil {
		h.logger.Error("list low stock failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, variants)
}
