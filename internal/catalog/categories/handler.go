package categories

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/trigardening/trigardening/internal/auth"
	"github.com/trigardening/trigardening/internal/platform/httpx"
	"github.com/trigardening/trigardening/internal/shared"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   auth.Middleware
}

func NewHandler(logger *slog.Logger, service *Service, guard auth.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard}
}

// MountRoutes registers category routes. Reads are public, writes admin-only.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.show)
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRole(shared.RoleAdmin))
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

type categoryRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list categories failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, categories)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	category, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, category)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	category, err := h.service.Create(r.Context(), Category{Name: req.Name, Slug: req.Slug})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, category)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	var req categoryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.service.Update(r.Context(), id, Category{Name: req.Name, Slug: req.Slug}); err != nil {
		httpx.RespondError(w, err)
		return
	}
	category, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, category)
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
