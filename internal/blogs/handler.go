package blogs

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/trigardening/trigardening/internal/platform/httpx"
)

type Handler struct {
	logger    *slog.Logger
	repo      Repository
	validator *validator.Validate
}

func NewHandler(logger *slog.Logger, repo Repository) *Handler {
	return &Handler{logger: logger, repo: repo, validator: validator.New()}
}

// MountRoutes serves published posts to the storefront.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{slug}", h.showBySlug)
}

// MountAdminRoutes serves the full post set plus authoring.
func (h *Handler) MountAdminRoutes(r chi.Router) {
	r.Get("/", h.adminList)
	r.Post("/", h.create)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	out, err := h.repo.List(r.Context(), true)
	if err != nil {
		h.logger.Error("list blogs failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) adminList(w http.ResponseWriter, r *http.Request) {
	out, err := h.repo.List(r.Context(), false)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) showBySlug(w http.ResponseWriter, r *http.Request) {
	blog, err := h.repo.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if !blog.Published {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	httpx.JSON(w, http.StatusOK, blog)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	form, ok := h.decode(w, r)
	if !ok {
		return
	}
	blog := Blog{Title: form.Title, Slug: slugify(form.Title), CoverImage: form.CoverImage, Body: form.Body, Published: form.Published}
	if err := h.repo.Create(r.Context(), &blog); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, blog)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	form, ok := h.decode(w, r)
	if !ok {
		return
	}
	blog := Blog{ID: id, Title: form.Title, Slug: slugify(form.Title), CoverImage: form.CoverImage, Body: form.Body, Published: form.Published}
	if err := h.repo.Update(r.Context(), &blog); err != nil {
		httpx.RespondError(w, err)
		return
	}
	out, err := h.repo.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
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

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (BlogForm, bool) {
	var form BlogForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return form, false
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return form, false
	}
	return form, true
}

func slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	return strings.ReplaceAll(slug, " ", "-")
}
