package tags

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/trigardening/trigardening/internal/auth"
	"github.com/trigardening/trigardening/internal/platform/httpx"
	"github.com/trigardening/trigardening/internal/shared"
)

type Handler struct {
	logger *slog.Logger
	repo   Repository
	guard  auth.Middleware
}

func NewHandler(logger *slog.Logger, repo Repository, guard auth.Middleware) *Handler {
	return &Handler{logger: logger, repo: repo, guard: guard}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRole(shared.RoleAdmin))
		r.Post("/", h.create)
		r.Delete("/{id}", h.delete)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	tags, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("list tags failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, tags)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		httpx.RespondError(w, fmt.Errorf("%w: tag name is required", httpx.ErrValidation))
		return
	}
	tag, err := h.repo.Create(r.Context(), Tag{Name: strings.TrimSpace(req.Name)})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, tag)
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
