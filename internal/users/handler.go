package users

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/trigardening/trigardening/internal/platform/httpx"
	"github.com/trigardening/trigardening/internal/shared"
)

type Handler struct {
	logger    *slog.Logger
	repo      Repository
	audit     *shared.AuditLogger
	validator *validator.Validate
}

func NewHandler(logger *slog.Logger, repo Repository, audit *shared.AuditLogger) *Handler {
	return &Handler{logger: logger, repo: repo, audit: audit, validator: validator.New()}
}

// MountAdminRoutes registers the admin user console.
func (h *Handler) MountAdminRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.show)
	r.Post("/{id}/wallet", h.creditWallet)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	accounts, total, err := h.repo.List(r.Context(), r.URL.Query().Get("search"), limit, (page-1)*limit)
	if err != nil {
		h.logger.Error("list users failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"items":      accounts,
		"pagination": shared.NewPagination(page, limit, total),
	})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	account, err := h.repo.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, account)
}

func (h *Handler) creditWallet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	var req CreditWalletRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	account, err := h.repo.CreditWallet(r.Context(), id, req.Amount)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if h.audit != nil {
		identity, _ := shared.IdentityFromContext(r.Context())
		log := shared.AuditLog{
			ActorID:  identity.UserID,
			Action:   "wallet.credit",
			Entity:   "user",
			EntityID: strconv.FormatInt(id, 10),
			Meta:     map[string]any{"amount": req.Amount, "note": req.Note},
			At:       time.Now(),
		}
		if err := h.audit.Record(r.Context(), log); err != nil {
			h.logger.Warn("audit record failed", slog.Any("error", err))
		}
	}
	httpx.JSON(w, http.StatusOK, account)
}
