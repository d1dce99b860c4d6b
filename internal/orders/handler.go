package orders

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
	service   *Service
	audit     *shared.AuditLogger
	validator *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service, audit *shared.AuditLogger) *Handler {
	return &Handler{logger: logger, service: service, audit: audit, validator: validator.New()}
}

// MountRoutes registers the customer order surface. Callers must already be
// authenticated; ownership is enforced per request.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.show)
}

// MountAdminRoutes registers the admin order surface.
func (h *Handler) MountAdminRoutes(r chi.Router) {
	r.Get("/", h.adminList)
	r.Post("/", h.adminCreate)
	r.Put("/status", h.updateStatus)
	r.Delete("/{id}", h.delete)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	var req CreateOrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	order, err := h.service.Place(r.Context(), identity.UserID, req)
	if err != nil {
		h.logger.Warn("order placement rejected", slog.Int64("user", identity.UserID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, order)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	orders, err := h.service.ListForUser(r.Context(), identity.UserID, r.URL.Query().Get("search"))
	if err != nil {
		h.logger.Error("list orders failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, orders)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
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
	order, err := h.service.GetForUser(r.Context(), identity.UserID, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) adminList(w http.ResponseWriter, r *http.Request) {
	var filter AdminListFilter
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := OrderStatus(raw)
		filter.Status = &status
	}
	if raw := r.URL.Query().Get("date"); raw != "" {
		day, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "date must be YYYY-MM-DD")
			return
		}
		filter.Day = &day
	}
	orders, err := h.service.AdminList(r.Context(), filter)
	if err != nil {
		h.logger.Error("admin list orders failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, orders)
}

func (h *Handler) adminCreate(w http.ResponseWriter, r *http.Request) {
	var req AdminCreateOrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	order, err := h.service.Place(r.Context(), req.UserID, req.CreateOrderRequest)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.recordAudit(r, "order.create", order.OrderID, map[string]any{"on_behalf_of": req.UserID})
	httpx.JSON(w, http.StatusCreated, order)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	order, err := h.service.UpdateStatus(r.Context(), req.OrderID, req.Status)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.recordAudit(r, "order.status", order.OrderID, map[string]any{"status": string(order.Status)})
	httpx.JSON(w, http.StatusOK, order)
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
	h.recordAudit(r, "order.delete", strconv.FormatInt(id, 10), nil)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) recordAudit(r *http.Request, action, entityID string, meta map[string]any) {
	if h.audit == nil {
		return
	}
	identity, _ := shared.IdentityFromContext(r.Context())
	log := shared.AuditLog{ActorID: identity.UserID, Action: action, Entity: "order", EntityID: entityID, Meta: meta, At: time.Now()}
	if err := h.audit.Record(r.Context(), log); err != nil {
		h.logger.Warn("audit record failed", slog.String("action", action), slog.Any("error", err))
	}
}
