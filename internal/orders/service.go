package orders

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/trigardening/trigardening/internal/platform/httpx"
)

// Notifier receives post-commit order events (e.g. confirmation email jobs).
type Notifier interface {
	NotifyOrderPlaced(ctx context.Context, order *Order) error
}

// PlacementRecorder counts successful placements for observability.
type PlacementRecorder interface {
	OrderPlaced()
}

// Service orchestrates the order placement workflow and query surface.
type Service struct {
	repo     Repository
	notifier Notifier
	metrics  PlacementRecorder
	logger   *slog.Logger
}

func NewService(repo Repository, notifier Notifier, metrics PlacementRecorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, notifier: notifier, metrics: metrics, logger: logger}
}

// Place atomically validates stock, decrements it, prices the order from the
// variants' current prices, assigns the next sequential code, debits the
// wallet when requested, and persists the order with its line items. Any
// precondition failure rolls the whole transaction back.
func (s *Service) Place(ctx context.Context, userID int64, req CreateOrderRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: order requires at least one item", httpx.ErrValidation)
	}
	if req.DeliveryCharge < 0 {
		return nil, fmt.Errorf("%w: delivery charge cannot be negative", httpx.ErrValidation)
	}
	for _, line := range req.Items {
		if line.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity must be at least 1", httpx.ErrValidation)
		}
	}

	var orderID int64
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		// Lock variant rows in a stable order so two concurrent placements
		// over the same variants cannot deadlock.
		required := make(map[uuid.UUID]int)
		distinct := make([]uuid.UUID, 0, len(req.Items))
		for _, line := range req.Items {
			if _, seen := required[line.VariantID]; !seen {
				distinct = append(distinct, line.VariantID)
			}
			required[line.VariantID] += line.Quantity
		}
		sort.Slice(distinct, func(i, j int) bool {
			return bytes.Compare(distinct[i][:], distinct[j][:]) < 0
		})

		variants := make(map[uuid.UUID]VariantState, len(distinct))
		for _, id := range distinct {
			state, err := tx.GetVariantForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if state.Stock < required[id] {
				return &InsufficientStockError{Title: state.Title, Available: state.Stock}
			}
			variants[id] = state
		}

		var subTotal int64
		items := make([]OrderItem, 0, len(req.Items))
		for _, line := range req.Items {
			state := variants[line.VariantID]
			if err := tx.DecrementStock(ctx, line.VariantID, line.Quantity); err != nil {
				return err
			}
			subTotal += state.Price * int64(line.Quantity)
			variantID := line.VariantID
			items = append(items, OrderItem{
				VariantID:       &variantID,
				Quantity:        line.Quantity,
				TitleAtPurchase: state.Title,
				PriceAtPurchase: state.Price,
			})
		}

		totalAmount := subTotal + req.DeliveryCharge
		var walletDiscount int64
		if req.UseWallet {
			balance, err := tx.GetWalletForUpdate(ctx, userID)
			if err != nil {
				return err
			}
			walletDiscount = min(totalAmount, balance)
			if walletDiscount > 0 {
				if err := tx.DebitWallet(ctx, userID, walletDiscount); err != nil {
					return err
				}
			}
		}

		code, err := tx.NextOrderCode(ctx)
		if err != nil {
			return err
		}

		order := Order{
			OrderID: code,
			UserID:  userID,
			Shipping: ShippingAddress{
				FullName:    req.ShippingAddress.FullName,
				Phone:       req.ShippingAddress.Phone,
				Thana:       req.ShippingAddress.Thana,
				District:    req.ShippingAddress.District,
				FullAddress: req.ShippingAddress.FullAddress,
			},
			SubTotal:       subTotal,
			DeliveryCharge: req.DeliveryCharge,
			TotalAmount:    totalAmount,
			WalletDiscount: walletDiscount,
			PayableAmount:  totalAmount - walletDiscount,
			Status:         OrderStatusProcessing,
		}
		orderID, err = tx.InsertOrder(ctx, order)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		for _, item := range items {
			item.OrderID = orderID
			if _, err := tx.InsertItem(ctx, item); err != nil {
				return fmt.Errorf("insert order item: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	placed, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.OrderPlaced()
	}
	if s.notifier != nil {
		if err := s.notifier.NotifyOrderPlaced(ctx, placed); err != nil && s.logger != nil {
			s.logger.Warn("order placed notification failed", slog.String("order", placed.OrderID), slog.Any("error", err))
		}
	}
	return placed, nil
}

// ListForUser returns the caller's orders newest first, optionally filtered by
// a case-insensitive match on the order code or any item's purchase title.
func (s *Service) ListForUser(ctx context.Context, userID int64, search string) ([]Order, error) {
	search = norm.NFC.String(strings.TrimSpace(search))
	return s.repo.ListByUser(ctx, userID, search)
}

// GetForUser fetches one order and enforces ownership.
func (s *Service) GetForUser(ctx context.Context, userID int64, id int64) (*Order, error) {
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, httpx.ErrNotFound
	}
	return order, nil
}

// AdminList returns all orders with the optional status/day filters applied.
func (s *Service) AdminList(ctx context.Context, filter AdminListFilter) ([]Order, error) {
	if filter.Status != nil && !ValidStatus(*filter.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", httpx.ErrValidation, *filter.Status)
	}
	return s.repo.ListAdmin(ctx, filter)
}

// UpdateStatus overwrites the status of the order with the given code. Any
// status may be set to any other; transitions are administrative.
func (s *Service) UpdateStatus(ctx context.Context, code string, status OrderStatus) (*Order, error) {
	if !ValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", httpx.ErrValidation, status)
	}
	if err := s.repo.UpdateStatus(ctx, code, status); err != nil {
		return nil, err
	}
	return s.repo.GetByCode(ctx, code)
}

// Delete hard-deletes an order by internal id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
