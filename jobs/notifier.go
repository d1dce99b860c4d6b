package jobs

import (
	"context"

	"github.com/trigardening/trigardening/internal/orders"
)

// OrderNotifier bridges order placement to the job queue.
type OrderNotifier struct {
	Client *Client
}

func (n *OrderNotifier) NotifyOrderPlaced(ctx context.Context, order *orders.Order) error {
	if n == nil || n.Client == nil {
		return nil
	}
	_, err := n.Client.EnqueueOrderConfirm(ctx, OrderConfirmPayload{
		OrderCode:     order.OrderID,
		CustomerName:  order.Shipping.FullName,
		CustomerPhone: order.Shipping.Phone,
		PayableAmount: order.PayableAmount,
		ItemCount:     len(order.Items),
	})
	return err
}
