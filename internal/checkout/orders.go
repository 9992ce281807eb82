package checkout

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/luxeshop/storefront/internal/domain"
	"github.com/luxeshop/storefront/pkg/errors"
)

// Orders is the admin view over all orders
type Orders struct {
	store  OrderStore
	events EventRecorder
	logger *zap.Logger
}

// NewOrders creates the admin order service
func NewOrders(store OrderStore, events EventRecorder, logger *zap.Logger) *Orders {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orders{store: store, events: events, logger: logger}
}

// FetchOrders lists every order, newest first
func (o *Orders) FetchOrders(ctx context.Context) ([]domain.Order, error) {
	return o.store.ListOrders(ctx)
}

// FetchByNumber returns (nil, nil) when no order has the number
func (o *Orders) FetchByNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	return o.store.OrderByNumber(ctx, orderNumber)
}

// UpdateStatus moves an order one step along pending, processing, shipped, delivered
func (o *Orders) UpdateStatus(ctx context.Context, orderNumber string, status domain.OrderStatus, actor string) (*domain.Order, error) {
	status = domain.OrderStatus(strings.ToLower(string(status)))
	if !status.IsValid() {
		return nil, &errors.ErrValidation{
			Message: "invalid order status",
			Fields:  map[string]string{"status": "must be one of pending, processing, shipped, delivered"},
		}
	}

	order, err := o.store.OrderByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, &errors.ErrNotFound{Resource: "order", ID: orderNumber}
	}
	if !order.Status.CanTransitionTo(status) {
		return nil, &errors.ErrInvalidStateTransition{From: string(order.Status), To: string(status)}
	}

	if err := o.store.UpdateOrderStatus(ctx, order.ID, status); err != nil {
		return nil, err
	}

	previous := order.Status
	order.Status = status
	recordEvent(ctx, o.events, o.logger, &domain.OrderEvent{
		OrderNumber: orderNumber,
		ClientID:    actor,
		EventType:   EventStatusChanged,
		EventData: map[string]interface{}{
			"from": string(previous),
			"to":   string(status),
		},
	})
	o.logger.Info("Order status updated",
		zap.String("order_number", orderNumber),
		zap.String("from", string(previous)),
		zap.String("to", string(status)),
	)
	return order, nil
}
