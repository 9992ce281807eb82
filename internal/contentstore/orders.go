package contentstore

import (
	"context"
	"fmt"

	"github.com/luxeshop/storefront/internal/domain"
)

// CreateOrder submits an order document and fills in the stored ID
func (c *Client) CreateOrder(ctx context.Context, order *domain.Order) error {
	resp, err := c.Mutate(ctx, CreateMutation("order", orderFields(order)))
	if err != nil {
		return fmt.Errorf("failed to create order %s: %w", order.OrderNumber, err)
	}
	order.ID = resp.firstID()
	return nil
}

// OrderByNumber returns (nil, nil) when no order has the number
func (c *Client) OrderByNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	var doc *orderDoc
	if err := c.Query(ctx, OrderByNumberQuery, map[string]interface{}{"orderNumber": orderNumber}, &doc); err != nil {
		return nil, fmt.Errorf("failed to fetch order: %w", err)
	}
	if doc == nil {
		return nil, nil
	}
	o := doc.toDomain()
	return &o, nil
}

// ListOrders fetches every order, newest first
func (c *Client) ListOrders(ctx context.Context) ([]domain.Order, error) {
	var docs []orderDoc
	if err := c.Query(ctx, OrdersQuery, nil, &docs); err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	orders := make([]domain.Order, 0, len(docs))
	for i := range docs {
		orders = append(orders, docs[i].toDomain())
	}
	return orders, nil
}

// UpdateOrderStatus sets the status of the order document id
func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	if _, err := c.Mutate(ctx, SetMutation(id, map[string]interface{}{"status": string(status)})); err != nil {
		return fmt.Errorf("failed to update order %s: %w", id, err)
	}
	return nil
}
