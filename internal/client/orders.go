package client

import (
	"context"
	"net/url"
	"slices"

	"github.com/wolfeidau/surplus/internal/models"
)

type orderStatusUpdate struct {
	Status models.OrderStatus `json:"status"`
}

// CreateOrder places an order for items from one store.
func (c *Client) CreateOrder(ctx context.Context, in models.OrderInput) (*models.Order, error) {
	var out models.Order
	if err := c.post(ctx, "/orders", in, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListOrders returns the orders visible to the signed in user, newest first.
func (c *Client) ListOrders(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	if err := c.get(ctx, "/orders", &out, true); err != nil {
		return nil, err
	}

	slices.SortStableFunc(out, func(a, b models.Order) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return out, nil
}

// UpdateOrderStatus moves an order to status.
func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	var out models.Order
	path := "/orders/" + url.PathEscape(id) + "/status"
	if err := c.put(ctx, path, orderStatusUpdate{Status: status}, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// CompleteOrder marks an order as picked up.
func (c *Client) CompleteOrder(ctx context.Context, id string) (*models.Order, error) {
	return c.UpdateOrderStatus(ctx, id, models.OrderCompleted)
}

// FilterOrders returns the orders with status, or all orders when status is empty.
func FilterOrders(orders []models.Order, status models.OrderStatus) []models.Order {
	if status == "" {
		return slices.Clone(orders)
	}

	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out
}
