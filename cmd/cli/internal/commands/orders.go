package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/wolfeidau/surplus/internal/catalog"
	"github.com/wolfeidau/surplus/internal/client"
	"github.com/wolfeidau/surplus/internal/models"
)

type OrdersCmd struct {
	List     OrdersListCmd     `cmd:"" default:"withargs" help:"List orders, newest first"`
	Place    OrdersPlaceCmd    `cmd:"" help:"Order a deal"`
	Complete OrdersCompleteCmd `cmd:"" help:"Mark an order as picked up (sellers)"`
}

type OrdersListCmd struct {
	Status string `help:"Only show orders with this status (pending, completed or cancelled)"`
}

func (c *OrdersListCmd) Run(ctx context.Context, globals *Globals) error {
	status := models.OrderStatus(c.Status)
	switch status {
	case "", models.OrderPending, models.OrderCompleted, models.OrderCancelled:
	default:
		return fmt.Errorf("unknown order status %q", c.Status)
	}

	a, err := newApp(globals)
	if err != nil {
		return err
	}
	if err := a.requireSignIn(); err != nil {
		return err
	}

	orders, err := a.api.ListOrders(ctx)
	if err != nil {
		return fmt.Errorf("failed to list orders: %w", err)
	}

	orders = client.FilterOrders(orders, status)
	if len(orders) == 0 {
		a.println("No orders found.")
		return nil
	}

	a.printf("%-24s %-17s %-16s %-10s %-14s %s\n", "ID", "PLACED", "CUSTOMER", "STATUS", "TOTAL", "ITEMS")
	a.println(strings.Repeat("─", 110))

	for _, o := range orders {
		items := make([]string, 0, len(o.Items))
		for _, it := range o.Items {
			items = append(items, fmt.Sprintf("%dx %s", it.Quantity, it.Food.Name))
		}
		total := o.FinalPrice
		if total == 0 {
			total = o.TotalPrice
		}

		a.printf("%-24s %-17s %-16s %-10s %-14s %s\n",
			truncate(o.ID, 24),
			o.CreatedAt.Local().Format("2006-01-02 15:04"),
			truncate(o.Customer.Username, 16),
			o.Status,
			catalog.FormatPrice(total),
			strings.Join(items, ", "),
		)
	}

	return nil
}

type OrdersPlaceCmd struct {
	Deal     string `arg:"" help:"Deal ID"`
	Quantity int    `help:"Number of portions" default:"1"`
	Coupon   string `help:"Coupon code"`
}

func (c *OrdersPlaceCmd) Run(ctx context.Context, globals *Globals) error {
	if c.Quantity < 1 {
		return fmt.Errorf("quantity must be at least 1")
	}

	a, err := newApp(globals)
	if err != nil {
		return err
	}
	if err := a.requireSignIn(); err != nil {
		return err
	}

	food, err := a.api.GetFood(ctx, c.Deal)
	if err != nil {
		return fmt.Errorf("failed to load deal %s: %w", c.Deal, err)
	}
	if !food.IsAvailable {
		return fmt.Errorf("%s is sold out", food.Name)
	}
	if food.Store == nil {
		return fmt.Errorf("%s is not linked to a store", food.Name)
	}

	order, err := a.api.CreateOrder(ctx, models.OrderInput{
		StoreID:    food.Store.ID,
		Items:      []models.OrderLine{{FoodID: food.ID, Quantity: c.Quantity}},
		CouponCode: c.Coupon,
	})
	if err != nil {
		return fmt.Errorf("failed to place order: %w", err)
	}

	a.printf("Order %s placed: %dx %s from %s\n", order.ID, c.Quantity, food.Name, food.Store.Name)
	return nil
}

type OrdersCompleteCmd struct {
	ID string `arg:"" help:"Order ID"`
}

func (c *OrdersCompleteCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := newApp(globals)
	if err != nil {
		return err
	}
	if err := a.requireSeller(); err != nil {
		return err
	}

	if _, err := a.api.CompleteOrder(ctx, c.ID); err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	a.printf("Order %s marked as completed\n", c.ID)
	return nil
}
