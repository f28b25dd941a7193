package models

import "time"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

// OrderItem is one line of an order with the food populated.
type OrderItem struct {
	Food struct {
		ID     string   `json:"_id"`
		Name   string   `json:"name"`
		Price  float64  `json:"price"`
		Images []string `json:"images"`
	} `json:"foodId"`
	Quantity int `json:"quantity"`
}

// Order is returned by GET /orders.
type Order struct {
	ID       string `json:"_id"`
	Customer struct {
		ID       string `json:"_id"`
		Username string `json:"username"`
	} `json:"customerId"`
	Store      Ref         `json:"storeId"`
	Items      []OrderItem `json:"items"`
	TotalPrice float64     `json:"totalPrice"`
	FinalPrice float64     `json:"finalPrice"`
	Status     OrderStatus `json:"status"`
	CouponCode string      `json:"couponCode,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// OrderLine is one requested item when placing an order.
type OrderLine struct {
	FoodID   string `json:"foodId"`
	Quantity int    `json:"quantity"`
}

// OrderInput is the body for POST /orders.
type OrderInput struct {
	StoreID    string      `json:"storeId"`
	Items      []OrderLine `json:"items"`
	CouponCode string      `json:"couponCode,omitempty"`
}
