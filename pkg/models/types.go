package models

import (
	"time"
)

/*
LOAD → read-only snapshots supplied by the repository. The engine never mutates them.
*/

// OrderStatus is the lifecycle state of an order as stored by the shop.
type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusShipped    OrderStatus = "SHIPPED"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCompleted  OrderStatus = "COMPLETED"
	StatusCancelled  OrderStatus = "CANCELLED"
	StatusRefunded   OrderStatus = "REFUNDED"
)

// Order is a single order row. CustomerID is nil for guest checkouts.
type Order struct {
	ID         string      `json:"id" yaml:"id"`
	CustomerID *string     `json:"customerId" yaml:"customerId"`
	CreatedAt  time.Time   `json:"createdAt" yaml:"createdAt"`
	Total      float64     `json:"total" yaml:"total"`
	Status     OrderStatus `json:"status" yaml:"status"`
}

// Qualifies reports whether the order takes part in aggregations.
func (o Order) Qualifies() bool {
	return o.Status != StatusCancelled
}

// OrderItem is one order line, priced at the unit price paid at the time of sale.
type OrderItem struct {
	OrderID     string  `json:"orderId" yaml:"orderId"`
	ProductID   string  `json:"productId" yaml:"productId"`
	ProductName string  `json:"productName" yaml:"productName"`
	Category    string  `json:"category" yaml:"category"`
	Quantity    int     `json:"quantity" yaml:"quantity"`
	Price       float64 `json:"price" yaml:"price"`
}

// Customer is a customer paired with its order history, oldest order first.
type Customer struct {
	ID        string    `json:"id" yaml:"id"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	Name      string    `json:"name" yaml:"name"`
	Email     string    `json:"email" yaml:"email"`
	Orders    []Order   `json:"orders" yaml:"orders"`
}

// DateRange is an inclusive [Start, End] window.
type DateRange struct {
	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`
}

// Contains reports whether t falls inside the inclusive range.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// OrderFilter narrows FindOrders. Cancelled orders are excluded unless asked for.
type OrderFilter struct {
	IncludeCancelled bool
}
