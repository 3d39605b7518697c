package domain

import "time"

type OrderStatus string

const (
	OrderStatusPlaced    OrderStatus = "placed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s is one of the fixed status values.
// Any transition between valid statuses is permitted.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPlaced, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID          int64       `db:"id" json:"id"`
	UserID      int64       `db:"user_id" json:"user"`
	ProductID   int64       `db:"product_id" json:"product"`
	Quantity    int64       `db:"quantity" json:"quantity"`
	Status      OrderStatus `db:"status" json:"status"`
	Name        string      `db:"name" json:"name"`
	Phone       string      `db:"phone" json:"phone"`
	AddressLine string      `db:"address_line" json:"address_line"`
	City        string      `db:"city" json:"city"`
	ZipCode     string      `db:"zip_code" json:"zip_code"`
	CreatedAt   time.Time   `db:"created_at" json:"date"`
}

type ShippingInfo struct {
	Name        string
	Phone       string
	AddressLine string
	City        string
	ZipCode     string
}

type OrderFilter struct {
	UserID    *int64
	ProductID *int64
	Status    *OrderStatus
}
