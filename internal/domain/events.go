package domain

// Events published to the notification topic. Delivery is best-effort:
// produced once after the order transaction commits, failures are logged
// and never retried.

type OrderPlacedEvent struct {
	OrderID int64  `json:"order_id"`
	UserID  int64  `json:"user_id"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type OrderStatusChangedEvent struct {
	OrderID int64  `json:"order_id"`
	UserID  int64  `json:"user_id"`
	Email   string `json:"email"`
	Status  string `json:"status"`
	Message string `json:"message"`
}
