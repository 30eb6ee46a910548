package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusRejected  OrderStatus = "rejected"
)

// Order represents funds reserved against a service purchase. A pending
// order resolves exactly once, to confirmed (paid out) or rejected (refunded).
type Order struct {
	ID        int64
	OwnerID   int64
	ServiceID int64
	Amount    decimal.Decimal
	Token     string
	Status    OrderStatus
	CreatedAt time.Time
}
