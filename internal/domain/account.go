package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account tracks an owner's funds. Balance is the spendable amount; Hold is
// the amount reserved against pending orders. Both stay non-negative.
type Account struct {
	ID        int64
	OwnerID   int64
	Balance   decimal.Decimal
	Hold      decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
