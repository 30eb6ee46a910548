package domain

import "errors"

var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrOrderNotPending   = errors.New("order already resolved")
	ErrInvalidToken      = errors.New("invalid order token")
	ErrInvalidPeriod     = errors.New("invalid report period")
)
