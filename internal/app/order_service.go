package app

import (
	"context"
	"time"

	"github.com/cimillas/user-balance/internal/clock"
	"github.com/cimillas/user-balance/internal/domain"
	"github.com/shopspring/decimal"
)

type OrderRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetAccountForUpdate(ctx context.Context, ownerID int64) (domain.Account, error)
	SetFunds(ctx context.Context, ownerID int64, balance, hold decimal.Decimal, now time.Time) error
	CreateOrder(ctx context.Context, order domain.Order) error
	GetByTokenForUpdate(ctx context.Context, token string) (domain.Order, error)
	UpdateStatus(ctx context.Context, token string, status domain.OrderStatus) error
}

// OrderService runs the escrow state machine: creating an order moves funds
// from balance to hold; resolution releases the hold, either paying the
// amount out (confirm) or refunding it (reject). Pending is the only
// non-terminal state.
type OrderService struct {
	repo  OrderRepository
	clock clock.Clock
	bus   Publisher
}

func NewOrderService(repo OrderRepository, clk clock.Clock, bus Publisher) *OrderService {
	return &OrderService{
		repo:  repo,
		clock: clk,
		bus:   bus,
	}
}

// CreateOrder reserves amount from the owner's balance and records a pending
// order. Returns the order token.
func (s *OrderService) CreateOrder(ctx context.Context, ownerID, serviceID int64, amount decimal.Decimal) (string, error) {
	if !amount.IsPositive() {
		return "", domain.ErrInvalidAmount
	}

	now := s.clock.Now()
	token := newOrderToken()

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		account, err := s.repo.GetAccountForUpdate(txCtx, ownerID)
		if err != nil {
			return err
		}
		if account.Balance.LessThan(amount) {
			return domain.ErrInsufficientFunds
		}

		if err := s.repo.SetFunds(txCtx, ownerID, account.Balance.Sub(amount), account.Hold.Add(amount), now); err != nil {
			return err
		}
		return s.repo.CreateOrder(txCtx, domain.Order{
			OwnerID:   ownerID,
			ServiceID: serviceID,
			Amount:    amount,
			Token:     token,
			Status:    domain.OrderStatusPending,
			CreatedAt: now,
		})
	})
	if err != nil {
		return "", err
	}

	s.bus.Publish(domain.OrderPlaced, domain.OrderPlacedEvent{
		OwnerID:   ownerID,
		ServiceID: serviceID,
		Amount:    amount.String(),
		Token:     token,
	})
	return token, nil
}

// ConfirmOrder settles a pending order: the hold is released and the amount
// is paid out, so the balance stays reduced.
func (s *OrderService) ConfirmOrder(ctx context.Context, token string) (domain.Order, error) {
	return s.resolve(ctx, token, domain.OrderStatusConfirmed)
}

// RejectOrder refunds a pending order: the hold is released back to balance.
func (s *OrderService) RejectOrder(ctx context.Context, token string) (domain.Order, error) {
	return s.resolve(ctx, token, domain.OrderStatusRejected)
}

func (s *OrderService) resolve(ctx context.Context, token string, status domain.OrderStatus) (domain.Order, error) {
	now := s.clock.Now()
	var resolved domain.Order

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		order, err := s.repo.GetByTokenForUpdate(txCtx, token)
		if err != nil {
			return err
		}
		if order.Status != domain.OrderStatusPending {
			return domain.ErrOrderNotPending
		}

		account, err := s.repo.GetAccountForUpdate(txCtx, order.OwnerID)
		if err != nil {
			return err
		}

		hold := account.Hold.Sub(order.Amount)
		balance := account.Balance
		if status == domain.OrderStatusRejected {
			balance = balance.Add(order.Amount)
		}

		if err := s.repo.SetFunds(txCtx, order.OwnerID, balance, hold, now); err != nil {
			return err
		}
		if err := s.repo.UpdateStatus(txCtx, token, status); err != nil {
			return err
		}

		order.Status = status
		resolved = order
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}

	s.bus.Publish(domain.OrderResolved, domain.OrderResolvedEvent{
		Token:  resolved.Token,
		Status: string(resolved.Status),
	})
	return resolved, nil
}
