package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cimillas/user-balance/internal/clock"
	"github.com/cimillas/user-balance/internal/domain"
	"github.com/shopspring/decimal"
)

func TestOrderService_CreateOrder(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("moves amount from balance to hold", func(t *testing.T) {
		repo := newFakeOrderRepo(account(1, dec(1000), decimal.Zero))
		bus := &capturingBus{}
		svc := NewOrderService(repo, clock.NewFixed(now), bus)

		token, err := svc.CreateOrder(context.Background(), 1, 7, dec(100))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if token == "" {
			t.Fatalf("expected order token to be set")
		}

		acct := repo.accounts[1]
		if !acct.Balance.Equal(dec(900)) || !acct.Hold.Equal(dec(100)) {
			t.Fatalf("unexpected account state: balance=%s hold=%s", acct.Balance, acct.Hold)
		}

		order, ok := repo.orders[token]
		if !ok {
			t.Fatalf("expected order persisted under token %s", token)
		}
		if order.Status != domain.OrderStatusPending {
			t.Fatalf("expected status pending, got %s", order.Status)
		}
		if order.CreatedAt != now {
			t.Fatalf("expected created_at %v, got %v", now, order.CreatedAt)
		}
		if got := bus.byType(domain.OrderPlaced); len(got) != 1 {
			t.Fatalf("expected 1 order placed event, got %d", len(got))
		}
	})

	t.Run("insufficient balance fails without mutation", func(t *testing.T) {
		repo := newFakeOrderRepo(account(1, dec(50), decimal.Zero))
		svc := NewOrderService(repo, clock.NewFixed(now), &capturingBus{})

		_, err := svc.CreateOrder(context.Background(), 1, 7, dec(100))
		if err != domain.ErrInsufficientFunds {
			t.Fatalf("expected ErrInsufficientFunds, got %v", err)
		}
		if !repo.accounts[1].Balance.Equal(dec(50)) || !repo.accounts[1].Hold.IsZero() {
			t.Fatalf("expected account unchanged, got %+v", repo.accounts[1])
		}
		if len(repo.orders) != 0 {
			t.Fatalf("expected no orders persisted")
		}
	})

	t.Run("unknown account fails", func(t *testing.T) {
		repo := newFakeOrderRepo()
		svc := NewOrderService(repo, clock.NewFixed(now), &capturingBus{})

		if _, err := svc.CreateOrder(context.Background(), 9, 7, dec(10)); err != domain.ErrAccountNotFound {
			t.Fatalf("expected ErrAccountNotFound, got %v", err)
		}
	})

	t.Run("non-positive amount fails", func(t *testing.T) {
		repo := newFakeOrderRepo(account(1, dec(1000), decimal.Zero))
		svc := NewOrderService(repo, clock.NewFixed(now), &capturingBus{})

		if _, err := svc.CreateOrder(context.Background(), 1, 7, decimal.Zero); err != domain.ErrInvalidAmount {
			t.Fatalf("expected ErrInvalidAmount, got %v", err)
		}
	})

	t.Run("persistence failure rolls the whole unit back", func(t *testing.T) {
		repo := newFakeOrderRepo(account(1, dec(1000), decimal.Zero))
		repo.createOrderErr = errors.New("disk full")
		svc := NewOrderService(repo, clock.NewFixed(now), &capturingBus{})

		_, err := svc.CreateOrder(context.Background(), 1, 7, dec(100))
		if err == nil {
			t.Fatalf("expected error")
		}
		if !repo.accounts[1].Balance.Equal(dec(1000)) || !repo.accounts[1].Hold.IsZero() {
			t.Fatalf("expected account rolled back, got %+v", repo.accounts[1])
		}
	})
}

func TestOrderService_Resolve(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)

	placeOrder := func(t *testing.T, svc *OrderService) string {
		t.Helper()
		token, err := svc.CreateOrder(context.Background(), 1, 7, dec(100))
		if err != nil {
			t.Fatalf("create order: %v", err)
		}
		return token
	}

	t.Run("confirm releases hold and keeps balance reduced", func(t *testing.T) {
		repo := newFakeOrderRepo(account(1, dec(1000), decimal.Zero))
		bus := &capturingBus{}
		svc := NewOrderService(repo, clock.NewFixed(now), bus)
		token := placeOrder(t, svc)

		order, err := svc.ConfirmOrder(context.Background(), token)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if order.Status != domain.OrderStatusConfirmed {
			t.Fatalf("expected status confirmed, got %s", order.Status)
		}

		acct := repo.accounts[1]
		if !acct.Balance.Equal(dec(900)) || !acct.Hold.IsZero() {
			t.Fatalf("expected balance=900 hold=0, got balance=%s hold=%s", acct.Balance, acct.Hold)
		}
		if got := bus.byType(domain.OrderResolved); len(got) != 1 {
			t.Fatalf("expected 1 order resolved event, got %d", len(got))
		}
	})

	t.Run("reject refunds the hold exactly", func(t *testing.T) {
		repo := newFakeOrderRepo(account(1, dec(1000), decimal.Zero))
		svc := NewOrderService(repo, clock.NewFixed(now), &capturingBus{})
		token := placeOrder(t, svc)

		order, err := svc.RejectOrder(context.Background(), token)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if order.Status != domain.OrderStatusRejected {
			t.Fatalf("expected status rejected, got %s", order.Status)
		}

		acct := repo.accounts[1]
		if !acct.Balance.Equal(dec(1000)) || !acct.Hold.IsZero() {
			t.Fatalf("expected pre-order state restored, got balance=%s hold=%s", acct.Balance, acct.Hold)
		}
	})

	t.Run("second resolution conflicts and changes nothing", func(t *testing.T) {
		repo := newFakeOrderRepo(account(1, dec(1000), decimal.Zero))
		svc := NewOrderService(repo, clock.NewFixed(now), &capturingBus{})
		token := placeOrder(t, svc)

		if _, err := svc.ConfirmOrder(context.Background(), token); err != nil {
			t.Fatalf("first confirm: %v", err)
		}

		for _, resolve := range []func(context.Context, string) (domain.Order, error){svc.ConfirmOrder, svc.RejectOrder} {
			if _, err := resolve(context.Background(), token); err != domain.ErrOrderNotPending {
				t.Fatalf("expected ErrOrderNotPending, got %v", err)
			}
		}

		acct := repo.accounts[1]
		if !acct.Balance.Equal(dec(900)) || !acct.Hold.IsZero() {
			t.Fatalf("expected state unchanged after conflicts, got balance=%s hold=%s", acct.Balance, acct.Hold)
		}
		if repo.orders[token].Status != domain.OrderStatusConfirmed {
			t.Fatalf("expected order to stay confirmed")
		}
	})

	t.Run("unknown token fails with not found", func(t *testing.T) {
		repo := newFakeOrderRepo(account(1, dec(1000), decimal.Zero))
		svc := NewOrderService(repo, clock.NewFixed(now), &capturingBus{})

		if _, err := svc.ConfirmOrder(context.Background(), "missing"); err != domain.ErrOrderNotFound {
			t.Fatalf("expected ErrOrderNotFound, got %v", err)
		}
	})
}

type fakeOrderRepo struct {
	txMu           sync.Mutex
	accounts       map[int64]domain.Account
	orders         map[string]domain.Order
	nextOrderID    int64
	createOrderErr error
}

func newFakeOrderRepo(accounts ...domain.Account) *fakeOrderRepo {
	f := &fakeOrderRepo{
		accounts: make(map[int64]domain.Account),
		orders:   make(map[string]domain.Order),
	}
	for i, a := range accounts {
		a.ID = int64(i + 1)
		f.accounts[a.OwnerID] = a
	}
	return f
}

func (f *fakeOrderRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.txMu.Lock()
	defer f.txMu.Unlock()

	accountSnapshot := make(map[int64]domain.Account, len(f.accounts))
	for k, v := range f.accounts {
		accountSnapshot[k] = v
	}
	orderSnapshot := make(map[string]domain.Order, len(f.orders))
	for k, v := range f.orders {
		orderSnapshot[k] = v
	}

	if err := fn(ctx); err != nil {
		f.accounts = accountSnapshot
		f.orders = orderSnapshot
		return err
	}
	return nil
}

func (f *fakeOrderRepo) GetAccountForUpdate(_ context.Context, ownerID int64) (domain.Account, error) {
	a, ok := f.accounts[ownerID]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	return a, nil
}

func (f *fakeOrderRepo) SetFunds(_ context.Context, ownerID int64, balance, hold decimal.Decimal, now time.Time) error {
	a, ok := f.accounts[ownerID]
	if !ok {
		return domain.ErrAccountNotFound
	}
	if balance.IsNegative() || hold.IsNegative() {
		return domain.ErrInsufficientFunds
	}
	a.Balance = balance
	a.Hold = hold
	a.UpdatedAt = now
	f.accounts[ownerID] = a
	return nil
}

func (f *fakeOrderRepo) CreateOrder(_ context.Context, order domain.Order) error {
	if f.createOrderErr != nil {
		return f.createOrderErr
	}
	f.nextOrderID++
	order.ID = f.nextOrderID
	f.orders[order.Token] = order
	return nil
}

func (f *fakeOrderRepo) GetByTokenForUpdate(_ context.Context, token string) (domain.Order, error) {
	o, ok := f.orders[token]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return o, nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, token string, status domain.OrderStatus) error {
	o, ok := f.orders[token]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.Status = status
	f.orders[token] = o
	return nil
}
