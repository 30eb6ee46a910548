package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/cimillas/user-balance/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *OrderRepository) GetAccountForUpdate(ctx context.Context, ownerID int64) (domain.Account, error) {
	const query = `
SELECT id, owner_id, balance, hold, created_at, updated_at
FROM accounts
WHERE owner_id = $1
FOR UPDATE`

	var a domain.Account
	err := r.queryRow(ctx, query, ownerID).
		Scan(&a.ID, &a.OwnerID, &a.Balance, &a.Hold, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Account{}, domain.ErrAccountNotFound
		}
		return domain.Account{}, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

func (r *OrderRepository) SetFunds(ctx context.Context, ownerID int64, balance, hold decimal.Decimal, now time.Time) error {
	const stmt = `
UPDATE accounts
SET balance = $2, hold = $3, updated_at = $4
WHERE owner_id = $1`

	tag, err := r.exec(ctx, stmt, ownerID, balance, hold, now)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInsufficientFunds
		}
		return fmt.Errorf("set funds: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *OrderRepository) CreateOrder(ctx context.Context, order domain.Order) error {
	const stmt = `
INSERT INTO orders (owner_id, service_id, amount, token, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.exec(ctx, stmt,
		order.OwnerID,
		order.ServiceID,
		order.Amount,
		order.Token,
		order.Status,
		order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

func (r *OrderRepository) GetByTokenForUpdate(ctx context.Context, token string) (domain.Order, error) {
	const query = `
SELECT id, owner_id, service_id, amount, token, status, created_at
FROM orders
WHERE token = $1
FOR UPDATE`

	var o domain.Order
	var status string
	err := r.queryRow(ctx, query, token).
		Scan(&o.ID, &o.OwnerID, &o.ServiceID, &o.Amount, &o.Token, &status, &o.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Order{}, domain.ErrInvalidToken
		}
		if err == pgx.ErrNoRows {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}
	o.Status = domain.OrderStatus(status)
	return o, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, token string, status domain.OrderStatus) error {
	const stmt = `UPDATE orders SET status = $2 WHERE token = $1`

	tag, err := r.exec(ctx, stmt, token, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// SumConfirmedByPeriod totals confirmed-order amounts for a service between
// start and end inclusive. Only settled orders count toward revenue.
func (r *OrderRepository) SumConfirmedByPeriod(ctx context.Context, serviceID int64, start, end time.Time) (decimal.Decimal, error) {
	const query = `
SELECT COALESCE(SUM(amount), 0)
FROM orders
WHERE service_id = $1 AND status = 'confirmed' AND created_at >= $2 AND created_at <= $3`

	var sum decimal.Decimal
	if err := r.queryRow(ctx, query, serviceID, start, end).Scan(&sum); err != nil {
		return decimal.Decimal{}, fmt.Errorf("sum confirmed orders: %w", err)
	}
	return sum, nil
}

// ListConfirmedByOwner pages through an owner's confirmed orders. The
// created_at, id ordering keeps pages stable under concurrent inserts.
func (r *OrderRepository) ListConfirmedByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]domain.Order, error) {
	const query = `
SELECT id, owner_id, service_id, amount, token, status, created_at
FROM orders
WHERE owner_id = $1 AND status = 'confirmed'
ORDER BY created_at, id
LIMIT $2 OFFSET $3`

	rows, err := r.query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list confirmed orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		var status string
		if err := rows.Scan(&o.ID, &o.OwnerID, &o.ServiceID, &o.Amount, &o.Token, &status, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		o.Status = domain.OrderStatus(status)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list confirmed orders: %w", err)
	}
	return orders, nil
}

func (r *OrderRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *OrderRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}

func (r *OrderRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
