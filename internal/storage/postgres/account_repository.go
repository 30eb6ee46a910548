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

type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

func (r *AccountRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *AccountRepository) GetByOwner(ctx context.Context, ownerID int64) (domain.Account, error) {
	const query = `
SELECT id, owner_id, balance, hold, created_at, updated_at
FROM accounts
WHERE owner_id = $1`

	return r.scanAccount(r.queryRow(ctx, query, ownerID))
}

func (r *AccountRepository) GetByOwnerForUpdate(ctx context.Context, ownerID int64) (domain.Account, error) {
	const query = `
SELECT id, owner_id, balance, hold, created_at, updated_at
FROM accounts
WHERE owner_id = $1
FOR UPDATE`

	return r.scanAccount(r.queryRow(ctx, query, ownerID))
}

// LockPairForUpdate locks both owners' rows in ascending account-id order,
// so concurrent opposite transfers always acquire locks in the same order.
// Absent accounts are simply missing from the result map.
func (r *AccountRepository) LockPairForUpdate(ctx context.Context, ownerA, ownerB int64) (map[int64]domain.Account, error) {
	const query = `
SELECT id, owner_id, balance, hold, created_at, updated_at
FROM accounts
WHERE owner_id = ANY($1::bigint[])
ORDER BY id
FOR UPDATE`

	rows, err := r.query(ctx, query, []int64{ownerA, ownerB})
	if err != nil {
		return nil, fmt.Errorf("lock account pair: %w", err)
	}
	defer rows.Close()

	accounts := make(map[int64]domain.Account, 2)
	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(&a.ID, &a.OwnerID, &a.Balance, &a.Hold, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts[a.OwnerID] = a
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("lock account pair: %w", err)
	}
	return accounts, nil
}

// Credit adds amount to the owner's balance, creating the account on the
// first deposit. The upsert is a single statement, so two racing first
// deposits cannot both insert.
func (r *AccountRepository) Credit(ctx context.Context, ownerID int64, amount decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	const stmt = `
INSERT INTO accounts (owner_id, balance, hold, created_at, updated_at)
VALUES ($1, $2, 0, $3, $3)
ON CONFLICT (owner_id) DO UPDATE
SET balance = accounts.balance + EXCLUDED.balance, updated_at = EXCLUDED.updated_at
RETURNING balance`

	var balance decimal.Decimal
	if err := r.queryRow(ctx, stmt, ownerID, amount, now).Scan(&balance); err != nil {
		return decimal.Decimal{}, fmt.Errorf("credit account: %w", err)
	}
	return balance, nil
}

// SetFunds writes absolute balance and hold values. Callers must hold the
// row lock from the same transaction.
func (r *AccountRepository) SetFunds(ctx context.Context, ownerID int64, balance, hold decimal.Decimal, now time.Time) error {
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

func (r *AccountRepository) scanAccount(row pgx.Row) (domain.Account, error) {
	var a domain.Account
	err := row.Scan(&a.ID, &a.OwnerID, &a.Balance, &a.Hold, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Account{}, domain.ErrAccountNotFound
		}
		return domain.Account{}, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

func (r *AccountRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *AccountRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}

func (r *AccountRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
