package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cimillas/user-balance/internal/clock"
	"github.com/cimillas/user-balance/internal/domain"
	"github.com/shopspring/decimal"
)

type AccountRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetByOwner(ctx context.Context, ownerID int64) (domain.Account, error)
	LockPairForUpdate(ctx context.Context, ownerA, ownerB int64) (map[int64]domain.Account, error)
	Credit(ctx context.Context, ownerID int64, amount decimal.Decimal, now time.Time) (decimal.Decimal, error)
	SetFunds(ctx context.Context, ownerID int64, balance, hold decimal.Decimal, now time.Time) error
}

// TransferService moves money into and between accounts. Every mutation runs
// as one transaction with all precondition checks on rows locked inside it.
type TransferService struct {
	repo  AccountRepository
	clock clock.Clock
	bus   Publisher
}

func NewTransferService(repo AccountRepository, clk clock.Clock, bus Publisher) *TransferService {
	return &TransferService{
		repo:  repo,
		clock: clk,
		bus:   bus,
	}
}

// Deposit credits the owner's account, creating it on the first deposit.
// Returns the new balance.
func (s *TransferService) Deposit(ctx context.Context, ownerID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Decimal{}, domain.ErrInvalidAmount
	}

	now := s.clock.Now()
	var balance decimal.Decimal

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		b, err := s.repo.Credit(txCtx, ownerID, amount, now)
		if err != nil {
			return err
		}
		balance = b
		return nil
	})
	if err != nil {
		return decimal.Decimal{}, err
	}

	s.bus.Publish(domain.BalanceToppedUp, domain.BalanceToppedUpEvent{
		OwnerID: ownerID,
		Amount:  amount.String(),
		Text:    fmt.Sprintf("owner %d topped up balance by %s", ownerID, amount),
	})
	return balance, nil
}

// Transfer debits the sender and credits the recipient atomically. Both rows
// are locked in a fixed global order before the funds check runs.
func (s *TransferService) Transfer(ctx context.Context, senderID, recipientID int64, amount decimal.Decimal) error {
	if !amount.IsPositive() || senderID == recipientID {
		return domain.ErrInvalidAmount
	}

	now := s.clock.Now()

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		accounts, err := s.repo.LockPairForUpdate(txCtx, senderID, recipientID)
		if err != nil {
			return err
		}
		sender, ok := accounts[senderID]
		if !ok {
			return domain.ErrAccountNotFound
		}
		recipient, ok := accounts[recipientID]
		if !ok {
			return domain.ErrAccountNotFound
		}

		if sender.Balance.LessThan(amount) {
			return domain.ErrInsufficientFunds
		}

		if err := s.repo.SetFunds(txCtx, senderID, sender.Balance.Sub(amount), sender.Hold, now); err != nil {
			return err
		}
		return s.repo.SetFunds(txCtx, recipientID, recipient.Balance.Add(amount), recipient.Hold, now)
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientFunds) {
			s.bus.Publish(domain.TransferOutcome, domain.TransferOutcomeEvent{
				SenderID:    senderID,
				RecipientID: recipientID,
				Amount:      amount.String(),
				Text:        fmt.Sprintf("transfer of %s from owner %d to owner %d declined: insufficient funds", amount, senderID, recipientID),
			})
		}
		return err
	}

	s.bus.Publish(domain.TransferOutcome, domain.TransferOutcomeEvent{
		SenderID:    senderID,
		RecipientID: recipientID,
		Amount:      amount.String(),
		Text:        fmt.Sprintf("owner %d transferred %s to owner %d", senderID, amount, recipientID),
	})
	return nil
}

// Balance returns the account for read-only reporting at the boundary.
func (s *TransferService) Balance(ctx context.Context, ownerID int64) (domain.Account, error) {
	return s.repo.GetByOwner(ctx, ownerID)
}
