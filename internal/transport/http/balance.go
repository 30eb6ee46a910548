package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/cimillas/user-balance/internal/domain"
	"github.com/shopspring/decimal"
)

// BalanceReader is the minimal interface needed to read an account.
type BalanceReader interface {
	Balance(ctx context.Context, ownerID int64) (domain.Account, error)
}

// HandleBalance returns an HTTP handler for reading an owner's balance.
func HandleBalance(svc BalanceReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		ownerID, err := strconv.ParseInt(r.URL.Query().Get("owner_id"), 10, 64)
		if err != nil || ownerID <= 0 {
			writeError(w, http.StatusBadRequest, codeInvalidOwnerID, "owner_id must be a positive integer")
			return
		}

		account, err := svc.Balance(r.Context(), ownerID)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(balanceResponse{
			OwnerID: account.OwnerID,
			Balance: account.Balance,
			Hold:    account.Hold,
		})
	}
}

type balanceResponse struct {
	OwnerID int64           `json:"owner_id"`
	Balance decimal.Decimal `json:"balance"`
	Hold    decimal.Decimal `json:"hold"`
}
