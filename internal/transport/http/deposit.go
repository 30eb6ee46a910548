package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"
)

// Depositor is the minimal interface needed to top up a balance.
type Depositor interface {
	Deposit(ctx context.Context, ownerID int64, amount decimal.Decimal) (decimal.Decimal, error)
}

// HandleDeposit returns an HTTP handler for crediting an account.
func HandleDeposit(svc Depositor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req depositRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if req.OwnerID <= 0 {
			writeError(w, http.StatusBadRequest, codeInvalidOwnerID, "owner_id is required")
			return
		}

		balance, err := svc.Deposit(r.Context(), req.OwnerID, req.Amount)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(depositResponse{
			OwnerID: req.OwnerID,
			Balance: balance,
		})
	}
}

type depositRequest struct {
	OwnerID int64           `json:"owner_id"`
	Amount  decimal.Decimal `json:"amount"`
}

type depositResponse struct {
	OwnerID int64           `json:"owner_id"`
	Balance decimal.Decimal `json:"balance"`
}
