package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

// Transferrer is the minimal interface needed to move money between owners.
type Transferrer interface {
	Transfer(ctx context.Context, senderID, recipientID int64, amount decimal.Decimal) error
}

// HandleTransfer returns an HTTP handler for peer-to-peer transfers.
func HandleTransfer(svc Transferrer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req transferRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if req.SenderID <= 0 || req.RecipientID <= 0 {
			writeError(w, http.StatusBadRequest, codeInvalidOwnerID, "sender_id and recipient_id are required")
			return
		}

		if err := svc.Transfer(r.Context(), req.SenderID, req.RecipientID, req.Amount); err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(transferResponse{
			Message: fmt.Sprintf("owner %d transferred %s to owner %d", req.SenderID, req.Amount, req.RecipientID),
		})
	}
}

type transferRequest struct {
	SenderID    int64           `json:"sender_id"`
	RecipientID int64           `json:"recipient_id"`
	Amount      decimal.Decimal `json:"amount"`
}

type transferResponse struct {
	Message string `json:"message"`
}
