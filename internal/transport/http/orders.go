package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/cimillas/user-balance/internal/domain"
	"github.com/shopspring/decimal"
)

// OrderCreator is the minimal interface needed to place an order.
type OrderCreator interface {
	CreateOrder(ctx context.Context, ownerID, serviceID int64, amount decimal.Decimal) (string, error)
}

// OrderResolver is the minimal interface needed to confirm or reject an order.
type OrderResolver interface {
	ConfirmOrder(ctx context.Context, token string) (domain.Order, error)
	RejectOrder(ctx context.Context, token string) (domain.Order, error)
}

// HandleCreateOrder returns an HTTP handler for placing escrow orders.
func HandleCreateOrder(svc OrderCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req createOrderRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if req.OwnerID <= 0 || req.ServiceID <= 0 {
			writeError(w, http.StatusBadRequest, codeInvalidOwnerID, "owner_id and service_id are required")
			return
		}

		token, err := svc.CreateOrder(r.Context(), req.OwnerID, req.ServiceID, req.Amount)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(createOrderResponse{OrderToken: token})
	}
}

// HandleResolveOrder returns an HTTP handler for POST
// /v1/orders/{token}/resolve with a boolean decision.
func HandleResolveOrder(svc OrderResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		token, ok := parseResolveOrderPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		var req resolveOrderRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		var (
			order domain.Order
			err   error
		)
		if req.Decision {
			order, err = svc.ConfirmOrder(r.Context(), token)
		} else {
			order, err = svc.RejectOrder(r.Context(), token)
		}
		if err != nil {
			writeDomainError(w, err)
			return
		}

		msg := fmt.Sprintf("order %s was rejected, funds refunded", order.Token)
		if order.Status == domain.OrderStatusConfirmed {
			msg = fmt.Sprintf("order %s was confirmed", order.Token)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(resolveOrderResponse{
			OrderToken: order.Token,
			Status:     string(order.Status),
			Message:    msg,
		})
	}
}

func parseResolveOrderPath(path string) (string, bool) {
	rest, ok := strings.CutPrefix(path, "/v1/orders/")
	if !ok {
		return "", false
	}
	token, ok := strings.CutSuffix(rest, "/resolve")
	if !ok || token == "" || strings.Contains(token, "/") {
		return "", false
	}
	return token, true
}

type createOrderRequest struct {
	OwnerID   int64           `json:"owner_id"`
	ServiceID int64           `json:"service_id"`
	Amount    decimal.Decimal `json:"amount"`
}

type createOrderResponse struct {
	OrderToken string `json:"order_token"`
}

type resolveOrderRequest struct {
	Decision bool `json:"decision"`
}

type resolveOrderResponse struct {
	OrderToken string `json:"order_token"`
	Status     string `json:"status"`
	Message    string `json:"message"`
}
