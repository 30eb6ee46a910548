package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cimillas/user-balance/internal/domain"
)

const (
	codeMethodNotAllowed   = "method_not_allowed"
	codeNotFound           = "not_found"
	codeInvalidRequestBody = "invalid_request_body"
	codeInvalidOwnerID     = "invalid_owner_id"
	codeInvalidAmount      = "invalid_amount"
	codeInsufficientFunds  = "insufficient_funds"
	codeAccountNotFound    = "account_not_found"
	codeOrderNotFound      = "order_not_found"
	codeOrderNotPending    = "order_not_pending"
	codeInvalidToken       = "invalid_order_token"
	codeInvalidPeriod      = "invalid_period"
	codeForbidden          = "forbidden"
	codeUnavailable        = "unavailable"
	codeInternalError      = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeDomainError maps engine errors onto the boundary contract:
// not-found 404, invalid input 400, state conflicts 409, storage deadline
// 503, everything else 500.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, codeAccountNotFound, err.Error())
	case errors.Is(err, domain.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, codeOrderNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, codeInvalidAmount, err.Error())
	case errors.Is(err, domain.ErrInsufficientFunds):
		writeError(w, http.StatusBadRequest, codeInsufficientFunds, err.Error())
	case errors.Is(err, domain.ErrInvalidToken):
		writeError(w, http.StatusBadRequest, codeInvalidToken, err.Error())
	case errors.Is(err, domain.ErrInvalidPeriod):
		writeError(w, http.StatusBadRequest, codeInvalidPeriod, err.Error())
	case errors.Is(err, domain.ErrOrderNotPending):
		writeError(w, http.StatusConflict, codeOrderNotPending, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, codeUnavailable, "storage timeout, retry the request")
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
