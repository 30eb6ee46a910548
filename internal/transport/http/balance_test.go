package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cimillas/user-balance/internal/domain"
	"github.com/shopspring/decimal"
)

func TestHandleBalance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		target         string
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "success",
			target:         "/v1/balance?owner_id=1",
			expectedStatus: http.StatusOK,
			expectedSubstr: `"hold":"25"`,
		},
		{
			name:           "missing owner_id",
			target:         "/v1/balance",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "non-numeric owner_id",
			target:         "/v1/balance?owner_id=abc",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "account not found",
			target:         "/v1/balance?owner_id=9",
			serviceErr:     domain.ErrAccountNotFound,
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubTransferService{
				account: domain.Account{
					OwnerID: 1,
					Balance: decimal.NewFromInt(100),
					Hold:    decimal.NewFromInt(25),
				},
				err: tt.serviceErr,
			}
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			rec := httptest.NewRecorder()

			handler := HandleBalance(svc)
			handler.ServeHTTP(rec, req)

			res := rec.Result()
			if res.StatusCode != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, res.StatusCode)
			}
			if tt.expectedSubstr != "" {
				body := rec.Body.String()
				if !strings.Contains(body, tt.expectedSubstr) {
					t.Fatalf("expected response to contain %q, got %q", tt.expectedSubstr, body)
				}
			}
		})
	}
}
