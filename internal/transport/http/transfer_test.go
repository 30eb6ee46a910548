package http

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cimillas/user-balance/internal/domain"
)

func TestHandleTransfer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		body           string
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "success",
			body:           `{"sender_id":1,"recipient_id":2,"amount":"50"}`,
			expectedStatus: http.StatusOK,
			expectedSubstr: "owner 1 transferred 50 to owner 2",
		},
		{
			name:           "invalid json",
			body:           `{"sender_id":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing recipient",
			body:           `{"sender_id":1,"amount":"50"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "insufficient funds",
			body:           `{"sender_id":1,"recipient_id":2,"amount":"500"}`,
			serviceErr:     domain.ErrInsufficientFunds,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "sender not found",
			body:           `{"sender_id":1,"recipient_id":2,"amount":"50"}`,
			serviceErr:     domain.ErrAccountNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "internal error",
			body:           `{"sender_id":1,"recipient_id":2,"amount":"50"}`,
			serviceErr:     errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubTransferService{err: tt.serviceErr}
			req := httptest.NewRequest(http.MethodPost, "/v1/transfer", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			handler := HandleTransfer(svc)
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
