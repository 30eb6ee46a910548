package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/cimillas/user-balance/internal/domain"
	"github.com/shopspring/decimal"
)

// ReportReader is the minimal interface needed for reporting endpoints.
type ReportReader interface {
	SumByPeriod(ctx context.Context, serviceID int64, year, month int) (decimal.Decimal, error)
	ListConfirmedOrders(ctx context.Context, ownerID int64, page, pageSize int) ([]domain.Order, error)
}

// HandleSumReport returns an HTTP handler for the per-service monthly
// revenue sum. The report itself is emitted asynchronously on the bus.
func HandleSumReport(svc ReportReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		q := r.URL.Query()
		serviceID, err := strconv.ParseInt(q.Get("service_id"), 10, 64)
		if err != nil || serviceID <= 0 {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "service_id must be a positive integer")
			return
		}
		year, err := strconv.Atoi(q.Get("year"))
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidPeriod, "year must be an integer")
			return
		}
		month, err := strconv.Atoi(q.Get("month"))
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidPeriod, "month must be an integer")
			return
		}

		sum, err := svc.SumByPeriod(r.Context(), serviceID, year, month)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(sumReportResponse{
			ServiceID: serviceID,
			Year:      year,
			Month:     month,
			Sum:       sum,
			Message:   "report queued for delivery",
		})
	}
}

// HandleListTransactions returns an HTTP handler for paginated confirmed
// orders of one owner.
func HandleListTransactions(svc ReportReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		q := r.URL.Query()
		ownerID, err := strconv.ParseInt(q.Get("owner_id"), 10, 64)
		if err != nil || ownerID <= 0 {
			writeError(w, http.StatusBadRequest, codeInvalidOwnerID, "owner_id must be a positive integer")
			return
		}
		page, _ := strconv.Atoi(q.Get("page"))
		pageSize, _ := strconv.Atoi(q.Get("page_size"))

		orders, err := svc.ListConfirmedOrders(r.Context(), ownerID, page, pageSize)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		items := make([]transactionItem, 0, len(orders))
		for _, o := range orders {
			items = append(items, transactionItem{
				OrderToken: o.Token,
				ServiceID:  o.ServiceID,
				Amount:     o.Amount,
				CreatedAt:  o.CreatedAt,
			})
		}

		if page < 1 {
			page = 1
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(listTransactionsResponse{
			OwnerID: ownerID,
			Page:    page,
			Orders:  items,
		})
	}
}

type sumReportResponse struct {
	ServiceID int64           `json:"service_id"`
	Year      int             `json:"year"`
	Month     int             `json:"month"`
	Sum       decimal.Decimal `json:"sum"`
	Message   string          `json:"message"`
}

type transactionItem struct {
	OrderToken string          `json:"order_token"`
	ServiceID  int64           `json:"service_id"`
	Amount     decimal.Decimal `json:"amount"`
	CreatedAt  time.Time       `json:"created_at"`
}

type listTransactionsResponse struct {
	OwnerID int64             `json:"owner_id"`
	Page    int               `json:"page"`
	Orders  []transactionItem `json:"orders"`
}
