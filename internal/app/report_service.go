package app

import (
	"context"
	"time"

	"github.com/cimillas/user-balance/internal/domain"
	"github.com/shopspring/decimal"
)

type ReportRepository interface {
	SumConfirmedByPeriod(ctx context.Context, serviceID int64, start, end time.Time) (decimal.Decimal, error)
	ListConfirmedByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]domain.Order, error)
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ReportService is the read-only side: revenue sums per service and period,
// and paginated confirmed-order listings. It never mutates ledger state.
type ReportService struct {
	repo ReportRepository
	bus  Publisher
}

func NewReportService(repo ReportRepository, bus Publisher) *ReportService {
	return &ReportService{
		repo: repo,
		bus:  bus,
	}
}

// SumByPeriod totals confirmed-order revenue for a service over one calendar
// month, bounds inclusive, and queues a PeriodReport for the downstream
// report consumer.
func (s *ReportService) SumByPeriod(ctx context.Context, serviceID int64, year, month int) (decimal.Decimal, error) {
	if year < 1 || month < 1 || month > 12 {
		return decimal.Decimal{}, domain.ErrInvalidPeriod
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Second)

	sum, err := s.repo.SumConfirmedByPeriod(ctx, serviceID, start, end)
	if err != nil {
		return decimal.Decimal{}, err
	}

	s.bus.Publish(domain.PeriodReport, domain.PeriodReportEvent{
		Sum:       sum.String(),
		Year:      year,
		Month:     month,
		ServiceID: serviceID,
	})
	return sum, nil
}

// ListConfirmedOrders returns one page of the owner's confirmed orders.
// Pages are 1-based; out-of-range sizes fall back to the default.
func (s *ReportService) ListConfirmedOrders(ctx context.Context, ownerID int64, page, pageSize int) ([]domain.Order, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}

	offset := (page - 1) * pageSize
	return s.repo.ListConfirmedByOwner(ctx, ownerID, pageSize, offset)
}
