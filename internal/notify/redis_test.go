package notify

import (
	"testing"

	"github.com/cimillas/user-balance/internal/domain"
)

func TestStreamFor(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		domain.BalanceToppedUp: domain.BalanceEventsStream,
		domain.TransferOutcome: domain.TransferEventsStream,
		domain.OrderPlaced:     domain.OrderEventsStream,
		domain.OrderResolved:   domain.OrderEventsStream,
		domain.PeriodReport:    domain.ReportEventsStream,
	}
	for eventType, want := range cases {
		if got := streamFor(eventType); got != want {
			t.Fatalf("streamFor(%s) = %s, want %s", eventType, got, want)
		}
	}
}
