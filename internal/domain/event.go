package domain

import "time"

// Event types
const (
	BalanceToppedUp = "balance.topped_up"
	TransferOutcome = "transfer.outcome"
	OrderPlaced     = "order.placed"
	OrderResolved   = "order.resolved"
	PeriodReport    = "report.period"
)

// Stream names
const (
	BalanceEventsStream  = "balance.events"
	TransferEventsStream = "transfer.events"
	OrderEventsStream    = "order.events"
	ReportEventsStream   = "report.events"
)

// Event is the envelope published to the notification bus after a unit of
// work commits. Consumers (log, email, CSV writers) live outside this service.
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

type BalanceToppedUpEvent struct {
	OwnerID int64  `json:"ownerId"`
	Amount  string `json:"amount"`
	Text    string `json:"text"`
}

type TransferOutcomeEvent struct {
	SenderID    int64  `json:"senderId"`
	RecipientID int64  `json:"recipientId"`
	Amount      string `json:"amount"`
	Text        string `json:"text"`
}

type OrderPlacedEvent struct {
	OwnerID   int64  `json:"ownerId"`
	ServiceID int64  `json:"serviceId"`
	Amount    string `json:"amount"`
	Token     string `json:"token"`
}

type OrderResolvedEvent struct {
	Token  string `json:"token"`
	Status string `json:"status"`
}

type PeriodReportEvent struct {
	Sum       string `json:"sum"`
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	ServiceID int64  `json:"serviceId"`
}
