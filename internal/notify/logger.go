package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/cimillas/user-balance/internal/domain"
)

// LogPublisher writes events as log lines. Used as the fallback when Redis
// is not reachable at startup.
type LogPublisher struct {
	logger *log.Logger
}

func NewLogPublisher(logger *log.Logger) *LogPublisher {
	if logger == nil {
		logger = log.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, event domain.Event) error {
	payload, err := json.Marshal(event.Data)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	p.logger.Printf("event type=%s data=%s", event.Type, payload)
	return nil
}
