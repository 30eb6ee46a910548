package notify

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cimillas/user-balance/internal/domain"
)

const publishTimeout = 5 * time.Second

// Publisher delivers a single event to the outside world.
type Publisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// Bus decouples ledger commits from notification delivery: Publish enqueues
// without blocking and a single worker forwards to the Publisher. A full
// buffer drops the event rather than stall a committed operation.
type Bus struct {
	publisher Publisher
	logger    *log.Logger
	events    chan domain.Event
	done      chan struct{}
	closeOnce sync.Once
	dropped   atomic.Int64
}

func NewBus(publisher Publisher, buffer int, logger *log.Logger) *Bus {
	if buffer <= 0 {
		buffer = 256
	}
	if logger == nil {
		logger = log.Default()
	}
	b := &Bus{
		publisher: publisher,
		logger:    logger,
		events:    make(chan domain.Event, buffer),
		done:      make(chan struct{}),
	}
	go b.run()
	return b
}

// Publish stamps and enqueues the event. Never blocks.
func (b *Bus) Publish(eventType string, data any) {
	event := domain.Event{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
	select {
	case b.events <- event:
	default:
		b.dropped.Add(1)
		b.logger.Printf("WARN: notification buffer full, dropped %s", eventType)
	}
}

// Close stops accepting events and waits for the queue to drain.
func (b *Bus) Close() {
	b.closeOnce.Do(func() {
		close(b.events)
	})
	<-b.done
}

// Dropped reports how many events were discarded on a full buffer.
func (b *Bus) Dropped() int64 {
	return b.dropped.Load()
}

func (b *Bus) run() {
	defer close(b.done)
	for event := range b.events {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		if err := b.publisher.Publish(ctx, event); err != nil {
			b.logger.Printf("WARN: publish %s: %v", event.Type, err)
		}
		cancel()
	}
}
