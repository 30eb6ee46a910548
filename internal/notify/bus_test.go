package notify

import (
	"context"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/cimillas/user-balance/internal/domain"
)

func TestBus_DeliversAfterPublish(t *testing.T) {
	t.Parallel()

	pub := newCapturingPublisher()
	bus := NewBus(pub, 8, discardLogger())

	bus.Publish(domain.BalanceToppedUp, domain.BalanceToppedUpEvent{OwnerID: 1, Amount: "100"})
	bus.Publish(domain.TransferOutcome, domain.TransferOutcomeEvent{SenderID: 1, RecipientID: 2})
	bus.Close()

	events := pub.events()
	if len(events) != 2 {
		t.Fatalf("expected 2 events delivered, got %d", len(events))
	}
	if events[0].Type != domain.BalanceToppedUp || events[1].Type != domain.TransferOutcome {
		t.Fatalf("unexpected event order: %s, %s", events[0].Type, events[1].Type)
	}
	if events[0].Timestamp.IsZero() {
		t.Fatalf("expected event timestamp to be stamped")
	}
}

func TestBus_PublishNeverBlocks(t *testing.T) {
	t.Parallel()

	pub := newCapturingPublisher()
	pub.block = make(chan struct{})
	bus := NewBus(pub, 1, discardLogger())

	// The worker picks up the first event and blocks inside Publish; the
	// second fills the buffer; everything after must be dropped, not queued.
	for i := 0; i < 10; i++ {
		bus.Publish(domain.OrderPlaced, domain.OrderPlacedEvent{Token: "t"})
	}

	deadline := time.After(2 * time.Second)
	for bus.Dropped() == 0 {
		select {
		case <-deadline:
			t.Fatalf("expected events to be dropped on a full buffer")
		case <-time.After(10 * time.Millisecond):
		}
	}

	close(pub.block)
	bus.Close()

	if got := int64(len(pub.events())) + bus.Dropped(); got != 10 {
		t.Fatalf("expected delivered+dropped to equal 10, got %d", got)
	}
}

func TestBus_CloseDrainsQueue(t *testing.T) {
	t.Parallel()

	pub := newCapturingPublisher()
	bus := NewBus(pub, 32, discardLogger())

	for i := 0; i < 20; i++ {
		bus.Publish(domain.OrderResolved, domain.OrderResolvedEvent{Token: "t"})
	}
	bus.Close()

	if len(pub.events()) != 20 {
		t.Fatalf("expected all 20 queued events delivered on close, got %d", len(pub.events()))
	}
}

type capturingPublisher struct {
	mu       sync.Mutex
	captured []domain.Event
	block    chan struct{}
}

func newCapturingPublisher() *capturingPublisher {
	return &capturingPublisher{}
}

func (p *capturingPublisher) Publish(_ context.Context, event domain.Event) error {
	if p.block != nil {
		<-p.block
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.captured = append(p.captured, event)
	return nil
}

func (p *capturingPublisher) events() []domain.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.Event(nil), p.captured...)
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}
