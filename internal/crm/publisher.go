package crm

import (
	"context"
	"log/slog"
	"sync"
)

// Publisher hands sync events to the sink, either inline or through a
// buffered background worker. In async mode a full buffer drops the event
// with a log line rather than blocking registration.
type Publisher struct {
	sink   Sink
	logger *slog.Logger

	inbox chan SyncEvent
	wg    sync.WaitGroup

	closeOnce sync.Once
}

type PublisherOption func(*Publisher)

// WithAsyncBuffer enables the background worker with the given buffer size.
func WithAsyncBuffer(size int) PublisherOption {
	return func(p *Publisher) {
		if size > 0 {
			p.inbox = make(chan SyncEvent, size)
		}
	}
}

func NewPublisher(sink Sink, logger *slog.Logger, opts ...PublisherOption) *Publisher {
	p := &Publisher{sink: sink, logger: logger}
	for _, opt := range opts {
		opt(p)
	}
	if p.inbox != nil {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Publish queues the event for delivery. Errors are logged, never returned;
// CRM trouble must not surface into the registration path.
func (p *Publisher) Publish(ctx context.Context, event SyncEvent) {
	if p.inbox != nil {
		select {
		case p.inbox <- event:
		default:
			p.logger.ErrorContext(ctx, "crm sync buffer full, event dropped", "user_id", event.UserID)
		}
		return
	}
	p.deliver(ctx, event)
}

// Close stops the worker after draining queued events.
func (p *Publisher) Close() {
	p.closeOnce.Do(func() {
		if p.inbox != nil {
			close(p.inbox)
			p.wg.Wait()
		}
	})
}

func (p *Publisher) worker() {
	defer p.wg.Done()
	for event := range p.inbox {
		p.deliver(context.Background(), event)
	}
}

func (p *Publisher) deliver(ctx context.Context, event SyncEvent) {
	if err := p.sink.Deliver(ctx, event); err != nil {
		p.logger.ErrorContext(ctx, "crm sync delivery failed", "error", err, "user_id", event.UserID)
		return
	}
	p.logger.InfoContext(ctx, "crm sync delivered", "user_id", event.UserID)
}
