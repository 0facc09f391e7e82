package publisher

import (
	"context"
	"log/slog"
	"sync"

	audit "landregistry/pkg/platform/audit"
	"landregistry/pkg/platform/circuit"
	"landregistry/pkg/requestcontext"
)

// Publisher captures structured audit events. It is append-only; the store
// is the source of truth and sinks receive best-effort copies.
//
// In async mode events are queued and persisted by a background goroutine.
// A full queue falls back to a synchronous write rather than dropping.
type Publisher struct {
	store  audit.Store
	sinks  []guardedSink
	logger *slog.Logger

	bufferSize int
	inbox      chan audit.Event
	wg         sync.WaitGroup
	mu         sync.RWMutex
	closed     bool
}

// guardedSink skips a sink while its breaker is open so a broker outage does
// not stall every write.
type guardedSink struct {
	sink    audit.Sink
	breaker *circuit.Breaker
}

type Option func(*Publisher)

// WithAsyncBuffer enables async mode with a queue of n events.
func WithAsyncBuffer(n int) Option {
	return func(p *Publisher) {
		p.bufferSize = n
	}
}

// WithSink adds a downstream sink such as a message stream. Breaker options
// tune when the sink is skipped after repeated failures.
func WithSink(sink audit.Sink, breakerOpts ...circuit.Option) Option {
	return func(p *Publisher) {
		if sink != nil {
			p.sinks = append(p.sinks, guardedSink{
				sink:    sink,
				breaker: circuit.New("audit-sink", breakerOpts...),
			})
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	if p.bufferSize > 0 {
		p.inbox = make(chan audit.Event, p.bufferSize)
		p.wg.Add(1)
		go p.run()
	}
	return p
}

// Emit enriches the event from request context and records it.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.Category == "" {
		event.Category = audit.AuditEvent(event.Action).Category()
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.ClientIP == "" {
		event.ClientIP = requestcontext.ClientIP(ctx)
	}
	if event.Device == "" {
		event.Device = requestcontext.Device(ctx)
	}

	p.mu.RLock()
	if p.inbox != nil && !p.closed {
		select {
		case p.inbox <- event:
			p.mu.RUnlock()
			return nil
		default:
		}
	}
	p.mu.RUnlock()

	return p.write(ctx, event)
}

// Recent returns up to limit events, most recent first.
func (p *Publisher) Recent(ctx context.Context, limit int) ([]audit.Event, error) {
	return p.store.ListRecent(ctx, limit)
}

// Close drains the async queue. Emit keeps working synchronously afterwards.
func (p *Publisher) Close() {
	p.mu.Lock()
	if p.closed || p.inbox == nil {
		p.closed = true
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.inbox)
	p.mu.Unlock()
	p.wg.Wait()
}

func (p *Publisher) run() {
	defer p.wg.Done()
	for event := range p.inbox {
		if err := p.write(context.Background(), event); err != nil {
			p.logger.Error("failed to persist audit event",
				"action", event.Action,
				"subject", event.Subject,
				"error", err,
			)
		}
	}
}

func (p *Publisher) write(ctx context.Context, event audit.Event) error {
	if err := p.store.Append(ctx, event); err != nil {
		return err
	}
	for _, gs := range p.sinks {
		if !gs.breaker.Allow() {
			continue
		}
		if err := gs.sink.Publish(ctx, event); err != nil {
			_, change := gs.breaker.RecordFailure()
			p.logger.WarnContext(ctx, "audit sink publish failed",
				"action", event.Action,
				"error", err,
			)
			if change.Opened {
				p.logger.WarnContext(ctx, "audit sink circuit opened", "breaker", gs.breaker.Name())
			}
			continue
		}
		if _, change := gs.breaker.RecordSuccess(); change.Closed {
			p.logger.InfoContext(ctx, "audit sink circuit closed", "breaker", gs.breaker.Name())
		}
	}
	return nil
}
