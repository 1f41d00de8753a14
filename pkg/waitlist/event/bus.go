package event

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
)

// BusConfig configures bus behavior.
type BusConfig struct {
	// BufferSize is the channel buffer size per subscription.
	// Default: 256
	BufferSize int

	// NonBlocking makes Publish drop events for subscribers whose buffer is full.
	// Default: false (blocking)
	NonBlocking bool

	// OnDrop is called when an event is dropped (non-blocking mode or TryPublish).
	OnDrop func(evt Event, subscriptionID uint64)
}

// DefaultBusConfig provides reasonable defaults.
var DefaultBusConfig = BusConfig{
	BufferSize: 256,
}

// LocalBus is an in-process Publisher that fans events out to subscribers.
// Each subscription has its own goroutine, so a slow handler only delays
// its own subscription. Handlers may call Subscribe, Unsubscribe, and
// Publish; they must not call Close, which waits for every handler to return.
type LocalBus struct {
	config BusConfig

	mu     sync.RWMutex
	subs   map[uint64]*Subscription
	closed bool
	nextID atomic.Uint64

	done chan struct{}
	wg   sync.WaitGroup
}

var (
	_ Publisher    = (*LocalBus)(nil)
	_ TryPublisher = (*LocalBus)(nil)
)

// NewLocalBus creates a bus with the given configuration.
func NewLocalBus(config BusConfig) *LocalBus {
	if config.BufferSize <= 0 {
		config.BufferSize = DefaultBusConfig.BufferSize
	}
	return &LocalBus{
		config: config,
		subs:   make(map[uint64]*Subscription),
		done:   make(chan struct{}),
	}
}

// Subscription is an active registration on a LocalBus.
type Subscription struct {
	id      uint64
	bus     *LocalBus
	types   []Type
	handler Handler
	ch      chan deliverable
	done    chan struct{}
	once    sync.Once
}

type deliverable struct {
	ctx context.Context
	evt Event
}

// ID returns the subscription identifier.
func (s *Subscription) ID() uint64 {
	return s.id
}

// Unsubscribe removes the subscription. Events already buffered are still
// delivered. Safe to call more than once, including from the subscription's
// own handler.
func (s *Subscription) Unsubscribe() {
	s.bus.mu.Lock()
	delete(s.bus.subs, s.id)
	s.bus.mu.Unlock()
	s.stop()
}

// stop signals the run loop. s.ch is never closed, so a publisher holding
// a stale snapshot can still send safely.
func (s *Subscription) stop() {
	s.once.Do(func() { close(s.done) })
}

func (s *Subscription) wants(t Type) bool {
	return len(s.types) == 0 || slices.Contains(s.types, t)
}

func (s *Subscription) run() {
	defer s.bus.wg.Done()
	for {
		select {
		case d := <-s.ch:
			s.handler(d.ctx, d.evt)
		case <-s.done:
			s.drain()
			return
		}
	}
}

func (s *Subscription) drain() {
	for {
		select {
		case d := <-s.ch:
			s.handler(d.ctx, d.evt)
		default:
			return
		}
	}
}

// Subscribe registers handler for the given event types.
// No types means all events.
func (b *LocalBus) Subscribe(handler Handler, types ...Type) (*Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrBusClosed
	}

	sub := &Subscription{
		id:      b.nextID.Add(1),
		bus:     b,
		types:   slices.Clone(types),
		handler: handler,
		ch:      make(chan deliverable, b.config.BufferSize),
		done:    make(chan struct{}),
	}
	b.subs[sub.id] = sub

	b.wg.Add(1)
	go sub.run()

	return sub, nil
}

// Publish delivers evt to every matching subscription.
// In blocking mode it waits for buffer space, ctx cancellation, or Close.
// The bus lock is not held while waiting.
func (b *LocalBus) Publish(ctx context.Context, evt Event) error {
	_, err := b.deliver(ctx, evt, !b.config.NonBlocking)
	return err
}

// TryPublish delivers evt without ever waiting, whatever the bus mode.
// Subscribers with a full buffer miss the event; OnDrop is called for each
// and ErrEventDropped is returned.
func (b *LocalBus) TryPublish(evt Event) error {
	dropped, err := b.deliver(context.Background(), evt, false)
	if err != nil {
		return err
	}
	if dropped > 0 {
		return fmt.Errorf("%w: %d subscriber(s)", ErrEventDropped, dropped)
	}
	return nil
}

func (b *LocalBus) deliver(ctx context.Context, evt Event, wait bool) (dropped int, err error) {
	subs, err := b.matching(evt.Type)
	if err != nil {
		return 0, err
	}

	d := deliverable{ctx: context.WithoutCancel(ctx), evt: evt}
	for _, sub := range subs {
		if !wait {
			select {
			case <-sub.done:
			case sub.ch <- d:
			default:
				dropped++
				if b.config.OnDrop != nil {
					b.config.OnDrop(evt, sub.id)
				}
			}
			continue
		}
		select {
		case sub.ch <- d:
		case <-sub.done:
			if b.isClosed() {
				return dropped, ErrBusClosed
			}
		case <-b.done:
			return dropped, ErrBusClosed
		case <-ctx.Done():
			return dropped, ctx.Err()
		}
	}
	return dropped, nil
}

// matching snapshots the subscriptions that want t.
func (b *LocalBus) matching(t Type) ([]*Subscription, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, ErrBusClosed
	}
	subs := make([]*Subscription, 0, len(b.subs))
	for _, sub := range b.subs {
		if sub.wants(t) {
			subs = append(subs, sub)
		}
	}
	return subs, nil
}

func (b *LocalBus) isClosed() bool {
	select {
	case <-b.done:
		return true
	default:
		return false
	}
}

// Close stops accepting events, drains buffered deliveries, and waits for
// all subscription goroutines to exit. Safe to call more than once.
func (b *LocalBus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	close(b.done)
	for id, sub := range b.subs {
		delete(b.subs, id)
		sub.stop()
	}
	b.mu.Unlock()

	b.wg.Wait()
	return nil
}

// SubscriberCount returns the number of active subscriptions.
func (b *LocalBus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
