package engine

import (
	"context"
	"sync"

	"scoreboardkit/core"
)

type DispatchMode int

const (
	DispatchSync DispatchMode = iota
	DispatchAsync
)

// anyEvent subscribes a handler to every event type.
const anyEvent core.EventType = "*"

type handler func(context.Context, core.Event)

// EventBus fans events out to subscribers, either inline or through a worker pool.
type EventBus struct {
	mode    DispatchMode
	mu      sync.RWMutex
	subs    map[core.EventType]map[int64]handler
	nextID  int64
	queue   chan core.Event
	workers sync.WaitGroup
	closed  chan struct{}
	once    sync.Once
}

func NewEventBus(mode DispatchMode) *EventBus {
	eb := &EventBus{
		mode:   mode,
		subs:   make(map[core.EventType]map[int64]handler),
		closed: make(chan struct{}),
	}
	if mode == DispatchAsync {
		eb.queue = make(chan core.Event, 1024)
		eb.startWorkers(4)
	}
	return eb
}

func (e *EventBus) startWorkers(n int) {
	for i := 0; i < n; i++ {
		e.workers.Add(1)
		go func() {
			defer e.workers.Done()
			for {
				select {
				case ev := <-e.queue:
					e.dispatch(context.Background(), ev)
				case <-e.closed:
					return
				}
			}
		}()
	}
}

// Close stops async workers and waits for them to exit. Queued events that were
// not picked up yet are dropped.
func (e *EventBus) Close() {
	e.once.Do(func() {
		close(e.closed)
		e.workers.Wait()
	})
}

// Subscribe registers fn for one event type and returns its unsubscribe func.
func (e *EventBus) Subscribe(typ core.EventType, fn func(context.Context, core.Event)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextID++
	id := e.nextID
	if e.subs[typ] == nil {
		e.subs[typ] = make(map[int64]handler)
	}
	e.subs[typ][id] = fn
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.subs[typ], id)
	}
}

// SubscribeAll registers fn for every event type.
func (e *EventBus) SubscribeAll(fn func(context.Context, core.Event)) func() {
	return e.Subscribe(anyEvent, fn)
}

// Publish delivers ev. In async mode the event is dropped when the queue is full
// so that writers never block on slow subscribers.
func (e *EventBus) Publish(ctx context.Context, ev core.Event) {
	if e.mode == DispatchAsync {
		select {
		case e.queue <- ev:
		case <-e.closed:
		default:
		}
		return
	}
	e.dispatch(ctx, ev)
}

func (e *EventBus) dispatch(ctx context.Context, ev core.Event) {
	e.mu.RLock()
	handlers := make([]handler, 0, len(e.subs[ev.Type])+len(e.subs[anyEvent]))
	for _, h := range e.subs[ev.Type] {
		handlers = append(handlers, h)
	}
	for _, h := range e.subs[anyEvent] {
		handlers = append(handlers, h)
	}
	e.mu.RUnlock()
	for _, h := range handlers {
		h(ctx, ev)
	}
}

var _ Publisher = (*EventBus)(nil)
