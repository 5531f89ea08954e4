package event

import (
	"sync"
)

// defaultBuffer is the channel capacity used when none is given
const defaultBuffer = 1024

// Sender is a fire-and-forget, multi-producer handle into a Dispatcher.
// Senders are cheap to copy and safe for concurrent use. Send never blocks:
// when the dispatcher's buffer is full the event is dropped, which is
// acceptable for simulation notifications that are recomputed every tick.
type Sender[T any] struct {
	ch chan<- T
}

// Send enqueues an event for dispatch
func (s Sender[T]) Send(ev T) {
	if s.ch == nil {
		return
	}
	select {
	case s.ch <- ev:
	default:
	}
}

// Handle removes a registered handler when released
type Handle struct {
	release func()
	once    sync.Once
}

// Release unregisters the handler. Safe to call more than once.
func (h *Handle) Release() {
	if h == nil || h.release == nil {
		return
	}
	h.once.Do(h.release)
}

// Dispatcher fans queued events out to registered handlers.
//
// Producers push through Sender from any goroutine; Dispatch drains the
// queue and invokes every handler for every event, in registration order,
// on the calling goroutine. Delivery ordering across independent senders
// is not guaranteed.
type Dispatcher[T any] struct {
	mu       sync.Mutex
	nextID   int
	handlers map[int]func(T)
	order    []int
	ch       chan T
}

// NewDispatcher creates a dispatcher with the default queue capacity
func NewDispatcher[T any]() *Dispatcher[T] {
	return &Dispatcher[T]{
		handlers: make(map[int]func(T)),
		ch:       make(chan T, defaultBuffer),
	}
}

// Sender returns a producer handle for this dispatcher
func (d *Dispatcher[T]) Sender() Sender[T] {
	return Sender[T]{ch: d.ch}
}

// AddHandler registers a handler delegate and returns a removal handle
func (d *Dispatcher[T]) AddHandler(fn func(T)) *Handle {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := d.nextID
	d.nextID++
	d.handlers[id] = fn
	d.order = append(d.order, id)

	return &Handle{release: func() { d.removeHandler(id) }}
}

func (d *Dispatcher[T]) removeHandler(id int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.handlers, id)
	for i, other := range d.order {
		if other == id {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

// Dispatch drains all pending events and routes them to handlers.
// Returns the number of events delivered.
func (d *Dispatcher[T]) Dispatch() int {
	count := 0
	for {
		select {
		case ev := <-d.ch:
			for _, fn := range d.snapshot() {
				fn(ev)
			}
			count++
		default:
			return count
		}
	}
}

// DispatchOne blocks until one event arrives or done is closed, then
// drains everything pending. Used by the events worker to avoid spinning.
func (d *Dispatcher[T]) DispatchOne(done <-chan struct{}) int {
	select {
	case ev := <-d.ch:
		for _, fn := range d.snapshot() {
			fn(ev)
		}
		return 1 + d.Dispatch()
	case <-done:
		return 0
	}
}

// snapshot copies handlers in registration order so delegates run unlocked
func (d *Dispatcher[T]) snapshot() []func(T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	fns := make([]func(T), 0, len(d.order))
	for _, id := range d.order {
		if fn, ok := d.handlers[id]; ok {
			fns = append(fns, fn)
		}
	}
	return fns
}
