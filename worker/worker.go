package worker

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Token signals cooperative cancellation to a worker loop.
// The loop polls Cancelled between ticks or selects on Done while sleeping;
// a running tick is never interrupted mid-flight.
type Token struct {
	cancelled atomic.Bool
	done      chan struct{}
}

func newToken() *Token {
	return &Token{done: make(chan struct{})}
}

// Cancelled reports whether the worker has been asked to stop
func (t *Token) Cancelled() bool {
	return t.cancelled.Load()
}

// Done returns a channel closed on cancellation, for use in select
func (t *Token) Done() <-chan struct{} {
	return t.done
}

func (t *Token) cancel() {
	if t.cancelled.CompareAndSwap(false, true) {
		close(t.done)
	}
}

// Worker is a named goroutine driving a subsystem loop
type Worker struct {
	name  string
	token *Token
	wg    sync.WaitGroup
}

// Name returns the worker's registered name
func (w *Worker) Name() string {
	return w.name
}

// Stop cancels the worker and waits for its loop to return.
// Shutdown is bounded by the completion of the current tick.
func (w *Worker) Stop() {
	w.token.cancel()
	w.wg.Wait()
}

// Pool owns the set of running workers, keyed by name
type Pool struct {
	log     *zap.Logger
	mu      sync.Mutex
	workers map[string]*Worker
}

// NewPool creates an empty worker pool
func NewPool(log *zap.Logger) *Pool {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pool{
		log:     log,
		workers: make(map[string]*Worker),
	}
}

// Spawn starts a named worker running fn until its token is cancelled.
// Spawning a name that is already running stops the previous worker first.
func (p *Pool) Spawn(name string, fn func(*Token)) *Worker {
	w := &Worker{
		name:  name,
		token: newToken(),
	}

	p.mu.Lock()
	previous := p.workers[name]
	p.workers[name] = w
	p.mu.Unlock()

	if previous != nil {
		previous.Stop()
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		p.log.Info("worker started", zap.String("worker", name))
		fn(w.token)
		p.log.Info("worker stopped", zap.String("worker", name))
	}()

	return w
}

// Stop stops a single worker by name; unknown names are a no-op
func (p *Pool) Stop(name string) {
	p.mu.Lock()
	w := p.workers[name]
	delete(p.workers, name)
	p.mu.Unlock()

	if w != nil {
		w.Stop()
	}
}

// StopAll stops every running worker and waits for all of them
func (p *Pool) StopAll() {
	p.mu.Lock()
	workers := make([]*Worker, 0, len(p.workers))
	for _, w := range p.workers {
		workers = append(workers, w)
	}
	p.workers = make(map[string]*Worker)
	p.mu.Unlock()

	for _, w := range workers {
		w.Stop()
	}
}

// Loop calls fn repeatedly until the token is cancelled, pacing
// iterations to the given rate. fn receives the elapsed seconds since
// the previous iteration began, so simulation time tracks the wall
// clock even when ticks are slow. The pacing sleep accounts for the
// tick's own execution time. A rate of zero runs a tight loop.
func Loop(t *Token, rate time.Duration, fn func(elapsed float32)) {
	last := time.Now()

	for !t.Cancelled() {
		now := time.Now()
		elapsed := now.Sub(last)
		last = now

		fn(float32(elapsed.Seconds()))

		if remaining := rate - time.Since(now); remaining > 0 {
			select {
			case <-time.After(remaining):
			case <-t.Done():
				return
			}
		}
	}
}
