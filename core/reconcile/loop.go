package reconcile

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"deluge-submit/core/deluge"
)

// LoopState is the tri-state flag of an event loop plus its failure sentinel.
type LoopState int32

const (
	LoopIdle LoopState = iota
	LoopRunning
	LoopDone
	LoopAborted
)

func (s LoopState) String() string {
	switch s {
	case LoopIdle:
		return "idle"
	case LoopRunning:
		return "running"
	case LoopDone:
		return "done"
	case LoopAborted:
		return "aborted"
	default:
		return fmt.Sprintf("loop(%d)", int32(s))
	}
}

// MarshalText renders the state by name.
func (s LoopState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// IsTerminal reports whether the loop has finished.
func (s LoopState) IsTerminal() bool {
	return s == LoopDone || s == LoopAborted
}

// Loop runs continuations for one batch on a single goroutine. Callbacks posted
// from client goroutines are queued and executed in order by Run, so batch state
// is only ever touched by the goroutine that called Run.
type Loop struct {
	state  atomic.Int32
	mu     sync.Mutex
	queue  []func()
	wake   chan struct{}
	closed chan struct{}
	once   sync.Once
}

// NewLoop creates an idle loop.
func NewLoop() *Loop {
	return &Loop{
		wake:   make(chan struct{}, 1),
		closed: make(chan struct{}),
	}
}

// State returns the current state.
func (l *Loop) State() LoopState {
	return LoopState(l.state.Load())
}

// Post queues fn to run on the loop goroutine. It is safe to call from any goroutine.
// Functions posted after the loop finished are dropped.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Stop moves a running loop to a terminal state. Only the first call has an effect.
func (l *Loop) Stop(to LoopState) bool {
	if !to.IsTerminal() {
		return false
	}
	return l.state.CompareAndSwap(int32(LoopRunning), int32(to))
}

// Run executes start and then pumps posted callbacks until a callback stops the loop
// or ctx ends. A loop runs once: a second Run returns ErrLoopBusy. When ctx ends first
// the loop is marked aborted and ErrLoopStalled is returned.
func (l *Loop) Run(ctx context.Context, start func()) (LoopState, error) {
	if !l.state.CompareAndSwap(int32(LoopIdle), int32(LoopRunning)) {
		return l.State(), fmt.Errorf("%w: state %s", ErrLoopBusy, l.State())
	}
	defer l.once.Do(func() { close(l.closed) })

	if start != nil {
		l.Post(start)
	}

	for {
		if s := l.State(); s.IsTerminal() {
			return s, nil
		}

		if fn := l.next(); fn != nil {
			fn()
			continue
		}

		select {
		case <-ctx.Done():
			l.Stop(LoopAborted)
			return l.State(), fmt.Errorf("%w: %v", ErrLoopStalled, ctx.Err())
		case <-l.wake:
		}
	}
}

func (l *Loop) next() func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn
}

// Await posts onDone to the loop once f completes. If the loop finishes first the
// callback is dropped.
func Await[T any](l *Loop, f *deluge.Future[T], onDone func(T, error)) {
	go func() {
		select {
		case <-f.Done():
		case <-l.closed:
			return
		}
		v, err := f.Result()
		l.Post(func() { onDone(v, err) })
	}()
}

// join fires once every counted continuation has resolved and no more will be added.
// It is only used from the loop goroutine.
type join struct {
	pending int
	sealed  bool
	fired   bool
	onZero  func()
}

func newJoin(onZero func()) *join {
	return &join{onZero: onZero}
}

func (j *join) add() {
	j.pending++
}

func (j *join) done() {
	j.pending--
	j.check()
}

// seal marks the end of additions.
func (j *join) seal() {
	j.sealed = true
	j.check()
}

func (j *join) check() {
	if j.fired || !j.sealed || j.pending > 0 {
		return
	}
	j.fired = true
	j.onZero()
}
