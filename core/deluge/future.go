package deluge

import "sync"

// Future is the pending result of a non-blocking client request.
// It completes exactly once; later Resolve or Reject calls are ignored.
type Future[T any] struct {
	done chan struct{}
	once sync.Once
	val  T
	err  error
}

// NewFuture returns an incomplete future.
func NewFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Resolved returns a future already completed with v.
func Resolved[T any](v T) *Future[T] {
	f := NewFuture[T]()
	f.Resolve(v)
	return f
}

// Rejected returns a future already completed with err.
func Rejected[T any](err error) *Future[T] {
	f := NewFuture[T]()
	f.Reject(err)
	return f
}

// Go runs fn on its own goroutine and completes the returned future with its result.
func Go[T any](fn func() (T, error)) *Future[T] {
	f := NewFuture[T]()
	go func() {
		v, err := fn()
		if err != nil {
			f.Reject(err)
			return
		}
		f.Resolve(v)
	}()
	return f
}

// Resolve completes the future successfully.
func (f *Future[T]) Resolve(v T) {
	f.once.Do(func() {
		f.val = v
		close(f.done)
	})
}

// Reject completes the future with an error.
func (f *Future[T]) Reject(err error) {
	f.once.Do(func() {
		f.err = err
		close(f.done)
	})
}

// Done is closed once the future completes.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Result blocks until the future completes and returns its outcome.
func (f *Future[T]) Result() (T, error) {
	<-f.done
	return f.val, f.err
}
