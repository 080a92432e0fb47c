package tui

import (
	"context"
	"sync"
)

// work tracks the background commands that mutate the tree. Once closed it
// refuses new work, so nothing touches the tree after Run saves it.
type work struct {
	base context.Context
	stop context.CancelFunc

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func newWork(parent context.Context) *work {
	if parent == nil {
		parent = context.Background()
	}
	base, stop := context.WithCancel(parent)
	return &work{base: base, stop: stop}
}

// begin registers one unit of work. It reports false after close.
func (w *work) begin() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return false
	}
	w.wg.Add(1)
	return true
}

func (w *work) done() {
	w.wg.Done()
}

// close cancels every context derived from base and waits for running work
// to return.
func (w *work) close() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	w.stop()
	w.wg.Wait()
}
