package gateway

import (
	"context"
	"sync"

	"github.com/roach88/studyflow/internal/tracker"
)

// Writer saves tracker changes as they happen, on the mutating goroutine.
//
// While the writer is held, changes only accumulate: Release writes the
// union of their collections from one fresh snapshot. A bulk operation such
// as a plan import therefore costs one save per collection instead of one
// save per entity.
type Writer struct {
	gw *Gateway
	tr *tracker.Tracker

	mu      sync.Mutex
	pending tracker.Collection
	holds   int
	closed  bool
	lastErr error
	saves   int

	unsubscribe func()
}

// NewWriter subscribes a Writer to tr. Call Close to stop it.
func (g *Gateway) NewWriter(tr *tracker.Tracker) *Writer {
	w := &Writer{gw: g, tr: tr}
	w.unsubscribe = tr.Subscribe(w.enqueue)
	return w
}

func (w *Writer) enqueue(c tracker.Change) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.pending |= c.Collections
	held := w.holds > 0
	w.mu.Unlock()

	if !held {
		w.flush()
	}
}

// Hold defers saves until the matching Release. Holds nest.
func (w *Writer) Hold() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.holds++
}

// Release ends a Hold. The outermost Release saves everything deferred and
// returns that save's error.
func (w *Writer) Release() error {
	w.mu.Lock()
	if w.holds > 0 {
		w.holds--
	}
	held := w.holds > 0
	w.mu.Unlock()

	if held {
		return nil
	}
	return w.flush()
}

// flush saves the pending collections, if any.
func (w *Writer) flush() error {
	w.mu.Lock()
	which := w.pending
	w.pending = 0
	w.mu.Unlock()

	if which == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), w.gw.saveTimeout)
	defer cancel()
	err := w.gw.Save(ctx, w.tr.Snapshot(), which)
	if err != nil {
		w.gw.log.Warn("save failed", "collections", which.String(), "error", err)
	} else {
		w.gw.log.Debug("saved", "collections", which.String())
	}

	w.mu.Lock()
	w.lastErr = err
	w.saves++
	w.mu.Unlock()
	return err
}

// Close unsubscribes, saves anything still deferred by a Hold and returns
// the error of the last save attempted. Safe to call more than once.
func (w *Writer) Close() error {
	w.mu.Lock()
	if w.closed {
		err := w.lastErr
		w.mu.Unlock()
		return err
	}
	w.closed = true
	w.holds = 0
	w.mu.Unlock()

	w.unsubscribe()
	w.flush()

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

// Saves reports how many backend saves the writer has performed.
func (w *Writer) Saves() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.saves
}
