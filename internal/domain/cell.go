package domain

import (
	"context"
	"sync"
)

// ResponseCell holds the most recent completed response of a draft. The UI
// reads it every frame while background sends write it; every write replaces
// the whole value under the lock.
type ResponseCell struct {
	mu       sync.RWMutex
	resp     *Response
	gen      uint64
	seq      uint64
	inFlight int
	cancel   context.CancelFunc
}

// NewResponseCell returns an empty cell.
func NewResponseCell() *ResponseCell {
	return &ResponseCell{}
}

// Load returns a copy of the stored response, if any.
func (c *ResponseCell) Load() (Response, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.resp == nil {
		return Response{}, false
	}
	return c.resp.clone(), true
}

// Generation increases by one with every stored response. Pollers compare it
// to skip unchanged cells.
func (c *ResponseCell) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen
}

// InFlight is the number of sends started but not finished.
func (c *ResponseCell) InFlight() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.inFlight
}

// Store replaces the stored response.
func (c *ResponseCell) Store(r Response) {
	stored := r.clone()
	c.mu.Lock()
	c.resp = &stored
	c.gen++
	c.mu.Unlock()
}

// Begin registers a new send and returns its ticket. cancel, which may be
// nil, replaces the handle of the previous send; that previous handle is
// returned so the caller can decide whether to invoke it.
func (c *ResponseCell) Begin(cancel context.CancelFunc) (ticket uint64, previous context.CancelFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.inFlight++
	previous = c.cancel
	c.cancel = cancel
	return c.seq, previous
}

// Finish completes the send identified by ticket and stores r. With
// latestOnly set, a result from a send that has since been superseded is
// dropped. It reports whether r was stored.
func (c *ResponseCell) Finish(ticket uint64, r Response, latestOnly bool) bool {
	stored := r.clone()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight > 0 {
		c.inFlight--
	}
	if ticket == c.seq {
		c.cancel = nil
	}
	if latestOnly && ticket != c.seq {
		return false
	}
	c.resp = &stored
	c.gen++
	return true
}

// Cancel aborts the most recent send if it is still running. It reports
// whether there was one to abort.
func (c *ResponseCell) Cancel() bool {
	c.mu.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.mu.Unlock()
	if cancel == nil {
		return false
	}
	cancel()
	return true
}
