// Package correlate matches asynchronous data responses to the requests
// that caused them.
package correlate

import (
	"sync"

	"github.com/google/uuid"
)

// Table maps outstanding request ids to the event each request concerns.
// Reset invalidates every outstanding id at once; responses issued before
// the reset then fail to resolve and the caller drops them. That is the
// mechanism that makes stale in-flight responses harmless across poll
// cycles, so Reset must replace the table rather than merge into it.
//
// Safe for concurrent use, though the engine only touches it from its own
// goroutine.
type Table struct {
	mu    sync.Mutex
	byReq map[string]string
}

// NewTable returns an empty correlation table.
func NewTable() *Table {
	return &Table{byReq: make(map[string]string)}
}

// NextID returns a fresh globally unique request id.
func (t *Table) NextID() string {
	return uuid.New().String()
}

// Track records that reqID was issued for eventID. Tracking an id twice
// overwrites the earlier entry and leaves all others untouched.
func (t *Table) Track(reqID, eventID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.byReq[reqID] = eventID
}

// Resolve returns the event a request id was issued for. ok is false for
// ids that were never tracked or were invalidated by Reset; callers treat
// such responses as stale and drop them. The entry is not consumed.
func (t *Table) Resolve(reqID string) (eventID string, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	eventID, ok = t.byReq[reqID]
	return eventID, ok
}

// Reset forgets every tracked request.
func (t *Table) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.byReq = make(map[string]string)
}

// Len reports the number of outstanding tracked requests.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.byReq)
}
