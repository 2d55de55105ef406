package logger

import (
	"sync"
	"time"
)

const defaultRecentSize = 200

// Entry is one captured log line.
type Entry struct {
	Time    time.Time      `json:"time"`
	Level   string         `json:"level"`
	Message string         `json:"message"`
	Caller  string         `json:"caller,omitempty"`
	Fields  map[string]any `json:"fields,omitempty"`
}

// RecentLog keeps the last few warnings and errors in memory, oldest
// first once full.
type RecentLog struct {
	mu      sync.Mutex
	entries []Entry
	next    int
	full    bool
}

func NewRecentLog() *RecentLog {
	return newRecentLog(defaultRecentSize)
}

func newRecentLog(size int) *RecentLog {
	return &RecentLog{entries: make([]Entry, size)}
}

func (r *RecentLog) Add(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[r.next] = e
	r.next = (r.next + 1) % len(r.entries)
	if r.next == 0 {
		r.full = true
	}
}

// Entries returns the captured entries, newest last.
func (r *RecentLog) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.full {
		return append([]Entry(nil), r.entries[:r.next]...)
	}
	out := make([]Entry, 0, len(r.entries))
	out = append(out, r.entries[r.next:]...)
	return append(out, r.entries[:r.next]...)
}
