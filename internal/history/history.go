// Package history retains recently generated identifiers in memory.
//
// The log is a fixed-capacity ring: once full, each append evicts the oldest
// record. Nothing is persisted; the log lives and dies with its owner, which
// is the server for the pipe transport and the session for HTTP.
package history

import (
	"sync"
	"time"

	"github.com/louisbranch/uuidforge/internal/id"
)

// DefaultCapacity is the number of records a log retains by default.
const DefaultCapacity = 100

// Record is one generated identifier with its variant and creation time.
type Record struct {
	Identifier string     `json:"identifier"`
	Variant    id.Variant `json:"variant"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// Log is a bounded, in-memory record of generated identifiers. All methods
// are safe for concurrent use.
type Log struct {
	mu       sync.Mutex
	records  []Record
	capacity int
	// start is the ring index of the oldest record; length is the number of
	// records currently stored (at most capacity).
	start  int
	length int
}

// NewLog creates a log holding at most capacity records. A capacity of zero
// or less falls back to DefaultCapacity.
func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{
		records:  make([]Record, capacity),
		capacity: capacity,
	}
}

// Append adds a record, evicting the oldest when the log is full.
func (l *Log) Append(rec Record) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.length < l.capacity {
		l.records[(l.start+l.length)%l.capacity] = rec
		l.length++
		return
	}
	l.records[l.start] = rec
	l.start = (l.start + 1) % l.capacity
}

// Snapshot returns up to limit of the most recent records, oldest first.
// The returned slice is a copy; mutating it does not affect the log.
// A limit of zero or less returns nil.
func (l *Log) Snapshot(limit int) []Record {
	l.mu.Lock()
	defer l.mu.Unlock()

	if limit <= 0 || l.length == 0 {
		return nil
	}
	n := limit
	if n > l.length {
		n = l.length
	}
	out := make([]Record, n)
	first := l.length - n
	for i := 0; i < n; i++ {
		out[i] = l.records[(l.start+first+i)%l.capacity]
	}
	return out
}

// Len reports the number of records currently stored.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.length
}
