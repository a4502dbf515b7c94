package services

import (
	"sort"
	"sync/atomic"
	"time"

	"github.com/alertops/socstats/internal/stats"
)

// Snapshot is one immutable, fully-built set of stat tables. A snapshot
// is never mutated after publication; refreshes build a complete new
// one and swap the pointer.
type Snapshot struct {
	Tables  map[string]*stats.StatTable
	Start   time.Time
	End     time.Time
	BuiltAt time.Time
}

// Names returns the snapshot's table keys in sorted order.
func (s *Snapshot) Names() []string {
	names := make([]string, 0, len(s.Tables))
	for name := range s.Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TableCache publishes snapshots to readers without locking. Readers
// always see either the previous complete snapshot or the new one,
// never a partial state.
type TableCache struct {
	current atomic.Pointer[Snapshot]
}

// NewTableCache creates an empty cache.
func NewTableCache() *TableCache {
	return &TableCache{}
}

// Publish atomically replaces the current snapshot.
func (c *TableCache) Publish(s *Snapshot) {
	c.current.Store(s)
}

// Snapshot returns the current snapshot, or nil before the first
// publish.
func (c *TableCache) Snapshot() *Snapshot {
	return c.current.Load()
}

// Table looks up one table in the current snapshot.
func (c *TableCache) Table(name string) (*stats.StatTable, bool) {
	s := c.current.Load()
	if s == nil {
		return nil, false
	}
	t, ok := s.Tables[name]
	return t, ok
}

// Age returns how long ago the current snapshot was built, or zero
// before the first publish.
func (c *TableCache) Age() time.Duration {
	s := c.current.Load()
	if s == nil {
		return 0
	}
	return time.Since(s.BuiltAt)
}
