package state

import (
	"fmt"
	"sync"
	"time"
)

// RecentCapacity is the number of raw lines retained for display.
const RecentCapacity = 10

// TailerStatus describes the lifecycle of the tailer feeding the store.
type TailerStatus int

const (
	TailerStarting TailerStatus = iota
	TailerRunning
	TailerStopped
	TailerFailed
)

func (s TailerStatus) String() string {
	switch s {
	case TailerStarting:
		return "starting"
	case TailerRunning:
		return "running"
	case TailerStopped:
		return "stopped"
	case TailerFailed:
		return "failed"
	default:
		return fmt.Sprintf("TailerStatus(%d)", int(s))
	}
}

// Snapshot is a copy of the store taken between two per-line updates.
type Snapshot struct {
	Counts      map[string]int
	RecentLines []string
	TotalLines  int
	LastUpdated time.Time
	Status      TailerStatus
	LastError   error
}

// TotalMatches sums the per-category counts.
func (s Snapshot) TotalMatches() int {
	total := 0
	for _, n := range s.Counts {
		total += n
	}
	return total
}

// Store is the shared aggregate written by the tailer and read by the query
// surfaces. Use New; the zero value has no stop channel.
type Store struct {
	mu          sync.RWMutex
	counts      map[string]int
	ring        [RecentCapacity]string
	next        int // ring slot for the next line
	filled      int
	total       int
	lastUpdated time.Time
	status      TailerStatus
	lastErr     error

	stopOnce sync.Once
	stop     chan struct{}
}

// New returns an empty store.
func New() *Store {
	return &Store{
		counts: make(map[string]int),
		stop:   make(chan struct{}),
	}
}

// Record applies one processed line: the category count is incremented when
// matched is true and the line is always appended to the recent buffer. Both
// changes become visible to readers together.
func (s *Store) Record(line, category string, matched bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if matched {
		s.counts[category]++
	}
	s.ring[s.next] = line
	s.next = (s.next + 1) % RecentCapacity
	if s.filled < RecentCapacity {
		s.filled++
	}
	s.total++
	s.lastUpdated = time.Now()
}

// SetStatus records the tailer lifecycle state. err is kept for display and
// cleared by a nil value.
func (s *Store) SetStatus(status TailerStatus, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
	s.lastErr = err
}

// SnapshotCounts returns a copy of the match counts. The map is never nil.
func (s *Store) SnapshotCounts() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cloneCounts()
}

// SnapshotRecentLines returns the retained lines, oldest first. The slice is
// never nil.
func (s *Store) SnapshotRecentLines() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cloneRecent()
}

// Snapshot returns counts, recent lines and bookkeeping under one lock.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Counts:      s.cloneCounts(),
		RecentLines: s.cloneRecent(),
		TotalLines:  s.total,
		LastUpdated: s.lastUpdated,
		Status:      s.status,
		LastError:   s.lastErr,
	}
	return snap
}

// RequestStop signals the tailer to finish. It is safe to call more than once
// and from any goroutine.
func (s *Store) RequestStop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// Done is closed once RequestStop has been called.
func (s *Store) Done() <-chan struct{} {
	return s.stop
}

// Stopping reports whether RequestStop has been called.
func (s *Store) Stopping() bool {
	select {
	case <-s.stop:
		return true
	default:
		return false
	}
}

func (s *Store) cloneCounts() map[string]int {
	dup := make(map[string]int, len(s.counts))
	for k, v := range s.counts {
		dup[k] = v
	}
	return dup
}

func (s *Store) cloneRecent() []string {
	lines := make([]string, s.filled)
	if s.filled == RecentCapacity {
		for i := 0; i < s.filled; i++ {
			lines[i] = s.ring[(s.next+i)%RecentCapacity]
		}
	} else {
		copy(lines, s.ring[:s.filled])
	}
	return lines
}
