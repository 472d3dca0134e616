package fleet

import (
	"sort"
	"sync"
	"time"

	"github.com/portpulse/portpulse/core/model"
)

// DefaultTTL is how long a reported position stays live without a refresh.
const DefaultTTL = 300 * time.Second

// AnonymousID is the key under which reports with an empty truck id land.
// All anonymous reporters share this single slot.
const AnonymousID = "unknown"

// Registry tracks the last known position of every reporting truck. Entries
// expire lazily: staleness is purged as a side effect of reads and writes,
// never by a background sweep.
type Registry interface {
	// Upsert replaces the entry for id, stamps it with the current time and
	// returns the post-eviction count of live entries.
	Upsert(id string, lat, lon, heading float64) int
	// ActiveCount evicts expired entries and returns the live count.
	ActiveCount() int
	// Snapshot returns the live entries ordered by truck id.
	Snapshot() []model.PositionReport
}

// MemoryRegistry is the mutex-guarded in-memory Registry implementation.
// The lock covers the full write-evict-count sequence so readers never
// observe a half-finished eviction pass.
type MemoryRegistry struct {
	mu   sync.Mutex
	ttl  time.Duration
	now  func() time.Time
	data map[string]model.PositionReport
}

// NewMemoryRegistry creates a registry with the given TTL. A non-positive
// TTL falls back to DefaultTTL.
func NewMemoryRegistry(ttl time.Duration) *MemoryRegistry {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryRegistry{
		ttl:  ttl,
		now:  time.Now,
		data: make(map[string]model.PositionReport),
	}
}

// Upsert stores the report under id, last writer wins. An empty id maps to
// AnonymousID.
func (r *MemoryRegistry) Upsert(id string, lat, lon, heading float64) int {
	if id == "" {
		id = AnonymousID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	r.data[id] = model.PositionReport{
		TruckID:     id,
		Lat:         lat,
		Lon:         lon,
		Heading:     heading,
		LastUpdated: now,
	}
	r.evictLocked(now)
	return len(r.data)
}

// ActiveCount returns the number of live entries after eviction.
func (r *MemoryRegistry) ActiveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evictLocked(r.now())
	return len(r.data)
}

// Snapshot returns the live entries ordered by truck id.
func (r *MemoryRegistry) Snapshot() []model.PositionReport {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evictLocked(r.now())
	reports := make([]model.PositionReport, 0, len(r.data))
	for _, rep := range r.data {
		reports = append(reports, rep)
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].TruckID < reports[j].TruckID })
	return reports
}

// evictLocked drops entries strictly older than the TTL. Callers must hold
// the mutex.
func (r *MemoryRegistry) evictLocked(now time.Time) {
	for id, rep := range r.data {
		if now.Sub(rep.LastUpdated) > r.ttl {
			delete(r.data, id)
		}
	}
}
