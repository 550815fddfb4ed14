package history

import (
	"sort"
	"sync"
	"time"
)

// MemoryStore stores records in memory for testing or lightweight usage.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]map[time.Time]*Record
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]map[time.Time]*Record{}}
}

// Add inserts or updates the record aggregated by day and resource.
func (s *MemoryStore) Add(r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data[r.Resource] == nil {
		s.data[r.Resource] = map[time.Time]*Record{}
	}
	d := Day(r.Date)
	rec := s.data[r.Resource][d]
	if rec == nil {
		rec = &Record{Resource: r.Resource, Kind: r.Kind, Date: d}
		s.data[r.Resource][d] = rec
	}
	rec.BusyDays += r.BusyDays
	rec.Events += r.Events
	return nil
}

// Query returns records between start and end inclusive.
func (s *MemoryStore) Query(resource string, start, end time.Time) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start = Day(start)
	end = Day(end)
	var res []Record
	m := s.data[resource]
	for d, r := range m {
		if d.Before(start) || d.After(end) {
			continue
		}
		res = append(res, *r)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Date.Before(res[j].Date) })
	return res, nil
}
