package catalog

import "songbid/internal/video"

// Store is the persistence abstraction for uploaded records.
// The Repository serializes access; implementations need not be safe for
// concurrent use.
type Store interface {
	Prepend(rec video.Record)
	All() []video.Record
	Get(id string) (video.Record, bool)
	Reset()
}

// InMemoryStore keeps records newest first. Everything is lost on restart.
type InMemoryStore struct {
	records []video.Record
	byID    map[string]int
}

// NewInMemoryStore returns a new empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{byID: make(map[string]int)}
}

// Prepend implements Store.Prepend.
func (s *InMemoryStore) Prepend(rec video.Record) {
	s.records = append([]video.Record{rec}, s.records...)
	s.reindex()
}

// All implements Store.All. The returned slice is a copy.
func (s *InMemoryStore) All() []video.Record {
	return append([]video.Record(nil), s.records...)
}

// Get implements Store.Get.
func (s *InMemoryStore) Get(id string) (video.Record, bool) {
	i, ok := s.byID[id]
	if !ok {
		return video.Record{}, false
	}
	return s.records[i], true
}

// Reset implements Store.Reset.
func (s *InMemoryStore) Reset() {
	s.records = nil
	s.byID = make(map[string]int)
}

func (s *InMemoryStore) reindex() {
	for i, r := range s.records {
		s.byID[r.ID] = i
	}
}
