package catalog

import (
	"errors"
	"sync"

	"songbid/internal/video"
)

// Repository defines the concurrency-safe contract for the uploaded-video
// list and the sample-videos switch.
type Repository interface {
	// AddUpload stores rec as the newest upload. A record whose ID is already
	// stored is rejected with ErrDuplicateRecord.
	AddUpload(rec video.Record) error

	// Uploads returns every stored upload, newest first.
	Uploads() []video.Record

	// Get returns the upload with the given ID.
	Get(id string) (video.Record, bool)

	// Clear drops every upload. When disableSamples is true the sample set is
	// switched off as well; it is never switched back on.
	Clear(disableSamples bool)

	SamplesEnabled() bool

	// UploadCount returns the number of stored uploads. Used for metrics.
	UploadCount() int
}

var (
	// ErrDuplicateRecord is returned when a record ID is already stored.
	ErrDuplicateRecord = errors.New("record already exists")

	// ErrMissingID is returned when a record has no ID.
	ErrMissingID = errors.New("record id is required")
)

// InMemoryRepository is a concurrency-safe in-memory implementation of Repository.
type InMemoryRepository struct {
	mu             sync.RWMutex
	store          Store
	samplesEnabled bool
}

// NewInMemoryRepository constructs a repository with a default in-memory store.
func NewInMemoryRepository(samplesEnabled bool) *InMemoryRepository {
	return NewInMemoryRepositoryWithStore(NewInMemoryStore(), samplesEnabled)
}

// NewInMemoryRepositoryWithStore constructs a repository that uses the given Store.
func NewInMemoryRepositoryWithStore(store Store, samplesEnabled bool) *InMemoryRepository {
	return &InMemoryRepository{store: store, samplesEnabled: samplesEnabled}
}

// AddUpload implements Repository.AddUpload.
func (r *InMemoryRepository) AddUpload(rec video.Record) error {
	if rec.ID == "" {
		return ErrMissingID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.store.Get(rec.ID); exists {
		return ErrDuplicateRecord
	}
	r.store.Prepend(rec)
	return nil
}

// Uploads implements Repository.Uploads.
func (r *InMemoryRepository) Uploads() []video.Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store.All()
}

// Get implements Repository.Get.
func (r *InMemoryRepository) Get(id string) (video.Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store.Get(id)
}

// Clear implements Repository.Clear.
func (r *InMemoryRepository) Clear(disableSamples bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store.Reset()
	if disableSamples {
		r.samplesEnabled = false
	}
}

// SamplesEnabled implements Repository.SamplesEnabled.
func (r *InMemoryRepository) SamplesEnabled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.samplesEnabled
}

// UploadCount implements Repository.UploadCount.
func (r *InMemoryRepository) UploadCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.store.All())
}
