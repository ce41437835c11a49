package feed

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"songbid/internal/video"

	"github.com/jonboulle/clockwork"
)

// Store is the application state shared between pages: the preloaded first
// page and whether it has been loaded. It is passed explicitly to whoever
// needs it.
type Store struct {
	mu     sync.RWMutex
	videos []video.Record
	loaded bool
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// SetVideos replaces the preloaded records.
func (s *Store) SetVideos(records []video.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.videos = append([]video.Record(nil), records...)
}

// SetLoaded sets the loaded flag.
func (s *Store) SetLoaded(loaded bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = loaded
}

// Videos returns the preloaded records, or nil when nothing was preloaded.
func (s *Store) Videos() []video.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return nil
	}
	return append([]video.Record(nil), s.videos...)
}

// Loaded reports whether a preload succeeded.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Preloader fetches the first page ahead of the feed so it can render
// immediately.
type Preloader struct {
	Provider Provider
	Store    *Store
	Clock    clockwork.Clock
	Logger   *slog.Logger
	// Delay postpones the fetch so the landing page renders first.
	Delay time.Duration
}

// Run performs a single preload attempt. It is a no-op when the store is
// already loaded. Failures are logged and leave the store untouched.
func (p *Preloader) Run(ctx context.Context) error {
	if p.Store.Loaded() {
		return nil
	}
	clock := p.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	log := p.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	if p.Delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-clock.After(p.Delay):
		}
	}

	records, err := p.Provider.Videos(ctx, 1, CacheBust(clock.Now()))
	if err != nil {
		log.Warn("preload videos failed", slog.Any("error", err))
		return err
	}
	if len(records) == 0 {
		log.Debug("preload returned no videos")
		return nil
	}
	p.Store.SetVideos(records)
	p.Store.SetLoaded(true)
	log.Info("videos preloaded", slog.Int("count", len(records)))
	return nil
}
