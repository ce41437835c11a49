package main

import (
	"log/slog"
	"sync"
	"time"

	"songbid/internal/feed"
	"songbid/internal/video"
)

// logHost stands in for the page: its elements only log what the engine asks
// of them.
type logHost struct {
	log *slog.Logger

	mu     sync.Mutex
	media  map[string]*logMedia
	frames map[string]*logFrame
}

func newLogHost(log *slog.Logger) *logHost {
	return &logHost{
		log:    log,
		media:  make(map[string]*logMedia),
		frames: make(map[string]*logFrame),
	}
}

func (h *logHost) MediaElement(rec video.Record) feed.MediaElement {
	h.mu.Lock()
	defer h.mu.Unlock()
	m := &logMedia{log: h.log.With(slog.String("element", "video"), slog.String("record_id", rec.ID))}
	h.media[rec.ID] = m
	return m
}

func (h *logHost) FrameElement(rec video.Record) feed.FrameElement {
	h.mu.Lock()
	defer h.mu.Unlock()
	f := &logFrame{log: h.log.With(slog.String("element", "iframe"), slog.String("record_id", rec.ID))}
	h.frames[rec.ID] = f
	return f
}

// playing returns the IDs of media elements currently playing.
func (h *logHost) playing() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var ids []string
	for id, m := range h.media {
		if !m.Paused() {
			ids = append(ids, id)
		}
	}
	return ids
}

type logMedia struct {
	log *slog.Logger

	mu      sync.Mutex
	playing bool
	pos     float64
}

func (m *logMedia) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.playing {
		m.log.Debug("play", slog.Float64("at", m.pos))
	}
	m.playing = true
	return nil
}

func (m *logMedia) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.playing {
		m.log.Debug("pause", slog.Float64("at", m.pos))
	}
	m.playing = false
}

func (m *logMedia) SetCurrentTime(s float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pos = s
}

func (m *logMedia) CurrentTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pos
}

func (m *logMedia) Paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.playing
}

func (m *logMedia) Load() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.log.Debug("load")
	m.playing = false
	m.pos = 0
}

type logFrame struct {
	log *slog.Logger

	mu  sync.Mutex
	src string
}

func (f *logFrame) SetSrc(src string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.log.Debug("src", slog.String("src", src))
	f.src = src
}

func (f *logFrame) Src() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.src
}

// advance moves every playing element forward by d.
func (h *logHost) advance(d time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, m := range h.media {
		m.mu.Lock()
		if m.playing {
			m.pos += d.Seconds()
		}
		m.mu.Unlock()
	}
}
