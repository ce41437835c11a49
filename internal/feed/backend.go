package feed

import (
	"fmt"
	"sync"
	"time"

	"songbid/internal/video"

	"github.com/jonboulle/clockwork"
)

const (
	embedRestartDelay = 50 * time.Millisecond
	embedReloadDelay  = 100 * time.Millisecond
)

// Backend is the playback capability a Player drives. One implementation
// exists per video.SourceKind.
type Backend interface {
	Kind() video.SourceKind
	// Play starts playback from the current position. Failures are reported
	// but callers treat them as non-fatal.
	Play() error
	Pause()
	SeekToStart()
	// Reload re-fetches the source after a load failure.
	Reload()
	Paused() bool
}

// MediaElement is the host's native media element.
type MediaElement interface {
	Play() error
	Pause()
	SetCurrentTime(seconds float64)
	CurrentTime() float64
	Paused() bool
	Load()
}

// FrameElement is the host's embedded-player frame.
type FrameElement interface {
	SetSrc(src string)
	Src() string
}

// Host creates the elements a Player renders into.
type Host interface {
	MediaElement(rec video.Record) MediaElement
	FrameElement(rec video.Record) FrameElement
}

// NewBackend returns the backend matching rec's source kind.
func NewBackend(rec video.Record, host Host, clock clockwork.Clock, muted bool) Backend {
	if rec.Source.Kind == video.EmbeddedPlayer {
		return newEmbedBackend(rec.Source.EmbedID, host.FrameElement(rec), clock, muted)
	}
	return &nativeBackend{el: host.MediaElement(rec)}
}

type nativeBackend struct {
	el MediaElement
}

func (b *nativeBackend) Kind() video.SourceKind { return video.NativeMedia }
func (b *nativeBackend) Play() error            { return b.el.Play() }
func (b *nativeBackend) Pause()                 { b.el.Pause() }
func (b *nativeBackend) SeekToStart()           { b.el.SetCurrentTime(0) }
func (b *nativeBackend) Reload()                { b.el.Load() }
func (b *nativeBackend) Paused() bool           { return b.el.Paused() }

// EmbedURL builds the hosted player URL for id.
func EmbedURL(id string, autoplay, muted bool) string {
	return fmt.Sprintf("https://player.vimeo.com/video/%s?autoplay=%d&loop=1&background=1&muted=%d&transparent=0&dnt=1&quality=1080p",
		id, boolInt(autoplay), boolInt(muted))
}

// embedBackend cannot seek or play directly; it restarts playback by
// rewriting the frame source.
type embedBackend struct {
	mu       sync.Mutex
	id       string
	el       FrameElement
	clock    clockwork.Clock
	muted    bool
	autoplay bool
	pending  clockwork.Timer
	seq      uint64
}

func newEmbedBackend(id string, el FrameElement, clock clockwork.Clock, muted bool) *embedBackend {
	b := &embedBackend{id: id, el: el, clock: clock, muted: muted}
	el.SetSrc(EmbedURL(id, false, muted))
	return b
}

func (b *embedBackend) Kind() video.SourceKind { return video.EmbeddedPlayer }

func (b *embedBackend) Play() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.autoplay = true
	b.swapLocked(EmbedURL(b.id, true, b.muted), embedRestartDelay)
	return nil
}

func (b *embedBackend) Pause() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.autoplay = false
	b.stopPendingLocked()
	b.el.SetSrc(EmbedURL(b.id, false, b.muted))
}

// SeekToStart is a no-op: a source reload always starts from zero.
func (b *embedBackend) SeekToStart() {}

func (b *embedBackend) Reload() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.swapLocked(EmbedURL(b.id, b.autoplay, b.muted), embedReloadDelay)
}

func (b *embedBackend) Paused() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.autoplay
}

// swapLocked blanks the frame and restores src after delay so the player
// reloads from the beginning.
func (b *embedBackend) swapLocked(src string, delay time.Duration) {
	b.stopPendingLocked()
	b.el.SetSrc("")
	seq := b.seq
	b.pending = b.clock.AfterFunc(delay, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if seq != b.seq {
			return
		}
		b.pending = nil
		b.el.SetSrc(src)
	})
}

func (b *embedBackend) stopPendingLocked() {
	b.seq++
	if b.pending != nil {
		b.pending.Stop()
		b.pending = nil
	}
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
