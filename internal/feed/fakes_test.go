package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"songbid/internal/video"
)

var errAborted = errors.New("play() request was interrupted by a call to pause()")

type fakeMedia struct {
	mu         sync.Mutex
	playing    bool
	position   float64
	plays      int
	loads      int
	rejectNext bool
}

func (m *fakeMedia) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plays++
	if m.rejectNext {
		m.rejectNext = false
		return errAborted
	}
	m.playing = true
	return nil
}

func (m *fakeMedia) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playing = false
}

func (m *fakeMedia) SetCurrentTime(s float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = s
}

func (m *fakeMedia) CurrentTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *fakeMedia) Paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.playing
}

func (m *fakeMedia) Load() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	m.playing = false
}

// advance simulates playback progress.
func (m *fakeMedia) advance(s float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.playing {
		m.position += s
	}
}

func (m *fakeMedia) loadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loads
}

type fakeFrame struct {
	mu   sync.Mutex
	srcs []string
}

func (f *fakeFrame) SetSrc(src string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.srcs = append(f.srcs, src)
}

func (f *fakeFrame) Src() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.srcs) == 0 {
		return ""
	}
	return f.srcs[len(f.srcs)-1]
}

type fakeHost struct {
	mu     sync.Mutex
	media  map[string]*fakeMedia
	frames map[string]*fakeFrame
}

func newFakeHost() *fakeHost {
	return &fakeHost{media: map[string]*fakeMedia{}, frames: map[string]*fakeFrame{}}
}

func (h *fakeHost) MediaElement(rec video.Record) MediaElement {
	h.mu.Lock()
	defer h.mu.Unlock()
	m := &fakeMedia{}
	h.media[rec.ID] = m
	return m
}

func (h *fakeHost) FrameElement(rec video.Record) FrameElement {
	h.mu.Lock()
	defer h.mu.Unlock()
	f := &fakeFrame{}
	h.frames[rec.ID] = f
	return f
}

func (h *fakeHost) mediaFor(id string) *fakeMedia {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.media[id]
}

func (h *fakeHost) frameFor(id string) *fakeFrame {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frames[id]
}

func (f *fakeFrame) history() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.srcs...)
}

// fakeProvider serves pages from a map. When gate is set, the first call
// blocks until it is closed; byCall overrides the response per call index.
type fakeProvider struct {
	mu      sync.Mutex
	calls   []int
	pages   map[int][]video.Record
	byCall  map[int][]video.Record
	err     error
	gate    chan struct{}
	started chan int
}

func (p *fakeProvider) Videos(ctx context.Context, page int, _ int64) ([]video.Record, error) {
	p.mu.Lock()
	n := len(p.calls)
	p.calls = append(p.calls, page)
	gate, started := p.gate, p.started
	p.mu.Unlock()

	if started != nil {
		started <- page
	}
	if n == 0 && gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	if recs, ok := p.byCall[n]; ok {
		return recs, nil
	}
	return p.pages[page], nil
}

func (p *fakeProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

func (p *fakeProvider) setErr(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

// manualFrames queues frame callbacks until flush.
type manualFrames struct {
	mu       sync.Mutex
	queued   []func()
	requests int
}

func (f *manualFrames) RequestFrame(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests++
	f.queued = append(f.queued, fn)
}

func (f *manualFrames) flush() {
	f.mu.Lock()
	q := f.queued
	f.queued = nil
	f.mu.Unlock()
	for _, fn := range q {
		fn()
	}
}

func (f *manualFrames) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests
}

func (b *recordingBids) ids() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.opened...)
}

type recordingBids struct {
	mu     sync.Mutex
	opened []string
}

func (b *recordingBids) OpenBid(rec video.Record) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.opened = append(b.opened, rec.ID)
}

func records(prefix string, n int) []video.Record {
	out := make([]video.Record, n)
	for i := range out {
		id := fmt.Sprintf("%s-%d", prefix, i+1)
		out[i] = video.Record{ID: id, SongTitle: id, Source: video.NativeSource("https://example.test/" + id + ".mp4")}
	}
	return out
}

func ids(recs []video.Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}

// stackLayout places n elements of height h with gap g starting at top,
// scrolled by scrollY.
func stackLayout(n int, h, g, scrollY, viewport float64) Layout {
	els := make([]Rect, n)
	for i := range els {
		els[i] = Rect{Top: float64(i)*(h+g) - scrollY, Height: h}
	}
	return Layout{ScrollY: scrollY, ViewportHeight: viewport, Elements: els}
}
