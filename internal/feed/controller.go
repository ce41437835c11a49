// Package feed is the scroll-driven video feed engine. It is host agnostic:
// the page reports layout, visibility, media events and dialog state, and the
// engine decides focus, the active record, playback and pagination.
package feed

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"songbid/internal/video"

	"github.com/jonboulle/clockwork"
)

const (
	// MaxShowcase is the feed length kept after an upload is prepended.
	MaxShowcase = 3
	// PaginationDebounce delays LoadMore after the last item comes into view.
	PaginationDebounce = 300 * time.Millisecond
	// PaginationCooldown blocks further triggers after a debounced LoadMore.
	PaginationCooldown = 2000 * time.Millisecond

	cacheWindow = 30 * time.Second
)

// Provider supplies pages of video records. An empty page beyond the first is
// the only end-of-list signal.
type Provider interface {
	Videos(ctx context.Context, page int, cacheBust int64) ([]video.Record, error)
}

// CacheBust buckets now into 30-second windows so repeated page requests
// within a window share a URL.
func CacheBust(now time.Time) int64 {
	return now.UnixMilli() / cacheWindow.Milliseconds()
}

// State is a snapshot of the feed.
type State struct {
	Records     []video.Record
	Weights     []float64
	Active      int
	Cursor      int
	NoMorePages bool
	Loading     bool
	Err         error
	DialogOpen  bool
}

// IsActive reports whether the record at i is the active one.
func (s State) IsActive(i int) bool {
	return s.Active != NoActive && i == s.Active
}

// Config wires a Controller to its collaborators. Provider is required; Host
// may be nil when no players should be mounted.
type Config struct {
	Provider Provider
	Host     Host
	Clock    clockwork.Clock
	Frames   FrameScheduler
	Logger   *slog.Logger
	Bids     BidOpener
	// Fallback replaces video.Fallback() when set.
	Fallback []video.Record
	Muted    bool
	// OnChange and OnPlayerChange run with the controller locked and must
	// not call back into it.
	OnChange       func(State)
	OnPlayerChange func(PlaybackState)
}

// Controller owns the feed state: records, focus weights, the active index,
// pagination and the mounted players.
type Controller struct {
	mu     sync.Mutex
	cfg    Config
	clock  clockwork.Clock
	frames FrameScheduler
	log    *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc

	records    []video.Record
	weights    []float64
	active     int
	cursor     int
	noMore     bool
	loading    bool
	err        error
	dialogOpen bool
	generation uint64

	layout    Layout
	hasLayout bool
	ticking   bool

	triggerPending bool
	cooldownUntil  time.Time

	players []*Player
	closed  bool
}

// NewController returns an empty controller. Call Initialize to seed it.
func NewController(cfg Config) *Controller {
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.Frames == nil {
		cfg.Frames = ClockFrames{Clock: cfg.Clock}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Fallback == nil {
		cfg.Fallback = video.Fallback()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		cfg:    cfg,
		clock:  cfg.Clock,
		frames: cfg.Frames,
		log:    cfg.Logger,
		ctx:    ctx,
		cancel: cancel,
		active: NoActive,
		cursor: 1,
	}
}

// Initialize seeds the feed. Preloaded records are shown as page 1 and the
// cursor moves to page 2; otherwise page 1 is requested immediately.
func (c *Controller) Initialize(ctx context.Context, initial []video.Record) error {
	c.mu.Lock()
	if len(initial) > 0 {
		c.setRecordsLocked(append([]video.Record(nil), initial...))
		c.cursor = 2
		c.renderLocked()
		c.log.Info("feed initialized from preloaded videos", slog.Int("count", len(initial)))
		c.mu.Unlock()
		return nil
	}
	c.cursor = 1
	c.mu.Unlock()
	return c.LoadMore(ctx)
}

// LoadMore fetches the next page. It returns immediately when a load is in
// flight or the list is known to be exhausted. A provider failure is stored
// in State.Err and returned; fallback records fill an empty feed.
func (c *Controller) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	if c.closed || c.loading || (c.noMore && c.cursor > 1) {
		c.mu.Unlock()
		return nil
	}
	page, gen := c.cursor, c.generation
	c.loading = true
	c.err = nil
	c.emitLocked()
	c.mu.Unlock()

	records, err := c.cfg.Provider.Videos(ctx, page, CacheBust(c.clock.Now()))

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		c.loading = false
		return nil
	}
	if gen != c.generation || page != c.cursor {
		c.log.Debug("discarding stale page", slog.Int("page", page))
		return nil
	}
	c.loading = false

	if err != nil {
		c.err = fmt.Errorf("load page %d: %w", page, err)
		c.log.Warn("load videos failed", slog.Int("page", page), slog.Any("error", err))
		if len(c.records) == 0 {
			c.setRecordsLocked(c.fallbackLocked())
		}
		c.renderLocked()
		return c.err
	}

	switch {
	case len(records) > 0:
		if page == 1 {
			c.setRecordsLocked(records)
		} else {
			next := make([]video.Record, 0, len(c.records)+len(records))
			next = append(next, c.records...)
			c.setRecordsLocked(append(next, records...))
		}
		c.cursor++
		c.log.Debug("page loaded", slog.Int("page", page), slog.Int("count", len(records)))
	case page == 1:
		c.log.Info("first page empty, using fallback videos")
		c.setRecordsLocked(c.fallbackLocked())
	default:
		c.noMore = true
		c.log.Debug("no more pages", slog.Int("page", page))
	}
	c.renderLocked()
	return nil
}

// Retry clears the error, resets the feed and loads page 1 again. Responses
// still in flight from before the reset are discarded.
func (c *Controller) Retry(ctx context.Context) error {
	c.mu.Lock()
	c.generation++
	c.err = nil
	c.loading = false
	c.noMore = false
	c.cursor = 1
	c.setRecordsLocked(nil)
	c.renderLocked()
	c.mu.Unlock()
	return c.LoadMore(ctx)
}

// OnScroll records a new layout measurement. Focus is recomputed at most once
// per frame.
func (c *Controller) OnScroll(layout Layout) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	layout.Elements = append([]Rect(nil), layout.Elements...)
	c.layout = layout
	c.hasLayout = true
	c.scheduleLocked()
}

// NotifyDialogOpenChanged suppresses focus while any modal is open. On open,
// every player is paused before this returns. On close the last verdict is
// restored and focus is recomputed on the next frame.
func (c *Controller) NotifyDialogOpenChanged(open bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || open == c.dialogOpen {
		return
	}
	c.dialogOpen = open
	c.renderLocked()
	if !open && c.hasLayout {
		c.scheduleLocked()
	}
}

// OnUploadSuccess puts rec first and keeps at most MaxShowcase records.
func (c *Controller) OnUploadSuccess(rec video.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	keep := min(len(c.records), MaxShowcase-1)
	next := make([]video.Record, 0, keep+1)
	next = append(next, rec)
	next = append(next, c.records[:keep]...)
	c.setRecordsLocked(next)
	c.renderLocked()
	c.log.Info("uploaded video added to feed", slog.String("record_id", rec.ID))
}

// LastItemVisible is the pagination trigger, fired when the last rendered
// record intersects the viewport. LoadMore runs after PaginationDebounce and
// further triggers are ignored until PaginationCooldown has passed.
func (c *Controller) LastItemVisible() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.triggerPending || c.clock.Now().Before(c.cooldownUntil) {
		return
	}
	c.triggerPending = true
	c.clock.AfterFunc(PaginationDebounce, func() {
		c.mu.Lock()
		c.triggerPending = false
		c.cooldownUntil = c.clock.Now().Add(PaginationCooldown)
		closed := c.closed
		c.mu.Unlock()
		if closed {
			return
		}
		_ = c.LoadMore(c.ctx)
	})
}

// State returns a snapshot of the feed.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// Players returns the mounted players aligned with State().Records.
func (c *Controller) Players() []*Player {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*Player(nil), c.players...)
}

// Close unmounts every player and cancels background loads.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.cancel()
	for _, p := range c.players {
		p.Close()
	}
	c.players = nil
}

func (c *Controller) onFrame() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ticking = false
	if c.closed || c.dialogOpen {
		return
	}
	f, ok := ComputeFocus(c.layout, len(c.records), c.active)
	if !ok {
		return
	}
	c.weights = f.Weights
	c.active = f.Active
	c.renderLocked()
}

func (c *Controller) scheduleLocked() {
	if c.ticking {
		return
	}
	c.ticking = true
	c.frames.RequestFrame(c.onFrame)
}

// setRecordsLocked replaces the record list, resizes the weights and
// reconciles players by record ID.
func (c *Controller) setRecordsLocked(records []video.Record) {
	n := len(records)
	weights := make([]float64, n)
	for i := 0; i < n && i < len(c.records); i++ {
		if c.records[i].ID == records[i].ID {
			weights[i] = c.weights[i]
		}
	}
	c.records = records
	c.weights = weights
	switch {
	case n == 0:
		c.active = NoActive
	case c.active < 0 || c.active >= n:
		c.active = 0
	}
	if n > 0 && (!c.hasLayout || c.layout.ScrollY < TopScrollThreshold) {
		c.active = 0
		for i := range c.weights {
			c.weights[i] = 0
		}
		c.weights[0] = 1
	}
	c.reconcilePlayersLocked()
	if n > 0 && c.hasLayout {
		c.scheduleLocked()
	}
}

func (c *Controller) reconcilePlayersLocked() {
	if c.cfg.Host == nil {
		return
	}
	existing := make(map[string][]*Player, len(c.players))
	for _, p := range c.players {
		id := p.Record().ID
		existing[id] = append(existing[id], p)
	}
	next := make([]*Player, len(c.records))
	for i, rec := range c.records {
		if ps := existing[rec.ID]; len(ps) > 0 {
			next[i] = ps[0]
			existing[rec.ID] = ps[1:]
			continue
		}
		next[i] = NewPlayer(rec, NewBackend(rec, c.cfg.Host, c.clock, c.cfg.Muted), PlayerOptions{
			Clock:    c.clock,
			Logger:   c.log,
			Bids:     c.cfg.Bids,
			OnChange: c.cfg.OnPlayerChange,
		})
	}
	for _, ps := range existing {
		for _, p := range ps {
			p.Close()
		}
	}
	c.players = next
}

// renderLocked pushes the current verdict to every player and emits the
// state.
func (c *Controller) renderLocked() {
	st := c.stateLocked()
	for i, p := range c.players {
		p.Update(st.IsActive(i), st.Weights[i])
	}
	if c.cfg.OnChange != nil {
		c.cfg.OnChange(st)
	}
}

func (c *Controller) emitLocked() {
	if c.cfg.OnChange != nil {
		c.cfg.OnChange(c.stateLocked())
	}
}

func (c *Controller) stateLocked() State {
	st := State{
		Records:     append([]video.Record(nil), c.records...),
		Weights:     append([]float64(nil), c.weights...),
		Active:      c.active,
		Cursor:      c.cursor,
		NoMorePages: c.noMore,
		Loading:     c.loading,
		Err:         c.err,
		DialogOpen:  c.dialogOpen,
	}
	if c.dialogOpen {
		f := suppressed(len(c.records))
		st.Weights, st.Active = f.Weights, f.Active
	}
	return st
}

func (c *Controller) fallbackLocked() []video.Record {
	return append([]video.Record(nil), c.cfg.Fallback...)
}
