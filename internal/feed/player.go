package feed

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"songbid/internal/video"

	"github.com/jonboulle/clockwork"
)

const (
	// LoadTimeout is how long a player waits for a load or error signal.
	LoadTimeout = 10 * time.Second
	// MaxAutoRetries bounds automatic retries per mount.
	MaxAutoRetries = 3
)

// ErrRetriesExhausted is reported once a player has used its automatic
// retries and only a manual Retry can reload it.
var ErrRetriesExhausted = errors.New("playback retries exhausted")

// Phase is the load phase of a player.
type Phase int

const (
	Unloaded Phase = iota
	Loaded
	Errored
)

func (p Phase) String() string {
	switch p {
	case Loaded:
		return "loaded"
	case Errored:
		return "error"
	default:
		return "unloaded"
	}
}

// PlaybackState is a snapshot of a player.
type PlaybackState struct {
	RecordID string
	Phase    Phase
	Retries  int
	Visible  bool
	Active   bool
	Weight   float64
	Paused   bool
	// Err is ErrRetriesExhausted while Errored with no automatic retry left.
	Err error
}

// BidOpener opens the bid/tip dialog for a record.
type BidOpener interface {
	OpenBid(rec video.Record)
}

// PlayerOptions configures a Player. Zero values are usable.
type PlayerOptions struct {
	Clock    clockwork.Clock
	Logger   *slog.Logger
	Bids     BidOpener
	OnChange func(PlaybackState)
}

// Player is the per-record playback adapter. It owns load/error/retry state
// and turns active/visible/weight updates into backend commands.
type Player struct {
	mu       sync.Mutex
	rec      video.Record
	backend  Backend
	clock    clockwork.Clock
	log      *slog.Logger
	bids     BidOpener
	onChange func(PlaybackState)

	phase   Phase
	retries int
	visible bool
	active  bool
	weight  float64
	closed  bool

	timeout    clockwork.Timer
	timeoutSeq uint64
}

// NewPlayer mounts a player for rec and starts its load timeout.
func NewPlayer(rec video.Record, backend Backend, opts PlayerOptions) *Player {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	p := &Player{
		rec:      rec,
		backend:  backend,
		clock:    opts.Clock,
		log:      opts.Logger.With(slog.String("record_id", rec.ID), slog.String("backend", backend.Kind().String())),
		bids:     opts.Bids,
		onChange: opts.OnChange,
	}
	p.mu.Lock()
	p.armTimeoutLocked()
	p.mu.Unlock()
	return p
}

// Record returns the record this player renders.
func (p *Player) Record() video.Record {
	return p.rec
}

// Update applies the controller's verdict for this record.
func (p *Player) Update(active bool, weight float64) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.weight = weight
	if active != p.active {
		p.active = active
		if active {
			p.activatedLocked()
		} else {
			p.deactivatedLocked()
		}
	}
	if active && p.phase == Errored && p.retries < MaxAutoRetries {
		p.retryLocked("activated")
	}
	p.enforceLocked()
	st := p.stateLocked()
	p.mu.Unlock()
	p.emit(st)
}

// SetVisible records the host's intersection result (threshold 0.5).
func (p *Player) SetVisible(visible bool) {
	p.mu.Lock()
	if p.closed || p.visible == visible {
		p.mu.Unlock()
		return
	}
	p.visible = visible
	p.enforceLocked()
	st := p.stateLocked()
	p.mu.Unlock()
	p.emit(st)
}

// HandleLoaded is called by the host when the media reports it can play.
func (p *Player) HandleLoaded() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.stopTimeoutLocked()
	p.phase = Loaded
	st := p.stateLocked()
	p.mu.Unlock()
	p.emit(st)
}

// HandleError is called by the host when the media fails to load.
func (p *Player) HandleError(err error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.stopTimeoutLocked()
	p.phase = Errored
	p.log.Warn("video load failed", slog.Any("error", err), slog.Int("retries", p.retries))
	if p.active && p.retries < MaxAutoRetries {
		p.emitLocked()
		p.retryLocked("error while active")
	}
	st := p.stateLocked()
	p.mu.Unlock()
	p.emit(st)
}

// Retry is the manual retry control. It resets the automatic retry budget.
func (p *Player) Retry() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.retries = 0
	p.phase = Unloaded
	p.backend.Reload()
	p.armTimeoutLocked()
	p.log.Info("manual retry")
	st := p.stateLocked()
	p.mu.Unlock()
	p.emit(st)
}

// Click opens the bid dialog when the record is active and loaded. It
// reports whether the click was handled.
func (p *Player) Click() bool {
	p.mu.Lock()
	ok := !p.closed && p.active && p.phase == Loaded && p.bids != nil
	p.mu.Unlock()
	if !ok {
		return false
	}
	p.bids.OpenBid(p.rec)
	return true
}

// Effects returns the visual state for the current weight.
func (p *Player) Effects() Effects {
	p.mu.Lock()
	defer p.mu.Unlock()
	return EffectsFor(p.weight)
}

// State returns a snapshot of the player.
func (p *Player) State() PlaybackState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stateLocked()
}

// Close unmounts the player: timers stop and native media is paused.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.stopTimeoutLocked()
	p.backend.Pause()
	p.closed = true
}

func (p *Player) activatedLocked() {
	switch p.backend.Kind() {
	case video.NativeMedia:
		p.backend.SeekToStart()
		if p.visible {
			p.playLocked()
		}
	case video.EmbeddedPlayer:
		if p.visible {
			p.playLocked()
		}
	}
}

func (p *Player) deactivatedLocked() {
	p.backend.Pause()
	p.backend.SeekToStart()
}

// enforceLocked keeps playback consistent with active && visible on every
// update, not only on edges.
func (p *Player) enforceLocked() {
	shouldPlay := p.active && p.visible
	switch p.backend.Kind() {
	case video.NativeMedia:
		if !shouldPlay {
			p.backend.Pause()
			p.backend.SeekToStart()
			return
		}
		if p.backend.Paused() {
			p.backend.SeekToStart()
			p.playLocked()
		}
	case video.EmbeddedPlayer:
		if shouldPlay && p.backend.Paused() {
			p.playLocked()
		} else if !shouldPlay && !p.backend.Paused() {
			p.backend.Pause()
		}
	}
}

func (p *Player) playLocked() {
	if err := p.backend.Play(); err != nil {
		p.log.Debug("play rejected", slog.Any("error", err))
	}
}

func (p *Player) retryLocked(reason string) {
	p.retries++
	p.phase = Unloaded
	p.log.Info("retrying video load", slog.String("reason", reason), slog.Int("retries", p.retries))
	p.backend.Reload()
	p.armTimeoutLocked()
}

func (p *Player) armTimeoutLocked() {
	p.stopTimeoutLocked()
	seq := p.timeoutSeq
	p.timeout = p.clock.AfterFunc(LoadTimeout, func() { p.onTimeout(seq) })
}

func (p *Player) stopTimeoutLocked() {
	p.timeoutSeq++
	if p.timeout != nil {
		p.timeout.Stop()
		p.timeout = nil
	}
}

func (p *Player) onTimeout(seq uint64) {
	p.mu.Lock()
	if p.closed || seq != p.timeoutSeq || p.phase != Unloaded {
		p.mu.Unlock()
		return
	}
	p.timeout = nil
	p.phase = Errored
	p.log.Warn("video load timeout", slog.Duration("after", LoadTimeout), slog.Int("retries", p.retries))
	p.emitLocked()
	if p.retries < MaxAutoRetries {
		p.retryLocked("timeout")
	}
	st := p.stateLocked()
	p.mu.Unlock()
	p.emit(st)
}

func (p *Player) stateLocked() PlaybackState {
	st := PlaybackState{
		RecordID: p.rec.ID,
		Phase:    p.phase,
		Retries:  p.retries,
		Visible:  p.visible,
		Active:   p.active,
		Weight:   p.weight,
		Paused:   p.backend.Paused(),
	}
	if p.phase == Errored && p.retries >= MaxAutoRetries {
		st.Err = ErrRetriesExhausted
	}
	return st
}

// emitLocked reports an intermediate state while p.mu is held. The callback
// must not call back into the player.
func (p *Player) emitLocked() {
	if p.onChange != nil {
		p.onChange(p.stateLocked())
	}
}

func (p *Player) emit(st PlaybackState) {
	if p.onChange != nil {
		p.onChange(st)
	}
}
