package main

import (
	"context"
	"log/slog"
	"time"

	"songbid/internal/feed"
	"songbid/internal/feedclient"
	"songbid/internal/video"

	"golang.org/x/sync/errgroup"
)

// Page geometry of the feed, in CSS pixels.
const (
	viewportHeight = 800.0
	headerOffset   = 120.0
	footerHeight   = 200.0
	cardHeight     = float64(feed.ActiveHeight)
	cardGap        = 40.0
	scrollStep     = 260.0
	visibleRatio   = 0.5
)

// Uploader is the upload dialog's collaborator.
type Uploader interface {
	Upload(ctx context.Context, f feedclient.UploadForm) (video.Record, error)
}

type options struct {
	Steps        int
	StepInterval time.Duration
	PreloadDelay time.Duration
	Muted        bool
	// Uploader, when set, uploads one video on the second step.
	Uploader Uploader
}

type report struct {
	Steps           int
	Records         int
	Actives         []int
	BidsOpened      int
	PausedDuringBid bool
	Uploaded        string
	NoMorePages     bool
}

type simulator struct {
	opts     options
	log      *slog.Logger
	host     *logHost
	dialogs  *feed.DialogHost
	ctrl     *feed.Controller
	rendered chan feed.State
	rep      report
}

// simulate preloads the first page, mounts the feed and scrolls through it
// step by step, clicking the focused video half way.
func simulate(ctx context.Context, provider feed.Provider, opts options, log *slog.Logger) (report, error) {
	if opts.StepInterval <= 0 {
		opts.StepInterval = 250 * time.Millisecond
	}

	store := feed.NewStore()
	pre := &feed.Preloader{Provider: provider, Store: store, Logger: log, Delay: opts.PreloadDelay}
	if err := pre.Run(ctx); err != nil && ctx.Err() != nil {
		return report{}, ctx.Err()
	}

	s := &simulator{
		opts:     opts,
		log:      log,
		host:     newLogHost(log),
		dialogs:  feed.NewDialogHost(),
		rendered: make(chan feed.State, 1),
	}
	s.ctrl = feed.NewController(feed.Config{
		Provider: provider,
		Host:     s.host,
		Logger:   log,
		Bids:     s.dialogs,
		Muted:    opts.Muted,
		OnChange: func(st feed.State) {
			select {
			case s.rendered <- st:
			default:
			}
		},
	})
	defer s.ctrl.Close()
	s.dialogs.Subscribe(s.ctrl.NotifyDialogOpenChanged)

	if err := s.ctrl.Initialize(ctx, store.Videos()); err != nil {
		log.Warn("initial load failed, showing fallback videos", slog.Any("error", err))
	}

	runCtx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		defer cancel()
		return s.scroll(gctx)
	})
	g.Go(func() error {
		s.pump(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return s.rep, err
	}

	st := s.ctrl.State()
	s.rep.Records = len(st.Records)
	s.rep.NoMorePages = st.NoMorePages
	return s.rep, nil
}

func (s *simulator) scroll(ctx context.Context) error {
	for step := 0; step < s.opts.Steps; step++ {
		if step == 1 && s.opts.Uploader != nil {
			s.upload(ctx)
		}

		st, err := s.scrollTo(ctx, float64(step)*scrollStep)
		if err != nil {
			return err
		}
		s.rep.Steps++
		s.rep.Actives = append(s.rep.Actives, st.Active)

		if step == s.opts.Steps/2 {
			if err := s.bid(ctx); err != nil {
				return err
			}
		}
		if err := s.wait(ctx, s.opts.StepInterval); err != nil {
			return err
		}
	}
	return nil
}

// scrollTo reports a new layout, waits for the next rendered frame and then
// reports visibility and media readiness for every mounted player.
func (s *simulator) scrollTo(ctx context.Context, y float64) (feed.State, error) {
	n := len(s.ctrl.State().Records)
	layout := layoutFor(n, y)

	select {
	case <-s.rendered:
	default:
	}
	s.ctrl.OnScroll(layout)

	var st feed.State
	select {
	case st = <-s.rendered:
	case <-time.After(s.opts.StepInterval):
		st = s.ctrl.State()
	case <-ctx.Done():
		return feed.State{}, ctx.Err()
	}

	for i, p := range s.ctrl.Players() {
		visible := i < len(layout.Elements) && intersection(layout.Elements[i]) >= visibleRatio
		p.SetVisible(visible)
		if visible && p.State().Phase == feed.Unloaded {
			p.HandleLoaded()
		}
	}
	if n > 0 && layout.Elements[n-1].Top < viewportHeight {
		s.ctrl.LastItemVisible()
	}

	title := ""
	if st.Active >= 0 && st.Active < len(st.Records) {
		title = st.Records[st.Active].SongTitle
	}
	s.log.Info("scrolled",
		slog.Float64("scroll_y", layout.ScrollY),
		slog.Int("active", st.Active),
		slog.String("song", title),
		slog.Int("records", len(st.Records)),
		slog.Any("playing", s.host.playing()))
	return st, nil
}

func (s *simulator) bid(ctx context.Context) error {
	// Let any frame still in flight settle before reading player state.
	if err := s.wait(ctx, 2*feed.FrameInterval); err != nil {
		return err
	}
	for _, p := range s.ctrl.Players() {
		if !p.Click() {
			continue
		}
		s.rep.BidsOpened++
		rec, _ := s.dialogs.BidRecord()
		s.rep.PausedDuringBid = len(s.host.playing()) == 0
		s.log.Info("bid dialog open",
			slog.String("artist", rec.DisplayArtist()),
			slog.Bool("media_paused", s.rep.PausedDuringBid))
		if err := s.wait(ctx, s.opts.StepInterval); err != nil {
			return err
		}
		s.dialogs.Close(feed.DialogBid)
		return nil
	}
	s.log.Warn("no video accepted the click")
	return nil
}

func (s *simulator) upload(ctx context.Context) {
	s.dialogs.Open(feed.DialogUpload)
	defer s.dialogs.Close(feed.DialogUpload)

	rec, err := s.opts.Uploader.Upload(ctx, feedclient.UploadForm{
		FileName:   "porch_session.mp4",
		FileSize:   12 << 20,
		ArtistName: "Feed Simulator",
		SongTitle:  "Porch Session",
	})
	if err != nil {
		s.log.Warn("upload failed", slog.Any("error", err))
		return
	}
	s.rep.Uploaded = rec.ID
	s.ctrl.OnUploadSuccess(rec)
}

// pump advances playing media in real time until ctx ends.
func (s *simulator) pump(ctx context.Context) {
	t := time.NewTicker(s.opts.StepInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.host.advance(s.opts.StepInterval)
		}
	}
}

func (s *simulator) wait(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// layoutFor stacks n cards under the header, scrolled by y and clamped to the
// scrollable range.
func layoutFor(n int, y float64) feed.Layout {
	content := headerOffset + float64(n)*(cardHeight+cardGap) + footerHeight
	y = min(y, max(0, content-viewportHeight))
	y = max(y, 0)

	els := make([]feed.Rect, n)
	for i := range els {
		els[i] = feed.Rect{Top: headerOffset + float64(i)*(cardHeight+cardGap) - y, Height: cardHeight}
	}
	return feed.Layout{ScrollY: y, ViewportHeight: viewportHeight, Elements: els}
}

// intersection returns the fraction of r inside the viewport.
func intersection(r feed.Rect) float64 {
	if r.Height <= 0 {
		return 0
	}
	top := max(r.Top, 0)
	bottom := min(r.Top+r.Height, viewportHeight)
	if bottom <= top {
		return 0
	}
	return (bottom - top) / r.Height
}
