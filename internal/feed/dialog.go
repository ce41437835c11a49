package feed

import (
	"sync"

	"songbid/internal/video"
)

// DialogKind names a modal hosted on the feed page.
type DialogKind string

const (
	DialogBid       DialogKind = "bid"
	DialogTip       DialogKind = "tip"
	DialogFeedback  DialogKind = "feedback"
	DialogPayment   DialogKind = "payment"
	DialogCopyright DialogKind = "copyright"
	DialogUpload    DialogKind = "upload"
)

// DialogHost tracks which modals are open and tells subscribers when the
// "any dialog open" signal flips. Modal components call Open and Close
// directly instead of the feed inspecting the page.
type DialogHost struct {
	// notifyMu orders deliveries so subscribers see flips in the order the
	// state changed. Subscribers must not call Open or Close.
	notifyMu sync.Mutex

	mu     sync.Mutex
	open   map[DialogKind]bool
	subs   []func(open bool)
	bidFor *video.Record
}

// NewDialogHost returns a host with no dialogs open.
func NewDialogHost() *DialogHost {
	return &DialogHost{open: make(map[DialogKind]bool)}
}

// Subscribe registers fn to be called on every change of AnyOpen.
func (h *DialogHost) Subscribe(fn func(open bool)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subs = append(h.subs, fn)
}

// Open marks kind as open. Subscribers run before Open returns, so media is
// paused before the dialog becomes interactive.
func (h *DialogHost) Open(kind DialogKind) {
	h.set(kind, true)
}

// Close marks kind as closed.
func (h *DialogHost) Close(kind DialogKind) {
	h.mu.Lock()
	if kind == DialogBid {
		h.bidFor = nil
	}
	h.mu.Unlock()
	h.set(kind, false)
}

// AnyOpen reports whether at least one dialog is open.
func (h *DialogHost) AnyOpen() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.open) > 0
}

// OpenBid implements BidOpener.
func (h *DialogHost) OpenBid(rec video.Record) {
	h.mu.Lock()
	r := rec
	h.bidFor = &r
	h.mu.Unlock()
	h.Open(DialogBid)
}

// BidRecord returns the record the bid dialog was opened for.
func (h *DialogHost) BidRecord() (video.Record, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.bidFor == nil {
		return video.Record{}, false
	}
	return *h.bidFor, true
}

func (h *DialogHost) set(kind DialogKind, open bool) {
	h.notifyMu.Lock()
	defer h.notifyMu.Unlock()

	h.mu.Lock()
	before := len(h.open) > 0
	if open {
		h.open[kind] = true
	} else {
		delete(h.open, kind)
	}
	after := len(h.open) > 0
	subs := append([]func(bool){}, h.subs...)
	h.mu.Unlock()

	if before == after {
		return
	}
	for _, fn := range subs {
		fn(after)
	}
}
