package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"songbid/internal/video"
	"songbid/internal/vimeo"

	"github.com/duke-git/lancet/v2/slice"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

const (
	// DefaultPageSize is the number of records per /api/videos page.
	DefaultPageSize = 10
	// DefaultMaxUploadBytes is the 300 MB upload ceiling.
	DefaultMaxUploadBytes int64 = 300 * 1024 * 1024
)

var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrFileTooLarge       = errors.New("file size exceeds upload limit")
	ErrVimeoNotConfigured = errors.New("vimeo uploads are not configured")
)

// Ticketer creates upload tickets on a hosted video service.
type Ticketer interface {
	CreateUploadTicket(ctx context.Context, name string, size int64) (*vimeo.Ticket, error)
}

// Options configures a Service. Zero values select the defaults.
type Options struct {
	PageSize       int
	MaxUploadBytes int64
	Clock          clockwork.Clock
	NewID          func() string
	// Vimeo is nil when no credentials are configured.
	Vimeo Ticketer
}

// Service serves paged video lists and accepts mock uploads. Storage is
// delegated to Repository.
type Service struct {
	repo      Repository
	pageSize  int
	maxUpload int64
	clock     clockwork.Clock
	newID     func() string
	vimeo     Ticketer
}

// NewService returns a Service over repo.
func NewService(repo Repository, opts Options) *Service {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &Service{
		repo:      repo,
		pageSize:  opts.PageSize,
		maxUpload: opts.MaxUploadBytes,
		clock:     opts.Clock,
		newID:     opts.NewID,
		vimeo:     opts.Vimeo,
	}
}

// MaxUploadBytes returns the configured upload ceiling.
func (s *Service) MaxUploadBytes() int64 {
	return s.maxUpload
}

// Videos returns page (1-based) of the feed source list. Pages past the end
// are empty, which is how clients detect the end of the list.
func (s *Service) Videos(page int) []video.Record {
	if page < 1 {
		page = 1
	}
	pages := slice.Chunk(s.Listing(), s.pageSize)
	if page > len(pages) {
		return []video.Record{}
	}
	return pages[page-1]
}

// Listing returns uploads newest first, or the sample set when nothing has
// been uploaded and samples are enabled.
func (s *Service) Listing() []video.Record {
	uploads := s.repo.Uploads()
	if len(uploads) == 0 {
		if s.repo.SamplesEnabled() {
			return video.Samples()
		}
		return []video.Record{}
	}
	return uploads
}

// Upload validates req and stores a mock record for it. No bytes are
// stored; the record plays one of the sample files, rotated by position.
func (s *Service) Upload(req UploadRequest) (video.Record, error) {
	if req.FileName == "" || req.FileSize <= 0 || req.ArtistName == "" || req.SongTitle == "" {
		return video.Record{}, ErrMissingFields
	}
	if req.FileSize > s.maxUpload {
		return video.Record{}, ErrFileTooLarge
	}

	now := s.clock.Now().UTC()
	position := s.repo.UploadCount()
	rec := video.Record{
		ID:                  s.newID(),
		SongTitle:           req.SongTitle,
		OriginalFilename:    req.FileName,
		TimestampedFilename: TimestampedFilename(req.FileName, now.Unix()),
		UploadedAt:          now,
		ArtistName:          req.ArtistName,
		Source:              video.NativeSource(video.SampleMediaURLs[position%len(video.SampleMediaURLs)]),
	}
	if err := s.repo.AddUpload(rec); err != nil {
		return video.Record{}, fmt.Errorf("store upload: %w", err)
	}
	return rec, nil
}

// CreateVimeoUpload requests a tus upload ticket for req.
func (s *Service) CreateVimeoUpload(ctx context.Context, req VimeoUploadRequest) (*vimeo.Ticket, error) {
	if req.FileName == "" || req.FileSize <= 0 || req.Name == "" {
		return nil, ErrMissingFields
	}
	if s.vimeo == nil {
		return nil, ErrVimeoNotConfigured
	}
	return s.vimeo.CreateUploadTicket(ctx, req.Name, req.FileSize)
}

// Clear drops all uploads and reports the resulting status.
func (s *Service) Clear(opts ClearOptions) Status {
	s.repo.Clear(opts.DisableSampleVideos)
	return s.Status()
}

// Status reports the upload count and whether samples are enabled.
func (s *Service) Status() Status {
	return Status{
		VideoCount:          s.repo.UploadCount(),
		SampleVideosEnabled: s.repo.SamplesEnabled(),
	}
}

// TimestampedFilename inserts _<unix> before the extension of name:
// "take.final.mp4" becomes "take.final_1700000000.mp4". A name without an
// extension gets the suffix appended.
func TimestampedFilename(name string, unix int64) string {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return fmt.Sprintf("%s_%d", name, unix)
	}
	return fmt.Sprintf("%s_%d%s", name[:i], unix, name[i:])
}
