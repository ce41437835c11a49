package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"songbid/internal/video"
	"songbid/internal/vimeo"

	"github.com/jonboulle/clockwork"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestService(t *testing.T, samples bool, opts Options) (*Service, *InMemoryRepository) {
	t.Helper()
	repo := NewInMemoryRepository(samples)
	if opts.Clock == nil {
		opts.Clock = clockwork.NewFakeClockAt(time.Unix(1_700_000_000, 0))
	}
	if opts.NewID == nil {
		opts.NewID = sequentialIDs()
	}
	return NewService(repo, opts), repo
}

func validUpload(title string) UploadRequest {
	return UploadRequest{FileName: "take.mp4", FileSize: 1024, ArtistName: "Ada", SongTitle: title}
}

func TestService_Videos_samples_when_empty(t *testing.T) {
	svc, _ := newTestService(t, true, Options{})

	got := svc.Videos(1)
	if len(got) != 3 || got[0].ID != "sample-1" {
		t.Fatalf("expected sample records, got %v", got)
	}
	if more := svc.Videos(2); len(more) != 0 {
		t.Errorf("expected empty page 2, got %d records", len(more))
	}
}

func TestService_Videos_samples_disabled(t *testing.T) {
	svc, _ := newTestService(t, false, Options{})

	got := svc.Videos(1)
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil page, got %v", got)
	}
}

func TestService_Videos_pages_uploads_newest_first(t *testing.T) {
	svc, _ := newTestService(t, true, Options{PageSize: 2})
	for i := 1; i <= 5; i++ {
		if _, err := svc.Upload(validUpload(fmt.Sprintf("song %d", i))); err != nil {
			t.Fatalf("Upload %d: %v", i, err)
		}
	}

	p1, p2, p3, p4 := svc.Videos(1), svc.Videos(2), svc.Videos(3), svc.Videos(4)
	if len(p1) != 2 || p1[0].ID != "id-5" || p1[1].ID != "id-4" {
		t.Errorf("page 1: got %v", p1)
	}
	if len(p2) != 2 || p2[0].ID != "id-3" {
		t.Errorf("page 2: got %v", p2)
	}
	if len(p3) != 1 || p3[0].ID != "id-1" {
		t.Errorf("page 3: got %v", p3)
	}
	if len(p4) != 0 {
		t.Errorf("page 4 should be empty, got %v", p4)
	}
	if got := svc.Videos(0); len(got) != 2 || got[0].ID != "id-5" {
		t.Errorf("page 0 should be treated as page 1, got %v", got)
	}
}

func TestService_Upload_builds_mock_record(t *testing.T) {
	svc, repo := newTestService(t, true, Options{})

	rec, err := svc.Upload(UploadRequest{FileName: "my.take.mov", FileSize: 10, ArtistName: "Ada", SongTitle: "Blues"})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if rec.ID != "id-1" {
		t.Errorf("expected id-1, got %s", rec.ID)
	}
	if rec.TimestampedFilename != "my.take_1700000000.mov" {
		t.Errorf("unexpected timestamped filename %q", rec.TimestampedFilename)
	}
	if rec.Source.Kind != video.NativeMedia || rec.Source.URL != video.SampleMediaURLs[0] {
		t.Errorf("unexpected source %+v", rec.Source)
	}
	if !rec.UploadedAt.Equal(time.Unix(1_700_000_000, 0)) {
		t.Errorf("unexpected upload time %v", rec.UploadedAt)
	}
	if repo.UploadCount() != 1 {
		t.Errorf("expected stored upload, got %d", repo.UploadCount())
	}
}

func TestService_Upload_rotates_media_by_position(t *testing.T) {
	svc, _ := newTestService(t, true, Options{})

	var urls []string
	for i := 0; i < 4; i++ {
		rec, err := svc.Upload(validUpload("s"))
		if err != nil {
			t.Fatalf("Upload: %v", err)
		}
		urls = append(urls, rec.Source.URL)
	}

	want := []string{video.SampleMediaURLs[0], video.SampleMediaURLs[1], video.SampleMediaURLs[2], video.SampleMediaURLs[0]}
	for i := range want {
		if urls[i] != want[i] {
			t.Errorf("upload %d: expected %s, got %s", i, want[i], urls[i])
		}
	}
}

func TestService_Upload_validation(t *testing.T) {
	svc, repo := newTestService(t, true, Options{MaxUploadBytes: 100})

	tests := []struct {
		name string
		req  UploadRequest
		want error
	}{
		{"missing_file_name", UploadRequest{FileSize: 1, ArtistName: "a", SongTitle: "s"}, ErrMissingFields},
		{"zero_size", UploadRequest{FileName: "f.mp4", ArtistName: "a", SongTitle: "s"}, ErrMissingFields},
		{"missing_artist", UploadRequest{FileName: "f.mp4", FileSize: 1, SongTitle: "s"}, ErrMissingFields},
		{"missing_title", UploadRequest{FileName: "f.mp4", FileSize: 1, ArtistName: "a"}, ErrMissingFields},
		{"too_large", UploadRequest{FileName: "f.mp4", FileSize: 101, ArtistName: "a", SongTitle: "s"}, ErrFileTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Upload(tt.req); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
	if repo.UploadCount() != 0 {
		t.Errorf("rejected uploads must not be stored, got %d", repo.UploadCount())
	}
}

func TestService_Upload_default_limit(t *testing.T) {
	svc, _ := newTestService(t, true, Options{})

	if _, err := svc.Upload(UploadRequest{FileName: "f.mp4", FileSize: DefaultMaxUploadBytes, ArtistName: "a", SongTitle: "s"}); err != nil {
		t.Errorf("upload at the limit should pass: %v", err)
	}
	if _, err := svc.Upload(UploadRequest{FileName: "f.mp4", FileSize: DefaultMaxUploadBytes + 1, ArtistName: "a", SongTitle: "s"}); !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("expected ErrFileTooLarge, got %v", err)
	}
}

func TestService_Clear_and_Status(t *testing.T) {
	svc, _ := newTestService(t, true, Options{})
	_, _ = svc.Upload(validUpload("a"))

	if st := svc.Status(); st.VideoCount != 1 || !st.SampleVideosEnabled {
		t.Errorf("unexpected status %+v", st)
	}

	st := svc.Clear(ClearOptions{DisableSampleVideos: true})
	if st.VideoCount != 0 || st.SampleVideosEnabled {
		t.Errorf("unexpected status after clear %+v", st)
	}
	if got := svc.Listing(); len(got) != 0 {
		t.Errorf("expected empty listing with samples disabled, got %v", got)
	}
}

type fakeTicketer struct {
	ticket *vimeo.Ticket
	err    error
	name   string
	size   int64
}

func (f *fakeTicketer) CreateUploadTicket(_ context.Context, name string, size int64) (*vimeo.Ticket, error) {
	f.name, f.size = name, size
	return f.ticket, f.err
}

func TestService_CreateVimeoUpload(t *testing.T) {
	ctx := context.Background()
	req := VimeoUploadRequest{FileName: "f.mp4", FileSize: 42, Name: "Song"}

	t.Run("not_configured", func(t *testing.T) {
		svc, _ := newTestService(t, true, Options{})
		if _, err := svc.CreateVimeoUpload(ctx, req); !errors.Is(err, ErrVimeoNotConfigured) {
			t.Errorf("expected ErrVimeoNotConfigured, got %v", err)
		}
	})

	t.Run("missing_fields", func(t *testing.T) {
		svc, _ := newTestService(t, true, Options{Vimeo: &fakeTicketer{}})
		if _, err := svc.CreateVimeoUpload(ctx, VimeoUploadRequest{FileName: "f"}); !errors.Is(err, ErrMissingFields) {
			t.Errorf("expected ErrMissingFields, got %v", err)
		}
	})

	t.Run("success", func(t *testing.T) {
		tk := &fakeTicketer{ticket: &vimeo.Ticket{UploadLink: "https://tus", VideoID: "9", URI: "/videos/9"}}
		svc, _ := newTestService(t, true, Options{Vimeo: tk})
		got, err := svc.CreateVimeoUpload(ctx, req)
		if err != nil {
			t.Fatalf("CreateVimeoUpload: %v", err)
		}
		if got.VideoID != "9" || tk.name != "Song" || tk.size != 42 {
			t.Errorf("unexpected ticket %+v (name %q size %d)", got, tk.name, tk.size)
		}
	})
}

func TestTimestampedFilename(t *testing.T) {
	tests := map[string]string{
		"song.mp4":         "song_5.mp4",
		"my.live.take.mp4": "my.live.take_5.mp4",
		"noext":            "noext_5",
	}
	for in, want := range tests {
		if got := TimestampedFilename(in, 5); got != want {
			t.Errorf("TimestampedFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
