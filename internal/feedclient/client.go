// Package feedclient talks to the SongBid video API. Client satisfies
// feed.Provider and performs uploads on behalf of the upload dialog.
package feedclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"songbid/internal/video"
)

const defaultTimeout = 15 * time.Second

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("songbid api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("songbid api: status %d: %s", e.StatusCode, e.Message)
}

// UploadForm is the metadata sent by the upload dialog.
type UploadForm struct {
	FileName   string
	FileSize   int64
	ArtistName string
	SongTitle  string
}

// Client talks to the SongBid HTTP API. It implements feed.Provider.
type Client struct {
	base string
	h    *http.Client
}

// New returns a client for the API at baseURL. A nil h gets a client with a
// 15s timeout.
func New(baseURL string, h *http.Client) *Client {
	if h == nil {
		h = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{base: strings.TrimRight(baseURL, "/"), h: h}
}

// Videos fetches one page of the feed. cacheBust is sent as the t parameter.
func (c *Client) Videos(ctx context.Context, page int, cacheBust int64) ([]video.Record, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("t", strconv.FormatInt(cacheBust, 10))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/api/videos?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	var records []video.Record
	if err := c.do(req, &records); err != nil {
		return nil, fmt.Errorf("fetch videos page %d: %w", page, err)
	}
	return records, nil
}

// Upload posts the upload form and returns the created record.
func (c *Client) Upload(ctx context.Context, f UploadForm) (video.Record, error) {
	form := url.Values{
		"fileName":   {f.FileName},
		"fileSize":   {strconv.FormatInt(f.FileSize, 10)},
		"artistName": {f.ArtistName},
		"songTitle":  {f.SongTitle},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/upload", strings.NewReader(form.Encode()))
	if err != nil {
		return video.Record{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var rec video.Record
	if err := c.do(req, &rec); err != nil {
		return video.Record{}, fmt.Errorf("upload %q: %w", f.FileName, err)
	}
	return rec, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.h.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var body struct {
			Error string `json:"error"`
		}
		by, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		_ = json.Unmarshal(by, &body)
		return &APIError{StatusCode: resp.StatusCode, Message: body.Error}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
