// Package vimeo creates upload tickets on the Vimeo API. The browser uploads
// the file itself to the returned tus link.
package vimeo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

const (
	DefaultBaseURL = "https://api.vimeo.com"
	acceptHeader   = "application/vnd.vimeo.*+json;version=3.4"
	description    = "Uploaded via SongBid"

	maxResponseBytes = 1 << 20
)

var (
	ErrMissingCredentials = errors.New("missing vimeo credentials")
	ErrNoUploadLink       = errors.New("no upload link in vimeo response")
)

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("vimeo: status %d: %s", e.StatusCode, e.Body)
}

// Config holds API credentials. All three secrets are required.
type Config struct {
	AccessToken  string
	ClientID     string
	ClientSecret string
	BaseURL      string
	HTTPClient   *http.Client
}

// Ticket is a created video resource awaiting its upload.
type Ticket struct {
	UploadLink string
	URI        string
	VideoID    string
}

// Client creates upload tickets with the Vimeo API.
type Client struct {
	h    *http.Client
	base string
	cfg  Config
}

// New returns a Client for cfg. All three credentials are required; an empty
// BaseURL selects DefaultBaseURL.
func New(cfg Config) (*Client, error) {
	if cfg.AccessToken == "" || cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, ErrMissingCredentials
	}
	h := cfg.HTTPClient
	if h == nil {
		h = &http.Client{}
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{h: h, base: base, cfg: cfg}, nil
}

type createRequest struct {
	Upload struct {
		Approach string `json:"approach"`
		Size     int64  `json:"size"`
	} `json:"upload"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Privacy     privacy `json:"privacy"`
}

type privacy struct {
	View     string `json:"view"`
	Embed    string `json:"embed"`
	Comments string `json:"comments"`
}

// CreateUploadTicket creates a public video named name and returns its tus
// upload link.
func (c *Client) CreateUploadTicket(ctx context.Context, name string, size int64) (*Ticket, error) {
	var body createRequest
	body.Upload.Approach = "tus"
	body.Upload.Size = size
	body.Name = name
	body.Description = description
	body.Privacy = privacy{View: "anybody", Embed: "public", Comments: "anybody"}

	js, err := c.post(ctx, "/me/videos", body)
	if err != nil {
		return nil, errors.Wrap(err, "create vimeo video")
	}

	link := js.Get("upload.upload_link").String()
	if link == "" {
		return nil, ErrNoUploadLink
	}
	uri := js.Get("uri").String()
	return &Ticket{
		UploadLink: link,
		URI:        uri,
		VideoID:    path.Base(uri),
	}, nil
}

func (c *Client) post(ctx context.Context, api string, payload any) (gjson.Result, error) {
	by, err := json.Marshal(payload)
	if err != nil {
		return gjson.Result{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+api, bytes.NewReader(by))
	if err != nil {
		return gjson.Result{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", acceptHeader)

	resp, err := c.h.Do(req)
	if err != nil {
		return gjson.Result{}, err
	}
	defer resp.Body.Close()
	by, err = io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return gjson.Result{}, errors.Wrap(err, "read response")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return gjson.Result{}, &StatusError{StatusCode: resp.StatusCode, Body: string(by)}
	}
	if !gjson.ValidBytes(by) {
		return gjson.Result{}, errors.New("invalid json response")
	}
	return gjson.ParseBytes(by), nil
}
