package vimeo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(Config{AccessToken: "tok", ClientID: "id", ClientSecret: "secret", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNew_missing_credentials(t *testing.T) {
	_, err := New(Config{AccessToken: "tok"})
	if !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("expected ErrMissingCredentials, got %v", err)
	}
}

func TestClient_CreateUploadTicket(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/me/videos" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("missing bearer token, got %q", r.Header.Get("Authorization"))
		}
		if r.Header.Get("Accept") != acceptHeader {
			t.Errorf("unexpected Accept %q", r.Header.Get("Accept"))
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"uri":"/videos/76543","upload":{"upload_link":"https://tus.vimeo.test/abc"}}`))
	})

	ticket, err := c.CreateUploadTicket(context.Background(), "My Song", 1024)
	if err != nil {
		t.Fatalf("CreateUploadTicket: %v", err)
	}
	if ticket.VideoID != "76543" || ticket.URI != "/videos/76543" || ticket.UploadLink != "https://tus.vimeo.test/abc" {
		t.Errorf("unexpected ticket %+v", ticket)
	}

	upload, _ := got["upload"].(map[string]any)
	if upload["approach"] != "tus" || upload["size"] != float64(1024) {
		t.Errorf("unexpected upload body %v", upload)
	}
	if got["name"] != "My Song" || got["description"] != description {
		t.Errorf("unexpected body %v", got)
	}
}

func TestClient_CreateUploadTicket_upstream_status(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"bad token"}`))
	})

	_, err := c.CreateUploadTicket(context.Background(), "x", 1)
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", se.StatusCode)
	}
}

func TestClient_CreateUploadTicket_no_link(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"uri":"/videos/1","upload":{}}`))
	})

	_, err := c.CreateUploadTicket(context.Background(), "x", 1)
	if !errors.Is(err, ErrNoUploadLink) {
		t.Errorf("expected ErrNoUploadLink, got %v", err)
	}
}

func TestClient_CreateUploadTicket_invalid_json(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>`))
	})

	if _, err := c.CreateUploadTicket(context.Background(), "x", 1); err == nil {
		t.Error("expected error for invalid json")
	}
}

func TestClient_CreateUploadTicket_bounds_error_body(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(strings.Repeat("x", 2*maxResponseBytes)))
	})

	_, err := c.CreateUploadTicket(context.Background(), "My Song", 1024)
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if len(se.Body) != maxResponseBytes {
		t.Errorf("expected body capped at %d bytes, got %d", maxResponseBytes, len(se.Body))
	}
}
