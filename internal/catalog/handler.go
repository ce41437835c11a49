package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"songbid/internal/platform/httputil"
	"songbid/internal/platform/metrics"
	"songbid/internal/video"
	"songbid/internal/vimeo"

	"github.com/go-chi/chi/v5"
)

const (
	videosCacheControl = "public, max-age=30"
	// maxFormBytes bounds the metadata form; the file never travels here.
	maxFormBytes = 1 << 20
)

// Handler exposes the catalog HTTP endpoints using go-chi.
type Handler struct {
	svc     *Service
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewHandler returns a Handler that uses the given Service, Logger, and optional Metrics.
// Metrics may be nil to disable metric recording (e.g. in tests).
func NewHandler(svc *Service, log *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{svc: svc, log: log, metrics: m}
}

// Routes mounts the API under r.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/videos", h.ListVideos)
		r.Post("/upload", h.Upload)
		r.Get("/upload", h.ListUploads)
		r.Post("/clear-data", h.ClearData)
		r.Get("/clear-data", h.DataStatus)
		r.Post("/vimeo/uploads", h.CreateVimeoUpload)
	})
	r.Get("/healthz", h.Healthz)
}

// ListVideos handles GET /api/videos?page=N&t=B. The t parameter only busts
// caches and is ignored.
func (h *Handler) ListVideos(w http.ResponseWriter, r *http.Request) {
	page := 1
	if s := r.URL.Query().Get("page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			httputil.WriteError(w, http.StatusBadRequest, "invalid page")
			return
		}
		page = n
	}

	records := h.svc.Videos(page)
	h.log.Debug("videos page served", slog.Int("page", page), slog.Int("count", len(records)))
	w.Header().Set("Cache-Control", videosCacheControl)
	httputil.WriteJSON(w, http.StatusOK, records)
	if h.metrics != nil {
		h.metrics.IncVideoPagesServed()
	}
}

// Upload handles POST /api/upload with form fields fileName, fileSize,
// artistName and songTitle.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseMultipartForm(maxFormBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.log.Debug("invalid upload form", slog.String("error", err.Error()))
		httputil.WriteError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	size, _ := strconv.ParseInt(r.FormValue("fileSize"), 10, 64)
	req := UploadRequest{
		FileName:   r.FormValue("fileName"),
		FileSize:   size,
		ArtistName: r.FormValue("artistName"),
		SongTitle:  r.FormValue("songTitle"),
	}

	rec, err := h.svc.Upload(req)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingFields):
			httputil.WriteError(w, http.StatusBadRequest, "Missing required fields")
		case errors.Is(err, ErrFileTooLarge):
			h.log.Info("upload rejected: file too large",
				slog.String("file_name", req.FileName),
				slog.Int64("file_size", req.FileSize))
			httputil.WriteError(w, http.StatusBadRequest,
				fmt.Sprintf("File size exceeds %dMB limit", h.svc.MaxUploadBytes()/(1024*1024)))
		default:
			h.log.Error("upload failed", slog.String("error", err.Error()))
			httputil.WriteError(w, http.StatusInternalServerError, "Upload failed: "+err.Error())
		}
		return
	}

	body, err := uploadResponse(rec)
	if err != nil {
		h.log.Error("encode upload response", slog.String("error", err.Error()))
		httputil.WriteError(w, http.StatusInternalServerError, "Upload failed")
		return
	}

	h.log.Info("video uploaded",
		slog.String("record_id", rec.ID),
		slog.String("artist", rec.ArtistName),
		slog.String("file", rec.TimestampedFilename))
	httputil.WriteJSON(w, http.StatusOK, body)
	if h.metrics != nil {
		h.metrics.IncUploads()
	}
}

// ListUploads handles GET /api/upload.
func (h *Handler) ListUploads(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.svc.Listing())
}

// ClearData handles POST /api/clear-data. The JSON body is optional.
func (h *Handler) ClearData(w http.ResponseWriter, r *http.Request) {
	var opts ClearOptions
	if r.Body != nil {
		// A missing or malformed body means default options.
		_ = json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFormBytes)).Decode(&opts)
	}

	st := h.svc.Clear(opts)
	msg := "All video data has been cleared successfully. "
	if st.SampleVideosEnabled {
		msg += "Sample videos will still appear. "
	} else {
		msg += "Sample videos have been disabled. "
	}
	msg += "You will still need to manually delete the videos from Vimeo."

	h.log.Info("video data cleared", slog.Bool("sample_videos_enabled", st.SampleVideosEnabled))
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"success":             true,
		"message":             msg,
		"sampleVideosEnabled": st.SampleVideosEnabled,
	})
}

// DataStatus handles GET /api/clear-data.
func (h *Handler) DataStatus(w http.ResponseWriter, r *http.Request) {
	st := h.svc.Status()
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"videoCount":          st.VideoCount,
		"sampleVideosEnabled": st.SampleVideosEnabled,
		"message":             "Use POST to clear all video data",
	})
}

// CreateVimeoUpload handles POST /api/vimeo/uploads with form fields
// fileName, fileSize and name.
func (h *Handler) CreateVimeoUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseMultipartForm(maxFormBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	size, _ := strconv.ParseInt(r.FormValue("fileSize"), 10, 64)
	req := VimeoUploadRequest{
		FileName: r.FormValue("fileName"),
		FileSize: size,
		Name:     r.FormValue("name"),
	}

	ticket, err := h.svc.CreateVimeoUpload(r.Context(), req)
	if err != nil {
		var se *vimeo.StatusError
		switch {
		case errors.Is(err, ErrMissingFields):
			httputil.WriteError(w, http.StatusBadRequest, "Missing required fields")
		case errors.Is(err, ErrVimeoNotConfigured):
			h.log.Error("vimeo upload requested without credentials")
			httputil.WriteError(w, http.StatusInternalServerError, "Missing Vimeo credentials")
		case errors.As(err, &se):
			h.log.Warn("vimeo rejected upload ticket", slog.Int("status", se.StatusCode), slog.String("body", se.Body))
			httputil.WriteError(w, se.StatusCode, "Failed to create Vimeo video: "+se.Body)
		default:
			h.log.Error("vimeo upload ticket failed", slog.String("error", err.Error()))
			httputil.WriteError(w, http.StatusInternalServerError, "Upload failed: "+err.Error())
		}
		return
	}

	h.log.Info("vimeo upload ticket created", slog.String("vimeo_id", ticket.VideoID))
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"upload_link": ticket.UploadLink,
		"vimeo_id":    ticket.VideoID,
		"vimeo_uri":   ticket.URI,
	})
	if h.metrics != nil {
		h.metrics.IncVimeoTickets()
	}
}

// Healthz handles GET /healthz.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// uploadResponse flattens rec's wire form next to the success fields.
func uploadResponse(rec video.Record) (map[string]any, error) {
	by, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	body := map[string]any{}
	if err := json.Unmarshal(by, &body); err != nil {
		return nil, err
	}
	body["success"] = true
	body["message"] = "Video metadata saved successfully"
	return body, nil
}
