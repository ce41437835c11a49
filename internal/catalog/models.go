package catalog

// UploadRequest is the metadata posted by the upload form. The file itself
// never reaches this service.
type UploadRequest struct {
	FileName   string
	FileSize   int64
	ArtistName string
	SongTitle  string
}

// VimeoUploadRequest asks for a Vimeo upload ticket.
type VimeoUploadRequest struct {
	FileName string
	FileSize int64
	Name     string
}

// ClearOptions is the optional JSON body of POST /api/clear-data.
type ClearOptions struct {
	DisableSampleVideos bool `json:"disableSampleVideos"`
}

// Status summarizes the in-memory catalog.
type Status struct {
	VideoCount          int  `json:"videoCount"`
	SampleVideosEnabled bool `json:"sampleVideosEnabled"`
}
