package config

import "time"

// Vimeo holds the Vimeo API credentials. Uploads through Vimeo are disabled
// unless all three secrets are set.
type Vimeo struct {
	AccessToken  string
	ClientID     string
	ClientSecret string
	APIURL       string
}

// Configured reports whether every credential is present.
func (v Vimeo) Configured() bool {
	return v.AccessToken != "" && v.ClientID != "" && v.ClientSecret != ""
}

// Server is the configuration of cmd/server.
type Server struct {
	Port                string
	LogLevel            string
	LogFormat           string
	PageSize            int
	MaxUploadBytes      int64
	SampleVideosEnabled bool
	Vimeo               Vimeo
}

// ServerFromEnv reads Server from the environment.
func ServerFromEnv() Server {
	return Server{
		Port:                GetEnv("PORT", "8080"),
		LogLevel:            GetEnv("LOG_LEVEL", "info"),
		LogFormat:           GetEnv("LOG_FORMAT", "json"),
		PageSize:            GetEnvInt("PAGE_SIZE", 10),
		MaxUploadBytes:      GetEnvInt64("MAX_UPLOAD_BYTES", 300*1024*1024),
		SampleVideosEnabled: GetEnvBool("SAMPLE_VIDEOS_ENABLED", true),
		Vimeo: Vimeo{
			AccessToken:  GetEnv("VIMEO_ACCESS_TOKEN", ""),
			ClientID:     GetEnv("VIMEO_CLIENT_ID", ""),
			ClientSecret: GetEnv("VIMEO_CLIENT_SECRET", ""),
			APIURL:       GetEnv("VIMEO_API_URL", "https://api.vimeo.com"),
		},
	}
}

// Simulator is the configuration of cmd/feedsim.
type Simulator struct {
	FeedAPIURL   string
	LogLevel     string
	LogFormat    string
	Muted        bool
	PreloadDelay time.Duration
	Steps        int
}

// SimulatorFromEnv reads Simulator from the environment.
func SimulatorFromEnv() Simulator {
	return Simulator{
		FeedAPIURL:   GetEnv("FEED_API_URL", "http://localhost:8080"),
		LogLevel:     GetEnv("LOG_LEVEL", "info"),
		LogFormat:    GetEnv("LOG_FORMAT", "text"),
		Muted:        GetEnvBool("FEED_MUTED", true),
		PreloadDelay: GetEnvDuration("PRELOAD_DELAY", time.Second),
		Steps:        GetEnvInt("SIM_STEPS", 12),
	}
}
