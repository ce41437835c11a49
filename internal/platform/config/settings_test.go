package config

import "testing"

func TestServerFromEnv_defaults(t *testing.T) {
	for _, k := range []string{"PORT", "PAGE_SIZE", "MAX_UPLOAD_BYTES", "SAMPLE_VIDEOS_ENABLED", "VIMEO_ACCESS_TOKEN"} {
		t.Setenv(k, "")
	}

	cfg := ServerFromEnv()
	if cfg.Port != "8080" || cfg.PageSize != 10 || cfg.MaxUploadBytes != 300*1024*1024 || !cfg.SampleVideosEnabled {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.Vimeo.Configured() {
		t.Error("vimeo should not be configured without credentials")
	}
}

func TestServerFromEnv_overrides(t *testing.T) {
	t.Setenv("PAGE_SIZE", "4")
	t.Setenv("SAMPLE_VIDEOS_ENABLED", "false")
	t.Setenv("VIMEO_ACCESS_TOKEN", "tok")
	t.Setenv("VIMEO_CLIENT_ID", "id")
	t.Setenv("VIMEO_CLIENT_SECRET", "secret")

	cfg := ServerFromEnv()
	if cfg.PageSize != 4 || cfg.SampleVideosEnabled {
		t.Errorf("unexpected config %+v", cfg)
	}
	if !cfg.Vimeo.Configured() {
		t.Error("expected vimeo to be configured")
	}
}

func TestSimulatorFromEnv(t *testing.T) {
	t.Setenv("FEED_API_URL", "http://feed.test")
	t.Setenv("PRELOAD_DELAY", "0s")
	t.Setenv("SIM_STEPS", "3")

	cfg := SimulatorFromEnv()
	if cfg.FeedAPIURL != "http://feed.test" || cfg.PreloadDelay != 0 || cfg.Steps != 3 {
		t.Errorf("unexpected config %+v", cfg)
	}
}
