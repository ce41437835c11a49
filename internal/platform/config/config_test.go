package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("SONGBID_TEST_STR", "value")
	if got := GetEnv("SONGBID_TEST_STR", "fallback"); got != "value" {
		t.Errorf("expected value, got %s", got)
	}
	if got := GetEnv("SONGBID_TEST_UNSET", "fallback"); got != "fallback" {
		t.Errorf("expected fallback, got %s", got)
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("SONGBID_TEST_INT", "12")
	t.Setenv("SONGBID_TEST_BAD_INT", "twelve")
	if got := GetEnvInt("SONGBID_TEST_INT", 1); got != 12 {
		t.Errorf("expected 12, got %d", got)
	}
	if got := GetEnvInt("SONGBID_TEST_BAD_INT", 1); got != 1 {
		t.Errorf("expected fallback 1, got %d", got)
	}
}

func TestGetEnvInt64(t *testing.T) {
	t.Setenv("SONGBID_TEST_INT64", "314572800")
	if got := GetEnvInt64("SONGBID_TEST_INT64", 0); got != 314572800 {
		t.Errorf("expected 314572800, got %d", got)
	}
	if got := GetEnvInt64("SONGBID_TEST_UNSET", 7); got != 7 {
		t.Errorf("expected fallback 7, got %d", got)
	}
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("SONGBID_TEST_BOOL", "false")
	t.Setenv("SONGBID_TEST_BAD_BOOL", "maybe")
	if got := GetEnvBool("SONGBID_TEST_BOOL", true); got {
		t.Error("expected false")
	}
	if got := GetEnvBool("SONGBID_TEST_BAD_BOOL", true); !got {
		t.Error("expected fallback true")
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("SONGBID_TEST_DUR", "250ms")
	if got := GetEnvDuration("SONGBID_TEST_DUR", time.Second); got != 250*time.Millisecond {
		t.Errorf("expected 250ms, got %v", got)
	}
	if got := GetEnvDuration("SONGBID_TEST_UNSET", time.Second); got != time.Second {
		t.Errorf("expected fallback 1s, got %v", got)
	}
}

func TestLoad_reads_env_file(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("SONGBID_TEST_FROM_FILE=yes\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("SONGBID_TEST_FROM_FILE") })

	if err := Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := GetEnv("SONGBID_TEST_FROM_FILE", ""); got != "yes" {
		t.Errorf("expected yes, got %q", got)
	}
}

func TestLoad_missing_file(t *testing.T) {
	if err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Error("expected error for missing file")
	}
}
