package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, key := range []string{
		"MOOSIC_API_URL", "MOOSIC_API_VERSION", "MOOSIC_USER_AGENT", "MOOSIC_TOKEN",
		"MOOSIC_TOKEN_FILE", "MOOSIC_DOWNLOAD_DIR", "MOOSIC_PLAYER", "MOOSIC_HTTP_TIMEOUT",
		"MOOSIC_PAGE_SIZE", "MOOSIC_DOWNLOAD_WORKERS", "MOOSIC_LOG_LEVEL", "MOOSIC_NOTIFY",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("APIURL = %q, want %q", cfg.APIURL, DefaultAPIURL)
	}
	if cfg.APIVersion != DefaultAPIVersion {
		t.Errorf("APIVersion = %q, want %q", cfg.APIVersion, DefaultAPIVersion)
	}
	if cfg.UserAgent != DefaultUserAgent {
		t.Errorf("UserAgent = %q", cfg.UserAgent)
	}
	if cfg.TokenFile != DefaultTokenFile {
		t.Errorf("TokenFile = %q, want %q", cfg.TokenFile, DefaultTokenFile)
	}
	if cfg.HTTPTimeout != 15*time.Second {
		t.Errorf("HTTPTimeout = %v", cfg.HTTPTimeout)
	}
	if cfg.PageSize != 100 {
		t.Errorf("PageSize = %d, want 100", cfg.PageSize)
	}
	if !cfg.Notify {
		t.Error("expected notifications enabled by default")
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("MOOSIC_API_URL", "http://localhost:9999/method")
	t.Setenv("MOOSIC_TOKEN", "100.abc")
	t.Setenv("MOOSIC_HTTP_TIMEOUT", "3s")
	t.Setenv("MOOSIC_PAGE_SIZE", "0")
	t.Setenv("MOOSIC_DOWNLOAD_WORKERS", "-2")
	t.Setenv("MOOSIC_NOTIFY", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.APIURL != "http://localhost:9999/method" {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
	if cfg.Token != "100.abc" {
		t.Errorf("Token = %q", cfg.Token)
	}
	if cfg.HTTPTimeout != 3*time.Second {
		t.Errorf("HTTPTimeout = %v", cfg.HTTPTimeout)
	}
	if cfg.PageSize != 100 {
		t.Errorf("PageSize = %d, want fallback 100", cfg.PageSize)
	}
	if cfg.Workers != 1 {
		t.Errorf("Workers = %d, want 1", cfg.Workers)
	}
	if cfg.Notify {
		t.Error("expected notifications disabled")
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("MOOSIC_HTTP_TIMEOUT", "soon")

	if _, err := Load(); err == nil {
		t.Error("expected error for invalid duration, got nil")
	}
}

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
