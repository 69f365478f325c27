package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GETSHORT_API_KEYS", "secret:alice")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.BaseURL != "http://localhost:8080" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.CacheSize != 10000 {
		t.Errorf("CacheSize = %d, want 10000", cfg.CacheSize)
	}
	if cfg.APIKeys["secret"] != "alice" {
		t.Errorf("APIKeys = %v", cfg.APIKeys)
	}
	if cfg.IsProduction() {
		t.Error("default env should not be production")
	}
}

func TestLoad_MissingAPIKeys(t *testing.T) {
	t.Setenv("GETSHORT_API_KEYS", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without GETSHORT_API_KEYS")
	}
}

func TestLoad_MalformedAPIKeys(t *testing.T) {
	t.Setenv("GETSHORT_API_KEYS", "justakey")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for entry without owner")
	}
}

func TestLoad_BadCacheSize(t *testing.T) {
	t.Setenv("GETSHORT_API_KEYS", "secret:alice")
	t.Setenv("GETSHORT_CACHE_SIZE", "-5")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-positive cache size")
	}
}

func TestParseAPIKeys_MultipleEntries(t *testing.T) {
	keys, err := parseAPIKeys("k1:alice, k2:bob ,")
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 2 || keys["k1"] != "alice" || keys["k2"] != "bob" {
		t.Errorf("keys = %v", keys)
	}
}

func TestShortURL_TrimsTrailingSlash(t *testing.T) {
	cfg := &Config{BaseURL: "https://sho.rt/"}
	if got := cfg.ShortURL("ABC123"); got != "https://sho.rt/ABC123" {
		t.Errorf("ShortURL = %q", got)
	}
}
