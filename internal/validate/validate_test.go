package validate

import (
	"strings"
	"testing"
)

func TestTargetURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"https", "https://example.com/path?x=1", false},
		{"http", "http://example.com", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"no scheme", "example.com/path", true},
		{"ftp scheme", "ftp://example.com/file", true},
		{"javascript scheme", "javascript:alert(1)", true},
		{"no host", "https:///path", true},
		{"too long", "https://example.com/" + strings.Repeat("a", 2048), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := TargetURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("TargetURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestDomain(t *testing.T) {
	tests := []struct {
		name    string
		domain  string
		wantErr bool
	}{
		{"simple", "example.com", false},
		{"subdomain", "shop.example.com", false},
		{"empty", "", true},
		{"no dot", "localhost", true},
		{"with scheme", "https://example.com", true},
		{"with path", "example.com/path", true},
		{"with space", "exam ple.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Domain(tt.domain)
			if (err != nil) != tt.wantErr {
				t.Errorf("Domain(%q) error = %v, wantErr %v", tt.domain, err, tt.wantErr)
			}
		})
	}
}

func TestQueryParams(t *testing.T) {
	if err := QueryParams(map[string]string{"ref": "partner"}); err != nil {
		t.Errorf("valid params rejected: %v", err)
	}
	if err := QueryParams(map[string]string{"ref": ""}); err != nil {
		t.Errorf("empty value should be allowed: %v", err)
	}
	if err := QueryParams(nil); err == nil {
		t.Error("nil params accepted")
	}
	if err := QueryParams(map[string]string{}); err == nil {
		t.Error("empty params accepted")
	}
	if err := QueryParams(map[string]string{"  ": "x"}); err == nil {
		t.Error("blank key accepted")
	}
}
