package rewrite

import (
	"net/url"
	"testing"

	"github.com/getshort/getshort/internal/models"
)

func rule(params map[string]string) models.DomainModifier {
	return models.DomainModifier{QueryParams: params}
}

func TestApply_NoRulesIsIdentity(t *testing.T) {
	urls := []string{
		"https://example.com",
		"https://example.com/path?a=1&b=2",
		"https://example.com/path#frag",
		"not really a url",
		"",
	}
	for _, u := range urls {
		if got := Apply(u, nil); got != u {
			t.Errorf("Apply(%q, nil) = %q, want unchanged", u, got)
		}
	}
}

func TestApply_EmptyURL(t *testing.T) {
	rules := []models.DomainModifier{rule(map[string]string{"ref": "x"})}
	if got := Apply("", rules); got != "" {
		t.Errorf("Apply(\"\") = %q, want empty string", got)
	}
}

func TestApply_AddsParam(t *testing.T) {
	rules := []models.DomainModifier{rule(map[string]string{"ref": "partner42"})}
	got := Apply("https://shop.example.com/item", rules)
	want := "https://shop.example.com/item?ref=partner42"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestApply_ReplacesExistingValue(t *testing.T) {
	rules := []models.DomainModifier{rule(map[string]string{"ref": "partner42"})}
	got := Apply("https://shop.example.com/item?ref=old", rules)
	want := "https://shop.example.com/item?ref=partner42"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestApply_ReplacesMultiValueParam(t *testing.T) {
	rules := []models.DomainModifier{rule(map[string]string{"tag": "new"})}
	got := Apply("https://example.com/?tag=a&tag=b", rules)

	q := parseQuery(t, got)
	if len(q["tag"]) != 1 || q["tag"][0] != "new" {
		t.Errorf("tag = %v, want single value [new]", q["tag"])
	}
}

func TestApply_PreservesUntouchedParams(t *testing.T) {
	rules := []models.DomainModifier{rule(map[string]string{"ref": "x"})}
	got := Apply("https://example.com/?keep=1&multi=a&multi=b", rules)

	q := parseQuery(t, got)
	if q.Get("keep") != "1" {
		t.Errorf("keep = %q, want 1", q.Get("keep"))
	}
	if len(q["multi"]) != 2 {
		t.Errorf("multi = %v, want both original values", q["multi"])
	}
	if q.Get("ref") != "x" {
		t.Errorf("ref = %q, want x", q.Get("ref"))
	}
}

func TestApply_LastRuleWinsOnConflict(t *testing.T) {
	rules := []models.DomainModifier{
		rule(map[string]string{"k": "first"}),
		rule(map[string]string{"k": "second"}),
	}
	got := Apply("https://example.com/", rules)
	if q := parseQuery(t, got); q.Get("k") != "second" {
		t.Errorf("k = %q, want the later rule's value", q.Get("k"))
	}
}

func TestApply_PreservesPathAndFragment(t *testing.T) {
	rules := []models.DomainModifier{rule(map[string]string{"ref": "x"})}
	got := Apply("https://example.com/a/b%20c?q=1#section", rules)

	u, err := url.Parse(got)
	if err != nil {
		t.Fatal(err)
	}
	if u.Scheme != "https" || u.Host != "example.com" {
		t.Errorf("scheme/host changed: %q", got)
	}
	if u.EscapedPath() != "/a/b%20c" {
		t.Errorf("path = %q, want /a/b%%20c", u.EscapedPath())
	}
	if u.Fragment != "section" {
		t.Errorf("fragment = %q, want section", u.Fragment)
	}
}

func TestApplyParams(t *testing.T) {
	got := ApplyParams("https://example.com/?a=1", map[string]string{"a": "2", "b": "3"})
	q := parseQuery(t, got)
	if q.Get("a") != "2" || q.Get("b") != "3" {
		t.Errorf("query = %v, want a=2 b=3", q)
	}

	if got := ApplyParams("https://example.com/", nil); got != "https://example.com/" {
		t.Errorf("nil params changed the URL: %q", got)
	}
}

func BenchmarkApply(b *testing.B) {
	rules := []models.DomainModifier{
		rule(map[string]string{"ref": "partner42", "utm_source": "getshort"}),
	}
	for i := 0; i < b.N; i++ {
		Apply("https://shop.example.com/item?ref=old&keep=1", rules)
	}
}

func parseQuery(t *testing.T, rawURL string) url.Values {
	t.Helper()
	u, err := url.Parse(rawURL)
	if err != nil {
		t.Fatal(err)
	}
	return u.Query()
}
