// Package rewrite is the pure URL rewrite engine: it merges domain-modifier
// query parameters into a destination URL. No I/O, no store access.
package rewrite

import (
	"net/url"

	"github.com/getshort/getshort/internal/models"
)

// Apply merges each rule's query parameters into rawURL, in slice order.
// Per key the rule's value replaces whatever the URL carried, including
// multi-valued params; a later rule overwrites an earlier one for the same
// key. Params no rule names are preserved. An empty or unparseable URL is
// returned unchanged.
func Apply(rawURL string, rules []models.DomainModifier) string {
	if rawURL == "" || len(rules) == 0 {
		return rawURL
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	q := u.Query()
	for _, rule := range rules {
		for key, value := range rule.QueryParams {
			q.Set(key, value)
		}
	}
	u.RawQuery = q.Encode()

	return u.String()
}

// ApplyParams merges a single flat parameter set into rawURL. This backs the
// stateless rewrite preview, which has no stored rule to speak of.
func ApplyParams(rawURL string, params map[string]string) string {
	if rawURL == "" || len(params) == 0 {
		return rawURL
	}
	return Apply(rawURL, []models.DomainModifier{{QueryParams: params}})
}
