// Package validate holds the input sanity checks shared by the management
// handlers.
package validate

import (
	"fmt"
	"net/url"
	"strings"
)

const maxURLLength = 2048

// TargetURL accepts absolute http/https URLs with a host.
func TargetURL(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return fmt.Errorf("target_url is required")
	}
	if len(rawURL) > maxURLLength {
		return fmt.Errorf("target_url exceeds %d characters", maxURLLength)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("target_url could not be parsed")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("target_url must use http or https")
	}
	if u.Host == "" {
		return fmt.Errorf("target_url must have a host")
	}
	return nil
}

// Domain applies minimal sanity checking, not full DNS validation: a rule
// domain just has to look like a hostname with at least one label separator.
func Domain(domain string) error {
	d := strings.TrimSpace(domain)
	if d == "" {
		return fmt.Errorf("domain is required")
	}
	if !strings.Contains(d, ".") {
		return fmt.Errorf("domain must contain at least one dot")
	}
	if strings.ContainsAny(d, " /:") {
		return fmt.Errorf("domain must be a bare hostname")
	}
	return nil
}

// QueryParams requires a non-empty flat string→string set.
func QueryParams(params map[string]string) error {
	if len(params) == 0 {
		return fmt.Errorf("query_params must not be empty")
	}
	for key := range params {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("query_params keys must not be blank")
		}
	}
	return nil
}
