package models

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// DomainModifier is a per-user rewrite rule: when a mapping owned by the
// same user resolves to a URL on Domain, QueryParams are merged into its
// query string. Rules never apply across users.
type DomainModifier struct {
	ID                int64             `json:"id"`
	UserID            string            `json:"-"`
	Domain            string            `json:"domain"`
	IncludeSubdomains bool              `json:"include_subdomains"`
	QueryParams       map[string]string `json:"query_params"`
	Active            bool              `json:"active"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// Matches reports whether a lowercased host falls under the rule's domain.
// With IncludeSubdomains only the domain itself and strict subdomains match;
// "notexample.com" never matches "example.com".
func (m *DomainModifier) Matches(host string) bool {
	domain := strings.ToLower(m.Domain)
	if host == domain {
		return true
	}
	return m.IncludeSubdomains && strings.HasSuffix(host, "."+domain)
}

func CreateDomainModifier(db *sql.DB, m *DomainModifier) error {
	params, err := json.Marshal(m.QueryParams)
	if err != nil {
		return fmt.Errorf("marshal query params: %w", err)
	}
	m.Domain = strings.ToLower(strings.TrimSpace(m.Domain))

	res, err := db.Exec(
		`INSERT INTO domain_modifiers (user_id, domain, include_subdomains, query_params, active) VALUES (?, ?, ?, ?, ?)`,
		m.UserID, m.Domain, boolToInt(m.IncludeSubdomains), string(params), boolToInt(m.Active),
	)
	if err != nil {
		return fmt.Errorf("insert domain modifier: %w", err)
	}
	id, _ := res.LastInsertId()

	got, err := GetDomainModifier(db, id, m.UserID)
	if err != nil {
		return err
	}
	*m = *got
	return nil
}

func GetDomainModifier(db *sql.DB, id int64, userID string) (*DomainModifier, error) {
	row := db.QueryRow(
		`SELECT id, user_id, domain, include_subdomains, query_params, active, created_at, updated_at FROM domain_modifiers WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	return scanDomainModifier(row.Scan)
}

func ListDomainModifiers(db *sql.DB, userID string) ([]DomainModifier, error) {
	rows, err := db.Query(
		`SELECT id, user_id, domain, include_subdomains, query_params, active, created_at, updated_at FROM domain_modifiers WHERE user_id = ? ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list domain modifiers: %w", err)
	}
	defer rows.Close()

	var mods []DomainModifier
	for rows.Next() {
		m, err := scanDomainModifier(rows.Scan)
		if err != nil {
			return nil, err
		}
		mods = append(mods, *m)
	}
	return mods, rows.Err()
}

func UpdateDomainModifier(db *sql.DB, m *DomainModifier) error {
	params, err := json.Marshal(m.QueryParams)
	if err != nil {
		return fmt.Errorf("marshal query params: %w", err)
	}
	m.Domain = strings.ToLower(strings.TrimSpace(m.Domain))

	res, err := db.Exec(
		`UPDATE domain_modifiers SET domain = ?, include_subdomains = ?, query_params = ?, active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND user_id = ?`,
		m.Domain, boolToInt(m.IncludeSubdomains), string(params), boolToInt(m.Active), m.ID, m.UserID,
	)
	if err != nil {
		return fmt.Errorf("update domain modifier: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	got, err := GetDomainModifier(db, m.ID, m.UserID)
	if err != nil {
		return err
	}
	*m = *got
	return nil
}

func DeleteDomainModifier(db *sql.DB, id int64, userID string) error {
	res, err := db.Exec(`DELETE FROM domain_modifiers WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete domain modifier: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// FindApplicableModifiers returns the owner's active rules whose domain
// matches rawURL's host, ordered by rule id ascending. Multiple matches are
// applied in that order, so later rules win conflicting keys. A URL without
// a host (relative or unparseable) matches nothing.
func FindApplicableModifiers(db *sql.DB, userID, rawURL string) ([]DomainModifier, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, nil
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return nil, nil
	}

	rows, err := db.Query(
		`SELECT id, user_id, domain, include_subdomains, query_params, active, created_at, updated_at FROM domain_modifiers WHERE user_id = ? AND active = 1 ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query domain modifiers: %w", err)
	}
	defer rows.Close()

	var applicable []DomainModifier
	for rows.Next() {
		m, err := scanDomainModifier(rows.Scan)
		if err != nil {
			return nil, err
		}
		if m.Matches(host) {
			applicable = append(applicable, *m)
		}
	}
	return applicable, rows.Err()
}

func scanDomainModifier(scan func(...any) error) (*DomainModifier, error) {
	var m DomainModifier
	var include, active int
	var params string
	if err := scan(&m.ID, &m.UserID, &m.Domain, &include, &params, &active, &m.CreatedAt, &m.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan domain modifier: %w", err)
	}
	m.IncludeSubdomains = include == 1
	m.Active = active == 1
	if err := json.Unmarshal([]byte(params), &m.QueryParams); err != nil {
		return nil, fmt.Errorf("unmarshal query params: %w", err)
	}
	return &m, nil
}
