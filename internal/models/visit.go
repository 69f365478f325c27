package models

import (
	"database/sql"
	"fmt"
	"time"
)

// Visit is one recorded redirect. Rows are append-only; they disappear only
// when the owning mapping is deleted (FK cascade). The geolocation columns
// stay NULL whenever the lookup could not resolve the client IP.
type Visit struct {
	ID              int64
	ShortURLID      int64
	VisitedAt       time.Time
	IPAddress       string
	UserAgent       string
	Browser         string
	BrowserVersion  string
	DeviceType      string // mobile, tablet, desktop
	OperatingSystem string
	CountryCode     sql.NullString
	CountryName     sql.NullString
	City            sql.NullString
	Referrer        string
}

func InsertVisit(db *sql.DB, v *Visit) error {
	if v.VisitedAt.IsZero() {
		v.VisitedAt = time.Now().UTC()
	}
	res, err := db.Exec(
		`INSERT INTO visits (short_url_id, visited_at, ip_address, user_agent, browser, browser_version, device_type, operating_system, country_code, country_name, city, referrer)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ShortURLID, v.VisitedAt, v.IPAddress, v.UserAgent, v.Browser, v.BrowserVersion,
		v.DeviceType, v.OperatingSystem, v.CountryCode, v.CountryName, v.City, v.Referrer,
	)
	if err != nil {
		return fmt.Errorf("insert visit: %w", err)
	}
	v.ID, _ = res.LastInsertId()
	return nil
}

func VisitCount(db *sql.DB, shortURLID int64) (int, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM visits WHERE short_url_id = ?`, shortURLID).Scan(&count)
	return count, err
}

// VisitCounts returns per-mapping visit totals for a batch of ids.
func VisitCounts(db *sql.DB, ids []int64) (map[int64]int, error) {
	counts := make(map[int64]int, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	placeholders := "?"
	args := make([]any, len(ids))
	args[0] = ids[0]
	for i := 1; i < len(ids); i++ {
		placeholders += ",?"
		args[i] = ids[i]
	}

	query := fmt.Sprintf(`SELECT short_url_id, COUNT(*) FROM visits WHERE short_url_id IN (%s) GROUP BY short_url_id`, placeholders)
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("visit counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var count int
		if err := rows.Scan(&id, &count); err != nil {
			return nil, fmt.Errorf("scan visit count: %w", err)
		}
		counts[id] = count
	}
	return counts, rows.Err()
}

type BrowserStat struct {
	Browser string `json:"browser"`
	Count   int    `json:"count"`
}

type DeviceStat struct {
	Device string `json:"device"`
	Count  int    `json:"count"`
}

type CountryStat struct {
	Country string `json:"country"`
	Count   int    `json:"count"`
}

type TopURL struct {
	URL        ShortURL `json:"url"`
	VisitCount int      `json:"visit_count"`
}

func BrowserStatsForURL(db *sql.DB, shortURLID int64) ([]BrowserStat, error) {
	rows, err := db.Query(
		`SELECT browser, COUNT(*) as cnt FROM visits WHERE short_url_id = ? AND browser != '' GROUP BY browser ORDER BY cnt DESC`,
		shortURLID,
	)
	if err != nil {
		return nil, fmt.Errorf("browser stats: %w", err)
	}
	return collectBrowserStats(rows)
}

func DeviceStatsForURL(db *sql.DB, shortURLID int64) ([]DeviceStat, error) {
	rows, err := db.Query(
		`SELECT device_type, COUNT(*) as cnt FROM visits WHERE short_url_id = ? AND device_type != '' GROUP BY device_type ORDER BY cnt DESC`,
		shortURLID,
	)
	if err != nil {
		return nil, fmt.Errorf("device stats: %w", err)
	}
	return collectDeviceStats(rows)
}

func CountryStatsForURL(db *sql.DB, shortURLID int64) ([]CountryStat, error) {
	rows, err := db.Query(
		`SELECT country_name, COUNT(*) as cnt FROM visits WHERE short_url_id = ? AND country_name IS NOT NULL GROUP BY country_name ORDER BY cnt DESC`,
		shortURLID,
	)
	if err != nil {
		return nil, fmt.Errorf("country stats: %w", err)
	}
	return collectCountryStats(rows)
}

func BrowserStatsForUser(db *sql.DB, userID string) ([]BrowserStat, error) {
	rows, err := db.Query(
		`SELECT v.browser, COUNT(*) as cnt FROM visits v
		 JOIN short_urls s ON s.id = v.short_url_id
		 WHERE s.user_id = ? AND v.browser != '' GROUP BY v.browser ORDER BY cnt DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("browser stats: %w", err)
	}
	return collectBrowserStats(rows)
}

func DeviceStatsForUser(db *sql.DB, userID string) ([]DeviceStat, error) {
	rows, err := db.Query(
		`SELECT v.device_type, COUNT(*) as cnt FROM visits v
		 JOIN short_urls s ON s.id = v.short_url_id
		 WHERE s.user_id = ? AND v.device_type != '' GROUP BY v.device_type ORDER BY cnt DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("device stats: %w", err)
	}
	return collectDeviceStats(rows)
}

func CountryStatsForUser(db *sql.DB, userID string) ([]CountryStat, error) {
	rows, err := db.Query(
		`SELECT v.country_name, COUNT(*) as cnt FROM visits v
		 JOIN short_urls s ON s.id = v.short_url_id
		 WHERE s.user_id = ? AND v.country_name IS NOT NULL GROUP BY v.country_name ORDER BY cnt DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("country stats: %w", err)
	}
	return collectCountryStats(rows)
}

// TopURLsForUser returns the user's most-visited mappings.
func TopURLsForUser(db *sql.DB, userID string, limit int) ([]TopURL, error) {
	rows, err := db.Query(
		`SELECT s.id, s.short_code, s.target_url, s.user_id, s.apply_modifiers, s.created_at, COUNT(v.id) as visit_count
		 FROM short_urls s
		 LEFT JOIN visits v ON v.short_url_id = s.id
		 WHERE s.user_id = ?
		 GROUP BY s.id
		 ORDER BY visit_count DESC
		 LIMIT ?`, userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("top urls: %w", err)
	}
	defer rows.Close()

	var results []TopURL
	for rows.Next() {
		var t TopURL
		var apply int
		if err := rows.Scan(
			&t.URL.ID, &t.URL.ShortCode, &t.URL.TargetURL, &t.URL.UserID,
			&apply, &t.URL.CreatedAt, &t.VisitCount,
		); err != nil {
			return nil, fmt.Errorf("scan top url: %w", err)
		}
		t.URL.ApplyModifiers = apply == 1
		results = append(results, t)
	}
	return results, rows.Err()
}

func collectBrowserStats(rows *sql.Rows) ([]BrowserStat, error) {
	defer rows.Close()
	var results []BrowserStat
	for rows.Next() {
		var s BrowserStat
		if err := rows.Scan(&s.Browser, &s.Count); err != nil {
			return nil, fmt.Errorf("scan browser stat: %w", err)
		}
		results = append(results, s)
	}
	return results, rows.Err()
}

func collectDeviceStats(rows *sql.Rows) ([]DeviceStat, error) {
	defer rows.Close()
	var results []DeviceStat
	for rows.Next() {
		var s DeviceStat
		if err := rows.Scan(&s.Device, &s.Count); err != nil {
			return nil, fmt.Errorf("scan device stat: %w", err)
		}
		results = append(results, s)
	}
	return results, rows.Err()
}

func collectCountryStats(rows *sql.Rows) ([]CountryStat, error) {
	defer rows.Close()
	var results []CountryStat
	for rows.Next() {
		var s CountryStat
		if err := rows.Scan(&s.Country, &s.Count); err != nil {
			return nil, fmt.Errorf("scan country stat: %w", err)
		}
		results = append(results, s)
	}
	return results, rows.Err()
}
