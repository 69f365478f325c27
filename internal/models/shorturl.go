package models

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/getshort/getshort/internal/shortcode"
)

type ShortURL struct {
	ID             int64     `json:"id"`
	ShortCode      string    `json:"short_code"`
	TargetURL      string    `json:"target_url"`
	UserID         string    `json:"-"`
	ApplyModifiers bool      `json:"apply_modifiers"`
	CreatedAt      time.Time `json:"created_at"`
}

// generateAttempts caps the retry loop for random codes. The code space is
// 36^6, so collisions this deep mean something is badly wrong with the store.
const generateAttempts = 25

// CreateShortURL inserts a new mapping. With a custom code the insert is
// atomic with the uniqueness check: the UNIQUE constraint decides, never a
// separate read. Without one, random codes are tried until one sticks.
func CreateShortURL(db *sql.DB, targetURL, userID, customCode string, applyModifiers bool) (*ShortURL, error) {
	if customCode != "" {
		id, err := insertShortURL(db, customCode, targetURL, userID, applyModifiers)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, ErrDuplicateCode
			}
			return nil, fmt.Errorf("insert short url: %w", err)
		}
		return getShortURLByRowID(db, id)
	}

	for attempt := 0; attempt < generateAttempts; attempt++ {
		code, err := shortcode.Generate()
		if err != nil {
			return nil, fmt.Errorf("generate code: %w", err)
		}
		id, err := insertShortURL(db, code, targetURL, userID, applyModifiers)
		if err != nil {
			if isUniqueViolation(err) {
				continue
			}
			return nil, fmt.Errorf("insert short url: %w", err)
		}
		return getShortURLByRowID(db, id)
	}
	return nil, ErrCodeSpaceExhausted
}

func insertShortURL(db *sql.DB, code, targetURL, userID string, applyModifiers bool) (int64, error) {
	res, err := db.Exec(
		`INSERT INTO short_urls (short_code, target_url, user_id, apply_modifiers) VALUES (?, ?, ?, ?)`,
		code, targetURL, userID, boolToInt(applyModifiers),
	)
	if err != nil {
		return 0, err
	}
	id, _ := res.LastInsertId()
	return id, nil
}

func getShortURLByRowID(db *sql.DB, id int64) (*ShortURL, error) {
	row := db.QueryRow(
		`SELECT id, short_code, target_url, user_id, apply_modifiers, created_at FROM short_urls WHERE id = ?`,
		id,
	)
	return scanShortURL(row)
}

// GetShortURLByCode resolves an inbound short code. The match is exact and
// case-sensitive (SQLite TEXT comparison, no collation override).
func GetShortURLByCode(db *sql.DB, code string) (*ShortURL, error) {
	row := db.QueryRow(
		`SELECT id, short_code, target_url, user_id, apply_modifiers, created_at FROM short_urls WHERE short_code = ?`,
		code,
	)
	return scanShortURL(row)
}

// GetShortURL fetches a mapping by id, scoped to its owner.
func GetShortURL(db *sql.DB, id int64, userID string) (*ShortURL, error) {
	row := db.QueryRow(
		`SELECT id, short_code, target_url, user_id, apply_modifiers, created_at FROM short_urls WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	return scanShortURL(row)
}

func ListShortURLs(db *sql.DB, userID string) ([]ShortURL, error) {
	rows, err := db.Query(
		`SELECT id, short_code, target_url, user_id, apply_modifiers, created_at FROM short_urls WHERE user_id = ? ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list short urls: %w", err)
	}
	defer rows.Close()

	var urls []ShortURL
	for rows.Next() {
		var u ShortURL
		var apply int
		if err := rows.Scan(&u.ID, &u.ShortCode, &u.TargetURL, &u.UserID, &apply, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan short url: %w", err)
		}
		u.ApplyModifiers = apply == 1
		urls = append(urls, u)
	}
	return urls, rows.Err()
}

// UpdateShortURL persists the mutable fields (target URL and the modifier
// flag). The code and owner are immutable.
func UpdateShortURL(db *sql.DB, u *ShortURL) error {
	res, err := db.Exec(
		`UPDATE short_urls SET target_url = ?, apply_modifiers = ? WHERE id = ? AND user_id = ?`,
		u.TargetURL, boolToInt(u.ApplyModifiers), u.ID, u.UserID,
	)
	if err != nil {
		return fmt.Errorf("update short url: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteShortURL removes a mapping; its visits go with it via ON DELETE CASCADE.
func DeleteShortURL(db *sql.DB, id int64, userID string) error {
	res, err := db.Exec(`DELETE FROM short_urls WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete short url: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanShortURL(row *sql.Row) (*ShortURL, error) {
	var u ShortURL
	var apply int
	if err := row.Scan(&u.ID, &u.ShortCode, &u.TargetURL, &u.UserID, &apply, &u.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan short url: %w", err)
	}
	u.ApplyModifiers = apply == 1
	return &u, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
