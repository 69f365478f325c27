package db

import "database/sql"

func Migrate(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}

const schema = `
CREATE TABLE IF NOT EXISTS short_urls (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    short_code      TEXT    NOT NULL UNIQUE,
    target_url      TEXT    NOT NULL,
    user_id         TEXT    NOT NULL,
    apply_modifiers INTEGER NOT NULL DEFAULT 1,
    created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_short_urls_user ON short_urls(user_id);

CREATE TABLE IF NOT EXISTS domain_modifiers (
    id                 INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id            TEXT    NOT NULL,
    domain             TEXT    NOT NULL,
    include_subdomains INTEGER NOT NULL DEFAULT 0,
    query_params       TEXT    NOT NULL,
    active             INTEGER NOT NULL DEFAULT 1,
    created_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_domain_modifiers_user ON domain_modifiers(user_id, active);

CREATE TABLE IF NOT EXISTS visits (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    short_url_id     INTEGER NOT NULL REFERENCES short_urls(id) ON DELETE CASCADE,
    visited_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    ip_address       TEXT,
    user_agent       TEXT,
    browser          TEXT,
    browser_version  TEXT,
    device_type      TEXT,
    operating_system TEXT,
    country_code     TEXT,
    country_name     TEXT,
    city             TEXT,
    referrer         TEXT
);

CREATE INDEX IF NOT EXISTS idx_visits_short_url ON visits(short_url_id);
CREATE INDEX IF NOT EXISTS idx_visits_visited_at ON visits(visited_at);
`
