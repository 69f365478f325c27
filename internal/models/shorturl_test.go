package models

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/getshort/getshort/internal/db"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func countRows(t *testing.T, database *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := database.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatal(err)
	}
	return n
}

func TestCreateShortURL_CustomCode(t *testing.T) {
	d := testDB(t)

	u, err := CreateShortURL(d, "https://example.com", "alice", "MYCODE", true)
	if err != nil {
		t.Fatal(err)
	}
	if u.ID <= 0 {
		t.Errorf("ID = %d, want > 0", u.ID)
	}
	if u.ShortCode != "MYCODE" {
		t.Errorf("ShortCode = %q, want %q", u.ShortCode, "MYCODE")
	}
	if u.UserID != "alice" {
		t.Errorf("UserID = %q, want %q", u.UserID, "alice")
	}
	if !u.ApplyModifiers {
		t.Error("ApplyModifiers = false, want true")
	}
	if u.CreatedAt.IsZero() {
		t.Error("CreatedAt is zero")
	}
}

func TestCreateShortURL_DuplicateCustomCode(t *testing.T) {
	d := testDB(t)

	if _, err := CreateShortURL(d, "https://a.com", "alice", "DUP123", true); err != nil {
		t.Fatal(err)
	}
	before := countRows(t, d, "short_urls")

	_, err := CreateShortURL(d, "https://b.com", "bob", "DUP123", true)
	if !errors.Is(err, ErrDuplicateCode) {
		t.Fatalf("err = %v, want ErrDuplicateCode", err)
	}
	if after := countRows(t, d, "short_urls"); after != before {
		t.Errorf("row count changed on failed create: %d → %d", before, after)
	}
}

func TestCreateShortURL_GeneratedCode(t *testing.T) {
	d := testDB(t)
	codeRe := regexp.MustCompile(`^[A-Z0-9]{6}$`)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		u, err := CreateShortURL(d, "https://example.com", "alice", "", true)
		if err != nil {
			t.Fatal(err)
		}
		if !codeRe.MatchString(u.ShortCode) {
			t.Errorf("code %q does not match [A-Z0-9]{6}", u.ShortCode)
		}
		if seen[u.ShortCode] {
			t.Errorf("code %q issued twice", u.ShortCode)
		}
		seen[u.ShortCode] = true
	}
}

func TestGetShortURLByCode_CaseSensitive(t *testing.T) {
	d := testDB(t)

	if _, err := CreateShortURL(d, "https://example.com", "alice", "CaseXY", true); err != nil {
		t.Fatal(err)
	}

	if _, err := GetShortURLByCode(d, "CaseXY"); err != nil {
		t.Fatalf("exact-case lookup failed: %v", err)
	}
	if _, err := GetShortURLByCode(d, "casexy"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("lowercased lookup err = %v, want ErrNotFound", err)
	}
}

func TestGetShortURLByCode_NotFound(t *testing.T) {
	d := testDB(t)

	_, err := GetShortURLByCode(d, "ZZZZZZ")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestGetShortURL_OwnershipMaskedAsNotFound(t *testing.T) {
	d := testDB(t)

	u, err := CreateShortURL(d, "https://example.com", "alice", "OWNED1", true)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := GetShortURL(d, u.ID, "alice"); err != nil {
		t.Fatalf("owner lookup failed: %v", err)
	}
	if _, err := GetShortURL(d, u.ID, "bob"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign lookup err = %v, want ErrNotFound", err)
	}
}

func TestUpdateShortURL(t *testing.T) {
	d := testDB(t)

	u, err := CreateShortURL(d, "https://old.example.com", "alice", "UPD001", true)
	if err != nil {
		t.Fatal(err)
	}

	u.TargetURL = "https://new.example.com"
	u.ApplyModifiers = false
	if err := UpdateShortURL(d, u); err != nil {
		t.Fatal(err)
	}

	got, err := GetShortURLByCode(d, "UPD001")
	if err != nil {
		t.Fatal(err)
	}
	if got.TargetURL != "https://new.example.com" {
		t.Errorf("TargetURL = %q, want updated value", got.TargetURL)
	}
	if got.ApplyModifiers {
		t.Error("ApplyModifiers = true, want false")
	}
}

func TestUpdateShortURL_ForeignOwner(t *testing.T) {
	d := testDB(t)

	u, err := CreateShortURL(d, "https://example.com", "alice", "UPD002", true)
	if err != nil {
		t.Fatal(err)
	}

	u.UserID = "bob"
	u.TargetURL = "https://evil.example.com"
	if err := UpdateShortURL(d, u); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	got, _ := GetShortURLByCode(d, "UPD002")
	if got.TargetURL != "https://example.com" {
		t.Errorf("TargetURL = %q, foreign update must not stick", got.TargetURL)
	}
}

func TestDeleteShortURL_CascadesVisits(t *testing.T) {
	d := testDB(t)

	u, err := CreateShortURL(d, "https://example.com", "alice", "DEL001", true)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := InsertVisit(d, &Visit{ShortURLID: u.ID}); err != nil {
			t.Fatal(err)
		}
	}
	if n := countRows(t, d, "visits"); n != 3 {
		t.Fatalf("visits = %d, want 3", n)
	}

	if err := DeleteShortURL(d, u.ID, "alice"); err != nil {
		t.Fatal(err)
	}

	if n := countRows(t, d, "visits"); n != 0 {
		t.Errorf("visits = %d after delete, want 0 (cascade)", n)
	}
	if _, err := GetShortURLByCode(d, "DEL001"); !errors.Is(err, ErrNotFound) {
		t.Errorf("lookup after delete err = %v, want ErrNotFound", err)
	}
}

func TestDeleteShortURL_ForeignOwner(t *testing.T) {
	d := testDB(t)

	u, err := CreateShortURL(d, "https://example.com", "alice", "DEL002", true)
	if err != nil {
		t.Fatal(err)
	}

	if err := DeleteShortURL(d, u.ID, "bob"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if _, err := GetShortURLByCode(d, "DEL002"); err != nil {
		t.Errorf("mapping disappeared after foreign delete: %v", err)
	}
}

func TestListShortURLs_ScopedToOwner(t *testing.T) {
	d := testDB(t)

	for _, code := range []string{"LSTA01", "LSTA02"} {
		if _, err := CreateShortURL(d, "https://example.com", "alice", code, true); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := CreateShortURL(d, "https://example.com", "bob", "LSTB01", true); err != nil {
		t.Fatal(err)
	}

	urls, err := ListShortURLs(d, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(urls) != 2 {
		t.Fatalf("len = %d, want 2", len(urls))
	}
	for _, u := range urls {
		if u.UserID != "alice" {
			t.Errorf("listed foreign mapping %q", u.ShortCode)
		}
	}
}
