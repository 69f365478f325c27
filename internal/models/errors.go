package models

import (
	"errors"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrNotFound is returned when a record does not exist or is owned by
	// a different user. Ownership mismatches are deliberately
	// indistinguishable from missing records.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateCode is returned when a custom short code is already taken.
	ErrDuplicateCode = errors.New("short code already in use")

	// ErrCodeSpaceExhausted is returned when code generation keeps
	// colliding after the retry cap.
	ErrCodeSpaceExhausted = errors.New("could not generate a unique short code")
)

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		code := se.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}
