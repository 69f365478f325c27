package geo

import (
	"net"

	"github.com/oschwald/maxminddb-golang"
)

type Result struct {
	CountryCode string
	CountryName string
	City        string
}

type Reader struct {
	db *maxminddb.Reader
}

// Open opens a MaxMind .mmdb file. Returns a no-op Reader if path is empty,
// so a missing database degrades to lookups that simply never resolve.
func Open(path string) (*Reader, error) {
	if path == "" {
		return &Reader{}, nil
	}
	db, err := maxminddb.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{db: db}, nil
}

func (r *Reader) Close() {
	if r != nil && r.db != nil {
		r.db.Close()
	}
}

// Lookup resolves an IP to country and city. ok is false when no database is
// configured, the IP is malformed, or the lookup fails; callers record the
// visit either way.
func (r *Reader) Lookup(ipStr string) (Result, bool) {
	if r == nil || r.db == nil {
		return Result{}, false
	}
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return Result{}, false
	}

	var record struct {
		Country struct {
			ISOCode string            `maxminddb:"iso_code"`
			Names   map[string]string `maxminddb:"names"`
		} `maxminddb:"country"`
		City struct {
			Names map[string]string `maxminddb:"names"`
		} `maxminddb:"city"`
	}

	if err := r.db.Lookup(ip, &record); err != nil {
		return Result{}, false
	}
	if record.Country.ISOCode == "" {
		return Result{}, false
	}

	return Result{
		CountryCode: record.Country.ISOCode,
		CountryName: record.Country.Names["en"],
		City:        record.City.Names["en"],
	}, true
}
