// Seed fills a database with demo mappings, modifiers, and a plausible
// visit history so dashboards have something to show. Destructive only in
// the sense that it inserts; run it against a scratch DB.
package main

import (
	"database/sql"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/getshort/getshort/internal/db"
	"github.com/getshort/getshort/internal/models"
)

const seedUser = "demo"

type seedURL struct {
	code   string
	target string
	// weight controls relative visit volume (higher = more visits)
	weight float64
}

var urls = []seedURL{
	{"DOCS01", "https://shop.example.com/docs?ref=old", 5.0},
	{"LAUNCH", "https://shop.example.com/launch", 4.5},
	{"BLOG42", "https://blog.example.com/posts/42", 3.0},
	{"REPO01", "https://github.com/getshort/getshort", 2.5},
	{"STATUS", "https://status.example.com", 1.5},
	{"PROMO9", "https://partners.example.org/deal", 3.5},
}

var modifiers = []models.DomainModifier{
	{Domain: "example.com", IncludeSubdomains: true, QueryParams: map[string]string{"ref": "partner42", "utm_source": "getshort"}, Active: true},
	{Domain: "example.org", IncludeSubdomains: false, QueryParams: map[string]string{"campaign": "spring"}, Active: true},
}

type visitProfile struct {
	userAgent string
	browser   string
	version   string
	device    string
	os        string
	weight    float64
}

var profiles = []visitProfile{
	{"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36", "Chrome", "126.0.0.0", "desktop", "Windows 10", 4.0},
	{"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15", "Safari", "17.4", "desktop", "Intel Mac OS X 10_15_7", 2.5},
	{"Mozilla/5.0 (iPhone; CPU iPhone OS 17_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Mobile/15E148 Safari/604.1", "Safari", "17.4", "mobile", "CPU iPhone OS 17_4 like Mac OS X", 3.5},
	{"Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Mobile Safari/537.36", "Chrome", "126.0.0.0", "mobile", "Android 14", 3.0},
	{"Mozilla/5.0 (iPad; CPU OS 17_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Mobile/15E148 Safari/604.1", "Safari", "17.4", "tablet", "CPU OS 17_4 like Mac OS X", 1.0},
	{"Mozilla/5.0 (X11; Linux x86_64; rv:126.0) Gecko/20100101 Firefox/126.0", "Firefox", "126.0", "desktop", "Linux x86_64", 1.5},
}

type geoProfile struct {
	code, name, city, ip string
	weight               float64
}

var geos = []geoProfile{
	{"US", "United States", "New York", "72.229.28.185", 3.5},
	{"DE", "Germany", "Berlin", "85.214.132.117", 2.0},
	{"IN", "India", "Bengaluru", "117.192.0.15", 2.5},
	{"BR", "Brazil", "São Paulo", "177.43.0.22", 1.5},
	{"GB", "United Kingdom", "London", "81.2.69.142", 2.0},
	{"", "", "", "10.0.0.7", 1.0}, // private IP, geo unresolved
}

var referrers = []string{
	"", "", "", // most traffic is direct
	"https://news.ycombinator.com/",
	"https://x.com/",
	"https://www.linkedin.com/feed/",
	"https://duckduckgo.com/",
}

func main() {
	_ = godotenv.Load()

	path := os.Getenv("GETSHORT_DB_PATH")
	if path == "" {
		path = "./getshort.db"
	}

	database, err := db.Open(path)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer database.Close()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for i := range modifiers {
		modifiers[i].UserID = seedUser
		if err := models.CreateDomainModifier(database, &modifiers[i]); err != nil {
			log.Fatalf("seed modifier %s: %v", modifiers[i].Domain, err)
		}
	}

	total := 0
	for _, s := range urls {
		link, err := models.CreateShortURL(database, s.target, seedUser, s.code, true)
		if err != nil {
			log.Fatalf("seed url %s: %v", s.code, err)
		}

		n := int(s.weight*40 + rng.Float64()*s.weight*20)
		for i := 0; i < n; i++ {
			if err := models.InsertVisit(database, randomVisit(rng, link.ID)); err != nil {
				log.Fatalf("seed visit: %v", err)
			}
		}
		total += n
		fmt.Printf("seeded %s → %s (%d visits)\n", s.code, s.target, n)
	}

	fmt.Printf("done: %d urls, %d modifiers, %d visits\n", len(urls), len(modifiers), total)
}

func randomVisit(rng *rand.Rand, shortURLID int64) *models.Visit {
	p := pickProfile(rng)
	g := pickGeo(rng)

	// Spread visits over the last 30 days, weighted toward recent days.
	age := time.Duration(rng.ExpFloat64()*float64(7*24)) * time.Hour
	if age > 30*24*time.Hour {
		age = time.Duration(rng.Intn(30*24)) * time.Hour
	}

	v := &models.Visit{
		ShortURLID:      shortURLID,
		VisitedAt:       time.Now().UTC().Add(-age),
		IPAddress:       g.ip,
		UserAgent:       p.userAgent,
		Browser:         p.browser,
		BrowserVersion:  p.version,
		DeviceType:      p.device,
		OperatingSystem: p.os,
		Referrer:        referrers[rng.Intn(len(referrers))],
	}
	if g.code != "" {
		v.CountryCode = sql.NullString{String: g.code, Valid: true}
		v.CountryName = sql.NullString{String: g.name, Valid: true}
		v.City = sql.NullString{String: g.city, Valid: true}
	}
	return v
}

func pickProfile(rng *rand.Rand) visitProfile {
	var sum float64
	for _, p := range profiles {
		sum += p.weight
	}
	roll := rng.Float64() * sum
	for _, p := range profiles {
		roll -= p.weight
		if roll <= 0 {
			return p
		}
	}
	return profiles[0]
}

func pickGeo(rng *rand.Rand) geoProfile {
	var sum float64
	for _, g := range geos {
		sum += g.weight
	}
	roll := rng.Float64() * sum
	for _, g := range geos {
		roll -= g.weight
		if roll <= 0 {
			return g
		}
	}
	return geos[0]
}
