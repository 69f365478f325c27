package tracking

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mssola/useragent"

	"github.com/getshort/getshort/internal/geo"
	"github.com/getshort/getshort/internal/models"
)

// RequestMeta is the raw material for one visit record.
type RequestMeta struct {
	IP        string
	UserAgent string
	Referrer  string
}

// Recorder turns request metadata into persisted visit records.
type Recorder struct {
	db  *sql.DB
	geo *geo.Reader
}

func NewRecorder(db *sql.DB, geoReader *geo.Reader) *Recorder {
	return &Recorder{db: db, geo: geoReader}
}

// Record derives browser, device and location details from the request
// metadata and persists one visit for the mapping. Geolocation is strictly
// best-effort: a failed lookup leaves the location columns NULL and the
// visit is stored regardless.
func (r *Recorder) Record(link *models.ShortURL, meta RequestMeta) (*models.Visit, error) {
	visit := buildVisit(link.ID, meta)

	if result, ok := r.geo.Lookup(meta.IP); ok {
		visit.CountryCode = sql.NullString{String: result.CountryCode, Valid: true}
		visit.CountryName = sql.NullString{String: result.CountryName, Valid: true}
		visit.City = sql.NullString{String: result.City, Valid: result.City != ""}
	}

	if err := models.InsertVisit(r.db, visit); err != nil {
		return nil, fmt.Errorf("record visit: %w", err)
	}
	return visit, nil
}

func buildVisit(shortURLID int64, meta RequestMeta) *models.Visit {
	ua := useragent.New(meta.UserAgent)
	browser, version := ua.Browser()

	return &models.Visit{
		ShortURLID:      shortURLID,
		VisitedAt:       time.Now().UTC(),
		IPAddress:       meta.IP,
		UserAgent:       meta.UserAgent,
		Browser:         browser,
		BrowserVersion:  version,
		DeviceType:      classifyDevice(meta.UserAgent, ua),
		OperatingSystem: ua.OS(),
		Referrer:        meta.Referrer,
	}
}

// Substrings matched case-insensitively against the User-Agent. The parser
// has no tablet flag of its own, so tablets are picked out by signature
// before the mobile check runs.
var tabletSignatures = []string{
	"ipad",
	"tablet",
	"kindle",
	"silk/",
	"playbook",
	"nexus 7",
	"nexus 9",
	"nexus 10",
	"sm-t", // Samsung Galaxy Tab model prefix
}

func classifyDevice(rawUA string, ua *useragent.UserAgent) string {
	lower := strings.ToLower(rawUA)
	for _, sig := range tabletSignatures {
		if strings.Contains(lower, sig) {
			return "tablet"
		}
	}
	// Android tablets advertise Android without the Mobile token.
	if strings.Contains(lower, "android") && !strings.Contains(lower, "mobile") {
		return "tablet"
	}
	if ua.Mobile() {
		return "mobile"
	}
	return "desktop"
}
