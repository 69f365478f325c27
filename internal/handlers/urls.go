package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/getshort/getshort/internal/cache"
	"github.com/getshort/getshort/internal/config"
	"github.com/getshort/getshort/internal/metrics"
	"github.com/getshort/getshort/internal/models"
	"github.com/getshort/getshort/internal/validate"
)

type URLHandler struct {
	DB    *sql.DB
	Cfg   *config.Config
	Cache *cache.URLCache
}

type createURLRequest struct {
	TargetURL      string `json:"target_url"`
	CustomCode     string `json:"custom_code"`
	ApplyModifiers *bool  `json:"apply_modifiers"`
}

type updateURLRequest struct {
	TargetURL      string `json:"target_url"`
	ApplyModifiers *bool  `json:"apply_modifiers"`
}

type urlResponse struct {
	ID             int64     `json:"id"`
	ShortCode      string    `json:"short_code"`
	TargetURL      string    `json:"target_url"`
	ApplyModifiers bool      `json:"apply_modifiers"`
	CreatedAt      time.Time `json:"created_at"`
	ShortURL       string    `json:"short_url"`
	VisitCount     int       `json:"visit_count"`
}

type listURLsResponse struct {
	URLs []urlResponse `json:"urls"`
}

func (h *URLHandler) toResponse(u *models.ShortURL, visitCount int) urlResponse {
	return urlResponse{
		ID:             u.ID,
		ShortCode:      u.ShortCode,
		TargetURL:      u.TargetURL,
		ApplyModifiers: u.ApplyModifiers,
		CreatedAt:      u.CreatedAt,
		ShortURL:       h.Cfg.ShortURL(u.ShortCode),
		VisitCount:     visitCount,
	}
}

func (h *URLHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	if err := validate.TargetURL(req.TargetURL); err != nil {
		metrics.URLOperations.WithLabelValues("create", "invalid").Inc()
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	applyModifiers := true
	if req.ApplyModifiers != nil {
		applyModifiers = *req.ApplyModifiers
	}

	link, err := models.CreateShortURL(h.DB, req.TargetURL, UserID(r), req.CustomCode, applyModifiers)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrDuplicateCode):
			metrics.URLOperations.WithLabelValues("create", "duplicate").Inc()
			jsonError(w, "this short code is already in use", http.StatusConflict)
		case errors.Is(err, models.ErrCodeSpaceExhausted):
			metrics.URLOperations.WithLabelValues("create", "error").Inc()
			jsonError(w, "failed to generate a unique short code", http.StatusInternalServerError)
		default:
			metrics.URLOperations.WithLabelValues("create", "error").Inc()
			jsonError(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	metrics.URLOperations.WithLabelValues("create", "success").Inc()
	writeJSON(w, http.StatusCreated, h.toResponse(link, 0))
}

func (h *URLHandler) List(w http.ResponseWriter, r *http.Request) {
	urls, err := models.ListShortURLs(h.DB, UserID(r))
	if err != nil {
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	ids := make([]int64, len(urls))
	for i, u := range urls {
		ids[i] = u.ID
	}
	counts, err := models.VisitCounts(h.DB, ids)
	if err != nil {
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := listURLsResponse{URLs: make([]urlResponse, 0, len(urls))}
	for i := range urls {
		resp.URLs = append(resp.URLs, h.toResponse(&urls[i], counts[urls[i].ID]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *URLHandler) Get(w http.ResponseWriter, r *http.Request) {
	link, ok := h.ownedURL(w, r)
	if !ok {
		return
	}
	count, err := models.VisitCount(h.DB, link.ID)
	if err != nil {
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, h.toResponse(link, count))
}

func (h *URLHandler) Update(w http.ResponseWriter, r *http.Request) {
	link, ok := h.ownedURL(w, r)
	if !ok {
		return
	}

	var req updateURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	if req.TargetURL != "" {
		if err := validate.TargetURL(req.TargetURL); err != nil {
			metrics.URLOperations.WithLabelValues("update", "invalid").Inc()
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		link.TargetURL = req.TargetURL
	}
	if req.ApplyModifiers != nil {
		link.ApplyModifiers = *req.ApplyModifiers
	}

	if err := models.UpdateShortURL(h.DB, link); err != nil {
		metrics.URLOperations.WithLabelValues("update", "error").Inc()
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.Cache.Invalidate(link.ShortCode)

	count, err := models.VisitCount(h.DB, link.ID)
	if err != nil {
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	metrics.URLOperations.WithLabelValues("update", "success").Inc()
	writeJSON(w, http.StatusOK, h.toResponse(link, count))
}

func (h *URLHandler) Delete(w http.ResponseWriter, r *http.Request) {
	link, ok := h.ownedURL(w, r)
	if !ok {
		return
	}

	if err := models.DeleteShortURL(h.DB, link.ID, UserID(r)); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			jsonError(w, "not found", http.StatusNotFound)
			return
		}
		metrics.URLOperations.WithLabelValues("delete", "error").Inc()
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.Cache.Invalidate(link.ShortCode)

	metrics.URLOperations.WithLabelValues("delete", "success").Inc()
	w.WriteHeader(http.StatusNoContent)
}

type urlAnalyticsResponse struct {
	URLID        int64                `json:"url_id"`
	ShortCode    string               `json:"short_code"`
	TargetURL    string               `json:"target_url"`
	TotalVisits  int                  `json:"total_visits"`
	BrowserStats []models.BrowserStat `json:"browser_stats"`
	DeviceStats  []models.DeviceStat  `json:"device_stats"`
	CountryStats []models.CountryStat `json:"country_stats"`
}

func (h *URLHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	link, ok := h.ownedURL(w, r)
	if !ok {
		return
	}

	total, err := models.VisitCount(h.DB, link.ID)
	if err != nil {
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	browsers, err := models.BrowserStatsForURL(h.DB, link.ID)
	if err != nil {
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	devices, err := models.DeviceStatsForURL(h.DB, link.ID)
	if err != nil {
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	countries, err := models.CountryStatsForURL(h.DB, link.ID)
	if err != nil {
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, urlAnalyticsResponse{
		URLID:        link.ID,
		ShortCode:    link.ShortCode,
		TargetURL:    link.TargetURL,
		TotalVisits:  total,
		BrowserStats: emptyIfNil(browsers),
		DeviceStats:  emptyIfNil(devices),
		CountryStats: emptyIfNil(countries),
	})
}

type userAnalyticsResponse struct {
	BrowserStats []models.BrowserStat `json:"browser_stats"`
	DeviceStats  []models.DeviceStat  `json:"device_stats"`
	CountryStats []models.CountryStat `json:"country_stats"`
	TopURLs      []urlResponse        `json:"top_urls"`
}

func (h *URLHandler) UserAnalytics(w http.ResponseWriter, r *http.Request) {
	userID := UserID(r)

	browsers, err := models.BrowserStatsForUser(h.DB, userID)
	if err != nil {
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	devices, err := models.DeviceStatsForUser(h.DB, userID)
	if err != nil {
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	countries, err := models.CountryStatsForUser(h.DB, userID)
	if err != nil {
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	top, err := models.TopURLsForUser(h.DB, userID, 10)
	if err != nil {
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	topResp := make([]urlResponse, 0, len(top))
	for i := range top {
		topResp = append(topResp, h.toResponse(&top[i].URL, top[i].VisitCount))
	}

	writeJSON(w, http.StatusOK, userAnalyticsResponse{
		BrowserStats: emptyIfNil(browsers),
		DeviceStats:  emptyIfNil(devices),
		CountryStats: emptyIfNil(countries),
		TopURLs:      topResp,
	})
}

// ownedURL loads the {id} mapping scoped to the caller. Mappings owned by
// someone else read as 404.
func (h *URLHandler) ownedURL(w http.ResponseWriter, r *http.Request) (*models.ShortURL, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		jsonError(w, "invalid id", http.StatusBadRequest)
		return nil, false
	}

	link, err := models.GetShortURL(h.DB, id, UserID(r))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			jsonError(w, "not found", http.StatusNotFound)
			return nil, false
		}
		jsonError(w, "internal error", http.StatusInternalServerError)
		return nil, false
	}
	return link, true
}

func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
