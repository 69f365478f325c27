package handlers

import (
	"database/sql"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/getshort/getshort/internal/cache"
	"github.com/getshort/getshort/internal/metrics"
	"github.com/getshort/getshort/internal/models"
	"github.com/getshort/getshort/internal/rewrite"
	"github.com/getshort/getshort/internal/tracking"
)

// RedirectHandler resolves inbound short codes. Per request: registry lookup,
// visit recording, modifier rewrite, redirect, strictly in that order.
type RedirectHandler struct {
	DB       *sql.DB
	Cache    *cache.URLCache
	Recorder *tracking.Recorder
	Log      *logrus.Logger
}

func (h *RedirectHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimPrefix(r.URL.Path, "/")
	if code == "" || strings.Contains(code, "/") {
		metrics.Redirects.WithLabelValues("not_found").Inc()
		http.NotFound(w, r)
		return
	}

	link, found := h.Cache.Get(code)
	if !found {
		var err error
		link, err = models.GetShortURLByCode(h.DB, code)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				metrics.Redirects.WithLabelValues("not_found").Inc()
				http.NotFound(w, r)
				return
			}
			metrics.Redirects.WithLabelValues("error").Inc()
			h.Log.WithError(err).WithField("code", code).Error("redirect lookup")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		h.Cache.Set(code, link)
	}

	// Track before the rewrite runs: traffic accounting must not depend on
	// rewrite success. A failed insert is logged and counted, never fatal
	// to the redirect.
	if _, err := h.Recorder.Record(link, tracking.RequestMeta{
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
		Referrer:  r.Referer(),
	}); err != nil {
		metrics.TrackingFailures.Inc()
		h.Log.WithError(err).WithField("code", code).Error("record visit")
	}

	dest := link.TargetURL
	if link.ApplyModifiers {
		mods, err := models.FindApplicableModifiers(h.DB, link.UserID, link.TargetURL)
		if err != nil {
			metrics.Redirects.WithLabelValues("error").Inc()
			h.Log.WithError(err).WithField("code", code).Error("find modifiers")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		dest = rewrite.Apply(dest, mods)
	}

	metrics.Redirects.WithLabelValues("hit").Inc()
	http.Redirect(w, r, dest, http.StatusFound)
}

// clientIP trusts RemoteAddr; chi's RealIP middleware has already folded in
// X-Forwarded-For / X-Real-IP upstream.
func clientIP(r *http.Request) string {
	if ip, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return ip
	}
	return r.RemoteAddr
}
