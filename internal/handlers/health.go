package handlers

import (
	"database/sql"
	"net/http"
)

type HealthHandler struct {
	DB *sql.DB
}

type checkStatus struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type healthResponse struct {
	Status string                 `json:"status"`
	Checks map[string]checkStatus `json:"checks"`
}

// Health reports overall service health, including a live database probe.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	dbCheck := checkStatus{Status: "ok", Message: "Database connection OK"}
	healthy := true
	if err := h.ping(); err != nil {
		dbCheck = checkStatus{Status: "error", Message: err.Error()}
		healthy = false
	}

	resp := healthResponse{
		Status: "healthy",
		Checks: map[string]checkStatus{
			"database": dbCheck,
			"app":      {Status: "ok", Message: "Application is running"},
		},
	}
	code := http.StatusOK
	if !healthy {
		resp.Status = "unhealthy"
		code = http.StatusInternalServerError
	}
	writeJSON(w, code, resp)
}

// Ready reports whether the service can take traffic.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.ping(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// Live only confirms the process is up.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

func (h *HealthHandler) ping() error {
	var one int
	return h.DB.QueryRow(`SELECT 1`).Scan(&one)
}
