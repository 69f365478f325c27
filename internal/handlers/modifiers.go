package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/getshort/getshort/internal/models"
	"github.com/getshort/getshort/internal/rewrite"
	"github.com/getshort/getshort/internal/validate"
)

type ModifierHandler struct {
	DB *sql.DB
}

type modifierRequest struct {
	Domain            string            `json:"domain"`
	IncludeSubdomains *bool             `json:"include_subdomains"`
	QueryParams       map[string]string `json:"query_params"`
	Active            *bool             `json:"active"`
}

func (h *ModifierHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req modifierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	if err := validate.Domain(req.Domain); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validate.QueryParams(req.QueryParams); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	mod := &models.DomainModifier{
		UserID:      UserID(r),
		Domain:      req.Domain,
		QueryParams: req.QueryParams,
		Active:      true,
	}
	if req.IncludeSubdomains != nil {
		mod.IncludeSubdomains = *req.IncludeSubdomains
	}
	if req.Active != nil {
		mod.Active = *req.Active
	}

	if err := models.CreateDomainModifier(h.DB, mod); err != nil {
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, mod)
}

func (h *ModifierHandler) List(w http.ResponseWriter, r *http.Request) {
	mods, err := models.ListDomainModifiers(h.DB, UserID(r))
	if err != nil {
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	if mods == nil {
		mods = []models.DomainModifier{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"modifiers": mods})
}

func (h *ModifierHandler) Get(w http.ResponseWriter, r *http.Request) {
	mod, ok := h.ownedModifier(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, mod)
}

func (h *ModifierHandler) Update(w http.ResponseWriter, r *http.Request) {
	mod, ok := h.ownedModifier(w, r)
	if !ok {
		return
	}

	var req modifierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	if req.Domain != "" {
		if err := validate.Domain(req.Domain); err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		mod.Domain = req.Domain
	}
	if req.QueryParams != nil {
		if err := validate.QueryParams(req.QueryParams); err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		mod.QueryParams = req.QueryParams
	}
	if req.IncludeSubdomains != nil {
		mod.IncludeSubdomains = *req.IncludeSubdomains
	}
	if req.Active != nil {
		mod.Active = *req.Active
	}

	if err := models.UpdateDomainModifier(h.DB, mod); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			jsonError(w, "not found", http.StatusNotFound)
			return
		}
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, mod)
}

func (h *ModifierHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		jsonError(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := models.DeleteDomainModifier(h.DB, id, UserID(r)); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			jsonError(w, "not found", http.StatusNotFound)
			return
		}
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type testRewriteRequest struct {
	URL         string            `json:"url"`
	QueryParams map[string]string `json:"query_params"`
}

// Test previews a rewrite without touching stored rules: it merges the given
// parameter set into the given URL and returns the result.
func (h *ModifierHandler) Test(w http.ResponseWriter, r *http.Request) {
	var req testRewriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := validate.TargetURL(req.URL); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validate.QueryParams(req.QueryParams); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"result": rewrite.ApplyParams(req.URL, req.QueryParams),
	})
}

func (h *ModifierHandler) ownedModifier(w http.ResponseWriter, r *http.Request) (*models.DomainModifier, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		jsonError(w, "invalid id", http.StatusBadRequest)
		return nil, false
	}

	mod, err := models.GetDomainModifier(h.DB, id, UserID(r))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			jsonError(w, "not found", http.StatusNotFound)
			return nil, false
		}
		jsonError(w, "internal error", http.StatusInternalServerError)
		return nil, false
	}
	return mod, true
}
