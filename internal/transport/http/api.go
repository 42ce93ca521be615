package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"hotspot-quiz-service/internal/app"
	"hotspot-quiz-service/internal/domain"

	"github.com/julienschmidt/httprouter"
)

type clickRequest struct {
	ID int `json:"id"`
}

type clickResult struct {
	ID      int         `json:"id"`
	Outcome app.Outcome `json:"outcome"`
	View    domain.View `json:"view"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// serveCatalog returns the catalog with every text resolved.
func (h *Handler) serveCatalog(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	catalog, err := h.service.Catalog(r.Context(), ps.ByName("catalog"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	catalog.Texts = catalog.Texts.WithDefaults()
	h.writeJSON(w, http.StatusOK, catalog)
}

// serveView starts the player's round on first use.
func (h *Handler) serveView(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	session := getOrSetSessionID(w, r)
	view, err := h.service.Start(r.Context(), ps.ByName("catalog"), session)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

func (h *Handler) serveClick(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req clickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorPayload{Message: "invalid click payload"})
		return
	}

	catalogID := ps.ByName("catalog")
	session := getOrSetSessionID(w, r)
	outcome, view, err := h.service.Click(r.Context(), catalogID, session, req.ID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		if _, err = h.service.Start(r.Context(), catalogID, session); err == nil {
			outcome, view, err = h.service.Click(r.Context(), catalogID, session, req.ID)
		}
	}
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.logf("QUIZ: %s clicked %d on %s: %s", session, req.ID, catalogID, outcome)
	h.writeJSON(w, http.StatusOK, clickResult{ID: req.ID, Outcome: outcome, View: view})
}

func (h *Handler) serveReset(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	catalogID := ps.ByName("catalog")
	session := getOrSetSessionID(w, r)
	if _, err := h.service.Start(r.Context(), catalogID, session); err != nil {
		h.writeError(w, err)
		return
	}
	view, err := h.service.Reset(r.Context(), catalogID, session)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	h.securityHeaders(w)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write json: %v", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("request failed: %v", err)
	}
	h.writeJSON(w, status, errorPayload{Message: err.Error()})
}
