package handlers

import (
	"net/http"
)

// ==================== Sessions ====================

func (h *Handlers) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.Session.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, sessions)
}

func (h *Handlers) handleOpenSession(w http.ResponseWriter, r *http.Request) {
	var req SessionOpenRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	session, err := h.Session.Open(r.Context(), req.Name)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, session)
}

func (h *Handlers) handleCurrentSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.Session.Current(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, session)
}

func (h *Handlers) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.Session.Close(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, "Session closed")
}

func (h *Handlers) handleReopenSession(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.Session.Reopen(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, "Session reopened")
}
