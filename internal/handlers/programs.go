package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abrezinsky/rollart/internal/scoring"
	"github.com/abrezinsky/rollart/internal/services"
)

// ==================== Programs ====================

// programCommand adapts a body-less program command to a handler
func (h *Handlers) programCommand(cmd func(ctx context.Context, id int64) (*scoring.Program, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "id")
		if err != nil {
			respondError(w, err)
			return
		}
		program, err := cmd(r.Context(), id)
		if err != nil {
			respondError(w, err)
			return
		}
		respondOK(w, program)
	}
}

func (h *Handlers) handleStartSolo(w http.ResponseWriter, r *http.Request) {
	var req SoloProgramRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	program, err := h.Program.StartSolo(r.Context(), req.SkaterName, req.ProgramName)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, program)
}

func (h *Handlers) handleGetProgram(w http.ResponseWriter, r *http.Request) {
	h.programCommand(h.Program.GetProgram)(w, r)
}

func (h *Handlers) handleStartProgram(w http.ResponseWriter, r *http.Request) {
	h.programCommand(h.Program.Start)(w, r)
}

func (h *Handlers) handleStopProgram(w http.ResponseWriter, r *http.Request) {
	h.programCommand(h.Program.Stop)(w, r)
}

func (h *Handlers) handleFall(w http.ResponseWriter, r *http.Request) {
	h.programCommand(h.Program.Fall)(w, r)
}

func (h *Handlers) handleSetBoxType(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req BoxTypeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	program, err := h.Program.SetBoxType(r.Context(), id, req.Type)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, program)
}

func (h *Handlers) handleEnterElement(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req ElementRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	program, err := h.Program.EnterElement(r.Context(), id, req.BoxType, req.ElementInput)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, program)
}

func (h *Handlers) handleEditBox(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	order, err := parseIntParam(r, "order")
	if err != nil {
		respondError(w, err)
		return
	}

	var req BoxEditRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	program, err := h.Program.EditBox(r.Context(), id, order, req.Type, req.Elements)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, program)
}

func (h *Handlers) handleRemoveBox(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	order, err := parseIntParam(r, "order")
	if err != nil {
		respondError(w, err)
		return
	}

	program, err := h.Program.RemoveBox(r.Context(), id, order)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, program)
}

// handleUpdateElement applies grade, star and time changes as one command.
// A rejected change leaves the element untouched.
func (h *Handlers) handleUpdateElement(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	order, err := parseIntParam(r, "order")
	if err != nil {
		respondError(w, err)
		return
	}
	index, err := parseIntParam(r, "index")
	if err != nil {
		respondError(w, err)
		return
	}

	var req ElementUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.Grade == nil && req.Star == nil && req.Time == nil {
		respondError(w, BadRequest("Nothing to update"))
		return
	}

	program, err := h.Program.UpdateElement(r.Context(), id, order, index, services.ElementUpdate{
		Grade: req.Grade,
		Star:  req.Star,
		Time:  req.Time,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, program)
}

func (h *Handlers) handleSetComponent(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req ComponentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	program, err := h.Program.SetComponent(r.Context(), id, chi.URLParam(r, "name"), req.Value)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, program)
}

func (h *Handlers) handleDeduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req DeductionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	program, err := h.Program.Deduct(r.Context(), id, req.Points)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, program)
}

func (h *Handlers) handleConfirmProgram(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	settlement, err := h.Program.Confirm(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, settlement)
}

func (h *Handlers) handleSkipProgram(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	settlement, err := h.Program.Skip(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, settlement)
}
