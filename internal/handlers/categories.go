package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abrezinsky/rollart/internal/services"
)

// ==================== Categories ====================

func (h *Handlers) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Category.ListCategories(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, categories)
}

func (h *Handlers) handleCategoryBoard(w http.ResponseWriter, r *http.Request) {
	board, err := h.Category.Board(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, board)
}

func (h *Handlers) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	category, err := h.Category.CreateCategory(r.Context(), services.Category{
		Name:  req.Name,
		Short: req.Short,
		Long:  req.Long,
		Order: req.Order,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, category)
}

func (h *Handlers) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	category, err := h.Category.GetCategory(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, category)
}

func (h *Handlers) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req CategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	category, err := h.Category.UpdateCategory(r.Context(), id, services.Category{
		Name:  req.Name,
		Short: req.Short,
		Long:  req.Long,
		Order: req.Order,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, category)
}

func (h *Handlers) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.Category.DeleteCategory(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}

func (h *Handlers) handleResumeCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	result, err := h.Category.Resume(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, result)
}

func (h *Handlers) handleStartSegment(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	result, err := h.Category.StartSegment(r.Context(), id, chi.URLParam(r, "segment"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, result)
}

func (h *Handlers) handleSegmentResults(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	results, err := h.Results.SegmentResults(r.Context(), id, chi.URLParam(r, "segment"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, results)
}

func (h *Handlers) handleTeamStandings(w http.ResponseWriter, r *http.Request) {
	teams, err := h.Results.TeamStandings(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, TeamsResponse{Teams: teams})
}

// ==================== Skaters ====================

func (h *Handlers) handleListSkaters(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	skaters, err := h.Skater.ListSkaters(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, skaters)
}

func (h *Handlers) handleCreateSkater(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req SkaterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	skater, err := h.Skater.CreateSkater(r.Context(), id, services.Skater{
		Name:  req.Name,
		Team:  req.Team,
		Order: req.Order,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, skater)
}

func (h *Handlers) handleGetSkater(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	skater, err := h.Skater.GetSkater(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, skater)
}

func (h *Handlers) handleUpdateSkater(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req SkaterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	skater, err := h.Skater.UpdateSkater(r.Context(), id, services.Skater{
		Name:  req.Name,
		Team:  req.Team,
		Order: req.Order,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, skater)
}

func (h *Handlers) handleDeleteSkater(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.Skater.DeleteSkater(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}
