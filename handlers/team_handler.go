package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fantasyfrc/draft-system/middleware"
	"github.com/fantasyfrc/draft-system/models"
	"github.com/fantasyfrc/draft-system/repositories"
	"github.com/fantasyfrc/draft-system/services"
)

type TeamHandler struct {
	teamService services.TeamService
}

func NewTeamHandler(teamService services.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

// List handles GET /teams.
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := repositories.ListTeamsFilter{
		Search: query.Get("search"),
		Limit:  100,
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 || limit > 500 {
			badRequestResponse(w, r, errors.New("limit must be between 1 and 500"))
			return
		}
		filter.Limit = limit
	}
	if offsetStr := query.Get("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			badRequestResponse(w, r, errors.New("invalid offset query parameter"))
			return
		}
		filter.Offset = offset
	}

	teams, err := h.teamService.List(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"teams": teams}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByKey handles GET /teams/{teamKey}.
func (h *TeamHandler) GetByKey(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "teamKey")
	if key == "" {
		badRequestResponse(w, r, errors.New("team key is required"))
		return
	}

	team, err := h.teamService.GetByKey(r.Context(), key)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Sync handles POST /teams/sync, admin only.
func (h *TeamHandler) Sync(w http.ResponseWriter, r *http.Request) {
	role, err := middleware.GetUserRoleFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}
	if role != models.RoleAdmin {
		forbiddenResponse(w, r, "only admins can trigger a catalog sync")
		return
	}

	count, err := h.teamService.SyncCatalog(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"synced": count}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
