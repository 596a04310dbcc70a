package handlers

import (
	"errors"
	"net/http"

	"github.com/fantasyfrc/draft-system/middleware"
	"github.com/fantasyfrc/draft-system/services"
)

type RosterHandler struct {
	rosterService services.RosterService
}

func NewRosterHandler(rosterService services.RosterService) *RosterHandler {
	return &RosterHandler{rosterService: rosterService}
}

// Get handles GET /rooms/{roomID}/roster.
func (h *RosterHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	roomID, err := getIDFromURL(r, "roomID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	roster, err := h.rosterService.GetRoster(r.Context(), userID, roomID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"roster": roster}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type setStartingRequest struct {
	TeamKey  string `json:"team_key"`
	Starting bool   `json:"starting"`
}

// SetStarting handles PATCH /rooms/{roomID}/roster.
func (h *RosterHandler) SetStarting(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	roomID, err := getIDFromURL(r, "roomID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var req setStartingRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if req.TeamKey == "" {
		badRequestResponse(w, r, errors.New("team_key is required"))
		return
	}

	if err := h.rosterService.SetStarting(r.Context(), userID, roomID, req.TeamKey, req.Starting); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
