package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/fantasyfrc/draft-system/services"
)

type ScheduleHandler struct {
	scheduleService services.ScheduleService
}

func NewScheduleHandler(scheduleService services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

// ListMatchups handles GET /rooms/{roomID}/matchups.
func (h *ScheduleHandler) ListMatchups(w http.ResponseWriter, r *http.Request) {
	roomID, err := getIDFromURL(r, "roomID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var week *int
	if weekStr := r.URL.Query().Get("week"); weekStr != "" {
		parsed, err := strconv.Atoi(weekStr)
		if err != nil || parsed < 1 {
			badRequestResponse(w, r, errors.New("invalid week query parameter"))
			return
		}
		week = &parsed
	}

	matchups, err := h.scheduleService.ListMatchups(r.Context(), roomID, week)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matchups": matchups}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
