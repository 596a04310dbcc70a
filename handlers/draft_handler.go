package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/fantasyfrc/draft-system/middleware"
	"github.com/fantasyfrc/draft-system/models"
	"github.com/fantasyfrc/draft-system/repositories"
	"github.com/fantasyfrc/draft-system/services"
)

// maxLogoSize bounds logo uploads at 2MB.
const maxLogoSize = 2 << 20

type DraftHandler struct {
	draftService services.DraftService
}

func NewDraftHandler(draftService services.DraftService) *DraftHandler {
	return &DraftHandler{draftService: draftService}
}

type createRoomRequest struct {
	Name         string  `json:"name"`
	Description  *string `json:"description"`
	Capacity     int     `json:"capacity"`
	TurnTimeSec  int     `json:"turn_time_sec"`
	SnakeFormat  bool    `json:"snake_format"`
	Rounds       int     `json:"rounds"`
	TeamsToStart int     `json:"teams_to_start"`
	Privacy      string  `json:"privacy"`
}

// Create handles POST /rooms.
func (h *DraftHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var req createRoomRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	room, err := h.draftService.CreateRoom(r.Context(), userID, services.CreateDraftRoomInput{
		Name:         req.Name,
		Description:  req.Description,
		Capacity:     req.Capacity,
		TurnTimeSec:  req.TurnTimeSec,
		SnakeFormat:  req.SnakeFormat,
		Rounds:       req.Rounds,
		TeamsToStart: req.TeamsToStart,
		Privacy:      models.RoomPrivacy(req.Privacy),
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"room": room}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// List handles GET /rooms.
func (h *DraftHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := repositories.ListDraftRoomsFilter{Limit: 50}

	if statusStr := query.Get("status"); statusStr != "" {
		status := models.DraftRoomStatus(statusStr)
		switch status {
		case models.RoomStatusPending, models.RoomStatusActive, models.RoomStatusCompleted:
			filter.Status = &status
		default:
			badRequestResponse(w, r, errors.New("invalid status query parameter"))
			return
		}
	}
	if privacyStr := query.Get("privacy"); privacyStr != "" {
		privacy := models.RoomPrivacy(privacyStr)
		switch privacy {
		case models.PrivacyPublic, models.PrivacyPrivate:
			filter.Privacy = &privacy
		default:
			badRequestResponse(w, r, errors.New("invalid privacy query parameter"))
			return
		}
	}
	if ownerStr := query.Get("owner_id"); ownerStr != "" {
		ownerID, err := strconv.Atoi(ownerStr)
		if err != nil || ownerID < 1 {
			badRequestResponse(w, r, errors.New("invalid owner_id query parameter"))
			return
		}
		filter.OwnerID = &ownerID
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 || limit > 100 {
			badRequestResponse(w, r, errors.New("limit must be between 1 and 100"))
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

	rooms, err := h.draftService.ListRooms(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"rooms": rooms}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByID handles GET /rooms/{roomID}.
func (h *DraftHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	roomID, err := getIDFromURL(r, "roomID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	room, err := h.draftService.GetRoom(r.Context(), roomID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"room": room}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type joinRoomRequest struct {
	InviteToken string `json:"invite_token"`
}

// Join handles POST /rooms/{roomID}/join.
func (h *DraftHandler) Join(w http.ResponseWriter, r *http.Request) {
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

	var req joinRoomRequest
	if r.ContentLength > 0 {
		if err := readJSON(w, r, &req); err != nil {
			badRequestResponse(w, r, err)
			return
		}
	}

	participant, err := h.draftService.JoinRoom(r.Context(), roomID, userID, req.InviteToken)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"participant": participant}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type setReadyRequest struct {
	Ready bool `json:"ready"`
}

// Ready handles PATCH /rooms/{roomID}/ready.
func (h *DraftHandler) Ready(w http.ResponseWriter, r *http.Request) {
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

	var req setReadyRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	participant, err := h.draftService.SetReady(r.Context(), roomID, userID, req.Ready)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"participant": participant}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Start handles POST /rooms/{roomID}/start.
func (h *DraftHandler) Start(w http.ResponseWriter, r *http.Request) {
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

	room, err := h.draftService.StartDraft(r.Context(), roomID, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"room": room}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type makePickRequest struct {
	TeamKey string `json:"team_key"`
}

// Pick handles POST /rooms/{roomID}/picks.
func (h *DraftHandler) Pick(w http.ResponseWriter, r *http.Request) {
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

	var req makePickRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if req.TeamKey == "" {
		badRequestResponse(w, r, errors.New("team_key is required"))
		return
	}

	result, err := h.draftService.MakePick(r.Context(), roomID, userID, req.TeamKey)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"pick": result.Pick, "completed": result.Completed}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// State handles GET /rooms/{roomID}/state.
func (h *DraftHandler) State(w http.ResponseWriter, r *http.Request) {
	roomID, err := getIDFromURL(r, "roomID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	state, err := h.draftService.GetState(r.Context(), roomID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, state, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Delete handles DELETE /rooms/{roomID}.
func (h *DraftHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.draftService.DeleteRoom(r.Context(), roomID, userID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadLogo handles POST /rooms/{roomID}/logo (multipart form, field "logo").
func (h *DraftHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
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

	if err := r.ParseMultipartForm(maxLogoSize); err != nil {
		badRequestResponse(w, r, errors.New("invalid multipart form or file too large"))
		return
	}

	file, header, err := r.FormFile("logo")
	if err != nil {
		badRequestResponse(w, r, errors.New("logo file is required"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType != "image/png" && contentType != "image/jpeg" && contentType != "image/webp" {
		badRequestResponse(w, r, errors.New("logo must be a png, jpeg or webp image"))
		return
	}

	url, err := h.draftService.UploadRoomLogo(r.Context(), roomID, userID, file, contentType)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"logo_url": url}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
