package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/padelhq/club-manager/models"
	"github.com/padelhq/club-manager/services"
)

type MatchmakingHandler struct {
	matchmakingService services.MatchmakingService
}

func NewMatchmakingHandler(matchmakingService services.MatchmakingService) *MatchmakingHandler {
	return &MatchmakingHandler{matchmakingService: matchmakingService}
}

// CreateRequestHandler handles POST /match-requests.
func (h *MatchmakingHandler) CreateRequestHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		MemberID  int    `json:"member_id"`
		MatchTime string `json:"match_time"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.MemberID < 1 {
		badRequestResponse(w, r, errors.New("member_id is required"))
		return
	}

	matchTime, err := parseTimestamp("match_time", input.MatchTime)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	requestID, err := h.matchmakingService.CreateRequest(r.Context(), input.MemberID, matchTime)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	logStaffAction(r, "match request created", slog.Int("request_id", requestID))

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"request_id": requestID}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// InviteByPhoneHandler handles POST /match-requests/{requestID}/invitations.
func (h *MatchmakingHandler) InviteByPhoneHandler(w http.ResponseWriter, r *http.Request) {
	requestID, err := getIDFromURL(r, "requestID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Phones []string `json:"phones"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if len(input.Phones) == 0 {
		badRequestResponse(w, r, errors.New("phones must not be empty"))
		return
	}

	summary, err := h.matchmakingService.InvitePlayersByPhone(r.Context(), requestID, input.Phones)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	logStaffAction(r, "invitations created",
		slog.Int("request_id", requestID),
		slog.Int("created", summary.Created),
	)

	response := jsonResponse{
		"summary": summary,
		"message": summary.String(),
	}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateInvitationStatusHandler handles PATCH /match-requests/{requestID}/invitations.
func (h *MatchmakingHandler) UpdateInvitationStatusHandler(w http.ResponseWriter, r *http.Request) {
	requestID, err := getIDFromURL(r, "requestID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Phone  string `json:"phone"`
		Status string `json:"status"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Phone == "" {
		badRequestResponse(w, r, errors.New("phone is required"))
		return
	}

	err = h.matchmakingService.UpdateStatusByPhone(r.Context(), requestID, input.Phone, models.InvitationStatus(input.Status))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	logStaffAction(r, "invitation status updated",
		slog.Int("request_id", requestID),
		slog.String("status", input.Status),
	)

	response := jsonResponse{"message": "Status updated to " + input.Status}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetRequestHandler handles GET /match-requests/{requestID}.
func (h *MatchmakingHandler) GetRequestHandler(w http.ResponseWriter, r *http.Request) {
	requestID, err := getIDFromURL(r, "requestID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	request, invitations, err := h.matchmakingService.GetRequest(r.Context(), requestID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"request":     request,
		"invitations": invitations,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
