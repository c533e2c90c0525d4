package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/padelhq/club-manager/services"
)

type ReservationHandler struct {
	reservationService services.ReservationService
}

func NewReservationHandler(reservationService services.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservationService: reservationService}
}

// ReserveHandler handles POST /reservations.
func (h *ReservationHandler) ReserveHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		StartTime string `json:"start_time"`
		EndTime   string `json:"end_time"`
		MemberIDs []int  `json:"member_ids"`
		CourtID   *int   `json:"court_id,omitempty"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	start, err := parseTimestamp("start_time", input.StartTime)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	end, err := parseTimestamp("end_time", input.EndTime)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.reservationService.ReserveCourt(r.Context(), start, end, input.MemberIDs, input.CourtID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	logStaffAction(r, "reservation created",
		slog.Int("reservation_id", result.ReservationID),
		slog.Int("court_id", result.CourtID),
	)

	response := jsonResponse{
		"reservation_id": result.ReservationID,
		"court_id":       result.CourtID,
		"message":        fmt.Sprintf("Reservation %d confirmed on Court %d.", result.ReservationID, result.CourtID),
	}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CourtAvailabilityHandler handles GET /courts/{courtID}/availability.
func (h *ReservationHandler) CourtAvailabilityHandler(w http.ResponseWriter, r *http.Request) {
	courtID, err := getIDFromURL(r, "courtID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	start, err := parseTimestamp("start_time", r.URL.Query().Get("start_time"))
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	end, err := parseTimestamp("end_time", r.URL.Query().Get("end_time"))
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	available, err := h.reservationService.CourtAvailability(r.Context(), courtID, start, end)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"court_id":  courtID,
		"available": available,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// MembersHandler handles GET /reservations/{reservationID}/members.
func (h *ReservationHandler) MembersHandler(w http.ResponseWriter, r *http.Request) {
	reservationID, err := getIDFromURL(r, "reservationID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	memberIDs, err := h.reservationService.ReservationMembers(r.Context(), reservationID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"reservation_id": reservationID,
		"member_ids":     memberIDs,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
