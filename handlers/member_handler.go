package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/padelhq/club-manager/services"
)

type MemberHandler struct {
	memberService services.MemberService
}

func NewMemberHandler(memberService services.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// LookupByPhoneHandler handles GET /members/lookup?phone=...
func (h *MemberHandler) LookupByPhoneHandler(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")
	if phone == "" {
		badRequestResponse(w, r, errors.New("phone query parameter is required"))
		return
	}

	member, err := h.memberService.FindByPhone(r.Context(), phone)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"member": member}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CandidatesHandler handles GET /members/candidates?skill_level=...&exclude_member_id=...
func (h *MemberHandler) CandidatesHandler(w http.ResponseWriter, r *http.Request) {
	skillLevel := r.URL.Query().Get("skill_level")
	if skillLevel == "" {
		badRequestResponse(w, r, errors.New("skill_level query parameter is required"))
		return
	}

	excludeID := 0
	if excludeStr := r.URL.Query().Get("exclude_member_id"); excludeStr != "" {
		var err error
		excludeID, err = strconv.Atoi(excludeStr)
		if err != nil {
			badRequestResponse(w, r, errors.New("invalid exclude_member_id parameter"))
			return
		}
	}

	candidates, err := h.memberService.FindCandidates(r.Context(), skillLevel, excludeID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"candidates": candidates}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
