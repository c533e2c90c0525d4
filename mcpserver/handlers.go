package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/padelhq/club-manager/models"
	"github.com/padelhq/club-manager/services"
)

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toMemberPayload(member *models.Member) MemberPayload {
	return MemberPayload{
		MemberID:   member.ID,
		FullName:   member.FullName,
		Phone:      derefString(member.Phone),
		SkillLevel: derefString(member.SkillLevel),
		Status:     string(member.Status),
	}
}

// parseTimestamp rejects malformed timestamps before any transaction opens.
func parseTimestamp(field, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s: must be an RFC 3339 timestamp", field)
	}
	return t, nil
}

func SearchMemberByPhoneHandler(members services.MemberService) mcp.ToolHandlerFor[MemberSearchInput, MemberSearchResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input MemberSearchInput) (*mcp.CallToolResult, MemberSearchResult, error) {
		member, err := members.FindByPhone(ctx, input.PhoneNumber)
		if err != nil {
			if errors.Is(err, services.ErrMemberNotFound) {
				return nil, MemberSearchResult{Found: false}, nil
			}
			return nil, MemberSearchResult{}, err
		}

		payload := toMemberPayload(member)
		return nil, MemberSearchResult{Found: true, Member: &payload}, nil
	}
}

func FindCandidatesHandler(members services.MemberService) mcp.ToolHandlerFor[CandidatesInput, CandidatesResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CandidatesInput) (*mcp.CallToolResult, CandidatesResult, error) {
		candidates, err := members.FindCandidates(ctx, input.SkillLevel, input.ExcludeMemberID)
		if err != nil {
			return nil, CandidatesResult{}, err
		}

		result := CandidatesResult{Candidates: make([]MemberPayload, 0, len(candidates))}
		for _, candidate := range candidates {
			result.Candidates = append(result.Candidates, toMemberPayload(candidate))
		}
		return nil, result, nil
	}
}

func CreateMatchRequestHandler(matchmaking services.MatchmakingService) mcp.ToolHandlerFor[CreateMatchRequestInput, CreateMatchRequestResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CreateMatchRequestInput) (*mcp.CallToolResult, CreateMatchRequestResult, error) {
		matchTime, err := parseTimestamp("match_datetime", input.MatchDatetime)
		if err != nil {
			return nil, CreateMatchRequestResult{}, err
		}

		requestID, err := matchmaking.CreateRequestByPhone(ctx, input.RequesterPhone, matchTime)
		if err != nil {
			if errors.Is(err, services.ErrMemberNotFound) {
				return nil, CreateMatchRequestResult{
					Message: "Error: Member not found with this phone number.",
				}, nil
			}
			return nil, CreateMatchRequestResult{}, err
		}

		return nil, CreateMatchRequestResult{
			RequestID: requestID,
			Message:   fmt.Sprintf("Match request %d created.", requestID),
		}, nil
	}
}

func SaveInvitationsHandler(matchmaking services.MatchmakingService) mcp.ToolHandlerFor[SaveInvitationsInput, SaveInvitationsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SaveInvitationsInput) (*mcp.CallToolResult, SaveInvitationsResult, error) {
		summary, err := matchmaking.InvitePlayersByPhone(ctx, input.RequestID, input.InvitedPhones)
		if err != nil {
			if errors.Is(err, services.ErrMatchRequestNotFound) {
				return nil, SaveInvitationsResult{
					Requested: summary.Requested,
					Message:   "Error: Match request not found.",
				}, nil
			}
			return nil, SaveInvitationsResult{}, err
		}

		return nil, SaveInvitationsResult{
			Created:   summary.Created,
			Requested: summary.Requested,
			Message:   summary.String(),
		}, nil
	}
}

func UpdateInvitationStatusHandler(matchmaking services.MatchmakingService) mcp.ToolHandlerFor[UpdateInvitationStatusInput, UpdateInvitationStatusResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input UpdateInvitationStatusInput) (*mcp.CallToolResult, UpdateInvitationStatusResult, error) {
		err := matchmaking.UpdateStatusByPhone(ctx, input.RequestID, input.InvitedPhone, models.InvitationStatus(input.Status))
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvitationNotFound):
				return nil, UpdateInvitationStatusResult{
					Message: "Invitation not found for this phone number.",
				}, nil
			case errors.Is(err, services.ErrInvalidInvitationStatus):
				return nil, UpdateInvitationStatusResult{}, err
			}
			return nil, UpdateInvitationStatusResult{}, err
		}

		return nil, UpdateInvitationStatusResult{
			Updated: true,
			Message: "Status updated to " + input.Status,
		}, nil
	}
}

func ReserveCourtHandler(reservations services.ReservationService) mcp.ToolHandlerFor[ReserveCourtInput, ReserveCourtResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ReserveCourtInput) (*mcp.CallToolResult, ReserveCourtResult, error) {
		start, err := parseTimestamp("start_time", input.StartTime)
		if err != nil {
			return nil, ReserveCourtResult{}, err
		}
		end, err := parseTimestamp("end_time", input.EndTime)
		if err != nil {
			return nil, ReserveCourtResult{}, err
		}

		result, err := reservations.ReserveCourt(ctx, start, end, input.MemberIDs, input.CourtID)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrCourtUnavailable):
				// Auto-selection can lose the conflict race too; without a
				// requested court there is no court to name.
				if input.CourtID == nil {
					return nil, ReserveCourtResult{
						Message: "No available courts for this time slot.",
					}, nil
				}
				return nil, ReserveCourtResult{
					Message: fmt.Sprintf("Court %d is already reserved.", *input.CourtID),
				}, nil
			case errors.Is(err, services.ErrNoAvailableCourts):
				return nil, ReserveCourtResult{
					Message: "No available courts for this time slot.",
				}, nil
			}
			return nil, ReserveCourtResult{}, err
		}

		return nil, ReserveCourtResult{
			Reserved:      true,
			ReservationID: result.ReservationID,
			CourtID:       result.CourtID,
			Message:       fmt.Sprintf("Reservation %d confirmed on Court %d.", result.ReservationID, result.CourtID),
		}, nil
	}
}
