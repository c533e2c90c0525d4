package mcpserver

import "github.com/modelcontextprotocol/go-sdk/mcp"

// Tool inputs and results. Field tags drive the generated JSON schema the
// agent sees.

type MemberSearchInput struct {
	PhoneNumber string `json:"phone_number" jsonschema:"member phone number"`
}

type MemberPayload struct {
	MemberID   int    `json:"member_id"`
	FullName   string `json:"full_name"`
	Phone      string `json:"phone,omitempty"`
	SkillLevel string `json:"skill_level,omitempty"`
	Status     string `json:"status"`
}

type MemberSearchResult struct {
	Found  bool           `json:"found"`
	Member *MemberPayload `json:"member,omitempty"`
}

type CandidatesInput struct {
	SkillLevel      string `json:"skill_level" jsonschema:"skill tier to match"`
	ExcludeMemberID int    `json:"exclude_member_id" jsonschema:"member id to exclude (the requester)"`
}

type CandidatesResult struct {
	Candidates []MemberPayload `json:"candidates"`
}

type CreateMatchRequestInput struct {
	RequesterPhone string `json:"requester_phone" jsonschema:"phone number of the requesting member"`
	MatchDatetime  string `json:"match_datetime" jsonschema:"desired match time, RFC 3339"`
}

type CreateMatchRequestResult struct {
	RequestID int    `json:"request_id,omitempty"`
	Message   string `json:"message"`
}

type SaveInvitationsInput struct {
	RequestID     int      `json:"request_id" jsonschema:"match request identifier"`
	InvitedPhones []string `json:"invited_phones" jsonschema:"phone numbers to invite"`
}

type SaveInvitationsResult struct {
	Created   int    `json:"created"`
	Requested int    `json:"requested"`
	Message   string `json:"message"`
}

type UpdateInvitationStatusInput struct {
	RequestID    int    `json:"request_id" jsonschema:"match request identifier"`
	InvitedPhone string `json:"invited_phone" jsonschema:"phone number of the invitee"`
	Status       string `json:"status" jsonschema:"new status (Pending, Accepted, Declined)"`
}

type UpdateInvitationStatusResult struct {
	Updated bool   `json:"updated"`
	Message string `json:"message"`
}

type ReserveCourtInput struct {
	StartTime string `json:"start_time" jsonschema:"slot start, RFC 3339"`
	EndTime   string `json:"end_time" jsonschema:"slot end, RFC 3339"`
	MemberIDs []int  `json:"member_ids" jsonschema:"ids of the playing members"`
	CourtID   *int   `json:"court_id,omitempty" jsonschema:"optional specific court id"`
}

type ReserveCourtResult struct {
	Reserved      bool   `json:"reserved"`
	ReservationID int    `json:"reservation_id,omitempty"`
	CourtID       int    `json:"court_id,omitempty"`
	Message       string `json:"message"`
}

func SearchMemberByPhoneTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "search_member_by_phone",
		Description: "Search for a club member by phone number.",
	}
}

func FindCandidatesTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "find_candidates",
		Description: "Find active matchmaking candidates of the same skill level, excluding the requester.",
	}
}

func CreateMatchRequestTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "create_match_request",
		Description: "Create a matchmaking request for the member owning the given phone number.",
	}
}

func SaveInvitationsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "save_invitations",
		Description: "Invite a list of phone numbers to a match request. Unknown phones are skipped.",
	}
}

func UpdateInvitationStatusTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "update_invitation_status",
		Description: "Update the status (Accepted/Declined) of an invitation, identified by the invitee's phone.",
	}
}

func ReserveCourtTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "reserve_court",
		Description: "Reserve a court for a time slot and a list of members. Picks a free court when none is given.",
	}
}
