package models

import "time"

type MatchRequestStatus string

const (
	MatchRequestStatusPending MatchRequestStatus = "Pending"
	MatchRequestStatusClosed  MatchRequestStatus = "Closed"
)

type InvitationStatus string

const (
	InvitationStatusPending  InvitationStatus = "Pending"
	InvitationStatusAccepted InvitationStatus = "Accepted"
	InvitationStatusDeclined InvitationStatus = "Declined"
)

// IsValid reports whether the status belongs to the closed invitation
// status set. Caller-supplied strings are validated at the boundary.
func (s InvitationStatus) IsValid() bool {
	switch s {
	case InvitationStatusPending, InvitationStatusAccepted, InvitationStatusDeclined:
		return true
	}
	return false
}

type MatchRequest struct {
	ID          int                `json:"id"`
	RequesterID int                `json:"requester_id"`
	MatchTime   time.Time          `json:"match_time"`
	Status      MatchRequestStatus `json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
}

type MatchInvitation struct {
	ID              int              `json:"id"`
	RequestID       int              `json:"request_id"`
	InvitedMemberID int              `json:"invited_member_id"`
	Status          InvitationStatus `json:"status"`
}
