package services

import "errors"

// Shared errors used across services and the HTTP/MCP mappings.
//
// Not-found and unavailability errors are normal negative results: callers
// branch on them and render text, they never become 500s. Integrity errors
// from the store stay hard failures.
var (
	// Negative results
	ErrMemberNotFound       = errors.New("member not found")
	ErrCourtNotFound        = errors.New("court not found")
	ErrMatchRequestNotFound = errors.New("match request not found")
	ErrInvitationNotFound   = errors.New("invitation not found for this phone number")
	ErrCourtUnavailable     = errors.New("court is already reserved for this time slot")
	ErrNoAvailableCourts    = errors.New("no available courts for this time slot")

	// Validation
	ErrInvalidInvitationStatus = errors.New("invalid invitation status")

	// Integrity violations surfaced from the store
	ErrMemberInvalid    = errors.New("member reference is invalid")
	ErrDuplicateMember  = errors.New("duplicate member on reservation")
	ErrRequesterInvalid = errors.New("requester reference is invalid")
	ErrTimeOrderInvalid = errors.New("end time must be after start time")
)
