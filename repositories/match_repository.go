package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/padelhq/club-manager/models"
)

var (
	ErrMatchRequestNotFound     = errors.New("match request not found")
	ErrMatchRequesterInvalid    = errors.New("match request requester conflict or invalid")
	ErrInvitationNotFound       = errors.New("match invitation not found")
	ErrInvitationRequestInvalid = errors.New("invitation request conflict or invalid")
	ErrInvitationMemberInvalid  = errors.New("invitation member conflict or invalid")
)

// MatchRepository persists match requests and their invitations.
type MatchRepository interface {
	// CreateRequest inserts the request and fills ID, Status and CreatedAt.
	CreateRequest(ctx context.Context, exec SQLExecutor, request *models.MatchRequest) error

	GetRequestByID(ctx context.Context, exec SQLExecutor, id int) (*models.MatchRequest, error)

	// CreateInvitation inserts the invitation with default Pending status
	// and fills ID and Status.
	CreateInvitation(ctx context.Context, exec SQLExecutor, invitation *models.MatchInvitation) error

	// UpdateInvitationStatusByPhone updates the status of the invitation
	// identified by (request id, member owning the phone). Returns
	// ErrInvitationNotFound when no such invitation exists.
	UpdateInvitationStatusByPhone(ctx context.Context, exec SQLExecutor, requestID int, phone string, status models.InvitationStatus) error

	// ListInvitationsByRequest returns the request's invitations ordered
	// by invitation_id.
	ListInvitationsByRequest(ctx context.Context, exec SQLExecutor, requestID int) ([]*models.MatchInvitation, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMatchRepository) CreateRequest(ctx context.Context, exec SQLExecutor, request *models.MatchRequest) error {
	query := `
		INSERT INTO match_requests (requester_id, match_time)
		VALUES ($1, $2)
		RETURNING request_id, status, created_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		request.RequesterID,
		request.MatchTime,
	).Scan(&request.ID, &request.Status, &request.CreatedAt)

	if err != nil {
		if pqErrorCode(err) == pgForeignKeyViolation {
			return ErrMatchRequesterInvalid
		}
		return err
	}

	return nil
}

func (r *postgresMatchRepository) GetRequestByID(ctx context.Context, exec SQLExecutor, id int) (*models.MatchRequest, error) {
	query := `
		SELECT request_id, requester_id, match_time, status, created_at
		FROM match_requests
		WHERE request_id = $1`

	request := &models.MatchRequest{}
	err := r.getExecutor(exec).QueryRowContext(ctx, query, id).Scan(
		&request.ID,
		&request.RequesterID,
		&request.MatchTime,
		&request.Status,
		&request.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchRequestNotFound
		}
		return nil, err
	}
	return request, nil
}

func (r *postgresMatchRepository) CreateInvitation(ctx context.Context, exec SQLExecutor, invitation *models.MatchInvitation) error {
	query := `
		INSERT INTO match_invitations (request_id, invited_member_id)
		VALUES ($1, $2)
		RETURNING invitation_id, status`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		invitation.RequestID,
		invitation.InvitedMemberID,
	).Scan(&invitation.ID, &invitation.Status)

	if err != nil {
		if pqErrorCode(err) == pgForeignKeyViolation {
			if pqConstraint(err) == "match_invitations_invited_member_id_fkey" {
				return ErrInvitationMemberInvalid
			}
			return ErrInvitationRequestInvalid
		}
		return err
	}

	return nil
}

func (r *postgresMatchRepository) UpdateInvitationStatusByPhone(ctx context.Context, exec SQLExecutor, requestID int, phone string, status models.InvitationStatus) error {
	query := `
		UPDATE match_invitations mi
		SET status = $1
		FROM members m
		WHERE mi.invited_member_id = m.member_id
		  AND mi.request_id = $2
		  AND m.phone = $3`

	result, err := r.getExecutor(exec).ExecContext(ctx, query, status, requestID, phone)
	if err != nil {
		return err
	}

	return checkAffectedRows(result, ErrInvitationNotFound)
}

func (r *postgresMatchRepository) ListInvitationsByRequest(ctx context.Context, exec SQLExecutor, requestID int) ([]*models.MatchInvitation, error) {
	query := `
		SELECT invitation_id, request_id, invited_member_id, status
		FROM match_invitations
		WHERE request_id = $1
		ORDER BY invitation_id`

	rows, err := r.getExecutor(exec).QueryContext(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invitations := make([]*models.MatchInvitation, 0)
	for rows.Next() {
		invitation := &models.MatchInvitation{}
		if scanErr := rows.Scan(
			&invitation.ID,
			&invitation.RequestID,
			&invitation.InvitedMemberID,
			&invitation.Status,
		); scanErr != nil {
			return nil, scanErr
		}
		invitations = append(invitations, invitation)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return invitations, nil
}
