package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/padelhq/club-manager/models"
	"github.com/padelhq/club-manager/repositories"
)

// InviteSummary is the result of a best-effort batch invite: Created of
// Requested phones resolved to members and received an invitation.
type InviteSummary struct {
	Created   int `json:"created"`
	Requested int `json:"requested"`
}

func (s InviteSummary) String() string {
	return fmt.Sprintf("Created %d invitations. (Found %d/%d members)", s.Created, s.Created, s.Requested)
}

// MatchmakingService drives the match request and invitation workflow.
// Every mutating call runs inside a single transaction.
type MatchmakingService interface {
	CreateRequest(ctx context.Context, memberID int, matchTime time.Time) (int, error)

	// CreateRequestByPhone resolves the requester's phone before creating
	// the request. Returns ErrMemberNotFound when the phone is unknown.
	CreateRequestByPhone(ctx context.Context, phone string, matchTime time.Time) (int, error)

	// InvitePlayersByPhone resolves each phone with one batch lookup and
	// invites every member that resolved. Unknown phones are skipped, not
	// errors: partial success is the contract.
	InvitePlayersByPhone(ctx context.Context, requestID int, phones []string) (InviteSummary, error)

	// UpdateStatusByPhone updates the invitation identified by the request
	// and the member owning the phone. The status must belong to the
	// closed invitation status set.
	UpdateStatusByPhone(ctx context.Context, requestID int, phone string, status models.InvitationStatus) error

	// GetRequest returns a match request together with its invitations,
	// ordered by invitation id.
	GetRequest(ctx context.Context, requestID int) (*models.MatchRequest, []*models.MatchInvitation, error)
}

type matchmakingService struct {
	txBeginner repositories.TxBeginner
	memberRepo repositories.MemberRepository
	matchRepo  repositories.MatchRepository
	logger     *slog.Logger
}

func NewMatchmakingService(
	txBeginner repositories.TxBeginner,
	memberRepo repositories.MemberRepository,
	matchRepo repositories.MatchRepository,
	logger *slog.Logger,
) MatchmakingService {
	return &matchmakingService{
		txBeginner: txBeginner,
		memberRepo: memberRepo,
		matchRepo:  matchRepo,
		logger:     logger,
	}
}

func (s *matchmakingService) CreateRequest(ctx context.Context, memberID int, matchTime time.Time) (requestID int, err error) {
	tx, err := s.txBeginner.Begin(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.ErrorContext(ctx, "rollback failed", slog.Any("error", rbErr))
			}
		} else {
			if cErr := tx.Commit(); cErr != nil {
				err = fmt.Errorf("failed to commit transaction: %w", cErr)
			}
		}
	}()

	request := &models.MatchRequest{
		RequesterID: memberID,
		MatchTime:   matchTime,
	}
	if err = s.matchRepo.CreateRequest(ctx, tx, request); err != nil {
		if errors.Is(err, repositories.ErrMatchRequesterInvalid) {
			err = ErrRequesterInvalid
			return 0, err
		}
		err = fmt.Errorf("failed to create match request: %w", err)
		return 0, err
	}

	return request.ID, nil
}

func (s *matchmakingService) CreateRequestByPhone(ctx context.Context, phone string, matchTime time.Time) (int, error) {
	member, err := s.memberRepo.FindByPhone(ctx, nil, phone)
	if err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			return 0, ErrMemberNotFound
		}
		return 0, fmt.Errorf("failed to resolve requester phone: %w", err)
	}

	return s.CreateRequest(ctx, member.ID, matchTime)
}

func (s *matchmakingService) InvitePlayersByPhone(ctx context.Context, requestID int, phones []string) (summary InviteSummary, err error) {
	summary = InviteSummary{Requested: len(phones)}

	tx, err := s.txBeginner.Begin(ctx, nil)
	if err != nil {
		return summary, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			summary.Created = 0
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.ErrorContext(ctx, "rollback failed", slog.Any("error", rbErr))
			}
		} else {
			if cErr := tx.Commit(); cErr != nil {
				summary.Created = 0
				err = fmt.Errorf("failed to commit transaction: %w", cErr)
			}
		}
	}()

	matches, err := s.memberRepo.ResolvePhones(ctx, tx, phones)
	if err != nil {
		err = fmt.Errorf("failed to resolve phones: %w", err)
		return summary, err
	}

	for _, match := range matches {
		invitation := &models.MatchInvitation{
			RequestID:       requestID,
			InvitedMemberID: match.MemberID,
		}
		if err = s.matchRepo.CreateInvitation(ctx, tx, invitation); err != nil {
			if errors.Is(err, repositories.ErrInvitationRequestInvalid) {
				err = ErrMatchRequestNotFound
				return summary, err
			}
			err = fmt.Errorf("failed to create invitation for member %d: %w", match.MemberID, err)
			return summary, err
		}
		summary.Created++
	}

	s.logger.InfoContext(ctx, "invitations created",
		slog.Int("request_id", requestID),
		slog.Int("created", summary.Created),
		slog.Int("requested", summary.Requested),
	)

	return summary, nil
}

func (s *matchmakingService) GetRequest(ctx context.Context, requestID int) (*models.MatchRequest, []*models.MatchInvitation, error) {
	request, err := s.matchRepo.GetRequestByID(ctx, nil, requestID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchRequestNotFound) {
			return nil, nil, ErrMatchRequestNotFound
		}
		return nil, nil, fmt.Errorf("failed to load match request: %w", err)
	}

	invitations, err := s.matchRepo.ListInvitationsByRequest(ctx, nil, requestID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list invitations: %w", err)
	}

	return request, invitations, nil
}

func (s *matchmakingService) UpdateStatusByPhone(ctx context.Context, requestID int, phone string, status models.InvitationStatus) (err error) {
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidInvitationStatus, status)
	}

	tx, err := s.txBeginner.Begin(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.ErrorContext(ctx, "rollback failed", slog.Any("error", rbErr))
			}
		} else {
			if cErr := tx.Commit(); cErr != nil {
				err = fmt.Errorf("failed to commit transaction: %w", cErr)
			}
		}
	}()

	if err = s.matchRepo.UpdateInvitationStatusByPhone(ctx, tx, requestID, phone, status); err != nil {
		if errors.Is(err, repositories.ErrInvitationNotFound) {
			err = ErrInvitationNotFound
			return err
		}
		err = fmt.Errorf("failed to update invitation status: %w", err)
		return err
	}

	return nil
}
