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

// ReservationResult reports a committed reservation and the court it
// landed on.
type ReservationResult struct {
	ReservationID int `json:"reservation_id"`
	CourtID       int `json:"court_id"`
}

// ReservationNotifier receives committed reservations, e.g. to push them to
// a live availability feed. Notification happens after commit only.
type ReservationNotifier interface {
	ReservationConfirmed(reservation *models.Reservation)
}

// ReservationService decides whether a slot can be granted, on which court,
// and commits the reservation with its member list atomically.
//
// Concurrent attempts on the same court serialize on the court row lock
// taken before the conflict check; the store's exclusion constraint on
// (court, interval) backstops anything that slips through.
type ReservationService interface {
	// ReserveCourt books [start, end) for the given members. When courtID
	// is nil, the first Available court without a conflicting confirmed
	// reservation (ordered by court id) is selected. An empty member list
	// books the slot with no member links.
	ReserveCourt(ctx context.Context, start, end time.Time, memberIDs []int, courtID *int) (*ReservationResult, error)

	// CourtAvailability reports whether the court could take [start, end)
	// right now. Read-only and lock-free, so the answer can go stale;
	// ReserveCourt re-checks under lock before committing.
	CourtAvailability(ctx context.Context, courtID int, start, end time.Time) (bool, error)

	// ReservationMembers returns the member ids linked to a reservation,
	// ordered by member id.
	ReservationMembers(ctx context.Context, reservationID int) ([]int, error)
}

type reservationService struct {
	txBeginner      repositories.TxBeginner
	courtRepo       repositories.CourtRepository
	reservationRepo repositories.ReservationRepository
	notifier        ReservationNotifier
	logger          *slog.Logger
}

func NewReservationService(
	txBeginner repositories.TxBeginner,
	courtRepo repositories.CourtRepository,
	reservationRepo repositories.ReservationRepository,
	notifier ReservationNotifier,
	logger *slog.Logger,
) ReservationService {
	return &reservationService{
		txBeginner:      txBeginner,
		courtRepo:       courtRepo,
		reservationRepo: reservationRepo,
		notifier:        notifier,
		logger:          logger,
	}
}

func (s *reservationService) ReserveCourt(ctx context.Context, start, end time.Time, memberIDs []int, courtID *int) (result *ReservationResult, err error) {
	tx, err := s.txBeginner.Begin(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	var confirmed *models.Reservation
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
				result = nil
				err = fmt.Errorf("failed to commit transaction: %w", cErr)
				return
			}
			// Push to the live feed only once the reservation is durable.
			if s.notifier != nil && confirmed != nil {
				s.notifier.ReservationConfirmed(confirmed)
			}
		}
	}()

	var targetCourt int
	if courtID != nil {
		targetCourt, err = s.checkRequestedCourt(ctx, tx, *courtID, start, end)
	} else {
		targetCourt, err = s.selectFreeCourt(ctx, tx, start, end)
	}
	if err != nil {
		return nil, err
	}

	reservation := &models.Reservation{
		CourtID:   targetCourt,
		StartTime: start,
		EndTime:   end,
		Status:    models.ReservationStatusConfirmed,
	}
	if err = s.reservationRepo.Create(ctx, tx, reservation); err != nil {
		switch {
		case errors.Is(err, repositories.ErrReservationOverlap):
			// The exclusion constraint fired: someone else confirmed an
			// overlapping slot. A full court, not a fault.
			err = ErrCourtUnavailable
		case errors.Is(err, repositories.ErrReservationCourtInvalid):
			err = ErrCourtNotFound
		case errors.Is(err, repositories.ErrReservationTimeOrder):
			err = ErrTimeOrderInvalid
		default:
			err = fmt.Errorf("failed to create reservation: %w", err)
		}
		return nil, err
	}

	if err = s.reservationRepo.AddMembers(ctx, tx, reservation.ID, memberIDs); err != nil {
		switch {
		case errors.Is(err, repositories.ErrReservationMemberInvalid):
			err = ErrMemberInvalid
		case errors.Is(err, repositories.ErrReservationMemberDuplicate):
			err = ErrDuplicateMember
		default:
			err = fmt.Errorf("failed to add reservation members: %w", err)
		}
		return nil, err
	}

	s.logger.InfoContext(ctx, "reservation confirmed",
		slog.Int("reservation_id", reservation.ID),
		slog.Int("court_id", targetCourt),
		slog.Time("start", start),
		slog.Time("end", end),
		slog.Int("members", len(memberIDs)),
	)

	result = &ReservationResult{ReservationID: reservation.ID, CourtID: targetCourt}
	confirmed = reservation

	return result, nil
}

func (s *reservationService) CourtAvailability(ctx context.Context, courtID int, start, end time.Time) (bool, error) {
	court, err := s.courtRepo.GetByID(ctx, nil, courtID)
	if err != nil {
		if errors.Is(err, repositories.ErrCourtNotFound) {
			return false, ErrCourtNotFound
		}
		return false, fmt.Errorf("failed to load court %d: %w", courtID, err)
	}
	if court.Status != models.CourtStatusAvailable {
		return false, nil
	}

	conflict, err := s.reservationRepo.HasConfirmedConflict(ctx, nil, courtID, start, end)
	if err != nil {
		return false, fmt.Errorf("failed to check court %d availability: %w", courtID, err)
	}
	return !conflict, nil
}

func (s *reservationService) ReservationMembers(ctx context.Context, reservationID int) ([]int, error) {
	memberIDs, err := s.reservationRepo.ListMemberIDs(ctx, nil, reservationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservation members: %w", err)
	}
	return memberIDs, nil
}

// checkRequestedCourt locks the requested court row, then tests it against
// the conflict predicate over its confirmed reservations.
func (s *reservationService) checkRequestedCourt(ctx context.Context, tx repositories.Tx, courtID int, start, end time.Time) (int, error) {
	if _, err := s.courtRepo.GetByIDForUpdate(ctx, tx, courtID); err != nil {
		if errors.Is(err, repositories.ErrCourtNotFound) {
			return 0, ErrCourtNotFound
		}
		return 0, fmt.Errorf("failed to lock court %d: %w", courtID, err)
	}

	conflict, err := s.reservationRepo.HasConfirmedConflict(ctx, tx, courtID, start, end)
	if err != nil {
		return 0, fmt.Errorf("failed to check court %d availability: %w", courtID, err)
	}
	if conflict {
		return 0, ErrCourtUnavailable
	}

	return courtID, nil
}

// selectFreeCourt locks all Available courts, then picks the first one
// (by court id) without a conflicting confirmed reservation.
func (s *reservationService) selectFreeCourt(ctx context.Context, tx repositories.Tx, start, end time.Time) (int, error) {
	courts, err := s.courtRepo.ListAvailableForUpdate(ctx, tx)
	if err != nil {
		return 0, fmt.Errorf("failed to lock available courts: %w", err)
	}
	if len(courts) == 0 {
		return 0, ErrNoAvailableCourts
	}

	busy, err := s.reservationRepo.CourtIDsWithConflict(ctx, tx, start, end)
	if err != nil {
		return 0, fmt.Errorf("failed to list conflicting courts: %w", err)
	}

	for _, court := range courts {
		if _, taken := busy[court.ID]; !taken {
			return court.ID, nil
		}
	}

	return 0, ErrNoAvailableCourts
}
