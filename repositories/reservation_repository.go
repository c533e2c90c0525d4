package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/padelhq/club-manager/models"
)

var (
	ErrReservationNotFound        = errors.New("reservation not found")
	ErrReservationCourtInvalid    = errors.New("reservation court conflict or invalid")
	ErrReservationMemberInvalid   = errors.New("reservation member conflict or invalid")
	ErrReservationMemberDuplicate = errors.New("member already on this reservation")
	ErrReservationOverlap         = errors.New("reservation overlaps a confirmed reservation")
	ErrReservationTimeOrder       = errors.New("reservation end time must be after start time")
)

// ReservationRepository persists reservations and their member links. The
// conflict probes implement the half-open overlap predicate:
// existing.start < requested.end AND existing.end > requested.start.
type ReservationRepository interface {
	// HasConfirmedConflict reports whether the court has any Confirmed
	// reservation overlapping [start, end).
	HasConfirmedConflict(ctx context.Context, exec SQLExecutor, courtID int, start, end time.Time) (bool, error)

	// CourtIDsWithConflict returns the set of court ids holding at least
	// one Confirmed reservation overlapping [start, end).
	CourtIDsWithConflict(ctx context.Context, exec SQLExecutor, start, end time.Time) (map[int]struct{}, error)

	// Create inserts the reservation and fills ID and CreatedAt.
	Create(ctx context.Context, exec SQLExecutor, reservation *models.Reservation) error

	// AddMembers links the given member ids to the reservation, one row
	// each, in the order supplied.
	AddMembers(ctx context.Context, exec SQLExecutor, reservationID int, memberIDs []int) error

	// ListMemberIDs returns the member ids linked to a reservation,
	// ordered by member_id.
	ListMemberIDs(ctx context.Context, exec SQLExecutor, reservationID int) ([]int, error)
}

type postgresReservationRepository struct {
	db *sql.DB
}

func NewPostgresReservationRepository(db *sql.DB) ReservationRepository {
	return &postgresReservationRepository{db: db}
}

func (r *postgresReservationRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresReservationRepository) HasConfirmedConflict(ctx context.Context, exec SQLExecutor, courtID int, start, end time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM reservations
			WHERE court_id = $1
			  AND status = $2
			  AND start_time < $3
			  AND end_time > $4
		)`

	var conflict bool
	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		courtID,
		models.ReservationStatusConfirmed,
		end,
		start,
	).Scan(&conflict)
	if err != nil {
		return false, err
	}
	return conflict, nil
}

func (r *postgresReservationRepository) CourtIDsWithConflict(ctx context.Context, exec SQLExecutor, start, end time.Time) (map[int]struct{}, error) {
	query := `
		SELECT DISTINCT court_id
		FROM reservations
		WHERE status = $1
		  AND start_time < $2
		  AND end_time > $3`

	rows, err := r.getExecutor(exec).QueryContext(ctx, query,
		models.ReservationStatusConfirmed,
		end,
		start,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	busy := make(map[int]struct{})
	for rows.Next() {
		var courtID int
		if scanErr := rows.Scan(&courtID); scanErr != nil {
			return nil, scanErr
		}
		busy[courtID] = struct{}{}
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return busy, nil
}

func (r *postgresReservationRepository) Create(ctx context.Context, exec SQLExecutor, reservation *models.Reservation) error {
	query := `
		INSERT INTO reservations (court_id, start_time, end_time, status, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING reservation_id, created_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		reservation.CourtID,
		reservation.StartTime,
		reservation.EndTime,
		reservation.Status,
		reservation.Notes,
	).Scan(&reservation.ID, &reservation.CreatedAt)

	if err != nil {
		switch pqErrorCode(err) {
		case pgForeignKeyViolation:
			return ErrReservationCourtInvalid
		case pgCheckViolation:
			if pqConstraint(err) == "reservations_time_order_check" {
				return ErrReservationTimeOrder
			}
		case pgExclusionViolation:
			return ErrReservationOverlap
		}
		return err
	}

	return nil
}

func (r *postgresReservationRepository) AddMembers(ctx context.Context, exec SQLExecutor, reservationID int, memberIDs []int) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO reservation_members (reservation_id, member_id)
		VALUES ($1, $2)`

	for _, memberID := range memberIDs {
		if _, err := executor.ExecContext(ctx, query, reservationID, memberID); err != nil {
			switch pqErrorCode(err) {
			case pgForeignKeyViolation:
				return ErrReservationMemberInvalid
			case pgUniqueViolation:
				return ErrReservationMemberDuplicate
			}
			return err
		}
	}

	return nil
}

func (r *postgresReservationRepository) ListMemberIDs(ctx context.Context, exec SQLExecutor, reservationID int) ([]int, error) {
	query := `
		SELECT member_id
		FROM reservation_members
		WHERE reservation_id = $1
		ORDER BY member_id`

	rows, err := r.getExecutor(exec).QueryContext(ctx, query, reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	memberIDs := make([]int, 0)
	for rows.Next() {
		var memberID int
		if scanErr := rows.Scan(&memberID); scanErr != nil {
			return nil, scanErr
		}
		memberIDs = append(memberIDs, memberID)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return memberIDs, nil
}
