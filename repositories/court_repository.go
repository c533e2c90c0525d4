package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/padelhq/club-manager/models"
)

var ErrCourtNotFound = errors.New("court not found")

// CourtRepository reads courts and takes the row-level locks the
// reservation engine relies on to serialize concurrent bookings.
type CourtRepository interface {
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Court, error)

	// GetByIDForUpdate locks the court row until the surrounding
	// transaction ends. Must be called inside a transaction.
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Court, error)

	// ListAvailableForUpdate locks every Available court row, ordered by
	// court_id, until the surrounding transaction ends.
	ListAvailableForUpdate(ctx context.Context, exec SQLExecutor) ([]*models.Court, error)
}

type postgresCourtRepository struct {
	db *sql.DB
}

func NewPostgresCourtRepository(db *sql.DB) CourtRepository {
	return &postgresCourtRepository{db: db}
}

func (r *postgresCourtRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresCourtRepository) getByID(ctx context.Context, exec SQLExecutor, id int, forUpdate bool) (*models.Court, error) {
	query := `
		SELECT court_id, name, status, type
		FROM courts
		WHERE court_id = $1`
	if forUpdate {
		query += `
		FOR UPDATE`
	}

	court := &models.Court{}
	err := r.getExecutor(exec).QueryRowContext(ctx, query, id).Scan(
		&court.ID,
		&court.Name,
		&court.Status,
		&court.Type,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCourtNotFound
		}
		return nil, err
	}
	return court, nil
}

func (r *postgresCourtRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Court, error) {
	return r.getByID(ctx, exec, id, false)
}

func (r *postgresCourtRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Court, error) {
	return r.getByID(ctx, exec, id, true)
}

func (r *postgresCourtRepository) ListAvailableForUpdate(ctx context.Context, exec SQLExecutor) ([]*models.Court, error) {
	query := `
		SELECT court_id, name, status, type
		FROM courts
		WHERE status = $1
		ORDER BY court_id
		FOR UPDATE`

	rows, err := r.getExecutor(exec).QueryContext(ctx, query, models.CourtStatusAvailable)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courts := make([]*models.Court, 0)
	for rows.Next() {
		court := &models.Court{}
		if scanErr := rows.Scan(&court.ID, &court.Name, &court.Status, &court.Type); scanErr != nil {
			return nil, scanErr
		}
		courts = append(courts, court)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return courts, nil
}
