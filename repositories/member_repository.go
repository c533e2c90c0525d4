package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/padelhq/club-manager/models"
)

var ErrMemberNotFound = errors.New("member not found")

// PhoneMatch pairs a resolved member id with the phone that matched it.
type PhoneMatch struct {
	MemberID int
	Phone    string
}

// MemberRepository reads club members. Members are created and managed
// outside this service; only lookups are exposed here.
type MemberRepository interface {
	// FindByPhone returns the first member with the given phone number,
	// ordered by member_id so ties resolve deterministically.
	FindByPhone(ctx context.Context, exec SQLExecutor, phone string) (*models.Member, error)

	// FindCandidates returns up to limit active members sharing the skill
	// level, excluding one member id, ordered by member_id.
	FindCandidates(ctx context.Context, exec SQLExecutor, skillLevel string, excludeID, limit int) ([]*models.Member, error)

	// ResolvePhones matches a batch of phone numbers to member ids in a
	// single query. Phones with no matching member are absent from the
	// result.
	ResolvePhones(ctx context.Context, exec SQLExecutor, phones []string) ([]PhoneMatch, error)
}

type postgresMemberRepository struct {
	db *sql.DB
}

func NewPostgresMemberRepository(db *sql.DB) MemberRepository {
	return &postgresMemberRepository{db: db}
}

func (r *postgresMemberRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const memberColumns = `member_id, full_name, email, phone, skill_level, status, membership, join_date, created_at`

func scanMember(row interface{ Scan(dest ...interface{}) error }) (*models.Member, error) {
	member := &models.Member{}
	err := row.Scan(
		&member.ID,
		&member.FullName,
		&member.Email,
		&member.Phone,
		&member.SkillLevel,
		&member.Status,
		&member.Membership,
		&member.JoinDate,
		&member.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return member, nil
}

func (r *postgresMemberRepository) FindByPhone(ctx context.Context, exec SQLExecutor, phone string) (*models.Member, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT ` + memberColumns + `
		FROM members
		WHERE phone = $1
		ORDER BY member_id
		LIMIT 1`

	member, err := scanMember(executor.QueryRowContext(ctx, query, phone))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return member, nil
}

func (r *postgresMemberRepository) FindCandidates(ctx context.Context, exec SQLExecutor, skillLevel string, excludeID, limit int) ([]*models.Member, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT ` + memberColumns + `
		FROM members
		WHERE skill_level = $1
		  AND member_id <> $2
		  AND status = $3
		ORDER BY member_id
		LIMIT $4`

	rows, err := executor.QueryContext(ctx, query, skillLevel, excludeID, models.MemberStatusActive, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]*models.Member, 0, limit)
	for rows.Next() {
		member, scanErr := scanMember(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		members = append(members, member)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return members, nil
}

func (r *postgresMemberRepository) ResolvePhones(ctx context.Context, exec SQLExecutor, phones []string) ([]PhoneMatch, error) {
	if len(phones) == 0 {
		return []PhoneMatch{}, nil
	}

	executor := r.getExecutor(exec)
	query := `
		SELECT member_id, phone
		FROM members
		WHERE phone = ANY($1)
		ORDER BY member_id`

	rows, err := executor.QueryContext(ctx, query, pq.Array(phones))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]PhoneMatch, 0, len(phones))
	for rows.Next() {
		var match PhoneMatch
		if scanErr := rows.Scan(&match.MemberID, &match.Phone); scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, match)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return matches, nil
}
