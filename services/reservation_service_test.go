package services

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/padelhq/club-manager/models"
	"github.com/padelhq/club-manager/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// courtStore is an in-memory stand-in for the reservations schema. Per-court
// mutexes emulate the row locks FOR UPDATE takes: a transaction that locked a
// court holds its mutex until commit or rollback, so concurrent bookings on
// the same court serialize exactly like they do against the real store.
type courtStore struct {
	mu           sync.Mutex
	courts       []*models.Court
	reservations []*models.Reservation
	members      map[int][]int
	validMembers map[int]bool
	nextID       int
	courtLocks   map[int]*sync.Mutex
}

func newCourtStore(courts ...*models.Court) *courtStore {
	store := &courtStore{
		courts:       courts,
		members:      make(map[int][]int),
		validMembers: map[int]bool{1: true, 2: true, 3: true, 4: true},
		courtLocks:   make(map[int]*sync.Mutex),
	}
	for _, court := range courts {
		store.courtLocks[court.ID] = &sync.Mutex{}
	}
	return store
}

func (s *courtStore) findCourt(id int) *models.Court {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, court := range s.courts {
		if court.ID == id {
			return court
		}
	}
	return nil
}

// seedConfirmed inserts a committed confirmed reservation directly.
func (s *courtStore) seedConfirmed(courtID int, start, end time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.reservations = append(s.reservations, &models.Reservation{
		ID:        s.nextID,
		CourtID:   courtID,
		StartTime: start,
		EndTime:   end,
		Status:    models.ReservationStatusConfirmed,
	})
}

func (s *courtStore) confirmedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reservations)
}

type storeTx struct {
	repositories.SQLExecutor
	store         *courtStore
	held          []*sync.Mutex
	staged        []*models.Reservation
	stagedMembers map[int][]int
	committed     bool
	rolledBack    bool
}

func (t *storeTx) hold(mu *sync.Mutex) {
	mu.Lock()
	t.held = append(t.held, mu)
}

func (t *storeTx) release() {
	for i := len(t.held) - 1; i >= 0; i-- {
		t.held[i].Unlock()
	}
	t.held = nil
}

func (t *storeTx) Commit() error {
	t.store.mu.Lock()
	t.store.reservations = append(t.store.reservations, t.staged...)
	for reservationID, memberIDs := range t.stagedMembers {
		t.store.members[reservationID] = memberIDs
	}
	t.store.mu.Unlock()
	t.committed = true
	t.release()
	return nil
}

func (t *storeTx) Rollback() error {
	t.rolledBack = true
	t.release()
	return nil
}

type storeTxBeginner struct {
	store *courtStore

	mu  sync.Mutex
	txs []*storeTx
}

func (b *storeTxBeginner) Begin(_ context.Context, _ *sql.TxOptions) (repositories.Tx, error) {
	tx := &storeTx{store: b.store, stagedMembers: make(map[int][]int)}
	b.mu.Lock()
	b.txs = append(b.txs, tx)
	b.mu.Unlock()
	return tx, nil
}

func (b *storeTxBeginner) lastTx() *storeTx {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.txs) == 0 {
		return nil
	}
	return b.txs[len(b.txs)-1]
}

type storeCourtRepo struct {
	store *courtStore
}

func (r *storeCourtRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Court, error) {
	court := r.store.findCourt(id)
	if court == nil {
		return nil, repositories.ErrCourtNotFound
	}
	return court, nil
}

func (r *storeCourtRepo) GetByIDForUpdate(_ context.Context, exec repositories.SQLExecutor, id int) (*models.Court, error) {
	court := r.store.findCourt(id)
	if court == nil {
		return nil, repositories.ErrCourtNotFound
	}
	exec.(*storeTx).hold(r.store.courtLocks[id])
	return court, nil
}

func (r *storeCourtRepo) ListAvailableForUpdate(_ context.Context, exec repositories.SQLExecutor) ([]*models.Court, error) {
	r.store.mu.Lock()
	available := make([]*models.Court, 0, len(r.store.courts))
	for _, court := range r.store.courts {
		if court.Status == models.CourtStatusAvailable {
			available = append(available, court)
		}
	}
	r.store.mu.Unlock()

	tx := exec.(*storeTx)
	for _, court := range available {
		tx.hold(r.store.courtLocks[court.ID])
	}
	return available, nil
}

type storeReservationRepo struct {
	store *courtStore
}

func (r *storeReservationRepo) HasConfirmedConflict(_ context.Context, _ repositories.SQLExecutor, courtID int, start, end time.Time) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, reservation := range r.store.reservations {
		if reservation.CourtID == courtID &&
			reservation.Status == models.ReservationStatusConfirmed &&
			reservation.Overlaps(start, end) {
			return true, nil
		}
	}
	return false, nil
}

func (r *storeReservationRepo) CourtIDsWithConflict(_ context.Context, _ repositories.SQLExecutor, start, end time.Time) (map[int]struct{}, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	busy := make(map[int]struct{})
	for _, reservation := range r.store.reservations {
		if reservation.Status == models.ReservationStatusConfirmed && reservation.Overlaps(start, end) {
			busy[reservation.CourtID] = struct{}{}
		}
	}
	return busy, nil
}

func (r *storeReservationRepo) Create(_ context.Context, exec repositories.SQLExecutor, reservation *models.Reservation) error {
	if !reservation.EndTime.After(reservation.StartTime) {
		return repositories.ErrReservationTimeOrder
	}
	if r.store.findCourt(reservation.CourtID) == nil {
		return repositories.ErrReservationCourtInvalid
	}

	// Exclusion constraint backstop.
	conflict, _ := r.HasConfirmedConflict(nil, exec, reservation.CourtID, reservation.StartTime, reservation.EndTime)
	if conflict && reservation.Status == models.ReservationStatusConfirmed {
		return repositories.ErrReservationOverlap
	}

	r.store.mu.Lock()
	r.store.nextID++
	reservation.ID = r.store.nextID
	reservation.CreatedAt = time.Now()
	r.store.mu.Unlock()

	tx := exec.(*storeTx)
	tx.staged = append(tx.staged, reservation)
	return nil
}

func (r *storeReservationRepo) AddMembers(_ context.Context, exec repositories.SQLExecutor, reservationID int, memberIDs []int) error {
	tx := exec.(*storeTx)
	seen := make(map[int]bool)
	for _, memberID := range memberIDs {
		if !r.store.validMembers[memberID] {
			return repositories.ErrReservationMemberInvalid
		}
		if seen[memberID] {
			return repositories.ErrReservationMemberDuplicate
		}
		seen[memberID] = true
		tx.stagedMembers[reservationID] = append(tx.stagedMembers[reservationID], memberID)
	}
	return nil
}

func (r *storeReservationRepo) ListMemberIDs(_ context.Context, _ repositories.SQLExecutor, reservationID int) ([]int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.members[reservationID], nil
}

type recordingNotifier struct {
	mu        sync.Mutex
	confirmed []*models.Reservation
}

func (n *recordingNotifier) ReservationConfirmed(reservation *models.Reservation) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmed = append(n.confirmed, reservation)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.confirmed)
}

func newReservationFixture(courts ...*models.Court) (*courtStore, *storeTxBeginner, *recordingNotifier, ReservationService) {
	store := newCourtStore(courts...)
	beginner := &storeTxBeginner{store: store}
	notifier := &recordingNotifier{}
	service := NewReservationService(
		beginner,
		&storeCourtRepo{store: store},
		&storeReservationRepo{store: store},
		notifier,
		discardLogger(),
	)
	return store, beginner, notifier, service
}

func availableCourt(id int, name string) *models.Court {
	return &models.Court{ID: id, Name: name, Status: models.CourtStatusAvailable, Type: "Padel"}
}

func intPtr(i int) *int {
	return &i
}

func TestReserveCourtEmptyMemberList(t *testing.T) {
	store, beginner, _, service := newReservationFixture(availableCourt(1, "Court 1"))
	start := time.Date(2026, time.May, 9, 10, 0, 0, 0, time.UTC)

	// A reservation without players is legal; the slot is simply held with
	// no member links.
	result, err := service.ReserveCourt(context.Background(), start, start.Add(time.Hour), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.CourtID)

	assert.True(t, beginner.lastTx().committed)
	assert.Equal(t, 1, store.confirmedCount())

	memberIDs, err := service.ReservationMembers(context.Background(), result.ReservationID)
	require.NoError(t, err)
	assert.Empty(t, memberIDs)
}

func TestReserveCourtExplicit(t *testing.T) {
	start := time.Date(2026, time.May, 9, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	t.Run("free court is booked with its members", func(t *testing.T) {
		store, beginner, notifier, service := newReservationFixture(availableCourt(1, "Court 1"))

		result, err := service.ReserveCourt(context.Background(), start, end, []int{1, 2}, intPtr(1))
		require.NoError(t, err)
		assert.Equal(t, 1, result.CourtID)
		assert.Equal(t, 1, result.ReservationID)

		assert.True(t, beginner.lastTx().committed)
		assert.Equal(t, 1, store.confirmedCount())
		assert.Equal(t, []int{1, 2}, store.members[result.ReservationID])
		assert.Equal(t, 1, notifier.count())
	})

	t.Run("unknown court", func(t *testing.T) {
		store, beginner, notifier, service := newReservationFixture(availableCourt(1, "Court 1"))

		_, err := service.ReserveCourt(context.Background(), start, end, []int{1}, intPtr(99))
		assert.ErrorIs(t, err, ErrCourtNotFound)
		assert.True(t, beginner.lastTx().rolledBack)
		assert.Equal(t, 0, store.confirmedCount())
		assert.Equal(t, 0, notifier.count())
	})

	t.Run("overlapping confirmed reservation", func(t *testing.T) {
		store, beginner, notifier, service := newReservationFixture(availableCourt(1, "Court 1"))
		store.seedConfirmed(1, start.Add(-30*time.Minute), start.Add(30*time.Minute))

		_, err := service.ReserveCourt(context.Background(), start, end, []int{1}, intPtr(1))
		assert.ErrorIs(t, err, ErrCourtUnavailable)
		assert.True(t, beginner.lastTx().rolledBack)
		assert.Equal(t, 1, store.confirmedCount())
		assert.Equal(t, 0, notifier.count())
	})

	t.Run("back-to-back slot is allowed", func(t *testing.T) {
		store, _, _, service := newReservationFixture(availableCourt(1, "Court 1"))
		store.seedConfirmed(1, start.Add(-time.Hour), start)

		result, err := service.ReserveCourt(context.Background(), start, end, []int{1}, intPtr(1))
		require.NoError(t, err)
		assert.Equal(t, 1, result.CourtID)
		assert.Equal(t, 2, store.confirmedCount())
	})

	t.Run("end before start", func(t *testing.T) {
		store, _, _, service := newReservationFixture(availableCourt(1, "Court 1"))

		_, err := service.ReserveCourt(context.Background(), end, start, []int{1}, intPtr(1))
		assert.ErrorIs(t, err, ErrTimeOrderInvalid)
		assert.Equal(t, 0, store.confirmedCount())
	})
}

func TestReserveCourtAutoSelection(t *testing.T) {
	start := time.Date(2026, time.May, 9, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	t.Run("picks the first free court by id", func(t *testing.T) {
		store, _, _, service := newReservationFixture(
			availableCourt(1, "Court 1"),
			availableCourt(2, "Court 2"),
			availableCourt(3, "Court 3"),
		)
		store.seedConfirmed(1, start, end)

		result, err := service.ReserveCourt(context.Background(), start, end, []int{1}, nil)
		require.NoError(t, err)
		assert.Equal(t, 2, result.CourtID)
	})

	t.Run("skips courts under maintenance", func(t *testing.T) {
		closed := &models.Court{ID: 1, Name: "Court 1", Status: models.CourtStatusMaintenance, Type: "Padel"}
		_, _, _, service := newReservationFixture(closed, availableCourt(2, "Court 2"))

		result, err := service.ReserveCourt(context.Background(), start, end, []int{1}, nil)
		require.NoError(t, err)
		assert.Equal(t, 2, result.CourtID)
	})

	t.Run("all courts busy", func(t *testing.T) {
		store, beginner, _, service := newReservationFixture(
			availableCourt(1, "Court 1"),
			availableCourt(2, "Court 2"),
		)
		store.seedConfirmed(1, start, end)
		store.seedConfirmed(2, start, end)

		_, err := service.ReserveCourt(context.Background(), start, end, []int{1}, nil)
		assert.ErrorIs(t, err, ErrNoAvailableCourts)
		assert.True(t, beginner.lastTx().rolledBack)
	})

	t.Run("no courts at all", func(t *testing.T) {
		_, _, _, service := newReservationFixture()

		_, err := service.ReserveCourt(context.Background(), start, end, []int{1}, nil)
		assert.ErrorIs(t, err, ErrNoAvailableCourts)
	})
}

func TestReserveCourtMemberFaults(t *testing.T) {
	start := time.Date(2026, time.May, 9, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	t.Run("duplicate member ids", func(t *testing.T) {
		store, beginner, _, service := newReservationFixture(availableCourt(1, "Court 1"))

		_, err := service.ReserveCourt(context.Background(), start, end, []int{1, 1}, intPtr(1))
		assert.ErrorIs(t, err, ErrDuplicateMember)
		assert.True(t, beginner.lastTx().rolledBack)
		assert.Equal(t, 0, store.confirmedCount())
	})

	t.Run("unknown member id", func(t *testing.T) {
		store, _, _, service := newReservationFixture(availableCourt(1, "Court 1"))

		_, err := service.ReserveCourt(context.Background(), start, end, []int{1, 99}, intPtr(1))
		assert.ErrorIs(t, err, ErrMemberInvalid)
		assert.Equal(t, 0, store.confirmedCount())
	})
}

func TestCourtAvailability(t *testing.T) {
	start := time.Date(2026, time.May, 9, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	t.Run("free court", func(t *testing.T) {
		_, _, _, service := newReservationFixture(availableCourt(1, "Court 1"))

		available, err := service.CourtAvailability(context.Background(), 1, start, end)
		require.NoError(t, err)
		assert.True(t, available)
	})

	t.Run("conflicting confirmed reservation", func(t *testing.T) {
		store, _, _, service := newReservationFixture(availableCourt(1, "Court 1"))
		store.seedConfirmed(1, start, end)

		available, err := service.CourtAvailability(context.Background(), 1, start, end)
		require.NoError(t, err)
		assert.False(t, available)
	})

	t.Run("court under maintenance", func(t *testing.T) {
		closed := &models.Court{ID: 1, Name: "Court 1", Status: models.CourtStatusMaintenance, Type: "Padel"}
		_, _, _, service := newReservationFixture(closed)

		available, err := service.CourtAvailability(context.Background(), 1, start, end)
		require.NoError(t, err)
		assert.False(t, available)
	})

	t.Run("unknown court", func(t *testing.T) {
		_, _, _, service := newReservationFixture(availableCourt(1, "Court 1"))

		_, err := service.CourtAvailability(context.Background(), 99, start, end)
		assert.ErrorIs(t, err, ErrCourtNotFound)
	})
}

func TestReservationMembers(t *testing.T) {
	store, _, _, service := newReservationFixture(availableCourt(1, "Court 1"))
	start := time.Date(2026, time.May, 9, 10, 0, 0, 0, time.UTC)

	result, err := service.ReserveCourt(context.Background(), start, start.Add(time.Hour), []int{2, 3}, intPtr(1))
	require.NoError(t, err)
	assert.Equal(t, 1, store.confirmedCount())

	memberIDs, err := service.ReservationMembers(context.Background(), result.ReservationID)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, memberIDs)
}

// Concurrent attempts on the same court and slot must produce exactly one
// confirmed reservation; every loser gets the normal unavailability result.
func TestReserveCourtConcurrentAttempts(t *testing.T) {
	const attempts = 8

	store, _, notifier, service := newReservationFixture(availableCourt(1, "Court 1"))
	start := time.Date(2026, time.May, 9, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	var (
		mu        sync.Mutex
		successes int
		conflicts int
	)

	var g errgroup.Group
	for i := 0; i < attempts; i++ {
		memberID := 1 + i%4
		g.Go(func() error {
			_, err := service.ReserveCourt(context.Background(), start, end, []int{memberID}, intPtr(1))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrCourtUnavailable):
				conflicts++
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)
	assert.Equal(t, 1, store.confirmedCount())
	assert.Equal(t, 1, notifier.count())
}
