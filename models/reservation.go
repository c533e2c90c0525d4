package models

import "time"

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "Pending"
	ReservationStatusConfirmed ReservationStatus = "Confirmed"
	ReservationStatusCancelled ReservationStatus = "Cancelled"
)

type Reservation struct {
	ID        int               `json:"id"`
	CourtID   int               `json:"court_id"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time"`
	Status    ReservationStatus `json:"status"`
	Notes     *string           `json:"notes,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// Overlaps reports whether the reservation's [start, end) interval intersects
// the given one. Back-to-back slots (end == start) do not overlap.
func (r *Reservation) Overlaps(start, end time.Time) bool {
	return r.StartTime.Before(end) && r.EndTime.After(start)
}

// ReservationMember links a playing member to a reservation.
// The (reservation_id, member_id) pair is the composite primary key.
type ReservationMember struct {
	ReservationID int `json:"reservation_id"`
	MemberID      int `json:"member_id"`
}
