package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReservationOverlaps(t *testing.T) {
	base := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)
	reservation := &Reservation{
		StartTime: base,
		EndTime:   base.Add(time.Hour),
	}

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  bool
	}{
		{"identical slot", base, base.Add(time.Hour), true},
		{"contained slot", base.Add(15 * time.Minute), base.Add(45 * time.Minute), true},
		{"containing slot", base.Add(-time.Hour), base.Add(2 * time.Hour), true},
		{"overlaps start", base.Add(-30 * time.Minute), base.Add(30 * time.Minute), true},
		{"overlaps end", base.Add(30 * time.Minute), base.Add(90 * time.Minute), true},
		{"back-to-back before", base.Add(-time.Hour), base, false},
		{"back-to-back after", base.Add(time.Hour), base.Add(2 * time.Hour), false},
		{"well before", base.Add(-3 * time.Hour), base.Add(-2 * time.Hour), false},
		{"well after", base.Add(3 * time.Hour), base.Add(4 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reservation.Overlaps(tt.start, tt.end))
		})
	}
}
