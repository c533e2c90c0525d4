package models

type CourtStatus string

const (
	CourtStatusAvailable   CourtStatus = "Available"
	CourtStatusMaintenance CourtStatus = "Maintenance"
	CourtStatusClosed      CourtStatus = "Closed"
)

type Court struct {
	ID     int         `json:"id"`
	Name   string      `json:"name"`
	Status CourtStatus `json:"status"`
	Type   string      `json:"type"`
}
