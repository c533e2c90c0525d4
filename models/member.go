package models

import "time"

type MemberStatus string

const (
	MemberStatusPending   MemberStatus = "Pending"
	MemberStatusActive    MemberStatus = "Active"
	MemberStatusSuspended MemberStatus = "Suspended"
)

type Member struct {
	ID         int          `json:"id"`
	FullName   string       `json:"full_name"`
	Email      string       `json:"email"`
	Phone      *string      `json:"phone,omitempty"`
	SkillLevel *string      `json:"skill_level,omitempty"`
	Status     MemberStatus `json:"status"`
	Membership string       `json:"membership"`
	JoinDate   time.Time    `json:"join_date"`
	CreatedAt  time.Time    `json:"created_at"`
}
