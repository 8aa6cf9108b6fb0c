package models

import (
	"time"

	"github.com/lib/pq"
)

// ContactRecord is the Postgres audit row for a support ticket. The gateway
// only writes it; live tickets are never restored from it.
type ContactRecord struct {
	// ContactID is the ticket id (UUID) generated on submission.
	ContactID string `gorm:"primaryKey"`
	Name      string
	Email     string `gorm:"index"`
	Subject   string
	Message   string `gorm:"type:text"`
	Status    string `gorm:"index"`
	// AssignedAdminID is empty until the ticket is claimed.
	AssignedAdminID   string
	AssignedAdminName string
	ClaimedAt         *time.Time
	// NotifiedAdmins lists the staff user ids that were online when it arrived.
	NotifiedAdmins pq.StringArray `gorm:"type:text[]"`
	SubmittedAt    time.Time      `gorm:"index"`
	ResolvedAt     *time.Time
	ResolvedBy     string
	// ResponseMinutes is filled on resolution.
	ResponseMinutes int64
	UpdatedAt       time.Time
}
