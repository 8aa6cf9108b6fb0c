package storage

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"quizblog/gateway/internal/models"
)

var ErrContactNotFound = errors.New("storage: contact not found")

// ContactArchive upserts one row per ticket as it moves through its
// lifecycle. It is a broker sink; other topics are ignored.
type ContactArchive struct {
	DB *gorm.DB
}

func NewContactArchive(db *gorm.DB) *ContactArchive {
	return &ContactArchive{DB: db}
}

func (a *ContactArchive) Name() string { return "postgres" }

func (a *ContactArchive) Publish(ctx context.Context, event models.DomainEvent) error {
	rec, ok := recordFromEvent(event)
	if !ok {
		return nil
	}
	return a.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "contact_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"status", "assigned_admin_id", "assigned_admin_name", "claimed_at",
			"resolved_at", "resolved_by", "response_minutes", "updated_at",
		}),
	}).Create(&rec).Error
}

// ListContacts returns the newest tickets first, optionally filtered by status.
func (a *ContactArchive) ListContacts(ctx context.Context, status string, limit int) ([]models.ContactRecord, error) {
	q := a.DB.WithContext(ctx).Order("submitted_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []models.ContactRecord
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (a *ContactArchive) GetContact(ctx context.Context, id string) (*models.ContactRecord, error) {
	var rec models.ContactRecord
	err := a.DB.WithContext(ctx).Where("contact_id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrContactNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func recordFromEvent(event models.DomainEvent) (models.ContactRecord, bool) {
	if !strings.HasPrefix(event.Topic, "contact.") {
		return models.ContactRecord{}, false
	}
	payload, ok := event.Payload.(models.ContactEvent)
	if !ok {
		return models.ContactRecord{}, false
	}

	c := payload.Contact
	rec := models.ContactRecord{
		ContactID:       c.ID,
		Name:            c.Name,
		Email:           c.Email,
		Subject:         c.Subject,
		Message:         c.Message,
		Status:          string(c.Status),
		NotifiedAdmins:  payload.NotifiedAdmins,
		SubmittedAt:     c.SubmittedAt,
		ResolvedAt:      c.ResolvedAt,
		ResolvedBy:      c.ResolvedBy,
		ResponseMinutes: payload.ResponseMinutes,
		UpdatedAt:       event.OccurredAt,
	}
	if c.Assigned != nil {
		claimed := c.Assigned.ClaimedAt
		rec.AssignedAdminID = c.Assigned.UserID
		rec.AssignedAdminName = c.Assigned.Name
		rec.ClaimedAt = &claimed
	}
	return rec, true
}
