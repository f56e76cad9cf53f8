package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StatusHistory is an append-only record of a complaint status transition.
// Rows are written as a side effect of every transition where the status
// actually changed, and are never updated or deleted.
type StatusHistory struct {
	ID          uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	ComplaintID uuid.UUID `gorm:"type:uuid;not null;index" json:"complaint_id"`
	OldStatus   string    `gorm:"size:30;not null" json:"old_status"`
	NewStatus   string    `gorm:"size:30;not null" json:"new_status"`
	ChangedBy   uuid.UUID `gorm:"type:uuid;not null" json:"changed_by"`
	ChangedAt   time.Time `json:"changed_at"`
}

func (h *StatusHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	if h.ChangedAt.IsZero() {
		h.ChangedAt = time.Now()
	}
	return nil
}

// TableName keeps the historical table name.
func (StatusHistory) TableName() string {
	return "status_history"
}
