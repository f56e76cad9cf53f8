package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Complaint statuses. The status column never holds any other value.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
)

// Complaint priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Complaint is a student-submitted grievance with a lifecycle status.
// The owner (StudentID) is immutable after creation. ResolvedAt is non-nil
// exactly while the complaint is resolved. Feedback is written at most once,
// by the owner, while resolved.
type Complaint struct {
	ID          uuid.UUID  `gorm:"type:uuid;primarykey" json:"id"`
	StudentID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"student_id"`
	Student     *User      `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `gorm:"type:text;not null" json:"description"`
	Category    string     `gorm:"size:50;not null" json:"category"`
	Priority    string     `gorm:"size:20;not null;default:'medium'" json:"priority"`
	Status      string     `gorm:"size:30;not null;default:'pending';index" json:"status"`
	Feedback    *string    `gorm:"type:text" json:"feedback"`
	ResolvedAt  *time.Time `json:"resolved_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (c *Complaint) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// ValidStatus reports whether s is one of the three lifecycle statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

// ValidPriority reports whether p is a known priority.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}
