package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is admin-managed reference data read at complaint submission time.
type Category struct {
	ID            uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	Name          string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description   string    `gorm:"type:text" json:"description"`
	Department    string    `gorm:"size:50" json:"department"`
	PriorityLevel string    `gorm:"size:20" json:"priority_level"`
	Active        bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
