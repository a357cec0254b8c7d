package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoleMapping ties a free-text category label to a classification.
type RoleMapping struct {
	ID             uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	Category       string    `gorm:"uniqueIndex;size:120;not null" json:"category"`
	Classification string    `gorm:"size:20;not null" json:"classification"`
	Description    string    `gorm:"size:500" json:"description"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (r *RoleMapping) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
