package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ClassificationLaborer = "Laborer"
	ClassificationStaff   = "Staff"

	EmploymentActive   = "Active"
	EmploymentInactive = "Inactive"
)

type Employee struct {
	ID               uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	EmployeeCode     string     `gorm:"uniqueIndex;size:64;not null" json:"employeeId"`
	FirstName        string     `gorm:"size:120;not null" json:"firstName"`
	LastName         string     `gorm:"size:120" json:"lastName"`
	Classification   string     `gorm:"size:20;index;not null" json:"classification"`
	Category         string     `gorm:"size:120;index" json:"category"`
	Entity           string     `gorm:"size:255;index" json:"entity"`
	EmploymentStatus string     `gorm:"size:20;index;not null;default:Active" json:"employmentStatus"`
	ProjectID        *uuid.UUID `gorm:"type:char(36);index" json:"projectId,omitempty"`
	LocationID       *uuid.UUID `gorm:"type:char(36);index" json:"locationId,omitempty"`
	Project          *Project   `gorm:"foreignKey:ProjectID;constraint:OnDelete:SET NULL" json:"project,omitempty"`
	Location         *Location  `gorm:"foreignKey:LocationID;constraint:OnDelete:SET NULL" json:"location,omitempty"`
	Phone            string     `gorm:"size:50" json:"phone"`
	HiredAt          *time.Time `json:"hiredAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}
