package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SourceManual = "manual"
	SourceImport = "import"
)

// Attendance is one employee's mark for one calendar day.
type Attendance struct {
	ID              uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	EmployeeID      uuid.UUID  `gorm:"type:char(36);not null;uniqueIndex:idx_attendance_employee_day" json:"employeeId"`
	Employee        *Employee  `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE" json:"employee,omitempty"`
	AttendanceDate  string     `gorm:"size:10;not null;index;uniqueIndex:idx_attendance_employee_day" json:"attendanceDate"`
	ProjectID       *uuid.UUID `gorm:"type:char(36);index" json:"projectId,omitempty"`
	Project         *Project   `gorm:"foreignKey:ProjectID;constraint:OnDelete:SET NULL" json:"project,omitempty"`
	CheckIn         *time.Time `json:"checkIn,omitempty"`
	CheckOut        *time.Time `json:"checkOut,omitempty"`
	CheckInReason   string     `gorm:"size:500" json:"checkInReason"`
	CheckOutReason  string     `gorm:"size:500" json:"checkOutReason"`
	Latitude        *float64   `json:"latitude,omitempty"`
	Longitude       *float64   `json:"longitude,omitempty"`
	Source          string     `gorm:"size:20;not null;default:manual" json:"source"`
	Exception       bool       `gorm:"column:exception_flag;index;not null;default:false" json:"exception"`
	ExceptionReason string     `gorm:"size:500" json:"exceptionReason,omitempty"`
	ResolvedAt      *time.Time `json:"resolvedAt,omitempty"`
	ResolutionNote  string     `gorm:"size:500" json:"resolutionNote,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

func (a *Attendance) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// ExceptionOpen reports a flagged mark nobody has resolved yet.
func (a Attendance) ExceptionOpen() bool {
	return a.Exception && a.ResolvedAt == nil
}
