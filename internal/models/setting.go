package models

import "time"

const (
	SettingMaxShiftHours    = "max_shift_hours"
	SettingGeofenceEnforced = "geofence_enforced"
	SettingExceptionReason  = "exception_reason"
)

type Setting struct {
	Key       string    `gorm:"size:64;primaryKey" json:"key"`
	Value     string    `gorm:"size:2000" json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}
