package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Location struct {
	ID        uuid.UUID                      `gorm:"type:char(36);primaryKey" json:"id"`
	Name      string                         `gorm:"size:255;not null" json:"name"`
	Address   string                         `gorm:"size:500" json:"address"`
	Geofence  datatypes.JSONType[[]GeoPoint] `json:"geofence"`
	CreatedAt time.Time                      `json:"createdAt"`
	UpdatedAt time.Time                      `json:"updatedAt"`
}

func (l *Location) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

type Project struct {
	ID         uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	Code       string     `gorm:"uniqueIndex;size:64;not null" json:"code"`
	Name       string     `gorm:"size:255;not null" json:"name"`
	Entity     string     `gorm:"size:255;index" json:"entity"`
	LocationID *uuid.UUID `gorm:"type:char(36);index" json:"locationId,omitempty"`
	Location   *Location  `gorm:"foreignKey:LocationID;constraint:OnDelete:SET NULL" json:"location,omitempty"`
	Active     bool       `gorm:"not null;default:true" json:"active"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
