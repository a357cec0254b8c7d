package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"workforce-attendance/internal/config"
	"workforce-attendance/internal/models"
)

type SettingsHandler struct {
	DB  *gorm.DB
	Cfg config.Config
}

// AttendanceSettings are the runtime knobs stored in the settings table,
// falling back to the environment when a key was never saved.
type AttendanceSettings struct {
	MaxShiftHours    int    `json:"maxShiftHours"`
	GeofenceEnforced bool   `json:"geofenceEnforced"`
	ExceptionReason  string `json:"exceptionReason"`
}

type updateAttendanceSettingsRequest struct {
	MaxShiftHours    *int    `json:"maxShiftHours" binding:"omitempty,min=1,max=24"`
	GeofenceEnforced *bool   `json:"geofenceEnforced"`
	ExceptionReason  *string `json:"exceptionReason" binding:"omitempty,max=255"`
}

func NewSettingsHandler(db *gorm.DB, cfg config.Config) *SettingsHandler {
	return &SettingsHandler{DB: db, Cfg: cfg}
}

func (s AttendanceSettings) MaxShift() time.Duration {
	return time.Duration(s.MaxShiftHours) * time.Hour
}

func LoadAttendanceSettings(db *gorm.DB, cfg config.Config) (AttendanceSettings, error) {
	out := AttendanceSettings{
		MaxShiftHours:    cfg.MaxShiftHours,
		GeofenceEnforced: cfg.GeofenceEnforced,
		ExceptionReason:  cfg.ExceptionReason,
	}

	keys := []string{models.SettingMaxShiftHours, models.SettingGeofenceEnforced, models.SettingExceptionReason}
	var settings []models.Setting
	if err := db.Where(map[string]any{"key": keys}).Find(&settings).Error; err != nil {
		return out, err
	}

	for _, setting := range settings {
		value := strings.TrimSpace(setting.Value)
		switch setting.Key {
		case models.SettingMaxShiftHours:
			if hours, err := strconv.Atoi(value); err == nil && hours > 0 {
				out.MaxShiftHours = hours
			}
		case models.SettingGeofenceEnforced:
			if enforced, err := strconv.ParseBool(value); err == nil {
				out.GeofenceEnforced = enforced
			}
		case models.SettingExceptionReason:
			if value != "" {
				out.ExceptionReason = value
			}
		}
	}
	return out, nil
}

func (h *SettingsHandler) GetAttendance(c *gin.Context) {
	settings, err := LoadAttendanceSettings(h.DB, h.Cfg)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load settings"})
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *SettingsHandler) UpdateAttendance(c *gin.Context) {
	var req updateAttendanceSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	var updates []models.Setting
	if req.MaxShiftHours != nil {
		updates = append(updates, models.Setting{Key: models.SettingMaxShiftHours, Value: strconv.Itoa(*req.MaxShiftHours)})
	}
	if req.GeofenceEnforced != nil {
		updates = append(updates, models.Setting{Key: models.SettingGeofenceEnforced, Value: strconv.FormatBool(*req.GeofenceEnforced)})
	}
	if req.ExceptionReason != nil {
		reason := strings.TrimSpace(*req.ExceptionReason)
		if reason == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "exceptionReason cannot be empty"})
			return
		}
		updates = append(updates, models.Setting{Key: models.SettingExceptionReason, Value: reason})
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}

	if err := h.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}

	h.GetAttendance(c)
}
