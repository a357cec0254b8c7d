package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"workforce-attendance/internal/attendance"
	"workforce-attendance/internal/models"
)

type DashboardHandler struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{DB: db, Now: time.Now}
}

func (h *DashboardHandler) Get(c *gin.Context) {
	day := attendance.DateKey(h.Now())

	var employeeCount int64
	_ = h.DB.Model(&models.Employee{}).Where("employment_status = ?", models.EmploymentActive).Count(&employeeCount).Error

	var projectCount int64
	_ = h.DB.Model(&models.Project{}).Where("active = ?", true).Count(&projectCount).Error

	var checkedIn int64
	_ = h.DB.Model(&models.Attendance{}).Where("attendance_date = ? AND check_in IS NOT NULL", day).Count(&checkedIn).Error

	var checkedOut int64
	_ = h.DB.Model(&models.Attendance{}).Where("attendance_date = ? AND check_out IS NOT NULL", day).Count(&checkedOut).Error

	var openExceptions int64
	_ = h.DB.Model(&models.Attendance{}).Where("exception_flag = ? AND resolved_at IS NULL", true).Count(&openExceptions).Error

	notCheckedIn := employeeCount - checkedIn
	if notCheckedIn < 0 {
		notCheckedIn = 0
	}

	c.JSON(http.StatusOK, gin.H{
		"date":           day,
		"employees":      employeeCount,
		"projects":       projectCount,
		"checkedIn":      checkedIn,
		"checkedOut":     checkedOut,
		"notCheckedIn":   notCheckedIn,
		"openExceptions": openExceptions,
	})
}
