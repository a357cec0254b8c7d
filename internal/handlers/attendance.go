package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"workforce-attendance/internal/attendance"
	"workforce-attendance/internal/config"
	"workforce-attendance/internal/geofence"
	"workforce-attendance/internal/jobs"
	"workforce-attendance/internal/middleware"
	"workforce-attendance/internal/models"
)

type AttendanceHandler struct {
	DB  *gorm.DB
	Cfg config.Config
	Now func() time.Time
}

type checkInRequest struct {
	EmployeeID  string   `json:"employeeId" binding:"required"`
	Date        string   `json:"date"`
	CheckInTime string   `json:"checkInTime"`
	ProjectID   string   `json:"projectId"`
	Reason      string   `json:"reason"`
	Latitude    *float64 `json:"latitude" binding:"omitempty,latitude"`
	Longitude   *float64 `json:"longitude" binding:"omitempty,longitude"`
}

type checkOutRequest struct {
	EmployeeID   string `json:"employeeId" binding:"required"`
	Date         string `json:"date"`
	CheckOutTime string `json:"checkOutTime"`
	ProjectID    string `json:"projectId"`
	Reason       string `json:"reason"`
}

type resolveRequest struct {
	CheckOutTime string `json:"checkOutTime"`
	Note         string `json:"note" binding:"required,max=500"`
}

func NewAttendanceHandler(db *gorm.DB, cfg config.Config) *AttendanceHandler {
	return &AttendanceHandler{DB: db, Cfg: cfg, Now: time.Now}
}

// transitionStatus maps a transition rule failure to its HTTP status.
func transitionStatus(err error) int {
	switch {
	case errors.Is(err, attendance.ErrAlreadyMarked),
		errors.Is(err, attendance.ErrNotCheckedIn),
		errors.Is(err, attendance.ErrAlreadyCheckedOut),
		errors.Is(err, attendance.ErrExceptionOpen):
		return http.StatusConflict
	}
	return http.StatusBadRequest
}

// findEmployee accepts either the employee code or the row id.
func findEmployee(db *gorm.DB, value string) (models.Employee, error) {
	var employee models.Employee
	value = strings.TrimSpace(value)
	query := db.Preload("Project.Location").Preload("Location")
	if id, err := uuid.Parse(value); err == nil {
		err = query.First(&employee, "id = ?", id).Error
		return employee, err
	}
	err := query.Where("employee_code = ?", value).First(&employee).Error
	return employee, err
}

// findProject accepts either the project code or the row id.
func findProject(db *gorm.DB, value string) (models.Project, error) {
	var project models.Project
	value = strings.TrimSpace(value)
	query := db.Preload("Location")
	if id, err := uuid.Parse(value); err == nil {
		err = query.First(&project, "id = ?", id).Error
		return project, err
	}
	err := query.Where("code = ?", value).First(&project).Error
	return project, err
}

// lastMarked returns the date of the employee's mark on day when one
// exists, otherwise their most recent mark.
func lastMarked(db *gorm.DB, employeeID uuid.UUID, day *time.Time) (*time.Time, error) {
	var mark models.Attendance
	query := db.Where("employee_id = ?", employeeID)
	if day != nil {
		err := db.Where("employee_id = ? AND attendance_date = ?", employeeID, attendance.DateKey(*day)).First(&mark).Error
		if err == nil {
			return parsedMarkDate(mark)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	if err := query.Order("attendance_date desc").First(&mark).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parsedMarkDate(mark)
}

func parsedMarkDate(mark models.Attendance) (*time.Time, error) {
	date, err := attendance.ParseDate(mark.AttendanceDate)
	if err != nil {
		return nil, err
	}
	return &date, nil
}

func (h *AttendanceHandler) settings() AttendanceSettings {
	settings, err := LoadAttendanceSettings(h.DB, h.Cfg)
	if err != nil {
		return AttendanceSettings{
			MaxShiftHours:    h.Cfg.MaxShiftHours,
			GeofenceEnforced: h.Cfg.GeofenceEnforced,
			ExceptionReason:  h.Cfg.ExceptionReason,
		}
	}
	return settings
}

func (h *AttendanceHandler) selectedDate(c *gin.Context) (time.Time, bool) {
	value := strings.TrimSpace(c.Query("date"))
	if value == "" {
		return startOfDay(h.Now()), true
	}
	date, err := attendance.ParseDate(value)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return time.Time{}, false
	}
	return date, true
}

func (h *AttendanceHandler) loadMark(id uuid.UUID) (models.Attendance, error) {
	var mark models.Attendance
	err := preloadMark(h.DB).First(&mark, "id = ?", id).Error
	return mark, err
}

func (h *AttendanceHandler) markResponse(id uuid.UUID) (attendance.Record, error) {
	mark, err := h.loadMark(id)
	if err != nil {
		return attendance.Record{}, err
	}
	date, err := attendance.ParseDate(mark.AttendanceDate)
	if err != nil {
		return attendance.Record{}, err
	}
	return markRecord(mark, date), nil
}

// Daily lists every active employee with their presence on the selected
// date, narrowed by the filter query.
func (h *AttendanceHandler) Daily(c *gin.Context) {
	day, ok := h.selectedDate(c)
	if !ok {
		return
	}
	filter, err := attendance.FilterFromQuery(c.Query)
	if err == nil {
		err = filter.Validate()
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	filter.From, filter.To = nil, nil

	records, err := loadDailyRecords(h.DB, day)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load attendance"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":    attendance.DateKey(day),
		"records": filter.Apply(records),
	})
}

// List returns the attendance log over a date range.
func (h *AttendanceHandler) List(c *gin.Context) {
	filter, err := attendance.FilterFromQuery(c.Query)
	if err == nil {
		err = filter.Validate()
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	from, to, err := reportRange(filter, h.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	records, err := loadRangeRecords(h.DB, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load attendance"})
		return
	}
	filter.From, filter.To = nil, nil
	c.JSON(http.StatusOK, filter.Apply(records))
}

func (h *AttendanceHandler) Status(c *gin.Context) {
	day, ok := h.selectedDate(c)
	if !ok {
		return
	}

	employee, err := findEmployee(h.DB, c.Param("employeeId"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "employee not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load employee"})
		return
	}

	var mark models.Attendance
	err = h.DB.Preload("Project").
		Where("employee_id = ? AND attendance_date = ?", employee.ID, attendance.DateKey(day)).
		First(&mark).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusOK, employeeRecord(employee))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load attendance"})
		return
	}
	mark.Employee = &employee
	c.JSON(http.StatusOK, markRecord(mark, day))
}

// CheckIn records a manual check-in. Every rule is checked before the
// mark is written.
func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	var req checkInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	employee, err := findEmployee(h.DB, req.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "employee not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "checkin failed"})
		return
	}

	var date *time.Time
	if strings.TrimSpace(req.Date) != "" {
		parsed, err := attendance.ParseDate(req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
			return
		}
		date = &parsed
	}

	marked, err := lastMarked(h.DB, employee.ID, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "checkin failed"})
		return
	}
	if err := attendance.ValidateCheckIn(attendance.CheckInInput{
		Date:      date,
		ProjectID: req.ProjectID,
		Reason:    req.Reason,
	}, marked); err != nil {
		c.JSON(transitionStatus(err), gin.H{"error": err.Error()})
		return
	}

	if employee.EmploymentStatus != models.EmploymentActive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "employee is not active"})
		return
	}

	project, err := findProject(h.DB, req.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "checkin failed"})
		return
	}
	if !project.Active {
		c.JSON(http.StatusBadRequest, gin.H{"error": "project is not active"})
		return
	}

	now := h.Now()
	checkInTime, err := attendance.ParseClock(*date, req.CheckInTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid checkInTime"})
		return
	}
	if checkInTime.IsZero() {
		if !attendance.SameDay(*date, now) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "checkInTime is required for other dates"})
			return
		}
		checkInTime = now
	}
	if !attendance.SameDay(checkInTime, *date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": attendance.ErrCheckInOffDay.Error()})
		return
	}
	if checkInTime.After(now) {
		c.JSON(http.StatusBadRequest, gin.H{"error": attendance.ErrFutureTime.Error()})
		return
	}

	settings := h.settings()
	var point *models.GeoPoint
	if req.Latitude != nil && req.Longitude != nil {
		point = &models.GeoPoint{Lat: *req.Latitude, Lng: *req.Longitude}
	}
	var polygon []models.GeoPoint
	if project.Location != nil {
		polygon = project.Location.Geofence.Data()
	} else if employee.Location != nil {
		polygon = employee.Location.Geofence.Data()
	}
	if !geofence.Allow(polygon, point, settings.GeofenceEnforced) {
		c.JSON(http.StatusForbidden, gin.H{"error": "check-in is outside the project geofence"})
		return
	}

	record := models.Attendance{
		EmployeeID:     employee.ID,
		AttendanceDate: attendance.DateKey(*date),
		ProjectID:      &project.ID,
		CheckIn:        &checkInTime,
		CheckInReason:  strings.TrimSpace(req.Reason),
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		Source:         models.SourceManual,
	}
	if err := h.DB.Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": attendance.ErrAlreadyMarked.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "checkin failed"})
		return
	}

	response, err := h.markResponse(record.ID)
	if err != nil {
		c.JSON(http.StatusCreated, record)
		return
	}
	c.JSON(http.StatusCreated, response)
}

// CheckOut closes the employee's open mark for the date, capped at the
// max shift after check-in.
func (h *AttendanceHandler) CheckOut(c *gin.Context) {
	var req checkOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	employee, err := findEmployee(h.DB, req.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "employee not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "checkout failed"})
		return
	}

	now := h.Now()
	day := startOfDay(now)
	if strings.TrimSpace(req.Date) != "" {
		parsed, err := attendance.ParseDate(req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
			return
		}
		day = parsed
	}

	var record models.Attendance
	state := attendance.StateNotCheckedIn
	err = h.DB.Where("employee_id = ? AND attendance_date = ?", employee.ID, attendance.DateKey(day)).First(&record).Error
	if err == nil {
		state = attendance.StateOf(record.CheckIn, record.CheckOut, record.ExceptionOpen())
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "checkout failed"})
		return
	}

	if err := attendance.ValidateCheckOut(attendance.CheckOutInput{
		ProjectID: req.ProjectID,
		Reason:    req.Reason,
	}, state); err != nil {
		c.JSON(transitionStatus(err), gin.H{"error": err.Error()})
		return
	}

	project, err := findProject(h.DB, req.ProjectID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "project not found"})
		return
	}

	checkOutTime, err := attendance.ParseClock(day, req.CheckOutTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid checkOutTime"})
		return
	}
	if checkOutTime.IsZero() {
		checkOutTime = now
	}
	if checkOutTime.After(now) {
		c.JSON(http.StatusBadRequest, gin.H{"error": attendance.ErrFutureTime.Error()})
		return
	}
	checkOutTime, err = attendance.ClampCheckOut(*record.CheckIn, checkOutTime, h.settings().MaxShift())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]any{
		"check_out":        checkOutTime,
		"check_out_reason": strings.TrimSpace(req.Reason),
	}
	if record.ProjectID == nil {
		updates["project_id"] = project.ID
	}
	result := h.DB.Model(&models.Attendance{}).
		Where("id = ? AND check_out IS NULL", record.ID).
		Updates(updates)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "checkout failed"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": attendance.ErrAlreadyCheckedOut.Error()})
		return
	}

	response, err := h.markResponse(record.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "checkout failed"})
		return
	}
	c.JSON(http.StatusOK, response)
}

// Resolve closes an open exception, optionally recording the real
// checkout time.
func (h *AttendanceHandler) Resolve(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var record models.Attendance
	if err := h.DB.First(&record, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "attendance not found"})
		return
	}
	if !record.ExceptionOpen() {
		c.JSON(http.StatusConflict, gin.H{"error": "attendance has no open exception"})
		return
	}

	now := h.Now()
	updates := map[string]any{
		"resolved_at":     now,
		"resolution_note": strings.TrimSpace(req.Note),
	}
	if strings.TrimSpace(req.CheckOutTime) != "" && record.CheckIn != nil {
		day, err := attendance.ParseDate(record.AttendanceDate)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "resolve failed"})
			return
		}
		checkOutTime, err := attendance.ParseClock(day, req.CheckOutTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid checkOutTime"})
			return
		}
		if checkOutTime.After(now) {
			c.JSON(http.StatusBadRequest, gin.H{"error": attendance.ErrFutureTime.Error()})
			return
		}
		checkOutTime, err = attendance.ClampCheckOut(*record.CheckIn, checkOutTime, h.settings().MaxShift())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		updates["check_out"] = checkOutTime
		updates["check_out_reason"] = strings.TrimSpace(req.Note)
	}

	if err := h.DB.Model(&models.Attendance{}).Where("id = ?", record.ID).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "resolve failed"})
		return
	}

	response, err := h.markResponse(record.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "resolve failed"})
		return
	}
	c.JSON(http.StatusOK, response)
}

func (h *AttendanceHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	result := h.DB.Delete(&models.Attendance{}, "id = ?", id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "attendance not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// Sweep runs the exception sweep on demand.
func (h *AttendanceHandler) Sweep(c *gin.Context) {
	settings := h.settings()
	flagged, err := jobs.SweepExceptions(c.Request.Context(), h.DB, h.Now(), settings.MaxShift(), settings.ExceptionReason)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sweep failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"flagged":     len(flagged),
		"items":       flagged,
		"triggeredBy": middleware.Actor(c),
	})
}
