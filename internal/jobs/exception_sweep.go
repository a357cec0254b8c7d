package jobs

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"workforce-attendance/internal/attendance"
	"workforce-attendance/internal/models"
)

// Flagged is one mark the sweep moved into exception state.
type Flagged struct {
	AttendanceID   string `json:"attendanceId"`
	EmployeeCode   string `json:"employeeId"`
	EmployeeName   string `json:"name"`
	AttendanceDate string `json:"attendanceDate"`
}

// SweepExceptions flags check-ins that never got a checkout: the day has
// ended, or the check-in is older than maxShift. Already flagged and
// resolved marks are left alone.
func SweepExceptions(ctx context.Context, db *gorm.DB, now time.Time, maxShift time.Duration, reason string) ([]Flagged, error) {
	today := attendance.DateKey(now)
	cutoff := now.Add(-maxShift)

	var records []models.Attendance
	if err := db.WithContext(ctx).Preload("Employee").
		Where("check_in IS NOT NULL AND check_out IS NULL AND resolved_at IS NULL AND exception_flag = ?", false).
		Where("attendance_date < ? OR check_in <= ?", today, cutoff).
		Order("attendance_date asc").
		Find(&records).Error; err != nil {
		return nil, err
	}

	flagged := []Flagged{}
	for i := range records {
		result := db.WithContext(ctx).Model(&models.Attendance{}).
			Where("id = ? AND exception_flag = ?", records[i].ID, false).
			Updates(map[string]any{"exception_flag": true, "exception_reason": reason})
		if result.Error != nil {
			return flagged, result.Error
		}
		if result.RowsAffected == 0 {
			continue
		}
		entry := Flagged{
			AttendanceID:   records[i].ID.String(),
			AttendanceDate: records[i].AttendanceDate,
		}
		if records[i].Employee != nil {
			entry.EmployeeCode = records[i].Employee.EmployeeCode
			entry.EmployeeName = records[i].Employee.FullName()
		}
		flagged = append(flagged, entry)
	}

	return flagged, nil
}

// SweepConfig resolves the sweep parameters at run time so settings
// changed through the API apply to the next run.
type SweepConfig func() (maxShift time.Duration, reason string)

// Notifier receives the marks flagged by a scheduled run.
type Notifier func(flagged []Flagged) error

// StartExceptionSweep schedules SweepExceptions and returns the running
// scheduler; callers stop it on shutdown.
func StartExceptionSweep(db *gorm.DB, schedule string, settings SweepConfig, notify Notifier) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))

	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
		defer cancel()

		maxShift, reason := settings()
		flagged, err := SweepExceptions(ctx, db, time.Now(), maxShift, reason)
		if err != nil {
			log.Printf("[EXCEPTION-SWEEP] error: %v", err)
		}
		log.Printf("[EXCEPTION-SWEEP] flagged=%d", len(flagged))
		if len(flagged) > 0 && notify != nil {
			if err := notify(flagged); err != nil {
				log.Printf("[EXCEPTION-SWEEP] notify error: %v", err)
			}
		}
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[EXCEPTION-SWEEP] started schedule=%q", schedule)
	c.Start()
	return c, nil
}
