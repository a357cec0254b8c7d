package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"workforce-attendance/internal/attendance"
	"workforce-attendance/internal/models"
)

const maxRangeDays = 366

func employeeRecord(employee models.Employee) attendance.Record {
	record := attendance.Record{
		EmployeeID:       employee.EmployeeCode,
		Name:             employee.FullName(),
		Classification:   employee.Classification,
		Category:         employee.Category,
		Entity:           employee.Entity,
		EmploymentStatus: employee.EmploymentStatus,
		Status:           attendance.PresenceNotCheckedIn,
	}
	if employee.Project != nil {
		record.Project = employee.Project.Name
	}
	if employee.Location != nil {
		record.Location = employee.Location.Name
	}
	return record
}

// markRecord flattens a stored mark. The mark's employee must be loaded.
func markRecord(mark models.Attendance, selected time.Time) attendance.Record {
	record := attendance.Record{}
	if mark.Employee != nil {
		record = employeeRecord(*mark.Employee)
	}
	record.AttendanceID = mark.ID.String()
	if mark.Project != nil {
		record.Project = mark.Project.Name
	}
	record.CheckInTime = attendance.ClockString(mark.CheckIn)
	record.CheckOutTime = attendance.ClockString(mark.CheckOut)
	if mark.ExceptionOpen() {
		record.ExceptionReason = mark.ExceptionReason
	}

	date, err := attendance.ParseDate(mark.AttendanceDate)
	if err != nil {
		record.Status = attendance.PresenceNotCheckedIn
		return record
	}
	record.AttendanceDate = &date
	record.Status = attendance.Resolve(&attendance.Mark{
		Date:          date,
		CheckIn:       mark.CheckIn,
		CheckOut:      mark.CheckOut,
		ExceptionOpen: mark.ExceptionOpen(),
	}, selected)
	return record
}

func preloadMark(db *gorm.DB) *gorm.DB {
	return db.Preload("Employee.Project").Preload("Employee.Location").Preload("Project")
}

// loadRangeRecords returns every mark dated from..to inclusive, newest
// day first.
func loadRangeRecords(db *gorm.DB, from, to time.Time) ([]attendance.Record, error) {
	var marks []models.Attendance
	if err := preloadMark(db).
		Joins("JOIN employees ON employees.id = attendances.employee_id").
		Where("attendances.attendance_date >= ? AND attendances.attendance_date <= ?", attendance.DateKey(from), attendance.DateKey(to)).
		Order("attendances.attendance_date desc").Order("employees.employee_code asc").
		Find(&marks).Error; err != nil {
		return nil, err
	}

	records := make([]attendance.Record, 0, len(marks))
	for _, mark := range marks {
		date, err := attendance.ParseDate(mark.AttendanceDate)
		if err != nil {
			continue
		}
		records = append(records, markRecord(mark, date))
	}
	return records, nil
}

// loadDailyRecords lists every active employee with their presence on day.
func loadDailyRecords(db *gorm.DB, day time.Time) ([]attendance.Record, error) {
	var employees []models.Employee
	if err := db.Preload("Project").Preload("Location").
		Where("employment_status = ?", models.EmploymentActive).
		Order("employee_code asc").
		Find(&employees).Error; err != nil {
		return nil, err
	}

	var marks []models.Attendance
	if err := db.Preload("Project").
		Where("attendance_date = ?", attendance.DateKey(day)).
		Find(&marks).Error; err != nil {
		return nil, err
	}
	byEmployee := make(map[uuid.UUID]models.Attendance, len(marks))
	for _, mark := range marks {
		byEmployee[mark.EmployeeID] = mark
	}

	records := make([]attendance.Record, 0, len(employees))
	for _, employee := range employees {
		mark, ok := byEmployee[employee.ID]
		if !ok {
			records = append(records, employeeRecord(employee))
			continue
		}
		mark.Employee = &employee
		records = append(records, markRecord(mark, day))
	}
	return records, nil
}

// reportRange fills an open filter range with the week ending today.
func reportRange(filter attendance.Filter, now time.Time) (time.Time, time.Time, error) {
	to := now
	if filter.To != nil {
		to = *filter.To
	}
	from := to.AddDate(0, 0, -6)
	if filter.From != nil {
		from = *filter.From
	}
	if to.Before(from) {
		return from, to, fmt.Errorf("to must not be before from")
	}
	if to.Sub(from) > maxRangeDays*24*time.Hour {
		return from, to, fmt.Errorf("range cannot exceed %d days", maxRangeDays)
	}
	return from, to, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func parseOptionalUUID(value string) (*uuid.UUID, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := uuid.Parse(value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
