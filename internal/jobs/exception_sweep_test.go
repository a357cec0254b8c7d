package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"workforce-attendance/internal/models"
	"workforce-attendance/internal/testutil"
)

func at(day, clock string) *time.Time {
	parsed, err := time.ParseInLocation("2006-01-02 15:04", day+" "+clock, time.Local)
	if err != nil {
		panic(err)
	}
	return &parsed
}

func seedMark(t *testing.T, db *gorm.DB, code string, mark models.Attendance) models.Attendance {
	t.Helper()
	employee := models.Employee{EmployeeCode: code, FirstName: "Crew", LastName: code, Classification: models.ClassificationLaborer, EmploymentStatus: models.EmploymentActive}
	require.NoError(t, db.Create(&employee).Error)
	mark.EmployeeID = employee.ID
	require.NoError(t, db.Create(&mark).Error)
	return mark
}

func TestSweepExceptions(t *testing.T) {
	db := testutil.OpenDB(t)
	now := *at("2026-03-02", "23:00")
	resolved := *at("2026-03-02", "08:00")

	stale := seedMark(t, db, "EMP001", models.Attendance{AttendanceDate: "2026-03-01", CheckIn: at("2026-03-01", "07:00")})
	long := seedMark(t, db, "EMP002", models.Attendance{AttendanceDate: "2026-03-02", CheckIn: at("2026-03-02", "07:00")})
	recent := seedMark(t, db, "EMP003", models.Attendance{AttendanceDate: "2026-03-02", CheckIn: at("2026-03-02", "18:00")})
	closed := seedMark(t, db, "EMP004", models.Attendance{AttendanceDate: "2026-03-01", CheckIn: at("2026-03-01", "07:00"), CheckOut: at("2026-03-01", "15:00")})
	handled := seedMark(t, db, "EMP005", models.Attendance{AttendanceDate: "2026-02-28", CheckIn: at("2026-02-28", "07:00"), ResolvedAt: &resolved})

	flagged, err := SweepExceptions(context.Background(), db, now, 14*time.Hour, "no checkout recorded")
	require.NoError(t, err)
	require.Len(t, flagged, 2)
	assert.Equal(t, stale.ID.String(), flagged[0].AttendanceID)
	assert.Equal(t, "EMP001", flagged[0].EmployeeCode)
	assert.Equal(t, "Crew EMP001", flagged[0].EmployeeName)
	assert.Equal(t, long.ID.String(), flagged[1].AttendanceID)

	var reloaded models.Attendance
	require.NoError(t, db.First(&reloaded, "id = ?", stale.ID).Error)
	assert.True(t, reloaded.Exception)
	assert.Equal(t, "no checkout recorded", reloaded.ExceptionReason)
	assert.True(t, reloaded.ExceptionOpen())

	for _, id := range []any{recent.ID, closed.ID, handled.ID} {
		var untouched models.Attendance
		require.NoError(t, db.First(&untouched, "id = ?", id).Error)
		assert.False(t, untouched.Exception)
	}

	again, err := SweepExceptions(context.Background(), db, now, 14*time.Hour, "no checkout recorded")
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestStartExceptionSweepRejectsBadSchedule(t *testing.T) {
	db := testutil.OpenDB(t)
	settings := func() (time.Duration, string) { return time.Hour, "x" }

	_, err := StartExceptionSweep(db, "not a schedule", settings, nil)
	assert.Error(t, err)

	c, err := StartExceptionSweep(db, "@every 1h", settings, nil)
	require.NoError(t, err)
	c.Stop()
}
