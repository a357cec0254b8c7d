package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workforce-attendance/internal/models"
	"workforce-attendance/internal/reports"
)

func TestReportSummary(t *testing.T) {
	f := newFixture(t)
	f.seedMark(t, f.john, models.Attendance{AttendanceDate: "2026-03-01", CheckIn: at("2026-03-01", "07:00"), CheckOut: at("2026-03-01", "15:00")})
	f.seedMark(t, f.sarah, models.Attendance{AttendanceDate: "2026-03-02", CheckIn: at("2026-03-02", "07:00")})

	rec := f.do(t, http.MethodGet, "/reports/summary?from=2026-03-01&to=2026-03-02", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	summary := decode[reports.Summary](t, rec)
	assert.Equal(t, 2, summary.Headcount)
	require.Len(t, summary.Days, 2)

	rec = f.do(t, http.MethodGet, "/reports/summary?from=2026-03-01&to=2026-03-02&classification=Staff", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summary = decode[reports.Summary](t, rec)
	assert.Equal(t, 1, summary.Headcount)
}

func TestReportExport(t *testing.T) {
	f := newFixture(t)
	f.seedMark(t, f.john, models.Attendance{AttendanceDate: "2026-03-01", CheckIn: at("2026-03-01", "07:00")})

	rec := f.do(t, http.MethodGet, "/reports/export?from=2026-03-01&to=2026-03-02", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attendance_2026-03-01_2026-03-02.xlsx")
	assert.True(t, rec.Body.Len() > 0)
	assert.Equal(t, "PK", rec.Body.String()[:2])

	rec = f.do(t, http.MethodGet, "/reports/export?from=2025-01-01&to=2026-03-02", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
