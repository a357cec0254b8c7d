package imports

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestCSVTemplateParsesBack(t *testing.T) {
	data, contentType, filename, err := Template("csv")
	require.NoError(t, err)
	assert.Equal(t, ContentTypeCSV, contentType)
	assert.Equal(t, "attendance_template.csv", filename)
	assert.True(t, strings.HasPrefix(string(data), "Employee ID,Date,Check In,Check Out,Project,Reason\n"))

	rows, err := ReadRows(bytes.NewReader(data), filename)
	require.NoError(t, err)

	parsed, rowErrors, err := ParseRows(rows)
	require.NoError(t, err)
	assert.Empty(t, rowErrors)
	require.Len(t, parsed, 1)

	row := parsed[0]
	assert.Equal(t, 2, row.Line)
	assert.Equal(t, "EMP001", row.EmployeeCode)
	assert.Equal(t, "2026-01-15", row.Date.Format("2006-01-02"))
	assert.Equal(t, time.Date(2026, 1, 15, 7, 0, 0, 0, time.Local), row.CheckIn)
	require.NotNil(t, row.CheckOut)
	assert.Equal(t, 16, row.CheckOut.Hour())
	assert.Equal(t, "PRJ-001", row.Project)
	assert.Equal(t, "Gate reader offline", row.Reason)
}

func TestXLSXTemplateParsesBack(t *testing.T) {
	data, contentType, filename, err := Template("xlsx")
	require.NoError(t, err)
	assert.Equal(t, ContentTypeXLSX, contentType)

	file, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "Attendance", file.GetSheetName(0))
	require.NoError(t, file.Close())

	rows, err := ReadRows(bytes.NewReader(data), filename)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, TemplateHeader, rows[0])
}

func TestTemplateRejectsUnknownFormat(t *testing.T) {
	_, _, _, err := Template("pdf")
	assert.Error(t, err)
}

func TestReadRowsRejectsUnknownExtension(t *testing.T) {
	_, err := ReadRows(strings.NewReader("x"), "attendance.txt")
	assert.Error(t, err)
}

func TestParseRowsReportsBadLines(t *testing.T) {
	rows := [][]string{
		{"employee_id", "attendance date", "time in", "time out", "project code", "remarks"},
		{"EMP001", "3/2/2026", "0.3125", "", "PRJ-001", ""},
		{"", "2026-03-02", "07:00", "", "", ""},
		{"EMP002", "yesterday", "07:00", "", "", ""},
		{"EMP003", "2026-03-02", "", "", "", ""},
		{"EMP004", "2026-03-02", "09:00", "08:00", "", ""},
		{"", "", "", "", "", ""},
		{"EMP005", "46083", "7:15 AM", "15:45", "PRJ-002", "late badge"},
	}

	parsed, rowErrors, err := ParseRows(rows)
	require.NoError(t, err)
	require.Len(t, parsed, 2)

	assert.Equal(t, time.Date(2026, 3, 2, 7, 30, 0, 0, time.Local), parsed[0].CheckIn)
	assert.Nil(t, parsed[0].CheckOut)
	assert.Equal(t, 8, parsed[1].Line)
	assert.Equal(t, "2026-03-02", parsed[1].Date.Format("2006-01-02"))
	assert.Equal(t, 7, parsed[1].CheckIn.Hour())

	require.Len(t, rowErrors, 4)
	assert.Equal(t, RowError{Row: 3, Message: "employee id is required"}, rowErrors[0])
	assert.Equal(t, 4, rowErrors[1].Row)
	assert.Equal(t, RowError{Row: 5, Message: "check in is required"}, rowErrors[2])
	assert.Equal(t, 6, rowErrors[3].Row)
}

func TestParseRowsRequiresColumns(t *testing.T) {
	_, _, err := ParseRows([][]string{{"Name", "Date"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "employee")
	assert.Contains(t, err.Error(), "checkin")
}

func TestParseRowsRejectsCheckInOnAnotherDay(t *testing.T) {
	rows := [][]string{
		{"Employee ID", "Date", "Check In"},
		{"EMP001", "2026-03-02", "2026-02-01 08:00"},
		{"EMP002", "2026-03-02", "2026-03-02 08:00"},
	}

	parsed, rowErrors, err := ParseRows(rows)
	require.NoError(t, err)
	require.Len(t, parsed, 1)
	assert.Equal(t, "EMP002", parsed[0].EmployeeCode)
	require.Len(t, rowErrors, 1)
	assert.Equal(t, RowError{Row: 2, Message: "check-in must fall on the attendance date"}, rowErrors[0])
}
