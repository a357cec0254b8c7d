package imports

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"workforce-attendance/internal/attendance"
)

// Row is one parsed import line. Line is the 1-based spreadsheet row.
type Row struct {
	Line         int
	EmployeeCode string
	Date         time.Time
	CheckIn      time.Time
	CheckOut     *time.Time
	Project      string
	Reason       string
}

type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

var headerAliases = map[string]string{
	"employeeid":     "employee",
	"employeecode":   "employee",
	"empid":          "employee",
	"date":           "date",
	"attendancedate": "date",
	"checkin":        "checkin",
	"checkintime":    "checkin",
	"timein":         "checkin",
	"checkout":       "checkout",
	"checkouttime":   "checkout",
	"timeout":        "checkout",
	"project":        "project",
	"projectcode":    "project",
	"reason":         "reason",
	"remarks":        "reason",
}

var dateFormats = []string{
	"2006-01-02",
	"2006/01/02",
	"1/2/2006",
	"01/02/2006",
	"1/2/06",
	"01-02-2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

func normalizeHeader(header string) string {
	replacer := strings.NewReplacer(" ", "", "_", "", "-", "")
	return replacer.Replace(strings.ToLower(strings.TrimSpace(header)))
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// ParseRows maps the header row and parses every data row. Rows that fail
// are reported in the returned RowError list and left out of the result.
func ParseRows(rows [][]string) ([]Row, []RowError, error) {
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("file is empty")
	}

	columns := map[string]int{}
	for idx, header := range rows[0] {
		if key, ok := headerAliases[normalizeHeader(header)]; ok {
			if _, seen := columns[key]; !seen {
				columns[key] = idx
			}
		}
	}
	missing := []string{}
	for _, key := range []string{"employee", "date", "checkin"} {
		if _, ok := columns[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	column := func(key string) int {
		if idx, ok := columns[key]; ok {
			return idx
		}
		return -1
	}

	parsed := []Row{}
	rowErrors := []RowError{}
	for i, raw := range rows[1:] {
		line := i + 2
		if isBlank(raw) {
			continue
		}

		row := Row{
			Line:         line,
			EmployeeCode: cellValue(raw, column("employee")),
			Project:      cellValue(raw, column("project")),
			Reason:       cellValue(raw, column("reason")),
		}
		if row.EmployeeCode == "" {
			rowErrors = append(rowErrors, RowError{Row: line, Message: "employee id is required"})
			continue
		}

		date, err := parseDate(cellValue(raw, column("date")))
		if err != nil {
			rowErrors = append(rowErrors, RowError{Row: line, Message: err.Error()})
			continue
		}
		row.Date = date

		checkIn, err := parseTime(date, cellValue(raw, column("checkin")))
		if err != nil {
			rowErrors = append(rowErrors, RowError{Row: line, Message: "check in: " + err.Error()})
			continue
		}
		if checkIn.IsZero() {
			rowErrors = append(rowErrors, RowError{Row: line, Message: "check in is required"})
			continue
		}
		if !attendance.SameDay(checkIn, date) {
			rowErrors = append(rowErrors, RowError{Row: line, Message: attendance.ErrCheckInOffDay.Error()})
			continue
		}
		row.CheckIn = checkIn

		checkOut, err := parseTime(date, cellValue(raw, column("checkout")))
		if err != nil {
			rowErrors = append(rowErrors, RowError{Row: line, Message: "check out: " + err.Error()})
			continue
		}
		if !checkOut.IsZero() {
			if checkOut.Before(checkIn) {
				rowErrors = append(rowErrors, RowError{Row: line, Message: attendance.ErrCheckOutBeforeCheckIn.Error()})
				continue
			}
			row.CheckOut = &checkOut
		}

		parsed = append(parsed, row)
	}

	return parsed, rowErrors, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	// Excel serial dates, limited to a plausible range so plain years are not read as serials.
	if serial, err := strconv.ParseFloat(value, 64); err == nil && serial >= 20000 && serial <= 80000 {
		if parsed, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.Local), nil
		}
	}
	for _, format := range dateFormats {
		if parsed, err := time.ParseInLocation(format, value, time.Local); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}

// parseTime accepts clock strings and Excel day fractions (0.3125 = 07:30).
func parseTime(day time.Time, value string) (time.Time, error) {
	if fraction, err := strconv.ParseFloat(value, 64); err == nil && fraction >= 0 && fraction < 1 {
		minutes := int(math.Round(fraction * 24 * 60))
		return time.Date(day.Year(), day.Month(), day.Day(), 0, minutes, 0, 0, day.Location()), nil
	}
	return attendance.ParseClock(day, value)
}
