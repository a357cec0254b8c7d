package reports

import (
	"bytes"

	"github.com/xuri/excelize/v2"

	"workforce-attendance/internal/attendance"
)

var exportHeader = []string{
	"Employee ID", "Name", "Classification", "Category", "Entity", "Project",
	"Location", "Date", "Status", "Check In", "Check Out", "Exception Reason",
}

const exportSheet = "Attendance"

// Workbook renders records as a single-sheet XLSX file.
func Workbook(records []attendance.Record) (*bytes.Buffer, error) {
	file := excelize.NewFile()
	defer func() { _ = file.Close() }()

	if err := file.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}
	bold, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := file.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return nil, err
	}
	if err := file.SetRowStyle(exportSheet, 1, 1, bold); err != nil {
		return nil, err
	}

	for i, record := range records {
		date := ""
		if record.AttendanceDate != nil {
			date = attendance.DateKey(*record.AttendanceDate)
		}
		row := []interface{}{
			record.EmployeeID,
			record.Name,
			record.Classification,
			record.Category,
			record.Entity,
			record.Project,
			record.Location,
			date,
			string(record.Status),
			record.CheckInTime,
			record.CheckOutTime,
			record.ExceptionReason,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := file.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	return file.WriteToBuffer()
}
