package imports

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/xuri/excelize/v2"
)

var TemplateHeader = []string{"Employee ID", "Date", "Check In", "Check Out", "Project", "Reason"}

var templateSample = []string{"EMP001", "2026-01-15", "07:00", "16:30", "PRJ-001", "Gate reader offline"}

const (
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Template returns the attendance import template with one example row.
func Template(format string) (data []byte, contentType string, filename string, err error) {
	switch format {
	case "", "csv":
		var buf bytes.Buffer
		writer := csv.NewWriter(&buf)
		if err := writer.WriteAll([][]string{TemplateHeader, templateSample}); err != nil {
			return nil, "", "", err
		}
		return buf.Bytes(), ContentTypeCSV, "attendance_template.csv", nil
	case "xlsx":
		file := excelize.NewFile()
		defer func() { _ = file.Close() }()

		const sheet = "Attendance"
		if err := file.SetSheetName("Sheet1", sheet); err != nil {
			return nil, "", "", err
		}
		if err := file.SetSheetRow(sheet, "A1", &TemplateHeader); err != nil {
			return nil, "", "", err
		}
		if err := file.SetSheetRow(sheet, "A2", &templateSample); err != nil {
			return nil, "", "", err
		}
		buf, err := file.WriteToBuffer()
		if err != nil {
			return nil, "", "", err
		}
		return buf.Bytes(), ContentTypeXLSX, "attendance_template.xlsx", nil
	default:
		return nil, "", "", fmt.Errorf("unsupported template format %q", format)
	}
}
