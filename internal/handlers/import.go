package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"workforce-attendance/internal/attendance"
	"workforce-attendance/internal/imports"
	"workforce-attendance/internal/models"
)

const (
	defaultImportReason = "bulk import"
	maxImportBytes      = 10 << 20
)

type importResult struct {
	Created int                `json:"created"`
	Skipped int                `json:"skipped"`
	DryRun  bool               `json:"dryRun"`
	Errors  []imports.RowError `json:"errors"`
}

func (h *AttendanceHandler) Template(c *gin.Context) {
	data, contentType, filename, err := imports.Template(strings.ToLower(c.DefaultQuery("format", "csv")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}

// Import creates marks from an uploaded csv, xls or xlsx file. Each row
// passes the same rules as a manual check-in; rows that fail are reported
// and skipped while the rest are written.
func (h *AttendanceHandler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if fileHeader.Size > maxImportBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is too large"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not open file"})
		return
	}
	defer file.Close()

	raw, err := imports.ReadRows(file, fileHeader.Filename)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rows, rowErrors, err := imports.ParseRows(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dryRun := c.PostForm("dryRun") == "true" || c.Query("dryRun") == "true"
	result := importResult{DryRun: dryRun, Errors: rowErrors, Skipped: len(rowErrors)}

	now := h.Now()
	maxShift := h.settings().MaxShift()
	employees := map[string]*models.Employee{}
	projects := map[string]*models.Project{}
	inFile := map[string]int{}

	fail := func(line int, message string) {
		result.Skipped++
		result.Errors = append(result.Errors, imports.RowError{Row: line, Message: message})
	}

	for _, row := range rows {
		employee, ok := employees[row.EmployeeCode]
		if !ok {
			found, err := findEmployee(h.DB, row.EmployeeCode)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "import failed"})
				return
			}
			if err == nil {
				employee = &found
			}
			employees[row.EmployeeCode] = employee
		}
		if employee == nil {
			fail(row.Line, "unknown employee "+row.EmployeeCode)
			continue
		}
		if employee.EmploymentStatus != models.EmploymentActive {
			fail(row.Line, "employee "+row.EmployeeCode+" is not active")
			continue
		}

		var project *models.Project
		if row.Project != "" {
			cached, ok := projects[row.Project]
			if !ok {
				found, err := findProject(h.DB, row.Project)
				if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "import failed"})
					return
				}
				if err == nil {
					cached = &found
				}
				projects[row.Project] = cached
			}
			if cached == nil {
				fail(row.Line, "unknown project "+row.Project)
				continue
			}
			project = cached
		} else if employee.Project != nil {
			project = employee.Project
		}

		reason := row.Reason
		if strings.TrimSpace(reason) == "" {
			reason = defaultImportReason
		}

		key := row.EmployeeCode + "|" + attendance.DateKey(row.Date)
		if first, seen := inFile[key]; seen {
			fail(row.Line, fmt.Sprintf("duplicate of row %d", first))
			continue
		}
		inFile[key] = row.Line

		marked, err := lastMarked(h.DB, employee.ID, &row.Date)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "import failed"})
			return
		}
		projectRef := ""
		if project != nil {
			projectRef = project.Code
		}
		date := row.Date
		if err := attendance.ValidateCheckIn(attendance.CheckInInput{
			Date:      &date,
			ProjectID: projectRef,
			Reason:    reason,
		}, marked); err != nil {
			fail(row.Line, err.Error())
			continue
		}
		if !project.Active {
			fail(row.Line, "project "+project.Code+" is not active")
			continue
		}
		if row.CheckIn.After(now) {
			fail(row.Line, attendance.ErrFutureTime.Error())
			continue
		}

		checkIn := row.CheckIn
		record := models.Attendance{
			EmployeeID:     employee.ID,
			AttendanceDate: attendance.DateKey(row.Date),
			ProjectID:      &project.ID,
			CheckIn:        &checkIn,
			CheckInReason:  reason,
			Source:         models.SourceImport,
		}
		if row.CheckOut != nil {
			checkOut, err := attendance.ClampCheckOut(checkIn, *row.CheckOut, maxShift)
			if err != nil {
				fail(row.Line, err.Error())
				continue
			}
			if checkOut.After(now) {
				fail(row.Line, attendance.ErrFutureTime.Error())
				continue
			}
			record.CheckOut = &checkOut
			record.CheckOutReason = reason
		}

		if dryRun {
			result.Created++
			continue
		}
		if err := h.DB.Create(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				fail(row.Line, attendance.ErrAlreadyMarked.Error())
				continue
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "import failed"})
			return
		}
		result.Created++
	}

	c.JSON(http.StatusOK, result)
}
