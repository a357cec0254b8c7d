package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"workforce-attendance/internal/attendance"
	"workforce-attendance/internal/models"
	"workforce-attendance/internal/reports"
)

type ReportHandler struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewReportHandler(db *gorm.DB) *ReportHandler {
	return &ReportHandler{DB: db, Now: time.Now}
}

// filteredRange loads the records the report query selects.
func (h *ReportHandler) filteredRange(c *gin.Context) (attendance.Filter, time.Time, time.Time, []attendance.Record, bool) {
	filter, err := attendance.FilterFromQuery(c.Query)
	if err == nil {
		err = filter.Validate()
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return filter, time.Time{}, time.Time{}, nil, false
	}
	from, to, err := reportRange(filter, h.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return filter, from, to, nil, false
	}

	records, err := loadRangeRecords(h.DB, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load attendance"})
		return filter, from, to, nil, false
	}
	filter.From, filter.To = nil, nil
	return filter, from, to, filter.Apply(records), true
}

// headcount counts active employees matching the filter's employee fields.
func (h *ReportHandler) headcount(filter attendance.Filter) (int, error) {
	var employees []models.Employee
	if err := h.DB.Preload("Project").Preload("Location").
		Where("employment_status = ?", models.EmploymentActive).
		Find(&employees).Error; err != nil {
		return 0, err
	}
	filter.Status = ""
	count := 0
	for _, employee := range employees {
		if filter.Matches(employeeRecord(employee)) {
			count++
		}
	}
	return count, nil
}

func (h *ReportHandler) Summary(c *gin.Context) {
	filter, from, to, records, ok := h.filteredRange(c)
	if !ok {
		return
	}
	headcount, err := h.headcount(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load employees"})
		return
	}
	c.JSON(http.StatusOK, reports.Summarize(records, from, to, headcount))
}

func (h *ReportHandler) Export(c *gin.Context) {
	_, from, to, records, ok := h.filteredRange(c)
	if !ok {
		return
	}
	buf, err := reports.Workbook(records)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}
	filename := fmt.Sprintf("attendance_%s_%s.xlsx", attendance.DateKey(from), attendance.DateKey(to))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
