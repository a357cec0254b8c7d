package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"workforce-attendance/internal/config"
	"workforce-attendance/internal/models"
	"workforce-attendance/internal/testutil"
)

var testNow = time.Date(2026, 3, 2, 17, 0, 0, 0, time.Local)

type fixture struct {
	db      *gorm.DB
	router  *gin.Engine
	project models.Project
	john    models.Employee
	sarah   models.Employee
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, RegisterValidators())

	db := testutil.OpenDB(t)
	cfg := config.Config{MaxShiftHours: 14, ExceptionReason: "no checkout recorded"}
	clock := func() time.Time { return testNow }

	attendanceHandler := NewAttendanceHandler(db, cfg)
	attendanceHandler.Now = clock
	reportHandler := NewReportHandler(db)
	reportHandler.Now = clock
	employeeHandler := NewEmployeeHandler(db)
	roleMappingHandler := NewRoleMappingHandler(db)
	settingsHandler := NewSettingsHandler(db, cfg)
	projectHandler := NewProjectHandler(db)

	router := gin.New()
	router.GET("/employees", employeeHandler.List)
	router.POST("/employees", employeeHandler.Create)
	router.PUT("/employees/:id/assignment", employeeHandler.Assign)
	router.DELETE("/employees/:id", employeeHandler.Delete)
	router.PUT("/role-mappings", roleMappingHandler.Upsert)
	router.POST("/projects", projectHandler.CreateProject)
	router.DELETE("/projects/:id", projectHandler.DeleteProject)
	router.POST("/locations", projectHandler.CreateLocation)
	router.DELETE("/locations/:id", projectHandler.DeleteLocation)
	router.GET("/settings/attendance", settingsHandler.GetAttendance)
	router.PUT("/settings/attendance", settingsHandler.UpdateAttendance)
	router.GET("/attendance", attendanceHandler.List)
	router.GET("/attendance/daily", attendanceHandler.Daily)
	router.GET("/attendance/status/:employeeId", attendanceHandler.Status)
	router.POST("/attendance/checkin", attendanceHandler.CheckIn)
	router.POST("/attendance/checkout", attendanceHandler.CheckOut)
	router.GET("/attendance/import/template", attendanceHandler.Template)
	router.POST("/attendance/import", attendanceHandler.Import)
	router.POST("/attendance/:id/resolve", attendanceHandler.Resolve)
	router.GET("/reports/summary", reportHandler.Summary)
	router.GET("/reports/export", reportHandler.Export)

	f := &fixture{db: db, router: router}
	f.project = models.Project{Code: "PRJ-001", Name: "Harbour Tower", Entity: "North Build", Active: true}
	require.NoError(t, db.Create(&f.project).Error)
	f.john = models.Employee{
		EmployeeCode:     "EMP001",
		FirstName:        "John",
		LastName:         "Smith",
		Classification:   models.ClassificationLaborer,
		Category:         "Carpenter",
		Entity:           "North Build",
		EmploymentStatus: models.EmploymentActive,
	}
	require.NoError(t, db.Create(&f.john).Error)
	f.sarah = models.Employee{
		EmployeeCode:     "EMP002",
		FirstName:        "Sarah",
		LastName:         "Johnson",
		Classification:   models.ClassificationStaff,
		Category:         "Engineer",
		Entity:           "North Build",
		EmploymentStatus: models.EmploymentActive,
		ProjectID:        &f.project.ID,
	}
	require.NoError(t, db.Create(&f.sarah).Error)
	return f
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (f *fixture) countMarks(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&models.Attendance{}).Count(&count).Error)
	return count
}

func (f *fixture) seedMark(t *testing.T, employee models.Employee, mark models.Attendance) models.Attendance {
	t.Helper()
	mark.EmployeeID = employee.ID
	mark.ProjectID = &f.project.ID
	require.NoError(t, f.db.Create(&mark).Error)
	return mark
}

func at(day, clock string) *time.Time {
	parsed, err := time.ParseInLocation("2006-01-02 15:04", day+" "+clock, time.Local)
	if err != nil {
		panic(err)
	}
	return &parsed
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]any](t, rec)["error"].(string)
}
