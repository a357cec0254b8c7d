package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"workforce-attendance/internal/attendance"
	"workforce-attendance/internal/models"
)

type EmployeeHandler struct {
	DB *gorm.DB
}

type employeeRequest struct {
	EmployeeID       string `json:"employeeId" binding:"required,max=64"`
	FirstName        string `json:"firstName" binding:"required,max=120"`
	LastName         string `json:"lastName" binding:"max=120"`
	Classification   string `json:"classification" binding:"omitempty,classification"`
	Category         string `json:"category" binding:"max=120"`
	Entity           string `json:"entity" binding:"max=255"`
	EmploymentStatus string `json:"employmentStatus" binding:"omitempty,employment_status"`
	ProjectID        string `json:"projectId"`
	LocationID       string `json:"locationId"`
	Phone            string `json:"phone"`
	HiredAt          string `json:"hiredAt"`
}

type assignmentRequest struct {
	ProjectID  string `json:"projectId"`
	LocationID string `json:"locationId"`
}

var errNoRoleMapping = errors.New("classification required: no role mapping for category")

func NewEmployeeHandler(db *gorm.DB) *EmployeeHandler {
	return &EmployeeHandler{DB: db}
}

// resolveClassification keeps an explicit classification and otherwise
// looks the category up in the role mapping.
func resolveClassification(db *gorm.DB, category string, requested string) (string, error) {
	if requested != "" {
		return requested, nil
	}
	category = strings.TrimSpace(category)
	if category == "" {
		return "", errNoRoleMapping
	}
	var mapping models.RoleMapping
	if err := db.Where("LOWER(category) = ?", strings.ToLower(category)).First(&mapping).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errNoRoleMapping
		}
		return "", err
	}
	return mapping.Classification, nil
}

// resolveAssignment checks the referenced project and location exist. A
// project without an explicit location brings its own.
func resolveAssignment(db *gorm.DB, projectValue, locationValue string) (*uuid.UUID, *uuid.UUID, string) {
	projectID, err := parseOptionalUUID(projectValue)
	if err != nil {
		return nil, nil, "invalid projectId"
	}
	locationID, err := parseOptionalUUID(locationValue)
	if err != nil {
		return nil, nil, "invalid locationId"
	}
	if projectID != nil {
		var project models.Project
		if err := db.First(&project, "id = ?", *projectID).Error; err != nil {
			return nil, nil, "project not found"
		}
		if locationID == nil {
			locationID = project.LocationID
		}
	}
	if locationID != nil {
		var location models.Location
		if err := db.First(&location, "id = ?", *locationID).Error; err != nil {
			return nil, nil, "location not found"
		}
	}
	return projectID, locationID, ""
}

func (h *EmployeeHandler) List(c *gin.Context) {
	filter, err := attendance.FilterFromQuery(c.Query)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// On the employee screens "status" is employment status.
	if filter.EmploymentStatus == "" {
		filter.EmploymentStatus = filter.Status
	}
	filter.Status = ""
	filter.From, filter.To = nil, nil

	var employees []models.Employee
	if err := h.DB.Preload("Project").Preload("Location").Order("employee_code asc").Find(&employees).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load employees"})
		return
	}

	out := make([]models.Employee, 0, len(employees))
	for _, employee := range employees {
		if filter.Matches(employeeRecord(employee)) {
			out = append(out, employee)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (h *EmployeeHandler) Create(c *gin.Context) {
	var req employeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	code := strings.TrimSpace(req.EmployeeID)
	var existing models.Employee
	if err := h.DB.Where("employee_code = ?", code).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "employeeId already exists"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}

	employee := models.Employee{EmployeeCode: code}
	if status, message := h.apply(&employee, req); message != "" {
		c.JSON(status, gin.H{"error": message})
		return
	}

	if err := h.DB.Create(&employee).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "employeeId already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}

	c.JSON(http.StatusCreated, employee)
}

func (h *EmployeeHandler) Update(c *gin.Context) {
	var req employeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	employeeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var employee models.Employee
	if err := h.DB.First(&employee, "id = ?", employeeID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "employee not found"})
		return
	}

	code := strings.TrimSpace(req.EmployeeID)
	var existing models.Employee
	if err := h.DB.Where("employee_code = ? AND id <> ?", code, employeeID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "employeeId already exists"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}

	employee.EmployeeCode = code
	if status, message := h.apply(&employee, req); message != "" {
		c.JSON(status, gin.H{"error": message})
		return
	}
	employee.Project, employee.Location = nil, nil

	if err := h.DB.Save(&employee).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}

	c.JSON(http.StatusOK, employee)
}

// apply copies the request onto employee, returning a status and message
// when the request cannot be applied.
func (h *EmployeeHandler) apply(employee *models.Employee, req employeeRequest) (int, string) {
	classification, err := resolveClassification(h.DB, req.Category, req.Classification)
	if err != nil {
		if errors.Is(err, errNoRoleMapping) {
			return http.StatusBadRequest, err.Error()
		}
		return http.StatusInternalServerError, "role mapping lookup failed"
	}

	projectID, locationID, message := resolveAssignment(h.DB, req.ProjectID, req.LocationID)
	if message != "" {
		return http.StatusBadRequest, message
	}

	var hiredAt *time.Time
	if strings.TrimSpace(req.HiredAt) != "" {
		parsed, err := time.Parse(attendance.DateLayout, strings.TrimSpace(req.HiredAt))
		if err != nil {
			return http.StatusBadRequest, "invalid hiredAt"
		}
		hiredAt = &parsed
	}

	status := req.EmploymentStatus
	if status == "" {
		status = models.EmploymentActive
	}

	employee.FirstName = strings.TrimSpace(req.FirstName)
	employee.LastName = strings.TrimSpace(req.LastName)
	employee.Classification = classification
	employee.Category = strings.TrimSpace(req.Category)
	employee.Entity = strings.TrimSpace(req.Entity)
	employee.EmploymentStatus = status
	employee.ProjectID = projectID
	employee.LocationID = locationID
	employee.Phone = strings.TrimSpace(req.Phone)
	employee.HiredAt = hiredAt
	return 0, ""
}

func (h *EmployeeHandler) Assign(c *gin.Context) {
	var req assignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	employeeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var employee models.Employee
	if err := h.DB.First(&employee, "id = ?", employeeID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "employee not found"})
		return
	}

	projectID, locationID, message := resolveAssignment(h.DB, req.ProjectID, req.LocationID)
	if message != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": message})
		return
	}

	if err := h.DB.Model(&employee).Updates(map[string]any{
		"project_id":  projectID,
		"location_id": locationID,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "assignment failed"})
		return
	}

	if err := h.DB.Preload("Project").Preload("Location").First(&employee, "id = ?", employeeID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "assignment failed"})
		return
	}
	c.JSON(http.StatusOK, employee)
}

func (h *EmployeeHandler) Delete(c *gin.Context) {
	employeeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var employee models.Employee
	if err := h.DB.First(&employee, "id = ?", employeeID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "employee not found"})
		return
	}

	if err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("employee_id = ?", employeeID).Delete(&models.Attendance{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Employee{}, "id = ?", employeeID).Error
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
