package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"workforce-attendance/internal/models"
)

type ProjectHandler struct {
	DB *gorm.DB
}

type projectRequest struct {
	Code       string `json:"code" binding:"required,max=64"`
	Name       string `json:"name" binding:"required,max=255"`
	Entity     string `json:"entity" binding:"max=255"`
	LocationID string `json:"locationId"`
	Active     *bool  `json:"active"`
}

type locationRequest struct {
	Name     string            `json:"name" binding:"required,max=255"`
	Address  string            `json:"address" binding:"max=500"`
	Geofence []models.GeoPoint `json:"geofence"`
}

func NewProjectHandler(db *gorm.DB) *ProjectHandler {
	return &ProjectHandler{DB: db}
}

// validGeofence accepts no polygon or a polygon of at least three
// vertices with coordinates in range.
func validGeofence(points []models.GeoPoint) bool {
	if len(points) == 0 {
		return true
	}
	if len(points) < 3 {
		return false
	}
	for _, p := range points {
		if p.Lat < -90 || p.Lat > 90 || p.Lng < -180 || p.Lng > 180 {
			return false
		}
	}
	return true
}

func (h *ProjectHandler) ListProjects(c *gin.Context) {
	query := h.DB.Preload("Location").Order("code asc")
	if c.Query("active") == "true" {
		query = query.Where("active = ?", true)
	}
	var projects []models.Project
	if err := query.Find(&projects).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load projects"})
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	var existing models.Project
	if err := h.DB.Where("code = ?", strings.TrimSpace(req.Code)).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "project code already exists"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}

	project := models.Project{Active: true}
	if message := h.applyProject(&project, req); message != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": message})
		return
	}

	if err := h.DB.Create(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "project code already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var project models.Project
	if err := h.DB.First(&project, "id = ?", projectID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}

	if message := h.applyProject(&project, req); message != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": message})
		return
	}
	project.Location = nil

	if err := h.DB.Save(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "project code already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) applyProject(project *models.Project, req projectRequest) string {
	locationID, err := parseOptionalUUID(req.LocationID)
	if err != nil {
		return "invalid locationId"
	}
	if locationID != nil {
		var location models.Location
		if err := h.DB.First(&location, "id = ?", *locationID).Error; err != nil {
			return "location not found"
		}
	}

	project.Code = strings.TrimSpace(req.Code)
	project.Name = strings.TrimSpace(req.Name)
	project.Entity = strings.TrimSpace(req.Entity)
	project.LocationID = locationID
	if req.Active != nil {
		project.Active = *req.Active
	}
	return ""
}

func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var marks int64
	if err := h.DB.Model(&models.Attendance{}).Where("project_id = ?", projectID).Count(&marks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if marks > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "project has attendance; deactivate it instead"})
		return
	}

	result := h.DB.Delete(&models.Project{}, "id = ?", projectID)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (h *ProjectHandler) ListLocations(c *gin.Context) {
	var locations []models.Location
	if err := h.DB.Order("name asc").Find(&locations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load locations"})
		return
	}
	c.JSON(http.StatusOK, locations)
}

func (h *ProjectHandler) CreateLocation(c *gin.Context) {
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	if !validGeofence(req.Geofence) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "geofence needs at least 3 valid points"})
		return
	}

	location := models.Location{
		Name:     strings.TrimSpace(req.Name),
		Address:  strings.TrimSpace(req.Address),
		Geofence: datatypes.NewJSONType(req.Geofence),
	}
	if err := h.DB.Create(&location).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, location)
}

func (h *ProjectHandler) UpdateLocation(c *gin.Context) {
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	if !validGeofence(req.Geofence) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "geofence needs at least 3 valid points"})
		return
	}

	locationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var location models.Location
	if err := h.DB.First(&location, "id = ?", locationID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
		return
	}

	location.Name = strings.TrimSpace(req.Name)
	location.Address = strings.TrimSpace(req.Address)
	location.Geofence = datatypes.NewJSONType(req.Geofence)
	if err := h.DB.Save(&location).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, location)
}

func (h *ProjectHandler) DeleteLocation(c *gin.Context) {
	locationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Project{}).Where("location_id = ?", locationID).Update("location_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Employee{}).Where("location_id = ?", locationID).Update("location_id", nil).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Location{}, "id = ?", locationID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
