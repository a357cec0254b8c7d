package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"workforce-attendance/internal/models"
)

type RoleMappingHandler struct {
	DB *gorm.DB
}

type roleMappingItem struct {
	Category       string `json:"category" binding:"required,max=120"`
	Classification string `json:"classification" binding:"required,classification"`
	Description    string `json:"description" binding:"max=500"`
}

type roleMappingRequest struct {
	Mappings         []roleMappingItem `json:"mappings" binding:"required,min=1,dive"`
	ApplyToEmployees bool              `json:"applyToEmployees"`
}

func NewRoleMappingHandler(db *gorm.DB) *RoleMappingHandler {
	return &RoleMappingHandler{DB: db}
}

func (h *RoleMappingHandler) List(c *gin.Context) {
	var mappings []models.RoleMapping
	if err := h.DB.Order("category asc").Find(&mappings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load role mappings"})
		return
	}
	c.JSON(http.StatusOK, mappings)
}

// Upsert writes the mappings keyed by category. With applyToEmployees the
// classification of every employee in a mapped category is rewritten.
func (h *RoleMappingHandler) Upsert(c *gin.Context) {
	var req roleMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	var stored []models.RoleMapping
	if err := h.DB.Find(&stored).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	// Categories match case-insensitively; an existing row keeps its spelling
	// so the upsert lands on it.
	spelling := make(map[string]string, len(stored))
	for _, mapping := range stored {
		spelling[strings.ToLower(mapping.Category)] = mapping.Category
	}

	seen := map[string]bool{}
	mappings := make([]models.RoleMapping, 0, len(req.Mappings))
	for _, item := range req.Mappings {
		category := strings.TrimSpace(item.Category)
		key := strings.ToLower(category)
		if category == "" || seen[key] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "duplicate or blank category: " + item.Category})
			return
		}
		seen[key] = true
		if existing, ok := spelling[key]; ok {
			category = existing
		}
		mappings = append(mappings, models.RoleMapping{
			ID:             uuid.New(),
			Category:       category,
			Classification: item.Classification,
			Description:    strings.TrimSpace(item.Description),
		})
	}

	var updated int64
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "category"}},
			DoUpdates: clause.AssignmentColumns([]string{"classification", "description", "updated_at"}),
		}).Create(&mappings).Error; err != nil {
			return err
		}
		if !req.ApplyToEmployees {
			return nil
		}
		for _, mapping := range mappings {
			result := tx.Model(&models.Employee{}).
				Where("LOWER(category) = ?", strings.ToLower(mapping.Category)).
				Update("classification", mapping.Classification)
			if result.Error != nil {
				return result.Error
			}
			updated += result.RowsAffected
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}

	var saved []models.RoleMapping
	if err := h.DB.Order("category asc").Find(&saved).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load role mappings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"mappings": saved, "employeesUpdated": updated})
}

func (h *RoleMappingHandler) Delete(c *gin.Context) {
	mappingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var mapping models.RoleMapping
	if err := h.DB.First(&mapping, "id = ?", mappingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "role mapping not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if err := h.DB.Delete(&mapping).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
