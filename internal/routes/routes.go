package routes

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"workforce-attendance/internal/config"
	"workforce-attendance/internal/handlers"
	"workforce-attendance/internal/middleware"
)

func Register(router *gin.Engine, db *gorm.DB, cfg config.Config) error {
	if err := handlers.RegisterValidators(); err != nil {
		return err
	}

	router.Use(corsMiddleware(cfg.AllowedOriginsRaw))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "workforce-attendance"})
	})

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	employeeHandler := handlers.NewEmployeeHandler(db)
	projectHandler := handlers.NewProjectHandler(db)
	roleMappingHandler := handlers.NewRoleMappingHandler(db)
	attendanceHandler := handlers.NewAttendanceHandler(db, cfg)
	reportHandler := handlers.NewReportHandler(db)
	dashboardHandler := handlers.NewDashboardHandler(db)
	settingsHandler := handlers.NewSettingsHandler(db, cfg)

	can := middleware.RequirePermission

	protected := router.Group("/api")
	protected.Use(middleware.Identify(cfg.JwtSecret, cfg.DefaultRole))
	{
		protected.GET("/dashboard", can(middleware.PermAttendanceRead), dashboardHandler.Get)
		protected.GET("/settings/attendance", can(middleware.PermAttendanceRead), settingsHandler.GetAttendance)
		protected.PUT("/settings/attendance", can(middleware.PermSettingsWrite), settingsHandler.UpdateAttendance)

		protected.GET("/employees", can(middleware.PermEmployeesRead), employeeHandler.List)
		protected.POST("/employees", can(middleware.PermEmployeesWrite), employeeHandler.Create)
		protected.PUT("/employees/:id", can(middleware.PermEmployeesWrite), employeeHandler.Update)
		protected.PUT("/employees/:id/assignment", can(middleware.PermEmployeesWrite), employeeHandler.Assign)
		protected.DELETE("/employees/:id", can(middleware.PermEmployeesWrite), employeeHandler.Delete)

		protected.GET("/role-mappings", can(middleware.PermEmployeesRead), roleMappingHandler.List)
		protected.PUT("/role-mappings", can(middleware.PermEmployeesWrite), roleMappingHandler.Upsert)
		protected.DELETE("/role-mappings/:id", can(middleware.PermEmployeesWrite), roleMappingHandler.Delete)

		protected.GET("/projects", can(middleware.PermProjectsRead), projectHandler.ListProjects)
		protected.POST("/projects", can(middleware.PermProjectsWrite), projectHandler.CreateProject)
		protected.PUT("/projects/:id", can(middleware.PermProjectsWrite), projectHandler.UpdateProject)
		protected.DELETE("/projects/:id", can(middleware.PermProjectsWrite), projectHandler.DeleteProject)
		protected.GET("/locations", can(middleware.PermProjectsRead), projectHandler.ListLocations)
		protected.POST("/locations", can(middleware.PermProjectsWrite), projectHandler.CreateLocation)
		protected.PUT("/locations/:id", can(middleware.PermProjectsWrite), projectHandler.UpdateLocation)
		protected.DELETE("/locations/:id", can(middleware.PermProjectsWrite), projectHandler.DeleteLocation)

		protected.GET("/attendance", can(middleware.PermAttendanceRead), attendanceHandler.List)
		protected.GET("/attendance/daily", can(middleware.PermAttendanceRead), attendanceHandler.Daily)
		protected.GET("/attendance/status/:employeeId", can(middleware.PermAttendanceRead), attendanceHandler.Status)
		protected.POST("/attendance/checkin", can(middleware.PermAttendanceWrite), attendanceHandler.CheckIn)
		protected.POST("/attendance/checkout", can(middleware.PermAttendanceWrite), attendanceHandler.CheckOut)
		protected.GET("/attendance/import/template", can(middleware.PermAttendanceImport), attendanceHandler.Template)
		protected.POST("/attendance/import", can(middleware.PermAttendanceImport), attendanceHandler.Import)
		protected.POST("/attendance/exceptions/sweep", can(middleware.PermAttendanceAdmin), attendanceHandler.Sweep)
		protected.POST("/attendance/:id/resolve", can(middleware.PermAttendanceAdmin), attendanceHandler.Resolve)
		protected.DELETE("/attendance/:id", can(middleware.PermAttendanceAdmin), attendanceHandler.Delete)

		protected.GET("/reports/summary", can(middleware.PermReportsRead), reportHandler.Summary)
		protected.GET("/reports/export", can(middleware.PermReportsRead), reportHandler.Export)
	}

	return nil
}

func corsMiddleware(allowed string) gin.HandlerFunc {
	origins := []string{}
	for _, origin := range strings.Split(allowed, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}

	allowAll := len(origins) == 0

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if allowAll {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			for _, allowedOrigin := range origins {
				if origin == allowedOrigin {
					c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
					c.Writer.Header().Set("Vary", "Origin")
					break
				}
			}
		}

		c.Writer.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
