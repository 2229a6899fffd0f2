package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/mkaya/vaxtrack/internal/app/controllers"
	"github.com/mkaya/vaxtrack/internal/app/models/dto"
	"github.com/mkaya/vaxtrack/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	studentController *controllers.StudentController,
	driveController *controllers.DriveController,
	vaccinationController *controllers.VaccinationController,
	dashboardController *controllers.DashboardController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/logout", authController.Logout)
		authenticated.GET("/auth/me", authController.GetCurrentUser)

		// Student routes
		students := authenticated.Group("/students")
		{
			students.GET("", studentController.GetAllStudents)
			students.POST("", studentController.CreateStudent)
			students.POST("/bulk", studentController.BulkCreateStudents)
			students.POST("/import", studentController.ImportStudents)
			students.GET("/by-student-id/:studentId", studentController.GetStudentByStudentID)
			students.GET("/:id", studentController.GetStudentByID)
			students.PUT("/:id", studentController.UpdateStudent)
			students.DELETE("/:id", studentController.DeleteStudent)
		}

		// Vaccination drive routes
		drives := authenticated.Group("/vaccination-drives")
		{
			drives.GET("", driveController.GetAllDrives)
			drives.POST("", driveController.CreateDrive)
			drives.GET("/upcoming", driveController.GetUpcomingDrives)
			drives.GET("/:id", driveController.GetDriveByID)
			drives.PUT("/:id", driveController.UpdateDrive)
			drives.DELETE("/:id", driveController.DeleteDrive)
			drives.POST("/:id/complete", driveController.CompleteDrive)
		}

		// Vaccination ledger routes
		vaccinations := authenticated.Group("/vaccinations")
		{
			vaccinations.GET("", vaccinationController.GetAllVaccinations)
			vaccinations.POST("", vaccinationController.RecordVaccination)
			vaccinations.GET("/report", vaccinationController.GetVaccinationReport)
			vaccinations.GET("/student/:studentId", vaccinationController.GetStudentVaccinations)
			vaccinations.GET("/drive/:driveId", vaccinationController.GetDriveVaccinations)
			vaccinations.GET("/status/:studentId", vaccinationController.GetVaccinationStatus)
		}

		// Dashboard routes
		dashboard := authenticated.Group("/dashboard")
		{
			dashboard.GET("/stats", dashboardController.GetStats)
			dashboard.GET("/vaccination-stats", dashboardController.GetVaccinationStats)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})

	// Swagger routes are set up in bootstrap.go already
}
