package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/schoolrecords/internal/app/controllers"
	"github.com/yigit/schoolrecords/internal/app/models/dto"
	"github.com/yigit/schoolrecords/internal/middleware"
)

// NewEngine creates a gin engine with the standard middleware chain
func NewEngine() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())
	router.MaxMultipartMemory = controllers.MaxAvatarSize + 1<<20
	return router
}

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	studentController *controllers.StudentController,
	facultyController *controllers.FacultyController,
	avatarController *controllers.AvatarController,
) {
	// API version group
	v1 := router.Group("/api/v1")

	students := v1.Group("/students")
	{
		students.POST("", studentController.CreateStudent)
		students.GET("", studentController.GetStudents)
		students.GET("/stats", studentController.GetStats)
		students.GET("/latest", studentController.GetLatest)
		students.GET("/names", studentController.GetNames)
		students.GET("/:id", studentController.GetStudentByID)
		students.PUT("/:id", studentController.UpdateStudent)
		students.DELETE("/:id", studentController.DeleteStudent)
		students.GET("/:id/faculty", studentController.GetStudentFaculty)
		students.POST("/:id/avatar", avatarController.UploadAvatar)
		students.GET("/:id/avatar", avatarController.GetAvatar)
	}

	faculties := v1.Group("/faculties")
	{
		faculties.POST("", facultyController.CreateFaculty)
		faculties.GET("", facultyController.GetFaculties)
		faculties.GET("/longest-name", facultyController.GetLongestName)
		faculties.GET("/:id", facultyController.GetFacultyByID)
		faculties.PUT("/:id", facultyController.UpdateFaculty)
		faculties.DELETE("/:id", facultyController.DeleteFaculty)
		faculties.GET("/:id/students", facultyController.GetFacultyStudents)
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"status": "ok"}))
	})

	// Test endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})
}
