package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/schoolrecords/internal/app/models/dto"
	"github.com/yigit/schoolrecords/internal/app/services"
	"github.com/yigit/schoolrecords/internal/middleware"
	"github.com/yigit/schoolrecords/internal/pkg/apperrors"
	"github.com/yigit/schoolrecords/internal/pkg/helpers"
)

// StudentController handles student-related operations
type StudentController struct {
	studentService services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService) *StudentController {
	return &StudentController{studentService: studentService}
}

// CreateStudent handles student creation
// @Summary Create a new student
// @Description Creates a student. A faculty reference must point to an existing faculty;
// @Description the stored student carries a snapshot of that faculty.
// @Tags students
// @Accept json
// @Produce json
// @Param request body dto.StudentRequest true "Student information"
// @Success 201 {object} dto.APIResponse{data=models.Student} "Student created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or unknown faculty"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	var req dto.StudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	student, err := c.studentService.CreateStudent(ctx, req.ToInput())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(student))
}

// GetStudentByID retrieves a student by ID
// @Summary Get student details
// @Tags students
// @Produce json
// @Param id path int true "Student ID" Format(int64)
// @Success 200 {object} dto.APIResponse{data=models.Student}
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID format"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [get]
func (c *StudentController) GetStudentByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Student")
	if !ok {
		return
	}

	student, err := c.studentService.GetStudentByID(ctx, id)
	respond(ctx, student, err)
}

// GetStudents lists students, optionally filtered or paginated
// @Summary List students
// @Description age filters by exact age, minAge and maxAge by an inclusive range,
// @Description page and size return one page. Without parameters all students are returned.
// @Tags students
// @Produce json
// @Param age query int false "Exact age"
// @Param minAge query int false "Lower age bound (inclusive)"
// @Param maxAge query int false "Upper age bound (inclusive)"
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=[]models.Student}
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Router /students [get]
func (c *StudentController) GetStudents(ctx *gin.Context) {
	age, hasAge, ok := parseIntQuery(ctx, "age")
	if !ok {
		return
	}
	if hasAge {
		students, err := c.studentService.FilterByAge(ctx, age)
		respond(ctx, students, err)
		return
	}

	minAge, hasMin, ok := parseIntQuery(ctx, "minAge")
	if !ok {
		return
	}
	maxAge, hasMax, ok := parseIntQuery(ctx, "maxAge")
	if !ok {
		return
	}
	if hasMin || hasMax {
		if !hasMin || !hasMax {
			middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("minAge and maxAge must be given together"))
			return
		}
		students, err := c.studentService.FilterByAgeRange(ctx, minAge, maxAge)
		respond(ctx, students, err)
		return
	}

	if wantsPage(ctx) {
		page, size := helpers.ParsePaginationParams(ctx)
		result, err := c.studentService.ListStudents(ctx, page, size)
		respond(ctx, result, err)
		return
	}

	students, err := c.studentService.GetAllStudents(ctx)
	respond(ctx, students, err)
}

// UpdateStudent updates an existing student
// @Summary Update student
// @Description Replaces name, age and faculty of a student. The id in the path wins over any id in the body.
// @Tags students
// @Accept json
// @Produce json
// @Param id path int true "Student ID" Format(int64)
// @Param request body dto.StudentRequest true "Student information"
// @Success 200 {object} dto.APIResponse{data=models.Student}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or unknown faculty"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [put]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Student")
	if !ok {
		return
	}

	var req dto.StudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	student, err := c.studentService.UpdateStudent(ctx, id, req.ToInput())
	respond(ctx, student, err)
}

// DeleteStudent deletes a student and its avatar
// @Summary Delete student
// @Tags students
// @Produce json
// @Param id path int true "Student ID" Format(int64)
// @Success 200 {object} dto.APIResponse{data=models.Student} "Removed student"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Student")
	if !ok {
		return
	}

	student, err := c.studentService.DeleteStudent(ctx, id)
	respond(ctx, student, err)
}

// GetStudentFaculty returns the faculty snapshot of a student
// @Summary Faculty of a student
// @Tags students
// @Produce json
// @Param id path int true "Student ID" Format(int64)
// @Success 200 {object} dto.APIResponse{data=models.Faculty} "Faculty, or null when the student has none"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id}/faculty [get]
func (c *StudentController) GetStudentFaculty(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Student")
	if !ok {
		return
	}

	faculty, err := c.studentService.GetStudentFaculty(ctx, id)
	respond(ctx, faculty, err)
}

// GetStats returns the number of students and their average age
// @Summary Student statistics
// @Tags students
// @Produce json
// @Success 200 {object} dto.APIResponse{data=models.StudentStats}
// @Router /students/stats [get]
func (c *StudentController) GetStats(ctx *gin.Context) {
	stats, err := c.studentService.Stats(ctx)
	respond(ctx, stats, err)
}

// GetLatest returns the most recently created students
// @Summary Latest students
// @Tags students
// @Produce json
// @Param limit query int false "Number of students (default 5, max 100)"
// @Success 200 {object} dto.APIResponse{data=[]models.Student}
// @Failure 400 {object} dto.ErrorResponse "Invalid limit"
// @Router /students/latest [get]
func (c *StudentController) GetLatest(ctx *gin.Context) {
	limit, _, ok := parseIntQuery(ctx, "limit")
	if !ok {
		return
	}

	students, err := c.studentService.LatestStudents(ctx, limit)
	respond(ctx, students, err)
}

// GetNames returns upper-cased student names starting with a prefix
// @Summary Student names by prefix
// @Tags students
// @Produce json
// @Param prefix query string false "Name prefix, case-insensitive (default A)"
// @Success 200 {object} dto.APIResponse{data=[]string}
// @Router /students/names [get]
func (c *StudentController) GetNames(ctx *gin.Context) {
	names, err := c.studentService.NamesWithPrefix(ctx, ctx.DefaultQuery("prefix", "A"))
	respond(ctx, names, err)
}
