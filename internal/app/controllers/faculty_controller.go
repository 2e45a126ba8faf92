package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/schoolrecords/internal/app/models/dto"
	"github.com/yigit/schoolrecords/internal/app/services"
	"github.com/yigit/schoolrecords/internal/middleware"
	"github.com/yigit/schoolrecords/internal/pkg/helpers"
)

// FacultyController handles faculty-related operations
type FacultyController struct {
	facultyService services.FacultyService
	studentService services.StudentService
}

// NewFacultyController creates a new FacultyController
func NewFacultyController(facultyService services.FacultyService, studentService services.StudentService) *FacultyController {
	return &FacultyController{
		facultyService: facultyService,
		studentService: studentService,
	}
}

// CreateFaculty handles faculty creation
// @Summary Create a new faculty
// @Description Creates a new faculty. Any id in the body is ignored.
// @Tags faculties
// @Accept json
// @Produce json
// @Param request body dto.FacultyRequest true "Faculty information"
// @Success 201 {object} dto.APIResponse{data=models.Faculty} "Faculty created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /faculties [post]
func (c *FacultyController) CreateFaculty(ctx *gin.Context) {
	var req dto.FacultyRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	faculty, err := c.facultyService.CreateFaculty(ctx, req.ToModel())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(faculty))
}

// GetFacultyByID retrieves a faculty by ID
// @Summary Get faculty details
// @Tags faculties
// @Produce json
// @Param id path int true "Faculty ID" Format(int64)
// @Success 200 {object} dto.APIResponse{data=models.Faculty} "Faculty retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid faculty ID format"
// @Failure 404 {object} dto.ErrorResponse "Faculty not found"
// @Router /faculties/{id} [get]
func (c *FacultyController) GetFacultyByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Faculty")
	if !ok {
		return
	}

	faculty, err := c.facultyService.GetFacultyByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(faculty))
}

// GetFaculties lists faculties, optionally filtered or paginated
// @Summary List faculties
// @Description color filters by exact color, colorOrName matches color or name ignoring case,
// @Description page and size return one page. Without parameters all faculties are returned.
// @Tags faculties
// @Produce json
// @Param color query string false "Exact color"
// @Param colorOrName query string false "Color or name, case-insensitive"
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=[]models.Faculty} "Faculties retrieved successfully"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /faculties [get]
func (c *FacultyController) GetFaculties(ctx *gin.Context) {
	if color, ok := ctx.GetQuery("color"); ok {
		faculties, err := c.facultyService.FilterByColor(ctx, color)
		respond(ctx, faculties, err)
		return
	}
	if term, ok := ctx.GetQuery("colorOrName"); ok {
		faculties, err := c.facultyService.FilterByColorOrName(ctx, term)
		respond(ctx, faculties, err)
		return
	}
	if wantsPage(ctx) {
		page, size := helpers.ParsePaginationParams(ctx)
		result, err := c.facultyService.ListFaculties(ctx, page, size)
		respond(ctx, result, err)
		return
	}

	faculties, err := c.facultyService.GetAllFaculties(ctx)
	respond(ctx, faculties, err)
}

// UpdateFaculty updates an existing faculty
// @Summary Update faculty
// @Tags faculties
// @Accept json
// @Produce json
// @Param id path int true "Faculty ID" Format(int64)
// @Param request body dto.FacultyRequest true "Faculty information"
// @Success 200 {object} dto.APIResponse{data=models.Faculty} "Faculty updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Faculty not found"
// @Router /faculties/{id} [put]
func (c *FacultyController) UpdateFaculty(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Faculty")
	if !ok {
		return
	}

	var req dto.FacultyRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	faculty, err := c.facultyService.UpdateFaculty(ctx, id, req.ToModel())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(faculty))
}

// DeleteFaculty deletes a faculty
// @Summary Delete faculty
// @Description Removes a faculty and returns it. Students keep their faculty snapshot.
// @Tags faculties
// @Produce json
// @Param id path int true "Faculty ID" Format(int64)
// @Success 200 {object} dto.APIResponse{data=models.Faculty} "Faculty deleted successfully"
// @Failure 404 {object} dto.ErrorResponse "Faculty not found"
// @Router /faculties/{id} [delete]
func (c *FacultyController) DeleteFaculty(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Faculty")
	if !ok {
		return
	}

	faculty, err := c.facultyService.DeleteFaculty(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(faculty))
}

// GetLongestName returns the longest faculty name
// @Summary Longest faculty name
// @Tags faculties
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.FacultyNameResponse}
// @Failure 404 {object} dto.ErrorResponse "No faculties stored"
// @Router /faculties/longest-name [get]
func (c *FacultyController) GetLongestName(ctx *gin.Context) {
	name, err := c.facultyService.LongestName(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FacultyNameResponse{Name: name}))
}

// GetFacultyStudents lists students whose faculty snapshot has the given id
// @Summary Students of a faculty
// @Description Pure filter over stored students; the faculty is not required to exist.
// @Tags faculties
// @Produce json
// @Param id path int true "Faculty ID" Format(int64)
// @Success 200 {object} dto.APIResponse{data=[]models.Student}
// @Router /faculties/{id}/students [get]
func (c *FacultyController) GetFacultyStudents(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Faculty")
	if !ok {
		return
	}

	students, err := c.studentService.FindByFacultyID(ctx, id)
	respond(ctx, students, err)
}
