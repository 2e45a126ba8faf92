package controllers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/schoolrecords/internal/app/models"
	"github.com/yigit/schoolrecords/internal/app/models/dto"
	"github.com/yigit/schoolrecords/internal/app/services"
	"github.com/yigit/schoolrecords/internal/middleware"
)

// MaxAvatarSize bounds the accepted avatar payload
const MaxAvatarSize = 5 << 20

// AvatarController handles avatar upload and download
type AvatarController struct {
	avatarService services.AvatarService
}

// NewAvatarController creates a new AvatarController
func NewAvatarController(avatarService services.AvatarService) *AvatarController {
	return &AvatarController{avatarService: avatarService}
}

// UploadAvatar stores the avatar of a student
// @Summary Upload student avatar
// @Description Stores the image in the avatar store and as a file. A second upload replaces the first.
// @Tags avatars
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Student ID" Format(int64)
// @Param avatar formData file true "Avatar image"
// @Success 200 {object} dto.APIResponse{data=dto.AvatarUploadResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid or missing file"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Avatar storage failure"
// @Router /students/{id}/avatar [post]
func (c *AvatarController) UploadAvatar(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Student")
	if !ok {
		return
	}

	file, err := ctx.FormFile("avatar")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid or missing file").
			WithField("avatar").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}
	if file.Size > MaxAvatarSize {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "File too large").
			WithField("avatar").
			WithDetails(fmt.Sprintf("avatar must not exceed %d bytes", MaxAvatarSize))
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	src, err := file.Open()
	if err != nil {
		middleware.HandleAPIError(ctx, fmt.Errorf("failed to open uploaded file: %w", err))
		return
	}
	defer src.Close()

	payload, err := io.ReadAll(src)
	if err != nil {
		middleware.HandleAPIError(ctx, fmt.Errorf("failed to read uploaded file: %w", err))
		return
	}

	avatar, err := c.avatarService.Upload(ctx, id, payload, file.Filename, file.Header.Get("Content-Type"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.AvatarUploadResponse{
		StudentID: avatar.StudentID,
		FileSize:  avatar.FileSize,
		MediaType: avatar.MediaType,
	}))
}

// GetAvatar returns the raw avatar bytes of a student
// @Summary Download student avatar
// @Description source=db reads the stored copy, source=fs reads the file. The two may differ.
// @Tags avatars
// @Produce octet-stream
// @Param id path int true "Student ID" Format(int64)
// @Param source query string false "db (default) or fs" Enums(db, fs)
// @Success 200 {file} binary
// @Failure 400 {object} dto.ErrorResponse "Invalid source"
// @Failure 404 {object} dto.ErrorResponse "Student has no avatar"
// @Failure 500 {object} dto.ErrorResponse "Avatar file unreadable"
// @Router /students/{id}/avatar [get]
func (c *AvatarController) GetAvatar(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Student")
	if !ok {
		return
	}

	var (
		content *models.AvatarContent
		err     error
	)
	switch dto.AvatarSource(ctx.DefaultQuery("source", string(dto.AvatarSourceDB))) {
	case dto.AvatarSourceDB:
		content, err = c.avatarService.GetFromStore(ctx, id)
	case dto.AvatarSourceFS:
		content, err = c.avatarService.GetFromFilesystem(ctx, id)
	default:
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid avatar source").
			WithField("source").
			WithDetails("source must be one of: db, fs")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Data(http.StatusOK, content.MediaType, content.Data)
}
