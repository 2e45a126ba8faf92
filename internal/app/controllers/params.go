package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/schoolrecords/internal/app/models/dto"
	"github.com/yigit/schoolrecords/internal/middleware"
)

// parseIDParam reads a numeric path parameter. On failure it writes a 400
// response and returns false.
func parseIDParam(ctx *gin.Context, name, label string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+label+" ID").
			WithField(name).
			WithDetails(label + " ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// parseIntQuery reads an optional integer query parameter. present is false
// when the parameter is absent; ok is false after a 400 response was written.
func parseIntQuery(ctx *gin.Context, name string) (value int, present, ok bool) {
	raw, present := ctx.GetQuery(name)
	if !present {
		return 0, false, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid query parameter").
			WithField(name).
			WithDetails(fmt.Sprintf("%s must be an integer", name))
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, true, false
	}
	return value, true, true
}

// wantsPage reports whether the request asks for a paginated list
func wantsPage(ctx *gin.Context) bool {
	_, page := ctx.GetQuery("page")
	_, size := ctx.GetQuery("size")
	return page || size
}

// respond writes data with 200 or hands err to the central error handler
func respond(ctx *gin.Context, data interface{}, err error) {
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}
