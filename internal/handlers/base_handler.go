package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/services"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/utils"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/validator"
)

// ErrorResponse is the JSON error body returned by all handlers.
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// BaseHandler carries the pieces every handler shares.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (b BaseHandler) LogRequest(c *gin.Context, msg string) {
	b.logger.Debug(msg,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"request_id", c.GetString("request_id"))
}

func (b BaseHandler) LogError(c *gin.Context, err error, msg string) {
	b.logger.Error(msg,
		"error", err,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"request_id", c.GetString("request_id"))
}

// parseIDParam parses a numeric path parameter. On failure it writes the 400
// response itself and returns 0.
func (b BaseHandler) parseIDParam(c *gin.Context, param string) uint {
	idStr := c.Param(param)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "ID must be a valid number",
		})
		return 0
	}
	return uint(id)
}

// requireUserID pulls the authenticated user id set by the auth middleware.
// Writes the 401 response itself when missing.
func (b BaseHandler) requireUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return "", false
	}

	id, ok := userID.(string)
	if !ok || id == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return "", false
	}
	return id, true
}

// parsePagination reads page/size query parameters with the usual bounds.
func (b BaseHandler) parsePagination(c *gin.Context) (limit, offset int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	size, err := strconv.Atoi(c.DefaultQuery("size", "20"))
	if err != nil || size < 1 {
		size = 20
	}
	if size > 100 {
		size = 100
	}

	return size, (page - 1) * size
}

// handleServiceError maps service errors to HTTP status codes.
func (b BaseHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case validator.IsValidationError(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrSectionFull),
		errors.Is(err, services.ErrEnrollmentClosed):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrEmptyRosterExport),
		errors.Is(err, services.ErrInvalidGrade):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: err.Error(),
		})
	case services.IsConflictError(err):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Forbidden",
			Details: err.Error(),
		})
	case services.IsNotFoundError(err):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: err.Error(),
		})
	default:
		b.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
