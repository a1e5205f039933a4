package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/services"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/utils"
)

type FacultyHandler struct {
	BaseHandler
	service services.FacultyService
}

func NewFacultyHandler(service services.FacultyService, logger utils.Logger) *FacultyHandler {
	return &FacultyHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// createFacultyRequest is the body for creating a faculty record.
type createFacultyRequest struct {
	UserID     string  `json:"user_id" binding:"required"`
	Title      string  `json:"title"`
	Department string  `json:"department"`
	Phone      *string `json:"phone"`
}

// ===== FACULTY ENDPOINTS =====

// CreateFaculty creates a faculty record for an existing user
// @Summary Create faculty record
// @Tags faculty
// @Accept json
// @Produce json
// @Param request body createFacultyRequest true "Faculty fields"
// @Success 201 {object} models.Faculty
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 409 {object} ErrorResponse "Faculty record already exists"
// @Router /faculty [post]
func (h *FacultyHandler) CreateFaculty(c *gin.Context) {
	h.LogRequest(c, "Creating faculty record")

	var req createFacultyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	faculty, err := h.service.Create(c.Request.Context(), req.UserID, req.Title, req.Department, req.Phone)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, faculty)
}

// GetFaculty returns one faculty record
// @Summary Get faculty
// @Tags faculty
// @Produce json
// @Param id path uint true "Faculty ID"
// @Success 200 {object} models.Faculty
// @Failure 404 {object} ErrorResponse "Faculty not found"
// @Router /faculty/{id} [get]
func (h *FacultyHandler) GetFaculty(c *gin.Context) {
	h.LogRequest(c, "Getting faculty")

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	faculty, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, faculty)
}

// ListFaculty lists the faculty directory
// @Summary List faculty
// @Description Lists faculty records; when none exist yet the directory is served from faculty-role users.
// @Tags faculty
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 20, max: 100)"
// @Success 200 {object} services.FacultyListResponse
// @Router /faculty [get]
func (h *FacultyHandler) ListFaculty(c *gin.Context) {
	h.LogRequest(c, "Listing faculty")

	limit, offset := h.parsePagination(c)

	resp, err := h.service.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetFacultySections lists the sections taught by a faculty member
// @Summary Get faculty sections
// @Tags faculty
// @Produce json
// @Param id path uint true "Faculty ID"
// @Param term_id query int false "Filter by term"
// @Success 200 {array} models.CourseSection
// @Failure 404 {object} ErrorResponse "Faculty not found"
// @Router /faculty/{id}/sections [get]
func (h *FacultyHandler) GetFacultySections(c *gin.Context) {
	h.LogRequest(c, "Getting faculty sections")

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var termID *uint
	if termIDStr := c.Query("term_id"); termIDStr != "" {
		if parsed, err := strconv.ParseUint(termIDStr, 10, 32); err == nil {
			tid := uint(parsed)
			termID = &tid
		}
	}

	sections, err := h.service.GetSections(c.Request.Context(), id, termID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, sections)
}

// DeleteFaculty removes a faculty record
// @Summary Delete faculty
// @Tags faculty
// @Produce json
// @Param id path uint true "Faculty ID"
// @Success 204 "No content"
// @Failure 404 {object} ErrorResponse "Faculty not found"
// @Router /faculty/{id} [delete]
func (h *FacultyHandler) DeleteFaculty(c *gin.Context) {
	h.LogRequest(c, "Deleting faculty")

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
