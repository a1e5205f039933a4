package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/models"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/repositories"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/services"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/utils"
)

type StudentHandler struct {
	BaseHandler
	service services.StudentService
}

func NewStudentHandler(service services.StudentService, logger utils.Logger) *StudentHandler {
	return &StudentHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== STUDENT ENDPOINTS =====

// CreateStudent creates a student record
// @Summary Create student
// @Tags students
// @Accept json
// @Produce json
// @Param request body services.CreateStudentRequest true "Student fields"
// @Success 201 {object} models.Student
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 409 {object} ErrorResponse "Duplicate student"
// @Router /students [post]
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	h.LogRequest(c, "Creating student")

	actorID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	var req services.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	student, err := h.service.Create(c.Request.Context(), &req, actorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, student)
}

// GetStudent returns one student by id
// @Summary Get student
// @Tags students
// @Produce json
// @Param id path uint true "Student ID"
// @Success 200 {object} models.Student
// @Failure 404 {object} ErrorResponse "Student not found"
// @Router /students/{id} [get]
func (h *StudentHandler) GetStudent(c *gin.Context) {
	h.LogRequest(c, "Getting student")

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	student, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

// GetMyStudentRecord returns the caller's own student record
// @Summary Get own student record
// @Tags students
// @Produce json
// @Success 200 {object} models.Student
// @Failure 404 {object} ErrorResponse "Student not found"
// @Router /students/me [get]
func (h *StudentHandler) GetMyStudentRecord(c *gin.Context) {
	h.LogRequest(c, "Getting own student record")

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	student, err := h.service.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

// UpdateStudent updates a student record
// @Summary Update student
// @Tags students
// @Accept json
// @Produce json
// @Param id path uint true "Student ID"
// @Param request body services.UpdateStudentRequest true "Fields to update"
// @Success 200 {object} models.Student
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 404 {object} ErrorResponse "Student not found"
// @Router /students/{id} [put]
func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	h.LogRequest(c, "Updating student")

	actorID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	student, err := h.service.Update(c.Request.Context(), id, &req, actorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

// DeleteStudent removes a student record
// @Summary Delete student
// @Tags students
// @Produce json
// @Param id path uint true "Student ID"
// @Success 204 "No content"
// @Failure 404 {object} ErrorResponse "Student not found"
// @Router /students/{id} [delete]
func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	h.LogRequest(c, "Deleting student")

	actorID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, actorID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListStudents lists students with filters
// @Summary List students
// @Tags students
// @Produce json
// @Param q query string false "Search by name, email or student number"
// @Param program_id query int false "Filter by program"
// @Param year_level query int false "Filter by year level"
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 20, max: 100)"
// @Success 200 {object} services.StudentListResponse
// @Router /students [get]
func (h *StudentHandler) ListStudents(c *gin.Context) {
	h.LogRequest(c, "Listing students")

	filters := h.parseStudentFilters(c)

	var resp *services.StudentListResponse
	var err error
	if query := c.Query("q"); query != "" {
		resp, err = h.service.Search(c.Request.Context(), query, filters)
	} else {
		resp, err = h.service.List(c.Request.Context(), filters)
	}
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetStudentsByProgram lists the students enrolled in a program
// @Summary List students by program
// @Tags students
// @Produce json
// @Param program_id path uint true "Program ID"
// @Success 200 {object} services.StudentListResponse
// @Failure 404 {object} ErrorResponse "Program not found"
// @Router /programs/{program_id}/students [get]
func (h *StudentHandler) GetStudentsByProgram(c *gin.Context) {
	h.LogRequest(c, "Listing students by program")

	programID := h.parseIDParam(c, "program_id")
	if programID == 0 {
		return
	}

	resp, err := h.service.GetByProgram(c.Request.Context(), programID, h.parseStudentFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *StudentHandler) parseStudentFilters(c *gin.Context) repositories.StudentFilters {
	limit, offset := h.parsePagination(c)
	filters := repositories.StudentFilters{
		Limit:     limit,
		Offset:    offset,
		SortBy:    c.DefaultQuery("sort_by", "created_at"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
	}

	if programIDStr := c.Query("program_id"); programIDStr != "" {
		if id, err := strconv.ParseUint(programIDStr, 10, 32); err == nil {
			programID := uint(id)
			filters.ProgramID = &programID
		}
	}
	if yearStr := c.Query("year_level"); yearStr != "" {
		if year, err := strconv.Atoi(yearStr); err == nil {
			filters.YearLevel = &year
		}
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status := models.UserStatus(statusStr)
		filters.Status = &status
	}

	return filters
}
