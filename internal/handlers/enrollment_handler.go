package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/models"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/repositories"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/services"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/utils"
)

type EnrollmentHandler struct {
	BaseHandler
	service services.EnrollmentService
}

func NewEnrollmentHandler(service services.EnrollmentService, logger utils.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== ENROLLMENT ENDPOINTS =====

// CheckEligibility runs the enrollment checks without enrolling
// @Summary Check enrollment eligibility
// @Description Runs the capacity and duplicate checks against live data. The result is advisory; enrolling re-checks.
// @Tags enrollments
// @Produce json
// @Param student_id query uint true "Student ID"
// @Param section_id query uint true "Section ID"
// @Success 200 {object} repositories.EnrollmentValidation
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 404 {object} ErrorResponse "Student or section not found"
// @Router /enrollments/eligibility [get]
func (h *EnrollmentHandler) CheckEligibility(c *gin.Context) {
	h.LogRequest(c, "Checking enrollment eligibility")

	studentID, err := strconv.ParseUint(c.Query("student_id"), 10, 32)
	if err != nil || studentID == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid student_id"})
		return
	}
	sectionID, err := strconv.ParseUint(c.Query("section_id"), 10, 32)
	if err != nil || sectionID == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid section_id"})
		return
	}

	validation, err := h.service.CheckEligibility(c.Request.Context(), uint(studentID), uint(sectionID))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, validation)
}

// Enroll enrolls a student into a section
// @Summary Enroll student
// @Description Enroll a student into a section. Fails with 422 when the section is full and 409 when already enrolled.
// @Tags enrollments
// @Accept json
// @Produce json
// @Param request body services.EnrollRequest true "Enrollment"
// @Success 201 {object} models.Enrollment
// @Failure 409 {object} ErrorResponse "Already enrolled in this section"
// @Failure 422 {object} ErrorResponse "Section is full"
// @Router /enrollments [post]
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	h.LogRequest(c, "Enrolling student")

	actorID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	var req services.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	enrollment, err := h.service.Enroll(c.Request.Context(), &req, actorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, enrollment)
}

// Drop drops an enrollment and releases the seat
// @Summary Drop enrollment
// @Tags enrollments
// @Produce json
// @Param id path uint true "Enrollment ID"
// @Success 200 {object} models.Enrollment
// @Failure 404 {object} ErrorResponse "Enrollment not found"
// @Failure 422 {object} ErrorResponse "Enrollment not in enrolled status"
// @Router /enrollments/{id}/drop [post]
func (h *EnrollmentHandler) Drop(c *gin.Context) {
	h.LogRequest(c, "Dropping enrollment")

	actorID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	enrollment, err := h.service.Drop(c.Request.Context(), id, actorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, enrollment)
}

// Complete marks an enrollment completed
// @Summary Complete enrollment
// @Tags enrollments
// @Produce json
// @Param id path uint true "Enrollment ID"
// @Success 200 {object} models.Enrollment
// @Failure 404 {object} ErrorResponse "Enrollment not found"
// @Router /enrollments/{id}/complete [post]
func (h *EnrollmentHandler) Complete(c *gin.Context) {
	h.LogRequest(c, "Completing enrollment")

	actorID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	enrollment, err := h.service.Complete(c.Request.Context(), id, actorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, enrollment)
}

// GetEnrollment returns one enrollment
// @Summary Get enrollment
// @Tags enrollments
// @Produce json
// @Param id path uint true "Enrollment ID"
// @Success 200 {object} models.Enrollment
// @Failure 404 {object} ErrorResponse "Enrollment not found"
// @Router /enrollments/{id} [get]
func (h *EnrollmentHandler) GetEnrollment(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	enrollment, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, enrollment)
}

// GetStudentEnrollments lists a student's enrollments
// @Summary List student enrollments
// @Tags enrollments
// @Produce json
// @Param student_id path uint true "Student ID"
// @Param status query string false "Filter by status: enrolled, completed, dropped"
// @Param term_id query int false "Filter by term"
// @Success 200 {array} models.Enrollment
// @Router /students/{student_id}/enrollments [get]
func (h *EnrollmentHandler) GetStudentEnrollments(c *gin.Context) {
	studentID := h.parseIDParam(c, "student_id")
	if studentID == 0 {
		return
	}

	enrollments, err := h.service.GetByStudent(c.Request.Context(), studentID, h.parseEnrollmentFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, enrollments)
}

// ListEnrollments lists enrollments with filters
// @Summary List enrollments
// @Tags enrollments
// @Produce json
// @Param section_id query int false "Filter by section"
// @Param term_id query int false "Filter by term"
// @Param status query string false "Filter by status"
// @Param from_date query string false "Filter from date (RFC3339)"
// @Param to_date query string false "Filter to date (RFC3339)"
// @Success 200 {object} services.EnrollmentListResponse
// @Router /enrollments [get]
func (h *EnrollmentHandler) ListEnrollments(c *gin.Context) {
	resp, err := h.service.List(c.Request.Context(), h.parseEnrollmentFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *EnrollmentHandler) parseEnrollmentFilters(c *gin.Context) repositories.EnrollmentFilters {
	limit, offset := h.parsePagination(c)
	filters := repositories.EnrollmentFilters{
		Limit:     limit,
		Offset:    offset,
		SortBy:    c.DefaultQuery("sort_by", "created_at"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
	}

	for param, target := range map[string]**uint{
		"student_id": &filters.StudentID,
		"section_id": &filters.SectionID,
		"term_id":    &filters.TermID,
	} {
		if valueStr := c.Query(param); valueStr != "" {
			if parsed, err := strconv.ParseUint(valueStr, 10, 32); err == nil {
				value := uint(parsed)
				*target = &value
			}
		}
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status := models.EnrollmentStatus(statusStr)
		filters.Status = &status
	}
	if fromStr := c.Query("from_date"); fromStr != "" {
		if parsed, err := time.Parse(time.RFC3339, fromStr); err == nil {
			filters.DateFrom = &parsed
		}
	}
	if toStr := c.Query("to_date"); toStr != "" {
		if parsed, err := time.Parse(time.RFC3339, toStr); err == nil {
			filters.DateTo = &parsed
		}
	}

	return filters
}
