package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/repositories"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/services"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/utils"
)

type CatalogHandler struct {
	BaseHandler
	service services.CatalogService
}

func NewCatalogHandler(service services.CatalogService, logger utils.Logger) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== PROGRAM ENDPOINTS =====

// CreateProgram creates a degree program
// @Summary Create program
// @Tags catalog
// @Accept json
// @Produce json
// @Param request body services.CreateProgramRequest true "Program fields"
// @Success 201 {object} models.DegreeProgram
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 409 {object} ErrorResponse "Program code already in use"
// @Router /admin/programs [post]
func (h *CatalogHandler) CreateProgram(c *gin.Context) {
	h.LogRequest(c, "Creating program")

	actorID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	var req services.CreateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	program, err := h.service.CreateProgram(c.Request.Context(), &req, actorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, program)
}

// GetProgram returns one program
// @Summary Get program
// @Tags catalog
// @Produce json
// @Param id path uint true "Program ID"
// @Success 200 {object} models.DegreeProgram
// @Failure 404 {object} ErrorResponse "Program not found"
// @Router /programs/{id} [get]
func (h *CatalogHandler) GetProgram(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	program, err := h.service.GetProgram(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, program)
}

// UpdateProgram updates a program
// @Summary Update program
// @Tags catalog
// @Accept json
// @Produce json
// @Param id path uint true "Program ID"
// @Param request body services.UpdateProgramRequest true "Fields to update"
// @Success 200 {object} models.DegreeProgram
// @Failure 404 {object} ErrorResponse "Program not found"
// @Router /admin/programs/{id} [put]
func (h *CatalogHandler) UpdateProgram(c *gin.Context) {
	actorID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	program, err := h.service.UpdateProgram(c.Request.Context(), id, &req, actorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, program)
}

// DeleteProgram removes a program without enrolled students
// @Summary Delete program
// @Tags catalog
// @Produce json
// @Param id path uint true "Program ID"
// @Success 204 "No content"
// @Failure 409 {object} ErrorResponse "Program has enrolled students"
// @Router /admin/programs/{id} [delete]
func (h *CatalogHandler) DeleteProgram(c *gin.Context) {
	actorID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.service.DeleteProgram(c.Request.Context(), id, actorID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListPrograms lists degree programs
// @Summary List programs
// @Tags catalog
// @Produce json
// @Param active_only query bool false "Only active programs (default: false)"
// @Success 200 {array} models.DegreeProgram
// @Router /programs [get]
func (h *CatalogHandler) ListPrograms(c *gin.Context) {
	activeOnly := c.DefaultQuery("active_only", "false") == "true"

	programs, err := h.service.ListPrograms(c.Request.Context(), activeOnly)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, programs)
}

// ===== COURSE ENDPOINTS =====

// CreateCourse creates a course
// @Summary Create course
// @Tags catalog
// @Accept json
// @Produce json
// @Param request body services.CreateCourseRequest true "Course fields"
// @Success 201 {object} models.Course
// @Failure 409 {object} ErrorResponse "Course code already in use"
// @Router /admin/courses [post]
func (h *CatalogHandler) CreateCourse(c *gin.Context) {
	actorID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	var req services.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	course, err := h.service.CreateCourse(c.Request.Context(), &req, actorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, course)
}

// GetCourse returns one course
// @Summary Get course
// @Tags catalog
// @Produce json
// @Param id path uint true "Course ID"
// @Success 200 {object} models.Course
// @Failure 404 {object} ErrorResponse "Course not found"
// @Router /courses/{id} [get]
func (h *CatalogHandler) GetCourse(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	course, err := h.service.GetCourse(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// UpdateCourse updates a course
// @Summary Update course
// @Tags catalog
// @Accept json
// @Produce json
// @Param id path uint true "Course ID"
// @Param request body services.UpdateCourseRequest true "Fields to update"
// @Success 200 {object} models.Course
// @Router /admin/courses/{id} [put]
func (h *CatalogHandler) UpdateCourse(c *gin.Context) {
	actorID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	course, err := h.service.UpdateCourse(c.Request.Context(), id, &req, actorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// DeleteCourse removes a course without scheduled sections
// @Summary Delete course
// @Tags catalog
// @Produce json
// @Param id path uint true "Course ID"
// @Success 204 "No content"
// @Failure 409 {object} ErrorResponse "Course has scheduled sections"
// @Router /admin/courses/{id} [delete]
func (h *CatalogHandler) DeleteCourse(c *gin.Context) {
	actorID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.service.DeleteCourse(c.Request.Context(), id, actorID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListCourses lists courses with filters
// @Summary List courses
// @Tags catalog
// @Produce json
// @Param q query string false "Search query"
// @Param department query string false "Filter by department"
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 20, max: 100)"
// @Success 200 {object} services.CourseListResponse
// @Router /courses [get]
func (h *CatalogHandler) ListCourses(c *gin.Context) {
	limit, offset := h.parsePagination(c)
	filters := repositories.CourseFilters{
		Query:     c.Query("q"),
		Limit:     limit,
		Offset:    offset,
		SortBy:    c.DefaultQuery("sort_by", "code"),
		SortOrder: c.DefaultQuery("sort_order", "asc"),
	}
	if dept := c.Query("department"); dept != "" {
		filters.Department = &dept
	}
	if activeStr := c.Query("is_active"); activeStr != "" {
		active := activeStr == "true"
		filters.IsActive = &active
	}

	resp, err := h.service.ListCourses(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ===== TERM ENDPOINTS =====

// CreateTerm creates an academic term
// @Summary Create term
// @Tags catalog
// @Accept json
// @Produce json
// @Param request body services.CreateTermRequest true "Term fields"
// @Success 201 {object} models.AcademicTerm
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Router /admin/terms [post]
func (h *CatalogHandler) CreateTerm(c *gin.Context) {
	actorID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	var req services.CreateTermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	term, err := h.service.CreateTerm(c.Request.Context(), &req, actorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, term)
}

// GetCurrentTerm returns the active term
// @Summary Get current term
// @Tags catalog
// @Produce json
// @Success 200 {object} models.AcademicTerm
// @Failure 404 {object} ErrorResponse "No current term"
// @Router /terms/current [get]
func (h *CatalogHandler) GetCurrentTerm(c *gin.Context) {
	term, err := h.service.GetCurrentTerm(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, term)
}

// SetCurrentTerm marks a term as the current one
// @Summary Set current term
// @Tags catalog
// @Produce json
// @Param id path uint true "Term ID"
// @Success 204 "No content"
// @Failure 404 {object} ErrorResponse "Term not found"
// @Router /admin/terms/{id}/current [put]
func (h *CatalogHandler) SetCurrentTerm(c *gin.Context) {
	actorID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.service.SetCurrentTerm(c.Request.Context(), id, actorID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListTerms lists academic terms
// @Summary List terms
// @Tags catalog
// @Produce json
// @Success 200 {array} models.AcademicTerm
// @Router /terms [get]
func (h *CatalogHandler) ListTerms(c *gin.Context) {
	terms, err := h.service.ListTerms(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, terms)
}

// ===== SECTION ENDPOINTS =====

// CreateSection creates a course section
// @Summary Create section
// @Tags catalog
// @Accept json
// @Produce json
// @Param request body services.CreateSectionRequest true "Section fields"
// @Success 201 {object} models.CourseSection
// @Failure 409 {object} ErrorResponse "Section number already in use"
// @Router /admin/sections [post]
func (h *CatalogHandler) CreateSection(c *gin.Context) {
	actorID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	var req services.CreateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	section, err := h.service.CreateSection(c.Request.Context(), &req, actorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, section)
}

// GetSection returns one section with details
// @Summary Get section
// @Tags catalog
// @Produce json
// @Param id path uint true "Section ID"
// @Success 200 {object} models.CourseSection
// @Failure 404 {object} ErrorResponse "Section not found"
// @Router /sections/{id} [get]
func (h *CatalogHandler) GetSection(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	section, err := h.service.GetSection(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, section)
}

// UpdateSection updates schedule fields on a section
// @Summary Update section
// @Description Updates section schedule and capacity fields. The enrolled count is never writable.
// @Tags catalog
// @Accept json
// @Produce json
// @Param id path uint true "Section ID"
// @Param request body services.UpdateSectionRequest true "Fields to update"
// @Success 200 {object} models.CourseSection
// @Router /admin/sections/{id} [put]
func (h *CatalogHandler) UpdateSection(c *gin.Context) {
	actorID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	section, err := h.service.UpdateSection(c.Request.Context(), id, &req, actorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, section)
}

// DeleteSection removes a section without enrollments
// @Summary Delete section
// @Tags catalog
// @Produce json
// @Param id path uint true "Section ID"
// @Success 204 "No content"
// @Failure 409 {object} ErrorResponse "Section has enrollments"
// @Router /admin/sections/{id} [delete]
func (h *CatalogHandler) DeleteSection(c *gin.Context) {
	actorID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.service.DeleteSection(c.Request.Context(), id, actorID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListSections lists sections with filters
// @Summary List sections
// @Tags catalog
// @Produce json
// @Param course_id query int false "Filter by course"
// @Param term_id query int false "Filter by term"
// @Param faculty_id query int false "Filter by faculty"
// @Param has_seats query bool false "Only sections with free seats"
// @Success 200 {object} services.SectionListResponse
// @Router /sections [get]
func (h *CatalogHandler) ListSections(c *gin.Context) {
	limit, offset := h.parsePagination(c)
	filters := repositories.SectionFilters{
		Limit:     limit,
		Offset:    offset,
		SortBy:    c.DefaultQuery("sort_by", "section_number"),
		SortOrder: c.DefaultQuery("sort_order", "asc"),
	}

	for param, target := range map[string]**uint{
		"course_id":  &filters.CourseID,
		"term_id":    &filters.TermID,
		"faculty_id": &filters.FacultyID,
	} {
		if valueStr := c.Query(param); valueStr != "" {
			if parsed, err := strconv.ParseUint(valueStr, 10, 32); err == nil {
				value := uint(parsed)
				*target = &value
			}
		}
	}
	if seatsStr := c.Query("has_seats"); seatsStr != "" {
		hasSeats := seatsStr == "true"
		filters.HasSeats = &hasSeats
	}

	resp, err := h.service.ListSections(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// assignFacultyRequest assigns or clears the instructor on a section.
type assignFacultyRequest struct {
	FacultyID *uint `json:"faculty_id"`
}

// AssignFaculty assigns or clears the section instructor
// @Summary Assign section faculty
// @Tags catalog
// @Accept json
// @Produce json
// @Param id path uint true "Section ID"
// @Param request body assignFacultyRequest true "Faculty assignment (null clears)"
// @Success 200 {object} models.CourseSection
// @Failure 404 {object} ErrorResponse "Section or faculty not found"
// @Router /admin/sections/{id}/faculty [put]
func (h *CatalogHandler) AssignFaculty(c *gin.Context) {
	actorID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req assignFacultyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	section, err := h.service.AssignFaculty(c.Request.Context(), id, req.FacultyID, actorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, section)
}
