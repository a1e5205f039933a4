package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/services"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type RosterHandler struct {
	BaseHandler
	service services.RosterService
}

func NewRosterHandler(service services.RosterService, logger utils.Logger) *RosterHandler {
	return &RosterHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== ROSTER ENDPOINTS =====

// GetRoster returns a section's roster
// @Summary Get section roster
// @Tags roster
// @Produce json
// @Param id path uint true "Section ID"
// @Success 200 {object} services.RosterResponse
// @Failure 404 {object} ErrorResponse "Section not found"
// @Router /sections/{id}/roster [get]
func (h *RosterHandler) GetRoster(c *gin.Context) {
	h.LogRequest(c, "Getting roster")

	sectionID := h.parseIDParam(c, "id")
	if sectionID == 0 {
		return
	}

	roster, err := h.service.GetRoster(c.Request.Context(), sectionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, roster)
}

// AddStudent adds a student to the roster by identifier
// @Summary Add student to roster
// @Description Resolves the identifier by email when it contains @, otherwise by student number, then enrolls through the standard eligibility checks.
// @Tags roster
// @Accept json
// @Produce json
// @Param id path uint true "Section ID"
// @Param request body services.RosterAddRequest true "Student identifier"
// @Success 200 {object} services.RosterResponse
// @Failure 404 {object} ErrorResponse "Student not found"
// @Failure 409 {object} ErrorResponse "Already enrolled in this section"
// @Failure 422 {object} ErrorResponse "Section is full"
// @Router /sections/{id}/roster [post]
func (h *RosterHandler) AddStudent(c *gin.Context) {
	h.LogRequest(c, "Adding student to roster")

	actorID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	sectionID := h.parseIDParam(c, "id")
	if sectionID == 0 {
		return
	}

	var req services.RosterAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	roster, err := h.service.AddStudent(c.Request.Context(), sectionID, &req, actorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, roster)
}

// RemoveStudent deletes an enrollment from the roster
// @Summary Remove student from roster
// @Description Deletes the enrollment so the student can be re-added later. The response carries the refetched roster even when the removal failed partway.
// @Tags roster
// @Produce json
// @Param id path uint true "Section ID"
// @Param enrollment_id path uint true "Enrollment ID"
// @Success 200 {object} services.RosterResponse
// @Failure 404 {object} ErrorResponse "Enrollment not found"
// @Router /sections/{id}/roster/{enrollment_id} [delete]
func (h *RosterHandler) RemoveStudent(c *gin.Context) {
	h.LogRequest(c, "Removing student from roster")

	actorID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	sectionID := h.parseIDParam(c, "id")
	if sectionID == 0 {
		return
	}
	enrollmentID := h.parseIDParam(c, "enrollment_id")
	if enrollmentID == 0 {
		return
	}

	roster, err := h.service.RemoveStudent(c.Request.Context(), sectionID, enrollmentID, actorID)
	if err != nil {
		if roster != nil {
			// Removal failed but the live roster was still fetched. Surface both.
			c.JSON(http.StatusConflict, gin.H{
				"error":  err.Error(),
				"roster": roster,
			})
			return
		}
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, roster)
}

// SetGrade records a grade on an enrollment
// @Summary Set grade
// @Tags roster
// @Accept json
// @Produce json
// @Param id path uint true "Section ID"
// @Param enrollment_id path uint true "Enrollment ID"
// @Param request body services.SetGradeRequest true "Grade"
// @Success 200 {object} models.Enrollment
// @Failure 400 {object} ErrorResponse "Invalid grade"
// @Failure 404 {object} ErrorResponse "Enrollment not found"
// @Router /sections/{id}/roster/{enrollment_id}/grade [put]
func (h *RosterHandler) SetGrade(c *gin.Context) {
	h.LogRequest(c, "Setting grade")

	actorID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	sectionID := h.parseIDParam(c, "id")
	if sectionID == 0 {
		return
	}
	enrollmentID := h.parseIDParam(c, "enrollment_id")
	if enrollmentID == 0 {
		return
	}

	var req services.SetGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	enrollment, err := h.service.SetGrade(c.Request.Context(), sectionID, enrollmentID, &req, actorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, enrollment)
}

// ===== EXPORT ENDPOINTS =====

// ExportCSV downloads the roster as CSV
// @Summary Export roster CSV
// @Tags roster
// @Produce text/csv
// @Param id path uint true "Section ID"
// @Success 200 {file} file
// @Failure 422 {object} ErrorResponse "No roster to export"
// @Router /sections/{id}/roster/export.csv [get]
func (h *RosterHandler) ExportCSV(c *gin.Context) {
	h.LogRequest(c, "Exporting roster CSV")

	sectionID := h.parseIDParam(c, "id")
	if sectionID == 0 {
		return
	}

	data, filename, err := h.service.ExportCSV(c.Request.Context(), sectionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// ExportXLSX downloads the roster as an Excel workbook
// @Summary Export roster XLSX
// @Tags roster
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path uint true "Section ID"
// @Success 200 {file} file
// @Failure 422 {object} ErrorResponse "No roster to export"
// @Router /sections/{id}/roster/export.xlsx [get]
func (h *RosterHandler) ExportXLSX(c *gin.Context) {
	h.LogRequest(c, "Exporting roster XLSX")

	sectionID := h.parseIDParam(c, "id")
	if sectionID == 0 {
		return
	}

	data, filename, err := h.service.ExportXLSX(c.Request.Context(), sectionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
