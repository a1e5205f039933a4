package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/services"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/utils"
)

type DashboardHandler struct {
	BaseHandler
	service services.DashboardService
}

func NewDashboardHandler(service services.DashboardService, logger utils.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== DASHBOARD ENDPOINTS =====

// GetOverview returns the role-shaped dashboard overview
// @Summary Get dashboard overview
// @Description Get the overview block for the caller's role: admin totals, faculty section load, or student enrollment summary.
// @Tags dashboard
// @Produce json
// @Success 200 {object} services.DashboardOverviewResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /dashboard/overview [get]
func (h *DashboardHandler) GetOverview(c *gin.Context) {
	h.LogRequest(c, "Getting dashboard overview")

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	overview, err := h.service.GetOverview(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}

// GetSectionOccupancy returns seat occupancy for the fullest sections
// @Summary Get section occupancy
// @Tags dashboard
// @Produce json
// @Param term_id query uint true "Term ID"
// @Param limit query int false "Number of sections (default: 20)"
// @Success 200 {array} repositories.SectionOccupancy
// @Router /dashboard/occupancy [get]
func (h *DashboardHandler) GetSectionOccupancy(c *gin.Context) {
	h.LogRequest(c, "Getting section occupancy")

	termID, err := strconv.ParseUint(c.Query("term_id"), 10, 32)
	if err != nil || termID == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid term_id"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	occupancy, svcErr := h.service.GetSectionOccupancy(c.Request.Context(), uint(termID), limit)
	if svcErr != nil {
		h.handleServiceError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, occupancy)
}

// GetEnrollmentTrend returns the daily enrollment counts
// @Summary Get enrollment trend
// @Tags dashboard
// @Produce json
// @Param days query int false "Window in days (default: 30)"
// @Success 200 {array} repositories.EnrollmentTrendData
// @Router /dashboard/enrollment-trend [get]
func (h *DashboardHandler) GetEnrollmentTrend(c *gin.Context) {
	h.LogRequest(c, "Getting enrollment trend")

	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || days < 1 {
		days = 30
	}

	trend, svcErr := h.service.GetEnrollmentTrend(c.Request.Context(), days)
	if svcErr != nil {
		h.handleServiceError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, trend)
}
