package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/repositories"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/services"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/utils"
)

type AnnouncementHandler struct {
	BaseHandler
	service services.AnnouncementService
}

func NewAnnouncementHandler(service services.AnnouncementService, logger utils.Logger) *AnnouncementHandler {
	return &AnnouncementHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== ANNOUNCEMENT ENDPOINTS =====

// CreateAnnouncement creates an announcement
// @Summary Create announcement
// @Tags announcements
// @Accept json
// @Produce json
// @Param request body services.CreateAnnouncementRequest true "Announcement fields"
// @Success 201 {object} models.Announcement
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Router /admin/announcements [post]
func (h *AnnouncementHandler) CreateAnnouncement(c *gin.Context) {
	h.LogRequest(c, "Creating announcement")

	creatorID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	var req services.CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	announcement, err := h.service.Create(c.Request.Context(), &req, creatorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, announcement)
}

// UpdateAnnouncement updates an announcement
// @Summary Update announcement
// @Tags announcements
// @Accept json
// @Produce json
// @Param id path uint true "Announcement ID"
// @Param request body services.UpdateAnnouncementRequest true "Fields to update"
// @Success 200 {object} models.Announcement
// @Failure 404 {object} ErrorResponse "Announcement not found"
// @Router /admin/announcements/{id} [put]
func (h *AnnouncementHandler) UpdateAnnouncement(c *gin.Context) {
	actorID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	announcement, err := h.service.Update(c.Request.Context(), id, &req, actorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, announcement)
}

// PublishAnnouncement publishes a draft announcement
// @Summary Publish announcement
// @Tags announcements
// @Produce json
// @Param id path uint true "Announcement ID"
// @Success 200 {object} models.Announcement
// @Failure 404 {object} ErrorResponse "Announcement not found"
// @Router /admin/announcements/{id}/publish [post]
func (h *AnnouncementHandler) PublishAnnouncement(c *gin.Context) {
	actorID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	announcement, err := h.service.Publish(c.Request.Context(), id, actorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, announcement)
}

// DeactivateAnnouncement takes an announcement off the feed
// @Summary Deactivate announcement
// @Tags announcements
// @Produce json
// @Param id path uint true "Announcement ID"
// @Success 204 "No content"
// @Failure 404 {object} ErrorResponse "Announcement not found"
// @Router /admin/announcements/{id}/deactivate [post]
func (h *AnnouncementHandler) DeactivateAnnouncement(c *gin.Context) {
	actorID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), id, actorID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteAnnouncement removes an announcement
// @Summary Delete announcement
// @Tags announcements
// @Produce json
// @Param id path uint true "Announcement ID"
// @Success 204 "No content"
// @Failure 404 {object} ErrorResponse "Announcement not found"
// @Router /admin/announcements/{id} [delete]
func (h *AnnouncementHandler) DeleteAnnouncement(c *gin.Context) {
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

// ListAnnouncements lists announcements for administration
// @Summary List announcements
// @Tags announcements
// @Produce json
// @Param is_active query bool false "Filter by active flag"
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 20, max: 100)"
// @Success 200 {object} services.AnnouncementListResponse
// @Router /admin/announcements [get]
func (h *AnnouncementHandler) ListAnnouncements(c *gin.Context) {
	limit, offset := h.parsePagination(c)
	filters := repositories.AnnouncementFilters{
		Limit:     limit,
		Offset:    offset,
		SortBy:    c.DefaultQuery("sort_by", "created_at"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
	}
	if activeStr := c.Query("is_active"); activeStr != "" {
		active := activeStr == "true"
		filters.IsActive = &active
	}

	resp, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetMyAnnouncements returns the announcements targeted at the caller
// @Summary Get announcements for the current user
// @Description Resolves the caller's audiences (role, program, enrolled courses and sections) and returns matching active announcements.
// @Tags announcements
// @Produce json
// @Param since query string false "Only announcements published after this date (RFC3339)"
// @Success 200 {object} services.AnnouncementListResponse
// @Router /announcements [get]
func (h *AnnouncementHandler) GetMyAnnouncements(c *gin.Context) {
	h.LogRequest(c, "Getting announcements for user")

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	limit, offset := h.parsePagination(c)
	filters := repositories.AnnouncementFilters{
		Limit:  limit,
		Offset: offset,
	}
	if sinceStr := c.Query("since"); sinceStr != "" {
		if parsed, err := time.Parse(time.RFC3339, sinceStr); err == nil {
			filters.SinceDate = &parsed
		}
	}

	resp, err := h.service.GetForUser(c.Request.Context(), userID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ===== CALENDAR ENDPOINTS =====

// CreateCalendarEvent adds an academic calendar event
// @Summary Create calendar event
// @Tags calendar
// @Accept json
// @Produce json
// @Param request body services.CreateCalendarEventRequest true "Event fields"
// @Success 201 {object} models.CalendarEvent
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Router /admin/calendar [post]
func (h *AnnouncementHandler) CreateCalendarEvent(c *gin.Context) {
	actorID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	var req services.CreateCalendarEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	event, err := h.service.CreateEvent(c.Request.Context(), &req, actorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

// DeleteCalendarEvent removes a calendar event
// @Summary Delete calendar event
// @Tags calendar
// @Produce json
// @Param id path uint true "Event ID"
// @Success 204 "No content"
// @Failure 404 {object} ErrorResponse "Event not found"
// @Router /admin/calendar/{id} [delete]
func (h *AnnouncementHandler) DeleteCalendarEvent(c *gin.Context) {
	actorID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.service.DeleteEvent(c.Request.Context(), id, actorID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListCalendarEvents lists academic calendar events
// @Summary List calendar events
// @Tags calendar
// @Produce json
// @Param event_type query string false "Filter by event type"
// @Param from query string false "Events on or after this date (RFC3339)"
// @Param to query string false "Events on or before this date (RFC3339)"
// @Success 200 {array} models.CalendarEvent
// @Router /calendar [get]
func (h *AnnouncementHandler) ListCalendarEvents(c *gin.Context) {
	limit, offset := h.parsePagination(c)
	filters := repositories.CalendarFilters{
		Limit:  limit,
		Offset: offset,
	}
	if eventType := c.Query("event_type"); eventType != "" {
		filters.EventType = &eventType
	}
	if fromStr := c.Query("from"); fromStr != "" {
		if parsed, err := time.Parse(time.RFC3339, fromStr); err == nil {
			filters.DateFrom = &parsed
		}
	}
	if toStr := c.Query("to"); toStr != "" {
		if parsed, err := time.Parse(time.RFC3339, toStr); err == nil {
			filters.DateTo = &parsed
		}
	}

	events, err := h.service.ListEvents(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, events)
}

// GetUpcomingEvents returns the next calendar events
// @Summary Get upcoming calendar events
// @Tags calendar
// @Produce json
// @Param limit query int false "Number of events (default: 5)"
// @Success 200 {array} models.CalendarEvent
// @Router /calendar/upcoming [get]
func (h *AnnouncementHandler) GetUpcomingEvents(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if err != nil || limit < 1 {
		limit = 5
	}

	events, svcErr := h.service.GetUpcomingEvents(c.Request.Context(), limit)
	if svcErr != nil {
		h.handleServiceError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, events)
}
