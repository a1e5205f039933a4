package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/models"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/repositories"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/services"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/utils"
)

type AccountHandler struct {
	BaseHandler
	service services.AccountService
}

func NewAccountHandler(service services.AccountService, logger utils.Logger) *AccountHandler {
	return &AccountHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== PROFILE ENDPOINTS =====

// ResolveProfile returns the caller's profile and landing route
// @Summary Resolve the current user's profile
// @Description Get the caller's profile, role-specific record and dashboard landing route. First sign-in synthesizes the profile from identity metadata.
// @Tags account
// @Accept json
// @Produce json
// @Success 200 {object} services.ProfileResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /account/profile [get]
func (h *AccountHandler) ResolveProfile(c *gin.Context) {
	h.LogRequest(c, "Resolving profile")

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	profile, err := h.service.ResolveProfile(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile updates the caller's own profile fields
// @Summary Update the current user's profile
// @Tags account
// @Accept json
// @Produce json
// @Param request body services.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} models.User
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /account/profile [put]
func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	h.LogRequest(c, "Updating profile")

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ===== ADMIN USER DIRECTORY =====

// ListUsers lists profile rows for the admin user directory
// @Summary List users
// @Tags account
// @Accept json
// @Produce json
// @Param role query string false "Filter by role: student, faculty, admin"
// @Param q query string false "Search query for name or email"
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 20, max: 100)"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /admin/users [get]
func (h *AccountHandler) ListUsers(c *gin.Context) {
	h.LogRequest(c, "Listing users")

	limit, offset := h.parsePagination(c)
	filters := repositories.UserFilters{
		Query:  c.Query("q"),
		Limit:  limit,
		Offset: offset,
	}

	if roleStr := c.Query("role"); roleStr != "" {
		role := models.UserRole(roleStr)
		if !role.IsValid() {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid role filter",
				Details: "role must be student, faculty or admin",
			})
			return
		}
		filters.Role = &role
	}

	users, total, err := h.service.ListUsers(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"total": total,
	})
}

// ChangeRole changes another user's role
// @Summary Change a user's role
// @Tags account
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body services.ChangeRoleRequest true "New role"
// @Success 200 {object} models.User
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "User not found"
// @Router /admin/users/{id}/role [put]
func (h *AccountHandler) ChangeRole(c *gin.Context) {
	h.LogRequest(c, "Changing user role")

	actorID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	targetID := c.Param("id")
	if targetID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid user id"})
		return
	}

	var req services.ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	user, err := h.service.ChangeRole(c.Request.Context(), targetID, &req, actorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
