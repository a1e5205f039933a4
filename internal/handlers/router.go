package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/config"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/models"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/repositories"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/services"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/utils"
)

type HandlerManager struct {
	accountHandler      *AccountHandler
	studentHandler      *StudentHandler
	facultyHandler      *FacultyHandler
	catalogHandler      *CatalogHandler
	enrollmentHandler   *EnrollmentHandler
	rosterHandler       *RosterHandler
	announcementHandler *AnnouncementHandler
	dashboardHandler    *DashboardHandler
	authMiddleware      *CasdoorAuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
	casdoorConfig config.CasdoorConfig,
	userRepo repositories.UserRepository,
) *HandlerManager {
	authMiddleware := NewCasdoorAuthMiddleware(casdoorConfig, userRepo)

	return &HandlerManager{
		accountHandler:      NewAccountHandler(serviceManager.Account(), logger),
		studentHandler:      NewStudentHandler(serviceManager.Student(), logger),
		facultyHandler:      NewFacultyHandler(serviceManager.Faculty(), logger),
		catalogHandler:      NewCatalogHandler(serviceManager.Catalog(), logger),
		enrollmentHandler:   NewEnrollmentHandler(serviceManager.Enrollment(), logger),
		rosterHandler:       NewRosterHandler(serviceManager.Roster(), logger),
		announcementHandler: NewAnnouncementHandler(serviceManager.Announcement(), logger),
		dashboardHandler:    NewDashboardHandler(serviceManager.Dashboard(), logger),
		authMiddleware:      authMiddleware,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	v1.Use(hm.authMiddleware.AuthMiddleware())
	{
		// Account and role resolution
		account := v1.Group("/account")
		{
			account.GET("/profile", hm.accountHandler.ResolveProfile)
			account.PUT("/profile", hm.accountHandler.UpdateProfile)
		}

		// Dashboard data, shaped by the caller's role
		dashboard := v1.Group("/dashboard")
		{
			dashboard.GET("/overview", hm.dashboardHandler.GetOverview)
			dashboard.GET("/occupancy", hm.authMiddleware.RequireRoleMiddleware(models.RoleFaculty, models.RoleAdmin), hm.dashboardHandler.GetSectionOccupancy)
			dashboard.GET("/enrollment-trend", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.dashboardHandler.GetEnrollmentTrend)
		}

		// Students
		students := v1.Group("/students")
		{
			students.GET("/me", hm.studentHandler.GetMyStudentRecord)
			students.GET("", hm.authMiddleware.RequireRoleMiddleware(models.RoleFaculty, models.RoleAdmin), hm.studentHandler.ListStudents)
			students.GET("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleFaculty, models.RoleAdmin), hm.studentHandler.GetStudent)
			students.GET("/:id/enrollments", hm.authMiddleware.RequireRoleMiddleware(models.RoleFaculty, models.RoleAdmin), hm.enrollmentHandler.GetStudentEnrollments)
			students.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.studentHandler.CreateStudent)
			students.PUT("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.studentHandler.UpdateStudent)
			students.DELETE("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.studentHandler.DeleteStudent)
		}

		// Faculty directory
		faculty := v1.Group("/faculty")
		{
			faculty.GET("", hm.facultyHandler.ListFaculty)
			faculty.GET("/:id", hm.facultyHandler.GetFaculty)
			faculty.GET("/:id/sections", hm.facultyHandler.GetFacultySections)
			faculty.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.facultyHandler.CreateFaculty)
			faculty.DELETE("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.facultyHandler.DeleteFaculty)
		}

		// Catalog reads, open to all authenticated users
		v1.GET("/programs", hm.catalogHandler.ListPrograms)
		v1.GET("/programs/:id", hm.catalogHandler.GetProgram)
		v1.GET("/programs/:id/students", hm.authMiddleware.RequireRoleMiddleware(models.RoleFaculty, models.RoleAdmin), hm.studentHandler.GetStudentsByProgram)
		v1.GET("/courses", hm.catalogHandler.ListCourses)
		v1.GET("/courses/:id", hm.catalogHandler.GetCourse)
		v1.GET("/terms", hm.catalogHandler.ListTerms)
		v1.GET("/terms/current", hm.catalogHandler.GetCurrentTerm)
		v1.GET("/sections", hm.catalogHandler.ListSections)
		v1.GET("/sections/:id", hm.catalogHandler.GetSection)

		// Enrollments
		enrollments := v1.Group("/enrollments")
		{
			enrollments.GET("/eligibility", hm.enrollmentHandler.CheckEligibility)
			enrollments.POST("", hm.enrollmentHandler.Enroll)
			enrollments.GET("/:id", hm.enrollmentHandler.GetEnrollment)
			enrollments.POST("/:id/drop", hm.enrollmentHandler.Drop)
			enrollments.POST("/:id/complete", hm.authMiddleware.RequireRoleMiddleware(models.RoleFaculty, models.RoleAdmin), hm.enrollmentHandler.Complete)
			enrollments.GET("", hm.authMiddleware.RequireRoleMiddleware(models.RoleFaculty, models.RoleAdmin), hm.enrollmentHandler.ListEnrollments)
		}

		// Roster management - Faculty and Admins only
		roster := v1.Group("/sections/:id/roster")
		roster.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleFaculty, models.RoleAdmin))
		{
			roster.GET("", hm.rosterHandler.GetRoster)
			roster.POST("", hm.rosterHandler.AddStudent)
			roster.DELETE("/:enrollment_id", hm.rosterHandler.RemoveStudent)
			roster.PUT("/:enrollment_id/grade", hm.rosterHandler.SetGrade)
			roster.GET("/export.csv", hm.rosterHandler.ExportCSV)
			roster.GET("/export.xlsx", hm.rosterHandler.ExportXLSX)
		}

		// Announcements and calendar for everyone
		v1.GET("/announcements", hm.announcementHandler.GetMyAnnouncements)
		v1.GET("/calendar", hm.announcementHandler.ListCalendarEvents)
		v1.GET("/calendar/upcoming", hm.announcementHandler.GetUpcomingEvents)

		// Admin surfaces
		admin := v1.Group("/admin")
		admin.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin))
		{
			admin.GET("/users", hm.accountHandler.ListUsers)
			admin.PUT("/users/:id/role", hm.accountHandler.ChangeRole)

			admin.POST("/programs", hm.catalogHandler.CreateProgram)
			admin.PUT("/programs/:id", hm.catalogHandler.UpdateProgram)
			admin.DELETE("/programs/:id", hm.catalogHandler.DeleteProgram)

			admin.POST("/courses", hm.catalogHandler.CreateCourse)
			admin.PUT("/courses/:id", hm.catalogHandler.UpdateCourse)
			admin.DELETE("/courses/:id", hm.catalogHandler.DeleteCourse)

			admin.POST("/terms", hm.catalogHandler.CreateTerm)
			admin.PUT("/terms/:id/current", hm.catalogHandler.SetCurrentTerm)

			admin.POST("/sections", hm.catalogHandler.CreateSection)
			admin.PUT("/sections/:id", hm.catalogHandler.UpdateSection)
			admin.DELETE("/sections/:id", hm.catalogHandler.DeleteSection)
			admin.PUT("/sections/:id/faculty", hm.catalogHandler.AssignFaculty)

			admin.GET("/announcements", hm.announcementHandler.ListAnnouncements)
			admin.POST("/announcements", hm.announcementHandler.CreateAnnouncement)
			admin.PUT("/announcements/:id", hm.announcementHandler.UpdateAnnouncement)
			admin.DELETE("/announcements/:id", hm.announcementHandler.DeleteAnnouncement)
			admin.POST("/announcements/:id/publish", hm.announcementHandler.PublishAnnouncement)
			admin.POST("/announcements/:id/deactivate", hm.announcementHandler.DeactivateAnnouncement)

			admin.POST("/calendar", hm.announcementHandler.CreateCalendarEvent)
			admin.DELETE("/calendar/:id", hm.announcementHandler.DeleteCalendarEvent)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "portal-service",
		})
	})
}
