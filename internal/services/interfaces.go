package services

import (
	"context"
	"time"

	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/models"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/repositories"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type CreateStudentRequest = validator.StudentCreateRequest
type UpdateStudentRequest = validator.StudentUpdateRequest
type UpdateProfileRequest = validator.ProfileUpdateRequest
type CreateProgramRequest = validator.ProgramCreateRequest
type UpdateProgramRequest = validator.ProgramUpdateRequest
type CreateCourseRequest = validator.CourseCreateRequest
type UpdateCourseRequest = validator.CourseUpdateRequest
type CreateTermRequest = validator.TermCreateRequest
type CreateSectionRequest = validator.SectionCreateRequest
type UpdateSectionRequest = validator.SectionUpdateRequest
type EnrollRequest = validator.EnrollRequest
type RosterAddRequest = validator.RosterAddRequest
type SetGradeRequest = validator.SetGradeRequest
type CreateAnnouncementRequest = validator.AnnouncementCreateRequest
type UpdateAnnouncementRequest = validator.AnnouncementUpdateRequest
type CreateCalendarEventRequest = validator.CalendarEventCreateRequest
type ChangeRoleRequest = validator.RoleChangeRequest

// Dashboard landing routes keyed by resolved role.
const (
	RouteProgramManagement = "/admin/programs"
	RouteOverview          = "/dashboard"
)

// ProfileResponse is the resolved identity plus the role-specific record and
// the dashboard route the client should land on.
type ProfileResponse struct {
	User         *models.User    `json:"user"`
	Student      *models.Student `json:"student,omitempty"`
	Faculty      *models.Faculty `json:"faculty,omitempty"`
	Synthesized  bool            `json:"synthesized"`
	LandingRoute string          `json:"landing_route"`
}

type StudentListResponse struct {
	Students []*models.Student `json:"students"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	Size     int               `json:"size"`
}

type FacultyListResponse struct {
	Faculty []*models.Faculty `json:"faculty"`
	Total   int64             `json:"total"`
}

type CourseListResponse struct {
	Courses []*models.Course `json:"courses"`
	Total   int64            `json:"total"`
	Page    int              `json:"page"`
	Size    int              `json:"size"`
}

type SectionListResponse struct {
	Sections []*models.CourseSection `json:"sections"`
	Total    int64                   `json:"total"`
	Page     int                     `json:"page"`
	Size     int                     `json:"size"`
}

type EnrollmentListResponse struct {
	Enrollments []*models.Enrollment `json:"enrollments"`
	Total       int64                `json:"total"`
	Page        int                  `json:"page"`
	Size        int                  `json:"size"`
}

type AnnouncementListResponse struct {
	Announcements []*models.Announcement `json:"announcements"`
	Total         int64                  `json:"total"`
	Page          int                    `json:"page"`
	Size          int                    `json:"size"`
}

// RosterEntry is one row of a section roster, flattened for display and export.
type RosterEntry struct {
	EnrollmentID  uint                    `json:"enrollment_id"`
	StudentID     uint                    `json:"student_id"`
	StudentNumber string                  `json:"student_number"`
	FirstName     string                  `json:"first_name"`
	LastName      string                  `json:"last_name"`
	Email         string                  `json:"email"`
	Status        models.EnrollmentStatus `json:"status"`
	Grade         *string                 `json:"grade"`
	EnrolledAt    time.Time               `json:"enrolled_at"`
}

type RosterResponse struct {
	SectionID uint          `json:"section_id"`
	Entries   []RosterEntry `json:"entries"`
	Total     int           `json:"total"`
}

// DashboardOverviewResponse bundles the per-role overview blocks. Exactly one
// of the role blocks is set, matching the caller's resolved role.
type DashboardOverviewResponse struct {
	Role    models.UserRole                     `json:"role"`
	Student *repositories.StudentOverviewStats  `json:"student,omitempty"`
	Faculty *repositories.FacultyOverviewStats  `json:"faculty,omitempty"`
	Admin   *repositories.AdminOverviewStats    `json:"admin,omitempty"`
}

// ===== SERVICE INTERFACES =====

type AccountService interface {
	// Role resolution. Reads the profile row by identity id; on first sign-in
	// synthesizes one from identity metadata and upserts it idempotently.
	ResolveProfile(ctx context.Context, userID string) (*ProfileResponse, error)

	// Profile edits pushed to the local row and the identity provider.
	UpdateProfile(ctx context.Context, userID string, req *UpdateProfileRequest) (*models.User, error)

	// Admin-only role change on the local profile row.
	ChangeRole(ctx context.Context, targetUserID string, req *ChangeRoleRequest, actorID string) (*models.User, error)

	// Listing for the admin user directory.
	ListUsers(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error)
}

type StudentService interface {
	Create(ctx context.Context, req *CreateStudentRequest, actorID string) (*models.Student, error)
	GetByID(ctx context.Context, id uint) (*models.Student, error)
	GetByUserID(ctx context.Context, userID string) (*models.Student, error)
	Update(ctx context.Context, id uint, req *UpdateStudentRequest, actorID string) (*models.Student, error)
	Delete(ctx context.Context, id uint, actorID string) error

	List(ctx context.Context, filters repositories.StudentFilters) (*StudentListResponse, error)
	Search(ctx context.Context, query string, filters repositories.StudentFilters) (*StudentListResponse, error)
	GetByProgram(ctx context.Context, programID uint, filters repositories.StudentFilters) (*StudentListResponse, error)
}

type FacultyService interface {
	Create(ctx context.Context, userID, title, department string, phone *string) (*models.Faculty, error)
	GetByID(ctx context.Context, id uint) (*models.Faculty, error)
	GetByUserID(ctx context.Context, userID string) (*models.Faculty, error)
	Update(ctx context.Context, faculty *models.Faculty) (*models.Faculty, error)
	Delete(ctx context.Context, id uint) error

	// List falls back to faculty-role users when the faculty table is empty,
	// returning faculty-shaped records with User populated.
	List(ctx context.Context, limit, offset int) (*FacultyListResponse, error)
	GetSections(ctx context.Context, facultyID uint, termID *uint) ([]*models.CourseSection, error)
}

type CatalogService interface {
	// Degree programs
	CreateProgram(ctx context.Context, req *CreateProgramRequest, actorID string) (*models.DegreeProgram, error)
	GetProgram(ctx context.Context, id uint) (*models.DegreeProgram, error)
	UpdateProgram(ctx context.Context, id uint, req *UpdateProgramRequest, actorID string) (*models.DegreeProgram, error)
	DeleteProgram(ctx context.Context, id uint, actorID string) error
	ListPrograms(ctx context.Context, activeOnly bool) ([]*models.DegreeProgram, error)

	// Courses
	CreateCourse(ctx context.Context, req *CreateCourseRequest, actorID string) (*models.Course, error)
	GetCourse(ctx context.Context, id uint) (*models.Course, error)
	UpdateCourse(ctx context.Context, id uint, req *UpdateCourseRequest, actorID string) (*models.Course, error)
	DeleteCourse(ctx context.Context, id uint, actorID string) error
	ListCourses(ctx context.Context, filters repositories.CourseFilters) (*CourseListResponse, error)

	// Academic terms
	CreateTerm(ctx context.Context, req *CreateTermRequest, actorID string) (*models.AcademicTerm, error)
	GetTerm(ctx context.Context, id uint) (*models.AcademicTerm, error)
	GetCurrentTerm(ctx context.Context) (*models.AcademicTerm, error)
	SetCurrentTerm(ctx context.Context, id uint, actorID string) error
	ListTerms(ctx context.Context) ([]*models.AcademicTerm, error)

	// Course sections
	CreateSection(ctx context.Context, req *CreateSectionRequest, actorID string) (*models.CourseSection, error)
	GetSection(ctx context.Context, id uint) (*models.CourseSection, error)
	UpdateSection(ctx context.Context, id uint, req *UpdateSectionRequest, actorID string) (*models.CourseSection, error)
	DeleteSection(ctx context.Context, id uint, actorID string) error
	ListSections(ctx context.Context, filters repositories.SectionFilters) (*SectionListResponse, error)
	AssignFaculty(ctx context.Context, sectionID uint, facultyID *uint, actorID string) (*models.CourseSection, error)
}

type EnrollmentService interface {
	// CheckEligibility runs the capacity and duplicate checks against live
	// data. Results are never cached; Enroll re-checks before every insert.
	CheckEligibility(ctx context.Context, studentID, sectionID uint) (*repositories.EnrollmentValidation, error)

	Enroll(ctx context.Context, req *EnrollRequest, actorID string) (*models.Enrollment, error)
	Drop(ctx context.Context, enrollmentID uint, actorID string) (*models.Enrollment, error)
	Complete(ctx context.Context, enrollmentID uint, actorID string) (*models.Enrollment, error)

	GetByID(ctx context.Context, id uint) (*models.Enrollment, error)
	GetByStudent(ctx context.Context, studentID uint, filters repositories.EnrollmentFilters) ([]*models.Enrollment, error)
	List(ctx context.Context, filters repositories.EnrollmentFilters) (*EnrollmentListResponse, error)
}

type RosterService interface {
	GetRoster(ctx context.Context, sectionID uint) (*RosterResponse, error)

	// AddStudent resolves the identifier by email when it contains @,
	// otherwise by student number, then enrolls through the eligibility path.
	AddStudent(ctx context.Context, sectionID uint, req *RosterAddRequest, actorID string) (*RosterResponse, error)

	// RemoveStudent deletes the enrollment, releasing the seat of a live one,
	// and returns the refetched roster whether or not the removal succeeded
	// partway.
	RemoveStudent(ctx context.Context, sectionID, enrollmentID uint, actorID string) (*RosterResponse, error)

	SetGrade(ctx context.Context, sectionID, enrollmentID uint, req *SetGradeRequest, actorID string) (*models.Enrollment, error)

	// Exports. Both fail with ErrEmptyRosterExport on an empty roster.
	ExportCSV(ctx context.Context, sectionID uint) ([]byte, string, error)
	ExportXLSX(ctx context.Context, sectionID uint) ([]byte, string, error)
}

type AnnouncementService interface {
	Create(ctx context.Context, req *CreateAnnouncementRequest, creatorID string) (*models.Announcement, error)
	GetByID(ctx context.Context, id uint) (*models.Announcement, error)
	Update(ctx context.Context, id uint, req *UpdateAnnouncementRequest, actorID string) (*models.Announcement, error)
	Delete(ctx context.Context, id uint, actorID string) error
	Publish(ctx context.Context, id uint, actorID string) (*models.Announcement, error)
	Deactivate(ctx context.Context, id uint, actorID string) error

	List(ctx context.Context, filters repositories.AnnouncementFilters) (*AnnouncementListResponse, error)

	// GetForUser resolves the audiences the user belongs to (role, program,
	// enrolled course/section ids) and returns matching active announcements.
	GetForUser(ctx context.Context, userID string, filters repositories.AnnouncementFilters) (*AnnouncementListResponse, error)

	// Academic calendar
	CreateEvent(ctx context.Context, req *CreateCalendarEventRequest, actorID string) (*models.CalendarEvent, error)
	DeleteEvent(ctx context.Context, id uint, actorID string) error
	ListEvents(ctx context.Context, filters repositories.CalendarFilters) ([]*models.CalendarEvent, error)
	GetUpcomingEvents(ctx context.Context, limit int) ([]*models.CalendarEvent, error)
}

type DashboardService interface {
	GetOverview(ctx context.Context, userID string) (*DashboardOverviewResponse, error)
	GetSectionOccupancy(ctx context.Context, termID uint, limit int) ([]repositories.SectionOccupancy, error)
	GetEnrollmentTrend(ctx context.Context, days int) ([]repositories.EnrollmentTrendData, error)
}

type NotificationEventService interface {
	PublishEnrollmentCreated(ctx context.Context, enrollment *models.Enrollment) error
	PublishEnrollmentDropped(ctx context.Context, enrollment *models.Enrollment) error
	PublishEnrollmentGraded(ctx context.Context, enrollment *models.Enrollment) error
	PublishSectionUpdated(ctx context.Context, section *models.CourseSection) error
	PublishAnnouncementPublished(ctx context.Context, announcement *models.Announcement) error
	PublishProfileSynthesized(ctx context.Context, user *models.User) error
	PublishEntityChange(ctx context.Context, entity string, op string, entityID uint, record interface{}) error

	Close() error
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	// Core service getters
	Account() AccountService
	Student() StudentService
	Faculty() FacultyService
	Catalog() CatalogService
	Enrollment() EnrollmentService
	Roster() RosterService
	Announcement() AnnouncementService
	Dashboard() DashboardService
	NotificationEvent() NotificationEventService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
