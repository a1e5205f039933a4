package validator

import (
	"time"

	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/models"
)

// StudentCreateRequest represents the request structure for creating a student profile
type StudentCreateRequest struct {
	UserID                string     `json:"user_id" validate:"required"`
	StudentNumber         string     `json:"student_number" validate:"required,student_number"`
	ProgramID             *uint      `json:"program_id"`
	YearLevel             int        `json:"year_level" validate:"required,year_level"`
	EmergencyContactName  *string    `json:"emergency_contact_name" validate:"omitempty,max=100"`
	EmergencyContactPhone *string    `json:"emergency_contact_phone" validate:"omitempty,max=30"`
	EnrollmentDate        *time.Time `json:"enrollment_date"`
}

// StudentUpdateRequest represents the request structure for updating a student profile
type StudentUpdateRequest struct {
	ProgramID              *uint      `json:"program_id"`
	YearLevel              *int       `json:"year_level" validate:"omitempty,year_level"`
	GPA                    *float64   `json:"gpa" validate:"omitempty,min=0,max=5"`
	CreditsEarned          *int       `json:"total_credits_earned" validate:"omitempty,min=0"`
	EmergencyContactName   *string    `json:"emergency_contact_name" validate:"omitempty,max=100"`
	EmergencyContactPhone  *string    `json:"emergency_contact_phone" validate:"omitempty,max=30"`
	ExpectedGraduationDate *time.Time `json:"expected_graduation_date"`
}

// ProfileUpdateRequest represents editable identity profile fields
type ProfileUpdateRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,min=1,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,max=30"`
	Address   *string `json:"address" validate:"omitempty,max=255"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,url,max=500"`
}

// ProgramCreateRequest represents the request structure for creating a degree program
type ProgramCreateRequest struct {
	Name         string `json:"name" validate:"required,max=200"`
	Code         string `json:"code" validate:"required,max=20"`
	Department   string `json:"department" validate:"omitempty,max=100"`
	Coordinator  string `json:"coordinator" validate:"omitempty,max=100"`
	TotalCredits int    `json:"total_credits" validate:"omitempty,min=0,max=400"`
}

// ProgramUpdateRequest represents the request structure for updating a degree program
type ProgramUpdateRequest struct {
	Name         *string `json:"name" validate:"omitempty,max=200"`
	Department   *string `json:"department" validate:"omitempty,max=100"`
	Coordinator  *string `json:"coordinator" validate:"omitempty,max=100"`
	TotalCredits *int    `json:"total_credits" validate:"omitempty,min=0,max=400"`
	IsActive     *bool   `json:"is_active"`
}

// CourseCreateRequest represents the request structure for creating a course
type CourseCreateRequest struct {
	Name       string `json:"name" validate:"required,max=200"`
	Code       string `json:"code" validate:"required,max=20"`
	Department string `json:"department" validate:"omitempty,max=100"`
	Credits    int    `json:"credits" validate:"required,min=1,max=12"`
}

// CourseUpdateRequest represents the request structure for updating a course
type CourseUpdateRequest struct {
	Name       *string `json:"name" validate:"omitempty,max=200"`
	Department *string `json:"department" validate:"omitempty,max=100"`
	Credits    *int    `json:"credits" validate:"omitempty,min=1,max=12"`
	IsActive   *bool   `json:"is_active"`
}

// TermCreateRequest represents the request structure for creating an academic term
type TermCreateRequest struct {
	Name       string    `json:"name" validate:"required,max=50"`
	SchoolYear string    `json:"school_year" validate:"required,max=20"`
	StartDate  time.Time `json:"start_date" validate:"required"`
	EndDate    time.Time `json:"end_date" validate:"required"`
}

// SectionCreateRequest represents the request structure for creating a course section
type SectionCreateRequest struct {
	CourseID      uint    `json:"course_id" validate:"required"`
	TermID        uint    `json:"term_id" validate:"required"`
	SectionNumber string  `json:"section_number" validate:"required,max=20"`
	Room          *string `json:"room" validate:"omitempty,max=50"`
	Schedule      *string `json:"schedule" validate:"omitempty,max=100"`
	FacultyID     *uint   `json:"faculty_id"`
	MaxCapacity   int     `json:"max_capacity" validate:"required,section_capacity"`
}

// SectionUpdateRequest represents the request structure for updating a course section
type SectionUpdateRequest struct {
	SectionNumber *string `json:"section_number" validate:"omitempty,max=20"`
	Room          *string `json:"room" validate:"omitempty,max=50"`
	Schedule      *string `json:"schedule" validate:"omitempty,max=100"`
	FacultyID     *uint   `json:"faculty_id"`
	MaxCapacity   *int    `json:"max_capacity" validate:"omitempty,section_capacity"`
}

// EnrollRequest represents the request structure for enrolling a student
type EnrollRequest struct {
	StudentID uint `json:"student_id" validate:"required"`
	SectionID uint `json:"section_id" validate:"required"`
}

// RosterAddRequest adds a student to a roster by identifier. Identifiers
// containing @ resolve by email, everything else by student number.
type RosterAddRequest struct {
	Identifier string `json:"identifier" validate:"required,max=255"`
}

// SetGradeRequest represents the request structure for grading an enrollment
type SetGradeRequest struct {
	Grade string `json:"grade" validate:"required,grade_value"`
}

// AnnouncementCreateRequest represents the request structure for creating an announcement
type AnnouncementCreateRequest struct {
	Title          string `json:"title" validate:"required,max=200"`
	Content        string `json:"content" validate:"required"`
	TargetAudience string `json:"target_audience" validate:"omitempty,audience_format"`
	Publish        bool   `json:"publish"`
}

// AnnouncementUpdateRequest represents the request structure for updating an announcement
type AnnouncementUpdateRequest struct {
	Title          *string `json:"title" validate:"omitempty,max=200"`
	Content        *string `json:"content"`
	TargetAudience *string `json:"target_audience" validate:"omitempty,audience_format"`
	IsActive       *bool   `json:"is_active"`
}

// CalendarEventCreateRequest represents the request structure for creating a calendar event
type CalendarEventCreateRequest struct {
	Title       string    `json:"title" validate:"required,max=200"`
	Description *string   `json:"description"`
	EventType   string    `json:"event_type" validate:"omitempty,max=50"`
	StartDate   time.Time `json:"start_date" validate:"required"`
	EndDate     time.Time `json:"end_date" validate:"required"`
	IsAllDay    bool      `json:"is_all_day"`
	Location    *string   `json:"location" validate:"omitempty,max=200"`
}

// RoleChangeRequest represents an admin changing a user's role
type RoleChangeRequest struct {
	Role models.UserRole `json:"role" validate:"required,user_role"`
}
