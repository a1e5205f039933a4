package repositories

import (
	"time"

	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type StudentFilters struct {
	ProgramID *uint                `json:"program_id"`
	YearLevel *int                 `json:"year_level"`
	Status    *models.UserStatus   `json:"status"`
	Query     string               `json:"query"` // matches name, email or student number
	Limit     int                  `json:"limit"`
	Offset    int                  `json:"offset"`
	SortBy    string               `json:"sort_by"`    // "created_at", "student_number", "year_level"
	SortOrder string               `json:"sort_order"` // "asc", "desc"
}

type CourseFilters struct {
	Department *string `json:"department"`
	IsActive   *bool   `json:"is_active"`
	Query      string  `json:"query"`
	Limit      int     `json:"limit"`
	Offset     int     `json:"offset"`
	SortBy     string  `json:"sort_by"`
	SortOrder  string  `json:"sort_order"`
}

type SectionFilters struct {
	CourseID  *uint  `json:"course_id"`
	TermID    *uint  `json:"term_id"`
	FacultyID *uint  `json:"faculty_id"`
	HasSeats  *bool  `json:"has_seats"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
	SortBy    string `json:"sort_by"`
	SortOrder string `json:"sort_order"`
}

type EnrollmentFilters struct {
	StudentID *uint                    `json:"student_id"`
	SectionID *uint                    `json:"section_id"`
	TermID    *uint                    `json:"term_id"`
	Status    *models.EnrollmentStatus `json:"status"`
	DateFrom  *time.Time               `json:"date_from"`
	DateTo    *time.Time               `json:"date_to"`
	Limit     int                      `json:"limit"`
	Offset    int                      `json:"offset"`
	SortBy    string                   `json:"sort_by"`
	SortOrder string                   `json:"sort_order"`
}

type AnnouncementFilters struct {
	Audiences  []string   `json:"audiences"` // target audience values the caller is part of
	IsActive   *bool      `json:"is_active"`
	CreatedBy  *string    `json:"created_by"`
	SinceDate  *time.Time `json:"since_date"`
	Limit      int        `json:"limit"`
	Offset     int        `json:"offset"`
	SortBy     string     `json:"sort_by"`
	SortOrder  string     `json:"sort_order"`
}

type CalendarFilters struct {
	EventType *string    `json:"event_type"`
	DateFrom  *time.Time `json:"date_from"`
	DateTo    *time.Time `json:"date_to"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
}

// ===== SHARED HELPER STRUCTS =====

// EnrollmentValidation is the outcome of an eligibility check. Reason is only
// set when Eligible is false.
type EnrollmentValidation struct {
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason,omitempty"`
}

// ===== SHARED STATISTICS STRUCTS =====

type StudentOverviewStats struct {
	EnrolledSections int     `json:"enrolled_sections"`
	CompletedCourses int     `json:"completed_courses"`
	CreditsEarned    int     `json:"credits_earned"`
	GPA              float64 `json:"gpa"`
}

type FacultyOverviewStats struct {
	AssignedSections int `json:"assigned_sections"`
	TotalStudents    int `json:"total_students"`
	UngradedCount    int `json:"ungraded_count"`
}

type AdminOverviewStats struct {
	TotalStudents    int64 `json:"total_students"`
	TotalFaculty     int64 `json:"total_faculty"`
	TotalCourses     int64 `json:"total_courses"`
	TotalSections    int64 `json:"total_sections"`
	TotalEnrollments int64 `json:"total_enrollments"`
	ActivePrograms   int64 `json:"active_programs"`
}

type SectionOccupancy struct {
	SectionID     uint   `json:"section_id"`
	CourseCode    string `json:"course_code"`
	SectionNumber string `json:"section_number"`
	EnrolledCount int    `json:"enrolled_count"`
	MaxCapacity   int    `json:"max_capacity"`
}
