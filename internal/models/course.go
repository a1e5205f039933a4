package models

import (
	"time"

	"gorm.io/gorm"
)

// Course is static reference data describing a catalog entry.
type Course struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	Name       string `json:"name" gorm:"not null;size:200" validate:"required,max=200"`
	Code       string `json:"code" gorm:"uniqueIndex;not null;size:20" validate:"required,max=20"`
	Department string `json:"department" gorm:"size:100;index"`
	Credits    int    `json:"credits" gorm:"not null" validate:"required,min=1,max=12"`
	IsActive   bool   `json:"is_active" gorm:"default:true;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Course) TableName() string {
	return "courses"
}

// AcademicTerm scopes section offerings to a semester.
type AcademicTerm struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name" gorm:"not null;size:50" validate:"required,max=50"`
	SchoolYear string    `json:"school_year" gorm:"not null;size:20" validate:"required,max=20"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	IsCurrent  bool      `json:"is_current" gorm:"default:false;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (AcademicTerm) TableName() string {
	return "academic_terms"
}

// CourseSection is one scheduled offering of a Course in a term. FacultyID is
// nullable: a section may be unassigned until faculty management assigns it.
// EnrolledCount is maintained by the guarded seat reservation in the enrollment
// repository, never written directly by callers.
type CourseSection struct {
	ID            uint    `json:"id" gorm:"primaryKey"`
	CourseID      uint    `json:"course_id" gorm:"not null;index" validate:"required"`
	TermID        uint    `json:"term_id" gorm:"not null;index" validate:"required"`
	SectionNumber string  `json:"section_number" gorm:"not null;size:20" validate:"required,max=20"`
	Room          *string `json:"room" gorm:"size:50"`
	Schedule      *string `json:"schedule" gorm:"size:100"`
	FacultyID     *uint   `json:"faculty_id" gorm:"index"`
	MaxCapacity   int     `json:"max_capacity" gorm:"not null" validate:"required,min=1,max=500"`
	EnrolledCount int     `json:"enrolled_count" gorm:"not null;default:0"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Course  Course       `json:"course" gorm:"foreignKey:CourseID"`
	Term    AcademicTerm `json:"term" gorm:"foreignKey:TermID"`
	Faculty *Faculty     `json:"faculty" gorm:"foreignKey:FacultyID"`
}

func (CourseSection) TableName() string {
	return "course_sections"
}

// IsFull reports whether the section has no open seats left.
func (s *CourseSection) IsFull() bool {
	return s.EnrolledCount >= s.MaxCapacity
}
