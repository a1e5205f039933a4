package models

import (
	"time"

	"gorm.io/gorm"
)

type EnrollmentStatus string

const (
	EnrollmentEnrolled  EnrollmentStatus = "enrolled"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentDropped   EnrollmentStatus = "dropped"
)

// Enrollment ties one Student to one CourseSection. The partial unique index
// is the store-side guarantee behind the duplicate-enrollment check: it covers
// live rows only, so a dropped enrollment never blocks re-enrollment. The
// application check is an optimistic pre-check, the index is the arbiter.
type Enrollment struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	StudentID uint             `json:"student_id" gorm:"not null;uniqueIndex:idx_student_section,where:deleted_at IS NULL AND status <> 'dropped';index" validate:"required"`
	SectionID uint             `json:"section_id" gorm:"not null;uniqueIndex:idx_student_section;index" validate:"required"`
	Status    EnrollmentStatus `json:"status" gorm:"not null;default:enrolled;index;size:20" validate:"omitempty,oneof=enrolled completed dropped"`
	Grade     *string          `json:"grade" gorm:"size:10"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Student Student       `json:"student" gorm:"foreignKey:StudentID"`
	Section CourseSection `json:"section" gorm:"foreignKey:SectionID"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
