package models

import (
	"time"

	"gorm.io/gorm"
)

// Student extends a User with registrar data. One row per user with role=student,
// created when a student signup completes.
type Student struct {
	ID            uint    `json:"id" gorm:"primaryKey"`
	UserID        string  `json:"user_id" gorm:"uniqueIndex;not null;size:255"`
	StudentNumber string  `json:"student_number" gorm:"uniqueIndex;not null;size:30" validate:"required,max=30"`
	ProgramID     *uint   `json:"program_id" gorm:"index"`
	YearLevel     int     `json:"year_level" gorm:"not null;default:1" validate:"min=1,max=8"`
	GPA           float64 `json:"gpa"`
	CreditsEarned int     `json:"total_credits_earned"`

	// Emergency contact
	EmergencyContactName  *string `json:"emergency_contact_name" gorm:"size:100"`
	EmergencyContactPhone *string `json:"emergency_contact_phone" gorm:"size:30"`

	EnrollmentDate          *time.Time `json:"enrollment_date"`
	ExpectedGraduationDate  *time.Time `json:"expected_graduation_date"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	User    User           `json:"user" gorm:"foreignKey:UserID"`
	Program *DegreeProgram `json:"program" gorm:"foreignKey:ProgramID"`
}

func (Student) TableName() string {
	return "students"
}

// Faculty extends a User with instructor data.
type Faculty struct {
	ID         uint    `json:"id" gorm:"primaryKey"`
	UserID     string  `json:"user_id" gorm:"uniqueIndex;not null;size:255"`
	Title      string  `json:"title" gorm:"size:100"`
	Department string  `json:"department" gorm:"size:100;index"`
	Phone      *string `json:"phone" gorm:"size:30"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	User User `json:"user" gorm:"foreignKey:UserID"`
}

func (Faculty) TableName() string {
	return "faculty"
}

// DegreeProgram is static reference data mutated only by admins.
type DegreeProgram struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Name         string `json:"name" gorm:"not null;size:200" validate:"required,max=200"`
	Code         string `json:"code" gorm:"uniqueIndex;not null;size:20" validate:"required,max=20"`
	Department   string `json:"department" gorm:"size:100;index"`
	Coordinator  string `json:"coordinator" gorm:"size:100"`
	TotalCredits int    `json:"total_credits" validate:"min=0"`
	IsActive     bool   `json:"is_active" gorm:"default:true;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (DegreeProgram) TableName() string {
	return "degree_programs"
}
