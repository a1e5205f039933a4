package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// DashboardRepository interface for per-role overview queries
type DashboardRepository interface {
	// Student overview
	GetStudentOverview(ctx context.Context, tx *gorm.DB, studentID uint, termID *uint) (*StudentOverviewStats, error)

	// Faculty overview
	GetFacultyOverview(ctx context.Context, tx *gorm.DB, facultyID uint, termID *uint) (*FacultyOverviewStats, error)

	// Admin overview
	GetAdminOverview(ctx context.Context, tx *gorm.DB) (*AdminOverviewStats, error)

	// Section occupancy snapshot for capacity monitoring
	GetSectionOccupancy(ctx context.Context, tx *gorm.DB, termID uint, limit int) ([]SectionOccupancy, error)

	// Enrollment volume per day over a trailing window
	GetEnrollmentTrend(ctx context.Context, tx *gorm.DB, days int) ([]EnrollmentTrendData, error)
}

type EnrollmentTrendData struct {
	Date  time.Time `json:"date"`
	Count int64     `json:"count"`
}
