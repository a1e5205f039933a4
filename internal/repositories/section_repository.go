package repositories

import (
	"context"

	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/models"
	"gorm.io/gorm"
)

// SectionRepository interface for course section operations
type SectionRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, tx *gorm.DB, section *models.CourseSection) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.CourseSection, error)
	GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.CourseSection, error) // include course, term, faculty
	Update(ctx context.Context, tx *gorm.DB, section *models.CourseSection) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	// Query operations
	List(ctx context.Context, tx *gorm.DB, filters SectionFilters) ([]*models.CourseSection, int64, error)
	GetByCourse(ctx context.Context, tx *gorm.DB, courseID uint, filters SectionFilters) ([]*models.CourseSection, error)
	GetByFaculty(ctx context.Context, tx *gorm.DB, facultyID uint, termID *uint) ([]*models.CourseSection, error)
	GetByTerm(ctx context.Context, tx *gorm.DB, termID uint, filters SectionFilters) ([]*models.CourseSection, int64, error)

	// Seat accounting. ReserveSeat increments enrolled_count only while below
	// max_capacity in a single guarded UPDATE; it reports whether a seat was
	// actually taken. ReleaseSeat never drops the count below zero.
	ReserveSeat(ctx context.Context, tx *gorm.DB, sectionID uint) (bool, error)
	ReleaseSeat(ctx context.Context, tx *gorm.DB, sectionID uint) error

	// Faculty assignment
	AssignFaculty(ctx context.Context, tx *gorm.DB, sectionID uint, facultyID *uint) error

	// Validation and checks
	ExistsBySectionNumber(ctx context.Context, tx *gorm.DB, courseID, termID uint, sectionNumber string, excludeID *uint) (bool, error)
	HasEnrollments(ctx context.Context, tx *gorm.DB, sectionID uint) (bool, error)
}
