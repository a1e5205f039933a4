package repositories

import (
	"context"

	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/models"
	"gorm.io/gorm"
)

// DegreeProgramRepository interface for degree program operations
type DegreeProgramRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, tx *gorm.DB, program *models.DegreeProgram) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.DegreeProgram, error)
	GetByCode(ctx context.Context, tx *gorm.DB, code string) (*models.DegreeProgram, error)
	Update(ctx context.Context, tx *gorm.DB, program *models.DegreeProgram) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	// Query operations
	List(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]*models.DegreeProgram, error)
	GetByDepartment(ctx context.Context, tx *gorm.DB, department string) ([]*models.DegreeProgram, error)

	// Validation and checks
	ExistsByCode(ctx context.Context, tx *gorm.DB, code string, excludeID *uint) (bool, error)
	CountStudents(ctx context.Context, tx *gorm.DB, programID uint) (int64, error)
}

// CourseRepository interface for course catalog operations
type CourseRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, tx *gorm.DB, course *models.Course) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error)
	GetByCode(ctx context.Context, tx *gorm.DB, code string) (*models.Course, error)
	Update(ctx context.Context, tx *gorm.DB, course *models.Course) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	// Query operations
	List(ctx context.Context, tx *gorm.DB, filters CourseFilters) ([]*models.Course, int64, error)
	Search(ctx context.Context, tx *gorm.DB, query string, filters CourseFilters) ([]*models.Course, int64, error)

	// Validation and checks
	ExistsByCode(ctx context.Context, tx *gorm.DB, code string, excludeID *uint) (bool, error)
	HasSections(ctx context.Context, tx *gorm.DB, courseID uint) (bool, error)
}

// AcademicTermRepository interface for academic term operations
type AcademicTermRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, tx *gorm.DB, term *models.AcademicTerm) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.AcademicTerm, error)
	Update(ctx context.Context, tx *gorm.DB, term *models.AcademicTerm) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	// Query operations
	List(ctx context.Context, tx *gorm.DB) ([]*models.AcademicTerm, error)
	GetCurrent(ctx context.Context, tx *gorm.DB) (*models.AcademicTerm, error)

	// Only one term may be current at a time; setting one clears the rest.
	SetCurrent(ctx context.Context, tx *gorm.DB, termID uint) error
}
