package repositories

import (
	"context"

	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/models"
	"gorm.io/gorm"
)

// StudentRepository interface for student profile operations
type StudentRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, tx *gorm.DB, student *models.Student) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Student, error)
	GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Student, error) // include user, program
	Update(ctx context.Context, tx *gorm.DB, student *models.Student) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	// Lookup operations
	GetByUserID(ctx context.Context, tx *gorm.DB, userID string) (*models.Student, error)
	GetByStudentNumber(ctx context.Context, tx *gorm.DB, studentNumber string) (*models.Student, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.Student, error)

	// Query operations
	List(ctx context.Context, tx *gorm.DB, filters StudentFilters) ([]*models.Student, int64, error)
	GetByProgram(ctx context.Context, tx *gorm.DB, programID uint, filters StudentFilters) ([]*models.Student, int64, error)
	Search(ctx context.Context, tx *gorm.DB, query string, filters StudentFilters) ([]*models.Student, int64, error)

	// Validation and checks
	ExistsByUserID(ctx context.Context, tx *gorm.DB, userID string) (bool, error)
	ExistsByStudentNumber(ctx context.Context, tx *gorm.DB, studentNumber string) (bool, error)
}

// FacultyRepository interface for faculty profile operations
type FacultyRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, tx *gorm.DB, faculty *models.Faculty) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Faculty, error)
	Update(ctx context.Context, tx *gorm.DB, faculty *models.Faculty) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	// Lookup operations
	GetByUserID(ctx context.Context, tx *gorm.DB, userID string) (*models.Faculty, error)

	// Query operations
	List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*models.Faculty, int64, error)
	GetByDepartment(ctx context.Context, tx *gorm.DB, department string) ([]*models.Faculty, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)

	// Validation and checks
	ExistsByUserID(ctx context.Context, tx *gorm.DB, userID string) (bool, error)
}
