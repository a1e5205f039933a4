package repositories

import (
	"context"

	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/models"
	"gorm.io/gorm"
)

// EnrollmentRepository interface for enrollment operations
type EnrollmentRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Enrollment, error)
	GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Enrollment, error) // include student.user, section.course
	Update(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	// Query operations
	List(ctx context.Context, tx *gorm.DB, filters EnrollmentFilters) ([]*models.Enrollment, int64, error)
	GetByStudent(ctx context.Context, tx *gorm.DB, studentID uint, filters EnrollmentFilters) ([]*models.Enrollment, error)
	GetByStudentAndSection(ctx context.Context, tx *gorm.DB, studentID, sectionID uint) (*models.Enrollment, error)

	// Roster operations. Rows come back ordered by created_at ascending with
	// Student and Student.User preloaded.
	GetRoster(ctx context.Context, tx *gorm.DB, sectionID uint) ([]*models.Enrollment, error)
	CountBySection(ctx context.Context, tx *gorm.DB, sectionID uint) (int64, error)

	// Grade operations
	SetGrade(ctx context.Context, tx *gorm.DB, enrollmentID uint, grade *string) error
	GetUngradedCount(ctx context.Context, tx *gorm.DB, sectionIDs []uint) (int64, error)

	// Validation and checks. Dropped enrollments do not count as duplicates,
	// so a student can re-enroll in a section they previously left.
	ExistsByStudentAndSection(ctx context.Context, tx *gorm.DB, studentID, sectionID uint) (bool, error)
	CountByStudent(ctx context.Context, tx *gorm.DB, studentID uint, status *models.EnrollmentStatus) (int64, error)
}
