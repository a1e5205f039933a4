package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/cache"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/models"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/repositories"
)

type enrollmentRepository struct {
	db      *gorm.DB
	cache   *cache.CacheManager
	helpers *SharedHelpers
	pending *cacheInvalidations
}

func (r *enrollmentRepository) invalidateEnrollment(ctx context.Context, sectionID, studentID uint) {
	runOrDefer(ctx, r.pending, func(ctx context.Context) {
		_ = r.cache.InvalidateSection(ctx, sectionID)
		_ = r.cache.InvalidateStudent(ctx, studentID)
	})
}

func (r *enrollmentRepository) invalidateRosters(ctx context.Context) {
	runOrDefer(ctx, r.pending, func(ctx context.Context) {
		cache.SafeInvalidatePattern(ctx, r.cache.Section, "roster:*")
	})
}

func NewEnrollmentPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.EnrollmentRepository {
	return &enrollmentRepository{
		db:      db,
		cache:   cacheManager,
		helpers: NewSharedHelpers(db),
	}
}

// ===== BASIC CRUD OPERATIONS =====

func (r *enrollmentRepository) Create(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(enrollment).Error; err != nil {
		return handleDBError(err, "create enrollment")
	}

	r.invalidateEnrollment(ctx, enrollment.SectionID, enrollment.StudentID)
	return nil
}

func (r *enrollmentRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Enrollment, error) {
	db := r.getDB(tx)
	var enrollment models.Enrollment

	if err := db.WithContext(ctx).First(&enrollment, id).Error; err != nil {
		return nil, handleDBError(err, "get enrollment by id")
	}

	return &enrollment, nil
}

func (r *enrollmentRepository) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Enrollment, error) {
	db := r.getDB(tx)
	var enrollment models.Enrollment

	if err := db.WithContext(ctx).
		Preload("Student.User").
		Preload("Section.Course").
		Preload("Section.Term").
		First(&enrollment, id).Error; err != nil {
		return nil, handleDBError(err, "get enrollment with details")
	}

	return &enrollment, nil
}

func (r *enrollmentRepository) Update(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Save(enrollment).Error; err != nil {
		return handleDBError(err, "update enrollment")
	}

	r.invalidateEnrollment(ctx, enrollment.SectionID, enrollment.StudentID)
	return nil
}

func (r *enrollmentRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Delete(&models.Enrollment{}, id).Error; err != nil {
		return handleDBError(err, "delete enrollment")
	}

	// Only the id is known here, so clear every cached roster.
	r.invalidateRosters(ctx)
	return nil
}

// ===== QUERY OPERATIONS =====

func (r *enrollmentRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.EnrollmentFilters) ([]*models.Enrollment, int64, error) {
	db := r.getDB(tx)
	var enrollments []*models.Enrollment
	var total int64

	query := db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Preload("Student.User").
		Preload("Section.Course")
	query = r.helpers.ApplyEnrollmentFilters(query, filters)

	if filters.TermID != nil {
		query = query.
			Joins("INNER JOIN course_sections ON course_sections.id = enrollments.section_id").
			Where("course_sections.term_id = ?", *filters.TermID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count enrollments")
	}

	query = applyPaginationAndSorting(query, filters.Limit, filters.Offset, filters.SortBy, filters.SortOrder, map[string]string{
		"created_at": "enrollments.created_at",
		"status":     "enrollments.status",
		"id":         "enrollments.id",
	}, "enrollments.created_at")

	if err := query.Find(&enrollments).Error; err != nil {
		return nil, 0, handleDBError(err, "list enrollments")
	}

	return enrollments, total, nil
}

func (r *enrollmentRepository) GetByStudent(ctx context.Context, tx *gorm.DB, studentID uint, filters repositories.EnrollmentFilters) ([]*models.Enrollment, error) {
	filters.StudentID = &studentID
	enrollments, _, err := r.List(ctx, tx, filters)
	return enrollments, err
}

func (r *enrollmentRepository) GetByStudentAndSection(ctx context.Context, tx *gorm.DB, studentID, sectionID uint) (*models.Enrollment, error) {
	db := r.getDB(tx)
	var enrollment models.Enrollment

	if err := db.WithContext(ctx).
		Where("student_id = ? AND section_id = ?", studentID, sectionID).
		First(&enrollment).Error; err != nil {
		return nil, handleDBError(err, "get enrollment by student and section")
	}

	return &enrollment, nil
}

// ===== ROSTER OPERATIONS =====

// GetRoster returns the section roster in enrollment order, oldest first.
func (r *enrollmentRepository) GetRoster(ctx context.Context, tx *gorm.DB, sectionID uint) ([]*models.Enrollment, error) {
	var enrollments []*models.Enrollment

	cacheKey := fmt.Sprintf("roster:%d", sectionID)
	if r.pending == nil {
		if err := r.cache.Section.Get(ctx, cacheKey, &enrollments); err == nil {
			return enrollments, nil
		}
	}

	db := r.getDB(tx)
	if err := db.WithContext(ctx).
		Preload("Student.User").
		Where("section_id = ?", sectionID).
		Order("created_at ASC").
		Find(&enrollments).Error; err != nil {
		return nil, handleDBError(err, "get roster")
	}

	if r.pending == nil {
		_ = r.cache.Section.Set(ctx, cacheKey, enrollments, cache.SectionCacheConfig.TTL)
	}

	return enrollments, nil
}

func (r *enrollmentRepository) CountBySection(ctx context.Context, tx *gorm.DB, sectionID uint) (int64, error) {
	db := r.getDB(tx)
	var count int64

	if err := db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("section_id = ?", sectionID).
		Count(&count).Error; err != nil {
		return 0, handleDBError(err, "count section enrollments")
	}

	return count, nil
}

// ===== GRADE OPERATIONS =====

func (r *enrollmentRepository) SetGrade(ctx context.Context, tx *gorm.DB, enrollmentID uint, grade *string) error {
	db := r.getDB(tx)

	result := db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("id = ?", enrollmentID).
		Update("grade", grade)
	if result.Error != nil {
		return handleDBError(result.Error, "set grade")
	}
	if result.RowsAffected == 0 {
		return handleDBError(gorm.ErrRecordNotFound, "set grade")
	}

	// Grades show up on roster exports, so cached rosters must go.
	r.invalidateRosters(ctx)
	return nil
}

func (r *enrollmentRepository) GetUngradedCount(ctx context.Context, tx *gorm.DB, sectionIDs []uint) (int64, error) {
	if len(sectionIDs) == 0 {
		return 0, nil
	}

	db := r.getDB(tx)
	var count int64

	if err := db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("section_id IN ? AND grade IS NULL AND status = ?", sectionIDs, models.EnrollmentEnrolled).
		Count(&count).Error; err != nil {
		return 0, handleDBError(err, "count ungraded enrollments")
	}

	return count, nil
}

// ===== VALIDATION =====

func (r *enrollmentRepository) ExistsByStudentAndSection(ctx context.Context, tx *gorm.DB, studentID, sectionID uint) (bool, error) {
	db := r.getDB(tx)
	var count int64

	if err := db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("student_id = ? AND section_id = ? AND status <> ?", studentID, sectionID, models.EnrollmentDropped).
		Count(&count).Error; err != nil {
		return false, handleDBError(err, "check enrollment exists")
	}

	return count > 0, nil
}

func (r *enrollmentRepository) CountByStudent(ctx context.Context, tx *gorm.DB, studentID uint, status *models.EnrollmentStatus) (int64, error) {
	db := r.getDB(tx)
	var count int64

	query := db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("student_id = ?", studentID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if err := query.Count(&count).Error; err != nil {
		return 0, handleDBError(err, "count student enrollments")
	}

	return count, nil
}

// ===== HELPER METHODS =====

func (r *enrollmentRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}
