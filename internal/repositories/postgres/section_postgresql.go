package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/cache"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/models"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/repositories"
)

type sectionRepository struct {
	db      *gorm.DB
	cache   *cache.CacheManager
	pending *cacheInvalidations
}

func NewSectionPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.SectionRepository {
	return &sectionRepository{db: db, cache: cacheManager}
}

func (r *sectionRepository) invalidateSection(ctx context.Context, id uint) {
	runOrDefer(ctx, r.pending, func(ctx context.Context) {
		_ = r.cache.InvalidateSection(ctx, id)
	})
}

// ===== BASIC CRUD OPERATIONS =====

func (r *sectionRepository) Create(ctx context.Context, tx *gorm.DB, section *models.CourseSection) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(section).Error; err != nil {
		return handleDBError(err, "create section")
	}

	r.invalidateSection(ctx, section.ID)
	return nil
}

func (r *sectionRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.CourseSection, error) {
	db := r.getDB(tx)
	var section models.CourseSection

	if err := db.WithContext(ctx).First(&section, id).Error; err != nil {
		return nil, handleDBError(err, "get section by id")
	}

	return &section, nil
}

func (r *sectionRepository) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.CourseSection, error) {
	var section models.CourseSection

	// Transactional reads need the transaction's view, not the cache's.
	cacheKey := fmt.Sprintf("details:%d", id)
	if r.pending == nil {
		if err := r.cache.Section.Get(ctx, cacheKey, &section); err == nil {
			return &section, nil
		}
	}

	db := r.getDB(tx)
	if err := db.WithContext(ctx).
		Preload("Course").
		Preload("Term").
		Preload("Faculty.User").
		First(&section, id).Error; err != nil {
		return nil, handleDBError(err, "get section with details")
	}

	if r.pending == nil {
		_ = r.cache.Section.Set(ctx, cacheKey, &section, cache.SectionCacheConfig.TTL)
	}

	return &section, nil
}

func (r *sectionRepository) Update(ctx context.Context, tx *gorm.DB, section *models.CourseSection) error {
	db := r.getDB(tx)
	// Omit the seat counter so a stale in-memory value can never clobber what
	// the guarded reservation maintains.
	if err := db.WithContext(ctx).
		Omit("enrolled_count").
		Save(section).Error; err != nil {
		return handleDBError(err, "update section")
	}

	r.invalidateSection(ctx, section.ID)
	return nil
}

func (r *sectionRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Delete(&models.CourseSection{}, id).Error; err != nil {
		return handleDBError(err, "delete section")
	}

	r.invalidateSection(ctx, id)
	return nil
}

// ===== QUERY OPERATIONS =====

func (r *sectionRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.SectionFilters) ([]*models.CourseSection, int64, error) {
	db := r.getDB(tx)
	var sections []*models.CourseSection
	var total int64

	query := db.WithContext(ctx).
		Model(&models.CourseSection{}).
		Preload("Course").
		Preload("Term").
		Preload("Faculty.User")
	query = r.applySectionFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count sections")
	}

	query = applyPaginationAndSorting(query, filters.Limit, filters.Offset, filters.SortBy, filters.SortOrder, map[string]string{
		"created_at":     "created_at",
		"section_number": "section_number",
		"enrolled_count": "enrolled_count",
		"id":             "id",
	}, "section_number")

	if err := query.Find(&sections).Error; err != nil {
		return nil, 0, handleDBError(err, "list sections")
	}

	return sections, total, nil
}

func (r *sectionRepository) GetByCourse(ctx context.Context, tx *gorm.DB, courseID uint, filters repositories.SectionFilters) ([]*models.CourseSection, error) {
	filters.CourseID = &courseID
	sections, _, err := r.List(ctx, tx, filters)
	return sections, err
}

func (r *sectionRepository) GetByFaculty(ctx context.Context, tx *gorm.DB, facultyID uint, termID *uint) ([]*models.CourseSection, error) {
	db := r.getDB(tx)
	var sections []*models.CourseSection

	query := db.WithContext(ctx).
		Preload("Course").
		Preload("Term").
		Where("faculty_id = ?", facultyID)
	if termID != nil {
		query = query.Where("term_id = ?", *termID)
	}

	if err := query.Order("section_number ASC").Find(&sections).Error; err != nil {
		return nil, handleDBError(err, "get sections by faculty")
	}

	return sections, nil
}

func (r *sectionRepository) GetByTerm(ctx context.Context, tx *gorm.DB, termID uint, filters repositories.SectionFilters) ([]*models.CourseSection, int64, error) {
	filters.TermID = &termID
	return r.List(ctx, tx, filters)
}

// ===== SEAT ACCOUNTING =====

// ReserveSeat takes one seat with a single guarded UPDATE. The WHERE clause is
// the capacity check: zero rows affected means the section was already full
// (or missing) at the moment of the write.
func (r *sectionRepository) ReserveSeat(ctx context.Context, tx *gorm.DB, sectionID uint) (bool, error) {
	db := r.getDB(tx)

	result := db.WithContext(ctx).
		Model(&models.CourseSection{}).
		Where("id = ? AND enrolled_count < max_capacity", sectionID).
		UpdateColumn("enrolled_count", gorm.Expr("enrolled_count + 1"))
	if result.Error != nil {
		return false, handleDBError(result.Error, "reserve seat")
	}

	if result.RowsAffected > 0 {
		r.invalidateSection(ctx, sectionID)
		return true, nil
	}
	return false, nil
}

func (r *sectionRepository) ReleaseSeat(ctx context.Context, tx *gorm.DB, sectionID uint) error {
	db := r.getDB(tx)

	if err := db.WithContext(ctx).
		Model(&models.CourseSection{}).
		Where("id = ? AND enrolled_count > 0", sectionID).
		UpdateColumn("enrolled_count", gorm.Expr("enrolled_count - 1")).Error; err != nil {
		return handleDBError(err, "release seat")
	}

	r.invalidateSection(ctx, sectionID)
	return nil
}

// ===== FACULTY ASSIGNMENT =====

func (r *sectionRepository) AssignFaculty(ctx context.Context, tx *gorm.DB, sectionID uint, facultyID *uint) error {
	db := r.getDB(tx)

	result := db.WithContext(ctx).
		Model(&models.CourseSection{}).
		Where("id = ?", sectionID).
		Update("faculty_id", facultyID)
	if result.Error != nil {
		return handleDBError(result.Error, "assign faculty")
	}
	if result.RowsAffected == 0 {
		return handleDBError(gorm.ErrRecordNotFound, "assign faculty")
	}

	r.invalidateSection(ctx, sectionID)
	return nil
}

// ===== VALIDATION =====

func (r *sectionRepository) ExistsBySectionNumber(ctx context.Context, tx *gorm.DB, courseID, termID uint, sectionNumber string, excludeID *uint) (bool, error) {
	db := r.getDB(tx)
	var count int64

	query := db.WithContext(ctx).
		Model(&models.CourseSection{}).
		Where("course_id = ? AND term_id = ? AND section_number = ?", courseID, termID, sectionNumber)
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}

	if err := query.Count(&count).Error; err != nil {
		return false, handleDBError(err, "check section number exists")
	}

	return count > 0, nil
}

func (r *sectionRepository) HasEnrollments(ctx context.Context, tx *gorm.DB, sectionID uint) (bool, error) {
	db := r.getDB(tx)
	var count int64

	if err := db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("section_id = ?", sectionID).
		Count(&count).Error; err != nil {
		return false, handleDBError(err, "check section has enrollments")
	}

	return count > 0, nil
}

// ===== HELPER METHODS =====

func (r *sectionRepository) applySectionFilters(query *gorm.DB, filters repositories.SectionFilters) *gorm.DB {
	if filters.CourseID != nil {
		query = query.Where("course_id = ?", *filters.CourseID)
	}
	if filters.TermID != nil {
		query = query.Where("term_id = ?", *filters.TermID)
	}
	if filters.FacultyID != nil {
		query = query.Where("faculty_id = ?", *filters.FacultyID)
	}
	if filters.HasSeats != nil {
		if *filters.HasSeats {
			query = query.Where("enrolled_count < max_capacity")
		} else {
			query = query.Where("enrolled_count >= max_capacity")
		}
	}
	return query
}

func (r *sectionRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}
