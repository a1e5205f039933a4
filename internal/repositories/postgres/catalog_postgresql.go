package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/cache"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/models"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/repositories"
)

// ===== DEGREE PROGRAM REPOSITORY =====

type programRepository struct {
	db *gorm.DB
}

func NewProgramPostgreSQL(db *gorm.DB) repositories.DegreeProgramRepository {
	return &programRepository{db: db}
}

func (r *programRepository) Create(ctx context.Context, tx *gorm.DB, program *models.DegreeProgram) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(program).Error; err != nil {
		return handleDBError(err, "create program")
	}
	return nil
}

func (r *programRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.DegreeProgram, error) {
	db := r.getDB(tx)
	var program models.DegreeProgram

	if err := db.WithContext(ctx).First(&program, id).Error; err != nil {
		return nil, handleDBError(err, "get program by id")
	}

	return &program, nil
}

func (r *programRepository) GetByCode(ctx context.Context, tx *gorm.DB, code string) (*models.DegreeProgram, error) {
	db := r.getDB(tx)
	var program models.DegreeProgram

	if err := db.WithContext(ctx).
		Where("code = ?", code).
		First(&program).Error; err != nil {
		return nil, handleDBError(err, "get program by code")
	}

	return &program, nil
}

func (r *programRepository) Update(ctx context.Context, tx *gorm.DB, program *models.DegreeProgram) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Save(program).Error; err != nil {
		return handleDBError(err, "update program")
	}
	return nil
}

func (r *programRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Delete(&models.DegreeProgram{}, id).Error; err != nil {
		return handleDBError(err, "delete program")
	}
	return nil
}

func (r *programRepository) List(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]*models.DegreeProgram, error) {
	db := r.getDB(tx)
	var programs []*models.DegreeProgram

	query := db.WithContext(ctx).Order("code ASC")
	if activeOnly {
		query = query.Where("is_active = true")
	}

	if err := query.Find(&programs).Error; err != nil {
		return nil, handleDBError(err, "list programs")
	}

	return programs, nil
}

func (r *programRepository) GetByDepartment(ctx context.Context, tx *gorm.DB, department string) ([]*models.DegreeProgram, error) {
	db := r.getDB(tx)
	var programs []*models.DegreeProgram

	if err := db.WithContext(ctx).
		Where("department = ?", department).
		Order("code ASC").
		Find(&programs).Error; err != nil {
		return nil, handleDBError(err, "get programs by department")
	}

	return programs, nil
}

func (r *programRepository) ExistsByCode(ctx context.Context, tx *gorm.DB, code string, excludeID *uint) (bool, error) {
	db := r.getDB(tx)
	var count int64

	query := db.WithContext(ctx).
		Model(&models.DegreeProgram{}).
		Where("code = ?", code)
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}

	if err := query.Count(&count).Error; err != nil {
		return false, handleDBError(err, "check program code exists")
	}

	return count > 0, nil
}

func (r *programRepository) CountStudents(ctx context.Context, tx *gorm.DB, programID uint) (int64, error) {
	db := r.getDB(tx)
	var count int64

	if err := db.WithContext(ctx).
		Model(&models.Student{}).
		Where("program_id = ?", programID).
		Count(&count).Error; err != nil {
		return 0, handleDBError(err, "count program students")
	}

	return count, nil
}

func (r *programRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// ===== COURSE REPOSITORY =====

type courseRepository struct {
	db *gorm.DB
}

func NewCoursePostgreSQL(db *gorm.DB) repositories.CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(course).Error; err != nil {
		return handleDBError(err, "create course")
	}
	return nil
}

func (r *courseRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error) {
	db := r.getDB(tx)
	var course models.Course

	if err := db.WithContext(ctx).First(&course, id).Error; err != nil {
		return nil, handleDBError(err, "get course by id")
	}

	return &course, nil
}

func (r *courseRepository) GetByCode(ctx context.Context, tx *gorm.DB, code string) (*models.Course, error) {
	db := r.getDB(tx)
	var course models.Course

	if err := db.WithContext(ctx).
		Where("code = ?", code).
		First(&course).Error; err != nil {
		return nil, handleDBError(err, "get course by code")
	}

	return &course, nil
}

func (r *courseRepository) Update(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Save(course).Error; err != nil {
		return handleDBError(err, "update course")
	}
	return nil
}

func (r *courseRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Delete(&models.Course{}, id).Error; err != nil {
		return handleDBError(err, "delete course")
	}
	return nil
}

func (r *courseRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	db := r.getDB(tx)
	var courses []*models.Course
	var total int64

	query := db.WithContext(ctx).Model(&models.Course{})
	query = r.applyCourseFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count courses")
	}

	query = applyPaginationAndSorting(query, filters.Limit, filters.Offset, filters.SortBy, filters.SortOrder, map[string]string{
		"created_at": "created_at",
		"code":       "code",
		"name":       "name",
		"id":         "id",
	}, "code")

	if err := query.Find(&courses).Error; err != nil {
		return nil, 0, handleDBError(err, "list courses")
	}

	return courses, total, nil
}

func (r *courseRepository) Search(ctx context.Context, tx *gorm.DB, query string, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	filters.Query = query
	return r.List(ctx, tx, filters)
}

func (r *courseRepository) ExistsByCode(ctx context.Context, tx *gorm.DB, code string, excludeID *uint) (bool, error) {
	db := r.getDB(tx)
	var count int64

	query := db.WithContext(ctx).
		Model(&models.Course{}).
		Where("code = ?", code)
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}

	if err := query.Count(&count).Error; err != nil {
		return false, handleDBError(err, "check course code exists")
	}

	return count > 0, nil
}

func (r *courseRepository) HasSections(ctx context.Context, tx *gorm.DB, courseID uint) (bool, error) {
	db := r.getDB(tx)
	var count int64

	if err := db.WithContext(ctx).
		Model(&models.CourseSection{}).
		Where("course_id = ?", courseID).
		Count(&count).Error; err != nil {
		return false, handleDBError(err, "check course has sections")
	}

	return count > 0, nil
}

func (r *courseRepository) applyCourseFilters(query *gorm.DB, filters repositories.CourseFilters) *gorm.DB {
	if filters.Department != nil {
		query = query.Where("department = ?", *filters.Department)
	}
	if filters.IsActive != nil {
		query = query.Where("is_active = ?", *filters.IsActive)
	}
	if filters.Query != "" {
		pattern := "%" + filters.Query + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ?", pattern, pattern)
	}
	return query
}

func (r *courseRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// ===== ACADEMIC TERM REPOSITORY =====

type termRepository struct {
	db      *gorm.DB
	cache   *cache.CacheManager
	pending *cacheInvalidations
}

func NewTermPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.AcademicTermRepository {
	return &termRepository{db: db, cache: cacheManager}
}

func (r *termRepository) invalidateCatalog(ctx context.Context) {
	runOrDefer(ctx, r.pending, func(ctx context.Context) {
		_ = r.cache.InvalidateCatalog(ctx)
	})
}

func (r *termRepository) Create(ctx context.Context, tx *gorm.DB, term *models.AcademicTerm) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(term).Error; err != nil {
		return handleDBError(err, "create term")
	}
	return nil
}

func (r *termRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.AcademicTerm, error) {
	db := r.getDB(tx)
	var term models.AcademicTerm

	if err := db.WithContext(ctx).First(&term, id).Error; err != nil {
		return nil, handleDBError(err, "get term by id")
	}

	return &term, nil
}

func (r *termRepository) Update(ctx context.Context, tx *gorm.DB, term *models.AcademicTerm) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Save(term).Error; err != nil {
		return handleDBError(err, "update term")
	}

	r.invalidateCatalog(ctx)
	return nil
}

func (r *termRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Delete(&models.AcademicTerm{}, id).Error; err != nil {
		return handleDBError(err, "delete term")
	}

	r.invalidateCatalog(ctx)
	return nil
}

func (r *termRepository) List(ctx context.Context, tx *gorm.DB) ([]*models.AcademicTerm, error) {
	db := r.getDB(tx)
	var terms []*models.AcademicTerm

	if err := db.WithContext(ctx).
		Order("start_date DESC").
		Find(&terms).Error; err != nil {
		return nil, handleDBError(err, "list terms")
	}

	return terms, nil
}

func (r *termRepository) GetCurrent(ctx context.Context, tx *gorm.DB) (*models.AcademicTerm, error) {
	var term models.AcademicTerm

	if r.pending == nil {
		if err := r.cache.Catalog.Get(ctx, "term:current", &term); err == nil {
			return &term, nil
		}
	}

	db := r.getDB(tx)
	if err := db.WithContext(ctx).
		Where("is_current = true").
		First(&term).Error; err != nil {
		return nil, handleDBError(err, "get current term")
	}

	if r.pending == nil {
		_ = r.cache.Catalog.Set(ctx, "term:current", &term, cache.CatalogCacheConfig.TTL)
	}

	return &term, nil
}

func (r *termRepository) SetCurrent(ctx context.Context, tx *gorm.DB, termID uint) error {
	db := r.getDB(tx)

	// Clear the flag everywhere before setting it, both inside the same call
	// so a caller-provided transaction keeps the two writes atomic.
	if err := db.WithContext(ctx).
		Model(&models.AcademicTerm{}).
		Where("is_current = true").
		Update("is_current", false).Error; err != nil {
		return handleDBError(err, "clear current term")
	}

	result := db.WithContext(ctx).
		Model(&models.AcademicTerm{}).
		Where("id = ?", termID).
		Update("is_current", true)
	if result.Error != nil {
		return handleDBError(result.Error, "set current term")
	}
	if result.RowsAffected == 0 {
		return handleDBError(gorm.ErrRecordNotFound, "set current term")
	}

	r.invalidateCatalog(ctx)
	return nil
}

func (r *termRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}
