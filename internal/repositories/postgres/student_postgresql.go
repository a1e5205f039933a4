package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/cache"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/models"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/repositories"
)

type studentRepository struct {
	db      *gorm.DB
	cache   *cache.CacheManager
	helpers *SharedHelpers
	pending *cacheInvalidations
}

func (r *studentRepository) invalidateStudent(ctx context.Context, id uint) {
	runOrDefer(ctx, r.pending, func(ctx context.Context) {
		_ = r.cache.InvalidateStudent(ctx, id)
	})
}

func NewStudentPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.StudentRepository {
	return &studentRepository{
		db:      db,
		cache:   cacheManager,
		helpers: NewSharedHelpers(db),
	}
}

// ===== BASIC CRUD OPERATIONS =====

func (r *studentRepository) Create(ctx context.Context, tx *gorm.DB, student *models.Student) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(student).Error; err != nil {
		return handleDBError(err, "create student")
	}

	r.invalidateStudent(ctx, student.ID)
	return nil
}

func (r *studentRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Student, error) {
	db := r.getDB(tx)
	var student models.Student

	if err := db.WithContext(ctx).
		Preload("User").
		First(&student, id).Error; err != nil {
		return nil, handleDBError(err, "get student by id")
	}

	return &student, nil
}

func (r *studentRepository) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Student, error) {
	var student models.Student

	cacheKey := fmt.Sprintf("details:%d", id)
	if r.pending == nil {
		if err := r.cache.Student.Get(ctx, cacheKey, &student); err == nil {
			return &student, nil
		}
	}

	db := r.getDB(tx)
	if err := db.WithContext(ctx).
		Preload("User").
		Preload("Program").
		First(&student, id).Error; err != nil {
		return nil, handleDBError(err, "get student with details")
	}

	if r.pending == nil {
		_ = r.cache.Student.Set(ctx, cacheKey, &student, cache.StudentCacheConfig.TTL)
	}

	return &student, nil
}

func (r *studentRepository) Update(ctx context.Context, tx *gorm.DB, student *models.Student) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Save(student).Error; err != nil {
		return handleDBError(err, "update student")
	}

	r.invalidateStudent(ctx, student.ID)
	return nil
}

func (r *studentRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Delete(&models.Student{}, id).Error; err != nil {
		return handleDBError(err, "delete student")
	}

	r.invalidateStudent(ctx, id)
	return nil
}

// ===== LOOKUP OPERATIONS =====

func (r *studentRepository) GetByUserID(ctx context.Context, tx *gorm.DB, userID string) (*models.Student, error) {
	db := r.getDB(tx)
	var student models.Student

	if err := db.WithContext(ctx).
		Preload("User").
		Preload("Program").
		Where("user_id = ?", userID).
		First(&student).Error; err != nil {
		return nil, handleDBError(err, "get student by user id")
	}

	return &student, nil
}

func (r *studentRepository) GetByStudentNumber(ctx context.Context, tx *gorm.DB, studentNumber string) (*models.Student, error) {
	db := r.getDB(tx)
	var student models.Student

	if err := db.WithContext(ctx).
		Preload("User").
		Where("student_number = ?", studentNumber).
		First(&student).Error; err != nil {
		return nil, handleDBError(err, "get student by student number")
	}

	return &student, nil
}

func (r *studentRepository) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.Student, error) {
	db := r.getDB(tx)
	var student models.Student

	if err := db.WithContext(ctx).
		Preload("User").
		Joins("INNER JOIN users ON users.id = students.user_id").
		Where("users.email = ?", email).
		First(&student).Error; err != nil {
		return nil, handleDBError(err, "get student by email")
	}

	return &student, nil
}

// ===== QUERY OPERATIONS =====

func (r *studentRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.StudentFilters) ([]*models.Student, int64, error) {
	db := r.getDB(tx)
	var students []*models.Student
	var total int64

	query := db.WithContext(ctx).Model(&models.Student{}).Preload("User").Preload("Program")
	query = r.helpers.ApplyStudentFilters(query, filters)

	if filters.Status != nil || filters.Query != "" {
		query = query.Joins("INNER JOIN users ON users.id = students.user_id")
		if filters.Status != nil {
			query = query.Where("users.status = ?", *filters.Status)
		}
		if filters.Query != "" {
			pattern := "%" + filters.Query + "%"
			query = query.Where(
				"users.first_name ILIKE ? OR users.last_name ILIKE ? OR users.email ILIKE ? OR students.student_number ILIKE ?",
				pattern, pattern, pattern, pattern,
			)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count students")
	}

	query = applyPaginationAndSorting(query, filters.Limit, filters.Offset, filters.SortBy, filters.SortOrder, map[string]string{
		"created_at":     "students.created_at",
		"student_number": "students.student_number",
		"year_level":     "students.year_level",
		"id":             "students.id",
	}, "students.created_at")

	if err := query.Find(&students).Error; err != nil {
		return nil, 0, handleDBError(err, "list students")
	}

	return students, total, nil
}

func (r *studentRepository) GetByProgram(ctx context.Context, tx *gorm.DB, programID uint, filters repositories.StudentFilters) ([]*models.Student, int64, error) {
	filters.ProgramID = &programID
	return r.List(ctx, tx, filters)
}

func (r *studentRepository) Search(ctx context.Context, tx *gorm.DB, query string, filters repositories.StudentFilters) ([]*models.Student, int64, error) {
	filters.Query = query
	return r.List(ctx, tx, filters)
}

// ===== VALIDATION =====

func (r *studentRepository) ExistsByUserID(ctx context.Context, tx *gorm.DB, userID string) (bool, error) {
	db := r.getDB(tx)
	var count int64

	if err := db.WithContext(ctx).
		Model(&models.Student{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return false, handleDBError(err, "check student exists by user id")
	}

	return count > 0, nil
}

func (r *studentRepository) ExistsByStudentNumber(ctx context.Context, tx *gorm.DB, studentNumber string) (bool, error) {
	db := r.getDB(tx)
	var count int64

	if err := db.WithContext(ctx).
		Model(&models.Student{}).
		Where("student_number = ?", studentNumber).
		Count(&count).Error; err != nil {
		return false, handleDBError(err, "check student exists by student number")
	}

	return count > 0, nil
}

// ===== HELPER METHODS =====

func (r *studentRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// ===== FACULTY REPOSITORY =====

type facultyRepository struct {
	db *gorm.DB
}

func NewFacultyPostgreSQL(db *gorm.DB) repositories.FacultyRepository {
	return &facultyRepository{db: db}
}

func (r *facultyRepository) Create(ctx context.Context, tx *gorm.DB, faculty *models.Faculty) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(faculty).Error; err != nil {
		return handleDBError(err, "create faculty")
	}
	return nil
}

func (r *facultyRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Faculty, error) {
	db := r.getDB(tx)
	var faculty models.Faculty

	if err := db.WithContext(ctx).
		Preload("User").
		First(&faculty, id).Error; err != nil {
		return nil, handleDBError(err, "get faculty by id")
	}

	return &faculty, nil
}

func (r *facultyRepository) Update(ctx context.Context, tx *gorm.DB, faculty *models.Faculty) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Save(faculty).Error; err != nil {
		return handleDBError(err, "update faculty")
	}
	return nil
}

func (r *facultyRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Delete(&models.Faculty{}, id).Error; err != nil {
		return handleDBError(err, "delete faculty")
	}
	return nil
}

func (r *facultyRepository) GetByUserID(ctx context.Context, tx *gorm.DB, userID string) (*models.Faculty, error) {
	db := r.getDB(tx)
	var faculty models.Faculty

	if err := db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		First(&faculty).Error; err != nil {
		return nil, handleDBError(err, "get faculty by user id")
	}

	return &faculty, nil
}

func (r *facultyRepository) List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*models.Faculty, int64, error) {
	db := r.getDB(tx)
	var faculty []*models.Faculty
	var total int64

	query := db.WithContext(ctx).Model(&models.Faculty{}).Preload("User")

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count faculty")
	}

	query = query.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&faculty).Error; err != nil {
		return nil, 0, handleDBError(err, "list faculty")
	}

	return faculty, total, nil
}

func (r *facultyRepository) GetByDepartment(ctx context.Context, tx *gorm.DB, department string) ([]*models.Faculty, error) {
	db := r.getDB(tx)
	var faculty []*models.Faculty

	if err := db.WithContext(ctx).
		Preload("User").
		Where("department = ?", department).
		Order("created_at DESC").
		Find(&faculty).Error; err != nil {
		return nil, handleDBError(err, "get faculty by department")
	}

	return faculty, nil
}

func (r *facultyRepository) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	db := r.getDB(tx)
	var count int64

	if err := db.WithContext(ctx).
		Model(&models.Faculty{}).
		Count(&count).Error; err != nil {
		return 0, handleDBError(err, "count faculty")
	}

	return count, nil
}

func (r *facultyRepository) ExistsByUserID(ctx context.Context, tx *gorm.DB, userID string) (bool, error) {
	db := r.getDB(tx)
	var count int64

	if err := db.WithContext(ctx).
		Model(&models.Faculty{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return false, handleDBError(err, "check faculty exists by user id")
	}

	return count > 0, nil
}

func (r *facultyRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}
