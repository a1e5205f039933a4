package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/repositories"
)

// SharedHelpers contains common database operations
type SharedHelpers struct {
	db *gorm.DB
}

func NewSharedHelpers(db *gorm.DB) *SharedHelpers {
	return &SharedHelpers{db: db}
}

// ApplyStudentFilters applies common filters to student queries
func (h *SharedHelpers) ApplyStudentFilters(query *gorm.DB, filters repositories.StudentFilters) *gorm.DB {
	if filters.ProgramID != nil {
		query = query.Where("students.program_id = ?", *filters.ProgramID)
	}
	if filters.YearLevel != nil {
		query = query.Where("students.year_level = ?", *filters.YearLevel)
	}
	return query
}

// ApplyEnrollmentFilters applies common filters to enrollment queries
func (h *SharedHelpers) ApplyEnrollmentFilters(query *gorm.DB, filters repositories.EnrollmentFilters) *gorm.DB {
	if filters.StudentID != nil {
		query = query.Where("student_id = ?", *filters.StudentID)
	}
	if filters.SectionID != nil {
		query = query.Where("section_id = ?", *filters.SectionID)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}
	return query
}

// applyPaginationAndSorting applies pagination and sorting with SQL injection
// protection. Callers pass a whitelist mapping API sort keys to SQL columns.
func applyPaginationAndSorting(query *gorm.DB, limit, offset int, sortBy, sortOrder string, sortKeyToColumn map[string]string, defaultColumn string) *gorm.DB {
	column, ok := sortKeyToColumn[sortBy]
	if !ok {
		column = defaultColumn
	}

	order := "DESC"
	if sortOrder == "asc" || sortOrder == "ASC" {
		order = "ASC"
	}

	query = query.Order(fmt.Sprintf("%s %s", column, order))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	return query
}

// handleDBError is a package-level helper for handling database errors.
// gorm's not-found is passed through untouched so repositories.IsNotFoundError
// keeps working on wrapped errors.
func handleDBError(err error, operation string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", operation, repositories.ErrNotFound)
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("%s: %w", operation, repositories.ErrAlreadyExists)
	}
	return fmt.Errorf("%s failed: %w", operation, err)
}

// isUniqueViolation reports whether err is a unique constraint violation.
func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
