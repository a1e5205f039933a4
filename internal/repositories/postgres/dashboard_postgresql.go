package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/cache"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/models"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/repositories"
)

type dashboardRepository struct {
	db      *gorm.DB
	cache   *cache.CacheManager
	pending *cacheInvalidations
}

func NewDashboardRepository(db *gorm.DB, cacheManager *cache.CacheManager) repositories.DashboardRepository {
	return &dashboardRepository{db: db, cache: cacheManager}
}

func (r *dashboardRepository) GetStudentOverview(ctx context.Context, tx *gorm.DB, studentID uint, termID *uint) (*repositories.StudentOverviewStats, error) {
	db := r.getDB(tx)
	stats := &repositories.StudentOverviewStats{}

	var enrolled int64
	query := db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("student_id = ? AND status = ?", studentID, models.EnrollmentEnrolled)
	if termID != nil {
		query = query.
			Joins("INNER JOIN course_sections ON course_sections.id = enrollments.section_id").
			Where("course_sections.term_id = ?", *termID)
	}
	if err := query.Count(&enrolled).Error; err != nil {
		return nil, handleDBError(err, "count enrolled sections")
	}
	stats.EnrolledSections = int(enrolled)

	var completed int64
	if err := db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("student_id = ? AND status = ?", studentID, models.EnrollmentCompleted).
		Count(&completed).Error; err != nil {
		return nil, handleDBError(err, "count completed courses")
	}
	stats.CompletedCourses = int(completed)

	var student models.Student
	if err := db.WithContext(ctx).
		Select("gpa, credits_earned").
		First(&student, studentID).Error; err != nil {
		return nil, handleDBError(err, "get student academic summary")
	}
	stats.GPA = student.GPA
	stats.CreditsEarned = student.CreditsEarned

	return stats, nil
}

func (r *dashboardRepository) GetFacultyOverview(ctx context.Context, tx *gorm.DB, facultyID uint, termID *uint) (*repositories.FacultyOverviewStats, error) {
	db := r.getDB(tx)
	stats := &repositories.FacultyOverviewStats{}

	var sectionIDs []uint
	query := db.WithContext(ctx).
		Model(&models.CourseSection{}).
		Where("faculty_id = ?", facultyID)
	if termID != nil {
		query = query.Where("term_id = ?", *termID)
	}
	if err := query.Pluck("id", &sectionIDs).Error; err != nil {
		return nil, handleDBError(err, "get faculty section ids")
	}
	stats.AssignedSections = len(sectionIDs)

	if len(sectionIDs) == 0 {
		return stats, nil
	}

	var students int64
	if err := db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("section_id IN ? AND status = ?", sectionIDs, models.EnrollmentEnrolled).
		Count(&students).Error; err != nil {
		return nil, handleDBError(err, "count faculty students")
	}
	stats.TotalStudents = int(students)

	var ungraded int64
	if err := db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("section_id IN ? AND grade IS NULL AND status = ?", sectionIDs, models.EnrollmentEnrolled).
		Count(&ungraded).Error; err != nil {
		return nil, handleDBError(err, "count ungraded enrollments")
	}
	stats.UngradedCount = int(ungraded)

	return stats, nil
}

func (r *dashboardRepository) GetAdminOverview(ctx context.Context, tx *gorm.DB) (*repositories.AdminOverviewStats, error) {
	// Full-table aggregates, served through the stats cache with its short TTL.
	if r.pending == nil {
		stats := &repositories.AdminOverviewStats{}
		err := r.cache.Stats.CacheOrExecute(ctx, "admin:overview", stats, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
			return r.loadAdminOverview(ctx, r.db)
		})
		if err != nil {
			return nil, err
		}
		return stats, nil
	}
	return r.loadAdminOverview(ctx, r.getDB(tx))
}

func (r *dashboardRepository) loadAdminOverview(ctx context.Context, db *gorm.DB) (*repositories.AdminOverviewStats, error) {
	stats := &repositories.AdminOverviewStats{}

	counts := []struct {
		model interface{}
		dest  *int64
		op    string
	}{
		{&models.Student{}, &stats.TotalStudents, "count students"},
		{&models.Faculty{}, &stats.TotalFaculty, "count faculty"},
		{&models.Course{}, &stats.TotalCourses, "count courses"},
		{&models.CourseSection{}, &stats.TotalSections, "count sections"},
		{&models.Enrollment{}, &stats.TotalEnrollments, "count enrollments"},
	}
	for _, c := range counts {
		if err := db.WithContext(ctx).Model(c.model).Count(c.dest).Error; err != nil {
			return nil, handleDBError(err, c.op)
		}
	}

	if err := db.WithContext(ctx).
		Model(&models.DegreeProgram{}).
		Where("is_active = true").
		Count(&stats.ActivePrograms).Error; err != nil {
		return nil, handleDBError(err, "count active programs")
	}

	return stats, nil
}

func (r *dashboardRepository) GetSectionOccupancy(ctx context.Context, tx *gorm.DB, termID uint, limit int) ([]repositories.SectionOccupancy, error) {
	db := r.getDB(tx)
	var occupancy []repositories.SectionOccupancy

	query := db.WithContext(ctx).
		Table("course_sections cs").
		Select("cs.id AS section_id, c.code AS course_code, cs.section_number, cs.enrolled_count, cs.max_capacity").
		Joins("INNER JOIN courses c ON c.id = cs.course_id").
		Where("cs.term_id = ? AND cs.deleted_at IS NULL", termID).
		Order("cs.enrolled_count * 1.0 / cs.max_capacity DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Scan(&occupancy).Error; err != nil {
		return nil, handleDBError(err, "get section occupancy")
	}

	return occupancy, nil
}

func (r *dashboardRepository) GetEnrollmentTrend(ctx context.Context, tx *gorm.DB, days int) ([]repositories.EnrollmentTrendData, error) {
	db := r.getDB(tx)
	var trend []repositories.EnrollmentTrendData

	since := time.Now().AddDate(0, 0, -days)
	if err := db.WithContext(ctx).
		Table("enrollments").
		Select("DATE(created_at) AS date, COUNT(*) AS count").
		Where("created_at >= ? AND deleted_at IS NULL", since).
		Group("DATE(created_at)").
		Order("date ASC").
		Scan(&trend).Error; err != nil {
		return nil, handleDBError(err, "get enrollment trend")
	}

	return trend, nil
}

func (r *dashboardRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}
