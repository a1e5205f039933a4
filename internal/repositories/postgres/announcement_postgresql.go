package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/models"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/repositories"
)

type announcementRepository struct {
	db *gorm.DB
}

func NewAnnouncementPostgreSQL(db *gorm.DB) repositories.AnnouncementRepository {
	return &announcementRepository{db: db}
}

// ===== BASIC CRUD OPERATIONS =====

func (r *announcementRepository) Create(ctx context.Context, tx *gorm.DB, announcement *models.Announcement) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(announcement).Error; err != nil {
		return handleDBError(err, "create announcement")
	}
	return nil
}

func (r *announcementRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Announcement, error) {
	db := r.getDB(tx)
	var announcement models.Announcement

	if err := db.WithContext(ctx).First(&announcement, id).Error; err != nil {
		return nil, handleDBError(err, "get announcement by id")
	}

	return &announcement, nil
}

func (r *announcementRepository) Update(ctx context.Context, tx *gorm.DB, announcement *models.Announcement) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Save(announcement).Error; err != nil {
		return handleDBError(err, "update announcement")
	}
	return nil
}

func (r *announcementRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Delete(&models.Announcement{}, id).Error; err != nil {
		return handleDBError(err, "delete announcement")
	}
	return nil
}

// ===== QUERY OPERATIONS =====

func (r *announcementRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.AnnouncementFilters) ([]*models.Announcement, int64, error) {
	db := r.getDB(tx)
	var announcements []*models.Announcement
	var total int64

	query := db.WithContext(ctx).Model(&models.Announcement{})
	query = r.applyAnnouncementFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count announcements")
	}

	query = applyPaginationAndSorting(query, filters.Limit, filters.Offset, filters.SortBy, filters.SortOrder, map[string]string{
		"created_at":   "created_at",
		"published_at": "published_at",
		"title":        "title",
		"id":           "id",
	}, "published_at")

	if err := query.Find(&announcements).Error; err != nil {
		return nil, 0, handleDBError(err, "list announcements")
	}

	return announcements, total, nil
}

func (r *announcementRepository) GetForAudiences(ctx context.Context, tx *gorm.DB, audiences []string, filters repositories.AnnouncementFilters) ([]*models.Announcement, int64, error) {
	filters.Audiences = audiences
	return r.List(ctx, tx, filters)
}

// ===== PUBLISHING =====

func (r *announcementRepository) Publish(ctx context.Context, tx *gorm.DB, id uint, at time.Time) error {
	db := r.getDB(tx)

	result := db.WithContext(ctx).
		Model(&models.Announcement{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"published_at": at,
			"is_active":    true,
		})
	if result.Error != nil {
		return handleDBError(result.Error, "publish announcement")
	}
	if result.RowsAffected == 0 {
		return handleDBError(gorm.ErrRecordNotFound, "publish announcement")
	}

	return nil
}

func (r *announcementRepository) Deactivate(ctx context.Context, tx *gorm.DB, id uint) error {
	db := r.getDB(tx)

	result := db.WithContext(ctx).
		Model(&models.Announcement{}).
		Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		return handleDBError(result.Error, "deactivate announcement")
	}
	if result.RowsAffected == 0 {
		return handleDBError(gorm.ErrRecordNotFound, "deactivate announcement")
	}

	return nil
}

// ===== HELPER METHODS =====

func (r *announcementRepository) applyAnnouncementFilters(query *gorm.DB, filters repositories.AnnouncementFilters) *gorm.DB {
	if len(filters.Audiences) > 0 {
		query = query.Where("target_audience IN ?", filters.Audiences)
	}
	if filters.IsActive != nil {
		query = query.Where("is_active = ?", *filters.IsActive)
	}
	if filters.CreatedBy != nil {
		query = query.Where("created_by = ?", *filters.CreatedBy)
	}
	if filters.SinceDate != nil {
		query = query.Where("published_at >= ?", *filters.SinceDate)
	}
	return query
}

func (r *announcementRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// ===== CALENDAR EVENT REPOSITORY =====

type calendarRepository struct {
	db *gorm.DB
}

func NewCalendarPostgreSQL(db *gorm.DB) repositories.CalendarEventRepository {
	return &calendarRepository{db: db}
}

func (r *calendarRepository) Create(ctx context.Context, tx *gorm.DB, event *models.CalendarEvent) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(event).Error; err != nil {
		return handleDBError(err, "create calendar event")
	}
	return nil
}

func (r *calendarRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.CalendarEvent, error) {
	db := r.getDB(tx)
	var event models.CalendarEvent

	if err := db.WithContext(ctx).First(&event, id).Error; err != nil {
		return nil, handleDBError(err, "get calendar event by id")
	}

	return &event, nil
}

func (r *calendarRepository) Update(ctx context.Context, tx *gorm.DB, event *models.CalendarEvent) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Save(event).Error; err != nil {
		return handleDBError(err, "update calendar event")
	}
	return nil
}

func (r *calendarRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Delete(&models.CalendarEvent{}, id).Error; err != nil {
		return handleDBError(err, "delete calendar event")
	}
	return nil
}

func (r *calendarRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.CalendarFilters) ([]*models.CalendarEvent, error) {
	db := r.getDB(tx)
	var events []*models.CalendarEvent

	query := db.WithContext(ctx).Model(&models.CalendarEvent{})
	if filters.EventType != nil {
		query = query.Where("event_type = ?", *filters.EventType)
	}
	if filters.DateFrom != nil {
		query = query.Where("start_date >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("start_date <= ?", *filters.DateTo)
	}

	query = query.Order("start_date ASC")
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	if err := query.Find(&events).Error; err != nil {
		return nil, handleDBError(err, "list calendar events")
	}

	return events, nil
}

func (r *calendarRepository) GetByDateRange(ctx context.Context, tx *gorm.DB, from, to time.Time) ([]*models.CalendarEvent, error) {
	db := r.getDB(tx)
	var events []*models.CalendarEvent

	if err := db.WithContext(ctx).
		Where("start_date <= ? AND end_date >= ?", to, from).
		Order("start_date ASC").
		Find(&events).Error; err != nil {
		return nil, handleDBError(err, "get calendar events by date range")
	}

	return events, nil
}

func (r *calendarRepository) GetUpcoming(ctx context.Context, tx *gorm.DB, limit int) ([]*models.CalendarEvent, error) {
	db := r.getDB(tx)
	var events []*models.CalendarEvent

	query := db.WithContext(ctx).
		Where("start_date >= ?", time.Now()).
		Order("start_date ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&events).Error; err != nil {
		return nil, handleDBError(err, "get upcoming calendar events")
	}

	return events, nil
}

func (r *calendarRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}
