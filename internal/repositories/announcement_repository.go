package repositories

import (
	"context"
	"time"

	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/models"
	"gorm.io/gorm"
)

// AnnouncementRepository interface for announcement operations
type AnnouncementRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, tx *gorm.DB, announcement *models.Announcement) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Announcement, error)
	Update(ctx context.Context, tx *gorm.DB, announcement *models.Announcement) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	// Query operations
	List(ctx context.Context, tx *gorm.DB, filters AnnouncementFilters) ([]*models.Announcement, int64, error)
	GetForAudiences(ctx context.Context, tx *gorm.DB, audiences []string, filters AnnouncementFilters) ([]*models.Announcement, int64, error)

	// Publishing
	Publish(ctx context.Context, tx *gorm.DB, id uint, at time.Time) error
	Deactivate(ctx context.Context, tx *gorm.DB, id uint) error
}

// CalendarEventRepository interface for academic calendar operations
type CalendarEventRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, tx *gorm.DB, event *models.CalendarEvent) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.CalendarEvent, error)
	Update(ctx context.Context, tx *gorm.DB, event *models.CalendarEvent) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	// Query operations
	List(ctx context.Context, tx *gorm.DB, filters CalendarFilters) ([]*models.CalendarEvent, error)
	GetByDateRange(ctx context.Context, tx *gorm.DB, from, to time.Time) ([]*models.CalendarEvent, error)
	GetUpcoming(ctx context.Context, tx *gorm.DB, limit int) ([]*models.CalendarEvent, error)
}
