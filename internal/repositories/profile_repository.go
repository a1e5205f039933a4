package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/models"
)

// ProfileRepository interface for the locally stored profile rows. They mirror
// identity-provider users and carry the role the dashboards authorize against.
type ProfileRepository interface {
	Get(ctx context.Context, tx *gorm.DB, userID string) (*models.User, error)

	// Upsert inserts the row only when no row with its id exists yet; a
	// concurrent insert wins silently and the caller re-reads the winner.
	Upsert(ctx context.Context, tx *gorm.DB, user *models.User) error

	Save(ctx context.Context, tx *gorm.DB, user *models.User) error
}
