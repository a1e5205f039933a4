package repositories

import (
	"context"

	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/models"
)

// UserFilters defines filters for user queries
type UserFilters struct {
	Role   *models.UserRole // restrict to a single role
	Query  string           // search query for name or email
	Limit  int              // page size
	Offset int              // offset for pagination
}

// UserRepository interface for identity operations. User records are owned by
// the identity provider; this service only reads and patches profile fields.
type UserRepository interface {
	// Basic read operations
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.User, error)

	// List and search operations
	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)
	GetByRole(ctx context.Context, role models.UserRole, filters UserFilters) ([]*models.User, int64, error)

	// Profile updates pushed back to the identity provider
	UpdateProfile(ctx context.Context, user *models.User) error

	// Validation and checks
	ExistsByID(ctx context.Context, id string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	HasRole(ctx context.Context, id string, role models.UserRole) (bool, error)
}
