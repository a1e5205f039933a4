package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/models"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/repositories"
)

type profileRepository struct {
	db *gorm.DB
}

func NewProfilePostgreSQL(db *gorm.DB) repositories.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Get(ctx context.Context, tx *gorm.DB, userID string) (*models.User, error) {
	db := r.getDB(tx)
	var user models.User

	if err := db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, handleDBError(err, "get profile")
	}

	return &user, nil
}

func (r *profileRepository) Upsert(ctx context.Context, tx *gorm.DB, user *models.User) error {
	db := r.getDB(tx)
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(user).Error
	if err != nil {
		return handleDBError(err, "upsert profile")
	}
	return nil
}

func (r *profileRepository) Save(ctx context.Context, tx *gorm.DB, user *models.User) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Save(user).Error; err != nil {
		return handleDBError(err, "save profile")
	}
	return nil
}

func (r *profileRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}
