package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/models"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/repositories"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/validator"
)

type facultyService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewFacultyService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) FacultyService {
	return &facultyService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
	}
}

// ===== CORE CRUD OPERATIONS =====

func (s *facultyService) Create(ctx context.Context, userID, title, department string, phone *string) (*models.Faculty, error) {
	s.logger.Info("Creating faculty record", "user_id", userID)

	exists, err := s.repo.Faculty().ExistsByUserID(ctx, s.db, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check faculty record: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("faculty record already exists for user %s: %w", userID, repositories.ErrAlreadyExists)
	}

	faculty := &models.Faculty{
		UserID:     userID,
		Title:      title,
		Department: department,
		Phone:      phone,
	}

	if err := s.repo.Faculty().Create(ctx, s.db, faculty); err != nil {
		return nil, fmt.Errorf("failed to create faculty: %w", err)
	}

	return s.repo.Faculty().GetByID(ctx, s.db, faculty.ID)
}

func (s *facultyService) GetByID(ctx context.Context, id uint) (*models.Faculty, error) {
	faculty, err := s.repo.Faculty().GetByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrFacultyNotFound
		}
		return nil, fmt.Errorf("failed to get faculty: %w", err)
	}
	return faculty, nil
}

func (s *facultyService) GetByUserID(ctx context.Context, userID string) (*models.Faculty, error) {
	faculty, err := s.repo.Faculty().GetByUserID(ctx, s.db, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrFacultyNotFound
		}
		return nil, fmt.Errorf("failed to get faculty: %w", err)
	}
	return faculty, nil
}

func (s *facultyService) Update(ctx context.Context, faculty *models.Faculty) (*models.Faculty, error) {
	if _, err := s.repo.Faculty().GetByID(ctx, s.db, faculty.ID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrFacultyNotFound
		}
		return nil, fmt.Errorf("failed to get faculty: %w", err)
	}

	if err := s.repo.Faculty().Update(ctx, s.db, faculty); err != nil {
		return nil, fmt.Errorf("failed to update faculty: %w", err)
	}

	return s.repo.Faculty().GetByID(ctx, s.db, faculty.ID)
}

func (s *facultyService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.Faculty().GetByID(ctx, s.db, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrFacultyNotFound
		}
		return fmt.Errorf("failed to get faculty: %w", err)
	}

	if err := s.repo.Faculty().Delete(ctx, s.db, id); err != nil {
		return fmt.Errorf("failed to delete faculty: %w", err)
	}
	return nil
}

// ===== LIST OPERATIONS =====

// List returns faculty records. When the faculty table has no rows yet the
// directory falls back to users carrying the faculty role, shaped as faculty
// records with User populated so the directory still renders.
func (s *facultyService) List(ctx context.Context, limit, offset int) (*FacultyListResponse, error) {
	faculty, total, err := s.repo.Faculty().List(ctx, s.db, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list faculty: %w", err)
	}

	if total == 0 {
		fallback, fallbackTotal, err := s.listFromUsers(ctx, limit, offset)
		if err != nil {
			return nil, err
		}
		return &FacultyListResponse{Faculty: fallback, Total: fallbackTotal}, nil
	}

	return &FacultyListResponse{Faculty: faculty, Total: total}, nil
}

func (s *facultyService) listFromUsers(ctx context.Context, limit, offset int) ([]*models.Faculty, int64, error) {
	role := models.RoleFaculty
	users, total, err := s.repo.User().GetByRole(ctx, role, repositories.UserFilters{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list faculty-role users: %w", err)
	}

	faculty := make([]*models.Faculty, 0, len(users))
	for _, user := range users {
		faculty = append(faculty, &models.Faculty{
			UserID: user.ID,
			Phone:  user.Phone,
			User:   *user,
		})
	}

	s.logger.DebugContext(ctx, "Faculty directory served from users fallback", "count", len(faculty))
	return faculty, total, nil
}

func (s *facultyService) GetSections(ctx context.Context, facultyID uint, termID *uint) ([]*models.CourseSection, error) {
	if _, err := s.repo.Faculty().GetByID(ctx, s.db, facultyID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrFacultyNotFound
		}
		return nil, fmt.Errorf("failed to get faculty: %w", err)
	}

	sections, err := s.repo.Section().GetByFaculty(ctx, s.db, facultyID, termID)
	if err != nil {
		return nil, fmt.Errorf("failed to get faculty sections: %w", err)
	}
	return sections, nil
}
