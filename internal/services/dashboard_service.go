package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/models"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/repositories"
)

type dashboardService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
}

func NewDashboardService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger) DashboardService {
	return &dashboardService{
		repo:   repo,
		db:     db,
		logger: logger,
	}
}

// GetOverview resolves the caller's role and returns the matching overview
// block. The current term scopes the student and faculty numbers when one is
// set.
func (s *dashboardService) GetOverview(ctx context.Context, userID string) (*DashboardOverviewResponse, error) {
	s.logger.Info("Getting dashboard overview", "user_id", userID)

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var termID *uint
	if term, err := s.repo.Term().GetCurrent(ctx, s.db); err == nil {
		termID = &term.ID
	} else if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to get current term: %w", err)
	}

	response := &DashboardOverviewResponse{Role: user.Role}

	switch user.Role {
	case models.RoleAdmin:
		stats, err := s.repo.Dashboard().GetAdminOverview(ctx, s.db)
		if err != nil {
			return nil, fmt.Errorf("failed to get admin overview: %w", err)
		}
		response.Admin = stats

	case models.RoleFaculty:
		faculty, err := s.repo.Faculty().GetByUserID(ctx, s.db, userID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrFacultyNotFound
			}
			return nil, fmt.Errorf("failed to get faculty record: %w", err)
		}
		stats, err := s.repo.Dashboard().GetFacultyOverview(ctx, s.db, faculty.ID, termID)
		if err != nil {
			return nil, fmt.Errorf("failed to get faculty overview: %w", err)
		}
		response.Faculty = stats

	default:
		student, err := s.repo.Student().GetByUserID(ctx, s.db, userID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrStudentNotFound
			}
			return nil, fmt.Errorf("failed to get student record: %w", err)
		}
		stats, err := s.repo.Dashboard().GetStudentOverview(ctx, s.db, student.ID, termID)
		if err != nil {
			return nil, fmt.Errorf("failed to get student overview: %w", err)
		}
		response.Student = stats
	}

	return response, nil
}

func (s *dashboardService) GetSectionOccupancy(ctx context.Context, termID uint, limit int) ([]repositories.SectionOccupancy, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	occupancy, err := s.repo.Dashboard().GetSectionOccupancy(ctx, s.db, termID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get section occupancy: %w", err)
	}
	return occupancy, nil
}

func (s *dashboardService) GetEnrollmentTrend(ctx context.Context, days int) ([]repositories.EnrollmentTrendData, error) {
	if days <= 0 || days > 365 {
		days = 30
	}

	trend, err := s.repo.Dashboard().GetEnrollmentTrend(ctx, s.db, days)
	if err != nil {
		return nil, fmt.Errorf("failed to get enrollment trend: %w", err)
	}
	return trend, nil
}
