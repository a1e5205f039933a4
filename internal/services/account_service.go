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

type accountService struct {
	repo         repositories.Repository
	db           *gorm.DB
	logger       *slog.Logger
	validator    *validator.Validator
	eventService NotificationEventService
}

func NewAccountService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, eventService NotificationEventService) AccountService {
	return &accountService{
		repo:         repo,
		db:           db,
		logger:       logger,
		validator:    validator,
		eventService: eventService,
	}
}

// ===== ROLE RESOLUTION =====

func (s *accountService) ResolveProfile(ctx context.Context, userID string) (*ProfileResponse, error) {
	user, synthesized, err := s.getOrSynthesizeUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	response := &ProfileResponse{
		User:         user,
		Synthesized:  synthesized,
		LandingRoute: landingRouteForRole(user.Role),
	}

	// Attach the role-specific record when one exists. Its absence is a
	// "please contact administration" state for the client, not an error.
	switch user.Role {
	case models.RoleStudent:
		student, err := s.repo.Student().GetByUserID(ctx, s.db, userID)
		if err != nil && !repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("failed to get student record: %w", err)
		}
		response.Student = student
	case models.RoleFaculty:
		faculty, err := s.repo.Faculty().GetByUserID(ctx, s.db, userID)
		if err != nil && !repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("failed to get faculty record: %w", err)
		}
		response.Faculty = faculty
	}

	return response, nil
}

// getOrSynthesizeUser reads the local profile row by identity id. When the row
// is absent (first external-identity sign-in) it synthesizes one from identity
// metadata and upserts it; a concurrent first sign-in loses the insert race
// harmlessly and reads the winner's row.
func (s *accountService) getOrSynthesizeUser(ctx context.Context, userID string) (*models.User, bool, error) {
	user, err := s.repo.Profile().Get(ctx, s.db, userID)
	if err == nil {
		return user, false, nil
	}
	if !repositories.IsNotFoundError(err) {
		return nil, false, fmt.Errorf("failed to read profile: %w", err)
	}

	// First sign-in: pull identity metadata. Name is best-effort, role
	// defaults to student unless the metadata states otherwise.
	identity, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, false, ErrUserNotFound
		}
		return nil, false, fmt.Errorf("failed to read identity: %w", err)
	}

	profile := models.User{
		ID:        identity.ID,
		Email:     identity.Email,
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
		Phone:     identity.Phone,
		Role:      identity.Role,
		Status:    models.UserActive,
		AvatarURL: identity.AvatarURL,
	}
	if !profile.Role.IsValid() {
		profile.Role = models.RoleStudent
	}

	if err := s.repo.Profile().Upsert(ctx, s.db, &profile); err != nil {
		return nil, false, fmt.Errorf("failed to synthesize profile: %w", err)
	}

	user, err = s.repo.Profile().Get(ctx, s.db, userID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read synthesized profile: %w", err)
	}

	s.logger.InfoContext(ctx, "Profile synthesized",
		"user_id", userID,
		"role", user.Role)

	if s.eventService != nil {
		if err := s.eventService.PublishProfileSynthesized(ctx, user); err != nil {
			s.logger.WarnContext(ctx, "Profile synthesis event not published", "error", err)
		}
	}

	return user, true, nil
}

// ===== PROFILE EDITS =====

func (s *accountService) UpdateProfile(ctx context.Context, userID string, req *UpdateProfileRequest) (*models.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.repo.Profile().Get(ctx, s.db, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.Address != nil {
		user.Address = req.Address
	}
	if req.AvatarURL != nil {
		user.AvatarURL = req.AvatarURL
	}

	if err := s.repo.Profile().Save(ctx, s.db, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	// Best-effort push to the identity provider; the local row is the source
	// the dashboards read from.
	if err := s.repo.User().UpdateProfile(ctx, user); err != nil {
		s.logger.WarnContext(ctx, "Identity provider profile update failed",
			"error", err,
			"user_id", userID)
	}

	s.logger.InfoContext(ctx, "Profile updated", "user_id", userID)
	return user, nil
}

func (s *accountService) ChangeRole(ctx context.Context, targetUserID string, req *ChangeRoleRequest, actorID string) (*models.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	actor, err := s.repo.Profile().Get(ctx, s.db, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to read actor profile: %w", err)
	}
	if !actor.Role.AtLeast(models.RoleAdmin) {
		return nil, NewPermissionError(actorID, 0, "user", "change_role", "admin role required")
	}

	user, err := s.repo.Profile().Get(ctx, s.db, targetUserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to read target profile: %w", err)
	}

	user.Role = req.Role
	if err := s.repo.Profile().Save(ctx, s.db, user); err != nil {
		return nil, fmt.Errorf("failed to change role: %w", err)
	}

	s.logger.InfoContext(ctx, "User role changed",
		"user_id", targetUserID,
		"role", req.Role,
		"actor_id", actorID)

	return user, nil
}

func (s *accountService) ListUsers(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	users, total, err := s.repo.User().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// landingRouteForRole maps the resolved role to the dashboard base route the
// client redirects to after sign-in.
func landingRouteForRole(role models.UserRole) string {
	if role == models.RoleAdmin {
		return RouteProgramManagement
	}
	return RouteOverview
}
