package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/models"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/repositories"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/validator"
)

type announcementService struct {
	repo         repositories.Repository
	db           *gorm.DB
	logger       *slog.Logger
	validator    *validator.Validator
	eventService NotificationEventService
}

func NewAnnouncementService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, eventService NotificationEventService) AnnouncementService {
	return &announcementService{
		repo:         repo,
		db:           db,
		logger:       logger,
		validator:    validator,
		eventService: eventService,
	}
}

// ===== ANNOUNCEMENTS =====

func (s *announcementService) Create(ctx context.Context, req *CreateAnnouncementRequest, creatorID string) (*models.Announcement, error) {
	s.logger.Info("Creating announcement", "creator_id", creatorID, "title", req.Title)

	if errs := s.validator.GetBusinessValidator().ValidateAnnouncementCreate(req); len(errs) > 0 {
		return nil, errs
	}

	audience := req.TargetAudience
	if audience == "" {
		audience = string(models.AudienceAll)
	}

	announcement := &models.Announcement{
		Title:          req.Title,
		Content:        req.Content,
		TargetAudience: audience,
		CreatedBy:      creatorID,
		IsActive:       true,
	}
	if req.Publish {
		now := time.Now()
		announcement.PublishedAt = &now
	}

	if err := s.repo.Announcement().Create(ctx, s.db, announcement); err != nil {
		return nil, fmt.Errorf("failed to create announcement: %w", err)
	}

	if req.Publish && s.eventService != nil {
		if err := s.eventService.PublishAnnouncementPublished(ctx, announcement); err != nil {
			s.logger.Warn("Announcement event not published", "error", err)
		}
	}

	return announcement, nil
}

func (s *announcementService) GetByID(ctx context.Context, id uint) (*models.Announcement, error) {
	announcement, err := s.repo.Announcement().GetByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAnnouncementNotFound
		}
		return nil, fmt.Errorf("failed to get announcement: %w", err)
	}
	return announcement, nil
}

func (s *announcementService) Update(ctx context.Context, id uint, req *UpdateAnnouncementRequest, actorID string) (*models.Announcement, error) {
	s.logger.Info("Updating announcement", "announcement_id", id, "actor_id", actorID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	announcement, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		announcement.Title = *req.Title
	}
	if req.Content != nil {
		announcement.Content = *req.Content
	}
	if req.TargetAudience != nil {
		if _, err := models.ParseTargetAudience(*req.TargetAudience); err != nil {
			return nil, validator.ValidationErrors{{
				Field:   "target_audience",
				Message: "must be all, faculty, student, or course:<id>, section:<id>, program:<id>",
				Value:   *req.TargetAudience,
				Rule:    "audience_format",
			}}
		}
		announcement.TargetAudience = *req.TargetAudience
	}
	if req.IsActive != nil {
		announcement.IsActive = *req.IsActive
	}

	if err := s.repo.Announcement().Update(ctx, s.db, announcement); err != nil {
		return nil, fmt.Errorf("failed to update announcement: %w", err)
	}

	return announcement, nil
}

func (s *announcementService) Delete(ctx context.Context, id uint, actorID string) error {
	s.logger.Info("Deleting announcement", "announcement_id", id, "actor_id", actorID)

	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Announcement().Delete(ctx, s.db, id); err != nil {
		return fmt.Errorf("failed to delete announcement: %w", err)
	}
	return nil
}

func (s *announcementService) Publish(ctx context.Context, id uint, actorID string) (*models.Announcement, error) {
	s.logger.Info("Publishing announcement", "announcement_id", id, "actor_id", actorID)

	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if err := s.repo.Announcement().Publish(ctx, s.db, id, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to publish announcement: %w", err)
	}

	announcement, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.eventService != nil {
		if err := s.eventService.PublishAnnouncementPublished(ctx, announcement); err != nil {
			s.logger.Warn("Announcement event not published", "error", err)
		}
	}

	return announcement, nil
}

func (s *announcementService) Deactivate(ctx context.Context, id uint, actorID string) error {
	s.logger.Info("Deactivating announcement", "announcement_id", id, "actor_id", actorID)

	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Announcement().Deactivate(ctx, s.db, id); err != nil {
		return fmt.Errorf("failed to deactivate announcement: %w", err)
	}
	return nil
}

func (s *announcementService) List(ctx context.Context, filters repositories.AnnouncementFilters) (*AnnouncementListResponse, error) {
	announcements, total, err := s.repo.Announcement().List(ctx, s.db, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list announcements: %w", err)
	}
	return buildAnnouncementListResponse(announcements, total, filters), nil
}

// GetForUser computes the audience values the user belongs to and returns the
// active announcements targeting any of them.
func (s *announcementService) GetForUser(ctx context.Context, userID string, filters repositories.AnnouncementFilters) (*AnnouncementListResponse, error) {
	audiences, err := s.audiencesForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	announcements, total, err := s.repo.Announcement().GetForAudiences(ctx, s.db, audiences, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get announcements: %w", err)
	}
	return buildAnnouncementListResponse(announcements, total, filters), nil
}

// audiencesForUser expands a user into every audience value that matches
// them: "all", their role, and for students their program and each enrolled
// course and section.
func (s *announcementService) audiencesForUser(ctx context.Context, userID string) ([]string, error) {
	audiences := []string{string(models.AudienceAll)}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	switch user.Role {
	case models.RoleFaculty, models.RoleAdmin:
		audiences = append(audiences, string(models.AudienceFaculty))
	default:
		audiences = append(audiences, string(models.AudienceStudent))
	}

	student, err := s.repo.Student().GetByUserID(ctx, s.db, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return audiences, nil
		}
		return nil, fmt.Errorf("failed to get student record: %w", err)
	}

	if student.ProgramID != nil {
		audiences = append(audiences, models.TargetAudience{Scope: models.AudienceProgram, ID: *student.ProgramID}.String())
	}

	enrolled := models.EnrollmentEnrolled
	enrollments, err := s.repo.Enrollment().GetByStudent(ctx, s.db, student.ID, repositories.EnrollmentFilters{Status: &enrolled})
	if err != nil {
		return nil, fmt.Errorf("failed to get enrollments: %w", err)
	}
	for _, enrollment := range enrollments {
		audiences = append(audiences,
			models.TargetAudience{Scope: models.AudienceSection, ID: enrollment.SectionID}.String())
		if enrollment.Section.CourseID != 0 {
			audiences = append(audiences,
				models.TargetAudience{Scope: models.AudienceCourse, ID: enrollment.Section.CourseID}.String())
		}
	}

	return audiences, nil
}

func buildAnnouncementListResponse(announcements []*models.Announcement, total int64, filters repositories.AnnouncementFilters) *AnnouncementListResponse {
	size := filters.Limit
	if size <= 0 {
		size = len(announcements)
	}
	page := 1
	if size > 0 {
		page = filters.Offset/size + 1
	}
	return &AnnouncementListResponse{
		Announcements: announcements,
		Total:         total,
		Page:          page,
		Size:          size,
	}
}

// ===== ACADEMIC CALENDAR =====

func (s *announcementService) CreateEvent(ctx context.Context, req *CreateCalendarEventRequest, actorID string) (*models.CalendarEvent, error) {
	s.logger.Info("Creating calendar event", "title", req.Title, "actor_id", actorID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if errs := s.validator.GetBusinessValidator().ValidateTermDates(req.StartDate, req.EndDate); len(errs) > 0 {
		return nil, errs
	}

	event := &models.CalendarEvent{
		Title:       req.Title,
		Description: req.Description,
		EventType:   req.EventType,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		IsAllDay:    req.IsAllDay,
		Location:    req.Location,
	}

	if err := s.repo.Calendar().Create(ctx, s.db, event); err != nil {
		return nil, fmt.Errorf("failed to create calendar event: %w", err)
	}
	return event, nil
}

func (s *announcementService) DeleteEvent(ctx context.Context, id uint, actorID string) error {
	s.logger.Info("Deleting calendar event", "event_id", id, "actor_id", actorID)

	if _, err := s.repo.Calendar().GetByID(ctx, s.db, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to get calendar event: %w", err)
	}
	if err := s.repo.Calendar().Delete(ctx, s.db, id); err != nil {
		return fmt.Errorf("failed to delete calendar event: %w", err)
	}
	return nil
}

func (s *announcementService) ListEvents(ctx context.Context, filters repositories.CalendarFilters) ([]*models.CalendarEvent, error) {
	events, err := s.repo.Calendar().List(ctx, s.db, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar events: %w", err)
	}
	return events, nil
}

func (s *announcementService) GetUpcomingEvents(ctx context.Context, limit int) ([]*models.CalendarEvent, error) {
	if limit <= 0 {
		limit = 5
	}
	events, err := s.repo.Calendar().GetUpcoming(ctx, s.db, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get upcoming events: %w", err)
	}
	return events, nil
}
