package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/events"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/models"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/repositories"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/validator"
)

// notificationEventService publishes change-feed events for entity mutations.
// Dashboard clients consume these to refresh only the affected view instead of
// reloading the page.
type notificationEventService struct {
	repo           repositories.Repository
	eventPublisher events.EventPublisher
	logger         *slog.Logger
	validator      *validator.Validator
}

func NewNotificationEventService(repo repositories.Repository, eventPublisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) NotificationEventService {
	return &notificationEventService{
		repo:           repo,
		eventPublisher: eventPublisher,
		logger:         logger,
		validator:      validator,
	}
}

func (s *notificationEventService) PublishEnrollmentCreated(ctx context.Context, enrollment *models.Enrollment) error {
	return s.publish(ctx, events.NewEvent(events.TypeEnrollmentCreated, events.EnrollmentEvent{
		EnrollmentID: enrollment.ID,
		StudentID:    enrollment.StudentID,
		SectionID:    enrollment.SectionID,
		Status:       string(enrollment.Status),
	}))
}

func (s *notificationEventService) PublishEnrollmentDropped(ctx context.Context, enrollment *models.Enrollment) error {
	return s.publish(ctx, events.NewEvent(events.TypeEnrollmentDropped, events.EnrollmentEvent{
		EnrollmentID: enrollment.ID,
		StudentID:    enrollment.StudentID,
		SectionID:    enrollment.SectionID,
		Status:       string(enrollment.Status),
	}))
}

func (s *notificationEventService) PublishEnrollmentGraded(ctx context.Context, enrollment *models.Enrollment) error {
	return s.publish(ctx, events.NewEvent(events.TypeEnrollmentGraded, events.EnrollmentEvent{
		EnrollmentID: enrollment.ID,
		StudentID:    enrollment.StudentID,
		SectionID:    enrollment.SectionID,
		Status:       string(enrollment.Status),
		Grade:        enrollment.Grade,
	}))
}

func (s *notificationEventService) PublishSectionUpdated(ctx context.Context, section *models.CourseSection) error {
	return s.publish(ctx, events.NewEvent(events.TypeSectionUpdated, events.SectionEvent{
		SectionID:     section.ID,
		CourseID:      section.CourseID,
		TermID:        section.TermID,
		EnrolledCount: section.EnrolledCount,
		MaxCapacity:   section.MaxCapacity,
	}))
}

func (s *notificationEventService) PublishAnnouncementPublished(ctx context.Context, announcement *models.Announcement) error {
	return s.publish(ctx, events.NewEvent(events.TypeAnnouncementPublished, events.AnnouncementEvent{
		AnnouncementID: announcement.ID,
		Title:          announcement.Title,
		TargetAudience: announcement.TargetAudience,
	}))
}

func (s *notificationEventService) PublishProfileSynthesized(ctx context.Context, user *models.User) error {
	return s.publish(ctx, events.NewEvent(events.TypeProfileSynthesized, events.ProfileEvent{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
	}))
}

func (s *notificationEventService) PublishEntityChange(ctx context.Context, entity string, op string, entityID uint, record interface{}) error {
	return s.publish(ctx, events.NewEvent(events.TypeEntityChanged, events.EntityChangeEvent{
		Entity:    entity,
		Operation: events.ChangeOperation(op),
		EntityID:  entityID,
		Record:    record,
	}))
}

func (s *notificationEventService) Close() error {
	return s.eventPublisher.Close()
}

// publish sends the event and logs failures. A failed publish never fails the
// mutation it describes; callers already committed by the time we get here.
func (s *notificationEventService) publish(ctx context.Context, event *events.Event) error {
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish event",
			"error", err,
			"event_type", event.Type)
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}

	s.logger.DebugContext(ctx, "Event published", "event_type", event.Type, "event_id", event.ID)
	return nil
}
