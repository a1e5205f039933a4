package services

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/events"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/models"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/validator"
)

func newEventServiceFixture(t *testing.T) (NotificationEventService, *events.MockEventPublisher) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	publisher := events.NewMockEventPublisher(logger)
	service := &notificationEventService{
		repo:           &mockRepository{},
		eventPublisher: publisher,
		logger:         logger,
		validator:      validator.New(),
	}
	return service, publisher
}

func TestNotificationEventService_PublishEnrollmentCreated(t *testing.T) {
	service, publisher := newEventServiceFixture(t)

	enrollment := &models.Enrollment{
		ID:        42,
		StudentID: 7,
		SectionID: 3,
		Status:    models.EnrollmentEnrolled,
	}

	if err := service.PublishEnrollmentCreated(context.Background(), enrollment); err != nil {
		t.Fatalf("PublishEnrollmentCreated failed: %v", err)
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 1 {
		t.Fatalf("published %d events, want 1", len(published))
	}

	event := published[0]
	if event.Type != events.TypeEnrollmentCreated {
		t.Errorf("Type = %q, want %q", event.Type, events.TypeEnrollmentCreated)
	}
	if event.Source != "portal-service" {
		t.Errorf("Source = %q, want portal-service", event.Source)
	}
	if event.Version != "1.0" {
		t.Errorf("Version = %q, want 1.0", event.Version)
	}
	if event.ID == "" || event.Timestamp.IsZero() {
		t.Error("envelope missing ID or timestamp")
	}

	payload, ok := event.Data.(events.EnrollmentEvent)
	if !ok {
		t.Fatalf("Data is %T, want events.EnrollmentEvent", event.Data)
	}
	if payload.EnrollmentID != 42 || payload.StudentID != 7 || payload.SectionID != 3 {
		t.Errorf("unexpected payload: %+v", payload)
	}
	if payload.Status != string(models.EnrollmentEnrolled) {
		t.Errorf("Status = %q", payload.Status)
	}
}

func TestNotificationEventService_PublishEntityChange(t *testing.T) {
	service, publisher := newEventServiceFixture(t)

	program := &models.DegreeProgram{ID: 5, Code: "BSCS"}
	if err := service.PublishEntityChange(context.Background(), "degree_programs", "UPDATE", program.ID, program); err != nil {
		t.Fatalf("PublishEntityChange failed: %v", err)
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 1 {
		t.Fatalf("published %d events, want 1", len(published))
	}

	payload, ok := published[0].Data.(events.EntityChangeEvent)
	if !ok {
		t.Fatalf("Data is %T, want events.EntityChangeEvent", published[0].Data)
	}
	if payload.Entity != "degree_programs" || payload.Operation != events.ChangeUpdate || payload.EntityID != 5 {
		t.Errorf("unexpected payload: %+v", payload)
	}
}

func TestNotificationEventService_EachTypeGetsItsOwnEnvelope(t *testing.T) {
	service, publisher := newEventServiceFixture(t)
	ctx := context.Background()

	grade := "A"
	_ = service.PublishEnrollmentDropped(ctx, &models.Enrollment{ID: 1, Status: models.EnrollmentDropped})
	_ = service.PublishEnrollmentGraded(ctx, &models.Enrollment{ID: 1, Grade: &grade, Status: models.EnrollmentCompleted})
	_ = service.PublishSectionUpdated(ctx, &models.CourseSection{ID: 2, EnrolledCount: 10, MaxCapacity: 30})
	_ = service.PublishAnnouncementPublished(ctx, &models.Announcement{ID: 3, Title: "Midterm schedule", TargetAudience: "all"})
	_ = service.PublishProfileSynthesized(ctx, &models.User{ID: "user-1", Email: "new@univ.edu", Role: models.RoleStudent})

	want := []string{
		events.TypeEnrollmentDropped,
		events.TypeEnrollmentGraded,
		events.TypeSectionUpdated,
		events.TypeAnnouncementPublished,
		events.TypeProfileSynthesized,
	}

	published := publisher.GetPublishedEvents()
	if len(published) != len(want) {
		t.Fatalf("published %d events, want %d", len(published), len(want))
	}
	for i, event := range published {
		if event.Type != want[i] {
			t.Errorf("event %d type = %q, want %q", i, event.Type, want[i])
		}
	}

	publisher.ClearEvents()
	if remaining := publisher.GetPublishedEvents(); len(remaining) != 0 {
		t.Errorf("ClearEvents left %d events", len(remaining))
	}
}
