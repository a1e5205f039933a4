package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/events"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/models"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/validator"
)

func newEnrollmentFixture(t *testing.T, sections []*models.CourseSection, students []*models.Student, enrollments []*models.Enrollment) (EnrollmentService, *stubEnrollmentRepository, *stubSectionRepository, *events.MockEventPublisher) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	v := validator.New()

	studentRepo := newStubStudentRepository(students...)
	sectionRepo := newStubSectionRepository(sections...)
	enrollmentRepo := newStubEnrollmentRepository(studentRepo, enrollments...)

	repo := &mockRepository{
		student:    studentRepo,
		section:    sectionRepo,
		enrollment: enrollmentRepo,
	}

	publisher := events.NewMockEventPublisher(logger)
	eventService := NewNotificationEventService(repo, publisher, logger, v)

	return NewEnrollmentService(repo, nil, logger, v, eventService), enrollmentRepo, sectionRepo, publisher
}

func TestEnrollmentService_CheckEligibility(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		section    *models.CourseSection
		enrolled   []*models.Enrollment
		studentID  uint
		wantOK     bool
		wantReason string
	}{
		{
			name:      "open section",
			section:   &models.CourseSection{ID: 1, MaxCapacity: 30, EnrolledCount: 5},
			studentID: 10,
			wantOK:    true,
		},
		{
			name:       "full section",
			section:    &models.CourseSection{ID: 1, MaxCapacity: 2, EnrolledCount: 2},
			studentID:  10,
			wantOK:     false,
			wantReason: "Section is full",
		},
		{
			name:    "already enrolled",
			section: &models.CourseSection{ID: 1, MaxCapacity: 30, EnrolledCount: 5},
			enrolled: []*models.Enrollment{
				{ID: 1, StudentID: 10, SectionID: 1, Status: models.EnrollmentEnrolled},
			},
			studentID:  10,
			wantOK:     false,
			wantReason: "Already enrolled in this section",
		},
		{
			name:    "full section wins over duplicate",
			section: &models.CourseSection{ID: 1, MaxCapacity: 2, EnrolledCount: 2},
			enrolled: []*models.Enrollment{
				{ID: 1, StudentID: 10, SectionID: 1, Status: models.EnrollmentEnrolled},
			},
			studentID:  10,
			wantOK:     false,
			wantReason: "Section is full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _, _, _ := newEnrollmentFixture(t,
				[]*models.CourseSection{tt.section},
				[]*models.Student{{ID: tt.studentID}},
				tt.enrolled)

			validation, err := service.CheckEligibility(ctx, tt.studentID, tt.section.ID)
			if err != nil {
				t.Fatalf("CheckEligibility failed: %v", err)
			}
			if validation.Eligible != tt.wantOK {
				t.Errorf("Eligible = %v, want %v", validation.Eligible, tt.wantOK)
			}
			if validation.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", validation.Reason, tt.wantReason)
			}
		})
	}
}

func TestEnrollmentService_Enroll_RejectsFullSection(t *testing.T) {
	ctx := context.Background()
	service, enrollmentRepo, sectionRepo, publisher := newEnrollmentFixture(t,
		[]*models.CourseSection{{ID: 1, MaxCapacity: 2, EnrolledCount: 2}},
		[]*models.Student{{ID: 10, StudentNumber: "2025-0010"}},
		nil)

	_, err := service.Enroll(ctx, &EnrollRequest{StudentID: 10, SectionID: 1}, "admin-1")
	if !errors.Is(err, ErrSectionFull) {
		t.Fatalf("Enroll error = %v, want ErrSectionFull", err)
	}
	if err.Error() != "Section is full" {
		t.Errorf("error message = %q, want %q", err.Error(), "Section is full")
	}

	// No insert is attempted on a failed pre-check
	if got := len(enrollmentRepo.enrollments); got != 0 {
		t.Errorf("enrollment count = %d, want 0", got)
	}
	if got := sectionRepo.sections[1].EnrolledCount; got != 2 {
		t.Errorf("enrolled count = %d, want unchanged 2", got)
	}
	if got := len(publisher.GetPublishedEvents()); got != 0 {
		t.Errorf("published events = %d, want 0", got)
	}
}

func TestEnrollmentService_Enroll_RejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	service, enrollmentRepo, _, _ := newEnrollmentFixture(t,
		[]*models.CourseSection{{ID: 1, MaxCapacity: 30, EnrolledCount: 5}},
		[]*models.Student{{ID: 10, StudentNumber: "2025-0010"}},
		[]*models.Enrollment{{ID: 1, StudentID: 10, SectionID: 1, Status: models.EnrollmentEnrolled}})

	_, err := service.Enroll(ctx, &EnrollRequest{StudentID: 10, SectionID: 1}, "admin-1")
	if !errors.Is(err, ErrAlreadyEnrolled) {
		t.Fatalf("Enroll error = %v, want ErrAlreadyEnrolled", err)
	}
	if err.Error() != "Already enrolled in this section" {
		t.Errorf("error message = %q, want %q", err.Error(), "Already enrolled in this section")
	}

	if got := len(enrollmentRepo.enrollments); got != 1 {
		t.Errorf("enrollment count = %d, want 1", got)
	}
}

func TestEnrollmentService_Enroll_Succeeds(t *testing.T) {
	ctx := context.Background()
	service, _, sectionRepo, publisher := newEnrollmentFixture(t,
		[]*models.CourseSection{{ID: 1, MaxCapacity: 30, EnrolledCount: 5}},
		[]*models.Student{{ID: 10, StudentNumber: "2025-0010"}},
		nil)

	enrollment, err := service.Enroll(ctx, &EnrollRequest{StudentID: 10, SectionID: 1}, "admin-1")
	if err != nil {
		t.Fatalf("Enroll failed: %v", err)
	}

	if enrollment.Status != models.EnrollmentEnrolled {
		t.Errorf("status = %q, want %q", enrollment.Status, models.EnrollmentEnrolled)
	}
	if enrollment.StudentID != 10 || enrollment.SectionID != 1 {
		t.Errorf("enrollment keys = (%d, %d), want (10, 1)", enrollment.StudentID, enrollment.SectionID)
	}
	if got := sectionRepo.sections[1].EnrolledCount; got != 6 {
		t.Errorf("enrolled count = %d, want 6", got)
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 1 {
		t.Fatalf("published events = %d, want 1", len(published))
	}
	if published[0].Type != events.TypeEnrollmentCreated {
		t.Errorf("event type = %q, want %q", published[0].Type, events.TypeEnrollmentCreated)
	}
}

func TestEnrollmentService_Drop_ReleasesSeat(t *testing.T) {
	ctx := context.Background()
	service, _, sectionRepo, publisher := newEnrollmentFixture(t,
		[]*models.CourseSection{{ID: 1, MaxCapacity: 30, EnrolledCount: 6}},
		[]*models.Student{{ID: 10, StudentNumber: "2025-0010"}},
		[]*models.Enrollment{{ID: 1, StudentID: 10, SectionID: 1, Status: models.EnrollmentEnrolled}})

	dropped, err := service.Drop(ctx, 1, "admin-1")
	if err != nil {
		t.Fatalf("Drop failed: %v", err)
	}

	if dropped.Status != models.EnrollmentDropped {
		t.Errorf("status = %q, want %q", dropped.Status, models.EnrollmentDropped)
	}
	if got := sectionRepo.sections[1].EnrolledCount; got != 5 {
		t.Errorf("enrolled count = %d, want 5", got)
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Type != events.TypeEnrollmentDropped {
		t.Fatalf("expected a single %s event, got %v", events.TypeEnrollmentDropped, published)
	}
}

func TestEnrollmentService_Enroll_SucceedsAfterDrop(t *testing.T) {
	ctx := context.Background()
	// The dropped row stays behind, but only live enrollments count as
	// duplicates, so the student can enroll in the same section again.
	service, enrollmentRepo, _, _ := newEnrollmentFixture(t,
		[]*models.CourseSection{{ID: 1, MaxCapacity: 30, EnrolledCount: 6}},
		[]*models.Student{{ID: 10, StudentNumber: "2025-0010"}},
		[]*models.Enrollment{{ID: 1, StudentID: 10, SectionID: 1, Status: models.EnrollmentEnrolled}})

	if _, err := service.Drop(ctx, 1, "admin-1"); err != nil {
		t.Fatalf("Drop failed: %v", err)
	}

	enrollment, err := service.Enroll(ctx, &EnrollRequest{StudentID: 10, SectionID: 1}, "admin-1")
	if err != nil {
		t.Fatalf("Enroll after drop failed: %v", err)
	}

	if enrollment.Status != models.EnrollmentEnrolled {
		t.Errorf("status = %q, want %q", enrollment.Status, models.EnrollmentEnrolled)
	}
	if got := len(enrollmentRepo.enrollments); got != 2 {
		t.Errorf("stored enrollments = %d, want 2", got)
	}
}

func TestEnrollmentService_Drop_RejectsClosedEnrollment(t *testing.T) {
	ctx := context.Background()
	service, _, _, _ := newEnrollmentFixture(t,
		[]*models.CourseSection{{ID: 1, MaxCapacity: 30, EnrolledCount: 5}},
		[]*models.Student{{ID: 10}},
		[]*models.Enrollment{{ID: 1, StudentID: 10, SectionID: 1, Status: models.EnrollmentDropped}})

	if _, err := service.Drop(ctx, 1, "admin-1"); !errors.Is(err, ErrEnrollmentClosed) {
		t.Fatalf("Drop error = %v, want ErrEnrollmentClosed", err)
	}
}
