package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/events"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/models"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/validator"
)

func newRosterFixture(t *testing.T, sections []*models.CourseSection, students []*models.Student, enrollments []*models.Enrollment) (RosterService, *stubEnrollmentRepository) {
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
	enrollmentService := NewEnrollmentService(repo, nil, logger, v, eventService)

	return NewRosterService(repo, nil, logger, v, enrollmentService, eventService), enrollmentRepo
}

func rosterStudent(id uint, number, first, last, email string) *models.Student {
	return &models.Student{
		ID:            id,
		UserID:        email,
		StudentNumber: number,
		User: models.User{
			ID:        email,
			Email:     email,
			FirstName: first,
			LastName:  last,
		},
	}
}

func TestRosterService_GetRoster_OrderedByEnrollmentTime(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC)

	service, _ := newRosterFixture(t,
		[]*models.CourseSection{{ID: 1, MaxCapacity: 30, EnrolledCount: 2}},
		[]*models.Student{
			rosterStudent(10, "2025-0010", "Ben", "Reyes", "ben@univ.edu"),
			rosterStudent(11, "2025-0011", "Ana", "Cruz", "ana@univ.edu"),
		},
		[]*models.Enrollment{
			{ID: 2, StudentID: 11, SectionID: 1, Status: models.EnrollmentEnrolled, CreatedAt: base.Add(time.Hour)},
			{ID: 1, StudentID: 10, SectionID: 1, Status: models.EnrollmentEnrolled, CreatedAt: base},
		})

	roster, err := service.GetRoster(ctx, 1)
	if err != nil {
		t.Fatalf("GetRoster failed: %v", err)
	}

	if roster.Total != 2 {
		t.Fatalf("Total = %d, want 2", roster.Total)
	}
	if roster.Entries[0].StudentNumber != "2025-0010" || roster.Entries[1].StudentNumber != "2025-0011" {
		t.Errorf("roster not ordered by enrollment time: %v", roster.Entries)
	}
	if roster.Entries[0].Email != "ben@univ.edu" {
		t.Errorf("user fields not populated: %+v", roster.Entries[0])
	}
}

func TestRosterService_AddStudent_ResolvesIdentifier(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		identifier  string
		wantStudent uint
		wantErr     error
	}{
		{name: "email when identifier contains @", identifier: "ana@univ.edu", wantStudent: 11},
		{name: "student number otherwise", identifier: "2025-0010", wantStudent: 10},
		{name: "unknown identifier", identifier: "2099-9999", wantErr: ErrRosterStudentNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, enrollmentRepo := newRosterFixture(t,
				[]*models.CourseSection{{ID: 1, MaxCapacity: 30, EnrolledCount: 0}},
				[]*models.Student{
					rosterStudent(10, "2025-0010", "Ben", "Reyes", "ben@univ.edu"),
					rosterStudent(11, "2025-0011", "Ana", "Cruz", "ana@univ.edu"),
				},
				nil)

			roster, err := service.AddStudent(ctx, 1, &RosterAddRequest{Identifier: tt.identifier}, "faculty-1")

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("AddStudent error = %v, want %v", err, tt.wantErr)
				}
				if err.Error() != "Student not found" {
					t.Errorf("error message = %q, want %q", err.Error(), "Student not found")
				}
				return
			}

			if err != nil {
				t.Fatalf("AddStudent failed: %v", err)
			}
			if roster.Total != 1 {
				t.Fatalf("Total = %d, want 1", roster.Total)
			}
			if enrollmentRepo.enrollments[0].StudentID != tt.wantStudent {
				t.Errorf("enrolled student = %d, want %d", enrollmentRepo.enrollments[0].StudentID, tt.wantStudent)
			}
		})
	}
}

func TestRosterService_RemoveStudent_DeletesEnrollment(t *testing.T) {
	ctx := context.Background()
	service, enrollmentRepo := newRosterFixture(t,
		[]*models.CourseSection{{ID: 1, MaxCapacity: 30, EnrolledCount: 2}},
		[]*models.Student{
			rosterStudent(10, "2025-0010", "Ben", "Reyes", "ben@univ.edu"),
			rosterStudent(11, "2025-0011", "Ana", "Cruz", "ana@univ.edu"),
		},
		[]*models.Enrollment{
			{ID: 1, StudentID: 10, SectionID: 1, Status: models.EnrollmentEnrolled},
			{ID: 2, StudentID: 11, SectionID: 1, Status: models.EnrollmentEnrolled},
		})

	roster, err := service.RemoveStudent(ctx, 1, 1, "faculty-1")
	if err != nil {
		t.Fatalf("RemoveStudent failed: %v", err)
	}

	// Removal deletes the row, so the refetched roster no longer carries it.
	if roster.Total != 1 {
		t.Fatalf("Total = %d, want 1", roster.Total)
	}
	if roster.Entries[0].EnrollmentID != 2 {
		t.Errorf("remaining enrollment = %d, want 2", roster.Entries[0].EnrollmentID)
	}
	if got := len(enrollmentRepo.enrollments); got != 1 {
		t.Errorf("stored enrollments = %d, want 1", got)
	}
}

func TestRosterService_RemoveStudent_AllowsReAdd(t *testing.T) {
	ctx := context.Background()
	// Capacity of one: re-adding only works if removal both deleted the
	// enrollment and released the seat.
	service, enrollmentRepo := newRosterFixture(t,
		[]*models.CourseSection{{ID: 7, MaxCapacity: 1, EnrolledCount: 1}},
		[]*models.Student{rosterStudent(10, "2025-0010", "Ben", "Reyes", "ben@univ.edu")},
		[]*models.Enrollment{{ID: 1, StudentID: 10, SectionID: 7, Status: models.EnrollmentEnrolled}})

	if _, err := service.RemoveStudent(ctx, 7, 1, "faculty-1"); err != nil {
		t.Fatalf("RemoveStudent failed: %v", err)
	}

	roster, err := service.AddStudent(ctx, 7, &RosterAddRequest{Identifier: "2025-0010"}, "faculty-1")
	if err != nil {
		t.Fatalf("AddStudent after removal failed: %v", err)
	}

	if roster.Total != 1 {
		t.Fatalf("Total = %d, want 1", roster.Total)
	}
	if roster.Entries[0].StudentID != 10 || roster.Entries[0].Status != models.EnrollmentEnrolled {
		t.Errorf("re-added entry = %+v, want student 10 enrolled", roster.Entries[0])
	}
	if got := len(enrollmentRepo.enrollments); got != 1 {
		t.Errorf("stored enrollments = %d, want 1", got)
	}
}

func TestRosterService_SetGrade(t *testing.T) {
	ctx := context.Background()

	service, enrollmentRepo := newRosterFixture(t,
		[]*models.CourseSection{{ID: 1, MaxCapacity: 30, EnrolledCount: 1}},
		[]*models.Student{rosterStudent(10, "2025-0010", "Ben", "Reyes", "ben@univ.edu")},
		[]*models.Enrollment{{ID: 1, StudentID: 10, SectionID: 1, Status: models.EnrollmentEnrolled}})

	if _, err := service.SetGrade(ctx, 1, 1, &SetGradeRequest{Grade: "ZZ"}, "faculty-1"); err == nil {
		t.Fatal("expected grade outside the vocabulary to be rejected")
	}

	updated, err := service.SetGrade(ctx, 1, 1, &SetGradeRequest{Grade: "A-"}, "faculty-1")
	if err != nil {
		t.Fatalf("SetGrade failed: %v", err)
	}
	if updated.Grade == nil || *updated.Grade != "A-" {
		t.Errorf("grade = %v, want A-", updated.Grade)
	}
	if enrollmentRepo.enrollments[0].Grade == nil || *enrollmentRepo.enrollments[0].Grade != "A-" {
		t.Errorf("grade not persisted: %v", enrollmentRepo.enrollments[0].Grade)
	}
}

func TestRosterService_ExportCSV(t *testing.T) {
	ctx := context.Background()

	service, _ := newRosterFixture(t,
		[]*models.CourseSection{{ID: 7, MaxCapacity: 30, EnrolledCount: 2}},
		[]*models.Student{
			rosterStudent(10, "2025-0010", "Ben", `O"Brien`, "ben@univ.edu"),
			rosterStudent(11, "2025-0011", "Ana", "Cruz", "ana@univ.edu"),
		},
		[]*models.Enrollment{
			{ID: 1, StudentID: 10, SectionID: 7, Status: models.EnrollmentEnrolled, CreatedAt: time.Now()},
			{ID: 2, StudentID: 11, SectionID: 7, Status: models.EnrollmentEnrolled, CreatedAt: time.Now().Add(time.Minute)},
		})

	data, filename, err := service.ExportCSV(ctx, 7)
	if err != nil {
		t.Fatalf("ExportCSV failed: %v", err)
	}
	if filename != "roster_section_7.csv" {
		t.Errorf("filename = %q", filename)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")

	// Header plus one line per roster row
	if len(lines) != 3 {
		t.Fatalf("line count = %d, want 3", len(lines))
	}
	if lines[0] != `"Enrollment ID","Student ID","Student Number","First Name","Last Name","Email","Status","Grade"` {
		t.Errorf("header = %s", lines[0])
	}

	// Every field quoted, embedded quotes doubled
	if !strings.Contains(lines[1], `"O""Brien"`) {
		t.Errorf("embedded quote not doubled: %s", lines[1])
	}
	for _, line := range lines {
		if !strings.HasPrefix(line, `"`) || !strings.HasSuffix(line, `"`) {
			t.Errorf("line not fully quoted: %s", line)
		}
	}
}

func TestRosterService_ExportCSV_EmptyRoster(t *testing.T) {
	ctx := context.Background()

	service, _ := newRosterFixture(t,
		[]*models.CourseSection{{ID: 1, MaxCapacity: 30, EnrolledCount: 0}},
		nil, nil)

	_, _, err := service.ExportCSV(ctx, 1)
	if !errors.Is(err, ErrEmptyRosterExport) {
		t.Fatalf("ExportCSV error = %v, want ErrEmptyRosterExport", err)
	}
	if err.Error() != "no roster to export" {
		t.Errorf("error message = %q, want %q", err.Error(), "no roster to export")
	}
}

func TestRosterService_ExportXLSX(t *testing.T) {
	ctx := context.Background()

	service, _ := newRosterFixture(t,
		[]*models.CourseSection{{ID: 3, MaxCapacity: 30, EnrolledCount: 1}},
		[]*models.Student{rosterStudent(10, "2025-0010", "Ben", "Reyes", "ben@univ.edu")},
		[]*models.Enrollment{{ID: 1, StudentID: 10, SectionID: 3, Status: models.EnrollmentEnrolled, CreatedAt: time.Now()}})

	data, filename, err := service.ExportXLSX(ctx, 3)
	if err != nil {
		t.Fatalf("ExportXLSX failed: %v", err)
	}
	if filename != "roster_section_3.xlsx" {
		t.Errorf("filename = %q", filename)
	}
	if len(data) == 0 {
		t.Error("empty workbook")
	}
}
