package services

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/models"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/validator"
)

func newFacultyFixture(t *testing.T, faculty []*models.Faculty, users []*models.User) FacultyService {
	t.Helper()

	repo := &mockRepository{
		faculty: &stubFacultyRepository{faculty: faculty},
		user:    &stubUserRepository{users: users},
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return NewFacultyService(repo, nil, logger, validator.New())
}

func TestFacultyService_List_PrefersFacultyRecords(t *testing.T) {
	ctx := context.Background()

	service := newFacultyFixture(t,
		[]*models.Faculty{
			{ID: 1, UserID: "fac-1", Title: "Assistant Professor", Department: "Computer Science"},
		},
		[]*models.User{
			{ID: "fac-2", Email: "other@univ.edu", Role: models.RoleFaculty},
		})

	resp, err := service.List(ctx, 20, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if resp.Total != 1 {
		t.Fatalf("Total = %d, want 1", resp.Total)
	}
	if resp.Faculty[0].Title != "Assistant Professor" {
		t.Errorf("unexpected record: %+v", resp.Faculty[0])
	}
}

func TestFacultyService_List_FallsBackToUsers(t *testing.T) {
	ctx := context.Background()

	phone := "555-0100"
	service := newFacultyFixture(t, nil, []*models.User{
		{ID: "fac-1", Email: "garcia@univ.edu", FirstName: "Maria", LastName: "Garcia", Role: models.RoleFaculty, Phone: &phone},
		{ID: "fac-2", Email: "tan@univ.edu", FirstName: "Luis", LastName: "Tan", Role: models.RoleFaculty},
		{ID: "fac-3", Email: "lee@univ.edu", FirstName: "Kim", LastName: "Lee", Role: models.RoleFaculty},
		{ID: "stu-1", Email: "student@univ.edu", Role: models.RoleStudent},
	})

	resp, err := service.List(ctx, 20, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if resp.Total != 3 {
		t.Fatalf("Total = %d, want 3 faculty-role users", resp.Total)
	}
	for _, record := range resp.Faculty {
		if record.ID != 0 {
			t.Errorf("fallback record carries a faculty row ID: %+v", record)
		}
		if record.User.Email == "" {
			t.Errorf("fallback record missing user data: %+v", record)
		}
		if record.User.Role != models.RoleFaculty {
			t.Errorf("non-faculty user leaked into directory: %+v", record.User)
		}
	}

	var withPhone int
	for _, record := range resp.Faculty {
		if record.Phone != nil && *record.Phone == phone {
			withPhone++
		}
	}
	if withPhone != 1 {
		t.Errorf("phone not carried over from user, got %d matches", withPhone)
	}
}
