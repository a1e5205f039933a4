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

func newAccountFixture(t *testing.T, identities []*models.User, profiles []*models.User, faculty []*models.Faculty) (AccountService, *stubProfileRepository, *events.MockEventPublisher) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	v := validator.New()

	profileRepo := newStubProfileRepository(profiles...)
	repo := &mockRepository{
		user:    &stubUserRepository{users: identities},
		profile: profileRepo,
		student: newStubStudentRepository(),
		faculty: &stubFacultyRepository{faculty: faculty},
	}

	publisher := events.NewMockEventPublisher(logger)
	eventService := NewNotificationEventService(repo, publisher, logger, v)

	return NewAccountService(repo, nil, logger, v, eventService), profileRepo, publisher
}

func TestAccountService_ResolveProfile_SynthesizesFromIdentityRole(t *testing.T) {
	ctx := context.Background()
	// No local profile row yet; identity metadata says faculty.
	service, profileRepo, publisher := newAccountFixture(t,
		[]*models.User{{
			ID:        "casdoor-77",
			Email:     "dana@univ.edu",
			FirstName: "Dana",
			LastName:  "Reyes",
			Role:      models.RoleFaculty,
		}},
		nil,
		[]*models.Faculty{{ID: 3, UserID: "casdoor-77", Department: "Mathematics"}})

	response, err := service.ResolveProfile(ctx, "casdoor-77")
	if err != nil {
		t.Fatalf("ResolveProfile failed: %v", err)
	}

	if !response.Synthesized {
		t.Error("Synthesized = false, want true on first sign-in")
	}
	if response.User.Role != models.RoleFaculty {
		t.Errorf("role = %q, want %q", response.User.Role, models.RoleFaculty)
	}
	if response.Faculty == nil || response.Faculty.Department != "Mathematics" {
		t.Errorf("faculty record not attached: %+v", response.Faculty)
	}
	if response.LandingRoute != RouteOverview {
		t.Errorf("landing route = %q, want %q", response.LandingRoute, RouteOverview)
	}

	// The synthesized row is persisted, so the next resolve reads it back.
	if _, err := profileRepo.Get(ctx, nil, "casdoor-77"); err != nil {
		t.Errorf("synthesized profile not persisted: %v", err)
	}
	again, err := service.ResolveProfile(ctx, "casdoor-77")
	if err != nil {
		t.Fatalf("second ResolveProfile failed: %v", err)
	}
	if again.Synthesized {
		t.Error("Synthesized = true on second resolve, want false")
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Type != events.TypeProfileSynthesized {
		t.Fatalf("expected a single %s event, got %v", events.TypeProfileSynthesized, published)
	}
}

func TestAccountService_ResolveProfile_DefaultsUnknownRoleToStudent(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newAccountFixture(t,
		[]*models.User{{ID: "casdoor-78", Email: "lee@univ.edu", Role: models.UserRole("librarian")}},
		nil, nil)

	response, err := service.ResolveProfile(ctx, "casdoor-78")
	if err != nil {
		t.Fatalf("ResolveProfile failed: %v", err)
	}
	if response.User.Role != models.RoleStudent {
		t.Errorf("role = %q, want %q", response.User.Role, models.RoleStudent)
	}
}

func TestLandingRouteForRole(t *testing.T) {
	tests := []struct {
		role models.UserRole
		want string
	}{
		{models.RoleAdmin, RouteProgramManagement},
		{models.RoleFaculty, RouteOverview},
		{models.RoleStudent, RouteOverview},
		// Unknown roles never land on an admin surface.
		{models.UserRole("registrar"), RouteOverview},
	}

	for _, tt := range tests {
		if got := landingRouteForRole(tt.role); got != tt.want {
			t.Errorf("landingRouteForRole(%q) = %q, want %q", tt.role, got, tt.want)
		}
	}
}
