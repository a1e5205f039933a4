package casdoor

import (
	"testing"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"

	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/models"
)

func newTestUserCasdoor() *UserCasdoor {
	// No client or redis needed for pure conversion logic.
	return &UserCasdoor{cachePrefix: "user:"}
}

func TestConvertCasdoorRolesToModel(t *testing.T) {
	u := newTestUserCasdoor()

	tests := []struct {
		name string
		user *casdoorsdk.User
		want models.UserRole
	}{
		{
			name: "admin flag wins over everything",
			user: &casdoorsdk.User{IsAdmin: true, Roles: []*casdoorsdk.Role{{Name: "student"}}},
			want: models.RoleAdmin,
		},
		{
			name: "teacher role maps to faculty",
			user: &casdoorsdk.User{Roles: []*casdoorsdk.Role{{Name: "teacher"}}},
			want: models.RoleFaculty,
		},
		{
			name: "highest role wins across multiple assignments",
			user: &casdoorsdk.User{Roles: []*casdoorsdk.Role{{Name: "student"}, {Name: "registrar"}}},
			want: models.RoleAdmin,
		},
		{
			name: "role property used when no role objects exist",
			user: &casdoorsdk.User{Properties: map[string]string{"role": "faculty"}},
			want: models.RoleFaculty,
		},
		{
			name: "unknown role name defaults to student",
			user: &casdoorsdk.User{Roles: []*casdoorsdk.Role{{Name: "librarian"}}},
			want: models.RoleStudent,
		},
		{
			name: "no role information defaults to student",
			user: &casdoorsdk.User{},
			want: models.RoleStudent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := u.convertCasdoorRolesToModel(tt.user); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConvertCasdoorUserToModel(t *testing.T) {
	u := newTestUserCasdoor()

	user := u.convertCasdoorUserToModel(&casdoorsdk.User{
		Id:          "usr_42",
		Email:       "dana.reyes@example.edu",
		DisplayName: "Dana Reyes Jr",
		Phone:       "555-0134",
		Properties:  map[string]string{"role": "admin"},
	})

	if user.ID != "usr_42" || user.Email != "dana.reyes@example.edu" {
		t.Errorf("identity fields not carried over: %+v", user)
	}
	if user.FirstName != "Dana" || user.LastName != "Reyes Jr" {
		t.Errorf("display name split = %q %q, want Dana / Reyes Jr", user.FirstName, user.LastName)
	}
	if user.Role != models.RoleAdmin {
		t.Errorf("role = %q, want admin", user.Role)
	}
	if user.Status != models.UserActive {
		t.Errorf("status = %q, want active", user.Status)
	}
	if user.Phone == nil || *user.Phone != "555-0134" {
		t.Errorf("phone not mapped: %v", user.Phone)
	}
}

func TestConvertCasdoorUserToModel_ExplicitNamesWin(t *testing.T) {
	u := newTestUserCasdoor()

	user := u.convertCasdoorUserToModel(&casdoorsdk.User{
		Id:          "usr_7",
		DisplayName: "Wrong Name",
		FirstName:   "Mika",
		LastName:    "Tan",
		IsForbidden: true,
	})

	if user.FirstName != "Mika" || user.LastName != "Tan" {
		t.Errorf("explicit names should win, got %q %q", user.FirstName, user.LastName)
	}
	if user.Status != models.UserInactive {
		t.Errorf("forbidden users must be inactive, got %q", user.Status)
	}
}

func TestSplitDisplayName(t *testing.T) {
	tests := []struct {
		input string
		first string
		last  string
	}{
		{"Dana Reyes", "Dana", "Reyes"},
		{"Dana", "Dana", ""},
		{"  Dana Reyes Jr ", "Dana", "Reyes Jr"},
		{"", "", ""},
	}
	for _, tt := range tests {
		first, last := splitDisplayName(tt.input)
		if first != tt.first || last != tt.last {
			t.Errorf("splitDisplayName(%q) = %q, %q; want %q, %q", tt.input, first, last, tt.first, tt.last)
		}
	}
}
