package models

import "testing"

func TestUserRole_AtLeast(t *testing.T) {
	tests := []struct {
		role  UserRole
		other UserRole
		want  bool
	}{
		{RoleAdmin, RoleAdmin, true},
		{RoleAdmin, RoleFaculty, true},
		{RoleAdmin, RoleStudent, true},
		{RoleFaculty, RoleFaculty, true},
		{RoleFaculty, RoleStudent, true},
		{RoleFaculty, RoleAdmin, false},
		{RoleStudent, RoleStudent, true},
		{RoleStudent, RoleFaculty, false},
		{RoleStudent, RoleAdmin, false},
		// Unknown roles grant nothing, not even themselves.
		{UserRole("registrar"), RoleStudent, false},
		{UserRole("registrar"), UserRole("registrar"), false},
	}

	for _, tt := range tests {
		if got := tt.role.AtLeast(tt.other); got != tt.want {
			t.Errorf("%q.AtLeast(%q) = %v, want %v", tt.role, tt.other, got, tt.want)
		}
	}
}

func TestUserRole_IsValid(t *testing.T) {
	for _, role := range []UserRole{RoleStudent, RoleFaculty, RoleAdmin} {
		if !role.IsValid() {
			t.Errorf("%q should be valid", role)
		}
	}
	for _, role := range []UserRole{"", "registrar", "ADMIN", "teacher"} {
		if UserRole(role).IsValid() {
			t.Errorf("%q should be invalid", role)
		}
	}
}

func TestUser_FullName(t *testing.T) {
	tests := []struct {
		first, last, want string
	}{
		{"Ana", "Cruz", "Ana Cruz"},
		{"Ana", "", "Ana"},
		{"", "Cruz", "Cruz"},
		{"", "", ""},
	}

	for _, tt := range tests {
		u := &User{FirstName: tt.first, LastName: tt.last}
		if got := u.FullName(); got != tt.want {
			t.Errorf("FullName(%q, %q) = %q, want %q", tt.first, tt.last, got, tt.want)
		}
	}
}
