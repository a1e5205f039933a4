package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleFaculty UserRole = "faculty"
	RoleAdmin   UserRole = "admin"
)

// roleLevels defines the access hierarchy used by every gate in the service.
// Higher level implies every permission of the lower levels.
var roleLevels = map[UserRole]int{
	RoleStudent: 1,
	RoleFaculty: 2,
	RoleAdmin:   3,
}

// Level returns the numeric rank of the role, 0 for unknown roles.
func (r UserRole) Level() int {
	return roleLevels[r]
}

// AtLeast reports whether the role grants at least the access of other.
func (r UserRole) AtLeast(other UserRole) bool {
	return r.Level() >= other.Level() && r.Level() > 0
}

// IsValid reports whether the role is one of the enumerated values.
func (r UserRole) IsValid() bool {
	_, ok := roleLevels[r]
	return ok
}

type UserStatus string

const (
	UserActive    UserStatus = "active"
	UserInactive  UserStatus = "inactive"
	UserGraduated UserStatus = "graduated"
)

// User is the application profile keyed by the identity provider's subject ID.
// The identity service owns authentication; this row is the denormalized profile
// the dashboards read and the admin edits.
type User struct {
	ID        string     `json:"id" gorm:"primaryKey;size:255"`
	Email     string     `json:"email" gorm:"uniqueIndex;not null;size:255" validate:"required,email"`
	FirstName string     `json:"first_name" gorm:"not null;size:100" validate:"required,max=100"`
	LastName  string     `json:"last_name" gorm:"not null;size:100" validate:"required,max=100"`
	Phone     *string    `json:"phone" gorm:"size:30"`
	Address   *string    `json:"address" gorm:"size:255"`
	Role      UserRole   `json:"role" gorm:"not null;default:student;index;size:20" validate:"omitempty,oneof=student faculty admin"`
	Status    UserStatus `json:"status" gorm:"not null;default:active;size:20" validate:"omitempty,oneof=active inactive graduated"`

	AvatarURL *string `json:"avatar_url" gorm:"size:500"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

// FullName joins first and last name for display and exports.
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
