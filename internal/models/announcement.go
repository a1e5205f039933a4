package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AudienceScope is the kind part of a target audience value.
type AudienceScope string

const (
	AudienceAll     AudienceScope = "all"
	AudienceFaculty AudienceScope = "faculty"
	AudienceStudent AudienceScope = "student"
	AudienceCourse  AudienceScope = "course"
	AudienceSection AudienceScope = "section"
	AudienceProgram AudienceScope = "program"
)

// TargetAudience encodes who an announcement is for. Stored as a single string:
// "all", "faculty", "student", or "<scope>:<id>" for course/section/program.
type TargetAudience struct {
	Scope AudienceScope
	ID    uint // only set for course/section/program scopes
}

func (t TargetAudience) String() string {
	switch t.Scope {
	case AudienceCourse, AudienceSection, AudienceProgram:
		return fmt.Sprintf("%s:%d", t.Scope, t.ID)
	default:
		return string(t.Scope)
	}
}

// ParseTargetAudience parses the stored audience string. Scoped audiences
// require a positive numeric id after the colon.
func ParseTargetAudience(s string) (TargetAudience, error) {
	switch AudienceScope(s) {
	case AudienceAll, AudienceFaculty, AudienceStudent:
		return TargetAudience{Scope: AudienceScope(s)}, nil
	}

	scope, idPart, found := strings.Cut(s, ":")
	if !found {
		return TargetAudience{}, fmt.Errorf("invalid target audience %q", s)
	}
	switch AudienceScope(scope) {
	case AudienceCourse, AudienceSection, AudienceProgram:
	default:
		return TargetAudience{}, fmt.Errorf("invalid target audience scope %q", scope)
	}
	id, err := strconv.ParseUint(idPart, 10, 32)
	if err != nil || id == 0 {
		return TargetAudience{}, fmt.Errorf("invalid target audience id %q", idPart)
	}
	return TargetAudience{Scope: AudienceScope(scope), ID: uint(id)}, nil
}

type Announcement struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	Title          string         `json:"title" gorm:"not null;size:200" validate:"required,max=200"`
	Content        string         `json:"content" gorm:"type:text" validate:"required"`
	TargetAudience string         `json:"target_audience" gorm:"not null;default:all;index;size:40"`
	PublishedAt    *time.Time     `json:"published_at"`
	IsActive       bool           `json:"is_active" gorm:"default:true;index"`
	Meta           datatypes.JSON `json:"meta" gorm:"type:jsonb"`

	CreatedBy string `json:"created_by" gorm:"size:255;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Announcement) TableName() string {
	return "announcements"
}

type CalendarEvent struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"not null;size:200" validate:"required,max=200"`
	Description *string   `json:"description" gorm:"type:text"`
	EventType   string    `json:"event_type" gorm:"size:50;index"`
	StartDate   time.Time `json:"start_date" gorm:"not null;index" validate:"required"`
	EndDate     time.Time `json:"end_date" gorm:"not null"`
	IsAllDay    bool      `json:"is_all_day" gorm:"default:false"`
	Location    *string   `json:"location" gorm:"size:200"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CalendarEvent) TableName() string {
	return "calendar_events"
}
