package services

import (
	"errors"
	"fmt"
)

// ===== SENTINEL ERRORS =====

var (
	// Not found
	ErrStudentNotFound      = errors.New("student not found")
	ErrFacultyNotFound      = errors.New("faculty not found")
	ErrProgramNotFound      = errors.New("program not found")
	ErrCourseNotFound       = errors.New("course not found")
	ErrTermNotFound         = errors.New("term not found")
	ErrSectionNotFound      = errors.New("section not found")
	ErrEnrollmentNotFound   = errors.New("enrollment not found")
	ErrAnnouncementNotFound = errors.New("announcement not found")
	ErrEventNotFound        = errors.New("calendar event not found")
	ErrUserNotFound         = errors.New("user not found")

	// Enrollment workflow
	ErrSectionFull      = errors.New("Section is full")
	ErrAlreadyEnrolled  = errors.New("Already enrolled in this section")
	ErrNotEnrolled      = errors.New("student is not enrolled in this section")
	ErrEnrollmentClosed = errors.New("enrollment is closed for this status")

	// Roster workflow
	ErrRosterStudentNotFound = errors.New("Student not found")
	ErrEmptyRosterExport     = errors.New("no roster to export")

	// Catalog constraints
	ErrProgramCodeTaken   = errors.New("program code already in use")
	ErrCourseCodeTaken    = errors.New("course code already in use")
	ErrSectionNumberTaken = errors.New("section number already in use for this course and term")
	ErrProgramHasStudents = errors.New("program has enrolled students")
	ErrCourseHasSections  = errors.New("course has scheduled sections")
	ErrSectionHasStudents = errors.New("section has enrollments")

	// Grading
	ErrInvalidGrade = errors.New("invalid grade value")

	// Access
	ErrForbidden = errors.New("insufficient permissions")
)

// ===== PERMISSION ERROR =====

// PermissionError carries who was denied what, for handler mapping and logs.
type PermissionError struct {
	UserID     string
	ResourceID uint
	Resource   string
	Action     string
	Reason     string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %s cannot %s %s %d: %s",
		e.UserID, e.Action, e.Resource, e.ResourceID, e.Reason)
}

func (e *PermissionError) Is(target error) bool {
	return target == ErrForbidden
}

func NewPermissionError(userID string, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

// IsNotFoundError reports whether err is one of the service not-found
// sentinels.
func IsNotFoundError(err error) bool {
	for _, sentinel := range []error{
		ErrStudentNotFound, ErrFacultyNotFound, ErrProgramNotFound,
		ErrCourseNotFound, ErrTermNotFound, ErrSectionNotFound,
		ErrEnrollmentNotFound, ErrAnnouncementNotFound, ErrEventNotFound,
		ErrUserNotFound, ErrRosterStudentNotFound,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// IsConflictError reports whether err is a uniqueness or state conflict.
func IsConflictError(err error) bool {
	for _, sentinel := range []error{
		ErrAlreadyEnrolled, ErrProgramCodeTaken, ErrCourseCodeTaken,
		ErrSectionNumberTaken, ErrProgramHasStudents, ErrCourseHasSections,
		ErrSectionHasStudents,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
