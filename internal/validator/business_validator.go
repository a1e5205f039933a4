package validator

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/models"
)

// letterGrades is the closed grade vocabulary. Anything outside this set must
// be a numeric value between 0 and 100.
var letterGrades = map[string]bool{
	"A": true, "A-": true,
	"B+": true, "B": true, "B-": true,
	"C+": true, "C": true, "C-": true,
	"D": true, "F": true,
	"INC": true, "P": true, "NP": true, "W": true,
}

// IsValidGrade reports whether the grade is a known letter grade or a numeric
// value in [0, 100].
func IsValidGrade(grade string) bool {
	grade = strings.TrimSpace(grade)
	if grade == "" {
		return false
	}
	if letterGrades[strings.ToUpper(grade)] {
		return true
	}
	value, err := strconv.ParseFloat(grade, 64)
	if err != nil {
		return false
	}
	return value >= 0 && value <= 100
}

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates business rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	err := bv.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateSectionCreate validates section creation business rules
func (bv *BusinessValidator) ValidateSectionCreate(req *SectionCreateRequest) ValidationErrors {
	var errors ValidationErrors

	// Basic struct validation
	errors = append(errors, bv.Validate(req)...)

	return errors
}

// ValidateSectionUpdate validates section update business rules
func (bv *BusinessValidator) ValidateSectionUpdate(req *SectionUpdateRequest, existing *models.CourseSection) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	// Capacity may not shrink below the seats already taken
	if req.MaxCapacity != nil && *req.MaxCapacity < existing.EnrolledCount {
		errors = append(errors, ValidationError{
			Field:   "max_capacity",
			Message: fmt.Sprintf("cannot be lower than current enrollment (%d)", existing.EnrolledCount),
			Value:   *req.MaxCapacity,
			Rule:    "business_logic",
		})
	}

	return errors
}

// ValidateGrade validates a grade value against the closed vocabulary
func (bv *BusinessValidator) ValidateGrade(grade string) ValidationErrors {
	if IsValidGrade(grade) {
		return nil
	}

	return ValidationErrors{{
		Field:   "grade",
		Message: "must be a letter grade (A through F, INC, P, NP, W) or a number between 0 and 100",
		Value:   grade,
		Rule:    "grade_value",
	}}
}

// ValidateAnnouncementCreate validates announcement creation business rules
func (bv *BusinessValidator) ValidateAnnouncementCreate(req *AnnouncementCreateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	if req.TargetAudience != "" {
		if _, err := models.ParseTargetAudience(req.TargetAudience); err != nil {
			errors = append(errors, ValidationError{
				Field:   "target_audience",
				Message: "must be all, faculty, student, or course:<id>, section:<id>, program:<id>",
				Value:   req.TargetAudience,
				Rule:    "audience_format",
			})
		}
	}

	return errors
}

// ValidateTermDates validates that a term's date range is coherent
func (bv *BusinessValidator) ValidateTermDates(startDate, endDate time.Time) ValidationErrors {
	var errors ValidationErrors

	if !endDate.After(startDate) {
		errors = append(errors, ValidationError{
			Field:   "end_date",
			Message: "must be after start date",
			Value:   endDate,
			Rule:    "business_logic",
		})
	}

	return errors
}

// registerBusinessRules registers custom business rule validators
func (bv *BusinessValidator) registerBusinessRules() {
	// Grade vocabulary validation
	bv.validate.RegisterValidation("grade_value", func(fl validator.FieldLevel) bool {
		return IsValidGrade(fl.Field().String())
	})

	// Section capacity validation (1-500 seats)
	bv.validate.RegisterValidation("section_capacity", func(fl validator.FieldLevel) bool {
		capacity := fl.Field().Int()
		return capacity >= 1 && capacity <= 500
	})

	// Year level validation (1-8)
	bv.validate.RegisterValidation("year_level", func(fl validator.FieldLevel) bool {
		level := fl.Field().Int()
		return level >= 1 && level <= 8
	})

	// Target audience format validation
	bv.validate.RegisterValidation("audience_format", func(fl validator.FieldLevel) bool {
		_, err := models.ParseTargetAudience(fl.Field().String())
		return err == nil
	})

	// Role validation
	bv.validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		return models.UserRole(fl.Field().String()).IsValid()
	})

	// Student number validation (digits and dashes, 5-30 characters)
	bv.validate.RegisterValidation("student_number", func(fl validator.FieldLevel) bool {
		number := strings.TrimSpace(fl.Field().String())
		if len(number) < 5 || len(number) > 30 {
			return false
		}
		for _, r := range number {
			if (r < '0' || r > '9') && r != '-' {
				return false
			}
		}
		return true
	})
}
