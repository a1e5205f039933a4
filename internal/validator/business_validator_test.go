package validator

import (
	"testing"
	"time"

	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/models"
)

func TestIsValidGrade(t *testing.T) {
	valid := []string{
		"A", "A-", "B+", "B", "B-", "C+", "C", "C-", "D", "F",
		"INC", "P", "NP", "W",
		"a", "a-", "inc", "w",
		"0", "100", "85.5", " 92 ",
	}
	for _, g := range valid {
		if !IsValidGrade(g) {
			t.Errorf("IsValidGrade(%q) = false, want true", g)
		}
	}

	invalid := []string{"", "ZZ", "A+", "E", "-1", "100.5", "101", "ninety", "B++"}
	for _, g := range invalid {
		if IsValidGrade(g) {
			t.Errorf("IsValidGrade(%q) = true, want false", g)
		}
	}
}

func TestValidateGrade(t *testing.T) {
	bv := NewBusinessValidator()

	if errs := bv.ValidateGrade("A-"); len(errs) != 0 {
		t.Errorf("expected no errors for A-, got %v", errs)
	}

	errs := bv.ValidateGrade("ZZ")
	if len(errs) != 1 {
		t.Fatalf("expected 1 error for ZZ, got %d", len(errs))
	}
	if errs[0].Field != "grade" || errs[0].Rule != "grade_value" {
		t.Errorf("unexpected error detail: %+v", errs[0])
	}
}

func TestValidateSectionUpdate_CapacityBelowEnrollment(t *testing.T) {
	bv := NewBusinessValidator()
	existing := &models.CourseSection{MaxCapacity: 30, EnrolledCount: 12}

	shrink := 10
	errs := bv.ValidateSectionUpdate(&SectionUpdateRequest{MaxCapacity: &shrink}, existing)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
	}
	if errs[0].Field != "max_capacity" {
		t.Errorf("expected max_capacity error, got %+v", errs[0])
	}

	grow := 40
	if errs := bv.ValidateSectionUpdate(&SectionUpdateRequest{MaxCapacity: &grow}, existing); len(errs) != 0 {
		t.Errorf("expected no errors when growing capacity, got %v", errs)
	}
}

func TestValidateAnnouncementCreate_Audience(t *testing.T) {
	bv := NewBusinessValidator()

	ok := &AnnouncementCreateRequest{Title: "Midterm schedule", Content: "Posted.", TargetAudience: "section:4"}
	if errs := bv.ValidateAnnouncementCreate(ok); len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}

	bad := &AnnouncementCreateRequest{Title: "Midterm schedule", Content: "Posted.", TargetAudience: "dorm:4"}
	errs := bv.ValidateAnnouncementCreate(bad)
	if len(errs) == 0 {
		t.Fatal("expected audience error")
	}
	found := false
	for _, e := range errs {
		if e.Field == "target_audience" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected target_audience error, got %v", errs)
	}
}

func TestValidateTermDates(t *testing.T) {
	bv := NewBusinessValidator()
	start := time.Date(2025, 8, 11, 0, 0, 0, 0, time.UTC)

	if errs := bv.ValidateTermDates(start, start.AddDate(0, 4, 0)); len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
	if errs := bv.ValidateTermDates(start, start); len(errs) != 1 {
		t.Errorf("expected end-before-start error, got %v", errs)
	}
}
