package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/models"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/repositories"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/validator"
)

// rosterExportColumns is the fixed export header, shared by CSV and XLSX.
var rosterExportColumns = []string{
	"Enrollment ID", "Student ID", "Student Number",
	"First Name", "Last Name", "Email", "Status", "Grade",
}

type rosterService struct {
	repo              repositories.Repository
	db                *gorm.DB
	logger            *slog.Logger
	validator         *validator.Validator
	enrollmentService EnrollmentService
	eventService      NotificationEventService
}

func NewRosterService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, enrollmentService EnrollmentService, eventService NotificationEventService) RosterService {
	return &rosterService{
		repo:              repo,
		db:                db,
		logger:            logger,
		validator:         validator,
		enrollmentService: enrollmentService,
		eventService:      eventService,
	}
}

// ===== ROSTER FETCH =====

func (s *rosterService) GetRoster(ctx context.Context, sectionID uint) (*RosterResponse, error) {
	if _, err := s.repo.Section().GetByID(ctx, s.db, sectionID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSectionNotFound
		}
		return nil, fmt.Errorf("failed to get section: %w", err)
	}

	enrollments, err := s.repo.Enrollment().GetRoster(ctx, s.db, sectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get roster: %w", err)
	}

	entries := make([]RosterEntry, 0, len(enrollments))
	for _, enrollment := range enrollments {
		entries = append(entries, RosterEntry{
			EnrollmentID:  enrollment.ID,
			StudentID:     enrollment.StudentID,
			StudentNumber: enrollment.Student.StudentNumber,
			FirstName:     enrollment.Student.User.FirstName,
			LastName:      enrollment.Student.User.LastName,
			Email:         enrollment.Student.User.Email,
			Status:        enrollment.Status,
			Grade:         enrollment.Grade,
			EnrolledAt:    enrollment.CreatedAt,
		})
	}

	return &RosterResponse{
		SectionID: sectionID,
		Entries:   entries,
		Total:     len(entries),
	}, nil
}

// ===== ROSTER MUTATIONS =====

func (s *rosterService) AddStudent(ctx context.Context, sectionID uint, req *RosterAddRequest, actorID string) (*RosterResponse, error) {
	s.logger.Info("Adding student to roster", "section_id", sectionID, "actor_id", actorID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	student, err := s.resolveStudent(ctx, req.Identifier)
	if err != nil {
		return nil, err
	}

	if _, err := s.enrollmentService.Enroll(ctx, &EnrollRequest{
		StudentID: student.ID,
		SectionID: sectionID,
	}, actorID); err != nil {
		return nil, err
	}

	return s.GetRoster(ctx, sectionID)
}

// RemoveStudent deletes the enrollment row outright, so the same student can
// be re-added to the section later. A live enrollment also gives its seat
// back. The roster is always refetched afterwards, so the caller renders live
// state whether or not the removal went through cleanly.
func (s *rosterService) RemoveStudent(ctx context.Context, sectionID, enrollmentID uint, actorID string) (*RosterResponse, error) {
	s.logger.Info("Removing student from roster",
		"section_id", sectionID,
		"enrollment_id", enrollmentID,
		"actor_id", actorID)

	enrollment, err := s.repo.Enrollment().GetByID(ctx, s.db, enrollmentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}
	if enrollment.SectionID != sectionID {
		return nil, ErrEnrollmentNotFound
	}

	removeErr := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Enrollment().Delete(ctx, nil, enrollmentID); err != nil {
			return fmt.Errorf("failed to delete enrollment: %w", err)
		}
		if enrollment.Status == models.EnrollmentEnrolled {
			if err := txRepo.Section().ReleaseSeat(ctx, nil, enrollment.SectionID); err != nil {
				return fmt.Errorf("failed to release seat: %w", err)
			}
		}
		return nil
	})

	if removeErr == nil && s.eventService != nil {
		enrollment.Status = models.EnrollmentDropped
		if err := s.eventService.PublishEnrollmentDropped(ctx, enrollment); err != nil {
			s.logger.Warn("Enrollment event not published", "error", err)
		}
	}

	roster, rosterErr := s.GetRoster(ctx, sectionID)
	if removeErr != nil {
		if roster != nil {
			return roster, removeErr
		}
		return nil, removeErr
	}
	return roster, rosterErr
}

func (s *rosterService) SetGrade(ctx context.Context, sectionID, enrollmentID uint, req *SetGradeRequest, actorID string) (*models.Enrollment, error) {
	s.logger.Info("Setting grade",
		"section_id", sectionID,
		"enrollment_id", enrollmentID,
		"actor_id", actorID)

	if errs := s.validator.GetBusinessValidator().ValidateGrade(req.Grade); len(errs) > 0 {
		return nil, errs
	}

	enrollment, err := s.repo.Enrollment().GetByID(ctx, s.db, enrollmentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}
	if enrollment.SectionID != sectionID {
		return nil, ErrEnrollmentNotFound
	}

	grade := strings.TrimSpace(req.Grade)
	if err := s.repo.Enrollment().SetGrade(ctx, s.db, enrollmentID, &grade); err != nil {
		return nil, fmt.Errorf("failed to set grade: %w", err)
	}

	updated, err := s.repo.Enrollment().GetByIDWithDetails(ctx, s.db, enrollmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload enrollment: %w", err)
	}

	if s.eventService != nil {
		if err := s.eventService.PublishEnrollmentGraded(ctx, updated); err != nil {
			s.logger.Warn("Grade event not published", "error", err)
		}
	}

	return updated, nil
}

// resolveStudent maps a roster identifier to a student: email lookup when the
// identifier contains @, student number otherwise. Unknown identifiers come
// back as the roster-facing "Student not found".
func (s *rosterService) resolveStudent(ctx context.Context, identifier string) (*models.Student, error) {
	identifier = strings.TrimSpace(identifier)

	var student *models.Student
	var err error
	if strings.Contains(identifier, "@") {
		student, err = s.repo.Student().GetByEmail(ctx, s.db, identifier)
	} else {
		student, err = s.repo.Student().GetByStudentNumber(ctx, s.db, identifier)
	}
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrRosterStudentNotFound
		}
		return nil, fmt.Errorf("failed to resolve student %q: %w", identifier, err)
	}
	return student, nil
}

// ===== EXPORTS =====

// ExportCSV renders the roster as CSV with a header row. Every field is
// quoted, with embedded quotes doubled, so downstream spreadsheet imports see
// a uniform shape regardless of field content.
func (s *rosterService) ExportCSV(ctx context.Context, sectionID uint) ([]byte, string, error) {
	roster, err := s.GetRoster(ctx, sectionID)
	if err != nil {
		return nil, "", err
	}
	if len(roster.Entries) == 0 {
		return nil, "", ErrEmptyRosterExport
	}

	var buf bytes.Buffer
	writeCSVRow(&buf, rosterExportColumns)
	for _, entry := range roster.Entries {
		writeCSVRow(&buf, rosterRow(entry))
	}

	filename := fmt.Sprintf("roster_section_%d.csv", sectionID)
	s.logger.Info("Roster exported", "section_id", sectionID, "format", "csv", "rows", len(roster.Entries))
	return buf.Bytes(), filename, nil
}

func (s *rosterService) ExportXLSX(ctx context.Context, sectionID uint) ([]byte, string, error) {
	roster, err := s.GetRoster(ctx, sectionID)
	if err != nil {
		return nil, "", err
	}
	if len(roster.Entries) == 0 {
		return nil, "", ErrEmptyRosterExport
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Roster"
	f.SetSheetName(f.GetSheetName(0), sheet)

	for col, header := range rosterExportColumns {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, header)
	}
	for row, entry := range roster.Entries {
		for col, value := range rosterRow(entry) {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to write workbook: %w", err)
	}

	filename := fmt.Sprintf("roster_section_%d.xlsx", sectionID)
	s.logger.Info("Roster exported", "section_id", sectionID, "format", "xlsx", "rows", len(roster.Entries))
	return buf.Bytes(), filename, nil
}

func rosterRow(entry RosterEntry) []string {
	grade := ""
	if entry.Grade != nil {
		grade = *entry.Grade
	}
	return []string{
		fmt.Sprintf("%d", entry.EnrollmentID),
		fmt.Sprintf("%d", entry.StudentID),
		entry.StudentNumber,
		entry.FirstName,
		entry.LastName,
		entry.Email,
		string(entry.Status),
		grade,
	}
}

// writeCSVRow writes one record with every field quoted and embedded quotes
// doubled, terminated by \n. encoding/csv only quotes when it has to, which
// breaks consumers expecting the uniform all-quoted shape.
func writeCSVRow(buf *bytes.Buffer, fields []string) {
	for i, field := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(field, `"`, `""`))
		buf.WriteByte('"')
	}
	buf.WriteByte('\n')
}
