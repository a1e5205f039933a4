package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/models"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/repositories"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/validator"
)

// Eligibility reason strings surfaced verbatim to the client.
const (
	ReasonSectionFull     = "Section is full"
	ReasonAlreadyEnrolled = "Already enrolled in this section"
)

type enrollmentService struct {
	repo         repositories.Repository
	db           *gorm.DB
	logger       *slog.Logger
	validator    *validator.Validator
	eventService NotificationEventService
}

func NewEnrollmentService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, eventService NotificationEventService) EnrollmentService {
	return &enrollmentService{
		repo:         repo,
		db:           db,
		logger:       logger,
		validator:    validator,
		eventService: eventService,
	}
}

// ===== ELIGIBILITY =====

// CheckEligibility runs the capacity check, then the duplicate check, against
// live data. The result is never cached: Enroll calls this again immediately
// before the insert, and the guarded seat reservation plus the unique index
// remain the authoritative arbiters at write time.
func (s *enrollmentService) CheckEligibility(ctx context.Context, studentID, sectionID uint) (*repositories.EnrollmentValidation, error) {
	section, err := s.repo.Section().GetByID(ctx, s.db, sectionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSectionNotFound
		}
		return nil, fmt.Errorf("failed to get section: %w", err)
	}

	if section.IsFull() {
		return &repositories.EnrollmentValidation{Eligible: false, Reason: ReasonSectionFull}, nil
	}

	enrolled, err := s.repo.Enrollment().ExistsByStudentAndSection(ctx, s.db, studentID, sectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing enrollment: %w", err)
	}
	if enrolled {
		return &repositories.EnrollmentValidation{Eligible: false, Reason: ReasonAlreadyEnrolled}, nil
	}

	return &repositories.EnrollmentValidation{Eligible: true}, nil
}

// ===== ENROLLMENT LIFECYCLE =====

func (s *enrollmentService) Enroll(ctx context.Context, req *EnrollRequest, actorID string) (*models.Enrollment, error) {
	s.logger.Info("Enrolling student", "student_id", req.StudentID, "section_id", req.SectionID, "actor_id", actorID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.Student().GetByID(ctx, s.db, req.StudentID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	// Optimistic pre-check so callers get the human-readable reason without
	// burning a write. No insert is attempted when it fails.
	validation, err := s.CheckEligibility(ctx, req.StudentID, req.SectionID)
	if err != nil {
		return nil, err
	}
	if !validation.Eligible {
		return nil, eligibilityError(validation.Reason)
	}

	var enrollment *models.Enrollment
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		// The guarded UPDATE only takes a seat while one is free. A lost
		// race comes back as reserved=false, not as a stale read.
		reserved, err := txRepo.Section().ReserveSeat(ctx, nil, req.SectionID)
		if err != nil {
			return fmt.Errorf("failed to reserve seat: %w", err)
		}
		if !reserved {
			return ErrSectionFull
		}

		enrollment = &models.Enrollment{
			StudentID: req.StudentID,
			SectionID: req.SectionID,
			Status:    models.EnrollmentEnrolled,
		}
		if err := txRepo.Enrollment().Create(ctx, nil, enrollment); err != nil {
			// The unique index on (student_id, section_id) is the arbiter
			// for duplicates; the rollback also returns the seat.
			if repositories.IsConflictError(err) {
				return ErrAlreadyEnrolled
			}
			return fmt.Errorf("failed to create enrollment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Student enrolled", "enrollment_id", enrollment.ID)

	if s.eventService != nil {
		if err := s.eventService.PublishEnrollmentCreated(ctx, enrollment); err != nil {
			s.logger.Warn("Enrollment event not published", "error", err)
		}
	}

	return s.repo.Enrollment().GetByIDWithDetails(ctx, s.db, enrollment.ID)
}

func (s *enrollmentService) Drop(ctx context.Context, enrollmentID uint, actorID string) (*models.Enrollment, error) {
	s.logger.Info("Dropping enrollment", "enrollment_id", enrollmentID, "actor_id", actorID)

	enrollment, err := s.GetByID(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if enrollment.Status != models.EnrollmentEnrolled {
		return nil, ErrEnrollmentClosed
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		enrollment.Status = models.EnrollmentDropped
		if err := txRepo.Enrollment().Update(ctx, nil, enrollment); err != nil {
			return fmt.Errorf("failed to update enrollment: %w", err)
		}
		if err := txRepo.Section().ReleaseSeat(ctx, nil, enrollment.SectionID); err != nil {
			return fmt.Errorf("failed to release seat: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.eventService != nil {
		if err := s.eventService.PublishEnrollmentDropped(ctx, enrollment); err != nil {
			s.logger.Warn("Enrollment event not published", "error", err)
		}
	}

	return s.repo.Enrollment().GetByIDWithDetails(ctx, s.db, enrollmentID)
}

func (s *enrollmentService) Complete(ctx context.Context, enrollmentID uint, actorID string) (*models.Enrollment, error) {
	s.logger.Info("Completing enrollment", "enrollment_id", enrollmentID, "actor_id", actorID)

	enrollment, err := s.GetByID(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if enrollment.Status != models.EnrollmentEnrolled {
		return nil, ErrEnrollmentClosed
	}

	enrollment.Status = models.EnrollmentCompleted
	if err := s.repo.Enrollment().Update(ctx, s.db, enrollment); err != nil {
		return nil, fmt.Errorf("failed to complete enrollment: %w", err)
	}

	if s.eventService != nil {
		if err := s.eventService.PublishEntityChange(ctx, "enrollment", "UPDATE", enrollment.ID, enrollment); err != nil {
			s.logger.Warn("Enrollment event not published", "error", err)
		}
	}

	return s.repo.Enrollment().GetByIDWithDetails(ctx, s.db, enrollmentID)
}

// ===== QUERY OPERATIONS =====

func (s *enrollmentService) GetByID(ctx context.Context, id uint) (*models.Enrollment, error) {
	enrollment, err := s.repo.Enrollment().GetByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}
	return enrollment, nil
}

func (s *enrollmentService) GetByStudent(ctx context.Context, studentID uint, filters repositories.EnrollmentFilters) ([]*models.Enrollment, error) {
	if _, err := s.repo.Student().GetByID(ctx, s.db, studentID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	enrollments, err := s.repo.Enrollment().GetByStudent(ctx, s.db, studentID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get enrollments: %w", err)
	}
	return enrollments, nil
}

func (s *enrollmentService) List(ctx context.Context, filters repositories.EnrollmentFilters) (*EnrollmentListResponse, error) {
	enrollments, total, err := s.repo.Enrollment().List(ctx, s.db, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}

	size := filters.Limit
	if size <= 0 {
		size = len(enrollments)
	}
	page := 1
	if size > 0 {
		page = filters.Offset/size + 1
	}

	return &EnrollmentListResponse{Enrollments: enrollments, Total: total, Page: page, Size: size}, nil
}

// eligibilityError maps a rejection reason to its sentinel error.
func eligibilityError(reason string) error {
	switch reason {
	case ReasonSectionFull:
		return ErrSectionFull
	case ReasonAlreadyEnrolled:
		return ErrAlreadyEnrolled
	default:
		return fmt.Errorf("enrollment rejected: %s", reason)
	}
}
