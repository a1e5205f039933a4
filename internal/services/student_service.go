package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/models"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/repositories"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/validator"
)

type studentService struct {
	repo         repositories.Repository
	db           *gorm.DB
	logger       *slog.Logger
	validator    *validator.Validator
	eventService NotificationEventService
}

func NewStudentService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, eventService NotificationEventService) StudentService {
	return &studentService{
		repo:         repo,
		db:           db,
		logger:       logger,
		validator:    validator,
		eventService: eventService,
	}
}

// ===== CORE CRUD OPERATIONS =====

func (s *studentService) Create(ctx context.Context, req *CreateStudentRequest, actorID string) (*models.Student, error) {
	s.logger.Info("Creating student record", "user_id", req.UserID, "actor_id", actorID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	// One student record per user, one per student number
	exists, err := s.repo.Student().ExistsByUserID(ctx, s.db, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check student record: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("student record already exists for user %s: %w", req.UserID, repositories.ErrAlreadyExists)
	}

	exists, err = s.repo.Student().ExistsByStudentNumber(ctx, s.db, req.StudentNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to check student number: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("student number %s already in use: %w", req.StudentNumber, repositories.ErrAlreadyExists)
	}

	if req.ProgramID != nil {
		if _, err := s.repo.Program().GetByID(ctx, s.db, *req.ProgramID); err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrProgramNotFound
			}
			return nil, fmt.Errorf("failed to get program: %w", err)
		}
	}

	enrollmentDate := req.EnrollmentDate
	if enrollmentDate == nil {
		now := time.Now()
		enrollmentDate = &now
	}

	student := &models.Student{
		UserID:                req.UserID,
		StudentNumber:         req.StudentNumber,
		ProgramID:             req.ProgramID,
		YearLevel:             req.YearLevel,
		EmergencyContactName:  req.EmergencyContactName,
		EmergencyContactPhone: req.EmergencyContactPhone,
		EnrollmentDate:        enrollmentDate,
	}

	if err := s.repo.Student().Create(ctx, s.db, student); err != nil {
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	s.logger.Info("Student created", "student_id", student.ID, "student_number", student.StudentNumber)

	if s.eventService != nil {
		if err := s.eventService.PublishEntityChange(ctx, "student", "INSERT", student.ID, student); err != nil {
			s.logger.Warn("Student change event not published", "error", err)
		}
	}

	return s.repo.Student().GetByIDWithDetails(ctx, s.db, student.ID)
}

func (s *studentService) GetByID(ctx context.Context, id uint) (*models.Student, error) {
	student, err := s.repo.Student().GetByIDWithDetails(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return student, nil
}

func (s *studentService) GetByUserID(ctx context.Context, userID string) (*models.Student, error) {
	student, err := s.repo.Student().GetByUserID(ctx, s.db, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return student, nil
}

func (s *studentService) Update(ctx context.Context, id uint, req *UpdateStudentRequest, actorID string) (*models.Student, error) {
	s.logger.Info("Updating student record", "student_id", id, "actor_id", actorID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	student, err := s.repo.Student().GetByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	if req.ProgramID != nil {
		if _, err := s.repo.Program().GetByID(ctx, s.db, *req.ProgramID); err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrProgramNotFound
			}
			return nil, fmt.Errorf("failed to get program: %w", err)
		}
		student.ProgramID = req.ProgramID
	}
	if req.YearLevel != nil {
		student.YearLevel = *req.YearLevel
	}
	if req.GPA != nil {
		student.GPA = *req.GPA
	}
	if req.CreditsEarned != nil {
		student.CreditsEarned = *req.CreditsEarned
	}
	if req.EmergencyContactName != nil {
		student.EmergencyContactName = req.EmergencyContactName
	}
	if req.EmergencyContactPhone != nil {
		student.EmergencyContactPhone = req.EmergencyContactPhone
	}
	if req.ExpectedGraduationDate != nil {
		student.ExpectedGraduationDate = req.ExpectedGraduationDate
	}

	if err := s.repo.Student().Update(ctx, s.db, student); err != nil {
		return nil, fmt.Errorf("failed to update student: %w", err)
	}

	if s.eventService != nil {
		if err := s.eventService.PublishEntityChange(ctx, "student", "UPDATE", student.ID, student); err != nil {
			s.logger.Warn("Student change event not published", "error", err)
		}
	}

	return s.repo.Student().GetByIDWithDetails(ctx, s.db, id)
}

func (s *studentService) Delete(ctx context.Context, id uint, actorID string) error {
	s.logger.Info("Deleting student record", "student_id", id, "actor_id", actorID)

	if _, err := s.repo.Student().GetByID(ctx, s.db, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrStudentNotFound
		}
		return fmt.Errorf("failed to get student: %w", err)
	}

	if err := s.repo.Student().Delete(ctx, s.db, id); err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}

	if s.eventService != nil {
		if err := s.eventService.PublishEntityChange(ctx, "student", "DELETE", id, nil); err != nil {
			s.logger.Warn("Student change event not published", "error", err)
		}
	}

	return nil
}

// ===== LIST AND SEARCH OPERATIONS =====

func (s *studentService) List(ctx context.Context, filters repositories.StudentFilters) (*StudentListResponse, error) {
	students, total, err := s.repo.Student().List(ctx, s.db, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return buildStudentListResponse(students, total, filters), nil
}

func (s *studentService) Search(ctx context.Context, query string, filters repositories.StudentFilters) (*StudentListResponse, error) {
	students, total, err := s.repo.Student().Search(ctx, s.db, query, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to search students: %w", err)
	}
	return buildStudentListResponse(students, total, filters), nil
}

func (s *studentService) GetByProgram(ctx context.Context, programID uint, filters repositories.StudentFilters) (*StudentListResponse, error) {
	if _, err := s.repo.Program().GetByID(ctx, s.db, programID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProgramNotFound
		}
		return nil, fmt.Errorf("failed to get program: %w", err)
	}

	students, total, err := s.repo.Student().GetByProgram(ctx, s.db, programID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get students by program: %w", err)
	}
	return buildStudentListResponse(students, total, filters), nil
}

func buildStudentListResponse(students []*models.Student, total int64, filters repositories.StudentFilters) *StudentListResponse {
	size := filters.Limit
	if size <= 0 {
		size = len(students)
	}
	page := 1
	if size > 0 {
		page = filters.Offset/size + 1
	}
	return &StudentListResponse{
		Students: students,
		Total:    total,
		Page:     page,
		Size:     size,
	}
}
