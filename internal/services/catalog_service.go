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

type catalogService struct {
	repo         repositories.Repository
	db           *gorm.DB
	logger       *slog.Logger
	validator    *validator.Validator
	eventService NotificationEventService
}

func NewCatalogService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, eventService NotificationEventService) CatalogService {
	return &catalogService{
		repo:         repo,
		db:           db,
		logger:       logger,
		validator:    validator,
		eventService: eventService,
	}
}

// ===== DEGREE PROGRAMS =====

func (s *catalogService) CreateProgram(ctx context.Context, req *CreateProgramRequest, actorID string) (*models.DegreeProgram, error) {
	s.logger.Info("Creating program", "code", req.Code, "actor_id", actorID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	taken, err := s.repo.Program().ExistsByCode(ctx, s.db, req.Code, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check program code: %w", err)
	}
	if taken {
		return nil, ErrProgramCodeTaken
	}

	program := &models.DegreeProgram{
		Name:         req.Name,
		Code:         req.Code,
		Department:   req.Department,
		Coordinator:  req.Coordinator,
		TotalCredits: req.TotalCredits,
		IsActive:     true,
	}

	if err := s.repo.Program().Create(ctx, s.db, program); err != nil {
		return nil, fmt.Errorf("failed to create program: %w", err)
	}

	s.publishChange(ctx, "program", "INSERT", program.ID, program)
	return program, nil
}

func (s *catalogService) GetProgram(ctx context.Context, id uint) (*models.DegreeProgram, error) {
	program, err := s.repo.Program().GetByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProgramNotFound
		}
		return nil, fmt.Errorf("failed to get program: %w", err)
	}
	return program, nil
}

func (s *catalogService) UpdateProgram(ctx context.Context, id uint, req *UpdateProgramRequest, actorID string) (*models.DegreeProgram, error) {
	s.logger.Info("Updating program", "program_id", id, "actor_id", actorID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	program, err := s.GetProgram(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		program.Name = *req.Name
	}
	if req.Department != nil {
		program.Department = *req.Department
	}
	if req.Coordinator != nil {
		program.Coordinator = *req.Coordinator
	}
	if req.TotalCredits != nil {
		program.TotalCredits = *req.TotalCredits
	}
	if req.IsActive != nil {
		program.IsActive = *req.IsActive
	}

	if err := s.repo.Program().Update(ctx, s.db, program); err != nil {
		return nil, fmt.Errorf("failed to update program: %w", err)
	}

	s.publishChange(ctx, "program", "UPDATE", program.ID, program)
	return program, nil
}

func (s *catalogService) DeleteProgram(ctx context.Context, id uint, actorID string) error {
	s.logger.Info("Deleting program", "program_id", id, "actor_id", actorID)

	if _, err := s.GetProgram(ctx, id); err != nil {
		return err
	}

	count, err := s.repo.Program().CountStudents(ctx, s.db, id)
	if err != nil {
		return fmt.Errorf("failed to count program students: %w", err)
	}
	if count > 0 {
		return ErrProgramHasStudents
	}

	if err := s.repo.Program().Delete(ctx, s.db, id); err != nil {
		return fmt.Errorf("failed to delete program: %w", err)
	}

	s.publishChange(ctx, "program", "DELETE", id, nil)
	return nil
}

func (s *catalogService) ListPrograms(ctx context.Context, activeOnly bool) ([]*models.DegreeProgram, error) {
	programs, err := s.repo.Program().List(ctx, s.db, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}
	return programs, nil
}

// ===== COURSES =====

func (s *catalogService) CreateCourse(ctx context.Context, req *CreateCourseRequest, actorID string) (*models.Course, error) {
	s.logger.Info("Creating course", "code", req.Code, "actor_id", actorID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	taken, err := s.repo.Course().ExistsByCode(ctx, s.db, req.Code, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check course code: %w", err)
	}
	if taken {
		return nil, ErrCourseCodeTaken
	}

	course := &models.Course{
		Name:       req.Name,
		Code:       req.Code,
		Department: req.Department,
		Credits:    req.Credits,
		IsActive:   true,
	}

	if err := s.repo.Course().Create(ctx, s.db, course); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	s.publishChange(ctx, "course", "INSERT", course.ID, course)
	return course, nil
}

func (s *catalogService) GetCourse(ctx context.Context, id uint) (*models.Course, error) {
	course, err := s.repo.Course().GetByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return course, nil
}

func (s *catalogService) UpdateCourse(ctx context.Context, id uint, req *UpdateCourseRequest, actorID string) (*models.Course, error) {
	s.logger.Info("Updating course", "course_id", id, "actor_id", actorID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	course, err := s.GetCourse(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		course.Name = *req.Name
	}
	if req.Department != nil {
		course.Department = *req.Department
	}
	if req.Credits != nil {
		course.Credits = *req.Credits
	}
	if req.IsActive != nil {
		course.IsActive = *req.IsActive
	}

	if err := s.repo.Course().Update(ctx, s.db, course); err != nil {
		return nil, fmt.Errorf("failed to update course: %w", err)
	}

	s.publishChange(ctx, "course", "UPDATE", course.ID, course)
	return course, nil
}

func (s *catalogService) DeleteCourse(ctx context.Context, id uint, actorID string) error {
	s.logger.Info("Deleting course", "course_id", id, "actor_id", actorID)

	if _, err := s.GetCourse(ctx, id); err != nil {
		return err
	}

	hasSections, err := s.repo.Course().HasSections(ctx, s.db, id)
	if err != nil {
		return fmt.Errorf("failed to check course sections: %w", err)
	}
	if hasSections {
		return ErrCourseHasSections
	}

	if err := s.repo.Course().Delete(ctx, s.db, id); err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}

	s.publishChange(ctx, "course", "DELETE", id, nil)
	return nil
}

func (s *catalogService) ListCourses(ctx context.Context, filters repositories.CourseFilters) (*CourseListResponse, error) {
	courses, total, err := s.repo.Course().List(ctx, s.db, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	size := filters.Limit
	if size <= 0 {
		size = len(courses)
	}
	page := 1
	if size > 0 {
		page = filters.Offset/size + 1
	}

	return &CourseListResponse{Courses: courses, Total: total, Page: page, Size: size}, nil
}

// ===== ACADEMIC TERMS =====

func (s *catalogService) CreateTerm(ctx context.Context, req *CreateTermRequest, actorID string) (*models.AcademicTerm, error) {
	s.logger.Info("Creating term", "name", req.Name, "school_year", req.SchoolYear, "actor_id", actorID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if errs := s.validator.GetBusinessValidator().ValidateTermDates(req.StartDate, req.EndDate); len(errs) > 0 {
		return nil, errs
	}

	term := &models.AcademicTerm{
		Name:       req.Name,
		SchoolYear: req.SchoolYear,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
	}

	if err := s.repo.Term().Create(ctx, s.db, term); err != nil {
		return nil, fmt.Errorf("failed to create term: %w", err)
	}

	s.publishChange(ctx, "term", "INSERT", term.ID, term)
	return term, nil
}

func (s *catalogService) GetTerm(ctx context.Context, id uint) (*models.AcademicTerm, error) {
	term, err := s.repo.Term().GetByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTermNotFound
		}
		return nil, fmt.Errorf("failed to get term: %w", err)
	}
	return term, nil
}

func (s *catalogService) GetCurrentTerm(ctx context.Context) (*models.AcademicTerm, error) {
	term, err := s.repo.Term().GetCurrent(ctx, s.db)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTermNotFound
		}
		return nil, fmt.Errorf("failed to get current term: %w", err)
	}
	return term, nil
}

func (s *catalogService) SetCurrentTerm(ctx context.Context, id uint, actorID string) error {
	s.logger.Info("Setting current term", "term_id", id, "actor_id", actorID)

	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		return txRepo.Term().SetCurrent(ctx, nil, id)
	})
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrTermNotFound
		}
		return fmt.Errorf("failed to set current term: %w", err)
	}

	s.publishChange(ctx, "term", "UPDATE", id, nil)
	return nil
}

func (s *catalogService) ListTerms(ctx context.Context) ([]*models.AcademicTerm, error) {
	terms, err := s.repo.Term().List(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to list terms: %w", err)
	}
	return terms, nil
}

// ===== COURSE SECTIONS =====

func (s *catalogService) CreateSection(ctx context.Context, req *CreateSectionRequest, actorID string) (*models.CourseSection, error) {
	s.logger.Info("Creating section", "course_id", req.CourseID, "term_id", req.TermID, "actor_id", actorID)

	if errs := s.validator.GetBusinessValidator().ValidateSectionCreate(req); len(errs) > 0 {
		return nil, errs
	}

	if _, err := s.GetCourse(ctx, req.CourseID); err != nil {
		return nil, err
	}
	if _, err := s.GetTerm(ctx, req.TermID); err != nil {
		return nil, err
	}
	if req.FacultyID != nil {
		if _, err := s.repo.Faculty().GetByID(ctx, s.db, *req.FacultyID); err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrFacultyNotFound
			}
			return nil, fmt.Errorf("failed to get faculty: %w", err)
		}
	}

	taken, err := s.repo.Section().ExistsBySectionNumber(ctx, s.db, req.CourseID, req.TermID, req.SectionNumber, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check section number: %w", err)
	}
	if taken {
		return nil, ErrSectionNumberTaken
	}

	section := &models.CourseSection{
		CourseID:      req.CourseID,
		TermID:        req.TermID,
		SectionNumber: req.SectionNumber,
		Room:          req.Room,
		Schedule:      req.Schedule,
		FacultyID:     req.FacultyID,
		MaxCapacity:   req.MaxCapacity,
	}

	if err := s.repo.Section().Create(ctx, s.db, section); err != nil {
		return nil, fmt.Errorf("failed to create section: %w", err)
	}

	s.publishChange(ctx, "section", "INSERT", section.ID, section)
	return s.repo.Section().GetByIDWithDetails(ctx, s.db, section.ID)
}

func (s *catalogService) GetSection(ctx context.Context, id uint) (*models.CourseSection, error) {
	section, err := s.repo.Section().GetByIDWithDetails(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSectionNotFound
		}
		return nil, fmt.Errorf("failed to get section: %w", err)
	}
	return section, nil
}

func (s *catalogService) UpdateSection(ctx context.Context, id uint, req *UpdateSectionRequest, actorID string) (*models.CourseSection, error) {
	s.logger.Info("Updating section", "section_id", id, "actor_id", actorID)

	section, err := s.repo.Section().GetByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSectionNotFound
		}
		return nil, fmt.Errorf("failed to get section: %w", err)
	}

	if errs := s.validator.GetBusinessValidator().ValidateSectionUpdate(req, section); len(errs) > 0 {
		return nil, errs
	}

	if req.SectionNumber != nil && *req.SectionNumber != section.SectionNumber {
		taken, err := s.repo.Section().ExistsBySectionNumber(ctx, s.db, section.CourseID, section.TermID, *req.SectionNumber, &id)
		if err != nil {
			return nil, fmt.Errorf("failed to check section number: %w", err)
		}
		if taken {
			return nil, ErrSectionNumberTaken
		}
		section.SectionNumber = *req.SectionNumber
	}
	if req.Room != nil {
		section.Room = req.Room
	}
	if req.Schedule != nil {
		section.Schedule = req.Schedule
	}
	if req.FacultyID != nil {
		if _, err := s.repo.Faculty().GetByID(ctx, s.db, *req.FacultyID); err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrFacultyNotFound
			}
			return nil, fmt.Errorf("failed to get faculty: %w", err)
		}
		section.FacultyID = req.FacultyID
	}
	if req.MaxCapacity != nil {
		section.MaxCapacity = *req.MaxCapacity
	}

	// Update never touches enrolled_count; only the guarded seat reservation
	// does.
	if err := s.repo.Section().Update(ctx, s.db, section); err != nil {
		return nil, fmt.Errorf("failed to update section: %w", err)
	}

	updated, err := s.repo.Section().GetByIDWithDetails(ctx, s.db, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload section: %w", err)
	}

	if s.eventService != nil {
		if err := s.eventService.PublishSectionUpdated(ctx, updated); err != nil {
			s.logger.Warn("Section change event not published", "error", err)
		}
	}

	return updated, nil
}

func (s *catalogService) DeleteSection(ctx context.Context, id uint, actorID string) error {
	s.logger.Info("Deleting section", "section_id", id, "actor_id", actorID)

	if _, err := s.repo.Section().GetByID(ctx, s.db, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrSectionNotFound
		}
		return fmt.Errorf("failed to get section: %w", err)
	}

	hasEnrollments, err := s.repo.Section().HasEnrollments(ctx, s.db, id)
	if err != nil {
		return fmt.Errorf("failed to check section enrollments: %w", err)
	}
	if hasEnrollments {
		return ErrSectionHasStudents
	}

	if err := s.repo.Section().Delete(ctx, s.db, id); err != nil {
		return fmt.Errorf("failed to delete section: %w", err)
	}

	s.publishChange(ctx, "section", "DELETE", id, nil)
	return nil
}

func (s *catalogService) ListSections(ctx context.Context, filters repositories.SectionFilters) (*SectionListResponse, error) {
	sections, total, err := s.repo.Section().List(ctx, s.db, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list sections: %w", err)
	}

	size := filters.Limit
	if size <= 0 {
		size = len(sections)
	}
	page := 1
	if size > 0 {
		page = filters.Offset/size + 1
	}

	return &SectionListResponse{Sections: sections, Total: total, Page: page, Size: size}, nil
}

func (s *catalogService) AssignFaculty(ctx context.Context, sectionID uint, facultyID *uint, actorID string) (*models.CourseSection, error) {
	s.logger.Info("Assigning faculty", "section_id", sectionID, "actor_id", actorID)

	if _, err := s.repo.Section().GetByID(ctx, s.db, sectionID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSectionNotFound
		}
		return nil, fmt.Errorf("failed to get section: %w", err)
	}

	if facultyID != nil {
		if _, err := s.repo.Faculty().GetByID(ctx, s.db, *facultyID); err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrFacultyNotFound
			}
			return nil, fmt.Errorf("failed to get faculty: %w", err)
		}
	}

	if err := s.repo.Section().AssignFaculty(ctx, s.db, sectionID, facultyID); err != nil {
		return nil, fmt.Errorf("failed to assign faculty: %w", err)
	}

	updated, err := s.repo.Section().GetByIDWithDetails(ctx, s.db, sectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload section: %w", err)
	}

	if s.eventService != nil {
		if err := s.eventService.PublishSectionUpdated(ctx, updated); err != nil {
			s.logger.Warn("Section change event not published", "error", err)
		}
	}

	return updated, nil
}

func (s *catalogService) publishChange(ctx context.Context, entity, op string, id uint, record interface{}) {
	if s.eventService == nil {
		return
	}
	if err := s.eventService.PublishEntityChange(ctx, entity, op, id, record); err != nil {
		s.logger.Warn("Entity change event not published", "error", err, "entity", entity)
	}
}
