package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/models"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/repositories"
)

// mockRepository implements repositories.Repository over in-memory stubs.
// Tests only populate the sub-repositories they exercise; the rest stay nil.
type mockRepository struct {
	user         repositories.UserRepository
	profile      repositories.ProfileRepository
	student      repositories.StudentRepository
	faculty      repositories.FacultyRepository
	program      repositories.DegreeProgramRepository
	course       repositories.CourseRepository
	term         repositories.AcademicTermRepository
	section      repositories.SectionRepository
	enrollment   repositories.EnrollmentRepository
	announcement repositories.AnnouncementRepository
	calendar     repositories.CalendarEventRepository
	dashboard    repositories.DashboardRepository
}

func (m *mockRepository) User() repositories.UserRepository                 { return m.user }
func (m *mockRepository) Profile() repositories.ProfileRepository           { return m.profile }
func (m *mockRepository) Student() repositories.StudentRepository           { return m.student }
func (m *mockRepository) Faculty() repositories.FacultyRepository           { return m.faculty }
func (m *mockRepository) Program() repositories.DegreeProgramRepository     { return m.program }
func (m *mockRepository) Course() repositories.CourseRepository             { return m.course }
func (m *mockRepository) Term() repositories.AcademicTermRepository         { return m.term }
func (m *mockRepository) Section() repositories.SectionRepository           { return m.section }
func (m *mockRepository) Enrollment() repositories.EnrollmentRepository     { return m.enrollment }
func (m *mockRepository) Announcement() repositories.AnnouncementRepository { return m.announcement }
func (m *mockRepository) Calendar() repositories.CalendarEventRepository    { return m.calendar }
func (m *mockRepository) Dashboard() repositories.DashboardRepository       { return m.dashboard }

func (m *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}
func (m *mockRepository) Ping(ctx context.Context) error { return nil }
func (m *mockRepository) Close() error                   { return nil }

// ===== SECTION STUB =====

// stubSectionRepository keeps sections in memory with seat accounting matching
// the guarded UPDATE semantics.
type stubSectionRepository struct {
	repositories.SectionRepository
	sections map[uint]*models.CourseSection
}

func newStubSectionRepository(sections ...*models.CourseSection) *stubSectionRepository {
	s := &stubSectionRepository{sections: make(map[uint]*models.CourseSection)}
	for _, section := range sections {
		s.sections[section.ID] = section
	}
	return s
}

func (s *stubSectionRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.CourseSection, error) {
	section, ok := s.sections[id]
	if !ok {
		return nil, fmt.Errorf("get section: %w", repositories.ErrNotFound)
	}
	copied := *section
	return &copied, nil
}

func (s *stubSectionRepository) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.CourseSection, error) {
	return s.GetByID(ctx, tx, id)
}

func (s *stubSectionRepository) ReserveSeat(ctx context.Context, tx *gorm.DB, sectionID uint) (bool, error) {
	section, ok := s.sections[sectionID]
	if !ok {
		return false, fmt.Errorf("reserve seat: %w", repositories.ErrNotFound)
	}
	if section.EnrolledCount >= section.MaxCapacity {
		return false, nil
	}
	section.EnrolledCount++
	return true, nil
}

func (s *stubSectionRepository) ReleaseSeat(ctx context.Context, tx *gorm.DB, sectionID uint) error {
	section, ok := s.sections[sectionID]
	if !ok {
		return fmt.Errorf("release seat: %w", repositories.ErrNotFound)
	}
	if section.EnrolledCount > 0 {
		section.EnrolledCount--
	}
	return nil
}

// ===== STUDENT STUB =====

type stubStudentRepository struct {
	repositories.StudentRepository
	students map[uint]*models.Student
}

func newStubStudentRepository(students ...*models.Student) *stubStudentRepository {
	s := &stubStudentRepository{students: make(map[uint]*models.Student)}
	for _, student := range students {
		s.students[student.ID] = student
	}
	return s
}

func (s *stubStudentRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Student, error) {
	student, ok := s.students[id]
	if !ok {
		return nil, fmt.Errorf("get student: %w", repositories.ErrNotFound)
	}
	return student, nil
}

func (s *stubStudentRepository) GetByUserID(ctx context.Context, tx *gorm.DB, userID string) (*models.Student, error) {
	for _, student := range s.students {
		if student.UserID == userID {
			return student, nil
		}
	}
	return nil, fmt.Errorf("get student by user: %w", repositories.ErrNotFound)
}

func (s *stubStudentRepository) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.Student, error) {
	for _, student := range s.students {
		if student.User.Email == email {
			return student, nil
		}
	}
	return nil, fmt.Errorf("get student by email: %w", repositories.ErrNotFound)
}

func (s *stubStudentRepository) GetByStudentNumber(ctx context.Context, tx *gorm.DB, number string) (*models.Student, error) {
	for _, student := range s.students {
		if student.StudentNumber == number {
			return student, nil
		}
	}
	return nil, fmt.Errorf("get student by number: %w", repositories.ErrNotFound)
}

// ===== ENROLLMENT STUB =====

type stubEnrollmentRepository struct {
	repositories.EnrollmentRepository
	enrollments []*models.Enrollment
	students    *stubStudentRepository
	nextID      uint
}

func newStubEnrollmentRepository(students *stubStudentRepository, enrollments ...*models.Enrollment) *stubEnrollmentRepository {
	s := &stubEnrollmentRepository{students: students, nextID: 1}
	for _, enrollment := range enrollments {
		if enrollment.ID >= s.nextID {
			s.nextID = enrollment.ID + 1
		}
		s.enrollments = append(s.enrollments, enrollment)
	}
	return s
}

func (s *stubEnrollmentRepository) Create(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error {
	for _, existing := range s.enrollments {
		if existing.StudentID == enrollment.StudentID && existing.SectionID == enrollment.SectionID &&
			existing.Status != models.EnrollmentDropped {
			return fmt.Errorf("create enrollment: %w", repositories.ErrAlreadyExists)
		}
	}
	enrollment.ID = s.nextID
	s.nextID++
	if enrollment.CreatedAt.IsZero() {
		enrollment.CreatedAt = time.Now()
	}
	s.enrollments = append(s.enrollments, enrollment)
	return nil
}

func (s *stubEnrollmentRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Enrollment, error) {
	for _, enrollment := range s.enrollments {
		if enrollment.ID == id {
			return enrollment, nil
		}
	}
	return nil, fmt.Errorf("get enrollment: %w", repositories.ErrNotFound)
}

func (s *stubEnrollmentRepository) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Enrollment, error) {
	enrollment, err := s.GetByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if s.students != nil {
		if student, ok := s.students.students[enrollment.StudentID]; ok {
			enrollment.Student = *student
		}
	}
	return enrollment, nil
}

func (s *stubEnrollmentRepository) Update(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error {
	for i, existing := range s.enrollments {
		if existing.ID == enrollment.ID {
			s.enrollments[i] = enrollment
			return nil
		}
	}
	return fmt.Errorf("update enrollment: %w", repositories.ErrNotFound)
}

func (s *stubEnrollmentRepository) SetGrade(ctx context.Context, tx *gorm.DB, enrollmentID uint, grade *string) error {
	for _, enrollment := range s.enrollments {
		if enrollment.ID == enrollmentID {
			enrollment.Grade = grade
			return nil
		}
	}
	return fmt.Errorf("set grade: %w", repositories.ErrNotFound)
}

func (s *stubEnrollmentRepository) GetRoster(ctx context.Context, tx *gorm.DB, sectionID uint) ([]*models.Enrollment, error) {
	var roster []*models.Enrollment
	for _, enrollment := range s.enrollments {
		if enrollment.SectionID != sectionID {
			continue
		}
		if s.students != nil {
			if student, ok := s.students.students[enrollment.StudentID]; ok {
				enrollment.Student = *student
			}
		}
		roster = append(roster, enrollment)
	}
	sort.Slice(roster, func(i, j int) bool {
		return roster[i].CreatedAt.Before(roster[j].CreatedAt)
	})
	return roster, nil
}

func (s *stubEnrollmentRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	for i, enrollment := range s.enrollments {
		if enrollment.ID == id {
			s.enrollments = append(s.enrollments[:i], s.enrollments[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("delete enrollment: %w", repositories.ErrNotFound)
}

func (s *stubEnrollmentRepository) ExistsByStudentAndSection(ctx context.Context, tx *gorm.DB, studentID, sectionID uint) (bool, error) {
	for _, enrollment := range s.enrollments {
		if enrollment.StudentID == studentID && enrollment.SectionID == sectionID &&
			enrollment.Status != models.EnrollmentDropped {
			return true, nil
		}
	}
	return false, nil
}

// ===== FACULTY AND USER STUBS =====

type stubFacultyRepository struct {
	repositories.FacultyRepository
	faculty []*models.Faculty
}

func (s *stubFacultyRepository) List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*models.Faculty, int64, error) {
	return s.faculty, int64(len(s.faculty)), nil
}

func (s *stubFacultyRepository) GetByUserID(ctx context.Context, tx *gorm.DB, userID string) (*models.Faculty, error) {
	for _, faculty := range s.faculty {
		if faculty.UserID == userID {
			return faculty, nil
		}
	}
	return nil, fmt.Errorf("get faculty: %w", repositories.ErrNotFound)
}

type stubUserRepository struct {
	repositories.UserRepository
	users []*models.User
}

func (s *stubUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	for _, user := range s.users {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("get user: %w", repositories.ErrNotFound)
}

func (s *stubUserRepository) GetByRole(ctx context.Context, role models.UserRole, filters repositories.UserFilters) ([]*models.User, int64, error) {
	var matched []*models.User
	for _, user := range s.users {
		if user.Role == role {
			matched = append(matched, user)
		}
	}
	return matched, int64(len(matched)), nil
}

// ===== PROFILE STUB =====

// stubProfileRepository keeps local profile rows in memory, keyed by the
// identity id, with insert-if-absent upsert semantics.
type stubProfileRepository struct {
	profiles map[string]*models.User
}

func newStubProfileRepository(users ...*models.User) *stubProfileRepository {
	s := &stubProfileRepository{profiles: make(map[string]*models.User)}
	for _, user := range users {
		s.profiles[user.ID] = user
	}
	return s
}

func (s *stubProfileRepository) Get(ctx context.Context, tx *gorm.DB, userID string) (*models.User, error) {
	user, ok := s.profiles[userID]
	if !ok {
		return nil, fmt.Errorf("get profile: %w", repositories.ErrNotFound)
	}
	copied := *user
	return &copied, nil
}

func (s *stubProfileRepository) Upsert(ctx context.Context, tx *gorm.DB, user *models.User) error {
	if _, ok := s.profiles[user.ID]; ok {
		return nil
	}
	copied := *user
	s.profiles[user.ID] = &copied
	return nil
}

func (s *stubProfileRepository) Save(ctx context.Context, tx *gorm.DB, user *models.User) error {
	if _, ok := s.profiles[user.ID]; !ok {
		return fmt.Errorf("save profile: %w", repositories.ErrNotFound)
	}
	copied := *user
	s.profiles[user.ID] = &copied
	return nil
}
