package repositories

import "context"

// Repository aggregates every per-entity repository behind one interface.
type Repository interface {
	// Identity domain (backed by Casdoor, read-mostly)
	User() UserRepository

	// Local profile rows mirroring identity users
	Profile() ProfileRepository

	// People domain
	Student() StudentRepository
	Faculty() FacultyRepository

	// Catalog domain
	Program() DegreeProgramRepository
	Course() CourseRepository
	Term() AcademicTermRepository
	Section() SectionRepository

	// Enrollment domain
	Enrollment() EnrollmentRepository

	// Communication domain
	Announcement() AnnouncementRepository
	Calendar() CalendarEventRepository

	// Dashboard domain
	Dashboard() DashboardRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	// Initialize repositories with database connections
	Initialize() error

	// Get repository instance
	GetRepository() Repository

	// Health check for all repositories
	HealthCheck(ctx context.Context) error

	// Graceful shutdown
	Shutdown(ctx context.Context) error
}
