package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/cache"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/repositories"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/repositories/casdoor"
)

// PostgreSQLRepository implements the main Repository interface
type PostgreSQLRepository struct {
	db           *gorm.DB
	redisClient  *redis.Client
	cacheManager *cache.CacheManager

	// Repository instances
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

// RepositoryConfig holds configuration for repository initialization
type RepositoryConfig struct {
	DB            *gorm.DB
	RedisClient   *redis.Client
	CasdoorConfig casdoor.CasdoorConfig
}

// NewPostgreSQLRepository creates a new repository manager with all sub-repositories
func NewPostgreSQLRepository(config RepositoryConfig) repositories.Repository {
	cacheManager := cache.NewCacheManager(config.RedisClient)

	repo := &PostgreSQLRepository{
		db:           config.DB,
		redisClient:  config.RedisClient,
		cacheManager: cacheManager,
	}

	// Initialize sub-repositories with caching
	repo.student = NewStudentPostgreSQL(config.DB, cacheManager)
	repo.faculty = NewFacultyPostgreSQL(config.DB)
	repo.program = NewProgramPostgreSQL(config.DB)
	repo.course = NewCoursePostgreSQL(config.DB)
	repo.term = NewTermPostgreSQL(config.DB, cacheManager)
	repo.section = NewSectionPostgreSQL(config.DB, cacheManager)
	repo.enrollment = NewEnrollmentPostgreSQL(config.DB, cacheManager)
	repo.announcement = NewAnnouncementPostgreSQL(config.DB)
	repo.calendar = NewCalendarPostgreSQL(config.DB)

	// User repository uses Casdoor; the local profile mirror stays in Postgres
	repo.user = casdoor.NewUserCasdoor(config.CasdoorConfig, config.RedisClient)
	repo.profile = NewProfilePostgreSQL(config.DB)

	// Dashboard repository
	repo.dashboard = NewDashboardRepository(config.DB, cacheManager)

	return repo
}

// User returns the user repository
func (r *PostgreSQLRepository) User() repositories.UserRepository {
	return r.user
}

// Profile returns the local profile repository
func (r *PostgreSQLRepository) Profile() repositories.ProfileRepository {
	return r.profile
}

// Student returns the student repository
func (r *PostgreSQLRepository) Student() repositories.StudentRepository {
	return r.student
}

// Faculty returns the faculty repository
func (r *PostgreSQLRepository) Faculty() repositories.FacultyRepository {
	return r.faculty
}

// Program returns the degree program repository
func (r *PostgreSQLRepository) Program() repositories.DegreeProgramRepository {
	return r.program
}

// Course returns the course repository
func (r *PostgreSQLRepository) Course() repositories.CourseRepository {
	return r.course
}

// Term returns the academic term repository
func (r *PostgreSQLRepository) Term() repositories.AcademicTermRepository {
	return r.term
}

// Section returns the course section repository
func (r *PostgreSQLRepository) Section() repositories.SectionRepository {
	return r.section
}

// Enrollment returns the enrollment repository
func (r *PostgreSQLRepository) Enrollment() repositories.EnrollmentRepository {
	return r.enrollment
}

// Announcement returns the announcement repository
func (r *PostgreSQLRepository) Announcement() repositories.AnnouncementRepository {
	return r.announcement
}

// Calendar returns the calendar event repository
func (r *PostgreSQLRepository) Calendar() repositories.CalendarEventRepository {
	return r.calendar
}

// Dashboard returns the dashboard repository
func (r *PostgreSQLRepository) Dashboard() repositories.DashboardRepository {
	return r.dashboard
}

// WithTransaction executes a function within a database transaction. Cache
// invalidations raised inside the transaction are held back and applied only
// after the commit, so concurrent readers cannot refill the cache from
// pre-commit state.
func (r *PostgreSQLRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	pending := &cacheInvalidations{}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Create a new repository instance with the transaction
		txRepo := &PostgreSQLRepository{
			db:           tx,
			redisClient:  r.redisClient,
			cacheManager: r.cacheManager,
		}

		// Initialize sub-repositories with the transaction; the caching ones
		// share the post-commit invalidation queue
		txRepo.student = &studentRepository{db: tx, cache: r.cacheManager, helpers: NewSharedHelpers(tx), pending: pending}
		txRepo.faculty = NewFacultyPostgreSQL(tx)
		txRepo.program = NewProgramPostgreSQL(tx)
		txRepo.course = NewCoursePostgreSQL(tx)
		txRepo.term = &termRepository{db: tx, cache: r.cacheManager, pending: pending}
		txRepo.section = &sectionRepository{db: tx, cache: r.cacheManager, pending: pending}
		txRepo.enrollment = &enrollmentRepository{db: tx, cache: r.cacheManager, helpers: NewSharedHelpers(tx), pending: pending}
		txRepo.announcement = NewAnnouncementPostgreSQL(tx)
		txRepo.calendar = NewCalendarPostgreSQL(tx)

		// User repository doesn't need transaction (it's external)
		txRepo.user = r.user
		txRepo.profile = NewProfilePostgreSQL(tx)

		// Dashboard repository with transaction
		txRepo.dashboard = &dashboardRepository{db: tx, cache: r.cacheManager, pending: pending}

		return fn(txRepo)
	})
	if err != nil {
		return err
	}

	pending.flush(ctx)
	return nil
}

// Ping checks the health of database and cache connections
func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	// Check database connection
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	// Check cache connection
	if r.redisClient != nil {
		if err := r.cacheManager.HealthCheck(ctx); err != nil {
			return fmt.Errorf("cache ping failed: %w", err)
		}
	}

	return nil
}

// Close closes all connections
func (r *PostgreSQLRepository) Close() error {
	// Close database connection
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	// Close Redis connection
	if r.redisClient != nil {
		if err := r.redisClient.Close(); err != nil {
			return fmt.Errorf("failed to close Redis: %w", err)
		}
	}

	return nil
}

// RepositoryManager implements the RepositoryManager interface
type RepositoryManager struct {
	config RepositoryConfig
	repo   repositories.Repository
}

// NewRepositoryManager creates a new repository manager
func NewRepositoryManager(config RepositoryConfig) repositories.RepositoryManager {
	return &RepositoryManager{
		config: config,
	}
}

// Initialize initializes all repositories and connections
func (rm *RepositoryManager) Initialize() error {
	// Validate configuration
	if rm.config.DB == nil {
		return fmt.Errorf("database connection is required")
	}

	// Test database connection
	sqlDB, err := rm.config.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}

	// Test Redis connection if provided
	if rm.config.RedisClient != nil {
		if _, err := rm.config.RedisClient.Ping(ctx).Result(); err != nil {
			return fmt.Errorf("Redis connection failed: %w", err)
		}
	}

	// Initialize repository
	rm.repo = NewPostgreSQLRepository(rm.config)

	return nil
}

// GetRepository returns the repository instance
func (rm *RepositoryManager) GetRepository() repositories.Repository {
	return rm.repo
}

// HealthCheck checks the health of all repository connections
func (rm *RepositoryManager) HealthCheck(ctx context.Context) error {
	if rm.repo == nil {
		return fmt.Errorf("repository not initialized")
	}

	return rm.repo.Ping(ctx)
}

// Shutdown gracefully shuts down all repository connections
func (rm *RepositoryManager) Shutdown(ctx context.Context) error {
	if rm.repo == nil {
		return nil
	}

	return rm.repo.Close()
}
