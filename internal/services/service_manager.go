package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/events"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/repositories"
	"github.com/CSci-153-Web-Systems-and-Technologies/batch-2025-student-sync-web-sub000/internal/validator"
)

// ServiceManagerConfig holds configuration for the service manager
type ServiceManagerConfig struct {
	// Logging configuration
	EnableDebugLogging bool
	EnableMetrics      bool
	LogLevel           slog.Level

	// Service-specific configurations
	Catalog      ServiceConfig
	Enrollment   ServiceConfig
	Roster       ServiceConfig
	Announcement ServiceConfig

	// Global settings
	DefaultTimeout    time.Duration
	MaxRetries        int
	RateLimitingRules map[string]RateLimit
}

type ServiceConfig struct {
	Enabled         bool
	CacheEnabled    bool
	CacheTTL        time.Duration
	ValidationLevel ValidationLevel
	AuditingEnabled bool
	MetricsEnabled  bool
}

type ValidationLevel int

const (
	ValidationBasic ValidationLevel = iota
	ValidationStrict
	ValidationFull
)

type RateLimit struct {
	RequestsPerMinute int
	BurstSize         int
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	// Dependencies
	db             *gorm.DB
	repo           repositories.Repository
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher
	config         ServiceManagerConfig

	// Service instances
	accountService      AccountService
	studentService      StudentService
	facultyService      FacultyService
	catalogService      CatalogService
	enrollmentService   EnrollmentService
	rosterService       RosterService
	announcementService AnnouncementService
	dashboardService    DashboardService
	eventService        NotificationEventService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies
func NewServiceManager(db *gorm.DB, repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, eventPublisher events.EventPublisher, config ServiceManagerConfig) ServiceManager {
	return &serviceManager{
		db:             db,
		repo:           repo,
		logger:         logger,
		validator:      validator,
		eventPublisher: eventPublisher,
		config:         config,
	}
}

// NewDefaultServiceManager creates a service manager with default configuration
func NewDefaultServiceManager(db *gorm.DB, repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, eventPublisher events.EventPublisher) ServiceManager {
	config := ServiceManagerConfig{
		EnableDebugLogging: false,
		EnableMetrics:      true,
		LogLevel:           slog.LevelInfo,

		Catalog: ServiceConfig{
			Enabled:         true,
			CacheEnabled:    true,
			CacheTTL:        15 * time.Minute,
			ValidationLevel: ValidationStrict,
			AuditingEnabled: true,
			MetricsEnabled:  true,
		},
		Enrollment: ServiceConfig{
			Enabled: true,
			// Eligibility must always see live counts
			CacheEnabled:    false,
			CacheTTL:        0,
			ValidationLevel: ValidationStrict,
			AuditingEnabled: true,
			MetricsEnabled:  true,
		},
		Roster: ServiceConfig{
			Enabled:         true,
			CacheEnabled:    false,
			CacheTTL:        0,
			ValidationLevel: ValidationStrict,
			AuditingEnabled: true,
			MetricsEnabled:  true,
		},
		Announcement: ServiceConfig{
			Enabled:         true,
			CacheEnabled:    true,
			CacheTTL:        5 * time.Minute,
			ValidationLevel: ValidationBasic,
			AuditingEnabled: true,
			MetricsEnabled:  true,
		},

		DefaultTimeout:    30 * time.Second,
		MaxRetries:        3,
		RateLimitingRules: make(map[string]RateLimit),
	}

	return NewServiceManager(db, repo, logger, validator, eventPublisher, config)
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	if err := sm.initializeServices(ctx); err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")

	return nil
}

func (sm *serviceManager) initializeServices(ctx context.Context) error {
	// Event service first; the mutating services publish through it.
	sm.eventService = NewNotificationEventService(sm.repo, sm.eventPublisher, sm.logger, sm.validator)
	sm.logger.Info("Notification event service initialized")

	sm.accountService = NewAccountService(sm.repo, sm.db, sm.logger, sm.validator, sm.eventService)
	sm.logger.Info("Account service initialized")

	sm.studentService = NewStudentService(sm.repo, sm.db, sm.logger, sm.validator, sm.eventService)
	sm.logger.Info("Student service initialized")

	sm.facultyService = NewFacultyService(sm.repo, sm.db, sm.logger, sm.validator)
	sm.logger.Info("Faculty service initialized")

	if sm.config.Catalog.Enabled {
		sm.catalogService = NewCatalogService(sm.repo, sm.db, sm.logger, sm.validator, sm.eventService)
		sm.logger.Info("Catalog service initialized")
	}

	if sm.config.Enrollment.Enabled {
		sm.enrollmentService = NewEnrollmentService(sm.repo, sm.db, sm.logger, sm.validator, sm.eventService)
		sm.logger.Info("Enrollment service initialized")
	}

	if sm.config.Roster.Enabled {
		sm.rosterService = NewRosterService(sm.repo, sm.db, sm.logger, sm.validator, sm.enrollmentService, sm.eventService)
		sm.logger.Info("Roster service initialized")
	}

	if sm.config.Announcement.Enabled {
		sm.announcementService = NewAnnouncementService(sm.repo, sm.db, sm.logger, sm.validator, sm.eventService)
		sm.logger.Info("Announcement service initialized")
	}

	sm.dashboardService = NewDashboardService(sm.repo, sm.db, sm.logger)
	sm.logger.Info("Dashboard service initialized")

	return nil
}

// Service getters
func (sm *serviceManager) Account() AccountService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.accountService != nil {
		return sm.accountService
	}

	panic("account service not initialized")
}

func (sm *serviceManager) Student() StudentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.studentService != nil {
		return sm.studentService
	}

	panic("student service not initialized")
}

func (sm *serviceManager) Faculty() FacultyService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.facultyService != nil {
		return sm.facultyService
	}

	panic("faculty service not initialized")
}

func (sm *serviceManager) Catalog() CatalogService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.config.Catalog.Enabled && sm.catalogService != nil {
		return sm.catalogService
	}

	panic("catalog service not enabled or not initialized")
}

func (sm *serviceManager) Enrollment() EnrollmentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.config.Enrollment.Enabled && sm.enrollmentService != nil {
		return sm.enrollmentService
	}

	panic("enrollment service not enabled or not initialized")
}

func (sm *serviceManager) Roster() RosterService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.config.Roster.Enabled && sm.rosterService != nil {
		return sm.rosterService
	}

	panic("roster service not enabled or not initialized")
}

func (sm *serviceManager) Announcement() AnnouncementService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.config.Announcement.Enabled && sm.announcementService != nil {
		return sm.announcementService
	}

	panic("announcement service not enabled or not initialized")
}

func (sm *serviceManager) Dashboard() DashboardService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.dashboardService != nil {
		return sm.dashboardService
	}

	panic("dashboard service not initialized")
}

func (sm *serviceManager) NotificationEvent() NotificationEventService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.eventService != nil {
		return sm.eventService
	}

	panic("notification event service not initialized")
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}

	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if sm.eventService != nil {
		if err := sm.eventService.Close(); err != nil {
			sm.logger.Error("Failed to close event publisher", "error", err)
		}
	}

	if err := sm.repo.Close(); err != nil {
		sm.logger.Error("Failed to close repository", "error", err)
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down completed")

	return nil
}

// ===== UTILITY METHODS =====

// GetConfig returns the service manager configuration
func (sm *serviceManager) GetConfig() ServiceManagerConfig {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.config
}

// IsInitialized returns whether the service manager has been initialized
func (sm *serviceManager) IsInitialized() bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.initialized
}

// WithTimeout creates a context with the default timeout
func (sm *serviceManager) WithTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, sm.config.DefaultTimeout)
}

// ===== CONFIGURATION VALIDATION =====

// Validate validates the service manager configuration
func (config *ServiceManagerConfig) Validate() error {
	var errors []string

	if config.DefaultTimeout <= 0 {
		errors = append(errors, "default timeout must be positive")
	}

	if config.MaxRetries < 0 {
		errors = append(errors, "max retries cannot be negative")
	}

	if err := config.Catalog.validate("catalog"); err != nil {
		errors = append(errors, err.Error())
	}

	if err := config.Enrollment.validate("enrollment"); err != nil {
		errors = append(errors, err.Error())
	}

	if err := config.Roster.validate("roster"); err != nil {
		errors = append(errors, err.Error())
	}

	if err := config.Announcement.validate("announcement"); err != nil {
		errors = append(errors, err.Error())
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %v", errors)
	}

	return nil
}

func (sc *ServiceConfig) validate(serviceName string) error {
	if sc.CacheTTL < 0 {
		return fmt.Errorf("%s: cache TTL cannot be negative", serviceName)
	}

	if sc.ValidationLevel < ValidationBasic || sc.ValidationLevel > ValidationFull {
		return fmt.Errorf("%s: invalid validation level", serviceName)
	}

	return nil
}

// ===== FACTORY FUNCTIONS =====

// CreateProductionServiceManager creates a service manager configured for production
func CreateProductionServiceManager(db *gorm.DB, repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, eventPublisher events.EventPublisher) ServiceManager {
	config := ServiceManagerConfig{
		EnableDebugLogging: false,
		EnableMetrics:      true,
		LogLevel:           slog.LevelInfo,

		Catalog: ServiceConfig{
			Enabled:         true,
			CacheEnabled:    true,
			CacheTTL:        15 * time.Minute,
			ValidationLevel: ValidationFull,
			AuditingEnabled: true,
			MetricsEnabled:  true,
		},
		Enrollment: ServiceConfig{
			Enabled:         true,
			CacheEnabled:    false, // eligibility reads live counts
			CacheTTL:        0,
			ValidationLevel: ValidationStrict,
			AuditingEnabled: true,
			MetricsEnabled:  true,
		},
		Roster: ServiceConfig{
			Enabled:         true,
			CacheEnabled:    false,
			CacheTTL:        0,
			ValidationLevel: ValidationStrict,
			AuditingEnabled: true,
			MetricsEnabled:  true,
		},
		Announcement: ServiceConfig{
			Enabled:         true,
			CacheEnabled:    true,
			CacheTTL:        5 * time.Minute,
			ValidationLevel: ValidationStrict,
			AuditingEnabled: true,
			MetricsEnabled:  true,
		},

		DefaultTimeout: 60 * time.Second,
		MaxRetries:     3,
		RateLimitingRules: map[string]RateLimit{
			"enrollment_create": {RequestsPerMinute: 120, BurstSize: 20},
			"roster_export":     {RequestsPerMinute: 30, BurstSize: 5},
		},
	}

	return NewServiceManager(db, repo, logger, validator, eventPublisher, config)
}

// CreateDevelopmentServiceManager creates a service manager configured for development
func CreateDevelopmentServiceManager(db *gorm.DB, repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, eventPublisher events.EventPublisher) ServiceManager {
	config := ServiceManagerConfig{
		EnableDebugLogging: true,
		EnableMetrics:      false,
		LogLevel:           slog.LevelDebug,

		Catalog: ServiceConfig{
			Enabled:         true,
			ValidationLevel: ValidationBasic,
		},
		Enrollment: ServiceConfig{
			Enabled:         true,
			ValidationLevel: ValidationBasic,
		},
		Roster: ServiceConfig{
			Enabled:         true,
			ValidationLevel: ValidationBasic,
		},
		Announcement: ServiceConfig{
			Enabled:         true,
			ValidationLevel: ValidationBasic,
		},

		DefaultTimeout:    10 * time.Second,
		MaxRetries:        1,
		RateLimitingRules: make(map[string]RateLimit),
	}

	return NewServiceManager(db, repo, logger, validator, eventPublisher, config)
}
