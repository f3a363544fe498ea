package service

import (
	"context"
	"fmt"
	"time"

	"wkmetrics/internal/database"
	"wkmetrics/internal/server/config"
	"wkmetrics/internal/server/notify"
	"wkmetrics/internal/server/repository"
	"wkmetrics/internal/validator"

	"go.uber.org/zap"
)

// Service represents the server service
type Service struct {
	config   *config.Config
	db       database.Interface
	notifier *notify.Manager
	validate *validator.Validator
	logger   *zap.Logger

	indicators    repository.IndicatorRepository
	values        repository.ValueRepository
	squads        repository.SquadRepository
	professionals repository.ProfessionalRepository
	jobRoles      repository.JobRoleRepository
	users         repository.UserRepository
	batches       repository.BatchRepository
	dashboard     *DashboardStore

	// roleInvalidator drops cached roles after role assignments change
	roleInvalidator func(ctx context.Context, userID string)
}

// NewService creates new service instance
func NewService(cfg *config.Config, db database.Interface, logger *zap.Logger) (*Service, error) {
	notifier, err := notify.NewManager(&cfg.Notify, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize notifier: %w", err)
	}

	svc := &Service{
		config:   cfg,
		db:       db,
		notifier: notifier,
		validate: validator.New(),
		logger:   logger,

		indicators:    repository.NewIndicatorRepository(db, logger),
		values:        repository.NewValueRepository(db, logger),
		squads:        repository.NewSquadRepository(db, logger),
		professionals: repository.NewProfessionalRepository(db, logger),
		jobRoles:      repository.NewJobRoleRepository(db, logger),
		users:         repository.NewUserRepository(db, logger),
		batches:       repository.NewBatchRepository(db, logger),
	}

	svc.dashboard = NewDashboardStore(cfg, db, logger)

	return svc, nil
}

// SetRoleInvalidator wires the role cache invalidation hook
func (s *Service) SetRoleInvalidator(fn func(ctx context.Context, userID string)) {
	s.roleInvalidator = fn
}

// Stop stops the service and cleanup resources
func (s *Service) Stop() error {
	return s.db.Close()
}

// HealthStatus health check
type HealthStatus struct {
	Healthy   bool           `json:"healthy"`
	Timestamp time.Time      `json:"timestamp"`
	Details   []HealthDetail `json:"details,omitempty"`
}

// HealthDetail represents a health detail
type HealthDetail struct {
	Component string `json:"component"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
}

// HealthCheck performs a health check
func (s *Service) HealthCheck(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Healthy:   true,
		Timestamp: time.Now(),
	}

	// Check database
	if err := s.db.Ping(ctx); err != nil {
		status.Healthy = false
		status.Details = append(status.Details, HealthDetail{
			Component: "database",
			Status:    "unhealthy",
			Error:     err.Error(),
		})
	}

	return status
}
