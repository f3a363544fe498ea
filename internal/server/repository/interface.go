package repository

import (
	"context"

	"wkmetrics/internal/types"
)

// IndicatorRepository defines indicator storage operations
type IndicatorRepository interface {
	Save(ctx context.Context, indicator *types.Indicator) error
	Update(ctx context.Context, indicator *types.Indicator) error
	FindByID(ctx context.Context, id string) (*types.Indicator, error)
	List(ctx context.Context, activeOnly bool) ([]*types.Indicator, error)
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

// ValueRepository defines indicator value storage operations
type ValueRepository interface {
	Save(ctx context.Context, value *types.IndicatorValue) error
	Update(ctx context.Context, value *types.IndicatorValue) error
	FindByID(ctx context.Context, id string) (*types.IndicatorValue, error)
	List(ctx context.Context, filter types.ValueFilter) ([]*types.IndicatorValue, error)
	BatchSave(ctx context.Context, values []*types.IndicatorValue) error
	Delete(ctx context.Context, id string) error
}

// SquadRepository defines squad storage operations
type SquadRepository interface {
	Save(ctx context.Context, squad *types.Squad) error
	Update(ctx context.Context, squad *types.Squad) error
	FindByID(ctx context.Context, id string) (*types.Squad, error)
	List(ctx context.Context) ([]*types.Squad, error)
	Delete(ctx context.Context, id string) error
}

// ProfessionalRepository defines professional storage operations
type ProfessionalRepository interface {
	Save(ctx context.Context, professional *types.Professional) error
	Update(ctx context.Context, professional *types.Professional) error
	FindByID(ctx context.Context, id string) (*types.Professional, error)
	List(ctx context.Context) ([]*types.Professional, error)
	Delete(ctx context.Context, id string) error
}

// JobRoleRepository defines job role storage operations
type JobRoleRepository interface {
	Save(ctx context.Context, role *types.JobRole) error
	Update(ctx context.Context, role *types.JobRole) error
	FindByID(ctx context.Context, id string) (*types.JobRole, error)
	List(ctx context.Context) ([]*types.JobRole, error)
	Delete(ctx context.Context, id string) error
}

// UserRepository defines user and role assignment storage operations
type UserRepository interface {
	Save(ctx context.Context, user *types.User) error
	FindByID(ctx context.Context, id string) (*types.User, error)
	FindByEmail(ctx context.Context, email string) (*types.User, error)
	List(ctx context.Context) ([]*types.User, error)
	Delete(ctx context.Context, id string) error
	AssignRole(ctx context.Context, userID, role string) error
	RemoveRole(ctx context.Context, userID, role string) error
	ListRoles(ctx context.Context, userID string) ([]string, error)
}

// BatchRepository defines import batch storage operations
type BatchRepository interface {
	Save(ctx context.Context, batch *types.ImportBatch) error
	FindByID(ctx context.Context, id string) (*types.ImportBatch, error)
	List(ctx context.Context, limit int) ([]*types.ImportBatch, error)
}

// DashboardRepository defines dashboard blob storage operations
type DashboardRepository interface {
	Load(ctx context.Context, key string) (*types.DashboardData, error)
	Store(ctx context.Context, key string, data *types.DashboardData) error
}
