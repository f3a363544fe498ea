package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"wkmetrics/internal/database"
	"wkmetrics/internal/server/config"
	"wkmetrics/internal/server/repository"
	"wkmetrics/internal/types"

	"go.uber.org/zap"
)

// dashboardStrategy is one tier of the dashboard persistence chain
type dashboardStrategy struct {
	name  string
	store repository.DashboardRepository
}

// DashboardStore reads and writes the dashboard document through an
// ordered chain of stores. The preferred store uses stored procedures;
// installations whose schema never received them fall back to an HTTP
// function endpoint and finally to the plain table. Reads degrade to
// the embedded default document, writes fail with ErrPersistence when
// every tier is exhausted.
type DashboardStore struct {
	strategies []dashboardStrategy
	logger     *zap.Logger
}

// NewDashboardStore builds the persistence chain from configuration.
// The function endpoint tier is skipped when no endpoint is configured.
func NewDashboardStore(cfg *config.Config, db database.Interface, logger *zap.Logger) *DashboardStore {
	store := &DashboardStore{logger: logger}

	store.strategies = append(store.strategies, dashboardStrategy{
		name:  "procedure",
		store: repository.NewProcedureDashboardRepository(db, logger),
	})

	if cfg.Dashboard.FunctionEndpoint != "" {
		store.strategies = append(store.strategies, dashboardStrategy{
			name:  "function",
			store: NewEdgeClient(&cfg.Dashboard, logger),
		})
	}

	store.strategies = append(store.strategies, dashboardStrategy{
		name:  "table",
		store: repository.NewDashboardRepository(db, logger),
	})

	return store
}

// Load returns the stored dashboard document, or the embedded default
// when nothing is stored or no store can serve the read
func (d *DashboardStore) Load(ctx context.Context) (*types.DashboardData, error) {
	for i, strategy := range d.strategies {
		data, err := strategy.store.Load(ctx, types.DashboardDataKey)
		if err == nil {
			return data, nil
		}

		if errors.Is(err, sql.ErrNoRows) {
			// Nothing stored yet, no point in trying older tiers
			return types.DefaultDashboardData(), nil
		}

		if i == 0 && !isMissingSchema(err) {
			// The preferred store is present but failing; degrade to
			// the default rather than reading possibly stale tiers
			d.logger.Error("Dashboard read failed",
				zap.String("store", strategy.name),
				zap.Error(err))
			return types.DefaultDashboardData(), nil
		}

		d.logger.Warn("Dashboard store unavailable, trying next",
			zap.String("store", strategy.name),
			zap.Error(err))
	}

	return types.DefaultDashboardData(), nil
}

// Store replaces the dashboard document through the first store that
// accepts the write
func (d *DashboardStore) Store(ctx context.Context, data *types.DashboardData) error {
	var lastErr error
	for i, strategy := range d.strategies {
		err := strategy.store.Store(ctx, types.DashboardDataKey, data)
		if err == nil {
			return nil
		}
		lastErr = err

		if i == 0 && !isMissingSchema(err) {
			d.logger.Error("Dashboard write failed",
				zap.String("store", strategy.name),
				zap.Error(err))
			return fmt.Errorf("%w: %s", types.ErrPersistence, err.Error())
		}

		d.logger.Warn("Dashboard store rejected write, trying next",
			zap.String("store", strategy.name),
			zap.Error(err))
	}

	return fmt.Errorf("%w: %s", types.ErrPersistence, lastErr.Error())
}

// isMissingSchema reports whether the error indicates the stored
// procedures were never installed, as opposed to a transient failure
func isMissingSchema(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "get_dashboard_data") ||
		strings.Contains(msg, "upsert_dashboard_data") ||
		strings.Contains(msg, "schema cache")
}

// GetDashboardData returns the dashboard document
func (s *Service) GetDashboardData(ctx context.Context) (*types.DashboardData, error) {
	return s.dashboard.Load(ctx)
}

// SaveDashboardData replaces the dashboard document
func (s *Service) SaveDashboardData(ctx context.Context, data *types.DashboardData) error {
	return s.dashboard.Store(ctx, data)
}
