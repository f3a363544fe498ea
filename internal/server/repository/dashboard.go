package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"wkmetrics/internal/database"
	"wkmetrics/internal/types"

	"go.uber.org/zap"
)

// dashboardRepository stores the dashboard document in the
// dashboard_data table, one JSON blob per key
type dashboardRepository struct {
	db     database.Interface
	logger *zap.Logger
}

// NewDashboardRepository creates new direct-table dashboard repository
func NewDashboardRepository(db database.Interface, logger *zap.Logger) DashboardRepository {
	return &dashboardRepository{
		db:     db,
		logger: logger,
	}
}

// Load returns the dashboard document stored under key
func (r *dashboardRepository) Load(ctx context.Context, key string) (*types.DashboardData, error) {
	query := "SELECT data FROM dashboard_data WHERE id = ?"
	if r.db.Driver() == "postgres" {
		query = database.ConvertPlaceholders(query)
	}

	var payload string
	err := r.db.QueryRowContext(ctx, query, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sql.ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard data: %w", err)
	}

	var data types.DashboardData
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dashboard data: %w", err)
	}

	return &data, nil
}

// Store replaces the dashboard document stored under key
func (r *dashboardRepository) Store(ctx context.Context, key string, data *types.DashboardData) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal dashboard data: %w", err)
	}

	now := time.Now()
	query := `INSERT INTO dashboard_data (id, data, updated_at) VALUES (?, ?, ?)`

	switch r.db.Driver() {
	case "postgres":
		query += ` ON CONFLICT (id) DO UPDATE SET
			data = EXCLUDED.data,
			updated_at = EXCLUDED.updated_at`
		query = database.ConvertPlaceholders(query)
	case "mysql":
		query += ` ON DUPLICATE KEY UPDATE
			data = VALUES(data),
			updated_at = VALUES(updated_at)`
	case "sqlite":
		query = `INSERT INTO dashboard_data (id, data, updated_at) VALUES (?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at`
	}

	if _, err := r.db.ExecContext(ctx, query, key, string(payload), now); err != nil {
		return fmt.Errorf("failed to store dashboard data: %w", err)
	}

	return nil
}

// procedureDashboardRepository reads and writes the dashboard document
// through the get_dashboard_data and upsert_dashboard_data stored
// procedures. On schemas that never received the procedures the calls
// fail and the caller moves on to the next store.
type procedureDashboardRepository struct {
	db     database.Interface
	logger *zap.Logger
}

// NewProcedureDashboardRepository creates new procedure-backed dashboard repository
func NewProcedureDashboardRepository(db database.Interface, logger *zap.Logger) DashboardRepository {
	return &procedureDashboardRepository{
		db:     db,
		logger: logger,
	}
}

// Load implements DashboardRepository
func (r *procedureDashboardRepository) Load(ctx context.Context, key string) (*types.DashboardData, error) {
	query := "SELECT get_dashboard_data(?)"
	if r.db.Driver() == "postgres" {
		query = database.ConvertPlaceholders(query)
	}

	var payload sql.NullString
	if err := r.db.QueryRowContext(ctx, query, key).Scan(&payload); err != nil {
		// The wrapper must not name the routine: callers decide whether
		// to fall back by looking for the routine name in the store's
		// own error text.
		return nil, fmt.Errorf("dashboard procedure load failed: %w", err)
	}

	if !payload.Valid || payload.String == "" {
		return nil, sql.ErrNoRows
	}

	var data types.DashboardData
	if err := json.Unmarshal([]byte(payload.String), &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dashboard data: %w", err)
	}

	return &data, nil
}

// Store implements DashboardRepository
func (r *procedureDashboardRepository) Store(ctx context.Context, key string, data *types.DashboardData) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal dashboard data: %w", err)
	}

	query := "SELECT upsert_dashboard_data(?, ?)"
	if r.db.Driver() == "postgres" {
		query = database.ConvertPlaceholders(query)
	}

	if _, err := r.db.ExecContext(ctx, query, key, string(payload)); err != nil {
		// Same constraint as Load: keep the routine name out of the
		// wrapper text.
		return fmt.Errorf("dashboard procedure store failed: %w", err)
	}

	return nil
}
