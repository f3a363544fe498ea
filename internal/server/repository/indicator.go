package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"wkmetrics/internal/database"
	"wkmetrics/internal/types"

	"go.uber.org/zap"
)

const indicatorColumns = `id, is_active, is_kr, priority, name, acronym, type, category,
		description, objective, calculation_formula, action_when_bad, result_when_good,
		suggested_target, default_granularity, segmentation, azure_devops_source, base_query,
		created_at, updated_at, created_by, updated_by`

// indicatorRepository represents indicator repository implementation
type indicatorRepository struct {
	db     database.Interface
	logger *zap.Logger
}

// NewIndicatorRepository creates new indicator repository
func NewIndicatorRepository(db database.Interface, logger *zap.Logger) IndicatorRepository {
	return &indicatorRepository{
		db:     db,
		logger: logger,
	}
}

// Save inserts a new indicator
func (r *indicatorRepository) Save(ctx context.Context, indicator *types.Indicator) error {
	query := `INSERT INTO indicators (` + indicatorColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	if r.db.Driver() == "postgres" {
		query = database.ConvertPlaceholders(query)
	}

	_, err := r.db.ExecContext(ctx, query,
		indicator.ID, indicator.IsActive, indicator.IsKR, indicator.Priority,
		indicator.Name, indicator.Acronym, indicator.Type, indicator.Category,
		indicator.Description, indicator.Objective, indicator.CalculationFormula,
		indicator.ActionWhenBad, indicator.ResultWhenGood, indicator.SuggestedTarget,
		indicator.DefaultGranularity, indicator.Segmentation, indicator.AzureDevopsSource,
		indicator.BaseQuery, indicator.CreatedAt, indicator.UpdatedAt,
		indicator.CreatedBy, indicator.UpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to save indicator: %w", err)
	}

	return nil
}

// Update updates an existing indicator
func (r *indicatorRepository) Update(ctx context.Context, indicator *types.Indicator) error {
	query := `UPDATE indicators SET
		is_active = ?, is_kr = ?, priority = ?, name = ?, acronym = ?, type = ?,
		category = ?, description = ?, objective = ?, calculation_formula = ?,
		action_when_bad = ?, result_when_good = ?, suggested_target = ?,
		default_granularity = ?, segmentation = ?, azure_devops_source = ?,
		base_query = ?, updated_at = ?, updated_by = ?
		WHERE id = ?`

	if r.db.Driver() == "postgres" {
		query = database.ConvertPlaceholders(query)
	}

	result, err := r.db.ExecContext(ctx, query,
		indicator.IsActive, indicator.IsKR, indicator.Priority, indicator.Name,
		indicator.Acronym, indicator.Type, indicator.Category, indicator.Description,
		indicator.Objective, indicator.CalculationFormula, indicator.ActionWhenBad,
		indicator.ResultWhenGood, indicator.SuggestedTarget, indicator.DefaultGranularity,
		indicator.Segmentation, indicator.AzureDevopsSource, indicator.BaseQuery,
		indicator.UpdatedAt, indicator.UpdatedBy, indicator.ID)
	if err != nil {
		return fmt.Errorf("failed to update indicator: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return types.ErrIndicatorNotFound
	}

	return nil
}

// FindByID returns indicator by ID
func (r *indicatorRepository) FindByID(ctx context.Context, id string) (*types.Indicator, error) {
	query := `SELECT ` + indicatorColumns + ` FROM indicators WHERE id = ?`

	if r.db.Driver() == "postgres" {
		query = database.ConvertPlaceholders(query)
	}

	indicator, err := scanIndicator(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrIndicatorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query indicator: %w", err)
	}

	return indicator, nil
}

// List returns indicators ordered by priority descending, then name
func (r *indicatorRepository) List(ctx context.Context, activeOnly bool) ([]*types.Indicator, error) {
	qb := database.NewQueryBuilder(r.db.Driver())
	qb.Select(indicatorColumns).From("indicators")
	if activeOnly {
		qb.Where("is_active = ?", true)
	}
	qb.OrderBy("priority DESC", "name ASC")

	rows, err := r.db.QueryContext(ctx, qb.SQL(), qb.Args()...)
	if err != nil {
		return nil, fmt.Errorf("failed to query indicators: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var indicators []*types.Indicator
	for rows.Next() {
		indicator, err := scanIndicator(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan indicator: %w", err)
		}
		indicators = append(indicators, indicator)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate indicators: %w", err)
	}

	return indicators, nil
}

// SetActive toggles the active flag of an indicator
func (r *indicatorRepository) SetActive(ctx context.Context, id string, active bool) error {
	query := "UPDATE indicators SET is_active = ? WHERE id = ?"
	if r.db.Driver() == "postgres" {
		query = database.ConvertPlaceholders(query)
	}

	result, err := r.db.ExecContext(ctx, query, active, id)
	if err != nil {
		return fmt.Errorf("failed to toggle indicator: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return types.ErrIndicatorNotFound
	}

	return nil
}

// Delete removes an indicator
func (r *indicatorRepository) Delete(ctx context.Context, id string) error {
	query := "DELETE FROM indicators WHERE id = ?"
	if r.db.Driver() == "postgres" {
		query = database.ConvertPlaceholders(query)
	}

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete indicator: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return types.ErrIndicatorNotFound
	}

	return nil
}

// rowScanner abstracts sql.Row and sql.Rows for shared scan helpers
type rowScanner interface {
	Scan(dest ...any) error
}

// scanIndicator scans one indicator row
func scanIndicator(row rowScanner) (*types.Indicator, error) {
	var ind types.Indicator
	err := row.Scan(
		&ind.ID, &ind.IsActive, &ind.IsKR, &ind.Priority,
		&ind.Name, &ind.Acronym, &ind.Type, &ind.Category,
		&ind.Description, &ind.Objective, &ind.CalculationFormula,
		&ind.ActionWhenBad, &ind.ResultWhenGood, &ind.SuggestedTarget,
		&ind.DefaultGranularity, &ind.Segmentation, &ind.AzureDevopsSource,
		&ind.BaseQuery, &ind.CreatedAt, &ind.UpdatedAt,
		&ind.CreatedBy, &ind.UpdatedBy)
	if err != nil {
		return nil, err
	}
	return &ind, nil
}
