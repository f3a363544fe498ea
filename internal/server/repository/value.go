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

const valueColumns = `v.id, v.indicator_id, v.value, v.text_value, v.period_type,
		v.period_start, v.period_end, v.squad_id, v.product_name, v.comparison_value,
		v.comparison_percentage, v.status, v.source, v.import_batch_id,
		v.created_at, v.updated_at, v.created_by`

const valueInsertQuery = `INSERT INTO indicator_values (
		id, indicator_id, value, text_value, period_type, period_start, period_end,
		squad_id, product_name, comparison_value, comparison_percentage, status, source,
		import_batch_id, created_at, updated_at, created_by
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// valueRepository represents indicator value repository implementation
type valueRepository struct {
	db     database.Interface
	logger *zap.Logger
}

// NewValueRepository creates new indicator value repository
func NewValueRepository(db database.Interface, logger *zap.Logger) ValueRepository {
	return &valueRepository{
		db:     db,
		logger: logger,
	}
}

// Save inserts a new indicator value
func (r *valueRepository) Save(ctx context.Context, value *types.IndicatorValue) error {
	query := valueInsertQuery
	if r.db.Driver() == "postgres" {
		query = database.ConvertPlaceholders(query)
	}

	_, err := r.db.ExecContext(ctx, query, valueArgs(value)...)
	if err != nil {
		return fmt.Errorf("failed to save indicator value: %w", err)
	}

	return nil
}

// Update updates an existing indicator value
func (r *valueRepository) Update(ctx context.Context, value *types.IndicatorValue) error {
	query := `UPDATE indicator_values SET
		indicator_id = ?, value = ?, text_value = ?, period_type = ?,
		period_start = ?, period_end = ?, squad_id = ?, product_name = ?,
		comparison_value = ?, comparison_percentage = ?, status = ?, source = ?,
		updated_at = ?
		WHERE id = ?`

	if r.db.Driver() == "postgres" {
		query = database.ConvertPlaceholders(query)
	}

	result, err := r.db.ExecContext(ctx, query,
		value.IndicatorID, value.Value, value.TextValue, value.PeriodType,
		value.PeriodStart, value.PeriodEnd, value.SquadID, value.ProductName,
		value.ComparisonValue, value.ComparisonPercentage, value.Status, value.Source,
		value.UpdatedAt, value.ID)
	if err != nil {
		return fmt.Errorf("failed to update indicator value: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return types.ErrValueNotFound
	}

	return nil
}

// FindByID returns indicator value by ID
func (r *valueRepository) FindByID(ctx context.Context, id string) (*types.IndicatorValue, error) {
	query := `SELECT ` + valueColumns + ` FROM indicator_values v WHERE v.id = ?`
	if r.db.Driver() == "postgres" {
		query = database.ConvertPlaceholders(query)
	}

	value, err := scanValue(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrValueNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query indicator value: %w", err)
	}

	return value, nil
}

// List returns indicator values with their owning indicators, newest
// period first. Every present filter field narrows the result.
func (r *valueRepository) List(ctx context.Context, filter types.ValueFilter) ([]*types.IndicatorValue, error) {
	qb := database.NewQueryBuilder(r.db.Driver())
	qb.Select(valueColumns+", "+prefixedIndicatorColumns).
		From("indicator_values v").
		Join("INNER", "indicators i", "i.id = v.indicator_id")

	if filter.IndicatorID != "" {
		qb.Where("v.indicator_id = ?", filter.IndicatorID)
	}
	if filter.SquadID != "" {
		qb.Where("v.squad_id = ?", filter.SquadID)
	}
	if filter.PeriodStartMin != "" {
		qb.Where("v.period_start >= ?", filter.PeriodStartMin)
	}
	if filter.PeriodEndMax != "" {
		qb.Where("v.period_end <= ?", filter.PeriodEndMax)
	}

	qb.OrderBy("v.period_start DESC").Limit(filter.Limit)

	rows, err := r.db.QueryContext(ctx, qb.SQL(), qb.Args()...)
	if err != nil {
		return nil, fmt.Errorf("failed to query indicator values: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var values []*types.IndicatorValue
	for rows.Next() {
		value, err := scanValueWithIndicator(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan indicator value: %w", err)
		}
		values = append(values, value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate indicator values: %w", err)
	}

	return values, nil
}

// BatchSave inserts all values in one transaction. Either every value
// is persisted or none is.
func (r *valueRepository) BatchSave(ctx context.Context, values []*types.IndicatorValue) error {
	if len(values) == 0 {
		return nil
	}

	query := valueInsertQuery
	if r.db.Driver() == "postgres" {
		query = database.ConvertPlaceholders(query)
	}

	return r.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer func(stmt *sql.Stmt) {
			_ = stmt.Close()
		}(stmt)

		for _, value := range values {
			if _, err := stmt.ExecContext(ctx, valueArgs(value)...); err != nil {
				return fmt.Errorf("failed to save indicator value: %w", err)
			}
		}
		return nil
	})
}

// Delete removes an indicator value
func (r *valueRepository) Delete(ctx context.Context, id string) error {
	query := "DELETE FROM indicator_values WHERE id = ?"
	if r.db.Driver() == "postgres" {
		query = database.ConvertPlaceholders(query)
	}

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete indicator value: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return types.ErrValueNotFound
	}

	return nil
}

const prefixedIndicatorColumns = `i.id, i.is_active, i.is_kr, i.priority, i.name, i.acronym,
		i.type, i.category, i.description, i.objective, i.calculation_formula,
		i.action_when_bad, i.result_when_good, i.suggested_target, i.default_granularity,
		i.segmentation, i.azure_devops_source, i.base_query, i.created_at, i.updated_at,
		i.created_by, i.updated_by`

// valueArgs returns insert arguments in column order
func valueArgs(v *types.IndicatorValue) []any {
	return []any{
		v.ID, v.IndicatorID, v.Value, v.TextValue, v.PeriodType,
		v.PeriodStart, v.PeriodEnd, v.SquadID, v.ProductName,
		v.ComparisonValue, v.ComparisonPercentage, v.Status, v.Source,
		v.ImportBatchID, v.CreatedAt, v.UpdatedAt, v.CreatedBy,
	}
}

// scanValue scans one value row without the joined indicator
func scanValue(row rowScanner) (*types.IndicatorValue, error) {
	var v types.IndicatorValue
	err := row.Scan(
		&v.ID, &v.IndicatorID, &v.Value, &v.TextValue, &v.PeriodType,
		&v.PeriodStart, &v.PeriodEnd, &v.SquadID, &v.ProductName,
		&v.ComparisonValue, &v.ComparisonPercentage, &v.Status, &v.Source,
		&v.ImportBatchID, &v.CreatedAt, &v.UpdatedAt, &v.CreatedBy)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// scanValueWithIndicator scans one value row joined with its indicator
func scanValueWithIndicator(row rowScanner) (*types.IndicatorValue, error) {
	var v types.IndicatorValue
	var ind types.Indicator
	err := row.Scan(
		&v.ID, &v.IndicatorID, &v.Value, &v.TextValue, &v.PeriodType,
		&v.PeriodStart, &v.PeriodEnd, &v.SquadID, &v.ProductName,
		&v.ComparisonValue, &v.ComparisonPercentage, &v.Status, &v.Source,
		&v.ImportBatchID, &v.CreatedAt, &v.UpdatedAt, &v.CreatedBy,
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
	v.Indicator = &ind
	return &v, nil
}
