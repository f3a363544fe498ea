package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"wkmetrics/internal/database"
	"wkmetrics/internal/types"

	"go.uber.org/zap"
)

// batchRepository represents import batch repository implementation
type batchRepository struct {
	db     database.Interface
	logger *zap.Logger
}

// NewBatchRepository creates new import batch repository
func NewBatchRepository(db database.Interface, logger *zap.Logger) BatchRepository {
	return &batchRepository{
		db:     db,
		logger: logger,
	}
}

// Save inserts a new import batch record
func (r *batchRepository) Save(ctx context.Context, batch *types.ImportBatch) error {
	errorsJSON, err := json.Marshal(batch.Errors)
	if err != nil {
		return fmt.Errorf("failed to marshal batch errors: %w", err)
	}

	query := `INSERT INTO import_batches (
		id, filename, record_count, success_count, error_count, status, errors,
		created_at, created_by
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	if r.db.Driver() == "postgres" {
		query = database.ConvertPlaceholders(query)
	}

	_, err = r.db.ExecContext(ctx, query,
		batch.ID, batch.Filename, batch.RecordCount, batch.SuccessCount,
		batch.ErrorCount, batch.Status, string(errorsJSON),
		batch.CreatedAt, batch.CreatedBy)
	if err != nil {
		return fmt.Errorf("failed to save import batch: %w", err)
	}

	return nil
}

// FindByID returns import batch by ID
func (r *batchRepository) FindByID(ctx context.Context, id string) (*types.ImportBatch, error) {
	query := `SELECT id, filename, record_count, success_count, error_count, status, errors,
		created_at, created_by
		FROM import_batches WHERE id = ?`

	if r.db.Driver() == "postgres" {
		query = database.ConvertPlaceholders(query)
	}

	batch, err := scanBatch(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrBatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query import batch: %w", err)
	}

	return batch, nil
}

// List returns the most recent import batches
func (r *batchRepository) List(ctx context.Context, limit int) ([]*types.ImportBatch, error) {
	qb := database.NewQueryBuilder(r.db.Driver())
	qb.Select(`id, filename, record_count, success_count, error_count, status, errors,
		created_at, created_by`).
		From("import_batches").
		OrderBy("created_at DESC").
		Limit(limit)

	rows, err := r.db.QueryContext(ctx, qb.SQL(), qb.Args()...)
	if err != nil {
		return nil, fmt.Errorf("failed to query import batches: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var batches []*types.ImportBatch
	for rows.Next() {
		batch, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan import batch: %w", err)
		}
		batches = append(batches, batch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate import batches: %w", err)
	}

	return batches, nil
}

// scanBatch scans one import batch row
func scanBatch(row rowScanner) (*types.ImportBatch, error) {
	var batch types.ImportBatch
	var errorsJSON string
	err := row.Scan(
		&batch.ID, &batch.Filename, &batch.RecordCount, &batch.SuccessCount,
		&batch.ErrorCount, &batch.Status, &errorsJSON,
		&batch.CreatedAt, &batch.CreatedBy)
	if err != nil {
		return nil, err
	}

	if errorsJSON != "" {
		if err := json.Unmarshal([]byte(errorsJSON), &batch.Errors); err != nil {
			return nil, fmt.Errorf("failed to unmarshal batch errors: %w", err)
		}
	}

	return &batch, nil
}
