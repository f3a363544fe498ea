package service

import (
	"context"
	"fmt"
	"time"

	"wkmetrics/internal/importer"
	"wkmetrics/internal/types"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ImportReport is the outcome of a bulk import: the persisted batch
// record plus the per-row errors of the parse phase
type ImportReport struct {
	Batch  *types.ImportBatch `json:"batch"`
	Errors []string           `json:"errors,omitempty"`
}

// ImportValues parses a raw CSV payload and persists every valid record
// in one transaction. Invalid rows are reported, not fatal; a payload
// with no valid rows at all fails with ErrNothingToImport.
func (s *Service) ImportValues(ctx context.Context, raw, filename, userID string) (*ImportReport, error) {
	indicators, err := s.indicators.List(ctx, false)
	if err != nil {
		return nil, err
	}
	squads, err := s.squads.List(ctx)
	if err != nil {
		return nil, err
	}

	result := importer.Parse(raw, indicators, squads)

	// The parser checks shape, not semantics. Records with an unknown
	// period type or a malformed date join the row-error list here.
	acronymByID := make(map[string]string, len(indicators))
	for _, ind := range indicators {
		acronymByID[ind.ID] = ind.Acronym
	}
	records := make([]types.IndicatorValueFormData, 0, len(result.Records))
	for _, record := range result.Records {
		if err := s.validate.Struct(&record); err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Invalid record for indicator '%s': %s", acronymByID[record.IndicatorID], err.Error()))
			continue
		}
		if record.PeriodStart > record.PeriodEnd {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Invalid record for indicator '%s': period_start is after period_end", acronymByID[record.IndicatorID]))
			continue
		}
		records = append(records, record)
	}

	if len(records) == 0 {
		return &ImportReport{Errors: result.Errors}, types.ErrNothingToImport
	}

	now := time.Now()
	batch := &types.ImportBatch{
		ID:           uuid.NewString(),
		Filename:     filename,
		RecordCount:  len(records) + len(result.Errors),
		SuccessCount: len(records),
		ErrorCount:   len(result.Errors),
		Status:       types.BatchProcessing,
		Errors:       result.Errors,
		CreatedAt:    now,
	}
	if userID != "" {
		batch.CreatedBy = &userID
	}

	values := make([]*types.IndicatorValue, 0, len(records))
	for _, record := range records {
		value := &types.IndicatorValue{
			ID:              uuid.NewString(),
			IndicatorID:     record.IndicatorID,
			Value:           record.Value,
			TextValue:       record.TextValue,
			PeriodType:      record.PeriodType,
			PeriodStart:     record.PeriodStart,
			PeriodEnd:       record.PeriodEnd,
			SquadID:         record.SquadID,
			ProductName:     record.ProductName,
			ComparisonValue: record.ComparisonValue,
			Status:          record.Status,
			Source:          record.Source,
			ImportBatchID:   &batch.ID,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if userID != "" {
			value.CreatedBy = &userID
		}
		values = append(values, value)
	}

	if err := s.values.BatchSave(ctx, values); err != nil {
		batch.Status = types.BatchFailed
		batch.SuccessCount = 0
		batch.ErrorCount = batch.RecordCount
		if saveErr := s.batches.Save(ctx, batch); saveErr != nil {
			s.logger.Error("Failed to record failed import batch", zap.Error(saveErr))
		}
		return nil, err
	}

	batch.Status = types.BatchCompleted
	if err := s.batches.Save(ctx, batch); err != nil {
		return nil, err
	}

	s.logger.Info("Bulk import completed",
		zap.String("batch_id", batch.ID),
		zap.Int("imported", batch.SuccessCount),
		zap.Int("rejected", batch.ErrorCount))

	return &ImportReport{Batch: batch, Errors: result.Errors}, nil
}

// ImportTemplate returns the CSV template for bulk imports
func (s *Service) ImportTemplate() string {
	return importer.Template()
}

// GetImportBatch returns one import batch by ID
func (s *Service) GetImportBatch(ctx context.Context, id string) (*types.ImportBatch, error) {
	return s.batches.FindByID(ctx, id)
}

// ListImportBatches returns the most recent import batches
func (s *Service) ListImportBatches(ctx context.Context, limit int) ([]*types.ImportBatch, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.batches.List(ctx, limit)
}
