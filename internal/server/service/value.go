package service

import (
	"context"
	"fmt"
	"time"

	"wkmetrics/internal/types"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateValue records a new indicator observation. The owning indicator
// must exist; critical observations trigger a notification.
func (s *Service) CreateValue(ctx context.Context, form *types.IndicatorValueFormData, userID string) (*types.IndicatorValue, error) {
	if err := s.validate.Struct(form); err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrValidation, err.Error())
	}
	if form.PeriodStart > form.PeriodEnd {
		return nil, fmt.Errorf("%w: period_start is after period_end", types.ErrValidation)
	}

	indicator, err := s.indicators.FindByID(ctx, form.IndicatorID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	value := &types.IndicatorValue{
		ID:                   uuid.NewString(),
		IndicatorID:          form.IndicatorID,
		Value:                form.Value,
		TextValue:            form.TextValue,
		PeriodType:           form.PeriodType,
		PeriodStart:          form.PeriodStart,
		PeriodEnd:            form.PeriodEnd,
		SquadID:              form.SquadID,
		ProductName:          form.ProductName,
		ComparisonValue:      form.ComparisonValue,
		ComparisonPercentage: form.ComparisonPercentage,
		Status:               form.Status,
		Source:               form.Source,
		ImportBatchID:        form.ImportBatchID,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if userID != "" {
		value.CreatedBy = &userID
	}

	if err := s.values.Save(ctx, value); err != nil {
		return nil, err
	}

	if value.Status == types.StatusCritical {
		alerted := *value
		alerted.Indicator = indicator
		s.notifier.NotifyCriticalValue(&alerted)
	}

	return value, nil
}

// UpdateValue replaces the writable fields of an observation
func (s *Service) UpdateValue(ctx context.Context, id string, form *types.IndicatorValueFormData) (*types.IndicatorValue, error) {
	if err := s.validate.Struct(form); err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrValidation, err.Error())
	}
	if form.PeriodStart > form.PeriodEnd {
		return nil, fmt.Errorf("%w: period_start is after period_end", types.ErrValidation)
	}

	value, err := s.values.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// An observation stays with the indicator it was recorded for
	if form.IndicatorID != value.IndicatorID {
		return nil, fmt.Errorf("%w: indicator_id is immutable", types.ErrValidation)
	}

	value.Value = form.Value
	value.TextValue = form.TextValue
	value.PeriodType = form.PeriodType
	value.PeriodStart = form.PeriodStart
	value.PeriodEnd = form.PeriodEnd
	value.SquadID = form.SquadID
	value.ProductName = form.ProductName
	value.ComparisonValue = form.ComparisonValue
	value.ComparisonPercentage = form.ComparisonPercentage
	value.Status = form.Status
	value.Source = form.Source
	value.UpdatedAt = time.Now()

	if err := s.values.Update(ctx, value); err != nil {
		return nil, err
	}

	return value, nil
}

// GetValue returns one observation by ID
func (s *Service) GetValue(ctx context.Context, id string) (*types.IndicatorValue, error) {
	return s.values.FindByID(ctx, id)
}

// ListValues returns observations matching the filter, newest first
func (s *Service) ListValues(ctx context.Context, filter types.ValueFilter) ([]*types.IndicatorValue, error) {
	values, err := s.values.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if values == nil {
		values = []*types.IndicatorValue{}
	}
	return values, nil
}

// DeleteValue removes an observation
func (s *Service) DeleteValue(ctx context.Context, id string) error {
	if err := s.values.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Indicator value deleted", zap.String("id", id))
	return nil
}
