package service

import (
	"context"
	"fmt"
	"time"

	"wkmetrics/internal/types"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateIndicator creates a new indicator definition
func (s *Service) CreateIndicator(ctx context.Context, form *types.IndicatorFormData, userID string) (*types.Indicator, error) {
	if err := s.validate.Struct(form); err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrValidation, err.Error())
	}

	now := time.Now()
	indicator := &types.Indicator{
		ID:                 uuid.NewString(),
		IsActive:           form.IsActive,
		IsKR:               form.IsKR,
		Priority:           form.Priority,
		Name:               form.Name,
		Acronym:            form.Acronym,
		Type:               form.Type,
		Category:           form.Category,
		Description:        form.Description,
		Objective:          form.Objective,
		CalculationFormula: form.CalculationFormula,
		ActionWhenBad:      form.ActionWhenBad,
		ResultWhenGood:     form.ResultWhenGood,
		SuggestedTarget:    form.SuggestedTarget,
		DefaultGranularity: form.DefaultGranularity,
		Segmentation:       form.Segmentation,
		AzureDevopsSource:  form.AzureDevopsSource,
		BaseQuery:          form.BaseQuery,
		CreatedAt:          now,
		UpdatedAt:          now,
		CreatedBy:          userID,
		UpdatedBy:          userID,
	}

	if err := s.indicators.Save(ctx, indicator); err != nil {
		return nil, err
	}

	s.logger.Info("Indicator created",
		zap.String("id", indicator.ID),
		zap.String("acronym", indicator.Acronym))

	return indicator, nil
}

// UpdateIndicator updates an existing indicator definition
func (s *Service) UpdateIndicator(ctx context.Context, id string, form *types.IndicatorFormData, userID string) (*types.Indicator, error) {
	if err := s.validate.Struct(form); err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrValidation, err.Error())
	}

	indicator, err := s.indicators.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	indicator.IsActive = form.IsActive
	indicator.IsKR = form.IsKR
	indicator.Priority = form.Priority
	indicator.Name = form.Name
	indicator.Acronym = form.Acronym
	indicator.Type = form.Type
	indicator.Category = form.Category
	indicator.Description = form.Description
	indicator.Objective = form.Objective
	indicator.CalculationFormula = form.CalculationFormula
	indicator.ActionWhenBad = form.ActionWhenBad
	indicator.ResultWhenGood = form.ResultWhenGood
	indicator.SuggestedTarget = form.SuggestedTarget
	indicator.DefaultGranularity = form.DefaultGranularity
	indicator.Segmentation = form.Segmentation
	indicator.AzureDevopsSource = form.AzureDevopsSource
	indicator.BaseQuery = form.BaseQuery
	indicator.UpdatedAt = time.Now()
	indicator.UpdatedBy = userID

	if err := s.indicators.Update(ctx, indicator); err != nil {
		return nil, err
	}

	return indicator, nil
}

// GetIndicator returns one indicator by ID
func (s *Service) GetIndicator(ctx context.Context, id string) (*types.Indicator, error) {
	return s.indicators.FindByID(ctx, id)
}

// ListIndicators returns indicators ordered by priority then name
func (s *Service) ListIndicators(ctx context.Context, activeOnly bool) ([]*types.Indicator, error) {
	return s.indicators.List(ctx, activeOnly)
}

// ToggleIndicator flips or sets the active flag of an indicator
func (s *Service) ToggleIndicator(ctx context.Context, id string, active bool) error {
	if err := s.indicators.SetActive(ctx, id, active); err != nil {
		return err
	}

	s.logger.Info("Indicator toggled",
		zap.String("id", id),
		zap.Bool("active", active))

	return nil
}

// DeleteIndicator removes an indicator definition
func (s *Service) DeleteIndicator(ctx context.Context, id string) error {
	return s.indicators.Delete(ctx, id)
}
