package service

import (
	"context"
	"errors"
	"testing"

	"wkmetrics/internal/kpi"
	"wkmetrics/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// fakeIndicatorRepo serves a fixed indicator list
type fakeIndicatorRepo struct {
	indicators []*types.Indicator
}

func (f *fakeIndicatorRepo) Save(context.Context, *types.Indicator) error   { return nil }
func (f *fakeIndicatorRepo) Update(context.Context, *types.Indicator) error { return nil }
func (f *fakeIndicatorRepo) FindByID(context.Context, string) (*types.Indicator, error) {
	return nil, types.ErrIndicatorNotFound
}
func (f *fakeIndicatorRepo) List(context.Context, bool) ([]*types.Indicator, error) {
	return f.indicators, nil
}
func (f *fakeIndicatorRepo) SetActive(context.Context, string, bool) error { return nil }
func (f *fakeIndicatorRepo) Delete(context.Context, string) error          { return nil }

// fakeValueRepo serves a fixed value list and records the filter
type fakeValueRepo struct {
	values []*types.IndicatorValue
	filter types.ValueFilter
}

func (f *fakeValueRepo) Save(context.Context, *types.IndicatorValue) error   { return nil }
func (f *fakeValueRepo) Update(context.Context, *types.IndicatorValue) error { return nil }
func (f *fakeValueRepo) FindByID(context.Context, string) (*types.IndicatorValue, error) {
	return nil, types.ErrValueNotFound
}
func (f *fakeValueRepo) List(_ context.Context, filter types.ValueFilter) ([]*types.IndicatorValue, error) {
	f.filter = filter
	return f.values, nil
}
func (f *fakeValueRepo) BatchSave(context.Context, []*types.IndicatorValue) error { return nil }
func (f *fakeValueRepo) Delete(context.Context, string) error                     { return nil }

func overviewService(t *testing.T, indicators *fakeIndicatorRepo, values *fakeValueRepo) *Service {
	return &Service{
		logger:     zaptest.NewLogger(t),
		indicators: indicators,
		values:     values,
	}
}

func observation(id, indicatorID, periodStart string, val float64, prev *float64, status types.ValueStatus) *types.IndicatorValue {
	return &types.IndicatorValue{
		ID:              id,
		IndicatorID:     indicatorID,
		Value:           &val,
		ComparisonValue: prev,
		PeriodType:      types.PeriodMensal,
		PeriodStart:     periodStart,
		PeriodEnd:       "2024-01-31",
		Status:          status,
		Source:          types.SourceManual,
	}
}

func TestGetOverview(t *testing.T) {
	prev := 85.0
	indicators := &fakeIndicatorRepo{indicators: []*types.Indicator{
		{ID: "ind-lt", Acronym: "LT", Category: "Entrega", Priority: 5},
		{ID: "ind-cov", Acronym: "COV", Category: "Qualidade", Priority: 3},
		{ID: "ind-misc", Acronym: "MISC", Category: "", Priority: 1},
	}}
	values := &fakeValueRepo{values: []*types.IndicatorValue{
		// Newest first, as the repository returns them
		observation("v2", "ind-lt", "2024-01-15", 90, &prev, types.StatusExcellent),
		observation("v1", "ind-lt", "2024-01-01", 85, nil, types.StatusWarning),
		observation("v3", "ind-cov", "2024-01-10", 70, nil, types.StatusWarning),
	}}

	svc := overviewService(t, indicators, values)

	overview, err := svc.GetOverview(context.Background(), "2024-01", "squad-1")
	require.NoError(t, err)

	// The filter carries the resolved month bounds and the squad
	assert.Equal(t, "2024-01-01", values.filter.PeriodStartMin)
	assert.Equal(t, "2024-01-31", values.filter.PeriodEndMax)
	assert.Equal(t, "squad-1", values.filter.SquadID)

	require.NotNil(t, overview.Period)
	assert.Equal(t, "2024-01-01", overview.Period.Start)
	assert.Equal(t, "2024-01-31", overview.Period.End)

	// Groups in lexicographic category order, fallback group included
	require.Len(t, overview.Groups, 3)
	assert.Equal(t, "Entrega", overview.Groups[0].Category)
	assert.Equal(t, "Outros", overview.Groups[1].Category)
	assert.Equal(t, "Qualidade", overview.Groups[2].Category)

	// Latest observation wins and carries a derived comparison
	entrega := overview.Groups[0].Entries
	require.Len(t, entrega, 1)
	require.NotNil(t, entrega[0].Value)
	assert.Equal(t, "v2", entrega[0].Value.ID)
	require.NotNil(t, entrega[0].Comparison)
	assert.Equal(t, kpi.DirectionUp, entrega[0].Comparison.Direction)
	assert.Equal(t, "+5.9%", entrega[0].Comparison.Display)
	require.NotNil(t, entrega[0].Display)
	assert.Equal(t, kpi.TierGood, entrega[0].Display.Tier)

	// Indicators without observations still appear, valueless
	outros := overview.Groups[1].Entries
	require.Len(t, outros, 1)
	assert.Nil(t, outros[0].Value)
	assert.Nil(t, outros[0].Comparison)
	assert.Nil(t, outros[0].Display)

	// One excellent and one warning latest value stay neutral overall
	assert.Equal(t, kpi.OverallNeutral, overview.Overall)
}

func TestGetOverviewInvalidMonth(t *testing.T) {
	svc := overviewService(t, &fakeIndicatorRepo{}, &fakeValueRepo{})

	_, err := svc.GetOverview(context.Background(), "01-2024", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrInvalidPeriodFormat))
}

func TestGetOverviewNoMonth(t *testing.T) {
	indicators := &fakeIndicatorRepo{indicators: []*types.Indicator{
		{ID: "ind-lt", Acronym: "LT", Category: "Entrega"},
	}}
	values := &fakeValueRepo{}

	svc := overviewService(t, indicators, values)

	overview, err := svc.GetOverview(context.Background(), "", "")
	require.NoError(t, err)
	assert.Nil(t, overview.Period)
	assert.Empty(t, values.filter.PeriodStartMin)
	assert.Equal(t, kpi.OverallNeutral, overview.Overall)
}

func TestComparisonViewStoredPercentageWins(t *testing.T) {
	stored := -12.34
	val := 90.0
	prev := 85.0
	value := &types.IndicatorValue{
		Value:                &val,
		ComparisonValue:      &prev,
		ComparisonPercentage: &stored,
	}

	view := comparisonView(value)
	require.NotNil(t, view)
	assert.Equal(t, -12.34, view.Percentage)
	assert.Equal(t, kpi.DirectionDown, view.Direction)
	assert.Equal(t, "-12.3%", view.Display)
}

func TestComparisonViewUndefined(t *testing.T) {
	val := 90.0
	zero := 0.0

	// No previous value
	assert.Nil(t, comparisonView(&types.IndicatorValue{Value: &val}))
	// Zero previous value
	assert.Nil(t, comparisonView(&types.IndicatorValue{Value: &val, ComparisonValue: &zero}))
	// Text-only observation
	assert.Nil(t, comparisonView(&types.IndicatorValue{}))
}
