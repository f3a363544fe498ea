package service

import (
	"context"

	"wkmetrics/internal/kpi"
	"wkmetrics/internal/types"
)

// ComparisonView is the presentation form of a period-over-period
// comparison. Percentage keeps full precision; Display is rounded to
// one decimal for rendering.
type ComparisonView struct {
	Percentage float64       `json:"percentage"`
	Direction  kpi.Direction `json:"direction"`
	Display    string        `json:"display"`
}

// OverviewEntry pairs an indicator with its most recent observation in
// the requested window
type OverviewEntry struct {
	Indicator  *types.Indicator      `json:"indicator"`
	Value      *types.IndicatorValue `json:"value,omitempty"`
	Display    *kpi.StatusDisplay    `json:"display,omitempty"`
	Comparison *ComparisonView       `json:"comparison,omitempty"`
}

// CategoryGroup is one dashboard section
type CategoryGroup struct {
	Category string          `json:"category"`
	Entries  []OverviewEntry `json:"entries"`
}

// Overview is the aggregated dashboard view: active indicators grouped
// by category with their latest values and an overall health status
type Overview struct {
	Month   string            `json:"month,omitempty"`
	Period  *kpi.Period       `json:"period,omitempty"`
	Groups  []CategoryGroup   `json:"groups"`
	Overall kpi.OverallStatus `json:"overall_status"`
}

// GetOverview builds the dashboard overview. When month is a YYYY-MM
// token the view is restricted to observations inside that month;
// squadID further narrows to one squad.
func (s *Service) GetOverview(ctx context.Context, month, squadID string) (*Overview, error) {
	overview := &Overview{Month: month}

	filter := types.ValueFilter{SquadID: squadID}
	if month != "" {
		period, err := kpi.ResolveMonth(month)
		if err != nil {
			return nil, err
		}
		overview.Period = &period
		filter.PeriodStartMin = period.Start
		filter.PeriodEndMax = period.End
	}

	indicators, err := s.indicators.List(ctx, true)
	if err != nil {
		return nil, err
	}

	values, err := s.values.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	// Values arrive newest first, so the first hit per indicator is
	// its latest observation in the window
	latest := make(map[string]*types.IndicatorValue, len(indicators))
	for _, value := range values {
		if _, ok := latest[value.IndicatorID]; !ok {
			latest[value.IndicatorID] = value
		}
	}

	grouped := kpi.GroupByCategory(indicators)
	for _, category := range kpi.Categories(grouped) {
		group := CategoryGroup{Category: category}
		for _, indicator := range grouped[category] {
			entry := OverviewEntry{Indicator: indicator}
			if value, ok := latest[indicator.ID]; ok {
				entry.Value = value
				display := kpi.DisplayOf(value.Status)
				entry.Display = &display
				entry.Comparison = comparisonView(value)
			}
			group.Entries = append(group.Entries, entry)
		}
		overview.Groups = append(overview.Groups, group)
	}

	classified := make([]*types.IndicatorValue, 0, len(latest))
	for _, value := range latest {
		classified = append(classified, value)
	}
	overview.Overall = kpi.ClassifyOverall(classified)

	return overview, nil
}

// comparisonView derives the comparison for one observation. A stored
// percentage wins; otherwise it is computed from the previous value.
// Observations with no usable previous value carry no comparison.
func comparisonView(value *types.IndicatorValue) *ComparisonView {
	if value.ComparisonPercentage != nil {
		c := kpi.Comparison{Percentage: *value.ComparisonPercentage, Direction: kpi.DirectionOf(*value.ComparisonPercentage)}
		return &ComparisonView{
			Percentage: c.Percentage,
			Direction:  c.Direction,
			Display:    c.Display(),
		}
	}

	if value.Value == nil {
		return nil
	}

	c, ok := kpi.Compare(*value.Value, value.ComparisonValue)
	if !ok {
		return nil
	}

	return &ComparisonView{
		Percentage: c.Percentage,
		Direction:  c.Direction,
		Display:    c.Display(),
	}
}
