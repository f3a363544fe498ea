// Package kpi implements the indicator aggregation rules: period range
// resolution, period-over-period comparison, overall status classification
// and category grouping.
package kpi

import (
	"fmt"
	"time"

	"wkmetrics/internal/types"
)

const (
	monthTokenLayout = "2006-01"
	isoDateLayout    = "2006-01-02"
)

// Period is a concrete reporting window, both bounds inclusive,
// as ISO YYYY-MM-DD strings.
type Period struct {
	Start string `json:"period_start"`
	End   string `json:"period_end"`
}

// ResolveMonth converts a logical month token (YYYY-MM) into the calendar
// range covering that month. Malformed tokens fail with
// types.ErrInvalidPeriodFormat before any query is issued.
func ResolveMonth(token string) (Period, error) {
	t, err := time.Parse(monthTokenLayout, token)
	if err != nil {
		return Period{}, fmt.Errorf("%w: %q", types.ErrInvalidPeriodFormat, token)
	}

	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	return Period{
		Start: first.Format(isoDateLayout),
		End:   last.Format(isoDateLayout),
	}, nil
}
