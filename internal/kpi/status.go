package kpi

import "wkmetrics/internal/types"

// OverallStatus is the aggregate health summary of a dashboard view
type OverallStatus string

// Overall statuses
const (
	OverallCritical  OverallStatus = "critical"
	OverallAttention OverallStatus = "attention"
	OverallSuccess   OverallStatus = "success"
	OverallNeutral   OverallStatus = "neutral"
)

// warningAttentionThreshold is a fixed policy constant: more than this
// many warnings turn the overall summary to attention. Not configurable.
const warningAttentionThreshold = 2

// ClassifyOverall folds the statuses of the visible values into one
// dashboard-level health summary. Any critical value dominates; then more
// than warningAttentionThreshold warnings mean attention; then more
// excellent than warning values mean success; otherwise neutral.
// An empty input is neutral.
func ClassifyOverall(values []*types.IndicatorValue) OverallStatus {
	var critical, warning, excellent int
	for _, v := range values {
		switch v.Status {
		case types.StatusCritical:
			critical++
		case types.StatusWarning:
			warning++
		case types.StatusExcellent:
			excellent++
		}
	}

	switch {
	case critical > 0:
		return OverallCritical
	case warning > warningAttentionThreshold:
		return OverallAttention
	case excellent > warning:
		return OverallSuccess
	default:
		return OverallNeutral
	}
}

// DisplayTier buckets statuses for presentation. Critical and warning
// both demand attention; the tier is not a severity ordering.
type DisplayTier string

// Display tiers
const (
	TierAttention DisplayTier = "attention"
	TierGood      DisplayTier = "good"
	TierNone      DisplayTier = "none"
)

// StatusDisplay is the presentation mapping of one status
type StatusDisplay struct {
	Tier  DisplayTier `json:"tier"`
	Color string      `json:"color"`
}

// statusDisplays keeps the status to tier/color mapping in one place
// instead of scattering string comparisons through the rendering path.
var statusDisplays = map[types.ValueStatus]StatusDisplay{
	types.StatusCritical:  {Tier: TierAttention, Color: "red"},
	types.StatusWarning:   {Tier: TierAttention, Color: "yellow"},
	types.StatusExcellent: {Tier: TierGood, Color: "green"},
	types.StatusNeutral:   {Tier: TierNone, Color: "gray"},
}

// DisplayOf returns the presentation mapping for a status. Unknown
// statuses render as neutral.
func DisplayOf(status types.ValueStatus) StatusDisplay {
	if d, ok := statusDisplays[status]; ok {
		return d
	}
	return statusDisplays[types.StatusNeutral]
}
