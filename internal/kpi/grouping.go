package kpi

import (
	"sort"

	"wkmetrics/internal/types"
)

// FallbackCategory labels indicators that carry no category of their own
const FallbackCategory = "Outros"

// GroupByCategory partitions indicators by category label and orders each
// group by priority descending. The sort is stable: equal priorities keep
// their input order. Indicators without a category land in FallbackCategory.
func GroupByCategory(indicators []*types.Indicator) map[string][]*types.Indicator {
	grouped := make(map[string][]*types.Indicator)
	for _, ind := range indicators {
		category := ind.Category
		if category == "" {
			category = FallbackCategory
		}
		grouped[category] = append(grouped[category], ind)
	}

	for _, group := range grouped {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Priority > group[j].Priority
		})
	}

	return grouped
}

// Categories returns the group keys in lexicographically ascending order,
// so rendering is deterministic.
func Categories(grouped map[string][]*types.Indicator) []string {
	keys := make([]string, 0, len(grouped))
	for k := range grouped {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
