package kpi

import (
	"testing"

	"wkmetrics/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupByCategory(t *testing.T) {
	indicators := []*types.Indicator{
		{ID: "a", Category: "Qualidade", Priority: 1},
		{ID: "b", Category: "Entrega", Priority: 5},
		{ID: "c", Category: "Qualidade", Priority: 9},
		{ID: "d", Category: "", Priority: 3},
		{ID: "e", Category: "Qualidade", Priority: 9},
	}

	grouped := GroupByCategory(indicators)

	require.Len(t, grouped, 3)

	// Every indicator lands in exactly one group
	total := 0
	for _, group := range grouped {
		total += len(group)
	}
	assert.Equal(t, len(indicators), total)

	// Groups are sorted by priority descending, stable on ties
	qualidade := grouped["Qualidade"]
	require.Len(t, qualidade, 3)
	assert.Equal(t, "c", qualidade[0].ID)
	assert.Equal(t, "e", qualidade[1].ID)
	assert.Equal(t, "a", qualidade[2].ID)

	// Uncategorized indicators fall back to Outros
	require.Len(t, grouped[FallbackCategory], 1)
	assert.Equal(t, "d", grouped[FallbackCategory][0].ID)
}

func TestGroupByCategoryEmpty(t *testing.T) {
	grouped := GroupByCategory(nil)
	assert.Empty(t, grouped)
}

func TestCategories(t *testing.T) {
	grouped := GroupByCategory([]*types.Indicator{
		{ID: "a", Category: "Qualidade"},
		{ID: "b", Category: "Entrega"},
		{ID: "c", Category: ""},
	})

	assert.Equal(t, []string{"Entrega", "Outros", "Qualidade"}, Categories(grouped))
}
