package importer

import (
	"strings"
	"testing"

	"wkmetrics/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testIndicators = []*types.Indicator{
	{ID: "ind-lt", Acronym: "LT", Name: "Lead Time"},
	{ID: "ind-ct", Acronym: "CT", Name: "Cycle Time"},
}

var testSquads = []*types.Squad{
	{ID: "squad-alpha", Name: "Squad Alpha"},
	{ID: "squad-beta", Name: "Squad Beta"},
}

const header = "indicator_acronym,period_type,period_start,period_end,value,text_value,squad_name,product_name,status,comparison_value"

func TestParsePartialSuccess(t *testing.T) {
	raw := strings.Join([]string{
		header,
		"LT,mensal,2024-01-01,2024-01-31,4.5,,Squad Alpha,WK.app,excellent,5.2",
		"XX,mensal,2024-01-01,2024-01-31,1.0,,,,neutral,",
	}, "\n")

	result := Parse(raw, testIndicators, testSquads)

	require.Len(t, result.Records, 1)
	require.Len(t, result.Errors, 1)

	record := result.Records[0]
	assert.Equal(t, "ind-lt", record.IndicatorID)
	assert.Equal(t, types.PeriodMensal, record.PeriodType)
	assert.Equal(t, "2024-01-01", record.PeriodStart)
	assert.Equal(t, "2024-01-31", record.PeriodEnd)
	require.NotNil(t, record.Value)
	assert.Equal(t, 4.5, *record.Value)
	require.NotNil(t, record.SquadID)
	assert.Equal(t, "squad-alpha", *record.SquadID)
	require.NotNil(t, record.ComparisonValue)
	assert.Equal(t, 5.2, *record.ComparisonValue)
	assert.Equal(t, types.StatusExcellent, record.Status)

	assert.Equal(t, "Row 2: indicator 'XX' not found", result.Errors[0])
}

func TestParseRowNumbersSkipCommentsAndBlanks(t *testing.T) {
	raw := strings.Join([]string{
		"# template hint",
		"",
		header,
		"# another comment",
		"LT,mensal,2024-01-01,2024-01-31,4.5,,,,neutral,",
		"YY,mensal,2024-02-01,2024-02-29,1.0,,,,neutral,",
	}, "\n")

	result := Parse(raw, testIndicators, testSquads)

	require.Len(t, result.Records, 1)
	require.Len(t, result.Errors, 1)

	// Row numbers count surviving lines only: header is row 1, the two
	// data rows are rows 2 and 3 regardless of stripped lines above
	assert.Equal(t, "Row 3: indicator 'YY' not found", result.Errors[0])
}

func TestParseEmptyPayload(t *testing.T) {
	for _, raw := range []string{"", "\n\n", "# only comments\n"} {
		result := Parse(raw, testIndicators, testSquads)
		assert.True(t, result.Empty())
	}
}

func TestParseHeaderOnly(t *testing.T) {
	result := Parse(header, testIndicators, testSquads)
	assert.True(t, result.Empty())
}

func TestParseForcesImportSource(t *testing.T) {
	raw := strings.Join([]string{
		header,
		"LT,mensal,2024-01-01,2024-01-31,4.5,,,,manual,",
	}, "\n")

	result := Parse(raw, testIndicators, testSquads)

	require.Len(t, result.Records, 1)
	assert.Equal(t, types.SourceImport, result.Records[0].Source)
}

func TestParseDefaultsStatusToNeutral(t *testing.T) {
	raw := strings.Join([]string{
		header,
		"LT,mensal,2024-01-01,2024-01-31,4.5,,,,,",
	}, "\n")

	result := Parse(raw, testIndicators, testSquads)

	require.Len(t, result.Records, 1)
	assert.Equal(t, types.StatusNeutral, result.Records[0].Status)
}

func TestParseAcronymCaseInsensitive(t *testing.T) {
	raw := strings.Join([]string{
		header,
		"lt,mensal,2024-01-01,2024-01-31,4.5,,,,neutral,",
	}, "\n")

	result := Parse(raw, testIndicators, testSquads)

	require.Len(t, result.Records, 1)
	assert.Equal(t, "ind-lt", result.Records[0].IndicatorID)
}

func TestParseUnknownSquadLeftUnset(t *testing.T) {
	raw := strings.Join([]string{
		header,
		"LT,mensal,2024-01-01,2024-01-31,4.5,,No Such Squad,,neutral,",
	}, "\n")

	result := Parse(raw, testIndicators, testSquads)

	require.Len(t, result.Records, 1)
	assert.Nil(t, result.Records[0].SquadID)
	assert.Empty(t, result.Errors)
}

func TestParseInvalidNumericValue(t *testing.T) {
	raw := strings.Join([]string{
		header,
		"LT,mensal,2024-01-01,2024-01-31,abc,,,,neutral,",
		"CT,mensal,2024-01-01,2024-01-31,2.0,,,,neutral,",
	}, "\n")

	result := Parse(raw, testIndicators, testSquads)

	require.Len(t, result.Records, 1)
	assert.Equal(t, "ind-ct", result.Records[0].IndicatorID)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Row 2: invalid numeric value 'abc'", result.Errors[0])
}

func TestParseShortRowsSilentlySkipped(t *testing.T) {
	raw := strings.Join([]string{
		header,
		"LT,mensal",
		"LT,mensal,2024-01-01,2024-01-31,4.5,,,,neutral,",
	}, "\n")

	result := Parse(raw, testIndicators, testSquads)

	require.Len(t, result.Records, 1)
	assert.Empty(t, result.Errors)
}

func TestTemplateRoundTrips(t *testing.T) {
	result := Parse(Template(), testIndicators, testSquads)

	require.Len(t, result.Records, 1)
	assert.Empty(t, result.Errors)
	assert.Equal(t, "ind-lt", result.Records[0].IndicatorID)
	assert.Equal(t, types.SourceImport, result.Records[0].Source)
}
