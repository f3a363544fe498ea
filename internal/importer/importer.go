// Package importer parses the bulk CSV surface for indicator values.
//
// The format is deliberately simple: comma-separated, UTF-8, one record
// per line, #-prefixed comment lines ignored, mandatory header row. There
// is no quoting or escaping for embedded commas; downstream templates
// assume the simple format, so this parser must not silently upgrade to
// full CSV semantics.
package importer

import (
	"fmt"
	"strconv"
	"strings"

	"wkmetrics/internal/types"
)

// Header columns accepted by the import surface, in template order.
var templateColumns = []string{
	"indicator_acronym",
	"period_type",
	"period_start",
	"period_end",
	"value",
	"text_value",
	"squad_name",
	"product_name",
	"status",
	"comparison_value",
}

// Result is the partial-success outcome of a parse: every valid record
// plus one message per rejected row. Fewer records than input rows with a
// non-empty error list is a valid outcome, not a failure.
type Result struct {
	Records []types.IndicatorValueFormData `json:"records"`
	Errors  []string                       `json:"errors"`
}

// Empty reports whether the payload produced neither records nor errors.
// Callers must treat this as "nothing to import", not as success.
func (r Result) Empty() bool {
	return len(r.Records) == 0 && len(r.Errors) == 0
}

// Parse turns a raw delimited payload into validated value records.
// Indicator acronyms are resolved case-insensitively against indicators;
// rows naming an unknown acronym are dropped with an error. Squad names
// are resolved against squads when a match exists and left unset
// otherwise. Row numbers in error messages are 1-based positions in the
// payload after blank and comment lines are stripped, so the header is
// row 1 and the first data row is row 2.
func Parse(raw string, indicators []*types.Indicator, squads []*types.Squad) Result {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		lines = append(lines, line)
	}

	if len(lines) == 0 {
		return Result{}
	}

	headers := splitRow(lines[0])

	byAcronym := make(map[string]*types.Indicator, len(indicators))
	for _, ind := range indicators {
		byAcronym[strings.ToLower(ind.Acronym)] = ind
	}
	squadByName := make(map[string]*types.Squad, len(squads))
	for _, sq := range squads {
		squadByName[strings.ToLower(sq.Name)] = sq
	}

	var result Result
	for i := 1; i < len(lines); i++ {
		cells := splitRow(lines[i])
		if len(cells) < len(headers) {
			// Short rows are skipped without an error entry; the only
			// way a caller can tell is by comparing counts.
			continue
		}

		row := make(map[string]string, len(headers))
		for col, name := range headers {
			row[name] = cells[col]
		}

		rowNum := i + 1

		acronym := row["indicator_acronym"]
		indicator, ok := byAcronym[strings.ToLower(acronym)]
		if !ok {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Row %d: indicator '%s' not found", rowNum, acronym))
			continue
		}

		record := types.IndicatorValueFormData{
			IndicatorID: indicator.ID,
			PeriodType:  types.PeriodType(row["period_type"]),
			PeriodStart: row["period_start"],
			PeriodEnd:   row["period_end"],
			Status:      types.ValueStatus(row["status"]),
			// Imports always self-identify, whatever the cell says.
			Source: types.SourceImport,
		}
		if record.Status == "" {
			record.Status = types.StatusNeutral
		}

		badRow := false
		record.Value = parseOptionalFloat(row["value"], rowNum, "value", &result, &badRow)
		record.ComparisonValue = parseOptionalFloat(row["comparison_value"], rowNum, "comparison_value", &result, &badRow)
		if badRow {
			continue
		}

		if tv := row["text_value"]; tv != "" {
			record.TextValue = &tv
		}
		if pn := row["product_name"]; pn != "" {
			record.ProductName = &pn
		}
		if sn := row["squad_name"]; sn != "" {
			if sq, found := squadByName[strings.ToLower(sn)]; found {
				record.SquadID = &sq.ID
			}
		}

		result.Records = append(result.Records, record)
	}

	return result
}

// Template returns the canonical import template: header, an example row
// and comment hints, ready to be written out as a CSV download.
func Template() string {
	example := []string{
		"LT", "mensal", "2024-01-01", "2024-01-31", "4.5", "",
		"Squad Alpha", "WK.app", "excellent", "5.2",
	}
	return strings.Join([]string{
		strings.Join(templateColumns, ","),
		strings.Join(example, ","),
		"# Preencha com seus dados abaixo",
		"# Status: critical, warning, excellent, neutral",
		"# Period Type: sprint, mensal, trimestral, anual",
	}, "\n")
}

func splitRow(line string) []string {
	cells := strings.Split(line, ",")
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells
}

func parseOptionalFloat(cell string, rowNum int, column string, result *Result, badRow *bool) *float64 {
	if cell == "" {
		return nil
	}
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		if !*badRow {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Row %d: invalid numeric %s '%s'", rowNum, column, cell))
		}
		*badRow = true
		return nil
	}
	return &f
}
