package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryBuilder(t *testing.T) {
	qb := NewQueryBuilder("sqlite")
	qb.Select("id", "name").
		From("indicators").
		Where("is_active = ?", true).
		Where("category = ?", "Qualidade").
		OrderBy("priority DESC", "name ASC").
		Limit(10)

	assert.Equal(t,
		"SELECT id, name FROM indicators WHERE is_active = ? AND category = ? ORDER BY priority DESC, name ASC LIMIT 10",
		qb.SQL())
	assert.Equal(t, []any{true, "Qualidade"}, qb.Args())
}

func TestQueryBuilderPostgresPlaceholders(t *testing.T) {
	qb := NewQueryBuilder("postgres")
	qb.Select("id").
		From("indicator_values").
		Where("indicator_id = ?", "ind-1").
		Where("period_start >= ? AND period_end <= ?", "2024-01-01", "2024-01-31")

	assert.Equal(t,
		"SELECT id FROM indicator_values WHERE indicator_id = $1 AND period_start >= $2 AND period_end <= $3",
		qb.SQL())
	assert.Equal(t, []any{"ind-1", "2024-01-01", "2024-01-31"}, qb.Args())
}

func TestQueryBuilderJoin(t *testing.T) {
	qb := NewQueryBuilder("sqlite")
	qb.Select("v.id", "i.name").
		From("indicator_values v").
		Join("LEFT", "indicators i", "i.id = v.indicator_id").
		Where("v.squad_id = ?", "squad-1")

	assert.Equal(t,
		"SELECT v.id, i.name FROM indicator_values v LEFT JOIN indicators i ON i.id = v.indicator_id WHERE v.squad_id = ?",
		qb.SQL())
}

func TestQueryBuilderLimitOffsetIgnoresNonPositive(t *testing.T) {
	qb := NewQueryBuilder("sqlite")
	qb.Select("id").From("squads").Limit(0).Offset(0)

	assert.Equal(t, "SELECT id FROM squads", qb.SQL())
}

func TestQueryBuilderReset(t *testing.T) {
	qb := NewQueryBuilder("sqlite")
	qb.Select("id").From("users").Where("email = ?", "a@example.com")
	qb.Reset()

	assert.Empty(t, qb.SQL())
	assert.Empty(t, qb.Args())
}

func TestConvertPlaceholders(t *testing.T) {
	testCases := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "sequential numbering",
			query: "INSERT INTO squads (id, name) VALUES (?, ?)",
			want:  "INSERT INTO squads (id, name) VALUES ($1, $2)",
		},
		{
			name:  "no placeholders untouched",
			query: "SELECT 1",
			want:  "SELECT 1",
		},
		{
			name:  "single placeholder",
			query: "DELETE FROM users WHERE id = ?",
			want:  "DELETE FROM users WHERE id = $1",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ConvertPlaceholders(tc.query))
		})
	}
}
