package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVarISODate(t *testing.T) {
	v := New()

	assert.NoError(t, v.Var("2024-01-31", "isodate"))
	assert.NoError(t, v.Var("", "isodate"))
	assert.Error(t, v.Var("2024-1-31", "isodate"))
	assert.Error(t, v.Var("31/01/2024", "isodate"))
	assert.Error(t, v.Var("2024-02-30", "isodate"))
}

func TestVarMonthToken(t *testing.T) {
	v := New()

	assert.NoError(t, v.Var("2024-02", "monthtoken"))
	assert.NoError(t, v.Var("", "monthtoken"))
	assert.Error(t, v.Var("2024-13", "monthtoken"))
	assert.Error(t, v.Var("2024-02-01", "monthtoken"))
}

func TestStructUsesJSONFieldNames(t *testing.T) {
	v := New()

	type form struct {
		Name        string `json:"name" validate:"required"`
		PeriodStart string `json:"period_start" validate:"required,isodate"`
	}

	err := v.Struct(form{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
	assert.Contains(t, err.Error(), "name is required")
	assert.Contains(t, err.Error(), "period_start is required")

	assert.NoError(t, v.Struct(form{Name: "Lead Time", PeriodStart: "2024-01-01"}))
}

func TestStructEnumMessages(t *testing.T) {
	v := New()

	type form struct {
		Status string `json:"status" validate:"required,oneof=critical warning excellent neutral"`
	}

	err := v.Struct(form{Status: "broken"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status must be one of")
}
