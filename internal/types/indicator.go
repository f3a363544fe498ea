package types

import "time"

// IndicatorType classifies where an indicator sits in the delivery flow.
type IndicatorType string

// Indicator types
const (
	IndicatorTypeUpstream   IndicatorType = "Upstream"
	IndicatorTypeDownstream IndicatorType = "Downstream"
)

// Indicator represents a metric definition
type Indicator struct {
	ID                string        `json:"id" db:"id"`
	IsActive          bool          `json:"is_active" db:"is_active"`
	IsKR              bool          `json:"is_kr" db:"is_kr"`
	Priority          int           `json:"priority" db:"priority"`
	Name              string        `json:"name" db:"name" validate:"required"`
	Acronym           string        `json:"acronym" db:"acronym" validate:"required"`
	Type              IndicatorType `json:"type,omitempty" db:"type" validate:"omitempty,oneof=Upstream Downstream"`
	Category          string        `json:"category" db:"category" validate:"required"`
	Description       string        `json:"description,omitempty" db:"description"`
	Objective         string        `json:"objective,omitempty" db:"objective"`
	CalculationFormula string       `json:"calculation_formula,omitempty" db:"calculation_formula"`
	ActionWhenBad     string        `json:"action_when_bad,omitempty" db:"action_when_bad"`
	ResultWhenGood    string        `json:"result_when_good,omitempty" db:"result_when_good"`
	SuggestedTarget   string        `json:"suggested_target,omitempty" db:"suggested_target"`
	DefaultGranularity string       `json:"default_granularity,omitempty" db:"default_granularity"`
	Segmentation      string        `json:"segmentation,omitempty" db:"segmentation"`
	AzureDevopsSource string        `json:"azure_devops_source,omitempty" db:"azure_devops_source"`
	BaseQuery         string        `json:"base_query,omitempty" db:"base_query"`
	CreatedAt         time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at" db:"updated_at"`
	CreatedBy         string        `json:"created_by,omitempty" db:"created_by"`
	UpdatedBy         string        `json:"updated_by,omitempty" db:"updated_by"`
}

// IndicatorFormData carries the writable fields of an Indicator
type IndicatorFormData struct {
	IsActive          bool          `json:"is_active"`
	IsKR              bool          `json:"is_kr"`
	Priority          int           `json:"priority"`
	Name              string        `json:"name" validate:"required"`
	Acronym           string        `json:"acronym" validate:"required"`
	Type              IndicatorType `json:"type,omitempty" validate:"omitempty,oneof=Upstream Downstream"`
	Category          string        `json:"category" validate:"required"`
	Description       string        `json:"description,omitempty"`
	Objective         string        `json:"objective,omitempty"`
	CalculationFormula string       `json:"calculation_formula,omitempty"`
	ActionWhenBad     string        `json:"action_when_bad,omitempty"`
	ResultWhenGood    string        `json:"result_when_good,omitempty"`
	SuggestedTarget   string        `json:"suggested_target,omitempty"`
	DefaultGranularity string       `json:"default_granularity,omitempty"`
	Segmentation      string        `json:"segmentation,omitempty"`
	AzureDevopsSource string        `json:"azure_devops_source,omitempty"`
	BaseQuery         string        `json:"base_query,omitempty"`
}
