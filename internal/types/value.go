package types

import "time"

// PeriodType is the granularity tag of a reporting window
type PeriodType string

// Period types
const (
	PeriodSprint     PeriodType = "sprint"
	PeriodMensal     PeriodType = "mensal"
	PeriodTrimestral PeriodType = "trimestral"
	PeriodAnual      PeriodType = "anual"
)

// ValueStatus is the writer-supplied health tag of an observation.
// It is an input constrained to this enum, never derived from thresholds.
type ValueStatus string

// Value statuses
const (
	StatusCritical  ValueStatus = "critical"
	StatusWarning   ValueStatus = "warning"
	StatusExcellent ValueStatus = "excellent"
	StatusNeutral   ValueStatus = "neutral"
)

// ValueSource identifies how an observation entered the system
type ValueSource string

// Value sources
const (
	SourceManual      ValueSource = "manual"
	SourceImport      ValueSource = "import"
	SourceAPI         ValueSource = "api"
	SourceAzureDevops ValueSource = "azure_devops"
)

// IndicatorValue represents one observation of an indicator for a period/segment.
// Period dates are ISO YYYY-MM-DD strings; period_start <= period_end.
type IndicatorValue struct {
	ID                   string      `json:"id" db:"id"`
	IndicatorID          string      `json:"indicator_id" db:"indicator_id" validate:"required"`
	Value                *float64    `json:"value,omitempty" db:"value"`
	TextValue            *string     `json:"text_value,omitempty" db:"text_value"`
	PeriodType           PeriodType  `json:"period_type" db:"period_type" validate:"required,oneof=sprint mensal trimestral anual"`
	PeriodStart          string      `json:"period_start" db:"period_start" validate:"required,isodate"`
	PeriodEnd            string      `json:"period_end" db:"period_end" validate:"required,isodate"`
	SquadID              *string     `json:"squad_id,omitempty" db:"squad_id"`
	ProductName          *string     `json:"product_name,omitempty" db:"product_name"`
	ComparisonValue      *float64    `json:"comparison_value,omitempty" db:"comparison_value"`
	ComparisonPercentage *float64    `json:"comparison_percentage,omitempty" db:"comparison_percentage"`
	Status               ValueStatus `json:"status" db:"status" validate:"required,oneof=critical warning excellent neutral"`
	Source               ValueSource `json:"source" db:"source" validate:"required,oneof=manual import api azure_devops"`
	ImportBatchID        *string     `json:"import_batch_id,omitempty" db:"import_batch_id"`
	CreatedAt            time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at" db:"updated_at"`
	CreatedBy            *string     `json:"created_by,omitempty" db:"created_by"`

	// Indicator is the owning definition, populated by joined reads
	Indicator *Indicator `json:"indicator,omitempty" db:"-"`
}

// IndicatorValueFormData carries the writable fields of an IndicatorValue
type IndicatorValueFormData struct {
	IndicatorID          string      `json:"indicator_id" validate:"required"`
	Value                *float64    `json:"value,omitempty"`
	TextValue            *string     `json:"text_value,omitempty"`
	PeriodType           PeriodType  `json:"period_type" validate:"required,oneof=sprint mensal trimestral anual"`
	PeriodStart          string      `json:"period_start" validate:"required,isodate"`
	PeriodEnd            string      `json:"period_end" validate:"required,isodate"`
	SquadID              *string     `json:"squad_id,omitempty"`
	ProductName          *string     `json:"product_name,omitempty"`
	ComparisonValue      *float64    `json:"comparison_value,omitempty"`
	ComparisonPercentage *float64    `json:"comparison_percentage,omitempty"`
	Status               ValueStatus `json:"status" validate:"required,oneof=critical warning excellent neutral"`
	Source               ValueSource `json:"source" validate:"required,oneof=manual import api azure_devops"`
	ImportBatchID        *string     `json:"import_batch_id,omitempty"`
}

// ValueFilter narrows indicator value reads. Every present field is
// ANDed into the query; results are ordered by period_start descending.
type ValueFilter struct {
	IndicatorID    string `json:"indicator_id,omitempty" form:"indicator_id"`
	SquadID        string `json:"squad_id,omitempty" form:"squad_id"`
	PeriodStartMin string `json:"period_start,omitempty" form:"period_start"`
	PeriodEndMax   string `json:"period_end,omitempty" form:"period_end"`
	Limit          int    `json:"limit,omitempty" form:"limit"`
}

// ImportBatchStatus is the lifecycle state of a bulk import
type ImportBatchStatus string

// Import batch statuses
const (
	BatchProcessing ImportBatchStatus = "processing"
	BatchCompleted  ImportBatchStatus = "completed"
	BatchFailed     ImportBatchStatus = "failed"
)

// ImportBatch records the outcome of one bulk CSV import
type ImportBatch struct {
	ID           string            `json:"id" db:"id"`
	Filename     string            `json:"filename,omitempty" db:"filename"`
	RecordCount  int               `json:"record_count" db:"record_count"`
	SuccessCount int               `json:"success_count" db:"success_count"`
	ErrorCount   int               `json:"error_count" db:"error_count"`
	Status       ImportBatchStatus `json:"status" db:"status"`
	Errors       []string          `json:"errors,omitempty" db:"errors"`
	CreatedAt    time.Time         `json:"created_at" db:"created_at"`
	CreatedBy    *string           `json:"created_by,omitempty" db:"created_by"`
}
