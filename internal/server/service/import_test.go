package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"wkmetrics/internal/types"
	"wkmetrics/internal/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// fakeSquadRepo serves a fixed squad list
type fakeSquadRepo struct {
	squads []*types.Squad
}

func (f *fakeSquadRepo) Save(context.Context, *types.Squad) error   { return nil }
func (f *fakeSquadRepo) Update(context.Context, *types.Squad) error { return nil }
func (f *fakeSquadRepo) FindByID(context.Context, string) (*types.Squad, error) {
	return nil, types.ErrSquadNotFound
}
func (f *fakeSquadRepo) List(context.Context) ([]*types.Squad, error) { return f.squads, nil }
func (f *fakeSquadRepo) Delete(context.Context, string) error         { return nil }

// fakeBatchRepo records saved batches
type fakeBatchRepo struct {
	saved []*types.ImportBatch
}

func (f *fakeBatchRepo) Save(_ context.Context, batch *types.ImportBatch) error {
	f.saved = append(f.saved, batch)
	return nil
}
func (f *fakeBatchRepo) FindByID(context.Context, string) (*types.ImportBatch, error) {
	return nil, types.ErrBatchNotFound
}
func (f *fakeBatchRepo) List(context.Context, int) ([]*types.ImportBatch, error) { return nil, nil }

// batchSavingValueRepo captures BatchSave payloads
type batchSavingValueRepo struct {
	fakeValueRepo
	batchSaved []*types.IndicatorValue
	batchErr   error
}

func (f *batchSavingValueRepo) BatchSave(_ context.Context, values []*types.IndicatorValue) error {
	if f.batchErr != nil {
		return f.batchErr
	}
	f.batchSaved = values
	return nil
}

const importHeader = "indicator_acronym,period_type,period_start,period_end,value,text_value,squad_name,product_name,status,comparison_value"

func importService(t *testing.T, values *batchSavingValueRepo, batches *fakeBatchRepo) *Service {
	return &Service{
		logger:   zaptest.NewLogger(t),
		validate: validator.New(),
		indicators: &fakeIndicatorRepo{indicators: []*types.Indicator{
			{ID: "ind-lt", Acronym: "LT", Name: "Lead Time"},
		}},
		squads:  &fakeSquadRepo{squads: []*types.Squad{{ID: "squad-alpha", Name: "Squad Alpha"}}},
		values:  values,
		batches: batches,
	}
}

func TestImportValuesPartialSuccess(t *testing.T) {
	values := &batchSavingValueRepo{}
	batches := &fakeBatchRepo{}
	svc := importService(t, values, batches)

	raw := strings.Join([]string{
		importHeader,
		"LT,mensal,2024-01-01,2024-01-31,4.5,,Squad Alpha,,excellent,",
		"XX,mensal,2024-01-01,2024-01-31,1.0,,,,neutral,",
	}, "\n")

	report, err := svc.ImportValues(context.Background(), raw, "values.csv", "user-1")
	require.NoError(t, err)

	require.NotNil(t, report.Batch)
	assert.Equal(t, types.BatchCompleted, report.Batch.Status)
	assert.Equal(t, 2, report.Batch.RecordCount)
	assert.Equal(t, 1, report.Batch.SuccessCount)
	assert.Equal(t, 1, report.Batch.ErrorCount)
	assert.Equal(t, "values.csv", report.Batch.Filename)
	require.NotNil(t, report.Batch.CreatedBy)
	assert.Equal(t, "user-1", *report.Batch.CreatedBy)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "'XX' not found")

	require.Len(t, values.batchSaved, 1)
	saved := values.batchSaved[0]
	assert.Equal(t, "ind-lt", saved.IndicatorID)
	assert.Equal(t, types.SourceImport, saved.Source)
	require.NotNil(t, saved.ImportBatchID)
	assert.Equal(t, report.Batch.ID, *saved.ImportBatchID)
	require.NotNil(t, saved.SquadID)
	assert.Equal(t, "squad-alpha", *saved.SquadID)

	require.Len(t, batches.saved, 1)
}

func TestImportValuesNothingToImport(t *testing.T) {
	values := &batchSavingValueRepo{}
	batches := &fakeBatchRepo{}
	svc := importService(t, values, batches)

	raw := strings.Join([]string{
		importHeader,
		"XX,mensal,2024-01-01,2024-01-31,1.0,,,,neutral,",
	}, "\n")

	report, err := svc.ImportValues(context.Background(), raw, "", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrNothingToImport))
	require.NotNil(t, report)
	assert.Nil(t, report.Batch)
	require.Len(t, report.Errors, 1)

	// Nothing persisted at all
	assert.Empty(t, values.batchSaved)
	assert.Empty(t, batches.saved)
}

func TestImportValuesRejectsInvalidRows(t *testing.T) {
	values := &batchSavingValueRepo{}
	batches := &fakeBatchRepo{}
	svc := importService(t, values, batches)

	// One good row, one with an unknown period type, one with the
	// period inverted. The bad rows join the error list instead of
	// persisting.
	raw := strings.Join([]string{
		importHeader,
		"LT,mensal,2024-01-01,2024-01-31,4.5,,,,neutral,",
		"LT,quinzenal,2024-01-01,2024-01-31,4.5,,,,neutral,",
		"LT,mensal,2024-01-31,2024-01-01,4.5,,,,neutral,",
	}, "\n")

	report, err := svc.ImportValues(context.Background(), raw, "", "")
	require.NoError(t, err)

	require.NotNil(t, report.Batch)
	assert.Equal(t, 3, report.Batch.RecordCount)
	assert.Equal(t, 1, report.Batch.SuccessCount)
	assert.Equal(t, 2, report.Batch.ErrorCount)
	require.Len(t, report.Errors, 2)
	assert.Contains(t, report.Errors[0], "Invalid record for indicator 'LT'")
	assert.Contains(t, report.Errors[1], "period_start is after period_end")

	require.Len(t, values.batchSaved, 1)
	assert.Equal(t, types.PeriodMensal, values.batchSaved[0].PeriodType)
}

func TestImportValuesOnlyInvalidRows(t *testing.T) {
	values := &batchSavingValueRepo{}
	batches := &fakeBatchRepo{}
	svc := importService(t, values, batches)

	raw := strings.Join([]string{
		importHeader,
		"LT,quinzenal,2024-01-01,2024-01-31,4.5,,,,neutral,",
	}, "\n")

	_, err := svc.ImportValues(context.Background(), raw, "", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrNothingToImport))
	assert.Empty(t, batches.saved)
}

func TestImportValuesBatchSaveFailure(t *testing.T) {
	values := &batchSavingValueRepo{batchErr: errors.New("disk full")}
	batches := &fakeBatchRepo{}
	svc := importService(t, values, batches)

	raw := strings.Join([]string{
		importHeader,
		"LT,mensal,2024-01-01,2024-01-31,4.5,,,,neutral,",
	}, "\n")

	_, err := svc.ImportValues(context.Background(), raw, "", "")
	require.Error(t, err)

	// The batch is still recorded, marked as failed
	require.Len(t, batches.saved, 1)
	assert.Equal(t, types.BatchFailed, batches.saved[0].Status)
	assert.Equal(t, 0, batches.saved[0].SuccessCount)
}

func TestImportTemplate(t *testing.T) {
	svc := &Service{logger: zaptest.NewLogger(t)}

	template := svc.ImportTemplate()
	assert.True(t, strings.HasPrefix(template, importHeader))
}
