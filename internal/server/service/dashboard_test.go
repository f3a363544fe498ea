package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"wkmetrics/internal/database"
	"wkmetrics/internal/server/repository"
	"wkmetrics/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// fakeDashboardStore is a scriptable chain tier
type fakeDashboardStore struct {
	data       *types.DashboardData
	loadErr    error
	storeErr   error
	loadCalls  int
	storeCalls int
}

func (f *fakeDashboardStore) Load(_ context.Context, _ string) (*types.DashboardData, error) {
	f.loadCalls++
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.data, nil
}

func (f *fakeDashboardStore) Store(_ context.Context, _ string, _ *types.DashboardData) error {
	f.storeCalls++
	return f.storeErr
}

func newTestChain(t *testing.T, tiers ...*fakeDashboardStore) *DashboardStore {
	names := []string{"procedure", "function", "table"}
	store := &DashboardStore{logger: zaptest.NewLogger(t)}
	for i, tier := range tiers {
		store.strategies = append(store.strategies, dashboardStrategy{
			name:  names[i],
			store: tier,
		})
	}
	return store
}

func storedData() *types.DashboardData {
	data := types.DefaultDashboardData()
	data.Cards.CriticalBugs.Value = "99"
	return data
}

func TestDashboardLoadMissingSchemaFallsThrough(t *testing.T) {
	procedure := &fakeDashboardStore{loadErr: errors.New(`function get_dashboard_data(unknown) does not exist`)}
	function := &fakeDashboardStore{data: storedData()}
	table := &fakeDashboardStore{data: types.DefaultDashboardData()}

	store := newTestChain(t, procedure, function, table)

	data, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "99", data.Cards.CriticalBugs.Value)
	assert.Equal(t, 1, procedure.loadCalls)
	assert.Equal(t, 1, function.loadCalls)
	assert.Equal(t, 0, table.loadCalls)
}

func TestDashboardLoadSchemaCacheErrorFallsThrough(t *testing.T) {
	procedure := &fakeDashboardStore{loadErr: errors.New("could not find the function in the schema cache")}
	table := &fakeDashboardStore{data: storedData()}

	store := newTestChain(t, procedure, table)

	data, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "99", data.Cards.CriticalBugs.Value)
}

func TestDashboardLoadUnrelatedErrorDegradesToDefault(t *testing.T) {
	procedure := &fakeDashboardStore{loadErr: errors.New("connection refused")}
	table := &fakeDashboardStore{data: storedData()}

	store := newTestChain(t, procedure, table)

	data, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.DefaultDashboardData(), data)
	assert.Equal(t, 0, table.loadCalls)
}

func TestDashboardLoadNoRowsShortCircuits(t *testing.T) {
	procedure := &fakeDashboardStore{loadErr: sql.ErrNoRows}
	table := &fakeDashboardStore{data: storedData()}

	store := newTestChain(t, procedure, table)

	data, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.DefaultDashboardData(), data)
	assert.Equal(t, 0, table.loadCalls)
}

func TestDashboardLoadAllTiersExhausted(t *testing.T) {
	procedure := &fakeDashboardStore{loadErr: errors.New("get_dashboard_data missing")}
	function := &fakeDashboardStore{loadErr: errors.New("endpoint unreachable")}
	table := &fakeDashboardStore{loadErr: errors.New("table gone")}

	store := newTestChain(t, procedure, function, table)

	data, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.DefaultDashboardData(), data)
	assert.Equal(t, 1, table.loadCalls)
}

func TestDashboardStoreFallsThroughToTable(t *testing.T) {
	procedure := &fakeDashboardStore{storeErr: errors.New(`function upsert_dashboard_data(unknown, unknown) does not exist`)}
	function := &fakeDashboardStore{storeErr: errors.New("endpoint unreachable")}
	table := &fakeDashboardStore{}

	store := newTestChain(t, procedure, function, table)

	err := store.Store(context.Background(), storedData())
	require.NoError(t, err)
	assert.Equal(t, 1, procedure.storeCalls)
	assert.Equal(t, 1, function.storeCalls)
	assert.Equal(t, 1, table.storeCalls)
}

func TestDashboardStoreUnrelatedErrorFailsFast(t *testing.T) {
	procedure := &fakeDashboardStore{storeErr: errors.New("deadlock detected")}
	table := &fakeDashboardStore{}

	store := newTestChain(t, procedure, table)

	err := store.Store(context.Background(), storedData())
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrPersistence))
	assert.Equal(t, 0, table.storeCalls)
}

func TestDashboardStoreAllTiersExhausted(t *testing.T) {
	procedure := &fakeDashboardStore{storeErr: errors.New("upsert_dashboard_data missing")}
	table := &fakeDashboardStore{storeErr: errors.New("disk full")}

	store := newTestChain(t, procedure, table)

	err := store.Store(context.Background(), storedData())
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrPersistence))
}

func TestIsMissingSchema(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want bool
	}{
		{name: "procedure name lowercase", err: errors.New("function get_dashboard_data does not exist"), want: true},
		{name: "procedure name uppercase", err: errors.New("GET_DASHBOARD_DATA not found"), want: true},
		{name: "upsert procedure", err: errors.New("upsert_dashboard_data missing"), want: true},
		{name: "schema cache message", err: errors.New("could not find function in Schema Cache"), want: true},
		{name: "unrelated failure", err: errors.New("connection refused"), want: false},
		{
			name: "wrapped missing routine",
			err:  fmt.Errorf("dashboard procedure load failed: %w", errors.New("no such function: get_dashboard_data")),
			want: true,
		},
		{
			name: "wrapped unrelated load failure",
			err:  fmt.Errorf("dashboard procedure load failed: %w", errors.New("sql: database is closed")),
			want: false,
		},
		{
			name: "wrapped unrelated store failure",
			err:  fmt.Errorf("dashboard procedure store failed: %w", errors.New("driver: bad connection")),
			want: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, isMissingSchema(tc.err))
		})
	}
}

// openDashboardDB opens a throwaway sqlite database carrying only the
// dashboard_data table, so the procedure tier fails the way it does on
// any schema without the stored routines.
func openDashboardDB(t *testing.T) database.Interface {
	t.Helper()

	db, err := database.NewSQLiteDatabase(
		filepath.Join(t.TempDir(), "dashboard.db"), database.Options{}, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})

	_, err = db.ExecContext(context.Background(),
		`CREATE TABLE dashboard_data (
			id TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			updated_at TIMESTAMP
		)`)
	require.NoError(t, err)

	return db
}

func newRealChain(t *testing.T, db database.Interface) *DashboardStore {
	t.Helper()

	logger := zaptest.NewLogger(t)
	return &DashboardStore{
		logger: logger,
		strategies: []dashboardStrategy{
			{name: "procedure", store: repository.NewProcedureDashboardRepository(db, logger)},
			{name: "table", store: repository.NewDashboardRepository(db, logger)},
		},
	}
}

func TestDashboardChainMissingRoutineFallsToTable(t *testing.T) {
	db := openDashboardDB(t)
	chain := newRealChain(t, db)

	// sqlite reports the missing routine by name, so the write falls
	// through to the table tier and lands there
	require.NoError(t, chain.Store(context.Background(), storedData()))

	loaded, err := chain.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "99", loaded.Cards.CriticalBugs.Value)
}

func TestDashboardChainClosedStoreIsNotMissingSchema(t *testing.T) {
	db := openDashboardDB(t)
	chain := newRealChain(t, db)
	require.NoError(t, db.Close())

	// A closed handle fails the procedure tier for an unrelated reason:
	// the read degrades to the default without touching older tiers
	loaded, err := chain.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.DefaultDashboardData(), loaded)

	// and the write fails fast instead of falling through
	err = chain.Store(context.Background(), storedData())
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrPersistence))
}
