package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/adherence"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/medications"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/patients"
)

func openTestDB(t *testing.T) (*PatientsRepo, *MedicationsRepo, *DoseLogsRepo) {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"), DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPatientsRepo(db), NewMedicationsRepo(db), NewDoseLogsRepo(db)
}

func TestOpen_MigrateIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.db")
	for i := 0; i < 2; i++ {
		db, err := Open(path, DefaultConfig())
		require.NoError(t, err)
		require.NoError(t, db.Close())
	}
}

func TestPatientsRepo(t *testing.T) {
	pr, _, _ := openTestDB(t)
	svc := patients.NewService(pr)
	ctx := context.Background()

	p, err := svc.Create(ctx, "owner-1", "Rosa")
	require.NoError(t, err)

	_, err = svc.Create(ctx, "owner-1", "ROSA")
	assert.ErrorIs(t, err, patients.ErrAlreadyExists)

	got, err := pr.GetByName(ctx, "owner-1", "rosa")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.WithinDuration(t, p.CreatedAt, got.CreatedAt, time.Millisecond)

	_, err = pr.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, patients.ErrNotFound)

	_, err = svc.Create(ctx, "owner-2", "Luis")
	require.NoError(t, err)

	mine, err := pr.ListByOwner(ctx, "owner-1")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := pr.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMedicationsRepo_StockAndStatus(t *testing.T) {
	pr, mr, _ := openTestDB(t)
	ctx := context.Background()

	p, err := patients.NewService(pr).Create(ctx, "owner-1", "Rosa")
	require.NoError(t, err)

	svc := medications.NewService(mr)
	m, err := svc.Add(ctx, p.ID, medications.AddInput{Name: "Aspirin", Dosage: "1 pill", TimeOfDay: medications.Morning, Count: 2})
	require.NoError(t, err)

	_, err = svc.Add(ctx, p.ID, medications.AddInput{Name: "aspirin", Count: 1})
	assert.ErrorIs(t, err, medications.ErrAlreadyExists)

	for i := 0; i < 3; i++ {
		_, err = svc.ConsumeDose(ctx, m.ID)
		require.NoError(t, err)
	}
	got, err := svc.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.CurrentCount)

	got, err = svc.Refill(ctx, m.ID, 30)
	require.NoError(t, err)
	assert.Equal(t, 30, got.CurrentCount)
	assert.Equal(t, 32, got.TotalPrescribed)

	_, err = svc.Discontinue(ctx, m.ID)
	require.NoError(t, err)
	active, err := svc.List(ctx, p.ID, false)
	require.NoError(t, err)
	assert.Empty(t, active)

	assert.ErrorIs(t, mr.AdjustStock(ctx, "missing", -1, 0, time.Now()), medications.ErrNotFound)
}

func TestMedicationsRepo_ConcurrentConsume(t *testing.T) {
	pr, mr, _ := openTestDB(t)
	ctx := context.Background()

	p, err := patients.NewService(pr).Create(ctx, "owner-1", "Rosa")
	require.NoError(t, err)
	svc := medications.NewService(mr)
	m, err := svc.Add(ctx, p.ID, medications.AddInput{Name: "Aspirin", Count: 20})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.ConsumeDose(ctx, m.ID)
		}()
	}
	wg.Wait()

	got, err := svc.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.CurrentCount)
}

func TestDoseLogsRepo_UpsertAndRange(t *testing.T) {
	pr, mr, dr := openTestDB(t)
	ctx := context.Background()

	p, err := patients.NewService(pr).Create(ctx, "owner-1", "Rosa")
	require.NoError(t, err)
	mSvc := medications.NewService(mr)
	m, err := mSvc.Add(ctx, p.ID, medications.AddInput{Name: "Aspirin", Count: 10})
	require.NoError(t, err)

	dSvc := adherence.NewService(dr, mSvc)
	first, err := dSvc.Record(ctx, p.ID, m.ID, "2024-01-01", false)
	require.NoError(t, err)
	second, err := dSvc.Record(ctx, p.ID, m.ID, "2024-01-01", true)
	require.NoError(t, err)
	assert.Equal(t, first.Log.ID, second.Log.ID)
	assert.Equal(t, 9, second.Medication.CurrentCount)

	_, err = dSvc.Record(ctx, p.ID, m.ID, "2024-01-05", true)
	require.NoError(t, err)

	from, _ := adherence.ParseDate("2024-01-01")
	to, _ := adherence.ParseDate("2024-01-03")
	logs, err := dSvc.ListRange(ctx, p.ID, from, to)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.True(t, logs[0].Taken)
	assert.Equal(t, "2024-01-01", logs[0].Date)

	_, err = dr.Get(ctx, m.ID, "2024-02-01")
	assert.ErrorIs(t, err, adherence.ErrNotFound)
}
