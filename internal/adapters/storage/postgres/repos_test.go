package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/adherence"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/medications"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/patients"
)

// Requiere una base real: TEST_DB_DSN=postgres://... go test ./internal/adapters/storage/postgres/
func TestRepos_Integration(t *testing.T) {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}

	db, err := Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	owner := "owner-" + uuid.NewString()

	pSvc := patients.NewService(NewPatientsRepo(db))
	p, err := pSvc.Create(ctx, owner, "Rosa")
	require.NoError(t, err)
	_, err = pSvc.Create(ctx, owner, "rosa")
	assert.ErrorIs(t, err, patients.ErrAlreadyExists)

	mSvc := medications.NewService(NewMedicationsRepo(db))
	m, err := mSvc.Add(ctx, p.ID, medications.AddInput{Name: "Aspirin", Dosage: "1 pill", TimeOfDay: medications.Morning, Count: 1})
	require.NoError(t, err)

	dSvc := adherence.NewService(NewDoseLogsRepo(db), mSvc)
	res, err := dSvc.Record(ctx, p.ID, m.ID, "2024-01-01", true)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Medication.CurrentCount)

	res, err = dSvc.Record(ctx, p.ID, m.ID, "2024-01-02", true)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Medication.CurrentCount)

	from, _ := adherence.ParseDate("2024-01-01")
	to, _ := adherence.ParseDate("2024-01-07")
	logs, err := dSvc.ListRange(ctx, p.ID, from, to)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "2024-01-01", logs[0].Date)
}
