package flatfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/adapters/storage/memory"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/adherence"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/medications"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/patients"
)

func TestParseMeds_SkipsMalformed(t *testing.T) {
	in := "Aspirin,1 pill,Morning,28,30\n" +
		"broken line\n" +
		"\n" +
		"Syrup,5ml,Bedtime,abc,10\r\n" +
		"Too,many,fields,1,2,3\n"

	lines, skipped, err := ParseMeds(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 2, skipped)
	require.Len(t, lines, 2)
	assert.Equal(t, MedLine{Name: "Aspirin", Dosage: "1 pill", TimeOfDay: "Morning", Current: 28, Total: 30}, lines[0])
	assert.Equal(t, 0, lines[1].Current)
	assert.Equal(t, 10, lines[1].Total)
}

func TestParseLogs(t *testing.T) {
	in := "2024-01-01,Aspirin,1\n2024-01-02,Aspirin,0\nnope\n2024-01-03,Aspirin,yes\n"
	lines, skipped, err := ParseLogs(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, lines, 3)
	assert.True(t, lines[0].Taken)
	assert.False(t, lines[1].Taken)
	assert.False(t, lines[2].Taken)
}

func TestFormatRoundTrip(t *testing.T) {
	meds := []MedLine{{Name: "Aspirin", Dosage: "1 pill", TimeOfDay: "Morning", Current: 3, Total: 30}}
	assert.Equal(t, "Aspirin,1 pill,Morning,3,30\n", string(FormatMeds(meds)))

	logs := []LogLine{{Date: "2024-01-01", Medication: "Aspirin", Taken: true}}
	assert.Equal(t, "2024-01-01,Aspirin,1\n", string(FormatLogs(logs)))
}

func TestReadMissingFiles(t *testing.T) {
	dir := t.TempDir()
	meds, _, err := ReadMedsFile(filepath.Join(dir, "none_meds.txt"))
	require.NoError(t, err)
	assert.Empty(t, meds)
	logs, _, err := ReadLogsFile(filepath.Join(dir, "none_logs.txt"))
	require.NoError(t, err)
	assert.Empty(t, logs)
}

type services struct {
	patients *patients.Service
	meds     *medications.Service
	doses    *adherence.Service
	transfer *Transfer
}

func newServices() services {
	p := patients.NewService(memory.NewPatientRepo())
	m := medications.NewService(memory.NewMedicationRepo())
	d := adherence.NewService(memory.NewDoseLogRepo(), m)
	return services{patients: p, meds: m, doses: d, transfer: NewTransfer(p, m, d)}
}

func TestImportThenExport(t *testing.T) {
	ctx := context.Background()
	src := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(src, "Rosa_meds.txt"), []byte(
		"Aspirin,1 pill,Morning,28,30\nMelatonin,3mg,Bedtime,10,10\nbad\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(src, "Rosa_logs.txt"), []byte(
		"2024-01-01,Aspirin,1\n2024-01-01,Melatonin,0\n2024-W01-1,Aspirin,1\n2024-01-02,Ghost,1\n"), 0o600))

	s := newServices()
	stats, err := s.transfer.Import(ctx, "local", "Rosa", src)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Medications)
	assert.Equal(t, 2, stats.Logs)
	assert.Equal(t, 3, stats.Skipped)

	meds, err := s.meds.List(ctx, stats.Patient.ID, false)
	require.NoError(t, err)
	require.Len(t, meds, 2)
	assert.Equal(t, medications.Morning, meds[0].TimeOfDay)
	assert.Equal(t, 28, meds[0].CurrentCount, "restoring logs does not touch stock")

	// reimportar no duplica
	_, err = s.transfer.Import(ctx, "local", "Rosa", src)
	require.NoError(t, err)
	meds, err = s.meds.List(ctx, stats.Patient.ID, true)
	require.NoError(t, err)
	assert.Len(t, meds, 2)

	dst := t.TempDir()
	out, err := s.transfer.Export(ctx, stats.Patient, dst)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Medications)
	assert.Equal(t, 2, out.Logs)

	medsData, err := os.ReadFile(out.MedsPath)
	require.NoError(t, err)
	assert.Equal(t, "Aspirin,1 pill,Morning,28,30\nMelatonin,3mg,Bedtime,10,10\n", string(medsData))

	logsData, err := os.ReadFile(out.LogsPath)
	require.NoError(t, err)
	assert.Contains(t, string(logsData), "2024-01-01,Aspirin,1\n")
	assert.Contains(t, string(logsData), "2024-01-01,Melatonin,0\n")
}

func TestExportImport_RoundTripKeepsEveryMedication(t *testing.T) {
	ctx := context.Background()
	s := newServices()

	p, err := s.patients.Create(ctx, "local", "Rosa")
	require.NoError(t, err)

	_, err = s.meds.Add(ctx, p.ID, medications.AddInput{Name: "Aspirin", Dosage: "1 pill, with food", TimeOfDay: medications.Morning, Count: 5})
	require.ErrorIs(t, err, medications.ErrInvalidInput)

	med, err := s.meds.Add(ctx, p.ID, medications.AddInput{Name: "Aspirin", Dosage: "1 pill with food", TimeOfDay: medications.Morning, Count: 5})
	require.NoError(t, err)
	_, err = s.doses.Record(ctx, p.ID, med.ID, "2024-01-01", true)
	require.NoError(t, err)

	dir := t.TempDir()
	out, err := s.transfer.Export(ctx, p, dir)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Medications)

	fresh := newServices()
	stats, err := fresh.transfer.Import(ctx, "local", "Rosa", dir)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Medications)
	assert.Equal(t, 1, stats.Logs)
	assert.Equal(t, 0, stats.Skipped)

	meds, err := fresh.meds.List(ctx, stats.Patient.ID, false)
	require.NoError(t, err)
	require.Len(t, meds, 1)
	assert.Equal(t, "1 pill with food", meds[0].Dosage)
	assert.Equal(t, 4, meds[0].CurrentCount)
}

func TestExport_RefusesFieldsWithSeparators(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewMedicationRepo()
	meds := medications.NewService(repo)
	doses := adherence.NewService(memory.NewDoseLogRepo(), meds)
	tr := NewTransfer(patients.NewService(memory.NewPatientRepo()), meds, doses)

	// fila guardada antes de validar la dosis
	require.NoError(t, repo.Create(ctx, medications.Medication{
		ID: "m-1", PatientID: "p-1", Name: "Syrup", Dosage: "5ml, warm",
		TimeOfDay: medications.Bedtime, Status: medications.StatusActive,
	}))

	dir := t.TempDir()
	_, err := tr.Export(ctx, patients.Patient{ID: "p-1", Name: "Rosa"}, dir)
	assert.ErrorIs(t, err, ErrUnexportable)
	_, statErr := os.Stat(filepath.Join(dir, "Rosa_meds.txt"))
	assert.True(t, os.IsNotExist(statErr), "nothing is written")
}

func TestExport_StaysInsideDir(t *testing.T) {
	ctx := context.Background()
	s := newServices()

	p, err := s.patients.Create(ctx, "api-user", "../escape")
	require.NoError(t, err)

	root := t.TempDir()
	dir := filepath.Join(root, "out")
	out, err := s.transfer.Export(ctx, p, dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "escape_meds.txt"), out.MedsPath)
	assert.Equal(t, filepath.Join(dir, "escape_logs.txt"), out.LogsPath)
	_, err = os.Stat(filepath.Join(root, "escape_meds.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestFileNames_Sanitised(t *testing.T) {
	assert.Equal(t, "Rosa_Diaz_meds.txt", MedsFileName("Rosa Diaz"))
	assert.Equal(t, "escape_logs.txt", LogsFileName("../escape"))
	assert.Equal(t, "patient_meds.txt", MedsFileName("/"))
}

func TestImport_EmptyPatient(t *testing.T) {
	s := newServices()
	_, err := s.transfer.Import(context.Background(), "local", " ", t.TempDir())
	assert.ErrorIs(t, err, patients.ErrInvalidInput)
}
