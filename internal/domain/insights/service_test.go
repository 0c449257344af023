package insights_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/adapters/storage/memory"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/adherence"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/insights"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/medications"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/patients"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/middleware"
)

// 2024-01-01 es lunes.
var monday = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type fixture struct {
	patients *patients.Service
	insights *insights.Service
	patient  patients.Patient
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()

	pSvc := patients.NewService(memory.NewPatientRepo())
	mSvc := medications.NewService(memory.NewMedicationRepo())
	dSvc := adherence.NewService(memory.NewDoseLogRepo(), mSvc)

	p, err := pSvc.Create(ctx, "owner-1", "Rosa Diaz")
	require.NoError(t, err)

	aspirin, err := mSvc.Add(ctx, p.ID, medications.AddInput{Name: "Aspirin", Dosage: "1 pill", TimeOfDay: medications.Morning, Count: 10})
	require.NoError(t, err)
	melatonin, err := mSvc.Add(ctx, p.ID, medications.AddInput{Name: "Melatonin", Dosage: "3mg", TimeOfDay: medications.Bedtime, Count: 10})
	require.NoError(t, err)
	old, err := mSvc.Add(ctx, p.ID, medications.AddInput{Name: "Old Syrup", Dosage: "5ml", TimeOfDay: medications.Evening, Count: 10})
	require.NoError(t, err)
	_, err = mSvc.Discontinue(ctx, old.ID)
	require.NoError(t, err)

	for _, d := range []string{"2024-01-01", "2024-01-02", "2024-01-03"} {
		_, err := dSvc.Record(ctx, p.ID, aspirin.ID, d, true)
		require.NoError(t, err)
	}
	_, err = dSvc.Record(ctx, p.ID, melatonin.ID, "2024-01-01", true)
	require.NoError(t, err)
	_, err = dSvc.Record(ctx, p.ID, melatonin.ID, "2024-01-02", false)
	require.NoError(t, err)
	// fuera de la semana
	_, err = dSvc.Record(ctx, p.ID, melatonin.ID, "2024-01-08", true)
	require.NoError(t, err)

	return fixture{
		patients: pSvc,
		insights: insights.NewService(pSvc, mSvc, dSvc),
		patient:  p,
	}
}

func TestWeekStartFor(t *testing.T) {
	tests := map[string]string{
		"2024-01-01": "2024-01-01",
		"2024-01-03": "2024-01-01",
		"2024-01-07": "2024-01-01",
		"2024-01-08": "2024-01-08",
	}
	for in, want := range tests {
		d, err := adherence.ParseDate(in)
		require.NoError(t, err)
		assert.Equal(t, want, adherence.FormatDate(insights.WeekStartFor(d)), "WeekStartFor(%s)", in)
	}
}

func TestWeekly_Summary(t *testing.T) {
	f := newFixture(t)

	sum, err := f.insights.Weekly(context.Background(), f.patient.ID, monday)
	require.NoError(t, err)

	assert.Equal(t, "Rosa Diaz", sum.PatientName)
	assert.Equal(t, "Mon", sum.Days[0].Label)
	assert.Equal(t, "Sun", sum.Days[6].Label)

	// el discontinuado no aparece
	require.Len(t, sum.Medications, 2)

	aspirin := sum.Medications[0]
	assert.Equal(t, "Aspirin", aspirin.Name)
	assert.Equal(t, [7]bool{true, true, true}, aspirin.Taken)
	assert.Equal(t, 3, aspirin.TakenDays)
	assert.InDelta(t, 42.857, aspirin.Adherence, 0.01)
	assert.Equal(t, 7, aspirin.Remaining)
	assert.Equal(t, 10, aspirin.TotalPrescribed)

	melatonin := sum.Medications[1]
	assert.Equal(t, 1, melatonin.TakenDays)
	assert.Equal(t, 8, melatonin.Remaining)

	assert.Equal(t, 2, sum.Overview[0].Taken)
	assert.Empty(t, sum.Overview[0].Missed)
	assert.Equal(t, 1, sum.Overview[1].Taken)
	assert.Equal(t, []string{"Melatonin at Bedtime"}, sum.Overview[1].Missed)
	assert.Equal(t, []string{"Aspirin at Morning", "Melatonin at Bedtime"}, sum.Overview[6].Missed)

	assert.InDelta(t, 4.0/14.0*100, sum.Overall, 0.01)
}

func TestWeekly_UnknownPatient(t *testing.T) {
	f := newFixture(t)
	_, err := f.insights.Weekly(context.Background(), "missing", monday)
	assert.ErrorIs(t, err, patients.ErrNotFound)
}

func TestRender_Layout(t *testing.T) {
	f := newFixture(t)
	sum, err := f.insights.Weekly(context.Background(), f.patient.ID, monday)
	require.NoError(t, err)

	out := insights.Render(sum)
	assert.Contains(t, out, "========== WEEKLY SUMMARY FOR Rosa Diaz ==========")
	assert.Contains(t, out, "Week starting: 2024-01-01")
	assert.Contains(t, out, "MEDICATION: Aspirin (1 pill)")
	assert.Contains(t, out, "Daily Record: Mon [X] Tue [X] Wed [X] Thu [ ] Fri [ ] Sat [ ] Sun [ ] ")
	assert.Contains(t, out, "Adherence: 3/7 days (42.9%)")
	assert.Contains(t, out, "Remaining: 7 of 10 doses")
	assert.Contains(t, out, "DAILY OVERVIEW:")
	assert.Contains(t, out, "Mon: 2/2 medications taken\n")
	assert.Contains(t, out, "Tue: 1/2 medications taken - MISSED: Melatonin at Bedtime")
	assert.NotContains(t, out, "Old Syrup")
}

func TestSaveReport_WritesFile(t *testing.T) {
	f := newFixture(t)
	dir := filepath.Join(t.TempDir(), "reports")

	path, err := f.insights.SaveReport(context.Background(), f.patient.ID, monday, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Rosa_Diaz_weekly_report_2024-01-01.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "WEEKLY SUMMARY FOR Rosa Diaz")
}

func TestReportFileName(t *testing.T) {
	assert.Equal(t, "patient_weekly_report_2024-01-01.txt", insights.ReportFileName("  ", monday))
	assert.Equal(t, "Ana_Mar_a_weekly_report_2024-01-01.txt", insights.ReportFileName("Ana María", monday))
}

func newRouter(f fixture, reportDir string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.AuthContext(nil))
	insights.RegisterRoutes(r, f.insights, f.patients, reportDir)
	return r
}

func TestWeeklyHandler(t *testing.T) {
	f := newFixture(t)
	r := newRouter(f, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/patients/"+f.patient.ID+"/insights/weekly?week_start=2024-01-01&format=text", nil)
	req.Header.Set("X-Debug-User-ID", "owner-1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))
	assert.Contains(t, rec.Body.String(), "Adherence: 3/7 days")

	req = httptest.NewRequest(http.MethodGet, "/patients/"+f.patient.ID+"/insights/weekly?week_start=bad", nil)
	req.Header.Set("X-Debug-User-ID", "owner-1")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/patients/"+f.patient.ID+"/insights/weekly", nil)
	req.Header.Set("X-Debug-User-ID", "someone-else")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSaveReportHandler(t *testing.T) {
	f := newFixture(t)
	dir := t.TempDir()
	r := newRouter(f, dir)

	req := httptest.NewRequest(http.MethodPost, "/patients/"+f.patient.ID+"/insights/weekly/report", strings.NewReader(`{"week_start":"2024-01-01"}`))
	req.Header.Set("X-Debug-User-ID", "owner-1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "Rosa_Diaz_weekly_report_2024-01-01.txt")

	_, err := os.Stat(filepath.Join(dir, "Rosa_Diaz_weekly_report_2024-01-01.txt"))
	assert.NoError(t, err)
}
