package medications

import (
	"context"
	"strings"
	"testing"
	"time"
)

type testRepo struct {
	byID map[string]Medication
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Medication{}}
}

func (r *testRepo) Create(ctx context.Context, m Medication) error {
	r.byID[m.ID] = m
	return nil
}

func (r *testRepo) Update(ctx context.Context, m Medication) error {
	if _, ok := r.byID[m.ID]; !ok {
		return ErrNotFound
	}
	r.byID[m.ID] = m
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Medication, error) {
	m, ok := r.byID[id]
	if !ok {
		return Medication{}, ErrNotFound
	}
	return m, nil
}

func (r *testRepo) GetByName(ctx context.Context, patientID, name string) (Medication, error) {
	for _, m := range r.byID {
		if m.PatientID == patientID && strings.EqualFold(m.Name, name) {
			return m, nil
		}
	}
	return Medication{}, ErrNotFound
}

func (r *testRepo) ListByPatient(ctx context.Context, patientID string) ([]Medication, error) {
	out := make([]Medication, 0)
	for _, m := range r.byID {
		if m.PatientID == patientID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *testRepo) AdjustStock(ctx context.Context, id string, currentDelta, totalDelta int, at time.Time) error {
	m, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	m.CurrentCount = max(m.CurrentCount+currentDelta, 0)
	m.TotalPrescribed += totalDelta
	m.UpdatedAt = at
	r.byID[id] = m
	return nil
}

func newTestService() *Service {
	svc := NewService(newTestRepo())
	now := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	return svc
}

func TestService_Add_SetsCountsAndDefaults(t *testing.T) {
	svc := newTestService()

	m, err := svc.Add(context.Background(), "patient-1", AddInput{
		Name:      " Aspirin ",
		Dosage:    "1 pill",
		TimeOfDay: "Evening",
		Count:     20,
	})
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if m.Name != "Aspirin" || m.TimeOfDay != Evening {
		t.Fatalf("unexpected medication %#v", m)
	}
	if m.CurrentCount != 20 || m.TotalPrescribed != 20 {
		t.Fatalf("expected 20/20, got %d/%d", m.CurrentCount, m.TotalPrescribed)
	}
	if m.Status != StatusActive {
		t.Fatalf("expected active, got %s", m.Status)
	}
}

func TestService_Add_Rejects(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.Add(ctx, "patient-1", AddInput{Name: ""}); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for empty name, got %v", err)
	}
	if _, err := svc.Add(ctx, "patient-1", AddInput{Name: "a,b"}); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for comma, got %v", err)
	}
	if _, err := svc.Add(ctx, "patient-1", AddInput{Name: "X", Dosage: "1 pill, with food"}); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for comma in dosage, got %v", err)
	}
	if _, err := svc.Add(ctx, "patient-1", AddInput{Name: "X", Dosage: "1 pill\nmore"}); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for newline in dosage, got %v", err)
	}
	if _, err := svc.ImportOrUpdate(ctx, "patient-1", ImportRecord{Name: "X", Dosage: "a,b"}); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for comma in imported dosage, got %v", err)
	}
	if _, err := svc.Add(ctx, "patient-1", AddInput{Name: "X", Count: -1}); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for negative count, got %v", err)
	}
	if _, err := svc.Add(ctx, "patient-1", AddInput{Name: "Aspirin"}); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if _, err := svc.Add(ctx, "patient-1", AddInput{Name: "ASPIRIN"}); err != ErrAlreadyExists {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestService_RefillAndConsume(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	m, _ := svc.Add(ctx, "patient-1", AddInput{Name: "Metformin", Count: 1})

	m, err := svc.ConsumeDose(ctx, m.ID)
	if err != nil || m.CurrentCount != 0 {
		t.Fatalf("ConsumeDose = %d, %v", m.CurrentCount, err)
	}
	// Nunca negativo.
	m, err = svc.ConsumeDose(ctx, m.ID)
	if err != nil || m.CurrentCount != 0 {
		t.Fatalf("ConsumeDose at zero = %d, %v", m.CurrentCount, err)
	}

	m, err = svc.Refill(ctx, m.ID, 10)
	if err != nil {
		t.Fatalf("Refill: %v", err)
	}
	if m.CurrentCount != 10 || m.TotalPrescribed != 11 {
		t.Fatalf("expected 10/11 after refill, got %d/%d", m.CurrentCount, m.TotalPrescribed)
	}

	if _, err := svc.Refill(ctx, m.ID, 0); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for zero refill, got %v", err)
	}
	if _, err := svc.Refill(ctx, "missing", 5); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_List_OrderAndDiscontinued(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, _ = svc.Add(ctx, "p", AddInput{Name: "Zinc", TimeOfDay: Bedtime})
	_, _ = svc.Add(ctx, "p", AddInput{Name: "Vitamin D", TimeOfDay: Morning})
	b, _ := svc.Add(ctx, "p", AddInput{Name: "Aspirin", TimeOfDay: Morning})
	_, _ = svc.Add(ctx, "p", AddInput{Name: "Ibuprofen", TimeOfDay: AsNeeded})
	_, _ = svc.Add(ctx, "other", AddInput{Name: "Other"})

	if _, err := svc.Discontinue(ctx, b.ID); err != nil {
		t.Fatalf("Discontinue: %v", err)
	}

	active, err := svc.List(ctx, "p", false)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	got := names(active)
	want := "Vitamin D,Zinc,Ibuprofen"
	if got != want {
		t.Fatalf("active order = %s, want %s", got, want)
	}

	all, _ := svc.List(ctx, "p", true)
	if got := names(all); got != "Aspirin,Vitamin D,Zinc,Ibuprofen" {
		t.Fatalf("all order = %s", got)
	}
}

func TestService_ImportOrUpdate(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	first, err := svc.ImportOrUpdate(ctx, "p", ImportRecord{Name: "Aspirin", Dosage: "1 pill", TimeOfDay: "Morning", CurrentCount: 5, TotalPrescribed: 30})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	second, err := svc.ImportOrUpdate(ctx, "p", ImportRecord{Name: "aspirin", Dosage: "2 pills", TimeOfDay: "Bedtime", CurrentCount: 3, TotalPrescribed: 40})
	if err != nil {
		t.Fatalf("re-import: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected update in place")
	}
	if second.Dosage != "2 pills" || second.TimeOfDay != Bedtime || second.CurrentCount != 3 || second.TotalPrescribed != 40 {
		t.Fatalf("unexpected updated medication %#v", second)
	}
}

func TestParseTimeOfDay(t *testing.T) {
	cases := map[string]TimeOfDay{
		"morning":   Morning,
		"Afternoon": Afternoon,
		"As needed": AsNeeded,
		"bedtime":   Bedtime,
		"noon":      AsNeeded,
	}
	for in, want := range cases {
		if got := ParseTimeOfDay(in); got != want {
			t.Fatalf("ParseTimeOfDay(%q) = %s, want %s", in, got, want)
		}
	}
	if FromMenuChoice("3") != Evening || FromMenuChoice("9") != AsNeeded {
		t.Fatalf("FromMenuChoice mapping broken")
	}
}

func TestDescribe(t *testing.T) {
	got := Describe(Medication{Name: "Aspirin", Dosage: "1 pill", TimeOfDay: Morning, CurrentCount: 29})
	if got != "Aspirin - 1 pill at Morning (29 left)" {
		t.Fatalf("Describe = %q", got)
	}
}

func names(items []Medication) string {
	out := make([]string, 0, len(items))
	for _, m := range items {
		out = append(out, m.Name)
	}
	return strings.Join(out, ",")
}
