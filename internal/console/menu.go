// Package console es la interfaz interactiva de texto para uso local
// (un cuidador frente a la terminal, sin servidor HTTP).
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/app"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/adherence"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/insights"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/medications"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/patients"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/platform/logger"
)

const (
	width = 50

	// LocalOwner es el dueño de los pacientes creados desde la consola.
	LocalOwner = "local"
)

// errQuit corta el loop cuando se cierra la entrada.
var errQuit = errors.New("console: input closed")

type Options struct {
	Owner     string
	ReportDir string
	Logger    logger.Logger
}

type Menu struct {
	svcs *app.Services
	in   *bufio.Reader
	out  io.Writer

	owner     string
	reportDir string
	log       logger.Logger

	patient patients.Patient
}

func New(svcs *app.Services, in io.Reader, out io.Writer, opts Options) *Menu {
	owner := strings.TrimSpace(opts.Owner)
	if owner == "" {
		owner = LocalOwner
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Menu{
		svcs:      svcs,
		in:        bufio.NewReader(in),
		out:       out,
		owner:     owner,
		reportDir: opts.ReportDir,
		log:       log,
	}
}

// Run pide el paciente y atiende el menú hasta "9" o fin de la entrada.
func (m *Menu) Run(ctx context.Context) error {
	err := m.run(ctx)
	if errors.Is(err, errQuit) {
		return nil
	}
	return err
}

func (m *Menu) run(ctx context.Context) error {
	m.separator()
	m.header(" MEDICATION TRACKER FOR SENIORS ")

	for m.patient.ID == "" {
		name, err := m.prompt("Enter patient name: \n")
		if err != nil {
			return err
		}
		if strings.TrimSpace(name) == "" {
			continue
		}
		p, err := m.svcs.Patients.EnsureByName(ctx, m.owner, name)
		if err != nil {
			m.printf("Error: %v\n", err)
			continue
		}
		m.patient = p
	}
	m.log.Debug("console session started", map[string]any{"patient_id": m.patient.ID})

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := m.home(ctx); err != nil {
			return err
		}

		choice, err := m.prompt("Choice (1-9): ")
		if err != nil {
			return err
		}

		switch strings.TrimSpace(choice) {
		case "1":
			err = m.todayScreen(ctx)
		case "2":
			err = m.markScreen(ctx, true)
		case "3":
			err = m.markScreen(ctx, false)
		case "4":
			err = m.listScreen(ctx)
		case "5":
			err = m.addScreen(ctx)
		case "6":
			err = m.refillScreen(ctx)
		case "7":
			err = m.weeklyScreen(ctx)
		case "8":
			err = m.saveReportScreen(ctx)
		case "9":
			m.separator()
			m.printf("Goodbye!\n")
			return nil
		default:
			m.printf("Invalid choice.\n")
			err = m.waitForEnter()
		}
		if err != nil {
			return err
		}
	}
}

func (m *Menu) today() string {
	return adherence.FormatDate(m.svcs.Adherence.Today())
}

func (m *Menu) home(ctx context.Context) error {
	m.separator()
	m.header(fmt.Sprintf(" Hello, %s ", m.patient.Name))

	day := m.svcs.Adherence.Today()
	status, err := m.svcs.Reminders.TodayStatus(ctx, m.patient.ID, day)
	if err != nil {
		return err
	}
	missed, err := m.svcs.Reminders.Missed(ctx, m.patient.ID, day)
	if err != nil {
		return err
	}

	m.printf("TODAY: %s\n", adherence.FormatDate(day))
	m.rule()
	switch {
	case len(missed) > 0:
		m.printf("REMINDERS - Please take:\n")
		for _, r := range missed {
			m.printf("   * %s\n", r)
		}
	case len(status) > 0:
		m.printf("All medications taken today!\n")
	default:
		m.printf("No medications scheduled.\n")
	}
	m.rule()
	m.printf("MENU:\n")
	m.printf("1. View Today's Medications\n")
	m.printf("2. Mark Medication as Taken\n")
	m.printf("3. Mark Medication as Missed\n")
	m.printf("4. View All Medications\n")
	m.printf("5. Add New Medication\n")
	m.printf("6. Refill Medication\n")
	m.printf("7. View Weekly Summary\n")
	m.printf("8. Save Weekly Report to File\n")
	m.printf("9. Exit\n")
	m.rule()
	return nil
}

func (m *Menu) todayScreen(ctx context.Context) error {
	m.separator()
	m.header(" TODAY'S MEDICATIONS ")

	status, err := m.svcs.Reminders.TodayStatus(ctx, m.patient.ID, m.svcs.Adherence.Today())
	if err != nil {
		return err
	}
	if len(status) == 0 {
		m.printf("No medications scheduled.\n")
	}
	for _, s := range status {
		symbol := "[ ] NOT TAKEN"
		if s.Taken {
			symbol = "[X] TAKEN"
		}
		m.printf("%s\n", s.Medication.Name)
		m.printf("   Status: %s\n", symbol)
		m.printf("   Details: %s\n", s.Details)
		if !s.Taken {
			m.printf("   *** %s\n", s.Reminder)
		}
		m.printf("\n")
	}
	return m.waitForEnter()
}

func (m *Menu) markScreen(ctx context.Context, taken bool) error {
	m.separator()
	if taken {
		m.header(" MARK AS TAKEN ")
	} else {
		m.header(" MARK AS MISSED ")
	}

	med, ok, err := m.pickMedication(ctx, "No medications to mark.")
	if err != nil || !ok {
		return err
	}

	if _, err := m.svcs.Adherence.Record(ctx, m.patient.ID, med.ID, m.today(), taken); err != nil {
		m.printf("Error: %v\n", err)
	} else if taken {
		m.printf("Recorded: %s taken\n", med.Name)
	} else {
		m.printf("Recorded: %s missed\n", med.Name)
	}
	return m.waitForEnter()
}

func (m *Menu) listScreen(ctx context.Context) error {
	m.separator()
	m.header(" ALL MEDICATIONS ")

	items, err := m.svcs.Medications.List(ctx, m.patient.ID, false)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		m.printf("No medications on record.\n")
	}
	for _, med := range items {
		m.printf("* %s\n", medications.Describe(med))
	}
	return m.waitForEnter()
}

func (m *Menu) addScreen(ctx context.Context) error {
	m.separator()
	m.header(" ADD NEW MEDICATION ")

	name, err := m.prompt("Medication name: ")
	if err != nil {
		return err
	}
	dosage, err := m.prompt("Dosage (e.g., '1 pill', '5ml'): ")
	if err != nil {
		return err
	}
	m.printf("Time of day:\n1. Morning\n2. Afternoon\n3. Evening\n4. Bedtime\n")
	slot, err := m.prompt("Select (1-4): ")
	if err != nil {
		return err
	}
	rawCount, err := m.prompt("Starting quantity: ")
	if err != nil {
		return err
	}
	count, convErr := strconv.Atoi(strings.TrimSpace(rawCount))
	if convErr != nil {
		count = medications.DefaultStartingCount
	}

	_, err = m.svcs.Medications.Add(ctx, m.patient.ID, medications.AddInput{
		Name:      name,
		Dosage:    dosage,
		TimeOfDay: medications.FromMenuChoice(slot),
		Count:     count,
	})
	if err != nil {
		m.printf("Error: %v\n", err)
	} else {
		m.printf("Medication added!\n")
	}
	return m.waitForEnter()
}

func (m *Menu) refillScreen(ctx context.Context) error {
	m.separator()
	m.header(" REFILL MEDICATION ")

	med, ok, err := m.pickMedication(ctx, "No medications to refill.")
	if err != nil || !ok {
		return err
	}

	raw, err := m.prompt("Amount to add: ")
	if err != nil {
		return err
	}
	amount, _ := strconv.Atoi(strings.TrimSpace(raw))

	if _, err := m.svcs.Medications.Refill(ctx, med.ID, amount); err != nil {
		m.printf("Error: %v\n", err)
	} else {
		m.printf("%s refilled!\n", med.Name)
	}
	return m.waitForEnter()
}

func (m *Menu) weeklyScreen(ctx context.Context) error {
	m.separator()
	m.header(" WEEKLY SUMMARY ")

	sum, err := m.svcs.Insights.Weekly(ctx, m.patient.ID, m.svcs.Insights.CurrentWeekStart())
	if err != nil {
		return err
	}
	m.printf("%s\n", insights.Render(sum))
	return m.waitForEnter()
}

func (m *Menu) saveReportScreen(ctx context.Context) error {
	m.separator()
	m.header(" SAVE WEEKLY REPORT ")

	path, err := m.svcs.Insights.SaveReport(ctx, m.patient.ID, m.svcs.Insights.CurrentWeekStart(), m.reportDir)
	if err != nil {
		m.printf("Error: %v\n", err)
	} else {
		m.printf("Report saved to: %s\n", path)
	}
	return m.waitForEnter()
}

// pickMedication lista los activos y lee el número elegido.
// ok=false si no hay medicamentos o la selección es inválida (ya se avisó y se esperó ENTER).
func (m *Menu) pickMedication(ctx context.Context, emptyMsg string) (medications.Medication, bool, error) {
	items, err := m.svcs.Medications.List(ctx, m.patient.ID, false)
	if err != nil {
		return medications.Medication{}, false, err
	}
	if len(items) == 0 {
		m.printf("%s\n", emptyMsg)
		return medications.Medication{}, false, m.waitForEnter()
	}

	for i, med := range items {
		m.printf("%d. %s\n", i+1, med.Name)
	}
	raw, err := m.prompt("Enter number: ")
	if err != nil {
		return medications.Medication{}, false, err
	}
	n, convErr := strconv.Atoi(strings.TrimSpace(raw))
	if convErr != nil || n < 1 || n > len(items) {
		m.printf("Invalid selection.\n")
		return medications.Medication{}, false, m.waitForEnter()
	}
	return items[n-1], true, nil
}

func (m *Menu) prompt(label string) (string, error) {
	m.printf("%s", label)
	line, err := m.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", errQuit
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (m *Menu) waitForEnter() error {
	_, err := m.prompt("\nPress ENTER to continue...\n")
	return err
}

func (m *Menu) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(m.out, format, args...)
}

func (m *Menu) separator() {
	m.printf("\n%s\n", strings.Repeat("=", width))
}

func (m *Menu) rule() {
	m.printf("%s\n", strings.Repeat("-", width))
}

// header centra text entre '=' hasta width columnas.
func (m *Menu) header(text string) {
	m.printf("\n%s\n", center(text, width, '='))
}

func center(text string, w int, fill rune) string {
	n := utf8.RuneCountInString(text)
	if n >= w {
		return text
	}
	left := (w - n) / 2
	right := w - n - left
	f := string(fill)
	return strings.Repeat(f, left) + text + strings.Repeat(f, right)
}
