package insights

import (
	"fmt"
	"strings"

	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/adherence"
)

// Render arma el reporte semanal en texto plano.
func Render(s WeeklySummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "\n========== WEEKLY SUMMARY FOR %s ==========\n", s.PatientName)
	fmt.Fprintf(&b, "Week starting: %s\n\n", adherence.FormatDate(s.WeekStart))

	for _, m := range s.Medications {
		fmt.Fprintf(&b, "MEDICATION: %s (%s)\n", m.Name, m.Dosage)
		b.WriteString("Daily Record: ")
		for i, d := range s.Days {
			symbol := "[ ]"
			if m.Taken[i] {
				symbol = "[X]"
			}
			fmt.Fprintf(&b, "%s %s ", d.Label, symbol)
		}
		fmt.Fprintf(&b, "\nAdherence: %d/%d days (%.1f%%)\n", m.TakenDays, DaysPerWeek, m.Adherence)
		fmt.Fprintf(&b, "Remaining: %d of %d doses\n\n", m.Remaining, m.TotalPrescribed)
	}

	b.WriteString("DAILY OVERVIEW:\n")
	for _, o := range s.Overview {
		fmt.Fprintf(&b, "%s: %d/%d medications taken", o.Day.Label, o.Taken, o.Total)
		if o.Taken < o.Total && len(o.Missed) > 0 {
			fmt.Fprintf(&b, " - MISSED: %s", strings.Join(o.Missed, ", "))
		}
		b.WriteByte('\n')
	}

	b.WriteString("\n==========================================\n")
	return b.String()
}
