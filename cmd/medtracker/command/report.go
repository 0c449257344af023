package command

import (
	"fmt"
	"strings"
	"time"

	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/console"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/adherence"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/insights"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/patients"

	"github.com/spf13/cobra"
)

var (
	patientName string
	ownerID     string
	weekStart   string
	saveReport  bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print (or save) the weekly adherence report for a patient",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.close()

		p, err := findPatient(cmd, rt)
		if err != nil {
			return err
		}
		start, err := parseWeekStart(rt)
		if err != nil {
			return err
		}

		if saveReport {
			path, err := rt.svcs.Insights.SaveReport(cmd.Context(), p.ID, start, rt.cfg.ReportDir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report saved to: %s\n", path)
			return nil
		}

		sum, err := rt.svcs.Insights.Weekly(cmd.Context(), p.ID, start)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), insights.Render(sum))
		return nil
	},
}

func init() {
	addPatientFlags(reportCmd)
	reportCmd.Flags().StringVar(&weekStart, "week-start", "", "First day of the week (YYYY-MM-DD); default this week's Monday")
	reportCmd.Flags().BoolVar(&saveReport, "save", false, "Write the report to REPORT_DIR instead of stdout")
	rootCmd.AddCommand(reportCmd)
}

func addPatientFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&patientName, "patient", "p", "", "Patient name")
	cmd.Flags().StringVar(&ownerID, "owner", console.LocalOwner, "Owner user id")
	_ = cmd.MarkFlagRequired("patient")
}

func findPatient(cmd *cobra.Command, rt *deps) (patients.Patient, error) {
	p, err := rt.repos.Patients.GetByName(cmd.Context(), strings.TrimSpace(ownerID), strings.TrimSpace(patientName))
	if err != nil {
		return patients.Patient{}, fmt.Errorf("patient %q: %w", patientName, err)
	}
	return p, nil
}

func parseWeekStart(rt *deps) (time.Time, error) {
	if strings.TrimSpace(weekStart) == "" {
		return rt.svcs.Insights.CurrentWeekStart(), nil
	}
	t, err := adherence.ParseDate(weekStart)
	if err != nil {
		return time.Time{}, fmt.Errorf("--week-start must be YYYY-MM-DD: %w", err)
	}
	return t, nil
}
