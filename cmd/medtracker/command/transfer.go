package command

import (
	"fmt"

	"github.com/spf13/cobra"
)

var transferDir string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import <patient>_meds.txt and <patient>_logs.txt from a directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.close()

		stats, err := rt.svcs.Transfer.Import(cmd.Context(), ownerID, patientName, transferDir)
		if err != nil {
			return err
		}
		rt.log.Info("import finished", map[string]any{
			"patient_id":  stats.Patient.ID,
			"medications": stats.Medications,
			"logs":        stats.Logs,
			"skipped":     stats.Skipped,
		})
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d medications and %d dose logs for %s (%d lines skipped)\n",
			stats.Medications, stats.Logs, stats.Patient.Name, stats.Skipped)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a patient to the legacy flat-file format",
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
		stats, err := rt.svcs.Transfer.Export(cmd.Context(), p, transferDir)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d medications to %s\nExported %d dose logs to %s\n",
			stats.Medications, stats.MedsPath, stats.Logs, stats.LogsPath)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{importCmd, exportCmd} {
		addPatientFlags(c)
		c.Flags().StringVar(&transferDir, "dir", ".", "Directory holding the flat files")
		rootCmd.AddCommand(c)
	}
}
