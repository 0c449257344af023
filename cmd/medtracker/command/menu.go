package command

import (
	"os"

	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/console"

	"github.com/spf13/cobra"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Interactive text menu for a single patient",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.close()

		m := console.New(rt.svcs, os.Stdin, cmd.OutOrStdout(), console.Options{
			ReportDir: rt.cfg.ReportDir,
			Logger:    rt.log,
		})
		return m.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(menuCmd)
}
