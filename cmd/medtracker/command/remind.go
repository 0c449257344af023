package command

import (
	"errors"
	"fmt"

	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/medications"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/reminders"

	"github.com/spf13/cobra"
)

var remindSlot string

// remind sirve para dispararlo desde un cron del sistema en lugar de `serve`.
var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Send today's pending reminders for one time-of-day slot and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		slot := medications.ParseTimeOfDay(remindSlot)
		if slot == medications.AsNeeded {
			return errors.New("--slot must be morning, afternoon, evening or bedtime")
		}

		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.close()

		notifiers, err := buildNotifiers(rt)
		if err != nil {
			return err
		}
		// sin entradas cron: solo se usa RunSlot
		s, err := reminders.NewScheduler(rt.svcs.Reminders, reminders.Schedule{}, notifiers, rt.log)
		if err != nil {
			return err
		}
		n, err := s.RunSlot(cmd.Context(), slot)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Sent %d %s reminders\n", n, slot.Label())
		return nil
	},
}

func init() {
	remindCmd.Flags().StringVar(&remindSlot, "slot", "", "morning|afternoon|evening|bedtime")
	_ = remindCmd.MarkFlagRequired("slot")
	rootCmd.AddCommand(remindCmd)
}
