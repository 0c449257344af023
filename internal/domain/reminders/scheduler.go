package reminders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/medications"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/platform/logger"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/platform/metrics"

	"github.com/robfig/cron/v3"
)

// Schedule asocia cada franja a una expresión cron estándar (5 campos).
// Expresión vacía => franja sin recordatorio. as_needed nunca se agenda.
type Schedule map[medications.TimeOfDay]string

func DefaultSchedule() Schedule {
	return Schedule{
		medications.Morning:   "0 8 * * *",
		medications.Afternoon: "0 13 * * *",
		medications.Evening:   "0 18 * * *",
		medications.Bedtime:   "0 21 * * *",
	}
}

const slotRunTimeout = time.Minute

// Scheduler dispara los recordatorios diarios de cada franja.
type Scheduler struct {
	svc       *Service
	notifiers []Notifier
	log       logger.Logger
	cron      *cron.Cron
}

func NewScheduler(svc *Service, schedule Schedule, notifiers []Notifier, log logger.Logger) (*Scheduler, error) {
	if log == nil {
		log = logger.Nop()
	}
	cl := cronLogger{log: log.With(map[string]any{"component": "reminders.scheduler"})}

	s := &Scheduler{
		svc:       svc,
		notifiers: notifiers,
		log:       cl.log,
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
	}

	for _, slot := range medications.Slots {
		expr := strings.TrimSpace(schedule[slot])
		if expr == "" || slot == medications.AsNeeded {
			continue
		}
		if _, err := cron.ParseStandard(expr); err != nil {
			return nil, fmt.Errorf("reminders: invalid cron expression %q for %s: %w", expr, slot, err)
		}

		slot := slot
		if _, err := s.cron.AddFunc(expr, func() {
			ctx, cancel := context.WithTimeout(context.Background(), slotRunTimeout)
			defer cancel()
			if _, err := s.RunSlot(ctx, slot); err != nil {
				s.log.Error("reminder run failed", map[string]any{"slot": string(slot), "error": err})
			}
		}); err != nil {
			return nil, fmt.Errorf("reminders: schedule %s: %w", slot, err)
		}
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("reminder scheduler started", map[string]any{"entries": len(s.cron.Entries())})
}

// Stop detiene el cron y espera los jobs en curso o a que ctx expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunSlot envía los recordatorios pendientes de la franja para hoy.
// Devuelve cuántos recordatorios llegaron al menos por un canal.
func (s *Scheduler) RunSlot(ctx context.Context, slot medications.TimeOfDay) (int, error) {
	due, err := s.svc.Due(ctx, slot, s.svc.Today())
	if err != nil {
		return 0, err
	}

	delivered := 0
	for _, r := range due {
		ok := false
		for _, n := range s.notifiers {
			err := n.Notify(ctx, r)
			metrics.RecordReminder(string(slot), n.Name(), err)
			if err != nil {
				s.log.Warn("reminder delivery failed", map[string]any{
					"channel":    n.Name(),
					"patient_id": r.PatientID,
					"slot":       string(slot),
					"error":      err,
				})
				continue
			}
			ok = true
		}
		if ok {
			delivered++
		}
	}

	s.log.Info("reminders dispatched", map[string]any{
		"slot":      string(slot),
		"due":       len(due),
		"delivered": delivered,
	})
	return delivered, nil
}

// cronLogger adapta logger.Logger a cron.Logger.
type cronLogger struct {
	log logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug(msg, kvToFields(keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := kvToFields(keysAndValues)
	fields["error"] = err
	l.log.Error(msg, fields)
}

func kvToFields(kv []interface{}) map[string]any {
	fields := make(map[string]any, len(kv)/2+1)
	for i := 0; i+1 < len(kv); i += 2 {
		fields[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return fields
}
