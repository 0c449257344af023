package command

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/adapters/auth/jwtauth"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/adapters/notify"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/medications"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/reminders"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/ports/auth"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/router"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the reminder scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx, rt)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context, rt *deps) error {
	// sin JWT_SECRET => modo dev con X-Debug-User-ID
	var verifier auth.AuthVerifier
	if rt.cfg.JWTSecret != "" {
		verifier = jwtauth.NewVerifier(rt.cfg.JWTSecret)
	} else {
		rt.log.Warn("JWT_SECRET not set, accepting X-Debug-User-ID", nil)
	}

	var scheduler *reminders.Scheduler
	if rt.cfg.Reminders.Enabled {
		notifiers, err := buildNotifiers(rt)
		if err != nil {
			return err
		}
		scheduler, err = reminders.NewScheduler(rt.svcs.Reminders, scheduleFromConfig(rt), notifiers, rt.log)
		if err != nil {
			return err
		}
		scheduler.Start()
	}

	srv := &http.Server{
		Addr: rt.cfg.Addr(),
		Handler: router.NewRouter(router.Options{
			AuthVerifier:       verifier,
			Services:           rt.svcs,
			Logger:             rt.log,
			ReportDir:          rt.cfg.ReportDir,
			CORSAllowedOrigins: rt.cfg.CORSAllowedOrigins,
			RateLimitPerMinute: rt.cfg.RateLimitPerMinute,
		}),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		rt.log.Info("starting server", map[string]any{"addr": srv.Addr, "storage": string(rt.cfg.Storage)})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if scheduler != nil {
		if err := scheduler.Stop(shutdownCtx); err != nil {
			rt.log.Warn("scheduler stop", map[string]any{"error": err})
		}
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		rt.log.Error("server shutdown", map[string]any{"error": err})
	}
	rt.log.Info("server stopped", nil)
	return serveErr
}

func buildNotifiers(rt *deps) ([]reminders.Notifier, error) {
	notifiers := []reminders.Notifier{notify.NewLogNotifier(rt.log)}
	if url := rt.cfg.Reminders.WebhookURL; url != "" {
		wh, err := notify.NewWebhookNotifier(url, nil)
		if err != nil {
			return nil, err
		}
		notifiers = append(notifiers, wh)
	}
	return notifiers, nil
}

func scheduleFromConfig(rt *deps) reminders.Schedule {
	r := rt.cfg.Reminders
	return reminders.Schedule{
		medications.Morning:   r.Morning,
		medications.Afternoon: r.Afternoon,
		medications.Evening:   r.Evening,
		medications.Bedtime:   r.Bedtime,
	}
}
