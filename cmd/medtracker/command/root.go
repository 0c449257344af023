package command

import (
	"fmt"
	"os"

	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/app"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/config"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/platform/logger"

	"github.com/spf13/cobra"
)

var (
	logLevel string
	envFile  string
)

var rootCmd = &cobra.Command{
	Use:           "medtracker",
	Short:         "Medication tracker: daily reminders, weekly insights, local storage",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("log-level") {
			return os.Setenv("LOG_LEVEL", logLevel)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "v", "info", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional .env file")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// deps agrupa lo que necesitan todos los subcomandos.
type deps struct {
	cfg   config.Config
	log   logger.Logger
	repos app.Repositories
	svcs  *app.Services
}

func bootstrap() (*deps, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
		Output: os.Stderr,
	})

	repos, err := app.OpenRepositories(cfg)
	if err != nil {
		return nil, err
	}
	log.Debug("storage ready", map[string]any{"storage": string(cfg.Storage)})

	return &deps{cfg: cfg, log: log, repos: repos, svcs: app.NewServices(repos)}, nil
}

func (r *deps) close() {
	if err := r.repos.Close(); err != nil {
		r.log.Warn("closing storage", map[string]any{"error": err})
	}
}
