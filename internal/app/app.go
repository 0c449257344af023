// Package app arma repositorios y servicios a partir de la configuración.
// Lo comparten el servidor HTTP y los subcomandos de la CLI.
package app

import (
	"fmt"

	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/adapters/storage/flatfile"
	mem "github.com/mariamabdalla2350-rgb/medication-tracker/internal/adapters/storage/memory"
	pg "github.com/mariamabdalla2350-rgb/medication-tracker/internal/adapters/storage/postgres"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/adapters/storage/sqlite"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/config"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/adherence"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/insights"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/medications"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/patients"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/reminders"
)

type Repositories struct {
	Patients    patients.Repository
	Medications medications.Repository
	Doses       adherence.Repository

	closeFn func() error
}

func (r Repositories) Close() error {
	if r.closeFn == nil {
		return nil
	}
	return r.closeFn()
}

func MemoryRepositories() Repositories {
	return Repositories{
		Patients:    mem.NewPatientRepo(),
		Medications: mem.NewMedicationRepo(),
		Doses:       mem.NewDoseLogRepo(),
	}
}

// OpenRepositories abre el backend elegido por STORAGE.
func OpenRepositories(cfg config.Config) (Repositories, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		return MemoryRepositories(), nil

	case config.StoragePostgres:
		db, err := pg.Open(cfg.DBDSN)
		if err != nil {
			return Repositories{}, fmt.Errorf("open postgres: %w", err)
		}
		return Repositories{
			Patients:    pg.NewPatientsRepo(db),
			Medications: pg.NewMedicationsRepo(db),
			Doses:       pg.NewDoseLogsRepo(db),
			closeFn:     db.Close,
		}, nil

	case config.StorageSQLite, "":
		db, err := sqlite.Open(cfg.SQLitePath, sqlite.DefaultConfig())
		if err != nil {
			return Repositories{}, fmt.Errorf("open sqlite %s: %w", cfg.SQLitePath, err)
		}
		return Repositories{
			Patients:    sqlite.NewPatientsRepo(db),
			Medications: sqlite.NewMedicationsRepo(db),
			Doses:       sqlite.NewDoseLogsRepo(db),
			closeFn:     db.Close,
		}, nil

	default:
		return Repositories{}, fmt.Errorf("unknown storage %q", cfg.Storage)
	}
}

type Services struct {
	Patients    *patients.Service
	Medications *medications.Service
	Adherence   *adherence.Service
	Reminders   *reminders.Service
	Insights    *insights.Service
	Transfer    *flatfile.Transfer
}

func NewServices(r Repositories) *Services {
	p := patients.NewService(r.Patients)
	m := medications.NewService(r.Medications)
	d := adherence.NewService(r.Doses, m)

	return &Services{
		Patients:    p,
		Medications: m,
		Adherence:   d,
		Reminders:   reminders.NewService(m, d, p),
		Insights:    insights.NewService(p, m, d),
		Transfer:    flatfile.NewTransfer(p, m, d),
	}
}
