package adherence

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/medications"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/patients"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// PatientOwnerLookup: solo OwnerOf, sin depender de patients.Service.
type PatientOwnerLookup interface {
	OwnerOf(ctx context.Context, patientID string) (string, error)
}

func RegisterRoutes(r chi.Router, svc *Service, owners PatientOwnerLookup) {
	r.Post("/patients/{patientID}/medications/{medicationID}/doses", recordDoseHandler(svc, owners))
	r.Get("/patients/{patientID}/doses", listDosesHandler(svc, owners))
}

type recordDoseRequest struct {
	Date  string `json:"date"`  // YYYY-MM-DD, opcional (hoy)
	Taken *bool  `json:"taken"` // opcional, default true
}

type doseResponse struct {
	ID           string    `json:"id"`
	PatientID    string    `json:"patient_id"`
	MedicationID string    `json:"medication_id"`
	Date         string    `json:"date"`
	Taken        bool      `json:"taken"`
	RecordedAt   time.Time `json:"recorded_at"`
}

type recordDoseResponse struct {
	Dose         doseResponse `json:"dose"`
	CurrentCount int          `json:"current_count"`
}

// recordDoseHandler godoc
// @Summary Registrar toma
// @Description Marca la toma del día como tomada (taken=true, default) o perdida. Al pasar a tomada se descuenta una unidad del stock.
// @Tags doses
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param patientID path string true "ID del paciente"
// @Param medicationID path string true "ID del medicamento"
// @Param payload body recordDoseRequest true "Fecha (YYYY-MM-DD) y resultado"
// @Success 200 {object} recordDoseResponse
// @Failure 400 {string} string "invalid json / date must be YYYY-MM-DD"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "medication not found"
// @Failure 409 {string} string "medication discontinued"
// @Router /patients/{patientID}/medications/{medicationID}/doses [post]
func recordDoseHandler(svc *Service, owners PatientOwnerLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID, ok := authorizePatient(w, r, owners)
		if !ok {
			return
		}

		var req recordDoseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		date := strings.TrimSpace(req.Date)
		if date == "" {
			date = FormatDate(svc.Today())
		}
		taken := true
		if req.Taken != nil {
			taken = *req.Taken
		}

		res, err := svc.Record(r.Context(), patientID, chi.URLParam(r, "medicationID"), date, taken)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			case errors.Is(err, medications.ErrNotFound):
				http.Error(w, "medication not found", http.StatusNotFound)
			case errors.Is(err, ErrDiscontinued):
				http.Error(w, "medication discontinued", http.StatusConflict)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, recordDoseResponse{
			Dose:         toDoseResponse(res.Log),
			CurrentCount: res.Medication.CurrentCount,
		})
	}
}

// listDosesHandler godoc
// @Summary Listar tomas
// @Description Lista los registros de tomas del paciente entre from y to (inclusive). Por defecto, los últimos 7 días.
// @Tags doses
// @Produce json
// @Param patientID path string true "ID del paciente"
// @Param from query string false "Fecha mínima (YYYY-MM-DD)"
// @Param to query string false "Fecha máxima (YYYY-MM-DD)"
// @Success 200 {array} doseResponse
// @Failure 400 {string} string "from/to must be YYYY-MM-DD"
// @Router /patients/{patientID}/doses [get]
func listDosesHandler(svc *Service, owners PatientOwnerLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID, ok := authorizePatient(w, r, owners)
		if !ok {
			return
		}

		to := svc.Today()
		if v := strings.TrimSpace(r.URL.Query().Get("to")); v != "" {
			t, err := ParseDate(v)
			if err != nil {
				http.Error(w, "to must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			to = t
		}
		from := to.AddDate(0, 0, -6)
		if v := strings.TrimSpace(r.URL.Query().Get("from")); v != "" {
			t, err := ParseDate(v)
			if err != nil {
				http.Error(w, "from must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			from = t
		}

		items, err := svc.ListRange(r.Context(), patientID, from, to)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, "from must not be after to", http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]doseResponse, 0, len(items))
		for _, l := range items {
			out = append(out, toDoseResponse(l))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func authorizePatient(w http.ResponseWriter, r *http.Request, owners PatientOwnerLookup) (string, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return "", false
	}

	patientID := chi.URLParam(r, "patientID")
	ownerID, err := owners.OwnerOf(r.Context(), patientID)
	if err != nil && !errors.Is(err, patients.ErrNotFound) {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return "", false
	}
	if err != nil || strings.TrimSpace(ownerID) == "" {
		http.Error(w, "patient not found", http.StatusNotFound)
		return "", false
	}
	if ownerID != claims.UserID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return "", false
	}
	return patientID, true
}

func toDoseResponse(l DoseLog) doseResponse {
	return doseResponse{
		ID:           l.ID,
		PatientID:    l.PatientID,
		MedicationID: l.MedicationID,
		Date:         l.Date,
		Taken:        l.Taken,
		RecordedAt:   l.RecordedAt,
	}
}

// writeJSON está duplicado en cada módulo para no crear un paquete de helpers compartidos.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
