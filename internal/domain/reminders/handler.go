package reminders

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/adherence"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/patients"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// PatientOwnerLookup: solo OwnerOf, sin depender de patients.Service.
type PatientOwnerLookup interface {
	OwnerOf(ctx context.Context, patientID string) (string, error)
}

func RegisterRoutes(r chi.Router, svc *Service, owners PatientOwnerLookup) {
	r.Get("/patients/{patientID}/reminders/today", todayHandler(svc, owners))
}

type doseStatusResponse struct {
	MedicationID string `json:"medication_id"`
	Name         string `json:"name"`
	Details      string `json:"details"`
	Taken        bool   `json:"taken"`
	Reminder     string `json:"reminder"`
}

type todayResponse struct {
	Date        string               `json:"date"`
	AllTaken    bool                 `json:"all_taken"`
	Pending     []string             `json:"pending"`
	Medications []doseStatusResponse `json:"medications"`
}

// todayHandler godoc
// @Summary Estado del día
// @Description Devuelve el estado de cada medicamento activo y la lista de recordatorios pendientes para la fecha (hoy por defecto).
// @Tags reminders
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param patientID path string true "ID del paciente"
// @Param date query string false "Fecha (YYYY-MM-DD)"
// @Success 200 {object} todayResponse
// @Failure 400 {string} string "date must be YYYY-MM-DD"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "patient not found"
// @Router /patients/{patientID}/reminders/today [get]
func todayHandler(svc *Service, owners PatientOwnerLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		patientID := chi.URLParam(r, "patientID")
		ownerID, err := owners.OwnerOf(r.Context(), patientID)
		if err != nil && !errors.Is(err, patients.ErrNotFound) {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if err != nil || strings.TrimSpace(ownerID) == "" {
			http.Error(w, "patient not found", http.StatusNotFound)
			return
		}
		if ownerID != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		day := svc.Today()
		if v := strings.TrimSpace(r.URL.Query().Get("date")); v != "" {
			t, err := adherence.ParseDate(v)
			if err != nil {
				http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			day = t
		}

		status, err := svc.TodayStatus(r.Context(), patientID, day)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toTodayResponse(day, status))
	}
}

func toTodayResponse(day time.Time, status []DoseStatus) todayResponse {
	out := todayResponse{
		Date:        adherence.FormatDate(day),
		AllTaken:    true,
		Pending:     make([]string, 0),
		Medications: make([]doseStatusResponse, 0, len(status)),
	}
	for _, st := range status {
		if !st.Taken {
			out.AllTaken = false
			out.Pending = append(out.Pending, missedText(st.Medication.Name, st.Medication.TimeOfDay))
		}
		out.Medications = append(out.Medications, doseStatusResponse{
			MedicationID: st.Medication.ID,
			Name:         st.Medication.Name,
			Details:      st.Details,
			Taken:        st.Taken,
			Reminder:     st.Reminder,
		})
	}
	if len(status) == 0 {
		out.AllTaken = false
	}
	return out
}

// writeJSON está duplicado en cada módulo para no crear un paquete de helpers compartidos.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
