package insights

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

func RegisterRoutes(r chi.Router, svc *Service, owners PatientOwnerLookup, reportDir string) {
	r.Route("/patients/{patientID}/insights/weekly", func(ir chi.Router) {
		ir.Get("/", weeklyHandler(svc, owners))
		ir.Post("/report", saveReportHandler(svc, owners, reportDir))
	})
}

type medicationWeekResponse struct {
	MedicationID    string  `json:"medication_id"`
	Name            string  `json:"name"`
	Dosage          string  `json:"dosage"`
	Taken           []bool  `json:"taken"`
	TakenDays       int     `json:"taken_days"`
	Adherence       float64 `json:"adherence_pct"`
	Remaining       int     `json:"remaining"`
	TotalPrescribed int     `json:"total_prescribed"`
}

type dayOverviewResponse struct {
	Date   string   `json:"date"`
	Label  string   `json:"label"`
	Taken  int      `json:"taken"`
	Total  int      `json:"total"`
	Missed []string `json:"missed"`
}

type weeklyResponse struct {
	PatientID   string                   `json:"patient_id"`
	PatientName string                   `json:"patient_name"`
	WeekStart   string                   `json:"week_start"`
	Overall     float64                  `json:"overall_adherence_pct"`
	Medications []medicationWeekResponse `json:"medications"`
	Daily       []dayOverviewResponse    `json:"daily"`
}

type saveReportRequest struct {
	WeekStart string `json:"week_start"`
}

type saveReportResponse struct {
	Path string `json:"path"`
}

// weeklyHandler godoc
// @Summary Resumen semanal
// @Description Resumen de adherencia de 7 días desde week_start (por defecto el lunes de la semana actual). format=text devuelve el reporte en texto plano.
// @Tags insights
// @Produce json
// @Produce plain
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param patientID path string true "ID del paciente"
// @Param week_start query string false "Inicio de semana (YYYY-MM-DD)"
// @Param format query string false "json (default) o text"
// @Success 200 {object} weeklyResponse
// @Failure 400 {string} string "week_start must be YYYY-MM-DD"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "patient not found"
// @Router /patients/{patientID}/insights/weekly [get]
func weeklyHandler(svc *Service, owners PatientOwnerLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID, ok := authorizePatient(w, r, owners)
		if !ok {
			return
		}

		start, ok := parseWeekStart(w, r.URL.Query().Get("week_start"), svc)
		if !ok {
			return
		}

		sum, err := svc.Weekly(r.Context(), patientID, start)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if strings.EqualFold(r.URL.Query().Get("format"), "text") {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(Render(sum)))
			return
		}

		writeJSON(w, http.StatusOK, toWeeklyResponse(sum))
	}
}

// saveReportHandler godoc
// @Summary Guardar reporte semanal
// @Description Escribe el reporte semanal en texto en el directorio de reportes local y devuelve la ruta.
// @Tags insights
// @Accept json
// @Produce json
// @Param patientID path string true "ID del paciente"
// @Param payload body saveReportRequest false "week_start opcional (YYYY-MM-DD)"
// @Success 201 {object} saveReportResponse
// @Failure 400 {string} string "week_start must be YYYY-MM-DD"
// @Failure 500 {string} string "internal error"
// @Router /patients/{patientID}/insights/weekly/report [post]
func saveReportHandler(svc *Service, owners PatientOwnerLookup, reportDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID, ok := authorizePatient(w, r, owners)
		if !ok {
			return
		}

		var req saveReportRequest
		if r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "invalid json", http.StatusBadRequest)
				return
			}
		}

		start, ok := parseWeekStart(w, req.WeekStart, svc)
		if !ok {
			return
		}

		path, err := svc.SaveReport(r.Context(), patientID, start, reportDir)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, saveReportResponse{Path: path})
	}
}

func parseWeekStart(w http.ResponseWriter, raw string, svc *Service) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return svc.CurrentWeekStart(), true
	}
	t, err := adherence.ParseDate(raw)
	if err != nil {
		http.Error(w, "week_start must be YYYY-MM-DD", http.StatusBadRequest)
		return time.Time{}, false
	}
	return t, true
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

func toWeeklyResponse(s WeeklySummary) weeklyResponse {
	out := weeklyResponse{
		PatientID:   s.PatientID,
		PatientName: s.PatientName,
		WeekStart:   adherence.FormatDate(s.WeekStart),
		Overall:     s.Overall,
		Medications: make([]medicationWeekResponse, 0, len(s.Medications)),
		Daily:       make([]dayOverviewResponse, 0, DaysPerWeek),
	}
	for _, m := range s.Medications {
		out.Medications = append(out.Medications, medicationWeekResponse{
			MedicationID:    m.MedicationID,
			Name:            m.Name,
			Dosage:          m.Dosage,
			Taken:           m.Taken[:],
			TakenDays:       m.TakenDays,
			Adherence:       m.Adherence,
			Remaining:       m.Remaining,
			TotalPrescribed: m.TotalPrescribed,
		})
	}
	for _, o := range s.Overview {
		out.Daily = append(out.Daily, dayOverviewResponse{
			Date:   adherence.FormatDate(o.Day.Date),
			Label:  o.Day.Label,
			Taken:  o.Taken,
			Total:  o.Total,
			Missed: o.Missed,
		})
	}
	return out
}

// writeJSON está duplicado en cada módulo para no crear un paquete de helpers compartidos.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
