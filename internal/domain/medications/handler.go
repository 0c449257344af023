package medications

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/patients"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// PatientOwnerLookup: solo OwnerOf, sin depender de patients.Service.
type PatientOwnerLookup interface {
	OwnerOf(ctx context.Context, patientID string) (string, error)
}

func RegisterRoutes(r chi.Router, svc *Service, owners PatientOwnerLookup) {
	r.Route("/patients/{patientID}/medications", func(mr chi.Router) {
		mr.Post("/", addMedicationHandler(svc, owners))
		mr.Get("/", listMedicationsHandler(svc, owners))
		mr.Get("/{medicationID}", getMedicationHandler(svc, owners))
		mr.Post("/{medicationID}/refill", refillMedicationHandler(svc, owners))
		mr.Post("/{medicationID}/discontinue", discontinueMedicationHandler(svc, owners))
	})
}

type addMedicationRequest struct {
	Name      string    `json:"name"`
	Dosage    string    `json:"dosage"`
	TimeOfDay TimeOfDay `json:"time_of_day" enums:"morning,afternoon,evening,bedtime,as_needed"`
	Count     *int      `json:"count"` // opcional; default 30
}

type refillRequest struct {
	Amount int `json:"amount"`
}

type medicationResponse struct {
	ID              string    `json:"id"`
	PatientID       string    `json:"patient_id"`
	Name            string    `json:"name"`
	Dosage          string    `json:"dosage"`
	TimeOfDay       TimeOfDay `json:"time_of_day"`
	TimeOfDayLabel  string    `json:"time_of_day_label"`
	CurrentCount    int       `json:"current_count"`
	TotalPrescribed int       `json:"total_prescribed"`
	Status          Status    `json:"status"`
	Summary         string    `json:"summary"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// addMedicationHandler godoc
// @Summary Agregar medicamento
// @Description Agrega un medicamento al paciente. count es la cantidad inicial (default 30) y también el total prescripto.
// @Tags medications
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param patientID path string true "ID del paciente"
// @Param payload body addMedicationRequest true "Datos del medicamento"
// @Success 201 {object} medicationResponse
// @Failure 400 {string} string "invalid json / invalid input"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "patient not found"
// @Failure 409 {string} string "medication already exists"
// @Router /patients/{patientID}/medications [post]
func addMedicationHandler(svc *Service, owners PatientOwnerLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID, ok := authorizePatient(w, r, owners)
		if !ok {
			return
		}

		var req addMedicationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		count := DefaultStartingCount
		if req.Count != nil {
			count = *req.Count
		}

		m, err := svc.Add(r.Context(), patientID, AddInput{
			Name:      req.Name,
			Dosage:    req.Dosage,
			TimeOfDay: req.TimeOfDay,
			Count:     count,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toMedicationResponse(m))
	}
}

// listMedicationsHandler godoc
// @Summary Listar medicamentos
// @Description Lista los medicamentos del paciente ordenados por franja horaria. include_discontinued=true incluye los suspendidos.
// @Tags medications
// @Produce json
// @Param patientID path string true "ID del paciente"
// @Param include_discontinued query bool false "Incluir suspendidos"
// @Success 200 {array} medicationResponse
// @Router /patients/{patientID}/medications [get]
func listMedicationsHandler(svc *Service, owners PatientOwnerLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID, ok := authorizePatient(w, r, owners)
		if !ok {
			return
		}

		all := r.URL.Query().Get("include_discontinued") == "true"
		items, err := svc.List(r.Context(), patientID, all)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]medicationResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toMedicationResponse(m))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getMedicationHandler(svc *Service, owners PatientOwnerLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID, ok := authorizePatient(w, r, owners)
		if !ok {
			return
		}

		m, ok := loadMedication(w, r, svc, patientID)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, toMedicationResponse(m))
	}
}

// refillMedicationHandler godoc
// @Summary Reponer medicamento
// @Description Suma amount al stock actual y al total prescripto.
// @Tags medications
// @Accept json
// @Produce json
// @Param patientID path string true "ID del paciente"
// @Param medicationID path string true "ID del medicamento"
// @Param payload body refillRequest true "Cantidad a reponer (> 0)"
// @Success 200 {object} medicationResponse
// @Failure 400 {string} string "invalid input"
// @Failure 404 {string} string "medication not found"
// @Router /patients/{patientID}/medications/{medicationID}/refill [post]
func refillMedicationHandler(svc *Service, owners PatientOwnerLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID, ok := authorizePatient(w, r, owners)
		if !ok {
			return
		}
		m, ok := loadMedication(w, r, svc, patientID)
		if !ok {
			return
		}

		var req refillRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		updated, err := svc.Refill(r.Context(), m.ID, req.Amount)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toMedicationResponse(updated))
	}
}

// discontinueMedicationHandler godoc
// @Summary Suspender medicamento
// @Description Marca el medicamento como suspendido. Deja de generar recordatorios y de contar en los resúmenes.
// @Tags medications
// @Produce json
// @Param patientID path string true "ID del paciente"
// @Param medicationID path string true "ID del medicamento"
// @Success 200 {object} medicationResponse
// @Failure 404 {string} string "medication not found"
// @Router /patients/{patientID}/medications/{medicationID}/discontinue [post]
func discontinueMedicationHandler(svc *Service, owners PatientOwnerLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID, ok := authorizePatient(w, r, owners)
		if !ok {
			return
		}
		m, ok := loadMedication(w, r, svc, patientID)
		if !ok {
			return
		}

		updated, err := svc.Discontinue(r.Context(), m.ID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toMedicationResponse(updated))
	}
}

// authorizePatient exige claims y que el paciente pertenezca al usuario.
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

// loadMedication valida que el medicamento exista y pertenezca al paciente.
func loadMedication(w http.ResponseWriter, r *http.Request, svc *Service, patientID string) (Medication, bool) {
	m, err := svc.Get(r.Context(), chi.URLParam(r, "medicationID"))
	if err != nil || m.PatientID != patientID {
		http.Error(w, "medication not found", http.StatusNotFound)
		return Medication{}, false
	}
	return m, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrAlreadyExists):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toMedicationResponse(m Medication) medicationResponse {
	return medicationResponse{
		ID:              m.ID,
		PatientID:       m.PatientID,
		Name:            m.Name,
		Dosage:          m.Dosage,
		TimeOfDay:       m.TimeOfDay,
		TimeOfDayLabel:  m.TimeOfDay.Label(),
		CurrentCount:    m.CurrentCount,
		TotalPrescribed: m.TotalPrescribed,
		Status:          m.Status,
		Summary:         Describe(m),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// writeJSON está duplicado en cada módulo para no crear un paquete de helpers compartidos.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
