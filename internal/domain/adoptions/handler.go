package adoptions

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"shelter-adoptions/internal/domain/dogs"
	"shelter-adoptions/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/dogs/{dogID}/applications", submitHandler(svc))
	r.Get("/dogs/{dogID}/applications", listByDogHandler(svc))
	r.Post("/dogs/{dogID}/revalidate", revalidateHandler(svc))

	r.Route("/applications", func(ar chi.Router) {
		ar.Post("/bulk-state", bulkStateHandler(svc))
		ar.Get("/{applicationID}", getApplicationHandler(svc))
		ar.Post("/{applicationID}/state", changeStateHandler(svc))
	})
}

type submitRequest struct {
	ApplicantName string      `json:"applicant_name"`
	Email         string      `json:"email"`
	Phone         string      `json:"phone"`
	Address       string      `json:"address"`
	HousingType   HousingType `json:"housing_type" enums:"house,apartment,farm,other"`
	HasYard       bool        `json:"has_yard"`
	OtherAnimals  string      `json:"other_animals"`
	PetExperience string      `json:"pet_experience"`
	Motivation    string      `json:"motivation"`
}

type changeStateRequest struct {
	State      string  `json:"state" enums:"PENDING,IN_REVIEW,APPROVED,REJECTED"`
	AdminNotes *string `json:"admin_notes"`
}

type bulkStateRequest struct {
	ApplicationIDs []string `json:"application_ids"`
	State          string   `json:"state" enums:"PENDING,IN_REVIEW,APPROVED,REJECTED"`
}

type applicationResponse struct {
	ID            string      `json:"id"`
	DogID         string      `json:"dog_id"`
	ApplicantName string      `json:"applicant_name"`
	Email         string      `json:"email"`
	Phone         string      `json:"phone"`
	Address       string      `json:"address"`
	HousingType   HousingType `json:"housing_type"`
	HasYard       bool        `json:"has_yard"`
	OtherAnimals  string      `json:"other_animals"`
	PetExperience string      `json:"pet_experience"`
	Motivation    string      `json:"motivation"`
	AdminNotes    string      `json:"admin_notes,omitempty"`
	State         State       `json:"state"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// reconcileResponse es lo que ve el staff después de un cambio de estado.
type reconcileResponse struct {
	Changed              bool              `json:"changed"`
	PreviousAvailability dogs.Availability `json:"previous_availability"`
	Summary              Summary           `json:"summary"`
}

type submitResponse struct {
	Application applicationResponse `json:"application"`
	Summary     Summary             `json:"summary"`
}

type bulkItemResponse struct {
	ApplicationID string   `json:"application_id"`
	OK            bool     `json:"ok"`
	Error         string   `json:"error,omitempty"`
	Summary       *Summary `json:"summary,omitempty"`
}

// submitHandler godoc
// @Summary Enviar solicitud de adopción
// @Description Crea una solicitud PENDING. Un perro AVAILABLE pasa a IN_PROCESS; uno ADOPTED no acepta solicitudes.
// @Tags applications
// @Accept json
// @Produce json
// @Param dogID path string true "ID del perro"
// @Param payload body submitRequest true "Datos del solicitante"
// @Success 201 {object} submitResponse
// @Failure 400 {string} string "invalid json / invalid input"
// @Failure 404 {string} string "dog not found"
// @Failure 409 {string} string "dog is not available for adoption"
// @Router /dogs/{dogID}/applications [post]
func submitHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		app, res, err := svc.Submit(r.Context(), chi.URLParam(r, "dogID"), SubmitInput{
			ApplicantName: req.ApplicantName,
			Email:         req.Email,
			Phone:         req.Phone,
			Address:       req.Address,
			HousingType:   req.HousingType,
			HasYard:       req.HasYard,
			OtherAnimals:  req.OtherAnimals,
			PetExperience: req.PetExperience,
			Motivation:    req.Motivation,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, submitResponse{
			Application: toApplicationResponse(app),
			Summary:     res.Summary,
		})
	}
}

// listByDogHandler godoc
// @Summary Solicitudes de un perro
// @Tags applications
// @Produce json
// @Param dogID path string true "ID del perro"
// @Success 200 {array} applicationResponse
// @Router /dogs/{dogID}/applications [get]
func listByDogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListByDog(r.Context(), chi.URLParam(r, "dogID"))
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]applicationResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toApplicationResponse(a))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getApplicationHandler godoc
// @Summary Obtener solicitud
// @Tags applications
// @Produce json
// @Param applicationID path string true "ID de la solicitud"
// @Success 200 {object} applicationResponse
// @Failure 404 {string} string "application not found"
// @Router /applications/{applicationID} [get]
func getApplicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.GetByID(r.Context(), chi.URLParam(r, "applicationID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toApplicationResponse(a))
	}
}

// changeStateHandler godoc
// @Summary Cambiar estado de una solicitud
// @Description Escribe el nuevo estado y reconcilia la disponibilidad del perro en la misma transacción.
// @Description Aprobar rechaza automáticamente las demás solicitudes abiertas del perro.
// @Tags applications
// @Accept json
// @Produce json
// @Param applicationID path string true "ID de la solicitud"
// @Param X-Actor-ID header string false "Miembro del staff que hace el cambio"
// @Param payload body changeStateRequest true "Nuevo estado"
// @Success 200 {object} reconcileResponse
// @Failure 400 {string} string "invalid input"
// @Failure 404 {string} string "application not found"
// @Failure 409 {string} string "dog was just adopted by someone else"
// @Router /applications/{applicationID}/state [post]
func changeStateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req changeStateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		st, ok := ParseState(req.State)
		if !ok {
			http.Error(w, "state must be one of PENDING, IN_REVIEW, APPROVED, REJECTED", http.StatusBadRequest)
			return
		}

		res, err := svc.ChangeState(r.Context(), ChangeStateInput{
			ApplicationID: chi.URLParam(r, "applicationID"),
			State:         st,
			AdminNotes:    req.AdminNotes,
			ActorID:       middleware.ActorID(r.Context()),
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, reconcileResponse{
			Changed:              res.Changed,
			PreviousAvailability: res.PreviousAvailability,
			Summary:              res.Summary,
		})
	}
}

// bulkStateHandler godoc
// @Summary Cambio de estado masivo
// @Description Cada solicitud se procesa en su propia transacción; el resultado es por ítem.
// @Tags applications
// @Accept json
// @Produce json
// @Param X-Actor-ID header string false "Miembro del staff que hace el cambio"
// @Param payload body bulkStateRequest true "Solicitudes y estado"
// @Success 200 {array} bulkItemResponse
// @Failure 400 {string} string "invalid input"
// @Router /applications/bulk-state [post]
func bulkStateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bulkStateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		st, ok := ParseState(req.State)
		if !ok {
			http.Error(w, "state must be one of PENDING, IN_REVIEW, APPROVED, REJECTED", http.StatusBadRequest)
			return
		}

		items, err := svc.BulkChangeState(r.Context(), req.ApplicationIDs, st, middleware.ActorID(r.Context()))
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]bulkItemResponse, 0, len(items))
		for _, it := range items {
			resp := bulkItemResponse{ApplicationID: it.ApplicationID, OK: it.Err == nil}
			if it.Err != nil {
				resp.Error = errorMessage(it.Err)
			} else {
				sum := it.Result.Summary
				resp.Summary = &sum
			}
			out = append(out, resp)
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// revalidateHandler godoc
// @Summary Revalidar disponibilidad de un perro
// @Description Recalcula la disponibilidad a partir de las solicitudes (para datos cargados por fuera del motor).
// @Tags applications
// @Produce json
// @Param dogID path string true "ID del perro"
// @Success 200 {object} reconcileResponse
// @Failure 404 {string} string "dog not found"
// @Failure 409 {string} string "adoption invariant violation"
// @Router /dogs/{dogID}/revalidate [post]
func revalidateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := svc.Revalidate(r.Context(), chi.URLParam(r, "dogID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, reconcileResponse{
			Changed:              res.Changed,
			PreviousAvailability: res.PreviousAvailability,
			Summary:              res.Summary,
		})
	}
}

func toApplicationResponse(a Application) applicationResponse {
	return applicationResponse{
		ID:            a.ID,
		DogID:         a.DogID,
		ApplicantName: a.ApplicantName,
		Email:         a.Email,
		Phone:         a.Phone,
		Address:       a.Address,
		HousingType:   a.HousingType,
		HasYard:       a.HasYard,
		OtherAnimals:  a.OtherAnimals,
		PetExperience: a.PetExperience,
		Motivation:    a.Motivation,
		AdminNotes:    a.AdminNotes,
		State:         a.State,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound), errors.Is(err, dogs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConcurrentApproval),
		errors.Is(err, ErrInvariantViolation),
		errors.Is(err, ErrDogUnavailable):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage no expone errores internos al cliente.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, ErrConcurrentApproval):
		return ErrConcurrentApproval.Error()
	case errors.Is(err, ErrDogUnavailable):
		return ErrDogUnavailable.Error()
	case errors.Is(err, dogs.ErrNotFound):
		return dogs.ErrNotFound.Error()
	}
	if statusOf(err) == http.StatusInternalServerError {
		return "internal error"
	}
	return err.Error()
}

func writeError(w http.ResponseWriter, err error) {
	http.Error(w, errorMessage(err), statusOf(err))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
