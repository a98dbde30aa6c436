package history

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/dogs/{dogID}/timeline", listDogTimelineHandler(svc))
	r.Get("/applications/{applicationID}/timeline", listApplicationTimelineHandler(svc))
}

// eventResponse es una entrada del timeline devuelta por la API.
type eventResponse struct {
	ID            string    `json:"id"`
	DogID         string    `json:"dog_id"`
	ApplicationID string    `json:"application_id,omitempty"`
	Type          EventType `json:"type"`
	From          string    `json:"from"`
	To            string    `json:"to"`
	ActorType     ActorType `json:"actor_type"`
	ActorID       string    `json:"actor_id"`
	Notes         string    `json:"notes,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// listDogTimelineHandler godoc
// @Summary Timeline de un perro
// @Description Cambios de estado de solicitudes y de disponibilidad del perro, más reciente primero.
// @Tags history
// @Produce json
// @Param dogID path string true "ID del perro"
// @Param types query string false "Tipos separados por coma, ej: APPLICATION_AUTO_REJECTED,DOG_AVAILABILITY_CHANGED"
// @Param from query string false "RFC3339"
// @Param to query string false "RFC3339"
// @Param limit query int false "Máximo de eventos (default 50)"
// @Success 200 {array} eventResponse
// @Failure 400 {string} string "invalid filter"
// @Router /dogs/{dogID}/timeline [get]
func listDogTimelineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		var filter ListFilter
		if raw := strings.TrimSpace(q.Get("types")); raw != "" {
			for _, part := range strings.Split(raw, ",") {
				if t := strings.TrimSpace(part); t != "" {
					filter.Types = append(filter.Types, EventType(strings.ToUpper(t)))
				}
			}
		}

		parseTime := func(key string) (*time.Time, bool) {
			v := strings.TrimSpace(q.Get(key))
			if v == "" {
				return nil, true
			}
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				return nil, false
			}
			return &t, true
		}
		var ok bool
		if filter.From, ok = parseTime("from"); !ok {
			http.Error(w, "from must be RFC3339", http.StatusBadRequest)
			return
		}
		if filter.To, ok = parseTime("to"); !ok {
			http.Error(w, "to must be RFC3339", http.StatusBadRequest)
			return
		}
		if v := strings.TrimSpace(q.Get("limit")); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
				return
			}
			filter.Limit = n
		}

		items, err := svc.ListByDog(r.Context(), chi.URLParam(r, "dogID"), filter)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toEventResponses(items))
	}
}

// listApplicationTimelineHandler godoc
// @Summary Timeline de una solicitud
// @Tags history
// @Produce json
// @Param applicationID path string true "ID de la solicitud"
// @Success 200 {array} eventResponse
// @Router /applications/{applicationID}/timeline [get]
func listApplicationTimelineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListByApplication(r.Context(), chi.URLParam(r, "applicationID"))
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toEventResponses(items))
	}
}

func toEventResponses(items []Event) []eventResponse {
	out := make([]eventResponse, 0, len(items))
	for _, e := range items {
		out = append(out, eventResponse{
			ID:            e.ID,
			DogID:         e.DogID,
			ApplicationID: e.ApplicationID,
			Type:          e.Type,
			From:          e.From,
			To:            e.To,
			ActorType:     e.Actor.Type,
			ActorID:       e.Actor.ID,
			Notes:         e.Notes,
			OccurredAt:    e.OccurredAt,
		})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
