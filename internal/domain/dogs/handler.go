package dogs

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/dogs", func(dr chi.Router) {
		dr.Post("/", createDogHandler(svc))
		dr.Get("/", listDogsHandler(svc))
		dr.Get("/stats", statsHandler(svc))

		dr.Get("/{dogID}", getDogHandler(svc))
		// Solo ficha. La disponibilidad la maneja el motor de adopciones.
		dr.Patch("/{dogID}", updateDogHandler(svc))
	})
}

type createDogRequest struct {
	Name         string   `json:"name"`
	AgeYears     int      `json:"age_years"`
	Size         Size     `json:"size" enums:"small,medium,large"`
	Sex          Sex      `json:"sex" enums:"male,female"`
	Color        Color    `json:"color" enums:"black,white,brown,golden,gray,mixed"`
	Breed        string   `json:"breed"`
	Description  string   `json:"description"`
	Vaccinated   bool     `json:"vaccinated"`
	Sterilized   bool     `json:"sterilized"`
	WeightKg     *float64 `json:"weight_kg"`
	GoodWithKids bool     `json:"good_with_kids"`
	GoodWithDogs bool     `json:"good_with_dogs"`
	SpecialNeeds string   `json:"special_needs"`
}

type updateDogRequest struct {
	Name         *string `json:"name"`
	AgeYears     *int    `json:"age_years"`
	Size         *Size   `json:"size"`
	Sex          *Sex    `json:"sex"`
	Color        *Color  `json:"color"`
	Breed        *string `json:"breed"`
	Description  *string `json:"description"`
	Vaccinated   *bool   `json:"vaccinated"`
	Sterilized   *bool   `json:"sterilized"`
	GoodWithKids *bool   `json:"good_with_kids"`
	GoodWithDogs *bool   `json:"good_with_dogs"`
	SpecialNeeds *string `json:"special_needs"`
}

// dogResponse es la ficha pública del perro.
type dogResponse struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	AgeYears     int          `json:"age_years"`
	Size         Size         `json:"size"`
	Sex          Sex          `json:"sex"`
	Color        Color        `json:"color"`
	Breed        string       `json:"breed"`
	Description  string       `json:"description"`
	Vaccinated   bool         `json:"vaccinated"`
	Sterilized   bool         `json:"sterilized"`
	WeightKg     *float64     `json:"weight_kg,omitempty"`
	GoodWithKids bool         `json:"good_with_kids"`
	GoodWithDogs bool         `json:"good_with_dogs"`
	SpecialNeeds string       `json:"special_needs"`
	Availability Availability `json:"availability"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

type dogPageResponse struct {
	Items    []dogResponse `json:"items"`
	Total    int           `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}

type statsResponse struct {
	Available int `json:"available"`
	InProcess int `json:"in_process"`
	Adopted   int `json:"adopted"`
}

// createDogHandler godoc
// @Summary Dar de alta un perro
// @Description Registra un perro en el catálogo. Siempre nace con disponibilidad AVAILABLE.
// @Tags dogs
// @Accept json
// @Produce json
// @Param payload body createDogRequest true "Ficha del perro"
// @Success 201 {object} dogResponse
// @Failure 400 {string} string "invalid json / invalid input"
// @Router /dogs [post]
func createDogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createDogRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		d, err := svc.Create(r.Context(), CreateInput{
			Name:         req.Name,
			AgeYears:     req.AgeYears,
			Size:         req.Size,
			Sex:          req.Sex,
			Color:        req.Color,
			Breed:        req.Breed,
			Description:  req.Description,
			Vaccinated:   req.Vaccinated,
			Sterilized:   req.Sterilized,
			WeightKg:     req.WeightKg,
			GoodWithKids: req.GoodWithKids,
			GoodWithDogs: req.GoodWithDogs,
			SpecialNeeds: req.SpecialNeeds,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toDogResponse(d))
	}
}

// listDogsHandler godoc
// @Summary Listar catálogo
// @Description Por defecto solo muestra perros AVAILABLE. availability=all lista todos.
// @Tags dogs
// @Produce json
// @Param availability query string false "AVAILABLE | IN_PROCESS | ADOPTED | all"
// @Param size query string false "small | medium | large"
// @Param sex query string false "male | female"
// @Param color query string false "black | white | brown | golden | gray | mixed"
// @Param age_min query int false "Edad mínima en años"
// @Param age_max query int false "Edad máxima en años"
// @Param page query int false "Página (1..)"
// @Param page_size query int false "Tamaño de página (default 12, máx 100)"
// @Success 200 {object} dogPageResponse
// @Failure 400 {string} string "invalid filter"
// @Router /dogs [get]
func listDogsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		filter := ListFilter{
			Availability: AvailabilityAvailable,
			Size:         Size(strings.TrimSpace(q.Get("size"))),
			Sex:          Sex(strings.TrimSpace(q.Get("sex"))),
			Color:        Color(strings.TrimSpace(q.Get("color"))),
		}

		if v := strings.TrimSpace(q.Get("availability")); v != "" {
			if strings.EqualFold(v, "all") {
				filter.Availability = ""
			} else {
				a, ok := ParseAvailability(v)
				if !ok {
					http.Error(w, "invalid availability", http.StatusBadRequest)
					return
				}
				filter.Availability = a
			}
		}
		if filter.Size != "" && !validSize(filter.Size) {
			http.Error(w, "invalid size", http.StatusBadRequest)
			return
		}
		if filter.Sex != "" && !validSex(filter.Sex) {
			http.Error(w, "invalid sex", http.StatusBadRequest)
			return
		}
		if filter.Color != "" && !validColor(filter.Color) {
			http.Error(w, "invalid color", http.StatusBadRequest)
			return
		}

		var err error
		if filter.AgeMin, err = optionalInt(q.Get("age_min"), 0, MaxAgeYears); err != nil {
			http.Error(w, "age_min must be an integer between 0 and 30", http.StatusBadRequest)
			return
		}
		if filter.AgeMax, err = optionalInt(q.Get("age_max"), 0, MaxAgeYears); err != nil {
			http.Error(w, "age_max must be an integer between 0 and 30", http.StatusBadRequest)
			return
		}
		if p, err := optionalInt(q.Get("page"), 1, 1<<20); err != nil {
			http.Error(w, "invalid page", http.StatusBadRequest)
			return
		} else if p != nil {
			filter.Page = *p
		}
		if ps, err := optionalInt(q.Get("page_size"), 1, MaxPageSize); err != nil {
			http.Error(w, "invalid page_size", http.StatusBadRequest)
			return
		} else if ps != nil {
			filter.PageSize = *ps
		}

		page, err := svc.List(r.Context(), filter)
		if err != nil {
			writeError(w, err)
			return
		}

		out := dogPageResponse{
			Items:    make([]dogResponse, 0, len(page.Items)),
			Total:    page.Total,
			Page:     page.Page,
			PageSize: page.PageSize,
		}
		for _, d := range page.Items {
			out.Items = append(out.Items, toDogResponse(d))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// getDogHandler godoc
// @Summary Ficha de un perro
// @Tags dogs
// @Produce json
// @Param dogID path string true "ID del perro"
// @Success 200 {object} dogResponse
// @Failure 404 {string} string "dog not found"
// @Router /dogs/{dogID} [get]
func getDogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := svc.GetByID(r.Context(), chi.URLParam(r, "dogID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toDogResponse(d))
	}
}

// updateDogHandler godoc
// @Summary Actualizar ficha
// @Description PATCH de la ficha. "availability" no se acepta: solo cambia vía solicitudes de adopción. weight_kg: null limpia el peso.
// @Tags dogs
// @Accept json
// @Produce json
// @Param dogID path string true "ID del perro"
// @Param payload body updateDogRequest true "Campos a modificar"
// @Success 200 {object} dogResponse
// @Failure 400 {string} string "invalid json / invalid input / availability is read-only"
// @Failure 404 {string} string "dog not found"
// @Router /dogs/{dogID} [patch]
func updateDogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Decodificamos a map para detectar presencia de weight_kg (null = limpiar)
		// y para rechazar escrituras directas de availability.
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if _, exists := raw["availability"]; exists {
			http.Error(w, "availability is read-only: it follows the dog's adoption applications", http.StatusBadRequest)
			return
		}

		weight := PatchWeight{}
		if v, exists := raw["weight_kg"]; exists {
			weight.Present = true
			delete(raw, "weight_kg")
			if string(v) != "null" {
				var f float64
				if err := json.Unmarshal(v, &f); err != nil {
					http.Error(w, "weight_kg must be a number or null", http.StatusBadRequest)
					return
				}
				weight.Value = &f
			}
		}

		var req updateDogRequest
		{
			b, _ := json.Marshal(raw)
			dec := json.NewDecoder(bytes.NewReader(b))
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				http.Error(w, "invalid json", http.StatusBadRequest)
				return
			}
		}

		updated, err := svc.UpdateProfile(r.Context(), chi.URLParam(r, "dogID"), UpdateProfileInput{
			Name:         req.Name,
			AgeYears:     req.AgeYears,
			Size:         req.Size,
			Sex:          req.Sex,
			Color:        req.Color,
			Breed:        req.Breed,
			Description:  req.Description,
			Vaccinated:   req.Vaccinated,
			Sterilized:   req.Sterilized,
			WeightKg:     weight,
			GoodWithKids: req.GoodWithKids,
			GoodWithDogs: req.GoodWithDogs,
			SpecialNeeds: req.SpecialNeeds,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toDogResponse(updated))
	}
}

// statsHandler godoc
// @Summary Estadísticas del albergue
// @Tags dogs
// @Produce json
// @Success 200 {object} statsResponse
// @Router /dogs/stats [get]
func statsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := svc.Stats(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, statsResponse{
			Available: st.Available,
			InProcess: st.InProcess,
			Adopted:   st.Adopted,
		})
	}
}

func toDogResponse(d Dog) dogResponse {
	return dogResponse{
		ID:           d.ID,
		Name:         d.Name,
		AgeYears:     d.AgeYears,
		Size:         d.Size,
		Sex:          d.Sex,
		Color:        d.Color,
		Breed:        d.Breed,
		Description:  d.Description,
		Vaccinated:   d.Vaccinated,
		Sterilized:   d.Sterilized,
		WeightKg:     d.WeightKg,
		GoodWithKids: d.GoodWithKids,
		GoodWithDogs: d.GoodWithDogs,
		SpecialNeeds: d.SpecialNeeds,
		Availability: d.Availability,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func optionalInt(raw string, min, max int) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	if n < min || n > max {
		return nil, strconv.ErrRange
	}
	return &n, nil
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "dog not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// writeJSON se repite en cada módulo de dominio.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
