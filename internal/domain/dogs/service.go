package dogs

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("dog not found")
)

const (
	DefaultPageSize = 12
	MaxPageSize     = 100
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name         string
	AgeYears     int
	Size         Size
	Sex          Sex
	Color        Color
	Breed        string
	Description  string
	Vaccinated   bool
	Sterilized   bool
	WeightKg     *float64
	GoodWithKids bool
	GoodWithDogs bool
	SpecialNeeds string
}

// Create da de alta un perro. Siempre nace AVAILABLE.
func (s *Service) Create(ctx context.Context, in CreateInput) (Dog, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Dog{}, ErrInvalidInput
	}
	if in.AgeYears < 0 || in.AgeYears > MaxAgeYears {
		return Dog{}, ErrInvalidInput
	}
	if !validSize(in.Size) || !validSex(in.Sex) || !validColor(in.Color) {
		return Dog{}, ErrInvalidInput
	}
	if in.WeightKg != nil && *in.WeightKg <= 0 {
		return Dog{}, ErrInvalidInput
	}

	now := s.now()
	d := Dog{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		AgeYears:     in.AgeYears,
		Size:         in.Size,
		Sex:          in.Sex,
		Color:        in.Color,
		Breed:        strings.TrimSpace(in.Breed),
		Description:  strings.TrimSpace(in.Description),
		Vaccinated:   in.Vaccinated,
		Sterilized:   in.Sterilized,
		WeightKg:     in.WeightKg,
		GoodWithKids: in.GoodWithKids,
		GoodWithDogs: in.GoodWithDogs,
		SpecialNeeds: strings.TrimSpace(in.SpecialNeeds),
		Availability: AvailabilityAvailable,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, d); err != nil {
		return Dog{}, err
	}
	return d, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Dog, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Dog{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// List aplica defaults de paginación (12 por página, como el catálogo público).
func (s *Service) List(ctx context.Context, filter ListFilter) (Page, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = DefaultPageSize
	}
	if filter.PageSize > MaxPageSize {
		filter.PageSize = MaxPageSize
	}
	if filter.AgeMin != nil && filter.AgeMax != nil && *filter.AgeMin > *filter.AgeMax {
		return Page{}, ErrInvalidInput
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return Page{}, err
	}
	return Page{
		Items:    items,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// PatchWeight distingue "no enviado" de "weight_kg": null (limpiar).
type PatchWeight struct {
	Present bool
	Value   *float64
}

// UpdateProfileInput usa punteros para PATCH real: nil = no tocar.
type UpdateProfileInput struct {
	Name         *string
	AgeYears     *int
	Size         *Size
	Sex          *Sex
	Color        *Color
	Breed        *string
	Description  *string
	Vaccinated   *bool
	Sterilized   *bool
	WeightKg     PatchWeight
	GoodWithKids *bool
	GoodWithDogs *bool
	SpecialNeeds *string
}

// UpdateProfile modifica los datos de ficha. Availability y Version quedan intactos.
func (s *Service) UpdateProfile(ctx context.Context, id string, in UpdateProfileInput) (Dog, error) {
	d, err := s.GetByID(ctx, id)
	if err != nil {
		return Dog{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Dog{}, ErrInvalidInput
		}
		d.Name = name
	}
	if in.AgeYears != nil {
		if *in.AgeYears < 0 || *in.AgeYears > MaxAgeYears {
			return Dog{}, ErrInvalidInput
		}
		d.AgeYears = *in.AgeYears
	}
	if in.Size != nil {
		if !validSize(*in.Size) {
			return Dog{}, ErrInvalidInput
		}
		d.Size = *in.Size
	}
	if in.Sex != nil {
		if !validSex(*in.Sex) {
			return Dog{}, ErrInvalidInput
		}
		d.Sex = *in.Sex
	}
	if in.Color != nil {
		if !validColor(*in.Color) {
			return Dog{}, ErrInvalidInput
		}
		d.Color = *in.Color
	}
	if in.Breed != nil {
		d.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.Description != nil {
		d.Description = strings.TrimSpace(*in.Description)
	}
	if in.Vaccinated != nil {
		d.Vaccinated = *in.Vaccinated
	}
	if in.Sterilized != nil {
		d.Sterilized = *in.Sterilized
	}
	if in.WeightKg.Present {
		if in.WeightKg.Value != nil && *in.WeightKg.Value <= 0 {
			return Dog{}, ErrInvalidInput
		}
		d.WeightKg = in.WeightKg.Value
	}
	if in.GoodWithKids != nil {
		d.GoodWithKids = *in.GoodWithKids
	}
	if in.GoodWithDogs != nil {
		d.GoodWithDogs = *in.GoodWithDogs
	}
	if in.SpecialNeeds != nil {
		d.SpecialNeeds = strings.TrimSpace(*in.SpecialNeeds)
	}

	d.UpdatedAt = s.now()
	if err := s.repo.UpdateProfile(ctx, d); err != nil {
		return Dog{}, err
	}
	return d, nil
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	counts, err := s.repo.CountByAvailability(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		Available: counts[AvailabilityAvailable],
		InProcess: counts[AvailabilityInProcess],
		Adopted:   counts[AvailabilityAdopted],
	}, nil
}
