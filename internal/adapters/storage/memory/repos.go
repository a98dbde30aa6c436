package memory

import (
	"context"
	"fmt"
	"sort"

	"shelter-adoptions/internal/domain/adoptions"
	"shelter-adoptions/internal/domain/dogs"
	"shelter-adoptions/internal/domain/history"
)

type dogRepo struct{ s *Store }

type applicationRepo struct{ s *Store }

type historyRepo struct{ s *Store }

// Dogs, Applications e History son vistas sobre el mismo Store.
func (s *Store) Dogs() dogs.Repository { return dogRepo{s} }
func (s *Store) Applications() adoptions.Repository { return applicationRepo{s} }
func (s *Store) History() history.Repository { return historyRepo{s} }

func (r dogRepo) Create(ctx context.Context, d dogs.Dog) error {
	s := r.s
	return s.exclusive(ctx, func() error {
		if d.ID == "" {
			return fmt.Errorf("%w: dog id required", dogs.ErrInvalidInput)
		}
		if _, exists := s.dogs[d.ID]; exists {
			return fmt.Errorf("dog %s already exists", d.ID)
		}
		s.dogs[d.ID] = d
		return nil
	})
}

func (r dogRepo) GetByID(ctx context.Context, id string) (dogs.Dog, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.dogs[id]
	if !ok {
		return dogs.Dog{}, fmt.Errorf("%w: %s", dogs.ErrNotFound, id)
	}
	return d, nil
}

func (r dogRepo) List(ctx context.Context, filter dogs.ListFilter) ([]dogs.Dog, int, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]dogs.Dog, 0)
	for _, d := range s.dogs {
		if filter.Availability != "" && d.Availability != filter.Availability {
			continue
		}
		if filter.Size != "" && d.Size != filter.Size {
			continue
		}
		if filter.Sex != "" && d.Sex != filter.Sex {
			continue
		}
		if filter.Color != "" && d.Color != filter.Color {
			continue
		}
		if filter.AgeMin != nil && d.AgeYears < *filter.AgeMin {
			continue
		}
		if filter.AgeMax != nil && d.AgeYears > *filter.AgeMax {
			continue
		}
		out = append(out, d)
	}

	// Más nuevos primero, igual que en SQL.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})

	total := len(out)
	page, size := filter.Page, filter.PageSize
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = dogs.DefaultPageSize
	}
	start := (page - 1) * size
	if start >= total {
		return []dogs.Dog{}, total, nil
	}
	end := start + size
	if end > total {
		end = total
	}
	return out[start:end], total, nil
}

// UpdateProfile conserva Availability y Version guardados.
func (r dogRepo) UpdateProfile(ctx context.Context, d dogs.Dog) error {
	s := r.s
	return s.exclusive(ctx, func() error {
		cur, ok := s.dogs[d.ID]
		if !ok {
			return fmt.Errorf("%w: %s", dogs.ErrNotFound, d.ID)
		}
		d.Availability = cur.Availability
		d.Version = cur.Version
		d.CreatedAt = cur.CreatedAt
		s.dogs[d.ID] = d
		return nil
	})
}

func (r dogRepo) CountByAvailability(ctx context.Context) (map[dogs.Availability]int, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[dogs.Availability]int, 3)
	for _, d := range s.dogs {
		out[d.Availability]++
	}
	return out, nil
}

func (r applicationRepo) GetByID(ctx context.Context, id string) (adoptions.Application, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.apps[id]
	if !ok {
		return adoptions.Application{}, fmt.Errorf("%w: %s", adoptions.ErrNotFound, id)
	}
	return a, nil
}

func (r applicationRepo) ListByDog(ctx context.Context, dogID string) ([]adoptions.Application, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]adoptions.Application, 0)
	for _, a := range s.apps {
		if a.DogID == dogID {
			out = append(out, a)
		}
	}
	sortApplications(out)
	return out, nil
}

// PutApplication escribe una solicitud tal cual, sin pasar por el motor
// (importaciones y carga de datos históricos). Después hay que revalidar al perro.
func (s *Store) PutApplication(ctx context.Context, a adoptions.Application) error {
	return s.exclusive(ctx, func() error {
		if _, ok := s.dogs[a.DogID]; !ok {
			return fmt.Errorf("%w: %s", dogs.ErrNotFound, a.DogID)
		}
		s.apps[a.ID] = a
		return nil
	})
}

// PutAvailability fuerza la disponibilidad de un perro sin pasar por el motor.
func (s *Store) PutAvailability(ctx context.Context, dogID string, a dogs.Availability) error {
	return s.exclusive(ctx, func() error {
		d, ok := s.dogs[dogID]
		if !ok {
			return fmt.Errorf("%w: %s", dogs.ErrNotFound, dogID)
		}
		d.Availability = a
		d.Version++
		s.dogs[dogID] = d
		return nil
	})
}

func (r historyRepo) ListByDog(ctx context.Context, dogID string, filter history.ListFilter) ([]history.Event, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := filter.Limit
	if limit <= 0 {
		limit = history.DefaultLimit
	}

	out := make([]history.Event, 0)
	for i := len(s.events) - 1; i >= 0; i-- {
		e := s.events[i]
		if e.DogID != dogID {
			continue
		}
		if len(filter.Types) > 0 && !hasType(filter.Types, e.Type) {
			continue
		}
		if filter.From != nil && e.OccurredAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && e.OccurredAt.After(*filter.To) {
			continue
		}
		out = append(out, e)
	}

	sortEventsDesc(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r historyRepo) ListByApplication(ctx context.Context, applicationID string) ([]history.Event, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]history.Event, 0)
	for i := len(s.events) - 1; i >= 0; i-- {
		e := s.events[i]
		if e.ApplicationID == applicationID {
			out = append(out, e)
		}
	}
	sortEventsDesc(out)
	return out, nil
}

// exclusive corre fn con la exclusión de una transacción.
func (s *Store) exclusive(ctx context.Context, fn func() error) error {
	select {
	case s.txSem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-s.txSem }()

	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

func hasType(types []history.EventType, t history.EventType) bool {
	for _, x := range types {
		if x == t {
			return true
		}
	}
	return false
}

// sortEventsDesc: más reciente primero. out viene en orden de inserción
// inverso, así que SliceStable deja los empates con el último escrito primero.
func sortEventsDesc(out []history.Event) {
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OccurredAt.After(out[j].OccurredAt)
	})
}

// sortApplications: más antiguas primero (orden de llegada).
func sortApplications(out []adoptions.Application) {
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
}

// DogIDs lista todos los perros, más antiguos primero (revalidación en lote).
func (s *Store) DogIDs(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]dogs.Dog, 0, len(s.dogs))
	for _, d := range s.dogs {
		all = append(all, d)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})
	out := make([]string, 0, len(all))
	for _, d := range all {
		out = append(out, d.ID)
	}
	return out, nil
}
