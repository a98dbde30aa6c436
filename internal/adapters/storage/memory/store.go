package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"shelter-adoptions/internal/domain/adoptions"
	"shelter-adoptions/internal/domain/dogs"
	"shelter-adoptions/internal/domain/history"
)

// Store guarda perros, solicitudes y eventos en memoria. Las transacciones se
// serializan (una a la vez) y sus escrituras se aplican solo en commit.
type Store struct {
	txSem chan struct{} // una transacción a la vez

	mu     sync.RWMutex
	dogs   map[string]dogs.Dog
	apps   map[string]adoptions.Application
	events []history.Event
}

func NewStore() *Store {
	return &Store{
		txSem: make(chan struct{}, 1),
		dogs:  make(map[string]dogs.Dog),
		apps:  make(map[string]adoptions.Application),
	}
}

var _ adoptions.Store = (*Store)(nil)

func (s *Store) RunInTx(ctx context.Context, fn func(tx adoptions.Tx) error) error {
	select {
	case s.txSem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-s.txSem }()

	tx := &memTx{
		s:    s,
		dogs: make(map[string]dogs.Dog),
		apps: make(map[string]adoptions.Application),
	}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, d := range tx.dogs {
		s.dogs[id] = d
	}
	for id, a := range tx.apps {
		s.apps[id] = a
	}
	s.events = append(s.events, tx.events...)
	return nil
}

// memTx lee a través de sus escrituras pendientes.
type memTx struct {
	s *Store

	dogs   map[string]dogs.Dog
	apps   map[string]adoptions.Application
	events []history.Event
}

func (t *memTx) LockDog(ctx context.Context, dogID string) (dogs.Dog, error) {
	if err := ctx.Err(); err != nil {
		return dogs.Dog{}, err
	}
	d, ok := t.dog(dogID)
	if !ok {
		return dogs.Dog{}, fmt.Errorf("%w: %s", dogs.ErrNotFound, dogID)
	}
	// txSem ya serializa las transacciones: no hace falta más.
	return d, nil
}

func (t *memTx) UpdateDogAvailability(ctx context.Context, dogID string, availability dogs.Availability, expectedVersion int64, updatedAt time.Time) error {
	d, ok := t.dog(dogID)
	if !ok {
		return fmt.Errorf("%w: %s", dogs.ErrNotFound, dogID)
	}
	if d.Version != expectedVersion {
		return fmt.Errorf("%w: dog %s at version %d, expected %d", adoptions.ErrStaleDog, dogID, d.Version, expectedVersion)
	}
	d.Availability = availability
	d.Version++
	d.UpdatedAt = updatedAt
	t.dogs[dogID] = d
	return nil
}

func (t *memTx) GetApplication(ctx context.Context, id string) (adoptions.Application, error) {
	if a, ok := t.apps[id]; ok {
		return a, nil
	}
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	a, ok := t.s.apps[id]
	if !ok {
		return adoptions.Application{}, fmt.Errorf("%w: %s", adoptions.ErrNotFound, id)
	}
	return a, nil
}

func (t *memTx) ListApplicationsByDog(ctx context.Context, dogID string, states ...adoptions.State) ([]adoptions.Application, error) {
	want := make(map[adoptions.State]bool, len(states))
	for _, st := range states {
		want[st] = true
	}

	out := make([]adoptions.Application, 0)
	for _, a := range t.mergedApps(dogID) {
		if len(want) > 0 && !want[a.State] {
			continue
		}
		out = append(out, a)
	}
	sortApplications(out)
	return out, nil
}

func (t *memTx) CountApplicationsByState(ctx context.Context, dogID string) (adoptions.StateCounts, error) {
	counts := adoptions.StateCounts{}
	for _, a := range t.mergedApps(dogID) {
		counts[a.State]++
	}
	return counts, nil
}

func (t *memTx) CreateApplication(ctx context.Context, a adoptions.Application) error {
	if a.ID == "" {
		return fmt.Errorf("%w: application id required", adoptions.ErrInvalidInput)
	}
	if _, err := t.GetApplication(ctx, a.ID); err == nil {
		return fmt.Errorf("application %s already exists", a.ID)
	}
	if _, ok := t.dog(a.DogID); !ok {
		return fmt.Errorf("%w: %s", dogs.ErrNotFound, a.DogID)
	}
	t.apps[a.ID] = a
	return nil
}

func (t *memTx) UpdateApplication(ctx context.Context, a adoptions.Application) error {
	cur, err := t.GetApplication(ctx, a.ID)
	if err != nil {
		return err
	}
	// dog_id y created_at son inmutables
	a.DogID = cur.DogID
	a.CreatedAt = cur.CreatedAt
	t.apps[a.ID] = a
	return nil
}

func (t *memTx) AppendEvent(ctx context.Context, e history.Event) error {
	if e.ID == "" {
		return fmt.Errorf("event id required")
	}
	t.events = append(t.events, e)
	return nil
}

func (t *memTx) dog(id string) (dogs.Dog, bool) {
	if d, ok := t.dogs[id]; ok {
		return d, true
	}
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	d, ok := t.s.dogs[id]
	return d, ok
}

func (t *memTx) mergedApps(dogID string) map[string]adoptions.Application {
	merged := make(map[string]adoptions.Application)

	t.s.mu.RLock()
	for id, a := range t.s.apps {
		if a.DogID == dogID {
			merged[id] = a
		}
	}
	t.s.mu.RUnlock()

	for id, a := range t.apps {
		if a.DogID == dogID {
			merged[id] = a
		}
	}
	return merged
}
