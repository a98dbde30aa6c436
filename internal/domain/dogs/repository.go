package dogs

import "context"

// Repository no expone escritura de Availability: ese campo es del motor de adopciones.
type Repository interface {
	Create(ctx context.Context, d Dog) error
	GetByID(ctx context.Context, id string) (Dog, error)
	List(ctx context.Context, filter ListFilter) ([]Dog, int, error)
	UpdateProfile(ctx context.Context, d Dog) error
	CountByAvailability(ctx context.Context) (map[Availability]int, error)
}
