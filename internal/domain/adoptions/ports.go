package adoptions

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks Notifier

import (
	"context"
	"time"

	"shelter-adoptions/internal/domain/dogs"
	"shelter-adoptions/internal/domain/history"
)

// Tx es la vista transaccional sobre un perro y sus solicitudes.
// Todo lo escrito a través de un Tx se confirma junto o no se confirma.
type Tx interface {
	// LockDog es la lectura serializante del perro (FOR UPDATE o equivalente).
	// Se mantiene hasta el fin de la transacción y puede pedirse más de una vez.
	LockDog(ctx context.Context, dogID string) (dogs.Dog, error)
	// UpdateDogAvailability es compare-and-swap sobre expectedVersion; si no
	// coincide devuelve ErrStaleDog. Incrementa la versión.
	UpdateDogAvailability(ctx context.Context, dogID string, availability dogs.Availability, expectedVersion int64, updatedAt time.Time) error

	GetApplication(ctx context.Context, id string) (Application, error)
	// ListApplicationsByDog sin states devuelve todas.
	ListApplicationsByDog(ctx context.Context, dogID string, states ...State) ([]Application, error)
	CountApplicationsByState(ctx context.Context, dogID string) (StateCounts, error)
	CreateApplication(ctx context.Context, a Application) error
	UpdateApplication(ctx context.Context, a Application) error

	AppendEvent(ctx context.Context, e history.Event) error
}

// Store abre transacciones. Si fn devuelve error se descarta todo lo escrito.
type Store interface {
	RunInTx(ctx context.Context, fn func(tx Tx) error) error
}

// Repository son las lecturas fuera de transacción.
type Repository interface {
	GetByID(ctx context.Context, id string) (Application, error)
	ListByDog(ctx context.Context, dogID string) ([]Application, error)
}

type UnlockFunc func(ctx context.Context) error

// DogLocker es un lock lógico por perro, adicional al lock de fila del Store
// (necesario cuando varias instancias comparten un Store sin locks de fila).
type DogLocker interface {
	Lock(ctx context.Context, dogID string) (UnlockFunc, error)
}

// Notifier recibe el resumen de una reconciliación para avisos al usuario.
// El motor no lo llama: lo llama el Service después del commit.
type Notifier interface {
	Notify(ctx context.Context, s Summary) error
}

// Recorder recibe métricas de reconciliación.
type Recorder interface {
	ObserveReconcile(outcome string, elapsed time.Duration)
	AddCascadeRejections(n int)
	ObserveDogTransition(from, to dogs.Availability)
}
