package history

import (
	"context"
	"time"
)

// Repository de solo lectura: los eventos se escriben desde la transacción de adopciones.
type Repository interface {
	ListByDog(ctx context.Context, dogID string, filter ListFilter) ([]Event, error)
	ListByApplication(ctx context.Context, applicationID string) ([]Event, error)
}

type ListFilter struct {
	Types []EventType
	From  *time.Time
	To    *time.Time
	Limit int
}
