package notify

import (
	"context"
	"errors"

	"shelter-adoptions/internal/domain/adoptions"
	"shelter-adoptions/internal/platform/logger"
)

// Log escribe el resumen en el log. Es el notifier por defecto.
type Log struct {
	log logger.Logger
}

func NewLog(l logger.Logger) *Log {
	return &Log{log: l}
}

func (n *Log) Notify(_ context.Context, s adoptions.Summary) error {
	n.log.Info(s.Message, map[string]any{
		"event":          "adoption_summary",
		"dog_id":         s.DogID,
		"application_id": s.ApplicationID,
		"availability":   string(s.Availability),
		"rejected_count": s.RejectedCount,
	})
	return nil
}

// Fanout entrega a todos los notifiers aunque alguno falle.
type Fanout []adoptions.Notifier

func (f Fanout) Notify(ctx context.Context, s adoptions.Summary) error {
	var errs []error
	for _, n := range f {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var (
	_ adoptions.Notifier = (*Log)(nil)
	_ adoptions.Notifier = Fanout(nil)
	_ adoptions.Notifier = (*Redis)(nil)
	_ adoptions.Notifier = (*Webhook)(nil)
)
