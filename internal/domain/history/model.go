package history

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Actor struct {
	Type ActorType
	ID   string
}

// SystemActor es el actor de los cambios que produce el motor.
var SystemActor = Actor{Type: ActorTypeSystem, ID: "reconciler"}

// Event es una entrada del timeline de un perro.
// From/To guardan el estado anterior y nuevo (de la solicitud o del perro según Type).
type Event struct {
	ID            string
	DogID         string
	ApplicationID string // vacío en eventos que solo tocan al perro

	Type EventType
	From string
	To   string

	Actor Actor
	Notes string

	OccurredAt time.Time
}

// NewEvent arma un evento con ID nuevo. Se persiste dentro de la misma
// transacción que el cambio que describe.
func NewEvent(t EventType, dogID, applicationID, from, to string, actor Actor, at time.Time) Event {
	if actor.Type == "" {
		actor = SystemActor
	}
	return Event{
		ID:            uuid.NewString(),
		DogID:         dogID,
		ApplicationID: applicationID,
		Type:          t,
		From:          from,
		To:            to,
		Actor:         Actor{Type: actor.Type, ID: strings.TrimSpace(actor.ID)},
		OccurredAt:    at,
	}
}
