package adoptions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"shelter-adoptions/internal/domain/dogs"
	"shelter-adoptions/internal/domain/history"
)

var (
	// ErrInvariantViolation: el resultado dejaría la disponibilidad del perro
	// inconsistente con sus solicitudes. Siempre aborta la transacción.
	ErrInvariantViolation = errors.New("adoption invariant violation")
	// ErrConcurrentApproval: otra solicitud del mismo perro ya fue aprobada.
	ErrConcurrentApproval = errors.New("dog was just adopted by someone else")
	// ErrStaleDog lo devuelven los stores cuando falla el compare-and-swap de versión.
	ErrStaleDog = errors.New("dog version changed concurrently")
)

// Engine evalúa las reglas de disponibilidad. No notifica ni reintenta.
type Engine struct {
	now func() time.Time
}

func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// Result describe lo que cambió en una reconciliación.
type Result struct {
	DogID   string
	DogName string

	PreviousAvailability dogs.Availability
	Availability         dogs.Availability

	ApplicationID string
	State         State

	// Cascaded son las solicitudes hermanas rechazadas automáticamente.
	Cascaded []Application

	// Changed es false cuando el hook no encontró cambio de estado (no se reconcilió).
	Changed bool

	Summary Summary
}

func (r Result) DogChanged() bool {
	return r.PreviousAvailability != r.Availability
}

// Summary es el resumen para mensajes al usuario.
type Summary struct {
	DogID         string              `json:"dog_id"`
	DogName       string              `json:"dog_name"`
	ApplicationID string              `json:"application_id"`
	State         State               `json:"state"`
	Availability  dogs.Availability   `json:"availability"`
	RejectedCount int                 `json:"rejected_count"`
	Rejected      []RejectedApplicant `json:"rejected,omitempty"`
	Message       string              `json:"message"`
}

type RejectedApplicant struct {
	ApplicationID string `json:"application_id"`
	ApplicantName string `json:"applicant_name"`
}

// Reconcile recalcula la disponibilidad del perro después de que la solicitud
// applicationID quedó en newState dentro de tx. Precondición: ese estado ya
// está escrito en tx. Cualquier error deja la transacción para rollback.
func (e *Engine) Reconcile(ctx context.Context, tx Tx, dogID, applicationID string, newState State) (Result, error) {
	if !newState.Valid() {
		return Result{}, fmt.Errorf("%w: unknown state %q", ErrInvalidInput, newState)
	}

	dog, err := tx.LockDog(ctx, dogID)
	if err != nil {
		return Result{}, err
	}
	app, err := tx.GetApplication(ctx, applicationID)
	if err != nil {
		return Result{}, err
	}
	if app.DogID != dog.ID {
		return Result{}, fmt.Errorf("%w: application %s is not filed for dog %s", ErrNotFound, app.ID, dog.ID)
	}
	if app.State != newState {
		return Result{}, fmt.Errorf("%w: application %s is %s, not %s", ErrInvalidInput, app.ID, app.State, newState)
	}

	now := e.now()
	res := Result{
		DogID:                dog.ID,
		DogName:              dog.Name,
		PreviousAvailability: dog.Availability,
		Availability:         dog.Availability,
		ApplicationID:        app.ID,
		State:                newState,
		Changed:              true,
	}

	target := dog.Availability
	var counts StateCounts

	switch newState {
	case StateApproved:
		cascaded, err := e.rejectSiblings(ctx, tx, dog.ID, app.ID, now)
		if err != nil {
			return Result{}, err
		}
		res.Cascaded = cascaded
		target = dogs.AvailabilityAdopted

	case StatePending, StateInReview:
		// Solo saca al perro de AVAILABLE. IN_PROCESS/ADOPTED no cambian desde aquí.
		if dog.Availability == dogs.AvailabilityAvailable {
			target = dogs.AvailabilityInProcess
		}

	case StateRejected:
		// La solicitud recién rechazada ya no cuenta como activa.
		counts, err = tx.CountApplicationsByState(ctx, dog.ID)
		if err != nil {
			return Result{}, err
		}
		if counts.Active() == 0 {
			target = dogs.AvailabilityAvailable
		}
	}

	if err := e.moveDog(ctx, tx, dog, target, now); err != nil {
		return Result{}, err
	}
	res.Availability = target

	if counts == nil || len(res.Cascaded) > 0 {
		counts, err = tx.CountApplicationsByState(ctx, dog.ID)
		if err != nil {
			return Result{}, err
		}
	}
	if err := CheckInvariants(target, counts); err != nil {
		return Result{}, fmt.Errorf("dog %s: %w", dog.ID, err)
	}

	res.Summary = summarize(res)
	return res, nil
}

// Revalidate recalcula la disponibilidad de un perro a partir de todas sus
// solicitudes, para datos escritos fuera del motor. Con una aprobada aplica la
// misma cascada que una aprobación; con más de una no repara nada.
func (e *Engine) Revalidate(ctx context.Context, tx Tx, dogID string) (Result, error) {
	dog, err := tx.LockDog(ctx, dogID)
	if err != nil {
		return Result{}, err
	}

	approved, err := tx.ListApplicationsByDog(ctx, dog.ID, StateApproved)
	if err != nil {
		return Result{}, err
	}
	switch {
	case len(approved) > 1:
		return Result{}, fmt.Errorf("dog %s: %w: %d approved applications", dog.ID, ErrInvariantViolation, len(approved))
	case len(approved) == 1:
		res, err := e.Reconcile(ctx, tx, dog.ID, approved[0].ID, StateApproved)
		if err != nil {
			return Result{}, err
		}
		res.Changed = res.DogChanged() || len(res.Cascaded) > 0
		return res, nil
	}

	counts, err := tx.CountApplicationsByState(ctx, dog.ID)
	if err != nil {
		return Result{}, err
	}
	target := dogs.AvailabilityAvailable
	if counts.Open() > 0 {
		target = dogs.AvailabilityInProcess
	}

	now := e.now()
	if target != dog.Availability {
		if err := tx.AppendEvent(ctx, history.NewEvent(
			history.EventTypeDogRevalidated, dog.ID, "",
			string(dog.Availability), string(target), history.SystemActor, now,
		)); err != nil {
			return Result{}, err
		}
	}
	if err := e.moveDog(ctx, tx, dog, target, now); err != nil {
		return Result{}, err
	}
	if err := CheckInvariants(target, counts); err != nil {
		return Result{}, fmt.Errorf("dog %s: %w", dog.ID, err)
	}

	res := Result{
		DogID:                dog.ID,
		DogName:              dog.Name,
		PreviousAvailability: dog.Availability,
		Availability:         target,
		Changed:              target != dog.Availability,
	}
	res.Summary = summarize(res)
	return res, nil
}

// rejectSiblings rechaza las solicitudes abiertas del perro distintas de approvedID.
// Las escribe directo en tx: no vuelven a pasar por el hook.
func (e *Engine) rejectSiblings(ctx context.Context, tx Tx, dogID, approvedID string, now time.Time) ([]Application, error) {
	siblings, err := tx.ListApplicationsByDog(ctx, dogID, StatePending, StateInReview, StateApproved)
	if err != nil {
		return nil, err
	}

	var cascaded []Application
	for _, s := range siblings {
		if s.ID == approvedID {
			continue
		}
		if s.State == StateApproved {
			return nil, fmt.Errorf("%w: dog %s already has approved application %s", ErrConcurrentApproval, dogID, s.ID)
		}

		prev := s.State
		s.State = StateRejected
		s.UpdatedAt = now
		if err := tx.UpdateApplication(ctx, s); err != nil {
			return nil, err
		}
		ev := history.NewEvent(
			history.EventTypeApplicationAutoRejected, dogID, s.ID,
			string(prev), string(StateRejected), history.SystemActor, now,
		)
		ev.Notes = "approved application " + approvedID
		if err := tx.AppendEvent(ctx, ev); err != nil {
			return nil, err
		}
		cascaded = append(cascaded, s)
	}
	return cascaded, nil
}

func (e *Engine) moveDog(ctx context.Context, tx Tx, dog dogs.Dog, target dogs.Availability, now time.Time) error {
	if target == dog.Availability {
		return nil
	}
	if err := tx.UpdateDogAvailability(ctx, dog.ID, target, dog.Version, now); err != nil {
		if errors.Is(err, ErrStaleDog) {
			return fmt.Errorf("%w: %v", ErrConcurrentApproval, err)
		}
		return err
	}
	return tx.AppendEvent(ctx, history.NewEvent(
		history.EventTypeDogAvailabilityChanged, dog.ID, "",
		string(dog.Availability), string(target), history.SystemActor, now,
	))
}

// CheckInvariants valida que la disponibilidad coincida con el agregado de solicitudes por estado.
func CheckInvariants(a dogs.Availability, c StateCounts) error {
	approved := c[StateApproved]
	open := c.Open()

	switch a {
	case dogs.AvailabilityAdopted:
		if approved != 1 || open != 0 {
			return fmt.Errorf("%w: ADOPTED needs exactly one APPROVED and no open applications (approved=%d open=%d)", ErrInvariantViolation, approved, open)
		}
	case dogs.AvailabilityAvailable:
		if approved != 0 || open != 0 {
			return fmt.Errorf("%w: AVAILABLE needs no active applications (approved=%d open=%d)", ErrInvariantViolation, approved, open)
		}
	case dogs.AvailabilityInProcess:
		if approved != 0 || open == 0 {
			return fmt.Errorf("%w: IN_PROCESS needs open applications and none APPROVED (approved=%d open=%d)", ErrInvariantViolation, approved, open)
		}
	default:
		return fmt.Errorf("%w: unknown availability %q", ErrInvariantViolation, a)
	}
	return nil
}

func summarize(r Result) Summary {
	s := Summary{
		DogID:         r.DogID,
		DogName:       r.DogName,
		ApplicationID: r.ApplicationID,
		State:         r.State,
		Availability:  r.Availability,
		RejectedCount: len(r.Cascaded),
	}
	names := make([]string, 0, len(r.Cascaded))
	for _, a := range r.Cascaded {
		s.Rejected = append(s.Rejected, RejectedApplicant{ApplicationID: a.ID, ApplicantName: a.ApplicantName})
		names = append(names, a.ApplicantName)
	}

	var b strings.Builder
	if r.DogChanged() {
		fmt.Fprintf(&b, "%s is now %s", r.DogName, r.Availability)
	} else {
		fmt.Fprintf(&b, "%s stays %s", r.DogName, r.Availability)
	}
	switch len(names) {
	case 0:
	case 1:
		fmt.Fprintf(&b, "; 1 other application was rejected automatically (%s)", names[0])
	default:
		fmt.Fprintf(&b, "; %d other applications were rejected automatically (%s)", len(names), strings.Join(names, ", "))
	}
	s.Message = b.String()
	return s
}
