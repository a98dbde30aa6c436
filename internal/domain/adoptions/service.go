package adoptions

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"shelter-adoptions/internal/domain/dogs"
	"shelter-adoptions/internal/domain/history"
	"shelter-adoptions/internal/platform/logger"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("application not found")
	// ErrDogUnavailable: no se aceptan solicitudes para un perro ya adoptado.
	ErrDogUnavailable = errors.New("dog is not available for adoption")
)

const DefaultTxTimeout = 5 * time.Second

type Service struct {
	repo   Repository
	store  Store
	engine *Engine

	locker   DogLocker
	notifier Notifier
	metrics  Recorder
	log      logger.Logger

	txTimeout time.Duration
	now       func() time.Time
}

type Option func(*Service)

func WithLocker(l DogLocker) Option     { return func(s *Service) { s.locker = l } }
func WithNotifier(n Notifier) Option    { return func(s *Service) { s.notifier = n } }
func WithRecorder(r Recorder) Option    { return func(s *Service) { s.metrics = r } }
func WithLogger(l logger.Logger) Option { return func(s *Service) { s.log = l } }

// WithTxTimeout acota cada reconciliación; al vencer se aborta la transacción entera.
func WithTxTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.txTimeout = d
		}
	}
}

func NewService(repo Repository, store Store, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		store:     store,
		engine:    NewEngine(),
		log:       logger.Discard(),
		txTimeout: DefaultTxTimeout,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.engine.now = func() time.Time { return s.now() }
	return s
}

type SubmitInput struct {
	ApplicantName string
	Email         string
	Phone         string
	Address       string
	HousingType   HousingType
	HasYard       bool
	OtherAnimals  string
	PetExperience string
	Motivation    string
}

// Submit registra una solicitud nueva (PENDING) y reconcilia al perro en la misma transacción.
func (s *Service) Submit(ctx context.Context, dogID string, in SubmitInput) (Application, Result, error) {
	dogID = strings.TrimSpace(dogID)
	if dogID == "" {
		return Application{}, Result{}, ErrInvalidInput
	}
	if err := validateSubmit(&in); err != nil {
		return Application{}, Result{}, err
	}

	now := s.now()
	app := Application{
		ID:            uuid.NewString(),
		DogID:         dogID,
		ApplicantName: in.ApplicantName,
		Email:         in.Email,
		Phone:         in.Phone,
		Address:       in.Address,
		HousingType:   in.HousingType,
		HasYard:       in.HasYard,
		OtherAnimals:  in.OtherAnimals,
		PetExperience: in.PetExperience,
		Motivation:    in.Motivation,
		State:         StatePending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	start := time.Now()
	var res Result
	err := s.withDog(ctx, dogID, func(tx Tx) error {
		dog, err := tx.LockDog(ctx, dogID)
		if err != nil {
			return err
		}
		if dog.Availability == dogs.AvailabilityAdopted {
			return fmt.Errorf("%w: %s was already adopted", ErrDogUnavailable, dog.Name)
		}

		if err := tx.CreateApplication(ctx, app); err != nil {
			return err
		}
		if err := tx.AppendEvent(ctx, history.NewEvent(
			history.EventTypeApplicationSubmitted, dogID, app.ID,
			"", string(StatePending), history.Actor{Type: history.ActorTypeApplicant, ID: app.Email}, now,
		)); err != nil {
			return err
		}

		res, err = s.engine.Reconcile(ctx, tx, dogID, app.ID, StatePending)
		return err
	})
	s.observe("submit", start, res, err)
	if err != nil {
		return Application{}, Result{}, err
	}
	return app, res, nil
}

type ChangeStateInput struct {
	ApplicationID string
	State         State
	// AdminNotes nil = no tocar.
	AdminNotes *string
	ActorID    string
}

// ChangeState es el hook de cambio de estado: escribe el nuevo estado y llama
// a Reconcile una sola vez, en la misma transacción. Si el estado no cambia no
// reconcilia y devuelve un Result con Changed=false.
func (s *Service) ChangeState(ctx context.Context, in ChangeStateInput) (Result, error) {
	id := strings.TrimSpace(in.ApplicationID)
	if id == "" || !in.State.Valid() {
		return Result{}, ErrInvalidInput
	}

	start := time.Now()
	// DogID no cambia nunca; lo leemos fuera de la transacción para tomar el lock.
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Result{}, err
	}

	var res Result
	err = s.withDog(ctx, current.DogID, func(tx Tx) error {
		// Fila del perro primero: el lock se toma antes de cualquier escritura.
		dog, err := tx.LockDog(ctx, current.DogID)
		if err != nil {
			return err
		}
		app, err := tx.GetApplication(ctx, id)
		if err != nil {
			return err
		}

		if app.State == in.State {
			if in.AdminNotes != nil && strings.TrimSpace(*in.AdminNotes) != app.AdminNotes {
				app.AdminNotes = strings.TrimSpace(*in.AdminNotes)
				app.UpdatedAt = s.now()
				if err := tx.UpdateApplication(ctx, app); err != nil {
					return err
				}
			}
			res = Result{
				DogID:                dog.ID,
				DogName:              dog.Name,
				PreviousAvailability: dog.Availability,
				Availability:         dog.Availability,
				ApplicationID:        app.ID,
				State:                app.State,
			}
			res.Summary = summarize(res)
			return nil
		}

		prev := app.State
		now := s.now()
		app.State = in.State
		app.UpdatedAt = now
		if in.AdminNotes != nil {
			app.AdminNotes = strings.TrimSpace(*in.AdminNotes)
		}
		if err := tx.UpdateApplication(ctx, app); err != nil {
			return err
		}
		ev := history.NewEvent(
			history.EventTypeApplicationStateChanged, app.DogID, app.ID,
			string(prev), string(in.State), history.Actor{Type: history.ActorTypeStaff, ID: in.ActorID}, now,
		)
		ev.Notes = app.AdminNotes
		if err := tx.AppendEvent(ctx, ev); err != nil {
			return err
		}

		res, err = s.engine.Reconcile(ctx, tx, app.DogID, app.ID, in.State)
		return err
	})
	s.observe("change_state", start, res, err)
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

type BulkItem struct {
	ApplicationID string
	Result        Result
	Err           error
}

// BulkChangeState aplica ChangeState a cada solicitud en su propia transacción.
// Un fallo no detiene al resto; aprobar dos solicitudes del mismo perro deja
// la segunda en ErrConcurrentApproval.
func (s *Service) BulkChangeState(ctx context.Context, ids []string, state State, actorID string) ([]BulkItem, error) {
	if len(ids) == 0 || !state.Valid() {
		return nil, ErrInvalidInput
	}

	seen := make(map[string]struct{}, len(ids))
	out := make([]BulkItem, 0, len(ids))
	for _, raw := range ids {
		id := strings.TrimSpace(raw)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		res, err := s.ChangeState(ctx, ChangeStateInput{ApplicationID: id, State: state, ActorID: actorID})
		out = append(out, BulkItem{ApplicationID: id, Result: res, Err: err})
	}
	return out, nil
}

// Revalidate recalcula la disponibilidad del perro desde sus solicitudes.
func (s *Service) Revalidate(ctx context.Context, dogID string) (Result, error) {
	dogID = strings.TrimSpace(dogID)
	if dogID == "" {
		return Result{}, ErrInvalidInput
	}

	start := time.Now()
	var res Result
	err := s.withDog(ctx, dogID, func(tx Tx) error {
		var err error
		res, err = s.engine.Revalidate(ctx, tx, dogID)
		return err
	})
	s.observe("revalidate", start, res, err)
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Application, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Application{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByDog(ctx context.Context, dogID string) ([]Application, error) {
	dogID = strings.TrimSpace(dogID)
	if dogID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByDog(ctx, dogID)
}

// withDog toma el lock lógico del perro (si hay locker) y corre fn en una transacción.
func (s *Service) withDog(ctx context.Context, dogID string, fn func(tx Tx) error) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.txTimeout)
		defer cancel()
	}

	if s.locker != nil {
		unlock, err := s.locker.Lock(ctx, dogID)
		if err != nil {
			return fmt.Errorf("lock dog %s: %w", dogID, err)
		}
		defer func() {
			// El ctx puede estar vencido; liberamos igual.
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				s.log.Warn("dog unlock failed", map[string]any{"dog_id": dogID, "error": err.Error()})
			}
		}()
	}

	return s.store.RunInTx(ctx, fn)
}

// observe registra métricas/logs y notifica después del commit.
func (s *Service) observe(op string, start time.Time, res Result, err error) {
	outcome := outcomeOf(err)
	if s.metrics != nil {
		s.metrics.ObserveReconcile(outcome, time.Since(start))
	}

	fields := map[string]any{
		"op":             op,
		"outcome":        outcome,
		"dog_id":         res.DogID,
		"application_id": res.ApplicationID,
	}
	if err != nil {
		fields["error"] = err.Error()
		switch outcome {
		case "conflict", "invariant_violation", "unavailable":
			s.log.Warn("reconciliation rejected", fields)
		case "not_found", "invalid_input":
			s.log.Debug("reconciliation refused", fields)
		default:
			s.log.Error("reconciliation failed", fields)
		}
		return
	}
	if !res.Changed {
		s.log.Debug("no state change; reconciliation skipped", fields)
		return
	}

	fields["state"] = string(res.State)
	fields["from"] = string(res.PreviousAvailability)
	fields["to"] = string(res.Availability)
	fields["cascaded"] = len(res.Cascaded)
	s.log.Info("reconciled", fields)

	if s.metrics != nil {
		s.metrics.AddCascadeRejections(len(res.Cascaded))
		if res.DogChanged() {
			s.metrics.ObserveDogTransition(res.PreviousAvailability, res.Availability)
		}
	}

	if s.notifier != nil && (res.DogChanged() || len(res.Cascaded) > 0) {
		// El aviso no es parte de la transacción: un fallo aquí solo se loguea.
		if nerr := s.notifier.Notify(context.Background(), res.Summary); nerr != nil {
			s.log.Error("notify failed", map[string]any{"dog_id": res.DogID, "error": nerr.Error()})
		}
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrConcurrentApproval):
		return "conflict"
	case errors.Is(err, ErrInvariantViolation):
		return "invariant_violation"
	case errors.Is(err, ErrDogUnavailable):
		return "unavailable"
	case errors.Is(err, ErrNotFound), errors.Is(err, dogs.ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "timeout"
	default:
		return "error"
	}
}

func validateSubmit(in *SubmitInput) error {
	in.ApplicantName = strings.TrimSpace(in.ApplicantName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	in.OtherAnimals = strings.TrimSpace(in.OtherAnimals)
	in.PetExperience = strings.TrimSpace(in.PetExperience)
	in.Motivation = strings.TrimSpace(in.Motivation)
	in.HousingType = HousingType(strings.ToLower(strings.TrimSpace(string(in.HousingType))))

	if in.ApplicantName == "" || in.Phone == "" || in.Address == "" {
		return ErrInvalidInput
	}
	if in.PetExperience == "" || in.Motivation == "" {
		return ErrInvalidInput
	}
	if !validHousing(in.HousingType) {
		return ErrInvalidInput
	}
	addr, err := mail.ParseAddress(in.Email)
	if err != nil || addr.Address != in.Email {
		return ErrInvalidInput
	}
	return nil
}
