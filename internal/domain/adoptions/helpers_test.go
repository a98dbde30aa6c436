package adoptions_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"shelter-adoptions/internal/adapters/storage/memory"
	"shelter-adoptions/internal/domain/adoptions"
	"shelter-adoptions/internal/domain/dogs"

	"github.com/stretchr/testify/require"
)

type harness struct {
	store *memory.Store
	dogs  *dogs.Service
	svc   *adoptions.Service
}

func newHarness(t *testing.T, opts ...adoptions.Option) *harness {
	t.Helper()
	st := memory.NewStore()
	return &harness{
		store: st,
		dogs:  dogs.NewService(st.Dogs()),
		svc:   adoptions.NewService(st.Applications(), st, opts...),
	}
}

func (h *harness) newDog(t *testing.T, name string) dogs.Dog {
	t.Helper()
	d, err := h.dogs.Create(context.Background(), dogs.CreateInput{
		Name:     name,
		AgeYears: 2,
		Size:     dogs.SizeMedium,
		Sex:      dogs.SexMale,
		Color:    dogs.ColorGolden,
	})
	require.NoError(t, err)
	return d
}

func (h *harness) submit(t *testing.T, dogID, applicant string) adoptions.Application {
	t.Helper()
	app, _, err := h.svc.Submit(context.Background(), dogID, validInput(applicant))
	require.NoError(t, err)
	return app
}

func (h *harness) set(t *testing.T, appID string, st adoptions.State) adoptions.Result {
	t.Helper()
	res, err := h.svc.ChangeState(context.Background(), adoptions.ChangeStateInput{ApplicationID: appID, State: st, ActorID: "staff-1"})
	require.NoError(t, err)
	return res
}

func (h *harness) availability(t *testing.T, dogID string) dogs.Availability {
	t.Helper()
	d, err := h.dogs.GetByID(context.Background(), dogID)
	require.NoError(t, err)
	return d.Availability
}

func (h *harness) state(t *testing.T, appID string) adoptions.State {
	t.Helper()
	a, err := h.svc.GetByID(context.Background(), appID)
	require.NoError(t, err)
	return a.State
}

// requireConsistent comprueba que la disponibilidad confirmada coincide con las solicitudes.
func (h *harness) requireConsistent(t *testing.T, dogID string) {
	t.Helper()
	apps, err := h.svc.ListByDog(context.Background(), dogID)
	require.NoError(t, err)
	counts := adoptions.StateCounts{}
	for _, a := range apps {
		counts[a.State]++
	}
	require.NoError(t, adoptions.CheckInvariants(h.availability(t, dogID), counts))
	require.LessOrEqual(t, counts[adoptions.StateApproved], 1)
}

func validInput(name string) adoptions.SubmitInput {
	return adoptions.SubmitInput{
		ApplicantName: name,
		Email:         "someone@example.com",
		Phone:         "+54 11 5555 0000",
		Address:       "Calle Falsa 123",
		HousingType:   adoptions.HousingHouse,
		HasYard:       true,
		PetExperience: "Tuve perros toda la vida",
		Motivation:    "Queremos darle un hogar",
	}
}

type fakeRecorder struct {
	mu          sync.Mutex
	outcomes    map[string]int
	cascaded    int
	transitions []string
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{outcomes: map[string]int{}}
}

func (r *fakeRecorder) ObserveReconcile(outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes[outcome]++
}

func (r *fakeRecorder) AddCascadeRejections(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cascaded += n
}

func (r *fakeRecorder) ObserveDogTransition(from, to dogs.Availability) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions = append(r.transitions, string(from)+"->"+string(to))
}
