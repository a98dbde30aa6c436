//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"shelter-adoptions/internal/adapters/storage/postgres"
	"shelter-adoptions/internal/adapters/storage/sqldb"
	"shelter-adoptions/internal/domain/adoptions"
	"shelter-adoptions/internal/domain/dogs"
	"shelter-adoptions/internal/domain/history"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"golang.org/x/sync/errgroup"
)

type StoreSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	db        *sql.DB
	store     *sqldb.Store
	dogs      *dogs.Service
	svc       *adoptions.Service
}

func TestStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupSuite() {
	ctx := context.Background()

	c, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("shelter"),
		tcpostgres.WithUsername("shelter"),
		tcpostgres.WithPassword("shelter"),
		tcpostgres.BasicWaitStrategies(),
	)
	s.Require().NoError(err)
	s.container = c

	dsn, err := c.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	s.db, err = postgres.Open(dsn)
	s.Require().NoError(err)
	s.Require().NoError(postgres.Migrate(ctx, s.db))

	s.store = postgres.New(s.db)
	s.dogs = dogs.NewService(s.store.Dogs())
	s.svc = adoptions.NewService(s.store.Applications(), s.store)
}

func (s *StoreSuite) TearDownSuite() {
	if s.db != nil {
		_ = s.db.Close()
	}
	if s.container != nil {
		_ = testcontainers.TerminateContainer(s.container)
	}
}

func (s *StoreSuite) SetupTest() {
	_, err := s.db.ExecContext(context.Background(), "TRUNCATE dog_events, adoption_applications, dogs")
	s.Require().NoError(err)
}

func (s *StoreSuite) newDog(name string) dogs.Dog {
	d, err := s.dogs.Create(context.Background(), dogs.CreateInput{
		Name: name, AgeYears: 4, Size: dogs.SizeLarge, Sex: dogs.SexMale, Color: dogs.ColorBrown,
	})
	s.Require().NoError(err)
	return d
}

func (s *StoreSuite) submit(dogID, name string) adoptions.Application {
	app, _, err := s.svc.Submit(context.Background(), dogID, adoptions.SubmitInput{
		ApplicantName: name,
		Email:         "applicant@example.com",
		Phone:         "555-0100",
		Address:       "Av. Siempre Viva 742",
		HousingType:   adoptions.HousingHouse,
		PetExperience: "algo",
		Motivation:    "mucha",
	})
	s.Require().NoError(err)
	return app
}

func (s *StoreSuite) TestMigrateIsIdempotent() {
	s.Require().NoError(postgres.Migrate(context.Background(), s.db))
}

func (s *StoreSuite) TestApprovalCascadesAndAdopts() {
	ctx := context.Background()
	d := s.newDog("Rex")
	ana := s.submit(d.ID, "Ana")
	luis := s.submit(d.ID, "Luis")

	res, err := s.svc.ChangeState(ctx, adoptions.ChangeStateInput{ApplicationID: ana.ID, State: adoptions.StateApproved, ActorID: "staff"})
	s.Require().NoError(err)
	s.Equal(dogs.AvailabilityAdopted, res.Availability)
	s.Require().Len(res.Cascaded, 1)
	s.Equal(luis.ID, res.Cascaded[0].ID)

	got, err := s.store.Dogs().GetByID(ctx, d.ID)
	s.Require().NoError(err)
	s.Equal(dogs.AvailabilityAdopted, got.Availability)

	evs, err := s.store.History().ListByDog(ctx, d.ID, history.ListFilter{Types: []history.EventType{history.EventTypeApplicationAutoRejected}})
	s.Require().NoError(err)
	s.Len(evs, 1)
}

func (s *StoreSuite) TestStaleVersionAndRollback() {
	ctx := context.Background()
	d := s.newDog("Luna")

	err := s.store.RunInTx(ctx, func(tx adoptions.Tx) error {
		return tx.UpdateDogAvailability(ctx, d.ID, dogs.AvailabilityAdopted, d.Version+5, time.Now())
	})
	s.Require().ErrorIs(err, adoptions.ErrStaleDog)

	boom := errors.New("boom")
	err = s.store.RunInTx(ctx, func(tx adoptions.Tx) error {
		if err := tx.UpdateDogAvailability(ctx, d.ID, dogs.AvailabilityInProcess, d.Version, time.Now()); err != nil {
			return err
		}
		return boom
	})
	s.Require().ErrorIs(err, boom)

	got, err := s.store.Dogs().GetByID(ctx, d.ID)
	s.Require().NoError(err)
	s.Equal(dogs.AvailabilityAvailable, got.Availability)
	s.Equal(d.Version, got.Version)
}

// Dos aprobaciones simultáneas sobre el mismo perro: gana exactamente una.
func (s *StoreSuite) TestConcurrentApprovals() {
	ctx := context.Background()
	d := s.newDog("Toby")

	const applicants = 8
	ids := make([]string, applicants)
	for i := range ids {
		ids[i] = s.submit(d.ID, "applicant").ID
	}

	var won, lost atomic.Int32
	var g errgroup.Group
	for _, id := range ids {
		g.Go(func() error {
			_, err := s.svc.ChangeState(ctx, adoptions.ChangeStateInput{ApplicationID: id, State: adoptions.StateApproved, ActorID: "staff"})
			switch {
			case err == nil:
				won.Add(1)
			case errors.Is(err, adoptions.ErrConcurrentApproval):
				lost.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	s.Require().NoError(g.Wait())
	s.Equal(int32(1), won.Load())
	s.Equal(int32(applicants-1), lost.Load())

	apps, err := s.svc.ListByDog(ctx, d.ID)
	s.Require().NoError(err)
	counts := adoptions.StateCounts{}
	for _, a := range apps {
		counts[a.State]++
	}
	s.Equal(1, counts[adoptions.StateApproved])
	s.Equal(applicants-1, counts[adoptions.StateRejected])

	got, err := s.store.Dogs().GetByID(ctx, d.ID)
	s.Require().NoError(err)
	s.Require().NoError(adoptions.CheckInvariants(got.Availability, counts))
}

func (s *StoreSuite) TestApprovedIndexMapsToConcurrentApproval() {
	ctx := context.Background()
	d := s.newDog("Kira")
	now := time.Now()
	mk := func(id string) adoptions.Application {
		return adoptions.Application{ID: id, DogID: d.ID, ApplicantName: id, Email: "x@example.com",
			HousingType: adoptions.HousingOther, State: adoptions.StateApproved, CreatedAt: now, UpdatedAt: now}
	}
	s.Require().NoError(s.store.RunInTx(ctx, func(tx adoptions.Tx) error { return tx.CreateApplication(ctx, mk("a1")) }))
	err := s.store.RunInTx(ctx, func(tx adoptions.Tx) error { return tx.CreateApplication(ctx, mk("a2")) })
	s.Require().ErrorIs(err, adoptions.ErrConcurrentApproval)
}
