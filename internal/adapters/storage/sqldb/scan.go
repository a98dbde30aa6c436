package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shelter-adoptions/internal/domain/adoptions"
	"shelter-adoptions/internal/domain/dogs"
	"shelter-adoptions/internal/domain/history"
)

const dogColumns = `id, name, age_years, size, sex, color, breed, description,
	vaccinated, sterilized, weight_kg, good_with_kids, good_with_dogs, special_needs,
	availability, version, created_at, updated_at`

const applicationColumns = `id, dog_id,
	applicant_name, email, phone, address,
	housing_type, has_yard, other_animals, pet_experience, motivation,
	admin_notes, state, created_at, updated_at`

const eventColumns = `id, dog_id, application_id, type, from_state, to_state,
	actor_type, actor_id, notes, occurred_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDog(r rowScanner) (dogs.Dog, error) {
	var d dogs.Dog
	var size, sex, color, availability string
	var weight sql.NullFloat64
	if err := r.Scan(
		&d.ID, &d.Name, &d.AgeYears, &size, &sex, &color, &d.Breed, &d.Description,
		&d.Vaccinated, &d.Sterilized, &weight, &d.GoodWithKids, &d.GoodWithDogs, &d.SpecialNeeds,
		&availability, &d.Version, &d.CreatedAt, &d.UpdatedAt,
	); err != nil {
		return dogs.Dog{}, err
	}
	d.Size = dogs.Size(size)
	d.Sex = dogs.Sex(sex)
	d.Color = dogs.Color(color)
	d.Availability = dogs.Availability(availability)
	if weight.Valid {
		w := weight.Float64
		d.WeightKg = &w
	}
	return d, nil
}

func scanApplication(r rowScanner) (adoptions.Application, error) {
	var a adoptions.Application
	var housing, state string
	if err := r.Scan(
		&a.ID, &a.DogID,
		&a.ApplicantName, &a.Email, &a.Phone, &a.Address,
		&housing, &a.HasYard, &a.OtherAnimals, &a.PetExperience, &a.Motivation,
		&a.AdminNotes, &state, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return adoptions.Application{}, err
	}
	a.HousingType = adoptions.HousingType(housing)
	a.State = adoptions.State(state)
	return a, nil
}

func scanEvent(r rowScanner) (history.Event, error) {
	var e history.Event
	var typ, actorType string
	if err := r.Scan(
		&e.ID, &e.DogID, &e.ApplicationID, &typ, &e.From, &e.To,
		&actorType, &e.Actor.ID, &e.Notes, &e.OccurredAt,
	); err != nil {
		return history.Event{}, err
	}
	e.Type = history.EventType(typ)
	e.Actor.Type = history.ActorType(actorType)
	return e, nil
}

func getApplication(ctx context.Context, q queryer, d Dialect, id string) (adoptions.Application, error) {
	row := q.QueryRowContext(ctx, d.rebind("SELECT "+applicationColumns+" FROM adoption_applications WHERE id = ?"), id)
	a, err := scanApplication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return adoptions.Application{}, fmt.Errorf("%w: %s", adoptions.ErrNotFound, id)
	}
	return a, err
}

func listApplications(ctx context.Context, q queryer, query string, args ...any) ([]adoptions.Application, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]adoptions.Application, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
