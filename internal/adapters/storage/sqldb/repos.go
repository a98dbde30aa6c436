package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"shelter-adoptions/internal/domain/adoptions"
	"shelter-adoptions/internal/domain/dogs"
	"shelter-adoptions/internal/domain/history"
)

type dogRepo struct {
	db *sql.DB
	d  Dialect
}

func (r *dogRepo) Create(ctx context.Context, d dogs.Dog) error {
	_, err := r.db.ExecContext(ctx, r.d.rebind(`
		INSERT INTO dogs (`+dogColumns+`)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
	`),
		d.ID, d.Name, d.AgeYears, string(d.Size), string(d.Sex), string(d.Color), d.Breed, d.Description,
		d.Vaccinated, d.Sterilized, nullFloat(d.WeightKg), d.GoodWithKids, d.GoodWithDogs, d.SpecialNeeds,
		string(d.Availability), d.Version, d.CreatedAt.UTC(), d.UpdatedAt.UTC(),
	)
	return err
}

func (r *dogRepo) GetByID(ctx context.Context, id string) (dogs.Dog, error) {
	row := r.db.QueryRowContext(ctx, r.d.rebind("SELECT "+dogColumns+" FROM dogs WHERE id = ?"), id)
	d, err := scanDog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return dogs.Dog{}, fmt.Errorf("%w: %s", dogs.ErrNotFound, id)
	}
	return d, err
}

func (r *dogRepo) List(ctx context.Context, f dogs.ListFilter) ([]dogs.Dog, int, error) {
	var where []string
	var args []any
	add := func(cond string, v any) {
		where = append(where, cond)
		args = append(args, v)
	}
	if f.Availability != "" {
		add("availability = ?", string(f.Availability))
	}
	if f.Size != "" {
		add("size = ?", string(f.Size))
	}
	if f.Sex != "" {
		add("sex = ?", string(f.Sex))
	}
	if f.Color != "" {
		add("color = ?", string(f.Color))
	}
	if f.AgeMin != nil {
		add("age_years >= ?", *f.AgeMin)
	}
	if f.AgeMax != nil {
		add("age_years <= ?", *f.AgeMax)
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, r.d.rebind("SELECT COUNT(*) FROM dogs"+clause), args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page, size := f.Page, f.PageSize
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = dogs.DefaultPageSize
	}
	q := "SELECT " + dogColumns + " FROM dogs" + clause + " ORDER BY created_at DESC, id ASC LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, r.d.rebind(q), append(args, size, (page-1)*size)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]dogs.Dog, 0, size)
	for rows.Next() {
		d, err := scanDog(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	return out, total, rows.Err()
}

// UpdateProfile no toca availability ni version.
func (r *dogRepo) UpdateProfile(ctx context.Context, d dogs.Dog) error {
	res, err := r.db.ExecContext(ctx, r.d.rebind(`
		UPDATE dogs SET
			name = ?, age_years = ?, size = ?, sex = ?, color = ?, breed = ?, description = ?,
			vaccinated = ?, sterilized = ?, weight_kg = ?, good_with_kids = ?, good_with_dogs = ?,
			special_needs = ?, updated_at = ?
		WHERE id = ?
	`),
		d.Name, d.AgeYears, string(d.Size), string(d.Sex), string(d.Color), d.Breed, d.Description,
		d.Vaccinated, d.Sterilized, nullFloat(d.WeightKg), d.GoodWithKids, d.GoodWithDogs,
		d.SpecialNeeds, d.UpdatedAt.UTC(),
		d.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", dogs.ErrNotFound, d.ID)
	}
	return nil
}

func (r *dogRepo) CountByAvailability(ctx context.Context) (map[dogs.Availability]int, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT availability, COUNT(*) FROM dogs GROUP BY availability")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[dogs.Availability]int, 3)
	for rows.Next() {
		var a string
		var n int
		if err := rows.Scan(&a, &n); err != nil {
			return nil, err
		}
		out[dogs.Availability(a)] = n
	}
	return out, rows.Err()
}

type applicationRepo struct {
	db *sql.DB
	d  Dialect
}

func (r *applicationRepo) GetByID(ctx context.Context, id string) (adoptions.Application, error) {
	return getApplication(ctx, r.db, r.d, id)
}

func (r *applicationRepo) ListByDog(ctx context.Context, dogID string) ([]adoptions.Application, error) {
	q := "SELECT " + applicationColumns + " FROM adoption_applications WHERE dog_id = ? ORDER BY created_at ASC, id ASC"
	return listApplications(ctx, r.db, r.d.rebind(q), dogID)
}

// DogIDs lista todos los perros, más antiguos primero (revalidación en lote).
func (s *Store) DogIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id FROM dogs ORDER BY created_at ASC, id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

type historyRepo struct {
	db *sql.DB
	d  Dialect
}

func (r *historyRepo) ListByDog(ctx context.Context, dogID string, f history.ListFilter) ([]history.Event, error) {
	q := "SELECT " + eventColumns + " FROM dog_events WHERE dog_id = ?"
	args := []any{dogID}
	if len(f.Types) > 0 {
		q += " AND type IN (" + strings.TrimSuffix(strings.Repeat("?,", len(f.Types)), ",") + ")"
		for _, t := range f.Types {
			args = append(args, string(t))
		}
	}
	if f.From != nil {
		q += " AND occurred_at >= ?"
		args = append(args, f.From.UTC())
	}
	if f.To != nil {
		q += " AND occurred_at <= ?"
		args = append(args, f.To.UTC())
	}
	limit := f.Limit
	if limit <= 0 {
		limit = history.DefaultLimit
	}
	q += " ORDER BY occurred_at DESC, seq DESC LIMIT ?"
	args = append(args, limit)

	return r.list(ctx, q, args...)
}

func (r *historyRepo) ListByApplication(ctx context.Context, applicationID string) ([]history.Event, error) {
	q := "SELECT " + eventColumns + " FROM dog_events WHERE application_id = ? ORDER BY occurred_at DESC, seq DESC"
	return r.list(ctx, q, applicationID)
}

func (r *historyRepo) list(ctx context.Context, q string, args ...any) ([]history.Event, error) {
	rows, err := r.db.QueryContext(ctx, r.d.rebind(q), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]history.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
