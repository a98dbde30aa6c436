package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"shelter-adoptions/internal/domain/adoptions"
	"shelter-adoptions/internal/domain/dogs"
	"shelter-adoptions/internal/domain/history"
)

// Store implementa los repositorios y las transacciones de adopción sobre database/sql.
type Store struct {
	db *sql.DB
	d  Dialect
}

func New(db *sql.DB, d Dialect) *Store {
	return &Store{db: db, d: d}
}

var _ adoptions.Store = (*Store)(nil)

func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Dogs() dogs.Repository { return &dogRepo{db: s.db, d: s.d} }
func (s *Store) Applications() adoptions.Repository { return &applicationRepo{db: s.db, d: s.d} }
func (s *Store) History() history.Repository { return &historyRepo{db: s.db, d: s.d} }

// queryer es lo común entre *sql.DB y *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) RunInTx(ctx context.Context, fn func(tx adoptions.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(&sqlTx{tx: tx, d: s.d}); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

type sqlTx struct {
	tx *sql.Tx
	d  Dialect
}

func (t *sqlTx) LockDog(ctx context.Context, dogID string) (dogs.Dog, error) {
	q := "SELECT " + dogColumns + " FROM dogs WHERE id = ?" + t.d.LockClause
	d, err := scanDog(t.tx.QueryRowContext(ctx, t.d.rebind(q), dogID))
	if errors.Is(err, sql.ErrNoRows) {
		return dogs.Dog{}, fmt.Errorf("%w: %s", dogs.ErrNotFound, dogID)
	}
	return d, err
}

func (t *sqlTx) UpdateDogAvailability(ctx context.Context, dogID string, availability dogs.Availability, expectedVersion int64, updatedAt time.Time) error {
	res, err := t.tx.ExecContext(ctx, t.d.rebind(`
		UPDATE dogs
		SET availability = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?
	`), string(availability), updatedAt.UTC(), dogID, expectedVersion)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}

	var exists int
	err = t.tx.QueryRowContext(ctx, t.d.rebind("SELECT 1 FROM dogs WHERE id = ?"), dogID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", dogs.ErrNotFound, dogID)
	}
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: dog %s, expected version %d", adoptions.ErrStaleDog, dogID, expectedVersion)
}

func (t *sqlTx) GetApplication(ctx context.Context, id string) (adoptions.Application, error) {
	return getApplication(ctx, t.tx, t.d, id)
}

func (t *sqlTx) ListApplicationsByDog(ctx context.Context, dogID string, states ...adoptions.State) ([]adoptions.Application, error) {
	q := "SELECT " + applicationColumns + " FROM adoption_applications WHERE dog_id = ?"
	args := []any{dogID}
	if len(states) > 0 {
		q += " AND state IN (" + strings.TrimSuffix(strings.Repeat("?,", len(states)), ",") + ")"
		for _, st := range states {
			args = append(args, string(st))
		}
	}
	q += " ORDER BY created_at ASC, id ASC"
	return listApplications(ctx, t.tx, t.d.rebind(q), args...)
}

// CountApplicationsByState usa el índice (dog_id, state) en vez de cargar filas.
func (t *sqlTx) CountApplicationsByState(ctx context.Context, dogID string) (adoptions.StateCounts, error) {
	rows, err := t.tx.QueryContext(ctx, t.d.rebind(`
		SELECT state, COUNT(*) FROM adoption_applications WHERE dog_id = ? GROUP BY state
	`), dogID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := adoptions.StateCounts{}
	for rows.Next() {
		var st string
		var n int
		if err := rows.Scan(&st, &n); err != nil {
			return nil, err
		}
		counts[adoptions.State(st)] = n
	}
	return counts, rows.Err()
}

func (t *sqlTx) CreateApplication(ctx context.Context, a adoptions.Application) error {
	_, err := t.tx.ExecContext(ctx, t.d.rebind(`
		INSERT INTO adoption_applications (
			id, dog_id,
			applicant_name, email, phone, address,
			housing_type, has_yard, other_animals, pet_experience, motivation,
			admin_notes, state,
			created_at, updated_at
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
	`),
		a.ID, a.DogID,
		a.ApplicantName, a.Email, a.Phone, a.Address,
		string(a.HousingType), a.HasYard, a.OtherAnimals, a.PetExperience, a.Motivation,
		a.AdminNotes, string(a.State),
		a.CreatedAt.UTC(), a.UpdatedAt.UTC(),
	)
	return t.mapWriteErr(err)
}

func (t *sqlTx) UpdateApplication(ctx context.Context, a adoptions.Application) error {
	res, err := t.tx.ExecContext(ctx, t.d.rebind(`
		UPDATE adoption_applications
		SET state = ?, admin_notes = ?, updated_at = ?
		WHERE id = ?
	`), string(a.State), a.AdminNotes, a.UpdatedAt.UTC(), a.ID)
	if err != nil {
		return t.mapWriteErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", adoptions.ErrNotFound, a.ID)
	}
	return nil
}

func (t *sqlTx) AppendEvent(ctx context.Context, e history.Event) error {
	_, err := t.tx.ExecContext(ctx, t.d.rebind(`
		INSERT INTO dog_events (
			id, dog_id, application_id,
			type, from_state, to_state,
			actor_type, actor_id, notes,
			occurred_at
		) VALUES (?,?,?,?,?,?,?,?,?,?)
	`),
		e.ID, e.DogID, e.ApplicationID,
		string(e.Type), e.From, e.To,
		string(e.Actor.Type), e.Actor.ID, e.Notes,
		e.OccurredAt.UTC(),
	)
	return err
}

// mapWriteErr: el índice único de aprobadas es la última barrera contra dos APPROVED.
func (t *sqlTx) mapWriteErr(err error) error {
	if err == nil {
		return nil
	}
	if t.d.IsApprovedConflict != nil && t.d.IsApprovedConflict(err) {
		return fmt.Errorf("%w: %v", adoptions.ErrConcurrentApproval, err)
	}
	return err
}
