package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/baechuer/real-time-ressys/services/location-service/internal/domain"
)

type Repo struct {
	db *sql.DB
}

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Ping(ctx context.Context) error { return r.db.PingContext(ctx) }

func (r *Repo) CreateState(ctx context.Context, s *domain.State) error {
	err := r.db.QueryRowContext(ctx, insertStateSQL, s.Name, s.Slug).Scan(&s.ID)
	if errors.Is(err, sql.ErrNoRows) || isUniqueViolation(err) {
		return errDuplicateState()
	}
	if err != nil {
		return fmt.Errorf("insert state: %w", err)
	}
	return nil
}

func (r *Repo) GetStateBySlug(ctx context.Context, slug string) (*domain.State, error) {
	var s domain.State
	err := r.db.QueryRowContext(ctx, getStateBySlugSQL, slug).Scan(&s.ID, &s.Name, &s.Slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound("state not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}
	return &s, nil
}

// DeleteState removes a state; its cities go with it through ON DELETE CASCADE.
func (r *Repo) DeleteState(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, deleteStateSQL, id)
	if err != nil {
		return fmt.Errorf("delete state: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrNotFound("state not found")
	}
	return nil
}

func (r *Repo) ListCitiesByStateSlug(ctx context.Context, stateSlug string) ([]*domain.City, error) {
	rows, err := r.db.QueryContext(ctx, listCitiesByStateSlugSQL, stateSlug)
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	defer rows.Close()

	var out []*domain.City
	for rows.Next() {
		var c domain.City
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.StateID, &c.StateSlug); err != nil {
			return nil, fmt.Errorf("scan city: %w", err)
		}
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	return out, nil
}

func (r *Repo) GetCityBySlugs(ctx context.Context, stateSlug, citySlug string) (*domain.City, error) {
	var c domain.City
	err := r.db.QueryRowContext(ctx, getCityBySlugsSQL, stateSlug, citySlug).
		Scan(&c.ID, &c.Name, &c.Slug, &c.StateID, &c.StateSlug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound("city not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get city: %w", err)
	}
	return &c, nil
}

// CreateCity inserts c under its state. The unique constraints on (name, state_id) and
// (slug, state_id) decide the race: ON CONFLICT DO NOTHING returns no row for the loser.
func (r *Repo) CreateCity(ctx context.Context, c *domain.City) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		var stateSlug string
		err := tx.QueryRowContext(ctx, lockStateSQL, c.StateID).Scan(&stateSlug)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound("state not found")
		}
		if err != nil {
			return fmt.Errorf("lock state: %w", err)
		}

		err = tx.QueryRowContext(ctx, insertCitySQL, c.Name, c.Slug, c.StateID).Scan(&c.ID)
		if errors.Is(err, sql.ErrNoRows) || isUniqueViolation(err) {
			return errDuplicateCity()
		}
		if err != nil {
			return fmt.Errorf("insert city: %w", err)
		}
		c.StateSlug = stateSlug
		return nil
	})
}
