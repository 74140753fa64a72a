package profilerepo

import (
	"context"
	"errors"
	"fmt"

	"campuscloset/model"
	"campuscloset/util/database"

	"github.com/jackc/pgx/v5"
)

var ErrNotFound = errors.New("profile not found")

type Repo interface {
	Upsert(ctx context.Context, p *model.Profile) error
	MarkVerified(ctx context.Context, email string) error
	ByEmail(ctx context.Context, email string) (*model.Profile, error)
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db} }

// Upsert keeps the existing name when p.Name is empty.
func (r *repo) Upsert(ctx context.Context, p *model.Profile) error {
	const q = `
INSERT INTO profiles (id, email, name)
VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE
SET email = EXCLUDED.email,
    name  = COALESCE(NULLIF(EXCLUDED.name, ''), profiles.name)
RETURNING name, verified_at, created_at`
	err := r.db.Pool.QueryRow(ctx, q, p.ID, p.Email, p.Name).Scan(&p.Name, &p.VerifiedAt, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

func (r *repo) MarkVerified(ctx context.Context, email string) error {
	const q = `
UPDATE profiles
SET verified_at = COALESCE(verified_at, NOW())
WHERE lower(email) = lower($1)`
	if _, err := r.db.Pool.Exec(ctx, q, email); err != nil {
		return fmt.Errorf("mark profile verified: %w", err)
	}
	return nil
}

func (r *repo) ByEmail(ctx context.Context, email string) (*model.Profile, error) {
	p := &model.Profile{}
	err := r.db.Pool.QueryRow(ctx, `
        SELECT id::text, email, name, verified_at, created_at
        FROM profiles
        WHERE lower(email) = lower($1)`,
		email,
	).Scan(&p.ID, &p.Email, &p.Name, &p.VerifiedAt, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("profile by email: %w", err)
	}
	return p, nil
}
