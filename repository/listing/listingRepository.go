package listingrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"campuscloset/model"
	"campuscloset/util/database"
)

var ErrNotFound = errors.New("listing not found")

type Repo interface {
	Insert(ctx context.Context, l *model.Listing) error
	ByID(ctx context.Context, id int64) (*model.Listing, error)
	Search(ctx context.Context, query string, sort model.ListingSort) ([]model.Listing, error)
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db} }

const listingColumns = `
	id, owner_id::text AS owner_id, title, size, item_type, condition,
	wash_instructions, start_date, end_date, price_per_day, image_url, created_at`

func (r *repo) Insert(ctx context.Context, l *model.Listing) error {
	const q = `
INSERT INTO listings (owner_id, title, size, item_type, condition, wash_instructions,
                      start_date, end_date, price_per_day, image_url)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
RETURNING id, created_at`
	err := r.db.Pool.QueryRow(ctx, q,
		l.OwnerID, l.Title, string(l.Size), l.ItemType, l.Condition, l.WashInstructions,
		l.StartDate, l.EndDate, l.PricePerDay, l.ImageURL,
	).Scan(&l.ID, &l.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert listing: %w", err)
	}
	return nil
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.Listing, error) {
	var l model.Listing
	err := r.db.X.GetContext(ctx, &l, `SELECT `+listingColumns+` FROM listings WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("listing by id: %w", err)
	}
	return &l, nil
}

// searchPattern turns query into an ILIKE pattern. Blank queries match
// everything; otherwise the text is matched as given, surrounding spaces
// included.
func searchPattern(query string) (string, bool) {
	if strings.TrimSpace(query) == "" {
		return "", false
	}
	return "%" + escapeLike(query) + "%", true
}

// Search matches query as a case-insensitive substring of title, size,
// item type or condition. An empty query returns every listing.
func (r *repo) Search(ctx context.Context, query string, sort model.ListingSort) ([]model.Listing, error) {
	q := `SELECT ` + listingColumns + ` FROM listings`
	var args []any
	if pattern, ok := searchPattern(query); ok {
		q += `
	WHERE title ILIKE $1 ESCAPE '\'
	   OR size ILIKE $1 ESCAPE '\'
	   OR item_type ILIKE $1 ESCAPE '\'
	   OR condition ILIKE $1 ESCAPE '\'`
		args = append(args, pattern)
	}
	q += orderBy(sort)

	out := []model.Listing{}
	if err := r.db.X.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, fmt.Errorf("search listings: %w", err)
	}
	return out, nil
}

func orderBy(sort model.ListingSort) string {
	switch sort {
	case model.SortNewest:
		return ` ORDER BY created_at DESC, id DESC`
	case model.SortPriceAsc:
		return ` ORDER BY price_per_day ASC, id ASC`
	case model.SortPriceDesc:
		return ` ORDER BY price_per_day DESC, id DESC`
	default:
		return ""
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
