package rentalrepo

import (
	"context"
	"fmt"
	"time"

	"campuscloset/model"
	"campuscloset/util/database"
)

type Repo interface {
	InsertRental(ctx context.Context, r *model.Rental) error
	HasOverlap(ctx context.Context, listingID int64, start, end time.Time) (bool, error)
	ListByRenter(ctx context.Context, renterID string) ([]model.RentalHistory, error)
}

type repo struct {
	db *database.DB
}

func New(db *database.DB) Repo { return &repo{db: db} }

// Rentals

func (r *repo) InsertRental(ctx context.Context, rt *model.Rental) error {
	const q = `
		INSERT INTO rentals (listing_id, renter_id, start_date, end_date, total_amount,
		                     payment_id, idempotency_key, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`
	err := r.db.Pool.QueryRow(ctx, q,
		rt.ListingID, rt.RenterID, rt.StartDate, rt.EndDate, rt.TotalAmount,
		rt.PaymentID, rt.IdempotencyKey, string(rt.Status),
	).Scan(&rt.ID, &rt.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert rental: %w", err)
	}
	return nil
}

// HasOverlap reports whether a confirmed rental of the listing shares at
// least one day with [start, end].
func (r *repo) HasOverlap(ctx context.Context, listingID int64, start, end time.Time) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1
			FROM rentals
			WHERE listing_id = $1
			  AND status = 'confirmed'
			  AND start_date <= $3
			  AND end_date >= $2
		)`
	var exists bool
	if err := r.db.Pool.QueryRow(ctx, q, listingID, start, end).Scan(&exists); err != nil {
		return false, fmt.Errorf("check rental overlap: %w", err)
	}
	return exists, nil
}

// History

func (r *repo) ListByRenter(ctx context.Context, renterID string) ([]model.RentalHistory, error) {
	const q = `
			SELECT
			r.id                AS id,
			r.listing_id        AS listing_id,
			r.renter_id::text   AS renter_id,
			r.start_date        AS start_date,
			r.end_date          AS end_date,
			r.total_amount      AS total_amount,
			r.payment_id        AS payment_id,
			r.idempotency_key   AS idempotency_key,
			r.status            AS status,
			r.created_at        AS created_at,
			l.title             AS "listing.title",
			l.size              AS "listing.size",
			l.item_type         AS "listing.item_type",
			l.image_url         AS "listing.image_url",
			l.price_per_day     AS "listing.price_per_day"
			FROM rentals r
			JOIN listings l ON l.id = r.listing_id
			WHERE r.renter_id = $1
			ORDER BY r.created_at DESC, r.id DESC`
	out := []model.RentalHistory{}
	if err := r.db.X.SelectContext(ctx, &out, q, renterID); err != nil {
		return nil, fmt.Errorf("list rentals: %w", err)
	}
	return out, nil
}
