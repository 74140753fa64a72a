//go:build integration

package rentalrepo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"campuscloset/internal/testdb"
	"campuscloset/model"
	listingrepo "campuscloset/repository/listing"
	profilerepo "campuscloset/repository/profile"
	rentalrepo "campuscloset/repository/rental"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

const (
	adaID = "6f1c1e9e-2b7a-4d8e-9a51-0d6c3f0e0a01"
	boID  = "6f1c1e9e-2b7a-4d8e-9a51-0d6c3f0e0a02"
)

func day(d int) time.Time { return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC) }

func TestRepositories_Postgres(t *testing.T) {
	db := testdb.Start(t)
	ctx := context.Background()

	profiles := profilerepo.New(db)
	listings := listingrepo.New(db)
	rentals := rentalrepo.New(db)

	// profiles
	require.NoError(t, profiles.Upsert(ctx, &model.Profile{ID: adaID, Email: "ada@spelman.edu", Name: "Ada"}))
	require.NoError(t, profiles.Upsert(ctx, &model.Profile{ID: boID, Email: "bo@morehouse.edu", Name: "Bo"}))

	p := &model.Profile{ID: adaID, Email: "ada@spelman.edu"}
	require.NoError(t, profiles.Upsert(ctx, p))
	require.Equal(t, "Ada", p.Name, "empty name keeps the stored one")

	got, err := profiles.ByEmail(ctx, "ADA@Spelman.edu")
	require.NoError(t, err)
	require.Equal(t, adaID, got.ID)
	require.Nil(t, got.VerifiedAt)

	require.NoError(t, profiles.MarkVerified(ctx, "ada@spelman.edu"))
	got, err = profiles.ByEmail(ctx, "ada@spelman.edu")
	require.NoError(t, err)
	require.NotNil(t, got.VerifiedAt)

	_, err = profiles.ByEmail(ctx, "ghost@spelman.edu")
	require.ErrorIs(t, err, profilerepo.ErrNotFound)

	err = profiles.Upsert(ctx, &model.Profile{ID: "6f1c1e9e-2b7a-4d8e-9a51-0d6c3f0e0a03", Email: "Ada@spelman.edu"})
	var pgErr *pgconn.PgError
	require.True(t, errors.As(err, &pgErr))
	require.Equal(t, pgerrcode.UniqueViolation, pgErr.Code)

	// listings
	url := "https://cdn.test/clothing-images/1_jeans.png"
	jeans := &model.Listing{
		OwnerID: boID, Title: "Blue Jeans", Size: model.SizeM, ItemType: "jeans",
		Condition: "Good", WashInstructions: "Cold", StartDate: day(1), EndDate: day(10),
		PricePerDay: 5, ImageURL: &url,
	}
	dress := &model.Listing{
		OwnerID: boID, Title: "Red 100% Silk Dress", Size: model.SizeS, ItemType: "dress",
		Condition: "Like new", WashInstructions: "Dry clean", StartDate: day(1), EndDate: day(30),
		PricePerDay: 12.5,
	}
	require.NoError(t, listings.Insert(ctx, jeans))
	require.NoError(t, listings.Insert(ctx, dress))
	require.NotZero(t, jeans.ID)
	require.False(t, jeans.CreatedAt.IsZero())

	all, err := listings.Search(ctx, "", model.SortPriceDesc)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, dress.ID, all[0].ID)
	require.Equal(t, 12.5, all[0].PricePerDay)
	require.Nil(t, all[0].ImageURL)

	hits, err := listings.Search(ctx, "JEAN", model.SortDefault)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.Equal(t, boID, hits[0].OwnerID)

	hits, err = listings.Search(ctx, "100%", model.SortDefault)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.Equal(t, dress.ID, hits[0].ID)

	hits, err = listings.Search(ctx, "%", model.SortDefault)
	require.NoError(t, err)
	require.Len(t, hits, 1, "wildcards in the query match literally")

	hits, err = listings.Search(ctx, "like new", model.SortDefault)
	require.NoError(t, err)
	require.Len(t, hits, 1, "condition is searched")
	require.Equal(t, dress.ID, hits[0].ID)

	// "m" appears in no title, item type or condition, only in size M
	hits, err = listings.Search(ctx, "m", model.SortDefault)
	require.NoError(t, err)
	require.Len(t, hits, 1, "size is searched")
	require.Equal(t, jeans.ID, hits[0].ID)

	hits, err = listings.Search(ctx, " jeans", model.SortDefault)
	require.NoError(t, err)
	require.Len(t, hits, 1)

	hits, err = listings.Search(ctx, "  jeans", model.SortDefault)
	require.NoError(t, err)
	require.Empty(t, hits, "surrounding spaces are part of the match")

	hits, err = listings.Search(ctx, "   ", model.SortDefault)
	require.NoError(t, err)
	require.Len(t, hits, 2, "blank query matches everything")

	hits, err = listings.Search(ctx, "tuxedo", model.SortDefault)
	require.NoError(t, err)
	require.NotNil(t, hits)
	require.Empty(t, hits)

	one, err := listings.ByID(ctx, jeans.ID)
	require.NoError(t, err)
	require.Equal(t, "Blue Jeans", one.Title)
	require.Equal(t, url, *one.ImageURL)

	_, err = listings.ByID(ctx, 999999)
	require.ErrorIs(t, err, listingrepo.ErrNotFound)

	// rentals
	empty, err := rentals.ListByRenter(ctx, adaID)
	require.NoError(t, err)
	require.NotNil(t, empty)
	require.Empty(t, empty)

	first := &model.Rental{
		ListingID: jeans.ID, RenterID: adaID, StartDate: day(1), EndDate: day(3),
		TotalAmount: 15, PaymentID: "pay_1", IdempotencyKey: "k1", Status: model.RentalConfirmed,
	}
	require.NoError(t, rentals.InsertRental(ctx, first))
	second := &model.Rental{
		ListingID: dress.ID, RenterID: adaID, StartDate: day(5), EndDate: day(6),
		TotalAmount: 25, PaymentID: "pay_2", IdempotencyKey: "k2", Status: model.RentalConfirmed,
	}
	require.NoError(t, rentals.InsertRental(ctx, second))

	overlap, err := rentals.HasOverlap(ctx, jeans.ID, day(3), day(4))
	require.NoError(t, err)
	require.True(t, overlap, "shared end day overlaps")

	overlap, err = rentals.HasOverlap(ctx, jeans.ID, day(4), day(6))
	require.NoError(t, err)
	require.False(t, overlap)

	dup := *first
	dup.ID = 0
	require.Error(t, rentals.InsertRental(ctx, &dup), "payment id is unique")

	hist, err := rentals.ListByRenter(ctx, adaID)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	require.Equal(t, second.ID, hist[0].ID, "newest first")
	require.Equal(t, "Red 100% Silk Dress", hist[0].Listing.Title)
	require.Equal(t, model.SizeS, hist[0].Listing.Size)
	require.Equal(t, 12.5, hist[0].Listing.PricePerDay)
	require.Equal(t, "Blue Jeans", hist[1].Listing.Title)
	require.Equal(t, url, *hist[1].Listing.ImageURL)
	require.Equal(t, "pay_1", hist[1].PaymentID)
	require.Equal(t, adaID, hist[1].RenterID)
}
