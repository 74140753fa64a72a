package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestRentalDays(t *testing.T) {
	require.Equal(t, 3, RentalDays(day("2024-06-01"), day("2024-06-03")))
	require.Equal(t, 1, RentalDays(day("2024-06-01"), day("2024-06-01")))

	// a partial day rounds up
	start := day("2024-06-01")
	require.Equal(t, 3, RentalDays(start, start.Add(36*time.Hour)))
}

func TestRentalTotal(t *testing.T) {
	require.InDelta(t, 15.00, RentalTotal(day("2024-06-01"), day("2024-06-03"), 5.00), 1e-9)
	require.InDelta(t, 7.5, RentalTotal(day("2024-06-01"), day("2024-06-01"), 7.5), 1e-9)
}

func TestSizeValid(t *testing.T) {
	for _, s := range Sizes {
		require.True(t, s.Valid())
	}
	require.False(t, Size("XXXL").Valid())
	require.False(t, Size("m").Valid())
}

func TestListingSortValid(t *testing.T) {
	require.True(t, SortDefault.Valid())
	require.True(t, SortPriceDesc.Valid())
	require.False(t, ListingSort("cheapest").Valid())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-06-01")
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("2024-06-01T12:00:00-04:00")
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 6, 1, 16, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("  ")
	require.NoError(t, err)
	require.True(t, d.IsZero())

	_, err = ParseDate("06/01/2024")
	require.ErrorIs(t, err, ErrBadDate)
}
