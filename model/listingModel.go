package model

import "time"

type Size string

const (
	SizeXS  Size = "XS"
	SizeS   Size = "S"
	SizeM   Size = "M"
	SizeL   Size = "L"
	SizeXL  Size = "XL"
	SizeXXL Size = "XXL"
)

var Sizes = []Size{SizeXS, SizeS, SizeM, SizeL, SizeXL, SizeXXL}

func (s Size) Valid() bool {
	for _, v := range Sizes {
		if s == v {
			return true
		}
	}
	return false
}

type Listing struct {
	ID               int64     `json:"id" db:"id"`
	OwnerID          string    `json:"user" db:"owner_id"`
	Title            string    `json:"title" db:"title"`
	Size             Size      `json:"size" db:"size"`
	ItemType         string    `json:"itemType" db:"item_type"`
	Condition        string    `json:"condition" db:"condition"`
	WashInstructions string    `json:"washInstructions" db:"wash_instructions"`
	StartDate        time.Time `json:"startDate" db:"start_date"`
	EndDate          time.Time `json:"endDate" db:"end_date"`
	PricePerDay      float64   `json:"pricePerDay" db:"price_per_day"`
	ImageURL         *string   `json:"imageURL" db:"image_url"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// ListingSort selects a server-side ordering for search results.
type ListingSort string

const (
	SortDefault   ListingSort = ""
	SortNewest    ListingSort = "newest"
	SortPriceAsc  ListingSort = "price_asc"
	SortPriceDesc ListingSort = "price_desc"
)

func (s ListingSort) Valid() bool {
	switch s {
	case SortDefault, SortNewest, SortPriceAsc, SortPriceDesc:
		return true
	}
	return false
}
