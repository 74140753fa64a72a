package model

import "time"

type RentalStatus string

const RentalConfirmed RentalStatus = "confirmed"

type Rental struct {
	ID             int64        `json:"id" db:"id"`
	ListingID      int64        `json:"listing_id" db:"listing_id"`
	RenterID       string       `json:"renter_id" db:"renter_id"`
	StartDate      time.Time    `json:"start_date" db:"start_date"`
	EndDate        time.Time    `json:"end_date" db:"end_date"`
	TotalAmount    float64      `json:"total_amount" db:"total_amount"`
	PaymentID      string       `json:"payment_id" db:"payment_id"`
	IdempotencyKey string       `json:"-" db:"idempotency_key"`
	Status         RentalStatus `json:"status" db:"status"`
	CreatedAt      time.Time    `json:"created_at" db:"created_at"`
}

// ListingSummary is the slice of a listing shown next to a rental.
type ListingSummary struct {
	Title       string  `json:"title" db:"title"`
	Size        Size    `json:"size" db:"size"`
	ItemType    string  `json:"itemType" db:"item_type"`
	ImageURL    *string `json:"imageURL" db:"image_url"`
	PricePerDay float64 `json:"pricePerDay" db:"price_per_day"`
}

type RentalHistory struct {
	Rental
	Listing ListingSummary `json:"listing" db:"listing"`
}
