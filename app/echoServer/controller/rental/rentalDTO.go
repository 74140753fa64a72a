package rental

// ProcessPaymentReq is the body of POST /api/process-payment.
// swagger:model ProcessPaymentReq
type ProcessPaymentReq struct {
	SourceID       string  `json:"sourceId" validate:"required"`
	Amount         float64 `json:"amount" validate:"required,gt=0"`
	ListingID      int64   `json:"listingId" validate:"required,gt=0"`
	StartDate      string  `json:"startDate" validate:"required"`
	EndDate        string  `json:"endDate" validate:"required"`
	UserEmail      string  `json:"userEmail" validate:"required,email"`
	IdempotencyKey string  `json:"idempotencyKey,omitempty" validate:"omitempty,max=45"`
}
