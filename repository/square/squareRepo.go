package squarerepo

import "context"

type CreatePaymentReq struct {
	SourceID       string
	IdempotencyKey string
	AmountCents    int64
	Currency       string
	Note           string
	ReferenceID    string
	BuyerEmail     string
}

type Payment struct {
	ID     string
	Status string
}

// DeclinedError is returned when the gateway answered but refused the charge.
type DeclinedError struct {
	Status int
	Code   string
	Detail string
}

func (e *DeclinedError) Error() string {
	return "square: payment declined: " + e.Code
}

type Repo interface {
	CreatePayment(ctx context.Context, req CreatePaymentReq) (*Payment, error)
}
