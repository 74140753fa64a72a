package rentalsvc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"campuscloset/model"
	listingrepo "campuscloset/repository/listing"
	rentalrepo "campuscloset/repository/rental"
	squarerepo "campuscloset/repository/square"
	"campuscloset/service/directory"
	"campuscloset/service/notify"
	"campuscloset/util/apperr"
	"campuscloset/util/money"

	"github.com/google/uuid"
)

const (
	MsgPaymentFailed = "Payment processing failed"
	notifyTimeout    = 15 * time.Second
	// amounts within half a cent of the computed total are accepted
	amountTolerance = 0.005
)

type PaymentReq struct {
	SourceID       string
	Amount         float64
	ListingID      int64
	StartDate      time.Time
	EndDate        time.Time
	UserEmail      string
	SessionEmail   string
	IdempotencyKey string
}

type Receipt struct {
	PaymentID string
	RentalID  int64
}

type ListingReader interface {
	ByID(ctx context.Context, id int64) (*model.Listing, error)
}

type Service interface {
	// ProcessPayment charges the renter once and records the rental.
	ProcessPayment(ctx context.Context, req PaymentReq) (*Receipt, error)

	// ListRentals returns the user's rentals, newest first.
	ListRentals(ctx context.Context, email string) ([]model.RentalHistory, error)
}

type Options struct {
	Currency string
	Log      *slog.Logger
}

type service struct {
	rentals  rentalrepo.Repo
	listings ListingReader
	users    directory.Finder
	payments squarerepo.Repo
	notifier notify.Notifier
	currency string
	log      *slog.Logger

	// async runs the post-commit notification; tests replace it.
	async func(func())
}

func New(rentals rentalrepo.Repo, listings ListingReader, users directory.Finder, payments squarerepo.Repo, n notify.Notifier, opts Options) Service {
	if opts.Log == nil {
		opts.Log = slog.Default()
	}
	if opts.Currency == "" {
		opts.Currency = "USD"
	}
	return &service{
		rentals:  rentals,
		listings: listings,
		users:    users,
		payments: payments,
		notifier: n,
		currency: opts.Currency,
		log:      opts.Log,
		async:    func(f func()) { go f() },
	}
}

func (s *service) ProcessPayment(ctx context.Context, req PaymentReq) (*Receipt, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if !strings.EqualFold(strings.TrimSpace(req.UserEmail), strings.TrimSpace(req.SessionEmail)) {
		return nil, apperr.New(apperr.ErrAuth, "User authentication required")
	}

	renter, err := directory.Resolve(ctx, s.users, req.SessionEmail)
	if err != nil {
		return nil, err
	}

	l, err := s.listings.ByID(ctx, req.ListingID)
	if errors.Is(err, listingrepo.ErrNotFound) {
		return nil, apperr.New(apperr.ErrNotFound, "Listing not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrStorage, "Error loading listing", err)
	}

	if req.StartDate.Before(l.StartDate) || req.EndDate.After(l.EndDate) {
		return nil, apperr.New(apperr.ErrValidation, "Rental dates are outside the listing's availability")
	}
	taken, err := s.rentals.HasOverlap(ctx, l.ID, req.StartDate, req.EndDate)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrStorage, "Error checking availability", err)
	}
	if taken {
		return nil, apperr.New(apperr.ErrConflict, "Listing is already rented for these dates")
	}

	total := model.RentalTotal(req.StartDate, req.EndDate, l.PricePerDay)
	if math.Abs(req.Amount-total) > amountTolerance {
		return nil, apperr.New(apperr.ErrValidation, fmt.Sprintf("Amount does not match rental total of %.2f", total))
	}
	cents, err := money.DollarsToCents(req.Amount)
	if err != nil || cents == 0 {
		return nil, apperr.New(apperr.ErrValidation, "Invalid amount")
	}

	key := strings.TrimSpace(req.IdempotencyKey)
	if key == "" {
		key = uuid.NewString()
	}

	p, err := s.payments.CreatePayment(ctx, squarerepo.CreatePaymentReq{
		SourceID:       req.SourceID,
		IdempotencyKey: key,
		AmountCents:    cents,
		Currency:       s.currency,
		Note:           "Rental payment for " + l.Title,
		ReferenceID:    strconv.FormatInt(l.ID, 10),
		BuyerEmail:     renter.Email,
	})
	if err != nil {
		s.log.Warn("payment failed", "err", err, "listing_id", l.ID, "idempotency_key", key)
		return nil, apperr.Wrap(apperr.ErrPayment, MsgPaymentFailed, err)
	}

	rt := &model.Rental{
		ListingID:      l.ID,
		RenterID:       renter.ID,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		TotalAmount:    req.Amount,
		PaymentID:      p.ID,
		IdempotencyKey: key,
		Status:         model.RentalConfirmed,
	}
	if err := s.rentals.InsertRental(ctx, rt); err != nil {
		// the charge stands; support reconciles by payment id
		s.log.Error("rental insert failed after capture", "err", err, "payment_id", p.ID, "listing_id", l.ID)
		return nil, apperr.Wrap(apperr.ErrStorage, "Error saving rental", err)
	}

	s.async(func() { s.confirm(renter.Email, l, rt) })
	return &Receipt{PaymentID: p.ID, RentalID: rt.ID}, nil
}

func (s *service) confirm(to string, l *model.Listing, rt *model.Rental) {
	if s.notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()
	if err := s.notifier.RentalConfirmed(ctx, to, l, rt); err != nil {
		s.log.Warn("rental confirmation not sent", "err", err, "rental_id", rt.ID)
	}
}

func (s *service) ListRentals(ctx context.Context, email string) ([]model.RentalHistory, error) {
	u, err := directory.Resolve(ctx, s.users, email)
	if err != nil {
		return nil, err
	}
	out, err := s.rentals.ListByRenter(ctx, u.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrStorage, "Error fetching rentals", err)
	}
	if out == nil {
		out = []model.RentalHistory{}
	}
	return out, nil
}

func validate(req PaymentReq) error {
	switch {
	case strings.TrimSpace(req.SourceID) == "":
		return apperr.New(apperr.ErrValidation, "Payment source is required")
	case req.ListingID <= 0:
		return apperr.New(apperr.ErrValidation, "Listing id is required")
	case !(req.Amount > 0):
		return apperr.New(apperr.ErrValidation, "Amount must be greater than zero")
	case req.StartDate.IsZero() || req.EndDate.IsZero():
		return apperr.New(apperr.ErrValidation, "Start and end dates are required")
	case req.StartDate.After(req.EndDate):
		return apperr.New(apperr.ErrValidation, "Start date must not be after end date")
	case strings.TrimSpace(req.UserEmail) == "":
		return apperr.New(apperr.ErrValidation, "User email is required")
	}
	return nil
}
