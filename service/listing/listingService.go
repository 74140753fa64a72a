package listingsvc

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"time"

	"campuscloset/model"
	listingrepo "campuscloset/repository/listing"
	"campuscloset/service/directory"
	mediasvc "campuscloset/service/media"
	"campuscloset/util/apperr"
)

// MaxPricePerDay is the first value price_per_day NUMERIC(10,2) cannot hold.
const MaxPricePerDay = 1e8

// Fields is a listing submission before owner resolution.
type Fields struct {
	Title            string
	Size             string
	ItemType         string
	Condition        string
	WashInstructions string
	StartDate        time.Time
	EndDate          time.Time
	PricePerDay      float64
}

// Upload is the optional image attached to a submission.
type Upload struct {
	Data     []byte
	Name     string
	MimeType string
}

type Service interface {
	Create(ctx context.Context, ownerEmail string, f Fields, image *Upload) (*model.Listing, error)
	Search(ctx context.Context, query string, sort model.ListingSort) ([]model.Listing, error)
	Get(ctx context.Context, id int64) (*model.Listing, error)
}

type service struct {
	repo  listingrepo.Repo
	users directory.Finder
	media mediasvc.Service
	log   *slog.Logger
}

func New(repo listingrepo.Repo, users directory.Finder, media mediasvc.Service, log *slog.Logger) Service {
	if log == nil {
		log = slog.Default()
	}
	return &service{repo: repo, users: users, media: media, log: log}
}

func (s *service) Create(ctx context.Context, ownerEmail string, f Fields, image *Upload) (*model.Listing, error) {
	if strings.TrimSpace(ownerEmail) == "" {
		return nil, apperr.New(apperr.ErrAuth, "User authentication required")
	}
	l, err := validate(f)
	if err != nil {
		return nil, err
	}

	owner, err := directory.Resolve(ctx, s.users, ownerEmail)
	if err != nil {
		return nil, err
	}
	l.OwnerID = owner.ID

	var key string
	if image != nil {
		url, k, err := s.media.Upload(ctx, image.Data, image.Name, image.MimeType)
		if err != nil {
			return nil, err
		}
		l.ImageURL, key = &url, k
	}

	if err := s.repo.Insert(ctx, l); err != nil {
		if key != "" {
			s.log.Warn("listing insert failed, image left in bucket", "key", key, "owner_id", owner.ID)
		}
		return nil, apperr.Wrap(apperr.ErrStorage, "Error creating listing", err)
	}
	return l, nil
}

func (s *service) Search(ctx context.Context, query string, sort model.ListingSort) ([]model.Listing, error) {
	if !sort.Valid() {
		return nil, apperr.New(apperr.ErrValidation, "Unknown sort order")
	}
	out, err := s.repo.Search(ctx, query, sort)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrStorage, "Error searching listings", err)
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id int64) (*model.Listing, error) {
	l, err := s.repo.ByID(ctx, id)
	if errors.Is(err, listingrepo.ErrNotFound) {
		return nil, apperr.New(apperr.ErrNotFound, "Listing not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrStorage, "Error loading listing", err)
	}
	return l, nil
}

func validate(f Fields) (*model.Listing, error) {
	bad := func(msg string) (*model.Listing, error) {
		return nil, apperr.New(apperr.ErrValidation, msg)
	}

	l := &model.Listing{
		Title:            strings.TrimSpace(f.Title),
		Size:             model.Size(strings.ToUpper(strings.TrimSpace(f.Size))),
		ItemType:         strings.ToLower(strings.TrimSpace(f.ItemType)),
		Condition:        strings.TrimSpace(f.Condition),
		WashInstructions: strings.TrimSpace(f.WashInstructions),
		StartDate:        f.StartDate,
		EndDate:          f.EndDate,
		PricePerDay:      math.Round(f.PricePerDay*100) / 100,
	}
	switch {
	case l.Title == "":
		return bad("Title is required")
	case !l.Size.Valid():
		return bad("Size must be one of XS, S, M, L, XL, XXL")
	case l.ItemType == "":
		return bad("Item type is required")
	case l.Condition == "":
		return bad("Condition is required")
	case l.WashInstructions == "":
		return bad("Wash instructions are required")
	case l.StartDate.IsZero() || l.EndDate.IsZero():
		return bad("Start and end dates are required")
	case l.StartDate.After(l.EndDate):
		return bad("Start date must not be after end date")
	case math.IsNaN(f.PricePerDay) || math.IsInf(f.PricePerDay, 0):
		return bad("Invalid price per day")
	case !(l.PricePerDay > 0):
		return bad("Price per day must be greater than zero")
	case l.PricePerDay >= MaxPricePerDay:
		return bad("Price per day is too large")
	}
	return l, nil
}
