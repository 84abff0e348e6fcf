package app

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/mridulgandhi29/real-estate-tracker/internal/clock"
	"github.com/mridulgandhi29/real-estate-tracker/internal/domain"
)

type ListingRepository interface {
	Insert(ctx context.Context, listing domain.Listing) (string, error)
	Get(ctx context.Context, id string) (domain.Listing, error)
	List(ctx context.Context, page, perPage int) ([]domain.Listing, error)
	FindByCity(ctx context.Context, city string) ([]domain.Listing, error)
	UpdatePrice(ctx context.Context, id string, price int64) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	EnsureIndexes(ctx context.Context) ([]string, error)
}

type ListingService struct {
	repo   ListingRepository
	clock  clock.Clock
	logger *zap.Logger
}

const defaultPerPage = 5

func NewListingService(repo ListingRepository, clk clock.Clock, logger *zap.Logger) *ListingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ListingService{
		repo:   repo,
		clock:  clk,
		logger: logger,
	}
}

type CreateListingInput struct {
	Title string
	City  string
	Price int64
}

func (s *ListingService) CreateListing(ctx context.Context, in CreateListingInput) (domain.Listing, error) {
	title := strings.TrimSpace(in.Title)
	city := strings.TrimSpace(in.City)
	if title == "" {
		return domain.Listing{}, domain.ErrTitleRequired
	}
	if city == "" {
		return domain.Listing{}, domain.ErrCityRequired
	}
	if in.Price < 0 {
		return domain.Listing{}, domain.ErrNegativePrice
	}

	listing := domain.Listing{
		Title:     title,
		City:      city,
		Price:     in.Price,
		Status:    domain.ListingStatusAvailable,
		CreatedAt: s.clock.Now(),
	}

	id, err := s.repo.Insert(ctx, listing)
	if err != nil {
		return domain.Listing{}, err
	}
	listing.ID = id

	s.logger.Info("listing created",
		zap.String("listing_id", id),
		zap.String("city", city))
	return listing, nil
}

// ListListings returns one page of listings sorted by ascending price.
// Pages are 1-based; out-of-range values fall back to the first page with
// the default page size.
func (s *ListingService) ListListings(ctx context.Context, page int) ([]domain.Listing, error) {
	if page < 1 {
		page = 1
	}
	return s.repo.List(ctx, page, defaultPerPage)
}

func (s *ListingService) GetListing(ctx context.Context, id string) (domain.Listing, error) {
	return s.repo.Get(ctx, id)
}

// FindByCity matches listings whose city contains the given fragment,
// case-insensitively.
func (s *ListingService) FindByCity(ctx context.Context, city string) ([]domain.Listing, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, domain.ErrCityRequired
	}
	return s.repo.FindByCity(ctx, city)
}

func (s *ListingService) UpdatePrice(ctx context.Context, id string, price int64) error {
	if price < 0 {
		return domain.ErrNegativePrice
	}
	modified, err := s.repo.UpdatePrice(ctx, id, price)
	if err != nil {
		return err
	}
	if !modified {
		return domain.ErrListingNotFound
	}
	s.logger.Info("listing price updated",
		zap.String("listing_id", id),
		zap.Int64("price", price))
	return nil
}

func (s *ListingService) DeleteListing(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrListingNotFound
	}
	s.logger.Info("listing deleted", zap.String("listing_id", id))
	return nil
}

// EnsureIndexes creates the city and price indexes and returns their names.
func (s *ListingService) EnsureIndexes(ctx context.Context) ([]string, error) {
	names, err := s.repo.EnsureIndexes(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("indexes ensured", zap.Strings("indexes", names))
	return names, nil
}
