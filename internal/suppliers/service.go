package suppliers

import (
	"context"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/ivy-monitoring/supplier-api/internal/store"
)

// ServiceConfig tunes the supplier service.
type ServiceConfig struct {
	// DetailsConcurrency bounds the parallel aspect lookups of Details. Values
	// below one run them sequentially.
	DetailsConcurrency int
}

type Service struct {
	repo      Repository
	logger    *slog.Logger
	validator *validator.Validate
	cfg       ServiceConfig
}

func NewService(repo Repository, logger *slog.Logger, cfg ServiceConfig) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.DetailsConcurrency < 1 {
		cfg.DetailsConcurrency = 1
	}
	return &Service{repo: repo, logger: logger, validator: validator.New(), cfg: cfg}
}

// ProductList is the response of the products endpoint.
type ProductList struct {
	Products []store.Row `json:"products"`
	Count    int         `json:"count"`
}

// ServiceList is the response of the services endpoint.
type ServiceList struct {
	Services []store.Row `json:"services"`
	Count    int         `json:"count"`
}

func (s *Service) List(ctx context.Context) ([]Supplier, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Supplier, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Products(ctx context.Context, id int64) (ProductList, error) {
	rows, err := s.repo.Products(ctx, id)
	if err != nil {
		return ProductList{}, err
	}
	return ProductList{Products: rows, Count: len(rows)}, nil
}

func (s *Service) Services(ctx context.Context, id int64) (ServiceList, error) {
	rows, err := s.repo.Packages(ctx, id)
	if err != nil {
		return ServiceList{}, err
	}
	return ServiceList{Services: rows, Count: len(rows)}, nil
}

func (s *Service) Create(ctx context.Context, fields Fields) (Supplier, error) {
	return s.repo.Create(ctx, writableFields(fields))
}

// Update writes only the provided columns. An empty update reads the row back.
func (s *Service) Update(ctx context.Context, id int64, fields Fields) (Supplier, error) {
	values := writableFields(fields)
	if len(values) == 0 {
		return s.repo.Get(ctx, id)
	}
	return s.repo.Update(ctx, id, values)
}

// UpdateStatus validates the status before touching the store.
func (s *Service) UpdateStatus(ctx context.Context, id int64, update StatusUpdate) (Supplier, error) {
	if err := s.validateStatus(update); err != nil {
		return Supplier{}, err
	}
	return s.repo.Update(ctx, id, Fields{colStatus: update.Status})
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
