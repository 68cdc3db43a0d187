package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/stock-service/internal/domain"
	"github.com/spec-kit/stock-service/internal/repository"
	apperrors "github.com/spec-kit/stock-service/pkg/util"
)

// CatalogService fronts the record store for categories and products. It adds
// no business rules of its own; the authority layer in front of it is the
// point of these endpoints.
type CatalogService struct {
	categories repository.CategoryRepository
	products   repository.ProductRepository
}

// NewCatalogService builds the service.
func NewCatalogService(categories repository.CategoryRepository, products repository.ProductRepository) *CatalogService {
	return &CatalogService{categories: categories, products: products}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return categories, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("category", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, category *domain.Category) error {
	if err := s.categories.Create(ctx, category); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, category *domain.Category) error {
	if err := s.categories.Update(ctx, category); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("category", nil)
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("category", nil)
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return products, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("product", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return product, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, product *domain.Product) error {
	if err := s.products.Create(ctx, product); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, product *domain.Product) error {
	if err := s.products.Update(ctx, product); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("product", nil)
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("product", nil)
		}
		return apperrors.MapError(err)
	}
	return nil
}
