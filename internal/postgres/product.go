package postgres

import (
	"context"
	"errors"

	"github.com/dukerupert/airshop/internal/domain"
	"github.com/dukerupert/airshop/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// ProductService implements domain.ProductService using PostgreSQL.
type ProductService struct {
	repo repository.Querier
}

// Compile-time check that ProductService implements domain.ProductService.
var _ domain.ProductService = (*ProductService)(nil)

// NewProductService creates a new PostgreSQL-backed product service.
func NewProductService(repo repository.Querier) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// FindProduct returns a product regardless of visibility.
func (s *ProductService) FindProduct(ctx context.Context, id int64) (*domain.Product, error) {
	row, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, domain.Internal(err, "product.find", "failed to get product")
	}
	p := mapRepoProductToDomain(row)
	return &p, nil
}

// GetVisibleProduct hides products that are not published.
func (s *ProductService) GetVisibleProduct(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := s.FindProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsVisible {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

// ListProducts returns visible products matching the filter, newest first.
func (s *ProductService) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	var search pgtype.Text
	if filter.Search != nil && *filter.Search != "" {
		search = pgText(*filter.Search)
	}
	var category pgtype.Text
	if filter.Category != nil && *filter.Category != "" {
		category = pgText(*filter.Category)
	}

	rows, err := s.repo.ListVisibleProducts(ctx, repository.ListVisibleProductsParams{
		Category:     category,
		FeaturedOnly: filter.Featured,
		Search:       search,
	})
	if err != nil {
		return nil, domain.Internal(err, "product.list", "failed to list products")
	}

	products := make([]domain.Product, len(rows))
	for i, row := range rows {
		products[i] = mapRepoProductToDomain(row)
	}
	return products, nil
}

func mapRepoProductToDomain(p repository.Product) domain.Product {
	return domain.Product{
		ID:          p.ID,
		Name:        p.Name,
		Brand:       p.Brand,
		Price:       p.Price,
		OldPrice:    ptrFromNullDecimal(p.OldPrice),
		Discount:    p.Discount,
		Volume:      p.Volume,
		Category:    p.Category,
		Description: ptrFromPgText(p.Description),
		Image:       p.Image,
		IsFeatured:  p.IsFeatured,
		IsNew:       p.IsNew,
		IsVisible:   p.IsVisible,
		CreatedAt:   timeFromPg(p.CreatedAt),
		UpdatedAt:   timeFromPg(p.UpdatedAt),
	}
}
