package service

import (
	"context"
	"errors"
	"strings"

	"fsanano/storefront/internal/model"
	"fsanano/storefront/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type CatalogStore interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	SearchProducts(ctx context.Context, search string) ([]model.Product, error)
	ListProductsByCategory(ctx context.Context, categoryID int) ([]model.Product, error)
	GetProduct(ctx context.Context, productID int) (model.Product, error)
	ListProductSizes(ctx context.Context, productID int) ([]model.ProductSize, error)
}

type CatalogService struct {
	store CatalogStore
	log   zerolog.Logger
}

func NewCatalogService(store CatalogStore, log zerolog.Logger) *CatalogService {
	return &CatalogService{store: store, log: log}
}

func (s *CatalogService) Categories(ctx context.Context) ([]model.Category, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list categories")
		return nil, readError("categories", err)
	}
	return nonNil(categories), nil
}

// SearchProducts matches search against product titles, ignoring case.
func (s *CatalogService) SearchProducts(ctx context.Context, search string) ([]model.Product, error) {
	products, err := s.store.SearchProducts(ctx, strings.TrimSpace(search))
	if err != nil {
		s.log.Error().Err(err).Str("search", search).Msg("failed to search products")
		return nil, readError("products", err)
	}
	return nonNil(products), nil
}

func (s *CatalogService) ProductsByCategory(ctx context.Context, categoryID int) ([]model.Product, error) {
	if categoryID <= 0 {
		return nil, validationf("category id must be positive")
	}
	products, err := s.store.ListProductsByCategory(ctx, categoryID)
	if err != nil {
		s.log.Error().Err(err).Int("category_id", categoryID).Msg("failed to list products")
		return nil, readError("products", err)
	}
	return nonNil(products), nil
}

// ProductDetail loads a product and its sizes concurrently.
func (s *CatalogService) ProductDetail(ctx context.Context, productID int) (model.ProductDetail, error) {
	if productID <= 0 {
		return model.ProductDetail{}, validationf("product id must be positive")
	}

	var (
		product model.Product
		sizes   []model.ProductSize
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		product, err = s.store.GetProduct(ctx, productID)
		return err
	})
	g.Go(func() error {
		var err error
		sizes, err = s.store.ListProductSizes(ctx, productID)
		return err
	})

	if err := g.Wait(); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Error().Err(err).Int("product_id", productID).Msg("failed to load product detail")
		}
		return model.ProductDetail{}, readError("product", err)
	}

	return model.ProductDetail{Product: product, Sizes: nonNil(sizes)}, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
