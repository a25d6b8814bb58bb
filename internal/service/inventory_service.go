package service

import (
	"context"
	"errors"
	"strings"

	"fsanano/storefront/internal/repository"

	"github.com/rs/zerolog"
)

type InventoryStore interface {
	GetQuantityAvailable(ctx context.Context, productSizeID int) (int, error)
	SetQuantityAvailable(ctx context.Context, productSizeID int, qty *int) error
	FindSizeID(ctx context.Context, productID int, size string) (int, error)
}

type InventoryService struct {
	store InventoryStore
	log   zerolog.Logger
}

func NewInventoryService(store InventoryStore, log zerolog.Logger) *InventoryService {
	return &InventoryService{store: store, log: log}
}

// Quantity returns the available stock of a product size.
func (s *InventoryService) Quantity(ctx context.Context, productSizeID int) (int, error) {
	if productSizeID <= 0 {
		return 0, validationf("product size id must be positive")
	}
	qty, err := s.store.GetQuantityAvailable(ctx, productSizeID)
	if err != nil {
		s.logRead(err, productSizeID)
		return 0, readError("product size", err)
	}
	return qty, nil
}

// SetQuantity overwrites the available stock of a product size. A nil qty
// stores 0; negative quantities are rejected.
func (s *InventoryService) SetQuantity(ctx context.Context, productSizeID int, qty *int) error {
	if productSizeID <= 0 {
		return validationf("product size id must be positive")
	}
	if qty != nil && *qty < 0 {
		return validationf("availableQuantity must not be negative")
	}
	if err := s.store.SetQuantityAvailable(ctx, productSizeID, qty); err != nil {
		mapped := writeError("product size", err)
		if errors.Is(mapped, ErrWrite) {
			s.log.Error().Err(err).Int("product_size_id", productSizeID).Msg("failed to update quantity")
		}
		return mapped
	}

	stored := 0
	if qty != nil {
		stored = *qty
	}
	s.log.Info().Int("product_size_id", productSizeID).Int("quantity_available", stored).Msg("quantity updated")
	return nil
}

// SizeID resolves a size label of a product to its product_size_id.
func (s *InventoryService) SizeID(ctx context.Context, productID int, size string) (int, error) {
	size = strings.TrimSpace(size)
	if productID <= 0 || size == "" {
		return 0, validationf("product id and size are required")
	}
	id, err := s.store.FindSizeID(ctx, productID, size)
	if err != nil {
		s.logRead(err, productID)
		return 0, readError("product size", err)
	}
	return id, nil
}

func (s *InventoryService) logRead(err error, id int) {
	if errors.Is(err, repository.ErrNotFound) {
		return
	}
	s.log.Error().Err(err).Int("id", id).Msg("inventory read failed")
}
