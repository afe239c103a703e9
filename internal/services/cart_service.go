package services

import (
	"errors"
	"fmt"

	"asicshop/internal/apperr"
	"asicshop/internal/models"
	"asicshop/internal/repositories"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CartSummary is the resolved cart of one owner with its derived totals.
type CartSummary struct {
	Items []models.CartLine `json:"items"`
	Total string            `json:"total"`
	Count int               `json:"count"`
}

// CartService maintains per-owner carts.
type CartService struct {
	store repositories.Store
	log   *zap.Logger
}

// NewCartService creates a new CartService.
func NewCartService(store repositories.Store, log *zap.Logger) *CartService {
	return &CartService{store: store, log: log}
}

// AddItem puts quantity units of productID into owner's cart, adding to an
// existing line for the same product. The product must exist. Stock is not
// checked.
func (s *CartService) AddItem(owner models.Owner, productID uint, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, apperr.NewValidationError(apperr.FieldIssue{Field: "quantity", Message: "must be at least 1"})
	}
	if _, err := s.store.Products().GetByID(productID); err != nil {
		return nil, fmt.Errorf("product %d: %w", productID, err)
	}
	return s.store.Cart().Add(owner, productID, quantity)
}

// SetQuantity replaces the quantity of a cart item.
func (s *CartService) SetQuantity(itemID uint, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, apperr.NewValidationError(apperr.FieldIssue{Field: "quantity", Message: "must be at least 1"})
	}
	return s.store.Cart().UpdateQuantity(itemID, quantity)
}

// Remove deletes a cart item by ID. Ownership is not checked.
func (s *CartService) Remove(itemID uint) error {
	return s.store.Cart().Delete(itemID)
}

// Clear empties owner's cart.
func (s *CartService) Clear(owner models.Owner) error {
	return s.store.Cart().ClearOwner(owner)
}

// List returns owner's cart lines joined with their products.
func (s *CartService) List(owner models.Owner) ([]models.CartLine, error) {
	return resolveLines(s.store, owner, s.log)
}

// Summary returns owner's lines with total and count.
func (s *CartService) Summary(owner models.Owner) (*CartSummary, error) {
	lines, err := s.List(owner)
	if err != nil {
		return nil, err
	}
	total, count := totals(lines)
	return &CartSummary{Items: lines, Total: total.StringFixed(2), Count: count}, nil
}

// Merge moves every line of from into to, summing quantities of lines for
// the same product. from ends up empty.
func (s *CartService) Merge(from, to models.Owner) error {
	if from.Key() == to.Key() {
		return nil
	}
	return s.store.Transaction(func(tx repositories.Store) error {
		items, err := tx.Cart().ListByOwner(from)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		for _, it := range items {
			if _, err := tx.Cart().Add(to, it.ProductID, it.Quantity); err != nil {
				return err
			}
		}
		if err := tx.Cart().ClearOwner(from); err != nil {
			return err
		}
		s.log.Debug("merged cart",
			zap.String("from", from.Key()),
			zap.String("to", to.Key()),
			zap.Int("lines", len(items)),
		)
		return nil
	})
}

// resolveLines joins owner's items with products through store, skipping
// items whose product no longer exists.
func resolveLines(store repositories.Store, owner models.Owner, log *zap.Logger) ([]models.CartLine, error) {
	items, err := store.Cart().ListByOwner(owner)
	if err != nil {
		return nil, err
	}
	lines := make([]models.CartLine, 0, len(items))
	for _, it := range items {
		p, err := store.Products().GetByID(it.ProductID)
		if errors.Is(err, apperr.ErrNotFound) {
			log.Debug("dropping cart item with missing product",
				zap.Uint("item_id", it.ID),
				zap.Uint("product_id", it.ProductID),
			)
			continue
		}
		if err != nil {
			return nil, err
		}
		lines = append(lines, models.CartLine{CartItem: it, Product: *p})
	}
	return lines, nil
}

func totals(lines []models.CartLine) (decimal.Decimal, int) {
	total := decimal.Zero
	count := 0
	for _, l := range lines {
		total = total.Add(l.Product.PriceDecimal().Mul(decimal.NewFromInt(int64(l.Quantity))))
		count += l.Quantity
	}
	return total, count
}
