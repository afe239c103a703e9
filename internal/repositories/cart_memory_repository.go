package repositories

import (
	"fmt"
	"slices"

	"asicshop/internal/apperr"
	"asicshop/internal/models"
)

type memoryCartRepository struct {
	s *MemoryStore
}

// ListByOwner returns the owner's items ordered by ID.
func (r *memoryCartRepository) ListByOwner(owner models.Owner) ([]models.CartItem, error) {
	defer r.s.rlock()()

	items := make([]models.CartItem, 0)
	for _, item := range r.s.state.cart {
		if owner.Matches(item) {
			items = append(items, item)
		}
	}
	slices.SortFunc(items, func(a, b models.CartItem) int { return int(a.ID) - int(b.ID) })
	return items, nil
}

// GetByID returns a cart item by its ID.
func (r *memoryCartRepository) GetByID(id uint) (*models.CartItem, error) {
	defer r.s.rlock()()

	item, ok := r.s.state.cart[id]
	if !ok {
		return nil, fmt.Errorf("cart item with ID %d: %w", id, apperr.ErrNotFound)
	}
	return &item, nil
}

// Add merges quantity into the owner's existing line for productID, or
// creates a new line.
func (r *memoryCartRepository) Add(owner models.Owner, productID uint, quantity int) (*models.CartItem, error) {
	defer r.s.lock()()

	for id, item := range r.s.state.cart {
		if item.ProductID == productID && owner.Matches(item) {
			item.Quantity += quantity
			r.s.state.cart[id] = item
			return &item, nil
		}
	}

	item := models.NewCartItem(owner, productID, quantity)
	r.s.seq.cart++
	item.ID = r.s.seq.cart
	item.CreatedAt = r.s.now()
	r.s.state.cart[item.ID] = item
	return &item, nil
}

// UpdateQuantity replaces the quantity of a cart item.
func (r *memoryCartRepository) UpdateQuantity(id uint, quantity int) (*models.CartItem, error) {
	defer r.s.lock()()

	item, ok := r.s.state.cart[id]
	if !ok {
		return nil, fmt.Errorf("cart item with ID %d not found for update: %w", id, apperr.ErrNotFound)
	}
	item.Quantity = quantity
	r.s.state.cart[id] = item
	return &item, nil
}

// Delete removes a cart item by its ID.
func (r *memoryCartRepository) Delete(id uint) error {
	defer r.s.lock()()

	if _, ok := r.s.state.cart[id]; !ok {
		return fmt.Errorf("cart item with ID %d not found for deletion: %w", id, apperr.ErrNotFound)
	}
	delete(r.s.state.cart, id)
	return nil
}

// ClearOwner removes every item of owner.
func (r *memoryCartRepository) ClearOwner(owner models.Owner) error {
	defer r.s.lock()()

	for id, item := range r.s.state.cart {
		if owner.Matches(item) {
			delete(r.s.state.cart, id)
		}
	}
	return nil
}
