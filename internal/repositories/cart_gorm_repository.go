package repositories

import (
	"errors"
	"fmt"

	"asicshop/internal/apperr"
	"asicshop/internal/models"

	"gorm.io/gorm"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

func ownerScope(owner models.Owner) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if owner.UserID != nil {
			return db.Where("user_id = ?", *owner.UserID)
		}
		return db.Where("user_id IS NULL AND session_id = ?", owner.SessionID)
	}
}

// ListByOwner returns the owner's cart items.
func (r *GORMCartRepository) ListByOwner(owner models.Owner) ([]models.CartItem, error) {
	if owner.UserID == nil && owner.SessionID == "" {
		return []models.CartItem{}, nil
	}
	items := make([]models.CartItem, 0)
	if err := r.db.Scopes(ownerScope(owner)).Order("id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	return items, nil
}

// GetByID retrieves a cart item by its ID.
func (r *GORMCartRepository) GetByID(id uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart item with ID %d: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart item by ID %d: %w", id, err)
	}
	return &item, nil
}

// Add merges into the owner's existing line for productID or inserts one.
// Lookup and write share a transaction.
func (r *GORMCartRepository) Add(owner models.Owner, productID uint, quantity int) (*models.CartItem, error) {
	var result models.CartItem
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.CartItem
		err := tx.Scopes(ownerScope(owner)).Where("product_id = ?", productID).First(&existing).Error
		switch {
		case err == nil:
			existing.Quantity += quantity
			if err := tx.Model(&existing).Update("quantity", existing.Quantity).Error; err != nil {
				return err
			}
			result = existing
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			item := models.NewCartItem(owner, productID, quantity)
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			result = item
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add to cart: %w", err)
	}
	return &result, nil
}

// UpdateQuantity replaces the quantity of a cart item.
func (r *GORMCartRepository) UpdateQuantity(id uint, quantity int) (*models.CartItem, error) {
	res := r.db.Model(&models.CartItem{}).Where("id = ?", id).Update("quantity", quantity)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("cart item with ID %d not found for update: %w", id, apperr.ErrNotFound)
	}
	return r.GetByID(id)
}

// Delete deletes a cart item by its ID.
func (r *GORMCartRepository) Delete(id uint) error {
	res := r.db.Delete(&models.CartItem{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item with ID %d not found for deletion: %w", id, apperr.ErrNotFound)
	}
	return nil
}

// ClearOwner deletes every item of owner.
func (r *GORMCartRepository) ClearOwner(owner models.Owner) error {
	if owner.UserID == nil && owner.SessionID == "" {
		return nil
	}
	if err := r.db.Scopes(ownerScope(owner)).Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
