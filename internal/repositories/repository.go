// Package repositories is the entity store of the shop: users, products,
// cart items, orders and order items, behind interfaces with an in-memory
// and a GORM backing.
package repositories

import (
	"asicshop/internal/catalog"
	"asicshop/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	// Create assigns an ID and stores user. Fails with apperr.ErrDuplicateEmail
	// when the email is taken.
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	// Update merges upd into the stored user and returns the result.
	Update(id uint, upd models.UserUpdate) (*models.User, error)
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id uint) (*models.Product, error)
	ListFiltered(filter catalog.Filter) ([]models.Product, error)
	Create(product *models.Product) error
	Count() (int64, error)
}

// CartRepository defines the interface for cart item data access.
type CartRepository interface {
	ListByOwner(owner models.Owner) ([]models.CartItem, error)
	GetByID(id uint) (*models.CartItem, error)
	// Add inserts a cart item, or adds quantity to the owner's existing item
	// for the same product.
	Add(owner models.Owner, productID uint, quantity int) (*models.CartItem, error)
	UpdateQuantity(id uint, quantity int) (*models.CartItem, error)
	Delete(id uint) error
	// ClearOwner removes every item of owner. Clearing an empty cart succeeds.
	ClearOwner(owner models.Owner) error
}

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	Create(order *models.Order) error
	CreateItem(item *models.OrderItem) error
	// GetByID returns the order with its items.
	GetByID(id uint) (*models.Order, error)
	ListByUser(userID uint) ([]models.Order, error)
	ListItems(orderID uint) ([]models.OrderItem, error)
	UpdateStatus(id uint, status string) (*models.Order, error)
}

// Store groups the repositories and provides transactions spanning them.
type Store interface {
	Users() UserRepository
	Products() ProductRepository
	Cart() CartRepository
	Orders() OrderRepository

	// Transaction runs fn against a transactional view of the store. If fn
	// returns an error every change made through tx is rolled back.
	Transaction(fn func(tx Store) error) error

	Ping() error
	Close() error
}
