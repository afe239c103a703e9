package repositories

import (
	"fmt"
	"slices"

	"asicshop/internal/apperr"
	"asicshop/internal/catalog"
	"asicshop/internal/models"
)

type memoryProductRepository struct {
	s *MemoryStore
}

// GetAll returns all products ordered by ID.
func (r *memoryProductRepository) GetAll() ([]models.Product, error) {
	defer r.s.rlock()()

	productList := make([]models.Product, 0, len(r.s.state.products))
	for _, p := range r.s.state.products {
		productList = append(productList, p)
	}
	slices.SortFunc(productList, func(a, b models.Product) int { return int(a.ID) - int(b.ID) })
	return productList, nil
}

// GetByID returns a product by its ID.
func (r *memoryProductRepository) GetByID(id uint) (*models.Product, error) {
	defer r.s.rlock()()

	product, ok := r.s.state.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %d: %w", id, apperr.ErrNotFound)
	}
	return &product, nil
}

// ListFiltered scans all products and keeps those matching filter.
func (r *memoryProductRepository) ListFiltered(filter catalog.Filter) ([]models.Product, error) {
	all, err := r.GetAll()
	if err != nil {
		return nil, err
	}
	return catalog.Apply(all, filter), nil
}

// Create adds a new product.
func (r *memoryProductRepository) Create(product *models.Product) error {
	defer r.s.lock()()

	r.s.seq.product++
	product.ID = r.s.seq.product
	if product.CreatedAt.IsZero() {
		product.CreatedAt = r.s.now()
	}
	r.s.state.products[product.ID] = *product
	return nil
}

// Count returns the number of stored products.
func (r *memoryProductRepository) Count() (int64, error) {
	defer r.s.rlock()()
	return int64(len(r.s.state.products)), nil
}
