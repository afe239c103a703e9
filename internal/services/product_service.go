package services

import (
	"asicshop/internal/catalog"
	"asicshop/internal/models"
	"asicshop/internal/repositories"
)

// ProductQuery describes a catalog listing request.
type ProductQuery struct {
	Filter catalog.Filter
	Search string
	Sort   catalog.SortOrder
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// ListProducts applies the store-side filter, then free-text search, then
// sorting.
func (s *ProductService) ListProducts(q ProductQuery) ([]models.Product, error) {
	var (
		products []models.Product
		err      error
	)
	if q.Filter.Empty() {
		products, err = s.repo.GetAll()
	} else {
		products, err = s.repo.ListFiltered(q.Filter)
	}
	if err != nil {
		return nil, err
	}
	products = catalog.Search(products, q.Search)
	return catalog.Sort(products, q.Sort), nil
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id uint) (*models.Product, error) {
	return s.repo.GetByID(id)
}
