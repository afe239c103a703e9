package handlers

import (
	"strings"

	"asicshop/internal/apperr"
	"asicshop/internal/catalog"
	"asicshop/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductHandler handles HTTP requests for the catalog.
type ProductHandler struct {
	service *services.ProductService
	log     *zap.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, log *zap.Logger) *ProductHandler {
	return &ProductHandler{service: service, log: log}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
}

// HandleGetProducts lists products matching the query string.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	query, err := parseProductQuery(c)
	if err != nil {
		return respondError(c, h.log, err, "Product")
	}

	products, err := h.service.ListProducts(query)
	if err != nil {
		return respondError(c, h.log, err, "Product")
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, h.log, err, "Product")
	}

	product, err := h.service.GetProductByID(id)
	if err != nil {
		return respondError(c, h.log, err, "Product")
	}
	return c.JSON(product)
}

// parseProductQuery reads brand and algorithm (repeatable), priceMin,
// priceMax, inStock, hashrate, search and sort.
func parseProductQuery(c *fiber.Ctx) (services.ProductQuery, error) {
	var (
		q    services.ProductQuery
		verr = apperr.NewValidationError()
	)

	q.Filter.Brands = queryValues(c, "brand")
	q.Filter.Algorithms = queryValues(c, "algorithm")

	for _, bound := range []struct {
		key string
		dst **decimal.Decimal
	}{
		{"priceMin", &q.Filter.PriceMin},
		{"priceMax", &q.Filter.PriceMax},
	} {
		raw := strings.TrimSpace(c.Query(bound.key))
		if raw == "" {
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			verr.Add(bound.key, "must be a number")
			continue
		}
		*bound.dst = &d
	}

	if raw := c.Query("inStock"); raw != "" {
		inStock := raw == "true"
		q.Filter.InStock = &inStock
	}

	q.Filter.Hashrate = catalog.ParseBucket(c.Query("hashrate"))
	q.Search = strings.TrimSpace(c.Query("search"))
	q.Sort = catalog.SortOrder(c.Query("sort"))

	if !verr.Empty() {
		return q, verr
	}
	return q, nil
}

// queryValues returns every non-empty value of a repeated query parameter.
// "all" means no constraint.
func queryValues(c *fiber.Ctx, key string) []string {
	var out []string
	for _, raw := range c.Context().QueryArgs().PeekMulti(key) {
		v := strings.TrimSpace(string(raw))
		if v == "" || strings.EqualFold(v, "all") {
			continue
		}
		out = append(out, v)
	}
	return out
}
