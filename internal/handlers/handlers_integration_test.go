package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"asicshop/internal/handlers"
	"asicshop/internal/middleware"
	"asicshop/internal/repositories"
	"asicshop/internal/seed"
	"asicshop/internal/services"
	"asicshop/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const adminToken = "test-admin"

// setupApp wires the full API over store with the seeded catalog.
func setupApp(t *testing.T, store repositories.Store) *fiber.App {
	t.Helper()
	log := zap.NewNop()

	_, err := seed.Load(store.Products(), log)
	require.NoError(t, err)

	registry := session.NewMemoryRegistry()
	productService := services.NewProductService(store.Products())
	cartService := services.NewCartService(store, log)
	orderService := services.NewOrderService(store, nil, log)
	authService := services.NewAuthService(store.Users(), registry, log)

	app := fiber.New()
	handlers.NewHealthHandler(store).RegisterRoutes(app)

	api := app.Group("/api", middleware.Session(registry, log))
	handlers.NewAuthHandler(authService, log).RegisterRoutes(api)
	handlers.NewProfileHandler(authService, log).RegisterRoutes(api)
	handlers.NewProductHandler(productService, log).RegisterRoutes(api)
	handlers.NewCartHandler(cartService, log).RegisterRoutes(api)
	handlers.NewOrderHandler(orderService, adminToken, log).RegisterRoutes(api)
	return app
}

// backings returns one app per store implementation.
func backings(t *testing.T) map[string]*fiber.App {
	t.Helper()
	db, err := repositories.OpenGorm("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	gormStore := repositories.NewGormStore(db)
	t.Cleanup(func() { _ = gormStore.Close() })

	return map[string]*fiber.App{
		"memory": setupApp(t, repositories.NewMemoryStore()),
		"sqlite": setupApp(t, gormStore),
	}
}

type client struct {
	t     *testing.T
	app   *fiber.App
	token string
}

// do sends a request with the client's session and decodes the JSON body
// into out when out is non-nil. A minted session-id is remembered.
func (c *client) do(method, path string, body any, out any) int {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	if minted := resp.Header.Get(middleware.HeaderSessionID); minted != "" {
		c.token = minted
	}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	if out != nil && len(raw) > 0 {
		require.NoError(c.t, json.Unmarshal(raw, out), string(raw))
	}
	return resp.StatusCode
}

type authBody struct {
	User struct {
		ID    uint   `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
	SessionToken string `json:"sessionToken"`
}

type cartBody struct {
	Items []struct {
		ID        uint `json:"id"`
		ProductID uint `json:"productId"`
		Quantity  int  `json:"quantity"`
		Product   struct {
			Price string `json:"price"`
		} `json:"product"`
	} `json:"items"`
	Total string `json:"total"`
	Count int    `json:"count"`
}

type orderBody struct {
	ID          uint   `json:"id"`
	Status      string `json:"status"`
	TotalAmount string `json:"totalAmount"`
	Items       []struct {
		ProductID uint   `json:"productId"`
		Quantity  int    `json:"quantity"`
		Price     string `json:"price"`
	} `json:"items"`
}

type errorBody struct {
	Message string `json:"message"`
	Errors  []struct {
		Field string `json:"field"`
	} `json:"errors"`
}

func checkout(total string) fiber.Map {
	return fiber.Map{
		"name":          "Alice",
		"email":         "a@x.com",
		"phone":         "+1 555 0100",
		"country":       "US",
		"city":          "Austin",
		"address":       "1 Main St",
		"paymentMethod": "crypto",
		"totalAmount":   total,
	}
}

func TestHealth(t *testing.T) {
	for name, app := range backings(t) {
		t.Run(name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		})
	}
}

func TestRegisterLoginFlow(t *testing.T) {
	for name, app := range backings(t) {
		t.Run(name, func(t *testing.T) {
			c := &client{t: t, app: app}

			// Anonymous visit mints a token.
			require.Equal(t, fiber.StatusOK, c.do(http.MethodGet, "/api/cart", nil, nil))
			anonToken := c.token
			require.NotEmpty(t, anonToken)

			var reg authBody
			status := c.do(http.MethodPost, "/api/auth/register", fiber.Map{"name": "A", "email": "a@x.com", "password": "pw1"}, &reg)
			require.Equal(t, fiber.StatusOK, status)
			assert.NotZero(t, reg.User.ID)
			assert.NotEmpty(t, reg.SessionToken)

			var e errorBody
			status = c.do(http.MethodPost, "/api/auth/register", fiber.Map{"name": "B", "email": "a@x.com", "password": "pw2"}, &e)
			assert.Equal(t, fiber.StatusBadRequest, status)
			assert.NotEmpty(t, e.Message)

			status = c.do(http.MethodPost, "/api/auth/login", fiber.Map{"email": "a@x.com", "password": "wrong"}, nil)
			assert.Equal(t, fiber.StatusUnauthorized, status)

			var login authBody
			status = c.do(http.MethodPost, "/api/auth/login", fiber.Map{"email": "a@x.com", "password": "pw1"}, &login)
			require.Equal(t, fiber.StatusOK, status)
			assert.NotEqual(t, anonToken, login.SessionToken)

			c.token = login.SessionToken
			var me struct {
				Email    string  `json:"email"`
				Password *string `json:"password"`
			}
			require.Equal(t, fiber.StatusOK, c.do(http.MethodGet, "/api/auth/me", nil, &me))
			assert.Equal(t, "a@x.com", me.Email)
			assert.Nil(t, me.Password)

			var profile struct {
				Name string  `json:"name"`
				City *string `json:"city"`
			}
			require.Equal(t, fiber.StatusOK, c.do(http.MethodPut, "/api/profile", fiber.Map{"city": "Austin"}, &profile))
			assert.Equal(t, "A", profile.Name)
			require.NotNil(t, profile.City)
			assert.Equal(t, "Austin", *profile.City)

			require.Equal(t, fiber.StatusOK, c.do(http.MethodPost, "/api/auth/logout", nil, nil))
			// The old token now resolves to a fresh anonymous session.
			c.token = login.SessionToken
			assert.Equal(t, fiber.StatusUnauthorized, c.do(http.MethodGet, "/api/auth/me", nil, nil))
		})
	}
}

func TestRegisterValidation(t *testing.T) {
	for name, app := range backings(t) {
		t.Run(name, func(t *testing.T) {
			c := &client{t: t, app: app}
			var e errorBody
			status := c.do(http.MethodPost, "/api/auth/register", fiber.Map{"email": "nope"}, &e)
			assert.Equal(t, fiber.StatusBadRequest, status)
			fields := make([]string, 0, len(e.Errors))
			for _, f := range e.Errors {
				fields = append(fields, f.Field)
			}
			assert.ElementsMatch(t, []string{"name", "email", "password"}, fields)
		})
	}
}

func TestProducts(t *testing.T) {
	for name, app := range backings(t) {
		t.Run(name, func(t *testing.T) {
			c := &client{t: t, app: app}

			var all []struct {
				ID       uint   `json:"id"`
				Brand    string `json:"brand"`
				Price    string `json:"price"`
				Hashrate string `json:"hashrate"`
			}
			require.Equal(t, fiber.StatusOK, c.do(http.MethodGet, "/api/products", nil, &all))
			assert.Len(t, all, 8)
			assert.Equal(t, uint(1), all[0].ID)

			require.Equal(t, fiber.StatusOK, c.do(http.MethodGet, "/api/products?brand=Bitmain&brand=Canaan&priceMax=2900", nil, &all))
			for _, p := range all {
				assert.Contains(t, []string{"Bitmain", "Canaan"}, p.Brand)
			}
			assert.Len(t, all, 4)

			require.Equal(t, fiber.StatusOK, c.do(http.MethodGet, "/api/products?sort=price-asc", nil, &all))
			assert.Equal(t, "2399.00", all[0].Price)

			// Lexicographic: "90 TH/s" sorts above "118 TH/s".
			require.Equal(t, fiber.StatusOK, c.do(http.MethodGet, "/api/products?sort=hashrate", nil, &all))
			assert.Equal(t, "90 TH/s", all[0].Hashrate)
			require.Equal(t, fiber.StatusOK, c.do(http.MethodGet, "/api/products?sort=hashrate-numeric", nil, &all))
			assert.Equal(t, "118 TH/s", all[0].Hashrate)

			require.Equal(t, fiber.StatusOK, c.do(http.MethodGet, "/api/products?hashrate=high", nil, &all))
			assert.Len(t, all, 3)

			require.Equal(t, fiber.StatusOK, c.do(http.MethodGet, "/api/products?search=whatsminer", nil, &all))
			assert.Len(t, all, 2)

			assert.Equal(t, fiber.StatusBadRequest, c.do(http.MethodGet, "/api/products?priceMin=cheap", nil, nil))

			var one struct {
				Name string `json:"name"`
			}
			require.Equal(t, fiber.StatusOK, c.do(http.MethodGet, "/api/products/3", nil, &one))
			assert.Equal(t, "WhatsMiner M50 118 TH/s", one.Name)
			assert.Equal(t, fiber.StatusNotFound, c.do(http.MethodGet, "/api/products/999", nil, nil))
			assert.Equal(t, fiber.StatusBadRequest, c.do(http.MethodGet, "/api/products/abc", nil, nil))
		})
	}
}

func TestCartFlow(t *testing.T) {
	for name, app := range backings(t) {
		t.Run(name, func(t *testing.T) {
			c := &client{t: t, app: app}

			require.Equal(t, fiber.StatusOK, c.do(http.MethodPost, "/api/cart", fiber.Map{"productId": 1, "quantity": 2}, nil))
			require.Equal(t, fiber.StatusOK, c.do(http.MethodPost, "/api/cart", fiber.Map{"productId": 1, "quantity": 3}, nil))

			var cart cartBody
			require.Equal(t, fiber.StatusOK, c.do(http.MethodGet, "/api/cart", nil, &cart))
			require.Len(t, cart.Items, 1)
			assert.Equal(t, 5, cart.Items[0].Quantity)
			assert.Equal(t, "2549.00", cart.Items[0].Product.Price)
			assert.Equal(t, "12745.00", cart.Total)
			assert.Equal(t, 5, cart.Count)

			// Default quantity is one.
			require.Equal(t, fiber.StatusOK, c.do(http.MethodPost, "/api/cart", fiber.Map{"productId": 2}, nil))
			assert.Equal(t, fiber.StatusNotFound, c.do(http.MethodPost, "/api/cart", fiber.Map{"productId": 999}, nil))
			assert.Equal(t, fiber.StatusBadRequest, c.do(http.MethodPost, "/api/cart", fiber.Map{"productId": 1, "quantity": 0}, nil))

			itemID := cart.Items[0].ID
			path := fmt.Sprintf("/api/cart/%d", itemID)
			assert.Equal(t, fiber.StatusBadRequest, c.do(http.MethodPut, path, fiber.Map{"quantity": 0}, nil))
			require.Equal(t, fiber.StatusOK, c.do(http.MethodPut, path, fiber.Map{"quantity": 1}, nil))
			assert.Equal(t, fiber.StatusNotFound, c.do(http.MethodPut, "/api/cart/999", fiber.Map{"quantity": 1}, nil))

			require.Equal(t, fiber.StatusOK, c.do(http.MethodDelete, path, nil, nil))
			assert.Equal(t, fiber.StatusNotFound, c.do(http.MethodDelete, path, nil, nil))

			// Another session sees its own empty cart.
			other := &client{t: t, app: app}
			var otherCart cartBody
			require.Equal(t, fiber.StatusOK, other.do(http.MethodGet, "/api/cart", nil, &otherCart))
			assert.Empty(t, otherCart.Items)

			require.Equal(t, fiber.StatusOK, c.do(http.MethodDelete, "/api/cart", nil, nil))
			require.Equal(t, fiber.StatusOK, c.do(http.MethodDelete, "/api/cart", nil, nil))
			require.Equal(t, fiber.StatusOK, c.do(http.MethodGet, "/api/cart", nil, &cart))
			assert.Empty(t, cart.Items)
			assert.Equal(t, "0.00", cart.Total)
		})
	}
}

func TestCheckoutFlow(t *testing.T) {
	for name, app := range backings(t) {
		t.Run(name, func(t *testing.T) {
			c := &client{t: t, app: app}
			var reg authBody
			require.Equal(t, fiber.StatusOK, c.do(http.MethodPost, "/api/auth/register", fiber.Map{"name": "A", "email": "a@x.com", "password": "pw1"}, &reg))
			c.token = reg.SessionToken

			var e errorBody
			assert.Equal(t, fiber.StatusBadRequest, c.do(http.MethodPost, "/api/orders", checkout("10.00"), &e))
			assert.Equal(t, "Cart is empty", e.Message)
			var orders []orderBody
			require.Equal(t, fiber.StatusOK, c.do(http.MethodGet, "/api/orders", nil, &orders))
			assert.Empty(t, orders)

			require.Equal(t, fiber.StatusOK, c.do(http.MethodPost, "/api/cart", fiber.Map{"productId": 2, "quantity": 2}, nil))
			require.Equal(t, fiber.StatusOK, c.do(http.MethodPost, "/api/cart", fiber.Map{"productId": 8, "quantity": 1}, nil))

			bad := checkout("10.00")
			bad["email"] = "broken"
			assert.Equal(t, fiber.StatusBadRequest, c.do(http.MethodPost, "/api/orders", bad, &e))
			require.Len(t, e.Errors, 1)
			assert.Equal(t, "email", e.Errors[0].Field)

			// The submitted total includes shipping and is stored as given.
			var order orderBody
			require.Equal(t, fiber.StatusOK, c.do(http.MethodPost, "/api/orders", checkout("9247.00"), &order))
			assert.Equal(t, "pending", order.Status)
			assert.Equal(t, "9247.00", order.TotalAmount)

			var cart cartBody
			require.Equal(t, fiber.StatusOK, c.do(http.MethodGet, "/api/cart", nil, &cart))
			assert.Empty(t, cart.Items)

			var got orderBody
			require.Equal(t, fiber.StatusOK, c.do(http.MethodGet, fmt.Sprintf("/api/orders/%d", order.ID), nil, &got))
			require.Len(t, got.Items, 2)
			assert.Equal(t, uint(2), got.Items[0].ProductID)
			assert.Equal(t, 2, got.Items[0].Quantity)
			assert.Equal(t, "3299.00", got.Items[0].Price)
			assert.Equal(t, 1, got.Items[1].Quantity)

			require.Equal(t, fiber.StatusOK, c.do(http.MethodGet, "/api/orders", nil, &orders))
			assert.Len(t, orders, 1)

			// Other users cannot read it; anonymous visitors cannot list.
			other := &client{t: t, app: app}
			assert.Equal(t, fiber.StatusUnauthorized, other.do(http.MethodGet, "/api/orders", nil, nil))
			assert.Equal(t, fiber.StatusForbidden, other.do(http.MethodGet, fmt.Sprintf("/api/orders/%d", order.ID), nil, nil))
			var reg2 authBody
			require.Equal(t, fiber.StatusOK, other.do(http.MethodPost, "/api/auth/register", fiber.Map{"name": "B", "email": "b@x.com", "password": "pw2"}, &reg2))
			other.token = reg2.SessionToken
			assert.Equal(t, fiber.StatusForbidden, other.do(http.MethodGet, fmt.Sprintf("/api/orders/%d", order.ID), nil, nil))
			assert.Equal(t, fiber.StatusNotFound, c.do(http.MethodGet, "/api/orders/999", nil, nil))
		})
	}
}

func TestGuestCheckout(t *testing.T) {
	for name, app := range backings(t) {
		t.Run(name, func(t *testing.T) {
			c := &client{t: t, app: app}
			require.Equal(t, fiber.StatusOK, c.do(http.MethodPost, "/api/cart", fiber.Map{"productId": 1, "quantity": 1}, nil))

			// Cart subtotal 2549.00 plus 50.00 shipping.
			var order orderBody
			require.Equal(t, fiber.StatusOK, c.do(http.MethodPost, "/api/orders", checkout("2599.00"), &order))
			assert.Equal(t, "2599.00", order.TotalAmount)

			var got orderBody
			require.Equal(t, fiber.StatusOK, c.do(http.MethodGet, fmt.Sprintf("/api/orders/%d", order.ID), nil, &got))
			assert.Len(t, got.Items, 1)

			stranger := &client{t: t, app: app}
			assert.Equal(t, fiber.StatusForbidden, stranger.do(http.MethodGet, fmt.Sprintf("/api/orders/%d", order.ID), nil, nil))
		})
	}
}

func TestOrderStatusAdmin(t *testing.T) {
	for name, app := range backings(t) {
		t.Run(name, func(t *testing.T) {
			c := &client{t: t, app: app}
			require.Equal(t, fiber.StatusOK, c.do(http.MethodPost, "/api/cart", fiber.Map{"productId": 1, "quantity": 1}, nil))
			var order orderBody
			require.Equal(t, fiber.StatusOK, c.do(http.MethodPost, "/api/orders", checkout("2549.00"), &order))

			path := fmt.Sprintf("/api/orders/%d/status", order.ID)
			assert.Equal(t, fiber.StatusForbidden, c.do(http.MethodPatch, path, fiber.Map{"status": "shipped"}, nil))

			send := func(status string, out any) int {
				buf, _ := json.Marshal(fiber.Map{"status": status})
				req := httptest.NewRequest(http.MethodPatch, path, bytes.NewReader(buf))
				req.Header.Set("Content-Type", "application/json")
				req.Header.Set(middleware.HeaderAdminToken, adminToken)
				resp, err := app.Test(req, -1)
				require.NoError(t, err)
				defer resp.Body.Close()
				if out != nil {
					require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
				}
				return resp.StatusCode
			}

			var updated orderBody
			require.Equal(t, fiber.StatusOK, send("shipped", &updated))
			assert.Equal(t, "shipped", updated.Status)
			assert.Equal(t, fiber.StatusBadRequest, send("lost", nil))
		})
	}
}
