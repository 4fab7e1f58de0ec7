package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/auth"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/cart"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/catalog"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/checkout"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/domain"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/events"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/newsletter"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/orders"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/payment"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/store"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/view"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/wishlist"
)

type stubGateway struct{}

func (stubGateway) Initialize(_ context.Context, req payment.ChargeRequest) (*payment.Handoff, error) {
	return &payment.Handoff{
		AuthorizationURL: "https://checkout.paystack.com/stub",
		AccessCode:       "stub",
		Reference:        req.Reference,
	}, nil
}

type testApp struct {
	server *httptest.Server
	cart   *cart.Manager
	orders *orders.Repository
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	st := store.NewMemory()
	bus := events.New()

	cartManager := cart.NewManager(st, bus)
	editor := cart.NewQuantityEditor(cartManager, 10*time.Millisecond)
	t.Cleanup(editor.Close)

	wishlistManager := wishlist.NewManager(st, bus, cartManager)
	repo := orders.NewRepository(st, bus)

	adapter := payment.NewAdapter(cartManager, stubGateway{}, payment.Config{MerchantKey: "pk_test_x"})
	orch := checkout.NewOrchestrator(cartManager, repo, adapter)
	adapter.SetFinalizer(orch)

	cat := catalog.New([]domain.Product{
		{ID: "shea-butter", Name: "Shea Butter Cream", Price: decimal.NewFromInt(5000)},
		{ID: "body-oil", Name: "Glow Body Oil", Price: decimal.NewFromInt(7500)},
	})

	fragments := view.NewFragmentCache(bus, cartManager, wishlistManager)
	t.Cleanup(fragments.Close)

	router := NewRouter(Handlers{
		Cart:       NewCartHandler(cartManager, editor, cat),
		Wishlist:   NewWishlistHandler(wishlistManager, cat),
		Checkout:   NewCheckoutHandler(orch, adapter),
		Auth:       NewAuthHandler(auth.NewManager(st, bus)),
		Storefront: NewStorefrontHandler(cat, newsletter.NewManager(st, bus), fragments),
	}, 5*time.Second)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testApp{server: server, cart: cartManager, orders: repo}
}

func (a *testApp) do(t *testing.T, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, a.server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		decoded = nil
	}
	return resp, decoded
}

func (a *testApp) addToCart(t *testing.T, productID string, quantity int) {
	t.Helper()
	resp, _ := a.do(t, http.MethodPost, "/api/cart/items", map[string]any{"product_id": productID, "quantity": quantity})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestCartEndpoints(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.do(t, http.MethodGet, "/api/cart", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), body["itemCount"])

	resp, _ = app.do(t, http.MethodPost, "/api/cart/items", map[string]any{"product_id": "charcoal-mask", "quantity": 1})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	app.addToCart(t, "shea-butter", 2)
	app.addToCart(t, "shea-butter", 3)

	resp, body = app.do(t, http.MethodGet, "/api/cart", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(5), body["itemCount"])
	assert.Len(t, body["items"], 1)

	resp, _ = app.do(t, http.MethodDelete, "/api/cart/items/shea-butter", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = app.do(t, http.MethodGet, "/api/cart", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), body["itemCount"])
}

func TestCartQuantityUpdate_CoercesAndDebounces(t *testing.T) {
	app := newTestApp(t)
	app.addToCart(t, "shea-butter", 2)

	resp, _ := app.do(t, http.MethodPut, "/api/cart/items/shea-butter", map[string]any{"quantity": "7"})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	assert.Eventually(t, func() bool {
		return app.cart.ItemCount(context.Background()) == 7
	}, time.Second, 5*time.Millisecond)

	// Unparseable input coerces to 1.
	resp, _ = app.do(t, http.MethodPut, "/api/cart/items/shea-butter", map[string]any{"quantity": "abc"})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	assert.Eventually(t, func() bool {
		return app.cart.ItemCount(context.Background()) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestWishlistEndpoints(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.do(t, http.MethodPost, "/api/wishlist/toggle", map[string]any{"product_id": "body-oil"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["added"])
	assert.Equal(t, float64(1), body["count"])

	resp, body = app.do(t, http.MethodPost, "/api/wishlist/toggle", map[string]any{"product_id": "body-oil"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["added"])
	assert.Equal(t, float64(0), body["count"])

	resp, _ = app.do(t, http.MethodPost, "/api/wishlist/body-oil/move-to-cart", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	app.do(t, http.MethodPost, "/api/wishlist/toggle", map[string]any{"product_id": "body-oil"})
	resp, _ = app.do(t, http.MethodPost, "/api/wishlist/body-oil/move-to-cart", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, app.cart.ItemCount(context.Background()))
}

func TestCheckout_PayOnDelivery(t *testing.T) {
	app := newTestApp(t)

	resp, _ := app.do(t, http.MethodPost, "/api/checkout/begin", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	app.addToCart(t, "shea-butter", 2)

	resp, _ = app.do(t, http.MethodPost, "/api/checkout/begin", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = app.do(t, http.MethodPost, "/api/checkout/method", map[string]any{"method": "pay_on_delivery"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := app.do(t, http.MethodPost, "/api/checkout/submit", map[string]any{
		"email": "ada@example.com", "acceptTerms": true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "COMPLETED", body["status"])
	assert.Contains(t, body["redirect"], "order=success")

	require.Len(t, app.orders.List(context.Background()), 1)
	assert.Equal(t, 0, app.cart.ItemCount(context.Background()))
}

func TestCheckout_ValidationFailure(t *testing.T) {
	app := newTestApp(t)
	app.addToCart(t, "shea-butter", 1)
	app.do(t, http.MethodPost, "/api/checkout/method", map[string]any{"method": "pay_on_delivery"})

	resp, body := app.do(t, http.MethodPost, "/api/checkout/submit", map[string]any{
		"email": "not-an-email", "acceptTerms": true,
	})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "email", body["field"])
}

func TestCheckout_PaystackFlow(t *testing.T) {
	app := newTestApp(t)
	app.addToCart(t, "shea-butter", 2)

	app.do(t, http.MethodPost, "/api/checkout/method", map[string]any{"method": "paystack"})

	resp, body := app.do(t, http.MethodPost, "/api/checkout/submit", map[string]any{
		"email": "ada@example.com", "acceptTerms": true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["pendingExternal"])
	assert.Equal(t, "https://checkout.paystack.com/stub", body["authorizationUrl"])
	reference, ok := body["reference"].(string)
	require.True(t, ok)

	// Nothing final before the callback.
	assert.Empty(t, app.orders.List(context.Background()))
	assert.Equal(t, 2, app.cart.ItemCount(context.Background()))

	resp, body = app.do(t, http.MethodPost, "/api/checkout/paystack/success", map[string]any{"reference": reference})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	order := body["order"].(map[string]any)
	assert.Equal(t, "paid", order["status"])
	assert.Equal(t, reference, order["paymentReference"])

	assert.Equal(t, 0, app.cart.ItemCount(context.Background()))
	require.Len(t, app.orders.List(context.Background()), 1)

	resp, _ = app.do(t, http.MethodPost, "/api/checkout/paystack/success", map[string]any{"reference": reference})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestCheckout_PaystackClose(t *testing.T) {
	app := newTestApp(t)
	app.addToCart(t, "shea-butter", 2)
	app.do(t, http.MethodPost, "/api/checkout/method", map[string]any{"method": "paystack"})
	app.do(t, http.MethodPost, "/api/checkout/submit", map[string]any{"email": "ada@example.com", "acceptTerms": true})

	resp, body := app.do(t, http.MethodPost, "/api/checkout/paystack/close", nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "FAILED", body["status"])
	assert.Equal(t, 2, app.cart.ItemCount(context.Background()))
	assert.Empty(t, app.orders.List(context.Background()))
}

func TestAuthEndpoints(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.do(t, http.MethodPost, "/api/auth/register", map[string]any{"email": "ada@example.com", "password": "secret1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "index.html", body["redirect"])

	resp, _ = app.do(t, http.MethodPost, "/api/auth/register", map[string]any{"email": "ada@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = app.do(t, http.MethodPost, "/api/auth/login", map[string]any{"email": "ada@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = app.do(t, http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotNil(t, body["user"])

	resp, _ = app.do(t, http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, body = app.do(t, http.MethodGet, "/api/auth/me", nil)
	assert.Nil(t, body["user"])
}

func TestNewsletterEndpoint(t *testing.T) {
	app := newTestApp(t)

	resp, _ := app.do(t, http.MethodPost, "/api/newsletter", map[string]any{"email": "ada@example.com"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = app.do(t, http.MethodPost, "/api/newsletter", map[string]any{"email": "ada@example.com"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = app.do(t, http.MethodPost, "/api/newsletter", map[string]any{"email": "nope"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestProductSearchEndpoint(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.do(t, http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), body["count"])

	resp, body = app.do(t, http.MethodGet, "/api/products?query=oil", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["count"])
}

func TestFragmentEndpoint(t *testing.T) {
	app := newTestApp(t)
	app.addToCart(t, "shea-butter", 2)

	resp, err := app.server.Client().Get(app.server.URL + "/fragments/mini-cart")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Shea Butter Cream")

	resp, err = app.server.Client().Get(app.server.URL + "/fragments/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
