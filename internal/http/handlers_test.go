package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fjod/go_cart/storefront/internal/cartstore"
	"github.com/fjod/go_cart/storefront/internal/checkout"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestProducts_Paginates(t *testing.T) {
	handler := NewProductHandler(newCatalogMock(), 4, 5*time.Second, zap.NewNop())

	recorder := httptest.NewRecorder()
	handler.List(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/products?page=2", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	var resp ProductsResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	require.Len(t, resp.Products, 2)
	assert.Equal(t, int64(5), resp.Products[0].ID)
	assert.Equal(t, PagingInfo{CurrentPage: 2, ItemsPerPage: 4, TotalItems: 6, TotalPages: 2}, resp.PagingInfo)
}

func TestProducts_FiltersByCategory(t *testing.T) {
	handler := NewProductHandler(newCatalogMock(), 4, 5*time.Second, zap.NewNop())

	recorder := httptest.NewRecorder()
	handler.List(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/products?category=Soccer", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	var resp ProductsResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Len(t, resp.Products, 3)
	assert.Equal(t, "Soccer", resp.CurrentCategory)
	assert.Equal(t, 1, resp.PagingInfo.TotalPages)
}

func TestProducts_PageBeyondEndIsEmpty(t *testing.T) {
	handler := NewProductHandler(newCatalogMock(), 4, 5*time.Second, zap.NewNop())

	recorder := httptest.NewRecorder()
	handler.List(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/products?page=9", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"products":[]`)
}

func TestProducts_InvalidPage(t *testing.T) {
	handler := NewProductHandler(newCatalogMock(), 4, 5*time.Second, zap.NewNop())

	for _, page := range []string{"0", "-1", "x"} {
		recorder := httptest.NewRecorder()
		handler.List(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/products?page="+page, nil))
		assert.Equal(t, http.StatusBadRequest, recorder.Code, page)
	}
}

func TestProducts_CatalogError(t *testing.T) {
	catalog := newCatalogMock()
	catalog.err = errors.New("connection refused")
	handler := NewProductHandler(catalog, 4, 5*time.Second, zap.NewNop())

	recorder := httptest.NewRecorder()
	handler.Categories(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, "internal_error", resp.Code)
	assert.NotContains(t, resp.Error, "connection refused")
}

func TestCategories_Success(t *testing.T) {
	handler := NewProductHandler(newCatalogMock(), 4, 5*time.Second, zap.NewNop())

	recorder := httptest.NewRecorder()
	handler.Categories(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	var resp CategoriesResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, []string{"Chess", "Soccer", "Watersports"}, resp.Categories)
}

func TestGetCart_CorruptCart(t *testing.T) {
	carts := &CartStoreMock{resolveErr: fmt.Errorf("%w: unexpected end of JSON input", cartstore.ErrCorruptCart)}
	handler := NewCartHandler(carts, newCatalogMock(), 5*time.Second, zap.NewNop())

	recorder := httptest.NewRecorder()
	handler.GetCart(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, "corrupt_cart", resp.Code)
}

func TestAddItem_PersistFailure(t *testing.T) {
	carts := &CartStoreMock{persistErr: errors.New("redis timeout")}
	handler := NewCartHandler(carts, newCatalogMock(), 5*time.Second, zap.NewNop())

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewBufferString(`{"product_id":1}`))
	handler.AddItem(recorder, request)

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Nil(t, carts.cart)
}

func newCheckoutHandler(t *testing.T, svc CheckoutService) (*CheckoutHandler, *ServerMetrics) {
	t.Helper()
	metrics := NewServerMetrics(prometheus.NewRegistry())
	return NewCheckoutHandler(svc, metrics, 5*time.Second, zap.NewNop()), metrics
}

func TestCheckoutHandler_ServiceError(t *testing.T) {
	handler, metrics := newCheckoutHandler(t, CheckoutServiceMock{err: errors.New("database is down")})

	recorder := httptest.NewRecorder()
	handler.Checkout(recorder, httptest.NewRequest(http.MethodPost, "/api/v1/checkout", bytes.NewBufferString(`{}`)))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CheckoutOutcomes.WithLabelValues("error")))
}

func TestCheckoutHandler_CartNotClearedStillCreated(t *testing.T) {
	svc := CheckoutServiceMock{
		result: &checkout.Result{Status: checkout.StatusAccepted, OrderID: 7},
		err:    fmt.Errorf("%w: order 7: redis timeout", checkout.ErrCartNotCleared),
	}
	handler, metrics := newCheckoutHandler(t, svc)

	recorder := httptest.NewRecorder()
	handler.Checkout(recorder, httptest.NewRequest(http.MethodPost, "/api/v1/checkout", bytes.NewBufferString(`{}`)))

	require.Equal(t, http.StatusCreated, recorder.Code)
	var resp CheckoutResponseDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, int64(7), resp.OrderID)
	assert.False(t, resp.CartCleared)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CheckoutOutcomes.WithLabelValues("accepted")))
}

func TestCheckoutHandler_InvalidJSON(t *testing.T) {
	handler, _ := newCheckoutHandler(t, CheckoutServiceMock{})

	recorder := httptest.NewRecorder()
	handler.Checkout(recorder, httptest.NewRequest(http.MethodPost, "/api/v1/checkout", bytes.NewBufferString(`{`)))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestOrdersHandler_RepositoryError(t *testing.T) {
	orders := newOrderRepositoryMock()
	orders.err = errors.New("connection reset")
	handler := NewOrdersHandler(orders, 5*time.Second, zap.NewNop())

	recorder := httptest.NewRecorder()
	handler.ListOrders(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}
