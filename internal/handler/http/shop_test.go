package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/globaltire/storefront/internal/domain"
	"github.com/globaltire/storefront/internal/shop"
)

// stubProductFetcher serves a fixed snapshot, or an error.
type stubProductFetcher struct {
	products []domain.Product
	err      error
}

func (s *stubProductFetcher) FetchProducts(_ context.Context, _ url.Values) ([]domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.products, nil
}

func tireCatalog(n int) []domain.Product {
	products := make([]domain.Product, 0, n)
	for i := 1; i <= n; i++ {
		category := "summer"
		if i%2 == 0 {
			category = "winter"
		}
		products = append(products, domain.Product{
			ID:         int64(i),
			Name:       fmt.Sprintf("Tire %d", i),
			Categories: []domain.ProductCategory{{Slug: category, Name: category}},
		})
	}
	return products
}

func newShopTestHandler(t *testing.T, fetcher shop.ProductFetcher) *ShopHandler {
	t.Helper()
	return NewShopHandler(shop.NewController(fetcher, handlerTestLogger()), handlerTestLogger())
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) shop.View {
	t.Helper()
	var env struct {
		Data shop.View `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env.Data
}

func TestShopHandler_ReloadThenListing(t *testing.T) {
	h := newShopTestHandler(t, &stubProductFetcher{products: tireCatalog(45)})

	rec := httptest.NewRecorder()
	h.Reload(rec, httptest.NewRequest(http.MethodPost, "/api/shop/reload", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	view := decodeView(t, rec)
	assert.Equal(t, shop.StateReady, view.State)
	assert.Equal(t, 45, view.TotalItems)
	assert.Len(t, view.Products, shop.PageSize)
	assert.Equal(t, 3, view.Pagination.TotalPages)
}

func TestShopHandler_PageParameterMovesListing(t *testing.T) {
	h := newShopTestHandler(t, &stubProductFetcher{products: tireCatalog(45)})
	rec := httptest.NewRecorder()
	h.Reload(rec, httptest.NewRequest(http.MethodPost, "/api/shop/reload", nil))

	rec = httptest.NewRecorder()
	h.GetListing(rec, httptest.NewRequest(http.MethodGet, "/api/shop?page=3", nil))

	view := decodeView(t, rec)
	assert.Equal(t, 3, view.Pagination.Page)
	require.Len(t, view.Products, 5)
	assert.Equal(t, int64(41), view.Products[0].ID)
}

func TestShopHandler_NonNumericPageRejected(t *testing.T) {
	h := newShopTestHandler(t, &stubProductFetcher{products: tireCatalog(5)})

	rec := httptest.NewRecorder()
	h.GetListing(rec, httptest.NewRequest(http.MethodGet, "/api/shop?page=two", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestShopHandler_CategoryFilterResetsPage(t *testing.T) {
	h := newShopTestHandler(t, &stubProductFetcher{products: tireCatalog(45)})
	rec := httptest.NewRecorder()
	h.Reload(rec, httptest.NewRequest(http.MethodPost, "/api/shop/reload", nil))

	rec = httptest.NewRecorder()
	h.GetListing(rec, httptest.NewRequest(http.MethodGet, "/api/shop?page=2", nil))
	require.Equal(t, 2, decodeView(t, rec).Pagination.Page)

	rec = httptest.NewRecorder()
	h.GetListing(rec, httptest.NewRequest(http.MethodGet, "/api/shop?category=winter", nil))

	view := decodeView(t, rec)
	assert.Equal(t, "winter", view.Category)
	assert.Equal(t, 22, view.TotalItems)
	assert.Equal(t, 1, view.Pagination.Page)
}

func TestShopHandler_FailedReloadStillAnswers200(t *testing.T) {
	fetcher := &stubProductFetcher{err: fmt.Errorf("upstream unreachable")}
	h := newShopTestHandler(t, fetcher)

	rec := httptest.NewRecorder()
	h.Reload(rec, httptest.NewRequest(http.MethodPost, "/api/shop/reload", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	view := decodeView(t, rec)
	assert.Equal(t, shop.StateFailed, view.State)
	assert.Equal(t, "Could not load products.", view.Error)
}
