package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inventory_server/lib"
	"inventory_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProductClient(baseURL string, timeout time.Duration) (*ProductClient, *lib.Metrics) {
	metrics := lib.NewMetrics()
	cfg := &structs.ProductsConfig{
		BaseURL:         baseURL,
		Timeout:         timeout,
		MaxIdleConns:    2,
		IdleConnTimeout: time.Second,
	}
	return NewProductClient(gecho.NewDefaultLogger(), cfg, metrics), metrics
}

type capturedRequest struct {
	Method      string
	Path        string
	ContentType string
	RequestID   string
	Body        string
}

func captureServer(t *testing.T, status int, response string) (*httptest.Server, chan capturedRequest) {
	t.Helper()
	captured := make(chan capturedRequest, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		captured <- capturedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			ContentType: r.Header.Get("Content-Type"),
			RequestID:   r.Header.Get("X-Request-Id"),
			Body:        string(body),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(server.Close)

	return server, captured
}

func TestFetchProductsForwardsWholeQuery(t *testing.T) {
	response := `{"products": [{"id": "test-product-id-123", "name": "Test Product", "price": 150.0}]}`
	server, captured := captureServer(t, http.StatusOK, response)
	client, metrics := newTestProductClient(server.URL, time.Second)

	query := &structs.ProductQuery{Product: map[string]any{"id": "test-product-id-123"}}
	result, err := client.FetchProducts(context.Background(), query)
	require.NoError(t, err)

	assert.Equal(t, response, string(result))

	req := <-captured
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/api-products/product/", req.Path)
	assert.Equal(t, "application/json", req.ContentType)
	assert.NotEmpty(t, req.RequestID)
	assert.JSONEq(t, `{"product": {"id": "test-product-id-123"}}`, req.Body)

	assert.Equal(t, 1, testutil.CollectAndCount(metrics.DownstreamDuration))
}

func TestUpdateProductForwardsInnerMapping(t *testing.T) {
	server, captured := captureServer(t, http.StatusOK, `{"id":"p1","name":"Widget","price":9.99}`)
	client, _ := newTestProductClient(server.URL, time.Second)

	result, err := client.UpdateProduct(context.Background(), map[string]any{"id": "p1"})
	require.NoError(t, err)
	assert.Equal(t, `{"id":"p1","name":"Widget","price":9.99}`, string(result))

	req := <-captured
	assert.Equal(t, "/api-products/delete-product/", req.Path)
	assert.JSONEq(t, `{"id": "p1"}`, req.Body)
}

func TestRequestIDIsPropagated(t *testing.T) {
	server, captured := captureServer(t, http.StatusOK, `{}`)
	client, _ := newTestProductClient(server.URL, time.Second)

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-123")
	_, err := client.UpdateProduct(ctx, map[string]any{"id": "p1"})
	require.NoError(t, err)

	assert.Equal(t, "req-123", (<-captured).RequestID)
}

func TestDownstreamErrorStatus(t *testing.T) {
	server, _ := captureServer(t, http.StatusNotFound, `{"detail": "Not Found"}`)
	client, _ := newTestProductClient(server.URL, time.Second)

	_, err := client.FetchProducts(context.Background(), &structs.ProductQuery{Product: map[string]any{}})

	var opErr *lib.OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "Error fetching products", opErr.Context)
	assert.ErrorIs(t, err, lib.ErrDownstreamStatus)
	assert.Contains(t, err.Error(), "404")
}

func TestDownstreamInvalidJSON(t *testing.T) {
	for _, body := range []string{"<html>oops</html>", "", "{\"id\":"} {
		server, _ := captureServer(t, http.StatusOK, body)
		client, _ := newTestProductClient(server.URL, time.Second)

		_, err := client.UpdateProduct(context.Background(), map[string]any{"id": "p1"})

		var opErr *lib.OperationError
		require.ErrorAs(t, err, &opErr, body)
		assert.Equal(t, "Error updating product", opErr.Context)
		assert.ErrorIs(t, err, lib.ErrInvalidJSON)
	}
}

func TestDownstreamTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	client, _ := newTestProductClient(server.URL, 50*time.Millisecond)

	start := time.Now()
	_, err := client.FetchProducts(context.Background(), &structs.ProductQuery{Product: map[string]any{"id": "p1"}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Error fetching products: ")
	assert.Less(t, time.Since(start), time.Second)
}

func TestDownstreamUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client, _ := newTestProductClient(url, time.Second)
	_, err := client.UpdateProduct(context.Background(), map[string]any{"id": "p1"})

	var opErr *lib.OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "Error updating product", opErr.Context)
}

func TestResultIsStableAcrossCalls(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"products": []any{"a", "b"}, "count": 2})
	}))
	defer server.Close()

	client, _ := newTestProductClient(server.URL, time.Second)
	query := &structs.ProductQuery{Product: map[string]any{"id": "p1"}}

	first, err := client.FetchProducts(context.Background(), query)
	require.NoError(t, err)
	second, err := client.FetchProducts(context.Background(), query)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
