package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"inventory_server/lib"
	"inventory_server/structs"
	"io"
	"net/http"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const (
	fetchProductsPath = "/api-products/product/"
	// The products service exposes the update under this path.
	updateProductPath = "/api-products/delete-product/"

	fetchProductsContext = "Error fetching products"
	updateProductContext = "Error updating product"
)

// ProductClient forwards inventory requests to the products microservice.
// Every call is a single POST; nothing is retried.
type ProductClient struct {
	logger  *gecho.Logger
	metrics *lib.Metrics
	baseURL string
	client  *http.Client
}

func NewProductClient(logger *gecho.Logger, cfg *structs.ProductsConfig, metrics *lib.Metrics) *ProductClient {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConns = cfg.MaxIdleConns
	transport.MaxIdleConnsPerHost = cfg.MaxIdleConns
	transport.IdleConnTimeout = cfg.IdleConnTimeout

	return &ProductClient{
		logger:  logger,
		metrics: metrics,
		baseURL: cfg.BaseURL,
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
	}
}

// FetchProducts posts the whole query to the products service and returns its
// JSON response untouched.
func (pc *ProductClient) FetchProducts(ctx context.Context, query *structs.ProductQuery) (json.RawMessage, error) {
	pc.logger.Info("Fetching products", gecho.Field("product", query.Product))

	data, err := pc.post(ctx, "fetch", fetchProductsPath, query)
	if err != nil {
		return nil, lib.NewOperationError(fetchProductsContext, err)
	}

	pc.logger.Info("Products fetched successfully", gecho.Field("bytes", len(data)))
	return data, nil
}

// UpdateProduct posts the product mapping to the products service and returns
// its JSON response untouched.
func (pc *ProductClient) UpdateProduct(ctx context.Context, product map[string]any) (json.RawMessage, error) {
	pc.logger.Info("Updating product", gecho.Field("product", product))

	data, err := pc.post(ctx, "update", updateProductPath, product)
	if err != nil {
		return nil, lib.NewOperationError(updateProductContext, err)
	}

	pc.logger.Info("Product updated successfully", gecho.Field("bytes", len(data)))
	return data, nil
}

func (pc *ProductClient) post(ctx context.Context, operation, path string, payload any) (data json.RawMessage, err error) {
	start := time.Now()
	defer func() {
		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		pc.metrics.DownstreamDuration.
			WithLabelValues(operation, outcome).
			Observe(time.Since(start).Seconds())
	}()

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, pc.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(middleware.RequestIDHeader, requestID(ctx))

	resp, err := pc.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", lib.ErrDownstreamStatus, resp.StatusCode)
	}

	raw = bytes.TrimSpace(raw)
	if !json.Valid(raw) {
		return nil, lib.ErrInvalidJSON
	}

	return json.RawMessage(raw), nil
}

// requestID reuses the inbound request id so both services log the same one.
func requestID(ctx context.Context) string {
	if id := middleware.GetReqID(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}
