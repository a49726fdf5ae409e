package inventory

import (
	"context"
	"encoding/json"
	"inventory_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// ProductForwarder is the downstream side of the inventory routes.
type ProductForwarder interface {
	FetchProducts(ctx context.Context, query *structs.ProductQuery) (json.RawMessage, error)
	UpdateProduct(ctx context.Context, product map[string]any) (json.RawMessage, error)
}

type InventoryRoutesManager struct {
	logger        *gecho.Logger
	productClient ProductForwarder
}

func NewInventoryRoutesManager(logger *gecho.Logger, productClient ProductForwarder) *InventoryRoutesManager {
	return &InventoryRoutesManager{
		logger:        logger,
		productClient: productClient,
	}
}

func (irm *InventoryRoutesManager) RegisterRoutes(r chi.Router) {
	r.Post("/products/", irm.FetchProducts)
	r.Post("/update-product/", irm.UpdateProduct)
}
