package inventory

import (
	"inventory_server/handling"
	"inventory_server/lib"
	"inventory_server/structs"
	"net/http"
)

// UpdateProduct handles POST /api-inventory/update-product/. Only the inner
// product mapping is sent downstream.
func (irm *InventoryRoutesManager) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.ProductQuery](r)
	if err != nil {
		handling.HandleError(err, irm.logger, w)
		return
	}

	result, err := irm.productClient.UpdateProduct(r.Context(), body.Product)
	if err != nil {
		handling.HandleError(err, irm.logger, w)
		return
	}

	lib.WriteResult(w, result)
}
