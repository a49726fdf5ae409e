package inventory

import (
	"inventory_server/handling"
	"inventory_server/lib"
	"inventory_server/structs"
	"net/http"
)

// FetchProducts handles POST /api-inventory/products/
func (irm *InventoryRoutesManager) FetchProducts(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.ProductQuery](r)
	if err != nil {
		handling.HandleError(err, irm.logger, w)
		return
	}

	result, err := irm.productClient.FetchProducts(r.Context(), body)
	if err != nil {
		handling.HandleError(err, irm.logger, w)
		return
	}

	lib.WriteResult(w, result)
}
